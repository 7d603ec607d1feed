package section

import (
	"errors"
	"fmt"
	"slices"
	"unicode/utf8"

	"github.com/arloliu/msyt/endian"
	"github.com/arloliu/msyt/errs"
	"github.com/arloliu/msyt/internal/collision"
	"github.com/arloliu/msyt/internal/hash"
	"github.com/arloliu/msyt/internal/pool"
)

// LabelBucketSizes is the growth table of bucket counts used when a label
// table is built without an explicit or inherited bucket count.
var LabelBucketSizes = []uint32{101, 211, 307, 401, 503, 1009, 2003, 4001, 8009, 16001, 32003, 65521}

// MaxAverageBucketDepth is the largest average number of labels per bucket
// DefaultLabelBuckets tolerates before moving to the next table size.
const MaxAverageBucketDepth = 8

// LabelRecord is one label of the label table.
type LabelRecord struct {
	// Name is the label string.
	Name string
	// Index is the entry index in the text table.
	Index uint32
}

// LabelTable is the decoded form of an LBL1 block.
//
// Layout:
//
//	uint32                     bucket count B
//	B × (uint32, uint32)       label count and payload offset of each bucket
//	labels                     uint8 length, name bytes, uint32 entry index
//
// Buckets holds the labels of each bucket in table order.
type LabelTable struct {
	Buckets [][]LabelRecord
}

// DefaultLabelBuckets returns the smallest LabelBucketSizes value whose
// average depth for n labels does not exceed MaxAverageBucketDepth.
func DefaultLabelBuckets(n int) uint32 {
	for _, size := range LabelBucketSizes {
		if n <= int(size)*MaxAverageBucketDepth {
			return size
		}
	}

	return LabelBucketSizes[len(LabelBucketSizes)-1]
}

// BuildLabelTable computes the label table of labels, where labels[i] names
// entry i.
//
// Every label lands in bucket hash.Bucket(label, buckets). Inside a bucket,
// labels are ordered by their position in hint, then by entry index for
// labels hint does not mention. A nil hint yields pure entry order.
//
// A table without labels may have zero buckets.
//
// Returns:
//   - errs.ErrInvalidBucketCount if buckets is zero while labels is not empty, or above MaxLabelBuckets
//   - errs.ErrInvalidLabel or errs.ErrDuplicateLabel from label validation
func BuildLabelTable(labels []string, buckets uint32, hint []string) (*LabelTable, error) {
	if (buckets == 0 && len(labels) > 0) || buckets > MaxLabelBuckets {
		return nil, fmt.Errorf("%w: %d", errs.ErrInvalidBucketCount, buckets)
	}

	tracker := collision.NewTracker(len(labels))
	for i, label := range labels {
		if err := tracker.TrackLabel(label, i); err != nil {
			if errors.Is(err, collision.ErrInvalidLength) {
				return nil, fmt.Errorf("%w: %w", errs.ErrInvalidLabel, err)
			}

			return nil, fmt.Errorf("%w: %w", errs.ErrDuplicateLabel, err)
		}
	}

	rank := make(map[string]int, len(hint))
	for i, label := range hint {
		if _, seen := rank[label]; !seen {
			rank[label] = i
		}
	}
	position := func(label string, index int) int {
		if r, ok := rank[label]; ok {
			return r
		}

		return len(hint) + index
	}

	table := &LabelTable{Buckets: make([][]LabelRecord, buckets)}
	for i, label := range labels {
		b := hash.Bucket(label, buckets)
		table.Buckets[b] = append(table.Buckets[b], LabelRecord{Name: label, Index: uint32(i)}) //nolint:gosec
	}

	for _, bucket := range table.Buckets {
		slices.SortStableFunc(bucket, func(a, b LabelRecord) int {
			return position(a.Name, int(a.Index)) - position(b.Name, int(b.Index))
		})
	}

	return table, nil
}

// ParseLabelTable decodes an LBL1 payload.
//
// entryCount is the number of entries in the text table; every entry must
// carry exactly one label.
//
// Returns:
//   - errs.ErrInvalidLabelTable if the payload is truncated or a bucket offset is out of range
//   - errs.ErrIndexOutOfRange if a label points past the last entry
//   - errs.ErrLabelConflict if a label repeats or an entry is labelled zero or several times
func ParseLabelTable(payload []byte, engine endian.EndianEngine, entryCount int) (*LabelTable, error) {
	if len(payload) < 4 {
		return nil, fmt.Errorf("%w: payload is %d bytes", errs.ErrInvalidLabelTable, len(payload))
	}

	bucketCount := int64(engine.Uint32(payload[0:4]))
	if bucketCount*8+4 > int64(len(payload)) {
		return nil, fmt.Errorf("%w: %d buckets do not fit in %d bytes",
			errs.ErrInvalidLabelTable, bucketCount, len(payload))
	}

	table := &LabelTable{Buckets: make([][]LabelRecord, bucketCount)}
	tracker := collision.NewTracker(entryCount)

	for b := range table.Buckets {
		entry := 4 + b*8
		count := int(engine.Uint32(payload[entry : entry+4]))
		offset := int64(engine.Uint32(payload[entry+4 : entry+8]))

		records, err := parseLabelRecords(payload, engine, offset, count)
		if err != nil {
			return nil, fmt.Errorf("bucket %d: %w", b, err)
		}

		for _, rec := range records {
			if int64(rec.Index) >= int64(entryCount) {
				return nil, fmt.Errorf("%w: label %q points to entry %d of %d",
					errs.ErrIndexOutOfRange, rec.Name, rec.Index, entryCount)
			}
			if err := tracker.TrackLabel(rec.Name, int(rec.Index)); err != nil {
				return nil, fmt.Errorf("%w: %w", errs.ErrLabelConflict, err)
			}
		}

		table.Buckets[b] = records
	}

	if tracker.Count() != entryCount {
		for i := 0; i < entryCount; i++ {
			if _, ok := tracker.Label(i); !ok {
				return nil, fmt.Errorf("%w: entry %d has no label", errs.ErrLabelConflict, i)
			}
		}
	}

	return table, nil
}

func parseLabelRecords(payload []byte, engine endian.EndianEngine, offset int64, count int) ([]LabelRecord, error) {
	if offset > int64(len(payload)) {
		return nil, fmt.Errorf("%w: offset 0x%X past payload end 0x%X",
			errs.ErrInvalidLabelTable, offset, len(payload))
	}

	pos := int(offset)
	records := make([]LabelRecord, 0, min(count, len(payload)))
	for i := 0; i < count; i++ {
		if pos >= len(payload) {
			return nil, fmt.Errorf("%w: label %d truncated", errs.ErrInvalidLabelTable, i)
		}

		size := int(payload[pos])
		if len(payload)-pos-1 < size+4 {
			return nil, fmt.Errorf("%w: label %d truncated", errs.ErrInvalidLabelTable, i)
		}

		name := payload[pos+1 : pos+1+size]
		if !utf8.Valid(name) {
			return nil, fmt.Errorf("%w: label %d is not valid UTF-8", errs.ErrInvalidLabelTable, i)
		}

		records = append(records, LabelRecord{
			Name:  string(name),
			Index: engine.Uint32(payload[pos+1+size : pos+5+size]),
		})
		pos += 5 + size
	}

	return records, nil
}

// BucketCount returns the number of buckets.
func (t *LabelTable) BucketCount() uint32 {
	return uint32(len(t.Buckets)) //nolint:gosec
}

// Records returns all labels in table order: bucket by bucket, each bucket in its stored order.
func (t *LabelTable) Records() []LabelRecord {
	var out []LabelRecord
	for _, bucket := range t.Buckets {
		out = append(out, bucket...)
	}

	return out
}

// Names returns the label names in table order.
func (t *LabelTable) Names() []string {
	records := t.Records()
	names := make([]string, len(records))
	for i, rec := range records {
		names[i] = rec.Name
	}

	return names
}

// LabelsByIndex returns a slice whose element i is the label of entry i.
func (t *LabelTable) LabelsByIndex(entryCount int) []string {
	labels := make([]string, entryCount)
	for _, bucket := range t.Buckets {
		for _, rec := range bucket {
			if int(rec.Index) < entryCount {
				labels[rec.Index] = rec.Name
			}
		}
	}

	return labels
}

// Bytes serializes the label table with contiguous bucket offsets.
func (t *LabelTable) Bytes(engine endian.EndianEngine) ([]byte, error) {
	buf := pool.GetContainerBuffer()
	defer pool.PutContainerBuffer(buf)

	buf.WriteUint32(engine, t.BucketCount())

	offset := 4 + 8*len(t.Buckets)
	for _, bucket := range t.Buckets {
		buf.WriteUint32(engine, uint32(len(bucket))) //nolint:gosec
		buf.WriteUint32(engine, uint32(offset))      //nolint:gosec
		for _, rec := range bucket {
			if rec.Name == "" || len(rec.Name) > MaxLabelLength {
				return nil, fmt.Errorf("%w: %q must be 1-%d bytes", errs.ErrInvalidLabel, rec.Name, MaxLabelLength)
			}
			offset += 5 + len(rec.Name)
		}
	}

	if int64(offset) > MaxPayloadSize {
		return nil, fmt.Errorf("%w: label table would be %d bytes", errs.ErrOffsetOverflow, offset)
	}

	for _, bucket := range t.Buckets {
		for _, rec := range bucket {
			_ = buf.WriteByte(byte(len(rec.Name)))
			buf.WriteString(rec.Name)
			buf.WriteUint32(engine, rec.Index)
		}
	}

	return buf.Clone(), nil
}
