package section

import (
	"fmt"

	"github.com/arloliu/msyt/endian"
	"github.com/arloliu/msyt/errs"
	"github.com/arloliu/msyt/internal/pool"
)

// AttributeTable is the decoded form of an ATR1 block.
//
// Layout:
//
//	uint32          record count N (equals the entry count)
//	uint32          record size S
//	N × S bytes     one opaque record per entry, in entry order
//	...             trailing bytes, kept in Extra
//
// Records are game-defined and never interpreted.
type AttributeTable struct {
	// RecordSize is the width of every record in bytes.
	RecordSize uint32
	// Records holds one record per entry.
	Records [][]byte
	// Extra holds any bytes after the last record. Some games store strings
	// referenced by the records there.
	Extra []byte
}

// ParseAttributeTable decodes an ATR1 payload. Records are copied out of payload.
//
// Returns errs.ErrInvalidAttributeTable if the payload is truncated or the
// record count differs from entryCount.
func ParseAttributeTable(payload []byte, engine endian.EndianEngine, entryCount int) (*AttributeTable, error) {
	if len(payload) < 8 {
		return nil, fmt.Errorf("%w: payload is %d bytes", errs.ErrInvalidAttributeTable, len(payload))
	}

	count := int64(engine.Uint32(payload[0:4]))
	size := int64(engine.Uint32(payload[4:8]))

	if count != int64(entryCount) {
		return nil, fmt.Errorf("%w: %d records for %d entries", errs.ErrInvalidAttributeTable, count, entryCount)
	}

	end := 8 + count*size
	if end > int64(len(payload)) {
		return nil, fmt.Errorf("%w: %d records of %d bytes exceed payload of %d bytes",
			errs.ErrInvalidAttributeTable, count, size, len(payload))
	}

	table := &AttributeTable{
		RecordSize: uint32(size), //nolint:gosec
		Records:    make([][]byte, count),
	}

	for i := range table.Records {
		start := 8 + int64(i)*size
		table.Records[i] = cloneBytes(payload[start : start+size])
	}

	if end < int64(len(payload)) {
		table.Extra = cloneBytes(payload[end:])
	}

	return table, nil
}

// Bytes serializes the attribute table.
//
// Returns errs.ErrAttributeSizeMismatch if a record is not RecordSize bytes long.
func (t *AttributeTable) Bytes(engine endian.EndianEngine) ([]byte, error) {
	buf := pool.GetContainerBuffer()
	defer pool.PutContainerBuffer(buf)

	buf.WriteUint32(engine, uint32(len(t.Records))) //nolint:gosec
	buf.WriteUint32(engine, t.RecordSize)

	total := 8 + int64(len(t.Records))*int64(t.RecordSize) + int64(len(t.Extra))
	if total > MaxPayloadSize {
		return nil, fmt.Errorf("%w: attribute table would be %d bytes", errs.ErrOffsetOverflow, total)
	}
	buf.Grow(int(total))

	for i, record := range t.Records {
		if int64(len(record)) != int64(t.RecordSize) {
			return nil, fmt.Errorf("%w: entry %d has %d bytes, file uses %d",
				errs.ErrAttributeSizeMismatch, i, len(record), t.RecordSize)
		}
		buf.MustWrite(record)
	}

	buf.MustWrite(t.Extra)

	return buf.Clone(), nil
}

func cloneBytes(b []byte) []byte {
	if b == nil {
		return nil
	}

	out := make([]byte, len(b))
	copy(out, b)

	return out
}
