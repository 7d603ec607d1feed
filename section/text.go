package section

import (
	"fmt"

	"github.com/arloliu/msyt/endian"
	"github.com/arloliu/msyt/errs"
	"github.com/arloliu/msyt/format"
	"github.com/arloliu/msyt/internal/pool"
)

// TextTable is the decoded form of a TXT2 block.
//
// Layout:
//
//	uint32          string count N
//	N × uint32      byte offset of each string, relative to the payload start
//	strings         code unit runs, each ending with one NUL code unit
//
// String i spans from its offset to the next string's offset, the last one to
// the end of the payload. Runs holds the raw code units of every string with
// the terminator stripped; tokenizing them is left to package encoding.
type TextTable struct {
	Runs [][]byte
}

// ParseTextTable decodes a TXT2 payload. Runs are copied out of payload.
//
// Returns:
//   - errs.ErrInvalidTextTable if the payload is truncated, the offsets are out of
//     range or out of order, or a UTF-16 string has an odd byte length
//   - errs.ErrUnterminatedString if a string does not end with a NUL code unit
func ParseTextTable(payload []byte, engine endian.EndianEngine, encoding format.TextEncoding) (*TextTable, error) {
	if len(payload) < 4 {
		return nil, fmt.Errorf("%w: payload is %d bytes", errs.ErrInvalidTextTable, len(payload))
	}

	count := int64(engine.Uint32(payload[0:4]))
	first := 4 + count*4
	if first > int64(len(payload)) {
		return nil, fmt.Errorf("%w: %d offsets do not fit in %d bytes", errs.ErrInvalidTextTable, count, len(payload))
	}

	offsets, release := pool.GetOffsetSlice(int(count) + 1)
	defer release()
	for i := 0; i < int(count); i++ {
		offsets[i] = int(engine.Uint32(payload[4+i*4 : 8+i*4]))
	}
	offsets[count] = len(payload)

	if count > 0 && int64(offsets[0]) != first {
		return nil, fmt.Errorf("%w: first string at 0x%X, expected 0x%X", errs.ErrInvalidTextTable, offsets[0], first)
	}
	if count == 0 && first != int64(len(payload)) {
		return nil, fmt.Errorf("%w: %d bytes after an empty offset table",
			errs.ErrInvalidTextTable, int64(len(payload))-first)
	}

	unit := encoding.UnitSize()
	table := &TextTable{Runs: make([][]byte, count)}

	for i := range table.Runs {
		start, end := offsets[i], offsets[i+1]
		if end < start || end > len(payload) {
			return nil, fmt.Errorf("%w: string %d spans 0x%X-0x%X of 0x%X",
				errs.ErrInvalidTextTable, i, start, end, len(payload))
		}

		raw := payload[start:end]
		if len(raw)%unit != 0 {
			return nil, fmt.Errorf("%w: string %d has odd length %d", errs.ErrInvalidTextTable, i, len(raw))
		}
		if len(raw) < unit || !isZero(raw[len(raw)-unit:]) {
			return nil, fmt.Errorf("%w: string %d", errs.ErrUnterminatedString, i)
		}

		table.Runs[i] = cloneBytes(raw[:len(raw)-unit])
	}

	return table, nil
}

// Bytes serializes the text table, appending one terminator to every run and
// recomputing offsets.
//
// Returns errs.ErrOffsetOverflow if an offset or the payload exceeds 32 bits.
func (t *TextTable) Bytes(engine endian.EndianEngine, encoding format.TextEncoding) ([]byte, error) {
	unit := encoding.UnitSize()

	total := int64(4 + 4*len(t.Runs))
	for _, run := range t.Runs {
		total += int64(len(run) + unit)
	}
	if total > MaxPayloadSize {
		return nil, fmt.Errorf("%w: text table would be %d bytes", errs.ErrOffsetOverflow, total)
	}

	buf := pool.GetContainerBuffer()
	defer pool.PutContainerBuffer(buf)
	buf.Grow(int(total))

	buf.WriteUint32(engine, uint32(len(t.Runs))) //nolint:gosec

	offset := 4 + 4*len(t.Runs)
	for _, run := range t.Runs {
		buf.WriteUint32(engine, uint32(offset)) //nolint:gosec
		offset += len(run) + unit
	}

	for _, run := range t.Runs {
		buf.MustWrite(run)
		for range unit {
			_ = buf.WriteByte(0)
		}
	}

	return buf.Clone(), nil
}

func isZero(b []byte) bool {
	for _, c := range b {
		if c != 0 {
			return false
		}
	}

	return true
}
