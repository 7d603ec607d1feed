package section

import (
	"fmt"

	"github.com/arloliu/msyt/endian"
	"github.com/arloliu/msyt/errs"
)

// StyleTable is the decoded form of a TSY1 block: one uint32 style index per
// entry, in entry order.
type StyleTable struct {
	Styles []uint32
}

// ParseStyleTable decodes a TSY1 payload.
//
// Returns errs.ErrInvalidStyleTable if the payload is not exactly four bytes per entry.
func ParseStyleTable(payload []byte, engine endian.EndianEngine, entryCount int) (*StyleTable, error) {
	if int64(len(payload)) != int64(entryCount)*4 {
		return nil, fmt.Errorf("%w: %d bytes for %d entries", errs.ErrInvalidStyleTable, len(payload), entryCount)
	}

	table := &StyleTable{Styles: make([]uint32, entryCount)}
	for i := range table.Styles {
		table.Styles[i] = engine.Uint32(payload[i*4 : i*4+4])
	}

	return table, nil
}

// Bytes serializes the style table.
func (t *StyleTable) Bytes(engine endian.EndianEngine) []byte {
	b := make([]byte, 0, len(t.Styles)*4)
	for _, style := range t.Styles {
		b = engine.AppendUint32(b, style)
	}

	return b
}
