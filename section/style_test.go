package section

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/arloliu/msyt/endian"
	"github.com/arloliu/msyt/errs"
)

func TestStyleTable(t *testing.T) {
	engine := endian.GetBigEndianEngine()
	table := &StyleTable{Styles: []uint32{0, 7, 0xFFFFFFFF}}

	payload := table.Bytes(engine)
	require.Equal(t, []byte{0, 0, 0, 0, 0, 0, 0, 7, 0xFF, 0xFF, 0xFF, 0xFF}, payload)

	parsed, err := ParseStyleTable(payload, engine, 3)
	require.NoError(t, err)
	require.Equal(t, table, parsed)

	_, err = ParseStyleTable(payload, engine, 2)
	require.ErrorIs(t, err, errs.ErrInvalidStyleTable)
	require.ErrorIs(t, err, errs.ErrFormat)

	_, err = ParseStyleTable(payload[:11], engine, 3)
	require.ErrorIs(t, err, errs.ErrInvalidStyleTable)
}
