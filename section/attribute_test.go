package section

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/arloliu/msyt/endian"
	"github.com/arloliu/msyt/errs"
)

func TestAttributeTable_RoundTrip(t *testing.T) {
	engine := endian.GetBigEndianEngine()

	table := &AttributeTable{
		RecordSize: 4,
		Records: [][]byte{
			{0x01, 0x02, 0x03, 0x04},
			{0x00, 0x00, 0x00, 0x00},
		},
		Extra: []byte("Armor\x00"),
	}

	payload, err := table.Bytes(engine)
	require.NoError(t, err)
	require.Equal(t, []byte{0, 0, 0, 2, 0, 0, 0, 4}, payload[:8])
	require.Len(t, payload, 8+8+6)

	parsed, err := ParseAttributeTable(payload, engine, 2)
	require.NoError(t, err)
	require.Equal(t, table, parsed)

	// Records must not alias the payload.
	payload[8] = 0xFF
	require.Equal(t, byte(0x01), parsed.Records[0][0])
}

func TestAttributeTable_ZeroSize(t *testing.T) {
	engine := endian.GetLittleEndianEngine()

	table := &AttributeTable{Records: [][]byte{{}, {}, {}}}
	payload, err := table.Bytes(engine)
	require.NoError(t, err)
	require.Equal(t, []byte{3, 0, 0, 0, 0, 0, 0, 0}, payload)

	parsed, err := ParseAttributeTable(payload, engine, 3)
	require.NoError(t, err)
	require.Len(t, parsed.Records, 3)
	require.Nil(t, parsed.Extra)
}

func TestParseAttributeTable_Errors(t *testing.T) {
	engine := endian.GetLittleEndianEngine()

	t.Run("Short payload", func(t *testing.T) {
		_, err := ParseAttributeTable([]byte{1, 0, 0}, engine, 1)
		require.ErrorIs(t, err, errs.ErrInvalidAttributeTable)
		require.ErrorIs(t, err, errs.ErrFormat)
	})

	t.Run("Count differs from entry count", func(t *testing.T) {
		payload := []byte{2, 0, 0, 0, 1, 0, 0, 0, 0xAA, 0xBB}
		_, err := ParseAttributeTable(payload, engine, 3)
		require.ErrorIs(t, err, errs.ErrInvalidAttributeTable)
	})

	t.Run("Records past payload end", func(t *testing.T) {
		payload := []byte{2, 0, 0, 0, 4, 0, 0, 0, 1, 2, 3, 4}
		_, err := ParseAttributeTable(payload, engine, 2)
		require.ErrorIs(t, err, errs.ErrInvalidAttributeTable)
	})
}

func TestAttributeTable_SizeMismatch(t *testing.T) {
	table := &AttributeTable{
		RecordSize: 4,
		Records:    [][]byte{{1, 2, 3, 4}, {1, 2}},
	}

	_, err := table.Bytes(endian.GetLittleEndianEngine())
	require.ErrorIs(t, err, errs.ErrAttributeSizeMismatch)
	require.ErrorIs(t, err, errs.ErrEncode)
}
