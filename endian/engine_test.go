package endian

import (
	"encoding/binary"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestGetLittleEndianEngine(t *testing.T) {
	engine := GetLittleEndianEngine()

	require.Implements(t, (*EndianEngine)(nil), engine)
	require.Equal(t, binary.LittleEndian, engine)

	var testValue uint16 = 0x0102
	bytes := make([]byte, 2)
	engine.PutUint16(bytes, testValue)
	// Little endian should put LSB first
	require.Equal(t, byte(0x02), bytes[0])
	require.Equal(t, byte(0x01), bytes[1])
	require.Equal(t, testValue, engine.Uint16(bytes))
}

func TestGetBigEndianEngine(t *testing.T) {
	engine := GetBigEndianEngine()

	require.Implements(t, (*EndianEngine)(nil), engine)
	require.Equal(t, binary.BigEndian, engine)

	var testValue uint16 = 0x0102
	bytes := make([]byte, 2)
	engine.PutUint16(bytes, testValue)
	// Big endian should put MSB first
	require.Equal(t, byte(0x01), bytes[0])
	require.Equal(t, byte(0x02), bytes[1])
	require.Equal(t, testValue, engine.Uint16(bytes))
}

func TestIsBigEndian(t *testing.T) {
	require.True(t, IsBigEndian(GetBigEndianEngine()))
	require.False(t, IsBigEndian(GetLittleEndianEngine()))
}

func TestFromBOM(t *testing.T) {
	tests := []struct {
		name    string
		mark    []byte
		wantBig bool
		wantOK  bool
	}{
		{"big endian", []byte{0xFE, 0xFF}, true, true},
		{"little endian", []byte{0xFF, 0xFE}, false, true},
		{"longer slice", []byte{0xFE, 0xFF, 0x00, 0x00}, true, true},
		{"zero mark", []byte{0x00, 0x00}, false, false},
		{"short slice", []byte{0xFE}, false, false},
		{"empty", nil, false, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			engine, ok := FromBOM(tt.mark)
			require.Equal(t, tt.wantOK, ok)
			if !ok {
				require.Nil(t, engine)
				return
			}
			require.Equal(t, tt.wantBig, IsBigEndian(engine))
		})
	}
}

func TestAppendBOM(t *testing.T) {
	for _, engine := range []EndianEngine{GetBigEndianEngine(), GetLittleEndianEngine()} {
		mark := AppendBOM(nil, engine)
		require.Len(t, mark, BOMSize)

		got, ok := FromBOM(mark)
		require.True(t, ok)
		require.Equal(t, engine, got)
	}

	require.Equal(t, []byte{0xAA, 0xFE, 0xFF}, AppendBOM([]byte{0xAA}, GetBigEndianEngine()))
}
