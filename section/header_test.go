package section

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/arloliu/msyt/errs"
	"github.com/arloliu/msyt/format"
)

func TestNewHeader(t *testing.T) {
	header := NewHeader(format.BigEndian, format.UTF16)

	require.Equal(t, format.BigEndian, header.ByteOrder)
	require.Equal(t, format.UTF16, header.Encoding)
	require.Equal(t, uint8(DefaultVersion), header.Version)
	require.Zero(t, header.BlockCount)
	require.Zero(t, header.FileSize)
}

func TestHeader_Bytes(t *testing.T) {
	t.Run("Big endian", func(t *testing.T) {
		header := NewHeader(format.BigEndian, format.UTF16)
		header.Unknown1 = 0x0102
		header.BlockCount = 4
		header.FileSize = 0x11223344

		data := header.Bytes()
		require.Len(t, data, HeaderSize)
		require.Equal(t, []byte("MsgStdBn"), data[0:8])
		require.Equal(t, []byte{0xFE, 0xFF}, data[8:10])
		require.Equal(t, []byte{0x01, 0x02}, data[10:12])
		require.Equal(t, byte(1), data[12])
		require.Equal(t, byte(3), data[13])
		require.Equal(t, []byte{0x00, 0x04}, data[14:16])
		require.Equal(t, []byte{0x11, 0x22, 0x33, 0x44}, data[18:22])
	})

	t.Run("Little endian", func(t *testing.T) {
		header := NewHeader(format.LittleEndian, format.UTF8)
		header.BlockCount = 4

		data := header.Bytes()
		require.Equal(t, []byte{0xFF, 0xFE}, data[8:10])
		require.Equal(t, byte(0), data[12])
		require.Equal(t, []byte{0x04, 0x00}, data[14:16])
	})
}

func TestParseHeader(t *testing.T) {
	valid := func() []byte {
		header := NewHeader(format.LittleEndian, format.UTF16)
		header.Unknown1 = 0xBEEF
		header.Unknown2 = 0x1234
		header.FileSize = HeaderSize
		header.Reserved = [10]byte{1, 2, 3, 4, 5, 6, 7, 8, 9, 10}

		return header.Bytes()
	}

	t.Run("Valid header", func(t *testing.T) {
		data := valid()

		header, err := ParseHeader(data)
		require.NoError(t, err)
		require.Equal(t, format.LittleEndian, header.ByteOrder)
		require.Equal(t, uint16(0xBEEF), header.Unknown1)
		require.Equal(t, uint16(0x1234), header.Unknown2)
		require.Equal(t, [10]byte{1, 2, 3, 4, 5, 6, 7, 8, 9, 10}, header.Reserved)
		require.Equal(t, data, header.Bytes(), "unknown fields must survive a round trip")
	})

	t.Run("Invalid size", func(t *testing.T) {
		_, err := ParseHeader([]byte("MsgStdBn"))
		require.ErrorIs(t, err, errs.ErrInvalidHeaderSize)
		require.ErrorIs(t, err, errs.ErrFormat)
	})

	t.Run("Invalid signature", func(t *testing.T) {
		data := valid()
		copy(data, "MsgPrjBn")

		_, err := ParseHeader(data)
		require.ErrorIs(t, err, errs.ErrInvalidSignature)
	})

	t.Run("Invalid byte order mark", func(t *testing.T) {
		data := valid()
		data[8], data[9] = 0x00, 0x00

		_, err := ParseHeader(data)
		require.ErrorIs(t, err, errs.ErrInvalidByteOrderMark)
	})

	t.Run("Unsupported encoding", func(t *testing.T) {
		data := valid()
		data[12] = 2

		_, err := ParseHeader(data)
		require.ErrorIs(t, err, errs.ErrUnsupportedEncoding)
	})

	t.Run("File size mismatch", func(t *testing.T) {
		data := append(valid(), 0xAB)

		_, err := ParseHeader(data)
		require.ErrorIs(t, err, errs.ErrFileSizeMismatch)
	})
}
