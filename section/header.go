package section

import (
	"fmt"

	"github.com/arloliu/msyt/endian"
	"github.com/arloliu/msyt/errs"
	"github.com/arloliu/msyt/format"
)

// Header represents the fixed 32 byte container header.
//
// BlockCount and FileSize are recomputed by WriteBlocks; every other field is
// written back exactly as parsed so unknown values survive a round trip.
type Header struct {
	// ByteOrder is selected by the byte-order mark at offset 8.
	ByteOrder format.ByteOrder // 2 bytes, offset 8-9
	// Unknown1 has no known meaning. Preserved verbatim.
	Unknown1 uint16 // 2 bytes, offset 10-11
	// Encoding is the text encoding of the TXT2 block.
	Encoding format.TextEncoding // 1 byte, offset 12
	// Version is the container version, conventionally 3.
	Version uint8 // 1 byte, offset 13
	// BlockCount is the number of blocks following the header.
	BlockCount uint16 // 2 bytes, offset 14-15
	// Unknown2 has no known meaning. Preserved verbatim.
	Unknown2 uint16 // 2 bytes, offset 16-17
	// FileSize is the size of the whole container in bytes.
	FileSize uint32 // 4 bytes, offset 18-21
	// Reserved is preserved verbatim.
	Reserved [10]byte // 10 bytes, offset 22-31
}

// NewHeader creates a header with conventional values for a fresh container.
func NewHeader(order format.ByteOrder, encoding format.TextEncoding) Header {
	return Header{
		ByteOrder: order,
		Encoding:  encoding,
		Version:   DefaultVersion,
	}
}

// ParseHeader parses the container header at the start of data.
//
// Returns:
//   - errs.ErrInvalidHeaderSize if data is shorter than HeaderSize
//   - errs.ErrInvalidSignature if data does not start with "MsgStdBn"
//   - errs.ErrInvalidByteOrderMark if the BOM is neither FE FF nor FF FE
//   - errs.ErrUnsupportedEncoding if the encoding byte is not 0 or 1
//   - errs.ErrFileSizeMismatch if the declared file size differs from len(data)
func ParseHeader(data []byte) (Header, error) {
	var h Header
	if err := h.Parse(data); err != nil {
		return Header{}, err
	}

	if int64(h.FileSize) != int64(len(data)) {
		return Header{}, fmt.Errorf("%w: header declares %d bytes, got %d",
			errs.ErrFileSizeMismatch, h.FileSize, len(data))
	}

	return h, nil
}

// Parse parses the header fields from the first HeaderSize bytes of data.
// Unlike ParseHeader it does not compare FileSize against len(data).
func (h *Header) Parse(data []byte) error {
	if len(data) < HeaderSize {
		return fmt.Errorf("%w: need %d bytes, have %d", errs.ErrInvalidHeaderSize, HeaderSize, len(data))
	}

	if string(data[0:8]) != Signature {
		return fmt.Errorf("%w: %q", errs.ErrInvalidSignature, data[0:8])
	}

	engine, ok := endian.FromBOM(data[8:10])
	if !ok {
		return fmt.Errorf("%w: % X", errs.ErrInvalidByteOrderMark, data[8:10])
	}

	encoding := format.TextEncoding(data[12])
	if !encoding.IsValid() {
		return fmt.Errorf("%w: 0x%02X", errs.ErrUnsupportedEncoding, data[12])
	}

	h.ByteOrder = format.ByteOrderOf(engine)
	h.Unknown1 = engine.Uint16(data[10:12])
	h.Encoding = encoding
	h.Version = data[13]
	h.BlockCount = engine.Uint16(data[14:16])
	h.Unknown2 = engine.Uint16(data[16:18])
	h.FileSize = engine.Uint32(data[18:22])
	copy(h.Reserved[:], data[22:32])

	return nil
}

// Bytes serializes the header into a HeaderSize byte slice.
func (h *Header) Bytes() []byte {
	return h.AppendTo(make([]byte, 0, HeaderSize))
}

// AppendTo appends the serialized header to b.
func (h *Header) AppendTo(b []byte) []byte {
	engine := h.GetEndianEngine()

	b = append(b, Signature...)
	b = endian.AppendBOM(b, engine)
	b = engine.AppendUint16(b, h.Unknown1)
	b = append(b, byte(h.Encoding), h.Version)
	b = engine.AppendUint16(b, h.BlockCount)
	b = engine.AppendUint16(b, h.Unknown2)
	b = engine.AppendUint32(b, h.FileSize)
	b = append(b, h.Reserved[:]...)

	return b
}

// GetEndianEngine returns the endian engine selected by the header's byte order.
func (h *Header) GetEndianEngine() endian.EndianEngine {
	return h.ByteOrder.Engine()
}
