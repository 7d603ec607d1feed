package section

import (
	"fmt"

	"github.com/arloliu/msyt/errs"
	"github.com/arloliu/msyt/internal/pool"
)

// Block is one tagged, length-framed region of a container.
type Block struct {
	// Magic is the four byte block identifier.
	Magic string
	// Reserved holds the eight bytes following the size field. Preserved verbatim.
	Reserved [8]byte
	// Pad is the filler byte used to align the block to Alignment.
	Pad byte
	// Payload is the block body, padding excluded.
	Payload []byte
}

// NewBlock creates a block with the conventional padding filler.
func NewBlock(magic string, payload []byte) Block {
	return Block{Magic: magic, Pad: PadByte, Payload: payload}
}

// Size returns the number of bytes the block occupies when written at offset,
// padding included.
func (b *Block) Size(offset int) int {
	return alignUp(offset+BlockHeaderSize+len(b.Payload)) - offset
}

// ParseBlocks splits the container in data into its blocks.
//
// The header must have been parsed from the same data. Payloads alias data;
// callers that keep them beyond the lifetime of data must copy them.
//
// Returns:
//   - errs.ErrTruncatedBlock if a block header or payload extends past the end of data
//   - errs.ErrInvalidPadding if the padding of a block extends past the end of data
//     or is not made of a single repeated filler byte
//   - errs.ErrTrailingData if bytes remain after header.BlockCount blocks
func ParseBlocks(data []byte, header Header) ([]Block, error) {
	engine := header.GetEndianEngine()
	blocks := make([]Block, 0, header.BlockCount)
	offset := HeaderSize

	for i := 0; i < int(header.BlockCount); i++ {
		if len(data)-offset < BlockHeaderSize {
			return nil, fmt.Errorf("%w: block %d header at offset 0x%X", errs.ErrTruncatedBlock, i, offset)
		}

		block := Block{
			Magic: string(data[offset : offset+MagicSize]),
			Pad:   PadByte,
		}
		size := int64(engine.Uint32(data[offset+4 : offset+8]))
		copy(block.Reserved[:], data[offset+8:offset+BlockHeaderSize])

		start := offset + BlockHeaderSize
		if int64(len(data)-start) < size {
			return nil, fmt.Errorf("%w: block %d (%s) declares %d bytes, %d available",
				errs.ErrTruncatedBlock, i, block.Magic, size, len(data)-start)
		}
		end := start + int(size)
		block.Payload = data[start:end]

		padEnd := alignUp(end)
		if padEnd > len(data) {
			return nil, fmt.Errorf("%w: block %d (%s) padding ends at 0x%X past end of input 0x%X",
				errs.ErrInvalidPadding, i, block.Magic, padEnd, len(data))
		}

		if padEnd > end {
			block.Pad = data[end]
			for j := end + 1; j < padEnd; j++ {
				if data[j] != block.Pad {
					return nil, fmt.Errorf("%w: block %d (%s) mixes filler bytes 0x%02X and 0x%02X",
						errs.ErrInvalidPadding, i, block.Magic, block.Pad, data[j])
				}
			}
		}

		blocks = append(blocks, block)
		offset = padEnd
	}

	if offset != len(data) {
		return nil, fmt.Errorf("%w: %d bytes after %d blocks",
			errs.ErrTrailingData, len(data)-offset, header.BlockCount)
	}

	return blocks, nil
}

// WriteBlocks serializes header and blocks into a container.
//
// The header's BlockCount and FileSize are recomputed; the passed header is
// not modified. Blocks are written in slice order.
//
// Returns:
//   - errs.ErrInvalidMagic if a block magic is not exactly four bytes
//   - errs.ErrTooManyBlocks if there are more than MaxBlockCount blocks
//   - errs.ErrOffsetOverflow if a payload or the container exceeds 4 GiB
func WriteBlocks(header Header, blocks []Block) ([]byte, error) {
	if len(blocks) > MaxBlockCount {
		return nil, fmt.Errorf("%w: %d blocks", errs.ErrTooManyBlocks, len(blocks))
	}

	total := HeaderSize
	for i := range blocks {
		if len(blocks[i].Magic) != MagicSize {
			return nil, fmt.Errorf("%w: %q", errs.ErrInvalidMagic, blocks[i].Magic)
		}
		if int64(len(blocks[i].Payload)) > MaxPayloadSize {
			return nil, fmt.Errorf("%w: block %s payload is %d bytes",
				errs.ErrOffsetOverflow, blocks[i].Magic, len(blocks[i].Payload))
		}
		total += blocks[i].Size(total)
	}

	if int64(total) > MaxPayloadSize {
		return nil, fmt.Errorf("%w: container would be %d bytes", errs.ErrOffsetOverflow, total)
	}

	header.BlockCount = uint16(len(blocks)) //nolint:gosec
	header.FileSize = uint32(total)         //nolint:gosec
	engine := header.GetEndianEngine()

	buf := pool.GetContainerBuffer()
	defer pool.PutContainerBuffer(buf)

	buf.Grow(total)
	buf.MustWrite(header.Bytes())

	for i := range blocks {
		block := &blocks[i]
		buf.WriteString(block.Magic)
		buf.WriteUint32(engine, uint32(len(block.Payload))) //nolint:gosec
		buf.MustWrite(block.Reserved[:])
		buf.MustWrite(block.Payload)
		buf.PadTo(Alignment, block.Pad)
	}

	return buf.Clone(), nil
}
