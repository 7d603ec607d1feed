package section

import "math"

// Container signature and fixed sizes.
const (
	Signature       = "MsgStdBn" // container signature at offset 0
	HeaderSize      = 32         // fixed container header size in bytes
	BlockHeaderSize = 16         // magic + size + reserved
	MagicSize       = 4          // block magic size in bytes
	Alignment       = 16         // block alignment relative to the start of the container
	PadByte         = 0xAB       // conventional block padding filler
	DefaultVersion  = 3          // conventional container version
)

// Recognized block magics.
const (
	MagicLabel     = "LBL1" // label hash table
	MagicAttribute = "ATR1" // attribute records
	MagicStyle     = "TSY1" // style indices
	MagicText      = "TXT2" // text contents
)

// Limits imposed by field widths.
const (
	MaxBlockCount   = math.MaxUint16 // block count is a uint16
	MaxPayloadSize  = math.MaxUint32 // block size is a uint32
	MaxLabelLength  = math.MaxUint8  // label length prefix is a uint8
	MaxLabelBuckets = (MaxPayloadSize - 4) / 8 // largest bucket count whose table fits in one block
)

// IsRecognized reports whether magic names a block type decoded by this package.
func IsRecognized(magic string) bool {
	switch magic {
	case MagicLabel, MagicAttribute, MagicStyle, MagicText:
		return true
	default:
		return false
	}
}

// alignUp rounds n up to the next multiple of Alignment.
func alignUp(n int) int {
	return (n + Alignment - 1) &^ (Alignment - 1)
}
