package format

import (
	"fmt"
	"path/filepath"
	"strings"

	"github.com/arloliu/msyt/endian"
)

type (
	ByteOrder       uint8
	TextEncoding    uint8
	CompressionType uint8
)

const (
	LittleEndian ByteOrder = 0x0 // LittleEndian is the byte order of Switch-era files.
	BigEndian    ByteOrder = 0x1 // BigEndian is the byte order of Wii U and 3DS-era files.

	UTF8  TextEncoding = 0x0 // UTF8 stores text as UTF-8 bytes.
	UTF16 TextEncoding = 0x1 // UTF16 stores text as UTF-16 code units in the file byte order.

	CompressionNone CompressionType = 0x1 // CompressionNone represents a bare container.
	CompressionZstd CompressionType = 0x2 // CompressionZstd represents a Zstandard-wrapped container (.zs).
	CompressionS2   CompressionType = 0x3 // CompressionS2 represents an S2-wrapped container (.s2).
	CompressionLZ4  CompressionType = 0x4 // CompressionLZ4 represents an LZ4 frame-wrapped container (.lz4).
)

func (o ByteOrder) String() string {
	switch o {
	case LittleEndian:
		return "little"
	case BigEndian:
		return "big"
	default:
		return "Unknown"
	}
}

// Engine returns the endian engine that reads and writes fields in this byte order.
func (o ByteOrder) Engine() endian.EndianEngine {
	if o == BigEndian {
		return endian.GetBigEndianEngine()
	}

	return endian.GetLittleEndianEngine()
}

// ByteOrderOf returns the ByteOrder matching engine.
func ByteOrderOf(engine endian.EndianEngine) ByteOrder {
	if endian.IsBigEndian(engine) {
		return BigEndian
	}

	return LittleEndian
}

// ParseByteOrder parses the textual form produced by ByteOrder.String.
func ParseByteOrder(s string) (ByteOrder, error) {
	switch strings.ToLower(s) {
	case "little", "le", "little-endian", "little_endian":
		return LittleEndian, nil
	case "big", "be", "big-endian", "big_endian":
		return BigEndian, nil
	default:
		return 0, fmt.Errorf("invalid byte order: %q", s)
	}
}

func (e TextEncoding) String() string {
	switch e {
	case UTF8:
		return "utf-8"
	case UTF16:
		return "utf-16"
	default:
		return "Unknown"
	}
}

// UnitSize returns the size in bytes of one code unit.
func (e TextEncoding) UnitSize() int {
	if e == UTF8 {
		return 1
	}

	return 2
}

// IsValid reports whether e is an encoding the codec understands.
func (e TextEncoding) IsValid() bool {
	return e == UTF8 || e == UTF16
}

// ParseTextEncoding parses the textual form produced by TextEncoding.String.
func ParseTextEncoding(s string) (TextEncoding, error) {
	switch strings.ToLower(s) {
	case "utf-8", "utf8":
		return UTF8, nil
	case "utf-16", "utf16":
		return UTF16, nil
	default:
		return 0, fmt.Errorf("invalid text encoding: %q", s)
	}
}

func (c CompressionType) String() string {
	switch c {
	case CompressionNone:
		return "None"
	case CompressionZstd:
		return "Zstd"
	case CompressionS2:
		return "S2"
	case CompressionLZ4:
		return "LZ4"
	default:
		return "Unknown"
	}
}

// Suffix returns the file name suffix used for containers wrapped with c,
// or "" for CompressionNone.
func (c CompressionType) Suffix() string {
	switch c {
	case CompressionZstd:
		return ".zs"
	case CompressionS2:
		return ".s2"
	case CompressionLZ4:
		return ".lz4"
	default:
		return ""
	}
}

// CompressionFromPath infers the wrapper compression from a file name.
// Unrecognized suffixes map to CompressionNone.
func CompressionFromPath(path string) CompressionType {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".zs", ".zst":
		return CompressionZstd
	case ".s2":
		return CompressionS2
	case ".lz4":
		return CompressionLZ4
	default:
		return CompressionNone
	}
}

// TrimCompressionSuffix removes a recognized compression suffix from path.
func TrimCompressionSuffix(path string) string {
	if CompressionFromPath(path) == CompressionNone {
		return path
	}

	return strings.TrimSuffix(path, filepath.Ext(path))
}
