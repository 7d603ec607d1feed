// Package endian provides the byte order primitives shared by every MSBT codec.
//
// An MSBT container declares its byte order once, through a two byte byte-order
// mark in the file header. Every multi-byte field after it, including the
// UTF-16 code units of the text block, follows that order. This package
// combines encoding/binary's ByteOrder and AppendByteOrder into a single
// EndianEngine and maps engines to and from byte-order marks.
//
// # Basic Usage
//
//	engine, ok := endian.FromBOM(data[8:10])
//	if !ok {
//	    return errs.ErrInvalidByteOrderMark
//	}
//	count := engine.Uint32(payload[0:4])
//
// # Thread Safety
//
// All functions in this package are safe for concurrent use.
// The returned EndianEngine instances are immutable and stateless.
package endian

import "encoding/binary"

// EndianEngine combines ByteOrder and AppendByteOrder interfaces from encoding/binary
// into a single interface for convenient byte order operations.
//
// This interface is satisfied by binary.LittleEndian and binary.BigEndian from
// the standard library.
type EndianEngine interface {
	binary.ByteOrder
	binary.AppendByteOrder
}

// BOMSize is the size in bytes of a byte-order mark.
const BOMSize = 2

// bomValue is the code point whose serialized form tells the byte order apart.
const bomValue = 0xFEFF

// GetLittleEndianEngine returns the little-endian engine.
func GetLittleEndianEngine() EndianEngine {
	return binary.LittleEndian
}

// GetBigEndianEngine returns the big-endian engine.
func GetBigEndianEngine() EndianEngine {
	return binary.BigEndian
}

// IsBigEndian reports whether engine writes the most significant byte first.
func IsBigEndian(engine EndianEngine) bool {
	return engine == binary.BigEndian
}

// FromBOM returns the engine selected by a two byte byte-order mark.
// FE FF selects big-endian, FF FE selects little-endian. Any other value
// (or a short slice) reports false.
func FromBOM(mark []byte) (EndianEngine, bool) {
	if len(mark) < BOMSize {
		return nil, false
	}

	switch {
	case binary.BigEndian.Uint16(mark) == bomValue:
		return GetBigEndianEngine(), true
	case binary.LittleEndian.Uint16(mark) == bomValue:
		return GetLittleEndianEngine(), true
	default:
		return nil, false
	}
}

// AppendBOM appends the byte-order mark of engine to b.
func AppendBOM(b []byte, engine EndianEngine) []byte {
	return engine.AppendUint16(b, bomValue)
}
