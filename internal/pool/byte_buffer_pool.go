package pool

import (
	"sync"

	"github.com/arloliu/msyt/endian"
)

const (
	// ContainerBufferDefaultSize is the default capacity of buffers used to assemble containers.
	ContainerBufferDefaultSize = 1024 * 16 // 16KiB
	// ContainerBufferMaxThreshold is the largest buffer the container pool retains.
	ContainerBufferMaxThreshold = 1024 * 1024 // 1MiB
	// TextBufferDefaultSize is the default capacity of buffers used to serialize one text entry.
	TextBufferDefaultSize = 512
	// TextBufferMaxThreshold is the largest buffer the text pool retains.
	TextBufferMaxThreshold = 1024 * 64 // 64KiB
)

// ByteBuffer is an append-only byte slice with byte-order aware helpers.
type ByteBuffer struct {
	// B is the underlying byte slice.
	B []byte
}

// NewByteBuffer creates a new ByteBuffer with the specified default size.
func NewByteBuffer(defaultSize int) *ByteBuffer {
	return &ByteBuffer{
		B: make([]byte, 0, defaultSize),
	}
}

// Bytes returns the underlying byte slice.
func (bb *ByteBuffer) Bytes() []byte {
	return bb.B
}

// Clone returns a copy of the buffer contents that does not alias the buffer.
func (bb *ByteBuffer) Clone() []byte {
	out := make([]byte, len(bb.B))
	copy(out, bb.B)

	return out
}

// Reset resets the buffer to be empty, but retains the allocated memory for reuse.
func (bb *ByteBuffer) Reset() {
	bb.B = bb.B[:0]
}

// Len returns the length of the buffer.
func (bb *ByteBuffer) Len() int {
	return len(bb.B)
}

// Grow ensures the buffer can hold n more bytes without reallocating.
func (bb *ByteBuffer) Grow(n int) {
	if cap(bb.B)-len(bb.B) >= n {
		return
	}

	newBuf := make([]byte, len(bb.B), len(bb.B)+max(n, cap(bb.B)/4))
	copy(newBuf, bb.B)
	bb.B = newBuf
}

// MustWrite appends data to the buffer.
func (bb *ByteBuffer) MustWrite(data []byte) {
	bb.B = append(bb.B, data...)
}

// WriteString appends s to the buffer.
func (bb *ByteBuffer) WriteString(s string) {
	bb.B = append(bb.B, s...)
}

// WriteByte appends a single byte. It never fails.
func (bb *ByteBuffer) WriteByte(c byte) error {
	bb.B = append(bb.B, c)
	return nil
}

// Write appends the contents of data to the buffer, growing it as needed.
func (bb *ByteBuffer) Write(data []byte) (int, error) {
	bb.B = append(bb.B, data...)
	return len(data), nil
}

// WriteUint16 appends v using engine's byte order.
func (bb *ByteBuffer) WriteUint16(engine endian.EndianEngine, v uint16) {
	bb.B = engine.AppendUint16(bb.B, v)
}

// WriteUint32 appends v using engine's byte order.
func (bb *ByteBuffer) WriteUint32(engine endian.EndianEngine, v uint32) {
	bb.B = engine.AppendUint32(bb.B, v)
}

// PadTo appends fill bytes until the buffer length is a multiple of align.
func (bb *ByteBuffer) PadTo(align int, fill byte) {
	for len(bb.B)%align != 0 {
		bb.B = append(bb.B, fill)
	}
}

// ByteBufferPool is a pool of ByteBuffers to minimize allocations.
//
// Buffers that grew past maxThreshold are dropped instead of being retained.
type ByteBufferPool struct {
	pool         sync.Pool
	maxThreshold int
}

// NewByteBufferPool creates a new ByteBufferPool with buffers of the specified default size.
func NewByteBufferPool(defaultSize int, maxThreshold int) *ByteBufferPool {
	return &ByteBufferPool{
		pool: sync.Pool{
			New: func() any {
				return NewByteBuffer(defaultSize)
			},
		},
		maxThreshold: maxThreshold,
	}
}

// Get retrieves a ByteBuffer from the pool.
func (bbp *ByteBufferPool) Get() *ByteBuffer {
	bb, _ := bbp.pool.Get().(*ByteBuffer)
	return bb
}

// Put returns a ByteBuffer to the pool for reuse.
func (bbp *ByteBufferPool) Put(bb *ByteBuffer) {
	if bb == nil {
		return
	}

	if bbp.maxThreshold > 0 && cap(bb.B) > bbp.maxThreshold {
		return
	}

	bb.Reset()
	bbp.pool.Put(bb)
}

var (
	containerPool = NewByteBufferPool(ContainerBufferDefaultSize, ContainerBufferMaxThreshold)
	textPool      = NewByteBufferPool(TextBufferDefaultSize, TextBufferMaxThreshold)
)

// GetContainerBuffer retrieves a ByteBuffer for assembling a container or block payload.
func GetContainerBuffer() *ByteBuffer {
	return containerPool.Get()
}

// PutContainerBuffer returns a ByteBuffer to the container pool.
func PutContainerBuffer(bb *ByteBuffer) {
	containerPool.Put(bb)
}

// GetTextBuffer retrieves a ByteBuffer for serializing a single text entry.
func GetTextBuffer() *ByteBuffer {
	return textPool.Get()
}

// PutTextBuffer returns a ByteBuffer to the text pool.
func PutTextBuffer(bb *ByteBuffer) {
	textPool.Put(bb)
}
