package compress

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"sync"

	"github.com/pierrec/lz4/v4"

	"github.com/arloliu/msyt/errs"
)

// lz4ReaderPool pools frame readers; each one keeps its block buffers.
var lz4ReaderPool = sync.Pool{
	New: func() any {
		return lz4.NewReader(nil)
	},
}

// LZ4Compressor wraps containers in an LZ4 frame, readable by the lz4
// command line tool.
type LZ4Compressor struct{}

var _ Codec = (*LZ4Compressor)(nil)

// NewLZ4Compressor creates a new LZ4 compressor.
//
// Returns:
//   - LZ4Compressor: New LZ4 compressor instance
func NewLZ4Compressor() LZ4Compressor {
	return LZ4Compressor{}
}

// Compress compresses the input data into an LZ4 frame.
//
// The frame records the content size and a content checksum.
//
// Parameters:
//   - data: Input data to compress
//
// Returns:
//   - []byte: The LZ4 frame
//   - error: Compression error if any
func (c LZ4Compressor) Compress(data []byte) ([]byte, error) {
	var buf bytes.Buffer
	w := lz4.NewWriter(&buf)
	if err := w.Apply(
		lz4.SizeOption(uint64(len(data))),
		lz4.ChecksumOption(true),
		lz4.ConcurrencyOption(1),
	); err != nil {
		return nil, err
	}

	if _, err := w.Write(data); err != nil {
		return nil, err
	}
	if err := w.Close(); err != nil {
		return nil, err
	}

	return buf.Bytes(), nil
}

// Decompress decompresses an LZ4 frame.
//
// Returns:
//   - []byte: The decompressed data
//   - error: errs.ErrCorruptWrapper for invalid frames or outputs above MaxDecompressedSize
func (c LZ4Compressor) Decompress(data []byte) ([]byte, error) {
	r, _ := lz4ReaderPool.Get().(*lz4.Reader)
	defer lz4ReaderPool.Put(r)

	r.Reset(bytes.NewReader(data))

	out, err := readLimited(r)
	if err != nil {
		return nil, fmt.Errorf("%w: lz4: %w", errs.ErrCorruptWrapper, err)
	}

	return out, nil
}

var errOutputTooLarge = errors.New("decompressed output exceeds limit")

// readLimited reads r to the end, failing once more than MaxDecompressedSize
// bytes are produced.
func readLimited(r io.Reader) ([]byte, error) {
	out, err := io.ReadAll(io.LimitReader(r, MaxDecompressedSize+1))
	if err != nil {
		return nil, err
	}
	if len(out) > MaxDecompressedSize {
		return nil, errOutputTooLarge
	}

	return out, nil
}
