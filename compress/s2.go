package compress

import (
	"bytes"
	"fmt"
	"sync"

	"github.com/klauspost/compress/s2"

	"github.com/arloliu/msyt/errs"
)

var s2ReaderPool = sync.Pool{
	New: func() any {
		return s2.NewReader(nil, s2.ReaderMaxBlockSize(s2.MaxBlockSize))
	},
}

// S2Compressor wraps containers in an S2 stream.
type S2Compressor struct{}

var _ Codec = (*S2Compressor)(nil)

// NewS2Compressor creates a new S2 compressor.
func NewS2Compressor() S2Compressor {
	return S2Compressor{}
}

// Compress compresses the input data using the S2 stream format.
func (c S2Compressor) Compress(data []byte) ([]byte, error) {
	var buf bytes.Buffer
	w := s2.NewWriter(&buf, s2.WriterConcurrency(1))
	if err := w.EncodeBuffer(data); err != nil {
		return nil, err
	}
	if err := w.Close(); err != nil {
		return nil, err
	}

	return buf.Bytes(), nil
}

// Decompress decompresses an S2 stream.
func (c S2Compressor) Decompress(data []byte) ([]byte, error) {
	r, _ := s2ReaderPool.Get().(*s2.Reader)
	defer s2ReaderPool.Put(r)

	r.Reset(bytes.NewReader(data))

	out, err := readLimited(r)
	if err != nil {
		return nil, fmt.Errorf("%w: s2: %w", errs.ErrCorruptWrapper, err)
	}

	return out, nil
}
