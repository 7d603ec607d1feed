package compress

import (
	"fmt"

	"github.com/arloliu/msyt/format"
)

// MaxDecompressedSize is the largest container a Decompressor will produce.
// Larger outputs are rejected as corrupt.
const MaxDecompressedSize = 1 << 30 // 1GiB

// Compressor wraps a serialized container.
type Compressor interface {
	// Compress compresses data and returns the wrapped result.
	//
	// Memory management:
	//   - Returned slice is newly allocated and owned by the caller
	//   - Input slice is not modified
	Compress(data []byte) ([]byte, error)
}

// Decompressor unwraps a compressed container.
//
// Example:
//
//	decompressor := NewZstdCompressor()
//	container, err := decompressor.Decompress(wrapped)
//	if err != nil {
//	    return fmt.Errorf("unwrap failed: %w", err)
//	}
//
// Implementations are safe for concurrent use.
type Decompressor interface {
	// Decompress returns the container wrapped in data.
	//
	// Error conditions:
	//   - errs.ErrCorruptWrapper if data is not a valid stream of the codec's format
	//   - errs.ErrCorruptWrapper if the output would exceed MaxDecompressedSize
	Decompress(data []byte) ([]byte, error)
}

// Codec combines both compression and decompression capabilities.
type Codec interface {
	Compressor
	Decompressor
}

// CreateCodec is a factory function that creates a Codec based on the specified compression type.
//
// Parameters:
//   - compressionType: Type of compression (None, Zstd, S2, or LZ4)
//   - target: Description of target usage (for error messages)
//
// Returns:
//   - Codec: Codec instance for the specified type
//   - error: Invalid compression type error
func CreateCodec(compressionType format.CompressionType, target string) (Codec, error) {
	switch compressionType {
	case format.CompressionNone:
		return NewNoOpCompressor(), nil
	case format.CompressionZstd:
		return NewZstdCompressor(), nil
	case format.CompressionS2:
		return NewS2Compressor(), nil
	case format.CompressionLZ4:
		return NewLZ4Compressor(), nil
	default:
		return nil, fmt.Errorf("invalid %s compression: %s", target, compressionType)
	}
}

// builtinCodecs holds one shared codec per supported wrapper, served by GetCodec.
var builtinCodecs = func() map[format.CompressionType]Codec {
	types := []format.CompressionType{
		format.CompressionNone, format.CompressionZstd, format.CompressionS2, format.CompressionLZ4,
	}

	codecs := make(map[format.CompressionType]Codec, len(types))
	for _, ct := range types {
		codec, err := CreateCodec(ct, "built-in")
		if err != nil {
			panic(err)
		}
		codecs[ct] = codec
	}

	return codecs
}()

// GetCodec retrieves a built-in Codec for the specified compression type.
func GetCodec(compressionType format.CompressionType) (Codec, error) {
	if codec, ok := builtinCodecs[compressionType]; ok {
		return codec, nil
	}

	return nil, fmt.Errorf("unsupported compression type: %s", compressionType)
}

// ForPath returns the codec selected by the suffix of path, e.g. the zstd
// codec for "Npc.msbt.zs". Paths without a recognized suffix get the no-op codec.
func ForPath(path string) Codec {
	codec, _ := GetCodec(format.CompressionFromPath(path))

	return codec
}
