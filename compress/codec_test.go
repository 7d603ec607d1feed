package compress

import (
	"bytes"
	"fmt"
	"math/rand"
	"sync"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/arloliu/msyt/errs"
	"github.com/arloliu/msyt/format"
)

// containerLike builds a payload resembling a text container: a header, a
// repetitive label table and UTF-16 text.
func containerLike(size int) []byte {
	var buf bytes.Buffer
	buf.WriteString("MsgStdBn\xFF\xFE\x00\x00\x01\x03\x02\x00")
	for i := 0; buf.Len() < size; i++ {
		fmt.Fprintf(&buf, "LBL1Npc_Talk_%04d", i)
		for _, r := range "Hello, traveler!" {
			buf.WriteByte(byte(r))
			buf.WriteByte(0)
		}
	}

	return buf.Bytes()[:size]
}

func allCodecs() map[format.CompressionType]Codec {
	return map[format.CompressionType]Codec{
		format.CompressionNone: NewNoOpCompressor(),
		format.CompressionZstd: NewZstdCompressor(),
		format.CompressionS2:   NewS2Compressor(),
		format.CompressionLZ4:  NewLZ4Compressor(),
	}
}

func TestCodecs_RoundTrip(t *testing.T) {
	rng := rand.New(rand.NewSource(1))
	random := make([]byte, 64*1024)
	rng.Read(random)

	inputs := map[string][]byte{
		"small":    containerLike(80),
		"large":    containerLike(512 * 1024),
		"random":   random,
		"one byte": {0xAB},
		"empty":    {},
	}

	for ct, codec := range allCodecs() {
		for name, input := range inputs {
			t.Run(ct.String()+"/"+name, func(t *testing.T) {
				compressed, err := codec.Compress(input)
				require.NoError(t, err)

				out, err := codec.Decompress(compressed)
				require.NoError(t, err)
				if len(input) == 0 {
					require.Empty(t, out)
					return
				}
				require.Equal(t, input, out)
			})
		}
	}
}

func TestCodecs_Compresses(t *testing.T) {
	input := containerLike(256 * 1024)

	for _, ct := range []format.CompressionType{format.CompressionZstd, format.CompressionS2, format.CompressionLZ4} {
		codec, err := GetCodec(ct)
		require.NoError(t, err)

		compressed, err := codec.Compress(input)
		require.NoError(t, err)
		require.Less(t, len(compressed), len(input)/2, "%s should shrink repetitive text", ct)
	}
}

func TestCodecs_CorruptInput(t *testing.T) {
	garbage := []byte("MsgStdBn this is not a compressed stream")

	for _, ct := range []format.CompressionType{format.CompressionZstd, format.CompressionS2, format.CompressionLZ4} {
		t.Run(ct.String(), func(t *testing.T) {
			codec, err := GetCodec(ct)
			require.NoError(t, err)

			_, err = codec.Decompress(garbage)
			require.ErrorIs(t, err, errs.ErrCorruptWrapper)
			require.ErrorIs(t, err, errs.ErrFormat)
		})
	}
}

func TestCodecs_TruncatedInput(t *testing.T) {
	input := containerLike(64 * 1024)

	for _, ct := range []format.CompressionType{format.CompressionZstd, format.CompressionS2, format.CompressionLZ4} {
		t.Run(ct.String(), func(t *testing.T) {
			codec, err := GetCodec(ct)
			require.NoError(t, err)

			compressed, err := codec.Compress(input)
			require.NoError(t, err)

			_, err = codec.Decompress(compressed[:len(compressed)/2])
			require.ErrorIs(t, err, errs.ErrCorruptWrapper)
		})
	}
}

func TestNoOpCompressor_Aliases(t *testing.T) {
	data := []byte{1, 2, 3}
	codec := NewNoOpCompressor()

	out, err := codec.Compress(data)
	require.NoError(t, err)
	require.Same(t, &data[0], &out[0])

	out, err = codec.Decompress(data)
	require.NoError(t, err)
	require.Same(t, &data[0], &out[0])
}

func TestCreateCodec(t *testing.T) {
	for ct := range allCodecs() {
		codec, err := CreateCodec(ct, "container")
		require.NoError(t, err)
		require.NotNil(t, codec)

		shared, err := GetCodec(ct)
		require.NoError(t, err)
		require.IsType(t, codec, shared, "GetCodec serves the codec CreateCodec builds for %s", ct)
	}

	_, err := CreateCodec(format.CompressionType(0x99), "container")
	require.ErrorContains(t, err, "invalid container compression")

	_, err = GetCodec(format.CompressionType(0x99))
	require.Error(t, err)
}

func TestForPath(t *testing.T) {
	tests := []struct {
		path string
		want Codec
	}{
		{"Msg_USen/ActorMsg/Npc.msbt", NoOpCompressor{}},
		{"Msg_USen/ActorMsg/Npc.msbt.zs", ZstdCompressor{}},
		{"Npc.msbt.ZST", ZstdCompressor{}},
		{"Npc.msbt.s2", S2Compressor{}},
		{"Npc.msbt.lz4", LZ4Compressor{}},
		{"Npc.msyt", NoOpCompressor{}},
	}

	for _, tt := range tests {
		t.Run(tt.path, func(t *testing.T) {
			require.IsType(t, tt.want, ForPath(tt.path))
		})
	}
}

func TestCodecs_Concurrent(t *testing.T) {
	input := containerLike(32 * 1024)

	var wg sync.WaitGroup
	for _, codec := range allCodecs() {
		for range 4 {
			wg.Add(1)
			go func() {
				defer wg.Done()
				for range 20 {
					compressed, err := codec.Compress(input)
					if err != nil {
						t.Error(err)
						return
					}
					out, err := codec.Decompress(compressed)
					if err != nil {
						t.Error(err)
						return
					}
					if !bytes.Equal(input, out) {
						t.Error("round trip mismatch")
						return
					}
				}
			}()
		}
	}
	wg.Wait()
}

func BenchmarkCodecs(b *testing.B) {
	input := containerLike(128 * 1024)

	for ct, codec := range allCodecs() {
		compressed, err := codec.Compress(input)
		require.NoError(b, err)

		b.Run(ct.String()+"/Compress", func(b *testing.B) {
			b.SetBytes(int64(len(input)))
			b.ReportAllocs()
			for b.Loop() {
				_, _ = codec.Compress(input)
			}
		})
		b.Run(ct.String()+"/Decompress", func(b *testing.B) {
			b.SetBytes(int64(len(input)))
			b.ReportAllocs()
			for b.Loop() {
				_, _ = codec.Decompress(compressed)
			}
		})
	}
}
