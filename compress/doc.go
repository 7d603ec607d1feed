// Package compress wraps and unwraps compressed containers.
//
// Game archives often ship text containers inside a compression wrapper whose
// format is announced by the file suffix ("Npc.msbt.zs"). The codec for a
// file is chosen with ForPath, or with GetCodec for an explicit
// format.CompressionType:
//
//	codec := compress.ForPath(path)
//	container, err := codec.Decompress(raw)
//
// Supported wrappers:
//   - None: bare container, passed through unchanged
//   - Zstd (.zs, .zst): a single Zstandard frame
//   - S2 (.s2): an S2 stream
//   - LZ4 (.lz4): an LZ4 frame
//
// Zstandard files packed with an external dictionary cannot be unwrapped and
// report errs.ErrCorruptWrapper.
//
// All codecs are safe for concurrent use; encoders and decoders are pooled.
package compress
