// Package compress provides the compression codecs used by jkrsave.
//
// # Save Framing
//
// Save files are stored as a raw DEFLATE stream (RFC 1951): no zlib or gzip header
// and no trailing checksum. DeflateCompressor implements exactly that framing on top
// of github.com/klauspost/compress/flate:
//
//	codec := compress.NewDeflateCompressor()
//	text, err := codec.Decompress(raw)  // raw bytes read from the .jkr file
//	raw, err = codec.Compress(text)     // bytes the game can load again
//
// Decompression is bounded by DefaultMaxDecompressedSize unless a different limit is
// passed to NewDeflateCompressorLevel.
//
// # Snapshot Codecs
//
// The remaining codecs are used for journal snapshots of literal text (see package
// history), selected by format.CompressionType:
//   - None: pass-through
//   - Zstd: best ratio, default for snapshots
//   - S2: fastest
//   - LZ4: fast decompression
//
// All codecs share the Compressor / Decompressor / Codec interfaces:
//
//	type Codec interface {
//	    Compress(data []byte) ([]byte, error)
//	    Decompress(data []byte) ([]byte, error)
//	}
//
// # Thread Safety
//
// All codec implementations are stateless values backed by pooled encoders and are
// safe for concurrent use.
package compress
