package compress

import (
	"fmt"

	"github.com/arloliu/jkrsave/errs"
	"github.com/arloliu/jkrsave/format"
)

// Compressor compresses a complete in-memory payload.
//
// Payloads handled here are whole documents: a save file's literal text, or a
// journal snapshot of it. Nothing is streamed.
//
// Memory management:
//   - Returned slice is newly allocated and owned by the caller
//   - Input slice is not modified
//   - Internal encoders may be pooled and reused
type Compressor interface {
	// Compress compresses the input data and returns the compressed result.
	Compress(data []byte) ([]byte, error)
}

// Decompressor provides the inverse of Compressor.
//
// Implementations validate the input and return an error if the data is corrupted
// or was produced by a different algorithm. All implementations in this package
// are safe for concurrent use.
type Decompressor interface {
	// Decompress decompresses the input data and returns the original result.
	//
	// Error conditions:
	//   - Returns error if input data is corrupted or invalid
	//   - Returns error if data was compressed with incompatible algorithm
	//   - Returns error if the output would exceed the implementation's size limit
	Decompress(data []byte) ([]byte, error)
}

// Codec combines both compression and decompression capabilities.
type Codec interface {
	Compressor
	Decompressor
}

// CreateCodec is a factory function that creates a Codec based on the specified compression type.
//
// Deflate codecs are created with default level and size limit; use
// NewDeflateCompressorLevel for anything else.
//
// Parameters:
//   - compressionType: Type of compression (None, Zstd, S2, LZ4 or Deflate)
//   - target: Description of target usage (for error messages)
//
// Returns:
//   - Codec: Compressor instance for the specified type
//   - error: errs.ErrInvalidCompression for an unknown type
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
	case format.CompressionDeflate:
		return NewDeflateCompressor(), nil
	default:
		return nil, fmt.Errorf("%w: %s compression %s", errs.ErrInvalidCompression, target, compressionType)
	}
}

var builtinCodecs = map[format.CompressionType]Codec{
	format.CompressionNone:    NewNoOpCompressor(),
	format.CompressionZstd:    NewZstdCompressor(),
	format.CompressionS2:      NewS2Compressor(),
	format.CompressionLZ4:     NewLZ4Compressor(),
	format.CompressionDeflate: NewDeflateCompressor(),
}

// GetCodec retrieves a built-in Codec for the specified compression type.
func GetCodec(compressionType format.CompressionType) (Codec, error) {
	if codec, ok := builtinCodecs[compressionType]; ok {
		return codec, nil
	}

	return nil, fmt.Errorf("%w: %s", errs.ErrInvalidCompression, compressionType)
}
