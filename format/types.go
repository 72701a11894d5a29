package format

type CompressionType uint8

const (
	CompressionNone    CompressionType = 0x1 // CompressionNone represents no compression.
	CompressionZstd    CompressionType = 0x2 // CompressionZstd represents Zstandard compression.
	CompressionS2      CompressionType = 0x3 // CompressionS2 represents S2 compression.
	CompressionLZ4     CompressionType = 0x4 // CompressionLZ4 represents LZ4 compression.
	CompressionDeflate CompressionType = 0x5 // CompressionDeflate represents raw DEFLATE, the on-disk save framing.
)

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
	case CompressionDeflate:
		return "Deflate"
	default:
		return "Unknown"
	}
}
