package compress

import (
	"bytes"
	"fmt"
	"io"
	"sync"

	"github.com/klauspost/compress/flate"
)

// DefaultMaxDecompressedSize caps inflated output so a tiny corrupt or hostile
// input cannot expand without bound.
const DefaultMaxDecompressedSize = 256 * 1024 * 1024 // 256MiB

// deflateWriterPools holds one pool per compression level, indexed by level-flate.HuffmanOnly.
var deflateWriterPools [flate.BestCompression - flate.HuffmanOnly + 1]sync.Pool

// deflateReaderPool pools inflaters; flate readers implement flate.Resetter.
var deflateReaderPool sync.Pool

// DeflateCompressor produces and consumes raw DEFLATE streams (RFC 1951) with no
// zlib or gzip header and no checksum. This is the framing the game applies to
// save files on disk.
type DeflateCompressor struct {
	level   int
	maxSize int
}

var _ Codec = (*DeflateCompressor)(nil)

// NewDeflateCompressor creates a raw DEFLATE codec with the default compression
// level and DefaultMaxDecompressedSize.
//
// Returns:
//   - DeflateCompressor: New deflate codec instance
func NewDeflateCompressor() DeflateCompressor {
	return DeflateCompressor{
		level:   flate.DefaultCompression,
		maxSize: DefaultMaxDecompressedSize,
	}
}

// NewDeflateCompressorLevel creates a raw DEFLATE codec with the given level.
//
// Parameters:
//   - level: flate.HuffmanOnly (-2) through flate.BestCompression (9)
//   - maxSize: inflate size limit in bytes; <= 0 selects DefaultMaxDecompressedSize
//
// Returns:
//   - DeflateCompressor: New deflate codec instance
//   - error: if the level is out of range
func NewDeflateCompressorLevel(level int, maxSize int) (DeflateCompressor, error) {
	if level < flate.HuffmanOnly || level > flate.BestCompression {
		return DeflateCompressor{}, fmt.Errorf("invalid deflate compression level: %d", level)
	}
	if maxSize <= 0 {
		maxSize = DefaultMaxDecompressedSize
	}

	return DeflateCompressor{level: level, maxSize: maxSize}, nil
}

// Level returns the compression level used by Compress.
func (c DeflateCompressor) Level() int {
	return c.level
}

// Compress deflates data into a raw DEFLATE stream.
//
// Unlike the block codecs, an empty input still yields a valid (non-empty)
// stream, so Decompress(Compress(nil)) succeeds.
func (c DeflateCompressor) Compress(data []byte) ([]byte, error) {
	var buf bytes.Buffer
	buf.Grow(len(data)/2 + 64)

	pool := &deflateWriterPools[c.level-flate.HuffmanOnly]
	fw, _ := pool.Get().(*flate.Writer)
	if fw == nil {
		var err error
		fw, err = flate.NewWriter(&buf, c.level)
		if err != nil {
			return nil, err
		}
	} else {
		fw.Reset(&buf)
	}
	defer pool.Put(fw)

	if _, err := fw.Write(data); err != nil {
		return nil, fmt.Errorf("deflate compression failed: %w", err)
	}
	if err := fw.Close(); err != nil {
		return nil, fmt.Errorf("deflate compression failed: %w", err)
	}

	return buf.Bytes(), nil
}

// Decompress inflates a raw DEFLATE stream.
//
// Returns an error if the stream is corrupt, truncated, or inflates past the
// configured size limit.
func (c DeflateCompressor) Decompress(data []byte) ([]byte, error) {
	src := bytes.NewReader(data)

	fr, _ := deflateReaderPool.Get().(io.ReadCloser)
	if fr == nil {
		fr = flate.NewReader(src)
	} else if err := fr.(flate.Resetter).Reset(src, nil); err != nil {
		return nil, fmt.Errorf("deflate decompression failed: %w", err)
	}
	defer deflateReaderPool.Put(fr)

	maxSize := c.maxSize
	if maxSize <= 0 {
		maxSize = DefaultMaxDecompressedSize
	}

	var out bytes.Buffer
	out.Grow(len(data) * 4)

	n, err := io.Copy(&out, io.LimitReader(fr, int64(maxSize)+1))
	if err != nil {
		return nil, fmt.Errorf("deflate decompression failed: %w", err)
	}
	if n > int64(maxSize) {
		return nil, fmt.Errorf("deflate decompression failed: output exceeds %d bytes", maxSize)
	}

	return out.Bytes(), nil
}
