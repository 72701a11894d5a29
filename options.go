package jkrsave

import (
	"fmt"
	"log/slog"

	"github.com/klauspost/compress/flate"

	"github.com/arloliu/jkrsave/compress"
	"github.com/arloliu/jkrsave/errs"
	"github.com/arloliu/jkrsave/internal/options"
	"github.com/arloliu/jkrsave/literal"
)

// CodecConfig holds the settings a Codec is built from.
type CodecConfig struct {
	level           int
	maxDecompressed int
	maxSequenceLen  int
	parseOpts       []literal.ParseOption
	logger          *slog.Logger
}

// Option represents a functional option for configuring a Codec.
type Option = options.Option[*CodecConfig]

func newCodecConfig(opts ...Option) (*CodecConfig, error) {
	cfg := &CodecConfig{
		level:           flate.DefaultCompression,
		maxDecompressed: compress.DefaultMaxDecompressedSize,
		maxSequenceLen:  literal.DefaultMaxSequenceLength,
		logger:          slog.New(slog.DiscardHandler),
	}
	if err := options.Apply(cfg, opts...); err != nil {
		return nil, err
	}

	return cfg, nil
}

// WithCompressionLevel sets the DEFLATE level used by Encode, from
// flate.HuffmanOnly (-2) to flate.BestCompression (9). The game reads any level.
func WithCompressionLevel(level int) Option {
	return options.New(func(c *CodecConfig) error {
		if level < flate.HuffmanOnly || level > flate.BestCompression {
			return fmt.Errorf("%w: compression level %d", errs.ErrInvalidOption, level)
		}
		c.level = level

		return nil
	})
}

// WithMaxDecompressedSize caps how many bytes Decode inflates before giving up
// with errs.ErrFraming.
func WithMaxDecompressedSize(n int) Option {
	return options.New(func(c *CodecConfig) error {
		if n <= 0 {
			return fmt.Errorf("%w: max decompressed size %d must be positive", errs.ErrInvalidOption, n)
		}
		c.maxDecompressed = n

		return nil
	})
}

// WithMaxSequenceLength sets the largest Lua index a table may use and still be
// decoded as a sequence.
func WithMaxSequenceLength(n int) Option {
	return options.New(func(c *CodecConfig) error {
		if n <= 0 {
			return fmt.Errorf("%w: max sequence length %d must be positive", errs.ErrInvalidOption, n)
		}
		c.maxSequenceLen = n

		return nil
	})
}

// WithOptionalReturn makes Decode accept literal text without the "return" prefix.
func WithOptionalReturn() Option {
	return options.NoError(func(c *CodecConfig) {
		c.parseOpts = append(c.parseOpts, literal.WithOptionalReturn())
	})
}

// WithStrictTrailingComma makes Decode reject tables whose last entry has no
// trailing separator, which the game never writes.
func WithStrictTrailingComma() Option {
	return options.NoError(func(c *CodecConfig) {
		c.parseOpts = append(c.parseOpts, literal.WithStrictTrailingComma())
	})
}

// WithLogger sets the logger. The codec only logs at debug level.
func WithLogger(logger *slog.Logger) Option {
	return options.New(func(c *CodecConfig) error {
		if logger == nil {
			return fmt.Errorf("%w: logger is nil", errs.ErrInvalidOption)
		}
		c.logger = logger

		return nil
	})
}
