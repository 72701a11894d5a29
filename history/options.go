package history

import (
	"fmt"
	"time"

	"github.com/arloliu/jkrsave/compress"
	"github.com/arloliu/jkrsave/errs"
	"github.com/arloliu/jkrsave/format"
	"github.com/arloliu/jkrsave/internal/options"
)

// DefaultLimit is the number of revisions a Journal retains by default.
const DefaultLimit = 32

// Config holds Journal settings.
type Config struct {
	compression format.CompressionType
	limit       int
	clock       func() time.Time
}

// Option represents a functional option for configuring a Journal.
type Option = options.Option[*Config]

func newConfig(opts ...Option) (*Config, error) {
	cfg := &Config{
		compression: format.CompressionZstd,
		limit:       DefaultLimit,
		clock:       time.Now,
	}
	if err := options.Apply(cfg, opts...); err != nil {
		return nil, err
	}

	return cfg, nil
}

// WithCompression selects the codec snapshots are stored with.
//
// Any type supported by compress.GetCodec is accepted. Zstd gives the best ratio
// on literal text; S2 and LZ4 trade ratio for speed.
func WithCompression(ct format.CompressionType) Option {
	return options.New(func(c *Config) error {
		if _, err := compress.GetCodec(ct); err != nil {
			return fmt.Errorf("%w: journal %w", errs.ErrInvalidOption, err)
		}
		c.compression = ct

		return nil
	})
}

// WithLimit sets how many revisions are retained before the oldest is evicted.
func WithLimit(n int) Option {
	return options.New(func(c *Config) error {
		if n <= 0 {
			return fmt.Errorf("%w: journal limit %d must be positive", errs.ErrInvalidOption, n)
		}
		c.limit = n

		return nil
	})
}

// WithClock overrides the time source used to stamp revisions.
func WithClock(now func() time.Time) Option {
	return options.New(func(c *Config) error {
		if now == nil {
			return fmt.Errorf("%w: journal clock is nil", errs.ErrInvalidOption)
		}
		c.clock = now

		return nil
	})
}
