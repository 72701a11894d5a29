package literal

import (
	"fmt"

	"github.com/arloliu/jkrsave/errs"
	"github.com/arloliu/jkrsave/internal/options"
)

const (
	// DefaultMaxDepth bounds table nesting for both parsing and encoding.
	DefaultMaxDepth = 512

	// DefaultMaxSequenceLength is the largest index a table may use and still be
	// promoted to a sequence. Tables with larger indices stay mappings. Promote
	// also keeps sparse tables as mappings, so null holes stay proportional to
	// the number of entries in the text.
	DefaultMaxSequenceLength = 1 << 20
)

// ParseConfig holds the parser settings.
type ParseConfig struct {
	optionalReturn      bool
	strictTrailingComma bool
	maxDepth            int
}

// ParseOption represents a functional option for configuring the parser.
type ParseOption = options.Option[*ParseConfig]

func newParseConfig(opts ...ParseOption) (*ParseConfig, error) {
	cfg := &ParseConfig{maxDepth: DefaultMaxDepth}
	if err := options.Apply(cfg, opts...); err != nil {
		return nil, err
	}

	return cfg, nil
}

// WithOptionalReturn accepts literal text without the leading "return" keyword.
// By default its absence is an errs.ErrMalformedLiteral.
func WithOptionalReturn() ParseOption {
	return options.NoError(func(c *ParseConfig) {
		c.optionalReturn = true
	})
}

// WithStrictTrailingComma rejects non-empty tables whose last entry is not
// followed by a separator. The game always writes one, so its absence points to
// a hand-edited or truncated file.
func WithStrictTrailingComma() ParseOption {
	return options.NoError(func(c *ParseConfig) {
		c.strictTrailingComma = true
	})
}

// WithMaxDepth sets the maximum table nesting depth.
func WithMaxDepth(depth int) ParseOption {
	return options.New(func(c *ParseConfig) error {
		if depth <= 0 {
			return fmt.Errorf("%w: max depth %d must be positive", errs.ErrInvalidOption, depth)
		}
		c.maxDepth = depth

		return nil
	})
}
