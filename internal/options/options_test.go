package options

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/require"
)

type parserConfig struct {
	maxDepth int
	strict   bool
	applied  []string
}

func withMaxDepth(n int) Option[*parserConfig] {
	return New(func(c *parserConfig) error {
		if n <= 0 {
			return errors.New("max depth must be positive")
		}
		c.maxDepth = n
		c.applied = append(c.applied, "maxDepth")

		return nil
	})
}

func withStrict() Option[*parserConfig] {
	return NoError(func(c *parserConfig) {
		c.strict = true
		c.applied = append(c.applied, "strict")
	})
}

func TestApply(t *testing.T) {
	t.Run("applies in order", func(t *testing.T) {
		cfg := &parserConfig{}
		err := Apply(cfg, withStrict(), withMaxDepth(64))
		require.NoError(t, err)
		require.True(t, cfg.strict)
		require.Equal(t, 64, cfg.maxDepth)
		require.Equal(t, []string{"strict", "maxDepth"}, cfg.applied)
	})

	t.Run("stops at first error", func(t *testing.T) {
		cfg := &parserConfig{}
		err := Apply(cfg, withMaxDepth(8), withMaxDepth(0), withStrict())
		require.EqualError(t, err, "max depth must be positive")
		require.Equal(t, 8, cfg.maxDepth)
		require.False(t, cfg.strict, "options after a failure must not run")
	})

	t.Run("nil options are skipped", func(t *testing.T) {
		cfg := &parserConfig{}
		require.NoError(t, Apply(cfg, nil, withStrict()))
		require.True(t, cfg.strict)
	})

	t.Run("no options", func(t *testing.T) {
		cfg := &parserConfig{maxDepth: 3}
		require.NoError(t, Apply(cfg))
		require.Equal(t, 3, cfg.maxDepth)
	})
}

func TestOption_GenericTargets(t *testing.T) {
	count := 0
	err := Apply(&count, NoError(func(c *int) { *c += 2 }), New(func(c *int) error {
		*c *= 10
		return nil
	}))
	require.NoError(t, err)
	require.Equal(t, 20, count)
}
