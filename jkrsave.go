// Package jkrsave reads and writes Balatro save files.
//
// A save file (save.jkr, profile.jkr, meta.jkr) is a Lua table literal
//
//	return {["GAME"]={["round"]=3,},["cardAreas"]={...},}
//
// compressed with raw DEFLATE. Decode turns such a file into a value.Value tree in
// which Lua arrays are sequences (0-based) and every other table is a mapping.
// Encode performs the inverse and produces bytes the game loads.
//
// # Basic Usage
//
//	data, _ := os.ReadFile("save.jkr")
//
//	tree, err := jkrsave.Decode(data)
//	if err != nil {
//	    return err
//	}
//
//	round, _ := tree.Lookup("GAME", "round")
//	fmt.Println("round:", round)
//
//	_ = value.SetPath(tree, value.Int(100000), "GAME", "dollars")
//	out, err := jkrsave.Encode(tree)
//
// # Errors
//
// Failures are classified by the sentinels in package errs: errs.ErrFraming for
// input that is not a raw DEFLATE stream of UTF-8 text, errs.ErrMalformedLiteral
// and errs.ErrParse for broken literal text, and errs.ErrEncode for trees that
// cannot be written. No partial result is ever returned.
//
// # Package Structure
//
// The top-level Codec wires together package compress (framing), package literal
// (text to keyed tree and back) and package value (the tree). Session adds a
// revision journal from package history on top.
package jkrsave

import (
	"fmt"
	"log/slog"
	"unicode/utf8"

	"github.com/arloliu/jkrsave/compress"
	"github.com/arloliu/jkrsave/errs"
	"github.com/arloliu/jkrsave/internal/hash"
	"github.com/arloliu/jkrsave/literal"
	"github.com/arloliu/jkrsave/value"
)

// Codec converts between save-file bytes and value trees.
//
// A Codec holds configuration only and is safe for concurrent use.
type Codec struct {
	deflate        compress.DeflateCompressor
	parseOpts      []literal.ParseOption
	maxSequenceLen int
	logger         *slog.Logger
}

// NewCodec creates a Codec.
//
// Parameters:
//   - opts: optional configuration; see the With* functions
//
// Returns:
//   - *Codec: the configured codec
//   - error: errs.ErrInvalidOption if an option carries an invalid value
func NewCodec(opts ...Option) (*Codec, error) {
	cfg, err := newCodecConfig(opts...)
	if err != nil {
		return nil, err
	}

	deflate, err := compress.NewDeflateCompressorLevel(cfg.level, cfg.maxDecompressed)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", errs.ErrInvalidOption, err)
	}

	return &Codec{
		deflate:        deflate,
		parseOpts:      cfg.parseOpts,
		maxSequenceLen: cfg.maxSequenceLen,
		logger:         cfg.logger,
	}, nil
}

// Decode inflates and parses a save file.
//
// Returns:
//   - value.Value: the decoded tree; the root of a save is a mapping
//   - error: errs.ErrFraming, errs.ErrMalformedLiteral or errs.ErrParse
func (c *Codec) Decode(data []byte) (value.Value, error) {
	text, err := c.inflate(data)
	if err != nil {
		return value.Value{}, err
	}

	tree, err := c.DecodeText(text)
	if err != nil {
		return value.Value{}, err
	}
	c.logger.Debug("save decoded", "compressed", len(data), "text", len(text))

	return tree, nil
}

// Encode serializes and deflates a tree into save-file bytes.
//
// Returns:
//   - []byte: raw DEFLATE stream of the literal text
//   - error: errs.ErrEncode if the tree has no literal form
func (c *Codec) Encode(v value.Value) ([]byte, error) {
	text, err := c.EncodeText(v)
	if err != nil {
		return nil, err
	}

	data, err := c.deflateText(text)
	if err != nil {
		return nil, err
	}
	c.logger.Debug("save encoded", "text", len(text), "compressed", len(data))

	return data, nil
}

// DecodeText parses already-inflated literal text, skipping the framing layer.
func (c *Codec) DecodeText(text string) (value.Value, error) {
	keyed, err := literal.Parse(text, c.parseOpts...)
	if err != nil {
		return value.Value{}, err
	}

	return literal.Promote(keyed, c.maxSequenceLen), nil
}

// EncodeText renders a tree as literal text without compressing it.
func (c *Codec) EncodeText(v value.Value) (string, error) {
	keyed, err := literal.Demote(v)
	if err != nil {
		return "", err
	}

	return literal.Format(keyed)
}

func (c *Codec) inflate(data []byte) (string, error) {
	raw, err := c.deflate.Decompress(data)
	if err != nil {
		return "", fmt.Errorf("%w: %w", errs.ErrFraming, err)
	}
	if !utf8.Valid(raw) {
		return "", fmt.Errorf("%w: inflated text is not valid UTF-8", errs.ErrFraming)
	}

	return string(raw), nil
}

func (c *Codec) deflateText(text string) ([]byte, error) {
	data, err := c.deflate.Compress([]byte(text))
	if err != nil {
		return nil, fmt.Errorf("%w: %w", errs.ErrEncode, err)
	}

	return data, nil
}

var defaultCodec, _ = NewCodec()

// Decode decodes a save file with default settings.
func Decode(data []byte) (value.Value, error) {
	return defaultCodec.Decode(data)
}

// Encode encodes a tree as a save file with default settings.
func Encode(v value.Value) ([]byte, error) {
	return defaultCodec.Encode(v)
}

// Fingerprint returns the xxHash64 of v's literal text.
//
// Trees that encode to the same bytes share a fingerprint, so it detects whether
// an edit changed anything the game would see. Mapping order is significant.
func Fingerprint(v value.Value) (uint64, error) {
	text, err := defaultCodec.EncodeText(v)
	if err != nil {
		return 0, err
	}

	return hash.ID(text), nil
}
