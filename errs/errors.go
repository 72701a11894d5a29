// Package errs defines the errors returned by jkrsave packages.
//
// Every failure is classified by one of the sentinel errors below, so callers can
// branch with errors.Is regardless of how much context was wrapped around it:
//
//	tree, err := jkrsave.Decode(data)
//	switch {
//	case errors.Is(err, errs.ErrFraming):
//	    // not a save file, or a corrupted one
//	case errors.Is(err, errs.ErrParse), errors.Is(err, errs.ErrMalformedLiteral):
//	    // decompressed fine but the table literal is broken
//	}
//
// Syntax problems additionally carry their position as *SyntaxError.
package errs

import (
	"errors"
	"fmt"
)

var (
	// ErrFraming is returned when input bytes are not valid raw DEFLATE data,
	// inflate past the configured size limit, or are not valid UTF-8 once inflated.
	ErrFraming = errors.New("invalid save framing")

	// ErrMalformedLiteral is returned when the literal text lacks the "return" prefix
	// or a bracketed key violates the key grammar.
	ErrMalformedLiteral = errors.New("malformed lua literal")

	// ErrParse is returned when the literal text is not a well-formed table literal.
	ErrParse = errors.New("lua literal parse error")

	// ErrEncode is returned when a value tree cannot be represented as a literal,
	// e.g. it contains NaN or a reference cycle.
	ErrEncode = errors.New("unrepresentable value")

	// ErrInvalidCompression is returned for an unknown or unsupported compression type.
	ErrInvalidCompression = errors.New("invalid compression type")

	// ErrInvalidOption is returned when a configuration option carries an invalid value.
	ErrInvalidOption = errors.New("invalid option")

	// ErrRevisionNotFound is returned when a journal revision does not exist or was evicted.
	ErrRevisionNotFound = errors.New("revision not found")

	// ErrNoRevision is returned when a session has no revision loaded yet.
	ErrNoRevision = errors.New("no revision loaded")
)

// SyntaxError describes a problem in Lua literal text at a specific position.
//
// Kind is either ErrParse or ErrMalformedLiteral; errors.Is matches it.
type SyntaxError struct {
	Kind   error
	Msg    string
	Offset int // byte offset, 0-based
	Line   int // 1-based
	Column int // 1-based, in bytes
}

func (e *SyntaxError) Error() string {
	return fmt.Sprintf("%v: %s at line %d, column %d", e.Kind, e.Msg, e.Line, e.Column)
}

func (e *SyntaxError) Unwrap() error { return e.Kind }
