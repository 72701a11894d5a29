package literal

import (
	"errors"
	"fmt"
	"strconv"
	"strings"
	"unicode/utf8"

	"github.com/arloliu/jkrsave/errs"
	"github.com/arloliu/jkrsave/value"
)

// Parse parses Lua literal text into a keyed tree.
//
// The result holds tables only as mappings: ["name"]= keys become
// value.StringKey, [N]= keys and positional entries become value.IndexKey.
// Call Promote to turn array-shaped tables into sequences.
//
// Accepted grammar, a subset of Lua's table constructor:
//
//	chunk  = "return" value
//	value  = table | string | [ "-" ] number | "true" | "false" | "nil"
//	table  = "{" [ field { sep field } [ sep ] ] "}"
//	field  = "[" ( string | digits ) "]" "=" value | name "=" value | value
//	sep    = "," | ";"
//
// Line (--) and long (--[[ ]]) comments are skipped, also between a minus
// sign and its number. Quoted strings may not contain an unescaped line break.
//
// Returns:
//   - value.Value: the keyed tree
//   - error: *errs.SyntaxError wrapping errs.ErrMalformedLiteral for a missing
//     "return" or a bad bracket key, errs.ErrParse for anything else
func Parse(text string, opts ...ParseOption) (value.Value, error) {
	cfg, err := newParseConfig(opts...)
	if err != nil {
		return value.Value{}, err
	}

	p := &parser{src: text, cfg: cfg}
	p.skipSpace()

	if !p.consumeReturn() && !cfg.optionalReturn {
		return value.Value{}, p.errorf(errs.ErrMalformedLiteral, p.pos, "missing \"return\" prefix")
	}
	p.skipSpace()

	v, err := p.parseValue()
	if err != nil {
		return value.Value{}, err
	}

	p.skipSpace()
	if p.pos < len(p.src) {
		return value.Value{}, p.errorf(errs.ErrParse, p.pos, "unexpected %s after value", p.describe())
	}

	return v, nil
}

type parser struct {
	src   string
	pos   int
	depth int
	cfg   *ParseConfig
}

func (p *parser) eof() bool { return p.pos >= len(p.src) }

func (p *parser) peek() byte {
	if p.pos >= len(p.src) {
		return 0
	}

	return p.src[p.pos]
}

// describe names the byte at the current position for error messages.
func (p *parser) describe() string {
	if p.eof() {
		return "end of input"
	}

	return strconv.QuoteRune(rune(p.src[p.pos]))
}

func (p *parser) errorf(kind error, offset int, format string, args ...any) error {
	line, col := 1, 1
	for i := 0; i < offset && i < len(p.src); i++ {
		if p.src[i] == '\n' {
			line++
			col = 1
		} else {
			col++
		}
	}

	return &errs.SyntaxError{
		Kind:   kind,
		Msg:    fmt.Sprintf(format, args...),
		Offset: offset,
		Line:   line,
		Column: col,
	}
}

func (p *parser) skipSpace() {
	for p.pos < len(p.src) {
		switch c := p.src[p.pos]; {
		case c == ' ' || c == '\t' || c == '\n' || c == '\r' || c == '\f' || c == '\v':
			p.pos++
		case c == '-' && strings.HasPrefix(p.src[p.pos:], "--"):
			p.skipComment()
		default:
			return
		}
	}
}

func (p *parser) skipComment() {
	p.pos += 2
	if level, ok := p.longBracketLevel(); ok {
		closing := "]" + strings.Repeat("=", level) + "]"
		end := strings.Index(p.src[p.pos:], closing)
		if end < 0 {
			p.pos = len(p.src)
			return
		}
		p.pos += end + len(closing)

		return
	}

	end := strings.IndexByte(p.src[p.pos:], '\n')
	if end < 0 {
		p.pos = len(p.src)
		return
	}
	p.pos += end + 1
}

// longBracketLevel reports whether a long bracket ([[ or [==[) starts at the
// current position, consuming it if so.
func (p *parser) longBracketLevel() (int, bool) {
	if p.peek() != '[' {
		return 0, false
	}
	i := p.pos + 1
	for i < len(p.src) && p.src[i] == '=' {
		i++
	}
	if i >= len(p.src) || p.src[i] != '[' {
		return 0, false
	}
	level := i - p.pos - 1
	p.pos = i + 1

	return level, true
}

func (p *parser) consumeReturn() bool {
	const kw = "return"
	if !strings.HasPrefix(p.src[p.pos:], kw) {
		return false
	}
	next := p.pos + len(kw)
	if next < len(p.src) && isNameByte(p.src[next]) {
		return false
	}
	p.pos = next

	return true
}

func (p *parser) parseValue() (value.Value, error) {
	c := p.peek()
	switch {
	case p.eof():
		return value.Value{}, p.errorf(errs.ErrParse, p.pos, "unexpected end of input, expected a value")
	case c == '{':
		return p.parseTable()
	case c == '"' || c == '\'':
		s, err := p.parseString()
		if err != nil {
			return value.Value{}, err
		}

		return value.String(s), nil
	case c == '-' || c == '.' || isDigit(c):
		return p.parseNumber()
	case isNameStart(c):
		start := p.pos
		switch name := p.scanName(); name {
		case "true":
			return value.Bool(true), nil
		case "false":
			return value.Bool(false), nil
		case "nil":
			return value.Null(), nil
		default:
			return value.Value{}, p.errorf(errs.ErrParse, start, "unexpected identifier %q, expected a value", name)
		}
	default:
		return value.Value{}, p.errorf(errs.ErrParse, p.pos, "unexpected %s, expected a value", p.describe())
	}
}

func (p *parser) parseTable() (value.Value, error) {
	start := p.pos
	p.depth++
	if p.depth > p.cfg.maxDepth {
		return value.Value{}, p.errorf(errs.ErrParse, start, "tables nested deeper than %d levels", p.cfg.maxDepth)
	}
	defer func() { p.depth-- }()

	p.pos++ // '{'
	m := value.NewMapping()
	next := uint64(1)

	for {
		p.skipSpace()
		if p.eof() {
			return value.Value{}, p.errorf(errs.ErrParse, start, "unterminated table")
		}
		if p.peek() == '}' {
			p.pos++
			return value.Map(m), nil
		}

		key, keyed, err := p.parseFieldKey()
		if err != nil {
			return value.Value{}, err
		}

		p.skipSpace()
		v, err := p.parseValue()
		if err != nil {
			return value.Value{}, err
		}
		if !keyed {
			key = value.IndexKey(next)
			next++
		}
		m.Set(key, v)

		p.skipSpace()
		switch p.peek() {
		case ',', ';':
			p.pos++
		case '}':
			if p.cfg.strictTrailingComma {
				return value.Value{}, p.errorf(errs.ErrMalformedLiteral, p.pos, "missing trailing separator before '}'")
			}
			p.pos++

			return value.Map(m), nil
		default:
			if p.eof() {
				return value.Value{}, p.errorf(errs.ErrParse, start, "unterminated table")
			}

			return value.Value{}, p.errorf(errs.ErrParse, p.pos, "unexpected %s, expected ',' or '}'", p.describe())
		}
	}
}

// parseFieldKey consumes an explicit key and its '=' if one is present.
// keyed is false for a positional entry, in which case nothing is consumed.
func (p *parser) parseFieldKey() (value.Key, bool, error) {
	switch c := p.peek(); {
	case c == '[':
		k, err := p.parseBracketKey()
		if err != nil {
			return value.Key{}, false, err
		}

		return k, true, nil
	case isNameStart(c):
		save := p.pos
		name := p.scanName()
		p.skipSpace()
		if p.peek() == '=' && !strings.HasPrefix(p.src[p.pos:], "==") {
			p.pos++
			return value.StringKey(name), true, nil
		}
		p.pos = save

		return value.Key{}, false, nil
	default:
		return value.Key{}, false, nil
	}
}

func (p *parser) parseBracketKey() (value.Key, error) {
	start := p.pos
	p.pos++ // '['
	p.skipSpace()

	var key value.Key
	switch c := p.peek(); {
	case c == '"' || c == '\'':
		s, err := p.parseString()
		if err != nil {
			msg := err.Error()
			var synErr *errs.SyntaxError
			if errors.As(err, &synErr) {
				msg = synErr.Msg
			}

			return value.Key{}, p.errorf(errs.ErrMalformedLiteral, start, "invalid string key: %s", msg)
		}
		key = value.StringKey(s)
	case isDigit(c):
		digitsStart := p.pos
		for isDigit(p.peek()) {
			p.pos++
		}
		if nc := p.peek(); nc == '.' || nc == 'e' || nc == 'E' || nc == 'x' || nc == 'X' {
			return value.Key{}, p.errorf(errs.ErrMalformedLiteral, start, "bracket key must be a non-negative integer")
		}
		n, err := strconv.ParseUint(p.src[digitsStart:p.pos], 10, 64)
		if err != nil {
			return value.Key{}, p.errorf(errs.ErrMalformedLiteral, start, "index key %s out of range", p.src[digitsStart:p.pos])
		}
		key = value.IndexKey(n)
	default:
		return value.Key{}, p.errorf(errs.ErrMalformedLiteral, start, "bracket key must be a quoted string or an integer")
	}

	p.skipSpace()
	if p.peek() != ']' {
		return value.Key{}, p.errorf(errs.ErrMalformedLiteral, start, "unterminated bracket key")
	}
	p.pos++

	p.skipSpace()
	if p.peek() != '=' {
		return value.Key{}, p.errorf(errs.ErrMalformedLiteral, p.pos, "expected '=' after key %s", key)
	}
	p.pos++

	return key, nil
}

func (p *parser) scanName() string {
	start := p.pos
	for p.pos < len(p.src) && isNameByte(p.src[p.pos]) {
		p.pos++
	}

	return p.src[start:p.pos]
}

// parseString parses a quoted string with Lua escapes.
func (p *parser) parseString() (string, error) {
	start := p.pos
	quote := p.src[p.pos]
	p.pos++

	// fast path: no escapes
	for i := p.pos; i < len(p.src); i++ {
		c := p.src[i]
		if c == quote {
			s := p.src[p.pos:i]
			p.pos = i + 1

			return s, nil
		}
		if c == '\\' || c == '\n' || c == '\r' {
			break
		}
	}

	var sb strings.Builder
	for {
		if p.eof() {
			return "", p.errorf(errs.ErrParse, start, "unterminated string")
		}
		c := p.src[p.pos]
		switch {
		case c == quote:
			p.pos++
			return sb.String(), nil
		case c == '\\':
			if err := p.parseEscape(&sb); err != nil {
				return "", err
			}
		case c == '\n' || c == '\r':
			return "", p.errorf(errs.ErrParse, p.pos, "unescaped line break in string")
		default:
			sb.WriteByte(c)
			p.pos++
		}
	}
}

func (p *parser) parseEscape(sb *strings.Builder) error {
	start := p.pos
	p.pos++ // '\'
	if p.eof() {
		return p.errorf(errs.ErrParse, start, "unterminated escape sequence")
	}

	c := p.src[p.pos]
	p.pos++
	switch c {
	case 'n':
		sb.WriteByte('\n')
	case 't':
		sb.WriteByte('\t')
	case 'r':
		sb.WriteByte('\r')
	case 'a':
		sb.WriteByte('\a')
	case 'b':
		sb.WriteByte('\b')
	case 'f':
		sb.WriteByte('\f')
	case 'v':
		sb.WriteByte('\v')
	case '\\', '"', '\'':
		sb.WriteByte(c)
	case '\n', '\r':
		// escaped line break; \r\n and \n\r count as one
		if nc := p.peek(); (nc == '\n' || nc == '\r') && nc != c {
			p.pos++
		}
		sb.WriteByte('\n')
	case 'z':
		for p.pos < len(p.src) && isSpace(p.src[p.pos]) {
			p.pos++
		}
	case 'x':
		if p.pos+2 > len(p.src) || !isHexDigit(p.src[p.pos]) || !isHexDigit(p.src[p.pos+1]) {
			return p.errorf(errs.ErrParse, start, "invalid \\x escape, expected two hex digits")
		}
		n, _ := strconv.ParseUint(p.src[p.pos:p.pos+2], 16, 8)
		sb.WriteByte(byte(n))
		p.pos += 2
	case 'u':
		if p.peek() != '{' {
			return p.errorf(errs.ErrParse, start, "invalid \\u escape, expected '{'")
		}
		p.pos++
		digitsStart := p.pos
		for isHexDigit(p.peek()) {
			p.pos++
		}
		if p.pos == digitsStart || p.peek() != '}' {
			return p.errorf(errs.ErrParse, start, "invalid \\u escape")
		}
		r, err := strconv.ParseUint(p.src[digitsStart:p.pos], 16, 32)
		if err != nil || r > utf8.MaxRune {
			return p.errorf(errs.ErrParse, start, "\\u escape out of range")
		}
		p.pos++
		sb.WriteRune(rune(r))
	default:
		if !isDigit(c) {
			return p.errorf(errs.ErrParse, start, "invalid escape sequence \\%c", c)
		}
		n := int(c - '0')
		for i := 0; i < 2 && isDigit(p.peek()); i++ {
			n = n*10 + int(p.src[p.pos]-'0')
			p.pos++
		}
		if n > 255 {
			return p.errorf(errs.ErrParse, start, "decimal escape \\%d too large", n)
		}
		sb.WriteByte(byte(n))
	}

	return nil
}

func (p *parser) parseNumber() (value.Value, error) {
	start := p.pos
	neg := false
	if p.peek() == '-' {
		neg = true
		p.pos++
		p.skipSpace()
	}
	numStart := p.pos

	if p.peek() == '0' && p.pos+1 < len(p.src) && (p.src[p.pos+1] == 'x' || p.src[p.pos+1] == 'X') {
		p.pos += 2
		digitsStart := p.pos
		for isHexDigit(p.peek()) {
			p.pos++
		}
		if p.pos == digitsStart || isNameByte(p.peek()) || p.peek() == '.' {
			return value.Value{}, p.errorf(errs.ErrParse, start, "malformed hex number")
		}
		n, err := strconv.ParseUint(p.src[digitsStart:p.pos], 16, 64)
		if err != nil {
			return value.Value{}, p.errorf(errs.ErrParse, start, "hex number out of range")
		}
		f := float64(n)
		if neg {
			f = -f
		}

		return value.Number(f), nil
	}

	digits := 0
	for isDigit(p.peek()) {
		p.pos++
		digits++
	}
	if p.peek() == '.' {
		p.pos++
		for isDigit(p.peek()) {
			p.pos++
			digits++
		}
	}
	if digits == 0 {
		return value.Value{}, p.errorf(errs.ErrParse, start, "malformed number")
	}
	if c := p.peek(); c == 'e' || c == 'E' {
		p.pos++
		if c := p.peek(); c == '+' || c == '-' {
			p.pos++
		}
		if !isDigit(p.peek()) {
			return value.Value{}, p.errorf(errs.ErrParse, start, "malformed number exponent")
		}
		for isDigit(p.peek()) {
			p.pos++
		}
	}
	if isNameByte(p.peek()) || p.peek() == '.' {
		return value.Value{}, p.errorf(errs.ErrParse, start, "malformed number")
	}

	// out-of-range literals such as 1e309 keep their ±Inf or 0 result, as in Lua
	f, err := strconv.ParseFloat(p.src[numStart:p.pos], 64)
	if err != nil && !errors.Is(err, strconv.ErrRange) {
		return value.Value{}, p.errorf(errs.ErrParse, start, "invalid number %s", p.src[start:p.pos])
	}
	if neg {
		f = -f
	}

	return value.Number(f), nil
}

func isDigit(c byte) bool { return c >= '0' && c <= '9' }

func isHexDigit(c byte) bool {
	return isDigit(c) || (c >= 'a' && c <= 'f') || (c >= 'A' && c <= 'F')
}

func isNameStart(c byte) bool {
	return c == '_' || (c >= 'a' && c <= 'z') || (c >= 'A' && c <= 'Z')
}

func isNameByte(c byte) bool { return isNameStart(c) || isDigit(c) }

func isSpace(c byte) bool {
	return c == ' ' || c == '\t' || c == '\n' || c == '\r' || c == '\f' || c == '\v'
}
