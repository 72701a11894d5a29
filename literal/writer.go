package literal

import (
	"fmt"
	"math"
	"strconv"
	"unicode/utf8"

	"github.com/arloliu/jkrsave/errs"
	"github.com/arloliu/jkrsave/internal/pool"
	"github.com/arloliu/jkrsave/value"
)

// Format serializes a keyed tree as Lua literal text in the game's own shape:
//
//	return {["name"]="value",[1]=true,}
//
// Every entry is followed by a comma, string keys use ["k"]= and index keys [n]=.
// Null is written as nil. Sequences are accepted as well and written with index
// keys, though the encode path demotes them first.
//
// Returns:
//   - string: literal text starting with "return "
//   - error: errs.ErrEncode for NaN or nesting deeper than DefaultMaxDepth
func Format(v value.Value) (string, error) {
	buf := pool.GetTextBuffer()
	defer pool.PutTextBuffer(buf)

	_, _ = buf.WriteString("return ")
	if err := writeValue(buf, v, 0); err != nil {
		return "", err
	}

	return buf.String(), nil
}

func writeValue(buf *pool.ByteBuffer, v value.Value, depth int) error {
	if depth > DefaultMaxDepth {
		return fmt.Errorf("%w: tables nested deeper than %d levels", errs.ErrEncode, DefaultMaxDepth)
	}

	switch v.Kind() {
	case value.KindNull:
		_, _ = buf.WriteString("nil")
	case value.KindBool:
		b, _ := v.AsBool()
		buf.B = strconv.AppendBool(buf.B, b)
	case value.KindNumber:
		n, _ := v.AsNumber()
		out, err := appendNumber(buf.B, n)
		if err != nil {
			return err
		}
		buf.B = out
	case value.KindString:
		s, _ := v.AsString()
		buf.B = appendString(buf.B, s)
	case value.KindSequence:
		_ = buf.WriteByte('{')
		for i, item := range v.Items() {
			buf.B = appendKey(buf.B, value.IndexKey(uint64(i)+1))
			if err := writeValue(buf, item, depth+1); err != nil {
				return err
			}
			_ = buf.WriteByte(',')
		}
		_ = buf.WriteByte('}')
	case value.KindMapping:
		_ = buf.WriteByte('{')
		for _, e := range v.Mapping().Entries() {
			buf.B = appendKey(buf.B, e.Key)
			if err := writeValue(buf, e.Value, depth+1); err != nil {
				return err
			}
			_ = buf.WriteByte(',')
		}
		_ = buf.WriteByte('}')
	default:
		return fmt.Errorf("%w: unknown value kind %s", errs.ErrEncode, v.Kind())
	}

	return nil
}

// appendKey writes k followed by '='.
func appendKey(dst []byte, k value.Key) []byte {
	dst = append(dst, '[')
	if k.IsIndex() {
		dst = strconv.AppendUint(dst, k.Index(), 10)
	} else {
		dst = appendString(dst, k.Name())
	}

	return append(dst, ']', '=')
}

// appendNumber writes integral values below 1e15 in plain decimal and everything
// else in shortest exponent-capable form. Infinities use an overflowing literal,
// which Lua reads back as ±inf.
func appendNumber(dst []byte, n float64) ([]byte, error) {
	switch {
	case math.IsNaN(n):
		return dst, fmt.Errorf("%w: NaN has no literal form", errs.ErrEncode)
	case math.IsInf(n, 1):
		return append(dst, "1e309"...), nil
	case math.IsInf(n, -1):
		return append(dst, "-1e309"...), nil
	case n == math.Trunc(n) && math.Abs(n) < 1e15:
		return strconv.AppendFloat(dst, n, 'f', -1, 64), nil
	default:
		return strconv.AppendFloat(dst, n, 'g', -1, 64), nil
	}
}

// appendString writes s as a double-quoted Lua string. Control bytes and bytes
// that are not part of valid UTF-8 are written as \ddd escapes, so any byte
// string survives the round trip.
func appendString(dst []byte, s string) []byte {
	dst = append(dst, '"')
	for i := 0; i < len(s); {
		c := s[i]
		switch {
		case c == '"':
			dst = append(dst, '\\', '"')
		case c == '\\':
			dst = append(dst, '\\', '\\')
		case c == '\n':
			dst = append(dst, '\\', 'n')
		case c == '\r':
			dst = append(dst, '\\', 'r')
		case c == '\t':
			dst = append(dst, '\\', 't')
		case c < 0x20 || c == 0x7f:
			dst = appendDecimalEscape(dst, c)
		case c < utf8.RuneSelf:
			dst = append(dst, c)
		default:
			r, size := utf8.DecodeRuneInString(s[i:])
			if r == utf8.RuneError && size == 1 {
				dst = appendDecimalEscape(dst, c)
				break
			}
			dst = append(dst, s[i:i+size]...)
			i += size

			continue
		}
		i++
	}

	return append(dst, '"')
}

// appendDecimalEscape always writes three digits so a following digit cannot
// extend the escape.
func appendDecimalEscape(dst []byte, c byte) []byte {
	return append(dst, '\\', '0'+c/100, '0'+c/10%10, '0'+c%10)
}
