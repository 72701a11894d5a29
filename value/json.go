package value

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"math"
	"strconv"
	"strings"
)

// MarshalJSON encodes v as JSON.
//
// Sequences become arrays and mappings become objects with keys in insertion
// order. Index keys of mixed mappings are written as "[n]" so they survive a JSON
// round trip. A string key that would read back as an index key, or that starts
// with a backslash, gets one extra leading backslash. NaN and infinities have no
// JSON form and are rejected.
func (v Value) MarshalJSON() ([]byte, error) {
	var buf bytes.Buffer
	if err := appendJSON(&buf, v, 0); err != nil {
		return nil, err
	}

	return buf.Bytes(), nil
}

// UnmarshalJSON decodes JSON into v, preserving object key order.
// Object keys of the form "[n]" become index keys; one leading backslash is
// stripped from any other key that has one.
func (v *Value) UnmarshalJSON(data []byte) error {
	dec := json.NewDecoder(bytes.NewReader(data))
	dec.UseNumber()

	out, err := readJSON(dec, 0)
	if err != nil {
		return err
	}
	if _, err := dec.Token(); !errors.Is(err, io.EOF) {
		return fmt.Errorf("value: trailing data after JSON value")
	}
	*v = out

	return nil
}

const maxJSONDepth = 512

func appendJSON(buf *bytes.Buffer, v Value, depth int) error {
	if depth > maxJSONDepth {
		return fmt.Errorf("value: nesting exceeds %d levels", maxJSONDepth)
	}

	switch v.kind {
	case KindNull:
		buf.WriteString("null")
	case KindBool:
		buf.WriteString(strconv.FormatBool(v.b))
	case KindNumber:
		if math.IsNaN(v.n) || math.IsInf(v.n, 0) {
			return fmt.Errorf("value: %v has no JSON representation", v.n)
		}
		b, _ := json.Marshal(v.n)
		buf.Write(b)
	case KindString:
		b, _ := json.Marshal(v.s)
		buf.Write(b)
	case KindSequence:
		buf.WriteByte('[')
		for i, item := range v.seq {
			if i > 0 {
				buf.WriteByte(',')
			}
			if err := appendJSON(buf, item, depth+1); err != nil {
				return err
			}
		}
		buf.WriteByte(']')
	case KindMapping:
		buf.WriteByte('{')
		for i, e := range v.m.Entries() {
			if i > 0 {
				buf.WriteByte(',')
			}
			b, _ := json.Marshal(jsonName(e.Key))
			buf.Write(b)
			buf.WriteByte(':')
			if err := appendJSON(buf, e.Value, depth+1); err != nil {
				return err
			}
		}
		buf.WriteByte('}')
	default:
		return fmt.Errorf("value: unknown kind %d", v.kind)
	}

	return nil
}

func readJSON(dec *json.Decoder, depth int) (Value, error) {
	if depth > maxJSONDepth {
		return Value{}, fmt.Errorf("value: nesting exceeds %d levels", maxJSONDepth)
	}

	tok, err := dec.Token()
	if err != nil {
		return Value{}, err
	}

	switch t := tok.(type) {
	case nil:
		return Null(), nil
	case bool:
		return Bool(t), nil
	case json.Number:
		f, err := t.Float64()
		if err != nil {
			return Value{}, fmt.Errorf("value: invalid number %s: %w", t, err)
		}

		return Number(f), nil
	case string:
		return String(t), nil
	case json.Delim:
		switch t {
		case '[':
			items := []Value{}
			for dec.More() {
				item, err := readJSON(dec, depth+1)
				if err != nil {
					return Value{}, err
				}
				items = append(items, item)
			}
			if _, err := dec.Token(); err != nil {
				return Value{}, err
			}

			return Value{kind: KindSequence, seq: items}, nil
		case '{':
			m := NewMapping()
			for dec.More() {
				keyTok, err := dec.Token()
				if err != nil {
					return Value{}, err
				}
				name, _ := keyTok.(string)
				item, err := readJSON(dec, depth+1)
				if err != nil {
					return Value{}, err
				}
				m.Set(jsonKey(name), item)
			}
			if _, err := dec.Token(); err != nil {
				return Value{}, err
			}

			return Map(m), nil
		}
	}

	return Value{}, fmt.Errorf("value: unexpected JSON token %v", tok)
}

// jsonName is the object key written for k; jsonKey reverses it.
func jsonName(k Key) string {
	if k.isIndex {
		return k.String()
	}
	if strings.HasPrefix(k.name, `\`) || jsonKey(k.name).isIndex {
		return `\` + k.name
	}

	return k.name
}

// jsonKey maps "[n]" back to an index key and unescapes string keys.
func jsonKey(name string) Key {
	if rest, ok := strings.CutPrefix(name, `\`); ok {
		return StringKey(rest)
	}
	if len(name) >= 3 && name[0] == '[' && name[len(name)-1] == ']' {
		digits := name[1 : len(name)-1]
		if digits[0] >= '0' && digits[0] <= '9' {
			if n, err := strconv.ParseUint(digits, 10, 64); err == nil {
				return IndexKey(n)
			}
		}
	}

	return StringKey(name)
}
