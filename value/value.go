package value

import (
	"fmt"
	"math"
)

// Kind identifies which variant a Value holds.
type Kind uint8

const (
	KindNull Kind = iota
	KindBool
	KindNumber
	KindString
	KindSequence
	KindMapping
)

// String returns the kind name.
func (k Kind) String() string {
	switch k {
	case KindNull:
		return "null"
	case KindBool:
		return "bool"
	case KindNumber:
		return "number"
	case KindString:
		return "string"
	case KindSequence:
		return "sequence"
	case KindMapping:
		return "mapping"
	default:
		return "unknown"
	}
}

// Value is one node of a save tree: a scalar, an ordered sequence, or a mapping.
//
// The zero Value is Null. Values are small and passed by value; a sequence shares
// its backing slice and a mapping shares its *Mapping with every copy, the same
// way Go slices and maps do.
type Value struct {
	kind Kind
	b    bool
	n    float64
	s    string
	seq  []Value
	m    *Mapping
}

// Null returns the null value (Lua nil).
func Null() Value { return Value{} }

// Bool returns a boolean value.
func Bool(b bool) Value { return Value{kind: KindBool, b: b} }

// Number returns a numeric value.
func Number(f float64) Value { return Value{kind: KindNumber, n: f} }

// Int returns a numeric value holding i.
func Int(i int64) Value { return Value{kind: KindNumber, n: float64(i)} }

// String returns a string value. Lua strings are byte strings; s need not be UTF-8.
func String(s string) Value { return Value{kind: KindString, s: s} }

// Sequence returns a sequence holding a copy of items.
func Sequence(items ...Value) Value {
	seq := make([]Value, len(items))
	copy(seq, items)

	return Value{kind: KindSequence, seq: seq}
}

// Map wraps m as a Value. A nil m is treated as an empty mapping.
func Map(m *Mapping) Value {
	if m == nil {
		m = NewMapping()
	}

	return Value{kind: KindMapping, m: m}
}

// MapOf builds a mapping value from string-keyed pairs, in argument order.
//
//	v := value.MapOf("level", value.Int(3), "played", value.Int(12))
//
// It panics if pairs has odd length or a key is not a string.
func MapOf(pairs ...any) Value {
	if len(pairs)%2 != 0 {
		panic("value.MapOf: odd number of arguments")
	}

	m := NewMapping()
	for i := 0; i < len(pairs); i += 2 {
		k, ok := pairs[i].(string)
		if !ok {
			panic(fmt.Sprintf("value.MapOf: key %d is %T, not string", i/2, pairs[i]))
		}
		v, ok := pairs[i+1].(Value)
		if !ok {
			panic(fmt.Sprintf("value.MapOf: value for %q is %T, not Value", k, pairs[i+1]))
		}
		m.Set(StringKey(k), v)
	}

	return Map(m)
}

// Kind returns the variant held by v.
func (v Value) Kind() Kind { return v.kind }

// IsNull reports whether v is null.
func (v Value) IsNull() bool { return v.kind == KindNull }

// AsBool returns the boolean and whether v is a bool.
func (v Value) AsBool() (bool, bool) { return v.b, v.kind == KindBool }

// AsNumber returns the number and whether v is a number.
func (v Value) AsNumber() (float64, bool) { return v.n, v.kind == KindNumber }

// AsInt returns the number as int64 when v is an integral number in range.
func (v Value) AsInt() (int64, bool) {
	if v.kind != KindNumber || v.n != math.Trunc(v.n) || math.Abs(v.n) > 1<<53 {
		return 0, false
	}

	return int64(v.n), true
}

// AsString returns the string and whether v is a string.
func (v Value) AsString() (string, bool) { return v.s, v.kind == KindString }

// Items returns the elements of a sequence, or nil for any other kind.
// The slice is shared with v.
func (v Value) Items() []Value {
	if v.kind != KindSequence {
		return nil
	}

	return v.seq
}

// Mapping returns the mapping held by v, or nil for any other kind.
func (v Value) Mapping() *Mapping {
	if v.kind != KindMapping {
		return nil
	}

	return v.m
}

// Len returns the number of elements of a sequence or entries of a mapping, 0 otherwise.
func (v Value) Len() int {
	switch v.kind {
	case KindSequence:
		return len(v.seq)
	case KindMapping:
		return v.m.Len()
	default:
		return 0
	}
}

// String renders v in a compact debug form; it is not the Lua literal encoding.
func (v Value) String() string {
	switch v.kind {
	case KindNull:
		return "null"
	case KindBool:
		return fmt.Sprint(v.b)
	case KindNumber:
		return fmt.Sprint(v.n)
	case KindString:
		return fmt.Sprintf("%q", v.s)
	case KindSequence:
		return fmt.Sprintf("sequence[%d]", len(v.seq))
	case KindMapping:
		return fmt.Sprintf("mapping[%d]", v.m.Len())
	default:
		return "unknown"
	}
}
