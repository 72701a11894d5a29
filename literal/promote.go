package literal

import (
	"fmt"
	"math"

	"github.com/arloliu/jkrsave/errs"
	"github.com/arloliu/jkrsave/value"
)

// Promote converts array-shaped tables of a keyed tree into sequences.
//
// A mapping becomes a sequence iff it is non-empty and every key is an index key.
// Lua indices are 1-based, so key [n] lands at position n-1; positions without a
// key are filled with null. A table using index 0 or an index above maxLen stays
// a mapping, as does a sparse table whose largest index exceeds twice its entry
// count plus sparseSlack, so holes never outnumber the entries written in the
// text. Mixed and empty tables stay mappings. Children are promoted in every case.
//
// Parameters:
//   - v: keyed tree, usually the result of Parse
//   - maxLen: largest index allowed in a sequence; <= 0 selects DefaultMaxSequenceLength
//
// Returns:
//   - value.Value: a new tree; v is not modified
func Promote(v value.Value, maxLen int) value.Value {
	if maxLen <= 0 {
		maxLen = DefaultMaxSequenceLength
	}

	return promote(v, uint64(maxLen))
}

func promote(v value.Value, maxLen uint64) value.Value {
	switch v.Kind() {
	case value.KindMapping:
		m := v.Mapping()
		if items, ok := promoteItems(m, maxLen); ok {
			return value.Sequence(items...)
		}

		out := value.NewMappingSize(m.Len())
		for _, e := range m.Entries() {
			out.Set(e.Key, promote(e.Value, maxLen))
		}

		return value.Map(out)
	case value.KindSequence:
		items := v.Items()
		out := make([]value.Value, len(items))
		for i, item := range items {
			out[i] = promote(item, maxLen)
		}

		return value.Sequence(out...)
	default:
		return v
	}
}

// sparseSlack lets short tables with a few leading holes, such as {[5]=x},
// still become sequences.
const sparseSlack = 16

func promoteItems(m *value.Mapping, maxLen uint64) ([]value.Value, bool) {
	if !m.AllIndexKeys() {
		return nil, false
	}

	limit := min(maxLen, 2*uint64(m.Len())+sparseSlack)

	var hi uint64
	for _, e := range m.Entries() {
		idx := e.Key.Index()
		if idx == 0 || idx > limit {
			return nil, false
		}
		hi = max(hi, idx)
	}

	items := make([]value.Value, hi)
	for _, e := range m.Entries() {
		items[e.Key.Index()-1] = promote(e.Value, maxLen)
	}

	return items, true
}

// Demote converts every sequence of v back into a mapping keyed [1]..[n], the
// inverse of Promote. The result is a keyed tree ready for Format.
//
// Returns:
//   - value.Value: a new keyed tree; v is not modified
//   - error: errs.ErrEncode if v contains NaN, a reference cycle, or nests deeper
//     than DefaultMaxDepth
func Demote(v value.Value) (value.Value, error) {
	d := &demoter{
		mappings:  make(map[*value.Mapping]struct{}),
		sequences: make(map[*value.Value]struct{}),
	}

	return d.demote(v, 0)
}

// demoter tracks the containers on the current path to detect cycles. A
// container shared by two branches is fine and is written twice.
type demoter struct {
	mappings  map[*value.Mapping]struct{}
	sequences map[*value.Value]struct{}
}

func (d *demoter) demote(v value.Value, depth int) (value.Value, error) {
	if depth > DefaultMaxDepth {
		return value.Value{}, fmt.Errorf("%w: tables nested deeper than %d levels", errs.ErrEncode, DefaultMaxDepth)
	}

	switch v.Kind() {
	case value.KindNull, value.KindBool, value.KindString:
		return v, nil
	case value.KindNumber:
		if n, _ := v.AsNumber(); math.IsNaN(n) {
			return value.Value{}, fmt.Errorf("%w: NaN has no literal form", errs.ErrEncode)
		}

		return v, nil
	case value.KindSequence:
		items := v.Items()
		if len(items) > 0 {
			id := &items[0]
			if _, seen := d.sequences[id]; seen {
				return value.Value{}, fmt.Errorf("%w: sequence contains itself", errs.ErrEncode)
			}
			d.sequences[id] = struct{}{}
			defer delete(d.sequences, id)
		}

		out := value.NewMappingSize(len(items))
		for i, item := range items {
			child, err := d.demote(item, depth+1)
			if err != nil {
				return value.Value{}, err
			}
			out.Set(value.IndexKey(uint64(i)+1), child)
		}

		return value.Map(out), nil
	case value.KindMapping:
		m := v.Mapping()
		if _, seen := d.mappings[m]; seen {
			return value.Value{}, fmt.Errorf("%w: mapping contains itself", errs.ErrEncode)
		}
		d.mappings[m] = struct{}{}
		defer delete(d.mappings, m)

		out := value.NewMappingSize(m.Len())
		for _, e := range m.Entries() {
			child, err := d.demote(e.Value, depth+1)
			if err != nil {
				return value.Value{}, err
			}
			out.Set(e.Key, child)
		}

		return value.Map(out), nil
	default:
		return value.Value{}, fmt.Errorf("%w: unknown value kind %s", errs.ErrEncode, v.Kind())
	}
}
