package value

import (
	"fmt"
	"strconv"
	"strings"
)

// Lookup walks path from v and returns the value found.
//
// Each segment selects a child: in a mapping it names a string key, or, when the
// segment is a decimal integer and no string key matches, an index key; in a
// sequence it is a 0-based position.
//
//	level, ok := tree.Lookup("GAME", "hands", "Pair", "level")
func (v Value) Lookup(path ...string) (Value, bool) {
	cur := v
	for _, seg := range path {
		next, ok := child(cur, seg)
		if !ok {
			return Value{}, false
		}
		cur = next
	}

	return cur, true
}

// SetPath stores val at path below root, creating the final mapping entry if it
// does not exist. Intermediate nodes must already exist. Sequences can only have
// existing positions replaced.
func SetPath(root Value, val Value, path ...string) error {
	if len(path) == 0 {
		return fmt.Errorf("set path: empty path")
	}

	parent, ok := root.Lookup(path[:len(path)-1]...)
	if !ok {
		return fmt.Errorf("set path: %s not found", strings.Join(path[:len(path)-1], "."))
	}

	last := path[len(path)-1]
	switch parent.kind {
	case KindMapping:
		parent.m.Set(segmentKey(parent.m, last), val)
		return nil
	case KindSequence:
		i, err := strconv.Atoi(last)
		if err != nil || i < 0 || i >= len(parent.seq) {
			return fmt.Errorf("set path: index %q out of range for sequence of length %d", last, len(parent.seq))
		}
		parent.seq[i] = val

		return nil
	default:
		return fmt.Errorf("set path: %s is a %s, not a container", strings.Join(path[:len(path)-1], "."), parent.kind)
	}
}

func child(v Value, seg string) (Value, bool) {
	switch v.kind {
	case KindMapping:
		if c, ok := v.m.Get(StringKey(seg)); ok {
			return c, true
		}
		if n, err := strconv.ParseUint(seg, 10, 64); err == nil {
			return v.m.Get(IndexKey(n))
		}

		return Value{}, false
	case KindSequence:
		i, err := strconv.Atoi(seg)
		if err != nil || i < 0 || i >= len(v.seq) {
			return Value{}, false
		}

		return v.seq[i], true
	default:
		return Value{}, false
	}
}

// segmentKey picks the key a path segment addresses in m: an existing string key
// first, then an existing index key, then a new string key.
func segmentKey(m *Mapping, seg string) Key {
	if _, ok := m.Get(StringKey(seg)); ok {
		return StringKey(seg)
	}
	if n, err := strconv.ParseUint(seg, 10, 64); err == nil {
		if _, ok := m.Get(IndexKey(n)); ok {
			return IndexKey(n)
		}
	}

	return StringKey(seg)
}
