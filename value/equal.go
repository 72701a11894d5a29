package value

import "math"

// Equal reports whether a and b are structurally equal.
//
// Mappings compare as sets of entries, ignoring insertion order. Numbers compare
// by value, with NaN equal to NaN. An empty sequence equals an empty mapping:
// both encode to the same empty table and cannot be told apart after decoding.
func Equal(a, b Value) bool {
	if a.Len() == 0 && b.Len() == 0 && isContainer(a) && isContainer(b) {
		return true
	}
	if a.kind != b.kind {
		return false
	}

	switch a.kind {
	case KindNull:
		return true
	case KindBool:
		return a.b == b.b
	case KindNumber:
		return a.n == b.n || (math.IsNaN(a.n) && math.IsNaN(b.n))
	case KindString:
		return a.s == b.s
	case KindSequence:
		if len(a.seq) != len(b.seq) {
			return false
		}
		for i := range a.seq {
			if !Equal(a.seq[i], b.seq[i]) {
				return false
			}
		}

		return true
	case KindMapping:
		if a.m == b.m {
			return true
		}
		if a.m.Len() != b.m.Len() {
			return false
		}
		for _, e := range a.m.Entries() {
			other, ok := b.m.Get(e.Key)
			if !ok || !Equal(e.Value, other) {
				return false
			}
		}

		return true
	default:
		return false
	}
}

func isContainer(v Value) bool {
	return v.kind == KindSequence || v.kind == KindMapping
}
