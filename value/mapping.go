package value

import (
	"strconv"
)

// Key is a table key: either a string name or a positive integer index.
//
// Lua tables use the same type for arrays and records, so keys carry their
// variant explicitly instead of encoding "numeric" into the string.
// Key is comparable and can be used as a Go map key.
type Key struct {
	name    string
	index   uint64
	isIndex bool
}

// StringKey returns a string key, written as ["name"]= in a literal.
func StringKey(name string) Key { return Key{name: name} }

// IndexKey returns an integer key, written as [n]= in a literal.
func IndexKey(n uint64) Key { return Key{index: n, isIndex: true} }

// IsIndex reports whether k is an integer key.
func (k Key) IsIndex() bool { return k.isIndex }

// Index returns the integer of an index key, 0 for string keys.
func (k Key) Index() uint64 { return k.index }

// Name returns the name of a string key, "" for index keys.
func (k Key) Name() string { return k.name }

// String renders k the way it appears in a literal: [3] or ["name"].
func (k Key) String() string {
	if k.isIndex {
		return "[" + strconv.FormatUint(k.index, 10) + "]"
	}

	return strconv.Quote(k.name)
}

// Entry is one key/value pair of a Mapping.
type Entry struct {
	Key   Key
	Value Value
}

// Mapping is an insertion-ordered table keyed by Key.
//
// Order carries no meaning for equality; it is kept so that re-encoding a save
// reproduces its entries in their original order.
//
// Note: Mapping is NOT safe for concurrent mutation.
type Mapping struct {
	entries []Entry
	index   map[Key]int
}

// NewMapping creates an empty mapping.
func NewMapping() *Mapping {
	return &Mapping{index: make(map[Key]int)}
}

// NewMappingSize creates an empty mapping with room for n entries.
func NewMappingSize(n int) *Mapping {
	return &Mapping{
		entries: make([]Entry, 0, n),
		index:   make(map[Key]int, n),
	}
}

// Len returns the number of entries.
func (m *Mapping) Len() int {
	if m == nil {
		return 0
	}

	return len(m.entries)
}

// Get returns the value stored under k.
func (m *Mapping) Get(k Key) (Value, bool) {
	if m == nil {
		return Value{}, false
	}
	i, ok := m.index[k]
	if !ok {
		return Value{}, false
	}

	return m.entries[i].Value, true
}

// Field returns the value stored under the string key name.
func (m *Mapping) Field(name string) (Value, bool) {
	return m.Get(StringKey(name))
}

// Set stores v under k. An existing key keeps its position.
func (m *Mapping) Set(k Key, v Value) {
	if m.index == nil {
		m.index = make(map[Key]int)
	}
	if i, ok := m.index[k]; ok {
		m.entries[i].Value = v
		return
	}
	m.index[k] = len(m.entries)
	m.entries = append(m.entries, Entry{Key: k, Value: v})
}

// Delete removes k and reports whether it was present.
func (m *Mapping) Delete(k Key) bool {
	if m == nil {
		return false
	}
	i, ok := m.index[k]
	if !ok {
		return false
	}

	m.entries = append(m.entries[:i], m.entries[i+1:]...)
	delete(m.index, k)
	for j := i; j < len(m.entries); j++ {
		m.index[m.entries[j].Key] = j
	}

	return true
}

// Entries returns the entries in insertion order. The slice is shared with m
// and must not be modified.
func (m *Mapping) Entries() []Entry {
	if m == nil {
		return nil
	}

	return m.entries
}

// Keys returns the keys in insertion order.
func (m *Mapping) Keys() []Key {
	keys := make([]Key, 0, m.Len())
	for _, e := range m.Entries() {
		keys = append(keys, e.Key)
	}

	return keys
}

// AllIndexKeys reports whether m is non-empty and every key is an index key.
func (m *Mapping) AllIndexKeys() bool {
	if m.Len() == 0 {
		return false
	}
	for _, e := range m.entries {
		if !e.Key.isIndex {
			return false
		}
	}

	return true
}
