package catmap

import (
	"encoding/json"
	"fmt"
	"slices"
	"strconv"
)

// Value is the right-hand side of a category: either a list of leaf items or
// a single scalar treated as one leaf.
//
// Items hold the decoded JSON scalars (string, json.Number or bool) so that a
// map survives a decode/encode cycle with its original types. When Scalar is
// true, Items has exactly one element and encodes as a bare value instead of
// an array.
type Value struct {
	Items  []any
	Scalar bool
}

// List returns a list value with the given string items.
func List(items ...string) Value {
	v := Value{Items: make([]any, len(items))}
	for i, s := range items {
		v.Items[i] = s
	}
	return v
}

// Single returns a scalar value. x must be a string, bool, json.Number or a
// Go integer/float; numbers are stored as json.Number.
func Single(x any) Value {
	return Value{Items: []any{normalizeScalar(x)}, Scalar: true}
}

// Labels returns the display labels of the leaves this value produces,
// one per item, in order.
func (v Value) Labels() []string {
	out := make([]string, len(v.Items))
	for i, it := range v.Items {
		out[i] = ScalarString(it)
	}
	return out
}

// Len returns the number of leaves this value produces.
func (v Value) Len() int { return len(v.Items) }

// ScalarString renders a decoded JSON scalar as a label.
// Numbers keep their JSON literal ("3", "1.5"); booleans render as
// "true"/"false".
func ScalarString(x any) string {
	switch s := x.(type) {
	case string:
		return s
	case json.Number:
		return s.String()
	case bool:
		return strconv.FormatBool(s)
	default:
		return fmt.Sprint(s)
	}
}

func normalizeScalar(x any) any {
	switch n := x.(type) {
	case int:
		return json.Number(strconv.Itoa(n))
	case int64:
		return json.Number(strconv.FormatInt(n, 10))
	case float64:
		return json.Number(strconv.FormatFloat(n, 'g', -1, 64))
	default:
		return x
	}
}

// Entry is one category of a Map.
type Entry struct {
	Key   string
	Value Value
}

// Map is an insertion-ordered mapping from category label to its value.
// Order of entries determines the angular placement order of categories.
//
// The zero value is not usable - use New or Parse.
type Map struct {
	entries []Entry
	index   map[string]int
}

// New creates an empty Map.
func New() *Map {
	return &Map{index: make(map[string]int)}
}

// Set adds a category or replaces the value of an existing one.
// A replaced category keeps its original position.
func (m *Map) Set(key string, v Value) *Map {
	if i, ok := m.index[key]; ok {
		m.entries[i].Value = v
		return m
	}
	m.index[key] = len(m.entries)
	m.entries = append(m.entries, Entry{Key: key, Value: v})
	return m
}

// Get returns the value for a category.
func (m *Map) Get(key string) (Value, bool) {
	i, ok := m.index[key]
	if !ok {
		return Value{}, false
	}
	return m.entries[i].Value, true
}

// Len returns the number of categories.
func (m *Map) Len() int { return len(m.entries) }

// Keys returns the category labels in order.
func (m *Map) Keys() []string {
	keys := make([]string, len(m.entries))
	for i, e := range m.entries {
		keys[i] = e.Key
	}
	return keys
}

// Entries returns a copy of the categories in order.
func (m *Map) Entries() []Entry {
	return slices.Clone(m.entries)
}

// LeafCount returns the total number of leaves across all categories.
func (m *Map) LeafCount() int {
	n := 0
	for _, e := range m.entries {
		n += e.Value.Len()
	}
	return n
}

// Equal reports whether two maps hold the same categories, in the same order,
// with identical values and scalar types.
func (m *Map) Equal(o *Map) bool {
	if m == nil || o == nil {
		return m == o
	}
	if len(m.entries) != len(o.entries) {
		return false
	}
	for i, e := range m.entries {
		f := o.entries[i]
		if e.Key != f.Key || e.Value.Scalar != f.Value.Scalar || !slices.Equal(e.Value.Items, f.Value.Items) {
			return false
		}
	}
	return true
}
