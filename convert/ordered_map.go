package convert

import (
	"slices"
)

// OrderedMap is a string-keyed map that remembers insertion order.
//
// Values are one of: string, bool, an integer type, []byte, []any or
// *OrderedMap. Documents decoded from JSON may also hold json.Number values.
type OrderedMap struct {
	keys   []string
	values map[string]any
}

// NewOrderedMap creates an empty OrderedMap.
func NewOrderedMap() *OrderedMap {
	return &OrderedMap{values: make(map[string]any)}
}

// Set stores value under key. A new key is appended; an existing key keeps
// its position.
func (m *OrderedMap) Set(key string, value any) {
	if m.values == nil {
		m.values = make(map[string]any)
	}
	if _, exists := m.values[key]; !exists {
		m.keys = append(m.keys, key)
	}
	m.values[key] = value
}

// Get returns the value stored under key.
func (m *OrderedMap) Get(key string) (any, bool) {
	v, ok := m.values[key]
	return v, ok
}

// Has reports whether key is present.
func (m *OrderedMap) Has(key string) bool {
	_, ok := m.values[key]
	return ok
}

// Delete removes key.
func (m *OrderedMap) Delete(key string) {
	if _, ok := m.values[key]; !ok {
		return
	}

	delete(m.values, key)
	m.keys = slices.DeleteFunc(m.keys, func(k string) bool { return k == key })
}

// Keys returns the keys in insertion order.
func (m *OrderedMap) Keys() []string {
	return slices.Clone(m.keys)
}

// Len returns the number of keys.
func (m *OrderedMap) Len() int {
	return len(m.keys)
}

// FromMap builds an OrderedMap from a plain map. Keys are sorted since a
// plain map has no order; nested maps are converted too.
func FromMap(src map[string]any) *OrderedMap {
	keys := make([]string, 0, len(src))
	for k := range src {
		keys = append(keys, k)
	}
	slices.Sort(keys)

	m := NewOrderedMap()
	for _, k := range keys {
		m.Set(k, normalize(src[k]))
	}

	return m
}

func normalize(v any) any {
	switch val := v.(type) {
	case map[string]any:
		return FromMap(val)
	case []any:
		out := make([]any, len(val))
		for i, item := range val {
			out[i] = normalize(item)
		}

		return out
	case []map[string]any:
		out := make([]any, len(val))
		for i, item := range val {
			out[i] = FromMap(item)
		}

		return out
	default:
		return v
	}
}
