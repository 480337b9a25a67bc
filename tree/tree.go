// Package tree implements the value tree produced by the loader and
// consumed by the dumper: a mapping from string keys to scalars, lists,
// or nested mappings that preserves insertion order, which a bare Go
// map cannot do.
package tree

import "fmt"

// Map is an insertion-ordered string-keyed mapping. Its values are one
// of: string (a scalar), nil (the null scalar, used for unset flagbits
// flags), []interface{} (a list of scalars and/or *Map), or *Map (a
// nested mapping). The zero value is ready to use.
type Map struct {
	keys   []string
	values map[string]interface{}
}

// New returns an empty, ready-to-use Map.
func New() *Map {
	return &Map{values: make(map[string]interface{})}
}

// Keys returns the keys in insertion order. Do not mutate the result.
func (m *Map) Keys() []string {
	if m == nil {
		return nil
	}
	return m.keys
}

// Len returns the number of keys.
func (m *Map) Len() int {
	if m == nil {
		return 0
	}
	return len(m.keys)
}

// Has reports whether key is present.
func (m *Map) Has(key string) bool {
	if m == nil {
		return false
	}
	_, ok := m.values[key]
	return ok
}

// Get returns the value stored under key, and whether it was present.
func (m *Map) Get(key string) (interface{}, bool) {
	if m == nil {
		return nil, false
	}
	v, ok := m.values[key]
	return v, ok
}

// Set stores value under key, appending key to the order if it is new.
func (m *Map) Set(key string, value interface{}) {
	if m.values == nil {
		m.values = make(map[string]interface{})
	}
	if _, exists := m.values[key]; !exists {
		m.keys = append(m.keys, key)
	}
	m.values[key] = value
}

// Delete removes key, if present.
func (m *Map) Delete(key string) {
	if m == nil {
		return
	}
	if _, ok := m.values[key]; !ok {
		return
	}
	delete(m.values, key)
	for i, k := range m.keys {
		if k == key {
			m.keys = append(m.keys[:i], m.keys[i+1:]...)
			break
		}
	}
}

// Range calls fn for every key in insertion order, stopping early if fn
// returns false.
func (m *Map) Range(fn func(key string, value interface{}) bool) {
	if m == nil {
		return
	}
	for _, k := range m.keys {
		if !fn(k, m.values[k]) {
			return
		}
	}
}

// GetString returns the value at key as a string, if it is a scalar.
func (m *Map) GetString(key string) (string, bool) {
	v, ok := m.Get(key)
	if !ok {
		return "", false
	}
	s, ok := v.(string)
	return s, ok
}

// GetSlice returns the value at key as a list, if it is one.
func (m *Map) GetSlice(key string) ([]interface{}, bool) {
	v, ok := m.Get(key)
	if !ok {
		return nil, false
	}
	s, ok := v.([]interface{})
	return s, ok
}

// GetMap returns the value at key as a nested Map, if it is one.
func (m *Map) GetMap(key string) (*Map, bool) {
	v, ok := m.Get(key)
	if !ok {
		return nil, false
	}
	sub, ok := v.(*Map)
	return sub, ok
}

// ToNative converts the tree to plain map[string]interface{}/[]interface{}
// values (losing key order), suitable for encoding/json or gopkg.in/yaml.v2.
func (m *Map) ToNative() map[string]interface{} {
	if m == nil {
		return nil
	}
	out := make(map[string]interface{}, m.Len())
	m.Range(func(key string, value interface{}) bool {
		out[key] = nativeValue(value)
		return true
	})
	return out
}

func nativeValue(v interface{}) interface{} {
	switch t := v.(type) {
	case *Map:
		return t.ToNative()
	case []interface{}:
		out := make([]interface{}, len(t))
		for i, item := range t {
			out[i] = nativeValue(item)
		}
		return out
	default:
		return v
	}
}

// FromNative builds a Map from plain map[string]interface{} data (as
// produced by encoding/json.Unmarshal or yaml.Unmarshal into
// map[string]interface{}). Key order follows Go's map iteration, which
// is unspecified; this is intended for round-tripping machine-generated
// data, not for reconstructing an author's original layout.
func FromNative(data map[string]interface{}) *Map {
	m := New()
	for k, v := range data {
		m.Set(k, fromNativeValue(v))
	}
	return m
}

func fromNativeValue(v interface{}) interface{} {
	switch t := v.(type) {
	case map[string]interface{}:
		return FromNative(t)
	case map[interface{}]interface{}:
		// gopkg.in/yaml.v2 decodes mappings into map[interface{}]interface{}.
		converted := make(map[string]interface{}, len(t))
		for k, val := range t {
			converted[fmt.Sprintf("%v", k)] = val
		}
		return FromNative(converted)
	case []interface{}:
		out := make([]interface{}, len(t))
		for i, item := range t {
			out[i] = fromNativeValue(item)
		}
		return out
	default:
		return v
	}
}

// Equal reports deep structural equality, order-insensitive, used by
// tests that compare a loaded tree against an expected literal.
func Equal(a, b *Map) bool {
	if a.Len() != b.Len() {
		return false
	}
	equal := true
	a.Range(func(key string, av interface{}) bool {
		bv, ok := b.Get(key)
		if !ok || !valueEqual(av, bv) {
			equal = false
			return false
		}
		return true
	})
	return equal
}

func valueEqual(a, b interface{}) bool {
	switch av := a.(type) {
	case *Map:
		bv, ok := b.(*Map)
		return ok && Equal(av, bv)
	case []interface{}:
		bv, ok := b.([]interface{})
		if !ok || len(av) != len(bv) {
			return false
		}
		for i := range av {
			if !valueEqual(av[i], bv[i]) {
				return false
			}
		}
		return true
	default:
		return a == b
	}
}
