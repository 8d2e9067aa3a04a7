// Package jsonmap implements an order-preserving JSON object representation and a
// small, allocation-conscious encoder/decoder pair for it. Unlike encoding/json's
// map[string]any, OrderedMap remembers the sequence in which keys were first written,
// which the schema engine relies on to preserve document key order through
// normalization.
package jsonmap

// OrderedMap is an immutable, insertion-ordered string-keyed map. Every mutating
// method returns a new map; the receiver is never modified, so an OrderedMap can be
// shared freely between sibling branches during schema interpretation.
type OrderedMap struct {
	keys []string
	vals map[string]any
}

// New returns an empty OrderedMap.
func New() *OrderedMap {
	return &OrderedMap{}
}

// FromPairs builds an OrderedMap from keys in the given order, looking values up in
// vals. Keys not present in vals are skipped.
func FromPairs(keys []string, vals map[string]any) *OrderedMap {
	m := &OrderedMap{
		keys: make([]string, 0, len(keys)),
		vals: make(map[string]any, len(vals)),
	}
	for _, k := range keys {
		v, ok := vals[k]
		if !ok {
			continue
		}
		m.keys = append(m.keys, k)
		m.vals[k] = v
	}
	return m
}

// Get returns the value stored for key and whether it was present.
func (m *OrderedMap) Get(key string) (any, bool) {
	if m == nil {
		return nil, false
	}
	v, ok := m.vals[key]
	return v, ok
}

// Has reports whether key is present.
func (m *OrderedMap) Has(key string) bool {
	if m == nil {
		return false
	}
	_, ok := m.vals[key]
	return ok
}

// Set returns a new OrderedMap with key bound to value. If key already exists its
// position is preserved; otherwise the key is appended.
func (m *OrderedMap) Set(key string, value any) *OrderedMap {
	next := m.clone()
	if _, exists := next.vals[key]; !exists {
		next.keys = append(next.keys, key)
	}
	next.vals[key] = value
	return next
}

// Delete returns a new OrderedMap without key.
func (m *OrderedMap) Delete(key string) *OrderedMap {
	if !m.Has(key) {
		return m
	}
	next := &OrderedMap{
		keys: make([]string, 0, len(m.keys)-1),
		vals: make(map[string]any, len(m.vals)-1),
	}
	for _, k := range m.keys {
		if k == key {
			continue
		}
		next.keys = append(next.keys, k)
		next.vals[k] = m.vals[k]
	}
	return next
}

// Rename returns a new OrderedMap where the value under from is now keyed by to, in
// from's original position. If from is absent, m is returned unchanged.
func (m *OrderedMap) Rename(from, to string) *OrderedMap {
	v, ok := m.Get(from)
	if !ok {
		return m
	}
	next := &OrderedMap{
		keys: make([]string, len(m.keys)),
		vals: make(map[string]any, len(m.vals)),
	}
	for i, k := range m.keys {
		if k == from {
			next.keys[i] = to
			next.vals[to] = v
			continue
		}
		next.keys[i] = k
		next.vals[k] = m.vals[k]
	}
	return next
}

// Keys returns the keys in insertion order. The returned slice must not be mutated.
func (m *OrderedMap) Keys() []string {
	if m == nil {
		return nil
	}
	return m.keys
}

// Len returns the number of entries.
func (m *OrderedMap) Len() int {
	if m == nil {
		return 0
	}
	return len(m.keys)
}

// Range calls fn for each key in insertion order, stopping early if fn returns false.
func (m *OrderedMap) Range(fn func(key string, value any) bool) {
	if m == nil {
		return
	}
	for _, k := range m.keys {
		if !fn(k, m.vals[k]) {
			return
		}
	}
}

// Clone returns a shallow copy that is safe to mutate independently via Set/Delete.
func (m *OrderedMap) Clone() *OrderedMap {
	return m.clone()
}

func (m *OrderedMap) clone() *OrderedMap {
	if m == nil {
		return &OrderedMap{vals: map[string]any{}}
	}
	next := &OrderedMap{
		keys: append([]string(nil), m.keys...),
		vals: make(map[string]any, len(m.vals)),
	}
	for k, v := range m.vals {
		next.vals[k] = v
	}
	return next
}

// ToMap returns a plain (unordered) map[string]any copy, for interop with code that
// only needs membership/value lookups.
func (m *OrderedMap) ToMap() map[string]any {
	out := make(map[string]any, m.Len())
	m.Range(func(k string, v any) bool {
		out[k] = v
		return true
	})
	return out
}
