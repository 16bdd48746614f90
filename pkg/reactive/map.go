package reactive

import "slices"

// Map is a typed keyed collection with one Dep per key plus a structural
// Dep for insertions and deletions. Values are stored as given; they are
// not observed.
type Map[K comparable, V any] struct {
	rt      *Runtime
	dep     *Dep
	keys    []K
	entries map[K]*mapEntry[V]
	equal   func(a, b V) bool
}

type mapEntry[V any] struct {
	dep   *Dep
	value V
}

// NewMap creates an empty map.
func NewMap[K comparable, V any](rt *Runtime) *Map[K, V] {
	return &Map[K, V]{rt: rt, dep: NewDep(rt), entries: make(map[K]*mapEntry[V])}
}

// WithEquals replaces the equality used to skip redundant writes.
func (m *Map[K, V]) WithEquals(eq func(a, b V) bool) *Map[K, V] {
	m.equal = eq
	return m
}

// Get returns the value for k. A present key tracks only that key; a
// missing key tracks the map's structure so the watcher sees it appear.
func (m *Map[K, V]) Get(k K) (V, bool) {
	e, ok := m.entries[k]
	if !ok {
		m.dep.Depend()
		var zero V
		return zero, false
	}
	e.dep.Depend()
	return e.value, true
}

// Has reports whether k is present, tracking the structure.
func (m *Map[K, V]) Has(k K) bool {
	m.dep.Depend()
	_, ok := m.entries[k]
	return ok
}

// Len returns the number of entries, tracking the structure.
func (m *Map[K, V]) Len() int {
	m.dep.Depend()
	return len(m.keys)
}

// Keys returns the keys in insertion order, tracking the structure.
func (m *Map[K, V]) Keys() []K {
	m.dep.Depend()
	return slices.Clone(m.keys)
}

// Range calls fn for each entry in insertion order until fn returns false.
// It tracks the structure and every visited key.
func (m *Map[K, V]) Range(fn func(k K, v V) bool) {
	m.dep.Depend()
	for _, k := range slices.Clone(m.keys) {
		e, ok := m.entries[k]
		if !ok {
			continue
		}
		e.dep.Depend()
		if !fn(k, e.value) {
			return
		}
	}
}

// Set stores v under k. Updating an existing key notifies that key's
// readers; inserting notifies structural readers.
func (m *Map[K, V]) Set(k K, v V) {
	if e, ok := m.entries[k]; ok {
		if m.same(e.value, v) {
			return
		}
		e.value = v
		e.dep.Notify()
		return
	}
	m.entries[k] = &mapEntry[V]{dep: NewDep(m.rt), value: v}
	m.keys = append(m.keys, k)
	m.dep.Notify()
}

// Delete removes k, notifying its readers and structural readers.
func (m *Map[K, V]) Delete(k K) bool {
	e, ok := m.entries[k]
	if !ok {
		return false
	}
	delete(m.entries, k)
	if i := slices.Index(m.keys, k); i >= 0 {
		m.keys = slices.Delete(m.keys, i, i+1)
	}
	e.dep.Notify()
	m.dep.Notify()
	return true
}

func (m *Map[K, V]) same(a, b V) bool {
	if m.equal != nil {
		return m.equal(a, b)
	}
	return sameValue(any(a), any(b))
}
