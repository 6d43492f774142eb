// Package ordered provides accumulators that remember first-insertion order.
package ordered

// Map is an association from keys to values that iterates keys in the order
// they were first set. The zero value is ready to use.
type Map[K comparable, V any] struct {
	index map[K]int
	keys  []K
	vals  []V
}

// NewMap returns an empty map with room for n keys.
func NewMap[K comparable, V any](n int) *Map[K, V] {
	return &Map[K, V]{
		index: make(map[K]int, n),
		keys:  make([]K, 0, n),
		vals:  make([]V, 0, n),
	}
}

// Len returns the number of keys.
func (m *Map[K, V]) Len() int {
	return len(m.keys)
}

// Get returns the value stored for key.
func (m *Map[K, V]) Get(key K) (V, bool) {
	if i, ok := m.index[key]; ok {
		return m.vals[i], true
	}
	var zero V
	return zero, false
}

// Has reports whether key has been set.
func (m *Map[K, V]) Has(key K) bool {
	_, ok := m.index[key]
	return ok
}

// Set stores value for key. A new key is appended; an existing key keeps its position.
func (m *Map[K, V]) Set(key K, value V) {
	if i, ok := m.index[key]; ok {
		m.vals[i] = value
		return
	}
	if m.index == nil {
		m.index = make(map[K]int)
	}
	m.index[key] = len(m.keys)
	m.keys = append(m.keys, key)
	m.vals = append(m.vals, value)
}

// Update applies fn to the current value for key (the zero value when absent)
// and stores the result.
func (m *Map[K, V]) Update(key K, fn func(V) V) {
	current, _ := m.Get(key)
	m.Set(key, fn(current))
}

// Keys returns the keys in first-insertion order.
func (m *Map[K, V]) Keys() []K {
	out := make([]K, len(m.keys))
	copy(out, m.keys)
	return out
}

// Each calls fn for every entry in first-insertion order, stopping early when fn returns false.
func (m *Map[K, V]) Each(fn func(K, V) bool) {
	for i, k := range m.keys {
		if !fn(k, m.vals[i]) {
			return
		}
	}
}

// Set is an insertion-ordered set.
type Set[T comparable] struct {
	m Map[T, struct{}]
}

// Add inserts v, reporting whether it was new.
func (s *Set[T]) Add(v T) bool {
	if s.m.Has(v) {
		return false
	}
	s.m.Set(v, struct{}{})
	return true
}

// Has reports membership.
func (s *Set[T]) Has(v T) bool {
	return s.m.Has(v)
}

// Len returns the number of members.
func (s *Set[T]) Len() int {
	return s.m.Len()
}

// Values returns the members in insertion order.
func (s *Set[T]) Values() []T {
	return s.m.Keys()
}
