package ordered

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestMapPreservesFirstInsertionOrder(t *testing.T) {
	var m Map[string, int]
	m.Set("b", 1)
	m.Set("a", 2)
	m.Set("b", 3)
	m.Update("c", func(v int) int { return v + 1 })
	m.Update("a", func(v int) int { return v + 10 })

	assert.Equal(t, []string{"b", "a", "c"}, m.Keys())
	assert.Equal(t, 3, m.Len())

	v, ok := m.Get("a")
	assert.True(t, ok)
	assert.Equal(t, 12, v)

	v, ok = m.Get("b")
	assert.True(t, ok)
	assert.Equal(t, 3, v)

	_, ok = m.Get("missing")
	assert.False(t, ok)
}

func TestMapEachStopsEarly(t *testing.T) {
	m := NewMap[int, string](3)
	m.Set(3, "three")
	m.Set(1, "one")
	m.Set(2, "two")

	var seen []int
	m.Each(func(k int, _ string) bool {
		seen = append(seen, k)
		return len(seen) < 2
	})
	assert.Equal(t, []int{3, 1}, seen)
}

func TestKeysReturnsCopy(t *testing.T) {
	var m Map[string, bool]
	m.Set("x", true)
	keys := m.Keys()
	keys[0] = "mutated"
	assert.Equal(t, []string{"x"}, m.Keys())
}

func TestSet(t *testing.T) {
	var s Set[string]
	assert.True(t, s.Add("Rent"))
	assert.True(t, s.Add("Groceries"))
	assert.False(t, s.Add("Rent"))
	assert.True(t, s.Has("Groceries"))
	assert.Equal(t, 2, s.Len())
	assert.Equal(t, []string{"Rent", "Groceries"}, s.Values())
}
