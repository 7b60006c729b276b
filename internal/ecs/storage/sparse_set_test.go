package storage

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestSparseSetEmplaceContains(t *testing.T) {
	s := NewSparseSet()
	s.Emplace(5)
	s.Emplace(9)
	require.True(t, s.Contains(5))
	require.True(t, s.Contains(9))
	require.False(t, s.Contains(6))
	require.Equal(t, 2, s.Len())
}

func TestSparseSetEraseSwapAndPop(t *testing.T) {
	s := NewSparseSet()
	s.Emplace(1)
	s.Emplace(2)
	s.Emplace(3)

	var swapped [2]int
	s.Erase(1, func(a, b int) { swapped = [2]int{a, b} })

	require.False(t, s.Contains(1))
	require.True(t, s.Contains(2))
	require.True(t, s.Contains(3))
	require.Equal(t, 2, s.Len())
	// 1 was at index 0, last element (3) was at index 2: swap(0, 2).
	require.Equal(t, [2]int{0, 2}, swapped)
	require.Equal(t, Entity(3), s.At(0))
}

func TestSparseSetEraseLastElementNoSwapCallback(t *testing.T) {
	s := NewSparseSet()
	s.Emplace(1)
	s.Emplace(2)

	called := false
	s.Erase(2, func(a, b int) { called = true })

	require.False(t, called)
	require.True(t, s.Contains(1))
	require.False(t, s.Contains(2))
}

func TestSparseSetSpansMultiplePagesThenClears(t *testing.T) {
	s := NewSparseSet()
	n := PageSize*2 + 7
	for i := 0; i < n; i++ {
		s.Emplace(Entity(i))
	}
	require.Equal(t, n, s.Len())
	for i := 0; i < n; i++ {
		require.True(t, s.Contains(Entity(i)), "entity %d", i)
	}

	var cleared []Entity
	s.Clear(func(e Entity) { cleared = append(cleared, e) })
	require.Equal(t, n, len(cleared))
	require.Equal(t, 0, s.Len())
	for i := 0; i < n; i++ {
		require.False(t, s.Contains(Entity(i)))
	}
}

func TestSparseSetInvariantsAfterRandomOps(t *testing.T) {
	s := NewSparseSet()
	present := map[Entity]bool{}
	seq := []Entity{1, 2, 3, 4, 5, 6, 7, 8}
	for _, e := range seq {
		s.Emplace(e)
		present[e] = true
	}
	toRemove := []Entity{3, 1, 7}
	for _, e := range toRemove {
		s.Erase(e, nil)
		delete(present, e)
	}
	require.Equal(t, len(present), s.Len())
	for e := range present {
		require.True(t, s.Contains(e))
		idx := s.Index(e)
		require.Equal(t, e, s.At(idx))
	}
	for i := 0; i < s.Len(); i++ {
		e := s.At(i)
		require.Equal(t, i, s.Index(e))
	}
}

func TestSparseSetRespect(t *testing.T) {
	s := NewSparseSet()
	for _, e := range []Entity{1, 2, 3, 4} {
		s.Emplace(e)
	}
	other := NewSparseSet()
	for _, e := range []Entity{4, 2, 1} {
		other.Emplace(e)
	}

	s.Respect(other, nil)

	require.Equal(t, Entity(4), s.At(0))
	require.Equal(t, Entity(2), s.At(1))
	require.Equal(t, Entity(1), s.At(2))
	// 3 is not present in other; it trails.
	require.Equal(t, Entity(3), s.At(3))
}

func TestSparseSetSortOrdersAndIsRepeatable(t *testing.T) {
	s := NewSparseSet()
	for _, e := range []Entity{5, 3, 4, 1, 2} {
		s.Emplace(e)
	}
	less := func(a, b Entity) bool { return a < b }
	s.Sort(less, nil)
	want := []Entity{1, 2, 3, 4, 5}
	require.Equal(t, want, append([]Entity{}, s.Dense()...))

	// Sorting again yields the same dense array (idempotence).
	s.Sort(less, nil)
	require.Equal(t, want, append([]Entity{}, s.Dense()...))
}

func TestSparseSetSwap(t *testing.T) {
	s := NewSparseSet()
	for _, e := range []Entity{10, 20, 30} {
		s.Emplace(e)
	}
	s.Swap(10, 30, nil)
	require.Equal(t, Entity(30), s.At(0))
	require.Equal(t, Entity(10), s.At(2))
	require.Equal(t, 0, s.Index(30))
	require.Equal(t, 2, s.Index(10))
}
