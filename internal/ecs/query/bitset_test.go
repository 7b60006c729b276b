package query

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestBitSet64SetHasClear(t *testing.T) {
	var b BitSet64
	b = b.Set(0).Set(3)
	require.True(t, b.Has(0))
	require.True(t, b.Has(3))
	require.False(t, b.Has(1))

	b = b.Clear(0)
	require.False(t, b.Has(0))
	require.True(t, b.Has(3))
}

func TestBitSet64HasAllHasAny(t *testing.T) {
	var b BitSet64
	b = b.Set(1).Set(2)
	require.True(t, b.HasAll(1, 2))
	require.False(t, b.HasAll(1, 2, 3))
	require.True(t, b.HasAny(3, 2))
	require.False(t, b.HasAny(3, 4))
}

func TestBitSet64SetOperations(t *testing.T) {
	var a, b BitSet64
	a = a.Set(0).Set(1)
	b = b.Set(1).Set(2)

	require.Equal(t, a.And(b), BitSet64(0).Set(1))
	require.True(t, a.Intersects(b))
	require.False(t, a.IsSubsetOf(b))
	require.True(t, BitSet64(0).Set(1).IsSubsetOf(a))
}

func TestBitSet64LenAndPositions(t *testing.T) {
	var b BitSet64
	b = b.Set(0).Set(5).Set(9)
	require.Equal(t, 3, b.Len())
	require.Equal(t, []int{0, 5, 9}, b.Positions())
}

func TestBitSet64OutOfRangeIgnored(t *testing.T) {
	var b BitSet64
	b = b.Set(64).Set(-1)
	require.Equal(t, BitSet64(0), b)
	require.False(t, b.Has(64))
}

func TestPositionAssignerStableAndBounded(t *testing.T) {
	a := NewPositionAssigner()
	p1 := a.Position("x")
	p2 := a.Position("y")
	p1Again := a.Position("x")
	require.Equal(t, p1, p1Again)
	require.NotEqual(t, p1, p2)

	for i := 0; i < 64; i++ {
		a.Position(i)
	}
	require.Equal(t, -1, a.Position("overflow"))
}
