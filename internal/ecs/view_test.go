package ecs

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestView2EachMatchesIntersectionOnly(t *testing.T) {
	r := New()
	both := r.Create()
	onlyA := r.Create()
	Emplace(r, both, position{X: 1})
	Emplace(r, both, velocity{DX: 1})
	Emplace(r, onlyA, position{X: 2})

	view := NewView2[position, velocity](r)
	seen := map[Entity]bool{}
	view.Each(func(e Entity, p *position, v *velocity) {
		seen[e] = true
	})
	require.True(t, seen[both])
	require.False(t, seen[onlyA])
	require.Len(t, seen, 1)
}

func TestView2ExcludeFiltersMatches(t *testing.T) {
	r := New()
	plain := r.Create()
	tagged := r.Create()
	for _, e := range []Entity{plain, tagged} {
		Emplace(r, e, position{})
		Emplace(r, e, velocity{})
	}
	Emplace(r, tagged, tag{})

	view := NewView2[position, velocity](r, ComponentIDOf[tag]())
	seen := map[Entity]bool{}
	view.Iterate(func(e Entity) bool {
		seen[e] = true
		return true
	})
	require.True(t, seen[plain])
	require.False(t, seen[tagged])
}

func TestView1LenExactWithoutExclude(t *testing.T) {
	r := New()
	for i := 0; i < 5; i++ {
		e := r.Create()
		Emplace(r, e, position{})
	}
	view := NewView1[position](r)
	require.Equal(t, 5, view.Len())
}

func TestView2ChunkedFindsConsecutiveRuns(t *testing.T) {
	r := New()
	var entities []Entity
	for i := 0; i < 6; i++ {
		e := r.Create()
		entities = append(entities, e)
		Emplace(r, e, position{})
	}
	// Give velocity to entities 0,1,2 and 4,5 in the same relative order as
	// position, so they form two consecutive runs (lengths 3 and 2); entity
	// 3 is left without velocity, breaking the run.
	for _, i := range []int{0, 1, 2, 4, 5} {
		Emplace(r, entities[i], velocity{})
	}

	view := NewView2[position, velocity](r)
	var runs []int
	view.Chunked(func(first Entity, length int) {
		runs = append(runs, length)
	})
	require.Equal(t, []int{3, 2}, runs)
}

func TestView3RequiresAllThree(t *testing.T) {
	r := New()
	e := r.Create()
	Emplace(r, e, position{})
	Emplace(r, e, velocity{})
	Emplace(r, e, tag{})
	partial := r.Create()
	Emplace(r, partial, position{})
	Emplace(r, partial, velocity{})

	view := NewView3[position, velocity, tag](r)
	count := 0
	view.Each(func(e Entity, p *position, v *velocity, tg *tag) { count++ })
	require.Equal(t, 1, count)
}
