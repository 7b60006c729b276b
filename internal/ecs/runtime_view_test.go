package ecs

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestNewRuntimeViewRejectsEmptyInclude(t *testing.T) {
	r := New()
	_, err := NewRuntimeView(r, nil, nil)
	require.Error(t, err)
	var ecsErr *Error
	require.ErrorAs(t, err, &ecsErr)
	require.Equal(t, ErrEmptyViewInclude, ecsErr.Code)
}

func TestRuntimeViewOverUnusedComponentTypeMatchesNothing(t *testing.T) {
	r := New()
	e := r.Create()
	Emplace(r, e, position{})

	// velocity has never been emplaced on anything, so its pool doesn't
	// exist yet; the view must treat that as zero matches, not panic.
	view, err := NewRuntimeView(r, []ComponentID{ComponentIDOf[position](), ComponentIDOf[velocity]()}, nil)
	require.NoError(t, err)
	require.Equal(t, 0, view.Len())

	view, err = NewRuntimeView(r, []ComponentID{ComponentIDOf[position]()}, []ComponentID{ComponentIDOf[velocity]()})
	require.NoError(t, err)
	require.Equal(t, 1, view.Len())
}

func TestRuntimeViewMatchesIntersectionMinusExclude(t *testing.T) {
	r := New()
	both := r.Create()
	tagged := r.Create()
	onlyPos := r.Create()

	for _, e := range []Entity{both, tagged} {
		Emplace(r, e, position{})
		Emplace(r, e, velocity{})
	}
	Emplace(r, tagged, tag{})
	Emplace(r, onlyPos, position{})

	view, err := NewRuntimeView(r,
		[]ComponentID{ComponentIDOf[position](), ComponentIDOf[velocity]()},
		[]ComponentID{ComponentIDOf[tag]()},
	)
	require.NoError(t, err)
	require.Equal(t, 1, view.Len())

	seen := map[Entity]bool{}
	view.Each(func(e Entity) bool {
		seen[e] = true
		return true
	})
	require.True(t, seen[both])
	require.False(t, seen[tagged])
	require.False(t, seen[onlyPos])
}
