package ecs

import (
	"testing"

	"github.com/stretchr/testify/require"

	"sparseecs/internal/ecs/query"
)

func TestObserverMatchOnUpdateFlagsEntity(t *testing.T) {
	r := New()
	obs := NewObserver(r)
	_, err := MatchOnUpdate[position](obs, nil, nil)
	require.NoError(t, err)

	e := r.Create()
	Emplace(r, e, position{})
	require.Equal(t, 0, obs.Len()) // emplace alone does not raise on_update

	Replace(r, e, position{X: 1})
	require.Equal(t, 1, obs.Len())
	require.True(t, obs.Contains(e))
}

func TestObserverEachMutateDrainsOnce(t *testing.T) {
	r := New()
	obs := NewObserver(r)
	_, err := MatchOnUpdate[position](obs, nil, nil)
	require.NoError(t, err)

	e := r.Create()
	Emplace(r, e, position{})
	Replace(r, e, position{X: 1})

	visits := 0
	obs.EachMutate(func(e Entity, mask query.BitSet64) { visits++ })
	require.Equal(t, 1, visits)
	require.Equal(t, 0, obs.Len())

	visits = 0
	obs.EachMutate(func(e Entity, mask query.BitSet64) { visits++ })
	require.Equal(t, 0, visits)
}

func TestObserverMatchOnGroupTracksEntryAndExit(t *testing.T) {
	r := New()
	obs := NewObserver(r)
	_, err := MatchOnGroup(obs, []ComponentID{ComponentIDOf[position](), ComponentIDOf[velocity]()}, nil, nil, nil)
	require.NoError(t, err)

	e := r.Create()
	Emplace(r, e, position{})
	require.False(t, obs.Contains(e))

	Emplace(r, e, velocity{})
	require.True(t, obs.Contains(e))

	Remove[velocity](r, e)
	require.False(t, obs.Contains(e))
}

func TestObserverMatchOnUpdateWhereRefinement(t *testing.T) {
	r := New()
	obs := NewObserver(r)
	_, err := MatchOnUpdate[position](obs, []ComponentID{ComponentIDOf[velocity]()}, nil)
	require.NoError(t, err)

	e := r.Create()
	Emplace(r, e, position{})
	Replace(r, e, position{X: 1})
	require.False(t, obs.Contains(e)) // no velocity yet, so Req isn't satisfied

	Emplace(r, e, velocity{})
	Replace(r, e, position{X: 2})
	require.True(t, obs.Contains(e))
}

func TestObserverMatchOnGroupWhereRefinement(t *testing.T) {
	r := New()
	obs := NewObserver(r)
	_, err := MatchOnGroup(obs,
		[]ComponentID{ComponentIDOf[position]()}, nil,
		nil, []ComponentID{ComponentIDOf[tag]()})
	require.NoError(t, err)

	e := r.Create()
	Emplace(r, e, tag{})
	Emplace(r, e, position{})
	require.False(t, obs.Contains(e)) // Rej component present

	// Rej isn't among the AllOf/NoneOf types, so clearing it alone doesn't
	// re-evaluate the matcher (spec §4.8: only AllOf/NoneOf transitions
	// trigger re-evaluation) — it takes an AllOf transition to observe it.
	Remove[tag](r, e)
	require.False(t, obs.Contains(e))

	Remove[position](r, e)
	Emplace(r, e, position{X: 1})
	require.True(t, obs.Contains(e))
}

func TestObserverRejectsTooManyMatchers(t *testing.T) {
	r := New()
	obs := NewObserver(r)
	for i := 0; i < 31; i++ {
		_, err := obs.allocBit()
		require.NoError(t, err)
	}
	_, err := obs.allocBit()
	require.Error(t, err)
	var ecsErr *Error
	require.ErrorAs(t, err, &ecsErr)
	require.Equal(t, ErrObserverTooManyMatchers, ecsErr.Code)
}
