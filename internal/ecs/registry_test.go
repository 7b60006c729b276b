package ecs

import (
	"testing"

	"github.com/stretchr/testify/require"
)

type position struct{ X, Y float64 }
type velocity struct{ DX, DY float64 }
type tag struct{}

func TestCreateAssignsSequentialIndices(t *testing.T) {
	r := New()
	a := r.Create()
	b := r.Create()
	require.Equal(t, Entity(0), Index(a))
	require.Equal(t, Entity(1), Index(b))
	require.Equal(t, 2, r.EntityCount())
}

func TestDestroyRecyclesIndexAndBumpsVersion(t *testing.T) {
	r := New()
	a := r.Create()
	require.True(t, r.IsValid(a))

	r.Destroy(a)
	require.False(t, r.IsValid(a))
	require.Equal(t, 0, r.EntityCount())

	b := r.Create()
	require.Equal(t, Index(a), Index(b))
	require.NotEqual(t, Version(a), Version(b))
	require.Equal(t, 1, r.EntityCount())
}

func TestDestroyRemovesEveryComponent(t *testing.T) {
	r := New()
	e := r.Create()
	Emplace(r, e, position{X: 1})
	Emplace(r, e, velocity{DX: 2})

	destroyed := 0
	OnDestroy[position](r).Connect(VoidListener(func(ComponentEvent) { destroyed++ }), t)
	OnDestroy[velocity](r).Connect(VoidListener(func(ComponentEvent) { destroyed++ }), t)

	r.Destroy(e)
	require.Equal(t, 2, destroyed)
	require.Equal(t, 0, poolFor[position](r).Len())
	require.Equal(t, 0, poolFor[velocity](r).Len())
}

func TestCreateWithHintHonorsFreeIndex(t *testing.T) {
	r := New()
	a := r.Create()
	r.Destroy(a)

	hint := Compose(Index(a), Version(a))
	got := r.CreateWithHint(hint)
	require.Equal(t, hint, got)
	require.True(t, r.IsValid(got))
}

func TestCreateWithHintFallsBackWhenIndexLive(t *testing.T) {
	r := New()
	a := r.Create()
	got := r.CreateWithHint(a)
	require.NotEqual(t, a, got)
	require.True(t, r.IsValid(a))
	require.True(t, r.IsValid(got))
}

func TestEmplaceReplaceRemoveLifecycle(t *testing.T) {
	r := New()
	e := r.Create()

	var events []string
	OnConstruct[position](r).Connect(VoidListener(func(ComponentEvent) { events = append(events, "construct") }), t)
	OnUpdate[position](r).Connect(VoidListener(func(ComponentEvent) { events = append(events, "update") }), t)
	OnDestroy[position](r).Connect(VoidListener(func(ComponentEvent) { events = append(events, "destroy") }), t)

	Emplace(r, e, position{X: 1})
	require.True(t, Has[position](r, e))

	Replace(r, e, position{X: 2})
	require.Equal(t, 2.0, Get[position](r, e).X)

	Patch[position](r, e, func(p *position) { p.X += 1 })
	require.Equal(t, 3.0, Get[position](r, e).X)

	Remove[position](r, e)
	require.False(t, Has[position](r, e))

	require.Equal(t, []string{"construct", "update", "update", "destroy"}, events)
}

func TestEmplaceOrReplaceAndGetOrEmplace(t *testing.T) {
	r := New()
	e := r.Create()

	EmplaceOrReplace(r, e, position{X: 1})
	require.Equal(t, 1.0, Get[position](r, e).X)
	EmplaceOrReplace(r, e, position{X: 2})
	require.Equal(t, 2.0, Get[position](r, e).X)

	p := GetOrEmplace(r, e, position{X: 9})
	require.Equal(t, 2.0, p.X) // already present, fallback ignored

	f := r.Create()
	p2 := GetOrEmplace(r, f, position{X: 9})
	require.Equal(t, 9.0, p2.X)
}

func TestRemoveAllReportsCount(t *testing.T) {
	r := New()
	e := r.Create()
	Emplace(r, e, position{})
	Emplace(r, e, velocity{})
	Emplace(r, e, tag{})

	n := r.RemoveAll(e)
	require.Equal(t, 3, n)
	require.False(t, Has[position](r, e))
	require.False(t, Has[velocity](r, e))
	require.False(t, Has[tag](r, e))
}

func TestCtxVariables(t *testing.T) {
	r := New()
	_, ok := TryCtx[int](r)
	require.False(t, ok)

	SetCtx(r, 42)
	require.Equal(t, 42, Ctx[int](r))

	got := CtxOrSet(r, 7)
	require.Equal(t, 42, got) // already set, fallback ignored

	UnsetCtx[int](r)
	_, ok = TryCtx[int](r)
	require.False(t, ok)
}

func TestSortRefusesOwnedPool(t *testing.T) {
	r := New()
	_, err := NewOwningGroup2[position, velocity](r)
	require.NoError(t, err)

	require.False(t, Sortable[position](r))
	err = Sort[position](r, func(a, b Entity) bool { return a < b })
	require.Error(t, err)

	require.True(t, Sortable[tag](r))
}
