package ecs

import (
	"go.uber.org/zap"

	"sparseecs/internal/ecs/storage"
	"sparseecs/internal/ecslog"
)

// poolEntry is the type-erased pool record the spec calls for (§3,
// "registry state"): an ordered vector of pool records, each holding the
// pool and a type-erased remove-trampoline. Go's generics erase cleanly
// into closures captured at pool-creation time, so there is no need for
// the vtable-of-(size,align,drop,move,swap) the design notes describe for
// a systems language — the closures below are that vtable.
type poolEntry struct {
	id         ComponentID
	remove     func(e Entity) bool // erase e if present; reports whether it was
	contains   func(e Entity) bool
	length     func() int
	clear      func()
	sparse     func() *storage.SparseSet
	ownedBy    *groupRecord // non-nil if a group claims exclusive reorder rights
}

// poolLen returns component type id's current pool length, or 0 if nothing
// has ever emplaced that type yet — a runtime view over an as-yet-unused
// component type matches nothing rather than panicking.
func (r *Registry) poolLen(id ComponentID) int {
	entry, ok := r.pools[id]
	if !ok {
		return 0
	}
	return entry.length()
}

// poolDense returns id's pool's dense entity array, or nil if no pool for
// id exists yet.
func (r *Registry) poolDense(id ComponentID) []Entity {
	entry, ok := r.pools[id]
	if !ok {
		return nil
	}
	return entry.sparse().Dense()
}

func (r *Registry) poolOrderedRecords() []*poolEntry {
	records := make([]*poolEntry, len(r.poolOrder))
	for i, id := range r.poolOrder {
		records[i] = r.pools[id]
	}
	return records
}

// poolFor returns the pool for component type C, creating it (and its
// type-erased record) on first use. Pools are created lazily and never
// destroyed before the registry itself, per spec §3's lifecycle rule.
func poolFor[C any](r *Registry) *storage.Pool[C] {
	id := componentID[C]()
	if v, ok := r.poolValues[id]; ok {
		return v.(*storage.Pool[C])
	}
	p := storage.NewPool[C]()
	r.poolValues[id] = p
	entry := &poolEntry{
		id: id,
		remove: func(e Entity) bool {
			if !p.Contains(e) {
				return false
			}
			p.Erase(e)
			return true
		},
		contains: p.Contains,
		length:   p.Len,
		clear:    p.Clear,
		sparse:   p.Set,
	}
	r.pools[id] = entry
	r.poolOrder = append(r.poolOrder, id)
	ecslog.Debug("pool created", zap.Uint32("component_id", uint32(id)))
	return p
}

// Sortable reports whether component type C may be sorted directly. An
// owning group claims exclusive reorder rights over every pool it owns;
// sorting one out from under the group would desynchronize the group's
// packed prefix, so the registry refuses (spec §7, "sort of owned pool").
func Sortable[C any](r *Registry) bool {
	id := componentID[C]()
	entry, ok := r.pools[id]
	return !ok || entry.ownedBy == nil
}

// Sort reorders the dense array of pool C using less to compare entities,
// mirroring the change on C's parallel component array. Refuses (returning
// a *Error) if C is currently owned by a group.
func Sort[C any](r *Registry, less func(a, b Entity) bool) error {
	if !Sortable[C](r) {
		return newError(ErrPoolNotSortable, "component type is owned by a group and cannot be sorted directly")
	}
	poolFor[C](r).Sort(less)
	return nil
}

// SortByValue reorders pool C's dense array using less to compare component
// values. Same owned-pool restriction as Sort.
func SortByValue[C any](r *Registry, less func(a, b C) bool) error {
	if !Sortable[C](r) {
		return newError(ErrPoolNotSortable, "component type is owned by a group and cannot be sorted directly")
	}
	poolFor[C](r).SortByValue(less)
	return nil
}
