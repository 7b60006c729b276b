package ecs

import (
	"go.uber.org/zap"

	"sparseecs/internal/ecs/storage"
	"sparseecs/internal/ecslog"
)

// groupRecord is a registry-owned bookkeeping record for one group (spec
// §4.7). Non-owning groups only need the handler sparse set that mirrors
// the current match; owning groups additionally claim exclusive reorder
// rights over their owned pools and track how much of each owned pool's
// dense prefix is "in the group" via length.
type groupRecord struct {
	ownedIDs   []ComponentID
	includeIDs []ComponentID // non-owning include components, beyond the owned ones
	excludeIDs []ComponentID

	// non-owning representation: every matching entity lives in handler.
	handler *storage.SparseSet

	// owning representation: length is how many of the first pool's dense
	// entries (0..length) currently satisfy the full group predicate. Owning
	// groups don't need a handler; membership IS the packed prefix.
	length int

	// constructHooks/destroyHooks record, per component id, the exact
	// listener this group connected for that signal — so a broader group
	// created later can target it with Sink.Before and land ahead of it in
	// publish order (spec §4.7's outer-before-inner nesting rule).
	constructHooks map[ComponentID]Listener[ComponentEvent]
	destroyHooks   map[ComponentID]Listener[ComponentEvent]
}

func (g *groupRecord) isOwning() bool { return len(g.ownedIDs) > 0 }

// sameComponentSet reports whether a and b contain exactly the same
// component ids, order notwithstanding.
func sameComponentSet(a, b []ComponentID) bool {
	return idSetRelationOf(a, b) == relEqual
}

// idSetRelation classifies how two component-id sets relate to each other:
// disjoint, equal, one a strict subset of the other, or genuinely
// overlapping without either containing the other.
type idSetRelation int

const (
	relDisjoint idSetRelation = iota
	relEqual
	relSubset   // a ⊊ b
	relSuperset // a ⊋ b
	relPartial  // neither disjoint, equal, nor nested
)

func idSetRelationOf(a, b []ComponentID) idSetRelation {
	aInB, bInA, overlap := true, true, false
	for _, x := range a {
		found := false
		for _, y := range b {
			if x == y {
				found, overlap = true, true
				break
			}
		}
		if !found {
			aInB = false
		}
	}
	for _, y := range b {
		found := false
		for _, x := range a {
			if x == y {
				found = true
				break
			}
		}
		if !found {
			bInA = false
		}
	}
	switch {
	case aInB && bInA:
		return relEqual
	case aInB:
		return relSubset
	case bInA:
		return relSuperset
	case overlap:
		return relPartial
	default:
		return relDisjoint
	}
}

// checkGroupTopology enforces spec §4.7's ownership rule: two owning groups'
// owned sets must be strictly nested (one a subset of the other, including
// equal) or fully disjoint — a partial overlap, where each set owns at least
// one component type the other doesn't, is refused because it would leave
// neither group with a well-defined reorder claim over the shared type.
// Nested ownership is otherwise unrestricted: an inner group's owned set may
// freely appear in an outer group's include/exclude list and vice versa,
// since nesting already establishes which group reorders first.
func (r *Registry) checkGroupTopology(owned, include, exclude []ComponentID) error {
	if len(owned) == 0 {
		// A non-owning group never claims reorder rights, so it can never
		// conflict with an existing group's ownership claim — only two
		// owning groups (or an owning group and a new owning claim) can.
		return nil
	}
	for _, g := range r.groups {
		if !g.isOwning() {
			continue
		}
		if idSetRelationOf(owned, g.ownedIDs) == relPartial {
			return newError(ErrGroupTopologyViolation, "owned component set partially overlaps another group's owned set")
		}
	}
	return nil
}

// insertGroupRecord appends rec to r.groups, keeping owning groups sorted so
// that for every nested pair the broader owned set comes first (spec §4.7).
// Non-owning groups and unrelated owning groups just keep declaration order.
func (r *Registry) insertGroupRecord(rec *groupRecord) {
	if rec.isOwning() {
		for i, g := range r.groups {
			if g.isOwning() && idSetRelationOf(g.ownedIDs, rec.ownedIDs) == relSubset {
				r.groups = append(r.groups, nil)
				copy(r.groups[i+1:], r.groups[i:])
				r.groups[i] = rec
				return
			}
		}
	}
	r.groups = append(r.groups, rec)
}

// connectOwningHook wires listener (bound to rec) onto sig for component id.
// If an already-registered, strictly narrower nested owning group has its
// own hook on the same id, the connection is inserted via Sink.Before so rec
// — the broader, outer group — publishes first, per spec §4.7. The listener
// is recorded in hooks under id so a still-broader group created afterward
// can target rec's own hook the same way.
func (r *Registry) connectOwningHook(
	sig *Signal[ComponentEvent],
	id ComponentID,
	rec *groupRecord,
	hooks map[ComponentID]Listener[ComponentEvent],
	hooksOf func(g *groupRecord) map[ComponentID]Listener[ComponentEvent],
	listener Listener[ComponentEvent],
) {
	sink := sig.Sink()
	for _, g := range r.groups {
		if g == rec || !g.isOwning() {
			continue
		}
		if idSetRelationOf(g.ownedIDs, rec.ownedIDs) != relSubset {
			continue // g does not nest strictly inside rec's owned set
		}
		if target, ok := hooksOf(g)[id]; ok {
			sink = sink.Before(target, g)
			break
		}
	}
	sink.Connect(listener, rec)
	hooks[id] = listener
}

func (r *Registry) claimOwnership(ids []ComponentID, g *groupRecord) {
	for _, id := range ids {
		r.pools[id].ownedBy = g
	}
}

// matchesAll reports whether e is present in every pool named by ids. A type
// named in ids with no pool yet (nothing has ever emplaced it) simply has no
// entities in it, so it fails the match rather than panicking.
func (r *Registry) matchesAll(e Entity, ids []ComponentID) bool {
	for _, id := range ids {
		entry, ok := r.pools[id]
		if !ok || !entry.contains(e) {
			return false
		}
	}
	return true
}

func (r *Registry) matchesNone(e Entity, ids []ComponentID) bool {
	for _, id := range ids {
		if entry, ok := r.pools[id]; ok && entry.contains(e) {
			return false
		}
	}
	return true
}

// ==============================================
// Non-owning groups
// ==============================================

// Group is a non-owning group: a standing view maintained incrementally by
// hooking every relevant pool's construct/update/destroy signals, rather
// than recomputed on each iteration. Membership lives in an internal sparse
// set kept in sync as components come and go.
type Group struct {
	r    *Registry
	rec  *groupRecord
	ids  []ComponentID // include ids, in declared order, for typed Each dispatch
}

// NewGroup builds (or returns, if an identical group already exists) a
// non-owning group over includeTypes, excluding entities that also hold any
// of excludeTypes. Two groups may not claim ownership of overlapping
// component sets; non-owning groups never claim ownership, so they never
// conflict with each other, only with an owning group's claims.
func (r *Registry) NewGroup(includeTypes []ComponentID, excludeTypes []ComponentID) (*Group, error) {
	for _, g := range r.groups {
		if !g.isOwning() && sameComponentSet(g.includeIDs, includeTypes) && sameComponentSet(g.excludeIDs, excludeTypes) {
			return &Group{r: r, rec: g, ids: includeTypes}, nil
		}
	}
	if err := r.checkGroupTopology(nil, includeTypes, excludeTypes); err != nil {
		return nil, err
	}
	rec := &groupRecord{includeIDs: includeTypes, excludeIDs: excludeTypes, handler: storage.NewSparseSet()}
	r.insertGroupRecord(rec)

	refresh := func(e Entity) {
		matches := r.matchesAll(e, includeTypes) && r.matchesNone(e, excludeTypes)
		already := rec.handler.Contains(e)
		switch {
		case matches && !already:
			rec.handler.Insert(e)
		case !matches && already:
			rec.handler.Erase(e, nil)
		}
	}
	for _, id := range includeTypes {
		voidRefresh := VoidListener(func(ev ComponentEvent) { refresh(ev.Entity) })
		signalFor(r.onConstruct, id).Sink().Connect(voidRefresh, rec)
		signalFor(r.onUpdate, id).Sink().Connect(voidRefresh, rec)
		signalFor(r.onDestroy, id).Sink().Connect(VoidListener(func(ev ComponentEvent) {
			if rec.handler.Contains(ev.Entity) {
				rec.handler.Erase(ev.Entity, nil)
			}
		}), rec)
	}
	for _, id := range excludeTypes {
		signalFor(r.onConstruct, id).Sink().Connect(VoidListener(func(ev ComponentEvent) {
			if rec.handler.Contains(ev.Entity) {
				rec.handler.Erase(ev.Entity, nil)
			}
		}), rec)
		signalFor(r.onDestroy, id).Sink().Connect(VoidListener(func(ev ComponentEvent) { refresh(ev.Entity) }), rec)
	}
	ecslog.Debug("non-owning group created", zap.Int("include", len(includeTypes)), zap.Int("exclude", len(excludeTypes)))
	return &Group{r: r, rec: rec, ids: includeTypes}, nil
}

// Len returns the number of entities currently in the group.
func (g *Group) Len() int { return g.rec.handler.Len() }

// Each visits every entity currently in the group.
func (g *Group) Each(fn func(e Entity)) {
	for _, e := range g.rec.handler.Dense() {
		fn(e)
	}
}

// ==============================================
// Owning groups
// ==============================================

// OwningGroup2 is an owning group over exactly two component types (spec
// §4.7). Owning a pool grants the group exclusive rights to reorder its
// dense array; member entities are packed into the prefix [0, Len()) of
// every owned pool, in lockstep, so Each can walk that prefix directly with
// no per-entity lookups at all — the fastest iteration shape the core
// offers, at the cost of insert/remove paying for the repack.
type OwningGroup2[A, B any] struct {
	r   *Registry
	rec *groupRecord
}

// NewOwningGroup2 builds (or returns, if an identical group already exists)
// an owning group over (A, B), excluding entities that also hold any of
// excludeTypes. Fails with ErrGroupTopologyViolation if A or B's owned set
// partially overlaps another group's owned set (a strict subset/superset
// nesting is allowed; see spec §4.7).
func NewOwningGroup2[A, B any](r *Registry, excludeTypes ...ComponentID) (*OwningGroup2[A, B], error) {
	idA, idB := componentID[A](), componentID[B]()
	owned := []ComponentID{idA, idB}
	for _, g := range r.groups {
		if g.isOwning() && sameComponentSet(g.ownedIDs, owned) && sameComponentSet(g.excludeIDs, excludeTypes) {
			return &OwningGroup2[A, B]{r: r, rec: g}, nil
		}
	}
	if err := r.checkGroupTopology(owned, nil, excludeTypes); err != nil {
		return nil, err
	}
	poolFor[A](r)
	poolFor[B](r)
	rec := &groupRecord{
		ownedIDs:       owned,
		excludeIDs:     excludeTypes,
		constructHooks: make(map[ComponentID]Listener[ComponentEvent]),
		destroyHooks:   make(map[ComponentID]Listener[ComponentEvent]),
	}
	r.insertGroupRecord(rec)
	r.claimOwnership(owned, rec)

	pa, pb := poolFor[A](r), poolFor[B](r)

	inGroup := func(e Entity) bool {
		return pa.Contains(e) && pb.Contains(e) && r.matchesNone(e, excludeTypes)
	}
	// Once an entity is part of the group, its position is the same index i
	// (< length) in every owned pool's dense array; pulling a new member in
	// (or pushing one out) therefore just needs each owned pool to swap its
	// own dense position of e with the boundary independently — the shared
	// invariant does the rest of the synchronizing work.
	pullIn := func(e Entity) {
		if !pa.Contains(e) || !pb.Contains(e) {
			return
		}
		if pa.Index(e) < rec.length {
			return
		}
		pa.SwapAt(pa.Index(e), rec.length)
		pb.SwapAt(pb.Index(e), rec.length)
		rec.length++
	}
	pushOut := func(e Entity) {
		if !pa.Contains(e) {
			return
		}
		if pa.Index(e) >= rec.length {
			return
		}
		rec.length--
		pa.SwapAt(pa.Index(e), rec.length)
		if pb.Contains(e) {
			pb.SwapAt(pb.Index(e), rec.length)
		}
	}
	refresh := func(e Entity) {
		if inGroup(e) {
			pullIn(e)
		} else {
			pushOut(e)
		}
	}

	// Nested groups (spec §4.7) repack outside-in: a broader (outer) group's
	// listeners must run before a strictly narrower (inner) nested group's
	// listeners touching the same pool. connectOwningHook finds any such
	// already-registered inner group and uses Sink.Before to land ahead of
	// it, rather than relying on declaration order.
	hooksOf := func(g *groupRecord) map[ComponentID]Listener[ComponentEvent] { return g.constructHooks }
	destroyHooksOf := func(g *groupRecord) map[ComponentID]Listener[ComponentEvent] { return g.destroyHooks }
	r.connectOwningHook(signalFor(r.onConstruct, idA), idA, rec, rec.constructHooks, hooksOf, VoidListener(func(ev ComponentEvent) { refresh(ev.Entity) }))
	r.connectOwningHook(signalFor(r.onConstruct, idB), idB, rec, rec.constructHooks, hooksOf, VoidListener(func(ev ComponentEvent) { refresh(ev.Entity) }))
	r.connectOwningHook(signalFor(r.onDestroy, idA), idA, rec, rec.destroyHooks, destroyHooksOf, VoidListener(func(ev ComponentEvent) { pushOut(ev.Entity) }))
	r.connectOwningHook(signalFor(r.onDestroy, idB), idB, rec, rec.destroyHooks, destroyHooksOf, VoidListener(func(ev ComponentEvent) { pushOut(ev.Entity) }))
	for _, id := range excludeTypes {
		r.connectOwningHook(signalFor(r.onConstruct, id), id, rec, rec.constructHooks, hooksOf, VoidListener(func(ev ComponentEvent) { pushOut(ev.Entity) }))
		r.connectOwningHook(signalFor(r.onDestroy, id), id, rec, rec.destroyHooks, destroyHooksOf, VoidListener(func(ev ComponentEvent) { refresh(ev.Entity) }))
	}

	for i := 0; i < pa.Len(); i++ {
		refresh(pa.At(i))
	}

	ecslog.Debug("owning group created", zap.Int("length", rec.length))
	return &OwningGroup2[A, B]{r: r, rec: rec}, nil
}

// Len returns the number of entities currently packed into the group.
func (g *OwningGroup2[A, B]) Len() int { return g.rec.length }

// Each walks the owned pools' packed prefix directly: no per-entity sparse
// lookups at all, the payoff spec §4.7 calls out for owning groups.
func (g *OwningGroup2[A, B]) Each(fn func(e Entity, a *A, b *B)) {
	pa, pb := poolFor[A](g.r), poolFor[B](g.r)
	va, vb := pa.Values(), pb.Values()
	for i := 0; i < g.rec.length; i++ {
		fn(pa.At(i), &va[i], &vb[i])
	}
}
