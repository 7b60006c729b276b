package ecs

import (
	"sparseecs/internal/ecs/query"
	"sparseecs/internal/ecs/storage"
)

// Observer tracks, per entity, which of a fixed set of registered matchers
// most recently fired, using one bit per matcher in a query.BitSet64 (spec
// §4.8) — the same fixed-width bitset a group or view could use for its own
// component-presence fast path, here repurposed as the per-entity matcher
// mask. 31 bits are usable; the 32nd onward are left unused the way the
// entity packing reserves its all-ones sentinel, so a fully-set 31-matcher
// mask can never collide with "observer has nothing to report". Bit
// positions are handed out by a query.PositionAssigner, keyed on an
// internal per-matcher sequence number; registering a 32nd matcher is
// refused with ErrObserverTooManyMatchers rather than silently wrapping.
type Observer struct {
	r          *Registry
	matched    map[Entity]query.BitSet64
	tracked    *storage.SparseSet // every entity with a nonzero mask
	matchers   *query.PositionAssigner
	matcherSeq int
}

// NewObserver returns an empty observer bound to r.
func NewObserver(r *Registry) *Observer {
	return &Observer{
		r:        r,
		matched:  make(map[Entity]query.BitSet64),
		tracked:  storage.NewSparseSet(),
		matchers: query.NewPositionAssigner(),
	}
}

func (o *Observer) allocBit() (int, error) {
	if o.matcherSeq >= maxObserverMatchers {
		return 0, newError(ErrObserverTooManyMatchers, "observer already has %d matchers, the maximum", maxObserverMatchers)
	}
	o.matcherSeq++
	return o.matchers.Position(o.matcherSeq), nil
}

func (o *Observer) setBit(e Entity, bit int) {
	mask := o.matched[e].Set(bit)
	o.matched[e] = mask
	if !o.tracked.Contains(e) {
		o.tracked.Insert(e)
	}
}

func (o *Observer) clearBit(e Entity, bit int) {
	mask, ok := o.matched[e]
	if !ok {
		return
	}
	mask = mask.Clear(bit)
	if mask.Len() == 0 {
		delete(o.matched, e)
		if o.tracked.Contains(e) {
			o.tracked.Erase(e, nil)
		}
		return
	}
	o.matched[e] = mask
}

// MatchOnUpdate registers a matcher that flags an entity every time
// component C is replaced or patched on it (spec §4.8's
// `update<AnyOf>().where<Req…>(exclude<Rej…>)`, specialized to a single
// AnyOf type), provided the entity currently satisfies every type in
// requireTypes and none in rejectTypes — both may be nil for an
// unrefined `update<C>()`. Returns the observer itself, so the result can
// be handed straight to another MatchOnUpdate or MatchOnGroup call, and an
// error if the observer is already at capacity.
func MatchOnUpdate[C any](o *Observer, requireTypes, rejectTypes []ComponentID) (*Observer, error) {
	bit, err := o.allocBit()
	if err != nil {
		return o, err
	}
	r := o.r
	OnUpdate[C](o.r).Connect(VoidListener(func(ev ComponentEvent) {
		if r.matchesAll(ev.Entity, requireTypes) && r.matchesNone(ev.Entity, rejectTypes) {
			o.setBit(ev.Entity, bit)
		}
	}), o)
	return o, nil
}

// MatchOnGroup registers a matcher that flags an entity the moment it
// starts satisfying the predicate "holds every component in includeTypes,
// none in excludeTypes, every component in requireTypes, and none in
// rejectTypes" — spec §4.8's
// `group<AllOf…>(exclude<NoneOf…>).where<Req…>(exclude<Rej…>)` — and
// unflags it the moment it stops. requireTypes/rejectTypes may be nil for
// an unrefined `group<AllOf…>(exclude<NoneOf…>)`. Only transitions driven by
// includeTypes/excludeTypes re-evaluate the matcher, matching the spec's
// "triggers ... by the last [AllOf/NoneOf] component being added or removed"
// wording: requireTypes/rejectTypes only gate the predicate, they don't
// themselves trigger new evaluations.
func MatchOnGroup(o *Observer, includeTypes, excludeTypes, requireTypes, rejectTypes []ComponentID) (*Observer, error) {
	bit, err := o.allocBit()
	if err != nil {
		return o, err
	}
	r := o.r
	refresh := func(e Entity) {
		if r.matchesAll(e, includeTypes) && r.matchesNone(e, excludeTypes) &&
			r.matchesAll(e, requireTypes) && r.matchesNone(e, rejectTypes) {
			o.setBit(e, bit)
		} else {
			o.clearBit(e, bit)
		}
	}
	for _, id := range includeTypes {
		signalFor(r.onConstruct, id).Sink().Connect(VoidListener(func(ev ComponentEvent) { refresh(ev.Entity) }), o)
		signalFor(r.onDestroy, id).Sink().Connect(VoidListener(func(ev ComponentEvent) { o.clearBit(ev.Entity, bit) }), o)
	}
	for _, id := range excludeTypes {
		signalFor(r.onConstruct, id).Sink().Connect(VoidListener(func(ev ComponentEvent) { o.clearBit(ev.Entity, bit) }), o)
		signalFor(r.onDestroy, id).Sink().Connect(VoidListener(func(ev ComponentEvent) { refresh(ev.Entity) }), o)
	}
	return o, nil
}

// Len reports how many entities currently have at least one matcher set.
func (o *Observer) Len() int { return o.tracked.Len() }

// Contains reports whether e currently has any bit set.
func (o *Observer) Contains(e Entity) bool { return o.tracked.Contains(e) }

// Mask returns e's current matcher bitset, or the zero value if untracked.
func (o *Observer) Mask(e Entity) query.BitSet64 { return o.matched[e] }

// Each visits every currently flagged entity along with its matcher mask,
// leaving the masks untouched — a second Each call without any intervening
// matches reports exactly the same entities again.
func (o *Observer) Each(fn func(e Entity, mask query.BitSet64)) {
	for _, e := range o.tracked.Dense() {
		fn(e, o.matched[e])
	}
}

// Clear drops every tracked entity's mask, consuming the whole observer in
// one call — the "mutating" visitation spec §4.8 calls for, typically run
// once per frame after EachMutate's callback has acted on every match.
func (o *Observer) Clear() {
	o.tracked.Clear(nil)
	o.matched = make(map[Entity]query.BitSet64)
}

// EachMutate visits every currently flagged entity exactly like Each, then
// clears the whole observer once the callback has seen every entry. Use
// this for frame-boundary drains where a matched entity should only ever be
// reported once.
func (o *Observer) EachMutate(fn func(e Entity, mask query.BitSet64)) {
	o.Each(fn)
	o.Clear()
}
