package ecs

import (
	"go.uber.org/zap"

	"sparseecs/internal/ecslog"
)

// ComponentEvent is the argument every construct/update/destroy signal
// publishes: the registry the change happened on, and the entity it
// happened to. Spec §4.5: "sinks with signature (registry&, entity)".
type ComponentEvent struct {
	Registry *Registry
	Entity   Entity
}

// Option configures a Registry at construction time. The donor game's
// WorldConfig/DefaultWorldConfig (types.go) is a flat struct; this follows
// the functional-options shape instead, which is the idiom the rest of the
// retrieval pack's constructors lean on for optional knobs.
type Option func(*Registry)

// WithInitialEntityCapacity preallocates the entity vector, avoiding
// reallocation churn for callers that know roughly how many entities they
// will create.
func WithInitialEntityCapacity(n int) Option {
	return func(r *Registry) {
		r.entities = make([]Entity, 0, n)
	}
}

// Registry owns every pool, the entity vector and its free list, the group
// records, and the context-variable map. It is not safe for concurrent use
// from more than one goroutine at a time (spec §5): a single registry
// instance is single-threaded cooperative, like the rest of the core.
type Registry struct {
	pools      map[ComponentID]*poolEntry
	poolValues map[ComponentID]any
	poolOrder  []ComponentID

	entities  []Entity
	destroyed Entity // free-list head; IsNull(destroyed) means the list is empty
	liveCount int

	groups []*groupRecord

	ctx map[ComponentID]any

	onConstruct map[ComponentID]*Signal[ComponentEvent]
	onUpdate    map[ComponentID]*Signal[ComponentEvent]
	onDestroy   map[ComponentID]*Signal[ComponentEvent]
}

// New returns an empty registry ready for use.
func New(opts ...Option) *Registry {
	r := &Registry{
		pools:       make(map[ComponentID]*poolEntry),
		poolValues:  make(map[ComponentID]any),
		ctx:         make(map[ComponentID]any),
		onConstruct: make(map[ComponentID]*Signal[ComponentEvent]),
		onUpdate:    make(map[ComponentID]*Signal[ComponentEvent]),
		onDestroy:   make(map[ComponentID]*Signal[ComponentEvent]),
		destroyed:   Null,
	}
	for _, opt := range opts {
		opt(r)
	}
	return r
}

// ==============================================
// Entity lifecycle
// ==============================================

// Create returns a fresh entity: recycled from the free list (keeping its
// stored version) if one is available, or appended at version 0 otherwise.
func (r *Registry) Create() Entity {
	r.liveCount++
	if !IsNull(r.destroyed) {
		idx := Index(r.destroyed)
		slot := r.entities[idx]
		ver := Version(slot)
		r.destroyed = Compose(Index(slot), 0)
		e := Compose(idx, ver)
		r.entities[idx] = e
		return e
	}
	idx := Entity(len(r.entities))
	e := Compose(idx, 0)
	r.entities = append(r.entities, e)
	return e
}

// isLive reports whether idx currently names a live entity rather than a
// link in the free list. A live slot's own index field always equals its
// position; a free slot's index field holds the next free index instead,
// which by construction is never equal to idx itself.
func (r *Registry) isLive(idx Entity) bool {
	return int(idx) < len(r.entities) && Index(r.entities[idx]) == idx
}

// CreateWithHint creates the specific identifier hint names if its index is
// currently free. If the index is live, the hint is not honored and a
// plain Create() happens instead (spec §4.5 and the design notes flag this
// as behavior an implementer should confirm, not silently "fix"; this core
// preserves it as specified). If hint's index is beyond the current entity
// vector, every slot up to it is pushed onto the free list first.
func (r *Registry) CreateWithHint(hint Entity) Entity {
	idx := Index(hint)
	if int(idx) < len(r.entities) {
		if r.isLive(idx) {
			return r.Create()
		}
		r.liveCount++
		r.reviveAt(idx)
		e := Compose(idx, Version(hint))
		r.entities[idx] = e
		return e
	}

	// Push the gap [len(entities), idx) onto the free list, oldest first,
	// then bring idx itself to life directly at the hint's version.
	for cur := Entity(len(r.entities)); cur < idx; cur++ {
		next := r.destroyed
		r.entities = append(r.entities, Compose(Index(next), 0))
		r.destroyed = Compose(cur, 0)
	}
	r.liveCount++
	e := Compose(idx, Version(hint))
	r.entities = append(r.entities, e)
	return e
}

// reviveAt splices idx out of the free list, wherever in the chain it is,
// and brings it back to life at its currently stored version. This is the
// one place a hinted create pays for an O(n) walk of the free list; hinted
// creates are rare enough (snapshot restore, not steady-state gameplay)
// that this is the right trade against a more complex doubly-linked free
// list.
func (r *Registry) reviveAt(idx Entity) Entity {
	if Index(r.destroyed) == idx {
		ver := Version(r.entities[idx])
		r.destroyed = Compose(Index(r.entities[idx]), 0)
		e := Compose(idx, ver)
		r.entities[idx] = e
		return e
	}
	prev := Index(r.destroyed)
	for {
		next := Index(r.entities[prev])
		if next == idx {
			break
		}
		prev = next
	}
	ver := Version(r.entities[idx])
	r.entities[prev] = Compose(Index(r.entities[idx]), Version(r.entities[prev]))
	e := Compose(idx, ver)
	r.entities[idx] = e
	return e
}

// IsValid reports whether e names a currently live entity with a matching
// version.
func (r *Registry) IsValid(e Entity) bool {
	idx := Index(e)
	return int(idx) < len(r.entities) && r.entities[idx] == e
}

// Destroy removes every component e holds (raising on_destroy signals as
// it goes), bumps e's version, and prepends its index to the free list.
// Destroying an invalid entity is undefined behavior.
func (r *Registry) Destroy(e Entity) {
	r.RemoveAll(e)
	r.destroyWithVersion(e, traits.NextVersion(Version(e)))
}

// DestroyWithVersion behaves like Destroy but assigns newVersion to the
// freed slot instead of the natural successor, for callers restoring a
// specific identity (e.g. a continuous loader rolling back a snapshot).
func (r *Registry) DestroyWithVersion(e Entity, newVersion Entity) {
	r.RemoveAll(e)
	r.destroyWithVersion(e, newVersion)
}

func (r *Registry) destroyWithVersion(e Entity, newVersion Entity) {
	idx := Index(e)
	next := r.destroyed
	r.entities[idx] = Compose(Index(next), newVersion)
	r.destroyed = Compose(idx, 0)
	r.liveCount--
}

// EntityCount returns the number of currently live entities.
func (r *Registry) EntityCount() int {
	return r.liveCount
}

// ==============================================
// Context variables
// ==============================================

// SetCtx installs (or replaces) the per-registry singleton of type T.
func SetCtx[T any](r *Registry, value T) {
	r.ctx[componentID[T]()] = value
}

// Ctx returns the per-registry singleton of type T. Undefined if absent;
// use TryCtx when the value may not have been set.
func Ctx[T any](r *Registry) T {
	return r.ctx[componentID[T]()].(T)
}

// TryCtx returns the per-registry singleton of type T and whether it was
// present.
func TryCtx[T any](r *Registry) (T, bool) {
	v, ok := r.ctx[componentID[T]()]
	if !ok {
		var zero T
		return zero, false
	}
	return v.(T), true
}

// CtxOrSet returns the existing singleton of type T, installing fallback as
// the singleton first if none was present yet.
func CtxOrSet[T any](r *Registry, fallback T) T {
	if v, ok := TryCtx[T](r); ok {
		return v
	}
	SetCtx(r, fallback)
	return fallback
}

// UnsetCtx removes the singleton of type T, if any.
func UnsetCtx[T any](r *Registry) {
	delete(r.ctx, componentID[T]())
}

// ==============================================
// Signals
// ==============================================

func signalFor(m map[ComponentID]*Signal[ComponentEvent], id ComponentID) *Signal[ComponentEvent] {
	sig, ok := m[id]
	if !ok {
		sig = &Signal[ComponentEvent]{}
		m[id] = sig
	}
	return sig
}

// OnConstruct returns the sink fired after C is emplaced on an entity, once
// the component's state is already consistent.
func OnConstruct[C any](r *Registry) Sink[ComponentEvent] {
	return signalFor(r.onConstruct, componentID[C]()).Sink()
}

// OnUpdate returns the sink fired after C is replaced or patched on an
// entity.
func OnUpdate[C any](r *Registry) Sink[ComponentEvent] {
	return signalFor(r.onUpdate, componentID[C]()).Sink()
}

// OnDestroy returns the sink fired just before C is erased from an entity,
// while the component's prior state is still readable.
func OnDestroy[C any](r *Registry) Sink[ComponentEvent] {
	return signalFor(r.onDestroy, componentID[C]()).Sink()
}

func publishIfPresent(m map[ComponentID]*Signal[ComponentEvent], id ComponentID, r *Registry, e Entity) {
	if sig, ok := m[id]; ok {
		sig.Publish(ComponentEvent{Registry: r, Entity: e})
	}
}

// ==============================================
// Component operations
// ==============================================

// Emplace constructs component C on e and raises on_construct<C>.
// Duplicate emplace is undefined behavior.
func Emplace[C any](r *Registry, e Entity, value C) {
	poolFor[C](r).Emplace(e, value)
	publishIfPresent(r.onConstruct, componentID[C](), r, e)
}

// EmplaceOrReplace emplaces C if e does not already have it, otherwise
// replaces the existing value.
func EmplaceOrReplace[C any](r *Registry, e Entity, value C) {
	if Has[C](r, e) {
		Replace(r, e, value)
		return
	}
	Emplace(r, e, value)
}

// Replace assigns value over e's existing component and raises
// on_update<C>.
func Replace[C any](r *Registry, e Entity, value C) {
	*poolFor[C](r).Get(e) = value
	publishIfPresent(r.onUpdate, componentID[C](), r, e)
}

// Patch applies every fn to e's in-place component, then raises
// on_update<C>.
func Patch[C any](r *Registry, e Entity, fns ...func(*C)) {
	poolFor[C](r).Patch(e, fns...)
	publishIfPresent(r.onUpdate, componentID[C](), r, e)
}

// Remove raises on_destroy<C> (while the component is still readable) and
// then erases it from e. Duplicate remove is undefined behavior.
func Remove[C any](r *Registry, e Entity) {
	publishIfPresent(r.onDestroy, componentID[C](), r, e)
	poolFor[C](r).Erase(e)
}

// RemoveIfExists removes C from e if present, reporting whether it was.
func RemoveIfExists[C any](r *Registry, e Entity) bool {
	if !Has[C](r, e) {
		return false
	}
	Remove[C](r, e)
	return true
}

// RemoveAll sweeps every pool in reverse registration order, removing C
// from e wherever present and raising on_destroy first. Per spec §4.5, a
// listener that re-adds a component of an already-processed type leaves
// the result unspecified; this implementation tolerates it (the sweep
// simply does not revisit earlier pools) but logs a warning so the
// situation is at least visible in the field.
func (r *Registry) RemoveAll(e Entity) int {
	records := r.poolOrderedRecords()
	removed := 0
	for i := len(records) - 1; i >= 0; i-- {
		entry := records[i]
		if !entry.contains(e) {
			continue
		}
		publishIfPresent(r.onDestroy, entry.id, r, e)
		if entry.remove(e) {
			removed++
		}
	}
	for _, entry := range records {
		if entry.contains(e) {
			ecslog.Warn("component re-added during remove_all destroy signal; result is unspecified",
				zap.Uint32("component_id", uint32(entry.id)))
		}
	}
	return removed
}

// Has reports whether e has component C.
func Has[C any](r *Registry, e Entity) bool {
	return poolFor[C](r).Contains(e)
}

// Get returns a pointer to e's C component. Undefined if absent.
func Get[C any](r *Registry, e Entity) *C {
	return poolFor[C](r).Get(e)
}

// TryGet returns a pointer to e's C component, or nil if absent.
func TryGet[C any](r *Registry, e Entity) *C {
	return poolFor[C](r).TryGet(e)
}

// GetOrEmplace returns e's existing C component, or emplaces fallback and
// returns a pointer to that if e had none.
func GetOrEmplace[C any](r *Registry, e Entity, fallback C) *C {
	if !Has[C](r, e) {
		Emplace(r, e, fallback)
	}
	return Get[C](r, e)
}
