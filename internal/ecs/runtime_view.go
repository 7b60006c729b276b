package ecs

import "sparseecs/internal/ecs/query"

// RuntimeView is the dynamic counterpart to View1..View4: its include and
// exclude lists are ordinary ComponentID slices decided at runtime (spec
// §4.9), rather than compile-time generic type parameters. Constructing one
// with no include ids is rejected outright — an unbounded, filter-only scan
// over every live entity is never what a caller actually wants, and the
// fixed-arity Views can't even express it since they always require at
// least one Include type parameter.
type RuntimeView struct {
	r          *Registry
	includeIDs []ComponentID
	excludeIDs []ComponentID
}

// NewRuntimeView builds a view over includeTypes, excluding entities that
// also hold any of excludeTypes. Returns ErrEmptyViewInclude if includeTypes
// is empty.
func NewRuntimeView(r *Registry, includeTypes, excludeTypes []ComponentID) (*RuntimeView, error) {
	if len(includeTypes) == 0 {
		return nil, newError(ErrEmptyViewInclude, "runtime view requires at least one include component type")
	}
	return &RuntimeView{r: r, includeIDs: includeTypes, excludeIDs: excludeTypes}, nil
}

// driverID returns the include component id whose pool currently has the
// fewest entities, the same "smallest pool drives iteration" rule the
// fixed-arity views use. A component type with no pool yet (nothing has
// ever emplaced it) has zero entities by definition, so it immediately
// becomes the driver — and, as the empty pool, short-circuits the whole
// view to zero matches.
func (v *RuntimeView) driverID() ComponentID {
	best := v.includeIDs[0]
	bestLen := v.r.poolLen(best)
	for _, id := range v.includeIDs[1:] {
		if n := v.r.poolLen(id); n < bestLen {
			best, bestLen = id, n
		}
	}
	return best
}

// Len computes, via a RoaringBitmap intersection of every include pool
// (and subtraction of every exclude pool), exactly how many entities the
// view currently matches.
func (v *RuntimeView) Len() int {
	return v.matchSet().Len()
}

func (v *RuntimeView) matchSet() *query.EntitySet {
	driver := v.driverID()
	acc := query.EntitySetFromSlice(entityDenseToUint32(v.r.poolDense(driver)))
	for _, id := range v.includeIDs {
		if id == driver {
			continue
		}
		acc = acc.IntersectWith(query.EntitySetFromSlice(entityDenseToUint32(v.r.poolDense(id))))
	}
	for _, id := range v.excludeIDs {
		acc = acc.Difference(query.EntitySetFromSlice(entityDenseToUint32(v.r.poolDense(id))))
	}
	return acc
}

func entityDenseToUint32(dense []Entity) []uint32 {
	out := make([]uint32, len(dense))
	for i, e := range dense {
		out[i] = uint32(e)
	}
	return out
}

// Each visits every currently matching entity, ascending by id. Unlike the
// fixed-arity views, RuntimeView has no typed component access to offer —
// callers look values up with TryGet once inside the callback.
func (v *RuntimeView) Each(fn func(e Entity) bool) {
	v.matchSet().Each(func(id uint32) bool {
		return fn(Entity(id))
	})
}
