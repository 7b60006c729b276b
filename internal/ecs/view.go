package ecs

// View is a transient, on-the-fly multi-component iterator (spec §4.6). Go
// has no variadic generics, so the compile-time view comes in fixed-arity
// flavors — View1 through View4 below — each parameterized over its
// Include types directly; a dynamic list of component ids is covered
// separately by RuntimeView (§4.9).
//
// Every flavor recomputes its driver (the smallest include pool) on every
// Each call, exactly as spec §4.6 requires ("each(fn) chooses the smallest
// include pool fresh each call"), rather than caching it at construction
// time — group.go's owning groups are the long-lived alternative when a
// fixed driver is worth paying for.

// excludeFilter reports whether e is excluded, i.e. present in any of the
// given exclude pools.
func excludeFilter(r *Registry, excludeIDs []ComponentID, e Entity) bool {
	for _, id := range excludeIDs {
		if entry, ok := r.pools[id]; ok && entry.contains(e) {
			return true
		}
	}
	return false
}

// View1 iterates every entity holding component A, skipping any also
// present in an excluded pool. With no exclude list this is the "fast
// specialization" spec §4.6 calls for: Len() equals the pool size exactly.
type View1[A any] struct {
	r          *Registry
	excludeIDs []ComponentID
}

// NewView1 builds a view over component A, excluding entities that also
// hold any of excludeTypes.
func NewView1[A any](r *Registry, excludeTypes ...ComponentID) *View1[A] {
	return &View1[A]{r: r, excludeIDs: excludeTypes}
}

// Len returns the number of entities the view would currently yield. With
// no exclude list it is exact and O(1) (the pool's own size); with excludes
// it is an upper bound unless computed by a full scan, so this always walks
// the pool when excludes are present.
func (v *View1[A]) Len() int {
	p := poolFor[A](v.r)
	if len(v.excludeIDs) == 0 {
		return p.Len()
	}
	n := 0
	for i := 0; i < p.Len(); i++ {
		if !excludeFilter(v.r, v.excludeIDs, p.At(i)) {
			n++
		}
	}
	return n
}

// Each visits every matching entity and a pointer to its A component, read
// directly from the pool's packed array.
func (v *View1[A]) Each(fn func(e Entity, a *A)) {
	p := poolFor[A](v.r)
	for i := 0; i < p.Len(); i++ {
		e := p.At(i)
		if excludeFilter(v.r, v.excludeIDs, e) {
			continue
		}
		fn(e, &p.Values()[i])
	}
}

// Iterate visits every matching entity id only, stopping early if fn
// returns false.
func (v *View1[A]) Iterate(fn func(e Entity) bool) {
	p := poolFor[A](v.r)
	for i := 0; i < p.Len(); i++ {
		e := p.At(i)
		if excludeFilter(v.r, v.excludeIDs, e) {
			continue
		}
		if !fn(e) {
			return
		}
	}
}

// View2 iterates entities holding both A and B, excluding matches.
type View2[A, B any] struct {
	r          *Registry
	excludeIDs []ComponentID
}

// NewView2 builds a view over (A, B), excluding entities that also hold any
// of excludeTypes.
func NewView2[A, B any](r *Registry, excludeTypes ...ComponentID) *View2[A, B] {
	return &View2[A, B]{r: r, excludeIDs: excludeTypes}
}

// Each picks whichever of A, B currently has fewer entities as the driver,
// iterates its packed array directly, and looks the other component up per
// entity.
func (v *View2[A, B]) Each(fn func(e Entity, a *A, b *B)) {
	pa, pb := poolFor[A](v.r), poolFor[B](v.r)
	if pa.Len() <= pb.Len() {
		for i := 0; i < pa.Len(); i++ {
			e := pa.At(i)
			if !pb.Contains(e) || excludeFilter(v.r, v.excludeIDs, e) {
				continue
			}
			fn(e, &pa.Values()[i], pb.Get(e))
		}
		return
	}
	for i := 0; i < pb.Len(); i++ {
		e := pb.At(i)
		if !pa.Contains(e) || excludeFilter(v.r, v.excludeIDs, e) {
			continue
		}
		fn(e, pa.Get(e), &pb.Values()[i])
	}
}

// EachFixedA forces A as the driver, regardless of relative pool sizes;
// spec §4.6's each<C>(fn) overload for when the caller knows which
// ordering to prefer.
func (v *View2[A, B]) EachFixedA(fn func(e Entity, a *A, b *B)) {
	pa, pb := poolFor[A](v.r), poolFor[B](v.r)
	for i := 0; i < pa.Len(); i++ {
		e := pa.At(i)
		if !pb.Contains(e) || excludeFilter(v.r, v.excludeIDs, e) {
			continue
		}
		fn(e, &pa.Values()[i], pb.Get(e))
	}
}

// Iterate visits every matching entity id only, stopping early if fn
// returns false.
func (v *View2[A, B]) Iterate(fn func(e Entity) bool) {
	pa, pb := poolFor[A](v.r), poolFor[B](v.r)
	if pa.Len() <= pb.Len() {
		for i := 0; i < pa.Len(); i++ {
			e := pa.At(i)
			if !pb.Contains(e) || excludeFilter(v.r, v.excludeIDs, e) {
				continue
			}
			if !fn(e) {
				return
			}
		}
		return
	}
	for i := 0; i < pb.Len(); i++ {
		e := pb.At(i)
		if !pa.Contains(e) || excludeFilter(v.r, v.excludeIDs, e) {
			continue
		}
		if !fn(e) {
			return
		}
	}
}

// Chunked scans the driver for maximal runs of consecutive entities whose
// dense index in the other include pool is also consecutive, and whose
// members are never excluded, handing each run's length to fn along with
// the first entity of the run. A run of length 1 is valid; runs are only
// guaranteed maximal given the pools' current layout, not across future
// mutation (spec §4.6).
func (v *View2[A, B]) Chunked(fn func(first Entity, length int)) {
	pa, pb := poolFor[A](v.r), poolFor[B](v.r)
	driverPool, otherPool := pa, pb
	if pb.Len() < pa.Len() {
		driverPool, otherPool = pb, pa
	}
	n := driverPool.Len()
	i := 0
	for i < n {
		e := driverPool.At(i)
		if !otherPool.Contains(e) || excludeFilter(v.r, v.excludeIDs, e) {
			i++
			continue
		}
		start := i
		otherStart := otherPool.Index(e)
		runLen := 1
		for i+runLen < n {
			next := driverPool.At(i + runLen)
			if !otherPool.Contains(next) || excludeFilter(v.r, v.excludeIDs, next) {
				break
			}
			if otherPool.Index(next) != otherStart+runLen {
				break
			}
			runLen++
		}
		fn(driverPool.At(start), runLen)
		i += runLen
	}
}

// View3 iterates entities holding A, B and C, excluding matches.
type View3[A, B, C any] struct {
	r          *Registry
	excludeIDs []ComponentID
}

// NewView3 builds a view over (A, B, C), excluding entities that also hold
// any of excludeTypes.
func NewView3[A, B, C any](r *Registry, excludeTypes ...ComponentID) *View3[A, B, C] {
	return &View3[A, B, C]{r: r, excludeIDs: excludeTypes}
}

func (v *View3[A, B, C]) Each(fn func(e Entity, a *A, b *B, c *C)) {
	pa, pb, pc := poolFor[A](v.r), poolFor[B](v.r), poolFor[C](v.r)
	driver := 0
	min := pa.Len()
	if pb.Len() < min {
		driver, min = 1, pb.Len()
	}
	if pc.Len() < min {
		driver = 2
	}
	visit := func(e Entity) {
		if !pa.Contains(e) || !pb.Contains(e) || !pc.Contains(e) {
			return
		}
		if excludeFilter(v.r, v.excludeIDs, e) {
			return
		}
		fn(e, pa.Get(e), pb.Get(e), pc.Get(e))
	}
	switch driver {
	case 0:
		for i := 0; i < pa.Len(); i++ {
			visit(pa.At(i))
		}
	case 1:
		for i := 0; i < pb.Len(); i++ {
			visit(pb.At(i))
		}
	default:
		for i := 0; i < pc.Len(); i++ {
			visit(pc.At(i))
		}
	}
}

// Iterate visits every matching entity id only.
func (v *View3[A, B, C]) Iterate(fn func(e Entity) bool) {
	stop := false
	v.Each(func(e Entity, a *A, b *B, c *C) {
		if stop || !fn(e) {
			stop = true
		}
	})
}

// View4 iterates entities holding A, B, C and D, excluding matches.
type View4[A, B, C, D any] struct {
	r          *Registry
	excludeIDs []ComponentID
}

// NewView4 builds a view over (A, B, C, D), excluding entities that also
// hold any of excludeTypes.
func NewView4[A, B, C, D any](r *Registry, excludeTypes ...ComponentID) *View4[A, B, C, D] {
	return &View4[A, B, C, D]{r: r, excludeIDs: excludeTypes}
}

func (v *View4[A, B, C, D]) Each(fn func(e Entity, a *A, b *B, c *C, d *D)) {
	pa, pb, pc, pd := poolFor[A](v.r), poolFor[B](v.r), poolFor[C](v.r), poolFor[D](v.r)
	lens := [4]int{pa.Len(), pb.Len(), pc.Len(), pd.Len()}
	driver := 0
	for i := 1; i < 4; i++ {
		if lens[i] < lens[driver] {
			driver = i
		}
	}
	visit := func(e Entity) {
		if !pa.Contains(e) || !pb.Contains(e) || !pc.Contains(e) || !pd.Contains(e) {
			return
		}
		if excludeFilter(v.r, v.excludeIDs, e) {
			return
		}
		fn(e, pa.Get(e), pb.Get(e), pc.Get(e), pd.Get(e))
	}
	switch driver {
	case 0:
		for i := 0; i < pa.Len(); i++ {
			visit(pa.At(i))
		}
	case 1:
		for i := 0; i < pb.Len(); i++ {
			visit(pb.At(i))
		}
	case 2:
		for i := 0; i < pc.Len(); i++ {
			visit(pc.At(i))
		}
	default:
		for i := 0; i < pd.Len(); i++ {
			visit(pd.At(i))
		}
	}
}
