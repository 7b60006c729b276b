package storage

// Pool refines a SparseSet by keeping a parallel packed array of component
// values in the same order as the dense entity array. It is generic over
// the component value type C; when C is a zero-size struct the Go compiler
// already collapses the backing slice to a handful of bytes, so there is no
// separate empty-component code path the way the spec calls for in C++ —
// the general-purpose Pool degrades to "sparse set plus a free slice of
// zero-size structs" on its own, which is the same "operations reduce to
// the underlying sparse-set operations" outcome the spec asks for.
type Pool[C any] struct {
	set    *SparseSet
	values []C
}

// NewPool returns an empty pool for component type C.
func NewPool[C any]() *Pool[C] {
	return &Pool[C]{set: NewSparseSet()}
}

// Set exposes the underlying sparse set, e.g. for group/observer machinery
// that only needs entity membership, not component values.
func (p *Pool[C]) Set() *SparseSet { return p.set }

func (p *Pool[C]) Len() int                { return p.set.Len() }
func (p *Pool[C]) Contains(e Entity) bool  { return p.set.Contains(e) }
func (p *Pool[C]) Index(e Entity) int      { return p.set.Index(e) }
func (p *Pool[C]) At(i int) Entity         { return p.set.At(i) }
func (p *Pool[C]) Dense() []Entity         { return p.set.Dense() }
func (p *Pool[C]) Values() []C             { return p.values }

// Emplace constructs the component in place and only appends the entity
// afterwards, so that a panicking construction leaves the pool in its prior
// state (spec §4.3/§7). value is the already-constructed component; Go has
// no placement-new to interleave with the append, so "construct before
// append" here means: build the value in full (including any panicking
// user code that produced it) before this call, then this call only ever
// performs the two non-panicking appends below.
func (p *Pool[C]) Emplace(e Entity, value C) {
	assertNotContains(p.set, e, "Emplace")
	p.values = append(p.values, value)
	p.set.Emplace(e)
}

// Get returns a pointer to e's component for in-place mutation. Undefined
// if e is not contained.
func (p *Pool[C]) Get(e Entity) *C {
	return &p.values[p.set.Index(e)]
}

// TryGet returns a pointer to e's component, or nil if e is absent.
func (p *Pool[C]) TryGet(e Entity) *C {
	if !p.set.Contains(e) {
		return nil
	}
	return p.Get(e)
}

// Patch applies every fn to the in-place component. The caller is
// responsible for raising the on_update signal afterwards; Pool itself has
// no signal of its own (that lives on the registry, which owns every
// pool's lifecycle).
func (p *Pool[C]) Patch(e Entity, fns ...func(*C)) {
	v := p.Get(e)
	for _, fn := range fns {
		fn(v)
	}
}

// Erase moves the last component into e's slot, pops it, then sparse-erases
// e. Debug-asserts e is contained.
func (p *Pool[C]) Erase(e Entity) {
	assertContains(p.set, e, "Erase")
	p.set.Erase(e, func(i, j int) {
		p.values[i] = p.values[j]
	})
	p.values = p.values[:len(p.values)-1]
}

// InsertValue bulk-inserts es, all sharing the single value v.
func (p *Pool[C]) InsertValue(v C, es ...Entity) {
	for _, e := range es {
		p.Emplace(e, v)
	}
}

// InsertFrom bulk-inserts es, one parallel value per entity. len(es) and
// len(values) must match.
func (p *Pool[C]) InsertFrom(es []Entity, values []C) {
	for i, e := range es {
		p.Emplace(e, values[i])
	}
}

// Clear empties both the dense entity array and the parallel value array.
func (p *Pool[C]) Clear() {
	p.set.Clear(nil)
	p.values = p.values[:0]
}

// Swap exchanges the dense positions of two contained entities, keeping the
// parallel value array aligned.
func (p *Pool[C]) Swap(a, b Entity) {
	p.set.Swap(a, b, func(i, j int) {
		p.values[i], p.values[j] = p.values[j], p.values[i]
	})
}

// SwapAt exchanges the values/entities at two dense positions directly.
func (p *Pool[C]) SwapAt(i, j int) {
	p.set.SwapAt(i, j, func(i, j int) {
		p.values[i], p.values[j] = p.values[j], p.values[i]
	})
}

// Sort reorders both the dense entity array and the parallel value array
// together using less to compare entities.
func (p *Pool[C]) Sort(less func(a, b Entity) bool) {
	p.set.Sort(less, func(i, j int) {
		p.values[i], p.values[j] = p.values[j], p.values[i]
	})
}

// SortByValue reorders both arrays using less to compare component values
// rather than entities.
func (p *Pool[C]) SortByValue(less func(a, b C) bool) {
	p.set.Sort(func(a, b Entity) bool {
		return less(p.values[p.set.Index(a)], p.values[p.set.Index(b)])
	}, func(i, j int) {
		p.values[i], p.values[j] = p.values[j], p.values[i]
	})
}
