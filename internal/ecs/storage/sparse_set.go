// Package storage implements the sparse-set-backed component pool that
// underlies every pool the registry owns. It follows the same shape as the
// donor game's internal/core/ecs/storage package (SparseSet + ComponentStore)
// but replaces the map-backed sparse array with the paged array the spec
// requires, and keeps the parallel component array in Pool (pool.go), next
// to the set, instead of a side map keyed by entity.
package storage

import (
	"go.uber.org/zap"

	"sparseecs/internal/ecs/entitytraits"
	"sparseecs/internal/ecslog"
)

// respectWarnThreshold is the len(other) past which Respect logs a warning:
// the primitive is O(len(other)) swaps, so a caller driving it once per
// insertion on a large set turns that into O(n^2) overall (see Respect's
// doc comment).
const respectWarnThreshold = 100_000

// Entity is the packed index+version identifier the storage layer indexes
// by. The registry package aliases this type so callers never see the
// storage package directly.
type Entity = uint32

var traits = entitytraits.Width32

// PageSize is the length of each sparse page, a power of two as required by
// the spec. 4096 matches the page size EnTT itself defaults to for 32-bit
// entities: small enough that a handful of live entities only touches one
// or two pages, large enough that dense iteration rarely crosses a page
// boundary.
const PageSize = 4096

// Null is the reserved sentinel entity: an index of all-ones, any version.
var Null = traits.Null()

// IsNull reports whether e is the null sentinel, regardless of version.
func IsNull(e Entity) bool {
	return traits.IsNull(e)
}

func page(e Entity) uint32    { return traits.Index(e) / PageSize }
func offset(e Entity) uint32  { return traits.Index(e) % PageSize }
func pageCount(n uint32) uint32 {
	if n == 0 {
		return 0
	}
	return (n-1)/PageSize + 1
}

// SparseSet maps entities to a dense, contiguous position via a paged
// sparse array. It is the structure every pool (empty or not) is built on.
//
// Invariants (spec §4.2): for every stored entity e,
// sparse[page(e)][offset(e)] holds a dense index i with dense[i] == e; for
// every i in [0, size), the reverse holds. Pages are allocated lazily and
// never freed before the set itself is discarded.
type SparseSet struct {
	sparse []*[PageSize]Entity
	dense  []Entity
}

// NewSparseSet returns an empty sparse set.
func NewSparseSet() *SparseSet {
	return &SparseSet{}
}

// Len returns the number of entities currently stored.
func (s *SparseSet) Len() int { return len(s.dense) }

// Contains reports whether e is stored. A missing page and a null slot both
// count as absent.
func (s *SparseSet) Contains(e Entity) bool {
	p := page(e)
	if int(p) >= len(s.sparse) || s.sparse[p] == nil {
		return false
	}
	idx := s.sparse[p][offset(e)]
	return !IsNull(idx) && int(idx) < len(s.dense) && s.dense[idx] == e
}

// Index returns the dense position of e. Callers must check Contains first;
// calling Index for an entity not in the set is undefined behavior (the
// debug build panics via assertContains).
func (s *SparseSet) Index(e Entity) int {
	assertContains(s, e, "Index")
	return int(s.sparse[page(e)][offset(e)])
}

func (s *SparseSet) ensurePage(p uint32) *[PageSize]Entity {
	for uint32(len(s.sparse)) <= p {
		s.sparse = append(s.sparse, nil)
	}
	if s.sparse[p] == nil {
		pg := new([PageSize]Entity)
		for i := range pg {
			pg[i] = Null
		}
		s.sparse[p] = pg
	}
	return s.sparse[p]
}

// Emplace appends e to the dense array. Debug-asserts e is not already
// contained.
func (s *SparseSet) Emplace(e Entity) {
	assertNotContains(s, e, "Emplace")
	s.emplace(e)
}

func (s *SparseSet) emplace(e Entity) {
	pg := s.ensurePage(page(e))
	pg[offset(e)] = Entity(len(s.dense))
	s.dense = append(s.dense, e)
}

// Insert bulk-appends every entity in es, in order.
func (s *SparseSet) Insert(es ...Entity) {
	for _, e := range es {
		s.Emplace(e)
	}
}

// Erase removes e via swap-and-pop: the last dense element takes e's slot,
// its sparse back-pointer is fixed, and e's own sparse slot is nulled.
// Debug-asserts e is contained. swap is invoked once for the pair of dense
// positions being exchanged (index(e), last), before the pop, so derived
// pools can mirror the move on their parallel arrays; swap is not invoked
// at all when e is already the last element.
func (s *SparseSet) Erase(e Entity, onSwap func(a, b int)) {
	assertContains(s, e, "Erase")
	last := len(s.dense) - 1
	idx := int(s.sparse[page(e)][offset(e)])
	if idx != last {
		if onSwap != nil {
			onSwap(idx, last)
		}
		moved := s.dense[last]
		s.dense[idx] = moved
		s.sparse[page(moved)][offset(moved)] = Entity(idx)
	}
	s.dense = s.dense[:last]
	s.sparse[page(e)][offset(e)] = Null
}

// Swap exchanges the dense positions of two contained entities, fixing up
// both sparse back-pointers. onSwap, if non-nil, is invoked first with the
// two dense indices so a derived pool can mirror the move on its parallel
// component array.
func (s *SparseSet) Swap(a, b Entity, onSwap func(ia, ib int)) {
	assertContains(s, a, "Swap")
	assertContains(s, b, "Swap")
	ia := int(s.sparse[page(a)][offset(a)])
	ib := int(s.sparse[page(b)][offset(b)])
	if ia == ib {
		return
	}
	if onSwap != nil {
		onSwap(ia, ib)
	}
	s.dense[ia], s.dense[ib] = s.dense[ib], s.dense[ia]
	s.sparse[page(a)][offset(a)] = Entity(ib)
	s.sparse[page(b)][offset(b)] = Entity(ia)
}

// SwapAt exchanges the dense elements at two positions directly, without
// looking the entities up first. Used by group maintenance, which already
// knows the positions it wants to exchange.
func (s *SparseSet) SwapAt(ia, ib int, onSwap func(ia, ib int)) {
	if ia == ib {
		return
	}
	if onSwap != nil {
		onSwap(ia, ib)
	}
	ea, eb := s.dense[ia], s.dense[ib]
	s.dense[ia], s.dense[ib] = s.dense[ib], s.dense[ia]
	s.sparse[page(ea)][offset(ea)] = Entity(ib)
	s.sparse[page(eb)][offset(eb)] = Entity(ia)
}

// At returns the entity stored at dense position i.
func (s *SparseSet) At(i int) Entity { return s.dense[i] }

// Dense exposes the backing dense array directly; callers must not retain
// it across a structural mutation.
func (s *SparseSet) Dense() []Entity { return s.dense }

// Clear empties the dense array. Sparse pages are left allocated, matching
// the spec's "pages... never freed before the set is destroyed".
func (s *SparseSet) Clear(onClear func(e Entity)) {
	if onClear != nil {
		for _, e := range s.dense {
			onClear(e)
		}
	}
	for _, e := range s.dense {
		s.sparse[page(e)][offset(e)] = Null
	}
	s.dense = s.dense[:0]
}

// Respect reorders this set so that entities also present in other appear
// in the same relative order as in other; entities absent from other trail
// in unspecified order. This is the quadratic-worst-case primitive the
// design notes flag: it is O(len(other)) swaps, each one an O(1) dense
// swap, but a pathological caller that calls it once per insertion turns
// that into O(n^2) overall. Callers driving many small updates should batch
// them and call Respect once.
func (s *SparseSet) Respect(other *SparseSet, onSwap func(a, b int)) {
	if other.Len() > respectWarnThreshold {
		ecslog.Warn("Respect called on a pathologically large set",
			zap.Int("other_len", other.Len()))
	}
	pos := 0
	for i := 0; i < other.Len(); i++ {
		e := other.At(i)
		if !s.Contains(e) {
			continue
		}
		cur := s.Index(e)
		if cur != pos {
			s.SwapAt(pos, cur, onSwap)
		}
		pos++
	}
}

// Sort reorders the dense array in-place using less to compare entities,
// invoking apply(i, j), if non-nil, for every pairwise position swap
// performed so a derived pool can mirror the move on its own parallel
// arrays. The sort itself is always insertionSort below, driven over the
// dense positions [0,n).
func (s *SparseSet) Sort(less func(a, b Entity) bool, apply func(i, j int)) {
	n := len(s.dense)
	insertionSort(n, func(i, j int) bool {
		return less(s.dense[i], s.dense[j])
	}, func(i, j int) {
		if apply != nil {
			apply(i, j)
		}
		s.dense[i], s.dense[j] = s.dense[j], s.dense[i]
		s.sparse[page(s.dense[i])][offset(s.dense[i])] = Entity(i)
		s.sparse[page(s.dense[j])][offset(s.dense[j])] = Entity(j)
	})
}

// insertionSort is a simple O(n^2) stable sort expressed purely in terms of
// less/swap callbacks, so Sort can drive both the sparse set's own dense
// array and (via Pool.Sort) a parallel component array through the same
// pairwise-swap hook. Component pools in a real deployment are small enough
// (owning-group lengths, not whole-world scans) that the simplicity is
// worth more than an O(n log n) algorithm would buy; callers sorting large
// unrelated ranges should pre-sort with a different tool and feed the
// result through Respect instead.
func insertionSort(n int, less func(i, j int) bool, swap func(i, j int)) {
	for i := 1; i < n; i++ {
		for j := i; j > 0 && less(j, j-1); j-- {
			swap(j, j-1)
		}
	}
}
