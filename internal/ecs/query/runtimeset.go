package query

import (
	roaring "github.com/RoaringBitmap/roaring/v2"
)

// EntitySet is a compressed, sorted set of entity ids backed by
// RoaringBitmap. The fixed-arity Views in package ecs get their
// include/exclude lists at compile time through generic type parameters;
// a RuntimeView instead takes a caller-built list of component ids decided
// at runtime (e.g. from a data-driven prefab definition), so it needs an
// actual set data structure to intersect pool memberships into rather than
// a handful of named generic type slots. Roaring's run-length compression
// keeps that intersection cheap even when entity ids are dense runs, which
// is the common case right after a bulk spawn.
type EntitySet struct {
	bm *roaring.Bitmap
}

// NewEntitySet returns an empty set.
func NewEntitySet() *EntitySet {
	return &EntitySet{bm: roaring.New()}
}

// EntitySetFromSlice builds a set from a dense array of uint32 entity ids,
// e.g. a storage.SparseSet's Dense() output.
func EntitySetFromSlice(ids []uint32) *EntitySet {
	return &EntitySet{bm: roaring.BitmapOf(ids...)}
}

// Add inserts id into the set.
func (s *EntitySet) Add(id uint32) { s.bm.Add(id) }

// Remove deletes id from the set, if present.
func (s *EntitySet) Remove(id uint32) { s.bm.Remove(id) }

// Contains reports whether id is in the set.
func (s *EntitySet) Contains(id uint32) bool { return s.bm.Contains(id) }

// Len reports the number of entities in the set.
func (s *EntitySet) Len() int { return int(s.bm.GetCardinality()) }

// IntersectWith returns a new set holding only ids present in both s and
// other, leaving both inputs unmodified. A RuntimeView narrows its
// candidate set down one component pool at a time with this.
func (s *EntitySet) IntersectWith(other *EntitySet) *EntitySet {
	return &EntitySet{bm: roaring.And(s.bm, other.bm)}
}

// Difference returns a new set holding ids present in s but not other — the
// exclude-list half of a RuntimeView's predicate.
func (s *EntitySet) Difference(other *EntitySet) *EntitySet {
	return &EntitySet{bm: roaring.AndNot(s.bm, other.bm)}
}

// ToSlice returns every entity id in the set, ascending.
func (s *EntitySet) ToSlice() []uint32 {
	return s.bm.ToArray()
}

// Each visits every entity id in ascending order, stopping early if fn
// returns false.
func (s *EntitySet) Each(fn func(id uint32) bool) {
	it := s.bm.Iterator()
	for it.HasNext() {
		if !fn(it.Next()) {
			return
		}
	}
}
