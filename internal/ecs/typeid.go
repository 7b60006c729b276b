package ecs

import (
	"reflect"
	"sync"
)

// ComponentID is a stable, process-wide identifier for a component type.
// Spec §6 scopes the real meta/reflection system out of the core and asks
// only that "the core needs a stable id_type per component type, obtainable
// from any collaborator" plus, optionally, a sequential dense index for an
// O(1) pool-lookup fast path. typeRegistry below is that minimal
// collaborator: it assigns sequential ids to reflect.Type values the first
// time each is seen, exactly as design note §9 recommends ("generate the id
// from a type registry that assigns sequential ids on first use").
type ComponentID uint32

var typeRegistry struct {
	mu   sync.Mutex
	ids  map[reflect.Type]ComponentID
	next ComponentID
}

func init() {
	typeRegistry.ids = make(map[reflect.Type]ComponentID)
}

// ComponentIDOf returns C's stable component id, assigning one on first use.
// Exported for callers building exclude lists or a RuntimeView's include
// list out of ordinary Go types rather than already-known ids.
func ComponentIDOf[C any]() ComponentID {
	return componentID[C]()
}

// componentID returns the stable id for component type C, assigning one on
// first use. Ids are assigned densely and sequentially; the registry looks
// its pool records up by id in a map.
func componentID[C any]() ComponentID {
	var zero C
	t := reflect.TypeOf(zero)
	typeRegistry.mu.Lock()
	defer typeRegistry.mu.Unlock()
	if id, ok := typeRegistry.ids[t]; ok {
		return id
	}
	id := typeRegistry.next
	typeRegistry.ids[t] = id
	typeRegistry.next++
	return id
}
