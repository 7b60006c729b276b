package ecs

import "sparseecs/internal/ecs/entitytraits"

// Entity is the packed index+version identifier every registry operation
// is keyed on. The registry commits to the 32-bit, 20-index/12-version
// split at compile time — see DESIGN.md's "Open Question decisions" for
// why the rest of the machinery (pools, views, groups, observers) is not
// re-templated over entity width the way entitytraits itself is. Callers
// who need a different width can still build their own Traits[E] via the
// entitytraits package; only the Registry type is fixed to Entity.
type Entity = uint32

var traits = entitytraits.Width32

// Null is the reserved sentinel entity, compares equal (via IsNull) to any
// entity whose index bits equal the reserved all-ones value.
var Null Entity = traits.Null()

// IsNull reports whether e is the null sentinel. Prefer this over e == Null
// since a null entity's version bits are not required to be zero.
func IsNull(e Entity) bool { return traits.IsNull(e) }

// Index returns e's low-bits index.
func Index(e Entity) Entity { return traits.Index(e) }

// Version returns e's high-bits version.
func Version(e Entity) Entity { return traits.Version(e) }

// Compose packs an index and version into a single entity identifier.
func Compose(index, version Entity) Entity { return traits.Compose(index, version) }

// ToIntegral returns e's raw underlying integer value.
func ToIntegral(e Entity) Entity { return e }
