// Package entitytraits implements the packed index+version layout shared by
// every entity identifier width the core supports. It mirrors the way the
// donor game's internal/core/ecs package documents its packed types (see
// EntityID in internal/core/ecs/types.go) but generalizes the split between
// index bits and version bits instead of hard-coding a single width.
package entitytraits

import "golang.org/x/exp/constraints"

// Unsigned is the set of integer widths the core accepts as an entity
// identifier. Three standard widths are supported: 16, 32 and 64 bits.
type Unsigned interface {
	constraints.Unsigned
}

// Traits describes how an entity identifier of type E is partitioned into a
// low-bits index and a high-bits version. The all-ones index value is
// reserved as the null sentinel for every width.
type Traits[E Unsigned] struct {
	indexBits   uint
	versionBits uint
	indexMask   E
	versionMask E
}

// New builds a Traits value for the given index/version bit split. The sum
// of indexBits and versionBits must not exceed the bit width of E; New
// panics otherwise, since a bad split is a programming error, not a runtime
// condition callers can recover from.
func New[E Unsigned](indexBits, versionBits uint) Traits[E] {
	var zero E
	width := bitsOf(zero)
	if indexBits+versionBits > width {
		panic("entitytraits: index+version bits exceed entity width")
	}
	return Traits[E]{
		indexBits:   indexBits,
		versionBits: versionBits,
		indexMask:   mask[E](indexBits),
		versionMask: mask[E](versionBits),
	}
}

// Standard traits for the three widths named in the spec: 16-bit entities
// use a 12/4 split, 32-bit entities a 20/12 split (the default used
// throughout the registry), and 64-bit entities a 32/32 split.
var (
	Width16 = New[uint16](12, 4)
	Width32 = New[uint32](20, 12)
	Width64 = New[uint64](32, 32)
)

func bitsOf[E Unsigned](E) uint {
	var v E
	switch any(v).(type) {
	case uint16:
		return 16
	case uint32:
		return 32
	case uint64:
		return 64
	case uint:
		return 64
	default:
		return 64
	}
}

func mask[E Unsigned](bits uint) E {
	if bits == 0 {
		return 0
	}
	return E((uint64(1) << bits) - 1)
}

// Index returns the low-bits index portion of e.
func (t Traits[E]) Index(e E) E {
	return e & t.indexMask
}

// Version returns the high-bits version portion of e.
func (t Traits[E]) Version(e E) E {
	return (e >> t.indexBits) & t.versionMask
}

// Compose packs an index and a version into a single entity identifier.
// Both arguments are masked to their respective bit widths first, so an
// out-of-range version wraps rather than corrupting the index bits.
func (t Traits[E]) Compose(index, version E) E {
	return (index & t.indexMask) | ((version & t.versionMask) << t.indexBits)
}

// Null is the reserved all-ones-index sentinel for this width. A null
// compares equal to any entity whose index bits equal the reserved value,
// regardless of its version — use IsNull rather than ==.
func (t Traits[E]) Null() E {
	return t.indexMask
}

// IsNull reports whether e's index bits equal the reserved null index.
func (t Traits[E]) IsNull(e E) bool {
	return t.Index(e) == t.indexMask
}

// NextVersion returns the version that follows v, wrapping modulo
// 2^versionBits, per the "version == previous_version + 1 (mod 2^bits)"
// invariant.
func (t Traits[E]) NextVersion(v E) E {
	return (v + 1) & t.versionMask
}

// ToIntegral returns e's raw underlying integer value.
func (t Traits[E]) ToIntegral(e E) E {
	return e
}
