package entitytraits

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestWidth32RoundTrip(t *testing.T) {
	tr := Width32
	e := tr.Compose(42, 7)
	require.Equal(t, uint32(42), tr.Index(e))
	require.Equal(t, uint32(7), tr.Version(e))
}

func TestWidth32Null(t *testing.T) {
	tr := Width32
	require.True(t, tr.IsNull(tr.Null()))

	// Any version bits alongside the reserved index still compare as null.
	withVersion := tr.Compose(tr.Null(), 99)
	require.True(t, tr.IsNull(withVersion))

	require.False(t, tr.IsNull(tr.Compose(0, 0)))
}

func TestWidth32VersionWraps(t *testing.T) {
	tr := Width32
	max := (uint32(1) << 12) - 1
	require.Equal(t, uint32(0), tr.NextVersion(max))
}

func TestWidth16(t *testing.T) {
	tr := Width16
	e := tr.Compose(100, 3)
	require.Equal(t, uint16(100), tr.Index(e))
	require.Equal(t, uint16(3), tr.Version(e))
}

func TestWidth64(t *testing.T) {
	tr := Width64
	e := tr.Compose(123456789, 42)
	require.Equal(t, uint64(123456789), tr.Index(e))
	require.Equal(t, uint64(42), tr.Version(e))
}

func TestCustomSplitPanicsOnOverflow(t *testing.T) {
	require.Panics(t, func() {
		New[uint16](12, 8) // 20 bits requested on a 16-bit type
	})
}
