//go:build !ecsdebug

package storage

// Release builds skip the containment check entirely: misuse is undefined
// behavior per spec §7, not a recoverable error.

func assertContains(*SparseSet, Entity, string)    {}
func assertNotContains(*SparseSet, Entity, string) {}
