//go:build ecsdebug

package storage

import "fmt"

// Debug-assertion policy (spec §7): misuse panics when the ecsdebug build
// tag is set, and is silent undefined behavior otherwise. Keeping the same
// contract in both builds preserves the hot-path performance rationale the
// design notes call out — recoverable-error returns on every access would
// erase it.

func assertContains(s *SparseSet, e Entity, op string) {
	if !s.Contains(e) {
		panic(fmt.Sprintf("storage: %s on entity %d not contained in set", op, e))
	}
}

func assertNotContains(s *SparseSet, e Entity, op string) {
	if s.Contains(e) {
		panic(fmt.Sprintf("storage: %s on entity %d already contained in set", op, e))
	}
}
