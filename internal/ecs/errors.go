package ecs

import (
	"fmt"
	"time"
)

// Error represents the recoverable half of the core's error taxonomy
// (spec §7): group topology violations, malformed views, oversized
// observers and sorting an owned pool. Everything else in that table is
// debug-assertion-and-undefined-behavior territory and never reaches here
// — see the ecsdebug build tag in package storage.
type Error struct {
	Code      string    `json:"code"`
	Message   string    `json:"message"`
	Timestamp time.Time `json:"timestamp"`
}

func (e *Error) Error() string {
	return fmt.Sprintf("[%s] %s", e.Code, e.Message)
}

func newError(code, format string, args ...any) *Error {
	return &Error{Code: code, Message: fmt.Sprintf(format, args...), Timestamp: time.Now()}
}

// Recoverable error codes. Each corresponds to a row of spec §7's table
// whose surface is "the creation is refused" or "compile-time / build-time
// static check" rather than plain UB.
const (
	ErrGroupTopologyViolation  = "GROUP_TOPOLOGY_VIOLATION"
	ErrEmptyViewInclude        = "EMPTY_VIEW_INCLUDE"
	ErrObserverTooManyMatchers = "OBSERVER_TOO_MANY_MATCHERS"
	ErrPoolNotSortable         = "POOL_NOT_SORTABLE"
)

// maxObserverMatchers is the width of the per-entity bitset an Observer
// maintains; spec §4.8 fixes it at 32 and makes more than 31 matchers a
// build-time error. Go has no template-time equivalent, so it surfaces as
// a constructor-time *Error instead.
const maxObserverMatchers = 31
