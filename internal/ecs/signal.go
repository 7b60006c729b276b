package ecs

import "reflect"

// Listener is a delegate: a function plus, implicitly via the payload
// passed alongside it at connect time, the "instance" it is bound to. It
// returns any so the same shape serves both fire-and-forget listeners
// (Publish ignores the result) and Collect's early-exit listeners; void
// listeners should return nil.
type Listener[Args any] func(Args) any

// VoidListener adapts a listener with no return value to the Listener
// shape Signal expects.
func VoidListener[Args any](fn func(Args)) Listener[Args] {
	return func(a Args) any {
		fn(a)
		return nil
	}
}

type connection[Args any] struct {
	fn      Listener[Args]
	payload any
	fnPtr   uintptr
}

// Delegate equality is (function pointer, payload), per spec §4.4 and the
// design notes' "delegate as function pointer + payload" strategy. Two
// closures created from the same literal share a function pointer in Go's
// reflection, so the payload is what actually distinguishes "the same
// listener bound to a different instance" from "the same listener bound to
// the same instance" — callers that want per-instance idempotent connect
// must pass a stable payload (typically the receiver) alongside the
// closure. See Sink.indexOf below for the actual lookup.

// Signal holds an ordered list of delegates and publishes to them in
// connection order. The zero value is ready to use.
type Signal[Args any] struct {
	listeners []connection[Args]
}

// Publish invokes every connected listener in order, ignoring return
// values. Per the design notes, publish iterates by index over a vector
// callers must not structurally mutate re-entrantly (i.e. a listener must
// not Connect/Disconnect on this same signal while Publish is running);
// doing so is undefined behavior, not a recoverable error.
func (s *Signal[Args]) Publish(args Args) {
	n := len(s.listeners)
	for i := 0; i < n && i < len(s.listeners); i++ {
		s.listeners[i].fn(args)
	}
}

// Collect invokes every connected listener in order, feeding each non-nil
// return value to fn and stopping as soon as fn returns true.
func (s *Signal[Args]) Collect(fn func(result any) bool, args Args) {
	for _, c := range s.listeners {
		result := c.fn(args)
		if result == nil {
			continue
		}
		if fn != nil && fn(result) {
			return
		}
	}
}

// Sink returns a write handle over this signal.
func (s *Signal[Args]) Sink() Sink[Args] {
	return Sink[Args]{signal: s}
}

// Len reports the number of currently connected listeners.
func (s *Signal[Args]) Len() int { return len(s.listeners) }

// Sink is a thin handle over a Signal's listener list. before, when set,
// names a (fn, payload) pair; the next Connect through this sink inserts
// immediately ahead of that listener instead of appending.
type Sink[Args any] struct {
	signal        *Signal[Args]
	beforeFn      Listener[Args]
	beforePayload any
	hasBefore     bool
}

func (sk Sink[Args]) indexOf(fn Listener[Args], payload any) int {
	ptr := reflect.ValueOf(fn).Pointer()
	for i, c := range sk.signal.listeners {
		if c.fnPtr == ptr && c.payload == payload {
			return i
		}
	}
	return -1
}

// Connect adds fn (bound to payload) to the signal. Idempotent: an
// existing listener identical in (function, payload) is removed first, so
// connecting the same listener twice leaves exactly one connection in
// place, just moved to the new position.
func (sk Sink[Args]) Connect(fn Listener[Args], payload any) {
	if i := sk.indexOf(fn, payload); i >= 0 {
		sk.signal.listeners = append(sk.signal.listeners[:i], sk.signal.listeners[i+1:]...)
	}
	c := connection[Args]{fn: fn, payload: payload, fnPtr: reflect.ValueOf(fn).Pointer()}
	if sk.hasBefore {
		if i := sk.indexOf(sk.beforeFn, sk.beforePayload); i >= 0 {
			listeners := sk.signal.listeners
			listeners = append(listeners, connection[Args]{})
			copy(listeners[i+1:], listeners[i:])
			listeners[i] = c
			sk.signal.listeners = listeners
			return
		}
	}
	sk.signal.listeners = append(sk.signal.listeners, c)
}

// Disconnect removes the listener identical in (function, payload), if any.
func (sk Sink[Args]) Disconnect(fn Listener[Args], payload any) {
	if i := sk.indexOf(fn, payload); i >= 0 {
		sk.signal.listeners = append(sk.signal.listeners[:i], sk.signal.listeners[i+1:]...)
	}
}

// DisconnectPayload removes every listener bound to payload, regardless of
// which function they wrap.
func (sk Sink[Args]) DisconnectPayload(payload any) {
	kept := sk.signal.listeners[:0]
	for _, c := range sk.signal.listeners {
		if c.payload != payload {
			kept = append(kept, c)
		}
	}
	sk.signal.listeners = kept
}

// DisconnectAll clears every connection.
func (sk Sink[Args]) DisconnectAll() {
	sk.signal.listeners = nil
}

// Before returns a sink whose next Connect call inserts ahead of the
// listener identical in (fn, payload), instead of appending.
func (sk Sink[Args]) Before(fn Listener[Args], payload any) Sink[Args] {
	return Sink[Args]{signal: sk.signal, beforeFn: fn, beforePayload: payload, hasBefore: true}
}
