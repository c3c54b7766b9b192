// Package singleton hands out statically allocated resources, such as the
// one UART of a chip, to exactly one owner.
//
// Each Singleton is a two-state machine, AVAILABLE then TAKEN, with no way
// back. Take is the checked path and succeeds at most once no matter how
// many contexts race on it. Steal and Conjure are unchecked escape hatches
// for code that knows better than the state machine:
//
//   - Steal marks the resource TAKEN without looking and returns it. It is
//     meant for reset handlers and similar code that runs before anyone
//     could have called Take.
//   - Conjure returns the resource without touching the state at all, for
//     diagnostic or privileged code.
//
// Both can produce a second owner next to one obtained through Take. That
// aliasing is the caller's responsibility.
package singleton

import "sync/atomic"

type Singleton[T any] struct {
	taken   atomic.Bool
	conjure func() T
}

// New returns an AVAILABLE singleton. conjure builds the owner value and is
// called once per successful Take, Steal or Conjure.
func New[T any](conjure func() T) *Singleton[T] {
	if conjure == nil {
		panic("singleton: New requires a conjure function")
	}

	return &Singleton[T]{conjure: conjure}
}

// Take transfers ownership on the AVAILABLE to TAKEN transition. Every later
// call reports false.
func (s *Singleton[T]) Take() (T, bool) {
	if !s.taken.CompareAndSwap(false, true) {
		var zero T
		return zero, false
	}

	return s.conjure(), true
}

// Steal unconditionally marks s TAKEN and returns the resource. The caller
// guarantees that nothing has taken it before.
func (s *Singleton[T]) Steal() T {
	s.taken.Store(true)
	return s.conjure()
}

// Conjure returns the resource and leaves the state alone.
func (s *Singleton[T]) Conjure() T {
	return s.conjure()
}

// Taken reports whether the resource has left the AVAILABLE state.
func (s *Singleton[T]) Taken() bool {
	return s.taken.Load()
}
