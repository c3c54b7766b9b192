// Package mutex provides a cell whose contents are reachable only through a
// critical-section token.
//
// Mutex adds no runtime check at all. Borrow hands out a pointer to the
// payload for anyone presenting a *critical.Section, so soundness rests on
// how tokens are minted and on the pointer not outliving the section.
//
// Any payload shared this way must itself be safe to hand from main-line code
// to an interrupt handler and back: a Mutex can move a value between contexts
// the same way a channel would.
package mutex

import "github.com/tezrry/baremetal/critical"

type noCopy struct{}

func (*noCopy) Lock()   {}
func (*noCopy) Unlock() {}

// Mutex is meant to be declared as package-level state:
//
//	var ticks = mutex.New(uint32(0))
type Mutex[T any] struct {
	_     noCopy
	inner T
}

func New[T any](value T) Mutex[T] {
	return Mutex[T]{inner: value}
}

// Borrow returns the payload for the duration of the critical section cs.
// Mutation through the pointer is only sound if T provides its own interior
// synchronization or no other context can hold a borrow at the same time.
func (m *Mutex[T]) Borrow(cs *critical.Section) *T {
	return &m.inner
}

// GetMut returns the payload without a token. The caller must hold the only
// reference to m, e.g. during init before any interrupt is enabled.
func (m *Mutex[T]) GetMut() *T {
	return &m.inner
}

// IntoInner moves the payload out and leaves the zero value behind. m must
// not be borrowed or used afterwards.
func (m *Mutex[T]) IntoInner() T {
	v := m.inner
	var zero T
	m.inner = zero
	return v
}
