package cell

import (
	"github.com/tezrry/baremetal/container/mutex"
	"github.com/tezrry/baremetal/critical"
)

type slot[T any] struct {
	value   T
	present bool
}

// Shared is a token-gated, borrow-checked, optionally empty cell. It is the
// primitive to reach for when an interrupt handler and main-line code both
// need to mutate the same value:
//
//	var rx = cell.NewShared[[]byte]()
//
//	critical.Free(core, func(cs *critical.Section) {
//	    if g, ok := rx.GetMut(cs); ok {
//	        defer g.Release()
//	        g.Set(append(*g.Value(), b))
//	    }
//	})
//
// Every failure is local: Get and GetMut report false when the value is
// absent or a conflicting borrow is outstanding, and the caller decides
// whether to retry, skip or escalate.
type Shared[T any] struct {
	inner mutex.Mutex[RefCell[slot[T]]]
}

// NewShared returns an empty cell.
func NewShared[T any]() Shared[T] {
	return Shared[T]{inner: mutex.New(RefCell[slot[T]]{})}
}

// NewSharedWith returns a cell holding value.
func NewSharedWith[T any](value T) Shared[T] {
	return Shared[T]{inner: mutex.New(NewRefCell(slot[T]{value: value, present: true}))}
}

func (s *Shared[T]) cell(cs *critical.Section) *RefCell[slot[T]] {
	return s.inner.Borrow(cs)
}

// Put stores value and returns the previous contents, if any. It never fails:
// outstanding guards keep pointing at the slot and observe the new value.
func (s *Shared[T]) Put(cs *critical.Section, value T) (T, bool) {
	c := s.cell(cs)
	prev := c.value
	c.value = slot[T]{value: value, present: true}
	return prev.value, prev.present
}

// Take moves the value out and leaves the zero value of T in its place. A
// present cell stays present, so a later Get observes the zero value; an
// absent cell stays absent and Take returns the zero value. Like Put, it
// ignores outstanding guards.
func (s *Shared[T]) Take(cs *critical.Section) T {
	c := s.cell(cs)
	v := c.value.value
	var zero T
	c.value.value = zero
	return v
}

// Clear empties the cell and returns the previous contents, if any.
func (s *Shared[T]) Clear(cs *critical.Section) (T, bool) {
	c := s.cell(cs)
	prev := c.value
	c.value = slot[T]{}
	return prev.value, prev.present
}

func (s *Shared[T]) Present(cs *critical.Section) bool {
	return s.cell(cs).value.present
}

// Get borrows the value for reading. It fails when the cell is empty or a
// write guard is outstanding.
func (s *Shared[T]) Get(cs *critical.Section) (*ReadGuard[T], bool) {
	c := s.cell(cs)
	if !c.value.present {
		return nil, false
	}

	ref, ok := c.TryBorrow()
	if !ok {
		return nil, false
	}

	return &ReadGuard[T]{ref: ref}, true
}

// GetMut borrows the value for writing. It fails when the cell is empty or
// any guard is outstanding.
func (s *Shared[T]) GetMut(cs *critical.Section) (*WriteGuard[T], bool) {
	c := s.cell(cs)
	if !c.value.present {
		return nil, false
	}

	ref, ok := c.TryBorrowMut()
	if !ok {
		return nil, false
	}

	return &WriteGuard[T]{ref: ref}, true
}

// Read calls fn with the value under a read guard and reports whether the
// borrow succeeded.
func (s *Shared[T]) Read(cs *critical.Section, fn func(v *T)) bool {
	g, ok := s.Get(cs)
	if !ok {
		return false
	}
	defer g.Release()

	fn(g.Value())
	return true
}

// Modify calls fn with the value under a write guard and reports whether the
// borrow succeeded.
func (s *Shared[T]) Modify(cs *critical.Section, fn func(v *T)) bool {
	g, ok := s.GetMut(cs)
	if !ok {
		return false
	}
	defer g.Release()

	fn(g.Value())
	return true
}

type ReadGuard[T any] struct {
	ref *Ref[slot[T]]
}

// Value must not be written through.
func (g *ReadGuard[T]) Value() *T {
	return &g.ref.Value().value
}

func (g *ReadGuard[T]) Release() {
	g.ref.Release()
}

type WriteGuard[T any] struct {
	ref *RefMut[slot[T]]
}

func (g *WriteGuard[T]) Value() *T {
	return &g.ref.Value().value
}

func (g *WriteGuard[T]) Set(value T) {
	g.ref.Value().value = value
}

func (g *WriteGuard[T]) Release() {
	g.ref.Release()
}
