// Package cell layers runtime borrow tracking on top of the token-gated
// mutex.
//
// A token proves interrupts are masked, but tokens can be copied and nested,
// so two pieces of code may each hold one and both believe they have
// exclusive access. RefCell counts outstanding borrows to catch exactly that:
// a conflicting borrow is refused with a false result instead of aliasing a
// mutable pointer.
package cell

import "sync/atomic"

const (
	unused  int32 = 0
	writing int32 = -1
)

type noCopy struct{}

func (*noCopy) Lock()   {}
func (*noCopy) Unlock() {}

// RefCell holds a value plus a borrow counter: 0 means unused, n > 0 means n
// readers, -1 means one writer.
type RefCell[T any] struct {
	_      noCopy
	borrow atomic.Int32
	value  T
}

func NewRefCell[T any](value T) RefCell[T] {
	return RefCell[T]{value: value}
}

// TryBorrow registers a reader. It fails while a writer is outstanding.
func (c *RefCell[T]) TryBorrow() (*Ref[T], bool) {
	for {
		n := c.borrow.Load()
		if n < unused {
			return nil, false
		}

		if c.borrow.CompareAndSwap(n, n+1) {
			return &Ref[T]{cell: c}, true
		}
	}
}

// TryBorrowMut registers the single writer. It fails while any borrow is
// outstanding.
func (c *RefCell[T]) TryBorrowMut() (*RefMut[T], bool) {
	if !c.borrow.CompareAndSwap(unused, writing) {
		return nil, false
	}

	return &RefMut[T]{cell: c}, true
}

// Get bypasses the counter. The caller must hold the only reference to c.
func (c *RefCell[T]) Get() *T {
	return &c.value
}

// Readers returns the number of outstanding read borrows.
func (c *RefCell[T]) Readers() int {
	n := c.borrow.Load()
	if n < unused {
		return 0
	}
	return int(n)
}

// Writing reports whether a write borrow is outstanding.
func (c *RefCell[T]) Writing() bool {
	return c.borrow.Load() == writing
}

func (c *RefCell[T]) IntoInner() T {
	v := c.value
	var zero T
	c.value = zero
	return v
}

// Ref is an outstanding read borrow.
type Ref[T any] struct {
	cell     *RefCell[T]
	released bool
}

// Value must not be written through.
func (r *Ref[T]) Value() *T {
	return &r.cell.value
}

func (r *Ref[T]) Release() {
	if r.released {
		return
	}
	r.released = true
	r.cell.borrow.Add(-1)
}

// RefMut is the outstanding write borrow.
type RefMut[T any] struct {
	cell     *RefCell[T]
	released bool
}

func (r *RefMut[T]) Value() *T {
	return &r.cell.value
}

func (r *RefMut[T]) Release() {
	if r.released {
		return
	}
	r.released = true
	r.cell.borrow.Store(unused)
}
