// Package peripheral provides typed handles to memory-mapped register blocks.
package peripheral

import (
	"unsafe"

	"github.com/tezrry/baremetal/critical"
)

// Peripheral is the register block of layout T at a fixed address. It is
// usually declared once per device:
//
//	var UART0 = peripheral.NewUnchecked[UARTBlock](0x4000_c000)
type Peripheral[T any] struct {
	address uintptr
}

// NewUnchecked returns a handle for the register block at address. The
// caller guarantees that address is the live, mapped base of a block whose
// layout is T; nothing is checked.
func NewUnchecked[T any](address uintptr) Peripheral[T] {
	return Peripheral[T]{address: address}
}

// Borrow returns the register block for the duration of the critical
// section cs.
func (p Peripheral[T]) Borrow(cs *critical.Section) *T {
	return p.Ptr()
}

// Ptr returns the raw pointer to the register block for drivers that need
// access patterns Borrow does not cover.
func (p Peripheral[T]) Ptr() *T {
	return (*T)(unsafe.Pointer(p.address))
}

func (p Peripheral[T]) Address() uintptr {
	return p.address
}

// Size is the size in bytes of the register block layout.
func (p Peripheral[T]) Size() uintptr {
	var zero T
	return unsafe.Sizeof(zero)
}
