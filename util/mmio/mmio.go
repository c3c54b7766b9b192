// Package mmio maps anonymous memory on the host to stand in for a device's
// register window. The mapping lives outside the Go heap, so its address can
// be kept as a uintptr and handed to peripheral.NewUnchecked.
package mmio

import (
	"fmt"

	"github.com/tezrry/baremetal/pkg/errors"
)

type Region struct {
	mem  []byte
	base uintptr
}

func (r *Region) Base() uintptr {
	return r.base
}

func (r *Region) Len() int {
	return len(r.mem)
}

// At returns the address at offset from the base of the region.
func (r *Region) At(offset uintptr) uintptr {
	if r.mem == nil {
		panic(errors.ErrRegionClosed)
	}

	if offset >= uintptr(len(r.mem)) {
		panic(fmt.Errorf("mmio: offset %#x outside region of %#x bytes", offset, len(r.mem)))
	}

	return r.base + offset
}

// Bytes exposes the region for inspection by tests.
func (r *Region) Bytes() []byte {
	return r.mem
}

func (r *Region) Close() error {
	if r.mem == nil {
		return errors.ErrRegionClosed
	}

	err := unmap(r.mem)
	r.mem, r.base = nil, 0
	return err
}
