//go:build linux || darwin || freebsd

package mmio

import (
	"fmt"
	"unsafe"

	"golang.org/x/sys/unix"

	"github.com/tezrry/baremetal/pkg/errors"
	util_math "github.com/tezrry/baremetal/util/math"
)

// Map returns a zeroed, read-write region of at least size bytes, rounded up
// to whole pages.
func Map(size int) (*Region, error) {
	if size <= 0 {
		return nil, fmt.Errorf("map %d bytes: %w", size, errors.ErrInvalidRegionSize)
	}

	page := uint64(unix.Getpagesize())
	if !util_math.IsPowerOfTwo(page) {
		return nil, fmt.Errorf("page size %d is not a power of two", page)
	}

	length := int(util_math.AlignUp(uint64(size), page))
	mem, err := unix.Mmap(-1, 0, length, unix.PROT_READ|unix.PROT_WRITE, unix.MAP_ANON|unix.MAP_PRIVATE)
	if err != nil {
		return nil, fmt.Errorf("map %d bytes: %w", length, err)
	}

	return &Region{mem: mem, base: uintptr(unsafe.Pointer(&mem[0]))}, nil
}

func unmap(mem []byte) error {
	return unix.Munmap(mem)
}
