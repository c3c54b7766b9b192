// Package lock provides a CAS spin lock for very short host-side sections,
// such as latching a pending interrupt from a foreign goroutine.
package lock

import (
	"sync/atomic"

	"github.com/tezrry/baremetal/link"
)

type SpinLock int32

func (lk *SpinLock) Lock() {
	if atomic.CompareAndSwapInt32((*int32)(lk), 0, 1) {
		return
	}

	for !atomic.CompareAndSwapInt32((*int32)(lk), 0, 1) {
		r := link.FastRand() % 100
		if r < 30 {
			r = 30
		}
		link.ProcYield(r)
	}
}

func (lk *SpinLock) Unlock() {
	atomic.StoreInt32((*int32)(lk), 0)
}

// TryLock acquires the lock without spinning and reports whether it did.
func (lk *SpinLock) TryLock() bool {
	return atomic.CompareAndSwapInt32((*int32)(lk), 0, 1)
}
