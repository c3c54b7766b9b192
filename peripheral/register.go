package peripheral

import "sync/atomic"

// Register32 is a 32-bit memory-mapped register. Every access is a single
// load or store that the compiler will neither elide nor reorder.
//
// The read-modify-write helpers are three accesses; call them inside a
// critical section when a handler may touch the same register.
type Register32 struct {
	reg uint32
}

func (r *Register32) Get() uint32 {
	return atomic.LoadUint32(&r.reg)
}

func (r *Register32) Set(value uint32) {
	atomic.StoreUint32(&r.reg, value)
}

func (r *Register32) SetBits(value uint32) {
	r.Set(r.Get() | value)
}

func (r *Register32) ClearBits(value uint32) {
	r.Set(r.Get() &^ value)
}

func (r *Register32) HasBits(value uint32) bool {
	return r.Get()&value != 0
}

// ReplaceBits replaces the mask bits at pos with value.
func (r *Register32) ReplaceBits(value uint32, mask uint32, pos uint8) {
	r.Set(r.Get()&^(mask<<pos) | (value&mask)<<pos)
}
