// Package link exposes the few runtime internals the spin paths need.
package link

import _ "unsafe"

// ProcYield executes the architecture pause instruction cycles times.
//
//go:linkname ProcYield runtime.procyield
func ProcYield(cycles uint32)

// FastRand is the runtime's per-M pseudo random generator.
//
//go:linkname FastRand runtime.fastrand
func FastRand() uint32
