// Package irq defines how interrupt sources name their vector.
package irq

// Nr is implemented by types that represent an interrupt source. Nr must
// return the hardware vector number of the source; vector table setup trusts
// it without checking, so a wrong number routes events to the wrong handler.
type Nr interface {
	Nr() uint8
}

// Number is a bare vector number.
type Number uint8

func (n Number) Nr() uint8 {
	return uint8(n)
}
