package critical

// Section is the zero-size capability token. The blank func array keeps it
// non-comparable: tokens have no identity.
type Section struct {
	_ [0]func()
}

// NewUnchecked mints a token.
//
// The caller must already be inside a hardware critical section and must not
// let the token escape it. Nothing checks this; getting it wrong reintroduces
// the data races the token exists to prevent.
func NewUnchecked() *Section {
	return &Section{}
}

// State is the interrupt mask state saved by Masker.Disable, typically the
// previous PRIMASK value.
type State = uint32

// Masker masks and unmasks the interrupts that could reenter protected code.
//
// Disable masks interrupts and returns the state to hand back to Restore.
// Restore reinstates that state, which leaves interrupts masked when Disable
// was called from an already masked context. Both must be full memory
// barriers.
type Masker interface {
	Disable() State
	Restore(state State)
}

type maskFuncs struct {
	disable func() State
	restore func(State)
}

func (inst maskFuncs) Disable() State {
	return inst.disable()
}

func (inst maskFuncs) Restore(state State) {
	inst.restore(state)
}

// Masked adapts a pair of platform functions to a Masker.
func Masked(disable func() State, restore func(State)) Masker {
	if disable == nil || restore == nil {
		panic("critical: Masked requires both disable and restore")
	}

	return maskFuncs{disable: disable, restore: restore}
}

// Free runs fn inside a critical section. The previous mask state is
// restored when fn returns or panics, so calls nest.
func Free(m Masker, fn func(cs *Section)) {
	state := m.Disable()
	defer m.Restore(state)

	fn(NewUnchecked())
}

// Apply is Free for callbacks that produce a value.
func Apply[R any](m Masker, fn func(cs *Section) R) R {
	state := m.Disable()
	defer m.Restore(state)

	return fn(NewUnchecked())
}
