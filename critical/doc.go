// Package critical defines the critical-section capability token.
//
// A *Section is proof that the current execution context runs with the
// interrupts that could reenter it masked. Code that touches state shared
// with interrupt handlers takes a *Section argument instead of locking:
//
//	critical.Free(core, func(cs *critical.Section) {
//	    counter.Borrow(cs).Add(1)
//	})
//
// # Scope
//
// The token, and every pointer borrowed through it, is valid only for the
// dynamic extent of the callback that received it. Storing either in a
// variable, a struct field or a channel that outlives the callback breaks the
// protocol: once interrupts are unmasked a handler may observe or mutate the
// same data. The compiler cannot prove this, so call sites are expected to be
// kept small and reviewed.
//
// Only Free, Apply and NewUnchecked hand out tokens. A nil *Section and a
// &critical.Section{} literal both compile and are accepted by every Borrow,
// since Go has no way to make a type unconstructible outside its package.
// Passing either is the same contract violation as calling NewUnchecked
// outside a masked region.
//
// # Masking
//
// Entering and leaving a critical section is delegated to a Masker supplied
// by the platform. Disable and Restore MUST act as full memory barriers in
// both directions; without that the compiler or the core may move accesses
// out of the masked region and the token proves nothing.
//
// # Single core only
//
// None of this is sound when more than one core executes at the same time.
// Masking interrupts on one core says nothing about another core.
package critical
