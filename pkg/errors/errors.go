// Package errors holds the sentinel errors returned by the host-side
// packages. The primitives themselves never return errors.
package errors

import "errors"

var (
	// ErrInvalidVector occurs when an interrupt number is outside the vector table.
	ErrInvalidVector = errors.New("interrupt vector out of range")
	// ErrVectorInUse occurs when registering a handler on an occupied vector.
	ErrVectorInUse = errors.New("interrupt vector already has a handler")
	// ErrNilHandler occurs when registering a nil interrupt handler.
	ErrNilHandler = errors.New("interrupt handler is nil")
	// ErrInvalidRegionSize occurs when mapping a register region of non-positive size.
	ErrInvalidRegionSize = errors.New("register region size must be positive")
	// ErrRegionClosed occurs when using a register region after Close.
	ErrRegionClosed = errors.New("register region is closed")
	// ErrUnsupportedPlatform occurs when anonymous mappings are unavailable.
	ErrUnsupportedPlatform = errors.New("anonymous memory mappings are not supported on this platform")
	// ErrInvalidConfig occurs when a soak configuration fails validation.
	ErrInvalidConfig = errors.New("invalid configuration")
	// ErrContention occurs when a soak run observes a broken ownership invariant.
	ErrContention = errors.New("ownership invariant violated")
)
