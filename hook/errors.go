package hook

import (
	"errors"
)

var (
	// ErrUnauthorized is returned when a phase is invoked by any sender
	// other than the authority the hook was bound to at construction.
	ErrUnauthorized = errors.New("caller is not the bound authority")

	// ErrNotImplemented is returned when a phase is invoked that the hook
	// does not implement. Succeeding silently instead would let a hook that
	// declares a phase it never implemented pass validation unsafely.
	ErrNotImplemented = errors.New("hook phase not implemented")
)
