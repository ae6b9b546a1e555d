package network

import "errors"

// Error kinds surfaced by the core, checkable with errors.Is.
var (
	// ErrBuildInputInvalid means an adapter produced a reference to
	// an unknown stop or trip.
	ErrBuildInputInvalid = errors.New("build input invalid")

	// ErrAdapter wraps an opaque failure from an adapter method.
	ErrAdapter = errors.New("adapter error")
)
