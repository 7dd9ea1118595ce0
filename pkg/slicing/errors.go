package slicing

import "errors"

// Sentinel errors reported by the slicing core. Callers are expected to
// match them with errors.Is; every failure is detected before any gather
// or transform is attempted.
var (
	// ErrShapeMismatch indicates a supplied plane-index field or override
	// volume whose shape differs from what the view expects.
	ErrShapeMismatch = errors.New("shape mismatch")

	// ErrInvalidArgument indicates a plane or coordinate specification of an
	// unrecognized type or incompatible batch length.
	ErrInvalidArgument = errors.New("invalid argument")

	// ErrUnsupported indicates an operation that only concrete view variants
	// provide, invoked without one.
	ErrUnsupported = errors.New("unsupported operation")
)
