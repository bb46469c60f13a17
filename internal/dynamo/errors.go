package dynamo

import "errors"

// Construction errors. A body that fails validation is never returned.
var (
	// ErrNonPositiveMass indicates a mass that is zero, negative, NaN or Inf.
	ErrNonPositiveMass = errors.New("dynamo: mass must be positive and finite")

	// ErrSingularInertia indicates an inertia tensor that cannot be inverted.
	ErrSingularInertia = errors.New("dynamo: inertia tensor is singular")

	// ErrInvalidState indicates a pose or velocity containing NaN or Inf.
	ErrInvalidState = errors.New("dynamo: invalid state (NaN or Inf detected)")
)
