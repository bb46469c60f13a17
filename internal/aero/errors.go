package aero

import "errors"

// Construction errors for curves, wings and airfoil lookup.
var (
	// ErrTooFewSamples indicates a curve built from fewer than two points.
	ErrTooFewSamples = errors.New("aero: curve needs at least two samples")

	// ErrNotMonotonic indicates curve x values that repeat or decrease.
	ErrNotMonotonic = errors.New("aero: curve samples must be strictly increasing in x")

	// ErrNonPositiveArea indicates a wing area that is zero, negative, NaN or Inf.
	ErrNonPositiveArea = errors.New("aero: wing area must be positive")

	// ErrUnknownAirfoil indicates a name missing from the built-in airfoil table.
	ErrUnknownAirfoil = errors.New("aero: unknown airfoil")
)
