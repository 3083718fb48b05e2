package scgp

import "errors"

//////
// Errors.
//////

var (
	// ErrDimensionMismatch is returned when vectors or matrices passed together
	// don't agree in length or shape.
	ErrDimensionMismatch = errors.New("dimension mismatch")

	// ErrInvalidResolution is returned by PredictGrid for a non-positive
	// resolution.
	ErrInvalidResolution = errors.New("grid resolution must be positive")

	// ErrDegenerateRange is returned when a range collapses to a single value.
	ErrDegenerateRange = errors.New("degenerate range")

	// ErrInvalidResponsibilities is returned when a responsibility matrix is
	// not row-stochastic.
	ErrInvalidResponsibilities = errors.New("responsibilities must be row-stochastic")

	// ErrNotPositiveDefinite is returned when a component covariance can't be
	// factorized.
	ErrNotPositiveDefinite = errors.New("covariance is not positive definite")

	// ErrTooFewSplits is returned when the split scan has fewer points than
	// the breakpoint function has parameters.
	ErrTooFewSplits = errors.New("too few split points for breakpoint fit")

	// ErrNoKernels is returned when a mixture is built without components.
	ErrNoKernels = errors.New("at least one kernel is required")
)
