package cluster

import "errors"

// Configuration errors. All are detected before any clustering work starts;
// a failed call never produces a partial result.
var (
	// ErrInvalidEps is returned when eps is zero, negative, or not finite.
	ErrInvalidEps = errors.New("eps must be a positive finite number")

	// ErrInvalidMinClusterSize is returned when the minimum cluster size is
	// less than one.
	ErrInvalidMinClusterSize = errors.New("min cluster size must be at least 1")

	// ErrLengthMismatch is returned when the x and y slices differ in length.
	ErrLengthMismatch = errors.New("x and y arrays must be the same length")

	// ErrNonFiniteCoordinate is returned when any input coordinate is NaN or
	// infinite. The engine rejects these rather than guessing a position.
	ErrNonFiniteCoordinate = errors.New("coordinates must be finite")
)
