package trajectory

import "errors"

// Error taxonomy shared by all ecotraj packages. Construction-time errors
// (dimension mismatch, duplicate survey, empty selection) abort the whole
// operation; per-element numerical edge cases (degenerate segment, zero
// duration, out-of-range target) are localized to the affected cell and
// reported as NaN alongside valid results.
var (
	// ErrDimensionMismatch indicates input vector/matrix sizes disagree.
	ErrDimensionMismatch = errors.New("dimension mismatch")

	// ErrDuplicateSurvey indicates two observations of one entity share a
	// survey index.
	ErrDuplicateSurvey = errors.New("duplicate survey")

	// ErrEmptySelection indicates a subset operation yields zero rows or
	// references an absent entity or survey.
	ErrEmptySelection = errors.New("empty selection")

	// ErrDegenerateSegment indicates a zero-length segment where an angle or
	// direction is required.
	ErrDegenerateSegment = errors.New("degenerate segment")

	// ErrZeroDuration indicates a zero time difference where a speed is
	// required.
	ErrZeroDuration = errors.New("zero duration")

	// ErrSynchronyRequired indicates a convergence test mode was invoked on
	// non-synchronous trajectories.
	ErrSynchronyRequired = errors.New("synchronous trajectories required")

	// ErrOutOfRangeTarget indicates an interpolation or time-based projection
	// query outside a trajectory's observed time span.
	ErrOutOfRangeTarget = errors.New("target time outside observed range")

	// ErrInvalidMatrix indicates a dissimilarity matrix that is not square,
	// not symmetric, has a nonzero diagonal or negative entries.
	ErrInvalidMatrix = errors.New("invalid dissimilarity matrix")
)
