package geom

import "sort"

// TimeWeights returns the affine combination describing a trajectory's state
// at time t, by linear-in-time interpolation between the two observations
// bracketing t. indices are the survey-ordered matrix indices and times the
// matching observation times (non-decreasing). Query times outside the
// observed range clamp to the boundary state and report clamped=true;
// extrapolation is never performed. A query matching an observed time
// returns that single observation with weight 1, which makes downstream
// interpolation idempotent.
func TimeWeights(indices []int, times []float64, t float64) (w Weights, clamped bool) {
	if t <= times[0] {
		return PointWeights(indices[0]), t < times[0]
	}
	last := len(times) - 1
	if t >= times[last] {
		return PointWeights(indices[last]), t > times[last]
	}

	// First k with times[k] >= t; the bracket is [k-1, k].
	k := sort.SearchFloat64s(times, t)
	if times[k] == t {
		return PointWeights(indices[k]), false
	}
	span := times[k] - times[k-1]
	frac := (t - times[k-1]) / span
	return Weights{indices[k-1]: 1 - frac, indices[k]: frac}, false
}
