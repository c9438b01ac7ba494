package transform

import (
	"fmt"
	"math"

	"github.com/ecodyn/ecotraj/geom"
	"github.com/ecodyn/ecotraj/logging"
	"github.com/ecodyn/ecotraj/trajectory"
)

// OutOfRangePolicy selects what happens when a target time falls outside an
// entity's observed time span. Extrapolation is never performed; the choice
// is between clamping and failing, and it is always explicit.
type OutOfRangePolicy string

const (
	// OutOfRangeClamp uses the entity's boundary state for targets outside
	// its range (default).
	OutOfRangeClamp OutOfRangePolicy = "clamp"

	// OutOfRangeError fails the whole call with
	// trajectory.ErrOutOfRangeTarget.
	OutOfRangeError OutOfRangePolicy = "error"
)

// InterpolateOptions configures Interpolate.
type InterpolateOptions struct {
	// OutOfRange selects the boundary policy. Default: OutOfRangeClamp.
	OutOfRange OutOfRangePolicy

	// Workers bounds the goroutines building the new matrix.
	Workers int
}

// Interpolate resynchronizes every trajectory onto a common time grid:
// for each entity and each target time it constructs a virtual state by
// linear-in-time interpolation along the entity's own segments, then derives
// the full dissimilarity matrix between the virtual states through the
// affine-combination identity. The output collection is fully synchronous
// over targetTimes; surveys are renumbered 1..k. Interpolating onto the
// entity's own observed times reproduces the input distances exactly.
func Interpolate(tc *trajectory.Collection, targetTimes []float64, opts *InterpolateOptions) (*trajectory.Collection, error) {
	if len(targetTimes) == 0 {
		return nil, fmt.Errorf("%w: no target times", trajectory.ErrEmptySelection)
	}
	for k := 1; k < len(targetTimes); k++ {
		if targetTimes[k] <= targetTimes[k-1] {
			return nil, fmt.Errorf("target times must be strictly increasing (position %d)", k)
		}
	}
	if opts == nil {
		opts = &InterpolateOptions{}
	}
	policy := opts.OutOfRange
	if policy == "" {
		policy = OutOfRangeClamp
	}

	srcEntities := tc.Entities()
	total := len(srcEntities) * len(targetTimes)
	weights := make([]geom.Weights, 0, total)
	entities := make([]string, 0, total)
	surveys := make([]int, 0, total)
	times := make([]float64, 0, total)

	for _, e := range srcEntities {
		indices := tc.Indices(e)
		obsTimes := tc.Times(e)
		for k, t := range targetTimes {
			w, clamped := geom.TimeWeights(indices, obsTimes, t)
			if clamped && policy == OutOfRangeError {
				return nil, fmt.Errorf("%w: entity %q has no observation bracketing t=%v", trajectory.ErrOutOfRangeTarget, e, t)
			}
			weights = append(weights, w)
			entities = append(entities, e)
			surveys = append(surveys, k+1)
			times = append(times, t)
		}
	}

	d := tc.Matrix()
	rows := squareRows(total)
	geom.ForEachRow(total, opts.Workers, func(i int) {
		for j := i + 1; j < total; j++ {
			rows[i][j] = math.Sqrt(geom.CombinationSquaredDistance(d, weights[i], weights[j]))
		}
	})
	mirror(rows)

	nd, err := trajectory.DistanceMatrixFromRows(rows)
	if err != nil {
		return nil, err
	}
	logging.Debug("trajectories interpolated", logging.Fields{
		"entities":     len(srcEntities),
		"target_times": len(targetTimes),
	})
	return trajectory.Define(nd, entities, &trajectory.DefineOptions{Surveys: surveys, Times: times})
}
