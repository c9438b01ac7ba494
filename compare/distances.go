package compare

import (
	"fmt"
	"math"

	"github.com/ecodyn/ecotraj/geom"
	"github.com/ecodyn/ecotraj/logging"
	"github.com/ecodyn/ecotraj/trajectory"
)

// DistanceType selects the trajectory-to-trajectory dissimilarity variant.
type DistanceType string

const (
	// Hausdorff is the maximum over one trajectory's segments of the minimum
	// distance to any segment of the other, symmetrized by taking the larger
	// of both directions.
	Hausdorff DistanceType = "Hausdorff"

	// SPD (segment path distance family, point variant) averages, over every
	// point of one trajectory, the minimum distance to any point of the
	// other.
	SPD DistanceType = "SPD"

	// DSPD averages, over every directed segment of one trajectory, the
	// distance to the nearest directed segment of the other.
	DSPD DistanceType = "DSPD"

	// TSPD averages, over every timed observation of one trajectory, the
	// distance to the other trajectory's state at the matching time,
	// obtained by linear-in-time interpolation (clamped at the boundary
	// outside the observed range).
	TSPD DistanceType = "TSPD"
)

// Symmetrization selects how the two directed values are combined.
type Symmetrization string

const (
	// SymmetrizeMean reports the arithmetic mean of both directions
	// (default). Hausdorff ignores this and always takes the maximum, which
	// is part of its definition.
	SymmetrizeMean Symmetrization = "mean"

	// SymmetrizeNone reports the raw directed values; the result matrix is
	// generally asymmetric.
	SymmetrizeNone Symmetrization = "none"
)

// TrajectoryDistancesOptions configures TrajectoryDistances.
type TrajectoryDistancesOptions struct {
	// Type selects the dissimilarity variant. Default: DSPD.
	Type DistanceType

	// Symmetrization selects how directed values are combined. Default:
	// SymmetrizeMean.
	Symmetrization Symmetrization

	// SegmentMetric is the directed-segment metric used by DSPD and
	// Hausdorff. Default: SegmentEndpoints.
	SegmentMetric SegmentDistanceMetric
}

// TrajectoryDistanceResult is the entity-by-entity dissimilarity matrix.
type TrajectoryDistanceResult struct {
	Entities []string       `json:"entities"`
	Values   [][]float64    `json:"values"`
	Type     DistanceType   `json:"type"`
	Sym      Symmetrization `json:"symmetrization"`
}

// At returns the dissimilarity between two entities by name.
func (r *TrajectoryDistanceResult) At(a, b string) (float64, bool) {
	ia, ib := -1, -1
	for k, e := range r.Entities {
		if e == a {
			ia = k
		}
		if e == b {
			ib = k
		}
	}
	if ia < 0 || ib < 0 {
		return 0, false
	}
	return r.Values[ia][ib], true
}

// TrajectoryDistances computes the pairwise dissimilarity between whole
// trajectories under the selected variant and symmetrization policy.
func TrajectoryDistances(tc *trajectory.Collection, opts *TrajectoryDistancesOptions) (*TrajectoryDistanceResult, error) {
	if opts == nil {
		opts = &TrajectoryDistancesOptions{}
	}
	dtype := opts.Type
	if dtype == "" {
		dtype = DSPD
	}
	sym := opts.Symmetrization
	if sym == "" {
		sym = SymmetrizeMean
	}
	if sym != SymmetrizeMean && sym != SymmetrizeNone {
		return nil, fmt.Errorf("unknown symmetrization %q", sym)
	}
	segMetric := opts.SegmentMetric
	if segMetric == "" {
		segMetric = SegmentEndpoints
	}

	directed, err := directedDistance(dtype)
	if err != nil {
		return nil, err
	}

	entities := tc.Entities()
	m := len(entities)
	values := make([][]float64, m)
	for i := range values {
		values[i] = make([]float64, m)
	}
	for i := 0; i < m; i++ {
		for j := 0; j < m; j++ {
			if j == i {
				continue
			}
			v, err := directed(tc, entities[i], entities[j], segMetric)
			if err != nil {
				return nil, fmt.Errorf("distance %s -> %s: %w", entities[i], entities[j], err)
			}
			values[i][j] = v
		}
	}

	if sym == SymmetrizeMean || dtype == Hausdorff {
		for i := 0; i < m; i++ {
			for j := i + 1; j < m; j++ {
				var v float64
				if dtype == Hausdorff {
					v = math.Max(values[i][j], values[j][i])
				} else {
					v = (values[i][j] + values[j][i]) / 2
				}
				values[i][j], values[j][i] = v, v
			}
		}
	}

	logging.Debug("trajectory distances computed", logging.Fields{
		"entities": m,
		"type":     string(dtype),
	})
	return &TrajectoryDistanceResult{Entities: entities, Values: values, Type: dtype, Sym: sym}, nil
}

type directedFunc func(tc *trajectory.Collection, from, to string, segMetric SegmentDistanceMetric) (float64, error)

func directedDistance(dtype DistanceType) (directedFunc, error) {
	switch dtype {
	case Hausdorff:
		return hausdorffDirected, nil
	case SPD:
		return spdDirected, nil
	case DSPD:
		return dspdDirected, nil
	case TSPD:
		return tspdDirected, nil
	default:
		return nil, fmt.Errorf("unknown trajectory distance type %q", dtype)
	}
}

// spdDirected averages, over the points of from, the distance to the nearest
// point of to.
func spdDirected(tc *trajectory.Collection, from, to string, _ SegmentDistanceMetric) (float64, error) {
	a := tc.Indices(from)
	b := tc.Indices(to)
	d := tc.Matrix()
	sum := 0.0
	for _, i := range a {
		sum += nearestPointDistance(d, i, b)
	}
	return sum / float64(len(a)), nil
}

// nearestPointDistance is the minimum distance from observation i to any of
// the given observations.
func nearestPointDistance(d *trajectory.DistanceMatrix, i int, candidates []int) float64 {
	best := math.Inf(1)
	for _, j := range candidates {
		if v := d.At(i, j); v < best {
			best = v
		}
	}
	return best
}

// dspdDirected averages, over the directed segments of from, the distance to
// the nearest directed segment of to.
func dspdDirected(tc *trajectory.Collection, from, to string, segMetric SegmentDistanceMetric) (float64, error) {
	sa := tc.Segments(from)
	sb := tc.Segments(to)
	if len(sa) == 0 || len(sb) == 0 {
		return 0, fmt.Errorf("%w: %q or %q has no segments", trajectory.ErrEmptySelection, from, to)
	}
	d := tc.Matrix()
	sum := 0.0
	for _, segA := range sa {
		best := math.Inf(1)
		for _, segB := range sb {
			if v := segmentDistance(d, segA, segB, segMetric); v < best {
				best = v
			}
		}
		sum += best
	}
	return sum / float64(len(sa)), nil
}

// hausdorffDirected is the maximum, over the directed segments of from, of
// the distance to the nearest directed segment of to.
func hausdorffDirected(tc *trajectory.Collection, from, to string, segMetric SegmentDistanceMetric) (float64, error) {
	sa := tc.Segments(from)
	sb := tc.Segments(to)
	if len(sa) == 0 || len(sb) == 0 {
		return 0, fmt.Errorf("%w: %q or %q has no segments", trajectory.ErrEmptySelection, from, to)
	}
	d := tc.Matrix()
	worst := 0.0
	for _, segA := range sa {
		best := math.Inf(1)
		for _, segB := range sb {
			if v := segmentDistance(d, segA, segB, segMetric); v < best {
				best = v
			}
		}
		worst = math.Max(worst, best)
	}
	return worst, nil
}

// tspdDirected averages, over the timed observations of from, the distance
// to to's interpolated state at the matching time. Query times outside to's
// observed range clamp to its boundary state.
func tspdDirected(tc *trajectory.Collection, from, to string, _ SegmentDistanceMetric) (float64, error) {
	a := tc.Indices(from)
	b := tc.Indices(to)
	bTimes := tc.Times(to)
	d := tc.Matrix()
	sum := 0.0
	for _, i := range a {
		w, _ := geom.TimeWeights(b, bTimes, tc.Observation(i).Time)
		sum += geom.CombinationDistance(d, geom.PointWeights(i), w)
	}
	return sum / float64(len(a)), nil
}
