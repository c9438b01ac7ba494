package compare

import (
	"math"

	"github.com/ecodyn/ecotraj/trajectory"
)

// EntityDynamicContribution reports one trajectory's share of the dynamic
// variation.
type EntityDynamicContribution struct {
	Entity string `json:"entity"`

	// SquaredDistance is the squared distance from this trajectory to the
	// implicit centroid trajectory, in the space of whole trajectories.
	SquaredDistance float64 `json:"squared_distance"`

	// Relative is SquaredDistance over the total dynamic sum of squares.
	Relative float64 `json:"relative"`
}

// DynamicVariationResult is the sum-of-squares decomposition over the space
// of whole trajectories.
type DynamicVariationResult struct {
	Type DistanceType `json:"type"`

	// TotalSumOfSquares is the Huygens sum of squares of the trajectories
	// around their implicit centroid trajectory.
	TotalSumOfSquares float64 `json:"total_sum_of_squares"`

	// Variance is the unbiased estimate TotalSumOfSquares/(m-1); NaN with a
	// single entity.
	Variance float64 `json:"variance"`

	Entities []EntityDynamicContribution `json:"entities"`
}

// DynamicVariation decomposes the variation among whole trajectories,
// analogous to the internal variation of a single trajectory but using
// pairwise trajectory distances as input. Distances are always symmetrized
// (mean, or max for Hausdorff) so the Huygens identity applies.
func DynamicVariation(tc *trajectory.Collection, opts *TrajectoryDistancesOptions) (*DynamicVariationResult, error) {
	o := TrajectoryDistancesOptions{}
	if opts != nil {
		o = *opts
	}
	o.Symmetrization = SymmetrizeMean

	td, err := TrajectoryDistances(tc, &o)
	if err != nil {
		return nil, err
	}

	m := len(td.Entities)
	ss := 0.0
	for i := 0; i < m; i++ {
		for j := i + 1; j < m; j++ {
			ss += td.Values[i][j] * td.Values[i][j]
		}
	}
	ss /= float64(m)

	res := &DynamicVariationResult{
		Type:              td.Type,
		TotalSumOfSquares: ss,
		Variance:          math.NaN(),
	}
	if m > 1 {
		res.Variance = ss / float64(m-1)
	}

	for i, e := range td.Entities {
		sum := 0.0
		for j := 0; j < m; j++ {
			sum += td.Values[i][j] * td.Values[i][j]
		}
		sq := math.Max(0, sum/float64(m)-ss/float64(m))
		contrib := EntityDynamicContribution{Entity: e, SquaredDistance: sq, Relative: math.NaN()}
		if ss > 0 {
			contrib.Relative = sq / ss
		}
		res.Entities = append(res.Entities, contrib)
	}
	return res, nil
}
