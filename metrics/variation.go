package metrics

import (
	"math"

	"github.com/ecodyn/ecotraj/geom"
	"github.com/ecodyn/ecotraj/trajectory"
)

// ObservationContribution reports how much one state contributes to its
// trajectory's internal variation.
type ObservationContribution struct {
	Index           int     `json:"index"`
	Survey          int     `json:"survey"`
	SquaredDistance float64 `json:"squared_distance"` // to the implicit trajectory centroid
	Relative        float64 `json:"relative"`         // share of the trajectory sum of squares
}

// EntityVariation reports the internal variation of one trajectory around
// its implicit centroid.
type EntityVariation struct {
	Entity string `json:"entity"`

	// SumOfSquares is the Huygens total sum of squared deviations from the
	// implicit centroid.
	SumOfSquares float64 `json:"sum_of_squares"`

	// Variance is the unbiased estimate SumOfSquares/(n-1); NaN for
	// single-state trajectories.
	Variance float64 `json:"variance"`

	Contributions []ObservationContribution `json:"contributions"`
}

// InternalVariation computes, per trajectory, the coordinate-free sum of
// squares around the implicit centroid, the unbiased variance, and each
// observation's relative contribution.
func InternalVariation(tc *trajectory.Collection) []EntityVariation {
	d := tc.Matrix()
	out := make([]EntityVariation, 0, tc.NumEntities())
	for _, e := range tc.Entities() {
		indices := tc.Indices(e)
		row := EntityVariation{Entity: e, Variance: math.NaN()}
		row.SumOfSquares = geom.SumOfSquares(d, indices)
		if len(indices) > 1 {
			row.Variance = row.SumOfSquares / float64(len(indices)-1)
		}
		for _, i := range indices {
			dc := geom.DistanceToCentroid(d, i, indices)
			contrib := ObservationContribution{
				Index:           i,
				Survey:          tc.Observation(i).Survey,
				SquaredDistance: dc * dc,
				Relative:        math.NaN(),
			}
			if row.SumOfSquares > 0 {
				contrib.Relative = contrib.SquaredDistance / row.SumOfSquares
			}
			row.Contributions = append(row.Contributions, contrib)
		}
		out = append(out, row)
	}
	return out
}

// Variability is an alias for InternalVariation, matching the naming used in
// the ecological trajectory literature.
func Variability(tc *trajectory.Collection) []EntityVariation {
	return InternalVariation(tc)
}
