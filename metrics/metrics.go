package metrics

import (
	"math"

	"github.com/ecodyn/ecotraj/logging"
	"github.com/ecodyn/ecotraj/trajectory"
)

// EntityMetrics is the aggregate per-trajectory report.
type EntityMetrics struct {
	Entity string `json:"entity"`
	States int    `json:"states"`

	TotalLength float64 `json:"total_length"`
	MeanSpeed   float64 `json:"mean_speed"` // total length / total duration

	// Straightness is the net displacement (first to last state) divided by
	// the total path length; 1 for a straight path.
	Straightness float64 `json:"straightness"`

	Directionality   float64 `json:"directionality"`
	InternalVariance float64 `json:"internal_variance"`
}

// Metrics assembles the aggregate per-entity report from the individual
// single-trajectory metrics.
func Metrics(tc *trajectory.Collection) []EntityMetrics {
	lengths := Lengths(tc)
	speeds := Speeds(tc, nil)
	directionality := Directionality(tc)
	variation := InternalVariation(tc)

	d := tc.Matrix()
	out := make([]EntityMetrics, 0, tc.NumEntities())
	for k, e := range tc.Entities() {
		indices := tc.Indices(e)
		row := EntityMetrics{
			Entity:           e,
			States:           len(indices),
			TotalLength:      lengths[k].Total,
			MeanSpeed:        speeds[k].Total,
			Straightness:     math.NaN(),
			Directionality:   directionality[k].Directionality,
			InternalVariance: variation[k].Variance,
		}
		if len(indices) >= 2 && row.TotalLength > 0 {
			row.Straightness = d.At(indices[0], indices[len(indices)-1]) / row.TotalLength
		}
		out = append(out, row)
	}

	logging.Debug("trajectory metrics computed", logging.Fields{
		"entities":     tc.NumEntities(),
		"observations": tc.Len(),
	})
	return out
}
