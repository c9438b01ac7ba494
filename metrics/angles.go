package metrics

import (
	"math"

	"gonum.org/v1/gonum/stat"
	"gonum.org/v1/gonum/stat/combin"

	"github.com/ecodyn/ecotraj/geom"
	"github.com/ecodyn/ecotraj/trajectory"
)

// AngleOptions configures Angles.
type AngleOptions struct {
	// All enumerates every survey-ordered triplet of states instead of
	// consecutive triplets only, and adds circular statistics across them.
	All bool
}

// TripletAngle is the direction change measured at the middle state of one
// survey-ordered triplet.
type TripletAngle struct {
	First  int     `json:"first"`  // matrix index of the first state
	Middle int     `json:"middle"` // matrix index of the vertex state
	Last   int     `json:"last"`   // matrix index of the last state
	Angle  float64 `json:"angle"`  // degrees; NaN for degenerate triplets
}

// EntityAngles reports the direction changes along one trajectory. Angles
// are expressed as deviation from straight-ahead motion: 0 means the second
// segment continues in the direction of the first, 180 means a full
// reversal.
type EntityAngles struct {
	Entity string `json:"entity"`

	// Consecutive holds the direction change at each interior state, in
	// survey order. NaN marks degenerate (zero-length) segments.
	Consecutive []float64 `json:"consecutive"`

	// Triplets holds every survey-ordered triplet when AngleOptions.All is
	// set; nil otherwise.
	Triplets []TripletAngle `json:"triplets,omitempty"`

	// Mean and Rho are the circular mean (degrees) and mean resultant length
	// of all valid triplet angles; NaN when no triplet is valid. Only
	// populated when AngleOptions.All is set.
	Mean float64 `json:"mean"`
	Rho  float64 `json:"rho"`
}

// Angles computes direction-change angles for every trajectory. Degenerate
// segments yield NaN in the affected cell and are excluded from the circular
// statistics; they never invalidate the remaining triplets.
func Angles(tc *trajectory.Collection, opts *AngleOptions) []EntityAngles {
	if opts == nil {
		opts = &AngleOptions{}
	}

	out := make([]EntityAngles, 0, tc.NumEntities())
	for _, e := range tc.Entities() {
		indices := tc.Indices(e)
		row := EntityAngles{Entity: e, Mean: math.NaN(), Rho: math.NaN()}

		for k := 1; k+1 < len(indices); k++ {
			row.Consecutive = append(row.Consecutive,
				directionChange(tc, indices[k-1], indices[k], indices[k+1]))
		}

		if opts.All && len(indices) >= 3 {
			gen := combin.NewCombinationGenerator(len(indices), 3)
			triplet := make([]int, 3)
			var valid []float64
			for gen.Next() {
				gen.Combination(triplet)
				i, j, k := indices[triplet[0]], indices[triplet[1]], indices[triplet[2]]
				angle := directionChange(tc, i, j, k)
				row.Triplets = append(row.Triplets, TripletAngle{First: i, Middle: j, Last: k, Angle: angle})
				if !math.IsNaN(angle) {
					valid = append(valid, angle*math.Pi/180)
				}
			}
			if len(valid) > 0 {
				row.Mean = stat.CircularMean(valid, nil) * 180 / math.Pi
				row.Rho = resultantLength(valid)
			}
		}
		out = append(out, row)
	}
	return out
}

// directionChange returns 180 minus the interior vertex angle, so collinear
// forward motion scores 0. NaN on degenerate triplets.
func directionChange(tc *trajectory.Collection, a, b, c int) float64 {
	theta, err := geom.TriangleAngle(tc.Matrix(), a, b, c)
	if err != nil {
		return math.NaN()
	}
	return 180 - theta
}

// resultantLength is the mean resultant length of a sample of angles in
// radians: 1 for identical directions, 0 for uniformly dispersed ones.
func resultantLength(angles []float64) float64 {
	var c, s float64
	for _, a := range angles {
		c += math.Cos(a)
		s += math.Sin(a)
	}
	n := float64(len(angles))
	return math.Hypot(c/n, s/n)
}

// EntityDirectionality reports the directionality statistic of one
// trajectory.
type EntityDirectionality struct {
	Entity string `json:"entity"`

	// Directionality is 1 for a maximally straight, consistently directed
	// trajectory and decreases as the path meanders. NaN for trajectories
	// with fewer than three usable states.
	Directionality float64 `json:"directionality"`

	// Triplets is the number of triplets contributing to the statistic.
	Triplets int `json:"triplets"`
}

// Directionality computes, per trajectory, a length-weighted straightness
// statistic over every survey-ordered triplet:
//
//	D = sum_t (d_ij + d_jk) * (1 - angle_t/180) / sum_t (d_ij + d_jk)
//
// Each triplet contributes its direction change scaled to [0,1] (1 =
// straight), weighted by the lengths of its two sides, so the statistic is
// sensitive to both angle and segment length. Degenerate triplets are
// skipped.
func Directionality(tc *trajectory.Collection) []EntityDirectionality {
	d := tc.Matrix()
	out := make([]EntityDirectionality, 0, tc.NumEntities())
	for _, e := range tc.Entities() {
		indices := tc.Indices(e)
		row := EntityDirectionality{Entity: e, Directionality: math.NaN()}
		if len(indices) < 3 {
			out = append(out, row)
			continue
		}

		var weighted, weights float64
		gen := combin.NewCombinationGenerator(len(indices), 3)
		triplet := make([]int, 3)
		for gen.Next() {
			gen.Combination(triplet)
			i, j, k := indices[triplet[0]], indices[triplet[1]], indices[triplet[2]]
			angle := directionChange(tc, i, j, k)
			if math.IsNaN(angle) {
				continue
			}
			w := d.At(i, j) + d.At(j, k)
			weighted += w * (1 - angle/180)
			weights += w
			row.Triplets++
		}
		if weights > 0 {
			row.Directionality = weighted / weights
		}
		out = append(out, row)
	}
	return out
}
