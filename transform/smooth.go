package transform

import (
	"fmt"
	"math"

	"gonum.org/v1/gonum/floats"

	"github.com/ecodyn/ecotraj/geom"
	"github.com/ecodyn/ecotraj/logging"
	"github.com/ecodyn/ecotraj/trajectory"
)

// SmoothOptions configures Smooth.
type SmoothOptions struct {
	// Bandwidth is the Gaussian kernel standard deviation, in time units.
	// Must be positive.
	Bandwidth float64

	// Workers bounds the goroutines rebuilding the matrix.
	Workers int
}

// Smooth replaces every state by a Gaussian-kernel weighted average of its
// own trajectory's states,
//
//	K(t, t_r) = exp(-(t - t_r)^2 / (2*b^2))
//
// normalized to sum one per target time, and rewrites all pairwise distances
// between the smoothed states through the affine-combination identity.
// Smoothing only ever mixes observations within one entity; cross-entity
// distances change only because both endpoints moved. Metadata is unchanged.
func Smooth(tc *trajectory.Collection, opts *SmoothOptions) (*trajectory.Collection, error) {
	if opts == nil || opts.Bandwidth <= 0 {
		return nil, fmt.Errorf("smoothing bandwidth must be positive")
	}
	b2 := 2 * opts.Bandwidth * opts.Bandwidth

	n := tc.Len()
	weights := make([]geom.Weights, n)
	for _, e := range tc.Entities() {
		indices := tc.Indices(e)
		times := tc.Times(e)
		for k, i := range indices {
			raw := make([]float64, len(indices))
			for r := range indices {
				dt := times[k] - times[r]
				raw[r] = math.Exp(-dt * dt / b2)
			}
			floats.Scale(1/floats.Sum(raw), raw)
			w := make(geom.Weights, len(indices))
			for r, j := range indices {
				w[j] = raw[r]
			}
			weights[i] = w
		}
	}

	d := tc.Matrix()
	rows := squareRows(n)
	geom.ForEachRow(n, opts.Workers, func(i int) {
		for j := i + 1; j < n; j++ {
			rows[i][j] = math.Sqrt(geom.CombinationSquaredDistance(d, weights[i], weights[j]))
		}
	})
	mirror(rows)

	nd, err := trajectory.DistanceMatrixFromRows(rows)
	if err != nil {
		return nil, err
	}
	logging.Debug("trajectories smoothed", logging.Fields{
		"bandwidth":    opts.Bandwidth,
		"observations": n,
	})
	return tc.WithMatrix(nd)
}
