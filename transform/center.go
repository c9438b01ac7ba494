// Package transform produces new trajectory collections from existing ones:
// centering, Gaussian smoothing and temporal interpolation. All operations
// rewrite the dissimilarity matrix through coordinate-free identities and
// return fresh collections; inputs are never mutated.
package transform

import (
	"fmt"
	"math"

	"github.com/ecodyn/ecotraj/geom"
	"github.com/ecodyn/ecotraj/logging"
	"github.com/ecodyn/ecotraj/trajectory"
)

// CenterOptions configures Center.
type CenterOptions struct {
	// Exclude lists observation indices that do not participate in centroid
	// computation. Excluded observations are still shifted by their entity's
	// centroid and remain present in the output.
	Exclude []int

	// Workers bounds the goroutines rebuilding the matrix.
	Workers int
}

// Center translates every trajectory so its implicit centroid sits at the
// origin, expressed purely through distances: within-entity distances are
// unchanged, and each cross-entity squared distance is rewritten using the
// polarization identity over point-to-centroid (Huygens) and
// centroid-to-centroid terms. Centering removes between-trajectory offset
// without altering any single-trajectory metric.
func Center(tc *trajectory.Collection, opts *CenterOptions) (*trajectory.Collection, error) {
	if opts == nil {
		opts = &CenterOptions{}
	}
	excluded := make(map[int]bool, len(opts.Exclude))
	for _, i := range opts.Exclude {
		if i < 0 || i >= tc.Len() {
			return nil, fmt.Errorf("%w: excluded index %d out of range", trajectory.ErrDimensionMismatch, i)
		}
		excluded[i] = true
	}

	entities := tc.Entities()
	included := make(map[string][]int, len(entities))
	for _, e := range entities {
		for _, i := range tc.Indices(e) {
			if !excluded[i] {
				included[e] = append(included[e], i)
			}
		}
		if len(included[e]) == 0 {
			return nil, fmt.Errorf("%w: every observation of entity %q is excluded", trajectory.ErrEmptySelection, e)
		}
	}

	d := tc.Matrix()
	n := tc.Len()
	m := len(entities)
	entityPos := make(map[string]int, m)
	for k, e := range entities {
		entityPos[e] = k
	}

	// Squared distance from every observation to every entity centroid, and
	// between every pair of entity centroids.
	sqToCentroid := make([][]float64, n)
	geom.ForEachRow(n, opts.Workers, func(i int) {
		sqToCentroid[i] = make([]float64, m)
		for k, e := range entities {
			dc := geom.DistanceToCentroid(d, i, included[e])
			sqToCentroid[i][k] = dc * dc
		}
	})
	centroidSq := make([][]float64, m)
	for a := range centroidSq {
		centroidSq[a] = make([]float64, m)
		for b := a + 1; b < m; b++ {
			centroidSq[a][b] = geom.SquaredCentroidDistance(d, included[entities[a]], included[entities[b]])
		}
	}
	for a := range centroidSq {
		for b := 0; b < a; b++ {
			centroidSq[a][b] = centroidSq[b][a]
		}
	}

	rows := squareRows(n)
	geom.ForEachRow(n, opts.Workers, func(i int) {
		a := entityPos[tc.Observation(i).Entity]
		for j := i + 1; j < n; j++ {
			b := entityPos[tc.Observation(j).Entity]
			v := d.At(i, j)
			if a != b {
				sq := v*v + centroidSq[a][b] -
					(sqToCentroid[i][b] + sqToCentroid[j][a] - sqToCentroid[i][a] - sqToCentroid[j][b])
				v = math.Sqrt(math.Max(0, sq))
			}
			rows[i][j] = v
		}
	})
	mirror(rows)

	nd, err := trajectory.DistanceMatrixFromRows(rows)
	if err != nil {
		return nil, err
	}
	logging.Debug("trajectories centered", logging.Fields{
		"entities": m,
		"excluded": len(opts.Exclude),
	})
	return tc.WithMatrix(nd)
}

// squareRows allocates an n by n zero matrix.
func squareRows(n int) [][]float64 {
	rows := make([][]float64, n)
	for i := range rows {
		rows[i] = make([]float64, n)
	}
	return rows
}

// mirror copies the upper triangle onto the lower one.
func mirror(rows [][]float64) {
	for i := range rows {
		for j := i + 1; j < len(rows); j++ {
			rows[j][i] = rows[i][j]
		}
	}
}
