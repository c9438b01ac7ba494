package geom

import (
	"gonum.org/v1/gonum/stat/combin"

	"github.com/ecodyn/ecotraj/logging"
	"github.com/ecodyn/ecotraj/trajectory"
)

// DefaultMetricTol is the tolerance used by metricity checks when callers
// pass a non-positive tolerance.
const DefaultMetricTol = 1e-10

// IsMetric reports whether the dissimilarity matrix satisfies the triangle
// inequality for every triplet of distinct observations, within tol. The
// scan is O(n^3) and stops at the first violation. A false result is
// informational: downstream primitives apply local correction and continue.
func IsMetric(d *trajectory.DistanceMatrix, tol float64) bool {
	if tol <= 0 {
		tol = DefaultMetricTol
	}
	n := d.Len()
	if n < 3 {
		return true
	}
	gen := combin.NewCombinationGenerator(n, 3)
	triplet := make([]int, 3)
	for gen.Next() {
		gen.Combination(triplet)
		if tripletViolations(d, triplet[0], triplet[1], triplet[2], tol) > 0 {
			return false
		}
	}
	return true
}

// MetricViolations counts the unordered triplets with at least one violated
// triangle inequality, within tol. Intended as a diagnostic before deciding
// on a global preprocessing transform (square root, PCoA); the engine itself
// only ever applies local per-triplet correction.
func MetricViolations(d *trajectory.DistanceMatrix, tol float64, workers int) int {
	if tol <= 0 {
		tol = DefaultMetricTol
	}
	n := d.Len()
	if n < 3 {
		return 0
	}

	perRow := make([]int, n)
	ForEachRow(n, workers, func(i int) {
		for j := i + 1; j < n; j++ {
			for k := j + 1; k < n; k++ {
				if tripletViolations(d, i, j, k, tol) > 0 {
					perRow[i]++
				}
			}
		}
	})

	total := 0
	for _, v := range perRow {
		total += v
	}
	if total > 0 {
		logging.Debug("semi-metric input", logging.Fields{
			"observations": n,
			"triplets":     combin.Binomial(n, 3),
			"violations":   total,
		})
	}
	return total
}

// tripletViolations counts the violated triangle inequalities among the
// three sides of the triangle (i,j,k).
func tripletViolations(d *trajectory.DistanceMatrix, i, j, k int, tol float64) int {
	dij, djk, dik := d.At(i, j), d.At(j, k), d.At(i, k)
	v := 0
	if dik > dij+djk+tol {
		v++
	}
	if dij > dik+djk+tol {
		v++
	}
	if djk > dij+dik+tol {
		v++
	}
	return v
}

// CorrectedSide returns the side opposite vertex b of triangle (a,b,c),
// locally corrected so the triangle closes: dac is clamped into
// [|dab-dbc|, dab+dbc]. The correction is minimal (the violating side is
// moved just enough to satisfy equality) and is never written back into the
// shared matrix; each invocation patches only the triplet at hand. Local
// correction preserves all other distances exactly, at the cost of
// inconsistency across triplets sharing an edge; consistent alternatives
// (square root, spectral correction, metric MDS) are caller-side
// preprocessing and distort angles, especially under square root.
func CorrectedSide(dab, dbc, dac float64) float64 {
	if hi := dab + dbc; dac > hi {
		return hi
	}
	if lo := dab - dbc; lo < 0 {
		if dac < -lo {
			return -lo
		}
	} else if dac < lo {
		return lo
	}
	return dac
}
