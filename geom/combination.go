package geom

import (
	"math"

	"github.com/ecodyn/ecotraj/trajectory"
)

// Weights maps observation indices to affine-combination coefficients. The
// coefficients of one combination must sum to 1 (a point is the combination
// {index: 1}).
type Weights map[int]float64

// PointWeights returns the trivial combination representing observation i.
func PointWeights(i int) Weights { return Weights{i: 1} }

// CombinationSquaredDistance returns the squared distance between two affine
// combinations of observed states, using pairwise distances only. With
// difference coefficients c = wa - wb (which sum to zero),
//
//	|sum_k c_k x_k|^2 = -1/2 * sum_{k,l} c_k c_l d(k,l)^2
//
// so no coordinates are ever needed. This single identity backs centering,
// smoothing, interpolation and the time-sensitive trajectory distance.
// Negative results from semi-metric input clamp to zero.
func CombinationSquaredDistance(d *trajectory.DistanceMatrix, wa, wb Weights) float64 {
	diff := make(Weights, len(wa)+len(wb))
	for k, v := range wa {
		diff[k] += v
	}
	for k, v := range wb {
		diff[k] -= v
	}

	keys := make([]int, 0, len(diff))
	for k, v := range diff {
		if v != 0 {
			keys = append(keys, k)
		}
	}

	sum := 0.0
	for a := 0; a < len(keys); a++ {
		for b := a + 1; b < len(keys); b++ {
			v := d.At(keys[a], keys[b])
			sum += diff[keys[a]] * diff[keys[b]] * v * v
		}
	}
	return math.Max(0, -sum)
}

// CombinationDistance is the square root of CombinationSquaredDistance.
func CombinationDistance(d *trajectory.DistanceMatrix, wa, wb Weights) float64 {
	return math.Sqrt(CombinationSquaredDistance(d, wa, wb))
}

// SquaredCentroidDistance returns the squared distance between the implicit
// centroids of two state sets:
//
//	|c_A - c_B|^2 = (1/(na*nb)) sum_{i in A, j in B} d(i,j)^2
//	              - SS_A/na^2 - SS_B/nb^2
func SquaredCentroidDistance(d *trajectory.DistanceMatrix, setA, setB []int) float64 {
	na, nb := len(setA), len(setB)
	if na == 0 || nb == 0 {
		return math.NaN()
	}
	cross := 0.0
	for _, i := range setA {
		for _, j := range setB {
			v := d.At(i, j)
			cross += v * v
		}
	}
	sq := cross/float64(na*nb) -
		SumOfSquares(d, setA)/float64(na) -
		SumOfSquares(d, setB)/float64(nb)
	return math.Max(0, sq)
}
