package geom

import (
	"fmt"
	"math"

	"github.com/ecodyn/ecotraj/trajectory"
)

// SegmentLength returns the length of the directed segment a->b, which in a
// dissimilarity space is simply the stored distance.
func SegmentLength(d *trajectory.DistanceMatrix, a, b int) float64 {
	return d.At(a, b)
}

// TriangleAngle returns the interior angle, in degrees, at vertex b of the
// triangle (a,b,c), i.e. between segments b->a and b->c, via the law of
// cosines on pairwise distances. The cosine is clamped to [-1,1] to absorb
// floating-point overshoot, and the side opposite b is locally corrected
// first when the triangle inequality is violated (see CorrectedSide).
// Returns trajectory.ErrDegenerateSegment when either adjacent side has zero
// length; callers decide whether to skip or report NaN.
func TriangleAngle(d *trajectory.DistanceMatrix, a, b, c int) (float64, error) {
	dab := d.At(a, b)
	dbc := d.At(b, c)
	if dab == 0 || dbc == 0 {
		return math.NaN(), fmt.Errorf("%w: zero side at vertex %d", trajectory.ErrDegenerateSegment, b)
	}
	dac := CorrectedSide(dab, dbc, d.At(a, c))
	cos := (dab*dab + dbc*dbc - dac*dac) / (2 * dab * dbc)
	cos = max(-1, min(1, cos))
	return math.Acos(cos) * 180 / math.Pi, nil
}

// Projection describes the orthogonal projection of one state onto a
// reference trajectory.
type Projection struct {
	// SegmentIndex is the 0-based reference segment holding the foot of the
	// perpendicular.
	SegmentIndex int `json:"segment_index"`

	// DistanceOnSegment is the distance from the segment start to the foot.
	DistanceOnSegment float64 `json:"distance_on_segment"`

	// Residual is the perpendicular distance from the point to the foot.
	Residual float64 `json:"residual"`

	// RelativePosition is the cumulative trajectory length up to the foot
	// divided by the total trajectory length, in [0,1].
	RelativePosition float64 `json:"relative_position"`

	// OutOfRange is set when every candidate foot fell outside its segment
	// and the projection was clamped to the nearest trajectory vertex.
	// Extrapolation is never performed.
	OutOfRange bool `json:"out_of_range"`
}

// ProjectPoint computes the orthogonal projection of observation p onto the
// trajectory given by path (survey-ordered matrix indices). For each segment
// (a,b) the signed distance of the foot from a follows from the law of
// cosines,
//
//	x = (d(a,p)^2 + d(a,b)^2 - d(b,p)^2) / (2 d(a,b))
//
// with perpendicular residual sqrt(d(a,p)^2 - x^2) (clamped at zero under
// semi-metric input). The segment with the smallest residual among in-range
// feet wins; when no foot is in range the projection clamps to the nearest
// path vertex and OutOfRange is reported rather than silently presenting an
// interior match.
func ProjectPoint(d *trajectory.DistanceMatrix, p int, path []int) (Projection, error) {
	if len(path) < 2 {
		return Projection{}, fmt.Errorf("%w: reference path needs at least two states", trajectory.ErrDegenerateSegment)
	}

	cum := make([]float64, len(path))
	for k := 1; k < len(path); k++ {
		cum[k] = cum[k-1] + d.At(path[k-1], path[k])
	}
	total := cum[len(path)-1]
	if total == 0 {
		return Projection{}, fmt.Errorf("%w: reference path has zero total length", trajectory.ErrDegenerateSegment)
	}

	best := Projection{SegmentIndex: -1, Residual: math.Inf(1)}
	for k := 0; k+1 < len(path); k++ {
		a, b := path[k], path[k+1]
		length := d.At(a, b)
		if length == 0 {
			continue
		}
		da, db := d.At(a, p), d.At(b, p)
		x := (da*da + length*length - db*db) / (2 * length)
		if x < 0 || x > length {
			continue
		}
		h := math.Sqrt(math.Max(0, da*da-x*x))
		if h < best.Residual {
			best = Projection{
				SegmentIndex:      k,
				DistanceOnSegment: x,
				Residual:          h,
				RelativePosition:  (cum[k] + x) / total,
			}
		}
	}
	if best.SegmentIndex >= 0 {
		return best, nil
	}

	// No in-range foot: the nearest point of the polyline is a vertex.
	// Clamp there and flag the result.
	bestVertex := 0
	bestDist := d.At(path[0], p)
	for k := 1; k < len(path); k++ {
		if dist := d.At(path[k], p); dist < bestDist {
			bestVertex, bestDist = k, dist
		}
	}
	seg := bestVertex
	distOn := 0.0
	if bestVertex == len(path)-1 {
		seg = bestVertex - 1
		distOn = d.At(path[seg], path[seg+1])
	}
	return Projection{
		SegmentIndex:      seg,
		DistanceOnSegment: distOn,
		Residual:          bestDist,
		RelativePosition:  cum[bestVertex] / total,
		OutOfRange:        true,
	}, nil
}

// SumOfSquares returns the total sum of squared deviations of the given
// states from their implicit centroid, computed from pairwise distances only
// (Huygens identity):
//
//	SS = (1/n) * sum_{i<j} d(i,j)^2
func SumOfSquares(d *trajectory.DistanceMatrix, indices []int) float64 {
	n := len(indices)
	if n < 2 {
		return 0
	}
	ss := 0.0
	for a := 0; a < n; a++ {
		for b := a + 1; b < n; b++ {
			v := d.At(indices[a], indices[b])
			ss += v * v
		}
	}
	return ss / float64(n)
}

// DistanceToCentroid returns the distance from observation p to the implicit
// centroid of the given states, again without constructing coordinates:
//
//	d(p,c)^2 = (1/n) sum_i d(p,i)^2 - SS/n
//
// p may or may not belong to indices. Negative squared values produced by
// semi-metric input clamp to zero.
func DistanceToCentroid(d *trajectory.DistanceMatrix, p int, indices []int) float64 {
	n := len(indices)
	if n == 0 {
		return math.NaN()
	}
	sum := 0.0
	for _, i := range indices {
		v := d.At(p, i)
		sum += v * v
	}
	sq := sum/float64(n) - SumOfSquares(d, indices)/float64(n)
	return math.Sqrt(math.Max(0, sq))
}
