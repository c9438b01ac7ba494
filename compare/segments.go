// Package compare implements multi-trajectory comparison: segment and
// trajectory dissimilarities, temporal shifts, convergence trend tests and
// the dynamic variation decomposition.
package compare

import (
	"fmt"

	"github.com/ecodyn/ecotraj/geom"
	"github.com/ecodyn/ecotraj/logging"
	"github.com/ecodyn/ecotraj/trajectory"
)

// SegmentDistanceMetric selects how two directed segments are compared.
type SegmentDistanceMetric string

const (
	// SegmentEndpoints averages the start-start and end-end distances. It is
	// direction sensitive: a segment and its reversal are generally at a
	// positive distance.
	SegmentEndpoints SegmentDistanceMetric = "endpoints"

	// SegmentEndpointsMean4 averages all four endpoint pair distances,
	// discarding direction.
	SegmentEndpointsMean4 SegmentDistanceMetric = "endpoints-mean4"
)

// SegmentDistancesOptions configures SegmentDistances.
type SegmentDistancesOptions struct {
	// Metric selects the directed-segment metric. Default: SegmentEndpoints.
	Metric SegmentDistanceMetric

	// Workers bounds the number of goroutines filling the matrix. Values
	// above runtime.NumCPU() are capped; <=1 runs sequentially.
	Workers int
}

// SegmentDistanceResult is the full directed-segment by directed-segment
// distance matrix over every trajectory of the collection.
type SegmentDistanceResult struct {
	Segments []trajectory.Segment `json:"segments"`
	Values   [][]float64          `json:"values"`
}

// SegmentDistances computes the pairwise distance between every directed
// segment of every trajectory. This matrix is the basis for the DSPD and
// Hausdorff trajectory distances.
func SegmentDistances(tc *trajectory.Collection, opts *SegmentDistancesOptions) (*SegmentDistanceResult, error) {
	if opts == nil {
		opts = &SegmentDistancesOptions{}
	}
	metric := opts.Metric
	if metric == "" {
		metric = SegmentEndpoints
	}
	if metric != SegmentEndpoints && metric != SegmentEndpointsMean4 {
		return nil, fmt.Errorf("unknown segment distance metric %q", metric)
	}

	segs := tc.AllSegments()
	if len(segs) == 0 {
		return nil, fmt.Errorf("%w: no trajectory has two or more states", trajectory.ErrEmptySelection)
	}

	d := tc.Matrix()
	values := make([][]float64, len(segs))
	for i := range values {
		values[i] = make([]float64, len(segs))
	}
	geom.ForEachRow(len(segs), opts.Workers, func(i int) {
		for j := 0; j < len(segs); j++ {
			if j == i {
				continue
			}
			values[i][j] = segmentDistance(d, segs[i], segs[j], metric)
		}
	})

	logging.Debug("segment distance matrix computed", logging.Fields{
		"segments": len(segs),
		"metric":   string(metric),
	})
	return &SegmentDistanceResult{Segments: segs, Values: values}, nil
}

// segmentDistance compares two directed segments from their endpoint
// distances.
func segmentDistance(d *trajectory.DistanceMatrix, a, b trajectory.Segment, metric SegmentDistanceMetric) float64 {
	ss := d.At(a.Start, b.Start)
	ee := d.At(a.End, b.End)
	if metric == SegmentEndpoints {
		return (ss + ee) / 2
	}
	se := d.At(a.Start, b.End)
	es := d.At(a.End, b.Start)
	return (ss + ee + se + es) / 4
}
