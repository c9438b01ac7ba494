// Package metrics derives single-trajectory geometric descriptors (lengths,
// speeds, angles, directionality, internal variation, projections) from a
// trajectory collection, using pairwise dissimilarities only.
package metrics

import (
	"math"

	"github.com/ecodyn/ecotraj/geom"
	"github.com/ecodyn/ecotraj/trajectory"
)

// EntityLengths reports the segment lengths of one trajectory.
type EntityLengths struct {
	Entity   string    `json:"entity"`
	Segments []float64 `json:"segments"` // consecutive segment lengths in survey order
	Total    float64   `json:"total"`
}

// Lengths computes per-segment and total path lengths for every trajectory,
// entities in first-appearance order. Single-state trajectories report no
// segments and a zero total.
func Lengths(tc *trajectory.Collection) []EntityLengths {
	d := tc.Matrix()
	out := make([]EntityLengths, 0, tc.NumEntities())
	for _, e := range tc.Entities() {
		row := EntityLengths{Entity: e}
		for _, seg := range tc.Segments(e) {
			length := geom.SegmentLength(d, seg.Start, seg.End)
			row.Segments = append(row.Segments, length)
			row.Total += length
		}
		out = append(out, row)
	}
	return out
}

// ZeroDurationPolicy selects how a zero time difference is reported where a
// speed is required. The choice is explicit: the engine never silently picks
// one.
type ZeroDurationPolicy string

const (
	// ZeroDurationNA reports NaN for the affected segment (default).
	ZeroDurationNA ZeroDurationPolicy = "na"

	// ZeroDurationInfinite reports +Inf for the affected segment.
	ZeroDurationInfinite ZeroDurationPolicy = "infinite"
)

// SpeedOptions configures Speeds.
type SpeedOptions struct {
	// ZeroDuration selects the reporting policy for zero time differences.
	// Default: ZeroDurationNA.
	ZeroDuration ZeroDurationPolicy
}

// EntitySpeeds reports the segment speeds of one trajectory.
type EntitySpeeds struct {
	Entity   string    `json:"entity"`
	Segments []float64 `json:"segments"` // length / elapsed time per segment
	Total    float64   `json:"total"`    // total length / total elapsed time
}

// Speeds computes per-segment and whole-trajectory speeds. Zero-duration
// segments are reported per the configured policy; the affected cell never
// invalidates the rest of the trajectory's report.
func Speeds(tc *trajectory.Collection, opts *SpeedOptions) []EntitySpeeds {
	if opts == nil {
		opts = &SpeedOptions{}
	}
	zero := math.NaN()
	if opts.ZeroDuration == ZeroDurationInfinite {
		zero = math.Inf(1)
	}

	d := tc.Matrix()
	out := make([]EntitySpeeds, 0, tc.NumEntities())
	for _, e := range tc.Entities() {
		row := EntitySpeeds{Entity: e, Total: math.NaN()}
		total := 0.0
		for _, seg := range tc.Segments(e) {
			length := geom.SegmentLength(d, seg.Start, seg.End)
			total += length
			dt := seg.EndTime - seg.StartTime
			if dt == 0 {
				row.Segments = append(row.Segments, zero)
				continue
			}
			row.Segments = append(row.Segments, length/dt)
		}
		times := tc.Times(e)
		if len(times) >= 2 {
			if duration := times[len(times)-1] - times[0]; duration != 0 {
				row.Total = total / duration
			} else if opts.ZeroDuration == ZeroDurationInfinite {
				row.Total = math.Inf(1)
			}
		}
		out = append(out, row)
	}
	return out
}
