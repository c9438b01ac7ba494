package compare

import (
	"fmt"
	"math"

	"github.com/ecodyn/ecotraj/geom"
	"github.com/ecodyn/ecotraj/trajectory"
)

// ShiftRow reports the temporal shift of one target observation relative to
// a reference trajectory.
type ShiftRow struct {
	Target string  `json:"target"`
	Index  int     `json:"index"`
	Survey int     `json:"survey"`
	Time   float64 `json:"time"`

	// ProjectedTime is the time at which the reference trajectory passes the
	// orthogonal projection of this observation, by linear interpolation
	// along the foot segment. NaN when the projection falls outside the
	// reference (no extrapolation).
	ProjectedTime float64 `json:"projected_time"`

	// TimeShift is Time - ProjectedTime: positive when the target reaches
	// the projected state later than the reference did. NaN when
	// ProjectedTime is NaN.
	TimeShift float64 `json:"time_shift"`
}

// Shifts orthogonally projects every observation of the target trajectory
// onto the reference trajectory and reports the temporal mismatch between
// each observation and its projection.
func Shifts(tc *trajectory.Collection, reference, target string) ([]ShiftRow, error) {
	path := tc.Indices(reference)
	if path == nil {
		return nil, fmt.Errorf("%w: unknown reference entity %q", trajectory.ErrEmptySelection, reference)
	}
	targets := tc.Indices(target)
	if targets == nil {
		return nil, fmt.Errorf("%w: unknown target entity %q", trajectory.ErrEmptySelection, target)
	}
	refTimes := tc.Times(reference)
	d := tc.Matrix()

	out := make([]ShiftRow, 0, len(targets))
	for _, i := range targets {
		o := tc.Observation(i)
		row := ShiftRow{
			Target:        target,
			Index:         i,
			Survey:        o.Survey,
			Time:          o.Time,
			ProjectedTime: math.NaN(),
			TimeShift:     math.NaN(),
		}
		proj, err := geom.ProjectPoint(d, i, path)
		if err != nil {
			return nil, err
		}
		if !proj.OutOfRange {
			s := proj.SegmentIndex
			length := d.At(path[s], path[s+1])
			frac := proj.DistanceOnSegment / length
			row.ProjectedTime = refTimes[s] + frac*(refTimes[s+1]-refTimes[s])
			row.TimeShift = row.Time - row.ProjectedTime
		}
		out = append(out, row)
	}
	return out, nil
}
