package metrics

import (
	"fmt"

	"github.com/ecodyn/ecotraj/geom"
	"github.com/ecodyn/ecotraj/trajectory"
)

// ProjectionRow reports the orthogonal projection of one observation onto a
// reference trajectory.
type ProjectionRow struct {
	Index     int    `json:"index"`
	Entity    string `json:"entity"`
	Survey    int    `json:"survey"`
	Reference string `json:"reference"`

	geom.Projection
}

// Project orthogonally projects arbitrary observations onto the reference
// entity's trajectory and reports each state's relative position along it.
// Out-of-range projections clamp to the nearest trajectory end and are
// flagged, never extrapolated.
func Project(tc *trajectory.Collection, reference string, points []int) ([]ProjectionRow, error) {
	path := tc.Indices(reference)
	if path == nil {
		return nil, fmt.Errorf("%w: unknown reference entity %q", trajectory.ErrEmptySelection, reference)
	}

	out := make([]ProjectionRow, 0, len(points))
	for _, p := range points {
		if p < 0 || p >= tc.Len() {
			return nil, fmt.Errorf("%w: observation index %d out of range", trajectory.ErrDimensionMismatch, p)
		}
		proj, err := geom.ProjectPoint(tc.Matrix(), p, path)
		if err != nil {
			return nil, err
		}
		o := tc.Observation(p)
		out = append(out, ProjectionRow{
			Index:      p,
			Entity:     o.Entity,
			Survey:     o.Survey,
			Reference:  reference,
			Projection: proj,
		})
	}
	return out, nil
}

// SelfProjection projects each state of an entity's trajectory onto that
// same trajectory, reporting the relative position of every state along its
// own path.
func SelfProjection(tc *trajectory.Collection, entity string) ([]ProjectionRow, error) {
	indices := tc.Indices(entity)
	if indices == nil {
		return nil, fmt.Errorf("%w: unknown entity %q", trajectory.ErrEmptySelection, entity)
	}
	return Project(tc, entity, indices)
}
