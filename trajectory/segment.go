package trajectory

// Segment is a directed pair of consecutive states within one trajectory, in
// survey order. Segments are computed on demand from the observation table;
// every derived quantity (length, direction) is expressed through the
// dissimilarity matrix.
type Segment struct {
	Entity    string  `json:"entity"`
	Ordinal   int     `json:"ordinal"` // 1-based segment number within the entity
	Start     int     `json:"start"`   // matrix index of the segment start
	End       int     `json:"end"`     // matrix index of the segment end
	StartTime float64 `json:"start_time"`
	EndTime   float64 `json:"end_time"`
}

// Segments returns the directed segments of one entity's trajectory in
// survey order, or nil for an unknown entity or a single-state trajectory.
func (c *Collection) Segments(entity string) []Segment {
	indices, ok := c.byEntity[entity]
	if !ok || len(indices) < 2 {
		return nil
	}
	segs := make([]Segment, 0, len(indices)-1)
	for k := 0; k+1 < len(indices); k++ {
		segs = append(segs, Segment{
			Entity:    entity,
			Ordinal:   k + 1,
			Start:     indices[k],
			End:       indices[k+1],
			StartTime: c.obs[indices[k]].Time,
			EndTime:   c.obs[indices[k+1]].Time,
		})
	}
	return segs
}

// AllSegments returns the directed segments of every trajectory, entities in
// first-appearance order.
func (c *Collection) AllSegments() []Segment {
	var segs []Segment
	for _, e := range c.entities {
		segs = append(segs, c.Segments(e)...)
	}
	return segs
}
