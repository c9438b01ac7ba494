package trajectory

import (
	"fmt"
	"sort"
)

// Observation is one ecological state: an entity observed at one survey and
// time, represented only through its row in the dissimilarity matrix.
type Observation struct {
	Index  int     `json:"index"`  // 0-based position in the dissimilarity matrix
	Entity string  `json:"entity"` // groups observations into a trajectory
	Survey int     `json:"survey"` // within-entity ordering, 1-based
	Time   float64 `json:"time"`
}

// Collection binds a DistanceMatrix to per-observation metadata and derived
// per-entity index sets. It is the unit operated on by all metrics and
// transformations. Collections are immutable: transformations return fresh
// instances and metrics only read.
type Collection struct {
	d        *DistanceMatrix
	obs      []Observation
	entities []string         // first-appearance order
	byEntity map[string][]int // survey-ordered matrix indices
}

// DefineOptions carries the optional survey and time vectors for Define.
type DefineOptions struct {
	// Surveys gives the within-entity ordering of each observation. When nil,
	// surveys default to the rank of appearance per entity in input order
	// (1-based).
	Surveys []int

	// Times gives the observation time of each observation. When nil, times
	// default to the survey index.
	Times []float64
}

// Define binds a dissimilarity matrix to parallel entity/survey/time vectors
// and builds the trajectory collection. The three-way defaulting chain
// (surveys from input order, times from surveys) is resolved here, once; all
// fields are always populated afterwards.
func Define(d *DistanceMatrix, entities []string, opts *DefineOptions) (*Collection, error) {
	if d == nil {
		return nil, fmt.Errorf("%w: nil dissimilarity matrix", ErrInvalidMatrix)
	}
	n := d.Len()
	if len(entities) != n {
		return nil, fmt.Errorf("%w: %d entity ids for %d observations", ErrDimensionMismatch, len(entities), n)
	}
	if opts == nil {
		opts = &DefineOptions{}
	}
	if opts.Surveys != nil && len(opts.Surveys) != n {
		return nil, fmt.Errorf("%w: %d surveys for %d observations", ErrDimensionMismatch, len(opts.Surveys), n)
	}
	if opts.Times != nil && len(opts.Times) != n {
		return nil, fmt.Errorf("%w: %d times for %d observations", ErrDimensionMismatch, len(opts.Times), n)
	}

	obs := make([]Observation, n)
	rank := make(map[string]int)
	for i := 0; i < n; i++ {
		e := entities[i]
		rank[e]++
		survey := rank[e]
		if opts.Surveys != nil {
			survey = opts.Surveys[i]
		}
		t := float64(survey)
		if opts.Times != nil {
			t = opts.Times[i]
		}
		obs[i] = Observation{Index: i, Entity: e, Survey: survey, Time: t}
	}

	c := &Collection{d: d, obs: obs}
	if err := c.index(); err != nil {
		return nil, err
	}
	return c, nil
}

// DefineFromRows is a convenience wrapper building the DistanceMatrix from a
// full square matrix before calling Define.
func DefineFromRows(rows [][]float64, entities []string, opts *DefineOptions) (*Collection, error) {
	d, err := DistanceMatrixFromRows(rows)
	if err != nil {
		return nil, err
	}
	return Define(d, entities, opts)
}

// index rebuilds the per-entity derived structures, validating survey
// uniqueness and within-entity ordering.
func (c *Collection) index() error {
	c.entities = c.entities[:0]
	c.byEntity = make(map[string][]int)
	for _, o := range c.obs {
		if _, seen := c.byEntity[o.Entity]; !seen {
			c.entities = append(c.entities, o.Entity)
		}
		c.byEntity[o.Entity] = append(c.byEntity[o.Entity], o.Index)
	}
	for e, indices := range c.byEntity {
		sort.SliceStable(indices, func(a, b int) bool {
			return c.obs[indices[a]].Survey < c.obs[indices[b]].Survey
		})
		for k := 1; k < len(indices); k++ {
			if c.obs[indices[k]].Survey == c.obs[indices[k-1]].Survey {
				return fmt.Errorf("%w: entity %q has survey %d twice", ErrDuplicateSurvey, e, c.obs[indices[k]].Survey)
			}
		}
	}
	return nil
}

// WithMatrix returns a new collection sharing this collection's metadata but
// bound to a different dissimilarity matrix of the same size. Used by
// transformations that rewrite distances without touching metadata.
func (c *Collection) WithMatrix(d *DistanceMatrix) (*Collection, error) {
	if d.Len() != len(c.obs) {
		return nil, fmt.Errorf("%w: matrix has %d observations, collection has %d", ErrDimensionMismatch, d.Len(), len(c.obs))
	}
	obs := make([]Observation, len(c.obs))
	copy(obs, c.obs)
	nc := &Collection{d: d, obs: obs}
	if err := nc.index(); err != nil {
		return nil, err
	}
	return nc, nil
}

// Matrix returns the collection's dissimilarity matrix.
func (c *Collection) Matrix() *DistanceMatrix { return c.d }

// Distance returns the dissimilarity between observations i and j.
func (c *Collection) Distance(i, j int) float64 { return c.d.At(i, j) }

// Len returns the number of observations.
func (c *Collection) Len() int { return len(c.obs) }

// NumEntities returns the number of distinct entities.
func (c *Collection) NumEntities() int { return len(c.entities) }

// Entities returns the entity identifiers in first-appearance order.
func (c *Collection) Entities() []string {
	out := make([]string, len(c.entities))
	copy(out, c.entities)
	return out
}

// HasEntity reports whether the collection contains the entity.
func (c *Collection) HasEntity(entity string) bool {
	_, ok := c.byEntity[entity]
	return ok
}

// Observation returns the metadata of observation i.
func (c *Collection) Observation(i int) Observation { return c.obs[i] }

// Observations returns a copy of the full observation table in matrix order.
func (c *Collection) Observations() []Observation {
	out := make([]Observation, len(c.obs))
	copy(out, c.obs)
	return out
}

// Indices returns the survey-ordered matrix indices of an entity's states,
// or nil for an unknown entity.
func (c *Collection) Indices(entity string) []int {
	src, ok := c.byEntity[entity]
	if !ok {
		return nil
	}
	out := make([]int, len(src))
	copy(out, src)
	return out
}

// Times returns the survey-ordered observation times of an entity, or nil
// for an unknown entity.
func (c *Collection) Times(entity string) []float64 {
	src, ok := c.byEntity[entity]
	if !ok {
		return nil
	}
	out := make([]float64, len(src))
	for k, i := range src {
		out[k] = c.obs[i].Time
	}
	return out
}

// Surveys returns the sorted survey indices of an entity, or nil for an
// unknown entity.
func (c *Collection) Surveys(entity string) []int {
	src, ok := c.byEntity[entity]
	if !ok {
		return nil
	}
	out := make([]int, len(src))
	for k, i := range src {
		out[k] = c.obs[i].Survey
	}
	return out
}

// IsSynchronous reports whether every entity has the same number of
// observations and identical time values at each matched survey rank.
// Several comparison metrics require this property; it is recomputed on each
// call rather than cached.
func (c *Collection) IsSynchronous() bool {
	if len(c.entities) == 0 {
		return false
	}
	ref := c.Times(c.entities[0])
	for _, e := range c.entities[1:] {
		ts := c.Times(e)
		if len(ts) != len(ref) {
			return false
		}
		for k := range ts {
			if ts[k] != ref[k] {
				return false
			}
		}
	}
	return true
}

// SubsetOptions selects entities and/or surveys for Subset.
type SubsetOptions struct {
	// Entities limits the subset to the named entities. Nil keeps all.
	Entities []string

	// Surveys limits each selected entity to the named survey indices
	// (matched against the original survey values). Nil keeps all.
	Surveys []int
}

// Subset returns a new collection restricted to the selected entities and
// surveys. Survey indices are renumbered to a dense 1..k sequence per entity;
// time values are preserved unchanged. Fails with ErrEmptySelection when the
// result would be empty or a named entity/survey is absent from the
// selection.
func (c *Collection) Subset(opts *SubsetOptions) (*Collection, error) {
	if opts == nil {
		opts = &SubsetOptions{}
	}

	keepEntity := func(string) bool { return true }
	if opts.Entities != nil {
		set := make(map[string]bool, len(opts.Entities))
		for _, e := range opts.Entities {
			if !c.HasEntity(e) {
				return nil, fmt.Errorf("%w: unknown entity %q", ErrEmptySelection, e)
			}
			set[e] = true
		}
		keepEntity = func(e string) bool { return set[e] }
	}

	keepSurvey := func(int) bool { return true }
	var surveySeen map[int]bool
	if opts.Surveys != nil {
		set := make(map[int]bool, len(opts.Surveys))
		for _, s := range opts.Surveys {
			set[s] = true
		}
		surveySeen = make(map[int]bool, len(set))
		keepSurvey = func(s int) bool { return set[s] }
	}

	var kept []int
	for _, o := range c.obs {
		if keepEntity(o.Entity) && keepSurvey(o.Survey) {
			kept = append(kept, o.Index)
			if surveySeen != nil {
				surveySeen[o.Survey] = true
			}
		}
	}
	if len(kept) == 0 {
		return nil, fmt.Errorf("%w: no observations match the selection", ErrEmptySelection)
	}
	if opts.Surveys != nil {
		for _, s := range opts.Surveys {
			if !surveySeen[s] {
				return nil, fmt.Errorf("%w: survey %d absent from selected entities", ErrEmptySelection, s)
			}
		}
	}

	entities := make([]string, len(kept))
	times := make([]float64, len(kept))
	oldSurveys := make([]int, len(kept))
	for k, i := range kept {
		entities[k] = c.obs[i].Entity
		times[k] = c.obs[i].Time
		oldSurveys[k] = c.obs[i].Survey
	}

	// Renumber surveys densely per entity, preserving the original order.
	surveys := make([]int, len(kept))
	type entityPos struct {
		pos    int
		survey int
	}
	perEntity := make(map[string][]entityPos)
	for k := range kept {
		perEntity[entities[k]] = append(perEntity[entities[k]], entityPos{pos: k, survey: oldSurveys[k]})
	}
	for _, positions := range perEntity {
		sort.Slice(positions, func(a, b int) bool { return positions[a].survey < positions[b].survey })
		for rank, p := range positions {
			surveys[p.pos] = rank + 1
		}
	}

	return Define(c.d.Submatrix(kept), entities, &DefineOptions{Surveys: surveys, Times: times})
}
