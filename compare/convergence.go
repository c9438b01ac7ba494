package compare

import (
	"fmt"
	"math"

	"gonum.org/v1/gonum/stat"
	"gonum.org/v1/gonum/stat/distuv"

	"github.com/ecodyn/ecotraj/trajectory"
)

// ConvergenceMode selects the convergence/divergence trend test variant.
type ConvergenceMode string

const (
	// PairwiseSymmetric tests the trend of point-to-point distances between
	// the matched states of two synchronous trajectories. Requires full
	// synchrony.
	PairwiseSymmetric ConvergenceMode = "pairwise.symmetric"

	// PairwiseAsymmetric tests the trend of the distances from one
	// trajectory's points to the nearest point of the other. Usable on
	// non-synchronous data; results are directed.
	PairwiseAsymmetric ConvergenceMode = "pairwise.asymmetric"

	// Multiple tests, per entity, the trend of the mean cross-entity
	// distance at each shared survey time. Requires full synchrony.
	Multiple ConvergenceMode = "multiple"
)

// ConvergenceOptions configures Convergence.
type ConvergenceOptions struct {
	// Mode selects the test variant. Default: PairwiseSymmetric.
	Mode ConvergenceMode
}

// TrendRow is one Mann-Kendall trend test result. Tau > 0 indicates
// divergence (distances grow with time), tau < 0 convergence.
type TrendRow struct {
	Entity string  `json:"entity"`
	Versus string  `json:"versus"` // other entity, or "all" in Multiple mode
	Tau    float64 `json:"tau"`
	PValue float64 `json:"p_value"` // two-sided, normal approximation
	N      int     `json:"n"`       // series length
}

// Convergence runs the selected trend test over the distance time series of
// the collection's trajectories. Modes requiring synchrony fail with
// trajectory.ErrSynchronyRequired on non-synchronous collections.
func Convergence(tc *trajectory.Collection, opts *ConvergenceOptions) ([]TrendRow, error) {
	if opts == nil {
		opts = &ConvergenceOptions{}
	}
	mode := opts.Mode
	if mode == "" {
		mode = PairwiseSymmetric
	}

	entities := tc.Entities()
	if len(entities) < 2 {
		return nil, fmt.Errorf("%w: need at least two entities", trajectory.ErrEmptySelection)
	}

	switch mode {
	case PairwiseSymmetric:
		if !tc.IsSynchronous() {
			return nil, fmt.Errorf("%w: mode %q", trajectory.ErrSynchronyRequired, mode)
		}
		return pairwiseSymmetric(tc, entities), nil
	case PairwiseAsymmetric:
		return pairwiseAsymmetric(tc, entities), nil
	case Multiple:
		if !tc.IsSynchronous() {
			return nil, fmt.Errorf("%w: mode %q", trajectory.ErrSynchronyRequired, mode)
		}
		return multiple(tc, entities), nil
	default:
		return nil, fmt.Errorf("unknown convergence mode %q", mode)
	}
}

func pairwiseSymmetric(tc *trajectory.Collection, entities []string) []TrendRow {
	times := tc.Times(entities[0])
	var out []TrendRow
	for i := 0; i < len(entities); i++ {
		a := tc.Indices(entities[i])
		for j := i + 1; j < len(entities); j++ {
			b := tc.Indices(entities[j])
			series := make([]float64, len(a))
			for k := range a {
				series[k] = tc.Distance(a[k], b[k])
			}
			row := TrendRow{Entity: entities[i], Versus: entities[j], N: len(series)}
			row.Tau, row.PValue = mannKendall(times, series)
			out = append(out, row)
		}
	}
	return out
}

func pairwiseAsymmetric(tc *trajectory.Collection, entities []string) []TrendRow {
	d := tc.Matrix()
	var out []TrendRow
	for _, from := range entities {
		a := tc.Indices(from)
		times := tc.Times(from)
		for _, to := range entities {
			if to == from {
				continue
			}
			b := tc.Indices(to)
			series := make([]float64, len(a))
			for k, i := range a {
				series[k] = nearestPointDistance(d, i, b)
			}
			row := TrendRow{Entity: from, Versus: to, N: len(series)}
			row.Tau, row.PValue = mannKendall(times, series)
			out = append(out, row)
		}
	}
	return out
}

func multiple(tc *trajectory.Collection, entities []string) []TrendRow {
	times := tc.Times(entities[0])
	indices := make(map[string][]int, len(entities))
	for _, e := range entities {
		indices[e] = tc.Indices(e)
	}

	var out []TrendRow
	for _, e := range entities {
		a := indices[e]
		series := make([]float64, len(a))
		for k := range a {
			sum := 0.0
			for _, other := range entities {
				if other == e {
					continue
				}
				sum += tc.Distance(a[k], indices[other][k])
			}
			series[k] = sum / float64(len(entities)-1)
		}
		row := TrendRow{Entity: e, Versus: "all", N: len(series)}
		row.Tau, row.PValue = mannKendall(times, series)
		out = append(out, row)
	}
	return out
}

// mannKendall returns Kendall's tau between times and values plus the
// two-sided p-value under the normal approximation
//
//	z = 3*tau*sqrt(n*(n-1)) / sqrt(2*(2n+5))
//
// Series shorter than three observations yield NaN.
func mannKendall(times, values []float64) (tau, p float64) {
	n := len(values)
	if n < 3 {
		return math.NaN(), math.NaN()
	}
	tau = stat.Kendall(times, values, nil)
	if math.IsNaN(tau) {
		return tau, math.NaN()
	}
	nf := float64(n)
	z := 3 * tau * math.Sqrt(nf*(nf-1)) / math.Sqrt(2*(2*nf+5))
	p = 2 * (1 - distuv.UnitNormal.CDF(math.Abs(z)))
	return tau, p
}
