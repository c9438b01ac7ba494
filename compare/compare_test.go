package compare

import (
	"math"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/ecodyn/ecotraj/trajectory"
)

// euclideanRows builds a full Euclidean distance matrix from coordinates.
func euclideanRows(pts [][]float64) [][]float64 {
	n := len(pts)
	rows := make([][]float64, n)
	for i := range rows {
		rows[i] = make([]float64, n)
	}
	for i := 0; i < n; i++ {
		for j := i + 1; j < n; j++ {
			sum := 0.0
			for k := range pts[i] {
				d := pts[i][k] - pts[j][k]
				sum += d * d
			}
			rows[i][j] = math.Sqrt(sum)
			rows[j][i] = rows[i][j]
		}
	}
	return rows
}

func define(t *testing.T, pts [][]float64, entities []string, opts *trajectory.DefineOptions) *trajectory.Collection {
	t.Helper()
	tc, err := trajectory.DefineFromRows(euclideanRows(pts), entities, opts)
	require.NoError(t, err)
	return tc
}

// reversalPair holds a linear trajectory A and entity B visiting the same
// four points in the exact opposite order.
func reversalPair(t *testing.T) *trajectory.Collection {
	return define(t, [][]float64{
		{0, 0}, {0, 1}, {0, 2}, {0, 3}, // A forward
		{0, 3}, {0, 2}, {0, 1}, {0, 0}, // B backward over the same points
	}, []string{"A", "A", "A", "A", "B", "B", "B", "B"}, nil)
}

func TestSegmentDistances(t *testing.T) {
	tc := reversalPair(t)
	res, err := SegmentDistances(tc, nil)
	require.NoError(t, err)
	require.Len(t, res.Segments, 6)
	require.Len(t, res.Values, 6)

	// A segment 1 is (0,0)->(0,1); B segment 3 is (0,1)->(0,0): endpoint
	// metric averages d=1 and d=1.
	require.Equal(t, "A", res.Segments[0].Entity)
	require.Equal(t, "B", res.Segments[5].Entity)
	require.InDelta(t, 1, res.Values[0][5], 1e-9)

	// The undirected four-endpoint metric sees them as identical.
	res4, err := SegmentDistances(tc, &SegmentDistancesOptions{Metric: SegmentEndpointsMean4})
	require.NoError(t, err)
	require.InDelta(t, 0.5, res4.Values[0][5], 1e-9)

	_, err = SegmentDistances(tc, &SegmentDistancesOptions{Metric: "bogus"})
	require.Error(t, err)
}

func TestTrajectoryDistancesReversal(t *testing.T) {
	tc := reversalPair(t)

	// SPD ignores direction: identical point sets are at distance zero.
	spd, err := TrajectoryDistances(tc, &TrajectoryDistancesOptions{Type: SPD})
	require.NoError(t, err)
	v, ok := spd.At("A", "B")
	require.True(t, ok)
	require.InDelta(t, 0, v, 1e-9)

	// DSPD is direction sensitive: the reversal is strictly positive.
	dspd, err := TrajectoryDistances(tc, &TrajectoryDistancesOptions{Type: DSPD})
	require.NoError(t, err)
	v, ok = dspd.At("A", "B")
	require.True(t, ok)
	require.Greater(t, v, 0.0)

	// TSPD compares states at matched times: opposite traversal is positive.
	tspd, err := TrajectoryDistances(tc, &TrajectoryDistancesOptions{Type: TSPD})
	require.NoError(t, err)
	v, ok = tspd.At("A", "B")
	require.True(t, ok)
	require.Greater(t, v, 0.0)
}

func TestTrajectoryDistancesHausdorff(t *testing.T) {
	tc := define(t, [][]float64{
		{0, 0}, {0, 1}, {0, 2},
		{1, 0}, {1, 1}, {1, 5},
	}, []string{"A", "A", "A", "B", "B", "B"}, nil)

	res, err := TrajectoryDistances(tc, &TrajectoryDistancesOptions{Type: Hausdorff})
	require.NoError(t, err)
	v, ok := res.At("A", "B")
	require.True(t, ok)
	require.Greater(t, v, 1.0)
	w, _ := res.At("B", "A")
	require.Equal(t, v, w, "Hausdorff result is symmetric")
}

func TestTrajectoryDistancesTSPDIdentical(t *testing.T) {
	// Two trajectories over the same path and times are at TSPD zero.
	tc := define(t, [][]float64{
		{0, 0}, {0, 1}, {0, 2},
		{0, 0}, {0, 1}, {0, 2},
	}, []string{"A", "A", "A", "B", "B", "B"}, nil)

	res, err := TrajectoryDistances(tc, &TrajectoryDistancesOptions{Type: TSPD})
	require.NoError(t, err)
	v, _ := res.At("A", "B")
	require.InDelta(t, 0, v, 1e-9)
}

func TestTrajectoryDistancesAsymmetric(t *testing.T) {
	tc := define(t, [][]float64{
		{0, 0}, {0, 1}, {0, 2}, {0, 3},
		{1, 0}, {1, 3},
	}, []string{"A", "A", "A", "A", "B", "B"}, nil)

	res, err := TrajectoryDistances(tc, &TrajectoryDistancesOptions{Type: SPD, Symmetrization: SymmetrizeNone})
	require.NoError(t, err)
	ab, _ := res.At("A", "B")
	ba, _ := res.At("B", "A")
	require.NotEqual(t, ab, ba, "raw directed SPD is asymmetric here")
}

func TestShiftsConstantOffset(t *testing.T) {
	// Identical geometry, target delayed by 2 time units; the reference
	// brackets every projection, so every shift is exactly +2.
	tc := define(t, [][]float64{
		{0, 0}, {0, 1}, {0, 2}, {0, 3},
		{0, 0}, {0, 1}, {0, 2}, {0, 3},
	}, []string{"R", "R", "R", "R", "T", "T", "T", "T"}, &trajectory.DefineOptions{
		Times: []float64{0, 1, 2, 3, 2, 3, 4, 5},
	})

	rows, err := Shifts(tc, "R", "T")
	require.NoError(t, err)
	require.Len(t, rows, 4)
	for _, row := range rows {
		require.InDelta(t, 2, row.TimeShift, 1e-9)
		require.InDelta(t, row.Time-2, row.ProjectedTime, 1e-9)
	}
}

func TestShiftsOutOfRange(t *testing.T) {
	// The target's last state lies beyond the reference path.
	tc := define(t, [][]float64{
		{0, 0}, {0, 1}, {0, 2},
		{0, 1}, {0, 5},
	}, []string{"R", "R", "R", "T", "T"}, nil)

	rows, err := Shifts(tc, "R", "T")
	require.NoError(t, err)
	require.False(t, math.IsNaN(rows[0].TimeShift))
	require.True(t, math.IsNaN(rows[1].TimeShift), "no extrapolation past the reference")

	_, err = Shifts(tc, "missing", "T")
	require.ErrorIs(t, err, trajectory.ErrEmptySelection)
}

func TestConvergenceSymmetric(t *testing.T) {
	// B approaches A over time: distances 8,6,4,2 and decreasing.
	tc := define(t, [][]float64{
		{0, 0}, {0, 1}, {0, 2}, {0, 3},
		{8, 0}, {6, 1}, {4, 2}, {2, 3},
	}, []string{"A", "A", "A", "A", "B", "B", "B", "B"}, nil)

	rows, err := Convergence(tc, nil)
	require.NoError(t, err)
	require.Len(t, rows, 1)
	require.InDelta(t, -1, rows[0].Tau, 1e-9, "strictly decreasing distances")
	require.Less(t, rows[0].PValue, 0.05)
	require.Equal(t, 4, rows[0].N)
}

func TestConvergenceSynchronyRequired(t *testing.T) {
	tc := define(t, [][]float64{
		{0, 0}, {0, 1}, {0, 2},
		{1, 0}, {1, 1},
	}, []string{"A", "A", "A", "B", "B"}, nil)

	_, err := Convergence(tc, &ConvergenceOptions{Mode: PairwiseSymmetric})
	require.ErrorIs(t, err, trajectory.ErrSynchronyRequired)
	_, err = Convergence(tc, &ConvergenceOptions{Mode: Multiple})
	require.ErrorIs(t, err, trajectory.ErrSynchronyRequired)

	// The asymmetric mode accepts non-synchronous data.
	rows, err := Convergence(tc, &ConvergenceOptions{Mode: PairwiseAsymmetric})
	require.NoError(t, err)
	require.Len(t, rows, 2, "one row per ordered pair")
}

func TestConvergenceMultiple(t *testing.T) {
	tc := define(t, [][]float64{
		{0, 0}, {0, 1}, {0, 2}, {0, 3},
		{8, 0}, {6, 1}, {4, 2}, {2, 3},
	}, []string{"A", "A", "A", "A", "B", "B", "B", "B"}, nil)

	rows, err := Convergence(tc, &ConvergenceOptions{Mode: Multiple})
	require.NoError(t, err)
	require.Len(t, rows, 2)
	for _, row := range rows {
		require.Equal(t, "all", row.Versus)
		require.InDelta(t, -1, row.Tau, 1e-9)
	}
}

func TestDynamicVariation(t *testing.T) {
	tc := define(t, [][]float64{
		{0, 0}, {0, 1}, {0, 2},
		{1, 0}, {1, 1}, {1, 2},
		{9, 0}, {9, 1}, {9, 2},
	}, []string{"A", "A", "A", "B", "B", "B", "C", "C", "C"}, nil)

	res, err := DynamicVariation(tc, &TrajectoryDistancesOptions{Type: SPD})
	require.NoError(t, err)
	require.Greater(t, res.TotalSumOfSquares, 0.0)
	require.InDelta(t, res.TotalSumOfSquares/2, res.Variance, 1e-9)

	sum := 0.0
	for _, c := range res.Entities {
		sum += c.Relative
	}
	require.InDelta(t, 1, sum, 1e-9)

	// C runs far from the others and contributes the most.
	require.Greater(t, res.Entities[2].SquaredDistance, res.Entities[0].SquaredDistance)
}
