package trajectory

import (
	"math"
	"testing"

	"github.com/stretchr/testify/require"
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

func TestDistanceMatrixValidation(t *testing.T) {
	t.Run("asymmetric", func(t *testing.T) {
		_, err := DistanceMatrixFromRows([][]float64{{0, 1}, {2, 0}})
		require.ErrorIs(t, err, ErrInvalidMatrix)
	})
	t.Run("nonzero diagonal", func(t *testing.T) {
		_, err := DistanceMatrixFromRows([][]float64{{1, 1}, {1, 0}})
		require.ErrorIs(t, err, ErrInvalidMatrix)
	})
	t.Run("negative entry", func(t *testing.T) {
		_, err := DistanceMatrixFromRows([][]float64{{0, -1}, {-1, 0}})
		require.ErrorIs(t, err, ErrInvalidMatrix)
	})
	t.Run("ragged", func(t *testing.T) {
		_, err := DistanceMatrixFromRows([][]float64{{0, 1}, {1}})
		require.ErrorIs(t, err, ErrInvalidMatrix)
	})
}

func TestDistanceMatrixFromCondensed(t *testing.T) {
	// 3 points: d(1,0)=1, d(2,0)=2, d(2,1)=3
	d, err := DistanceMatrixFromCondensed(3, []float64{1, 2, 3})
	require.NoError(t, err)
	require.Equal(t, 1.0, d.At(0, 1))
	require.Equal(t, 2.0, d.At(0, 2))
	require.Equal(t, 3.0, d.At(2, 1))
	require.Equal(t, 0.0, d.At(1, 1))

	_, err = DistanceMatrixFromCondensed(3, []float64{1, 2})
	require.ErrorIs(t, err, ErrDimensionMismatch)
}

func TestDefineDefaults(t *testing.T) {
	rows := euclideanRows([][]float64{{0}, {1}, {2}, {10}, {11}})
	tc, err := DefineFromRows(rows, []string{"A", "A", "A", "B", "B"}, nil)
	require.NoError(t, err)

	require.Equal(t, []string{"A", "B"}, tc.Entities())
	require.Equal(t, []int{1, 2, 3}, tc.Surveys("A"))
	require.Equal(t, []float64{1, 2, 3}, tc.Times("A"))
	require.Equal(t, []int{3, 4}, tc.Indices("B"))
	require.Nil(t, tc.Indices("C"))
}

func TestDefineExplicitSurveysAndTimes(t *testing.T) {
	rows := euclideanRows([][]float64{{0}, {1}, {2}})
	// Surveys given out of input order: index 2 is A's first survey.
	tc, err := DefineFromRows(rows, []string{"A", "A", "A"}, &DefineOptions{
		Surveys: []int{2, 3, 1},
		Times:   []float64{5, 9, 2},
	})
	require.NoError(t, err)
	require.Equal(t, []int{2, 0, 1}, tc.Indices("A"))
	require.Equal(t, []float64{2, 5, 9}, tc.Times("A"))
}

func TestDefineErrors(t *testing.T) {
	rows := euclideanRows([][]float64{{0}, {1}, {2}})

	_, err := DefineFromRows(rows, []string{"A", "A"}, nil)
	require.ErrorIs(t, err, ErrDimensionMismatch)

	_, err = DefineFromRows(rows, []string{"A", "A", "A"}, &DefineOptions{Surveys: []int{1, 1, 2}})
	require.ErrorIs(t, err, ErrDuplicateSurvey)

	_, err = DefineFromRows(rows, []string{"A", "A", "A"}, &DefineOptions{Times: []float64{1, 2}})
	require.ErrorIs(t, err, ErrDimensionMismatch)
}

func TestSegments(t *testing.T) {
	rows := euclideanRows([][]float64{{0}, {1}, {3}})
	tc, err := DefineFromRows(rows, []string{"A", "A", "A"}, &DefineOptions{Times: []float64{0, 1, 4}})
	require.NoError(t, err)

	segs := tc.Segments("A")
	require.Len(t, segs, 2)
	require.Equal(t, 1, segs[0].Ordinal)
	require.Equal(t, 0, segs[0].Start)
	require.Equal(t, 1, segs[0].End)
	require.Equal(t, 4.0, segs[1].EndTime)

	require.Nil(t, tc.Segments("missing"))
	require.Len(t, tc.AllSegments(), 2)
}

func TestIsSynchronous(t *testing.T) {
	rows := euclideanRows([][]float64{{0}, {1}, {10}, {11}})

	tc, err := DefineFromRows(rows, []string{"A", "A", "B", "B"}, &DefineOptions{
		Times: []float64{0, 1, 0, 1},
	})
	require.NoError(t, err)
	require.True(t, tc.IsSynchronous())

	tc, err = DefineFromRows(rows, []string{"A", "A", "B", "B"}, &DefineOptions{
		Times: []float64{0, 1, 0, 2},
	})
	require.NoError(t, err)
	require.False(t, tc.IsSynchronous())

	tc, err = DefineFromRows(rows, []string{"A", "A", "A", "B"}, nil)
	require.NoError(t, err)
	require.False(t, tc.IsSynchronous())
}

func TestSubset(t *testing.T) {
	rows := euclideanRows([][]float64{{0}, {1}, {2}, {10}, {11}, {12}})
	tc, err := DefineFromRows(rows, []string{"A", "A", "A", "B", "B", "B"}, &DefineOptions{
		Times: []float64{0, 5, 9, 0, 5, 9},
	})
	require.NoError(t, err)

	t.Run("entity selection", func(t *testing.T) {
		sub, err := tc.Subset(&SubsetOptions{Entities: []string{"B"}})
		require.NoError(t, err)
		require.Equal(t, []string{"B"}, sub.Entities())
		require.Equal(t, 3, sub.Len())
		require.Equal(t, 1.0, sub.Distance(0, 1))
	})

	t.Run("survey selection renumbers densely and keeps times", func(t *testing.T) {
		sub, err := tc.Subset(&SubsetOptions{Surveys: []int{1, 3}})
		require.NoError(t, err)
		require.Equal(t, 4, sub.Len())
		require.Equal(t, []int{1, 2}, sub.Surveys("A"))
		require.Equal(t, []float64{0, 9}, sub.Times("A"))
		require.Equal(t, 2.0, sub.Distance(0, 1)) // |0-2|
	})

	t.Run("unknown entity", func(t *testing.T) {
		_, err := tc.Subset(&SubsetOptions{Entities: []string{"Z"}})
		require.ErrorIs(t, err, ErrEmptySelection)
	})

	t.Run("absent survey", func(t *testing.T) {
		_, err := tc.Subset(&SubsetOptions{Surveys: []int{7}})
		require.ErrorIs(t, err, ErrEmptySelection)
	})
}

func TestWithMatrix(t *testing.T) {
	rows := euclideanRows([][]float64{{0}, {1}})
	tc, err := DefineFromRows(rows, []string{"A", "A"}, nil)
	require.NoError(t, err)

	d2, err := DistanceMatrixFromRows([][]float64{{0, 5}, {5, 0}})
	require.NoError(t, err)
	tc2, err := tc.WithMatrix(d2)
	require.NoError(t, err)
	require.Equal(t, 5.0, tc2.Distance(0, 1))
	require.Equal(t, 1.0, tc.Distance(0, 1), "original collection untouched")

	d3, err := DistanceMatrixFromRows(euclideanRows([][]float64{{0}, {1}, {2}}))
	require.NoError(t, err)
	_, err = tc.WithMatrix(d3)
	require.ErrorIs(t, err, ErrDimensionMismatch)
}
