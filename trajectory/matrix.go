package trajectory

import (
	"fmt"
	"math"

	"gonum.org/v1/gonum/mat"
)

// symmetryTol is the absolute tolerance used to accept d(i,j) vs d(j,i)
// disagreement in input matrices.
const symmetryTol = 1e-9

// DistanceMatrix is a symmetric, zero-diagonal matrix of pairwise
// dissimilarities between ecological states. It is immutable once
// constructed: transformations always produce a new instance.
type DistanceMatrix struct {
	sym *mat.SymDense
}

// DistanceMatrixFromRows builds a DistanceMatrix from a full square matrix.
// The input must be square, symmetric within a small tolerance, have a zero
// diagonal and no negative entries. Values are read from the upper triangle.
func DistanceMatrixFromRows(rows [][]float64) (*DistanceMatrix, error) {
	n := len(rows)
	if n == 0 {
		return nil, fmt.Errorf("%w: empty matrix", ErrInvalidMatrix)
	}
	for i, row := range rows {
		if len(row) != n {
			return nil, fmt.Errorf("%w: row %d has %d columns, want %d", ErrInvalidMatrix, i, len(row), n)
		}
	}

	sym := mat.NewSymDense(n, nil)
	for i := 0; i < n; i++ {
		if rows[i][i] != 0 {
			return nil, fmt.Errorf("%w: nonzero diagonal at %d", ErrInvalidMatrix, i)
		}
		for j := i + 1; j < n; j++ {
			v := rows[i][j]
			if math.IsNaN(v) || v < 0 {
				return nil, fmt.Errorf("%w: invalid value %v at (%d,%d)", ErrInvalidMatrix, v, i, j)
			}
			if math.Abs(v-rows[j][i]) > symmetryTol {
				return nil, fmt.Errorf("%w: asymmetry at (%d,%d): %v vs %v", ErrInvalidMatrix, i, j, v, rows[j][i])
			}
			sym.SetSym(i, j, v)
		}
	}
	return &DistanceMatrix{sym: sym}, nil
}

// DistanceMatrixFromCondensed builds a DistanceMatrix from the strict lower
// triangle in row-major order (the layout of a serialized R "dist" object):
// d(1,0), d(2,0), d(2,1), d(3,0), ...
func DistanceMatrixFromCondensed(n int, lower []float64) (*DistanceMatrix, error) {
	if n <= 0 {
		return nil, fmt.Errorf("%w: need at least one observation", ErrInvalidMatrix)
	}
	want := n * (n - 1) / 2
	if len(lower) != want {
		return nil, fmt.Errorf("%w: condensed length %d, want %d for n=%d", ErrDimensionMismatch, len(lower), want, n)
	}

	sym := mat.NewSymDense(n, nil)
	k := 0
	for i := 1; i < n; i++ {
		for j := 0; j < i; j++ {
			v := lower[k]
			k++
			if math.IsNaN(v) || v < 0 {
				return nil, fmt.Errorf("%w: invalid value %v at (%d,%d)", ErrInvalidMatrix, v, i, j)
			}
			sym.SetSym(j, i, v)
		}
	}
	return &DistanceMatrix{sym: sym}, nil
}

// Len returns the number of observations.
func (m *DistanceMatrix) Len() int {
	return m.sym.SymmetricDim()
}

// At returns the dissimilarity between observations i and j.
func (m *DistanceMatrix) At(i, j int) float64 {
	return m.sym.At(i, j)
}

// Rows returns a defensive copy of the full square matrix.
func (m *DistanceMatrix) Rows() [][]float64 {
	n := m.Len()
	rows := make([][]float64, n)
	for i := range rows {
		rows[i] = make([]float64, n)
		for j := range rows[i] {
			rows[i][j] = m.sym.At(i, j)
		}
	}
	return rows
}

// Submatrix extracts the distances among the given observation indices,
// in the given order.
func (m *DistanceMatrix) Submatrix(indices []int) *DistanceMatrix {
	k := len(indices)
	sym := mat.NewSymDense(k, nil)
	for a := 0; a < k; a++ {
		for b := a + 1; b < k; b++ {
			sym.SetSym(a, b, m.sym.At(indices[a], indices[b]))
		}
	}
	return &DistanceMatrix{sym: sym}
}
