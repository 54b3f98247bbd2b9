// Package matutils implements utility function for working with mat.Matrix
// structs
package matutils

import (
	"fmt"

	"gonum.org/v1/gonum/mat"
)

// Format formats a matrix for printing
func Format(X mat.Matrix) string {
	fa := mat.Formatted(X, mat.Prefix(""), mat.Squeeze())
	return fmt.Sprintf("%v", fa)
}

// Rows returns a rows x cols matrix which uses data as its row-major
// backing. Changes to the matrix are reflected in data and vice versa.
//
// A probability table of shape [N, agents, actions] is viewed as an
// (N * agents) x actions matrix with one categorical distribution
// per row.
func Rows(data []float64, rows, cols int) (*mat.Dense, error) {
	if rows < 1 || cols < 1 {
		return nil, fmt.Errorf("rows: cannot view %v x %v matrix", rows, cols)
	}
	if len(data) != rows*cols {
		return nil, fmt.Errorf("rows: illegal data length \n\twant(%v)"+
			"\n\thave(%v)", rows*cols, len(data))
	}
	return mat.NewDense(rows, cols, data), nil
}

// RowApply returns a vector whose i-th element is fn applied to the
// i-th row of matrix
func RowApply(matrix *mat.Dense, fn func(row []float64) float64) *mat.VecDense {
	r, _ := matrix.Dims()
	out := make([]float64, r)

	for i := 0; i < r; i++ {
		out[i] = fn(matrix.RawRowView(i))
	}
	return mat.NewVecDense(r, out)
}

// RowApply2 returns a vector whose i-th element is fn applied to the
// i-th rows of a and b. Both matrices must have the same dimensions.
func RowApply2(a, b *mat.Dense,
	fn func(rowA, rowB []float64) float64) (*mat.VecDense, error) {
	ar, ac := a.Dims()
	br, bc := b.Dims()
	if ar != br || ac != bc {
		return nil, fmt.Errorf("rowApply2: dimension mismatch "+
			"\n\twant(%v x %v)\n\thave(%v x %v)", ar, ac, br, bc)
	}

	out := make([]float64, ar)
	for i := 0; i < ar; i++ {
		out[i] = fn(a.RawRowView(i), b.RawRowView(i))
	}
	return mat.NewVecDense(ar, out), nil
}
