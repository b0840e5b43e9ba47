package smo

import (
	"fmt"
	"math"

	"gonum.org/v1/gonum/mat"
)

// Problem holds a dense training set: L samples of N features with their raw labels
type Problem struct {
	L int
	N int
	X *mat.Dense
	Y []float64
}

// NewProblem copies x and y into a Problem after checking their shape and values.
func NewProblem(x [][]float64, y []float64) (*Problem, error) {
	if len(x) == 0 {
		return nil, ErrEmptyProblem
	}
	if len(x) != len(y) {
		return nil, fmt.Errorf("%w: %d rows, %d labels", ErrRowCountMismatch, len(x), len(y))
	}

	n := len(x[0])
	if n == 0 {
		return nil, fmt.Errorf("%w: rows have no features", ErrEmptyProblem)
	}

	data := make([]float64, 0, len(x)*n)
	for i, row := range x {
		if len(row) != n {
			return nil, fmt.Errorf("%w: row %d has %d features, want %d", ErrRaggedRows, i, len(row), n)
		}
		data = append(data, row...)
	}

	return NewProblemFromDense(mat.NewDense(len(x), n, data), y)
}

// NewProblemFromDense wraps an existing matrix. The matrix is not copied and must
// not be modified while a model trained on it is in use.
func NewProblemFromDense(x *mat.Dense, y []float64) (*Problem, error) {
	if x == nil || x.IsEmpty() {
		return nil, ErrEmptyProblem
	}

	l, n := x.Dims()
	prob := &Problem{
		L: l,
		N: n,
		X: x,
		Y: append([]float64(nil), y...),
	}
	if err := prob.validate(); err != nil {
		return nil, err
	}
	return prob, nil
}

// validate checks that L and N describe X, that Y has one label per row and
// that every value is finite. Problems built by hand go through it in Train.
func (prob *Problem) validate() error {
	if prob.X == nil || prob.X.IsEmpty() || prob.L == 0 {
		return ErrEmptyProblem
	}

	l, n := prob.X.Dims()
	if l != prob.L {
		return fmt.Errorf("%w: matrix has %d rows, problem declares %d", ErrRowCountMismatch, l, prob.L)
	}
	if n != prob.N {
		return &DimensionMismatchError{Expected: prob.N, Actual: n}
	}
	if l != len(prob.Y) {
		return fmt.Errorf("%w: %d rows, %d labels", ErrRowCountMismatch, l, len(prob.Y))
	}

	for i := 0; i < l; i++ {
		if j := firstNonFinite(prob.row(i)); j >= 0 {
			return fmt.Errorf("%w: feature %d of row %d", ErrNonFiniteValue, j, i)
		}
	}
	if i := firstNonFinite(prob.Y); i >= 0 {
		return fmt.Errorf("%w: label of row %d", ErrNonFiniteValue, i)
	}
	return nil
}

// row returns sample i without copying
func (prob *Problem) row(i int) []float64 {
	return prob.X.RawRowView(i)
}

// subset builds the problem made of the given sample indices, sharing no storage with prob
func (prob *Problem) subset(indices []int) *Problem {
	x := mat.NewDense(len(indices), prob.N, nil)
	y := make([]float64, len(indices))
	for k, i := range indices {
		x.SetRow(k, prob.row(i))
		y[k] = prob.Y[i]
	}

	return &Problem{
		L: len(indices),
		N: prob.N,
		X: x,
		Y: y,
	}
}

func firstNonFinite(values []float64) int {
	for i, v := range values {
		if math.IsNaN(v) || math.IsInf(v, 0) {
			return i
		}
	}
	return -1
}
