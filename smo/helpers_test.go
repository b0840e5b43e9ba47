package smo

import (
	"testing"

	"github.com/stretchr/testify/require"
)

// separableX holds two well separated clusters: rows 0-5 negative, rows 6-11 positive.
var separableX = [][]float64{
	{1, 2}, {2, 1}, {1, 1}, {2, 2}, {0, 1}, {1, 0},
	{5, 5}, {6, 5}, {5, 6}, {6, 6}, {7, 5}, {5, 7},
}

var separableY = []float64{-1, -1, -1, -1, -1, -1, 1, 1, 1, 1, 1, 1}

func mustProblem(t *testing.T, x [][]float64, y []float64) *Problem {
	t.Helper()
	prob, err := NewProblem(x, y)
	require.NoError(t, err)
	return prob
}

func mustTrain(t *testing.T, prob *Problem, param *Parameter) *Model {
	t.Helper()
	model, err := Train(prob, param)
	require.NoError(t, err)
	return model
}

func dualSum(model *Model) float64 {
	var sum float64
	for i, a := range model.Alpha {
		sum += a * model.Y[i]
	}
	return sum
}
