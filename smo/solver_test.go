package smo

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestTrainTwoPointScenario(t *testing.T) {
	prob := mustProblem(t, [][]float64{{0, 0}, {4, 4}}, []float64{-1, 1})
	model := mustTrain(t, prob, NewParameter(LINEAR, 1.0, 1e-4, 1000))

	assert.True(t, model.Converged)
	assert.Equal(t, 3, model.Iterations)
	assert.Equal(t, 2, model.Updates)
	assert.InDelta(t, 0.0625, model.Alpha[0], 1e-12)
	assert.InDelta(t, 0.0625, model.Alpha[1], 1e-12)
	assert.InDelta(t, -1.0, model.Bias, 1e-12)

	v, err := model.DecisionValue([]float64{2, 2})
	require.NoError(t, err)
	assert.InDelta(t, 0.0, v, 1e-9)

	label, err := model.Predict([]float64{0, 0})
	require.NoError(t, err)
	assert.Equal(t, -1.0, label)

	label, err = model.Predict([]float64{4, 4})
	require.NoError(t, err)
	assert.Equal(t, 1.0, label)

	assert.Equal(t, []int{0, 1}, model.SupportVectors())
}

func TestTrainTwoPointsBothSupportVectors(t *testing.T) {
	prob := mustProblem(t, [][]float64{{1, 1}, {2, 3}}, []float64{-1, 1})
	model := mustTrain(t, prob, DefaultParameter())

	assert.True(t, model.Converged)
	assert.LessOrEqual(t, model.Iterations, 3)
	assert.Greater(t, model.Alpha[0], 0.0)
	assert.Greater(t, model.Alpha[1], 0.0)
	assert.InDelta(t, 0.4, model.Alpha[0], 1e-9)
	assert.InDelta(t, -2.2, model.Bias, 1e-9)

	// both points sit on the margin
	v, _ := model.DecisionValue([]float64{1, 1})
	assert.InDelta(t, -1.0, v, 1e-9)
	v, _ = model.DecisionValue([]float64{2, 3})
	assert.InDelta(t, 1.0, v, 1e-9)
}

func TestTrainIdenticalVectorsDoesNotCrash(t *testing.T) {
	prob := mustProblem(t, [][]float64{{1, 1}, {1, 1}, {1, 1}, {1, 1}}, []float64{-1, 1, -1, 1})
	param := NewParameter(LINEAR, 1.0, 1e-4, 50)
	model := mustTrain(t, prob, param)

	assert.False(t, model.Converged)
	assert.Equal(t, 0, model.Updates)
	assert.Equal(t, 4, model.Skipped.Eta)
	assert.Equal(t, 4, model.Skipped.Total())
	// the loop runs while a full sweep is pending or the last sweep changed
	// something, so a first full sweep without progress ends training
	assert.Equal(t, 1, model.Iterations)
	assert.LessOrEqual(t, model.Iterations, param.MaxIter)
	assert.Equal(t, []float64{0, 0, 0, 0}, model.Alpha)
	assert.Equal(t, 0.0, model.Bias)
}

func TestTrainKeepsDualConstraints(t *testing.T) {
	prob := mustProblem(t, separableX, separableY)

	overlapping := append(append([][]float64{}, separableX...), []float64{1.5, 1.5}, []float64{5.5, 5.5})
	noisy := mustProblem(t, overlapping, append(append([]float64{}, separableY...), 1, -1))

	for _, p := range []*Problem{prob, noisy} {
		for _, c := range []float64{0.001, 0.01, 0.1, 1, 10, 100} {
			param := NewParameter(LINEAR, c, 1e-4, 1000)
			model := mustTrain(t, p, param)

			assert.InDelta(t, 0.0, dualSum(model), 1e-9, "C = %g", c)
			for i, a := range model.Alpha {
				assert.GreaterOrEqual(t, a, 0.0, "alpha[%d] with C = %g", i, c)
				assert.LessOrEqual(t, a, c, "alpha[%d] with C = %g", i, c)
			}
			assert.LessOrEqual(t, model.Iterations, param.MaxIter)
		}
	}
}

func TestTrainIsDeterministic(t *testing.T) {
	prob := mustProblem(t, separableX, separableY)
	param := NewParameter(LINEAR, 0.5, 1e-4, 1000)

	first := mustTrain(t, prob, param)
	second := mustTrain(t, prob, param)

	assert.Equal(t, first.Alpha, second.Alpha)
	assert.Equal(t, first.Bias, second.Bias)
	assert.Equal(t, first.Iterations, second.Iterations)

	p1, err := first.PredictBatch(prob.X)
	require.NoError(t, err)
	p2, err := second.PredictBatch(prob.X)
	require.NoError(t, err)
	assert.Equal(t, p1, p2)
}

func TestLargerCDoesNotLowerTrainingAccuracy(t *testing.T) {
	prob := mustProblem(t, separableX, separableY)

	previous := 0.0
	for _, c := range []float64{0.01, 0.1, 1, 10, 100} {
		model := mustTrain(t, prob, NewParameter(LINEAR, c, 1e-4, 1000))
		acc, err := Accuracy(model, prob)
		require.NoError(t, err)

		assert.GreaterOrEqual(t, acc, previous, "C = %g", c)
		previous = acc
	}
	assert.Equal(t, 1.0, previous)
}

func TestTrainStopsAtMaxIter(t *testing.T) {
	overlapping := append(append([][]float64{}, separableX...), []float64{1.5, 1.5}, []float64{5.5, 5.5})
	prob := mustProblem(t, overlapping, append(append([]float64{}, separableY...), 1, -1))

	model := mustTrain(t, prob, NewParameter(LINEAR, 1, 1e-4, 1))
	assert.Equal(t, 1, model.Iterations)
	assert.False(t, model.Converged)
}

func newTestSolver(t *testing.T, x [][]float64, y []float64) *solver {
	t.Helper()
	prob := mustProblem(t, x, y)
	encoded, _, err := encodeLabels(prob.Y)
	require.NoError(t, err)
	return newSolver(prob, encoded, DefaultParameter())
}

func TestKKTSatisfied(t *testing.T) {
	s := newTestSolver(t, [][]float64{{0, 0}, {1, 1}, {2, 2}}, []float64{-1, 1, 1})

	// alpha at zero: margin must reach 1
	s.errCache[0] = 0.5 // y*E = -0.5
	assert.False(t, s.kktSatisfied(0))
	s.errCache[0] = -0.5 // y*E = 0.5
	assert.True(t, s.kktSatisfied(0))

	// free alpha: margin must equal 1 within tol
	s.alpha[1] = 0.5
	s.errCache[1] = 0.5e-4
	assert.True(t, s.kktSatisfied(1))
	s.errCache[1] = 0.1
	assert.False(t, s.kktSatisfied(1))

	// alpha at C: margin may not exceed 1
	s.alpha[2] = s.c
	s.errCache[2] = -0.1
	assert.True(t, s.kktSatisfied(2))
	s.errCache[2] = 0.1
	assert.False(t, s.kktSatisfied(2))
}

func TestSatisfiesKKTChecksEqualityConstraint(t *testing.T) {
	s := newTestSolver(t, [][]float64{{0, 0}, {4, 4}}, []float64{-1, 1})
	s.alpha = []float64{0.0625, 0.0625}
	s.b = -1
	s.refreshErrors()
	assert.True(t, s.satisfiesKKT())

	s.alpha[1] = 0.07
	s.refreshErrors()
	assert.False(t, s.satisfiesKKT())
}

func TestSelectSecond(t *testing.T) {
	s := newTestSolver(t, [][]float64{{0}, {1}, {2}, {3}}, []float64{-1, 1, -1, 1})

	s.errCache = []float64{0.5, -2, 3, -2}
	assert.Equal(t, 1, s.selectSecond(0)) // E1 >= 0: minimum, first on ties

	s.errCache = []float64{-0.5, 3, -2, 3}
	assert.Equal(t, 1, s.selectSecond(0)) // E1 < 0: maximum, first on ties
}

func TestTakeStepDegenerateLeavesStateUntouched(t *testing.T) {
	x := [][]float64{{0, 0}, {1, 0}, {5, 5}, {0, 0}}
	y := []float64{-1, -1, 1, 1}

	cases := []struct {
		name   string
		i1, i2 int
		want   SkipReasons
	}{
		{"eta", 0, 3, SkipReasons{Eta: 1}},
		{"bounds", 0, 1, SkipReasons{Bounds: 1}},
		{"step", 0, 2, SkipReasons{Step: 1}},
	}

	for _, tc := range cases {
		s := newTestSolver(t, x, y)
		assert.Equal(t, 0, s.takeStep(tc.i1, tc.i2), tc.name)
		assert.Equal(t, tc.want, s.skipped, tc.name)
		assert.Equal(t, []float64{0, 0, 0, 0}, s.alpha, tc.name)
		assert.Equal(t, []float64{0, 0, 0, 0}, s.errCache, tc.name)
		assert.Equal(t, 0.0, s.b, tc.name)
		assert.Equal(t, 0, s.updates, tc.name)
	}
}

func TestShiftErrorsMatchesRefresh(t *testing.T) {
	prob := mustProblem(t, separableX, separableY)
	y, _, err := encodeLabels(prob.Y)
	require.NoError(t, err)

	s := newSolver(prob, y, NewParameter(LINEAR, 10, 1e-4, 1000))
	for i := 0; i < prob.L; i++ {
		s.examine(i)
	}
	require.Greater(t, s.updates, 1)

	cached := append([]float64(nil), s.errCache...)
	s.refreshErrors()
	assert.InDeltaSlice(t, s.errCache, cached, 1e-9)
}

func TestObjective(t *testing.T) {
	s := newTestSolver(t, [][]float64{{0, 0}, {4, 4}}, []float64{-1, 1})
	assert.Equal(t, 0.0, s.objective())

	s.alpha = []float64{0.0625, 0.0625}
	// 0.125 - 1/2 * 0.0625^2 * 32
	assert.InDelta(t, 0.0625, s.objective(), 1e-12)
}
