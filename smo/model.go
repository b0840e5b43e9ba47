package smo

import (
	"runtime"

	"golang.org/x/sync/errgroup"
	"gonum.org/v1/gonum/floats"
	"gonum.org/v1/gonum/mat"
)

// minParallelRows is the batch size below which non-linear scoring stays on one goroutine.
const minParallelRows = 256

// Model is a trained binary classifier. It is read-only once Train returns and
// may be shared between goroutines.
type Model struct {
	Alpha       []float64  // dual variables, one per row of X
	Bias        float64    // b
	X           *mat.Dense // training rows (only the support vectors for a loaded model)
	Y           []float64  // labels of X encoded to {-1, +1}
	Label       [2]float64 // raw class labels: {negative, positive}
	NumFeatures int
	KernelType  *KernelType
	C           float64
	Tol         float64

	Iterations int         // sweeps performed
	Updates    int         // committed pairwise updates
	Skipped    SkipReasons // abandoned pairwise updates
	Converged  bool        // KKT conditions held within Tol when training stopped
}

// DecisionValue returns sum_i alpha_i y_i K(x_i, x) + b.
func (model *Model) DecisionValue(x []float64) (float64, error) {
	if len(x) != model.NumFeatures {
		return 0, &DimensionMismatchError{Expected: model.NumFeatures, Actual: len(x)}
	}
	return model.decisionValue(x), nil
}

func (model *Model) decisionValue(x []float64) float64 {
	kernel := model.KernelType.Kernel()
	sum := model.Bias
	for i, a := range model.Alpha {
		if a == 0 {
			continue
		}
		sum += a * model.Y[i] * kernel(model.X.RawRowView(i), x)
	}
	return sum
}

// Predict returns the positive label when the decision value of x is >= 0, else the negative one.
func (model *Model) Predict(x []float64) (float64, error) {
	v, err := model.DecisionValue(x)
	if err != nil {
		return 0, err
	}
	return model.label(v), nil
}

func (model *Model) label(decValue float64) float64 {
	if decValue >= 0 {
		return model.Label[1]
	}
	return model.Label[0]
}

// DecisionValues scores every row of q. For the linear kernel the support
// vectors are folded into one weight vector first.
func (model *Model) DecisionValues(q mat.Matrix) ([]float64, error) {
	m, n := q.Dims()
	if n != model.NumFeatures {
		return nil, &DimensionMismatchError{Expected: model.NumFeatures, Actual: n}
	}

	if model.KernelType.IsLinear() {
		w, _ := model.Weights()
		dec := mat.NewVecDense(m, nil)
		dec.MulVec(q, mat.NewVecDense(n, w))
		out := dec.RawVector().Data
		floats.AddConst(model.Bias, out)
		return out, nil
	}

	rows := mat.DenseCopyOf(q)
	out := make([]float64, m)

	if m < minParallelRows {
		for i := range out {
			out[i] = model.decisionValue(rows.RawRowView(i))
		}
		return out, nil
	}

	workers := runtime.GOMAXPROCS(0)
	chunk := (m + workers - 1) / workers

	var g errgroup.Group
	g.SetLimit(workers)
	for start := 0; start < m; start += chunk {
		start, end := start, start+chunk
		if end > m {
			end = m
		}
		g.Go(func() error {
			for i := start; i < end; i++ {
				out[i] = model.decisionValue(rows.RawRowView(i))
			}
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}

	return out, nil
}

// PredictBatch predicts a label for every row of q.
func (model *Model) PredictBatch(q mat.Matrix) ([]float64, error) {
	dec, err := model.DecisionValues(q)
	if err != nil {
		return nil, err
	}
	for i, v := range dec {
		dec[i] = model.label(v)
	}
	return dec, nil
}

// Weights folds the model into the primal weight vector w = sum_i alpha_i y_i x_i.
// It reports false for kernels that have no such vector.
func (model *Model) Weights() ([]float64, bool) {
	if !model.KernelType.IsLinear() {
		return nil, false
	}
	w := make([]float64, model.NumFeatures)
	for i, a := range model.Alpha {
		if a == 0 {
			continue
		}
		floats.AddScaled(w, a*model.Y[i], model.X.RawRowView(i))
	}
	return w, true
}

// SupportVectors returns the indices of the rows whose multiplier is positive.
func (model *Model) SupportVectors() []int {
	var sv []int
	for i, a := range model.Alpha {
		if a > svEpsilon {
			sv = append(sv, i)
		}
	}
	return sv
}

// NumSV returns the number of support vectors
func (model *Model) NumSV() int {
	return len(model.SupportVectors())
}
