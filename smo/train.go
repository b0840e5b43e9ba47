package smo

import (
	"fmt"
	"math"
	"math/rand"
)

// Train fits a soft-margin SVM to prob with SMO. Malformed input is rejected
// before any solver state is allocated. Running out of sweeps is not an error:
// the returned model carries the best multipliers found and Converged = false.
func Train(prob *Problem, param *Parameter) (*Model, error) {
	if err := param.Validate(); err != nil {
		return nil, err
	}
	if prob == nil {
		return nil, ErrEmptyProblem
	}
	if err := prob.validate(); err != nil {
		return nil, err
	}

	y, label, err := encodeLabels(prob.Y)
	if err != nil {
		return nil, err
	}

	s := newSolver(prob, y, param)
	s.solve()

	model := &Model{
		Alpha:       s.alpha,
		Bias:        s.b,
		X:           prob.X,
		Y:           y,
		Label:       label,
		NumFeatures: prob.N,
		KernelType:  param.KernelType,
		C:           param.C,
		Tol:         param.Tol,
		Iterations:  s.iter,
		Updates:     s.updates,
		Skipped:     s.skipped,
		Converged:   s.satisfiesKKT(),
	}

	logf("[solve] optimization finished, #iter = %d, #updates = %d, #skipped = %d\n", s.iter, s.updates, s.skipped.Total())
	if s.iter >= s.maxIter {
		logf("[solve] WARNING: reaching max number of iterations\n")
	}
	if !model.Converged {
		logf("[solve] WARNING: KKT conditions not satisfied within tol = %g\n", s.tol)
	}
	logf("[solve] Objective value = %g\n", s.objective())
	logf("[solve] nSV = %d\n", model.NumSV())

	return model, nil
}

// Accuracy returns the share of samples in prob whose label model predicts correctly.
func Accuracy(model *Model, prob *Problem) (float64, error) {
	pred, err := model.PredictBatch(prob.X)
	if err != nil {
		return 0, err
	}
	correct := 0
	for i, p := range pred {
		if p == prob.Y[i] {
			correct++
		}
	}
	return float64(correct) / float64(prob.L), nil
}

// CrossValidation trains on nrFold-1 folds and predicts the held-out fold,
// writing the prediction of sample i to target[i]. Folds are drawn from a
// fixed-seed shuffle, so repeated calls on the same input agree.
func CrossValidation(prob *Problem, param *Parameter, nrFold int, target []float64) error {
	if prob == nil {
		return ErrEmptyProblem
	}
	if err := prob.validate(); err != nil {
		return err
	}
	l := prob.L
	if nrFold < 2 {
		return fmt.Errorf("%w: n-fold cross validation needs n >= 2, got %d", ErrInvalidParameter, nrFold)
	}
	if len(target) != l {
		return fmt.Errorf("%w: target has %d entries, want %d", ErrRowCountMismatch, len(target), l)
	}
	if nrFold > l {
		nrFold = l
		logf("WARNING: # folds > # data. Will use # folds = # data instead (i.e., leave-one-out cross validation)\n")
	}
	if nrFold < 2 {
		return fmt.Errorf("%w: cross validation needs at least 2 samples, got %d", ErrInvalidParameter, l)
	}

	rng := rand.New(rand.NewSource(0))
	perm := rng.Perm(l)

	foldStart := make([]int, nrFold+1)
	for i := 0; i <= nrFold; i++ {
		foldStart[i] = i * l / nrFold
	}

	for i := 0; i < nrFold; i++ {
		begin, end := foldStart[i], foldStart[i+1]

		train := make([]int, 0, l-(end-begin))
		train = append(train, perm[:begin]...)
		train = append(train, perm[end:]...)

		sub := prob.subset(train)
		if label, ok := singleClass(sub.Y); ok {
			for _, j := range perm[begin:end] {
				target[j] = label
			}
			continue
		}

		model, err := Train(sub, param)
		if err != nil {
			return fmt.Errorf("fold %d: %w", i, err)
		}

		for _, j := range perm[begin:end] {
			if target[j], err = model.Predict(prob.row(j)); err != nil {
				return err
			}
		}
	}

	return nil
}

// singleClass reports the label shared by every entry of y, if there is one.
func singleClass(y []float64) (float64, bool) {
	for _, v := range y[1:] {
		if v != y[0] {
			return 0, false
		}
	}
	return y[0], true
}

// ParameterSearchResult stores the result of the parameter search
type ParameterSearchResult struct {
	BestC    float64
	BestRate float64
}

// FindParameterC doubles C from startC up to maxC and keeps the value with the
// best cross validation accuracy. A non-positive startC starts from 1/(l*max ||x||^2).
func FindParameterC(prob *Problem, param *Parameter, nrFold int, startC float64, maxC float64) (*ParameterSearchResult, error) {
	if prob == nil {
		return nil, ErrEmptyProblem
	}
	if err := prob.validate(); err != nil {
		return nil, err
	}
	if startC <= 0 {
		startC = calcStartC(prob)
	}

	target := make([]float64, prob.L)
	result := &ParameterSearchResult{BestC: startC, BestRate: -1}

	for c := startC; c <= maxC; c *= 2 {
		if err := CrossValidation(prob, param.withC(c), nrFold, target); err != nil {
			return nil, err
		}

		correct := 0
		for i, v := range target {
			if v == prob.Y[i] {
				correct++
			}
		}
		rate := float64(correct) / float64(prob.L)
		logf("log2c=%7.2f\trate=%g\n", math.Log2(c), 100.0*rate)

		if rate > result.BestRate {
			result.BestC = c
			result.BestRate = rate
		}
	}

	return result, nil
}

func calcStartC(prob *Problem) float64 {
	var maxNorm float64
	for i := 0; i < prob.L; i++ {
		x := prob.row(i)
		if norm := Linear(x, x); norm > maxNorm {
			maxNorm = norm
		}
	}
	if maxNorm == 0 {
		return 1
	}
	return 1.0 / (float64(prob.L) * maxNorm)
}
