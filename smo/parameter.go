package smo

import (
	"fmt"
	"math"
)

const (
	defaultC       = 1.0
	defaultTol     = 1e-4
	defaultMaxIter = 1000
)

// Parameter contains the hyperparameters of the solver
type Parameter struct {
	C          float64 // box constraint
	Tol        float64 // KKT violation tolerance
	MaxIter    int     // sweep budget
	KernelType *KernelType
}

// NewParameter constructs a Parameter
func NewParameter(kernelType *KernelType, c float64, tol float64, maxIter int) *Parameter {
	return &Parameter{
		KernelType: kernelType,
		C:          c,
		Tol:        tol,
		MaxIter:    maxIter,
	}
}

// DefaultParameter returns the linear kernel with C = 1, tol = 1e-4 and 1000 sweeps.
func DefaultParameter() *Parameter {
	return NewParameter(LINEAR, defaultC, defaultTol, defaultMaxIter)
}

// Validate checks that the parameter can drive a training run.
func (p *Parameter) Validate() error {
	switch {
	case p.KernelType == nil || p.KernelType.Kernel() == nil:
		return fmt.Errorf("%w: kernel type is not set", ErrInvalidParameter)
	case !(p.C > 0) || math.IsInf(p.C, 0):
		return fmt.Errorf("%w: C must be a positive finite number, got %g", ErrInvalidParameter, p.C)
	case !(p.Tol > 0) || math.IsInf(p.Tol, 0):
		return fmt.Errorf("%w: tol must be a positive finite number, got %g", ErrInvalidParameter, p.Tol)
	case p.MaxIter <= 0:
		return fmt.Errorf("%w: max iterations must be positive, got %d", ErrInvalidParameter, p.MaxIter)
	}
	return nil
}

// withC returns a copy of p using another box constraint.
func (p *Parameter) withC(c float64) *Parameter {
	clone := *p
	clone.C = c
	return &clone
}
