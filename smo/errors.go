package smo

import (
	"errors"
	"fmt"
)

var (
	// ErrEmptyProblem is returned when a problem has no samples or no features.
	ErrEmptyProblem = errors.New("problem has no samples")
	// ErrRowCountMismatch is returned when X and y disagree on the number of samples.
	ErrRowCountMismatch = errors.New("number of feature rows and labels differ")
	// ErrRaggedRows is returned when feature rows do not share one dimension.
	ErrRaggedRows = errors.New("feature rows have different lengths")
	// ErrNonFiniteValue is returned for NaN or infinite features and labels.
	ErrNonFiniteValue = errors.New("value is not a finite number")
	// ErrNotBinary is returned when the labels do not hold exactly two classes.
	ErrNotBinary = errors.New("labels must contain exactly two classes")
	// ErrInvalidParameter is returned by Parameter.Validate.
	ErrInvalidParameter = errors.New("invalid parameter")
	// ErrModelFormat is returned when a model file cannot be parsed.
	ErrModelFormat = errors.New("malformed model file")
	// ErrDataFormat is returned when a data file cannot be parsed.
	ErrDataFormat = errors.New("malformed data file")
)

// DimensionMismatchError indicates a query whose width differs from the training features.
type DimensionMismatchError struct {
	Expected int
	Actual   int
}

func (e *DimensionMismatchError) Error() string {
	return fmt.Sprintf("dimension mismatch: expected %d, got %d", e.Expected, e.Actual)
}
