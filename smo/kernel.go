package smo

import "gonum.org/v1/gonum/floats"

// Kernel computes the similarity of two feature vectors of equal dimension.
type Kernel func(a, b []float64) float64

// Linear is the dot product kernel
func Linear(a, b []float64) float64 {
	return floats.Dot(a, b)
}

// LINEAR : linear kernel, K(a, b) = a . b
var LINEAR = NewKernelType(0, "linear", Linear)

var kernelTypeValues = []*KernelType{
	LINEAR,
}

// KernelType names a kernel so that it can be written to and read back from a model file
type KernelType struct {
	name   string
	kernel Kernel
	id     int
}

// NewKernelType returns a new KernelType based on input fields
func NewKernelType(id int, name string, kernel Kernel) *KernelType {
	return &KernelType{
		id:     id,
		name:   name,
		kernel: kernel,
	}
}

// KernelTypeValues gives a list of the registered KernelTypes
func KernelTypeValues() []*KernelType {
	return kernelTypeValues
}

// GetKernelType looks a registered kernel type up by name, nil if unknown
func GetKernelType(name string) *KernelType {
	for _, kt := range kernelTypeValues {
		if kt.name == name {
			return kt
		}
	}
	return nil
}

// Name is the name used in model files
func (kt *KernelType) Name() string {
	return kt.name
}

// Id returns the numeric id of the kernel type
func (kt *KernelType) Id() int {
	return kt.id
}

// Kernel returns the evaluation function
func (kt *KernelType) Kernel() Kernel {
	return kt.kernel
}

// IsLinear reports whether decision values can be folded into a primal weight vector.
func (kt *KernelType) IsLinear() bool {
	return kt == LINEAR
}
