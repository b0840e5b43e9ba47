package smo

import (
	"fmt"
	"sort"
)

// encodeLabels maps the two distinct raw labels onto {-1, +1}. The smaller raw
// label becomes the negative class. The returned pair is {negative, positive}.
func encodeLabels(raw []float64) ([]float64, [2]float64, error) {
	var classes [2]float64
	nrClass := 0

	for _, v := range raw {
		var j int
		for j = 0; j < nrClass; j++ {
			if v == classes[j] {
				break
			}
		}
		if j == nrClass {
			if nrClass == 2 {
				return nil, classes, fmt.Errorf("%w: found at least %g, %g and %g", ErrNotBinary, classes[0], classes[1], v)
			}
			classes[nrClass] = v
			nrClass++
		}
	}

	if nrClass != 2 {
		return nil, classes, fmt.Errorf("%w: found %d", ErrNotBinary, nrClass)
	}

	sort.Float64s(classes[:])

	y := make([]float64, len(raw))
	for i, v := range raw {
		if v == classes[1] {
			y[i] = 1
		} else {
			y[i] = -1
		}
	}

	return y, classes, nil
}
