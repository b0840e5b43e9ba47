package smo

import (
	"bufio"
	"fmt"
	"io"
	"strconv"
	"strings"

	"gonum.org/v1/gonum/mat"
)

// SaveModel writes the model in plain text. Only the support vectors are kept,
// which is all the decision function needs.
func SaveModel(writer io.Writer, model *Model) error {
	w := bufio.NewWriter(writer)
	sv := model.SupportVectors()

	fmt.Fprintf(w, "kernel_type %s\n", model.KernelType.Name())
	fmt.Fprintf(w, "nr_feature %d\n", model.NumFeatures)
	fmt.Fprintf(w, "label %g %g\n", model.Label[0], model.Label[1])
	fmt.Fprintf(w, "bias %g\n", model.Bias)
	fmt.Fprintf(w, "c %g\n", model.C)
	fmt.Fprintf(w, "tol %g\n", model.Tol)
	fmt.Fprintf(w, "iter %d\n", model.Iterations)
	if model.Converged {
		fmt.Fprintln(w, "converged 1")
	} else {
		fmt.Fprintln(w, "converged 0")
	}
	fmt.Fprintf(w, "nr_sv %d\n", len(sv))

	fmt.Fprintln(w, "SV")
	for _, i := range sv {
		fmt.Fprintf(w, "%g %g", model.Alpha[i], model.Y[i])
		for _, v := range model.X.RawRowView(i) {
			fmt.Fprintf(w, " %g", v)
		}
		fmt.Fprintln(w)
	}

	return w.Flush()
}

// LoadModel reads a model written by SaveModel.
func LoadModel(reader io.Reader) (*Model, error) {
	model := &Model{}
	nrSV := -1
	lineNr := 0

	scanner := bufio.NewScanner(reader)
	scanner.Buffer(make([]byte, 64*1024), 16*1024*1024)

header:
	for scanner.Scan() {
		lineNr++
		fields := strings.Fields(scanner.Text())
		if len(fields) == 0 {
			continue
		}

		var err error
		switch fields[0] {
		case "kernel_type":
			if len(fields) != 2 {
				return nil, fmt.Errorf("%w: line %d: kernel_type needs one value", ErrModelFormat, lineNr)
			}
			if model.KernelType = GetKernelType(fields[1]); model.KernelType == nil {
				return nil, fmt.Errorf("%w: unknown kernel type %q", ErrModelFormat, fields[1])
			}
		case "nr_feature":
			model.NumFeatures, err = parseIntField(fields)
		case "label":
			if len(fields) != 3 {
				return nil, fmt.Errorf("%w: line %d: label needs two values", ErrModelFormat, lineNr)
			}
			if model.Label[0], err = strconv.ParseFloat(fields[1], 64); err == nil {
				model.Label[1], err = strconv.ParseFloat(fields[2], 64)
			}
		case "bias":
			model.Bias, err = parseFloatField(fields)
		case "c":
			model.C, err = parseFloatField(fields)
		case "tol":
			model.Tol, err = parseFloatField(fields)
		case "iter":
			model.Iterations, err = parseIntField(fields)
		case "converged":
			var v int
			v, err = parseIntField(fields)
			model.Converged = v != 0
		case "nr_sv":
			nrSV, err = parseIntField(fields)
		case "SV":
			break header
		default:
			return nil, fmt.Errorf("%w: line %d: unknown text %q", ErrModelFormat, lineNr, scanner.Text())
		}
		if err != nil {
			return nil, fmt.Errorf("%w: line %d: %v", ErrModelFormat, lineNr, err)
		}
	}

	if model.KernelType == nil || model.NumFeatures <= 0 || nrSV < 0 {
		return nil, fmt.Errorf("%w: incomplete header", ErrModelFormat)
	}

	// header counts are not trusted for allocation; rows grow the slices
	var data []float64

	for scanner.Scan() {
		lineNr++
		fields := strings.Fields(scanner.Text())
		if len(fields) == 0 {
			continue
		}
		if len(fields) != model.NumFeatures+2 {
			return nil, fmt.Errorf("%w: line %d: expected %d values, got %d", ErrModelFormat, lineNr, model.NumFeatures+2, len(fields))
		}

		values := make([]float64, len(fields))
		for i, f := range fields {
			v, err := strconv.ParseFloat(f, 64)
			if err != nil {
				return nil, fmt.Errorf("%w: line %d: %v", ErrModelFormat, lineNr, err)
			}
			values[i] = v
		}
		model.Alpha = append(model.Alpha, values[0])
		model.Y = append(model.Y, values[1])
		data = append(data, values[2:]...)
	}
	if err := scanner.Err(); err != nil {
		return nil, err
	}

	if len(model.Alpha) != nrSV {
		return nil, fmt.Errorf("%w: expected %d support vectors, got %d", ErrModelFormat, nrSV, len(model.Alpha))
	}
	if nrSV > 0 {
		model.X = mat.NewDense(nrSV, model.NumFeatures, data)
	}

	return model, nil
}

func parseIntField(fields []string) (int, error) {
	if len(fields) != 2 {
		return 0, fmt.Errorf("%s needs one value", fields[0])
	}
	return strconv.Atoi(fields[1])
}

func parseFloatField(fields []string) (float64, error) {
	if len(fields) != 2 {
		return 0, fmt.Errorf("%s needs one value", fields[0])
	}
	return strconv.ParseFloat(fields[1], 64)
}

// ReadProblem reads data in the sparse "label index:value ..." text format with
// 1-based, ascending indices, and densifies it. Missing features are zero.
// A positive numFeatures fixes the width: larger indices are dropped, as test
// data may carry features the training data never had. Otherwise the width is
// the largest index seen.
func ReadProblem(reader io.Reader, numFeatures int) (*Problem, error) {
	type sparseRow struct {
		index []int
		value []float64
	}

	var (
		vy       []float64
		vx       []sparseRow
		maxIndex int
		lineNr   int
	)

	scanner := bufio.NewScanner(reader)
	scanner.Buffer(make([]byte, 64*1024), 16*1024*1024)

	for scanner.Scan() {
		lineNr++
		tokens := strings.Fields(scanner.Text())
		if len(tokens) == 0 {
			continue
		}

		label, err := strconv.ParseFloat(tokens[0], 64)
		if err != nil {
			return nil, fmt.Errorf("%w: wrong input format at line %d: %v", ErrDataFormat, lineNr, err)
		}

		var row sparseRow
		indexBefore := 0
		for _, token := range tokens[1:] {
			keyVal := strings.SplitN(token, ":", 2)
			if len(keyVal) != 2 {
				return nil, fmt.Errorf("%w: wrong input format at line %d: %q", ErrDataFormat, lineNr, token)
			}

			index, err := strconv.Atoi(keyVal[0])
			if err != nil {
				return nil, fmt.Errorf("%w: line %d: the index %q cannot be parsed", ErrDataFormat, lineNr, keyVal[0])
			}
			if index <= indexBefore {
				return nil, fmt.Errorf("%w: line %d: feature indices must be positive and ascending", ErrDataFormat, lineNr)
			}
			indexBefore = index

			value, err := strconv.ParseFloat(keyVal[1], 64)
			if err != nil {
				return nil, fmt.Errorf("%w: line %d: the value %q cannot be parsed", ErrDataFormat, lineNr, keyVal[1])
			}

			row.index = append(row.index, index)
			row.value = append(row.value, value)
		}
		if indexBefore > maxIndex {
			maxIndex = indexBefore
		}

		vy = append(vy, label)
		vx = append(vx, row)
	}
	if err := scanner.Err(); err != nil {
		return nil, err
	}

	n := maxIndex
	if numFeatures > 0 {
		n = numFeatures
	}
	if len(vy) == 0 || n == 0 {
		return nil, ErrEmptyProblem
	}

	x := mat.NewDense(len(vy), n, nil)
	for i, row := range vx {
		for k, index := range row.index {
			if index > n {
				break
			}
			x.Set(i, index-1, row.value[k])
		}
	}

	return NewProblemFromDense(x, vy)
}

// WriteProblem writes prob in the sparse text format read by ReadProblem, omitting zeros.
func WriteProblem(writer io.Writer, prob *Problem) error {
	w := bufio.NewWriter(writer)
	for i := 0; i < prob.L; i++ {
		fmt.Fprintf(w, "%g", prob.Y[i])
		for j, v := range prob.row(i) {
			if v != 0 {
				fmt.Fprintf(w, " %d:%g", j+1, v)
			}
		}
		fmt.Fprintln(w)
	}
	return w.Flush()
}
