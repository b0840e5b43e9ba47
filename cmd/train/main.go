package main

import (
	"errors"
	"fmt"
	"log"
	"os"
	"strconv"
	"strings"

	"limhan.info/smo-go/smo"
)

var errUsage = errors.New("invalid arguments")

// training holds what the command line asked for
type training struct {
	FindC           bool
	CSpecified      bool
	CrossValidation bool
	InputFilename   string
	ModelFilename   string
	NrFold          int
	Param           *smo.Parameter
	Prob            *smo.Problem
}

func parseTrainingFromArgs(args []string) (*training, error) {
	t := &training{Param: smo.DefaultParameter()}

	for _, arg := range args {
		if !strings.HasPrefix(arg, "-") {
			return nil, fmt.Errorf("%w: unexpected argument %q", errUsage, arg)
		}

		tokens := strings.SplitN(arg, "=", 2)
		flag := tokens[0]
		var val string
		if len(tokens) > 1 {
			val = tokens[1]
		}

		var err error
		switch flag {
		case "-c":
			t.Param.C, err = strconv.ParseFloat(val, 64)
			t.CSpecified = true
		case "-e":
			t.Param.Tol, err = strconv.ParseFloat(val, 64)
		case "-n":
			t.Param.MaxIter, err = strconv.Atoi(val)
		case "-v":
			t.CrossValidation = true
			if t.NrFold, err = strconv.Atoi(val); err == nil && t.NrFold < 2 {
				return nil, fmt.Errorf("%w: n-fold cross validation: n must be >= 2", errUsage)
			}
		case "-q":
			smo.SetQuiet(true)
		case "-if":
			t.InputFilename = val
		case "-of":
			t.ModelFilename = val
		case "-C":
			t.FindC = true
		default:
			return nil, fmt.Errorf("%w: unknown option %s", errUsage, flag)
		}
		if err != nil {
			return nil, fmt.Errorf("%w: %s: %v", errUsage, flag, err)
		}
	}

	if t.InputFilename == "" {
		return nil, fmt.Errorf("%w: no input file", errUsage)
	}
	if t.ModelFilename == "" {
		t.ModelFilename = t.InputFilename + ".model"
	}
	if t.FindC && !t.CrossValidation {
		t.NrFold = 5
	}

	if err := t.Param.Validate(); err != nil {
		return nil, err
	}
	return t, nil
}

// readProblem reads the input file into the training problem field
func (t *training) readProblem() error {
	f, err := os.Open(t.InputFilename)
	if err != nil {
		return err
	}
	defer f.Close()

	t.Prob, err = smo.ReadProblem(f, 0)
	return err
}

// doFindParameterC searches for the best C
func (t *training) doFindParameterC() (*smo.ParameterSearchResult, error) {
	startC := -1.0
	if t.CSpecified {
		startC = t.Param.C
	}

	log.Printf("Doing parameter search with %d-fold cross validation.\n", t.NrFold)
	result, err := smo.FindParameterC(t.Prob, t.Param, t.NrFold, startC, 1024)
	if err != nil {
		return nil, err
	}
	log.Printf("Best C = %g  CV accuracy = %g%%\n", result.BestC, 100.0*result.BestRate)
	return result, nil
}

// doCrossValidation reports the cross validation accuracy
func (t *training) doCrossValidation() (float64, error) {
	target := make([]float64, t.Prob.L)
	if err := smo.CrossValidation(t.Prob, t.Param, t.NrFold, target); err != nil {
		return 0, err
	}

	totalCorrect := 0
	for i := 0; i < t.Prob.L; i++ {
		if target[i] == t.Prob.Y[i] {
			totalCorrect++
		}
	}
	rate := float64(totalCorrect) / float64(t.Prob.L)
	log.Printf("Cross Validation Accuracy = %g%%\n", 100.0*rate)
	return rate, nil
}

// doTrain fits the whole problem and saves the model
func (t *training) doTrain() error {
	model, err := smo.Train(t.Prob, t.Param)
	if err != nil {
		return err
	}

	f, err := os.Create(t.ModelFilename)
	if err != nil {
		return err
	}
	if err := smo.SaveModel(f, model); err != nil {
		f.Close()
		return err
	}
	return f.Close()
}

func (t *training) run() error {
	if err := t.readProblem(); err != nil {
		return err
	}

	switch {
	case t.FindC:
		_, err := t.doFindParameterC()
		return err
	case t.CrossValidation:
		_, err := t.doCrossValidation()
		return err
	default:
		return t.doTrain()
	}
}

func exitWithHelp() {
	log.Fatalf("Usage: train [options] -if=training_set_file [-of=model_file]\n" +
		"options:\n" +
		"-c=cost : set the parameter C (default 1)\n" +
		"-e=tolerance : set tolerance of the KKT conditions (default 0.0001)\n" +
		"-n=sweeps : set the maximum number of sweeps (default 1000)\n" +
		"-v=n : n-fold cross validation mode\n" +
		"-C : find parameter C by cross validation\n" +
		"-if : Input filename\n" +
		"-of : Model filename (default input filename + .model)\n" +
		"-q : quiet mode (no outputs)\n")
}

func main() {
	t, err := parseTrainingFromArgs(os.Args[1:])
	if err != nil {
		log.Println(err)
		exitWithHelp()
	}

	if err := t.run(); err != nil {
		log.Fatalf("train: %v", err)
	}
}
