package main

import (
	"bufio"
	"fmt"
	"io"
	"log"
	"os"
	"strings"

	"limhan.info/smo-go/smo"
)

// DoPredict reads test data from reader, writes one predicted label per line
// to writer and returns how many predictions matched the given labels.
func DoPredict(reader io.Reader, writer io.Writer, model *smo.Model) (correct int, total int, err error) {
	prob, err := smo.ReadProblem(reader, model.NumFeatures)
	if err != nil {
		return 0, 0, err
	}

	pred, err := model.PredictBatch(prob.X)
	if err != nil {
		return 0, 0, err
	}

	w := bufio.NewWriter(writer)
	for i, p := range pred {
		fmt.Fprintf(w, "%g\n", p)
		if p == prob.Y[i] {
			correct++
		}
	}
	total = prob.L
	if err := w.Flush(); err != nil {
		return 0, 0, err
	}

	log.Printf("Accuracy = %g%% (%d/%d)\n", float64(correct)/float64(total)*100, correct, total)
	return correct, total, nil
}

func loadModel(filename string) (*smo.Model, error) {
	f, err := os.Open(filename)
	if err != nil {
		return nil, err
	}
	defer f.Close()
	return smo.LoadModel(f)
}

func exitWithHelp() {
	log.Fatalf("Usage: predict [options] -if=test_file -mf=model_file -of=output_file\n" +
		"options:\n" +
		"-if test_file\n" +
		"-of output_file (default stdout)\n" +
		"-mf model_file\n" +
		"-q quiet mode (no outputs)\n")
}

func main() {
	var inputFilename, modelFilename, outputFilename string

	for _, arg := range os.Args[1:] {
		flagVal := strings.SplitN(arg, "=", 2)
		if len(flagVal) == 1 {
			flagVal = append(flagVal, "")
		}

		switch flagVal[0] {
		case "-mf":
			modelFilename = flagVal[1]
		case "-if":
			inputFilename = flagVal[1]
		case "-of":
			outputFilename = flagVal[1]
		case "-q":
			log.SetOutput(io.Discard)
			smo.SetQuiet(true)
		case "-h", "-help":
			fallthrough
		default:
			exitWithHelp()
		}
	}

	if inputFilename == "" || modelFilename == "" {
		exitWithHelp()
	}

	model, err := loadModel(modelFilename)
	if err != nil {
		log.Fatalf("Unable to load model file %s: %v", modelFilename, err)
	}

	inputFile, err := os.Open(inputFilename)
	if err != nil {
		log.Fatalf("Unable to open input file %s", inputFilename)
	}
	defer inputFile.Close()

	var out io.Writer = os.Stdout
	if outputFilename != "" {
		outputFile, err := os.Create(outputFilename)
		if err != nil {
			log.Fatalf("Unable to open output file %s", outputFilename)
		}
		defer outputFile.Close()
		out = outputFile
	}

	if _, _, err := DoPredict(inputFile, out, model); err != nil {
		log.Fatalf("predict: %v", err)
	}
}
