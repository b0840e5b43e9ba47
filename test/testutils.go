package test

import "os"

// WriteToFile writes an array of lines to a file
func WriteToFile(file *os.File, lines []string) error {
	for _, line := range lines {
		if _, err := file.WriteString(line + "\n"); err != nil {
			return err
		}
	}

	return nil
}

// WriteTempFile creates a file in dir holding lines and returns its name.
func WriteTempFile(dir string, pattern string, lines []string) (string, error) {
	f, err := os.CreateTemp(dir, pattern)
	if err != nil {
		return "", err
	}
	defer f.Close()

	if err := WriteToFile(f, lines); err != nil {
		return "", err
	}
	return f.Name(), nil
}

// SeparableData is a small two-cluster data set in the sparse text format:
// six samples of class 0 around (1, 1) and six of class 1 around (5.5, 5.5).
var SeparableData = []string{
	"0 1:1 2:2",
	"0 1:2 2:1",
	"0 1:1 2:1",
	"0 1:2 2:2",
	"0 2:1",
	"0 1:1",
	"1 1:5 2:5",
	"1 1:6 2:5",
	"1 1:5 2:6",
	"1 1:6 2:6",
	"1 1:7 2:5",
	"1 1:5 2:7",
}
