package smo

import (
	"io"
	"log"
	"os"

	"github.com/tevino/abool"
)

var logger = log.New(os.Stdout, "[smo] ", log.LstdFlags)

var (
	quiet   = abool.New()
	verbose = abool.New()
)

// SetQuiet disables all solver output when set
func SetQuiet(q bool) {
	quiet.SetTo(q)
}

// SetVerbose enables per-pair tracing of skipped updates
func SetVerbose(v bool) {
	verbose.SetTo(v)
}

// SetOutput redirects the solver log
func SetOutput(w io.Writer) {
	logger.SetOutput(w)
}

func logf(format string, v ...interface{}) {
	if quiet.IsSet() {
		return
	}
	logger.Printf(format, v...)
}

func tracef(format string, v ...interface{}) {
	if quiet.IsSet() || verbose.IsNotSet() {
		return
	}
	logger.Printf(format, v...)
}
