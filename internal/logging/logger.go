package logging

import (
	"log"
	"os"

	"github.com/go-logr/logr"
	"github.com/go-logr/stdr"
)

// New returns a logger writing to stderr at the given level.
// debug enables V(1) messages; error keeps only errors.
func New(level string) logr.Logger {
	switch level {
	case "debug":
		stdr.SetVerbosity(1)
	case "error":
		stdr.SetVerbosity(-1)
	default:
		stdr.SetVerbosity(0)
	}

	return stdr.New(log.New(os.Stderr, "", log.LstdFlags)).WithName("mincpu")
}
