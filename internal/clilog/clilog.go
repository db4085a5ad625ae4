// Package clilog configures the structured logger shared by the
// shaderlift command-line tools.
package clilog

import (
	"os"

	"github.com/mattn/go-isatty"
	"github.com/sirupsen/logrus"
)

// New returns a logger configured for interactive CLI use: Info level
// by default, Debug when debug is true, colors enabled only when
// stderr is a terminal.
func New(debug bool) *logrus.Logger {
	l := logrus.New()
	l.SetOutput(os.Stderr)
	l.SetLevel(logrus.InfoLevel)
	if debug {
		l.SetLevel(logrus.DebugLevel)
	}
	l.SetFormatter(&logrus.TextFormatter{
		DisableColors:    !isatty.IsTerminal(os.Stderr.Fd()),
		DisableTimestamp: true,
	})
	return l
}
