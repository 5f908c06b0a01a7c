// Package logging configures the logrus logger shared by the CLI.
package logging

import (
	"fmt"
	"io"
	"strings"

	"github.com/sirupsen/logrus"
	"golang.org/x/term"
)

// Options selects the logger level and destination
type Options struct {
	// Level is a logrus level name; empty means info
	Level   string
	Verbose bool
	Quiet   bool
	Output  io.Writer
}

// New creates a text logger. Verbose wins over Level; Quiet limits output to errors.
func New(opts Options) (*logrus.Logger, error) {
	logger := logrus.New()
	if opts.Output != nil {
		logger.SetOutput(opts.Output)
	}

	level := logrus.InfoLevel
	if opts.Level != "" {
		parsed, err := logrus.ParseLevel(strings.ToLower(opts.Level))
		if err != nil {
			return nil, fmt.Errorf("invalid log level %q: %w", opts.Level, err)
		}
		level = parsed
	}
	switch {
	case opts.Verbose:
		level = logrus.DebugLevel
	case opts.Quiet:
		level = logrus.ErrorLevel
	}
	logger.SetLevel(level)

	logger.SetFormatter(&logrus.TextFormatter{
		DisableTimestamp: !opts.Verbose,
		ForceColors:      isTerminal(logger.Out),
		DisableColors:    !isTerminal(logger.Out),
	})

	return logger, nil
}

func isTerminal(w io.Writer) bool {
	f, ok := w.(interface{ Fd() uintptr })
	return ok && term.IsTerminal(int(f.Fd()))
}
