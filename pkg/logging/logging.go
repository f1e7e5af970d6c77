// Package logging builds the structured loggers shared by the cache, the
// viewer and the CLI.
package logging

import (
	"io"
	"os"
	"time"

	"github.com/charmbracelet/log"
)

// New returns a logger writing to w at the given level.
func New(w io.Writer, level log.Level) *log.Logger {
	return log.NewWithOptions(w, log.Options{
		ReportTimestamp: true,
		TimeFormat:      time.TimeOnly,
		Level:           level,
	})
}

// Default returns an info-level logger on stderr.
func Default() *log.Logger {
	return New(os.Stderr, log.InfoLevel)
}

// Discard returns a logger that drops everything, for tests.
func Discard() *log.Logger {
	return New(io.Discard, log.FatalLevel)
}

// Component derives a logger whose lines carry the bracketed component
// name, e.g. "[ResourceManager]". A nil parent falls back to Default.
func Component(parent *log.Logger, name string) *log.Logger {
	if parent == nil {
		parent = Default()
	}
	return parent.WithPrefix("[" + name + "]")
}
