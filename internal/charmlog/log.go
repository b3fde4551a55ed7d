// Package charmlog builds the process logger on charmbracelet/log.
package charmlog

import (
	"fmt"
	"io"
	"os"

	"github.com/charmbracelet/log"
)

type Options struct {
	Writer io.Writer
	Level  string
	Prefix string
}

func New(opts Options) *log.Logger {
	var w io.Writer = os.Stderr
	if opts.Writer != nil {
		w = opts.Writer
	}

	lvl, err := log.ParseLevel(opts.Level)
	if err != nil {
		lvl = log.InfoLevel
	}

	return log.NewWithOptions(w, log.Options{
		Level:           lvl,
		Prefix:          opts.Prefix,
		ReportTimestamp: true,
	})
}

// Open returns a logger writing to path, or to stderr when path is empty.
// The returned close func is never nil.
func Open(path, level string) (*log.Logger, func() error, error) {
	if path == "" {
		return New(Options{Level: level}), func() error { return nil }, nil
	}
	f, err := os.OpenFile(path, os.O_WRONLY|os.O_CREATE|os.O_APPEND, 0o644)
	if err != nil {
		return nil, nil, fmt.Errorf("open log file: %w", err)
	}
	logger := New(Options{Writer: f, Level: level})
	logger.SetFormatter(log.LogfmtFormatter)
	return logger, f.Close, nil
}
