package logging

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/charmbracelet/log"
)

// Options selects where and how much to log.
type Options struct {
	// Level is one of debug|info|warn|error. Empty means info.
	Level string
	// File, when set, appends logs to this path.
	File string
	// Writer is used when File is empty. Nil means io.Discard.
	Writer io.Writer
}

// New returns a logger and a close func for any opened file.
func New(opts Options) (*log.Logger, func() error, error) {
	closeFn := func() error { return nil }

	w := opts.Writer
	if path := strings.TrimSpace(opts.File); path != "" {
		if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
			return nil, closeFn, fmt.Errorf("log file dir: %w", err)
		}
		f, err := os.OpenFile(path, os.O_CREATE|os.O_APPEND|os.O_WRONLY, 0o644)
		if err != nil {
			return nil, closeFn, fmt.Errorf("open log file: %w", err)
		}
		w = f
		closeFn = f.Close
	}
	if w == nil {
		w = io.Discard
	}

	lvl, err := ParseLevel(opts.Level)
	if err != nil {
		_ = closeFn()
		return nil, func() error { return nil }, err
	}

	l := log.NewWithOptions(w, log.Options{
		Prefix:          "checklist",
		ReportTimestamp: true,
		Level:           lvl,
	})
	return l, closeFn, nil
}

// Discard returns a logger that drops everything. Handy for tests.
func Discard() *log.Logger {
	return log.New(io.Discard)
}

func ParseLevel(s string) (log.Level, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "", "info":
		return log.InfoLevel, nil
	case "debug":
		return log.DebugLevel, nil
	case "warn", "warning":
		return log.WarnLevel, nil
	case "error":
		return log.ErrorLevel, nil
	default:
		return log.InfoLevel, fmt.Errorf("unknown log level: %s", s)
	}
}
