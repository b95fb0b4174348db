// Package logging builds the two loggers of the client: a diagnostic slog
// logger on stderr and the per-run audit log file.
package logging

import (
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"time"
)

// RunLogLayout names per-run log files after the run start time
const RunLogLayout = "2006-01-02_15-04-05"

// New creates the diagnostic logger. Debug enables debug records,
// otherwise only warnings and errors are written.
func New(w io.Writer, debug bool) *slog.Logger {
	level := slog.LevelWarn
	if debug {
		level = slog.LevelDebug
	}
	return slog.New(slog.NewTextHandler(w, &slog.HandlerOptions{Level: level}))
}

// Discard returns a logger that drops everything
func Discard() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, &slog.HandlerOptions{Level: slog.LevelError + 1}))
}

// RunLogPath returns the audit file path for a run started at start
func RunLogPath(dir string, start time.Time) string {
	return filepath.Join(dir, start.Format(RunLogLayout)+".log")
}

// OpenRunLog opens (or creates) the audit file of the run in append mode
// and returns a logger writing audit lines to it. Close the file when the run ends.
func OpenRunLog(dir string, start time.Time) (*slog.Logger, *os.File, error) {
	if err := os.MkdirAll(dir, 0700); err != nil {
		return nil, nil, fmt.Errorf("failed to create log dir: %w", err)
	}

	f, err := os.OpenFile(RunLogPath(dir, start), os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0600)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to open run log: %w", err)
	}

	return slog.New(NewAuditHandler(f)), f, nil
}
