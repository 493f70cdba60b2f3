// Package report persists triage summaries as timestamped markdown files.
package report

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"go.uber.org/zap"
)

const defaultDir = "reports"

// Writer saves triage reports. The clock is injectable so tests get
// deterministic filenames and headers.
type Writer struct {
	dir    string
	now    func() time.Time
	logger *zap.Logger
}

// Option allows configuring the Writer
type Option func(*Writer)

// WithDir sets the destination directory.
func WithDir(dir string) Option {
	return func(w *Writer) {
		if dir != "" {
			w.dir = dir
		}
	}
}

// WithClock replaces the time source (for testing).
func WithClock(now func() time.Time) Option {
	return func(w *Writer) {
		w.now = now
	}
}

// NewWriter creates a report writer.
func NewWriter(logger *zap.Logger, opts ...Option) *Writer {
	if logger == nil {
		logger = zap.NewNop()
	}
	w := &Writer{
		dir:    defaultDir,
		now:    time.Now,
		logger: logger,
	}
	for _, opt := range opts {
		opt(w)
	}
	return w
}

// Write composes the report body and saves it under a second-granularity
// timestamped filename. Failure is not fatal to a run: the caller still
// holds the summary and an empty path signals that nothing was written.
func (w *Writer) Write(summary string, incidentCount int) (string, error) {
	if err := os.MkdirAll(w.dir, 0755); err != nil {
		return "", fmt.Errorf("failed to create reports directory: %w", err)
	}

	now := w.now()
	filename := fmt.Sprintf("triage_report_%s.md", now.Format("20060102_150405"))
	path := filepath.Join(w.dir, filename)

	var b strings.Builder
	b.WriteString("# ServiceNow Incident Triage Report\n")
	fmt.Fprintf(&b, "**Generated:** %s\n", now.Format("2006-01-02 15:04:05"))
	fmt.Fprintf(&b, "**Total High-Priority Incidents:** %d\n\n", incidentCount)
	b.WriteString("---\n\n")
	b.WriteString(summary)

	if err := os.WriteFile(path, []byte(b.String()), 0644); err != nil {
		return "", fmt.Errorf("failed to save triage report: %w", err)
	}

	w.logger.Info("triage report saved", zap.String("path", path))
	return path, nil
}
