package report

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"
)

func fixedClock() func() time.Time {
	ts := time.Date(2025, 1, 2, 15, 4, 5, 0, time.UTC)
	return func() time.Time { return ts }
}

func TestWriteReport(t *testing.T) {
	dir := filepath.Join(t.TempDir(), "reports")
	w := NewWriter(nil, WithDir(dir), WithClock(fixedClock()))

	path, err := w.Write("## Findings\nEverything is on fire.", 7)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	wantPath := filepath.Join(dir, "triage_report_20250102_150405.md")
	if path != wantPath {
		t.Errorf("path = %q, want %q", path, wantPath)
	}

	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("failed to read report: %v", err)
	}
	body := string(data)

	if !strings.HasPrefix(body, "# ServiceNow Incident Triage Report\n") {
		t.Errorf("missing report header:\n%s", body)
	}
	if !strings.Contains(body, "**Generated:** 2025-01-02 15:04:05") {
		t.Errorf("missing generation timestamp:\n%s", body)
	}
	if !strings.Contains(body, "**Total High-Priority Incidents:** 7") {
		t.Errorf("missing incident count:\n%s", body)
	}
	if !strings.Contains(body, "---") {
		t.Errorf("missing separator:\n%s", body)
	}
	if !strings.Contains(body, "## Findings\nEverything is on fire.") {
		t.Errorf("summary not written verbatim:\n%s", body)
	}
}

func TestWriteCreatesDirectory(t *testing.T) {
	dir := filepath.Join(t.TempDir(), "nested", "deeper", "reports")
	w := NewWriter(nil, WithDir(dir), WithClock(fixedClock()))

	if _, err := w.Write("summary", 1); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if _, err := os.Stat(dir); err != nil {
		t.Errorf("reports directory not created: %v", err)
	}
}

func TestWriteFailureReturnsEmptyPath(t *testing.T) {
	// A regular file where the directory should be makes MkdirAll fail.
	blocker := filepath.Join(t.TempDir(), "reports")
	if err := os.WriteFile(blocker, []byte("in the way"), 0644); err != nil {
		t.Fatalf("setup failed: %v", err)
	}

	w := NewWriter(nil, WithDir(blocker), WithClock(fixedClock()))
	path, err := w.Write("summary", 1)
	if err == nil {
		t.Fatal("expected error, got nil")
	}
	if path != "" {
		t.Errorf("expected empty path on failure, got %q", path)
	}
}
