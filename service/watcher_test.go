package service

import (
	"context"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/ludo-technologies/rsbridge/domain"
	"github.com/sirupsen/logrus/hooks/test"
)

func startWatcher(t *testing.T, reports []string) (<-chan []string, context.CancelFunc, <-chan error) {
	t.Helper()
	logger, _ := test.NewNullLogger()
	w, err := NewReportWatcher(reports, 50*time.Millisecond, logger)
	if err != nil {
		t.Fatalf("NewReportWatcher failed: %v", err)
	}

	changes := make(chan []string, 10)
	done := make(chan error, 1)
	ctx, cancel := context.WithCancel(context.Background())
	go func() {
		done <- w.Run(ctx, func(_ context.Context, changed []string) {
			changes <- changed
		})
	}()
	t.Cleanup(cancel)
	return changes, cancel, done
}

func TestReportWatcher_TriggersOnReportWrite(t *testing.T) {
	dir := t.TempDir()
	reportPath := filepath.Join(dir, "Core.resharper-report.xml")
	if err := os.WriteFile(reportPath, []byte("<Report/>"), 0644); err != nil {
		t.Fatal(err)
	}
	changes, _, _ := startWatcher(t, []string{reportPath})

	// several writes in a burst collapse into one callback
	for i := 0; i < 3; i++ {
		if err := os.WriteFile(reportPath, []byte("<Report ToolsVersion=\"2024\"/>"), 0644); err != nil {
			t.Fatal(err)
		}
	}

	select {
	case changed := <-changes:
		if len(changed) != 1 || changed[0] != filepath.Clean(reportPath) {
			t.Errorf("expected the report to be reported as changed, got %v", changed)
		}
	case <-time.After(5 * time.Second):
		t.Fatal("timed out waiting for the change callback")
	}

	select {
	case changed := <-changes:
		t.Errorf("expected a single debounced callback, got another: %v", changed)
	case <-time.After(200 * time.Millisecond):
	}
}

func TestReportWatcher_IgnoresOtherFiles(t *testing.T) {
	dir := t.TempDir()
	reportPath := filepath.Join(dir, "Core.resharper-report.xml")
	changes, _, _ := startWatcher(t, []string{reportPath})

	if err := os.WriteFile(filepath.Join(dir, "notes.txt"), []byte("x"), 0644); err != nil {
		t.Fatal(err)
	}
	select {
	case changed := <-changes:
		t.Fatalf("expected unrelated files to be ignored, got %v", changed)
	case <-time.After(200 * time.Millisecond):
	}

	// a report created after the watcher started is picked up
	if err := os.WriteFile(reportPath, []byte("<Report/>"), 0644); err != nil {
		t.Fatal(err)
	}
	select {
	case <-changes:
	case <-time.After(5 * time.Second):
		t.Fatal("timed out waiting for the created report")
	}
}

func TestReportWatcher_StopsOnCancel(t *testing.T) {
	dir := t.TempDir()
	_, cancel, done := startWatcher(t, []string{filepath.Join(dir, "report.xml")})

	cancel()

	select {
	case err := <-done:
		if err != nil {
			t.Errorf("expected nil error on cancel, got %v", err)
		}
	case <-time.After(5 * time.Second):
		t.Fatal("Run did not return after cancel")
	}
}

func TestNewReportWatcher_Errors(t *testing.T) {
	if _, err := NewReportWatcher(nil, time.Millisecond, nil); !domain.HasCode(err, domain.ErrCodeInvalidInput) {
		t.Errorf("expected INVALID_INPUT without reports, got %v", err)
	}

	missing := filepath.Join(t.TempDir(), "missing", "report.xml")
	if _, err := NewReportWatcher([]string{missing}, time.Millisecond, nil); !domain.HasCode(err, domain.ErrCodeNotFound) {
		t.Errorf("expected NOT_FOUND for a missing directory, got %v", err)
	}
}
