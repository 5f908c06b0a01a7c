package service

import (
	"bytes"
	"strings"
	"testing"

	"github.com/ludo-technologies/rsbridge/domain"
)

func TestNewProgressManager_Disabled(t *testing.T) {
	pm := NewProgressManager(false)
	if pm.IsInteractive() {
		t.Error("expected non-interactive progress manager when disabled")
	}
	var _ domain.ProgressManager = pm
}

func TestIsInteractiveEnvironment_CI(t *testing.T) {
	t.Setenv("CI", "true")
	if IsInteractiveEnvironment() {
		t.Error("expected CI builds to be non-interactive")
	}
}

func TestIsInteractiveEnvironment_DumbTerminal(t *testing.T) {
	for _, name := range ciEnvironmentVariables {
		t.Setenv(name, "")
	}
	t.Setenv("TERM", "dumb")
	if IsInteractiveEnvironment() {
		t.Error("expected dumb terminals to be non-interactive")
	}
}

func TestNoOpProgressManager(t *testing.T) {
	pm := &NoOpProgressManager{}
	if pm.IsInteractive() {
		t.Error("expected NoOpProgressManager.IsInteractive() to return false")
	}

	task := pm.StartTask("Ingesting projects", 3)
	if task == nil {
		t.Fatal("expected non-nil task from StartTask")
	}
	task.Increment(1)
	task.Describe("Core")
	task.Complete()
	pm.Close()
}

func TestProgressManagerImpl_RendersProjectName(t *testing.T) {
	var buf bytes.Buffer
	pm := newProgressManagerWithWriter(&buf)

	if !pm.IsInteractive() {
		t.Error("expected ProgressManagerImpl to be interactive")
	}

	task := pm.StartTask("Ingesting projects", 2)
	task.Describe("Core")
	task.Increment(1)
	task.Describe("Web")
	task.Increment(1)
	task.Complete()
	pm.Close()

	if !strings.Contains(buf.String(), "Ingesting projects (Web)") {
		t.Errorf("expected rendered bar to name the current project, got %q", buf.String())
	}
}

func TestProgressManagerImpl_CloseFinishesOpenBars(t *testing.T) {
	var buf bytes.Buffer
	pm := newProgressManagerWithWriter(&buf)
	pm.StartTask("Parsing reports", 5)
	pm.StartTask("Running analyzer", 1)

	pm.Close()

	if len(pm.bars) != 0 {
		t.Errorf("expected bars to be released on Close, got %d", len(pm.bars))
	}
}

func TestProgressManagerImpl_Interface(t *testing.T) {
	var _ domain.ProgressManager = &ProgressManagerImpl{}
	var _ domain.TaskProgress = &TaskProgressImpl{}
	var _ domain.TaskProgress = &NoOpTaskProgress{}
}
