package service

import (
	"io"
	"os"
	"sync"

	"github.com/ludo-technologies/rsbridge/domain"
	"github.com/schollz/progressbar/v3"
	"golang.org/x/term"
)

// ciEnvironmentVariables disable progress bars when any of them is set
var ciEnvironmentVariables = []string{"CI", "BUILD_NUMBER", "TF_BUILD", "GITHUB_ACTIONS", "JENKINS_URL"}

// IsInteractiveEnvironment reports whether stderr is a terminal outside of a CI build
func IsInteractiveEnvironment() bool {
	for _, name := range ciEnvironmentVariables {
		if os.Getenv(name) != "" {
			return false
		}
	}
	if os.Getenv("TERM") == "dumb" {
		return false
	}
	return term.IsTerminal(int(os.Stderr.Fd()))
}

// ProgressManagerImpl renders one progress bar per ingestion phase
type ProgressManagerImpl struct {
	mu     sync.Mutex
	writer io.Writer
	bars   []*progressbar.ProgressBar
}

// NewProgressManager returns a bar-rendering manager for interactive sessions and a no-op one otherwise
func NewProgressManager(enabled bool) domain.ProgressManager {
	if enabled && IsInteractiveEnvironment() {
		return newProgressManagerWithWriter(os.Stderr)
	}
	return &NoOpProgressManager{}
}

func newProgressManagerWithWriter(w io.Writer) *ProgressManagerImpl {
	return &ProgressManagerImpl{writer: w}
}

// StartTask creates a bar counting projects (or reports) up to total
func (pm *ProgressManagerImpl) StartTask(description string, total int) domain.TaskProgress {
	bar := progressbar.NewOptions(total,
		progressbar.OptionSetWriter(pm.writer),
		progressbar.OptionSetDescription(description),
		progressbar.OptionSetWidth(24),
		progressbar.OptionShowCount(),
		progressbar.OptionShowBytes(false),
		progressbar.OptionClearOnFinish(),
		progressbar.OptionSetTheme(progressbar.Theme{
			Saucer:        "=",
			SaucerHead:    ">",
			SaucerPadding: " ",
			BarStart:      "[",
			BarEnd:        "]",
		}),
	)

	pm.mu.Lock()
	pm.bars = append(pm.bars, bar)
	pm.mu.Unlock()

	return &TaskProgressImpl{bar: bar, prefix: description}
}

// IsInteractive always returns true
func (pm *ProgressManagerImpl) IsInteractive() bool {
	return true
}

// Close finishes every bar still running
func (pm *ProgressManagerImpl) Close() {
	pm.mu.Lock()
	defer pm.mu.Unlock()
	for _, bar := range pm.bars {
		if !bar.IsFinished() {
			_ = bar.Finish()
		}
	}
	pm.bars = nil
}

// TaskProgressImpl implements TaskProgress with a progressbar
type TaskProgressImpl struct {
	mu     sync.Mutex
	bar    *progressbar.ProgressBar
	prefix string
}

// Increment adds n to the current progress
func (tp *TaskProgressImpl) Increment(n int) {
	tp.mu.Lock()
	defer tp.mu.Unlock()
	_ = tp.bar.Add(n)
}

// Describe shows the item currently being processed next to the task description
func (tp *TaskProgressImpl) Describe(item string) {
	tp.mu.Lock()
	defer tp.mu.Unlock()
	if item == "" {
		tp.bar.Describe(tp.prefix)
		return
	}
	tp.bar.Describe(tp.prefix + " (" + item + ")")
}

// Complete marks the task as finished
func (tp *TaskProgressImpl) Complete() {
	tp.mu.Lock()
	defer tp.mu.Unlock()
	_ = tp.bar.Finish()
}

// NoOpProgressManager is used for quiet, structured or non-interactive output
type NoOpProgressManager struct{}

func (NoOpProgressManager) StartTask(string, int) domain.TaskProgress { return NoOpTaskProgress{} }
func (NoOpProgressManager) IsInteractive() bool                       { return false }
func (NoOpProgressManager) Close()                                    {}

// NoOpTaskProgress discards all progress updates
type NoOpTaskProgress struct{}

func (NoOpTaskProgress) Increment(int)   {}
func (NoOpTaskProgress) Describe(string) {}
func (NoOpTaskProgress) Complete()       {}
