// Package runner launches the InspectCode command line tool.
package runner

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/exec"
	"path/filepath"
	"runtime"
	"sync"
	"time"

	"github.com/ludo-technologies/rsbridge/domain"
	"github.com/sirupsen/logrus"
)

// Executable names looked up in the install directory, in order
var executableNames = map[string][]string{
	"windows": {"inspectcode.exe", "InspectCode.exe"},
	"default": {"inspectcode.sh", "inspectcode", "InspectCode.exe"},
}

// CommandExecutor runs an invocation and returns its combined output
type CommandExecutor interface {
	Execute(ctx context.Context, inv domain.Invocation) (string, error)
}

// DefaultCommandExecutor runs invocations with os/exec
type DefaultCommandExecutor struct {
	Logger logrus.FieldLogger
}

var _ CommandExecutor = &DefaultCommandExecutor{}

func (d *DefaultCommandExecutor) Execute(ctx context.Context, inv domain.Invocation) (string, error) {
	logger := d.Logger
	if logger == nil {
		logger = logrus.StandardLogger()
	}
	logger.Debug("Running command: ", inv.Executable, " ", inv.Args)
	cmd := exec.CommandContext(ctx, inv.Executable, inv.Args...)
	out, err := cmd.CombinedOutput()
	logger.Debug("Command output: ", string(out))
	return string(out), err
}

// FakeCommandExecutor records invocations instead of running them. It is safe for concurrent use.
type FakeCommandExecutor struct {
	mu sync.Mutex

	Output      string
	ErrStr      string
	Delay       time.Duration
	Invocations []domain.Invocation
}

var _ CommandExecutor = &FakeCommandExecutor{}

func (f *FakeCommandExecutor) Execute(ctx context.Context, inv domain.Invocation) (string, error) {
	f.mu.Lock()
	f.Invocations = append(f.Invocations, inv)
	f.mu.Unlock()
	if f.Delay > 0 {
		select {
		case <-time.After(f.Delay):
		case <-ctx.Done():
			return "", ctx.Err()
		}
	}
	if f.ErrStr != "" {
		return f.Output, errors.New(f.ErrStr)
	}
	return f.Output, nil
}

// Runner executes the analyzer with a time limit
type Runner struct {
	Executor CommandExecutor
	Timeout  time.Duration
	Logger   logrus.FieldLogger
}

// New creates a runner with the default executor. A timeout of zero minutes
// disables the limit; a nil logger means the standard logger.
func New(timeoutMinutes int, logger logrus.FieldLogger) *Runner {
	if logger == nil {
		logger = logrus.StandardLogger()
	}
	return &Runner{
		Executor: &DefaultCommandExecutor{Logger: logger},
		Timeout:  time.Duration(timeoutMinutes) * time.Minute,
		Logger:   logger,
	}
}

// Run executes inv and fails with a RUNNER_ERROR on a non-zero exit or timeout
func (r *Runner) Run(ctx context.Context, inv domain.Invocation) error {
	if r.Timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, r.Timeout)
		defer cancel()
	}

	start := time.Now()
	out, err := r.Executor.Execute(ctx, inv)
	if ctx.Err() == context.DeadlineExceeded {
		return domain.NewRunnerError(fmt.Sprintf("analyzer did not finish within %s", r.Timeout), ctx.Err())
	}
	if err != nil {
		msg := "analyzer execution failed"
		if out != "" {
			msg = fmt.Sprintf("%s: %s", msg, lastLines(out, 5))
		}
		return domain.NewRunnerError(msg, err)
	}

	logger := r.Logger
	if logger == nil {
		logger = logrus.StandardLogger()
	}
	logger.WithField("duration", time.Since(start).Round(time.Millisecond)).Info("Analyzer finished")
	return nil
}

// LocateExecutable finds the InspectCode executable in installDir
func LocateExecutable(installDir string) (string, error) {
	if installDir == "" {
		return "", domain.NewConfigError("runner install directory is not configured", nil)
	}

	names, ok := executableNames[runtime.GOOS]
	if !ok {
		names = executableNames["default"]
	}
	for _, name := range names {
		path := filepath.Join(installDir, name)
		if info, err := os.Stat(path); err == nil && !info.IsDir() {
			return path, nil
		}
	}
	return "", domain.NewNotFoundError(fmt.Sprintf("no InspectCode executable found in %s", installDir), nil)
}

func lastLines(s string, n int) string {
	end := len(s)
	for end > 0 && (s[end-1] == '\n' || s[end-1] == '\r') {
		end--
	}
	start := end
	for count := 0; start > 0; start-- {
		if s[start-1] == '\n' {
			count++
			if count == n {
				break
			}
		}
	}
	return s[start:end]
}
