package service

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"strings"
	"time"

	"github.com/ludo-technologies/rsbridge/domain"
	"golang.org/x/sync/errgroup"
)

const (
	// DefaultMaxConcurrency is used when the configured value is not positive
	DefaultMaxConcurrency = 4
	DefaultTimeout        = 5 * time.Minute
)

// ProjectError is the failure of one project
type ProjectError struct {
	Project string
	Err     error
}

func (e ProjectError) Error() string {
	return fmt.Sprintf("[%s] %v", e.Project, e.Err)
}

func (e ProjectError) Unwrap() error {
	return e.Err
}

// AggregatedError collects all project failures, ordered by project name
type AggregatedError struct {
	Errors []ProjectError
}

func (e *AggregatedError) Error() string {
	switch len(e.Errors) {
	case 0:
		return "no errors"
	case 1:
		return e.Errors[0].Error()
	}

	var sb strings.Builder
	fmt.Fprintf(&sb, "%d projects failed:", len(e.Errors))
	for _, pe := range e.Errors {
		sb.WriteString("\n  ")
		sb.WriteString(pe.Error())
	}
	return sb.String()
}

// Unwrap exposes every project failure to errors.Is and errors.As
func (e *AggregatedError) Unwrap() []error {
	errs := make([]error, len(e.Errors))
	for i, pe := range e.Errors {
		errs[i] = pe
	}
	return errs
}

// ExecutorOptions configures a ParallelExecutorImpl
type ExecutorOptions struct {
	MaxConcurrency int           // <= 0 uses DefaultMaxConcurrency
	Timeout        time.Duration // <= 0 uses DefaultTimeout
	Description    string        // progress label
	Progress       domain.ProgressManager
}

// ParallelExecutorImpl runs project tasks with bounded concurrency under a
// shared deadline
type ParallelExecutorImpl struct {
	opts ExecutorOptions
}

// NewParallelExecutor creates an executor, filling unset options with defaults
func NewParallelExecutor(opts ExecutorOptions) *ParallelExecutorImpl {
	if opts.MaxConcurrency <= 0 {
		opts.MaxConcurrency = DefaultMaxConcurrency
	}
	if opts.Timeout <= 0 {
		opts.Timeout = DefaultTimeout
	}
	if opts.Description == "" {
		opts.Description = "Ingesting projects"
	}
	if opts.Progress == nil {
		opts.Progress = &NoOpProgressManager{}
	}
	return &ParallelExecutorImpl{opts: opts}
}

// Execute runs every enabled task to completion. Failures, including tasks
// that never started because the deadline passed, come back together as an
// *AggregatedError.
func (e *ParallelExecutorImpl) Execute(ctx context.Context, tasks []domain.ExecutableTask) error {
	var enabled []domain.ExecutableTask
	for _, t := range tasks {
		if t.IsEnabled() {
			enabled = append(enabled, t)
		}
	}
	if len(enabled) == 0 {
		return nil
	}

	ctx, cancel := context.WithTimeout(ctx, e.opts.Timeout)
	defer cancel()

	progress := e.opts.Progress.StartTask(e.opts.Description, len(enabled))
	defer progress.Complete()

	// one slot per task, so no locking is needed
	failures := make([]error, len(enabled))

	var g errgroup.Group
	g.SetLimit(e.opts.MaxConcurrency)
	for i, t := range enabled {
		i, t := i, t
		g.Go(func() error {
			defer progress.Increment(1)
			if err := ctx.Err(); err != nil {
				failures[i] = fmt.Errorf("not started: %w", err)
				return nil
			}
			progress.Describe(t.Name())
			if _, err := t.Execute(ctx); err != nil {
				failures[i] = err
			}
			return nil
		})
	}
	_ = g.Wait()

	var agg AggregatedError
	for i, err := range failures {
		if err != nil {
			agg.Errors = append(agg.Errors, ProjectError{Project: enabled[i].Name(), Err: err})
		}
	}
	if len(agg.Errors) == 0 {
		return nil
	}
	sort.SliceStable(agg.Errors, func(i, j int) bool {
		return agg.Errors[i].Project < agg.Errors[j].Project
	})
	return &agg
}

// IsTimeout reports whether err is, or aggregates, a deadline expiry
func IsTimeout(err error) bool {
	return errors.Is(err, context.DeadlineExceeded)
}
