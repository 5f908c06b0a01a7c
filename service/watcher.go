package service

import (
	"context"
	"fmt"
	"path/filepath"
	"sort"
	"time"

	"github.com/fsnotify/fsnotify"
	"github.com/ludo-technologies/rsbridge/domain"
	"github.com/sirupsen/logrus"
)

// ReportWatcher calls back when one of a fixed set of report files is rewritten.
// Events are debounced: the analyzer writes a report in several chunks.
type ReportWatcher struct {
	watcher  *fsnotify.Watcher
	reports  map[string]struct{}
	debounce time.Duration
	logger   logrus.FieldLogger
}

// NewReportWatcher watches the directories holding reports. The files themselves
// need not exist yet.
func NewReportWatcher(reports []string, debounce time.Duration, logger logrus.FieldLogger) (*ReportWatcher, error) {
	if len(reports) == 0 {
		return nil, domain.NewInvalidInputError("no report to watch", nil)
	}
	if logger == nil {
		logger = logrus.StandardLogger()
	}

	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, domain.NewDomainError(domain.ErrCodeRunner, "unable to start file watcher", err)
	}

	w := &ReportWatcher{
		watcher:  watcher,
		reports:  make(map[string]struct{}, len(reports)),
		debounce: debounce,
		logger:   logger,
	}

	dirs := map[string]struct{}{}
	for _, r := range reports {
		abs, err := filepath.Abs(r)
		if err != nil {
			abs = r
		}
		abs = filepath.Clean(abs)
		w.reports[abs] = struct{}{}

		dir := filepath.Dir(abs)
		if _, ok := dirs[dir]; ok {
			continue
		}
		dirs[dir] = struct{}{}
		if err := watcher.Add(dir); err != nil {
			_ = watcher.Close()
			return nil, domain.NewNotFoundError(fmt.Sprintf("unable to watch report directory %s", dir), err)
		}
		logger.WithField("directory", dir).Debug("Watching report directory")
	}

	return w, nil
}

// Run blocks until ctx is done, calling onChange with the sorted reports changed
// since the previous call. The watcher is closed when Run returns.
func (w *ReportWatcher) Run(ctx context.Context, onChange func(ctx context.Context, changed []string)) error {
	defer w.watcher.Close()

	var timer *time.Timer
	var fire <-chan time.Time
	pending := map[string]struct{}{}

	for {
		select {
		case <-ctx.Done():
			if timer != nil {
				timer.Stop()
			}
			return nil

		case ev, ok := <-w.watcher.Events:
			if !ok {
				return nil
			}
			if !ev.Has(fsnotify.Write) && !ev.Has(fsnotify.Create) && !ev.Has(fsnotify.Rename) {
				continue
			}
			name := filepath.Clean(ev.Name)
			if _, watched := w.reports[name]; !watched {
				continue
			}
			pending[name] = struct{}{}
			if timer != nil {
				timer.Stop()
			}
			timer = time.NewTimer(w.debounce)
			fire = timer.C

		case <-fire:
			fire = nil
			changed := make([]string, 0, len(pending))
			for name := range pending {
				changed = append(changed, name)
			}
			sort.Strings(changed)
			pending = map[string]struct{}{}

			w.logger.WithField("reports", changed).Info("Report changed, ingesting again")
			onChange(ctx, changed)

		case err, ok := <-w.watcher.Errors:
			if !ok {
				return nil
			}
			w.logger.WithError(err).Warn("File watcher error")
		}
	}
}

// Close stops watching without running
func (w *ReportWatcher) Close() error {
	return w.watcher.Close()
}
