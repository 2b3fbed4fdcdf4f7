// Package watch re-runs scans on a timer and when repository refs change.
package watch

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"time"

	"github.com/fsnotify/fsnotify"
	"github.com/sirupsen/logrus"

	"github.com/masmgr/devcap-go/internal/logging"
)

// DefaultInterval matches the menubar refresh period.
const DefaultInterval = 15 * time.Minute

// Options controls the watch loop.
type Options struct {
	// Interval between scheduled scans. Zero means DefaultInterval.
	Interval time.Duration
	// Debounce groups bursts of ref updates into one scan.
	Debounce time.Duration
	Logger   logrus.FieldLogger
}

// ScanFunc runs one full scan and returns the repository roots it found.
// Those roots are watched until the next scan replaces them.
type ScanFunc func(ctx context.Context) ([]string, error)

// Run scans once, then again on every interval tick and after each
// debounced burst of ref changes. A failed scan is logged and the loop
// continues. Run returns nil when ctx is cancelled.
func Run(ctx context.Context, opts Options, scan ScanFunc) error {
	logger := logging.OrDiscard(opts.Logger)
	interval := opts.Interval
	if interval <= 0 {
		interval = DefaultInterval
	}

	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return fmt.Errorf("create watcher: %w", err)
	}
	defer watcher.Close()

	watched := make(map[string]struct{})
	runScan := func(reason string) {
		logger.WithField("reason", reason).Debug("scan triggered")
		repos, err := scan(ctx)
		if err != nil {
			if ctx.Err() == nil {
				logger.WithError(err).Warn("scan failed")
			}
			return
		}
		syncWatches(watcher, watched, repos, logger)
	}

	runScan("start")

	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	// debounce is nil while no change is pending.
	var debounce <-chan time.Time

	for {
		select {
		case <-ctx.Done():
			return nil
		case <-ticker.C:
			runScan("interval")
		case event, ok := <-watcher.Events:
			if !ok {
				return nil
			}
			if ShouldIgnore(event) {
				continue
			}
			logger.WithFields(logrus.Fields{"op": event.Op.String(), "path": event.Name}).Debug("ref change")
			if debounce == nil {
				debounce = time.After(opts.Debounce)
			}
		case err, ok := <-watcher.Errors:
			if !ok {
				return nil
			}
			logger.WithError(err).Warn("watch error")
		case <-debounce:
			debounce = nil
			runScan("change")
		}
	}
}

// Paths returns the directories watched for a repository: the git
// directory and its local branch refs. Repositories whose .git is a file
// (worktrees and submodules) are not watched and rely on the interval.
func Paths(repo string) []string {
	gitDir := filepath.Join(repo, ".git")
	info, err := os.Stat(gitDir)
	if err != nil || !info.IsDir() {
		return nil
	}
	paths := []string{gitDir}
	heads := filepath.Join(gitDir, "refs", "heads")
	if info, err := os.Stat(heads); err == nil && info.IsDir() {
		paths = append(paths, heads)
	}
	return paths
}

// ShouldIgnore reports whether event cannot change branch history.
func ShouldIgnore(event fsnotify.Event) bool {
	if event.Op&(fsnotify.Write|fsnotify.Create|fsnotify.Remove|fsnotify.Rename) == 0 {
		return true
	}
	base := filepath.Base(event.Name)
	if strings.EqualFold(filepath.Ext(base), ".lock") {
		return true
	}
	switch base {
	case "index", "FETCH_HEAD", "COMMIT_EDITMSG", "objects", "logs":
		return true
	}
	return false
}

func syncWatches(watcher *fsnotify.Watcher, watched map[string]struct{}, repos []string, logger logrus.FieldLogger) {
	want := make(map[string]struct{})
	for _, repo := range repos {
		for _, p := range Paths(repo) {
			want[p] = struct{}{}
		}
	}

	for p := range watched {
		if _, ok := want[p]; ok {
			continue
		}
		if err := watcher.Remove(p); err != nil {
			logger.WithError(err).WithField("path", p).Debug("unwatch failed")
		}
		delete(watched, p)
	}

	added := make([]string, 0, len(want))
	for p := range want {
		if _, ok := watched[p]; !ok {
			added = append(added, p)
		}
	}
	sort.Strings(added)
	for _, p := range added {
		if err := watcher.Add(p); err != nil {
			logger.WithError(err).WithField("path", p).Debug("watch failed")
			continue
		}
		watched[p] = struct{}{}
	}
}
