// Package scan runs one full discovery and extraction pass over a directory tree.
package scan

import (
	"context"
	"errors"
	"fmt"
	"runtime"
	"sort"
	"time"

	"github.com/sirupsen/logrus"
	"golang.org/x/sync/errgroup"

	"github.com/masmgr/devcap-go/internal/discovery"
	"github.com/masmgr/devcap-go/internal/git"
	"github.com/masmgr/devcap-go/internal/logging"
	"github.com/masmgr/devcap-go/internal/model"
	"github.com/masmgr/devcap-go/internal/period"
)

// Options configures a scan.
type Options struct {
	Root   string
	Period string
	// Author restricts commits to one author name. Empty means not given.
	Author string
	// DefaultAuthor is the resolved default identity, used when Author is
	// empty. Empty means none is configured.
	DefaultAuthor string
	// AllAuthors disables author filtering regardless of the fields above.
	AllAuthors bool
	// Now anchors the period. The zero value means time.Now().
	Now time.Time
	// Workers bounds concurrent extraction. Zero means runtime.NumCPU().
	Workers int

	Backend     git.Backend
	BranchScope git.BranchScope
	AuthorMatch git.AuthorMatch
	FullMessage bool
	DiffStats   bool

	Discovery discovery.Options
	Logger    logrus.FieldLogger
}

// ResolveAuthor applies the fallback chain: explicit author, then the
// default identity, then no restriction.
func ResolveAuthor(explicit, fallback string, all bool) string {
	switch {
	case all:
		return ""
	case explicit != "":
		return explicit
	default:
		return fallback
	}
}

// Run discovers repositories below opts.Root and extracts their history in
// parallel. Projects without matching commits are dropped and the rest are
// sorted by latest commit, newest first. Repositories that cannot be read
// are logged and counted in ScanResult.Skipped.
func Run(ctx context.Context, opts Options) (model.ScanResult, error) {
	logger := logging.OrDiscard(opts.Logger)

	now := opts.Now
	if now.IsZero() {
		now = time.Now()
	}

	p, err := period.Parse(opts.Period)
	if err != nil {
		return model.ScanResult{}, err
	}
	rng := p.Range(now)
	author := ResolveAuthor(opts.Author, opts.DefaultAuthor, opts.AllAuthors)

	discoveryOpts := opts.Discovery
	if discoveryOpts.Logger == nil {
		discoveryOpts.Logger = logger
	}
	repos, err := discovery.FindRepos(opts.Root, discoveryOpts)
	if err != nil {
		return model.ScanResult{}, err
	}

	logger.WithFields(logrus.Fields{
		"root":   opts.Root,
		"period": p.String(),
		"range":  rng.String(),
		"repos":  len(repos),
	}).Debug("scan started")

	readOpts := git.ReadOptions{
		Range:       rng,
		Author:      git.AuthorMatcher{Name: author, Mode: opts.AuthorMatch},
		Branches:    opts.BranchScope,
		Backend:     opts.Backend,
		FullMessage: opts.FullMessage,
		DiffStats:   opts.DiffStats,
		Now:         now,
	}

	logs, skipped, err := collect(ctx, repos, readOpts, workers(opts.Workers), logger)
	if err != nil {
		return model.ScanResult{}, err
	}

	projects := make([]model.ProjectLog, 0, len(logs))
	for _, log := range logs {
		if log != nil {
			projects = append(projects, *log)
		}
	}
	SortProjects(projects)

	paths := make([]string, len(repos))
	for i, r := range repos {
		paths[i] = r.Path
	}

	return model.ScanResult{
		Root:         opts.Root,
		Period:       p.String(),
		Range:        rng,
		Author:       author,
		GeneratedAt:  now,
		Projects:     projects,
		Repositories: len(repos),
		RepoPaths:    paths,
		Skipped:      skipped,
	}, nil
}

// collect fans extraction out over a bounded pool. Each worker writes only
// its own slot, so the result keeps discovery order.
func collect(ctx context.Context, repos []discovery.Repository, opts git.ReadOptions, limit int, logger logrus.FieldLogger) ([]*model.ProjectLog, int, error) {
	logs := make([]*model.ProjectLog, len(repos))
	failed := make([]bool, len(repos))

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(limit)

	for i, repo := range repos {
		g.Go(func() error {
			if err := gctx.Err(); err != nil {
				return err
			}
			log, err := git.CollectProjectLog(gctx, repo, opts)
			if err != nil {
				if errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded) {
					return err
				}
				logger.WithError(err).WithField("repo", repo.Path).Warn("skipping repository")
				failed[i] = true
				return nil
			}
			logs[i] = log
			return nil
		})
	}

	if err := g.Wait(); err != nil {
		return nil, 0, fmt.Errorf("scan interrupted: %w", err)
	}

	skipped := 0
	for _, f := range failed {
		if f {
			skipped++
		}
	}
	return logs, skipped, nil
}

// SortProjects orders projects by latest commit time, newest first. Ties
// keep their current order.
func SortProjects(projects []model.ProjectLog) {
	sort.SliceStable(projects, func(i, j int) bool {
		return projects[i].LatestTime().After(projects[j].LatestTime())
	})
}

func workers(n int) int {
	if n > 0 {
		return n
	}
	return runtime.NumCPU()
}
