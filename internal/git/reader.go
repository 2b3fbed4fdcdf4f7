package git

import (
	"context"
	"errors"
	"fmt"
	"sort"

	"github.com/go-git/go-git/v5"
	"github.com/go-git/go-git/v5/plumbing"
	"github.com/go-git/go-git/v5/plumbing/object"
	"github.com/go-git/go-git/v5/plumbing/storer"

	"github.com/masmgr/devcap-go/internal/model"
)

// HistoryReader reads commit history from a Git repository with go-git.
type HistoryReader struct {
	repo *git.Repository
	opts ReadOptions
	// commits caches converted commits; branches usually share most history.
	commits map[plumbing.Hash]CommitInfo
}

// NewHistoryReader opens the repository at opts.RepoPath.
func NewHistoryReader(opts ReadOptions) (*HistoryReader, error) {
	repo, err := git.PlainOpenWithOptions(opts.RepoPath, &git.PlainOpenOptions{
		EnableDotGitCommonDir: true,
	})
	if err != nil {
		return nil, fmt.Errorf("%w: open %s: %v", ErrRepositoryAccess, opts.RepoPath, err)
	}
	return &HistoryReader{
		repo:    repo,
		opts:    opts,
		commits: make(map[plumbing.Hash]CommitInfo),
	}, nil
}

type branchTip struct {
	name string
	hash plumbing.Hash
}

// ReadBranches walks each branch in scope and keeps commits inside the range.
func (r *HistoryReader) ReadBranches(ctx context.Context) ([]BranchHistory, error) {
	tips, err := r.branchTips()
	if err != nil {
		return nil, err
	}

	branches := make([]BranchHistory, 0, len(tips))
	for _, tip := range tips {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		commits, err := r.readBranch(ctx, tip.hash)
		if ctxErr := ctx.Err(); ctxErr != nil {
			return nil, ctxErr
		}
		if err != nil {
			return nil, fmt.Errorf("%w: branch %s: %v", ErrRepositoryAccess, tip.name, err)
		}
		branches = append(branches, BranchHistory{Name: tip.name, Commits: commits})
	}
	return branches, nil
}

// branchTips resolves the branches to walk. An empty repository has none.
func (r *HistoryReader) branchTips() ([]branchTip, error) {
	if r.opts.Branches == BranchScopeCurrent {
		return r.headTip()
	}

	iter, err := r.repo.Branches()
	if err != nil {
		return nil, fmt.Errorf("%w: list branches: %v", ErrRepositoryAccess, err)
	}
	var tips []branchTip
	err = iter.ForEach(func(ref *plumbing.Reference) error {
		tips = append(tips, branchTip{name: ref.Name().Short(), hash: ref.Hash()})
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("%w: list branches: %v", ErrRepositoryAccess, err)
	}
	if len(tips) == 0 {
		return r.headTip()
	}

	sort.Slice(tips, func(i, j int) bool {
		return tips[i].name < tips[j].name
	})
	return tips, nil
}

func (r *HistoryReader) headTip() ([]branchTip, error) {
	head, err := r.repo.Head()
	if errors.Is(err, plumbing.ErrReferenceNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("%w: resolve HEAD: %v", ErrRepositoryAccess, err)
	}

	name := "HEAD"
	if head.Name().IsBranch() {
		name = head.Name().Short()
	}
	return []branchTip{{name: name, hash: head.Hash()}}, nil
}

// readBranch walks history newest first by committer time and stops at the
// first commit older than the range start.
func (r *HistoryReader) readBranch(ctx context.Context, from plumbing.Hash) ([]CommitInfo, error) {
	cIter, err := r.repo.Log(&git.LogOptions{
		From:  from,
		Order: git.LogOrderCommitterTime,
	})
	if err != nil {
		return nil, err
	}
	defer cIter.Close()

	var results []CommitInfo
	err = cIter.ForEach(func(c *object.Commit) error {
		if err := ctx.Err(); err != nil {
			return err
		}

		when := c.Committer.When
		if r.opts.Range.Before(when) {
			return storer.ErrStop
		}
		if !r.opts.Range.Contains(when) || !r.opts.Author.Matches(c.Author.Name) {
			return nil
		}

		info, err := r.convert(ctx, c)
		if err != nil {
			return err
		}
		results = append(results, info)
		return nil
	})
	if err != nil {
		return nil, err
	}
	return results, nil
}

func (r *HistoryReader) convert(ctx context.Context, c *object.Commit) (CommitInfo, error) {
	if info, ok := r.commits[c.Hash]; ok {
		return info, nil
	}

	info := CommitInfo{
		SHA:     c.Hash.String(),
		When:    c.Committer.When,
		Author:  AuthorInfo{Name: c.Author.Name, Email: c.Author.Email},
		Message: c.Message,
	}

	if r.opts.DiffStats {
		stats, err := c.StatsContext(ctx)
		if err != nil {
			return CommitInfo{}, fmt.Errorf("stats %s: %w", c.Hash, err)
		}
		stat := &model.DiffStat{FilesChanged: len(stats)}
		for _, s := range stats {
			stat.Insertions += s.Addition
			stat.Deletions += s.Deletion
		}
		info.Stat = stat
	}

	r.commits[c.Hash] = info
	return info, nil
}

// RemoteURL returns the first URL of the origin remote.
func (r *HistoryReader) RemoteURL(_ context.Context) (string, error) {
	remote, err := r.repo.Remote(git.DefaultRemoteName)
	if errors.Is(err, git.ErrRemoteNotFound) {
		return "", nil
	}
	if err != nil {
		return "", fmt.Errorf("%w: read origin remote: %v", ErrRepositoryAccess, err)
	}
	if urls := remote.Config().URLs; len(urls) > 0 {
		return urls[0], nil
	}
	return "", nil
}
