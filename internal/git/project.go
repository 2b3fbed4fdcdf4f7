package git

import (
	"context"
	"sort"
	"strings"
	"time"

	"github.com/dustin/go-humanize"

	"github.com/masmgr/devcap-go/internal/discovery"
	"github.com/masmgr/devcap-go/internal/model"
)

// NewReader opens opts.RepoPath with the configured backend.
func NewReader(ctx context.Context, opts ReadOptions) (RepositoryReader, error) {
	if opts.Backend == BackendGitCLI {
		return NewCLIReader(ctx, opts)
	}
	return NewHistoryReader(opts)
}

// CollectProjectLog extracts the filtered history of one repository. It
// returns nil without error when no branch has a matching commit.
func CollectProjectLog(ctx context.Context, repo discovery.Repository, opts ReadOptions) (*model.ProjectLog, error) {
	opts.RepoPath = repo.Path
	reader, err := NewReader(ctx, opts)
	if err != nil {
		return nil, err
	}

	branches, err := reader.ReadBranches(ctx)
	if err != nil {
		return nil, err
	}

	// The remote only decorates the log; a broken remote config is not fatal.
	remoteURL, _ := reader.RemoteURL(ctx)

	return BuildProjectLog(repo, remoteURL, branches, opts), nil
}

// BuildProjectLog turns raw branch histories into a project log. Commits
// outside the range or by other authors are dropped, each branch is
// deduplicated by hash and ordered newest first, and empty branches are
// removed. It returns nil when nothing remains.
func BuildProjectLog(repo discovery.Repository, remoteURL string, branches []BranchHistory, opts ReadOptions) *model.ProjectLog {
	now := opts.Now
	if now.IsZero() {
		now = time.Now()
	}
	remote, _ := ParseRemote(remoteURL)

	project := &model.ProjectLog{
		Name:      repo.Name,
		Path:      repo.Path,
		Origin:    remote.Origin,
		RemoteURL: remote.WebURL,
	}

	unique := make(map[string]*model.DiffStat)
	for _, b := range branches {
		commits := filterCommits(b.Commits, opts)
		if len(commits) == 0 {
			continue
		}

		branch := model.BranchLog{
			Name:    b.Name,
			URL:     remote.BranchURL(b.Name),
			Commits: make([]model.CommitRecord, 0, len(commits)),
		}
		if opts.DiffStats {
			branch.DiffStat = &model.DiffStat{}
		}

		for _, c := range commits {
			rec := newCommitRecord(c, remote, now, opts.FullMessage)
			if rec.DiffStat != nil {
				if branch.DiffStat != nil {
					branch.DiffStat.Add(*rec.DiffStat)
				}
				unique[rec.Hash] = rec.DiffStat
			}
			branch.Commits = append(branch.Commits, rec)
		}
		project.Branches = append(project.Branches, branch)
	}

	if len(project.Branches) == 0 {
		return nil
	}

	if opts.DiffStats {
		total := &model.DiffStat{}
		for _, s := range unique {
			total.Add(*s)
		}
		project.DiffStat = total
	}
	return project
}

// filterCommits applies the range and author filter, drops duplicate hashes
// and sorts newest first. Equal times are ordered by hash.
func filterCommits(commits []CommitInfo, opts ReadOptions) []CommitInfo {
	seen := make(map[string]struct{}, len(commits))
	kept := make([]CommitInfo, 0, len(commits))
	for _, c := range commits {
		if !opts.Range.Contains(c.When) || !opts.Author.Matches(c.Author.Name) {
			continue
		}
		if _, dup := seen[c.SHA]; dup {
			continue
		}
		seen[c.SHA] = struct{}{}
		kept = append(kept, c)
	}

	sort.SliceStable(kept, func(i, j int) bool {
		if !kept[i].When.Equal(kept[j].When) {
			return kept[i].When.After(kept[j].When)
		}
		return kept[i].SHA < kept[j].SHA
	})
	return kept
}

func newCommitRecord(c CommitInfo, remote Remote, now time.Time, fullMessage bool) model.CommitRecord {
	subject := Subject(c.Message)
	message := subject
	if fullMessage {
		message = strings.TrimSpace(c.Message)
	}

	rec := model.CommitRecord{
		Hash:         c.SHA,
		Author:       c.Author.Name,
		Message:      message,
		CommitType:   CommitType(subject),
		Time:         c.When,
		RelativeTime: humanize.RelTime(c.When, now, "ago", "from now"),
		URL:          remote.CommitURL(c.SHA),
	}
	if c.Stat != nil {
		stat := *c.Stat
		rec.DiffStat = &stat
	}
	return rec
}
