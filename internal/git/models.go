package git

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/masmgr/devcap-go/internal/model"
	"github.com/masmgr/devcap-go/internal/period"
)

// ErrRepositoryAccess is returned when a repository cannot be opened or read.
var ErrRepositoryAccess = errors.New("repository access failed")

// CommitInfo represents minimal information about a Git commit.
type CommitInfo struct {
	SHA     string
	When    time.Time
	Author  AuthorInfo
	Message string
	// Stat is nil unless diff stats were requested.
	Stat *model.DiffStat
}

// AuthorInfo represents commit author information.
type AuthorInfo struct {
	Name  string
	Email string
}

// BranchHistory is the raw history read from one branch tip.
type BranchHistory struct {
	Name    string
	Commits []CommitInfo
}

// BranchScope selects which branches are read.
type BranchScope string

const (
	// BranchScopeAll reads every local branch.
	BranchScopeAll BranchScope = "all"
	// BranchScopeCurrent reads only the branch HEAD points to.
	BranchScopeCurrent BranchScope = "current"
)

// ParseBranchScope parses a branch scope name. Empty means all.
func ParseBranchScope(s string) (BranchScope, error) {
	switch BranchScope(strings.ToLower(strings.TrimSpace(s))) {
	case "", BranchScopeAll:
		return BranchScopeAll, nil
	case BranchScopeCurrent:
		return BranchScopeCurrent, nil
	default:
		return "", fmt.Errorf("invalid branch scope %q: use all or current", s)
	}
}

// AuthorMatch selects how author names are compared.
type AuthorMatch string

const (
	// AuthorMatchExact compares names byte for byte.
	AuthorMatchExact AuthorMatch = "exact"
	// AuthorMatchFold compares names under Unicode case folding.
	AuthorMatchFold AuthorMatch = "fold"
)

// ParseAuthorMatch parses an author match mode. Empty means exact.
func ParseAuthorMatch(s string) (AuthorMatch, error) {
	switch AuthorMatch(strings.ToLower(strings.TrimSpace(s))) {
	case "", AuthorMatchExact:
		return AuthorMatchExact, nil
	case AuthorMatchFold:
		return AuthorMatchFold, nil
	default:
		return "", fmt.Errorf("invalid author match %q: use exact or fold", s)
	}
}

// AuthorMatcher filters commits by author name. The zero value matches
// every author.
type AuthorMatcher struct {
	Name string
	Mode AuthorMatch
}

// Unrestricted reports whether the matcher accepts every author.
func (m AuthorMatcher) Unrestricted() bool {
	return m.Name == ""
}

// Matches reports whether name passes the filter.
func (m AuthorMatcher) Matches(name string) bool {
	if m.Unrestricted() {
		return true
	}
	if m.Mode == AuthorMatchFold {
		return strings.EqualFold(m.Name, name)
	}
	return m.Name == name
}

// Backend selects the history reader implementation.
type Backend string

const (
	// BackendGoGit reads repositories in process with go-git.
	BackendGoGit Backend = "gogit"
	// BackendGitCLI shells out to the git binary.
	BackendGitCLI Backend = "gitcli"
)

// ParseBackend parses a backend name. Empty means gogit.
func ParseBackend(s string) (Backend, error) {
	switch Backend(strings.ToLower(strings.TrimSpace(s))) {
	case "", BackendGoGit:
		return BackendGoGit, nil
	case BackendGitCLI:
		return BackendGitCLI, nil
	default:
		return "", fmt.Errorf("invalid backend %q: use gogit or gitcli", s)
	}
}

// ReadOptions configures history extraction for one repository.
type ReadOptions struct {
	RepoPath string
	Range    period.TimeRange
	Author   AuthorMatcher
	Branches BranchScope
	Backend  Backend
	// FullMessage keeps the whole trimmed message instead of the first line.
	FullMessage bool
	// DiffStats computes per-commit file and line counts.
	DiffStats bool
	// Now anchors relative times. The zero value means time.Now().
	Now time.Time
}
