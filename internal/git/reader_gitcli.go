package git

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"os/exec"
	"regexp"
	"sort"
	"strconv"
	"strings"
	"time"

	"github.com/masmgr/devcap-go/internal/model"
)

// CLIReader reads commit history by running the git binary.
type CLIReader struct {
	opts ReadOptions
}

// NewCLIReader checks that opts.RepoPath is a repository the git binary can read.
func NewCLIReader(ctx context.Context, opts ReadOptions) (*CLIReader, error) {
	r := &CLIReader{opts: opts}
	if _, err := exec.LookPath("git"); err != nil {
		return nil, fmt.Errorf("%w: git binary not found: %v", ErrRepositoryAccess, err)
	}
	if _, err := r.git(ctx, "rev-parse", "--git-dir"); err != nil {
		return nil, fmt.Errorf("%w: open %s: %v", ErrRepositoryAccess, opts.RepoPath, err)
	}
	return r, nil
}

// ReadBranches runs git log for each branch in scope.
func (r *CLIReader) ReadBranches(ctx context.Context) ([]BranchHistory, error) {
	tips, err := r.branchTips(ctx)
	if err != nil {
		return nil, err
	}

	branches := make([]BranchHistory, 0, len(tips))
	for _, tip := range tips {
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

type cliTip struct {
	name string
	hash string
}

func (r *CLIReader) branchTips(ctx context.Context) ([]cliTip, error) {
	if r.opts.Branches == BranchScopeCurrent {
		return r.headTip(ctx)
	}

	out, err := r.git(ctx, "for-each-ref", "--format=%(refname:short)%00%(objectname)", "refs/heads")
	if err != nil {
		return nil, fmt.Errorf("%w: list branches: %v", ErrRepositoryAccess, err)
	}
	tips := parseRefList(out)
	if len(tips) == 0 {
		return r.headTip(ctx)
	}
	return tips, nil
}

func parseRefList(out []byte) []cliTip {
	var tips []cliTip
	for _, line := range strings.Split(string(out), "\n") {
		name, hash, ok := strings.Cut(strings.TrimRight(line, "\r"), "\x00")
		if !ok || name == "" || hash == "" {
			continue
		}
		tips = append(tips, cliTip{name: name, hash: hash})
	}
	sort.Slice(tips, func(i, j int) bool {
		return tips[i].name < tips[j].name
	})
	return tips
}

func (r *CLIReader) headTip(ctx context.Context) ([]cliTip, error) {
	out, err := r.git(ctx, "rev-parse", "--verify", "--quiet", "HEAD")
	if err != nil {
		// Unborn HEAD: an empty repository.
		return nil, nil
	}
	hash := strings.TrimSpace(string(out))

	name := "HEAD"
	if out, err := r.git(ctx, "symbolic-ref", "--quiet", "--short", "HEAD"); err == nil {
		name = strings.TrimSpace(string(out))
	}
	return []cliTip{{name: name, hash: hash}}, nil
}

// Each commit header is prefixed by 0x1e (record separator) and its fields
// are NUL separated. The raw body is the last field, so the optional
// --shortstat line follows the final NUL.
const cliLogFormat = "%x1e%H%x00%cI%x00%an%x00%ae%x00%B%x00"

func (r *CLIReader) readBranch(ctx context.Context, rev string) ([]CommitInfo, error) {
	args := []string{
		"log",
		"--no-color",
		"--date-order",
		"--pretty=format:" + cliLogFormat,
	}
	if r.opts.DiffStats {
		args = append(args, "--shortstat")
	}
	if !r.opts.Range.Start.IsZero() {
		args = append(args, fmt.Sprintf("--since=@%d", r.opts.Range.Start.Unix()))
	}
	if !r.opts.Range.End.IsZero() {
		args = append(args, fmt.Sprintf("--until=@%d", r.opts.Range.End.Unix()))
	}
	args = append(args, rev, "--")

	out, err := r.git(ctx, args...)
	if err != nil {
		return nil, err
	}

	commits, err := parseLogRecords(out, r.opts.DiffStats)
	if err != nil {
		return nil, err
	}

	// git's --since/--until are second-granular; apply the exact range here.
	results := commits[:0]
	for _, c := range commits {
		if r.opts.Range.Contains(c.When) && r.opts.Author.Matches(c.Author.Name) {
			results = append(results, c)
		}
	}
	return results, nil
}

func parseLogRecords(out []byte, withStats bool) ([]CommitInfo, error) {
	records := bytes.Split(out, []byte{0x1e})
	results := make([]CommitInfo, 0, len(records))

	for _, rec := range records {
		if len(bytes.TrimSpace(rec)) == 0 {
			continue
		}

		fields := bytes.SplitN(rec, []byte{0x00}, 6)
		if len(fields) < 6 {
			return nil, fmt.Errorf("unexpected git log record format")
		}

		when, err := time.Parse(time.RFC3339, string(fields[1]))
		if err != nil {
			return nil, fmt.Errorf("parse committer date: %w", err)
		}

		info := CommitInfo{
			SHA:     string(fields[0]),
			When:    when,
			Author:  AuthorInfo{Name: string(fields[2]), Email: string(fields[3])},
			Message: string(fields[4]),
		}
		if withStats {
			stat, err := parseShortStat(string(fields[5]))
			if err != nil {
				return nil, err
			}
			info.Stat = &stat
		}
		results = append(results, info)
	}
	return results, nil
}

var shortStatPattern = regexp.MustCompile(`(\d+) files? changed(?:, (\d+) insertions?\(\+\))?(?:, (\d+) deletions?\(-\))?`)

// parseShortStat parses a --shortstat summary line. An empty line is an
// empty change.
func parseShortStat(s string) (model.DiffStat, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return model.DiffStat{}, nil
	}
	m := shortStatPattern.FindStringSubmatch(s)
	if m == nil {
		return model.DiffStat{}, fmt.Errorf("unexpected git shortstat %q", s)
	}

	atoi := func(v string) int {
		if v == "" {
			return 0
		}
		n, _ := strconv.Atoi(v)
		return n
	}
	return model.DiffStat{
		FilesChanged: atoi(m[1]),
		Insertions:   atoi(m[2]),
		Deletions:    atoi(m[3]),
	}, nil
}

// RemoteURL returns the origin URL as configured, or "" if none.
func (r *CLIReader) RemoteURL(ctx context.Context) (string, error) {
	out, err := r.git(ctx, "config", "--get", "remote.origin.url")
	if err != nil {
		var exitErr *exec.ExitError
		// Exit status 1 means the key is not set.
		if errors.As(err, &exitErr) && exitErr.ExitCode() == 1 {
			return "", nil
		}
		return "", fmt.Errorf("%w: read origin remote: %v", ErrRepositoryAccess, err)
	}
	return strings.TrimSpace(string(out)), nil
}

func (r *CLIReader) git(ctx context.Context, args ...string) ([]byte, error) {
	full := append([]string{"-C", r.opts.RepoPath}, args...)
	cmd := exec.CommandContext(ctx, "git", full...)
	var stderr bytes.Buffer
	cmd.Stderr = &stderr
	out, err := cmd.Output()
	if err != nil {
		return nil, fmt.Errorf("git %s failed: %w: %s", args[0], err, strings.TrimSpace(stderr.String()))
	}
	return out, nil
}
