// Package discovery finds git repositories below a directory.
package discovery

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/bmatcuk/doublestar/v4"
	"github.com/go-git/go-billy/v5"
	"github.com/go-git/go-billy/v5/osfs"
	"github.com/sirupsen/logrus"

	"github.com/masmgr/devcap-go/internal/logging"
)

// Marker is the directory entry that identifies a repository root. It may
// be a directory or, for worktrees and submodules, a file.
const Marker = ".git"

// maxSymlinkHops bounds how many symlinks may be followed along one path.
const maxSymlinkHops = 1

// ErrInvalidRoot is returned when the scan root is missing or not a directory.
var ErrInvalidRoot = errors.New("invalid scan root")

// DefaultExclude lists directories that never contain projects worth reporting.
var DefaultExclude = []string{"**/node_modules", "**/.cache"}

// Repository identifies a discovered repository root.
type Repository struct {
	// Path is the absolute path of the working directory.
	Path string
	// Name is the directory name, used as the project name.
	Name string
}

// Options controls traversal.
type Options struct {
	// Exclude holds doublestar patterns matched against paths relative to
	// the scan root. Matching directories are not descended.
	Exclude []string
	// IncludeHidden descends into dot-directories.
	IncludeHidden bool
	// FollowSymlinks descends into symlinked directories. On the host
	// filesystem targets resolve inside the scan root only, so links that
	// leave the root are never followed.
	FollowSymlinks bool
	// MaxDepth limits descent below the root; 0 means unlimited.
	MaxDepth int
	Logger   logrus.FieldLogger
}

// FindRepos walks root on the host filesystem and returns the repository
// roots in traversal order.
func FindRepos(root string, opts Options) ([]Repository, error) {
	abs, err := filepath.Abs(root)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidRoot, err)
	}
	info, err := os.Stat(abs)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidRoot, err)
	}
	if !info.IsDir() {
		return nil, fmt.Errorf("%w: %s is not a directory", ErrInvalidRoot, abs)
	}

	fs := osfs.New(abs, osfs.WithBoundOS())
	found := Find(fs, ".", opts)

	// Symlinked paths may lead to the same repository twice. The first
	// occurrence keeps its position; the shortest path wins.
	var order []string
	best := make(map[string]string, len(found))
	for _, r := range found {
		path := filepath.Join(abs, r.Path)
		identity := path
		if real, err := filepath.EvalSymlinks(path); err == nil {
			identity = real
		}
		prev, dup := best[identity]
		if !dup {
			order = append(order, identity)
			best[identity] = path
			continue
		}
		if len(path) < len(prev) {
			best[identity] = path
		}
	}

	repos := make([]Repository, 0, len(order))
	for _, identity := range order {
		path := best[identity]
		repos = append(repos, Repository{Path: path, Name: filepath.Base(path)})
	}
	return repos, nil
}

// Find walks fs from start and returns repository roots as fs paths.
// Unreadable directories are skipped.
func Find(fs billy.Filesystem, start string, opts Options) []Repository {
	w := &walker{
		fs:     fs,
		opts:   opts,
		logger: logging.OrDiscard(opts.Logger),
	}
	w.walk(start, "", 0, 0)
	return w.repos
}

type walker struct {
	fs     billy.Filesystem
	opts   Options
	logger logrus.FieldLogger
	repos  []Repository
}

func (w *walker) walk(dir, rel string, depth, hops int) {
	entries, err := w.fs.ReadDir(dir)
	if err != nil {
		w.logger.WithError(err).WithField("dir", dir).Debug("skipping unreadable directory")
		return
	}
	sort.Slice(entries, func(i, j int) bool {
		return entries[i].Name() < entries[j].Name()
	})

	for _, e := range entries {
		if e.Name() == Marker {
			w.repos = append(w.repos, Repository{Path: dir, Name: baseName(dir)})
			return
		}
	}

	if w.opts.MaxDepth > 0 && depth >= w.opts.MaxDepth {
		return
	}

	for _, e := range entries {
		name := e.Name()
		childRel := name
		if rel != "" {
			childRel = rel + "/" + name
		}
		child := w.fs.Join(dir, name)

		childHops := hops
		switch {
		case e.Mode()&os.ModeSymlink != 0:
			if !w.opts.FollowSymlinks || hops >= maxSymlinkHops {
				continue
			}
			target, err := w.fs.Stat(child)
			if err != nil || !target.IsDir() {
				continue
			}
			childHops++
		case !e.IsDir():
			continue
		}

		if w.skip(name, childRel) {
			continue
		}
		w.walk(child, childRel, depth+1, childHops)
	}
}

func (w *walker) skip(name, rel string) bool {
	if !w.opts.IncludeHidden && strings.HasPrefix(name, ".") {
		return true
	}
	for _, pattern := range w.opts.Exclude {
		if matched, _ := doublestar.Match(pattern, rel); matched {
			return true
		}
	}
	return false
}

func baseName(path string) string {
	name := filepath.Base(filepath.Clean(path))
	if name == "." || name == string(filepath.Separator) {
		return ""
	}
	return name
}
