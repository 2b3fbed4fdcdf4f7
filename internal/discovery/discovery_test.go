package discovery

import (
	"errors"
	"os"
	"path/filepath"
	"reflect"
	"testing"

	"github.com/go-git/go-billy/v5"
	"github.com/go-git/go-billy/v5/memfs"
)

func mkdirs(t *testing.T, fs billy.Filesystem, paths ...string) {
	t.Helper()
	for _, p := range paths {
		if err := fs.MkdirAll(p, 0o755); err != nil {
			t.Fatalf("MkdirAll(%s): %v", p, err)
		}
	}
}

func repoPaths(repos []Repository) []string {
	paths := make([]string, 0, len(repos))
	for _, r := range repos {
		paths = append(paths, r.Path)
	}
	return paths
}

func TestFind_DoesNotDescendIntoRepositories(t *testing.T) {
	fs := memfs.New()
	mkdirs(t, fs,
		"/work/repoA/.git",
		"/work/repoA/vendor/repoB/.git",
		"/work/notes",
	)

	got := repoPaths(Find(fs, "/work", Options{}))
	want := []string{"/work/repoA"}
	if !reflect.DeepEqual(got, want) {
		t.Fatalf("Find() = %v, expected %v", got, want)
	}
}

func TestFind_StableLexicalOrder(t *testing.T) {
	fs := memfs.New()
	mkdirs(t, fs,
		"/work/zeta/.git",
		"/work/alpha/.git",
		"/work/group/beta/.git",
		"/work/group/aaa/.git",
	)

	want := []string{"/work/alpha", "/work/group/aaa", "/work/group/beta", "/work/zeta"}
	for i := 0; i < 3; i++ {
		got := repoPaths(Find(fs, "/work", Options{}))
		if !reflect.DeepEqual(got, want) {
			t.Fatalf("run %d: Find() = %v, expected %v", i, got, want)
		}
	}
}

func TestFind_RootIsRepository(t *testing.T) {
	fs := memfs.New()
	mkdirs(t, fs, "/work/.git", "/work/sub/.git")

	repos := Find(fs, "/work", Options{})
	if len(repos) != 1 || repos[0].Path != "/work" || repos[0].Name != "work" {
		t.Fatalf("Find() = %+v, expected only /work", repos)
	}
}

func TestFind_GitFileMarker(t *testing.T) {
	fs := memfs.New()
	mkdirs(t, fs, "/work/worktree")
	f, err := fs.Create("/work/worktree/.git")
	if err != nil {
		t.Fatalf("Create: %v", err)
	}
	if _, err := f.Write([]byte("gitdir: /elsewhere/.git/worktrees/wt\n")); err != nil {
		t.Fatalf("Write: %v", err)
	}
	f.Close()

	got := repoPaths(Find(fs, "/work", Options{}))
	if !reflect.DeepEqual(got, []string{"/work/worktree"}) {
		t.Fatalf("Find() = %v, expected [/work/worktree]", got)
	}
}

func TestFind_EmptyTree(t *testing.T) {
	fs := memfs.New()
	mkdirs(t, fs, "/work/a/b/c")

	if repos := Find(fs, "/work", Options{}); len(repos) != 0 {
		t.Fatalf("Find() = %v, expected none", repos)
	}
}

func TestFind_Filters(t *testing.T) {
	tests := []struct {
		name string
		opts Options
		want []string
	}{
		{
			name: "Hidden and excluded skipped by default",
			opts: Options{Exclude: DefaultExclude},
			want: []string{"/work/app"},
		},
		{
			name: "Hidden included",
			opts: Options{Exclude: DefaultExclude, IncludeHidden: true},
			want: []string{"/work/.dotfiles", "/work/app"},
		},
		{
			name: "No excludes",
			opts: Options{},
			want: []string{"/work/app", "/work/web/node_modules/pkg"},
		},
		{
			name: "Depth limit",
			opts: Options{MaxDepth: 1},
			want: []string{"/work/app"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			fs := memfs.New()
			mkdirs(t, fs,
				"/work/app/.git",
				"/work/.dotfiles/.git",
				"/work/web/node_modules/pkg/.git",
			)

			got := repoPaths(Find(fs, "/work", tt.opts))
			if !reflect.DeepEqual(got, tt.want) {
				t.Fatalf("Find() = %v, expected %v", got, tt.want)
			}
		})
	}
}

func TestFind_SymlinksNotFollowedByDefault(t *testing.T) {
	fs := memfs.New()
	mkdirs(t, fs, "/outside/linked/.git", "/work/real/.git")
	if err := fs.Symlink("/outside", "/work/link"); err != nil {
		t.Fatalf("Symlink: %v", err)
	}

	got := repoPaths(Find(fs, "/work", Options{}))
	if !reflect.DeepEqual(got, []string{"/work/real"}) {
		t.Fatalf("Find() = %v, expected symlink not followed", got)
	}
}

func TestFindRepos_FollowSymlinks(t *testing.T) {
	root := t.TempDir()
	if err := os.MkdirAll(filepath.Join(root, ".store", "proj", ".git"), 0o755); err != nil {
		t.Fatalf("MkdirAll: %v", err)
	}
	if err := os.Symlink(".store", filepath.Join(root, "link")); err != nil {
		t.Skipf("symlinks unsupported: %v", err)
	}

	repos, err := FindRepos(root, Options{})
	if err != nil {
		t.Fatalf("FindRepos: %v", err)
	}
	if len(repos) != 0 {
		t.Fatalf("FindRepos() = %+v, expected symlink not followed", repos)
	}

	repos, err = FindRepos(root, Options{FollowSymlinks: true})
	if err != nil {
		t.Fatalf("FindRepos: %v", err)
	}
	want := []Repository{{Path: filepath.Join(root, "link", "proj"), Name: "proj"}}
	if !reflect.DeepEqual(repos, want) {
		t.Fatalf("FindRepos() = %+v, expected %+v", repos, want)
	}
}

func TestFindRepos_HostFilesystem(t *testing.T) {
	root := t.TempDir()
	for _, p := range []string{"b/.git", "a/.git", "a/nested/.git", "plain/dir"} {
		if err := os.MkdirAll(filepath.Join(root, p), 0o755); err != nil {
			t.Fatalf("MkdirAll: %v", err)
		}
	}

	repos, err := FindRepos(root, Options{})
	if err != nil {
		t.Fatalf("FindRepos: %v", err)
	}
	want := []Repository{
		{Path: filepath.Join(root, "a"), Name: "a"},
		{Path: filepath.Join(root, "b"), Name: "b"},
	}
	if !reflect.DeepEqual(repos, want) {
		t.Fatalf("FindRepos() = %+v, expected %+v", repos, want)
	}
}

func TestFindRepos_SymlinkLoopTerminates(t *testing.T) {
	root := t.TempDir()
	if err := os.MkdirAll(filepath.Join(root, "proj", ".git"), 0o755); err != nil {
		t.Fatalf("MkdirAll: %v", err)
	}
	if err := os.MkdirAll(filepath.Join(root, "dir"), 0o755); err != nil {
		t.Fatalf("MkdirAll: %v", err)
	}
	if err := os.Symlink("..", filepath.Join(root, "dir", "loop")); err != nil {
		t.Skipf("symlinks unsupported: %v", err)
	}

	repos, err := FindRepos(root, Options{FollowSymlinks: true})
	if err != nil {
		t.Fatalf("FindRepos: %v", err)
	}
	if len(repos) != 1 || repos[0].Path != filepath.Join(root, "proj") {
		t.Fatalf("FindRepos() = %+v, expected only proj", repos)
	}
}

func TestFindRepos_SkipsUnreadableDirectories(t *testing.T) {
	if os.Geteuid() == 0 {
		t.Skip("permission checks do not apply to root")
	}
	root := t.TempDir()
	for _, p := range []string{"ok/.git", "locked/inner/.git"} {
		if err := os.MkdirAll(filepath.Join(root, p), 0o755); err != nil {
			t.Fatalf("MkdirAll: %v", err)
		}
	}
	locked := filepath.Join(root, "locked")
	if err := os.Chmod(locked, 0o000); err != nil {
		t.Fatalf("Chmod: %v", err)
	}
	t.Cleanup(func() { os.Chmod(locked, 0o755) })

	repos, err := FindRepos(root, Options{})
	if err != nil {
		t.Fatalf("FindRepos: %v", err)
	}
	if len(repos) != 1 || repos[0].Name != "ok" {
		t.Fatalf("FindRepos() = %+v, expected only ok", repos)
	}
}

func TestFindRepos_InvalidRoot(t *testing.T) {
	root := t.TempDir()
	file := filepath.Join(root, "file.txt")
	if err := os.WriteFile(file, []byte("x"), 0o644); err != nil {
		t.Fatalf("WriteFile: %v", err)
	}

	for _, p := range []string{filepath.Join(root, "missing"), file} {
		if _, err := FindRepos(p, Options{}); !errors.Is(err, ErrInvalidRoot) {
			t.Errorf("FindRepos(%s) error = %v, expected ErrInvalidRoot", p, err)
		}
	}
}
