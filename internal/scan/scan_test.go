package scan

import (
	"context"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/masmgr/devcap-go/internal/discovery"
	"github.com/masmgr/devcap-go/internal/model"
	"github.com/masmgr/devcap-go/internal/period"
	"github.com/masmgr/devcap-go/internal/testutil"
)

// Wednesday afternoon.
var scanNow = time.Date(2026, time.October, 14, 15, 30, 0, 0, time.UTC)

func projectNames(result model.ScanResult) []string {
	names := make([]string, 0, len(result.Projects))
	for _, p := range result.Projects {
		names = append(names, p.Name)
	}
	return names
}

func authorsOf(p model.ProjectLog) map[string]bool {
	authors := make(map[string]bool)
	for _, b := range p.Branches {
		for _, c := range b.Commits {
			authors[c.Author] = true
		}
	}
	return authors
}

func TestRun_EndToEnd(t *testing.T) {
	root := t.TempDir()
	a := testutil.NewRepo(t, filepath.Join(root, "proj-a"))
	a.Commit("Alice", "feat: recent", scanNow.AddDate(0, 0, -2))
	b := testutil.NewRepo(t, filepath.Join(root, "proj-b"))
	b.Commit("Alice", "feat: ancient", scanNow.AddDate(-1, 0, 0))
	require.NoError(t, os.MkdirAll(filepath.Join(root, "notes"), 0o755))

	week, err := Run(context.Background(), Options{Root: root, Period: "week", Now: scanNow})
	require.NoError(t, err)
	assert.Equal(t, []string{"proj-a"}, projectNames(week))
	assert.Equal(t, 2, week.Repositories)
	assert.Equal(t, []string{a.Dir, b.Dir}, week.RepoPaths)
	assert.Zero(t, week.Skipped)
	assert.Equal(t, "week", week.Period)

	all, err := Run(context.Background(), Options{Root: root, Period: "all", Now: scanNow})
	require.NoError(t, err)
	assert.Equal(t, []string{"proj-a", "proj-b"}, projectNames(all))
	assert.True(t, all.Range.Unbounded())
}

func TestRun_SortsByLatestCommit(t *testing.T) {
	root := t.TempDir()
	// Discovery order is a, b, c, d; recency order is b, c, then a and d tied.
	times := map[string]time.Time{
		"a": scanNow.Add(-3 * time.Hour),
		"b": scanNow.Add(-1 * time.Hour),
		"c": scanNow.Add(-2 * time.Hour),
		"d": scanNow.Add(-3 * time.Hour),
	}
	for name, when := range times {
		r := testutil.NewRepo(t, filepath.Join(root, name))
		r.Commit("Alice", "work in "+name, when)
	}

	for i := 0; i < 3; i++ {
		result, err := Run(context.Background(), Options{Root: root, Period: "today", Now: scanNow, Workers: 3})
		require.NoError(t, err)
		assert.Equal(t, []string{"b", "c", "a", "d"}, projectNames(result), "run %d", i)
	}
}

func TestRun_AuthorFallbackChain(t *testing.T) {
	root := t.TempDir()
	r := testutil.NewRepo(t, filepath.Join(root, "shared"))
	r.Commit("Alice", "alice work", scanNow.Add(-2*time.Hour))
	r.Commit("Bob", "bob work", scanNow.Add(-1*time.Hour))

	tests := []struct {
		name          string
		author        string
		defaultAuthor string
		allAuthors    bool
		wantAuthor    string
		wantAuthors   map[string]bool
	}{
		{name: "Explicit wins over default", author: "Alice", defaultAuthor: "Bob", wantAuthor: "Alice", wantAuthors: map[string]bool{"Alice": true}},
		{name: "Default when no explicit", defaultAuthor: "Bob", wantAuthor: "Bob", wantAuthors: map[string]bool{"Bob": true}},
		{name: "Unrestricted without either", wantAuthors: map[string]bool{"Alice": true, "Bob": true}},
		{name: "All authors overrides default", defaultAuthor: "Bob", allAuthors: true, wantAuthors: map[string]bool{"Alice": true, "Bob": true}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			result, err := Run(context.Background(), Options{
				Root:          root,
				Period:        "today",
				Author:        tt.author,
				DefaultAuthor: tt.defaultAuthor,
				AllAuthors:    tt.allAuthors,
				Now:           scanNow,
			})
			require.NoError(t, err)
			require.Len(t, result.Projects, 1)
			assert.Equal(t, tt.wantAuthor, result.Author)
			assert.Equal(t, tt.wantAuthors, authorsOf(result.Projects[0]))
		})
	}
}

func TestRun_AuthorWithNoCommitsDropsProject(t *testing.T) {
	root := t.TempDir()
	r := testutil.NewRepo(t, filepath.Join(root, "solo"))
	r.Commit("Alice", "alice work", scanNow.Add(-time.Hour))

	result, err := Run(context.Background(), Options{Root: root, Period: "today", Author: "Carol", Now: scanNow})
	require.NoError(t, err)
	assert.Empty(t, result.Projects)
	assert.Equal(t, 1, result.Repositories)
}

func TestRun_PartialFailure(t *testing.T) {
	root := t.TempDir()
	for _, name := range []string{"good-1", "good-2"} {
		r := testutil.NewRepo(t, filepath.Join(root, name))
		r.Commit("Alice", "work", scanNow.Add(-time.Hour))
	}
	broken := filepath.Join(root, "broken")
	require.NoError(t, os.MkdirAll(broken, 0o755))
	require.NoError(t, os.WriteFile(filepath.Join(broken, ".git"), []byte("not a gitdir pointer\n"), 0o644))

	result, err := Run(context.Background(), Options{Root: root, Period: "today", Now: scanNow})
	require.NoError(t, err)
	assert.ElementsMatch(t, []string{"good-1", "good-2"}, projectNames(result))
	assert.Equal(t, 3, result.Repositories)
	assert.Equal(t, 1, result.Skipped)
}

func TestRun_EmptyTree(t *testing.T) {
	result, err := Run(context.Background(), Options{Root: t.TempDir(), Period: "all", Now: scanNow})
	require.NoError(t, err)
	assert.Empty(t, result.Projects)
	assert.Zero(t, result.Repositories)
}

func TestRun_Errors(t *testing.T) {
	root := t.TempDir()

	_, err := Run(context.Background(), Options{Root: root, Period: "fortnight"})
	assert.ErrorIs(t, err, period.ErrUnknownPeriod)

	_, err = Run(context.Background(), Options{Root: filepath.Join(root, "missing"), Period: "today"})
	assert.ErrorIs(t, err, discovery.ErrInvalidRoot)
}

func TestRun_Cancelled(t *testing.T) {
	root := t.TempDir()
	r := testutil.NewRepo(t, filepath.Join(root, "repo"))
	r.Commit("Alice", "work", scanNow.Add(-time.Hour))

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := Run(ctx, Options{Root: root, Period: "today", Now: scanNow})
	assert.ErrorIs(t, err, context.Canceled)
}

func TestRun_Stateless(t *testing.T) {
	root := t.TempDir()
	r := testutil.NewRepo(t, filepath.Join(root, "repo"))
	r.Commit("Alice", "first", scanNow.Add(-2*time.Hour))

	opts := Options{Root: root, Period: "today", Now: scanNow}
	first, err := Run(context.Background(), opts)
	require.NoError(t, err)
	require.Len(t, first.Projects, 1)
	assert.Equal(t, 1, first.Projects[0].TotalCommits())

	r.Commit("Alice", "second", scanNow.Add(-time.Hour))
	second, err := Run(context.Background(), opts)
	require.NoError(t, err)
	require.Len(t, second.Projects, 1)
	assert.Equal(t, 2, second.Projects[0].TotalCommits())
}

func TestResolveAuthor(t *testing.T) {
	assert.Equal(t, "Alice", ResolveAuthor("Alice", "Bob", false))
	assert.Equal(t, "Bob", ResolveAuthor("", "Bob", false))
	assert.Equal(t, "", ResolveAuthor("", "", false))
	assert.Equal(t, "", ResolveAuthor("Alice", "Bob", true))
}
