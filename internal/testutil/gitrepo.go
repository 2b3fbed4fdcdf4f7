// Package testutil creates throwaway git repositories for tests.
package testutil

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/go-git/go-git/v5"
	"github.com/go-git/go-git/v5/config"
	"github.com/go-git/go-git/v5/plumbing"
	"github.com/go-git/go-git/v5/plumbing/object"
)

// Repo is a non-bare repository with a worktree on disk.
type Repo struct {
	Dir  string
	Repo *git.Repository

	tb    testing.TB
	count int
}

// NewRepo initializes a repository at dir, creating it if needed.
func NewRepo(tb testing.TB, dir string) *Repo {
	tb.Helper()
	if err := os.MkdirAll(dir, 0o755); err != nil {
		tb.Fatalf("MkdirAll: %v", err)
	}
	repo, err := git.PlainInit(dir, false)
	if err != nil {
		tb.Fatalf("Failed to initialize git repo: %v", err)
	}
	return &Repo{Dir: dir, Repo: repo, tb: tb}
}

// Commit writes a new one-line file and commits it as author at when.
// Author and committer share the signature. It returns the commit hash.
func (r *Repo) Commit(author, message string, when time.Time) string {
	r.tb.Helper()

	w, err := r.Repo.Worktree()
	if err != nil {
		r.tb.Fatalf("Failed to get worktree: %v", err)
	}

	r.count++
	rel := fmt.Sprintf("notes/%03d.txt", r.count)
	full := filepath.Join(r.Dir, rel)
	if err := os.MkdirAll(filepath.Dir(full), 0o755); err != nil {
		r.tb.Fatalf("MkdirAll: %v", err)
	}
	content := fmt.Sprintf("change %d at %s\n", r.count, when.Format(time.RFC3339))
	if err := os.WriteFile(full, []byte(content), 0o644); err != nil {
		r.tb.Fatalf("Failed to write file: %v", err)
	}
	if _, err := w.Add(rel); err != nil {
		r.tb.Fatalf("Failed to add file: %v", err)
	}

	sig := &object.Signature{
		Name:  author,
		Email: strings.ToLower(strings.ReplaceAll(author, " ", ".")) + "@example.com",
		When:  when,
	}
	hash, err := w.Commit(message, &git.CommitOptions{Author: sig, Committer: sig})
	if err != nil {
		r.tb.Fatalf("Failed to commit: %v", err)
	}
	return hash.String()
}

// Branch creates name at the current HEAD and checks it out.
func (r *Repo) Branch(name string) {
	r.tb.Helper()
	r.checkout(name, true)
}

// Checkout switches to an existing branch.
func (r *Repo) Checkout(name string) {
	r.tb.Helper()
	r.checkout(name, false)
}

func (r *Repo) checkout(name string, create bool) {
	r.tb.Helper()
	w, err := r.Repo.Worktree()
	if err != nil {
		r.tb.Fatalf("Failed to get worktree: %v", err)
	}
	if err := w.Checkout(&git.CheckoutOptions{
		Branch: plumbing.NewBranchReferenceName(name),
		Create: create,
	}); err != nil {
		r.tb.Fatalf("Checkout(%s): %v", name, err)
	}
}

// HeadBranch returns the short name of the checked out branch.
func (r *Repo) HeadBranch() string {
	r.tb.Helper()
	head, err := r.Repo.Head()
	if err != nil {
		r.tb.Fatalf("Head: %v", err)
	}
	return head.Name().Short()
}

// SetOrigin adds an origin remote with the given URL.
func (r *Repo) SetOrigin(url string) {
	r.tb.Helper()
	if _, err := r.Repo.CreateRemote(&config.RemoteConfig{
		Name: "origin",
		URLs: []string{url},
	}); err != nil {
		r.tb.Fatalf("CreateRemote: %v", err)
	}
}
