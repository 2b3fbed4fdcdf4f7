package git

import "context"

// RepositoryReader defines the interface for reading Git repository history.
// This abstraction allows for easier testing and alternative backends.
type RepositoryReader interface {
	// ReadBranches returns the history of every branch in scope, restricted
	// to the configured range. Commits may come in any order.
	ReadBranches(ctx context.Context) ([]BranchHistory, error)
	// RemoteURL returns the fetch URL of the origin remote, or "" if none.
	RemoteURL(ctx context.Context) (string, error)
}

// Compile-time interface conformance checks.
var (
	_ RepositoryReader = (*HistoryReader)(nil)
	_ RepositoryReader = (*CLIReader)(nil)
)
