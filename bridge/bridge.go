// Package bridge is the string-in, string-out boundary used by host
// applications. Every failure is reported as an empty JSON array.
package bridge

import (
	"context"
	"unicode/utf8"

	"github.com/masmgr/devcap-go/internal/git"
	"github.com/masmgr/devcap-go/internal/output"
	"github.com/masmgr/devcap-go/internal/scan"
)

const emptyResult = "[]"

// Scan returns the projects under path with activity in period as a JSON
// array, most recent first. A nil or empty author falls back to the
// default git identity, and to every author when none is configured.
func Scan(path, period string, author *string) string {
	return ScanContext(context.Background(), path, period, author)
}

// ScanContext is Scan with cancellation.
func ScanContext(ctx context.Context, path, period string, author *string) string {
	if !utf8.ValidString(path) || !utf8.ValidString(period) {
		return emptyResult
	}
	explicit := ""
	if author != nil {
		if !utf8.ValidString(*author) {
			return emptyResult
		}
		explicit = *author
	}

	opts := scan.Options{
		Root:      path,
		Period:    period,
		Author:    explicit,
		DiffStats: true,
	}
	if explicit == "" {
		if name, ok := git.DefaultAuthor(); ok {
			opts.DefaultAuthor = name
		}
	}

	result, err := scan.Run(ctx, opts)
	if err != nil {
		return emptyResult
	}
	data, err := output.MarshalProjects(result.Projects)
	if err != nil {
		return emptyResult
	}
	return string(data)
}

// DefaultAuthor returns the user.name of the global git configuration, or
// nil when it is not set.
func DefaultAuthor() *string {
	name, ok := git.DefaultAuthor()
	if !ok {
		return nil
	}
	return &name
}
