package output

import (
	"encoding/json"
	"fmt"
	"io"
	"time"

	"github.com/masmgr/devcap-go/internal/aggregation"
	"github.com/masmgr/devcap-go/internal/model"
)

// CIScanWriter writes scan results as NDJSON (one JSON object per line) for CI pipelines.
type CIScanWriter struct{}

// CISummary is the first line of CI output, containing aggregate statistics.
type CISummary struct {
	Type         string         `json:"type"`
	Period       string         `json:"period"`
	Author       string         `json:"author,omitempty"`
	Projects     int            `json:"projects"`
	Branches     int            `json:"branches"`
	Commits      int            `json:"commits"`
	Repositories int            `json:"repositories"`
	Skipped      int            `json:"skipped"`
	CommitTypes  map[string]int `json:"commitTypes,omitempty"`
	Badge        *int           `json:"badge,omitempty"`
}

// CIProjectEntry represents a single project in CI output.
type CIProjectEntry struct {
	Type         string `json:"type"`
	Name         string `json:"name"`
	Path         string `json:"path"`
	Origin       string `json:"origin,omitempty"`
	Branches     int    `json:"branches"`
	Commits      int    `json:"commits"`
	LatestCommit string `json:"latestCommit"`
}

// Write outputs the scan result as NDJSON.
func (w *CIScanWriter) Write(result *model.ScanResult, options OutputOptions) error {
	projects := limitTop(result.Projects, options.Top)

	out, file, err := openOutputWriter(options.OutputPath)
	if err != nil {
		return err
	}
	if file != nil {
		defer file.Close()
	}

	// Totals always cover the whole scan, not the --top slice.
	s := aggregation.Summarize(*result)
	summary := CISummary{
		Type:         "summary",
		Period:       result.Period,
		Author:       result.Author,
		Projects:     s.Projects,
		Branches:     s.Branches,
		Commits:      s.Commits,
		Repositories: s.Repositories,
		Skipped:      s.Skipped,
	}
	if types := s.CommitTypes(); len(types) > 0 {
		summary.CommitTypes = make(map[string]int, len(types))
		for _, tc := range types {
			summary.CommitTypes[tc.Type] = tc.Count
		}
	}
	if n, ok := s.Badge(options.Badge); ok {
		summary.Badge = &n
	}
	if err := writeNDJSONLine(out, summary); err != nil {
		return err
	}

	for _, p := range projects {
		entry := CIProjectEntry{
			Type:         "project",
			Name:         p.Name,
			Path:         p.Path,
			Origin:       p.Origin,
			Branches:     len(p.Branches),
			Commits:      p.TotalCommits(),
			LatestCommit: p.LatestTime().Format(time.RFC3339),
		}
		if err := writeNDJSONLine(out, entry); err != nil {
			return err
		}
	}

	return nil
}

func writeNDJSONLine(w io.Writer, v interface{}) error {
	data, err := json.Marshal(v)
	if err != nil {
		return fmt.Errorf("failed to marshal NDJSON: %w", err)
	}
	_, err = fmt.Fprintf(w, "%s\n", data)
	return err
}
