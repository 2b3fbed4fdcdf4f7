package output

import (
	"io"
	"os"
	"time"

	"github.com/masmgr/devcap-go/internal/model"
	"github.com/masmgr/devcap-go/internal/period"
)

const (
	reportDateLayout     = "2006-01-02"
	reportDateTimeLayout = "2006-01-02T15:04:05"
	shortHashLength      = 7
)

func limitTop[T any](items []T, top int) []T {
	if top <= 0 || top >= len(items) {
		return items
	}
	return items[:top]
}

// rangeLabel renders a half-open range as inclusive calendar days.
func rangeLabel(r period.TimeRange) string {
	switch {
	case r.Unbounded():
		return "all time"
	case r.Start.IsZero():
		return "until " + lastDay(r.End)
	case r.End.IsZero():
		return "since " + r.Start.Format(reportDateLayout)
	}
	first := r.Start.Format(reportDateLayout)
	last := lastDay(r.End)
	if first == last {
		return first
	}
	return first + " to " + last
}

func lastDay(end time.Time) string {
	return end.Add(-time.Nanosecond).Format(reportDateLayout)
}

func shortHash(hash string) string {
	if len(hash) <= shortHashLength {
		return hash
	}
	return hash[:shortHashLength]
}

// projectRows flattens projects into one row per branch commit, keeping
// project order and each branch's newest-first order.
func projectRows(projects []model.ProjectLog) []commitRow {
	var rows []commitRow
	for _, p := range projects {
		for _, b := range p.Branches {
			for _, c := range b.Commits {
				rows = append(rows, commitRow{Project: p.Name, Path: p.Path, Branch: b.Name, Commit: c})
			}
		}
	}
	return rows
}

type commitRow struct {
	Project string
	Path    string
	Branch  string
	Commit  model.CommitRecord
}

func openOutputWriter(outputPath string) (io.Writer, *os.File, error) {
	if outputPath == "" {
		return os.Stdout, nil, nil
	}
	file, err := os.Create(outputPath)
	if err != nil {
		return nil, nil, err
	}
	return file, file, nil
}
