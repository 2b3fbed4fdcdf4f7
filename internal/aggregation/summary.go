// Package aggregation computes totals over a scan result.
package aggregation

import (
	"fmt"
	"sort"
	"strings"
	"time"

	"github.com/masmgr/devcap-go/internal/model"
)

// OtherCommitType groups commits without a conventional type prefix.
const OtherCommitType = "other"

// BadgeMode selects the count shown next to the menubar icon.
type BadgeMode string

const (
	BadgeNone     BadgeMode = "none"
	BadgeProjects BadgeMode = "projects"
	BadgeBranches BadgeMode = "branches"
	BadgeCommits  BadgeMode = "commits"
)

// ParseBadgeMode parses a badge mode name. Empty means none.
func ParseBadgeMode(s string) (BadgeMode, error) {
	switch BadgeMode(strings.ToLower(strings.TrimSpace(s))) {
	case "", BadgeNone:
		return BadgeNone, nil
	case BadgeProjects:
		return BadgeProjects, nil
	case BadgeBranches:
		return BadgeBranches, nil
	case BadgeCommits:
		return BadgeCommits, nil
	default:
		return "", fmt.Errorf("invalid badge mode %q: use none, projects, branches or commits", s)
	}
}

// TypeCount is the number of commits of one conventional type.
type TypeCount struct {
	Type  string
	Count int
}

// Summary holds activity totals for one scan.
type Summary struct {
	Projects     int
	Branches     int
	Commits      int // unique per project
	Repositories int
	Skipped      int
	Latest       time.Time
	DiffStat     model.DiffStat
	commitTypes  map[string]int
}

// Summarize computes totals over result.
func Summarize(result model.ScanResult) Summary {
	s := Summary{
		Projects:     len(result.Projects),
		Repositories: result.Repositories,
		Skipped:      result.Skipped,
		commitTypes:  make(map[string]int),
	}

	for _, p := range result.Projects {
		s.Branches += len(p.Branches)
		s.Commits += p.TotalCommits()
		if latest := p.LatestTime(); latest.After(s.Latest) {
			s.Latest = latest
		}
		if p.DiffStat != nil {
			s.DiffStat.Add(*p.DiffStat)
		}

		seen := make(map[string]struct{})
		for _, b := range p.Branches {
			for _, c := range b.Commits {
				if _, dup := seen[c.Hash]; dup {
					continue
				}
				seen[c.Hash] = struct{}{}
				commitType := c.CommitType
				if commitType == "" {
					commitType = OtherCommitType
				}
				s.commitTypes[commitType]++
			}
		}
	}
	return s
}

// CommitTypes returns per-type counts, most frequent first. Equal counts
// are ordered by type name.
func (s Summary) CommitTypes() []TypeCount {
	counts := make([]TypeCount, 0, len(s.commitTypes))
	for t, n := range s.commitTypes {
		counts = append(counts, TypeCount{Type: t, Count: n})
	}
	sort.Slice(counts, func(i, j int) bool {
		if counts[i].Count != counts[j].Count {
			return counts[i].Count > counts[j].Count
		}
		return counts[i].Type < counts[j].Type
	})
	return counts
}

// Badge returns the count for mode. It reports false when the badge is
// disabled or the count is zero.
func (s Summary) Badge(mode BadgeMode) (int, bool) {
	var n int
	switch mode {
	case BadgeProjects:
		n = s.Projects
	case BadgeBranches:
		n = s.Branches
	case BadgeCommits:
		n = s.Commits
	default:
		return 0, false
	}
	return n, n > 0
}
