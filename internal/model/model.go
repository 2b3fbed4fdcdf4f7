package model

import (
	"time"

	"github.com/masmgr/devcap-go/internal/period"
)

// DiffStat summarizes the size of a change.
type DiffStat struct {
	FilesChanged int `json:"files_changed"`
	Insertions   int `json:"insertions"`
	Deletions    int `json:"deletions"`
}

// Add accumulates another stat into this one.
func (d *DiffStat) Add(other DiffStat) {
	d.FilesChanged += other.FilesChanged
	d.Insertions += other.Insertions
	d.Deletions += other.Deletions
}

// CommitRecord is a single commit that matched the scan filters.
type CommitRecord struct {
	Hash         string    `json:"hash"`
	Author       string    `json:"author"`
	Message      string    `json:"message"`
	CommitType   string    `json:"commit_type,omitempty"`
	Time         time.Time `json:"time"`
	RelativeTime string    `json:"relative_time"`
	URL          string    `json:"url,omitempty"`
	DiffStat     *DiffStat `json:"diff_stat,omitempty"`
}

// BranchLog holds the matching commits of one branch, newest first.
type BranchLog struct {
	Name     string         `json:"name"`
	URL      string         `json:"url,omitempty"`
	Commits  []CommitRecord `json:"commits"`
	DiffStat *DiffStat      `json:"diff_stat,omitempty"`
}

// Latest returns the newest commit of the branch.
func (b BranchLog) Latest() (CommitRecord, bool) {
	if len(b.Commits) == 0 {
		return CommitRecord{}, false
	}
	return b.Commits[0], true
}

// ProjectLog is the filtered history snapshot of one repository.
type ProjectLog struct {
	Name      string      `json:"name"`
	Path      string      `json:"path"`
	Origin    string      `json:"origin,omitempty"`
	RemoteURL string      `json:"remote_url,omitempty"`
	Branches  []BranchLog `json:"branches"`
	DiffStat  *DiffStat   `json:"diff_stat,omitempty"`
}

// LatestTime returns the most recent commit time across all branches.
// The zero time is returned for a project without commits.
func (p ProjectLog) LatestTime() time.Time {
	var latest time.Time
	for _, b := range p.Branches {
		if c, ok := b.Latest(); ok && c.Time.After(latest) {
			latest = c.Time
		}
	}
	return latest
}

// TotalCommits counts commits unique by hash. A commit reachable from
// several branches is counted once.
func (p ProjectLog) TotalCommits() int {
	seen := make(map[string]struct{})
	for _, b := range p.Branches {
		for _, c := range b.Commits {
			seen[c.Hash] = struct{}{}
		}
	}
	return len(seen)
}

// HasCommits reports whether any branch carries at least one commit.
func (p ProjectLog) HasCommits() bool {
	for _, b := range p.Branches {
		if len(b.Commits) > 0 {
			return true
		}
	}
	return false
}

// ScanResult is the ordered output of one scan.
type ScanResult struct {
	Root        string
	Period      string
	Range       period.TimeRange
	Author      string
	GeneratedAt time.Time
	Projects    []ProjectLog
	// Repositories is the number of repositories discovered.
	Repositories int
	// RepoPaths lists every discovered repository in traversal order,
	// including those without matching commits.
	RepoPaths []string
	// Skipped counts repositories that could not be read.
	Skipped int
}
