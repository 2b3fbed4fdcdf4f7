package scan

import (
	"fmt"
	"testing"
	"time"

	"pgregory.net/rapid"

	"github.com/masmgr/devcap-go/internal/model"
)

func genProject(t *rapid.T, i int) model.ProjectLog {
	hours := rapid.IntRange(0, 48).Draw(t, fmt.Sprintf("hours%d", i))
	return model.ProjectLog{
		Name: fmt.Sprintf("p%d", i),
		Branches: []model.BranchLog{{
			Name: "main",
			Commits: []model.CommitRecord{{
				Hash: fmt.Sprintf("h%d", i),
				Time: scanNow.Add(-time.Duration(hours) * time.Hour),
			}},
		}},
	}
}

// TestSortProjects_Properties checks that the order is newest first and
// that ties keep their input order.
func TestSortProjects_Properties(t *testing.T) {
	rapid.Check(t, func(t *rapid.T) {
		n := rapid.IntRange(0, 20).Draw(t, "n")
		projects := make([]model.ProjectLog, n)
		position := make(map[string]int, n)
		for i := range projects {
			projects[i] = genProject(t, i)
			position[projects[i].Name] = i
		}

		SortProjects(projects)

		if len(projects) != n {
			t.Fatalf("length changed: %d -> %d", n, len(projects))
		}
		for i := 1; i < len(projects); i++ {
			prev, cur := projects[i-1], projects[i]
			if cur.LatestTime().After(prev.LatestTime()) {
				t.Fatalf("%s (%v) sorted after older %s (%v)", cur.Name, cur.LatestTime(), prev.Name, prev.LatestTime())
			}
			if cur.LatestTime().Equal(prev.LatestTime()) && position[cur.Name] < position[prev.Name] {
				t.Fatalf("tie between %s and %s lost input order", prev.Name, cur.Name)
			}
		}
	})
}
