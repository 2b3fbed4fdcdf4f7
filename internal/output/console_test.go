package output

import (
	"strings"
	"testing"

	"github.com/fatih/color"

	"github.com/masmgr/devcap-go/internal/aggregation"
	"github.com/masmgr/devcap-go/internal/model"
)

func TestConsoleScanWriter_Write(t *testing.T) {
	color.NoColor = true

	data := writeToTempFile(t, &ConsoleScanWriter{}, sampleScanResult(), OutputOptions{Badge: aggregation.BadgeProjects})

	for _, want := range []string{
		"Development Activity",
		"Period: week (2026-10-12 to 2026-10-14)",
		"Author: Alice",
		"Repositories scanned: 3 (1 skipped)",
		"Badge (projects): 2",
		"PROJECT",
		"a1b2c3d",
		"2 files +10 -3",
		"jot down ideas",
		"2 projects, 2 branches, 2 commits",
	} {
		if !strings.Contains(data, want) {
			t.Errorf("console output missing %q\n%s", want, data)
		}
	}
	if strings.Contains(data, "body text") {
		t.Error("console output should show subject lines only")
	}
}

func TestConsoleScanWriter_Empty(t *testing.T) {
	color.NoColor = true

	data := writeToTempFile(t, &ConsoleScanWriter{}, &model.ScanResult{Period: "today"}, OutputOptions{})
	if !strings.Contains(data, "No activity found") {
		t.Errorf("expected empty notice, got:\n%s", data)
	}
}
