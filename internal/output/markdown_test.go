package output

import (
	"strings"
	"testing"

	"github.com/masmgr/devcap-go/internal/model"
)

func TestMarkdownScanWriter_Write(t *testing.T) {
	data := writeToTempFile(t, &MarkdownScanWriter{}, sampleScanResult(), OutputOptions{Format: FormatMarkdown})

	for _, want := range []string{
		"# Development Activity",
		"**Period:** week (2026-10-12 to 2026-10-14)",
		"**Totals:** 2 projects, 2 branches, 2 commits",
		"| 1 | [api](https://github.com/acme/api) | github | 1 | 1 | 2 hours ago |",
		"### [main](https://github.com/acme/api/tree/main)",
		"feat: add \\| pipe\\_support",
		"- `ffff000` jot down ideas (1 day ago)",
		"| feat | 1 |",
	} {
		if !strings.Contains(data, want) {
			t.Errorf("markdown output missing %q\n%s", want, data)
		}
	}
}

func TestMarkdownScanWriter_Empty(t *testing.T) {
	data := writeToTempFile(t, &MarkdownScanWriter{}, &model.ScanResult{Period: "today"}, OutputOptions{Format: FormatMarkdown})
	if !strings.Contains(data, "No activity found") {
		t.Errorf("expected empty notice, got:\n%s", data)
	}
}
