package output

import (
	"fmt"
	"strings"

	"github.com/dustin/go-humanize"

	"github.com/masmgr/devcap-go/internal/aggregation"
	"github.com/masmgr/devcap-go/internal/model"
)

// MarkdownScanWriter writes scan results as Markdown.
type MarkdownScanWriter struct{}

// Write outputs the scan result as a Markdown report.
func (w *MarkdownScanWriter) Write(result *model.ScanResult, options OutputOptions) error {
	projects := limitTop(result.Projects, options.Top)

	out, file, err := openOutputWriter(options.OutputPath)
	if err != nil {
		return err
	}
	if file != nil {
		defer file.Close()
	}

	s := aggregation.Summarize(*result)

	fmt.Fprintln(out, "# Development Activity")
	fmt.Fprintln(out)
	fmt.Fprintf(out, "**Period:** %s (%s)\n\n", result.Period, rangeLabel(result.Range))
	if result.Author != "" {
		fmt.Fprintf(out, "**Author:** %s\n\n", escapeMarkdown(result.Author))
	}
	fmt.Fprintf(out, "**Totals:** %d projects, %d branches, %d commits\n\n", s.Projects, s.Branches, s.Commits)

	if len(projects) == 0 {
		fmt.Fprintln(out, "_No activity found in the selected period._")
		return nil
	}

	fmt.Fprintln(out, "| # | Project | Origin | Branches | Commits | Latest |")
	fmt.Fprintln(out, "|---|---------|--------|----------|---------|--------|")
	for i, p := range projects {
		fmt.Fprintf(out, "| %d | %s | %s | %d | %d | %s |\n",
			i+1, linkOrText(escapeMarkdown(p.Name), p.RemoteURL), p.Origin, len(p.Branches), p.TotalCommits(),
			humanize.RelTime(p.LatestTime(), result.GeneratedAt, "ago", "from now"))
	}

	for _, p := range projects {
		fmt.Fprintln(out)
		fmt.Fprintf(out, "## %s\n\n", escapeMarkdown(p.Name))
		for _, b := range p.Branches {
			fmt.Fprintf(out, "### %s\n\n", linkOrText(escapeMarkdown(b.Name), b.URL))
			for _, c := range b.Commits {
				fmt.Fprintf(out, "- %s %s (%s)\n",
					linkOrText("`"+shortHash(c.Hash)+"`", c.URL),
					escapeMarkdown(firstLine(c.Message)),
					c.RelativeTime)
			}
			fmt.Fprintln(out)
		}
	}

	if types := s.CommitTypes(); len(types) > 0 {
		fmt.Fprintln(out, "## Commit Types")
		fmt.Fprintln(out)
		fmt.Fprintln(out, "| Type | Commits |")
		fmt.Fprintln(out, "|------|---------|")
		for _, tc := range types {
			fmt.Fprintf(out, "| %s | %d |\n", tc.Type, tc.Count)
		}
	}

	return nil
}

func linkOrText(text, url string) string {
	if url == "" {
		return text
	}
	return "[" + text + "](" + url + ")"
}

func firstLine(msg string) string {
	line, _, _ := strings.Cut(msg, "\n")
	return line
}

func escapeMarkdown(s string) string {
	replacer := strings.NewReplacer(
		"|", "\\|",
		"*", "\\*",
		"_", "\\_",
		"`", "\\`",
	)
	return replacer.Replace(s)
}
