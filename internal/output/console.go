package output

import (
	"fmt"
	"strconv"

	"github.com/dustin/go-humanize"
	"github.com/fatih/color"
	"github.com/olekukonko/tablewriter"

	"github.com/masmgr/devcap-go/internal/aggregation"
	"github.com/masmgr/devcap-go/internal/model"
)

const consoleMessageWidth = 60

// ConsoleScanWriter writes scan results to the console.
type ConsoleScanWriter struct{}

// Write outputs a summary table followed by per-branch commit lists.
func (w *ConsoleScanWriter) Write(result *model.ScanResult, options OutputOptions) error {
	projects := limitTop(result.Projects, options.Top)

	out, file, err := openOutputWriter(options.OutputPath)
	if err != nil {
		return err
	}
	if file != nil {
		defer file.Close()
	}

	s := aggregation.Summarize(*result)

	color.New(color.FgGreen).Fprintln(out, "Development Activity")
	fmt.Fprintf(out, "Root: %s\n", result.Root)
	fmt.Fprintf(out, "Period: %s (%s)\n", result.Period, rangeLabel(result.Range))
	if result.Author != "" {
		fmt.Fprintf(out, "Author: %s\n", result.Author)
	}
	fmt.Fprintf(out, "Repositories scanned: %d", result.Repositories)
	if result.Skipped > 0 {
		fmt.Fprintf(out, " (%s)", color.YellowString("%d skipped", result.Skipped))
	}
	fmt.Fprintln(out)
	if n, ok := s.Badge(options.Badge); ok {
		fmt.Fprintf(out, "Badge (%s): %d\n", options.Badge, n)
	}
	fmt.Fprintln(out)

	if len(projects) == 0 {
		fmt.Fprintln(out, "No activity found in the selected period.")
		return nil
	}

	table := tablewriter.NewWriter(out)
	table.SetHeader([]string{"#", "Project", "Origin", "Branches", "Commits", "Latest"})
	table.SetBorder(false)
	table.SetAutoWrapText(false)
	table.SetAlignment(tablewriter.ALIGN_LEFT)
	for i, p := range projects {
		table.Append([]string{
			strconv.Itoa(i + 1),
			p.Name,
			p.Origin,
			strconv.Itoa(len(p.Branches)),
			strconv.Itoa(p.TotalCommits()),
			humanize.RelTime(p.LatestTime(), result.GeneratedAt, "ago", "from now"),
		})
	}
	table.Render()

	for _, p := range projects {
		fmt.Fprintln(out)
		color.New(color.FgCyan, color.Bold).Fprintf(out, "%s", p.Name)
		fmt.Fprintf(out, "  %s\n", p.Path)
		for _, b := range p.Branches {
			fmt.Fprintf(out, "  %s", color.MagentaString(b.Name))
			if b.DiffStat != nil {
				fmt.Fprintf(out, "  %s", formatDiffStat(*b.DiffStat))
			}
			fmt.Fprintln(out)
			for _, c := range b.Commits {
				fmt.Fprintf(out, "    %s  %-16s %s\n",
					color.YellowString(shortHash(c.Hash)),
					c.RelativeTime,
					truncateMessage(firstLine(c.Message), consoleMessageWidth),
				)
			}
		}
	}

	fmt.Fprintf(out, "\n%d projects, %d branches, %d commits\n", s.Projects, s.Branches, s.Commits)
	return nil
}

func formatDiffStat(d model.DiffStat) string {
	return fmt.Sprintf("%d files %s %s", d.FilesChanged,
		color.GreenString("+%d", d.Insertions),
		color.RedString("-%d", d.Deletions))
}

// truncateMessage shortens msg to maxLen runes, marking the cut with "...".
func truncateMessage(msg string, maxLen int) string {
	runes := []rune(msg)
	if len(runes) <= maxLen {
		return msg
	}
	return string(runes[:maxLen-3]) + "..."
}
