package output

import (
	"encoding/csv"
	"os"
	"strconv"

	"github.com/masmgr/devcap-go/internal/model"
)

// CSVScanWriter writes scan results as CSV, one row per branch commit.
type CSVScanWriter struct{}

// Write outputs the scan result as CSV.
func (w *CSVScanWriter) Write(result *model.ScanResult, options OutputOptions) error {
	projects := limitTop(result.Projects, options.Top)

	writer, file, err := createCSVWriter(options.OutputPath)
	if err != nil {
		return err
	}
	if file != nil {
		defer file.Close()
	}

	headers := []string{"Project", "Path", "Branch", "Hash", "Time", "Author", "Type", "Message",
		"URL", "FilesChanged", "Insertions", "Deletions"}
	if err := writer.Write(headers); err != nil {
		return err
	}

	for _, row := range projectRows(projects) {
		c := row.Commit
		record := []string{
			row.Project,
			row.Path,
			row.Branch,
			c.Hash,
			c.Time.Format(reportDateTimeLayout),
			c.Author,
			c.CommitType,
			firstLine(c.Message),
			c.URL,
			"", "", "",
		}
		if c.DiffStat != nil {
			record[9] = strconv.Itoa(c.DiffStat.FilesChanged)
			record[10] = strconv.Itoa(c.DiffStat.Insertions)
			record[11] = strconv.Itoa(c.DiffStat.Deletions)
		}
		if err := writer.Write(record); err != nil {
			return err
		}
	}

	writer.Flush()
	return writer.Error()
}

func createCSVWriter(outputPath string) (*csv.Writer, *os.File, error) {
	if outputPath != "" {
		file, err := os.Create(outputPath)
		if err != nil {
			return nil, nil, err
		}
		return csv.NewWriter(file), file, nil
	}
	return csv.NewWriter(os.Stdout), nil, nil
}
