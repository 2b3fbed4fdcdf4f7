package output

import (
	"fmt"
	"strings"

	"github.com/masmgr/devcap-go/internal/aggregation"
	"github.com/masmgr/devcap-go/internal/model"
)

// Compile-time interface conformance checks.
var (
	_ ScanReportWriter = (*ConsoleScanWriter)(nil)
	_ ScanReportWriter = (*JSONScanWriter)(nil)
	_ ScanReportWriter = (*CSVScanWriter)(nil)
	_ ScanReportWriter = (*MarkdownScanWriter)(nil)
	_ ScanReportWriter = (*CIScanWriter)(nil)
)

// OutputFormat represents the output format type.
type OutputFormat string

const (
	FormatConsole  OutputFormat = "console"
	FormatJSON     OutputFormat = "json"
	FormatCSV      OutputFormat = "csv"
	FormatMarkdown OutputFormat = "markdown"
	FormatCI       OutputFormat = "ci"
)

// ParseFormat parses a format name. Empty means console.
func ParseFormat(s string) (OutputFormat, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "", "console":
		return FormatConsole, nil
	case "json":
		return FormatJSON, nil
	case "csv":
		return FormatCSV, nil
	case "markdown", "md":
		return FormatMarkdown, nil
	case "ci", "ndjson":
		return FormatCI, nil
	default:
		return "", fmt.Errorf("invalid output format %q: use console, json, csv, markdown or ci", s)
	}
}

// OutputOptions controls output behavior.
type OutputOptions struct {
	Format     OutputFormat
	Top        int
	OutputPath string
	Badge      aggregation.BadgeMode
}

// ScanReportWriter writes the result of one scan.
type ScanReportWriter interface {
	Write(result *model.ScanResult, options OutputOptions) error
}

// NewScanReportWriter creates a report writer for the specified format.
func NewScanReportWriter(format OutputFormat) ScanReportWriter {
	switch format {
	case FormatJSON:
		return &JSONScanWriter{}
	case FormatCSV:
		return &CSVScanWriter{}
	case FormatMarkdown:
		return &MarkdownScanWriter{}
	case FormatCI:
		return &CIScanWriter{}
	default:
		return &ConsoleScanWriter{}
	}
}
