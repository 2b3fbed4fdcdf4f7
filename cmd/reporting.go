package cmd

import (
	"github.com/masmgr/devcap-go/internal/model"
	"github.com/masmgr/devcap-go/internal/output"
)

func writeScanReport(result *model.ScanResult, opts output.OutputOptions) error {
	writer := output.NewScanReportWriter(opts.Format)
	return writer.Write(result, opts)
}
