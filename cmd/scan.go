package cmd

import (
	"fmt"
	"time"

	"github.com/sirupsen/logrus"
	"github.com/urfave/cli/v2"

	"github.com/masmgr/devcap-go/internal/output"
	"github.com/masmgr/devcap-go/internal/scan"
)

// ScanCmd creates the scan command.
func ScanCmd() *cli.Command {
	return &cli.Command{
		Name:      "scan",
		Usage:     "Report commit activity of every repository under a directory",
		ArgsUsage: "[path]",
		Flags:     scanFlags(),
		Action:    scanAction,
	}
}

func scanAction(c *cli.Context) error {
	cmdCtx, err := NewCommandContext(c)
	if err != nil {
		return err
	}
	opts, err := cmdCtx.ScanOptions()
	if err != nil {
		return err
	}
	outOpts, err := cmdCtx.OutputOptions(c.String("output"))
	if err != nil {
		return err
	}

	start := time.Now()
	result, err := scan.Run(c.Context, opts)
	if err != nil {
		return fmt.Errorf("scan failed: %w", err)
	}
	cmdCtx.Logger.WithFields(logrus.Fields{
		"repos":    result.Repositories,
		"projects": len(result.Projects),
		"skipped":  result.Skipped,
		"elapsed":  time.Since(start).Round(time.Millisecond),
	}).Debug("scan completed")

	if result.Repositories == 0 && outOpts.Format == output.FormatConsole && outOpts.OutputPath == "" {
		cmdCtx.PrintNoReposMessage()
		return nil
	}
	return writeScanReport(&result, outOpts)
}
