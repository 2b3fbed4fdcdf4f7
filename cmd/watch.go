package cmd

import (
	"context"
	"fmt"
	"time"

	"github.com/urfave/cli/v2"

	"github.com/masmgr/devcap-go/internal/output"
	"github.com/masmgr/devcap-go/internal/scan"
	"github.com/masmgr/devcap-go/internal/watch"
)

// WatchCmd creates the watch command.
func WatchCmd() *cli.Command {
	return &cli.Command{
		Name:      "watch",
		Usage:     "Rescan on an interval and whenever a branch moves",
		ArgsUsage: "[path]",
		Flags: append(scanFlags(),
			&cli.DurationFlag{
				Name:  "interval",
				Usage: "Time between scheduled scans (default: 15m)",
			},
			&cli.DurationFlag{
				Name:  "debounce",
				Usage: "Quiet period after a ref change before rescanning (default: 2s)",
			},
		),
		Action: watchAction,
	}
}

func watchAction(c *cli.Context) error {
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

	watchOpts := watch.Options{
		Interval: cmdCtx.Config.Watch.Interval.Std(),
		Debounce: cmdCtx.Config.Watch.Debounce.Std(),
		Logger:   cmdCtx.Logger,
	}

	return watch.Run(c.Context, watchOpts, func(ctx context.Context) ([]string, error) {
		result, err := scan.Run(ctx, opts)
		if err != nil {
			return nil, err
		}
		if outOpts.Format == output.FormatConsole && outOpts.OutputPath == "" {
			fmt.Fprintf(c.App.Writer, "\n=== %s ===\n\n", time.Now().Format("2006-01-02 15:04:05"))
		}
		if err := writeScanReport(&result, outOpts); err != nil {
			cmdCtx.Logger.WithError(err).Warn("failed to write report")
		}
		return result.RepoPaths, nil
	})
}
