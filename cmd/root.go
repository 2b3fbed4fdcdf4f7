package cmd

import (
	"context"
	"fmt"
	"os"
	"os/signal"

	"github.com/urfave/cli/v2"
)

func init() {
	// -v is taken by --verbose.
	cli.VersionFlag = &cli.BoolFlag{
		Name:  "version",
		Usage: "print the version",
	}
}

// App creates the CLI application.
func App() *cli.App {
	return &cli.App{
		Name:      "devcap",
		Usage:     "Summarize your recent commits across every repository under a directory",
		Version:   "1.0.0",
		ArgsUsage: "[path]",
		Commands: []*cli.Command{
			ScanCmd(),
			AuthorCmd(),
			WatchCmd(),
		},
		Flags: append([]cli.Flag{
			&cli.StringFlag{
				Name:    "config",
				Aliases: []string{"c"},
				Usage:   "Path to configuration file (.json or .yaml)",
			},
			&cli.BoolFlag{
				Name:    "verbose",
				Aliases: []string{"v"},
				Usage:   "Log per-repository diagnostics to stderr",
			},
		}, scanFlags()...),
		Action: legacyAction,
	}
}

// legacyAction handles the default command behavior.
// When a path is provided as an argument, it runs the scan command.
func legacyAction(c *cli.Context) error {
	if c.NArg() == 0 {
		return cli.ShowAppHelp(c)
	}
	return scanAction(c)
}

// Run executes the CLI application.
func Run() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	if err := App().RunContext(ctx, os.Args); err != nil {
		stop()
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}
