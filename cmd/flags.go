package cmd

import (
	"fmt"

	"github.com/urfave/cli/v2"

	"github.com/masmgr/devcap-go/config"
)

// scanFlags are shared by the scan and watch commands and the bare-path
// form. Unset flags leave the configuration value in place.
func scanFlags() []cli.Flag {
	return []cli.Flag{
		&cli.StringFlag{
			Name:    "period",
			Aliases: []string{"p"},
			Usage:   "Time window: today, yesterday, week, month, year, all, <N>d or YYYY-MM-DD..YYYY-MM-DD (default: today)",
		},
		&cli.StringFlag{
			Name:    "author",
			Aliases: []string{"a"},
			Usage:   "Only commits by this author name (default: git user.name)",
		},
		&cli.BoolFlag{
			Name:  "all-authors",
			Usage: "Include commits by every author",
		},
		&cli.StringFlag{
			Name:  "branches",
			Usage: "Branch scope (all, current)",
		},
		&cli.StringFlag{
			Name:  "author-match",
			Usage: "Author comparison (exact, fold)",
		},
		&cli.BoolFlag{
			Name:  "full-message",
			Usage: "Keep full commit messages instead of subject lines",
		},
		&cli.BoolFlag{
			Name:  "no-diff-stats",
			Usage: "Skip per-commit file and line counts",
		},
		&cli.IntFlag{
			Name:    "workers",
			Aliases: []string{"j"},
			Usage:   "Repositories read in parallel (default: number of CPUs)",
		},
		&cli.StringFlag{
			Name:  "backend",
			Usage: "History reader (gogit, gitcli)",
		},
		&cli.BoolFlag{
			Name:  "follow-symlinks",
			Usage: "Descend into symlinked directories inside the scan root",
		},
		&cli.BoolFlag{
			Name:  "include-hidden",
			Usage: "Descend into hidden directories",
		},
		&cli.IntFlag{
			Name:  "max-depth",
			Usage: "Maximum directory depth below the root (0 = unlimited)",
		},
		&cli.StringSliceFlag{
			Name:  "exclude",
			Usage: "Glob patterns of directories to skip (can be specified multiple times)",
		},
		&cli.StringFlag{
			Name:    "format",
			Aliases: []string{"f"},
			Usage:   "Output format (console, json, csv, markdown, ci)",
		},
		&cli.IntFlag{
			Name:    "top",
			Aliases: []string{"n"},
			Usage:   "Number of most recent projects to show (0 = all)",
		},
		&cli.StringFlag{
			Name:    "output",
			Aliases: []string{"o"},
			Usage:   "Output file path (default: stdout)",
		},
		&cli.StringFlag{
			Name:  "badge",
			Usage: "Badge count to report (none, projects, branches, commits)",
		},
	}
}

// applyFlagOverrides copies explicitly set flags over cfg.
func applyFlagOverrides(c *cli.Context, cfg *config.Config) {
	if c.NArg() > 0 {
		cfg.Scan.Path = c.Args().First()
	}

	overrideString(c, "period", &cfg.Scan.Period)
	overrideString(c, "author", &cfg.Scan.Author)
	overrideString(c, "backend", &cfg.Scan.Backend)
	overrideInt(c, "workers", &cfg.Scan.Workers)

	overrideBool(c, "follow-symlinks", &cfg.Discovery.FollowSymlinks)
	overrideBool(c, "include-hidden", &cfg.Discovery.IncludeHidden)
	overrideInt(c, "max-depth", &cfg.Discovery.MaxDepth)
	if c.IsSet("exclude") {
		cfg.Discovery.Exclude = c.StringSlice("exclude")
	}

	overrideString(c, "branches", &cfg.Commits.BranchScope)
	overrideString(c, "author-match", &cfg.Commits.AuthorMatch)
	overrideBool(c, "full-message", &cfg.Commits.FullMessage)
	if c.IsSet("no-diff-stats") {
		cfg.Commits.DiffStats = !c.Bool("no-diff-stats")
	}

	overrideString(c, "format", &cfg.Output.Format)
	overrideInt(c, "top", &cfg.Output.Top)
	overrideString(c, "badge", &cfg.Output.Badge)

	if c.IsSet("interval") {
		cfg.Watch.Interval = config.Duration(c.Duration("interval"))
	}
	if c.IsSet("debounce") {
		cfg.Watch.Debounce = config.Duration(c.Duration("debounce"))
	}
}

func overrideString(c *cli.Context, name string, dst *string) {
	if c.IsSet(name) {
		*dst = c.String(name)
	}
}

func overrideInt(c *cli.Context, name string, dst *int) {
	if c.IsSet(name) {
		*dst = c.Int(name)
	}
}

func overrideBool(c *cli.Context, name string, dst *bool) {
	if c.IsSet(name) {
		*dst = c.Bool(name)
	}
}

// loadConfig loads configuration from file or defaults and applies CLI overrides.
func loadConfig(c *cli.Context) (*config.Config, error) {
	cfg, err := config.LoadConfig(c.String("config"))
	if err != nil {
		return nil, fmt.Errorf("failed to load config: %w", err)
	}

	applyFlagOverrides(c, cfg)

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}
	return cfg, nil
}
