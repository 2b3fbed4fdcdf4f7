package cmd

import (
	"fmt"

	"github.com/sirupsen/logrus"
	"github.com/urfave/cli/v2"

	"github.com/masmgr/devcap-go/config"
	"github.com/masmgr/devcap-go/internal/aggregation"
	"github.com/masmgr/devcap-go/internal/discovery"
	"github.com/masmgr/devcap-go/internal/git"
	"github.com/masmgr/devcap-go/internal/logging"
	"github.com/masmgr/devcap-go/internal/output"
	"github.com/masmgr/devcap-go/internal/scan"
)

// CommandContext holds common state for command execution.
// It encapsulates the shared setup logic of the scan and watch commands.
type CommandContext struct {
	Config     *config.Config
	Logger     *logrus.Logger
	AllAuthors bool
	// DefaultAuthor is the git user.name found at startup, or empty.
	DefaultAuthor string
}

// NewCommandContext creates a context from CLI flags.
// It loads configuration, applies flag overrides and resolves the default identity.
func NewCommandContext(c *cli.Context) (*CommandContext, error) {
	cfg, err := loadConfig(c)
	if err != nil {
		return nil, err
	}

	ctx := &CommandContext{
		Config:     cfg,
		Logger:     logging.New(c.Bool("verbose")),
		AllAuthors: c.Bool("all-authors"),
	}
	if cfg.Scan.Author == "" && !ctx.AllAuthors {
		if name, ok := git.DefaultAuthor(); ok {
			ctx.DefaultAuthor = name
		}
	}
	return ctx, nil
}

// ScanOptions builds scan options from the resolved configuration.
// Enumerated values were checked by Config.Validate.
func (ctx *CommandContext) ScanOptions() (scan.Options, error) {
	cfg := ctx.Config

	backend, err := git.ParseBackend(cfg.Scan.Backend)
	if err != nil {
		return scan.Options{}, err
	}
	scope, err := git.ParseBranchScope(cfg.Commits.BranchScope)
	if err != nil {
		return scan.Options{}, err
	}
	match, err := git.ParseAuthorMatch(cfg.Commits.AuthorMatch)
	if err != nil {
		return scan.Options{}, err
	}

	return scan.Options{
		Root:          cfg.Scan.Path,
		Period:        cfg.Scan.Period,
		Author:        cfg.Scan.Author,
		DefaultAuthor: ctx.DefaultAuthor,
		AllAuthors:    ctx.AllAuthors,
		Workers:       cfg.Scan.Workers,
		Backend:       backend,
		BranchScope:   scope,
		AuthorMatch:   match,
		FullMessage:   cfg.Commits.FullMessage,
		DiffStats:     cfg.Commits.DiffStats,
		Discovery: discovery.Options{
			Exclude:        cfg.Discovery.Exclude,
			IncludeHidden:  cfg.Discovery.IncludeHidden,
			FollowSymlinks: cfg.Discovery.FollowSymlinks,
			MaxDepth:       cfg.Discovery.MaxDepth,
			Logger:         ctx.Logger,
		},
		Logger: ctx.Logger,
	}, nil
}

// OutputOptions creates output options from the resolved configuration.
func (ctx *CommandContext) OutputOptions(outputPath string) (output.OutputOptions, error) {
	format, err := output.ParseFormat(ctx.Config.Output.Format)
	if err != nil {
		return output.OutputOptions{}, err
	}
	badge, err := aggregation.ParseBadgeMode(ctx.Config.Output.Badge)
	if err != nil {
		return output.OutputOptions{}, err
	}
	return output.OutputOptions{
		Format:     format,
		Top:        ctx.Config.Output.Top,
		OutputPath: outputPath,
		Badge:      badge,
	}, nil
}

// PrintNoReposMessage prints a hint when the root holds no repositories.
func (ctx *CommandContext) PrintNoReposMessage() {
	fmt.Printf("No git repositories found under %s.\n", ctx.Config.Scan.Path)
}
