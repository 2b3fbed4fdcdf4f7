package cmd

import (
	"fmt"

	"github.com/urfave/cli/v2"

	"github.com/masmgr/devcap-go/internal/git"
)

// AuthorCmd creates the command that prints the default author identity.
func AuthorCmd() *cli.Command {
	return &cli.Command{
		Name:   "author",
		Usage:  "Print the author name used when --author is not given",
		Action: authorAction,
	}
}

func authorAction(c *cli.Context) error {
	name, ok := git.DefaultAuthor()
	if !ok {
		return cli.Exit("no user.name in the global git configuration", 1)
	}
	fmt.Fprintln(c.App.Writer, name)
	return nil
}
