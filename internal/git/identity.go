package git

import (
	"strings"

	"github.com/go-git/go-git/v5/config"
)

// DefaultAuthor returns user.name from the global git configuration.
// It reports false when no name is configured or the configuration cannot
// be read.
func DefaultAuthor() (string, bool) {
	cfg, err := config.LoadConfig(config.GlobalScope)
	if err != nil {
		return "", false
	}
	name := strings.TrimSpace(cfg.User.Name)
	if name == "" {
		return "", false
	}
	return name, true
}
