package config

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"gopkg.in/yaml.v3"

	"github.com/masmgr/devcap-go/internal/aggregation"
	"github.com/masmgr/devcap-go/internal/discovery"
	"github.com/masmgr/devcap-go/internal/git"
	"github.com/masmgr/devcap-go/internal/output"
	"github.com/masmgr/devcap-go/internal/period"
)

// File names searched, in order, in the working directory and then the
// home directory when no explicit path is given.
var searchNames = []string{".devcap.json", ".devcap.yaml", ".devcap.yml"}

// Config is the root configuration structure.
type Config struct {
	Scan      ScanConfig      `json:"scan" yaml:"scan"`
	Discovery DiscoveryConfig `json:"discovery" yaml:"discovery"`
	Commits   CommitsConfig   `json:"commits" yaml:"commits"`
	Output    OutputConfig    `json:"output" yaml:"output"`
	Watch     WatchConfig     `json:"watch" yaml:"watch"`
}

// ScanConfig holds what to scan and for whom.
type ScanConfig struct {
	Path    string `json:"path" yaml:"path"`
	Period  string `json:"period" yaml:"period"`   // Default: "today"
	Author  string `json:"author" yaml:"author"`   // Empty falls back to git user.name
	Workers int    `json:"workers" yaml:"workers"` // 0 = number of CPUs
	Backend string `json:"backend" yaml:"backend"` // gogit or gitcli
}

// DiscoveryConfig holds repository discovery options.
type DiscoveryConfig struct {
	Exclude        []string `json:"exclude" yaml:"exclude"`
	IncludeHidden  bool     `json:"includeHidden" yaml:"includeHidden"`
	FollowSymlinks bool     `json:"followSymlinks" yaml:"followSymlinks"`
	MaxDepth       int      `json:"maxDepth" yaml:"maxDepth"`
}

// CommitsConfig holds commit extraction options.
type CommitsConfig struct {
	BranchScope string `json:"branchScope" yaml:"branchScope"` // all or current
	AuthorMatch string `json:"authorMatch" yaml:"authorMatch"` // exact or fold
	FullMessage bool   `json:"fullMessage" yaml:"fullMessage"`
	DiffStats   bool   `json:"diffStats" yaml:"diffStats"`
}

// OutputConfig holds report options.
type OutputConfig struct {
	Format string `json:"format" yaml:"format"`
	Top    int    `json:"top" yaml:"top"` // 0 = all projects
	Badge  string `json:"badge" yaml:"badge"`
}

// WatchConfig holds options for repeated scans.
type WatchConfig struct {
	Interval Duration `json:"interval" yaml:"interval"` // Default: 15m
	Debounce Duration `json:"debounce" yaml:"debounce"` // Default: 2s
}

// Duration is a time.Duration written as a Go duration string ("15m").
// Bare JSON numbers are read as seconds.
type Duration time.Duration

// Std returns d as a time.Duration.
func (d Duration) Std() time.Duration { return time.Duration(d) }

func (d Duration) String() string { return time.Duration(d).String() }

func (d Duration) MarshalJSON() ([]byte, error) {
	return json.Marshal(d.String())
}

func (d *Duration) UnmarshalJSON(data []byte) error {
	var seconds float64
	if err := json.Unmarshal(data, &seconds); err == nil {
		*d = Duration(seconds * float64(time.Second))
		return nil
	}
	var s string
	if err := json.Unmarshal(data, &s); err != nil {
		return fmt.Errorf("duration must be a string or a number of seconds: %w", err)
	}
	return d.parse(s)
}

func (d Duration) MarshalYAML() (interface{}, error) {
	return d.String(), nil
}

func (d *Duration) UnmarshalYAML(value *yaml.Node) error {
	var s string
	if err := value.Decode(&s); err != nil {
		return err
	}
	return d.parse(s)
}

func (d *Duration) parse(s string) error {
	parsed, err := time.ParseDuration(strings.TrimSpace(s))
	if err != nil {
		return fmt.Errorf("invalid duration %q: %w", s, err)
	}
	*d = Duration(parsed)
	return nil
}

// DefaultConfig returns a configuration with default values.
func DefaultConfig() *Config {
	return &Config{
		Scan: ScanConfig{
			Path:    ".",
			Period:  "today",
			Backend: string(git.BackendGoGit),
		},
		Discovery: DiscoveryConfig{
			Exclude: append([]string(nil), discovery.DefaultExclude...),
		},
		Commits: CommitsConfig{
			BranchScope: string(git.BranchScopeAll),
			AuthorMatch: string(git.AuthorMatchExact),
			DiffStats:   true,
		},
		Output: OutputConfig{
			Format: string(output.FormatConsole),
			Badge:  string(aggregation.BadgeNone),
		},
		Watch: WatchConfig{
			Interval: Duration(15 * time.Minute),
			Debounce: Duration(2 * time.Second),
		},
	}
}

// Validate checks every enumerated setting and reports all problems at once.
func (c *Config) Validate() error {
	var errs []error
	if _, err := period.Parse(c.Scan.Period); err != nil {
		errs = append(errs, fmt.Errorf("scan.period: %w", err))
	}
	if _, err := git.ParseBackend(c.Scan.Backend); err != nil {
		errs = append(errs, fmt.Errorf("scan.backend: %w", err))
	}
	if c.Scan.Workers < 0 {
		errs = append(errs, errors.New("scan.workers: must not be negative"))
	}
	if c.Discovery.MaxDepth < 0 {
		errs = append(errs, errors.New("discovery.maxDepth: must not be negative"))
	}
	if _, err := git.ParseBranchScope(c.Commits.BranchScope); err != nil {
		errs = append(errs, fmt.Errorf("commits.branchScope: %w", err))
	}
	if _, err := git.ParseAuthorMatch(c.Commits.AuthorMatch); err != nil {
		errs = append(errs, fmt.Errorf("commits.authorMatch: %w", err))
	}
	if _, err := output.ParseFormat(c.Output.Format); err != nil {
		errs = append(errs, fmt.Errorf("output.format: %w", err))
	}
	if _, err := aggregation.ParseBadgeMode(c.Output.Badge); err != nil {
		errs = append(errs, fmt.Errorf("output.badge: %w", err))
	}
	if c.Watch.Interval.Std() <= 0 {
		errs = append(errs, errors.New("watch.interval: must be positive"))
	}
	if c.Watch.Debounce.Std() < 0 {
		errs = append(errs, errors.New("watch.debounce: must not be negative"))
	}
	return errors.Join(errs...)
}

// LoadConfig loads configuration from a file, merging with defaults.
func LoadConfig(path string) (*Config, error) {
	cfg := DefaultConfig()

	if path == "" {
		path = findConfigFile()
	}
	if path == "" {
		return cfg, nil
	}

	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return cfg, nil
		}
		return nil, err
	}

	if err := decode(path, data, cfg); err != nil {
		return nil, fmt.Errorf("failed to parse %s: %w", path, err)
	}
	return cfg, nil
}

func findConfigFile() string {
	dirs := []string{"."}
	if home, err := os.UserHomeDir(); err == nil && home != "" {
		dirs = append(dirs, home)
	} else if envHome := os.Getenv("HOME"); envHome != "" {
		dirs = append(dirs, envHome)
	}
	for _, dir := range dirs {
		for _, name := range searchNames {
			p := filepath.Join(dir, name)
			if _, err := os.Stat(p); err == nil {
				return p
			}
		}
	}
	return ""
}

func isYAML(path string) bool {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".yaml", ".yml":
		return true
	default:
		return false
	}
}

func decode(path string, data []byte, cfg *Config) error {
	if isYAML(path) {
		return yaml.Unmarshal(data, cfg)
	}
	return json.Unmarshal(data, cfg)
}

// SaveConfig saves configuration to a file. The format follows the file
// extension: YAML for .yaml and .yml, JSON otherwise.
func SaveConfig(cfg *Config, path string) error {
	var (
		data []byte
		err  error
	)
	if isYAML(path) {
		data, err = yaml.Marshal(cfg)
	} else {
		data, err = json.MarshalIndent(cfg, "", "  ")
	}
	if err != nil {
		return err
	}
	return os.WriteFile(path, data, 0644)
}
