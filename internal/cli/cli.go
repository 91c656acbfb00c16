// Package cli implements the statsmith command-line interface.
package cli

import (
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/charmbracelet/log"
	"github.com/spf13/cobra"

	"github.com/statsmith/statsmith/pkg/buildinfo"
	"github.com/statsmith/statsmith/pkg/cache"
	"github.com/statsmith/statsmith/pkg/config"
	"github.com/statsmith/statsmith/pkg/pipeline"
)

// =============================================================================
// Constants
// =============================================================================

// appName is the application name used for directories and display.
const appName = "statsmith"

// Log levels exported for use in main.go.
const (
	LogDebug = log.DebugLevel
	LogInfo  = log.InfoLevel
)

// =============================================================================
// CLI - Central CLI State
// =============================================================================

// CLI holds shared state for all commands.
type CLI struct {
	Logger *log.Logger
}

// New creates a new CLI instance with a default logger.
func New(w io.Writer, level log.Level) *CLI {
	return &CLI{
		Logger: newLogger(w, level),
	}
}

// SetLogLevel updates the logger's level.
func (c *CLI) SetLogLevel(level log.Level) {
	c.Logger.SetLevel(level)
}

// RootCommand creates the root cobra command with all subcommands registered.
func (c *CLI) RootCommand() *cobra.Command {
	root := &cobra.Command{
		Use:          "statsmith",
		Short:        "Statsmith renders GitHub account statistics as SVG cards",
		Long:         `Statsmith collects commit, language, and community statistics for a GitHub account and renders them as themed SVG cards, ready to embed in a profile README.`,
		Version:      buildinfo.Version,
		SilenceUsage: true,
	}

	root.SetVersionTemplate(buildinfo.Template())

	// Register all subcommands
	root.AddCommand(c.generateCommand())
	root.AddCommand(c.renderCommand())
	root.AddCommand(c.loginCommand())
	root.AddCommand(c.logoutCommand())
	root.AddCommand(c.whoamiCommand())
	root.AddCommand(c.reposCommand())
	root.AddCommand(c.cacheCommand())
	root.AddCommand(c.previewCommand())
	root.AddCommand(c.completionCommand())

	return root
}

// =============================================================================
// Runner Factory
// =============================================================================

// newRunner creates a pipeline runner for CLI use.
func (c *CLI) newRunner(cfg config.Config, noCache bool) (*pipeline.Runner, error) {
	store, err := newCache(cfg, noCache)
	if err != nil {
		return nil, err
	}
	return pipeline.NewRunner(store, nil, c.Logger), nil
}

// newCache selects the response cache backend: Redis when configured,
// otherwise the local file cache. An unusable cache directory degrades
// to no caching rather than failing the run.
func newCache(cfg config.Config, noCache bool) (cache.Cache, error) {
	if noCache {
		return cache.NewNullCache(), nil
	}
	if cfg.CacheRedisAddr != "" {
		return cache.NewRedisCache(cfg.CacheRedisAddr)
	}
	dir, err := cacheDir()
	if err != nil {
		return cache.NewNullCache(), nil
	}
	return cache.NewFileCache(dir)
}

// =============================================================================
// Paths
// =============================================================================

// cacheDir returns the cache directory using XDG standard (~/.cache/statsmith/).
func cacheDir() (string, error) {
	if cacheHome := os.Getenv("XDG_CACHE_HOME"); cacheHome != "" {
		return filepath.Join(cacheHome, appName), nil
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(home, ".cache", appName), nil
}

// =============================================================================
// Options Helpers
// =============================================================================

// pipelineOptions translates the environment config into pipeline options.
func pipelineOptions(cfg config.Config) pipeline.Options {
	return pipeline.Options{
		Actor:          cfg.Actor,
		Concurrency:    cfg.FetchConcurrency,
		ExcludedRepos:  cfg.Excluded,
		ExcludedLangs:  cfg.ExcludedLangs,
		ExcludeForks:   cfg.ExcludeForkedRepos,
		ExcludePrivate: cfg.ExcludePrivateRepos,
		NameTemplate:   cfg.ImageName,
		CacheTTL:       cfg.CacheTTL,
		Token:          cfg.AccessToken,
	}
}

// parseList parses a comma-separated flag value into a trimmed slice.
func parseList(s string) []string {
	if s == "" {
		return nil
	}
	parts := strings.Split(s, ",")
	out := make([]string, 0, len(parts))
	for _, p := range parts {
		if trimmed := strings.TrimSpace(p); trimmed != "" {
			out = append(out, trimmed)
		}
	}
	return out
}
