// Package config loads the process-wide configuration for a statistics
// run from the environment.
//
// Every knob is an environment variable so the generator drops into CI
// workflows without flags. A .env file in the working directory is merged
// in first for local development; real environment variables win.
package config

import (
	"strings"
	"time"

	"github.com/ilyakaznacheev/cleanenv"
	"github.com/joho/godotenv"

	"github.com/statsmith/statsmith/pkg/errors"
)

// Config holds all settings for a statistics run.
type Config struct {
	// AccessToken is the GitHub token used for API calls. When empty the
	// CLI falls back to the token stored by `statsmith login`.
	AccessToken string `env:"ACCESS_TOKEN"`

	// Actor is the login whose commits are counted in repository
	// statistics. Empty means the token's own account.
	Actor string `env:"GITHUB_ACTOR"`

	// Excluded lists owner/name pairs to drop from every statistic.
	Excluded []string `env:"EXCLUDED" env-separator:","`

	// ExcludedLangs lists language names to drop, case-insensitively.
	ExcludedLangs []string `env:"EXCLUDED_LANGS" env-separator:","`

	// ExcludeForkedRepos drops forks from every statistic.
	ExcludeForkedRepos bool `env:"EXCLUDE_FORKED_REPOS" env-default:"false"`

	// ExcludePrivateRepos drops private repositories from every statistic.
	ExcludePrivateRepos bool `env:"EXCLUDE_PRIVATE_REPOS" env-default:"false"`

	// ImageName is the output filename pattern. It must contain the
	// {{ template }} and {{ theme }} placeholders and end in .svg.
	ImageName string `env:"GENERATED_IMAGE_NAME" env-default:"{{ template }}-{{ theme }}.svg"`

	// OutputDir is the directory the generated cards are written to.
	OutputDir string `env:"OUTPUT_DIR" env-default:"dist"`

	// RunTimeout bounds the whole run, rate-limit waits included.
	RunTimeout time.Duration `env:"RUN_TIMEOUT" env-default:"10m"`

	// FetchConcurrency is the number of parallel contributor statistics
	// requests.
	FetchConcurrency int `env:"FETCH_CONCURRENCY" env-default:"10"`

	// CacheTTL is how long cached API responses stay fresh.
	CacheTTL time.Duration `env:"CACHE_TTL" env-default:"1h"`

	// CacheRedisAddr switches the response cache from the local
	// filesystem to the Redis instance at this host:port.
	CacheRedisAddr string `env:"CACHE_REDIS_ADDR"`

	// SnapshotURI enables snapshot history: when set, each run's metrics
	// are stored in this MongoDB instance.
	SnapshotURI string `env:"SNAPSHOT_URI"`

	// SnapshotDatabase is the MongoDB database for snapshots.
	SnapshotDatabase string `env:"SNAPSHOT_DATABASE" env-default:"statsmith"`

	// SnapshotCollection is the MongoDB collection for snapshots.
	SnapshotCollection string `env:"SNAPSHOT_COLLECTION" env-default:"snapshots"`
}

// Load reads the configuration from the environment and validates it.
// A .env file in the working directory is loaded first when present;
// variables already set in the environment take precedence.
func Load() (Config, error) {
	_ = godotenv.Load()

	var cfg Config
	if err := cleanenv.ReadEnv(&cfg); err != nil {
		return Config{}, errors.Wrap(errors.ErrCodeInvalidConfig, err, "read environment")
	}

	cfg.Excluded = normalizeList(cfg.Excluded)
	cfg.ExcludedLangs = normalizeList(cfg.ExcludedLangs)

	if err := cfg.Validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

// Validate checks the settings this package owns. Filename pattern and
// template names are validated by the render layer.
func (c Config) Validate() error {
	if c.Actor != "" {
		if err := errors.ValidateLogin(c.Actor); err != nil {
			return errors.Wrap(errors.ErrCodeInvalidConfig, err, "GITHUB_ACTOR")
		}
	}
	if err := errors.ValidateExclusions(c.Excluded); err != nil {
		return err
	}
	if c.FetchConcurrency < 1 {
		return errors.New(errors.ErrCodeInvalidConfig, "FETCH_CONCURRENCY must be at least 1, got %d", c.FetchConcurrency)
	}
	if c.RunTimeout <= 0 {
		return errors.New(errors.ErrCodeInvalidConfig, "RUN_TIMEOUT must be positive, got %s", c.RunTimeout)
	}
	if c.CacheTTL < 0 {
		return errors.New(errors.ErrCodeInvalidConfig, "CACHE_TTL cannot be negative, got %s", c.CacheTTL)
	}
	if c.OutputDir == "" {
		return errors.New(errors.ErrCodeInvalidConfig, "OUTPUT_DIR cannot be empty")
	}
	return nil
}

// normalizeList trims whitespace around entries and drops empty ones, so
// "a/b, c/d ,," parses the way people writing .env files expect.
func normalizeList(items []string) []string {
	out := make([]string, 0, len(items))
	for _, item := range items {
		if trimmed := strings.TrimSpace(item); trimmed != "" {
			out = append(out, trimmed)
		}
	}
	return out
}
