package pipeline

import (
	"context"
	"fmt"
	"time"

	"github.com/charmbracelet/log"
	"github.com/google/uuid"

	"github.com/statsmith/statsmith/pkg/cache"
	"github.com/statsmith/statsmith/pkg/github"
	"github.com/statsmith/statsmith/pkg/observability"
	"github.com/statsmith/statsmith/pkg/render"
	"github.com/statsmith/statsmith/pkg/stats"
)

// Collector produces the raw account data the pipeline reduces and
// renders. The production implementation is the GitHub fetcher; tests
// substitute fixtures.
type Collector interface {
	Fetch(ctx context.Context) (*github.Result, error)
}

var _ Collector = (*github.Fetcher)(nil)

// Runner encapsulates pipeline execution.
//
// The Runner is stateless except for the cache and logger - it doesn't
// store pipeline results. Multiple goroutines can safely use the same
// Runner with different options.
//
// Caching happens at the API response layer inside the GitHub client:
// the reduce and render stages are cheap, deterministic transformations,
// so re-running them is faster than round-tripping their outputs through
// the cache.
type Runner struct {
	Cache  cache.Cache
	Keyer  cache.Keyer
	Logger *log.Logger
}

// NewRunner creates a runner with the given cache and keyer.
// If keyer is nil, a DefaultKeyer is used.
// If cache is nil, a NullCache is used (caching disabled).
func NewRunner(c cache.Cache, keyer cache.Keyer, logger *log.Logger) *Runner {
	if keyer == nil {
		keyer = cache.NewDefaultKeyer()
	}
	if c == nil {
		c = cache.NewNullCache()
	}
	if logger == nil {
		logger = log.Default()
	}
	return &Runner{
		Cache:  c,
		Keyer:  keyer,
		Logger: logger,
	}
}

// Execute runs the complete fetch → reduce → render pipeline.
func (r *Runner) Execute(ctx context.Context, opts Options) (*Result, error) {
	if err := opts.ValidateAndSetDefaults(); err != nil {
		return nil, fmt.Errorf("invalid options: %w", err)
	}
	r.applyLogger(&opts)

	result := &Result{
		RunID: uuid.NewString(),
	}
	opts.Logger.Debug("starting run", "run_id", result.RunID)

	// Stage 1: Fetch
	fetchStart := time.Now()
	observability.Pipeline().OnFetchStart(ctx, opts.Actor)
	fetched, err := r.Fetch(ctx, opts)
	result.Stats.FetchTime = time.Since(fetchStart)
	if err != nil {
		observability.Pipeline().OnFetchComplete(ctx, opts.Actor, 0, result.Stats.FetchTime, err)
		return nil, fmt.Errorf("fetch: %w", err)
	}
	observability.Pipeline().OnFetchComplete(ctx, fetched.Account.Login, len(fetched.Repos), result.Stats.FetchTime, nil)
	result.Stats.FetchedRepos = len(fetched.Repos)
	result.Warnings = append(result.Warnings, fetched.Warnings...)

	opts.Logger.Info("fetched account data",
		"login", fetched.Account.Login,
		"repositories", len(fetched.Repos),
		"duration", result.Stats.FetchTime)

	// Stage 2: Reduce
	reduceStart := time.Now()
	observability.Pipeline().OnReduceStart(ctx, len(fetched.Repos))
	metrics, err := Reduce(fetched.Account, fetched.Repos, opts)
	result.Stats.ReduceTime = time.Since(reduceStart)
	if err != nil {
		observability.Pipeline().OnReduceComplete(ctx, 0, result.Stats.ReduceTime, err)
		return nil, fmt.Errorf("reduce: %w", err)
	}
	observability.Pipeline().OnReduceComplete(ctx, len(metrics.Languages), result.Stats.ReduceTime, nil)
	result.Metrics = metrics
	result.Stats.KeptRepos = metrics.RepoCount
	result.Stats.LanguageCount = len(metrics.Languages)

	opts.Logger.Info("reduced statistics",
		"repositories", metrics.RepoCount,
		"languages", len(metrics.Languages),
		"duration", result.Stats.ReduceTime)

	// Stage 3: Render
	renderStart := time.Now()
	observability.Pipeline().OnRenderStart(ctx, opts.Templates, opts.Themes)
	artifacts, err := RenderCards(metrics, opts)
	result.Stats.RenderTime = time.Since(renderStart)
	if err != nil {
		observability.Pipeline().OnRenderComplete(ctx, 0, result.Stats.RenderTime, err)
		return nil, fmt.Errorf("render: %w", err)
	}
	observability.Pipeline().OnRenderComplete(ctx, len(artifacts), result.Stats.RenderTime, nil)
	result.Artifacts = artifacts

	opts.Logger.Info("rendered cards",
		"templates", opts.Templates,
		"themes", opts.Themes,
		"duration", result.Stats.RenderTime)

	return result, nil
}

// Fetch runs the collection stage only.
func (r *Runner) Fetch(ctx context.Context, opts Options) (*github.Result, error) {
	if err := opts.ValidateForFetch(); err != nil {
		return nil, err
	}
	r.applyLogger(&opts)

	collector, err := r.collector(opts)
	if err != nil {
		return nil, err
	}
	return collector.Fetch(ctx)
}

// Reduce applies the exclusion filters and aggregates the survivors.
// It is a pure function over already-collected data.
func Reduce(account stats.Account, repos []stats.Repository, opts Options) (*stats.MetricSet, error) {
	kept := opts.Filters().Apply(repos)
	return stats.Aggregate(account, kept)
}

// RenderCards renders one card per template and theme combination,
// keyed by the output filename from the configured name template.
func RenderCards(m *stats.MetricSet, opts Options) (map[string][]byte, error) {
	if err := opts.ValidateForRender(); err != nil {
		return nil, err
	}

	artifacts := make(map[string][]byte, len(opts.Templates)*len(opts.Themes))
	for _, tmpl := range opts.Templates {
		for _, theme := range opts.Themes {
			data, err := render.Render(m, tmpl, theme)
			if err != nil {
				return nil, fmt.Errorf("render %s/%s: %w", tmpl, theme, err)
			}
			artifacts[render.OutputName(opts.NameTemplate, tmpl, theme)] = data
		}
	}
	return artifacts, nil
}

// collector returns the injected collector or builds the production
// GitHub fetcher from the options.
func (r *Runner) collector(opts Options) (Collector, error) {
	if opts.Collector != nil {
		return opts.Collector, nil
	}

	client, err := github.NewClient(github.Options{
		Token:    opts.Token,
		Cache:    r.Cache,
		Keyer:    cache.NewScopedKeyer(r.Keyer, tokenScope(opts.Token)),
		CacheTTL: opts.CacheTTL,
		Refresh:  opts.Refresh,
	})
	if err != nil {
		return nil, err
	}
	return github.NewFetcher(client, github.FetchOptions{
		Actor:       opts.Actor,
		Concurrency: opts.Concurrency,
		Logger:      opts.Logger,
	})
}

// tokenScope derives a cache key prefix from the token. Accounts sharing
// one cache directory or Redis instance must not read each other's
// responses; private repository data is visible only to its own token.
func tokenScope(token string) string {
	return "tok:" + cache.Hash([]byte(token))[:12] + ":"
}

// Close releases resources held by the runner (primarily the cache).
func (r *Runner) Close() error {
	if r.Cache != nil {
		return r.Cache.Close()
	}
	return nil
}

// applyLogger sets the runner's logger on options if not already set.
func (r *Runner) applyLogger(opts *Options) {
	if opts.Logger == nil {
		opts.Logger = r.Logger
	}
}
