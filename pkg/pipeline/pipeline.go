// Package pipeline provides the core statistics pipeline for Statsmith.
//
// This package implements the complete fetch → reduce → render pipeline
// that can be used by the CLI and any other entry point. By centralizing
// this logic, we ensure consistent behavior across all entry points and
// avoid code duplication.
//
// # Architecture
//
// The pipeline consists of three stages:
//
//  1. Fetch: Collect the account profile and repository statistics from
//     the GitHub API
//  2. Reduce: Apply exclusion filters and aggregate the survivors into a
//     metric set
//  3. Render: Generate one SVG card per template and theme combination
//
// Each stage can be run independently or as part of the complete pipeline.
//
// # Usage
//
// Create a Runner and execute the pipeline:
//
//	runner := pipeline.NewRunner(cache, nil, logger)
//	opts := pipeline.Options{
//	    Token: token,
//	}
//	result, err := runner.Execute(ctx, opts)
//	if err != nil {
//	    log.Fatal(err)
//	}
//	overview := result.Artifacts["overview-light.svg"]
package pipeline

import (
	"io"
	"strings"
	"time"

	"github.com/charmbracelet/log"

	apperrors "github.com/statsmith/statsmith/pkg/errors"
	"github.com/statsmith/statsmith/pkg/render"
	"github.com/statsmith/statsmith/pkg/stats"
)

// =============================================================================
// Default Values - Single Source of Truth for Every Entry Point
// =============================================================================

const (
	// DefaultConcurrency is the number of parallel contributor-statistics
	// fetches. GitHub tolerates modest parallelism on authenticated
	// requests without tripping abuse detection.
	DefaultConcurrency = 10

	// DefaultCacheTTL is how long cached API responses stay fresh.
	DefaultCacheTTL = time.Hour
)

// =============================================================================
// Options - Pipeline Configuration
// =============================================================================

// Options contains all configuration for the statistics pipeline.
// This struct supports JSON serialization for audit logs and debugging.
type Options struct {
	// Fetch options
	Actor       string `json:"actor,omitempty"`
	Concurrency int    `json:"concurrency,omitempty"`
	Refresh     bool   `json:"refresh,omitempty"`

	// Filter options
	ExcludedRepos  []string `json:"excluded_repos,omitempty"`
	ExcludedLangs  []string `json:"excluded_langs,omitempty"`
	ExcludeForks   bool     `json:"exclude_forks,omitempty"`
	ExcludePrivate bool     `json:"exclude_private,omitempty"`

	// Render options
	Templates    []string `json:"templates,omitempty"`
	Themes       []string `json:"themes,omitempty"`
	NameTemplate string   `json:"name_template,omitempty"`

	// Runtime options (not serialized)
	Token     string        `json:"-"`
	CacheTTL  time.Duration `json:"-"`
	Logger    *log.Logger   `json:"-"`
	Collector Collector     `json:"-"`

	// validated tracks whether ValidateAndSetDefaults has been called.
	validated bool `json:"-"`
}

// Result contains the outputs of a pipeline run.
type Result struct {
	// RunID uniquely identifies this run in logs and snapshots.
	RunID string

	// Metrics is the aggregated, renderer-ready statistics bundle.
	Metrics *stats.MetricSet

	// Artifacts contains rendered cards keyed by output filename.
	Artifacts map[string][]byte

	// Stats contains timing and size information.
	Stats Stats

	// Warnings lists repositories that were skipped or dropped without
	// failing the run.
	Warnings []string
}

// Stats contains pipeline execution statistics.
type Stats struct {
	FetchedRepos  int // repositories collected, before filters
	KeptRepos     int // repositories counted, after filters
	LanguageCount int
	FetchTime     time.Duration
	ReduceTime    time.Duration
	RenderTime    time.Duration
}

// =============================================================================
// Validation Functions
// =============================================================================

// ValidateTemplate checks that a card template exists.
func ValidateTemplate(name string) error {
	for _, t := range render.Templates() {
		if t == name {
			return nil
		}
	}
	return apperrors.New(apperrors.ErrCodeInvalidTemplate, "unknown template %q (have: %s)",
		name, strings.Join(render.Templates(), ", "))
}

// ValidateTemplates checks that all card templates exist.
func ValidateTemplates(names []string) error {
	for _, n := range names {
		if err := ValidateTemplate(n); err != nil {
			return err
		}
	}
	return nil
}

// ValidateTheme checks that a theme exists.
func ValidateTheme(name string) error {
	for _, t := range render.Themes() {
		if t == name {
			return nil
		}
	}
	return apperrors.New(apperrors.ErrCodeInvalidTheme, "unknown theme %q (have: %s)",
		name, strings.Join(render.Themes(), ", "))
}

// ValidateThemes checks that all themes exist.
func ValidateThemes(names []string) error {
	for _, n := range names {
		if err := ValidateTheme(n); err != nil {
			return err
		}
	}
	return nil
}

// =============================================================================
// Options Methods
// =============================================================================

// ValidateAndSetDefaults checks required fields and applies defaults for
// the full pipeline. This method is idempotent - calling it multiple
// times has the same effect as calling it once.
func (o *Options) ValidateAndSetDefaults() error {
	if o.validated {
		return nil
	}
	if err := o.ValidateForFetch(); err != nil {
		return err
	}
	if err := o.ValidateForRender(); err != nil {
		return err
	}
	o.validated = true
	return nil
}

// ValidateForFetch checks required fields for the fetch stage.
func (o *Options) ValidateForFetch() error {
	if o.Token == "" && o.Collector == nil {
		return apperrors.New(apperrors.ErrCodeUnauthorized, "an access token is required")
	}
	if o.Actor != "" {
		if err := apperrors.ValidateLogin(o.Actor); err != nil {
			return err
		}
	}
	if err := apperrors.ValidateExclusions(o.ExcludedRepos); err != nil {
		return err
	}
	if o.Concurrency < 0 {
		return apperrors.New(apperrors.ErrCodeInvalidInput, "concurrency must be positive, got %d", o.Concurrency)
	}

	// Fetch defaults
	if o.Concurrency == 0 {
		o.Concurrency = DefaultConcurrency
	}
	if o.CacheTTL == 0 {
		o.CacheTTL = DefaultCacheTTL
	}

	// Logger default
	if o.Logger == nil {
		o.Logger = log.NewWithOptions(io.Discard, log.Options{})
	}

	return nil
}

// SetRenderDefaults sets default values for rendering. Empty template
// and theme lists select every embedded one.
func (o *Options) SetRenderDefaults() {
	if len(o.Templates) == 0 {
		o.Templates = render.Templates()
	}
	if len(o.Themes) == 0 {
		o.Themes = render.Themes()
	}
	if o.NameTemplate == "" {
		o.NameTemplate = render.DefaultNameTemplate
	}
	if o.Logger == nil {
		o.Logger = log.NewWithOptions(io.Discard, log.Options{})
	}
}

// ValidateForRender validates and sets defaults for rendering.
func (o *Options) ValidateForRender() error {
	o.SetRenderDefaults()
	if err := ValidateTemplates(o.Templates); err != nil {
		return err
	}
	if err := ValidateThemes(o.Themes); err != nil {
		return err
	}
	return render.ValidateNameTemplate(o.NameTemplate)
}

// Filters returns the exclusion filters for the reduce stage.
func (o *Options) Filters() stats.Filters {
	return stats.Filters{
		ExcludedRepos:  o.ExcludedRepos,
		ExcludedLangs:  o.ExcludedLangs,
		ExcludeForks:   o.ExcludeForks,
		ExcludePrivate: o.ExcludePrivate,
	}
}
