package cli

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"github.com/statsmith/statsmith/pkg/config"
	pkgio "github.com/statsmith/statsmith/pkg/io"
	"github.com/statsmith/statsmith/pkg/observability"
	"github.com/statsmith/statsmith/pkg/pipeline"
	"github.com/statsmith/statsmith/pkg/render"
	"github.com/statsmith/statsmith/pkg/snapshot"
)

// generateOpts holds the command-line flags for the generate command.
// Flags override their environment counterparts only when set.
type generateOpts struct {
	output       string        // output directory for the generated cards
	nameTemplate string        // output filename pattern
	templates    string        // comma-separated card templates
	themes       string        // comma-separated themes
	jsonPath     string        // also export the raw metrics as JSON
	timeout      time.Duration // overall run deadline
	noCache      bool          // disable the response cache
	refresh      bool          // bypass cached responses, refill the cache
}

// generateCommand creates the generate command, the default end-to-end
// run: fetch, reduce, render, write.
func (c *CLI) generateCommand() *cobra.Command {
	var opts generateOpts

	cmd := &cobra.Command{
		Use:   "generate",
		Short: "Fetch account statistics and render SVG cards",
		Long: `Fetch account statistics from GitHub and render them as SVG cards.

Configuration comes from the environment (or a .env file); flags override
single settings for one run. The access token is taken from ACCESS_TOKEN,
falling back to the session stored by 'statsmith login'.

Examples:
  statsmith generate                               # all cards into ./dist
  statsmith generate -o images --themes dark       # dark cards only
  statsmith generate --templates overview --json metrics.json`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := config.Load()
			if err != nil {
				return err
			}
			if cmd.Flags().Changed("output") {
				cfg.OutputDir = opts.output
			}
			if cmd.Flags().Changed("name-template") {
				cfg.ImageName = opts.nameTemplate
			}
			if cmd.Flags().Changed("timeout") {
				cfg.RunTimeout = opts.timeout
			}
			return c.runGenerate(cmd.Context(), cfg, &opts)
		},
	}

	cmd.Flags().StringVarP(&opts.output, "output", "o", "", "output directory (default from OUTPUT_DIR)")
	cmd.Flags().StringVar(&opts.nameTemplate, "name-template", "", "output filename pattern, e.g. '{{ template }}-{{ theme }}.svg'")
	cmd.Flags().StringVarP(&opts.templates, "templates", "t", "", "card template(s): overview, languages, community (comma-separated, default all)")
	cmd.Flags().StringVar(&opts.themes, "themes", "", "theme(s): light, dark (comma-separated, default all)")
	cmd.Flags().StringVar(&opts.jsonPath, "json", "", "also export the aggregated metrics as JSON to this path")
	cmd.Flags().DurationVar(&opts.timeout, "timeout", 0, "overall run deadline (default from RUN_TIMEOUT)")
	cmd.Flags().BoolVar(&opts.noCache, "no-cache", false, "disable the response cache")
	cmd.Flags().BoolVar(&opts.refresh, "refresh", false, "ignore cached responses and refetch")

	return cmd
}

// runGenerate executes the full pipeline and writes the results.
func (c *CLI) runGenerate(ctx context.Context, cfg config.Config, genOpts *generateOpts) error {
	opts := pipelineOptions(cfg)
	opts.Refresh = genOpts.refresh
	opts.Templates = parseList(genOpts.templates)
	opts.Themes = parseList(genOpts.themes)
	opts.Logger = c.Logger

	token, err := resolveToken(ctx, cfg)
	if err != nil {
		return err
	}
	opts.Token = token

	// Fail on bad templates, themes, or filename patterns before the
	// first network call.
	if err := opts.ValidateAndSetDefaults(); err != nil {
		return err
	}

	runner, err := c.newRunner(cfg, genOpts.noCache)
	if err != nil {
		return fmt.Errorf("initialize runner: %w", err)
	}
	defer runner.Close()

	ctx, cancel := context.WithTimeout(ctx, cfg.RunTimeout)
	defer cancel()

	start := time.Now()
	spinner := newSpinner(ctx, "Fetching account data...")
	spinner.Start()
	observability.SetPipelineHooks(stageHooks{spinner: spinner})
	defer observability.Reset()

	result, err := runner.Execute(ctx, opts)
	if err != nil {
		switch {
		case errors.Is(err, context.DeadlineExceeded):
			spinner.StopWithError(fmt.Sprintf("Run exceeded %s (raise RUN_TIMEOUT or --timeout)", cfg.RunTimeout))
			return err
		case spinner.Cancelled():
			spinner.Stop()
			return err
		default:
			spinner.StopWithError("Generation failed")
			return err
		}
	}
	spinner.StopWithSuccess(fmt.Sprintf("Collected statistics for @%s", result.Metrics.Login))

	paths, err := render.WriteFiles(cfg.OutputDir, result.Artifacts)
	if err != nil {
		return fmt.Errorf("write cards: %w", err)
	}
	for _, path := range paths {
		printFile(path)
	}

	if genOpts.jsonPath != "" {
		if err := pkgio.ExportJSON(result.Metrics, genOpts.jsonPath); err != nil {
			return fmt.Errorf("export metrics: %w", err)
		}
		printFile(genOpts.jsonPath)
	}

	printStats(result.Stats.KeptRepos, result.Stats.LanguageCount, time.Since(start))
	for _, warning := range result.Warnings {
		printWarning("%s", warning)
	}

	c.saveSnapshot(ctx, cfg, result)

	printNextStep("Preview the cards in a browser", "statsmith preview "+cfg.OutputDir)
	return nil
}

// resolveToken picks the access token: environment first, stored
// session second.
func resolveToken(ctx context.Context, cfg config.Config) (string, error) {
	if cfg.AccessToken != "" {
		return cfg.AccessToken, nil
	}
	store, err := sessionStore()
	if err != nil {
		return "", err
	}
	sess, err := store.Load(ctx)
	if err != nil {
		return "", fmt.Errorf("no access token: set ACCESS_TOKEN or run 'statsmith login'")
	}
	return sess.Token, nil
}

// stageHooks advances the spinner message as pipeline stages start.
type stageHooks struct {
	observability.NoopPipelineHooks
	spinner *Spinner
}

func (h stageHooks) OnReduceStart(ctx context.Context, repoCount int) {
	h.spinner.SetMessage(fmt.Sprintf("Reducing %d repositories...", repoCount))
}

func (h stageHooks) OnRenderStart(ctx context.Context, templates, themes []string) {
	h.spinner.SetMessage(fmt.Sprintf("Rendering %d cards...", len(templates)*len(themes)))
}

// saveSnapshot stores the run's metrics in MongoDB when configured.
// Snapshot problems never fail a run that already produced cards.
func (c *CLI) saveSnapshot(ctx context.Context, cfg config.Config, result *pipeline.Result) {
	if cfg.SnapshotURI == "" {
		return
	}

	store, err := snapshot.NewMongoStore(ctx, snapshot.MongoOptions{
		URI:        cfg.SnapshotURI,
		Database:   cfg.SnapshotDatabase,
		Collection: cfg.SnapshotCollection,
	})
	if err != nil {
		printWarning("Snapshot store unavailable: %v", err)
		return
	}
	defer store.Close(ctx)

	if err := store.Save(ctx, snapshot.New(result.RunID, result.Metrics)); err != nil {
		printWarning("Snapshot not stored: %v", err)
		return
	}
	printDetail("Snapshot stored (run %s)", result.RunID)
}
