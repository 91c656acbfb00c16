package cli

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"

	pkgio "github.com/statsmith/statsmith/pkg/io"
	"github.com/statsmith/statsmith/pkg/pipeline"
	"github.com/statsmith/statsmith/pkg/render"
)

// renderOpts holds the command-line flags for the render command.
type renderOpts struct {
	output       string // output directory for the generated cards
	nameTemplate string // output filename pattern
	templates    string // comma-separated card templates
	themes       string // comma-separated themes
}

// renderCommand creates the render command for re-rendering cards from
// an exported metrics file.
func (c *CLI) renderCommand() *cobra.Command {
	var opts renderOpts

	cmd := &cobra.Command{
		Use:   "render [metrics.json]",
		Short: "Render cards from an exported metrics file",
		Long: `Render SVG cards from a metrics JSON file without touching the network.

The metrics file is produced by 'statsmith generate --json'. Rendering is
deterministic, so this is the fast path for iterating on templates and
themes against a fixed data set.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return c.runRender(cmd.Context(), args[0], &opts)
		},
	}

	cmd.Flags().StringVarP(&opts.output, "output", "o", "dist", "output directory")
	cmd.Flags().StringVar(&opts.nameTemplate, "name-template", "", "output filename pattern, e.g. '{{ template }}-{{ theme }}.svg'")
	cmd.Flags().StringVarP(&opts.templates, "templates", "t", "", "card template(s): overview, languages, community (comma-separated, default all)")
	cmd.Flags().StringVar(&opts.themes, "themes", "", "theme(s): light, dark (comma-separated, default all)")

	return cmd
}

// runRender loads the metrics and renders the requested cards.
func (c *CLI) runRender(ctx context.Context, input string, renderOpts *renderOpts) error {
	metrics, err := pkgio.ImportJSON(input)
	if err != nil {
		return fmt.Errorf("load metrics %s: %w", input, err)
	}

	opts := pipeline.Options{
		Templates:    parseList(renderOpts.templates),
		Themes:       parseList(renderOpts.themes),
		NameTemplate: renderOpts.nameTemplate,
		Logger:       c.Logger,
	}
	if err := opts.ValidateForRender(); err != nil {
		return err
	}

	spinner := newSpinner(ctx, fmt.Sprintf("Rendering cards for @%s...", metrics.Login))
	spinner.Start()

	artifacts, err := pipeline.RenderCards(metrics, opts)
	if err != nil {
		spinner.StopWithError("Rendering failed")
		return fmt.Errorf("render: %w", err)
	}
	spinner.StopWithSuccess(fmt.Sprintf("Rendered %d cards", len(artifacts)))

	paths, err := render.WriteFiles(renderOpts.output, artifacts)
	if err != nil {
		return fmt.Errorf("write cards: %w", err)
	}
	for _, path := range paths {
		printFile(path)
	}

	return nil
}
