package cli

import (
	"context"
	"fmt"
	"strings"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/spf13/cobra"

	"github.com/statsmith/statsmith/pkg/config"
	"github.com/statsmith/statsmith/pkg/github"
)

// listTimeout bounds the repository listing for the picker.
const listTimeout = 5 * time.Minute

// reposCommand creates the repos command for building an exclusion list.
func (c *CLI) reposCommand() *cobra.Command {
	var timeout time.Duration

	cmd := &cobra.Command{
		Use:   "repos",
		Short: "Pick repositories to exclude from statistics",
		Long: `List your repositories and interactively mark the ones to exclude.

Marked repositories are printed as an EXCLUDED value ready to paste into
a .env file or workflow configuration. Repositories already excluded via
EXCLUDED start out marked, so repeated runs edit the list in place.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return c.runRepos(cmd.Context(), timeout)
		},
	}

	cmd.Flags().DurationVar(&timeout, "timeout", listTimeout, "timeout for the repository listing")

	return cmd
}

func (c *CLI) runRepos(ctx context.Context, timeout time.Duration) error {
	cfg, err := config.Load()
	if err != nil {
		return err
	}
	token, err := resolveToken(ctx, cfg)
	if err != nil {
		return err
	}

	ctx, cancel := context.WithTimeout(ctx, timeout)
	defer cancel()

	client, err := github.NewClient(github.Options{Token: token})
	if err != nil {
		return err
	}
	fetcher, err := github.NewFetcher(client, github.FetchOptions{
		Actor:  cfg.Actor,
		Logger: c.Logger,
	})
	if err != nil {
		return err
	}

	spinner := newSpinner(ctx, "Fetching repositories...")
	spinner.Start()
	repos, warnings, err := fetcher.ListRepositories(ctx)
	if err != nil {
		spinner.StopWithError("Listing failed")
		return fmt.Errorf("list repositories: %w", err)
	}
	spinner.Stop()

	for _, warning := range warnings {
		printWarning("%s", warning)
	}
	if len(repos) == 0 {
		printInfo("No repositories found")
		return nil
	}

	printSuccess("Found %d repositories", len(repos))
	printNewline()

	m := NewRepoPickerModel(repos, cfg.Excluded)
	p := tea.NewProgram(m)
	finalModel, err := p.Run()
	if err != nil {
		return err
	}

	fm, ok := finalModel.(RepoPickerModel)
	if !ok || !fm.Confirmed {
		printDetail("No selection made")
		return nil
	}

	excluded := fm.ExcludedKeys()
	if len(excluded) == 0 {
		printInfo("Nothing excluded")
		return nil
	}

	printNewline()
	printInfo("Add this to your .env file or workflow configuration:")
	printNewline()
	fmt.Println(StyleHighlight.Render("EXCLUDED=" + strings.Join(excluded, ",")))

	return nil
}
