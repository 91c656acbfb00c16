package github

import (
	"context"
	"errors"
	"fmt"
	"io"
	"strings"
	"sync"

	"github.com/charmbracelet/log"
	gogithub "github.com/google/go-github/v57/github"

	apperrors "github.com/statsmith/statsmith/pkg/errors"
	"github.com/statsmith/statsmith/pkg/stats"
)

// DefaultConcurrency bounds parallel contributor-statistics calls.
// GitHub tolerates modest parallelism on authenticated REST requests.
const DefaultConcurrency = 10

// FetchOptions configures a Fetcher.
type FetchOptions struct {
	// Actor is the login whose commits and line counts are attributed.
	// Empty means the authenticated account itself.
	Actor string

	// Concurrency bounds the number of parallel contributor-statistics
	// calls. Zero selects DefaultConcurrency.
	Concurrency int

	// Logger receives per-stage progress. Nil silences it.
	Logger *log.Logger
}

// Fetcher runs the full collection for one account: identity,
// contribution history, the repository list, and per-repository commit
// and line counts.
//
// Identity, contribution, and repository-listing failures abort the
// run. A contributor-statistics failure drops only the affected
// repository and records a warning, so one flaky repository cannot
// sink an otherwise healthy run.
type Fetcher struct {
	client      *Client
	actor       string
	concurrency int
	logger      *log.Logger
}

// Result holds everything a collection run produced. Warnings describe
// repositories that were skipped or dropped without failing the run.
type Result struct {
	Account  stats.Account
	Repos    []stats.Repository
	Warnings []string
}

// NewFetcher creates a Fetcher on top of client.
func NewFetcher(client *Client, opts FetchOptions) (*Fetcher, error) {
	if client == nil {
		return nil, apperrors.New(apperrors.ErrCodeInvalidInput, "client is required")
	}
	if opts.Actor != "" {
		if err := apperrors.ValidateLogin(opts.Actor); err != nil {
			return nil, err
		}
	}
	concurrency := opts.Concurrency
	if concurrency <= 0 {
		concurrency = DefaultConcurrency
	}
	logger := opts.Logger
	if logger == nil {
		logger = log.NewWithOptions(io.Discard, log.Options{})
	}
	return &Fetcher{
		client:      client,
		actor:       opts.Actor,
		concurrency: concurrency,
		logger:      logger,
	}, nil
}

// Fetch collects the account profile and its repositories with commit
// and line counts attributed to the configured actor.
func (f *Fetcher) Fetch(ctx context.Context) (*Result, error) {
	account, err := f.client.Viewer(ctx)
	if err != nil {
		return nil, err
	}
	actor := f.actor
	if actor == "" {
		actor = account.Login
	}
	f.logger.Info("fetched identity", "login", account.Login)

	contributions, err := f.client.totalContributions(ctx)
	if err != nil {
		return nil, err
	}
	account.Contributions = contributions
	f.logger.Info("fetched contribution history", "contributions", contributions)

	repos, warnings, err := f.fetchRepoList(ctx)
	if err != nil {
		return nil, err
	}
	f.logger.Info("fetched repository list", "repositories", len(repos))

	repos, statsWarnings := f.populateStats(ctx, repos, actor)
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	warnings = append(warnings, statsWarnings...)
	f.logger.Info("fetched contributor statistics",
		"actor", actor,
		"repositories", len(repos),
		"dropped", len(statsWarnings))

	for _, w := range warnings {
		f.logger.Warn(w)
	}

	return &Result{Account: account, Repos: repos, Warnings: warnings}, nil
}

// ListRepositories fetches the deduplicated repository list without
// contributor statistics. The interactive repository picker uses it.
func (f *Fetcher) ListRepositories(ctx context.Context) ([]stats.Repository, []string, error) {
	return f.fetchRepoList(ctx)
}

// fetchRepoList pages through owned and contributed repositories,
// deduplicating on full name. Owned entries win because they carry the
// ownership flag.
func (f *Fetcher) fetchRepoList(ctx context.Context) ([]stats.Repository, []string, error) {
	var repos []stats.Repository
	var warnings []string
	seen := make(map[string]bool)

	collect := func(page func(context.Context, string) (repoConnection, error), owned bool, kind string) error {
		after := ""
		for {
			conn, err := page(ctx, after)
			if err != nil {
				return err
			}
			for _, node := range conn.Nodes {
				repo, err := node.toRepository(owned)
				if err != nil {
					warnings = append(warnings, fmt.Sprintf("skipping malformed %s repository: %v", kind, err))
					continue
				}
				if seen[repo.FullName()] {
					continue
				}
				seen[repo.FullName()] = true
				repos = append(repos, repo)
			}
			if !conn.PageInfo.HasNextPage {
				return nil
			}
			if conn.PageInfo.EndCursor == "" || conn.PageInfo.EndCursor == after {
				return apperrors.New(apperrors.ErrCodeInternal, "%s repository pagination stalled at cursor %q", kind, after)
			}
			after = conn.PageInfo.EndCursor
		}
	}

	if err := collect(f.client.ownedRepoPage, true, "owned"); err != nil {
		return nil, nil, err
	}
	if err := collect(f.client.contributedRepoPage, false, "contributed"); err != nil {
		return nil, nil, err
	}
	return repos, warnings, nil
}

type statsJob struct {
	index int
	repo  stats.Repository
}

type statsResult struct {
	index int
	repo  stats.Repository
	err   error
}

// populateStats fills commit and line counts for every repository using
// a bounded worker pool. Repositories whose statistics cannot be
// fetched are dropped with a warning; the rest keep their list order.
func (f *Fetcher) populateStats(ctx context.Context, repos []stats.Repository, actor string) ([]stats.Repository, []string) {
	if len(repos) == 0 {
		return repos, nil
	}

	jobs := make(chan statsJob)
	results := make(chan statsResult)

	var wg sync.WaitGroup
	for range f.concurrency {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for job := range jobs {
				res := statsResult{index: job.index, repo: job.repo}
				repo, err := f.repoWithStats(ctx, job.repo, actor)
				if err != nil {
					res.err = err
				} else {
					res.repo = repo
				}
				results <- res
			}
		}()
	}

	go func() {
		defer close(jobs)
		for i, repo := range repos {
			select {
			case jobs <- statsJob{index: i, repo: repo}:
			case <-ctx.Done():
				return
			}
		}
	}()

	go func() {
		wg.Wait()
		close(results)
	}()

	filled := make([]stats.Repository, len(repos))
	kept := make([]bool, len(repos))
	var warnings []string
	for res := range results {
		if res.err != nil {
			if errors.Is(res.err, context.Canceled) || errors.Is(res.err, context.DeadlineExceeded) {
				continue
			}
			warnings = append(warnings, fmt.Sprintf("dropping %s: %v", res.repo.FullName(), res.err))
			continue
		}
		filled[res.index] = res.repo
		kept[res.index] = true
	}

	out := make([]stats.Repository, 0, len(repos))
	for i, keep := range kept {
		if keep {
			out = append(out, filled[i])
		}
	}
	return out, warnings
}

// repoWithStats fills in the commit and line counts attributed to actor.
func (f *Fetcher) repoWithStats(ctx context.Context, repo stats.Repository, actor string) (stats.Repository, error) {
	all, err := f.client.contributorStats(ctx, repo.Owner, repo.Name)
	if err != nil {
		return repo, err
	}
	commits, added, deleted := sumContributorStats(all, actor)
	repo.Commits = commits
	repo.LinesAdded = added
	repo.LinesDeleted = deleted
	return repo, nil
}

// sumContributorStats totals commits and line counts for one author.
// GitHub logins compare case-insensitively.
func sumContributorStats(all []*gogithub.ContributorStats, actor string) (commits, added, deleted int) {
	for _, cs := range all {
		if cs == nil || cs.Author == nil {
			continue
		}
		if !strings.EqualFold(cs.Author.GetLogin(), actor) {
			continue
		}
		commits += cs.GetTotal()
		for _, week := range cs.Weeks {
			added += week.GetAdditions()
			deleted += week.GetDeletions()
		}
	}
	return commits, added, deleted
}
