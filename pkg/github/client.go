package github

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/url"
	"strings"
	"time"

	gogithub "github.com/google/go-github/v57/github"
	"github.com/machinebox/graphql"
	"golang.org/x/oauth2"

	"github.com/statsmith/statsmith/pkg/cache"
	apperrors "github.com/statsmith/statsmith/pkg/errors"
	"github.com/statsmith/statsmith/pkg/httputil"
	"github.com/statsmith/statsmith/pkg/observability"
	"github.com/statsmith/statsmith/pkg/stats"
)

const (
	defaultGraphQLURL = "https://api.github.com/graphql"
	httpTimeout       = 30 * time.Second

	defaultRetryAttempts = 3
	defaultRetryDelay    = time.Second

	// GitHub answers 202 while it computes contributor statistics for a
	// cold repository. Sixty polls two seconds apart gives large
	// repositories two minutes to finish.
	defaultStatsPollAttempts = 60
	defaultStatsPollDelay    = 2 * time.Second
)

var (
	// ErrNotFound is returned when a repository or resource doesn't exist.
	ErrNotFound = errors.New("resource not found")

	// ErrNetwork is returned for HTTP failures (timeouts, connection errors, 5xx responses).
	ErrNetwork = errors.New("network error")
)

// Options configures a Client.
type Options struct {
	// Token authenticates every call. Required.
	Token string

	// GraphQLURL overrides the GraphQL endpoint. Empty means the public
	// GitHub API.
	GraphQLURL string

	// RESTBaseURL overrides the REST endpoint. Empty means the public
	// GitHub API.
	RESTBaseURL string

	// Cache stores raw API responses. Nil disables caching.
	Cache cache.Cache

	// Keyer derives cache keys. Nil uses the default keyer.
	Keyer cache.Keyer

	// CacheTTL is how long cached responses stay fresh.
	CacheTTL time.Duration

	// Refresh bypasses cache reads while still writing fresh responses.
	Refresh bool

	// RetryAttempts and RetryDelay tune the transient-failure retry
	// loop. Zero values select the defaults.
	RetryAttempts int
	RetryDelay    time.Duration

	// StatsPollAttempts and StatsPollDelay tune the 202 polling loop for
	// contributor statistics. Zero values select the defaults.
	StatsPollAttempts int
	StatsPollDelay    time.Duration
}

// Client provides access to the GitHub GraphQL and REST APIs with
// caching, bounded retry, and rate-limit suspension shared across all
// calls.
type Client struct {
	gql   *graphql.Client
	rest  *gogithub.Client
	token string

	cache   cache.Cache
	keyer   cache.Keyer
	ttl     time.Duration
	refresh bool

	gate *rateGate

	retryAttempts int
	retryDelay    time.Duration
	pollAttempts  int
	pollDelay     time.Duration
}

// NewClient creates a GitHub API client.
func NewClient(opts Options) (*Client, error) {
	if opts.Token == "" {
		return nil, apperrors.New(apperrors.ErrCodeUnauthorized, "missing access token")
	}

	gqlURL := opts.GraphQLURL
	if gqlURL == "" {
		gqlURL = defaultGraphQLURL
	}

	// REST calls authenticate through the oauth2 transport; GraphQL
	// calls set the Authorization header explicitly per request. Both
	// stacks route through hookTransport for HTTP observability.
	ts := oauth2.StaticTokenSource(&oauth2.Token{AccessToken: opts.Token})
	baseCtx := context.WithValue(context.Background(), oauth2.HTTPClient, &http.Client{Transport: &hookTransport{}})
	restHTTP := oauth2.NewClient(baseCtx, ts)
	restHTTP.Timeout = httpTimeout
	rest := gogithub.NewClient(restHTTP)
	if opts.RESTBaseURL != "" {
		base, err := url.Parse(opts.RESTBaseURL)
		if err != nil {
			return nil, apperrors.Wrap(apperrors.ErrCodeInvalidInput, err, "invalid REST base URL %q", opts.RESTBaseURL)
		}
		if !strings.HasSuffix(base.Path, "/") {
			base.Path += "/"
		}
		rest.BaseURL = base
	}

	c := &Client{
		gql: graphql.NewClient(gqlURL, graphql.WithHTTPClient(&http.Client{
			Timeout:   httpTimeout,
			Transport: &hookTransport{},
		})),
		rest:          rest,
		token:         opts.Token,
		cache:         opts.Cache,
		keyer:         opts.Keyer,
		ttl:           opts.CacheTTL,
		refresh:       opts.Refresh,
		gate:          &rateGate{},
		retryAttempts: opts.RetryAttempts,
		retryDelay:    opts.RetryDelay,
		pollAttempts:  opts.StatsPollAttempts,
		pollDelay:     opts.StatsPollDelay,
	}
	if c.cache == nil {
		c.cache = cache.NewNullCache()
	}
	if c.keyer == nil {
		c.keyer = cache.NewDefaultKeyer()
	}
	if c.retryAttempts <= 0 {
		c.retryAttempts = defaultRetryAttempts
	}
	if c.retryDelay <= 0 {
		c.retryDelay = defaultRetryDelay
	}
	if c.pollAttempts <= 0 {
		c.pollAttempts = defaultStatsPollAttempts
	}
	if c.pollDelay <= 0 {
		c.pollDelay = defaultStatsPollDelay
	}
	return c, nil
}

// hookTransport emits an HTTP observability event for every request
// either API stack sends.
type hookTransport struct {
	base http.RoundTripper
}

func (t *hookTransport) RoundTrip(req *http.Request) (*http.Response, error) {
	base := t.base
	if base == nil {
		base = http.DefaultTransport
	}
	start := time.Now()
	observability.HTTP().OnRequest(req.Context(), req.Method, req.URL.Host, req.URL.Path)
	resp, err := base.RoundTrip(req)
	if err != nil {
		observability.HTTP().OnError(req.Context(), req.Method, req.URL.Host, req.URL.Path, err)
		return nil, err
	}
	observability.HTTP().OnResponse(req.Context(), req.Method, req.URL.Host, req.URL.Path, resp.StatusCode, time.Since(start))
	return resp, nil
}

// execute runs fetch behind the shared rate gate with bounded retry.
// Rate-limit suspensions do not consume retry attempts: the gate pauses
// until the window resets and the same operation resumes.
func (c *Client) execute(ctx context.Context, fetch func() error) error {
	for {
		if err := c.gate.Wait(ctx); err != nil {
			return err
		}
		err := httputil.Retry(ctx, c.retryAttempts, c.retryDelay, fetch)
		if err == nil {
			return nil
		}
		if rl, ok := apperrors.AsRateLimited(err); ok {
			resetAt := rl.ResetAt
			if resetAt.IsZero() {
				resetAt = time.Now().Add(defaultRateLimitPause)
			}
			c.gate.PauseUntil(resetAt)
			continue
		}
		return err
	}
}

// cached retrieves a response from cache or executes fetch and caches
// the result. The fetch function must populate v. keyType labels the
// cache observability events ("gql" or "stats").
func (c *Client) cached(ctx context.Context, keyType, key string, v any, fetch func() error) error {
	if !c.refresh {
		if data, ok, _ := c.cache.Get(ctx, key); ok {
			if err := json.Unmarshal(data, v); err == nil {
				observability.Cache().OnCacheHit(ctx, keyType)
				return nil
			}
			// Corrupt entry, fall through and refetch.
		}
	}
	observability.Cache().OnCacheMiss(ctx, keyType)
	if err := c.execute(ctx, fetch); err != nil {
		return err
	}
	if data, err := json.Marshal(v); err == nil {
		if c.cache.Set(ctx, key, data, c.ttl) == nil {
			observability.Cache().OnCacheSet(ctx, keyType, len(data))
		}
	}
	return nil
}

// runQuery executes a GraphQL query with caching, retry, and the rate
// gate applied.
func (c *Client) runQuery(ctx context.Context, operation, query string, vars map[string]any, v any) error {
	key := c.keyer.QueryKey(operation, vars)
	return c.cached(ctx, "gql", key, v, func() error {
		return c.doQuery(ctx, query, vars, v)
	})
}

func (c *Client) doQuery(ctx context.Context, query string, vars map[string]any, v any) error {
	req := graphql.NewRequest(query)
	for k, val := range vars {
		req.Var(k, val)
	}
	req.Header.Set("Authorization", "Bearer "+c.token)

	if err := c.gql.Run(ctx, req, v); err != nil {
		return classifyGraphQLError(err)
	}
	return nil
}

// Viewer fetches the authenticated account's identity block. An empty
// login in the response means the token was rejected; GitHub reports
// bad credentials with a payload this client cannot distinguish from an
// empty result, so it is surfaced here.
func (c *Client) Viewer(ctx context.Context) (stats.Account, error) {
	var resp identityResponse
	if err := c.runQuery(ctx, "identity", identityQuery, nil, &resp); err != nil {
		return stats.Account{}, err
	}
	c.gate.Observe(resp.RateLimit.Remaining, resp.RateLimit.ResetAt)

	if resp.Viewer.Login == "" {
		return stats.Account{}, apperrors.New(apperrors.ErrCodeUnauthorized, "empty identity response, check the access token")
	}
	return resp.Viewer.account(), nil
}

// ownedRepoPage fetches one page of repositories the account owns or is
// an organization member of.
func (c *Client) ownedRepoPage(ctx context.Context, after string) (repoConnection, error) {
	vars := map[string]any{}
	if after != "" {
		vars["after"] = after
	}
	var resp ownedReposResponse
	if err := c.runQuery(ctx, "repos.owned", ownedReposQuery, vars, &resp); err != nil {
		return repoConnection{}, err
	}
	c.gate.Observe(resp.RateLimit.Remaining, resp.RateLimit.ResetAt)
	return resp.Viewer.Repositories, nil
}

// contributedRepoPage fetches one page of repositories the account has
// contributed to but does not own.
func (c *Client) contributedRepoPage(ctx context.Context, after string) (repoConnection, error) {
	vars := map[string]any{}
	if after != "" {
		vars["after"] = after
	}
	var resp contributedReposResponse
	if err := c.runQuery(ctx, "repos.contributed", contributedReposQuery, vars, &resp); err != nil {
		return repoConnection{}, err
	}
	c.gate.Observe(resp.RateLimit.Remaining, resp.RateLimit.ResetAt)
	return resp.Viewer.RepositoriesContributedTo, nil
}

// totalContributions sums the contribution calendar across every year
// of account history.
func (c *Client) totalContributions(ctx context.Context) (int, error) {
	var yearsResp contributionYearsResponse
	if err := c.runQuery(ctx, "contributions.years", contributionYearsQuery, nil, &yearsResp); err != nil {
		return 0, err
	}
	c.gate.Observe(yearsResp.RateLimit.Remaining, yearsResp.RateLimit.ResetAt)

	years := yearsResp.Viewer.ContributionsCollection.ContributionYears
	if len(years) == 0 {
		return 0, nil
	}

	// The per-year blocks are aliased into the query document itself, so
	// the cache key carries the years instead of request variables.
	query := buildContributionsQuery(years)
	key := c.keyer.QueryKey("contributions.byYear", map[string]any{"years": years})

	var resp contributionsByYearResponse
	err := c.cached(ctx, "gql", key, &resp, func() error {
		return c.doQuery(ctx, query, nil, &resp)
	})
	if err != nil {
		return 0, err
	}
	c.gate.Observe(resp.RateLimit.Remaining, resp.RateLimit.ResetAt)

	total := 0
	for _, year := range resp.Viewer {
		total += year.ContributionCalendar.TotalContributions
	}
	return total, nil
}

// contributorStats fetches the per-author contributor statistics for
// one repository, polling while GitHub computes them in the background.
// The raw payload is cached so re-runs with a different actor reuse it.
func (c *Client) contributorStats(ctx context.Context, owner, name string) ([]*gogithub.ContributorStats, error) {
	key := c.keyer.StatsKey(owner, name)

	var result []*gogithub.ContributorStats
	err := c.cached(ctx, "stats", key, &result, func() error {
		return httputil.Poll(ctx, c.pollAttempts, c.pollDelay, func() error {
			return c.doContributorStats(ctx, owner, name, &result)
		})
	})
	if err != nil {
		return nil, err
	}
	return result, nil
}

func (c *Client) doContributorStats(ctx context.Context, owner, name string, out *[]*gogithub.ContributorStats) error {
	result, _, err := c.rest.Repositories.ListContributorsStats(ctx, owner, name)
	if err != nil {
		return classifyRESTError(err)
	}
	*out = result
	return nil
}

// classifyGraphQLError sorts machinebox errors into the retry taxonomy.
// The library flattens transport failures, non-200 statuses, and
// server-reported errors into plain errors, so classification works on
// the message text.
func classifyGraphQLError(err error) error {
	if errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded) {
		return err
	}
	msg := strings.ToLower(err.Error())
	switch {
	case strings.Contains(msg, "rate limit"):
		return &apperrors.RateLimitedError{}
	case strings.Contains(msg, "non-200 status code"):
		return &httputil.RetryableError{Err: fmt.Errorf("%w: %v", ErrNetwork, err)}
	case strings.HasPrefix(msg, "graphql:"):
		// Server-reported query errors are permanent.
		return err
	default:
		return &httputil.RetryableError{Err: fmt.Errorf("%w: %v", ErrNetwork, err)}
	}
}

// classifyRESTError sorts go-github errors into the retry taxonomy.
func classifyRESTError(err error) error {
	if errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded) {
		return err
	}

	var acceptedErr *gogithub.AcceptedError
	if errors.As(err, &acceptedErr) {
		return &httputil.PendingError{Err: err}
	}

	var rateErr *gogithub.RateLimitError
	if errors.As(err, &rateErr) {
		return &apperrors.RateLimitedError{
			ResetAt:   rateErr.Rate.Reset.Time,
			Remaining: rateErr.Rate.Remaining,
		}
	}

	var abuseErr *gogithub.AbuseRateLimitError
	if errors.As(err, &abuseErr) {
		resetAt := time.Now().Add(defaultRateLimitPause)
		if abuseErr.RetryAfter != nil {
			resetAt = time.Now().Add(*abuseErr.RetryAfter)
		}
		return &apperrors.RateLimitedError{ResetAt: resetAt}
	}

	var respErr *gogithub.ErrorResponse
	if errors.As(err, &respErr) && respErr.Response != nil {
		switch {
		case respErr.Response.StatusCode == http.StatusNotFound:
			return fmt.Errorf("%w: %v", ErrNotFound, err)
		case respErr.Response.StatusCode >= 500:
			return &httputil.RetryableError{Err: fmt.Errorf("%w: %v", ErrNetwork, err)}
		default:
			return err
		}
	}

	return &httputil.RetryableError{Err: fmt.Errorf("%w: %v", ErrNetwork, err)}
}
