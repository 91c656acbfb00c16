package github

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	gogithub "github.com/google/go-github/v57/github"

	apperrors "github.com/statsmith/statsmith/pkg/errors"
)

func langEdge(name, color string, size int64) languageEdge {
	var e languageEdge
	e.Size = size
	e.Node.Name = name
	e.Node.Color = color
	return e
}

func testRepoNode(nameWithOwner string, fork bool, stars int, langs ...languageEdge) repoNode {
	n := repoNode{NameWithOwner: nameWithOwner, IsFork: fork}
	n.Stargazers.TotalCount = stars
	n.Languages.Edges = langs
	return n
}

// newFetchFixture stands up GraphQL and REST stubs for a small account:
// two owned repositories split across two pages, one contributed
// repository, and one duplicate that must be deduplicated.
func newFetchFixture(t *testing.T) (gqlURL, restURL string) {
	t.Helper()

	gql := newGraphQLServer(t, func(q gqlRequest) any {
		switch {
		case strings.Contains(q.Query, "starredRepositories"):
			return testIdentity()

		case strings.Contains(q.Query, "contributionYears"):
			resp := contributionYearsResponse{RateLimit: testRateLimit()}
			resp.Viewer.ContributionsCollection.ContributionYears = []int{2024}
			return resp

		case strings.Contains(q.Query, "contributionsCollection(from:"):
			year := yearContributions{}
			year.ContributionCalendar.TotalContributions = 900
			return contributionsByYearResponse{
				Viewer:    map[string]yearContributions{"year2024": year},
				RateLimit: testRateLimit(),
			}

		case strings.Contains(q.Query, "repositoriesContributedTo"):
			resp := contributedReposResponse{RateLimit: testRateLimit()}
			resp.Viewer.RepositoriesContributedTo = repoConnection{
				Nodes: []repoNode{
					testRepoNode("acme/website", false, 7, langEdge("HTML", "#e34c26", 500)),
					// Duplicate of an owned repository; must be dropped.
					testRepoNode("octocat/hello-world", false, 80, langEdge("Go", "#00ADD8", 600)),
				},
			}
			return resp

		default:
			after, _ := q.Variables["after"].(string)
			resp := ownedReposResponse{RateLimit: testRateLimit()}
			if after == "c1" {
				resp.Viewer.Repositories = repoConnection{
					Nodes: []repoNode{testRepoNode("octocat/spoon-knife", true, 3)},
				}
			} else {
				resp.Viewer.Repositories = repoConnection{
					PageInfo: pageInfo{HasNextPage: true, EndCursor: "c1"},
					Nodes: []repoNode{
						testRepoNode("octocat/hello-world", false, 80,
							langEdge("Go", "#00ADD8", 600), langEdge("Ruby", "#701516", 400)),
					},
				}
			}
			return resp
		}
	})
	t.Cleanup(gql.Close)

	statsPayload := map[string][]map[string]any{
		"/repos/octocat/hello-world/stats/contributors": {
			{"author": map[string]any{"login": "octocat"}, "total": 12,
				"weeks": []map[string]any{{"a": 100, "d": 40, "c": 12}}},
			{"author": map[string]any{"login": "hubot"}, "total": 5,
				"weeks": []map[string]any{{"a": 20, "d": 8, "c": 5}}},
		},
		"/repos/octocat/spoon-knife/stats/contributors": {
			{"author": map[string]any{"login": "octocat"}, "total": 2,
				"weeks": []map[string]any{{"a": 10, "d": 3, "c": 2}}},
		},
		"/repos/acme/website/stats/contributors": {
			{"author": map[string]any{"login": "octocat"}, "total": 1,
				"weeks": []map[string]any{{"a": 5, "d": 2, "c": 1}}},
		},
	}
	rest := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		payload, ok := statsPayload[r.URL.Path]
		if !ok {
			http.NotFound(w, r)
			return
		}
		w.Header().Set("Content-Type", "application/json")
		json.NewEncoder(w).Encode(payload)
	}))
	t.Cleanup(rest.Close)

	return gql.URL, rest.URL
}

func TestFetcherFetch(t *testing.T) {
	gqlURL, restURL := newFetchFixture(t)
	c := testClient(t, gqlURL, restURL, nil)

	f, err := NewFetcher(c, FetchOptions{Concurrency: 2})
	if err != nil {
		t.Fatalf("NewFetcher failed: %v", err)
	}

	result, err := f.Fetch(context.Background())
	if err != nil {
		t.Fatalf("Fetch failed: %v", err)
	}

	if result.Account.Login != "octocat" {
		t.Errorf("expected login octocat, got %q", result.Account.Login)
	}
	if result.Account.Contributions != 900 {
		t.Errorf("expected 900 contributions, got %d", result.Account.Contributions)
	}
	if len(result.Warnings) != 0 {
		t.Errorf("expected no warnings, got %v", result.Warnings)
	}

	if len(result.Repos) != 3 {
		t.Fatalf("expected 3 repositories, got %d: %+v", len(result.Repos), result.Repos)
	}

	wantOrder := []string{"octocat/hello-world", "octocat/spoon-knife", "acme/website"}
	for i, want := range wantOrder {
		if got := result.Repos[i].FullName(); got != want {
			t.Errorf("repo[%d] = %s, want %s", i, got, want)
		}
	}

	hello := result.Repos[0]
	if !hello.Owned {
		t.Error("expected the owned listing to win the duplicate")
	}
	if hello.Commits != 12 || hello.LinesAdded != 100 || hello.LinesDeleted != 40 {
		t.Errorf("hello-world stats = %d/%d/%d, want 12/100/40",
			hello.Commits, hello.LinesAdded, hello.LinesDeleted)
	}
	if len(hello.Languages) != 2 {
		t.Errorf("expected 2 languages on hello-world, got %d", len(hello.Languages))
	}

	if fork := result.Repos[1]; !fork.Fork || fork.Commits != 2 {
		t.Errorf("spoon-knife = fork:%v commits:%d, want fork:true commits:2", fork.Fork, fork.Commits)
	}
	if contributed := result.Repos[2]; contributed.Owned || contributed.Commits != 1 {
		t.Errorf("website = owned:%v commits:%d, want owned:false commits:1", contributed.Owned, contributed.Commits)
	}
}

func TestFetcherAttributesToActor(t *testing.T) {
	gqlURL, restURL := newFetchFixture(t)
	c := testClient(t, gqlURL, restURL, nil)

	f, err := NewFetcher(c, FetchOptions{Actor: "hubot"})
	if err != nil {
		t.Fatalf("NewFetcher failed: %v", err)
	}

	result, err := f.Fetch(context.Background())
	if err != nil {
		t.Fatalf("Fetch failed: %v", err)
	}

	hello := result.Repos[0]
	if hello.Commits != 5 || hello.LinesAdded != 20 || hello.LinesDeleted != 8 {
		t.Errorf("hello-world stats = %d/%d/%d, want hubot's 5/20/8",
			hello.Commits, hello.LinesAdded, hello.LinesDeleted)
	}
	// hubot never touched the fork.
	if fork := result.Repos[1]; fork.Commits != 0 {
		t.Errorf("expected 0 commits on spoon-knife for hubot, got %d", fork.Commits)
	}
}

// A repository whose statistics endpoint keeps failing is dropped with
// a warning; the rest of the run survives.
func TestFetcherDropsRepoOnStatsFailure(t *testing.T) {
	gql := newGraphQLServer(t, func(q gqlRequest) any {
		switch {
		case strings.Contains(q.Query, "starredRepositories"):
			return testIdentity()
		case strings.Contains(q.Query, "contributionYears"):
			return contributionYearsResponse{RateLimit: testRateLimit()}
		case strings.Contains(q.Query, "repositoriesContributedTo"):
			return contributedReposResponse{RateLimit: testRateLimit()}
		default:
			resp := ownedReposResponse{RateLimit: testRateLimit()}
			resp.Viewer.Repositories = repoConnection{
				Nodes: []repoNode{
					testRepoNode("octocat/healthy", false, 1),
					testRepoNode("octocat/flaky", false, 2),
				},
			}
			return resp
		}
	})
	defer gql.Close()

	rest := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if strings.Contains(r.URL.Path, "flaky") {
			w.Header().Set("Content-Type", "application/json")
			w.WriteHeader(http.StatusInternalServerError)
			json.NewEncoder(w).Encode(map[string]string{"message": "boom"})
			return
		}
		w.Header().Set("Content-Type", "application/json")
		json.NewEncoder(w).Encode([]map[string]any{
			{"author": map[string]any{"login": "octocat"}, "total": 4,
				"weeks": []map[string]any{{"a": 9, "d": 1, "c": 4}}},
		})
	}))
	defer rest.Close()

	c := testClient(t, gql.URL, rest.URL, nil)
	f, err := NewFetcher(c, FetchOptions{})
	if err != nil {
		t.Fatalf("NewFetcher failed: %v", err)
	}

	result, err := f.Fetch(context.Background())
	if err != nil {
		t.Fatalf("Fetch failed: %v", err)
	}

	if len(result.Repos) != 1 || result.Repos[0].FullName() != "octocat/healthy" {
		t.Fatalf("expected only octocat/healthy to survive, got %+v", result.Repos)
	}
	if len(result.Warnings) != 1 || !strings.Contains(result.Warnings[0], "dropping octocat/flaky") {
		t.Errorf("expected a drop warning for octocat/flaky, got %v", result.Warnings)
	}
}

func TestFetcherSkipsMalformedRepo(t *testing.T) {
	gql := newGraphQLServer(t, func(q gqlRequest) any {
		switch {
		case strings.Contains(q.Query, "starredRepositories"):
			return testIdentity()
		case strings.Contains(q.Query, "contributionYears"):
			return contributionYearsResponse{RateLimit: testRateLimit()}
		case strings.Contains(q.Query, "repositoriesContributedTo"):
			return contributedReposResponse{RateLimit: testRateLimit()}
		default:
			resp := ownedReposResponse{RateLimit: testRateLimit()}
			resp.Viewer.Repositories = repoConnection{
				Nodes: []repoNode{
					testRepoNode("", false, 0),
					testRepoNode("octocat/fine", false, 1),
				},
			}
			return resp
		}
	})
	defer gql.Close()

	rest := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		json.NewEncoder(w).Encode([]map[string]any{})
	}))
	defer rest.Close()

	c := testClient(t, gql.URL, rest.URL, nil)
	f, err := NewFetcher(c, FetchOptions{})
	if err != nil {
		t.Fatalf("NewFetcher failed: %v", err)
	}

	result, err := f.Fetch(context.Background())
	if err != nil {
		t.Fatalf("Fetch failed: %v", err)
	}
	if len(result.Repos) != 1 || result.Repos[0].FullName() != "octocat/fine" {
		t.Fatalf("expected only octocat/fine, got %+v", result.Repos)
	}
	if len(result.Warnings) != 1 || !strings.Contains(result.Warnings[0], "skipping malformed owned repository") {
		t.Errorf("expected a malformed-repository warning, got %v", result.Warnings)
	}
}

// A page that claims more results without moving the cursor would loop
// forever; the fetcher must bail out instead.
func TestFetcherPaginationStall(t *testing.T) {
	gql := newGraphQLServer(t, func(q gqlRequest) any {
		switch {
		case strings.Contains(q.Query, "starredRepositories"):
			return testIdentity()
		case strings.Contains(q.Query, "contributionYears"):
			return contributionYearsResponse{RateLimit: testRateLimit()}
		default:
			resp := ownedReposResponse{RateLimit: testRateLimit()}
			resp.Viewer.Repositories = repoConnection{
				PageInfo: pageInfo{HasNextPage: true, EndCursor: ""},
				Nodes:    []repoNode{testRepoNode("octocat/loop", false, 0)},
			}
			return resp
		}
	})
	defer gql.Close()

	c := testClient(t, gql.URL, "", nil)
	f, err := NewFetcher(c, FetchOptions{})
	if err != nil {
		t.Fatalf("NewFetcher failed: %v", err)
	}

	_, err = f.Fetch(context.Background())
	if err == nil {
		t.Fatal("expected pagination error")
	}
	if !strings.Contains(err.Error(), "pagination stalled") {
		t.Errorf("expected a stall error, got %v", err)
	}
}

func TestFetcherIdentityFailureAborts(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		json.NewEncoder(w).Encode(map[string]any{
			"errors": []map[string]string{{"message": "bad credentials"}},
		})
	}))
	defer server.Close()

	c := testClient(t, server.URL, "", nil)
	f, err := NewFetcher(c, FetchOptions{})
	if err != nil {
		t.Fatalf("NewFetcher failed: %v", err)
	}

	if _, err := f.Fetch(context.Background()); err == nil {
		t.Fatal("expected identity failure to abort the run")
	}
}

func TestNewFetcherValidation(t *testing.T) {
	if _, err := NewFetcher(nil, FetchOptions{}); err == nil {
		t.Error("expected error for nil client")
	}

	c := testClient(t, "http://127.0.0.1:0", "", nil)
	_, err := NewFetcher(c, FetchOptions{Actor: "-bad-"})
	if err == nil {
		t.Fatal("expected error for invalid actor login")
	}
	if !apperrors.Is(err, apperrors.ErrCodeInvalidLogin) {
		t.Errorf("expected INVALID_LOGIN, got %v", err)
	}
}

func TestSumContributorStats(t *testing.T) {
	week := func(a, d, c int) *gogithub.WeeklyStats {
		return &gogithub.WeeklyStats{Additions: &a, Deletions: &d, Commits: &c}
	}
	row := func(login string, total int, weeks ...*gogithub.WeeklyStats) *gogithub.ContributorStats {
		return &gogithub.ContributorStats{
			Author: &gogithub.Contributor{Login: &login},
			Total:  &total,
			Weeks:  weeks,
		}
	}

	all := []*gogithub.ContributorStats{
		row("octocat", 12, week(100, 40, 10), week(30, 5, 2)),
		row("hubot", 5, week(20, 8, 5)),
		nil,
		{Total: gogithub.Int(99)}, // anonymous author, skipped
	}

	tests := []struct {
		name        string
		actor       string
		wantCommits int
		wantAdded   int
		wantDeleted int
	}{
		{name: "exact match", actor: "octocat", wantCommits: 12, wantAdded: 130, wantDeleted: 45},
		{name: "case insensitive", actor: "OCTOCAT", wantCommits: 12, wantAdded: 130, wantDeleted: 45},
		{name: "other author", actor: "hubot", wantCommits: 5, wantAdded: 20, wantDeleted: 8},
		{name: "unknown author", actor: "nobody", wantCommits: 0, wantAdded: 0, wantDeleted: 0},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			commits, added, deleted := sumContributorStats(all, tt.actor)
			if commits != tt.wantCommits || added != tt.wantAdded || deleted != tt.wantDeleted {
				t.Errorf("got %d/%d/%d, want %d/%d/%d",
					commits, added, deleted, tt.wantCommits, tt.wantAdded, tt.wantDeleted)
			}
		})
	}
}

func TestListRepositories(t *testing.T) {
	gqlURL, restURL := newFetchFixture(t)
	c := testClient(t, gqlURL, restURL, nil)

	f, err := NewFetcher(c, FetchOptions{})
	if err != nil {
		t.Fatalf("NewFetcher failed: %v", err)
	}

	repos, warnings, err := f.ListRepositories(context.Background())
	if err != nil {
		t.Fatalf("ListRepositories failed: %v", err)
	}
	if len(warnings) != 0 {
		t.Errorf("expected no warnings, got %v", warnings)
	}
	if len(repos) != 3 {
		t.Fatalf("expected 3 repositories, got %d", len(repos))
	}
	// No statistics calls were made.
	for _, repo := range repos {
		if repo.Commits != 0 {
			t.Errorf("expected zero commits before stats collection, got %d on %s", repo.Commits, repo.FullName())
		}
	}
}
