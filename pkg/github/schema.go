package github

import (
	"strings"
	"time"

	"github.com/statsmith/statsmith/pkg/errors"
	"github.com/statsmith/statsmith/pkg/stats"
)

// Wire types for the GraphQL responses. Field names follow the GitHub
// schema; only the parts the fetcher reads are declared.

type pageInfo struct {
	HasNextPage bool   `json:"hasNextPage"`
	EndCursor   string `json:"endCursor"`
}

type countTotal struct {
	TotalCount int `json:"totalCount"`
}

type rateLimitInfo struct {
	Remaining int       `json:"remaining"`
	ResetAt   time.Time `json:"resetAt"`
}

type languageEdge struct {
	Size int64 `json:"size"`
	Node struct {
		Name  string `json:"name"`
		Color string `json:"color"`
	} `json:"node"`
}

type repoNode struct {
	NameWithOwner string     `json:"nameWithOwner"`
	IsFork        bool       `json:"isFork"`
	IsPrivate     bool       `json:"isPrivate"`
	ForkCount     int        `json:"forkCount"`
	Stargazers    countTotal `json:"stargazers"`
	Languages     struct {
		Edges []languageEdge `json:"edges"`
	} `json:"languages"`
}

type repoConnection struct {
	PageInfo pageInfo   `json:"pageInfo"`
	Nodes    []repoNode `json:"nodes"`
}

type viewerIdentity struct {
	Login               string     `json:"login"`
	Name                string     `json:"name"`
	CreatedAt           time.Time  `json:"createdAt"`
	Followers           countTotal `json:"followers"`
	Following           countTotal `json:"following"`
	Sponsoring          countTotal `json:"sponsoring"`
	StarredRepositories countTotal `json:"starredRepositories"`
}

type identityResponse struct {
	Viewer    viewerIdentity `json:"viewer"`
	RateLimit rateLimitInfo  `json:"rateLimit"`
}

type ownedReposResponse struct {
	Viewer struct {
		Repositories repoConnection `json:"repositories"`
	} `json:"viewer"`
	RateLimit rateLimitInfo `json:"rateLimit"`
}

type contributedReposResponse struct {
	Viewer struct {
		RepositoriesContributedTo repoConnection `json:"repositoriesContributedTo"`
	} `json:"viewer"`
	RateLimit rateLimitInfo `json:"rateLimit"`
}

type contributionYearsResponse struct {
	Viewer struct {
		ContributionsCollection struct {
			ContributionYears []int `json:"contributionYears"`
		} `json:"contributionsCollection"`
	} `json:"viewer"`
	RateLimit rateLimitInfo `json:"rateLimit"`
}

type yearContributions struct {
	ContributionCalendar struct {
		TotalContributions int `json:"totalContributions"`
	} `json:"contributionCalendar"`
}

// contributionsByYearResponse decodes the per-year aliases (year2019,
// year2020, ...) of the dynamically built contributions query.
type contributionsByYearResponse struct {
	Viewer    map[string]yearContributions `json:"viewer"`
	RateLimit rateLimitInfo                `json:"rateLimit"`
}

// toRepository validates a fetched node and converts it to the domain
// type. Nodes the API should never produce (missing names, negative
// counts) are rejected so the caller can drop the record instead of
// passing corrupt numbers downstream.
func (n repoNode) toRepository(owned bool) (stats.Repository, error) {
	if err := errors.ValidateRepoName(n.NameWithOwner); err != nil {
		return stats.Repository{}, err
	}
	if n.Stargazers.TotalCount < 0 || n.ForkCount < 0 {
		return stats.Repository{}, errors.New(errors.ErrCodeInvalidMetrics, "repository %s has negative counts", n.NameWithOwner)
	}

	owner, name, _ := strings.Cut(n.NameWithOwner, "/")
	repo := stats.Repository{
		Owner:   owner,
		Name:    name,
		Fork:    n.IsFork,
		Private: n.IsPrivate,
		Owned:   owned,
		Stars:   n.Stargazers.TotalCount,
		Forks:   n.ForkCount,
	}

	for _, edge := range n.Languages.Edges {
		if edge.Node.Name == "" {
			return stats.Repository{}, errors.New(errors.ErrCodeInvalidMetrics, "repository %s lists a language without a name", n.NameWithOwner)
		}
		if edge.Size < 0 {
			return stats.Repository{}, errors.New(errors.ErrCodeInvalidMetrics, "repository %s reports negative bytes for %s", n.NameWithOwner, edge.Node.Name)
		}
		repo.Languages = append(repo.Languages, stats.Language{
			Name:  edge.Node.Name,
			Bytes: edge.Size,
			Color: edge.Node.Color,
		})
	}
	return repo, nil
}

// account maps the identity payload to the domain type. GitHub reports
// null for unset display names; fall back to the login so the cards
// always have something to show.
func (v viewerIdentity) account() stats.Account {
	name := v.Name
	if name == "" {
		name = v.Login
	}
	return stats.Account{
		Login:        v.Login,
		Name:         name,
		JoinedAt:     v.CreatedAt,
		Followers:    v.Followers.TotalCount,
		Following:    v.Following.TotalCount,
		Sponsoring:   v.Sponsoring.TotalCount,
		StarredRepos: v.StarredRepositories.TotalCount,
	}
}
