// Package stats defines the domain model for GitHub account statistics
// and the pure stages that turn fetched repository records into
// renderer-ready metrics.
//
// The fetch layer (pkg/github) produces [Account] and [Repository]
// values; [Filters.Apply] drops what the user excluded; [Aggregate]
// folds the remainder into a [MetricSet]. Both stages are deterministic:
// the same inputs always produce the same outputs, byte for byte.
package stats

import "time"

// Account holds the account-level numbers fetched for the subject user.
type Account struct {
	Login         string    `json:"login" bson:"login"`
	Name          string    `json:"name" bson:"name"`
	JoinedAt      time.Time `json:"joined_at" bson:"joined_at"`
	Followers     int       `json:"followers" bson:"followers"`
	Following     int       `json:"following" bson:"following"`
	Sponsoring    int       `json:"sponsoring" bson:"sponsoring"`
	StarredRepos  int       `json:"starred_repos" bson:"starred_repos"`
	Contributions int       `json:"contributions" bson:"contributions"`
}

// Language is one language entry of a repository, sized in bytes as
// reported by GitHub's linguist breakdown.
type Language struct {
	Name  string `json:"name" bson:"name"`
	Bytes int64  `json:"bytes" bson:"bytes"`
	Color string `json:"color" bson:"color"`
}

// Repository is one fully fetched repository record. Records reach the
// aggregation stages either complete or not at all; a repository whose
// statistics could not be fetched is dropped by the fetch layer.
type Repository struct {
	Owner        string     `json:"owner" bson:"owner"`
	Name         string     `json:"name" bson:"name"`
	Fork         bool       `json:"fork" bson:"fork"`
	Private      bool       `json:"private" bson:"private"`
	Owned        bool       `json:"owned" bson:"owned"`
	Stars        int        `json:"stars" bson:"stars"`
	Forks        int        `json:"forks" bson:"forks"`
	Languages    []Language `json:"languages" bson:"languages"`
	Commits      int        `json:"commits" bson:"commits"`
	LinesAdded   int        `json:"lines_added" bson:"lines_added"`
	LinesDeleted int        `json:"lines_deleted" bson:"lines_deleted"`
}

// FullName returns the owner/name form used for exclusion matching.
func (r Repository) FullName() string {
	return r.Owner + "/" + r.Name
}

// LanguageStat is one aggregated language with its share of all counted
// bytes. Shares are recomputed over the filtered set, so excluding a
// language redistributes its percentage across the rest.
type LanguageStat struct {
	Name    string  `json:"name" bson:"name"`
	Color   string  `json:"color" bson:"color"`
	Bytes   int64   `json:"bytes" bson:"bytes"`
	Percent float64 `json:"percent" bson:"percent"`
}

// MetricSet is the complete, renderer-ready statistics bundle for one
// account. LinesChanged and RepoCount are stored denormalized so JSON
// exports and snapshots carry them without recomputation.
type MetricSet struct {
	Login         string    `json:"login" bson:"login"`
	Name          string    `json:"name" bson:"name"`
	JoinedAt      time.Time `json:"joined_at" bson:"joined_at"`
	Followers     int       `json:"followers" bson:"followers"`
	Following     int       `json:"following" bson:"following"`
	Sponsoring    int       `json:"sponsoring" bson:"sponsoring"`
	StarredRepos  int       `json:"starred_repos" bson:"starred_repos"`
	Contributions int       `json:"contributions" bson:"contributions"`

	Stars        int `json:"stars" bson:"stars"`
	Forks        int `json:"forks" bson:"forks"`
	Commits      int `json:"commits" bson:"commits"`
	LinesAdded   int `json:"lines_added" bson:"lines_added"`
	LinesDeleted int `json:"lines_deleted" bson:"lines_deleted"`
	LinesChanged int `json:"lines_changed" bson:"lines_changed"`

	OwnedRepos       int `json:"owned_repos" bson:"owned_repos"`
	ContributedRepos int `json:"contributed_repos" bson:"contributed_repos"`
	RepoCount        int `json:"repo_count" bson:"repo_count"`

	Languages []LanguageStat `json:"languages" bson:"languages"`
}
