package github

import (
	"fmt"
	"strings"
)

const identityQuery = `
query Identity {
  viewer {
    login
    name
    createdAt
    followers { totalCount }
    following { totalCount }
    sponsoring { totalCount }
    starredRepositories { totalCount }
  }
  rateLimit { remaining resetAt }
}`

// The repository queries page at the GraphQL maximum of 100 nodes and
// cap the per-repository language breakdown at ten; the tail below that
// is linguist noise.
const ownedReposQuery = `
query OwnedRepos($after: String) {
  viewer {
    repositories(
      first: 100
      after: $after
      orderBy: { field: UPDATED_AT, direction: DESC }
      ownerAffiliations: [OWNER, ORGANIZATION_MEMBER]
    ) {
      pageInfo { hasNextPage endCursor }
      nodes {
        nameWithOwner
        isFork
        isPrivate
        forkCount
        stargazers { totalCount }
        languages(first: 10, orderBy: { field: SIZE, direction: DESC }) {
          edges {
            size
            node { name color }
          }
        }
      }
    }
  }
  rateLimit { remaining resetAt }
}`

const contributedReposQuery = `
query ContributedRepos($after: String) {
  viewer {
    repositoriesContributedTo(
      first: 100
      after: $after
      orderBy: { field: UPDATED_AT, direction: DESC }
      includeUserRepositories: false
      contributionTypes: [COMMIT, PULL_REQUEST, REPOSITORY, PULL_REQUEST_REVIEW]
    ) {
      pageInfo { hasNextPage endCursor }
      nodes {
        nameWithOwner
        isFork
        isPrivate
        forkCount
        stargazers { totalCount }
        languages(first: 10, orderBy: { field: SIZE, direction: DESC }) {
          edges {
            size
            node { name color }
          }
        }
      }
    }
  }
  rateLimit { remaining resetAt }
}`

const contributionYearsQuery = `
query ContributionYears {
  viewer {
    contributionsCollection {
      contributionYears
    }
  }
  rateLimit { remaining resetAt }
}`

// buildContributionsQuery assembles one aliased contributionsCollection
// block per year of account history. The calendar API caps each range at
// one year, so the years are queried in a single batched document rather
// than one call per year.
func buildContributionsQuery(years []int) string {
	var b strings.Builder
	b.WriteString("query ContributionsByYear {\n  viewer {\n")
	for _, year := range years {
		fmt.Fprintf(&b,
			"    year%d: contributionsCollection(from: %q, to: %q) {\n      contributionCalendar { totalContributions }\n    }\n",
			year,
			fmt.Sprintf("%d-01-01T00:00:00Z", year),
			fmt.Sprintf("%d-01-01T00:00:00Z", year+1),
		)
	}
	b.WriteString("  }\n  rateLimit { remaining resetAt }\n}")
	return b.String()
}
