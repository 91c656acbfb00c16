// Package github collects account statistics from the GitHub APIs.
//
// # Overview
//
// This package talks to two GitHub APIs. The GraphQL API
// (https://api.github.com/graphql) supplies the account profile,
// contribution history, and the repository list with per-repository
// language breakdowns. The REST contributor-statistics endpoint
// supplies commit counts and line deltas per author, which GraphQL
// does not expose.
//
// # Usage
//
//	client, err := github.NewClient(github.Options{Token: token})
//	if err != nil {
//	    log.Fatal(err)
//	}
//
//	fetcher, err := github.NewFetcher(client, github.FetchOptions{})
//	if err != nil {
//	    log.Fatal(err)
//	}
//
//	result, err := fetcher.Fetch(ctx)
//	if err != nil {
//	    log.Fatal(err)
//	}
//
//	fmt.Println("Repositories:", len(result.Repos))
//
// # Authentication
//
// Every call requires a token with read:user scope; the repo scope is
// needed to include private repositories. Tokens come from the
// ACCESS_TOKEN environment variable or from the device authorization
// flow implemented by [OAuthClient].
//
// # Rate limits
//
// All calls share one rate gate. When GitHub reports an exhausted
// quota the gate pauses every in-flight and future call until the
// window resets, then work resumes where it stopped. Transient
// failures are retried a bounded number of times with increasing
// delays; rate-limit pauses do not count against those retries.
//
// # Contributor statistics
//
// GitHub computes contributor statistics in the background and answers
// 202 until they are ready. The client polls at a fixed interval until
// the payload arrives or the poll budget is spent. A repository whose
// statistics cannot be fetched is dropped from the run with a warning
// instead of failing the whole collection.
//
// # Caching
//
// Raw API responses are cached under keys derived from the query and
// its variables, so repeated runs inside the TTL avoid the network
// entirely. Pass Refresh to bypass reads while still storing fresh
// responses.
package github
