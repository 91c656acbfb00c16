// Package httputil provides HTTP utilities for the GitHub API clients.
//
// # Overview
//
// This package provides the retry infrastructure shared by the GraphQL
// and REST clients:
//
//   - [Retry]: Automatic retry with exponential backoff
//   - [Poll]: Fixed-interval polling for deferred results
//
// # Retry
//
// [Retry] wraps API requests with automatic retry for transient failures:
//
//   - Network errors
//   - 5xx server errors
//
// Transient failures must be wrapped in [RetryableError]; anything else
// aborts the attempt loop immediately:
//
//	err := httputil.Retry(ctx, 3, time.Second, func() error {
//	    return fetchPage(ctx, cursor)
//	})
//
// # Polling
//
// [Poll] handles endpoints that answer 202 Accepted while the server
// computes the result in the background. GitHub's contributor statistics
// endpoint behaves this way on cold repositories:
//
//	err := httputil.Poll(ctx, 60, 2*time.Second, func() error {
//	    return fetchContributorStats(ctx, owner, name)
//	})
//
// Pending responses must be wrapped in [PendingError].
//
// # Configuration
//
// Default settings are suitable for most use cases:
//
//   - Max retries: 3
//   - Base backoff: 1 second
//
// Both helpers stop early when the context is cancelled.
package httputil
