// Package pkg provides the core libraries for Statsmith GitHub statistics cards.
//
// # Overview
//
// Statsmith collects a GitHub account's activity and renders it into themed
// SVG report cards. The pkg directory is organized into four main areas:
//
//  1. [github] - Data collection (GraphQL + REST clients, device-flow OAuth)
//  2. [stats] - Domain logic (exclusion filters, metric aggregation)
//  3. [render] - Card rendering (embedded SVG templates, TOML themes)
//  4. [pipeline] - Orchestration (fetch → reduce → render)
//
// # Architecture
//
// The typical data flow through Statsmith:
//
//	GitHub GraphQL/REST APIs
//	         ↓
//	    [github] package (identity, repositories, contributor statistics)
//	         ↓
//	    [stats] package (filter + aggregate into a MetricSet)
//	         ↓
//	    [render] package (templates × themes)
//	         ↓
//	    SVG card files
//
// # Quick Start
//
// Run the whole pipeline and write the cards:
//
//	import (
//	    "context"
//	    "os"
//
//	    "github.com/statsmith/statsmith/pkg/pipeline"
//	)
//
//	// 1. Create a runner (nil cache, keyer and logger select defaults)
//	runner := pipeline.NewRunner(nil, nil, nil)
//	defer runner.Close()
//
//	// 2. Execute fetch → reduce → render
//	result, _ := runner.Execute(context.Background(), pipeline.Options{
//	    Token: os.Getenv("ACCESS_TOKEN"),
//	})
//
//	// 3. Write one file per template and theme combination
//	for name, svg := range result.Artifacts {
//	    os.WriteFile(name, svg, 0o644)
//	}
//
// # Main Packages
//
// ## Data Collection
//
// [github] - GitHub API clients: GraphQL for identity, repository listings
// and contribution history, REST for per-repository contributor statistics,
// plus the device authorization flow behind `statsmith login`. Handles
// pagination, bounded retry, 202 polling, and a shared rate gate.
//
// ## Domain Logic
//
// [stats] - Domain types (Account, Repository, LanguageStat, MetricSet)
// with the pure exclusion filters and the aggregation that reduces the
// repository set to the renderer-ready metric set.
//
// ## Rendering
//
// [render] - Embedded SVG templates (overview, languages, community) and
// TOML theme palettes (light, dark): placeholder substitution, output name
// templating, and file writing.
//
// ## Orchestration
//
// [pipeline] - Complete statistics pipeline (fetch → reduce → render) used
// by the CLI. Ensures consistent behavior across all entry points.
//
// ## Infrastructure
//
// [cache] - TTL cache for API responses with file, Redis, and null
// backends plus the key derivation shared by every consumer.
//
// [session] - File-backed store for the device-flow OAuth session.
//
// [snapshot] - Optional MongoDB sink recording each run's metric set
// under its run ID.
//
// [config] - Environment configuration (.env file + process env) decoded
// into an immutable struct and validated before any API call.
//
// [errors] - Coded errors and the input validation shared by every layer.
//
// [httputil] - Bounded retry and fixed-interval polling helpers.
//
// [io] - JSON export and import of metric sets.
//
// [observability] - Optional process-wide hooks for pipeline, cache, and
// HTTP events.
//
// [buildinfo] - Version information injected via ldflags.
//
// # Testing
//
// Run tests:
//
//	go test ./pkg/...          # All tests
//	go test ./pkg/stats/...    # Specific package
//	go test -run Example       # Examples only
//
// [github]: https://pkg.go.dev/github.com/statsmith/statsmith/pkg/github
// [stats]: https://pkg.go.dev/github.com/statsmith/statsmith/pkg/stats
// [render]: https://pkg.go.dev/github.com/statsmith/statsmith/pkg/render
// [pipeline]: https://pkg.go.dev/github.com/statsmith/statsmith/pkg/pipeline
// [cache]: https://pkg.go.dev/github.com/statsmith/statsmith/pkg/cache
// [session]: https://pkg.go.dev/github.com/statsmith/statsmith/pkg/session
// [snapshot]: https://pkg.go.dev/github.com/statsmith/statsmith/pkg/snapshot
// [config]: https://pkg.go.dev/github.com/statsmith/statsmith/pkg/config
// [errors]: https://pkg.go.dev/github.com/statsmith/statsmith/pkg/errors
// [httputil]: https://pkg.go.dev/github.com/statsmith/statsmith/pkg/httputil
// [io]: https://pkg.go.dev/github.com/statsmith/statsmith/pkg/io
// [observability]: https://pkg.go.dev/github.com/statsmith/statsmith/pkg/observability
// [buildinfo]: https://pkg.go.dev/github.com/statsmith/statsmith/pkg/buildinfo
package pkg
