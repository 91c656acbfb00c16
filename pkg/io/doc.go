// Package io provides JSON import and export for metric sets.
//
// # Overview
//
// A run's aggregated statistics can be written out alongside the SVG
// cards. The JSON form serves:
//
//   - Downstream tooling (badges, dashboards) that want numbers, not SVG
//   - Diffing statistics between runs
//   - Re-rendering cards later without refetching from the API
//
// # Format
//
// The file is the [stats.MetricSet] structure encoded as indented
// JSON: account scalars (login, name, join date, followers, ...),
// aggregate totals (stars, forks, commits, line counts), and the
// ordered language breakdown with byte counts and percentages.
//
// # Import
//
// Use [ImportJSON] to read a metric set from a file path, or
// [ReadJSON] to read from any io.Reader:
//
//	m, err := io.ImportJSON("dist/stats.json")
//	if err != nil {
//	    log.Fatal(err)
//	}
//
// Both validate the decoded set (login present, no negative counts,
// named languages) so corrupt files are rejected at the boundary.
//
// # Export
//
// Use [ExportJSON] to write to a file, or [WriteJSON] to write to any
// io.Writer:
//
//	err := io.ExportJSON(m, "dist/stats.json")
//	if err != nil {
//	    log.Fatal(err)
//	}
package io
