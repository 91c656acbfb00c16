package io

import (
	"encoding/json"
	"fmt"
	"io"
	"os"

	"github.com/statsmith/statsmith/pkg/stats"
)

// ReadJSON decodes a metric set from r.
//
// The input must be the JSON form produced by [WriteJSON]. Decoded sets
// are validated the same way aggregation validates fetched data: the
// login must be present and no count may be negative, so corrupt or
// hand-edited files fail here instead of producing broken cards.
//
// ReadJSON does not close r.
func ReadJSON(r io.Reader) (*stats.MetricSet, error) {
	var m stats.MetricSet
	if err := json.NewDecoder(r).Decode(&m); err != nil {
		return nil, fmt.Errorf("decode: %w", err)
	}
	if err := validate(&m); err != nil {
		return nil, err
	}
	return &m, nil
}

// ImportJSON reads a JSON file at path and returns the decoded metric
// set. It returns the same validation errors as [ReadJSON].
func ImportJSON(path string) (*stats.MetricSet, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open %s: %w", path, err)
	}
	defer f.Close()
	return ReadJSON(f)
}

func validate(m *stats.MetricSet) error {
	if m.Login == "" {
		return fmt.Errorf("metric set has no login")
	}
	counts := map[string]int{
		"followers":     m.Followers,
		"following":     m.Following,
		"sponsoring":    m.Sponsoring,
		"starred_repos": m.StarredRepos,
		"contributions": m.Contributions,
		"stars":         m.Stars,
		"forks":         m.Forks,
		"commits":       m.Commits,
		"lines_added":   m.LinesAdded,
		"lines_deleted": m.LinesDeleted,
		"lines_changed": m.LinesChanged,
		"repo_count":    m.RepoCount,
	}
	for field, value := range counts {
		if value < 0 {
			return fmt.Errorf("field %s is negative (%d)", field, value)
		}
	}
	for _, lang := range m.Languages {
		if lang.Name == "" {
			return fmt.Errorf("language entry has no name")
		}
		if lang.Bytes < 0 {
			return fmt.Errorf("language %s has negative bytes (%d)", lang.Name, lang.Bytes)
		}
	}
	return nil
}
