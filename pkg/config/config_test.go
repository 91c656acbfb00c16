package config

import (
	"reflect"
	"testing"
	"time"

	"github.com/statsmith/statsmith/pkg/errors"
)

func TestLoadDefaults(t *testing.T) {
	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load() error: %v", err)
	}

	if cfg.ImageName != "{{ template }}-{{ theme }}.svg" {
		t.Errorf("ImageName = %q, want default pattern", cfg.ImageName)
	}
	if cfg.OutputDir != "dist" {
		t.Errorf("OutputDir = %q, want %q", cfg.OutputDir, "dist")
	}
	if cfg.RunTimeout != 10*time.Minute {
		t.Errorf("RunTimeout = %s, want 10m", cfg.RunTimeout)
	}
	if cfg.FetchConcurrency != 10 {
		t.Errorf("FetchConcurrency = %d, want 10", cfg.FetchConcurrency)
	}
	if cfg.CacheTTL != time.Hour {
		t.Errorf("CacheTTL = %s, want 1h", cfg.CacheTTL)
	}
	if cfg.ExcludeForkedRepos {
		t.Error("ExcludeForkedRepos = true, want false by default")
	}
	if cfg.ExcludePrivateRepos {
		t.Error("ExcludePrivateRepos = true, want false by default")
	}
	if cfg.SnapshotDatabase != "statsmith" {
		t.Errorf("SnapshotDatabase = %q, want %q", cfg.SnapshotDatabase, "statsmith")
	}
	if cfg.SnapshotCollection != "snapshots" {
		t.Errorf("SnapshotCollection = %q, want %q", cfg.SnapshotCollection, "snapshots")
	}
}

func TestLoadFromEnvironment(t *testing.T) {
	t.Setenv("ACCESS_TOKEN", "ghp_token")
	t.Setenv("GITHUB_ACTOR", "octocat")
	t.Setenv("EXCLUDED", "octocat/spoon-knife, octocat/hello-world ,")
	t.Setenv("EXCLUDED_LANGS", "HTML, tex")
	t.Setenv("EXCLUDE_FORKED_REPOS", "true")
	t.Setenv("EXCLUDE_PRIVATE_REPOS", "true")
	t.Setenv("RUN_TIMEOUT", "5m")
	t.Setenv("FETCH_CONCURRENCY", "4")
	t.Setenv("CACHE_TTL", "30m")

	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load() error: %v", err)
	}

	if cfg.AccessToken != "ghp_token" {
		t.Errorf("AccessToken = %q, want %q", cfg.AccessToken, "ghp_token")
	}
	if cfg.Actor != "octocat" {
		t.Errorf("Actor = %q, want %q", cfg.Actor, "octocat")
	}

	wantExcluded := []string{"octocat/spoon-knife", "octocat/hello-world"}
	if !reflect.DeepEqual(cfg.Excluded, wantExcluded) {
		t.Errorf("Excluded = %v, want %v", cfg.Excluded, wantExcluded)
	}

	wantLangs := []string{"HTML", "tex"}
	if !reflect.DeepEqual(cfg.ExcludedLangs, wantLangs) {
		t.Errorf("ExcludedLangs = %v, want %v", cfg.ExcludedLangs, wantLangs)
	}

	if !cfg.ExcludeForkedRepos {
		t.Error("ExcludeForkedRepos = false, want true")
	}
	if !cfg.ExcludePrivateRepos {
		t.Error("ExcludePrivateRepos = false, want true")
	}
	if cfg.RunTimeout != 5*time.Minute {
		t.Errorf("RunTimeout = %s, want 5m", cfg.RunTimeout)
	}
	if cfg.FetchConcurrency != 4 {
		t.Errorf("FetchConcurrency = %d, want 4", cfg.FetchConcurrency)
	}
	if cfg.CacheTTL != 30*time.Minute {
		t.Errorf("CacheTTL = %s, want 30m", cfg.CacheTTL)
	}
}

func TestLoadRejectsBadConfig(t *testing.T) {
	tests := []struct {
		name  string
		key   string
		value string
	}{
		{"malformed exclusion", "EXCLUDED", "not-a-repo"},
		{"traversal exclusion", "EXCLUDED", "a/../b"},
		{"bad actor", "GITHUB_ACTOR", "-bad-"},
		{"zero concurrency", "FETCH_CONCURRENCY", "0"},
		{"negative concurrency", "FETCH_CONCURRENCY", "-2"},
		{"zero timeout", "RUN_TIMEOUT", "0s"},
		{"negative cache ttl", "CACHE_TTL", "-1h"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Setenv(tt.key, tt.value)

			_, err := Load()
			if err == nil {
				t.Fatalf("Load() with %s=%q succeeded, want error", tt.key, tt.value)
			}
			if !errors.Is(err, errors.ErrCodeInvalidConfig) {
				t.Errorf("Load() error code = %v, want INVALID_CONFIG", errors.GetCode(err))
			}
		})
	}
}

func TestNormalizeList(t *testing.T) {
	tests := []struct {
		name  string
		input []string
		want  []string
	}{
		{"nil", nil, []string{}},
		{"trims spaces", []string{" a/b ", "c/d"}, []string{"a/b", "c/d"}},
		{"drops empties", []string{"a/b", "", "  "}, []string{"a/b"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := normalizeList(tt.input)
			if !reflect.DeepEqual(got, tt.want) {
				t.Errorf("normalizeList(%v) = %v, want %v", tt.input, got, tt.want)
			}
		})
	}
}
