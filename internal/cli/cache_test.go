package cli

import (
	"context"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/statsmith/statsmith/pkg/config"
)

func TestCacheDir(t *testing.T) {
	t.Setenv("XDG_CACHE_HOME", "")

	dir, err := cacheDir()
	if err != nil {
		t.Fatalf("cacheDir() error: %v", err)
	}

	if dir == "" {
		t.Error("cacheDir() returned empty string")
	}

	// Should be under home directory
	home, _ := os.UserHomeDir()
	if !strings.HasPrefix(dir, home) {
		t.Errorf("cacheDir() = %q, should be under home %q", dir, home)
	}

	// Should end with "statsmith"
	if !strings.HasSuffix(dir, "statsmith") {
		t.Errorf("cacheDir() = %q, should end with 'statsmith'", dir)
	}

	// Should contain ".cache" in path
	if !strings.Contains(dir, ".cache") {
		t.Errorf("cacheDir() = %q, should contain '.cache'", dir)
	}
}

func TestCacheDirStructure(t *testing.T) {
	t.Setenv("XDG_CACHE_HOME", "")

	dir, err := cacheDir()
	if err != nil {
		t.Fatalf("cacheDir() error: %v", err)
	}

	// Verify the expected structure: $HOME/.cache/statsmith
	home, _ := os.UserHomeDir()
	expected := filepath.Join(home, ".cache", "statsmith")
	if dir != expected {
		t.Errorf("cacheDir() = %q, want %q", dir, expected)
	}
}

func TestCacheDirXDGOverride(t *testing.T) {
	t.Setenv("XDG_CACHE_HOME", "/tmp/xdg-cache")

	dir, err := cacheDir()
	if err != nil {
		t.Fatalf("cacheDir() error: %v", err)
	}

	expected := filepath.Join("/tmp/xdg-cache", "statsmith")
	if dir != expected {
		t.Errorf("cacheDir() = %q, want %q", dir, expected)
	}
}

func TestNewCacheNoCache(t *testing.T) {
	ctx := context.Background()

	store, err := newCache(config.Config{}, true)
	if err != nil {
		t.Fatalf("newCache() error: %v", err)
	}
	defer store.Close()

	// A disabled cache never reports a hit.
	if err := store.Set(ctx, "key", []byte("data"), 0); err != nil {
		t.Fatalf("Set() error: %v", err)
	}
	if _, ok, _ := store.Get(ctx, "key"); ok {
		t.Error("disabled cache should not store entries")
	}
}

func TestNewCacheFileBackend(t *testing.T) {
	t.Setenv("XDG_CACHE_HOME", t.TempDir())
	ctx := context.Background()

	store, err := newCache(config.Config{}, false)
	if err != nil {
		t.Fatalf("newCache() error: %v", err)
	}
	defer store.Close()

	if err := store.Set(ctx, "key", []byte("data"), 0); err != nil {
		t.Fatalf("Set() error: %v", err)
	}
	data, ok, err := store.Get(ctx, "key")
	if err != nil || !ok {
		t.Fatalf("Get() = %v, %v; want hit", ok, err)
	}
	if string(data) != "data" {
		t.Errorf("Get() = %q, want %q", data, "data")
	}
}
