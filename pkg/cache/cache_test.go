package cache

import (
	"bytes"
	"context"
	"testing"
	"time"
)

func TestNullCache(t *testing.T) {
	ctx := context.Background()
	c := NewNullCache()
	defer c.Close()

	// Get always returns miss
	data, hit, err := c.Get(ctx, "key")
	if err != nil {
		t.Fatalf("Get error: %v", err)
	}
	if hit {
		t.Error("NullCache.Get should always return miss")
	}
	if data != nil {
		t.Error("NullCache.Get should return nil data")
	}

	// Set does nothing (no error)
	if err := c.Set(ctx, "key", []byte("value"), time.Hour); err != nil {
		t.Errorf("Set error: %v", err)
	}

	// Still a miss after Set
	_, hit, _ = c.Get(ctx, "key")
	if hit {
		t.Error("NullCache should not store data")
	}

	// Delete does nothing (no error)
	if err := c.Delete(ctx, "key"); err != nil {
		t.Errorf("Delete error: %v", err)
	}

	// Clear does nothing (no error)
	if err := c.Clear(ctx); err != nil {
		t.Errorf("Clear error: %v", err)
	}
}

func TestFileCache(t *testing.T) {
	ctx := context.Background()

	newCache := func(t *testing.T) Cache {
		t.Helper()
		c, err := NewFileCache(t.TempDir())
		if err != nil {
			t.Fatalf("NewFileCache error: %v", err)
		}
		return c
	}

	t.Run("set and get", func(t *testing.T) {
		c := newCache(t)
		defer c.Close()

		if err := c.Set(ctx, "key", []byte("value"), time.Hour); err != nil {
			t.Fatalf("Set error: %v", err)
		}

		data, hit, err := c.Get(ctx, "key")
		if err != nil {
			t.Fatalf("Get error: %v", err)
		}
		if !hit {
			t.Fatal("Get should hit after Set")
		}
		if !bytes.Equal(data, []byte("value")) {
			t.Errorf("Get = %q, want %q", data, "value")
		}
	})

	t.Run("miss on absent key", func(t *testing.T) {
		c := newCache(t)
		defer c.Close()

		_, hit, err := c.Get(ctx, "nonexistent")
		if err != nil {
			t.Fatalf("Get error: %v", err)
		}
		if hit {
			t.Error("Get should miss for absent key")
		}
	})

	t.Run("expired entry is a miss", func(t *testing.T) {
		c := newCache(t)
		defer c.Close()

		if err := c.Set(ctx, "key", []byte("value"), time.Millisecond); err != nil {
			t.Fatalf("Set error: %v", err)
		}
		time.Sleep(10 * time.Millisecond)

		_, hit, err := c.Get(ctx, "key")
		if err != nil {
			t.Fatalf("Get error: %v", err)
		}
		if hit {
			t.Error("Get should miss after TTL expires")
		}
	})

	t.Run("zero ttl never expires", func(t *testing.T) {
		c := newCache(t)
		defer c.Close()

		if err := c.Set(ctx, "key", []byte("value"), 0); err != nil {
			t.Fatalf("Set error: %v", err)
		}

		_, hit, err := c.Get(ctx, "key")
		if err != nil {
			t.Fatalf("Get error: %v", err)
		}
		if !hit {
			t.Error("Get should hit for zero-TTL entry")
		}
	})

	t.Run("delete", func(t *testing.T) {
		c := newCache(t)
		defer c.Close()

		if err := c.Set(ctx, "key", []byte("value"), time.Hour); err != nil {
			t.Fatalf("Set error: %v", err)
		}
		if err := c.Delete(ctx, "key"); err != nil {
			t.Fatalf("Delete error: %v", err)
		}

		_, hit, _ := c.Get(ctx, "key")
		if hit {
			t.Error("Get should miss after Delete")
		}

		// Deleting an absent key is not an error
		if err := c.Delete(ctx, "key"); err != nil {
			t.Errorf("Delete of absent key error: %v", err)
		}
	})

	t.Run("clear removes everything", func(t *testing.T) {
		c := newCache(t)
		defer c.Close()

		for _, key := range []string{"a", "b", "c"} {
			if err := c.Set(ctx, key, []byte(key), time.Hour); err != nil {
				t.Fatalf("Set error: %v", err)
			}
		}
		if err := c.Clear(ctx); err != nil {
			t.Fatalf("Clear error: %v", err)
		}
		for _, key := range []string{"a", "b", "c"} {
			if _, hit, _ := c.Get(ctx, key); hit {
				t.Errorf("Get(%q) should miss after Clear", key)
			}
		}

		// Cache remains usable after Clear
		if err := c.Set(ctx, "d", []byte("d"), time.Hour); err != nil {
			t.Errorf("Set after Clear error: %v", err)
		}
	})
}

func TestHash(t *testing.T) {
	// Test determinism
	h1 := Hash([]byte("hello"))
	h2 := Hash([]byte("hello"))
	if h1 != h2 {
		t.Error("Hash should be deterministic")
	}

	// Test different inputs produce different hashes
	h3 := Hash([]byte("world"))
	if h1 == h3 {
		t.Error("Different inputs should produce different hashes")
	}

	// Test hash length (SHA-256 produces 64 hex chars)
	if len(h1) != 64 {
		t.Errorf("Hash length should be 64, got %d", len(h1))
	}
}

func TestDefaultKeyer(t *testing.T) {
	k := NewDefaultKeyer()

	// StatsKey is a readable composite
	statsKey := k.StatsKey("octocat", "hello-world")
	if statsKey != "stats:octocat/hello-world" {
		t.Errorf("StatsKey unexpected: %s", statsKey)
	}

	// QueryKey should include variables in hash
	qk1 := k.QueryKey("repos", map[string]any{"after": "cursor1"})
	qk2 := k.QueryKey("repos", map[string]any{"after": "cursor2"})
	if qk1 == qk2 {
		t.Error("Different variables should produce different keys")
	}

	// Same inputs produce the same key
	qk3 := k.QueryKey("repos", map[string]any{"after": "cursor1"})
	if qk1 != qk3 {
		t.Error("QueryKey should be deterministic")
	}

	// Different operations produce different keys
	qk4 := k.QueryKey("viewer", map[string]any{"after": "cursor1"})
	if qk1 == qk4 {
		t.Error("Different operations should produce different keys")
	}
}

func TestScopedKeyer(t *testing.T) {
	inner := NewDefaultKeyer()
	scoped := NewScopedKeyer(inner, "login:octocat:")

	// All keys should be prefixed
	statsKey := scoped.StatsKey("octocat", "spoon-knife")
	if statsKey != "login:octocat:stats:octocat/spoon-knife" {
		t.Errorf("ScopedKeyer StatsKey unexpected: %s", statsKey)
	}

	queryKey := scoped.QueryKey("viewer", nil)
	if len(queryKey) < 14 || queryKey[:14] != "login:octocat:" {
		t.Errorf("ScopedKeyer QueryKey should be prefixed: %s", queryKey)
	}
}

func TestScopedKeyerNilInner(t *testing.T) {
	// Should use DefaultKeyer when inner is nil
	scoped := NewScopedKeyer(nil, "prefix:")
	key := scoped.StatsKey("a", "b")
	if key != "prefix:stats:a/b" {
		t.Errorf("Unexpected key with nil inner: %s", key)
	}
}
