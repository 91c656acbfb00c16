package session

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"runtime"
	"testing"
)

func newTestStore(t *testing.T) *FileStore {
	t.Helper()
	store, err := NewFileStore(filepath.Join(t.TempDir(), "session.json"))
	if err != nil {
		t.Fatalf("NewFileStore() error: %v", err)
	}
	return store
}

func TestNew(t *testing.T) {
	sess := New("octocat", "gho_secret")
	if sess.Login != "octocat" {
		t.Errorf("Login = %q, want %q", sess.Login, "octocat")
	}
	if sess.Token != "gho_secret" {
		t.Errorf("Token = %q, want %q", sess.Token, "gho_secret")
	}
	if sess.CreatedAt.IsZero() {
		t.Error("CreatedAt should be set")
	}
}

func TestFileStoreRoundTrip(t *testing.T) {
	ctx := context.Background()
	store := newTestStore(t)

	want := New("octocat", "gho_secret")
	if err := store.Save(ctx, want); err != nil {
		t.Fatalf("Save() error: %v", err)
	}

	got, err := store.Load(ctx)
	if err != nil {
		t.Fatalf("Load() error: %v", err)
	}
	if got.Login != want.Login {
		t.Errorf("Login = %q, want %q", got.Login, want.Login)
	}
	if got.Token != want.Token {
		t.Errorf("Token = %q, want %q", got.Token, want.Token)
	}
	if !got.CreatedAt.Equal(want.CreatedAt) {
		t.Errorf("CreatedAt = %v, want %v", got.CreatedAt, want.CreatedAt)
	}
}

func TestFileStoreLoadMissing(t *testing.T) {
	store := newTestStore(t)

	_, err := store.Load(context.Background())
	if !errors.Is(err, ErrNotFound) {
		t.Errorf("Load() error = %v, want ErrNotFound", err)
	}
}

func TestFileStoreSaveIncomplete(t *testing.T) {
	ctx := context.Background()
	store := newTestStore(t)

	cases := []*Session{
		nil,
		{Login: "octocat"},
		{Token: "gho_secret"},
	}
	for _, sess := range cases {
		if err := store.Save(ctx, sess); err == nil {
			t.Errorf("Save(%+v) should fail", sess)
		}
	}
}

func TestFileStoreLoadIncomplete(t *testing.T) {
	store := newTestStore(t)

	if err := os.WriteFile(store.Path(), []byte(`{"login":"octocat"}`), 0o600); err != nil {
		t.Fatalf("write fixture: %v", err)
	}
	if _, err := store.Load(context.Background()); err == nil {
		t.Error("Load() should reject a session without a token")
	}
}

func TestFileStoreLoadCorrupt(t *testing.T) {
	store := newTestStore(t)

	if err := os.WriteFile(store.Path(), []byte("not json"), 0o600); err != nil {
		t.Fatalf("write fixture: %v", err)
	}
	if _, err := store.Load(context.Background()); err == nil {
		t.Error("Load() should fail on corrupt data")
	}
}

func TestFileStoreDelete(t *testing.T) {
	ctx := context.Background()
	store := newTestStore(t)

	if err := store.Save(ctx, New("octocat", "gho_secret")); err != nil {
		t.Fatalf("Save() error: %v", err)
	}
	if err := store.Delete(ctx); err != nil {
		t.Fatalf("Delete() error: %v", err)
	}
	if _, err := store.Load(ctx); !errors.Is(err, ErrNotFound) {
		t.Errorf("Load() after Delete error = %v, want ErrNotFound", err)
	}

	// Deleting an absent session is not an error.
	if err := store.Delete(ctx); err != nil {
		t.Errorf("Delete() on missing file error: %v", err)
	}
}

func TestFileStorePermissions(t *testing.T) {
	if runtime.GOOS == "windows" {
		t.Skip("file modes are not enforced on windows")
	}

	ctx := context.Background()
	store := newTestStore(t)

	if err := store.Save(ctx, New("octocat", "gho_secret")); err != nil {
		t.Fatalf("Save() error: %v", err)
	}
	info, err := os.Stat(store.Path())
	if err != nil {
		t.Fatalf("stat session file: %v", err)
	}
	if perm := info.Mode().Perm(); perm != 0o600 {
		t.Errorf("session file mode = %o, want 0600", perm)
	}
}

func TestNewFileStoreDefaultPath(t *testing.T) {
	store, err := NewFileStore("")
	if err != nil {
		t.Fatalf("NewFileStore() error: %v", err)
	}
	path := store.Path()
	if filepath.Base(path) != "session.json" {
		t.Errorf("Path() = %q, should end with session.json", path)
	}
	if filepath.Base(filepath.Dir(path)) != appDir {
		t.Errorf("Path() = %q, should live under %q", path, appDir)
	}
}
