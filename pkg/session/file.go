package session

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"sync"
)

// appDir is the directory under the user config dir holding the
// session file.
const appDir = "statsmith"

// FileStore keeps the session in a single JSON file. The file is
// written with mode 0600 since it contains a live access token.
type FileStore struct {
	mu   sync.Mutex
	path string
}

// NewFileStore creates a store at path. An empty path selects the
// default location under the user config directory
// (e.g. ~/.config/statsmith/session.json).
func NewFileStore(path string) (*FileStore, error) {
	if path == "" {
		base, err := os.UserConfigDir()
		if err != nil {
			return nil, fmt.Errorf("resolve config dir: %w", err)
		}
		path = filepath.Join(base, appDir, "session.json")
	}
	return &FileStore{path: path}, nil
}

// Load reads the saved session from disk.
func (s *FileStore) Load(ctx context.Context) (*Session, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	data, err := os.ReadFile(s.path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("read session: %w", err)
	}

	var sess Session
	if err := json.Unmarshal(data, &sess); err != nil {
		return nil, fmt.Errorf("parse session %s: %w", s.path, err)
	}
	if sess.Login == "" || sess.Token == "" {
		return nil, fmt.Errorf("session %s is incomplete", s.path)
	}
	return &sess, nil
}

// Save writes the session to disk, creating the directory when needed.
func (s *FileStore) Save(ctx context.Context, sess *Session) error {
	if sess == nil || sess.Login == "" || sess.Token == "" {
		return fmt.Errorf("refusing to save incomplete session")
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	if err := os.MkdirAll(filepath.Dir(s.path), 0o700); err != nil {
		return fmt.Errorf("create session dir: %w", err)
	}
	data, err := json.MarshalIndent(sess, "", "  ")
	if err != nil {
		return fmt.Errorf("marshal session: %w", err)
	}
	if err := os.WriteFile(s.path, data, 0o600); err != nil {
		return fmt.Errorf("write session: %w", err)
	}
	return nil
}

// Delete removes the session file.
func (s *FileStore) Delete(ctx context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if err := os.Remove(s.path); err != nil && !os.IsNotExist(err) {
		return fmt.Errorf("remove session: %w", err)
	}
	return nil
}

// Path returns the session file location.
func (s *FileStore) Path() string { return s.path }

var _ Store = (*FileStore)(nil)
