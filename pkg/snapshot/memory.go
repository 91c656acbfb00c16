package snapshot

import (
	"context"
	"sync"
)

// MemoryStore keeps snapshots in memory. It backs tests and dry runs
// where no MongoDB is reachable.
type MemoryStore struct {
	mu    sync.Mutex
	snaps []*Snapshot
}

// NewMemoryStore creates an empty in-memory store.
func NewMemoryStore() *MemoryStore {
	return &MemoryStore{}
}

// Save appends the snapshot.
func (s *MemoryStore) Save(ctx context.Context, snap *Snapshot) error {
	if err := snap.Validate(); err != nil {
		return err
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	s.snaps = append(s.snaps, snap)
	return nil
}

// Close is a no-op.
func (s *MemoryStore) Close(ctx context.Context) error { return nil }

// All returns the stored snapshots in insertion order.
func (s *MemoryStore) All() []*Snapshot {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]*Snapshot, len(s.snaps))
	copy(out, s.snaps)
	return out
}

var _ Store = (*MemoryStore)(nil)
