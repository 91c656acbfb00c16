// Package snapshot persists finished metric sets so successive runs
// build a history that can be graphed or diffed later.
//
// Snapshots are strictly write-only from the generator's point of
// view: a run inserts one document and never reads any back. Storage
// failures must not fail the run, so callers surface [Store.Save]
// errors as warnings.
package snapshot

import (
	"context"
	"fmt"
	"time"

	"github.com/statsmith/statsmith/pkg/stats"
)

// Snapshot is one recorded run: the metric set plus enough identity to
// query the series by account and time.
type Snapshot struct {
	RunID   string           `json:"run_id" bson:"run_id"`
	Login   string           `json:"login" bson:"login"`
	TakenAt time.Time        `json:"taken_at" bson:"taken_at"`
	Metrics *stats.MetricSet `json:"metrics" bson:"metrics"`
}

// New builds a snapshot for the given run, stamped with the current
// time.
func New(runID string, metrics *stats.MetricSet) *Snapshot {
	login := ""
	if metrics != nil {
		login = metrics.Login
	}
	return &Snapshot{
		RunID:   runID,
		Login:   login,
		TakenAt: time.Now().UTC(),
		Metrics: metrics,
	}
}

// Validate reports whether the snapshot carries everything a stored
// document needs.
func (s *Snapshot) Validate() error {
	if s == nil {
		return fmt.Errorf("snapshot is nil")
	}
	if s.RunID == "" {
		return fmt.Errorf("snapshot has no run id")
	}
	if s.Metrics == nil {
		return fmt.Errorf("snapshot has no metrics")
	}
	if s.Login == "" {
		return fmt.Errorf("snapshot has no login")
	}
	return nil
}

// Store persists snapshots.
type Store interface {
	// Save inserts one snapshot.
	Save(ctx context.Context, snap *Snapshot) error

	// Close releases the underlying connection.
	Close(ctx context.Context) error
}
