package snapshot

import (
	"context"
	"testing"

	"github.com/statsmith/statsmith/pkg/stats"
)

func testMetrics() *stats.MetricSet {
	return &stats.MetricSet{
		Login:     "octocat",
		Stars:     42,
		Commits:   100,
		RepoCount: 3,
	}
}

func TestNew(t *testing.T) {
	snap := New("run-1", testMetrics())

	if snap.RunID != "run-1" {
		t.Errorf("RunID = %q, want %q", snap.RunID, "run-1")
	}
	if snap.Login != "octocat" {
		t.Errorf("Login = %q, want %q", snap.Login, "octocat")
	}
	if snap.TakenAt.IsZero() {
		t.Error("TakenAt should be set")
	}
	if err := snap.Validate(); err != nil {
		t.Errorf("Validate() error: %v", err)
	}
}

func TestValidate(t *testing.T) {
	cases := []struct {
		name string
		snap *Snapshot
	}{
		{"nil snapshot", nil},
		{"missing run id", &Snapshot{Login: "octocat", Metrics: testMetrics()}},
		{"missing metrics", &Snapshot{RunID: "run-1", Login: "octocat"}},
		{"missing login", &Snapshot{RunID: "run-1", Metrics: &stats.MetricSet{}}},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			if err := tc.snap.Validate(); err == nil {
				t.Error("Validate() should fail")
			}
		})
	}
}

func TestMemoryStoreSave(t *testing.T) {
	ctx := context.Background()
	store := NewMemoryStore()

	first := New("run-1", testMetrics())
	second := New("run-2", testMetrics())
	if err := store.Save(ctx, first); err != nil {
		t.Fatalf("Save() error: %v", err)
	}
	if err := store.Save(ctx, second); err != nil {
		t.Fatalf("Save() error: %v", err)
	}

	all := store.All()
	if len(all) != 2 {
		t.Fatalf("All() returned %d snapshots, want 2", len(all))
	}
	if all[0].RunID != "run-1" || all[1].RunID != "run-2" {
		t.Errorf("All() order = %q, %q; want run-1, run-2", all[0].RunID, all[1].RunID)
	}
}

func TestMemoryStoreRejectsInvalid(t *testing.T) {
	store := NewMemoryStore()

	if err := store.Save(context.Background(), &Snapshot{}); err == nil {
		t.Error("Save() should reject an invalid snapshot")
	}
	if len(store.All()) != 0 {
		t.Error("invalid snapshot must not be stored")
	}
}

func TestNewMongoStoreRequiresURI(t *testing.T) {
	_, err := NewMongoStore(context.Background(), MongoOptions{})
	if err == nil {
		t.Error("NewMongoStore() should fail without a URI")
	}
}
