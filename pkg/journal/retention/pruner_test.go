package retention

import (
	"context"
	"testing"
	"time"

	"github.com/ayazhafiz/hotreload/pkg/journal"
	"github.com/ayazhafiz/hotreload/pkg/journal/storage"
)

// seedRecords stores records with the given ages relative to now.
func seedRecords(t *testing.T, store journal.Storage, ages ...time.Duration) {
	t.Helper()
	now := time.Now()

	for i, age := range ages {
		rec := &journal.Record{
			ID:            "rec-" + string(rune('a'+i)),
			Timestamp:     now.Add(-age),
			Outcome:       "loaded",
			Symbol:        "handle_request",
			ArtifactPath:  "/opt/plugins/handler.so",
			ArtifactMtime: now.Add(-age - time.Second),
			Generation:    uint64(i + 1),
		}
		if err := store.SaveRecord(context.Background(), rec); err != nil {
			t.Fatalf("SaveRecord() failed: %v", err)
		}
	}
}

// TestPruner_PruneByAge tests age-based pruning.
func TestPruner_PruneByAge(t *testing.T) {
	store := storage.NewMemoryStorage()
	seedRecords(t, store, 2*time.Hour, time.Hour, 5*time.Minute)

	pruner := NewPruner(store, &Config{MaxAge: 30 * time.Minute})

	deleted, err := pruner.Prune(context.Background())
	if err != nil {
		t.Fatalf("Prune() failed: %v", err)
	}
	if deleted != 2 {
		t.Errorf("expected 2 deleted, got %d", deleted)
	}

	count, _ := store.CountRecords(context.Background(), nil)
	if count != 1 {
		t.Errorf("expected 1 record to remain, got %d", count)
	}
}

// TestPruner_PruneByCount tests count-based pruning keeps the newest records.
func TestPruner_PruneByCount(t *testing.T) {
	store := storage.NewMemoryStorage()
	seedRecords(t, store, 50*time.Minute, 40*time.Minute, 30*time.Minute, 20*time.Minute, 10*time.Minute)

	pruner := NewPruner(store, &Config{MaxRecords: 2})

	deleted, err := pruner.Prune(context.Background())
	if err != nil {
		t.Fatalf("Prune() failed: %v", err)
	}
	if deleted != 3 {
		t.Errorf("expected 3 deleted, got %d", deleted)
	}

	records, err := store.QueryRecords(context.Background(), &journal.QueryFilter{SortOrder: "asc"})
	if err != nil {
		t.Fatalf("QueryRecords() failed: %v", err)
	}
	if len(records) != 2 {
		t.Fatalf("expected 2 records to remain, got %d", len(records))
	}
	// The two newest generations survive
	if records[0].Generation != 4 || records[1].Generation != 5 {
		t.Errorf("expected generations 4 and 5 to remain, got %d and %d",
			records[0].Generation, records[1].Generation)
	}
}

// TestPruner_PruneBoth tests combined age and count pruning.
func TestPruner_PruneBoth(t *testing.T) {
	store := storage.NewMemoryStorage()
	seedRecords(t, store, 2*time.Hour, 90*time.Minute, 20*time.Minute, 10*time.Minute, 5*time.Minute)

	pruner := NewPruner(store, &Config{
		MaxAge:     time.Hour,
		MaxRecords: 2,
	})

	deleted, err := pruner.Prune(context.Background())
	if err != nil {
		t.Fatalf("Prune() failed: %v", err)
	}
	// Age removes the two oldest, count trims one more
	if deleted != 3 {
		t.Errorf("expected 3 deleted, got %d", deleted)
	}

	count, _ := store.CountRecords(context.Background(), nil)
	if count != 2 {
		t.Errorf("expected 2 records to remain, got %d", count)
	}
}

// TestPruner_NoPolicies tests that zero values disable pruning.
func TestPruner_NoPolicies(t *testing.T) {
	store := storage.NewMemoryStorage()
	seedRecords(t, store, 24*time.Hour, time.Minute)

	pruner := NewPruner(store, &Config{})

	deleted, err := pruner.Prune(context.Background())
	if err != nil {
		t.Fatalf("Prune() failed: %v", err)
	}
	if deleted != 0 {
		t.Errorf("expected 0 deleted, got %d", deleted)
	}

	count, _ := store.CountRecords(context.Background(), nil)
	if count != 2 {
		t.Errorf("expected all records to remain, got %d", count)
	}
}

// TestPruner_EmptyStorage tests pruning an empty journal.
func TestPruner_EmptyStorage(t *testing.T) {
	pruner := NewPruner(storage.NewMemoryStorage(), &Config{
		MaxAge:     time.Hour,
		MaxRecords: 10,
	})

	deleted, err := pruner.Prune(context.Background())
	if err != nil {
		t.Fatalf("Prune() failed: %v", err)
	}
	if deleted != 0 {
		t.Errorf("expected 0 deleted, got %d", deleted)
	}
}

// TestDefaultConfig tests the default retention values.
func TestDefaultConfig(t *testing.T) {
	cfg := DefaultConfig()

	if cfg.MaxAge != 720*time.Hour {
		t.Errorf("expected max age 720h, got %v", cfg.MaxAge)
	}
	if cfg.MaxRecords != 0 {
		t.Errorf("expected no record cap, got %d", cfg.MaxRecords)
	}
	if cfg.Schedule != "0 3 * * *" {
		t.Errorf("expected schedule '0 3 * * *', got %q", cfg.Schedule)
	}
}
