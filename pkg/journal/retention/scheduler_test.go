package retention

import (
	"context"
	"strings"
	"testing"
	"time"

	"github.com/ayazhafiz/hotreload/pkg/journal/storage"
)

// TestScheduler_EmptySchedule tests that an empty schedule is a no-op.
func TestScheduler_EmptySchedule(t *testing.T) {
	pruner := NewPruner(storage.NewMemoryStorage(), &Config{Schedule: ""})

	if err := pruner.Start(context.Background()); err != nil {
		t.Fatalf("Start() failed: %v", err)
	}
	defer pruner.Stop()

	if pruner.scheduler.IsRunning() {
		t.Error("scheduler should not run without a schedule")
	}
	if pruner.NextPruning() != nil {
		t.Error("expected no next pruning time")
	}
}

// TestScheduler_InvalidSchedule tests cron expression validation.
func TestScheduler_InvalidSchedule(t *testing.T) {
	pruner := NewPruner(storage.NewMemoryStorage(), &Config{Schedule: "not a cron"})

	err := pruner.Start(context.Background())
	if err == nil {
		t.Fatal("expected error for invalid schedule")
	}
	if !strings.Contains(err.Error(), "invalid cron schedule") {
		t.Errorf("unexpected error: %v", err)
	}
}

// TestScheduler_StartStop tests the scheduler lifecycle.
func TestScheduler_StartStop(t *testing.T) {
	pruner := NewPruner(storage.NewMemoryStorage(), &Config{
		MaxAge:   time.Hour,
		Schedule: "0 3 * * *",
	})

	if err := pruner.Start(context.Background()); err != nil {
		t.Fatalf("Start() failed: %v", err)
	}

	if !pruner.scheduler.IsRunning() {
		t.Error("expected scheduler to be running")
	}

	next := pruner.NextPruning()
	if next == nil {
		t.Fatal("expected a next pruning time")
	}
	if !next.After(time.Now()) {
		t.Errorf("next pruning %v should be in the future", next)
	}

	pruner.Stop()

	if pruner.scheduler.IsRunning() {
		t.Error("expected scheduler to be stopped")
	}
}

// TestScheduler_StopsOnContextCancel tests that cancelling the start context
// stops the scheduler.
func TestScheduler_StopsOnContextCancel(t *testing.T) {
	pruner := NewPruner(storage.NewMemoryStorage(), &Config{
		MaxAge:   time.Hour,
		Schedule: "0 3 * * *",
	})

	ctx, cancel := context.WithCancel(context.Background())
	if err := pruner.Start(ctx); err != nil {
		t.Fatalf("Start() failed: %v", err)
	}

	cancel()

	deadline := time.Now().Add(2 * time.Second)
	for pruner.scheduler.IsRunning() {
		if time.Now().After(deadline) {
			t.Fatal("scheduler still running after context cancel")
		}
		time.Sleep(10 * time.Millisecond)
	}
}
