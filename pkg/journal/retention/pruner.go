package retention

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/ayazhafiz/hotreload/pkg/journal"
)

// Config contains configuration for the retention pruner.
type Config struct {
	// MaxAge is how long records are kept.
	// Zero disables age-based pruning.
	MaxAge time.Duration

	// MaxRecords is the maximum number of records to keep; the oldest
	// records beyond the cap are removed.
	// Zero means no cap.
	MaxRecords int64

	// Schedule is a cron expression for automatic pruning.
	// Example: "0 3 * * *" (daily at 3 AM). Empty disables the scheduler.
	Schedule string
}

// DefaultConfig returns the default retention configuration.
func DefaultConfig() *Config {
	return &Config{
		MaxAge:     720 * time.Hour, // 30 days
		MaxRecords: 0,
		Schedule:   "0 3 * * *",
	}
}

// Pruner enforces retention policies on journal records.
type Pruner struct {
	storage   journal.Storage
	config    *Config
	logger    *slog.Logger
	scheduler *Scheduler
}

// NewPruner creates a new retention pruner.
func NewPruner(storage journal.Storage, config *Config) *Pruner {
	if config == nil {
		config = DefaultConfig()
	}

	pruner := &Pruner{
		storage: storage,
		config:  config,
		logger:  slog.Default().With("component", "journal.retention"),
	}

	pruner.scheduler = NewScheduler(pruner)

	return pruner
}

// Prune deletes journal records older than the retention period or exceeding
// the record cap.
//
// Pruning happens in two phases:
//  1. Age-based: delete records older than MaxAge
//  2. Count-based: if total records > MaxRecords, delete the oldest
//
// Both can run together. Returns the total number of records deleted.
func (p *Pruner) Prune(ctx context.Context) (int64, error) {
	var totalDeleted int64

	if p.config.MaxAge > 0 {
		deleted, err := p.pruneByAge(ctx)
		if err != nil {
			return totalDeleted, fmt.Errorf("prune by age failed: %w", err)
		}
		totalDeleted += deleted
	}

	if p.config.MaxRecords > 0 {
		deleted, err := p.pruneByCount(ctx)
		if err != nil {
			return totalDeleted, fmt.Errorf("prune by count failed: %w", err)
		}
		totalDeleted += deleted
	}

	if totalDeleted == 0 {
		p.logger.Debug("no records pruned",
			"max_age", p.config.MaxAge,
			"max_records", p.config.MaxRecords,
		)
	} else {
		p.logger.Info("journal pruning completed",
			"total_deleted", totalDeleted,
			"max_age", p.config.MaxAge,
			"max_records", p.config.MaxRecords,
		)
	}

	return totalDeleted, nil
}

// pruneByAge deletes records older than the retention period.
func (p *Pruner) pruneByAge(ctx context.Context) (int64, error) {
	cutoff := time.Now().Add(-p.config.MaxAge)

	deleted, err := p.storage.DeleteRecordsBefore(ctx, cutoff)
	if err != nil {
		return 0, journal.NewRetentionError(p.config.MaxAge, err)
	}

	if deleted > 0 {
		p.logger.Info("pruned records by age",
			"deleted_count", deleted,
			"cutoff_time", cutoff,
		)
	}

	return deleted, nil
}

// pruneByCount deletes the oldest records when the total exceeds MaxRecords.
//
// The cutoff is the timestamp of the newest record slated for deletion, so
// records sharing that exact timestamp are all removed and the journal may
// briefly undershoot the cap.
func (p *Pruner) pruneByCount(ctx context.Context) (int64, error) {
	count, err := p.storage.CountRecords(ctx, nil)
	if err != nil {
		return 0, fmt.Errorf("failed to count records: %w", err)
	}

	if count <= p.config.MaxRecords {
		return 0, nil
	}

	toDelete := count - p.config.MaxRecords

	oldest, err := p.storage.QueryRecords(ctx, &journal.QueryFilter{
		SortOrder: "asc",
		Limit:     int(toDelete),
	})
	if err != nil {
		return 0, fmt.Errorf("failed to query oldest records: %w", err)
	}

	if len(oldest) == 0 {
		return 0, nil
	}

	cutoff := oldest[len(oldest)-1].Timestamp

	deleted, err := p.storage.DeleteRecordsBefore(ctx, cutoff)
	if err != nil {
		return 0, fmt.Errorf("delete failed: %w", err)
	}

	p.logger.Info("pruned records by count",
		"deleted_count", deleted,
		"previous_count", count,
		"max_records", p.config.MaxRecords,
	)

	return deleted, nil
}

// Start starts the automatic pruning scheduler.
// Call this when starting the daemon.
func (p *Pruner) Start(ctx context.Context) error {
	return p.scheduler.Start(ctx)
}

// Stop stops the automatic pruning scheduler.
// Call this during graceful shutdown.
func (p *Pruner) Stop() {
	p.scheduler.Stop()
}

// NextPruning returns the time of the next scheduled pruning, or nil when
// the scheduler is not running.
func (p *Pruner) NextPruning() *time.Time {
	return p.scheduler.NextRun()
}
