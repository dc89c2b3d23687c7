package journal

import (
	"context"
	"time"
)

// Record is one journaled reload attempt. Records are immutable once written;
// the journal is an append-only audit trail of what the controller did and
// when.
type Record struct {
	// Identity
	ID string `json:"id"` // UUID v4, assigned at recording time

	// Timestamp is when the attempt finished
	Timestamp time.Time `json:"timestamp"`

	// Outcome is "loaded", "lock_skip", or "failed"
	Outcome string `json:"outcome"`

	// Symbol is the exported function the controller manages
	Symbol string `json:"symbol"`

	// ArtifactPath is the canonical artifact location
	ArtifactPath string `json:"artifact_path"`

	// ArtifactMtime is the artifact modification time that triggered the attempt
	ArtifactMtime time.Time `json:"artifact_mtime"`

	// Generation is the load generation after the attempt
	Generation uint64 `json:"generation"`

	// Duration is how long the attempt took
	Duration time.Duration `json:"duration"`

	// Error is the failure message for failed attempts, empty otherwise
	Error string `json:"error,omitempty"`
}

// QueryFilter defines filter parameters for querying journal records.
type QueryFilter struct {
	// Time range (inclusive bounds on Timestamp)
	Since *time.Time `json:"since,omitempty"`
	Until *time.Time `json:"until,omitempty"`

	// Filters
	Outcome string `json:"outcome,omitempty"` // "loaded", "lock_skip", "failed"
	Symbol  string `json:"symbol,omitempty"`

	// Pagination
	Limit  int `json:"limit,omitempty"`  // Max records to return (default 100)
	Offset int `json:"offset,omitempty"` // Skip N records

	// SortOrder orders results by timestamp: "asc" or "desc" (default "desc")
	SortOrder string `json:"sort_order,omitempty"`
}

// Storage defines the interface for journal storage backends.
// Implementations must be safe for concurrent use.
type Storage interface {
	// SaveRecord persists a journal record.
	// Returns an error if the record cannot be written.
	SaveRecord(ctx context.Context, record *Record) error

	// QueryRecords retrieves records matching the filter.
	// Returns an empty slice if no records match.
	QueryRecords(ctx context.Context, filter *QueryFilter) ([]*Record, error)

	// CountRecords returns the number of records matching the filter.
	CountRecords(ctx context.Context, filter *QueryFilter) (int64, error)

	// DeleteRecordsBefore removes records whose Timestamp is at or before
	// cutoff. Returns the number of records deleted.
	// Used for retention policy enforcement.
	DeleteRecordsBefore(ctx context.Context, cutoff time.Time) (int64, error)

	// Close releases any resources held by the storage backend.
	Close() error
}
