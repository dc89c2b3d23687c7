package storage

import (
	"context"
	"sort"
	"sync"
	"time"

	"github.com/ayazhafiz/hotreload/pkg/journal"
)

// MemoryStorage implements the journal.Storage interface using an in-memory
// map. Records do not survive a restart; it backs tests and the
// `backend: memory` configuration for ephemeral runs.
type MemoryStorage struct {
	records map[string]*journal.Record
	mu      sync.RWMutex
}

// NewMemoryStorage creates a new in-memory storage backend.
func NewMemoryStorage() *MemoryStorage {
	return &MemoryStorage{
		records: make(map[string]*journal.Record),
	}
}

// SaveRecord persists a journal record to memory.
func (s *MemoryStorage) SaveRecord(ctx context.Context, record *journal.Record) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	// Copy so later caller mutations don't reach into storage
	recordCopy := *record
	s.records[record.ID] = &recordCopy

	return nil
}

// QueryRecords retrieves journal records matching the filter.
func (s *MemoryStorage) QueryRecords(ctx context.Context, filter *journal.QueryFilter) ([]*journal.Record, error) {
	if filter == nil {
		filter = &journal.QueryFilter{}
	}

	s.mu.RLock()
	var results []*journal.Record
	for _, record := range s.records {
		if matchesFilter(record, filter) {
			recordCopy := *record
			results = append(results, &recordCopy)
		}
	}
	s.mu.RUnlock()

	// Sort by timestamp, newest first unless ascending was asked for
	asc := filter.SortOrder == "asc"
	sort.Slice(results, func(i, j int) bool {
		if asc {
			return results[i].Timestamp.Before(results[j].Timestamp)
		}
		return results[i].Timestamp.After(results[j].Timestamp)
	})

	// Apply pagination
	start := filter.Offset
	if start > len(results) {
		return []*journal.Record{}, nil
	}

	limit := 100
	if filter.Limit > 0 {
		limit = filter.Limit
	}
	end := start + limit
	if end > len(results) {
		end = len(results)
	}

	out := results[start:end]
	if out == nil {
		out = []*journal.Record{}
	}
	return out, nil
}

// CountRecords returns the number of journal records matching the filter.
func (s *MemoryStorage) CountRecords(ctx context.Context, filter *journal.QueryFilter) (int64, error) {
	if filter == nil {
		filter = &journal.QueryFilter{}
	}

	s.mu.RLock()
	defer s.mu.RUnlock()

	var count int64
	for _, record := range s.records {
		if matchesFilter(record, filter) {
			count++
		}
	}

	return count, nil
}

// DeleteRecordsBefore removes records whose timestamp is at or before cutoff.
// Returns the number of records deleted.
func (s *MemoryStorage) DeleteRecordsBefore(ctx context.Context, cutoff time.Time) (int64, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	var deleted int64
	for id, record := range s.records {
		if !record.Timestamp.After(cutoff) {
			delete(s.records, id)
			deleted++
		}
	}

	return deleted, nil
}

// Close releases resources held by the storage backend.
func (s *MemoryStorage) Close() error {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.records = make(map[string]*journal.Record)
	return nil
}

// Size returns the number of records in storage (for testing).
func (s *MemoryStorage) Size() int {
	s.mu.RLock()
	defer s.mu.RUnlock()

	return len(s.records)
}

// matchesFilter checks if a record matches the query filters.
func matchesFilter(record *journal.Record, filter *journal.QueryFilter) bool {
	if filter.Since != nil && record.Timestamp.Before(*filter.Since) {
		return false
	}
	if filter.Until != nil && record.Timestamp.After(*filter.Until) {
		return false
	}

	if filter.Outcome != "" && record.Outcome != filter.Outcome {
		return false
	}
	if filter.Symbol != "" && record.Symbol != filter.Symbol {
		return false
	}

	return true
}
