package main

import (
	"context"
	"encoding/json"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/ayazhafiz/hotreload/pkg/journal"
	"github.com/ayazhafiz/hotreload/pkg/journal/storage"
)

// writeJournalConfig writes a minimal config pointing the journal at a sqlite
// database under dir, and returns the config and database paths.
func writeJournalConfig(t *testing.T, dir string) (configPath, dbPath string) {
	t.Helper()

	dbPath = filepath.Join(dir, "journal.db")
	configPath = filepath.Join(dir, "config.yaml")
	content := `
controller:
  artifact_path: "/opt/plugins/handler.so"
  symbol: "handle_request"

journal:
  enabled: true
  backend: "sqlite"
  path: "` + dbPath + `"
  retention:
    max_age: 1h
`
	if err := os.WriteFile(configPath, []byte(content), 0644); err != nil {
		t.Fatalf("failed to write config file: %v", err)
	}
	return configPath, dbPath
}

func seedJournal(t *testing.T, dbPath string, records ...*journal.Record) {
	t.Helper()

	store, err := storage.NewSQLiteStorage(&storage.SQLiteConfig{Path: dbPath})
	if err != nil {
		t.Fatalf("failed to open journal storage: %v", err)
	}
	defer store.Close()

	for _, rec := range records {
		if err := store.SaveRecord(context.Background(), rec); err != nil {
			t.Fatalf("failed to seed record %s: %v", rec.ID, err)
		}
	}
}

func journalRecord(id, outcome string, age time.Duration) *journal.Record {
	now := time.Now()
	return &journal.Record{
		ID:            id,
		Timestamp:     now.Add(-age),
		Outcome:       outcome,
		Symbol:        "handle_request",
		ArtifactPath:  "/opt/plugins/handler.so",
		ArtifactMtime: now.Add(-age - time.Minute),
		Generation:    1,
		Duration:      2 * time.Millisecond,
	}
}

// withJournalConfig points the global config flag at path for the duration of
// the test and resets the journal flags afterwards.
func withJournalConfig(t *testing.T, path string) {
	t.Helper()

	origCfg := cfgFile
	cfgFile = path
	t.Cleanup(func() {
		cfgFile = origCfg
		journalFlags.backend = ""
		journalFlags.limit = 100
		journalFlags.offset = 0
		journalFlags.outcome = ""
		journalFlags.symbol = ""
		journalFlags.since = ""
		journalFlags.format = "text"
		journalFlags.output = ""
	})
}

func TestListJournal_Text(t *testing.T) {
	dir := t.TempDir()
	configPath, dbPath := writeJournalConfig(t, dir)
	seedJournal(t, dbPath,
		journalRecord("rec-1", "loaded", time.Hour),
		journalRecord("rec-2", "failed", time.Minute),
	)
	withJournalConfig(t, configPath)

	outPath := filepath.Join(dir, "out.txt")
	journalFlags.output = outPath

	if err := listJournal(nil, nil); err != nil {
		t.Fatalf("listJournal failed: %v", err)
	}

	data, err := os.ReadFile(outPath)
	if err != nil {
		t.Fatalf("failed to read output file: %v", err)
	}
	out := string(data)

	if !strings.Contains(out, "Total records: 2") {
		t.Errorf("expected total of 2 records in output, got:\n%s", out)
	}
	if !strings.Contains(out, "Record ID: rec-2") {
		t.Errorf("expected rec-2 in output, got:\n%s", out)
	}
	if !strings.Contains(out, "Outcome: failed") {
		t.Errorf("expected failed outcome in output, got:\n%s", out)
	}
	// Newest first
	if strings.Index(out, "rec-2") > strings.Index(out, "rec-1") {
		t.Errorf("expected rec-2 before rec-1 in output, got:\n%s", out)
	}
}

func TestListJournal_JSON(t *testing.T) {
	dir := t.TempDir()
	configPath, dbPath := writeJournalConfig(t, dir)
	seedJournal(t, dbPath,
		journalRecord("rec-1", "loaded", time.Hour),
		journalRecord("rec-2", "lock_skip", time.Minute),
	)
	withJournalConfig(t, configPath)

	outPath := filepath.Join(dir, "out.json")
	journalFlags.format = "json"
	journalFlags.output = outPath

	if err := listJournal(nil, nil); err != nil {
		t.Fatalf("listJournal failed: %v", err)
	}

	data, err := os.ReadFile(outPath)
	if err != nil {
		t.Fatalf("failed to read output file: %v", err)
	}

	var result struct {
		TotalRecords int64             `json:"total_records"`
		Records      []*journal.Record `json:"records"`
	}
	if err := json.Unmarshal(data, &result); err != nil {
		t.Fatalf("failed to decode JSON output: %v", err)
	}

	if result.TotalRecords != 2 {
		t.Errorf("expected 2 total records, got %d", result.TotalRecords)
	}
	if len(result.Records) != 2 {
		t.Fatalf("expected 2 records, got %d", len(result.Records))
	}
	if result.Records[0].ID != "rec-2" {
		t.Errorf("expected newest record first, got %s", result.Records[0].ID)
	}
}

func TestListJournal_OutcomeFilter(t *testing.T) {
	dir := t.TempDir()
	configPath, dbPath := writeJournalConfig(t, dir)
	seedJournal(t, dbPath,
		journalRecord("rec-1", "loaded", 3*time.Minute),
		journalRecord("rec-2", "failed", 2*time.Minute),
		journalRecord("rec-3", "loaded", time.Minute),
	)
	withJournalConfig(t, configPath)

	outPath := filepath.Join(dir, "out.txt")
	journalFlags.outcome = "loaded"
	journalFlags.output = outPath

	if err := listJournal(nil, nil); err != nil {
		t.Fatalf("listJournal failed: %v", err)
	}

	data, err := os.ReadFile(outPath)
	if err != nil {
		t.Fatalf("failed to read output file: %v", err)
	}
	out := string(data)

	if !strings.Contains(out, "Total records: 2") {
		t.Errorf("expected 2 loaded records, got:\n%s", out)
	}
	if strings.Contains(out, "rec-2") {
		t.Errorf("expected failed record to be filtered out, got:\n%s", out)
	}
}

func TestPruneJournal(t *testing.T) {
	dir := t.TempDir()
	configPath, dbPath := writeJournalConfig(t, dir)
	seedJournal(t, dbPath,
		journalRecord("rec-old-1", "loaded", 3*time.Hour),
		journalRecord("rec-old-2", "failed", 2*time.Hour),
		journalRecord("rec-new", "loaded", 5*time.Minute),
	)
	withJournalConfig(t, configPath)

	// Retention in the config is max_age: 1h
	if err := pruneJournal(nil, nil); err != nil {
		t.Fatalf("pruneJournal failed: %v", err)
	}

	store, err := storage.NewSQLiteStorage(&storage.SQLiteConfig{Path: dbPath})
	if err != nil {
		t.Fatalf("failed to reopen journal storage: %v", err)
	}
	defer store.Close()

	count, err := store.CountRecords(context.Background(), nil)
	if err != nil {
		t.Fatalf("failed to count records: %v", err)
	}
	if count != 1 {
		t.Errorf("expected 1 record to survive pruning, got %d", count)
	}
}

func TestParseSince(t *testing.T) {
	tests := []struct {
		name    string
		value   string
		wantErr bool
	}{
		{name: "duration", value: "30m"},
		{name: "rfc3339", value: "2026-08-01T00:00:00Z"},
		{name: "garbage", value: "yesterday", wantErr: true},
		{name: "empty", value: "", wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := parseSince(tt.value)
			if tt.wantErr {
				if err == nil {
					t.Fatalf("expected error for %q, got %v", tt.value, got)
				}
				return
			}
			if err != nil {
				t.Fatalf("parseSince(%q) failed: %v", tt.value, err)
			}

			switch tt.name {
			case "duration":
				want := time.Now().Add(-30 * time.Minute)
				if got.Before(want.Add(-time.Minute)) || got.After(want.Add(time.Minute)) {
					t.Errorf("expected ~%v, got %v", want, got)
				}
			case "rfc3339":
				want := time.Date(2026, 8, 1, 0, 0, 0, 0, time.UTC)
				if !got.Equal(want) {
					t.Errorf("expected %v, got %v", want, got)
				}
			}
		})
	}
}
