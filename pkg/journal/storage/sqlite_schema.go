package storage

// SchemaVersion is the current database schema version.
const SchemaVersion = 1

// Schema contains the SQL statements to create the journal database schema.
//
// Timestamps are stored as unix nanoseconds so that artifact mtimes keep
// their sub-second precision and range filters stay plain integer
// comparisons.
const Schema = `
-- Reload journal table
CREATE TABLE IF NOT EXISTS reload_journal (
    id TEXT PRIMARY KEY,

    timestamp INTEGER NOT NULL,

    outcome TEXT NOT NULL,
    symbol TEXT NOT NULL,

    artifact_path TEXT NOT NULL,
    artifact_mtime INTEGER NOT NULL,

    generation INTEGER NOT NULL,
    duration_ns INTEGER NOT NULL,

    error TEXT
);

-- Schema version table
CREATE TABLE IF NOT EXISTS schema_version (
    version INTEGER PRIMARY KEY,
    applied_at TIMESTAMP NOT NULL
);

-- Indexes for common queries
CREATE INDEX IF NOT EXISTS idx_journal_timestamp ON reload_journal(timestamp);
CREATE INDEX IF NOT EXISTS idx_journal_outcome ON reload_journal(outcome);
`

// InsertSchemaVersion inserts the schema version into the schema_version table.
const InsertSchemaVersion = `
INSERT INTO schema_version (version, applied_at)
VALUES (?, datetime('now'))
ON CONFLICT(version) DO NOTHING;
`

// GetSchemaVersion retrieves the current schema version from the database.
const GetSchemaVersion = `
SELECT version FROM schema_version ORDER BY version DESC LIMIT 1;
`

// InsertRecord inserts one journal record.
const InsertRecord = `
INSERT INTO reload_journal (
    id, timestamp, outcome, symbol, artifact_path, artifact_mtime, generation, duration_ns, error
) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?);
`

// DeleteBefore removes records whose timestamp is at or before the cutoff.
const DeleteBefore = `
DELETE FROM reload_journal WHERE timestamp <= ?;
`
