package storage

import (
	"context"
	"database/sql"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"time"

	_ "modernc.org/sqlite" // SQLite driver

	"github.com/ayazhafiz/hotreload/pkg/journal"
)

// SQLiteConfig contains configuration for the SQLite storage backend.
type SQLiteConfig struct {
	// Path is the database file path. Parent directories are created as
	// needed.
	Path string

	// BusyTimeout is the duration to wait when the database is locked,
	// e.g. while the journal CLI reads the same file.
	// Default: 5 seconds
	BusyTimeout time.Duration
}

// DefaultSQLiteConfig returns the default SQLite configuration.
func DefaultSQLiteConfig() *SQLiteConfig {
	return &SQLiteConfig{
		Path:        "data/journal.db",
		BusyTimeout: 5 * time.Second,
	}
}

// SQLiteStorage implements the journal.Storage interface using SQLite via
// the pure-Go modernc.org/sqlite driver, keeping the module CGO-free.
//
// The database always runs in WAL mode so the journal CLI can read while the
// daemon writes.
type SQLiteStorage struct {
	db        *sql.DB
	config    *SQLiteConfig
	logger    *slog.Logger
	closeOnce sync.Once
	closeErr  error

	// prepared statements for the fixed-shape hot paths
	saveStmt         *sql.Stmt
	deleteBeforeStmt *sql.Stmt
}

// NewSQLiteStorage creates a new SQLite storage backend.
// It initializes the database schema and enables WAL mode.
func NewSQLiteStorage(config *SQLiteConfig) (*SQLiteStorage, error) {
	if config == nil {
		config = DefaultSQLiteConfig()
	}
	if config.Path == "" {
		return nil, journal.NewStorageError("sqlite", "open", fmt.Errorf("db path cannot be empty"))
	}
	if config.BusyTimeout <= 0 {
		config.BusyTimeout = DefaultSQLiteConfig().BusyTimeout
	}

	logger := slog.Default().With("component", "journal.storage.sqlite")

	if dir := filepath.Dir(config.Path); dir != "" && dir != "." {
		if err := os.MkdirAll(dir, 0755); err != nil {
			return nil, journal.NewStorageError("sqlite", "mkdir", err)
		}
	}

	db, err := sql.Open("sqlite", config.Path)
	if err != nil {
		return nil, journal.NewStorageError("sqlite", "open", err)
	}

	// SQLite supports a single writer; one pooled connection also keeps the
	// session pragmas below applying to every statement.
	db.SetMaxOpenConns(1)
	db.SetMaxIdleConns(1)
	db.SetConnMaxLifetime(0)

	s := &SQLiteStorage{
		db:     db,
		config: config,
		logger: logger,
	}

	if err := s.initialize(); err != nil {
		db.Close()
		return nil, err
	}

	if err := s.prepareStatements(); err != nil {
		db.Close()
		return nil, err
	}

	logger.Info("SQLite journal storage initialized",
		"path", config.Path,
		"busy_timeout", config.BusyTimeout,
	)

	return s, nil
}

// initialize sets up the database schema and enables WAL mode.
func (s *SQLiteStorage) initialize() error {
	if _, err := s.db.Exec("PRAGMA journal_mode=WAL;"); err != nil {
		return journal.NewStorageError("sqlite", "enable_wal", err)
	}

	busyTimeoutMs := s.config.BusyTimeout.Milliseconds()
	if _, err := s.db.Exec(fmt.Sprintf("PRAGMA busy_timeout=%d;", busyTimeoutMs)); err != nil {
		return journal.NewStorageError("sqlite", "set_busy_timeout", err)
	}

	if _, err := s.db.Exec(Schema); err != nil {
		return journal.NewStorageError("sqlite", "create_schema", err)
	}

	if _, err := s.db.Exec(InsertSchemaVersion, SchemaVersion); err != nil {
		return journal.NewStorageError("sqlite", "insert_schema_version", err)
	}

	var version int
	err := s.db.QueryRow(GetSchemaVersion).Scan(&version)
	if err != nil && err != sql.ErrNoRows {
		return journal.NewStorageError("sqlite", "get_schema_version", err)
	}

	if version != SchemaVersion {
		return journal.NewStorageError("sqlite", "schema_version_mismatch",
			fmt.Errorf("expected schema version %d, got %d", SchemaVersion, version))
	}

	return nil
}

// prepareStatements prepares the fixed-shape statements for reuse.
func (s *SQLiteStorage) prepareStatements() error {
	var err error

	s.saveStmt, err = s.db.Prepare(InsertRecord)
	if err != nil {
		return journal.NewStorageError("sqlite", "prepare_save", err)
	}

	s.deleteBeforeStmt, err = s.db.Prepare(DeleteBefore)
	if err != nil {
		return journal.NewStorageError("sqlite", "prepare_delete", err)
	}

	return nil
}

// SaveRecord persists a journal record to the database.
func (s *SQLiteStorage) SaveRecord(ctx context.Context, record *journal.Record) error {
	// Empty error becomes NULL so the success/failure split stays queryable
	var errorVal interface{}
	if record.Error != "" {
		errorVal = record.Error
	}

	_, err := s.saveStmt.ExecContext(ctx,
		record.ID,
		record.Timestamp.UnixNano(),
		record.Outcome,
		record.Symbol,
		record.ArtifactPath,
		record.ArtifactMtime.UnixNano(),
		int64(record.Generation),
		int64(record.Duration),
		errorVal,
	)
	if err != nil {
		return journal.NewStorageError("sqlite", "save", err)
	}

	return nil
}

// QueryRecords retrieves journal records matching the filter.
func (s *SQLiteStorage) QueryRecords(ctx context.Context, filter *journal.QueryFilter) ([]*journal.Record, error) {
	if filter == nil {
		filter = &journal.QueryFilter{}
	}

	whereClause, args := buildWhereClause(filter)

	sqlQuery := "SELECT id, timestamp, outcome, symbol, artifact_path, artifact_mtime, generation, duration_ns, error FROM reload_journal"
	if whereClause != "" {
		sqlQuery += " WHERE " + whereClause
	}

	// Sort order is whitelisted, never interpolated from input
	order := "DESC"
	if filter.SortOrder == "asc" {
		order = "ASC"
	}
	sqlQuery += " ORDER BY timestamp " + order

	limit := 100
	if filter.Limit > 0 {
		limit = filter.Limit
	}
	sqlQuery += fmt.Sprintf(" LIMIT %d", limit)

	if filter.Offset > 0 {
		sqlQuery += fmt.Sprintf(" OFFSET %d", filter.Offset)
	}

	rows, err := s.db.QueryContext(ctx, sqlQuery, args...)
	if err != nil {
		return nil, journal.NewStorageError("sqlite", "query", err)
	}
	defer rows.Close()

	records := []*journal.Record{}
	for rows.Next() {
		record, err := scanRow(rows)
		if err != nil {
			return nil, journal.NewStorageError("sqlite", "scan", err)
		}
		records = append(records, record)
	}

	if err := rows.Err(); err != nil {
		return nil, journal.NewStorageError("sqlite", "query", err)
	}

	return records, nil
}

// CountRecords returns the number of journal records matching the filter.
func (s *SQLiteStorage) CountRecords(ctx context.Context, filter *journal.QueryFilter) (int64, error) {
	if filter == nil {
		filter = &journal.QueryFilter{}
	}

	whereClause, args := buildWhereClause(filter)

	sqlQuery := "SELECT COUNT(*) FROM reload_journal"
	if whereClause != "" {
		sqlQuery += " WHERE " + whereClause
	}

	var count int64
	if err := s.db.QueryRowContext(ctx, sqlQuery, args...).Scan(&count); err != nil {
		return 0, journal.NewStorageError("sqlite", "count", err)
	}

	return count, nil
}

// DeleteRecordsBefore removes records whose timestamp is at or before cutoff.
// Returns the number of records deleted.
func (s *SQLiteStorage) DeleteRecordsBefore(ctx context.Context, cutoff time.Time) (int64, error) {
	result, err := s.deleteBeforeStmt.ExecContext(ctx, cutoff.UnixNano())
	if err != nil {
		return 0, journal.NewStorageError("sqlite", "delete", err)
	}

	count, err := result.RowsAffected()
	if err != nil {
		return 0, journal.NewStorageError("sqlite", "delete", err)
	}

	return count, nil
}

// Close releases resources held by the storage backend. Safe to call more
// than once.
func (s *SQLiteStorage) Close() error {
	s.closeOnce.Do(func() {
		if s.saveStmt != nil {
			s.saveStmt.Close()
		}
		if s.deleteBeforeStmt != nil {
			s.deleteBeforeStmt.Close()
		}

		if err := s.db.Close(); err != nil {
			s.closeErr = journal.NewStorageError("sqlite", "close", err)
			return
		}

		s.logger.Info("SQLite journal storage closed")
	})
	return s.closeErr
}

// buildWhereClause builds a SQL WHERE clause from query filters.
// Returns the WHERE clause (without the "WHERE" keyword) and the arguments.
func buildWhereClause(filter *journal.QueryFilter) (string, []interface{}) {
	var conditions []string
	var args []interface{}

	if filter.Since != nil {
		conditions = append(conditions, "timestamp >= ?")
		args = append(args, filter.Since.UnixNano())
	}
	if filter.Until != nil {
		conditions = append(conditions, "timestamp <= ?")
		args = append(args, filter.Until.UnixNano())
	}

	if filter.Outcome != "" {
		conditions = append(conditions, "outcome = ?")
		args = append(args, filter.Outcome)
	}
	if filter.Symbol != "" {
		conditions = append(conditions, "symbol = ?")
		args = append(args, filter.Symbol)
	}

	return strings.Join(conditions, " AND "), args
}

// scanRow scans a database row into a journal record.
func scanRow(rows *sql.Rows) (*journal.Record, error) {
	var record journal.Record
	var timestamp, mtime, generation, durationNs int64
	var errorVal sql.NullString

	err := rows.Scan(
		&record.ID,
		&timestamp,
		&record.Outcome,
		&record.Symbol,
		&record.ArtifactPath,
		&mtime,
		&generation,
		&durationNs,
		&errorVal,
	)
	if err != nil {
		return nil, err
	}

	record.Timestamp = time.Unix(0, timestamp)
	record.ArtifactMtime = time.Unix(0, mtime)
	record.Generation = uint64(generation)
	record.Duration = time.Duration(durationNs)
	if errorVal.Valid {
		record.Error = errorVal.String
	}

	return &record, nil
}
