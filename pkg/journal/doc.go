// Package journal keeps a persistent audit trail of reload attempts.
//
// Every event the controller emits becomes one Record: the outcome, the
// symbol, the artifact path and modification time, the resulting generation,
// the attempt duration, and the error for failed attempts. Records answer
// "what did the loader do, and when" long after the log lines have rotated
// away.
//
// The Recorder decouples journaling from reloading: events are enqueued on a
// buffered channel and written by a background worker, so a slow or wedged
// storage backend can never stall the poll loop. When the queue is full,
// records are dropped and the drop is reported to the caller.
//
// Storage backends live in the storage subpackage (SQLite for durable
// journals, an in-memory map for tests and ephemeral runs); the retention
// subpackage prunes old records on a cron schedule.
//
//	store, err := storage.NewSQLiteStorage(&storage.SQLiteConfig{Path: "data/journal.db"})
//	if err != nil {
//		return err
//	}
//	rec := journal.NewRecorder(store, nil)
//	defer rec.Close()
//
//	// from the controller's event hook:
//	if !rec.Record(ev) {
//		metrics.RecordJournalDrop()
//	}
package journal
