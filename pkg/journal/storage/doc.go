// Package storage provides journal.Storage backends.
//
// SQLiteStorage is the durable backend: a single-file database via the
// pure-Go modernc.org/sqlite driver, in WAL mode so the journal CLI can read
// while the daemon writes. MemoryStorage is a map-backed implementation for
// tests and ephemeral runs.
//
// Both backends store one row per reload attempt and support the same
// filter, count, and cutoff-delete operations.
package storage
