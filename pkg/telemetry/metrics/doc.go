// Package metrics provides Prometheus metrics for the hotreload daemon.
//
// The Collector owns a registry and two metric groups: ReloadMetrics for
// reload attempts, poll cycles, and the identity of the published module, and
// JournalMetrics for the audit journal's throughput and queue. The daemon
// feeds the collector from the controller's event hook and the poller's cycle
// hook; pkg/reload itself has no Prometheus dependency.
//
// All metrics share a configurable namespace (default "hotreload"):
//
//	hotreload_reloads_total{result="loaded|lock_skip|failed"}
//	hotreload_reload_duration_seconds
//	hotreload_module_generation
//	hotreload_module_loaded_timestamp_seconds
//	hotreload_poll_cycles_total{result="ok|error"}
//	hotreload_journal_records_total{outcome="..."}
//	hotreload_journal_dropped_total
//	hotreload_journal_queue_depth
package metrics
