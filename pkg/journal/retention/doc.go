// Package retention prunes old journal records.
//
// The Pruner enforces two independent policies: records older than MaxAge
// are deleted, and when the journal exceeds MaxRecords the oldest records
// are trimmed back to the cap. The Scheduler drives the pruner on a standard
// cron schedule; `hotreload journal prune` runs the same pruner once by hand.
package retention
