package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"

	"github.com/ayazhafiz/hotreload/pkg/config"
)

// Collector is the orchestrator for all Prometheus metrics in the hotreload
// daemon. It manages metric registration and provides a unified interface for
// recording reload and journal activity.
//
// The collector is fed from the controller's event hook and the poller's
// cycle hook; nothing inside pkg/reload knows about Prometheus.
type Collector struct {
	config   *config.MetricsConfig
	registry *prometheus.Registry

	// Reload metrics
	reloadMetrics *ReloadMetrics

	// Journal metrics
	journalMetrics *JournalMetrics
}

// NewCollector creates a new metrics collector with the specified configuration
// and Prometheus registry. If registry is nil, a fresh registry is created.
//
// Example:
//
//	cfg := &config.MetricsConfig{
//		Enabled:   true,
//		Namespace: "hotreload",
//	}
//	collector := metrics.NewCollector(cfg, nil)
func NewCollector(cfg *config.MetricsConfig, registry *prometheus.Registry) *Collector {
	if cfg == nil {
		cfg = &config.MetricsConfig{Enabled: true}
	}
	if registry == nil {
		registry = prometheus.NewRegistry()
	}
	if cfg.Namespace == "" {
		cfg.Namespace = config.DefaultMetricsNamespace
	}

	c := &Collector{
		config:   cfg,
		registry: registry,
	}

	// Initialize metric subsystems
	c.reloadMetrics = NewReloadMetrics(cfg, registry)
	c.journalMetrics = NewJournalMetrics(cfg, registry)

	return c
}

// RecordReload records one reload attempt.
//
// Parameters:
//   - result: attempt outcome ("loaded", "lock_skip", "failed")
//   - duration: how long the attempt took
//
// The duration is only observed for successful reloads; skips and failures
// would skew the latency histogram toward zero.
func (c *Collector) RecordReload(result string, duration time.Duration) {
	if !c.config.Enabled {
		return
	}

	c.reloadMetrics.RecordReload(result, duration)
}

// SetModule updates the gauges describing the currently loaded module.
//
// Parameters:
//   - generation: the controller's load generation
//   - loadedAt: the artifact mtime the loaded module corresponds to
func (c *Collector) SetModule(generation uint64, loadedAt time.Time) {
	if !c.config.Enabled {
		return
	}

	c.reloadMetrics.SetModule(generation, loadedAt)
}

// RecordPollCycle records one completed poll cycle.
//
// Parameters:
//   - result: cycle outcome ("ok", "error")
func (c *Collector) RecordPollCycle(result string) {
	if !c.config.Enabled {
		return
	}

	c.reloadMetrics.RecordPollCycle(result)
}

// RecordJournalRecord records a reload event handed to the journal.
//
// Parameters:
//   - outcome: the journaled attempt's outcome ("loaded", "lock_skip", "failed")
func (c *Collector) RecordJournalRecord(outcome string) {
	if !c.config.Enabled {
		return
	}

	c.journalMetrics.RecordRecord(outcome)
}

// RecordJournalDrop records a reload event the journal dropped because its
// queue was full.
func (c *Collector) RecordJournalDrop() {
	if !c.config.Enabled {
		return
	}

	c.journalMetrics.RecordDrop()
}

// RegisterJournalDepth registers a gauge that reports the journal recorder's
// current queue depth at scrape time. It must be called at most once per
// collector.
func (c *Collector) RegisterJournalDepth(depth func() int) {
	c.journalMetrics.RegisterQueueDepth(depth)
}

// Registry returns the Prometheus registry used by this collector.
// This can be used to create an HTTP handler for the /metrics endpoint:
//
//	http.Handle("/metrics", collector.Handler())
func (c *Collector) Registry() *prometheus.Registry {
	return c.registry
}
