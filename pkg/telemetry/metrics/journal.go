package metrics

import (
	"github.com/prometheus/client_golang/prometheus"

	"github.com/ayazhafiz/hotreload/pkg/config"
)

// JournalMetrics tracks metrics related to the reload journal.
//
// Metrics:
//   - hotreload_journal_records_total: Records handed to the journal by outcome
//   - hotreload_journal_dropped_total: Records dropped because the queue was full
//   - hotreload_journal_queue_depth: Current recorder queue depth (registered lazily)
type JournalMetrics struct {
	namespace string
	registry  *prometheus.Registry

	// Records handed to the journal recorder
	recordsTotal *prometheus.CounterVec

	// Records dropped by the recorder
	droppedTotal prometheus.Counter
}

// NewJournalMetrics creates and registers journal metrics with the provided registry.
func NewJournalMetrics(cfg *config.MetricsConfig, registry *prometheus.Registry) *JournalMetrics {
	jm := &JournalMetrics{
		namespace: cfg.Namespace,
		registry:  registry,

		recordsTotal: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: cfg.Namespace,
				Name:      "journal_records_total",
				Help:      "Total number of reload events handed to the journal by outcome",
			},
			[]string{"outcome"},
		),

		droppedTotal: prometheus.NewCounter(
			prometheus.CounterOpts{
				Namespace: cfg.Namespace,
				Name:      "journal_dropped_total",
				Help:      "Total number of reload events dropped because the journal queue was full",
			},
		),
	}

	// Register all metrics
	registry.MustRegister(
		jm.recordsTotal,
		jm.droppedTotal,
	)

	return jm
}

// RecordRecord records a reload event handed to the journal.
func (jm *JournalMetrics) RecordRecord(outcome string) {
	jm.recordsTotal.WithLabelValues(outcome).Inc()
}

// RecordDrop records a reload event dropped by the journal recorder.
func (jm *JournalMetrics) RecordDrop() {
	jm.droppedTotal.Inc()
}

// RegisterQueueDepth registers a gauge that reports the recorder's queue
// depth at scrape time. The depth function is called on every scrape, so it
// must be safe for concurrent use. Registering twice panics, like any
// duplicate Prometheus registration.
func (jm *JournalMetrics) RegisterQueueDepth(depth func() int) {
	jm.registry.MustRegister(prometheus.NewGaugeFunc(
		prometheus.GaugeOpts{
			Namespace: jm.namespace,
			Name:      "journal_queue_depth",
			Help:      "Current number of reload events queued in the journal recorder",
		},
		func() float64 { return float64(depth()) },
	))
}
