package config

import "time"

// Config is the root configuration structure for the hotreload daemon.
// It contains the controller paths, the poll loop settings, the reload
// journal, and telemetry.
type Config struct {
	// Controller contains the reload controller paths and symbol.
	Controller ControllerConfig `yaml:"controller"`

	// Poll contains settings for the daemon's poll loop.
	Poll PollConfig `yaml:"poll"`

	// Journal contains configuration for the reload audit journal.
	Journal JournalConfig `yaml:"journal"`

	// Telemetry contains configuration for logging and metrics.
	Telemetry TelemetryConfig `yaml:"telemetry"`
}

// ControllerConfig contains the reload controller configuration.
type ControllerConfig struct {
	// ArtifactPath is the compiled module the build pipeline rewrites.
	// Required.
	ArtifactPath string `yaml:"artifact_path"`

	// WorkingCopyPath is the controller's private copy of the artifact.
	// Default: ArtifactPath + ".loaded"
	WorkingCopyPath string `yaml:"working_copy_path"`

	// LockPath is the rebuild lock location.
	// Default: ArtifactPath + ".lock"
	LockPath string `yaml:"lock_path"`

	// Symbol is the exported function to resolve from the artifact.
	// Required.
	Symbol string `yaml:"symbol"`

	// LockMode selects how the rebuild lock is probed.
	// Options: "marker" (lock held while the file exists),
	// "flock" (lock held while another process flocks the file).
	// Default: "marker"
	LockMode string `yaml:"lock_mode"`
}

// PollConfig contains settings for the daemon's poll loop.
type PollConfig struct {
	// Interval is the time between reload checks.
	// Default: 1s
	Interval time.Duration `yaml:"interval"`

	// Invoke controls whether the daemon calls the resolved function once
	// for every newly published generation and logs its return value. The
	// hosted symbol must then have the signature int32 symbol(void).
	// Default: false
	Invoke bool `yaml:"invoke"`
}

// JournalConfig contains configuration for the reload audit journal.
type JournalConfig struct {
	// Enabled controls whether reload attempts are journaled.
	// Default: false
	Enabled bool `yaml:"enabled"`

	// Backend selects the journal storage backend.
	// Options: "sqlite", "memory"
	// Default: "sqlite"
	Backend string `yaml:"backend"`

	// Path is the SQLite database location for the sqlite backend.
	// Default: "data/journal.db"
	Path string `yaml:"path"`

	// Buffer is the size of the async recorder queue. When the queue is
	// full, records are dropped rather than stalling a reload.
	// Default: 256
	Buffer int `yaml:"buffer"`

	// Retention controls pruning of old journal records.
	Retention RetentionConfig `yaml:"retention"`
}

// RetentionConfig controls pruning of old journal records.
type RetentionConfig struct {
	// MaxAge is how long records are kept before pruning.
	// Default: 720h (30 days)
	MaxAge time.Duration `yaml:"max_age"`

	// MaxRecords caps the number of records kept after age pruning.
	// Zero means no cap.
	// Default: 0
	MaxRecords int64 `yaml:"max_records"`

	// Schedule is a cron expression for automatic pruning. Empty disables
	// the schedule; pruning can still be run manually.
	// Default: "0 3 * * *" (daily at 3 AM)
	Schedule string `yaml:"schedule"`
}

// TelemetryConfig contains configuration for observability.
type TelemetryConfig struct {
	// Logging contains logging configuration.
	Logging LoggingConfig `yaml:"logging"`

	// Metrics contains metrics configuration.
	Metrics MetricsConfig `yaml:"metrics"`

	// Tracing contains trace export configuration.
	Tracing TracingConfig `yaml:"tracing"`
}

// LoggingConfig contains logging configuration.
type LoggingConfig struct {
	// Level is the minimum log level to emit.
	// Options: "debug", "info", "warn", "error"
	// Default: "info"
	Level string `yaml:"level"`

	// Format controls the log output format.
	// Options: "json", "text"
	// Default: "json"
	Format string `yaml:"format"`

	// AddSource includes file and line number in log entries.
	// Default: false
	AddSource bool `yaml:"add_source"`
}

// MetricsConfig contains metrics configuration.
type MetricsConfig struct {
	// Enabled controls whether the metrics endpoint is served.
	// Default: false
	Enabled bool `yaml:"enabled"`

	// ListenAddress is the address the admin HTTP server listens on.
	// Default: "127.0.0.1:9187"
	ListenAddress string `yaml:"listen_address"`

	// Path is the HTTP path for the Prometheus metrics endpoint.
	// Default: "/metrics"
	Path string `yaml:"path"`

	// Namespace is the metric name prefix.
	// Default: "hotreload"
	Namespace string `yaml:"namespace"`
}

// TracingConfig contains trace export configuration. Each reload attempt is
// exported as one span.
type TracingConfig struct {
	// Enabled controls whether trace export is active.
	// Default: false
	Enabled bool `yaml:"enabled"`

	// Sampler determines the sampling strategy.
	// Options: "always", "never", "ratio"
	// Default: "ratio"
	Sampler string `yaml:"sampler"`

	// SampleRatio is the fraction of traces to sample (0.0 to 1.0).
	// Only used when Sampler is "ratio".
	// Default: 1.0
	SampleRatio float64 `yaml:"sample_ratio"`

	// Endpoint is the OTLP gRPC collector endpoint.
	// Default: "localhost:4317"
	Endpoint string `yaml:"endpoint"`

	// ServiceName is the service name attached to exported spans.
	// Default: "hotreload"
	ServiceName string `yaml:"service_name"`

	// Insecure disables TLS for the collector connection.
	// Default: false
	Insecure bool `yaml:"insecure"`

	// Timeout is the timeout for span exports.
	// Default: 10s
	Timeout time.Duration `yaml:"timeout"`
}
