package config

import "time"

// Default values for configuration fields.
const (
	// Controller defaults
	DefaultLockMode          = "marker"
	DefaultWorkingCopySuffix = ".loaded"
	DefaultLockSuffix        = ".lock"

	// Poll defaults
	DefaultPollInterval = 1 * time.Second

	// Journal defaults
	DefaultJournalBackend    = "sqlite"
	DefaultJournalPath       = "data/journal.db"
	DefaultJournalBuffer     = 256
	DefaultRetentionMaxAge   = 720 * time.Hour // 30 days
	DefaultRetentionSchedule = "0 3 * * *"

	// Telemetry defaults
	DefaultLoggingLevel         = "info"
	DefaultLoggingFormat        = "json"
	DefaultMetricsListenAddress = "127.0.0.1:9187"
	DefaultMetricsPath          = "/metrics"
	DefaultMetricsNamespace     = "hotreload"
	DefaultTracingSampler       = "ratio"
	DefaultTracingSampleRatio   = 1.0
	DefaultTracingEndpoint      = "localhost:4317"
	DefaultTracingServiceName   = "hotreload"
	DefaultTracingTimeout       = 10 * time.Second
)

// ApplyDefaults applies default values to a Config struct.
// It sets defaults for any fields that have zero values.
// This function is idempotent and safe to call multiple times.
func ApplyDefaults(cfg *Config) {
	// Controller defaults. The working copy and lock paths derive from the
	// artifact path, so they can only be defaulted once that path is known.
	if cfg.Controller.WorkingCopyPath == "" && cfg.Controller.ArtifactPath != "" {
		cfg.Controller.WorkingCopyPath = cfg.Controller.ArtifactPath + DefaultWorkingCopySuffix
	}
	if cfg.Controller.LockPath == "" && cfg.Controller.ArtifactPath != "" {
		cfg.Controller.LockPath = cfg.Controller.ArtifactPath + DefaultLockSuffix
	}
	if cfg.Controller.LockMode == "" {
		cfg.Controller.LockMode = DefaultLockMode
	}

	// Poll defaults
	if cfg.Poll.Interval == 0 {
		cfg.Poll.Interval = DefaultPollInterval
	}

	// Journal defaults. Enabled defaults to false (zero value), which is
	// correct: journaling is opt-in.
	if cfg.Journal.Backend == "" {
		cfg.Journal.Backend = DefaultJournalBackend
	}
	if cfg.Journal.Path == "" {
		cfg.Journal.Path = DefaultJournalPath
	}
	if cfg.Journal.Buffer == 0 {
		cfg.Journal.Buffer = DefaultJournalBuffer
	}
	if cfg.Journal.Retention.MaxAge == 0 {
		cfg.Journal.Retention.MaxAge = DefaultRetentionMaxAge
	}
	if cfg.Journal.Retention.Schedule == "" {
		cfg.Journal.Retention.Schedule = DefaultRetentionSchedule
	}

	// Telemetry defaults. Metrics enabled defaults to false (zero value).
	if cfg.Telemetry.Logging.Level == "" {
		cfg.Telemetry.Logging.Level = DefaultLoggingLevel
	}
	if cfg.Telemetry.Logging.Format == "" {
		cfg.Telemetry.Logging.Format = DefaultLoggingFormat
	}
	if cfg.Telemetry.Metrics.ListenAddress == "" {
		cfg.Telemetry.Metrics.ListenAddress = DefaultMetricsListenAddress
	}
	if cfg.Telemetry.Metrics.Path == "" {
		cfg.Telemetry.Metrics.Path = DefaultMetricsPath
	}
	if cfg.Telemetry.Metrics.Namespace == "" {
		cfg.Telemetry.Metrics.Namespace = DefaultMetricsNamespace
	}
	if cfg.Telemetry.Tracing.Sampler == "" {
		cfg.Telemetry.Tracing.Sampler = DefaultTracingSampler
	}
	if cfg.Telemetry.Tracing.SampleRatio == 0 {
		cfg.Telemetry.Tracing.SampleRatio = DefaultTracingSampleRatio
	}
	if cfg.Telemetry.Tracing.Endpoint == "" {
		cfg.Telemetry.Tracing.Endpoint = DefaultTracingEndpoint
	}
	if cfg.Telemetry.Tracing.ServiceName == "" {
		cfg.Telemetry.Tracing.ServiceName = DefaultTracingServiceName
	}
	if cfg.Telemetry.Tracing.Timeout == 0 {
		cfg.Telemetry.Tracing.Timeout = DefaultTracingTimeout
	}
}
