package config

import (
	"fmt"
	"os"
	"strconv"
	"time"

	"gopkg.in/yaml.v3"
)

// LoadConfig loads configuration from a YAML file at the specified path.
// It applies default values, validates the configuration, and returns any errors.
// The configuration is not modified by environment variables; use LoadConfigWithEnvOverrides
// for that functionality.
func LoadConfig(path string) (*Config, error) {
	// Read the file
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read configuration file %q: %w", path, err)
	}

	// Parse YAML
	var cfg Config
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return nil, fmt.Errorf("failed to parse configuration file %q: %w", path, err)
	}

	// Apply defaults
	ApplyDefaults(&cfg)

	// Validate
	if err := Validate(&cfg); err != nil {
		return nil, fmt.Errorf("configuration validation failed: %w", err)
	}

	return &cfg, nil
}

// LoadConfigWithEnvOverrides loads configuration from a YAML file and applies
// environment variable overrides. Environment variables follow the naming
// convention HOTRELOAD_SECTION_FIELD (e.g., HOTRELOAD_CONTROLLER_ARTIFACT_PATH).
// Environment variables always take precedence over file-based configuration.
//
// The loading sequence is:
// 1. Load YAML from file
// 2. Apply default values
// 3. Apply environment variable overrides
// 4. Validate final configuration
func LoadConfigWithEnvOverrides(path string) (*Config, error) {
	// First load from file (this already applies defaults)
	cfg, err := LoadConfig(path)
	if err != nil {
		return nil, err
	}

	// Apply environment variable overrides
	applyEnvOverrides(cfg)

	// Re-apply defaults: the derived working copy and lock paths may depend
	// on an artifact path that arrived via the environment.
	ApplyDefaults(cfg)

	// Re-validate after overrides
	if err := Validate(cfg); err != nil {
		return nil, fmt.Errorf("configuration validation failed after environment overrides: %w", err)
	}

	return cfg, nil
}

// applyEnvOverrides applies environment variable overrides to the configuration.
// Environment variables use the format HOTRELOAD_SECTION_FIELD.
func applyEnvOverrides(cfg *Config) {
	// Controller overrides
	if val := os.Getenv("HOTRELOAD_CONTROLLER_ARTIFACT_PATH"); val != "" {
		cfg.Controller.ArtifactPath = val
	}
	if val := os.Getenv("HOTRELOAD_CONTROLLER_WORKING_COPY_PATH"); val != "" {
		cfg.Controller.WorkingCopyPath = val
	}
	if val := os.Getenv("HOTRELOAD_CONTROLLER_LOCK_PATH"); val != "" {
		cfg.Controller.LockPath = val
	}
	if val := os.Getenv("HOTRELOAD_CONTROLLER_SYMBOL"); val != "" {
		cfg.Controller.Symbol = val
	}
	if val := os.Getenv("HOTRELOAD_CONTROLLER_LOCK_MODE"); val != "" {
		cfg.Controller.LockMode = val
	}

	// Poll overrides
	if val := os.Getenv("HOTRELOAD_POLL_INTERVAL"); val != "" {
		if d, err := time.ParseDuration(val); err == nil {
			cfg.Poll.Interval = d
		}
	}
	if val := os.Getenv("HOTRELOAD_POLL_INVOKE"); val != "" {
		if b, err := strconv.ParseBool(val); err == nil {
			cfg.Poll.Invoke = b
		}
	}

	// Journal overrides
	if val := os.Getenv("HOTRELOAD_JOURNAL_ENABLED"); val != "" {
		if b, err := strconv.ParseBool(val); err == nil {
			cfg.Journal.Enabled = b
		}
	}
	if val := os.Getenv("HOTRELOAD_JOURNAL_BACKEND"); val != "" {
		cfg.Journal.Backend = val
	}
	if val := os.Getenv("HOTRELOAD_JOURNAL_PATH"); val != "" {
		cfg.Journal.Path = val
	}
	if val := os.Getenv("HOTRELOAD_JOURNAL_BUFFER"); val != "" {
		if i, err := strconv.Atoi(val); err == nil {
			cfg.Journal.Buffer = i
		}
	}
	if val := os.Getenv("HOTRELOAD_JOURNAL_RETENTION_MAX_AGE"); val != "" {
		if d, err := time.ParseDuration(val); err == nil {
			cfg.Journal.Retention.MaxAge = d
		}
	}
	if val := os.Getenv("HOTRELOAD_JOURNAL_RETENTION_MAX_RECORDS"); val != "" {
		if i, err := strconv.ParseInt(val, 10, 64); err == nil {
			cfg.Journal.Retention.MaxRecords = i
		}
	}
	if val := os.Getenv("HOTRELOAD_JOURNAL_RETENTION_SCHEDULE"); val != "" {
		cfg.Journal.Retention.Schedule = val
	}

	// Telemetry overrides
	if val := os.Getenv("HOTRELOAD_TELEMETRY_LOGGING_LEVEL"); val != "" {
		cfg.Telemetry.Logging.Level = val
	}
	if val := os.Getenv("HOTRELOAD_TELEMETRY_LOGGING_FORMAT"); val != "" {
		cfg.Telemetry.Logging.Format = val
	}
	if val := os.Getenv("HOTRELOAD_TELEMETRY_LOGGING_ADD_SOURCE"); val != "" {
		if b, err := strconv.ParseBool(val); err == nil {
			cfg.Telemetry.Logging.AddSource = b
		}
	}
	if val := os.Getenv("HOTRELOAD_TELEMETRY_METRICS_ENABLED"); val != "" {
		if b, err := strconv.ParseBool(val); err == nil {
			cfg.Telemetry.Metrics.Enabled = b
		}
	}
	if val := os.Getenv("HOTRELOAD_TELEMETRY_METRICS_LISTEN_ADDRESS"); val != "" {
		cfg.Telemetry.Metrics.ListenAddress = val
	}
	if val := os.Getenv("HOTRELOAD_TELEMETRY_METRICS_PATH"); val != "" {
		cfg.Telemetry.Metrics.Path = val
	}
	if val := os.Getenv("HOTRELOAD_TELEMETRY_METRICS_NAMESPACE"); val != "" {
		cfg.Telemetry.Metrics.Namespace = val
	}
	if val := os.Getenv("HOTRELOAD_TELEMETRY_TRACING_ENABLED"); val != "" {
		if b, err := strconv.ParseBool(val); err == nil {
			cfg.Telemetry.Tracing.Enabled = b
		}
	}
	if val := os.Getenv("HOTRELOAD_TELEMETRY_TRACING_ENDPOINT"); val != "" {
		cfg.Telemetry.Tracing.Endpoint = val
	}
	if val := os.Getenv("HOTRELOAD_TELEMETRY_TRACING_SAMPLER"); val != "" {
		cfg.Telemetry.Tracing.Sampler = val
	}
	if val := os.Getenv("HOTRELOAD_TELEMETRY_TRACING_SAMPLE_RATIO"); val != "" {
		if f, err := strconv.ParseFloat(val, 64); err == nil {
			cfg.Telemetry.Tracing.SampleRatio = f
		}
	}
}
