package config

import (
	"strings"
	"testing"
	"time"
)

// validConfig returns a fully populated configuration that passes validation.
func validConfig() *Config {
	cfg := &Config{}
	cfg.Controller.ArtifactPath = "/opt/plugins/handler.so"
	cfg.Controller.Symbol = "handle_request"
	ApplyDefaults(cfg)
	return cfg
}

func TestValidate_ValidConfig(t *testing.T) {
	cfg := validConfig()

	err := Validate(cfg)
	if err != nil {
		t.Errorf("expected valid config to pass validation, got error: %v", err)
	}
}

func TestValidate_MultipleErrors(t *testing.T) {
	cfg := &Config{}
	// Empty config: no artifact path, no symbol, zero poll interval,
	// empty logging level and format.

	err := Validate(cfg)
	if err == nil {
		t.Fatal("expected validation to fail")
	}

	validationErr, ok := err.(ValidationError)
	if !ok {
		t.Fatalf("expected ValidationError, got %T", err)
	}

	if len(validationErr.Errors) < 2 {
		t.Errorf("expected multiple errors, got %d", len(validationErr.Errors))
	}

	// Verify error message includes multiple errors
	errMsg := validationErr.Error()
	if !strings.Contains(errMsg, "validation failed with") {
		t.Errorf("error message should mention multiple errors: %s", errMsg)
	}
}

func TestValidate_ControllerConfig(t *testing.T) {
	tests := []struct {
		name       string
		controller ControllerConfig
		wantError  bool
		errorField string
	}{
		{
			name: "valid controller config",
			controller: ControllerConfig{
				ArtifactPath:    "/opt/plugins/handler.so",
				WorkingCopyPath: "/opt/plugins/handler.so.loaded",
				LockPath:        "/opt/plugins/handler.so.lock",
				Symbol:          "handle_request",
				LockMode:        "marker",
			},
			wantError: false,
		},
		{
			name: "empty artifact path",
			controller: ControllerConfig{
				Symbol: "handle_request",
			},
			wantError:  true,
			errorField: "controller.artifact_path",
		},
		{
			name: "empty symbol",
			controller: ControllerConfig{
				ArtifactPath: "/opt/plugins/handler.so",
			},
			wantError:  true,
			errorField: "controller.symbol",
		},
		{
			name: "working copy aliases artifact",
			controller: ControllerConfig{
				ArtifactPath:    "/opt/plugins/handler.so",
				WorkingCopyPath: "/opt/plugins/handler.so",
				Symbol:          "handle_request",
			},
			wantError:  true,
			errorField: "controller.working_copy_path",
		},
		{
			name: "invalid lock mode",
			controller: ControllerConfig{
				ArtifactPath: "/opt/plugins/handler.so",
				Symbol:       "handle_request",
				LockMode:     "semaphore",
			},
			wantError:  true,
			errorField: "controller.lock_mode",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			errs := validateController(&tt.controller)
			if tt.wantError && len(errs) == 0 {
				t.Error("expected validation error, got none")
			}
			if !tt.wantError && len(errs) > 0 {
				t.Errorf("expected no validation error, got: %v", errs)
			}
			if tt.wantError && len(errs) > 0 {
				found := false
				for _, err := range errs {
					if err.Field == tt.errorField {
						found = true
						break
					}
				}
				if !found {
					t.Errorf("expected error for field %q, got errors: %v", tt.errorField, errs)
				}
			}
		})
	}
}

func TestValidate_PollConfig(t *testing.T) {
	tests := []struct {
		name      string
		poll      PollConfig
		wantError bool
	}{
		{
			name:      "valid poll config",
			poll:      PollConfig{Interval: time.Second},
			wantError: false,
		},
		{
			name:      "zero interval",
			poll:      PollConfig{Interval: 0},
			wantError: true,
		},
		{
			name:      "negative interval",
			poll:      PollConfig{Interval: -time.Second},
			wantError: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			errs := validatePoll(&tt.poll)
			if tt.wantError && len(errs) == 0 {
				t.Error("expected validation error, got none")
			}
			if !tt.wantError && len(errs) > 0 {
				t.Errorf("expected no validation error, got: %v", errs)
			}
		})
	}
}

func TestValidate_JournalConfig(t *testing.T) {
	tests := []struct {
		name       string
		journal    JournalConfig
		wantError  bool
		errorField string
	}{
		{
			name: "valid sqlite journal",
			journal: JournalConfig{
				Enabled: true,
				Backend: "sqlite",
				Path:    "data/journal.db",
				Buffer:  256,
				Retention: RetentionConfig{
					MaxAge:   720 * time.Hour,
					Schedule: "0 3 * * *",
				},
			},
			wantError: false,
		},
		{
			name: "disabled journal skips validation",
			journal: JournalConfig{
				Enabled: false,
				Backend: "cassandra",
			},
			wantError: false,
		},
		{
			name: "invalid backend",
			journal: JournalConfig{
				Enabled: true,
				Backend: "cassandra",
				Buffer:  256,
			},
			wantError:  true,
			errorField: "journal.backend",
		},
		{
			name: "sqlite without path",
			journal: JournalConfig{
				Enabled: true,
				Backend: "sqlite",
				Buffer:  256,
			},
			wantError:  true,
			errorField: "journal.path",
		},
		{
			name: "zero buffer",
			journal: JournalConfig{
				Enabled: true,
				Backend: "memory",
				Buffer:  0,
			},
			wantError:  true,
			errorField: "journal.buffer",
		},
		{
			name: "invalid cron schedule",
			journal: JournalConfig{
				Enabled: true,
				Backend: "memory",
				Buffer:  256,
				Retention: RetentionConfig{
					Schedule: "every day at three",
				},
			},
			wantError:  true,
			errorField: "journal.retention.schedule",
		},
		{
			name: "negative max records",
			journal: JournalConfig{
				Enabled: true,
				Backend: "memory",
				Buffer:  256,
				Retention: RetentionConfig{
					MaxRecords: -1,
				},
			},
			wantError:  true,
			errorField: "journal.retention.max_records",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			errs := validateJournal(&tt.journal)
			if tt.wantError && len(errs) == 0 {
				t.Error("expected validation error, got none")
			}
			if !tt.wantError && len(errs) > 0 {
				t.Errorf("expected no validation error, got: %v", errs)
			}
			if tt.wantError && len(errs) > 0 {
				found := false
				for _, err := range errs {
					if err.Field == tt.errorField {
						found = true
						break
					}
				}
				if !found {
					t.Errorf("expected error for field %q, got errors: %v", tt.errorField, errs)
				}
			}
		})
	}
}

func TestValidate_TelemetryConfig(t *testing.T) {
	tests := []struct {
		name       string
		telemetry  TelemetryConfig
		wantError  bool
		errorField string
	}{
		{
			name: "valid telemetry config",
			telemetry: TelemetryConfig{
				Logging: LoggingConfig{Level: "info", Format: "json"},
				Metrics: MetricsConfig{
					Enabled:       true,
					ListenAddress: "127.0.0.1:9187",
					Path:          "/metrics",
				},
			},
			wantError: false,
		},
		{
			name: "invalid logging level",
			telemetry: TelemetryConfig{
				Logging: LoggingConfig{Level: "verbose", Format: "json"},
			},
			wantError:  true,
			errorField: "telemetry.logging.level",
		},
		{
			name: "invalid logging format",
			telemetry: TelemetryConfig{
				Logging: LoggingConfig{Level: "info", Format: "xml"},
			},
			wantError:  true,
			errorField: "telemetry.logging.format",
		},
		{
			name: "metrics path without leading slash",
			telemetry: TelemetryConfig{
				Logging: LoggingConfig{Level: "info", Format: "json"},
				Metrics: MetricsConfig{
					Enabled:       true,
					ListenAddress: "127.0.0.1:9187",
					Path:          "metrics",
				},
			},
			wantError:  true,
			errorField: "telemetry.metrics.path",
		},
		{
			name: "metrics enabled without listen address",
			telemetry: TelemetryConfig{
				Logging: LoggingConfig{Level: "info", Format: "json"},
				Metrics: MetricsConfig{
					Enabled: true,
					Path:    "/metrics",
				},
			},
			wantError:  true,
			errorField: "telemetry.metrics.listen_address",
		},
		{
			name: "tracing enabled with invalid sampler",
			telemetry: TelemetryConfig{
				Logging: LoggingConfig{Level: "info", Format: "json"},
				Tracing: TracingConfig{
					Enabled:  true,
					Endpoint: "localhost:4317",
					Sampler:  "coinflip",
				},
			},
			wantError:  true,
			errorField: "telemetry.tracing.sampler",
		},
		{
			name: "tracing sample ratio out of range",
			telemetry: TelemetryConfig{
				Logging: LoggingConfig{Level: "info", Format: "json"},
				Tracing: TracingConfig{
					Enabled:     true,
					Endpoint:    "localhost:4317",
					Sampler:     "ratio",
					SampleRatio: 1.5,
				},
			},
			wantError:  true,
			errorField: "telemetry.tracing.sample_ratio",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			errs := validateTelemetry(&tt.telemetry)
			if tt.wantError && len(errs) == 0 {
				t.Error("expected validation error, got none")
			}
			if !tt.wantError && len(errs) > 0 {
				t.Errorf("expected no validation error, got: %v", errs)
			}
			if tt.wantError && len(errs) > 0 {
				found := false
				for _, err := range errs {
					if err.Field == tt.errorField {
						found = true
						break
					}
				}
				if !found {
					t.Errorf("expected error for field %q, got errors: %v", tt.errorField, errs)
				}
			}
		})
	}
}
