// Package telemetry provides observability for the hotreload daemon.
//
// The subpackages cover the usual three legs plus health:
//
//   - logging: structured logging built on log/slog
//   - metrics: Prometheus metrics for reload and journal activity
//   - tracing: OpenTelemetry span export, one span per reload attempt
//   - health: liveness checks and status endpoints for the admin server
//
// Each subpackage is configured through the corresponding section of
// config.TelemetryConfig and can be used independently.
package telemetry
