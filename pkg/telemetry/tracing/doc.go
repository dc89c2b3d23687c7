// Package tracing exports reload activity as OpenTelemetry spans.
//
// Every reload attempt the controller reports becomes one span named
// "module.reload", stamped with the attempt's own start and end times and
// carrying the outcome, symbol, artifact path, and generation as attributes.
// Spans are shipped over OTLP gRPC to the configured collector endpoint.
//
// Tracing is disabled by default. When disabled, New returns a tracer backed
// by a noop provider, so callers never need to branch on the setting:
//
//	tracer, err := tracing.New(&cfg.Telemetry.Tracing)
//	if err != nil {
//		return err
//	}
//	defer tracer.Shutdown(context.Background())
//
//	tracer.RecordReload(ctx, tracing.ReloadSpan{...})
package tracing
