package tracing

import (
	"fmt"

	sdktrace "go.opentelemetry.io/otel/sdk/trace"
)

// Sampling strategy names accepted in configuration.
const (
	// SamplerAlways samples every reload attempt.
	SamplerAlways = "always"

	// SamplerNever samples nothing. Useful for temporarily disabling
	// trace export without tearing down the provider.
	SamplerNever = "never"

	// SamplerRatio samples a configurable fraction of reload attempts.
	SamplerRatio = "ratio"
)

// createSampler creates a trace sampler from the configuration.
//
// Each sampler is wrapped in a ParentBased sampler so that the sampling
// decision of an incoming parent span, when there is one, wins over the
// local strategy.
func createSampler(samplerType string, ratio float64) (sdktrace.Sampler, error) {
	switch samplerType {
	case SamplerAlways:
		return sdktrace.ParentBased(sdktrace.AlwaysSample()), nil

	case SamplerNever:
		return sdktrace.ParentBased(sdktrace.NeverSample()), nil

	case SamplerRatio:
		if ratio < 0.0 || ratio > 1.0 {
			return nil, fmt.Errorf("sample ratio must be between 0.0 and 1.0, got %f", ratio)
		}
		return sdktrace.ParentBased(sdktrace.TraceIDRatioBased(ratio)), nil

	default:
		return nil, fmt.Errorf("unknown sampler type: %s (valid: always, never, ratio)", samplerType)
	}
}
