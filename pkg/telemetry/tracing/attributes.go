package tracing

import (
	"go.opentelemetry.io/otel/attribute"
)

// Attribute keys attached to reload spans.
const (
	// AttrOutcome is the reload attempt outcome ("loaded", "lock_skip", "failed").
	AttrOutcome = "hotreload.outcome"

	// AttrSymbol is the symbol name resolved from the artifact.
	AttrSymbol = "hotreload.symbol"

	// AttrArtifactPath is the watched artifact path.
	AttrArtifactPath = "hotreload.artifact_path"

	// AttrGeneration is the load generation after the attempt.
	AttrGeneration = "hotreload.generation"
)

// reloadAttributes converts a ReloadSpan into span attributes.
func reloadAttributes(s ReloadSpan) []attribute.KeyValue {
	return []attribute.KeyValue{
		attribute.String(AttrOutcome, s.Outcome),
		attribute.String(AttrSymbol, s.Symbol),
		attribute.String(AttrArtifactPath, s.ArtifactPath),
		attribute.Int64(AttrGeneration, int64(s.Generation)),
	}
}
