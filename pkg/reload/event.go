package reload

import "time"

// Outcome classifies the result of a reload attempt.
type Outcome string

const (
	// OutcomeLoaded means a new module generation was loaded and its symbol
	// resolved.
	OutcomeLoaded Outcome = "loaded"

	// OutcomeLockSkip means a change was pending but the rebuild lock was
	// held, so the reload was skipped and existing state left untouched.
	OutcomeLockSkip Outcome = "lock_skip"

	// OutcomeFailed means the reload attempt failed and the controller
	// transitioned to StateAborted.
	OutcomeFailed Outcome = "failed"
)

// Event describes one reload attempt. Events are delivered synchronously to
// Config.OnEvent from within Get; calls that find the artifact unchanged
// produce no event.
type Event struct {
	// Outcome classifies the attempt
	Outcome Outcome

	// Symbol is the exported function the controller manages
	Symbol string

	// ArtifactPath is the canonical artifact location
	ArtifactPath string

	// ArtifactMtime is the artifact modification time that triggered the
	// attempt
	ArtifactMtime time.Time

	// Generation is the controller's load generation after the attempt
	Generation uint64

	// Duration is how long the attempt took
	Duration time.Duration

	// Err is the failure for OutcomeFailed events, nil otherwise
	Err error
}
