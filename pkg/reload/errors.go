package reload

import (
	"errors"
	"fmt"
)

// Sentinel errors returned by Controller.Get.
var (
	// ErrAborted is returned by every Get call after a load-path failure has
	// put the controller into StateAborted. The failure itself is returned by
	// the Get call that observed it and remains available through Err.
	ErrAborted = errors.New("reload controller aborted")

	// ErrClosed is returned by Get after the controller has been closed.
	ErrClosed = errors.New("reload controller closed")

	// ErrNotLoaded is returned by Get when no load has ever succeeded and the
	// rebuild lock prevented one, so there is no function value to return.
	ErrNotLoaded = errors.New("no module loaded")
)

// ArtifactError represents a failure to observe the artifact itself.
// The artifact path not existing is a configuration error in this design:
// there is no recognized "no artifact yet" steady state.
type ArtifactError struct {
	// Path is the artifact path that could not be observed
	Path string

	// Message describes the error
	Message string

	// Cause is the underlying filesystem error
	Cause error
}

// Error implements the error interface.
func (e *ArtifactError) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("artifact %q: %s: %v", e.Path, e.Message, e.Cause)
	}
	return fmt.Sprintf("artifact %q: %s", e.Path, e.Message)
}

// Unwrap implements the errors.Unwrap interface for error chain support.
func (e *ArtifactError) Unwrap() error {
	return e.Cause
}

// LoadError represents a failure on the load path: copying the artifact to
// the working copy, or mapping the working copy as a module.
type LoadError struct {
	// Path is the file involved in the failure
	Path string

	// Message distinguishes the copy stage from the load stage
	Message string

	// Cause is the underlying error
	Cause error
}

// Error implements the error interface.
func (e *LoadError) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("failed to load module %q: %s: %v", e.Path, e.Message, e.Cause)
	}
	return fmt.Sprintf("failed to load module %q: %s", e.Path, e.Message)
}

// Unwrap implements the errors.Unwrap interface for error chain support.
func (e *LoadError) Unwrap() error {
	return e.Cause
}

// ResolveError represents a symbol that is absent from an otherwise validly
// loaded module.
type ResolveError struct {
	// Symbol is the exported function name that could not be resolved
	Symbol string

	// Path is the module the symbol was looked up in
	Path string

	// Cause is the underlying loader error
	Cause error
}

// Error implements the error interface.
func (e *ResolveError) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("failed to resolve symbol %q in module %q: %v", e.Symbol, e.Path, e.Cause)
	}
	return fmt.Sprintf("failed to resolve symbol %q in module %q", e.Symbol, e.Path)
}

// Unwrap implements the errors.Unwrap interface for error chain support.
func (e *ResolveError) Unwrap() error {
	return e.Cause
}

// UnloadError represents a failure to release a previously loaded module.
type UnloadError struct {
	// Path is the module that could not be released
	Path string

	// Message describes the error
	Message string

	// Cause is the underlying loader error
	Cause error
}

// Error implements the error interface.
func (e *UnloadError) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("failed to unload module %q: %s: %v", e.Path, e.Message, e.Cause)
	}
	return fmt.Sprintf("failed to unload module %q: %s", e.Path, e.Message)
}

// Unwrap implements the errors.Unwrap interface for error chain support.
func (e *UnloadError) Unwrap() error {
	return e.Cause
}
