package reload

import (
	"fmt"
	"log/slog"
	"reflect"
	"time"
)

// State identifies the lifecycle phase of a Controller.
type State int

const (
	// StateUnloaded means no module has been loaded yet.
	StateUnloaded State = iota

	// StateLoaded means a module is mapped and its symbol resolved.
	StateLoaded

	// StateAborted means a load-path failure occurred. Terminal: the
	// controller never retries, and Get returns ErrAborted.
	StateAborted

	// StateClosed means Close has released the controller's resources.
	StateClosed
)

// String returns the state name.
func (s State) String() string {
	switch s {
	case StateUnloaded:
		return "unloaded"
	case StateLoaded:
		return "loaded"
	case StateAborted:
		return "aborted"
	case StateClosed:
		return "closed"
	default:
		return fmt.Sprintf("unknown(%d)", int(s))
	}
}

// Module is a mapped binary module produced by a Loader.
type Module interface {
	// Resolve looks up the exported symbol name and binds it to fn, which
	// must be a non-nil pointer to a function variable of the symbol's type.
	// fn is only written on success.
	Resolve(name string, fn any) error

	// Close releases the module. The module must not be used afterwards, and
	// every function value resolved from it becomes invalid.
	Close() error
}

// Loader maps binary artifacts into the process.
type Loader interface {
	// Open loads the module at path. It fails if the file is not a valid
	// loadable module for the host ABI.
	Open(path string) (Module, error)
}

// LockProbe reports whether the external build pipeline currently holds the
// rebuild lock for the artifact. The lock is advisory: the controller trusts
// its presence or absence and performs no atomic check-then-load.
type LockProbe interface {
	// Held reports whether the lock is currently held.
	Held() (bool, error)
}

// Config contains the configuration for a Controller.
type Config struct {
	// ArtifactPath is the canonical compiled module the build pipeline
	// rewrites. It must exist whenever Get is called.
	ArtifactPath string

	// WorkingCopyPath is the controller's private copy of the artifact.
	// Loads always go through the working copy, so the build pipeline stays
	// free to rewrite ArtifactPath the moment the copy completes.
	WorkingCopyPath string

	// LockPath signals an in-progress rebuild while it exists. Consulted by
	// the default marker-file probe; ignored when Probe is set.
	LockPath string

	// Symbol is the exported function resolved after each load.
	Symbol string

	// Probe overrides the default lock probe.
	Probe LockProbe

	// FS overrides the host filesystem.
	FS FS

	// OnEvent, when set, is called synchronously after every reload attempt.
	// It is never called when the artifact is unchanged.
	OnEvent func(Event)
}

// Stats counts the side-effecting operations a controller has performed.
type Stats struct {
	// Copies is the number of artifact copies written to the working path
	Copies uint64

	// Loads is the number of modules successfully mapped
	Loads uint64

	// Unloads is the number of previously loaded modules released to make
	// room for a replacement
	Unloads uint64

	// LockSkips is the number of reloads skipped because the rebuild lock
	// was held
	LockSkips uint64
}

// Controller hot-reloads a single exported function of type F from a compiled
// artifact. F must be a function type; one controller instance manages one
// symbol.
//
// A Controller is not safe for concurrent use. See the package documentation
// for the serialization contract.
type Controller[F any] struct {
	cfg    Config
	loader Loader
	fs     FS
	probe  LockProbe
	logger *slog.Logger

	// Reload state. fn is non-zero exactly when module is non-nil and was
	// produced by the most recent successful load as of loadedAt.
	module     Module
	fn         F
	loadedAt   time.Time
	state      State
	generation uint64
	abortErr   error
	stats      Stats
}

// New creates a controller that resolves cfg.Symbol, typed as F, from
// cfg.ArtifactPath. The loader is required; cfg.Probe and cfg.FS default to a
// marker-file probe on cfg.LockPath and the host filesystem.
func New[F any](loader Loader, cfg *Config, logger *slog.Logger) (*Controller[F], error) {
	if loader == nil {
		return nil, fmt.Errorf("loader is required")
	}
	if cfg == nil {
		return nil, fmt.Errorf("config is required")
	}
	if cfg.ArtifactPath == "" {
		return nil, fmt.Errorf("artifact path is required")
	}
	if cfg.WorkingCopyPath == "" {
		return nil, fmt.Errorf("working copy path is required")
	}
	if cfg.WorkingCopyPath == cfg.ArtifactPath {
		return nil, fmt.Errorf("working copy path must differ from artifact path")
	}
	if cfg.Symbol == "" {
		return nil, fmt.Errorf("symbol is required")
	}
	if cfg.Probe == nil && cfg.LockPath == "" {
		return nil, fmt.Errorf("lock path is required when no probe is set")
	}

	var zero F
	if t := reflect.TypeOf(&zero).Elem(); t.Kind() != reflect.Func {
		return nil, fmt.Errorf("symbol type %s is not a function type", t)
	}

	if logger == nil {
		logger = slog.Default()
	}

	c := &Controller[F]{
		cfg:    *cfg,
		loader: loader,
		fs:     cfg.FS,
		probe:  cfg.Probe,
		logger: logger,
	}
	if c.fs == nil {
		c.fs = OSFS{}
	}
	if c.probe == nil {
		c.probe = markerProbe{path: cfg.LockPath, fs: c.fs}
	}
	return c, nil
}

// markerProbe is the default lock probe: the lock is held while the marker
// file exists.
type markerProbe struct {
	path string
	fs   FS
}

func (p markerProbe) Held() (bool, error) {
	return p.fs.Exists(p.path)
}

// Get returns the current function value, first reloading the module if the
// artifact changed since the last load and no rebuild lock is held.
//
// The reload decision runs synchronously to completion before Get returns.
// When the artifact's modification time is unchanged, Get performs exactly
// one stat and returns the existing value. When a change is pending but the
// lock is held, the reload is skipped and the existing value returned; if no
// load has ever succeeded, that is ErrNotLoaded. Otherwise the old module is
// unloaded, the artifact copied to the working path, the copy loaded, and the
// symbol resolved.
//
// Any copy, load, resolve, or unload failure aborts the controller: the
// failing call returns a typed error (*LoadError, *ResolveError,
// *UnloadError, *ArtifactError) and every later call returns ErrAborted. The
// caller decides whether to terminate or to keep using previously returned
// values, which stay callable until Close.
func (c *Controller[F]) Get() (F, error) {
	var zero F
	switch c.state {
	case StateAborted:
		return zero, ErrAborted
	case StateClosed:
		return zero, ErrClosed
	}

	mtime, err := c.fs.ModTime(c.cfg.ArtifactPath)
	if err != nil {
		aerr := &ArtifactError{Path: c.cfg.ArtifactPath, Message: "cannot stat artifact", Cause: err}
		c.abort(aerr)
		return zero, aerr
	}

	// Unchanged artifact: nothing to do. This is the hot path.
	if c.state == StateLoaded && mtime.Equal(c.loadedAt) {
		return c.fn, nil
	}

	start := time.Now()

	held, perr := c.probe.Held()
	if perr != nil {
		// An unreadable lock is treated as a held lock: skipping a reload
		// costs one interval, loading a half-written artifact costs the
		// process.
		c.logger.Warn("lock probe failed, treating lock as held",
			"lock_path", c.cfg.LockPath,
			"error", perr,
		)
		held = true
	}
	if held {
		c.stats.LockSkips++
		c.logger.Debug("artifact changed but rebuild lock is held, skipping reload",
			"artifact", c.cfg.ArtifactPath,
			"mtime", mtime,
		)
		c.emit(Event{
			Outcome:       OutcomeLockSkip,
			ArtifactMtime: mtime,
			Generation:    c.generation,
			Duration:      time.Since(start),
		})
		if c.state != StateLoaded {
			return zero, ErrNotLoaded
		}
		return c.fn, nil
	}

	if err := c.reload(mtime); err != nil {
		c.abort(err)
		c.emit(Event{
			Outcome:       OutcomeFailed,
			ArtifactMtime: mtime,
			Generation:    c.generation,
			Duration:      time.Since(start),
			Err:           err,
		})
		return zero, err
	}

	c.emit(Event{
		Outcome:       OutcomeLoaded,
		ArtifactMtime: mtime,
		Generation:    c.generation,
		Duration:      time.Since(start),
	})
	return c.fn, nil
}

// reload swaps in the module at the given artifact mtime. On success the
// controller is in StateLoaded with fn resolved from the new module. On
// failure the controller holds no module and the returned error is the typed
// cause; the caller transitions the state.
func (c *Controller[F]) reload(mtime time.Time) error {
	var zero F

	// Unload strictly before mapping the replacement: both modules may
	// export the same symbol name, and the loading facility must not be
	// asked to disambiguate.
	if c.module != nil {
		mod := c.module
		c.module = nil
		c.fn = zero
		if err := mod.Close(); err != nil {
			return &UnloadError{Path: c.cfg.WorkingCopyPath, Message: "releasing previous module", Cause: err}
		}
		c.stats.Unloads++
	}

	if err := c.fs.Copy(c.cfg.ArtifactPath, c.cfg.WorkingCopyPath); err != nil {
		return &LoadError{Path: c.cfg.WorkingCopyPath, Message: "copying artifact to working copy", Cause: err}
	}
	c.stats.Copies++

	mod, err := c.loader.Open(c.cfg.WorkingCopyPath)
	if err != nil {
		return &LoadError{Path: c.cfg.WorkingCopyPath, Message: "mapping working copy", Cause: err}
	}
	c.stats.Loads++

	// Advance the watermark before resolving: an artifact whose symbol table
	// is wrong must fail once, not on every subsequent call.
	c.loadedAt = mtime

	if err := mod.Resolve(c.cfg.Symbol, &c.fn); err != nil {
		// No value from this module has escaped, so it can be released here.
		if cerr := mod.Close(); cerr != nil {
			c.logger.Warn("failed to release module after resolution failure",
				"module", c.cfg.WorkingCopyPath,
				"error", cerr,
			)
		}
		return &ResolveError{Symbol: c.cfg.Symbol, Path: c.cfg.WorkingCopyPath, Cause: err}
	}

	c.module = mod
	c.state = StateLoaded
	c.generation++

	c.logger.Info("module reloaded",
		"artifact", c.cfg.ArtifactPath,
		"symbol", c.cfg.Symbol,
		"generation", c.generation,
		"mtime", mtime,
	)
	return nil
}

// abort marks the controller terminally failed. A module that is still
// mapped stays mapped: previously returned function values remain callable
// until Close, so owners can degrade to the last good generation instead of
// crashing.
func (c *Controller[F]) abort(err error) {
	c.state = StateAborted
	c.abortErr = err
	c.logger.Error("reload controller aborted",
		"artifact", c.cfg.ArtifactPath,
		"symbol", c.cfg.Symbol,
		"error", err,
	)
}

// Close releases the held module, if any, and makes the controller unusable.
// Close is idempotent; after the first call, Get returns ErrClosed.
//
// Closing invalidates every function value the controller ever returned.
func (c *Controller[F]) Close() error {
	if c.state == StateClosed {
		return nil
	}

	var zero F
	mod := c.module
	c.module = nil
	c.fn = zero
	c.state = StateClosed

	if mod == nil {
		return nil
	}
	if err := mod.Close(); err != nil {
		return &UnloadError{Path: c.cfg.WorkingCopyPath, Message: "releasing module on close", Cause: err}
	}
	return nil
}

// emit delivers an event to the configured hook.
func (c *Controller[F]) emit(ev Event) {
	if c.cfg.OnEvent == nil {
		return
	}
	ev.Symbol = c.cfg.Symbol
	ev.ArtifactPath = c.cfg.ArtifactPath
	c.cfg.OnEvent(ev)
}

// State returns the controller's lifecycle state.
func (c *Controller[F]) State() State {
	return c.state
}

// Generation returns the number of successful loads.
func (c *Controller[F]) Generation() uint64 {
	return c.generation
}

// LoadedAt returns the artifact modification time of the last successful
// load, or the zero time if none has occurred.
func (c *Controller[F]) LoadedAt() time.Time {
	return c.loadedAt
}

// Err returns the failure that aborted the controller, or nil.
func (c *Controller[F]) Err() error {
	return c.abortErr
}

// Stats returns operation counters.
func (c *Controller[F]) Stats() Stats {
	return c.stats
}
