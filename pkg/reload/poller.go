package reload

import (
	"context"
	"errors"
	"log/slog"
	"sync"
	"time"
)

// PollerConfig contains configuration for a Poller.
type PollerConfig struct {
	// Interval is the time between reload checks (default: 1s)
	Interval time.Duration

	// OnPublish, when set, is called from the poll goroutine each time a new
	// generation is published; Latest already returns the new value by then.
	// The call is serialized with the controller, so invoking the function
	// value here is safe even across reloads.
	OnPublish func(generation uint64)

	// OnCycle, when set, is called from the poll goroutine after every cycle
	// with the error returned by the check (nil when the module was unchanged
	// or freshly loaded). A held lock before the first load surfaces here as
	// ErrNotLoaded even though it does not stop the poller.
	OnCycle func(err error)
}

// DefaultPollerConfig returns the default poller configuration.
func DefaultPollerConfig() *PollerConfig {
	return &PollerConfig{
		Interval: time.Second,
	}
}

// PollerStatus is a point-in-time snapshot of a poller.
type PollerStatus struct {
	// State is the underlying controller state
	State string `json:"state"`

	// Generation is the controller's load generation
	Generation uint64 `json:"generation"`

	// LoadedAt is the artifact mtime of the last successful load
	LoadedAt time.Time `json:"loaded_at"`

	// Cycles is the number of poll cycles completed
	Cycles uint64 `json:"cycles"`

	// LastError is the error from the most recent cycle, if any
	LastError string `json:"last_error,omitempty"`
}

// Poller owns a Controller on behalf of concurrent readers. A single
// goroutine inside Run is the only caller of Get; everyone else observes the
// most recently published function value through Latest. This is the
// dedicated-owner pattern the controller's concurrency contract asks for,
// packaged.
//
// The poller does not close the controller; the creator remains responsible
// for Close after Run returns and all users of published values are done.
type Poller[F any] struct {
	ctrl   *Controller[F]
	cfg    *PollerConfig
	logger *slog.Logger

	mu     sync.RWMutex
	fn     F
	ok     bool
	pubGen uint64
	status PollerStatus
}

// NewPoller creates a poller that samples ctrl at the configured interval.
func NewPoller[F any](ctrl *Controller[F], cfg *PollerConfig, logger *slog.Logger) *Poller[F] {
	if cfg == nil {
		cfg = DefaultPollerConfig()
	}
	if cfg.Interval <= 0 {
		cfg.Interval = time.Second
	}
	if logger == nil {
		logger = slog.Default()
	}
	return &Poller[F]{
		ctrl:   ctrl,
		cfg:    cfg,
		logger: logger,
	}
}

// Run polls the controller until the context is cancelled or the controller
// aborts. The first check happens immediately, so Latest can be served
// without waiting a full interval. This is a blocking operation.
//
// Run returns nil on cancellation and the abort cause when the controller
// fails; the caller decides whether that terminates the process or whether
// readers keep degrading to the last published generation.
func (p *Poller[F]) Run(ctx context.Context) error {
	if err := p.cycle(); err != nil {
		return err
	}

	ticker := time.NewTicker(p.cfg.Interval)
	defer ticker.Stop()

	p.logger.Info("reload poller started",
		"artifact", p.ctrl.cfg.ArtifactPath,
		"symbol", p.ctrl.cfg.Symbol,
		"interval", p.cfg.Interval,
	)

	for {
		select {
		case <-ctx.Done():
			p.logger.Info("reload poller stopped (context cancelled)")
			return nil
		case <-ticker.C:
			if err := p.cycle(); err != nil {
				return err
			}
		}
	}
}

// cycle performs one Get and publishes the result. It returns non-nil only
// for fatal controller errors, which stop Run.
func (p *Poller[F]) cycle() error {
	fn, err := p.ctrl.Get()
	gen := p.ctrl.Generation()

	published := false
	p.mu.Lock()
	p.status.Cycles++
	p.status.State = p.ctrl.State().String()
	p.status.Generation = gen
	p.status.LoadedAt = p.ctrl.LoadedAt()
	if err != nil {
		p.status.LastError = err.Error()
	} else {
		p.status.LastError = ""
		if gen != p.pubGen {
			p.fn = fn
			p.ok = true
			p.pubGen = gen
			published = true
		}
	}
	p.mu.Unlock()

	if published {
		p.logger.Debug("published new generation", "generation", gen)
		if p.cfg.OnPublish != nil {
			p.cfg.OnPublish(gen)
		}
	}

	if p.cfg.OnCycle != nil {
		p.cfg.OnCycle(err)
	}

	if err != nil {
		// A held lock before the first load is not a failure; the lock will
		// clear and a later cycle will load.
		if errors.Is(err, ErrNotLoaded) {
			p.logger.Debug("no module loaded yet, rebuild lock held")
			return nil
		}
		return err
	}
	return nil
}

// Latest returns the most recently published function value. ok is false
// until the first successful load has been published.
func (p *Poller[F]) Latest() (F, bool) {
	p.mu.RLock()
	defer p.mu.RUnlock()
	return p.fn, p.ok
}

// Status returns a snapshot of the poller's progress.
func (p *Poller[F]) Status() PollerStatus {
	p.mu.RLock()
	defer p.mu.RUnlock()
	return p.status
}
