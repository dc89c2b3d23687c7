// Package health provides liveness and readiness probes for the daemon's
// admin endpoint.
//
// Liveness (/healthz) answers 200 whenever the process runs. Readiness
// (/readyz) aggregates registered component checks; the daemon typically
// registers a "module" check that fails until a symbol has been published
// and an "artifact" check that fails when the watched file has vanished,
// so a daemon stuck behind a writer's lock at boot reports degraded rather
// than ready.
//
//	checker := health.New(5 * time.Second)
//	checker.RegisterCheck("module", func(ctx context.Context) error {
//		if symbol.Load() == nil {
//			return errors.New("no module loaded")
//		}
//		return nil
//	})
//	health.Mount(mux, checker, version, commit, buildTime)
package health
