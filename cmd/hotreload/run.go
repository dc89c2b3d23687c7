package main

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"time"

	"github.com/spf13/cobra"

	"github.com/ayazhafiz/hotreload/pkg/cli"
	"github.com/ayazhafiz/hotreload/pkg/config"
	"github.com/ayazhafiz/hotreload/pkg/journal"
	"github.com/ayazhafiz/hotreload/pkg/journal/retention"
	"github.com/ayazhafiz/hotreload/pkg/reload"
	"github.com/ayazhafiz/hotreload/pkg/reload/dl"
	"github.com/ayazhafiz/hotreload/pkg/reload/lockfile"
	"github.com/ayazhafiz/hotreload/pkg/telemetry/health"
	"github.com/ayazhafiz/hotreload/pkg/telemetry/logging"
	"github.com/ayazhafiz/hotreload/pkg/telemetry/metrics"
	"github.com/ayazhafiz/hotreload/pkg/telemetry/tracing"
)

// moduleFunc is the symbol contract the supervisor hosts: a niladic function
// returning int32. Arbitrary signatures are a library-level feature; the CLI
// pins one shape so `poll.invoke` can call whatever it loads.
type moduleFunc = func() int32

var runFlags struct {
	listenAddress string
	logLevel      string
	dryRun        bool
}

var runCmd = &cobra.Command{
	Use:   "run",
	Short: "Supervise the configured artifact",
	Long: `Start the reload supervisor for the configured artifact.

The supervisor polls the artifact's modification time and swaps in each new
build, skipping any poll that finds the pipeline's rebuild lock held. Metrics,
health, and status endpoints are served on the admin listen address.

Examples:
  # Supervise with default config
  hotreload run

  # Supervise with custom config
  hotreload run --config /etc/hotreload/config.yaml

  # Override the admin listen address
  hotreload run --listen 0.0.0.0:9187

  # Validate config without starting the supervisor
  hotreload run --dry-run`,
	RunE: runSupervisor,
}

func init() {
	rootCmd.AddCommand(runCmd)

	runCmd.Flags().StringVarP(&runFlags.listenAddress, "listen", "l", "", "override admin listen address")
	runCmd.Flags().StringVar(&runFlags.logLevel, "log-level", "", "override log level (debug, info, warn, error)")
	runCmd.Flags().BoolVar(&runFlags.dryRun, "dry-run", false, "validate config without starting the supervisor")
}

func runSupervisor(cmd *cobra.Command, args []string) error {
	// Load configuration
	cfg, err := config.LoadConfigWithEnvOverrides(cfgFile)
	if err != nil {
		return cli.NewConfigError("", fmt.Sprintf("failed to load config: %v", err))
	}

	// Apply flag overrides
	if runFlags.listenAddress != "" {
		cfg.Telemetry.Metrics.ListenAddress = runFlags.listenAddress
	}
	if runFlags.logLevel != "" {
		cfg.Telemetry.Logging.Level = runFlags.logLevel
	}
	if verbose {
		cfg.Telemetry.Logging.Level = "debug"
	}

	// Initialize logging based on config
	logger, err := logging.New(&cfg.Telemetry.Logging, nil)
	if err != nil {
		return cli.NewConfigError("telemetry.logging", err.Error())
	}
	slog.SetDefault(logger)

	if runFlags.dryRun {
		fmt.Println("✓ Configuration valid")
		return nil
	}

	// Print startup banner
	printBanner(cfg)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	// Metrics collector; recording is a no-op when metrics are disabled
	collector := metrics.NewCollector(&cfg.Telemetry.Metrics, nil)

	// Trace exporter
	tracer, err := tracing.New(&cfg.Telemetry.Tracing)
	if err != nil {
		return cli.NewConfigError("telemetry.tracing", err.Error())
	}
	defer func() {
		shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer shutdownCancel()
		if err := tracer.Shutdown(shutdownCtx); err != nil {
			logger.Error("tracer shutdown failed", "error", err)
		}
	}()
	if tracer.Enabled() {
		fmt.Println("✓ Trace exporter initialized")
	}

	// Reload journal (if enabled)
	var journalStore journal.Storage
	var recorder *journal.Recorder
	if cfg.Journal.Enabled {
		logger.Info("initializing reload journal", "backend", cfg.Journal.Backend)

		journalStore, err = openJournalStorage(cfg)
		if err != nil {
			return cli.NewCommandError("run", err)
		}
		defer journalStore.Close()

		recorder = journal.NewRecorder(journalStore, &journal.RecorderConfig{
			Buffer: cfg.Journal.Buffer,
		})
		defer recorder.Close()
		collector.RegisterJournalDepth(recorder.Depth)

		// Start retention pruning if a schedule is configured
		if cfg.Journal.Retention.Schedule != "" {
			pruner := retention.NewPruner(journalStore, &retention.Config{
				MaxAge:     cfg.Journal.Retention.MaxAge,
				MaxRecords: cfg.Journal.Retention.MaxRecords,
				Schedule:   cfg.Journal.Retention.Schedule,
			})
			if err := pruner.Start(ctx); err != nil {
				logger.Warn("failed to start journal retention scheduler", "error", err)
			} else {
				defer pruner.Stop()
				if next := pruner.NextPruning(); next != nil {
					logger.Debug("journal retention scheduler started", "next_pruning", next)
				}
			}
		}

		fmt.Println("✓ Reload journal initialized")
	}

	// Lock probe per the configured mode
	probe, err := buildLockProbe(cfg)
	if err != nil {
		return cli.NewConfigError("controller.lock_mode", err.Error())
	}

	// Reload controller over the platform dynamic linker. The event hook fans
	// each attempt out to metrics, the journal, and the trace exporter; none
	// of them may block the poll goroutine.
	ctrl, err := reload.New[moduleFunc](dl.Opener{}, &reload.Config{
		ArtifactPath:    cfg.Controller.ArtifactPath,
		WorkingCopyPath: cfg.Controller.WorkingCopyPath,
		LockPath:        cfg.Controller.LockPath,
		Symbol:          cfg.Controller.Symbol,
		Probe:           probe,
		OnEvent: func(ev reload.Event) {
			collector.RecordReload(string(ev.Outcome), ev.Duration)
			if ev.Outcome == reload.OutcomeLoaded {
				collector.SetModule(ev.Generation, ev.ArtifactMtime)
			}

			if recorder != nil {
				if recorder.Record(ev) {
					collector.RecordJournalRecord(string(ev.Outcome))
				} else {
					collector.RecordJournalDrop()
				}
			}

			if tracer.Enabled() {
				end := time.Now()
				tracer.RecordReload(ctx, tracing.ReloadSpan{
					Outcome:      string(ev.Outcome),
					Symbol:       ev.Symbol,
					ArtifactPath: ev.ArtifactPath,
					Generation:   ev.Generation,
					Start:        end.Add(-ev.Duration),
					End:          end,
					Err:          ev.Err,
				})
			}
		},
	}, logging.WithComponent(logger, "reload.controller"))
	if err != nil {
		return cli.NewCommandError("run", err)
	}
	defer func() {
		if err := ctrl.Close(); err != nil {
			logger.Error("failed to close controller", "error", err)
		}
	}()

	// Poller owns the controller; everyone else reads through Latest.
	var poller *reload.Poller[moduleFunc]
	poller = reload.NewPoller(ctrl, &reload.PollerConfig{
		Interval: cfg.Poll.Interval,
		OnPublish: func(generation uint64) {
			if !cfg.Poll.Invoke {
				return
			}
			fn, ok := poller.Latest()
			if !ok {
				return
			}
			result := fn()
			logger.Info("invoked module symbol",
				"symbol", cfg.Controller.Symbol,
				"generation", generation,
				"result", result,
			)
		},
		OnCycle: func(err error) {
			// A held lock before the first load is routine, not a cycle error.
			result := "ok"
			if err != nil && !errors.Is(err, reload.ErrNotLoaded) {
				result = "error"
			}
			collector.RecordPollCycle(result)
		},
	}, logging.WithComponent(logger, "reload.poller"))

	// Admin HTTP endpoints: metrics, health, status
	adminSrv := buildAdminServer(cfg, collector, poller, journalStore)

	// Start the poll loop
	pollErrChan := make(chan error, 1)
	go func() {
		pollErrChan <- poller.Run(ctx)
	}()

	// Start the admin server
	httpErrChan := make(chan error, 1)
	go func() {
		logger.Info("admin server listening", "address", adminSrv.Addr)
		if err := adminSrv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			httpErrChan <- fmt.Errorf("admin server error: %w", err)
		}
	}()

	fmt.Println()
	fmt.Printf("✓ Supervising %s (symbol %s)\n", cfg.Controller.ArtifactPath, cfg.Controller.Symbol)
	fmt.Printf("✓ Admin endpoints: http://%s\n", adminSrv.Addr)
	fmt.Println("\nPress Ctrl+C to stop")

	// Wait for a shutdown signal, a fatal reload failure, or an admin server
	// error. A controller abort is terminal: exiting lets the process
	// supervisor restart us with a fresh controller, which can load whatever
	// artifact is current by then.
	sigChan := cli.WaitForShutdown()

	var runErr error
	pollDone := false
	select {
	case err := <-pollErrChan:
		pollDone = true
		if err != nil {
			runErr = cli.NewCommandError("run", err)
		}
	case err := <-httpErrChan:
		runErr = cli.NewCommandError("run", err)
	case sig := <-sigChan:
		fmt.Printf("\nReceived signal %s, shutting down gracefully...\n", sig)
	}

	// Stop the poll loop and wait for it to exit; the controller must not be
	// closed while a cycle is still running.
	cancel()
	if !pollDone {
		if err := <-pollErrChan; err != nil && runErr == nil {
			runErr = cli.NewCommandError("run", err)
		}
	}

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer shutdownCancel()
	if err := adminSrv.Shutdown(shutdownCtx); err != nil {
		logger.Error("admin server shutdown failed", "error", err)
	}

	if runErr != nil {
		return runErr
	}
	fmt.Println("✓ Supervisor stopped")
	return nil
}

// buildLockProbe returns the lock probe for the configured lock mode.
func buildLockProbe(cfg *config.Config) (reload.LockProbe, error) {
	switch cfg.Controller.LockMode {
	case "marker", "":
		return lockfile.MarkerProbe{Path: cfg.Controller.LockPath}, nil
	case "flock":
		return lockfile.FlockProbe{Path: cfg.Controller.LockPath}, nil
	default:
		return nil, fmt.Errorf("unknown lock mode %q (valid: marker, flock)", cfg.Controller.LockMode)
	}
}

// buildAdminServer assembles the admin mux: Prometheus metrics when enabled,
// liveness/readiness/version endpoints, and a JSON status snapshot.
func buildAdminServer(cfg *config.Config, collector *metrics.Collector, poller *reload.Poller[moduleFunc], journalStore journal.Storage) *http.Server {
	mux := http.NewServeMux()

	if cfg.Telemetry.Metrics.Enabled {
		mux.Handle(cfg.Telemetry.Metrics.Path, collector.Handler())
	}

	checker := health.New(0)
	checker.RegisterCheck("module", func(ctx context.Context) error {
		if _, ok := poller.Latest(); !ok {
			return fmt.Errorf("no module generation published yet")
		}
		return nil
	})
	checker.RegisterCheck("artifact", func(ctx context.Context) error {
		if _, err := os.Stat(cfg.Controller.ArtifactPath); err != nil {
			return fmt.Errorf("artifact not statable: %w", err)
		}
		return nil
	})
	if journalStore != nil {
		checker.RegisterCheck("journal", func(ctx context.Context) error {
			_, err := journalStore.CountRecords(ctx, nil)
			return err
		})
	}
	health.Mount(mux, checker, Version, GitCommit, BuildDate)

	mux.HandleFunc("/status", func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodGet {
			http.Error(w, "method not allowed", http.StatusMethodNotAllowed)
			return
		}
		status := struct {
			Symbol       string              `json:"symbol"`
			ArtifactPath string              `json:"artifact_path"`
			Poller       reload.PollerStatus `json:"poller"`
		}{
			Symbol:       cfg.Controller.Symbol,
			ArtifactPath: cfg.Controller.ArtifactPath,
			Poller:       poller.Status(),
		}
		w.Header().Set("Content-Type", "application/json")
		if err := json.NewEncoder(w).Encode(status); err != nil {
			slog.Error("failed to encode status response", "error", err)
		}
	})

	return &http.Server{
		Addr:              cfg.Telemetry.Metrics.ListenAddress,
		Handler:           mux,
		ReadHeaderTimeout: 5 * time.Second,
	}
}

func printBanner(cfg *config.Config) {
	fmt.Printf("Hotreload v%s\n", Version)
	fmt.Printf("Loading configuration from: %s\n", cfgFile)
	fmt.Println("✓ Configuration loaded")

	slog.Debug("controller configured",
		"artifact", cfg.Controller.ArtifactPath,
		"symbol", cfg.Controller.Symbol,
		"lock_mode", cfg.Controller.LockMode,
		"interval", cfg.Poll.Interval,
	)
	if cfg.Journal.Enabled {
		slog.Debug("journal enabled", "backend", cfg.Journal.Backend)
	}
	if cfg.Telemetry.Tracing.Enabled {
		slog.Debug("tracing enabled", "endpoint", cfg.Telemetry.Tracing.Endpoint)
	}
}
