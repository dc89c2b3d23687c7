// Package logging builds the daemon's structured loggers on top of log/slog.
//
// New turns a config.LoggingConfig into a *slog.Logger with the configured
// level, format, and source annotation. Components receive children of that
// logger via WithComponent, so every log line carries a "component" attribute
// identifying its origin:
//
//	logger, err := logging.New(&cfg.Telemetry.Logging, nil)
//	if err != nil {
//		return err
//	}
//	slog.SetDefault(logger)
//
//	ctrl, err := reload.New(loader, rcfg, logging.WithComponent(logger, "reload.controller"))
package logging
