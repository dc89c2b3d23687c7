package main

import (
	"context"
	"fmt"
	"os"
	"time"

	"github.com/spf13/cobra"

	"github.com/ayazhafiz/hotreload/pkg/cli"
	"github.com/ayazhafiz/hotreload/pkg/config"
	"github.com/ayazhafiz/hotreload/pkg/journal"
	"github.com/ayazhafiz/hotreload/pkg/journal/retention"
	"github.com/ayazhafiz/hotreload/pkg/journal/storage"
)

var journalFlags struct {
	backend string
	limit   int
	offset  int
	outcome string
	symbol  string
	since   string
	format  string
	output  string
}

var journalCmd = &cobra.Command{
	Use:   "journal",
	Short: "Inspect the reload journal",
	Long: `Query and maintain the reload journal.

The journal records one row per reload attempt: outcome, symbol, artifact
modification time, generation, duration, and any error. The journal commands
read the backend named in the configuration, whether or not recording is
currently enabled.

Subcommands:
  list   - List journal records with filters
  prune  - Apply the retention policy once

Examples:
  # Show the most recent attempts
  hotreload journal list

  # Show failures from the last day
  hotreload journal list --outcome failed --since 24h

  # Export to JSON
  hotreload journal list --format json --output journal.json

  # Prune old records now instead of waiting for the schedule
  hotreload journal prune`,
}

var journalListCmd = &cobra.Command{
	Use:   "list",
	Short: "List journal records",
	Long: `List reload journal records, newest first.

The --since filter accepts either a duration ("30m", "24h") measured back
from now, or an RFC3339 timestamp ("2026-08-01T00:00:00Z").

Examples:
  # Most recent attempts
  hotreload journal list

  # Failed attempts only
  hotreload journal list --outcome failed

  # Everything from the last hour for one symbol
  hotreload journal list --since 1h --symbol handle_request`,
	RunE: listJournal,
}

var journalPruneCmd = &cobra.Command{
	Use:   "prune",
	Short: "Apply the retention policy once",
	Long: `Delete journal records according to the configured retention policy.

This runs the same pruning pass the scheduler runs, immediately and exactly
once: records older than retention.max_age are deleted, then the oldest
surviving records beyond retention.max_records.`,
	RunE: pruneJournal,
}

func init() {
	rootCmd.AddCommand(journalCmd)
	journalCmd.AddCommand(journalListCmd, journalPruneCmd)

	journalListCmd.Flags().StringVar(&journalFlags.backend, "backend", "", "backend: sqlite, memory (uses config if not specified)")
	journalListCmd.Flags().IntVar(&journalFlags.limit, "limit", 100, "max results")
	journalListCmd.Flags().IntVar(&journalFlags.offset, "offset", 0, "pagination offset")
	journalListCmd.Flags().StringVar(&journalFlags.outcome, "outcome", "", "filter by outcome (loaded, lock_skip, failed)")
	journalListCmd.Flags().StringVar(&journalFlags.symbol, "symbol", "", "filter by symbol")
	journalListCmd.Flags().StringVar(&journalFlags.since, "since", "", "only records after this point (duration or RFC3339)")
	journalListCmd.Flags().StringVar(&journalFlags.format, "format", "text", "output format: text, json")
	journalListCmd.Flags().StringVarP(&journalFlags.output, "output", "o", "", "output file (default: stdout)")

	journalPruneCmd.Flags().StringVar(&journalFlags.backend, "backend", "", "backend: sqlite, memory (uses config if not specified)")
}

// openJournalStorage opens the journal backend named in the configuration.
// Shared by the supervisor and the journal commands.
func openJournalStorage(cfg *config.Config) (journal.Storage, error) {
	switch cfg.Journal.Backend {
	case "sqlite":
		return storage.NewSQLiteStorage(&storage.SQLiteConfig{
			Path: cfg.Journal.Path,
		})
	case "memory":
		return storage.NewMemoryStorage(), nil
	default:
		return nil, fmt.Errorf("unsupported journal backend: %s (supported: sqlite, memory)", cfg.Journal.Backend)
	}
}

func listJournal(cmd *cobra.Command, args []string) error {
	cfg, err := config.LoadConfigWithEnvOverrides(cfgFile)
	if err != nil {
		return cli.NewConfigError("", fmt.Sprintf("failed to load config: %v", err))
	}
	if journalFlags.backend != "" {
		cfg.Journal.Backend = journalFlags.backend
	}

	store, err := openJournalStorage(cfg)
	if err != nil {
		return cli.NewCommandError("journal", err)
	}
	defer store.Close()

	filter := &journal.QueryFilter{
		Outcome: journalFlags.outcome,
		Symbol:  journalFlags.symbol,
		Limit:   journalFlags.limit,
		Offset:  journalFlags.offset,
	}
	if journalFlags.since != "" {
		since, err := parseSince(journalFlags.since)
		if err != nil {
			return fmt.Errorf("invalid --since value: %w", err)
		}
		filter.Since = &since
	}

	ctx := context.Background()
	records, err := store.QueryRecords(ctx, filter)
	if err != nil {
		return cli.NewCommandError("journal", fmt.Errorf("query failed: %w", err))
	}
	total, err := store.CountRecords(ctx, filter)
	if err != nil {
		return cli.NewCommandError("journal", fmt.Errorf("count failed: %w", err))
	}

	output := os.Stdout
	if journalFlags.output != "" {
		output, err = os.Create(journalFlags.output)
		if err != nil {
			return fmt.Errorf("failed to create output file: %w", err)
		}
		defer output.Close()
	}

	switch journalFlags.format {
	case "json":
		formatter := cli.NewFormatter(cli.FormatJSON)
		return formatter.FormatTo(output, map[string]interface{}{
			"total_records": total,
			"records":       records,
		})
	default:
		return outputJournalText(output, records, total)
	}
}

func outputJournalText(output *os.File, records []*journal.Record, total int64) error {
	fmt.Fprintf(output, "Total records: %d\n", total)
	fmt.Fprintln(output)

	if len(records) == 0 {
		fmt.Fprintln(output, "No records found.")
		return nil
	}

	for i, record := range records {
		if i > 0 {
			fmt.Fprintln(output)
		}

		fmt.Fprintf(output, "Record ID: %s\n", record.ID)
		fmt.Fprintf(output, "Timestamp: %s\n", record.Timestamp.Format(time.RFC3339))
		fmt.Fprintf(output, "Outcome: %s\n", record.Outcome)
		fmt.Fprintf(output, "Symbol: %s\n", record.Symbol)
		fmt.Fprintf(output, "Artifact: %s (mtime %s)\n", record.ArtifactPath, record.ArtifactMtime.Format(time.RFC3339))
		fmt.Fprintf(output, "Generation: %d\n", record.Generation)
		fmt.Fprintf(output, "Duration: %s\n", record.Duration)
		if record.Error != "" {
			fmt.Fprintf(output, "Error: %s\n", record.Error)
		}

		// Show limited output for large result sets
		if i >= 9 && len(records) > 10 {
			remaining := len(records) - 10
			fmt.Fprintln(output)
			fmt.Fprintf(output, "... and %d more records\n", remaining)
			fmt.Fprintf(output, "Use --limit and --offset for pagination.\n")
			break
		}
	}

	return nil
}

func pruneJournal(cmd *cobra.Command, args []string) error {
	cfg, err := config.LoadConfigWithEnvOverrides(cfgFile)
	if err != nil {
		return cli.NewConfigError("", fmt.Sprintf("failed to load config: %v", err))
	}
	if journalFlags.backend != "" {
		cfg.Journal.Backend = journalFlags.backend
	}

	store, err := openJournalStorage(cfg)
	if err != nil {
		return cli.NewCommandError("journal", err)
	}
	defer store.Close()

	pruner := retention.NewPruner(store, &retention.Config{
		MaxAge:     cfg.Journal.Retention.MaxAge,
		MaxRecords: cfg.Journal.Retention.MaxRecords,
	})

	deleted, err := pruner.Prune(context.Background())
	if err != nil {
		return cli.NewCommandError("journal", err)
	}

	fmt.Printf("✓ Pruned %d records\n", deleted)
	return nil
}

// parseSince parses a --since value as either a duration back from now or an
// absolute RFC3339 timestamp.
func parseSince(value string) (time.Time, error) {
	if d, err := time.ParseDuration(value); err == nil {
		return time.Now().Add(-d), nil
	}
	t, err := time.Parse(time.RFC3339, value)
	if err != nil {
		return time.Time{}, fmt.Errorf("%q is neither a duration nor an RFC3339 timestamp", value)
	}
	return t, nil
}
