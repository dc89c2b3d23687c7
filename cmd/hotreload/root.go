package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
)

var (
	// Global flags
	cfgFile string
	verbose bool
)

var rootCmd = &cobra.Command{
	Use:   "hotreload",
	Short: "Hotreload - live module reload supervisor",
	Long: `Hotreload keeps a compiled module loaded in the running process and
swaps in each new build the moment the pipeline publishes it.

It polls the artifact's modification time, honors the pipeline's rebuild
lock, and keeps exactly one generation mapped at a time:
  - Poll-based change detection (no filesystem watchers)
  - Private working copy, so the pipeline can rewrite the artifact freely
  - Reload audit journal with retention
  - Prometheus metrics, health endpoints, and per-reload trace spans

For more information, visit: https://github.com/ayazhafiz/hotreload`,
	Version: Version,
}

// Execute runs the root command.
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func init() {
	// Global persistent flags (available to all subcommands)
	rootCmd.PersistentFlags().StringVarP(&cfgFile, "config", "c", "config.yaml", "config file path")
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "verbose output")

	// Disable default completion command (we'll add our own)
	rootCmd.CompletionOptions.DisableDefaultCmd = false
}
