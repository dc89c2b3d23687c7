// Hotreload supervises a compiled module and swaps it into the running
// process whenever the build pipeline publishes a new artifact.
//
// It polls the artifact's modification time, honors the pipeline's rebuild
// lock, and keeps exactly one generation of the module mapped at a time:
//   - Poll-based change detection (no filesystem watchers)
//   - Private working copy, so the pipeline can rewrite the artifact freely
//   - Reload audit journal with retention
//   - Prometheus metrics, health endpoints, and per-reload trace spans
//
// Usage:
//
//	# Supervise the configured artifact
//	hotreload run
//
//	# Supervise with a custom configuration file
//	hotreload run --config /path/to/config.yaml
//
//	# Load the artifact once and report the outcome
//	hotreload check
//
//	# Inspect the reload journal
//	hotreload journal list --since 24h
//
//	# Show version information
//	hotreload version
//
// For complete documentation, see: https://github.com/ayazhafiz/hotreload
package main

func main() {
	Execute()
}
