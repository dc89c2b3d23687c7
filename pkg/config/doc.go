// Package config defines the configuration model for the hotreload daemon
// and provides loading, defaulting, environment override, and validation.
//
// Configuration is YAML on disk. The loading sequence is:
//
//  1. Read and parse the YAML file
//  2. Apply default values for unset fields
//  3. Apply HOTRELOAD_SECTION_FIELD environment overrides
//  4. Validate the final configuration
//
// Environment variables always win over file values, so a deployment can
// pin, say, HOTRELOAD_CONTROLLER_ARTIFACT_PATH without editing the file.
package config
