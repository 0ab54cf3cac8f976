// Package config provides CLI configuration for famcheck.
//
//   - spec.go: CLIConfig struct (~/.famcheck/cli.yaml)
//   - loader.go: loading (defaults, file, FAMCHECK_* env, flags) and saving
package config
