// Package main provides the entry point for famcheck-cli.
//
// The CLI drives the family checklist client core from a terminal:
//
//   - Account access (login, register, logout, whoami)
//   - Local session inspection and removal
//   - Configuration inspection and initialization
//
// Usage:
//
//	famcheck-cli [global flags] <command> [flags]
//	famcheck-cli login -u alice --password-stdin
//	famcheck-cli --env staging whoami -o json
package main
