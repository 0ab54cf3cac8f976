// Package command provides CLI command definitions for famcheck-cli.
//
// This package defines all CLI commands using urfave/cli/v2:
//
//   - root.go: root command, global flags, per-invocation runtime
//   - auth.go: login, register, logout, whoami
//   - session.go: local session inspection
//   - config.go: configuration show/init
//   - version.go: build information
//
// Commands call the auth repository and drive the session manager: a
// successful login or registration persists the session, logout and an
// Unauthorized answer to an authenticated call clear it.
package command
