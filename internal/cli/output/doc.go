// Package output renders command results for famcheck-cli.
//
//   - formatter.go: Formatter interface and factory
//   - table.go: key/value and tabular rendering
//   - json.go, yaml.go: machine-readable output for scripting
package output
