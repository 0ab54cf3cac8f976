// Package logger provides structured logging for famcheck.
//
// It is a thin facade over log/slog:
//
//   - logger.go: Logger interface, JSON/text handlers, dynamic level
//   - context.go: context propagation of the logger and request ID
//   - redact.go: automatic redaction of credentials in log attributes
//
// Anything logged under a credential-looking key (token, password,
// authorization, secret) is masked, as is any "Bearer ..." value.
package logger
