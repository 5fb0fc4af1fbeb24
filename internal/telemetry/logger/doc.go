// Package logger provides structured logging for minikv.
//
// The implementation is built on log/slog:
//
//   - logger.go: Logger interface, construction and the shared level
//   - context.go: Context propagation of loggers and connection IDs
//   - redact.go: Redaction of stored values and secrets
//
// The level is process-wide and can be changed at runtime with SetLevel,
// which the server wires to configuration reloads.
package logger
