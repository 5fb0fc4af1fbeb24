// Package main provides the entry point for minikv-server.
//
// The server provides:
//
//   - the key-value protocol listener (plain TCP and optional TLS)
//   - an admin HTTP listener with /health, /ready and Prometheus /metrics
//
// Usage:
//
//	minikv-server [flags]
//	minikv-server --config /etc/minikv/minikv.yaml --log-level debug
//
// Configuration is read from the file, then MINIKV_* environment variables
// (MINIKV_SERVER__KV__ADDR), then flags. Changes to log.level in the file are
// applied without restart.
package main
