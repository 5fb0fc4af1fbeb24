// Package handler provides the admin HTTP handlers for minikv.
//
//   - health.go: liveness and readiness checks
//   - types.go: the JSON response envelope
//
// /metrics is served directly by the Prometheus handler and does not use
// the envelope.
package handler
