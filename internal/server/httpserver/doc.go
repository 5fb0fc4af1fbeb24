// Package httpserver provides the admin HTTP server for minikv.
//
// Routes:
//
//   - GET /metrics: Prometheus exposition
//   - GET /health: liveness with basic server stats
//   - GET /ready: readiness of the KV listener
//
// Every route runs behind the RequestID, Recover and AccessLog middlewares.
package httpserver
