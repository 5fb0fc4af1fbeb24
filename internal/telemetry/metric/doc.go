// Package metric provides Prometheus metrics for minikv.
//
// Registry owns a private prometheus.Registry (plus Go runtime and process
// collectors) and the server's metric families:
//
//   - connection gauges and counters (accepted, rejected, active)
//   - protocol error counters
//   - per-command counters and latency histograms
//   - keyspace operation counters and the key count gauge
//
// All Record*/Inc*/Observe* helpers are safe to call on a nil *Registry,
// which lets tests and embedders run components without metrics.
//
// Metrics are exposed at /metrics in Prometheus text format by the admin server.
package metric
