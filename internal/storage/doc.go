// Package storage defines the keyspace abstraction used by the server.
//
// KV is the narrow contract the connection handlers depend on. The memory
// subpackage provides the in-process sharded implementation; Instrumented
// wraps any KV with Prometheus metrics.
package storage
