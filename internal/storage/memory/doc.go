// Package memory provides the process-wide in-memory keyspace.
//
// Store maps byte-string keys to immutable byte-string values. It is built
// on the sharded map in pkg/cmap: every Get or Set holds exactly one shard
// lock for the duration of a single map operation, so writes to one key are
// totally ordered and a reader never sees a partially written value.
// Distinct keys in distinct shards never contend.
//
// Values are copied on Set. Callers may reuse their buffers immediately
// after Set returns; slices returned by Get must not be modified.
package memory
