// Package cmap provides a sharded concurrent map keyed by string.
//
// Keys are spread over a power-of-two number of shards by their murmur3
// hash. Every shard has its own RWMutex, so single-key operations hold
// exactly one shard lock and never observe a half-applied write:
//
//	m := cmap.New[[]byte](cmap.WithShardCount(32))
//	m.Set("key", value)
//	v, ok := m.Get("key")
//
// A map with one shard behaves like a plain map behind a single mutex.
package cmap
