package memory

import (
	"github.com/yndnr/minikv-go/internal/storage"
	"github.com/yndnr/minikv-go/pkg/cmap"
)

// Store is the shared in-memory keyspace.
type Store struct {
	data *cmap.Map[[]byte]
}

// Compile-time check to ensure Store implements storage.KV.
var _ storage.KV = (*Store)(nil)

// Option configures the Store.
type Option func(*options)

type options struct {
	shards int
}

// WithShardCount sets the number of lock shards. One shard serializes
// every operation behind a single lock.
func WithShardCount(n int) Option {
	return func(o *options) {
		o.shards = n
	}
}

// New creates an empty store.
func New(opts ...Option) *Store {
	o := options{shards: cmap.DefaultShardCount}
	for _, opt := range opts {
		opt(&o)
	}
	return &Store{
		data: cmap.New[[]byte](cmap.WithShardCount(o.shards)),
	}
}

// Get returns the current value for key, or false if the key was never set.
func (s *Store) Get(key []byte) ([]byte, bool) {
	return s.data.Get(string(key))
}

// Set inserts or replaces the value for key.
func (s *Store) Set(key, value []byte) {
	v := make([]byte, len(value))
	copy(v, value)
	s.data.Set(string(key), v)
}

// Len returns the number of keys.
func (s *Store) Len() int {
	return s.data.Len()
}

// ShardCount returns the number of lock shards in use.
func (s *Store) ShardCount() int {
	return s.data.ShardCount()
}
