package storage

// KV is a concurrent byte-string keyspace.
//
// Implementations must be safe for concurrent use. Set must not retain the
// caller's key or value slices, and Get must return a value the caller may
// read but not modify.
type KV interface {
	// Get returns the value stored at key and whether it was present.
	Get(key []byte) ([]byte, bool)

	// Set stores value at key, replacing any previous value.
	Set(key, value []byte)

	// Len returns the number of keys.
	Len() int
}
