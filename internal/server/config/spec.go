package config

import "time"

// ServerConfig is the root configuration for minikv-server.
type ServerConfig struct {
	Server ServerSection `koanf:"server"`
	Store  StoreSection  `koanf:"store"`
	Log    LogSection    `koanf:"log"`
}

// ServerSection configures server endpoints.
type ServerSection struct {
	KV    KVConfig    `koanf:"kv"`
	Admin AdminConfig `koanf:"admin"`
}

// KVConfig configures the key-value protocol listener.
type KVConfig struct {
	Addr        string `koanf:"addr"`
	TLSAddr     string `koanf:"tls_addr"`
	TLSCertFile string `koanf:"tls_cert_file"`
	TLSKeyFile  string `koanf:"tls_key_file"`

	// MaxConnections of zero means unbounded.
	MaxConnections int `koanf:"max_connections"`

	// Timeouts of zero disable the corresponding deadline.
	IdleTimeout  time.Duration `koanf:"idle_timeout"`
	ReadTimeout  time.Duration `koanf:"read_timeout"`
	WriteTimeout time.Duration `koanf:"write_timeout"`

	// RateLimit is commands per second per connection; zero disables it.
	RateLimit int `koanf:"rate_limit"`

	MaxBulkLen  int `koanf:"max_bulk_len"`
	MaxArrayLen int `koanf:"max_array_len"`
}

// AdminConfig configures the admin HTTP server.
type AdminConfig struct {
	Enabled bool   `koanf:"enabled"`
	Addr    string `koanf:"addr"`
}

// StoreSection configures the in-memory keyspace.
type StoreSection struct {
	// Shards must be a power of two. One shard serializes all access.
	Shards int `koanf:"shards"`
}

// LogSection configures logging.
type LogSection struct {
	Level  string `koanf:"level"`
	Format string `koanf:"format"`
}
