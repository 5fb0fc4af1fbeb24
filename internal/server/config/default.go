package config

import (
	"time"

	"github.com/yndnr/minikv-go/pkg/resp"
)

// Default configuration values.
const (
	DefaultKVAddr    = "127.0.0.1:6380"
	DefaultAdminAddr = "127.0.0.1:9380"

	DefaultIdleTimeout  = 5 * time.Minute
	DefaultReadTimeout  = 30 * time.Second
	DefaultWriteTimeout = 30 * time.Second

	DefaultMaxBulkLen  = resp.DefaultMaxBulkLen
	DefaultMaxArrayLen = resp.DefaultMaxArrayLen

	DefaultShards = 16

	DefaultLogLevel  = "info"
	DefaultLogFormat = "json"
)

// Default returns the default server configuration.
func Default() *ServerConfig {
	return &ServerConfig{
		Server: ServerSection{
			KV: KVConfig{
				Addr:         DefaultKVAddr,
				IdleTimeout:  DefaultIdleTimeout,
				ReadTimeout:  DefaultReadTimeout,
				WriteTimeout: DefaultWriteTimeout,
				MaxBulkLen:   DefaultMaxBulkLen,
				MaxArrayLen:  DefaultMaxArrayLen,
			},
			Admin: AdminConfig{
				Enabled: true,
				Addr:    DefaultAdminAddr,
			},
		},
		Store: StoreSection{
			Shards: DefaultShards,
		},
		Log: LogSection{
			Level:  DefaultLogLevel,
			Format: DefaultLogFormat,
		},
	}
}
