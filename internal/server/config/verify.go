package config

import (
	"errors"
	"fmt"
	"net"
	"os"

	"github.com/yndnr/minikv-go/internal/telemetry/logger"
	"github.com/yndnr/minikv-go/pkg/cmap"
)

// Verify validates the configuration and returns every problem found.
func Verify(cfg *ServerConfig) error {
	if cfg == nil {
		return errors.New("config is nil")
	}
	return errors.Join(
		verifyKV(&cfg.Server.KV),
		verifyAdmin(&cfg.Server.Admin, &cfg.Server.KV),
		verifyStore(&cfg.Store),
		verifyLog(&cfg.Log),
	)
}

func verifyKV(cfg *KVConfig) error {
	var errs []error

	if cfg.Addr == "" && cfg.TLSAddr == "" {
		errs = append(errs, errors.New("server.kv: addr or tls_addr is required"))
	}
	if cfg.Addr != "" {
		if err := verifyAddr(cfg.Addr); err != nil {
			errs = append(errs, fmt.Errorf("server.kv.addr: %w", err))
		}
	}
	if cfg.TLSAddr != "" {
		if err := verifyAddr(cfg.TLSAddr); err != nil {
			errs = append(errs, fmt.Errorf("server.kv.tls_addr: %w", err))
		}
		if cfg.TLSCertFile == "" || cfg.TLSKeyFile == "" {
			errs = append(errs, errors.New("server.kv: tls_addr requires tls_cert_file and tls_key_file"))
		}
		for _, f := range []struct{ key, path string }{
			{"tls_cert_file", cfg.TLSCertFile},
			{"tls_key_file", cfg.TLSKeyFile},
		} {
			if f.path == "" {
				continue
			}
			if _, err := os.Stat(f.path); err != nil {
				errs = append(errs, fmt.Errorf("server.kv.%s: %w", f.key, err))
			}
		}
	} else if cfg.TLSCertFile != "" || cfg.TLSKeyFile != "" {
		errs = append(errs, errors.New("server.kv: tls_cert_file/tls_key_file set without tls_addr"))
	}
	if cfg.Addr != "" && cfg.Addr == cfg.TLSAddr {
		errs = append(errs, errors.New("server.kv: addr and tls_addr must differ"))
	}

	for _, n := range []struct {
		key string
		val int64
	}{
		{"max_connections", int64(cfg.MaxConnections)},
		{"rate_limit", int64(cfg.RateLimit)},
		{"idle_timeout", int64(cfg.IdleTimeout)},
		{"read_timeout", int64(cfg.ReadTimeout)},
		{"write_timeout", int64(cfg.WriteTimeout)},
	} {
		if n.val < 0 {
			errs = append(errs, fmt.Errorf("server.kv.%s must not be negative", n.key))
		}
	}
	if cfg.MaxBulkLen < 1 {
		errs = append(errs, errors.New("server.kv.max_bulk_len must be at least 1"))
	}
	if cfg.MaxArrayLen < 1 {
		errs = append(errs, errors.New("server.kv.max_array_len must be at least 1"))
	}

	return errors.Join(errs...)
}

func verifyAdmin(cfg *AdminConfig, kv *KVConfig) error {
	if !cfg.Enabled {
		return nil
	}
	if err := verifyAddr(cfg.Addr); err != nil {
		return fmt.Errorf("server.admin.addr: %w", err)
	}
	if cfg.Addr == kv.Addr || cfg.Addr == kv.TLSAddr {
		return errors.New("server.admin.addr conflicts with a kv listener")
	}
	return nil
}

func verifyStore(cfg *StoreSection) error {
	if !cmap.IsPowerOfTwo(cfg.Shards) {
		return fmt.Errorf("store.shards must be a power of two, got %d", cfg.Shards)
	}
	return nil
}

func verifyLog(cfg *LogSection) error {
	var errs []error
	if _, err := logger.ParseLevel(cfg.Level); err != nil {
		errs = append(errs, fmt.Errorf("log.level: %w", err))
	}
	if !logger.ValidFormat(cfg.Format) {
		errs = append(errs, fmt.Errorf("log.format: unknown format %q", cfg.Format))
	}
	return errors.Join(errs...)
}

func verifyAddr(addr string) error {
	host, port, err := net.SplitHostPort(addr)
	if err != nil {
		return err
	}
	if host != "" && net.ParseIP(host) == nil && !validHostname(host) {
		return fmt.Errorf("invalid host %q", host)
	}
	if port == "" {
		return errors.New("missing port")
	}
	return nil
}

func validHostname(h string) bool {
	if len(h) > 253 {
		return false
	}
	for _, c := range h {
		switch {
		case c >= 'a' && c <= 'z', c >= 'A' && c <= 'Z', c >= '0' && c <= '9', c == '-', c == '.':
		default:
			return false
		}
	}
	return true
}
