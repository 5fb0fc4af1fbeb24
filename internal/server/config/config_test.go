package config

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"
)

func TestDefault(t *testing.T) {
	cfg := Default()

	if cfg.Server.KV.Addr != DefaultKVAddr {
		t.Errorf("KV.Addr = %q, want %q", cfg.Server.KV.Addr, DefaultKVAddr)
	}
	if cfg.Server.KV.TLSAddr != "" {
		t.Error("TLS listener should be disabled by default")
	}
	if cfg.Server.KV.MaxConnections != 0 {
		t.Errorf("MaxConnections = %d, want unbounded", cfg.Server.KV.MaxConnections)
	}
	if cfg.Server.KV.IdleTimeout != DefaultIdleTimeout {
		t.Errorf("IdleTimeout = %v, want %v", cfg.Server.KV.IdleTimeout, DefaultIdleTimeout)
	}
	if !cfg.Server.Admin.Enabled || cfg.Server.Admin.Addr != DefaultAdminAddr {
		t.Errorf("Admin = %+v", cfg.Server.Admin)
	}
	if cfg.Store.Shards != DefaultShards {
		t.Errorf("Shards = %d, want %d", cfg.Store.Shards, DefaultShards)
	}
	if cfg.Log.Level != DefaultLogLevel || cfg.Log.Format != DefaultLogFormat {
		t.Errorf("Log = %+v", cfg.Log)
	}

	if err := Verify(cfg); err != nil {
		t.Errorf("Verify(Default()) = %v", err)
	}
}

func TestVerify(t *testing.T) {
	dir := t.TempDir()
	certFile := filepath.Join(dir, "cert.pem")
	keyFile := filepath.Join(dir, "key.pem")
	for _, f := range []string{certFile, keyFile} {
		if err := os.WriteFile(f, []byte("x"), 0o600); err != nil {
			t.Fatal(err)
		}
	}

	tests := []struct {
		name    string
		mutate  func(*ServerConfig)
		wantErr string
	}{
		{
			name:   "ephemeral ports",
			mutate: func(c *ServerConfig) { c.Server.KV.Addr = "127.0.0.1:0"; c.Server.Admin.Addr = "localhost:0" },
		},
		{
			name: "tls listener",
			mutate: func(c *ServerConfig) {
				c.Server.KV.TLSAddr = "127.0.0.1:6381"
				c.Server.KV.TLSCertFile = certFile
				c.Server.KV.TLSKeyFile = keyFile
			},
		},
		{
			name:   "tls only",
			mutate: func(c *ServerConfig) { c.Server.KV.Addr = ""; c.Server.KV.TLSAddr = ":6381"; c.Server.KV.TLSCertFile = certFile; c.Server.KV.TLSKeyFile = keyFile },
		},
		{
			name:   "admin disabled ignores address",
			mutate: func(c *ServerConfig) { c.Server.Admin.Enabled = false; c.Server.Admin.Addr = "" },
		},
		{
			name:   "single shard",
			mutate: func(c *ServerConfig) { c.Store.Shards = 1 },
		},
		{
			name:    "no listener",
			mutate:  func(c *ServerConfig) { c.Server.KV.Addr = "" },
			wantErr: "addr or tls_addr is required",
		},
		{
			name:    "bad kv address",
			mutate:  func(c *ServerConfig) { c.Server.KV.Addr = "6380" },
			wantErr: "server.kv.addr",
		},
		{
			name:    "bad host",
			mutate:  func(c *ServerConfig) { c.Server.KV.Addr = "bad host:6380" },
			wantErr: "invalid host",
		},
		{
			name:    "tls without files",
			mutate:  func(c *ServerConfig) { c.Server.KV.TLSAddr = "127.0.0.1:6381" },
			wantErr: "requires tls_cert_file and tls_key_file",
		},
		{
			name: "tls file missing",
			mutate: func(c *ServerConfig) {
				c.Server.KV.TLSAddr = "127.0.0.1:6381"
				c.Server.KV.TLSCertFile = certFile
				c.Server.KV.TLSKeyFile = filepath.Join(dir, "absent.pem")
			},
			wantErr: "server.kv.tls_key_file",
		},
		{
			name:    "tls files without address",
			mutate:  func(c *ServerConfig) { c.Server.KV.TLSCertFile = certFile },
			wantErr: "set without tls_addr",
		},
		{
			name:    "negative max connections",
			mutate:  func(c *ServerConfig) { c.Server.KV.MaxConnections = -1 },
			wantErr: "max_connections must not be negative",
		},
		{
			name:    "negative timeout",
			mutate:  func(c *ServerConfig) { c.Server.KV.ReadTimeout = -time.Second },
			wantErr: "read_timeout must not be negative",
		},
		{
			name:    "zero bulk limit",
			mutate:  func(c *ServerConfig) { c.Server.KV.MaxBulkLen = 0 },
			wantErr: "max_bulk_len",
		},
		{
			name:    "admin conflicts with kv",
			mutate:  func(c *ServerConfig) { c.Server.Admin.Addr = c.Server.KV.Addr },
			wantErr: "conflicts",
		},
		{
			name:    "shards not power of two",
			mutate:  func(c *ServerConfig) { c.Store.Shards = 12 },
			wantErr: "power of two",
		},
		{
			name:    "unknown log level",
			mutate:  func(c *ServerConfig) { c.Log.Level = "verbose" },
			wantErr: "log.level",
		},
		{
			name:    "unknown log format",
			mutate:  func(c *ServerConfig) { c.Log.Format = "xml" },
			wantErr: "log.format",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := Default()
			tt.mutate(cfg)
			err := Verify(cfg)

			if tt.wantErr == "" {
				if err != nil {
					t.Errorf("Verify() = %v, want nil", err)
				}
				return
			}
			if err == nil || !strings.Contains(err.Error(), tt.wantErr) {
				t.Errorf("Verify() = %v, want error containing %q", err, tt.wantErr)
			}
		})
	}
}

func TestVerify_ReportsAllProblems(t *testing.T) {
	cfg := Default()
	cfg.Store.Shards = 3
	cfg.Log.Level = "loud"

	err := Verify(cfg)
	if err == nil {
		t.Fatal("Verify() = nil")
	}
	for _, want := range []string{"store.shards", "log.level"} {
		if !strings.Contains(err.Error(), want) {
			t.Errorf("error %q missing %q", err, want)
		}
	}
}

func TestVerify_Nil(t *testing.T) {
	if err := Verify(nil); err == nil {
		t.Error("Verify(nil) should fail")
	}
}
