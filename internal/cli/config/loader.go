package config

import (
	"crypto/tls"
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"gopkg.in/yaml.v3"

	"github.com/yndnr/minikv-go/internal/infra/tlsroots"
)

// DefaultConfigPath returns the default CLI config file path.
func DefaultConfigPath() string {
	homeDir, err := os.UserHomeDir()
	if err != nil {
		return ""
	}
	return filepath.Join(homeDir, ".minikv", "cli.yaml")
}

// Load reads path over the defaults. A missing file yields the defaults.
// An empty path means DefaultConfigPath.
func Load(path string) (*CLIConfig, error) {
	if path == "" {
		path = DefaultConfigPath()
	}

	cfg := Default()
	if path == "" {
		return cfg, nil
	}

	data, err := os.ReadFile(path)
	if errors.Is(err, os.ErrNotExist) {
		return cfg, nil
	}
	if err != nil {
		return nil, fmt.Errorf("read %s: %w", path, err)
	}

	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("parse %s: %w", path, err)
	}
	return cfg, nil
}

// Save writes cfg to path with owner-only permissions.
func Save(cfg *CLIConfig, path string) error {
	if path == "" {
		path = DefaultConfigPath()
	}
	if path == "" {
		return errors.New("no config path")
	}

	if err := os.MkdirAll(filepath.Dir(path), 0o700); err != nil {
		return err
	}

	data, err := yaml.Marshal(cfg)
	if err != nil {
		return fmt.Errorf("marshal config: %w", err)
	}
	return os.WriteFile(path, data, 0o600)
}

// ClientTLS builds the dial-side TLS configuration, or nil when disabled.
// A CA file replaces the system roots.
func (c TLSConfig) ClientTLS() (*tls.Config, error) {
	if !c.Enabled {
		return nil, nil
	}

	pool := tlsroots.NewPool()
	if c.CAFile != "" {
		pool = tlsroots.NewEmptyPool()
		if err := pool.AddCertFile(c.CAFile); err != nil {
			return nil, fmt.Errorf("load CA file: %w", err)
		}
	}

	tc := pool.ClientConfig(c.ServerName)
	tc.InsecureSkipVerify = c.InsecureSkipVerify //nolint:gosec
	return tc, nil
}
