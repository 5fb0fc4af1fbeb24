package config

import "time"

// CLIConfig is the configuration for minikv-cli.
type CLIConfig struct {
	// Server is the KV listener address.
	Server string `yaml:"server"`

	// Admin is the admin HTTP listener address used by `status`.
	Admin string `yaml:"admin"`

	// Output is raw, json or yaml.
	Output string `yaml:"output"`

	// Timeout bounds each command round trip.
	Timeout time.Duration `yaml:"timeout"`

	HistoryFile string `yaml:"history_file"`

	TLS TLSConfig `yaml:"tls"`
}

// TLSConfig controls TLS when dialing the server.
type TLSConfig struct {
	Enabled            bool   `yaml:"enabled"`
	CAFile             string `yaml:"ca_file"`
	ServerName         string `yaml:"server_name"`
	InsecureSkipVerify bool   `yaml:"insecure_skip_verify"`
}

// Defaults.
const (
	DefaultServer  = "127.0.0.1:6380"
	DefaultAdmin   = "127.0.0.1:9380"
	DefaultOutput  = "raw"
	DefaultTimeout = 10 * time.Second
)

// Default returns the default CLI configuration.
func Default() *CLIConfig {
	return &CLIConfig{
		Server:  DefaultServer,
		Admin:   DefaultAdmin,
		Output:  DefaultOutput,
		Timeout: DefaultTimeout,
	}
}
