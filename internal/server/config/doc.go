// Package config provides server configuration for minikv.
//
//   - spec.go: ServerConfig struct definition
//   - default.go: Default configuration values
//   - verify.go: Validation of addresses, limits and log settings
//
// Configuration is loaded via internal/infra/confloader from a YAML file,
// MINIKV_ environment variables and command-line flags.
package config
