// Package config holds minikv-cli defaults read from ~/.minikv/cli.yaml.
//
// Command-line flags and MINIKV_* environment variables take precedence over
// the file; the file takes precedence over built-in defaults.
package config
