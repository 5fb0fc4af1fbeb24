// Package main provides the entry point for minikv-cli.
//
// minikv-cli talks to minikv-server over the key-value protocol and the
// admin HTTP API, in single-command mode or as an interactive REPL.
//
// Usage:
//
//	minikv-cli get greeting
//	minikv-cli set greeting hello
//	minikv-cli --server 10.0.0.5:6380 ping
//	minikv-cli status
//	minikv-cli repl
package main
