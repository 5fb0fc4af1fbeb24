// Package command provides the minikv-cli command tree.
//
// It uses urfave/cli/v2 for command parsing and supports both
// single-command mode (get, set, ping, status) and the interactive
// REPL mode (repl).
package command
