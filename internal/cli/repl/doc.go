// Package repl provides the interactive mode of minikv-cli.
//
// Lines are split with shell quoting rules (github.com/google/shlex), so
// values containing spaces can be written as SET k "hello world". Each line
// is handed to an Executor and the result rendered with an output.Formatter.
// History is kept in memory and persisted to a file between sessions.
package repl
