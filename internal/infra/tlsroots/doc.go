// Package tlsroots provides TLS certificate handling for minikv.
//
//   - roots.go: trusted CA pools for clients dialing a TLS listener
//   - watcher.go: the server key pair, reloaded when its files change
package tlsroots
