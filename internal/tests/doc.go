// Package tests holds end-to-end tests that run the KV server, the
// instrumented store and the client library together over loopback.
package tests
