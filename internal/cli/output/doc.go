// Package output renders minikv-cli results.
//
// Three formats are supported:
//
//   - raw: redis-cli style text; bulk payloads are written byte-for-byte
//   - json: indented JSON
//   - yaml: YAML via gopkg.in/yaml.v3
//
// Server replies are converted to Reply with FromFrame before formatting so
// every format sees the same structure.
package output
