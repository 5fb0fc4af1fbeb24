// Package confloader loads layered configuration with koanf.
//
// Priority (highest to lowest):
//
//  1. Command-line flags (LoadMap)
//  2. Environment variables (MINIKV_ prefix, "__" between levels)
//  3. YAML configuration file
//  4. Defaults already present in the target struct
//
// Watcher reports changes to the configuration file so the server can
// re-apply settings that are safe to change at runtime.
package confloader
