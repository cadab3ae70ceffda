// Package confloader provides configuration loading mechanism.
//
// This package implements a configuration loader on top of koanf:
//
//   - Multiple Sources: YAML files, environment variables, maps
//   - Watch Support: fsnotify-based notification on config file changes
//   - Type Safety: unmarshaling into typed structs
//   - Defaults: fields already set on the target survive missing keys
//
// Priority (highest to lowest):
//
//  1. Command-line flags (via LoadMap)
//  2. Environment variables (PRINTLINK_ prefix)
//  3. Configuration files
//  4. Default values
package confloader
