// Package config loads and validates runtime configuration for game-host.
//
// Configuration is read from `config/config.yaml` and can be overridden via
// environment variables prefixed with `GH_` (see `internal/config/config.go`
// for keys).
package config
