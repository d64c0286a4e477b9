// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

package config

import (
	"time"
)

// StructuredConfig is the top-level configuration container shared by the
// snapshot producer and the widget. It is populated by merging values from
// environment variables, command-line flags, and an optional JSON file.
//
// Struct tags:
//   - envPrefix: prefix applied to all nested env tag lookups (caarlos0/env).
//   - env: direct environment variable name for scalar fields.
type StructuredConfig struct {
	// Storage holds the shared container location and the key-value store.
	Storage Storage `envPrefix:"STORAGE_"`

	// Signal holds the location of the cross-process change beacons.
	Signal Signal `envPrefix:"SIGNAL_"`

	// Adapter holds the optional remote backend settings.
	Adapter Adapter `envPrefix:"ADAPTER_"`

	// Workers holds the consumer's background refresh settings.
	Workers Workers `envPrefix:"WORKERS_"`

	// JSONFilePath is the optional path to a JSON configuration file.
	// When non-empty, the file is parsed and merged on top of the values
	// already loaded from environment variables and flags.
	// Populated via the CONFIG environment variable or the -c / -config flag.
	JSONFilePath string `env:"CONFIG"`
}

// Storage groups the local persistence settings.
type Storage struct {
	// ContainerDir is the root of the shared container that both the
	// producer and every consumer can reach.
	// Env: STORAGE_CONTAINER_DIR
	ContainerDir string `env:"CONTAINER_DIR"`

	// KVDSN is the SQLite database path of the key-value mirror.
	// Defaults to <ContainerDir>/widget_kv.db.
	// Env: STORAGE_KV_DSN
	KVDSN string `env:"KV_DSN"`
}

// Signal holds the change-notification settings.
type Signal struct {
	// Dir is the directory holding beacon files.
	// Defaults to <ContainerDir>/Signals.
	// Env: SIGNAL_DIR
	Dir string `env:"DIR"`
}

// Adapter holds settings for the remote snapshot backend. The backend is
// disabled when RemoteURL is empty.
type Adapter struct {
	// RemoteURL is the base URL of the REST backend.
	// Env: ADAPTER_REMOTE_URL
	RemoteURL string `env:"REMOTE_URL"`

	// APIKey is sent in the apikey header on every request.
	// Env: ADAPTER_API_KEY
	APIKey string `env:"API_KEY"`

	// TokenFile is a file holding the current access token.
	// Env: ADAPTER_TOKEN_FILE
	TokenFile string `env:"TOKEN_FILE"`

	// RequestTimeout bounds one remote fetch (default 5s).
	// Env: ADAPTER_REQUEST_TIMEOUT
	RequestTimeout time.Duration `env:"REQUEST_TIMEOUT"`
}

// Workers holds configuration for background worker processes.
type Workers struct {
	// RefreshInterval is the periodic reload interval of the widget
	// (default 5m).
	// Env: WORKERS_REFRESH_INTERVAL
	RefreshInterval time.Duration `env:"REFRESH_INTERVAL"`
}

// GetStructuredConfig loads, merges, and validates the application
// configuration from all available sources in the following priority order
// (last source wins for non-zero fields):
//  1. Environment variables
//  2. Command-line flags parsed from args
//  3. JSON file (path resolved from sources 1 and 2)
//
// The positional arguments left after flag parsing are returned as well.
func GetStructuredConfig(args []string) (*StructuredConfig, []string, error) {
	b := newConfigBuilder().
		withEnv().
		withFlags(args).
		withJSON()

	cfg, err := b.build()
	return cfg, b.rest, err
}
