package config

import "errors"

// Validation errors returned when required configuration groups are
// incomplete or invalid.
var (
	// ErrInvalidAdapterConfigs indicates invalid remote adapter settings
	// (for example, a remote URL without an API key or token file).
	ErrInvalidAdapterConfigs = errors.New("invalid adapter configuration")
	// ErrInvalidStorageConfigs indicates invalid storage settings
	// (for example, no container directory or an in-memory DSN).
	ErrInvalidStorageConfigs = errors.New("invalid storage configuration")
	// ErrInvalidSignalConfigs indicates that no beacon directory could be
	// resolved.
	ErrInvalidSignalConfigs = errors.New("invalid signal configuration")
	// ErrInvalidWorkerConfigs indicates invalid background worker settings
	// (for example, a negative refresh interval).
	ErrInvalidWorkerConfigs = errors.New("invalid worker configuration")
)
