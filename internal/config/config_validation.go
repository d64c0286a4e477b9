// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

package config

import "strings"

// validate checks the merged [StructuredConfig] for values that no view can
// repair with a default.
func (cfg *StructuredConfig) validate() error {
	if cfg.Adapter.RequestTimeout < 0 {
		return ErrInvalidAdapterConfigs
	}
	if cfg.Workers.RefreshInterval < 0 {
		return ErrInvalidWorkerConfigs
	}
	return nil
}

func (s SharedStorage) validate() error {
	if s.ContainerDir == "" || s.KVDSN == "" || strings.Contains(s.KVDSN, ":memory:") {
		return ErrInvalidStorageConfigs
	}
	return nil
}

func (cfg *ProducerConfig) validate() error {
	if err := cfg.Storage.validate(); err != nil {
		return err
	}
	if cfg.Signal.Dir == "" {
		return ErrInvalidSignalConfigs
	}
	return nil
}

func (cfg *ConsumerConfig) validate() error {
	if err := cfg.Storage.validate(); err != nil {
		return err
	}
	if cfg.Signal.Dir == "" {
		return ErrInvalidSignalConfigs
	}

	if cfg.Adapter.Enabled() && (cfg.Adapter.APIKey == "" || cfg.Adapter.TokenFile == "") {
		return ErrInvalidAdapterConfigs
	}
	if cfg.Adapter.RequestTimeout <= 0 {
		return ErrInvalidAdapterConfigs
	}

	if cfg.Workers.RefreshInterval <= 0 {
		return ErrInvalidWorkerConfigs
	}

	return nil
}
