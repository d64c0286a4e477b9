// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

package config

import (
	"fmt"
	"path/filepath"
	"strings"
	"time"
)

const (
	// DefaultRequestTimeout bounds one remote fetch.
	DefaultRequestTimeout = 5 * time.Second
	// DefaultRefreshInterval is the widget's periodic reload interval.
	DefaultRefreshInterval = 5 * time.Minute

	defaultKVFileName    = "widget_kv.db"
	defaultSignalDirName = "Signals"
)

// SharedStorage holds the storage locations both sides must agree on.
type SharedStorage struct {
	// ContainerDir is the root of the shared container.
	ContainerDir string
	// KVDSN is the SQLite path of the key-value mirror.
	KVDSN string
}

// SignalConfig holds the beacon directory.
type SignalConfig struct {
	Dir string
}

// RemoteAdapter holds the remote backend settings. Enabled reports whether
// a remote URL is configured.
type RemoteAdapter struct {
	URL            string
	APIKey         string
	TokenFile      string
	RequestTimeout time.Duration
}

// Enabled reports whether the remote backend is configured.
func (a RemoteAdapter) Enabled() bool {
	return a.URL != ""
}

// ConsumerWorkers holds the widget's background job settings.
type ConsumerWorkers struct {
	RefreshInterval time.Duration
}

// ProducerConfig is the configuration view used by the snapshot producer.
type ProducerConfig struct {
	Storage SharedStorage
	Signal  SignalConfig
}

// ConsumerConfig is the configuration view used by the widget.
type ConsumerConfig struct {
	Storage SharedStorage
	Signal  SignalConfig
	Adapter RemoteAdapter
	Workers ConsumerWorkers
}

// GetProducerConfig builds and validates the producer view from the merged
// structured configuration. The positional arguments left after the config
// flags (the subcommand) are returned alongside.
func GetProducerConfig(args []string) (*ProducerConfig, []string, error) {
	cfg, rest, err := GetStructuredConfig(args)
	if err != nil {
		return nil, nil, fmt.Errorf("error get structured config: %w", err)
	}

	producerCfg := newProducerConfig(cfg)
	return producerCfg, rest, producerCfg.validate()
}

// GetConsumerConfig builds and validates the widget view from the merged
// structured configuration. Like [GetProducerConfig] it returns the
// positional arguments left after the config flags.
func GetConsumerConfig(args []string) (*ConsumerConfig, []string, error) {
	cfg, rest, err := GetStructuredConfig(args)
	if err != nil {
		return nil, nil, fmt.Errorf("error get structured config: %w", err)
	}

	consumerCfg := newConsumerConfig(cfg)
	return consumerCfg, rest, consumerCfg.validate()
}

func newProducerConfig(cfg *StructuredConfig) *ProducerConfig {
	storage, signal := sharedViews(cfg)
	return &ProducerConfig{
		Storage: storage,
		Signal:  signal,
	}
}

func newConsumerConfig(cfg *StructuredConfig) *ConsumerConfig {
	storage, signal := sharedViews(cfg)

	timeout := cfg.Adapter.RequestTimeout
	if timeout == 0 {
		timeout = DefaultRequestTimeout
	}
	interval := cfg.Workers.RefreshInterval
	if interval == 0 {
		interval = DefaultRefreshInterval
	}

	return &ConsumerConfig{
		Storage: storage,
		Signal:  signal,
		Adapter: RemoteAdapter{
			URL:            strings.TrimRight(cfg.Adapter.RemoteURL, "/"),
			APIKey:         cfg.Adapter.APIKey,
			TokenFile:      cfg.Adapter.TokenFile,
			RequestTimeout: timeout,
		},
		Workers: ConsumerWorkers{RefreshInterval: interval},
	}
}

func sharedViews(cfg *StructuredConfig) (SharedStorage, SignalConfig) {
	container := strings.TrimSpace(cfg.Storage.ContainerDir)

	kvDSN := cfg.Storage.KVDSN
	if kvDSN == "" && container != "" {
		kvDSN = filepath.Join(container, defaultKVFileName)
	}
	signalDir := cfg.Signal.Dir
	if signalDir == "" && container != "" {
		signalDir = filepath.Join(container, defaultSignalDirName)
	}

	return SharedStorage{ContainerDir: container, KVDSN: kvDSN}, SignalConfig{Dir: signalDir}
}
