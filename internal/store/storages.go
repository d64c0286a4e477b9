// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

package store

import (
	"context"
	"fmt"

	"github.com/MKhiriev/go-promise-sync/internal/config"
	"github.com/MKhiriev/go-promise-sync/internal/logger"
)

// Storages groups the local backends so they can be handed to the service
// layer as one value.
type Storages struct {
	// File is the primary snapshot file in the shared container.
	File *FileStore
	// KV is the secondary key-value store. It is nil when the database could
	// not be opened and the caller chose to continue without it.
	KV *KVStore

	db *DB
}

// NewStorages initialises the storage layer:
//  1. Builds the [FileStore] rooted at the container directory.
//  2. Opens the SQLite key-value database, creating it if it does not yet
//     exist, and runs pending migrations.
//
// When requireKV is false a failure of step 2 is logged and Storages is
// returned without a key-value store; readers degrade to the other sources.
func NewStorages(ctx context.Context, cfg config.SharedStorage, requireKV bool, log *logger.Logger) (*Storages, error) {
	log.Info().Str("container", cfg.ContainerDir).Msg("creating new storages...")

	file, err := NewFileStore(cfg.ContainerDir, log)
	if err != nil {
		return nil, fmt.Errorf("file store error: %w", err)
	}

	s := &Storages{File: file}

	db, err := NewConnectSQLite(ctx, cfg.KVDSN, log)
	if err == nil {
		if err = db.Migrate(); err != nil {
			db.Close()
			err = fmt.Errorf("%w: migration failed: %w", ErrStorageUnavailable, err)
		}
	}
	if err != nil {
		if requireKV {
			return nil, fmt.Errorf("kv store error: %w", err)
		}
		log.Warn().Err(err).
			Str("func", "NewStorages").
			Str("dsn", cfg.KVDSN).
			Msg("continuing without key-value store")
		return s, nil
	}

	s.db = db
	s.KV = NewKVStore(db, log)
	return s, nil
}

// Close releases the key-value database.
func (s *Storages) Close() error {
	if s.db == nil {
		return nil
	}
	return s.db.Close()
}
