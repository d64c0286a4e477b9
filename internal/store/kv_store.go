// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/MKhiriev/go-promise-sync/internal/logger"
	"github.com/MKhiriev/go-promise-sync/models"
)

// Keys of the process-wide key-value store.
const (
	// KeySnapshot holds the unified encoded snapshot mirror.
	KeySnapshot = "widget_data"
	// KeyClearedAt holds the time of the last sign-out.
	KeyClearedAt = "widget_cleared_at"

	// Legacy split keys written by older producers. They are read, never
	// written, and removed on sign-out.
	KeyLegacyPromises        = "widget_promises"
	KeyLegacyIsAuthenticated = "widget_is_authenticated"
	KeyLegacyUserID          = "widget_user_id"
	KeyLegacyLastSync        = "widget_last_sync_time"
)

// LegacyKeys lists every legacy key.
var LegacyKeys = []string{
	KeyLegacyPromises,
	KeyLegacyIsAuthenticated,
	KeyLegacyUserID,
	KeyLegacyLastSync,
}

// KVStore is the secondary key-value store shared by every process of the
// application. It holds the snapshot mirror, the sign-out marker and the
// legacy split keys.
//
// KVStore implements [ClearMarker]; [KVStore.Backend] adapts one key to
// [Backend].
type KVStore struct {
	*DB
	logger *logger.Logger
	now    func() time.Time
}

// NewKVStore returns a KVStore over an opened and migrated database.
func NewKVStore(db *DB, log *logger.Logger) *KVStore {
	return &KVStore{
		DB:     db,
		logger: log,
		now:    time.Now,
	}
}

// Get returns the value stored under key, or [ErrNotFound].
func (k *KVStore) Get(ctx context.Context, key string) ([]byte, error) {
	var value []byte

	err := k.withRetry(ctx, func() error {
		return k.DB.QueryRowContext(ctx, getValue, key).Scan(&value)
	})
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrNotFound
	}
	if err != nil {
		k.logger.Err(err).
			Str("func", "KVStore.Get").
			Str("key", key).
			Msg("failed to query value")
		return nil, k.wrap(ErrExecutingQuery, err)
	}

	return value, nil
}

// Set stores value under key, replacing any previous value.
func (k *KVStore) Set(ctx context.Context, key string, value []byte) error {
	err := k.withRetry(ctx, func() error {
		_, execErr := k.DB.ExecContext(ctx, upsertValue, key, value, k.now().UTC())
		return execErr
	})
	if err != nil {
		k.logger.Err(err).
			Str("func", "KVStore.Set").
			Str("key", key).
			Msg("failed to upsert value")
		return k.wrap(ErrExecutingStatement, err)
	}

	return nil
}

// Delete removes every given key in one transaction. Missing keys are not
// an error.
func (k *KVStore) Delete(ctx context.Context, keys ...string) error {
	if len(keys) == 0 {
		return nil
	}

	tx, err := k.DB.BeginTx(ctx, nil)
	if err != nil {
		k.logger.Err(err).
			Str("func", "KVStore.Delete").
			Msg("failed to begin transaction")
		return k.wrap(ErrBeginningTransaction, err)
	}
	defer tx.Rollback() //nolint:errcheck

	for _, key := range keys {
		if _, err = tx.ExecContext(ctx, deleteValue, key); err != nil {
			k.logger.Err(err).
				Str("func", "KVStore.Delete").
				Str("key", key).
				Msg("failed to delete value")
			return k.wrap(ErrExecutingStatement, err)
		}
	}

	if err = tx.Commit(); err != nil {
		k.logger.Err(err).
			Str("func", "KVStore.Delete").
			Strs("keys", keys).
			Msg("failed to commit transaction")
		return k.wrap(ErrCommitingTransaction, err)
	}

	return nil
}

// ReadLegacy collects the legacy split keys. It returns [ErrNotFound] when
// the legacy promise list is absent, whatever the other keys hold.
func (k *KVStore) ReadLegacy(ctx context.Context) (models.LegacySnapshot, error) {
	rows, err := k.DB.QueryContext(ctx, getLegacyValues,
		KeyLegacyPromises,
		KeyLegacyIsAuthenticated,
		KeyLegacyUserID,
		KeyLegacyLastSync,
	)
	if err != nil {
		k.logger.Err(err).
			Str("func", "KVStore.ReadLegacy").
			Msg("failed to query legacy keys")
		return models.LegacySnapshot{}, k.wrap(ErrExecutingQuery, err)
	}
	defer rows.Close()

	var legacy models.LegacySnapshot
	for rows.Next() {
		var (
			key   string
			value []byte
		)
		if err = rows.Scan(&key, &value); err != nil {
			return models.LegacySnapshot{}, k.wrap(ErrExecutingQuery, err)
		}

		switch key {
		case KeyLegacyPromises:
			legacy.PromisesJSON = value
		case KeyLegacyIsAuthenticated:
			if b, parseErr := strconv.ParseBool(strings.TrimSpace(string(value))); parseErr == nil {
				legacy.IsAuthenticated = &b
			}
		case KeyLegacyUserID:
			if id := strings.TrimSpace(string(value)); id != "" {
				legacy.UserID = &id
			}
		case KeyLegacyLastSync:
			if at, ok := parseLegacyTime(string(value)); ok {
				legacy.LastSync = &at
			}
		}
	}
	if err = rows.Err(); err != nil {
		return models.LegacySnapshot{}, k.wrap(ErrExecutingQuery, err)
	}

	if legacy.PromisesJSON == nil {
		return models.LegacySnapshot{}, ErrNotFound
	}
	return legacy, nil
}

// parseLegacyTime accepts RFC 3339 text or fractional Unix seconds.
func parseLegacyTime(s string) (time.Time, bool) {
	s = strings.TrimSpace(s)
	if at, err := time.Parse(time.RFC3339Nano, s); err == nil {
		return at.UTC(), true
	}
	if secs, err := strconv.ParseFloat(s, 64); err == nil {
		whole := int64(secs)
		return time.Unix(whole, int64((secs-float64(whole))*float64(time.Second))).UTC(), true
	}
	return time.Time{}, false
}

// MarkCleared implements [ClearMarker].
func (k *KVStore) MarkCleared(ctx context.Context, at time.Time) error {
	return k.Set(ctx, KeyClearedAt, []byte(at.UTC().Format(time.RFC3339Nano)))
}

// ClearedAt implements [ClearMarker].
func (k *KVStore) ClearedAt(ctx context.Context) (time.Time, bool, error) {
	value, err := k.Get(ctx, KeyClearedAt)
	if errors.Is(err, ErrNotFound) {
		return time.Time{}, false, nil
	}
	if err != nil {
		return time.Time{}, false, err
	}

	at, err := time.Parse(time.RFC3339Nano, strings.TrimSpace(string(value)))
	if err != nil {
		return time.Time{}, true, nil
	}
	return at, true, nil
}

// Unmark implements [ClearMarker].
func (k *KVStore) Unmark(ctx context.Context) error {
	return k.Delete(ctx, KeyClearedAt)
}

// Backend returns a [Backend] storing its blob under key.
func (k *KVStore) Backend(key string) Backend {
	return &kvBackend{kv: k, key: key}
}

type kvBackend struct {
	kv  *KVStore
	key string
}

func (b *kvBackend) Name() string {
	return fmt.Sprintf("kv:%s", b.key)
}

func (b *kvBackend) Read(ctx context.Context) ([]byte, error) {
	return b.kv.Get(ctx, b.key)
}

func (b *kvBackend) Write(ctx context.Context, data []byte) error {
	return b.kv.Set(ctx, b.key, data)
}

func (b *kvBackend) Delete(ctx context.Context) error {
	return b.kv.Delete(ctx, b.key)
}
