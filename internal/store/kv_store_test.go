// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

package store

import (
	"context"
	"database/sql"
	"path/filepath"
	"regexp"
	"testing"
	"time"

	sqlmock "github.com/DATA-DOG/go-sqlmock"
	"github.com/MKhiriev/go-promise-sync/internal/config"
	"github.com/MKhiriev/go-promise-sync/internal/logger"
	"github.com/mattn/go-sqlite3"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// ── helpers ───────────────────────────────────────────────────────────────────

func newTestKVStore(t *testing.T) *KVStore {
	t.Helper()
	db, err := NewConnectSQLite(context.Background(), filepath.Join(t.TempDir(), "kv", "widget_kv.db"), logger.Nop())
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })
	require.NoError(t, db.Migrate())
	return NewKVStore(db, logger.Nop())
}

func newMockKVStore(t *testing.T) (*KVStore, sqlmock.Sqlmock) {
	t.Helper()
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })

	return NewKVStore(&DB{
		DB:                 db,
		errorClassificator: NewSQLiteErrorClassifier(),
		logger:             logger.Nop(),
	}, logger.Nop()), mock
}

// ── real database ─────────────────────────────────────────────────────────────

func TestKVStore_GetSetDelete(t *testing.T) {
	kv := newTestKVStore(t)
	ctx := context.Background()

	_, err := kv.Get(ctx, KeySnapshot)
	assert.ErrorIs(t, err, ErrNotFound)

	require.NoError(t, kv.Set(ctx, KeySnapshot, []byte("one")))
	require.NoError(t, kv.Set(ctx, KeySnapshot, []byte("two")))

	got, err := kv.Get(ctx, KeySnapshot)
	require.NoError(t, err)
	assert.Equal(t, "two", string(got))

	require.NoError(t, kv.Delete(ctx, KeySnapshot, "never-set"))
	_, err = kv.Get(ctx, KeySnapshot)
	assert.ErrorIs(t, err, ErrNotFound)

	require.NoError(t, kv.Delete(ctx))
}

func TestKVStore_Backend(t *testing.T) {
	kv := newTestKVStore(t)
	ctx := context.Background()
	b := kv.Backend(KeySnapshot)

	assert.Equal(t, "kv:widget_data", b.Name())

	_, err := b.Read(ctx)
	assert.ErrorIs(t, err, ErrNotFound)

	require.NoError(t, b.Write(ctx, []byte(`{"version":3}`)))
	got, err := b.Read(ctx)
	require.NoError(t, err)
	assert.Equal(t, `{"version":3}`, string(got))

	require.NoError(t, b.Delete(ctx))
	_, err = b.Read(ctx)
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestKVStore_ClearedMarker(t *testing.T) {
	kv := newTestKVStore(t)
	ctx := context.Background()

	_, set, err := kv.ClearedAt(ctx)
	require.NoError(t, err)
	assert.False(t, set)

	at := time.Date(2026, 5, 1, 12, 0, 0, 0, time.UTC)
	require.NoError(t, kv.MarkCleared(ctx, at))

	got, set, err := kv.ClearedAt(ctx)
	require.NoError(t, err)
	assert.True(t, set)
	assert.True(t, at.Equal(got))

	require.NoError(t, kv.Unmark(ctx))
	_, set, err = kv.ClearedAt(ctx)
	require.NoError(t, err)
	assert.False(t, set)
}

func TestKVStore_ReadLegacy(t *testing.T) {
	kv := newTestKVStore(t)
	ctx := context.Background()

	_, err := kv.ReadLegacy(ctx)
	assert.ErrorIs(t, err, ErrNotFound)

	require.NoError(t, kv.Set(ctx, KeyLegacyIsAuthenticated, []byte("true")))
	_, err = kv.ReadLegacy(ctx)
	assert.ErrorIs(t, err, ErrNotFound, "flags without a promise list are not a legacy snapshot")

	require.NoError(t, kv.Set(ctx, KeyLegacyPromises, []byte(`[]`)))
	require.NoError(t, kv.Set(ctx, KeyLegacyUserID, []byte("u-legacy")))
	require.NoError(t, kv.Set(ctx, KeyLegacyLastSync, []byte("2025-07-13T11:31:02Z")))

	legacy, err := kv.ReadLegacy(ctx)
	require.NoError(t, err)
	assert.Equal(t, "[]", string(legacy.PromisesJSON))
	require.NotNil(t, legacy.IsAuthenticated)
	assert.True(t, *legacy.IsAuthenticated)
	require.NotNil(t, legacy.UserID)
	assert.Equal(t, "u-legacy", *legacy.UserID)
	require.NotNil(t, legacy.LastSync)
	assert.True(t, time.Date(2025, 7, 13, 11, 31, 2, 0, time.UTC).Equal(*legacy.LastSync))
}

func TestParseLegacyTime(t *testing.T) {
	at, ok := parseLegacyTime("1752406262.5")
	require.True(t, ok)
	assert.Equal(t, int64(1752406262), at.Unix())
	assert.Equal(t, 500*time.Millisecond, time.Duration(at.Nanosecond()))

	_, ok = parseLegacyTime("last tuesday")
	assert.False(t, ok)
}

func TestNewStorages(t *testing.T) {
	container := t.TempDir()
	s, err := NewStorages(context.Background(), config.SharedStorage{
		ContainerDir: container,
		KVDSN:        filepath.Join(container, "widget_kv.db"),
	}, true, logger.Nop())
	require.NoError(t, err)
	t.Cleanup(func() { s.Close() })

	require.NotNil(t, s.File)
	require.NotNil(t, s.KV)
	require.NoError(t, s.KV.Set(context.Background(), KeySnapshot, []byte("x")))
}

func TestNewStorages_OptionalKV(t *testing.T) {
	container := t.TempDir()
	// a directory cannot be opened as a database
	cfg := config.SharedStorage{ContainerDir: container, KVDSN: container}

	_, err := NewStorages(context.Background(), cfg, true, logger.Nop())
	assert.ErrorIs(t, err, ErrStorageUnavailable)

	s, err := NewStorages(context.Background(), cfg, false, logger.Nop())
	require.NoError(t, err)
	assert.NotNil(t, s.File)
	assert.Nil(t, s.KV)
	assert.NoError(t, s.Close())
}

// ── driver error paths ────────────────────────────────────────────────────────

func TestKVStore_Get_QueryError(t *testing.T) {
	kv, mock := newMockKVStore(t)

	mock.ExpectQuery(regexp.QuoteMeta(getValue)).
		WithArgs(KeySnapshot).
		WillReturnError(sqlite3.Error{Code: sqlite3.ErrCantOpen})

	_, err := kv.Get(context.Background(), KeySnapshot)
	assert.ErrorIs(t, err, ErrStorageUnavailable)
	assert.ErrorIs(t, err, ErrExecutingQuery)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestKVStore_Set_RetriesBusy(t *testing.T) {
	kv, mock := newMockKVStore(t)

	mock.ExpectExec(regexp.QuoteMeta(upsertValue)).
		WithArgs(KeySnapshot, []byte("v"), sqlmock.AnyArg()).
		WillReturnError(sqlite3.Error{Code: sqlite3.ErrBusy})
	mock.ExpectExec(regexp.QuoteMeta(upsertValue)).
		WithArgs(KeySnapshot, []byte("v"), sqlmock.AnyArg()).
		WillReturnResult(sqlmock.NewResult(0, 1))

	require.NoError(t, kv.Set(context.Background(), KeySnapshot, []byte("v")))
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestKVStore_Set_GivesUpAfterRetries(t *testing.T) {
	kv, mock := newMockKVStore(t)

	for i := 0; i < maxRetryAttempts; i++ {
		mock.ExpectExec(regexp.QuoteMeta(upsertValue)).
			WillReturnError(sqlite3.Error{Code: sqlite3.ErrLocked})
	}

	err := kv.Set(context.Background(), KeySnapshot, []byte("v"))
	assert.ErrorIs(t, err, ErrStorageUnavailable)
	assert.ErrorIs(t, err, ErrExecutingStatement)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestKVStore_Set_LogicErrorIsNotUnavailable(t *testing.T) {
	kv, mock := newMockKVStore(t)

	mock.ExpectExec(regexp.QuoteMeta(upsertValue)).
		WillReturnError(sqlite3.Error{Code: sqlite3.ErrConstraint})

	err := kv.Set(context.Background(), KeySnapshot, []byte("v"))
	assert.ErrorIs(t, err, ErrExecutingStatement)
	assert.NotErrorIs(t, err, ErrStorageUnavailable)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestKVStore_Delete_Errors(t *testing.T) {
	t.Run("begin", func(t *testing.T) {
		kv, mock := newMockKVStore(t)
		mock.ExpectBegin().WillReturnError(sqlite3.Error{Code: sqlite3.ErrIoErr})

		err := kv.Delete(context.Background(), KeySnapshot)
		assert.ErrorIs(t, err, ErrBeginningTransaction)
		assert.ErrorIs(t, err, ErrStorageUnavailable)
	})

	t.Run("exec rolls back", func(t *testing.T) {
		kv, mock := newMockKVStore(t)
		mock.ExpectBegin()
		mock.ExpectExec(regexp.QuoteMeta(deleteValue)).
			WithArgs(KeySnapshot).
			WillReturnError(sql.ErrConnDone)
		mock.ExpectRollback()

		err := kv.Delete(context.Background(), KeySnapshot)
		assert.ErrorIs(t, err, ErrExecutingStatement)
		assert.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("commit", func(t *testing.T) {
		kv, mock := newMockKVStore(t)
		mock.ExpectBegin()
		mock.ExpectExec(regexp.QuoteMeta(deleteValue)).
			WithArgs(KeySnapshot).
			WillReturnResult(sqlmock.NewResult(0, 1))
		mock.ExpectCommit().WillReturnError(sqlite3.Error{Code: sqlite3.ErrReadonly})

		err := kv.Delete(context.Background(), KeySnapshot)
		assert.ErrorIs(t, err, ErrCommitingTransaction)
		assert.ErrorIs(t, err, ErrStorageUnavailable)
	})
}

func TestKVStore_ReadLegacy_QueryError(t *testing.T) {
	kv, mock := newMockKVStore(t)

	mock.ExpectQuery(regexp.QuoteMeta(getLegacyValues)).
		WillReturnError(sqlite3.Error{Code: sqlite3.ErrPerm})

	_, err := kv.ReadLegacy(context.Background())
	assert.ErrorIs(t, err, ErrStorageUnavailable)
}
