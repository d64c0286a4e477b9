// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

package service

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/MKhiriev/go-promise-sync/internal/codec"
	"github.com/MKhiriev/go-promise-sync/internal/logger"
	"github.com/MKhiriev/go-promise-sync/internal/mock"
	"github.com/MKhiriev/go-promise-sync/internal/store"
	"github.com/MKhiriev/go-promise-sync/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/mock/gomock"
)

// stubSource is a Source whose behaviour is a plain function.
type stubSource struct {
	name string
	load func(ctx context.Context) (models.Snapshot, error)
}

func (s *stubSource) Name() string { return s.name }

func (s *stubSource) Load(ctx context.Context) (models.Snapshot, error) {
	return s.load(ctx)
}

func snapshotSource(name string, snap models.Snapshot) *stubSource {
	return &stubSource{name: name, load: func(context.Context) (models.Snapshot, error) { return snap, nil }}
}

func failingSource(name string, err error) *stubSource {
	return &stubSource{name: name, load: func(context.Context) (models.Snapshot, error) { return models.Snapshot{}, err }}
}

// ── LoadEntry ─────────────────────────────────────────────────────────────────

func TestSnapshotLoader_DefaultWhenEmpty(t *testing.T) {
	l := NewSnapshotLoader(nil, nil, logger.Nop())

	got, source := l.LoadEntry(context.Background())
	assert.Equal(t, DefaultSourceName, source)
	assert.False(t, got.IsAuthenticated)
	assert.NotNil(t, got.Promises)
	assert.Empty(t, got.Promises)
	assert.Zero(t, got.Version)
}

func TestSnapshotLoader_FirstSuccessWins(t *testing.T) {
	l := NewSnapshotLoader([]LoaderSource{
		{Source: failingSource("remote", errors.New("offline"))},
		{Source: snapshotSource("file", models.Snapshot{Version: 3})},
		{Source: snapshotSource("kv", models.Snapshot{Version: 9})},
	}, nil, logger.Nop())

	got, source := l.LoadEntry(context.Background())
	assert.Equal(t, "file", source)
	assert.Equal(t, int64(3), got.Version)
	assert.NotNil(t, got.Promises)
}

func TestSnapshotLoader_DecodeErrorFallsThroughToMirror(t *testing.T) {
	ctrl := gomock.NewController(t)
	primary := mock.NewMockBackend(ctrl)
	mirror := mock.NewMockBackend(ctrl)
	primary.EXPECT().Name().Return("file").AnyTimes()
	mirror.EXPECT().Name().Return("kv:widget_data").AnyTimes()

	want := models.Snapshot{
		Promises:        []models.PromiseRecord{testPromise("p1", false)},
		UserID:          models.StringPtr("u1"),
		IsAuthenticated: true,
		Version:         7,
	}
	primary.EXPECT().Read(gomock.Any()).Return([]byte(`{"promises": "nope"`), nil)
	mirror.EXPECT().Read(gomock.Any()).Return(encoded(t, want), nil)

	l := NewSnapshotLoader([]LoaderSource{
		{Source: NewBackendSource(primary)},
		{Source: NewBackendSource(mirror), Mirror: true},
	}, nil, logger.Nop())

	got, source := l.LoadEntry(context.Background())
	assert.Equal(t, "kv:widget_data", source)
	assert.Equal(t, int64(7), got.Version)
	assert.True(t, got.IsAuthenticated)
	assert.Equal(t, []string{"p1"}, promiseIDs(got.Promises))
}

func TestSnapshotLoader_UnavailablePrimaryFallsThrough(t *testing.T) {
	ctrl := gomock.NewController(t)
	primary := mock.NewMockBackend(ctrl)
	primary.EXPECT().Name().Return("file").AnyTimes()
	primary.EXPECT().Read(gomock.Any()).Return(nil, store.ErrStorageUnavailable)

	l := NewSnapshotLoader([]LoaderSource{
		{Source: NewBackendSource(primary)},
		{Source: snapshotSource("kv", models.Snapshot{Version: 2})},
	}, nil, logger.Nop())

	assert.Equal(t, int64(2), l.Load(context.Background()).Version)
}

func TestSnapshotLoader_RecoversPanics(t *testing.T) {
	panicking := &stubSource{name: "broken", load: func(context.Context) (models.Snapshot, error) {
		panic("boom")
	}}

	l := NewSnapshotLoader([]LoaderSource{
		{Source: panicking},
		{Source: snapshotSource("file", models.Snapshot{Version: 1})},
	}, nil, logger.Nop())

	var got models.Snapshot
	var source string
	require.NotPanics(t, func() { got, source = l.LoadEntry(context.Background()) })
	assert.Equal(t, "file", source)
	assert.Equal(t, int64(1), got.Version)
}

func TestSnapshotLoader_TimesOutHungSource(t *testing.T) {
	release := make(chan struct{})
	t.Cleanup(func() { close(release) })

	hung := &stubSource{name: "remote", load: func(context.Context) (models.Snapshot, error) {
		<-release
		return models.Snapshot{IsAuthenticated: true}, nil
	}}

	l := NewSnapshotLoader([]LoaderSource{
		{Source: hung, Timeout: 30 * time.Millisecond},
		{Source: snapshotSource("file", models.Snapshot{Version: 4})},
	}, nil, logger.Nop())

	start := time.Now()
	got, source := l.LoadEntry(context.Background())
	assert.Less(t, time.Since(start), time.Second)
	assert.Equal(t, "file", source)
	assert.Equal(t, int64(4), got.Version)
}

func TestSnapshotLoader_SourceSeesDeadline(t *testing.T) {
	var deadline time.Time
	var hasDeadline bool
	src := &stubSource{name: "remote", load: func(ctx context.Context) (models.Snapshot, error) {
		deadline, hasDeadline = ctx.Deadline()
		return models.Snapshot{}, nil
	}}

	l := NewSnapshotLoader([]LoaderSource{{Source: src, Timeout: 5 * time.Second}}, nil, logger.Nop())
	l.Load(context.Background())

	require.True(t, hasDeadline)
	assert.WithinDuration(t, time.Now().Add(5*time.Second), deadline, time.Second)
}

func TestSnapshotLoader_CanceledContextYieldsDefault(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	src := &stubSource{name: "file", load: func(ctx context.Context) (models.Snapshot, error) {
		if err := ctx.Err(); err != nil {
			return models.Snapshot{}, err
		}
		return models.Snapshot{Version: 1}, nil
	}}

	l := NewSnapshotLoader([]LoaderSource{{Source: src}}, nil, logger.Nop())
	_, source := l.LoadEntry(ctx)
	assert.Equal(t, DefaultSourceName, source)
}

// ── cleared markers ───────────────────────────────────────────────────────────

func TestSnapshotLoader_MarkerSkipsMirrors(t *testing.T) {
	ctrl := gomock.NewController(t)
	marker := mock.NewMockClearMarker(ctrl)
	marker.EXPECT().ClearedAt(gomock.Any()).Return(time.Now(), true, nil)

	remote := mock.NewMockSource(ctrl)
	remote.EXPECT().Name().Return("remote").AnyTimes()

	l := NewSnapshotLoader([]LoaderSource{
		{Source: remote, Mirror: true},
		{Source: failingSource("file", store.ErrNotFound)},
	}, []store.ClearMarker{marker}, logger.Nop())

	got, source := l.LoadEntry(context.Background())
	assert.Equal(t, DefaultSourceName, source)
	assert.False(t, got.IsAuthenticated)
}

func TestSnapshotLoader_MarkerKeepsNonMirrors(t *testing.T) {
	ctrl := gomock.NewController(t)
	marker := mock.NewMockClearMarker(ctrl)
	marker.EXPECT().ClearedAt(gomock.Any()).Return(time.Now(), true, nil)

	l := NewSnapshotLoader([]LoaderSource{
		{Source: snapshotSource("remote", models.Snapshot{IsAuthenticated: true}), Mirror: true},
		{Source: snapshotSource("file", models.Snapshot{Version: 5})},
	}, []store.ClearMarker{marker}, logger.Nop())

	got, source := l.LoadEntry(context.Background())
	assert.Equal(t, "file", source)
	assert.Equal(t, int64(5), got.Version)
}

func TestSnapshotLoader_UnreadableMarkerDoesNotCount(t *testing.T) {
	ctrl := gomock.NewController(t)
	fileMarker := mock.NewMockClearMarker(ctrl)
	kvMarker := mock.NewMockClearMarker(ctrl)
	fileMarker.EXPECT().ClearedAt(gomock.Any()).Return(time.Time{}, false, store.ErrStorageUnavailable)
	kvMarker.EXPECT().ClearedAt(gomock.Any()).Return(time.Time{}, false, nil)

	l := NewSnapshotLoader([]LoaderSource{
		{Source: snapshotSource("remote", models.Snapshot{IsAuthenticated: true}), Mirror: true},
	}, []store.ClearMarker{fileMarker, kvMarker}, logger.Nop())

	_, source := l.LoadEntry(context.Background())
	assert.Equal(t, "remote", source)
}

func TestSnapshotLoader_AnyMarkerCounts(t *testing.T) {
	ctrl := gomock.NewController(t)
	fileMarker := mock.NewMockClearMarker(ctrl)
	kvMarker := mock.NewMockClearMarker(ctrl)
	fileMarker.EXPECT().ClearedAt(gomock.Any()).Return(time.Time{}, false, store.ErrStorageUnavailable)
	kvMarker.EXPECT().ClearedAt(gomock.Any()).Return(time.Now(), true, nil)

	l := NewSnapshotLoader([]LoaderSource{
		{Source: snapshotSource("remote", models.Snapshot{IsAuthenticated: true}), Mirror: true},
	}, []store.ClearMarker{fileMarker, kvMarker}, logger.Nop())

	_, source := l.LoadEntry(context.Background())
	assert.Equal(t, DefaultSourceName, source)
}

// ── Probe ─────────────────────────────────────────────────────────────────────

func TestSnapshotLoader_Probe(t *testing.T) {
	ctrl := gomock.NewController(t)
	marker := mock.NewMockClearMarker(ctrl)
	marker.EXPECT().ClearedAt(gomock.Any()).Return(time.Now(), true, nil)

	l := NewSnapshotLoader([]LoaderSource{
		{Source: snapshotSource("remote", models.Snapshot{}), Mirror: true},
		{Source: failingSource("file", store.ErrNotFound)},
		{Source: snapshotSource("kv", models.Snapshot{Version: 2})},
	}, []store.ClearMarker{marker}, logger.Nop())

	reports, cleared := l.Probe(context.Background())
	assert.True(t, cleared)
	require.Len(t, reports, 3)

	assert.Equal(t, "remote", reports[0].Name)
	assert.True(t, reports[0].Skipped)
	assert.ErrorIs(t, reports[1].Err, store.ErrNotFound)
	assert.NoError(t, reports[2].Err)
	assert.Equal(t, int64(2), reports[2].Snapshot.Version)
}

// ── full chain over real storages ─────────────────────────────────────────────

func TestSnapshotLoader_LegacyMigration(t *testing.T) {
	st := newTestStorages(t)
	ctx := context.Background()

	promises, err := codec.EncodePromises([]models.PromiseRecord{testPromise("old", true)})
	require.NoError(t, err)
	require.NoError(t, st.KV.Set(ctx, store.KeyLegacyPromises, promises))
	require.NoError(t, st.KV.Set(ctx, store.KeyLegacyIsAuthenticated, []byte("true")))
	require.NoError(t, st.KV.Set(ctx, store.KeyLegacyUserID, []byte("legacy-user")))

	l := NewSnapshotLoader(Sources(st, nil, 0), Markers(st), logger.Nop())
	got, source := l.LoadEntry(ctx)

	assert.Equal(t, LegacySourceName, source)
	assert.True(t, got.IsAuthenticated)
	assert.Equal(t, "legacy-user", got.UserIDOrEmpty())
	assert.Equal(t, []string{"old"}, promiseIDs(got.Promises))

	_, err = st.File.Read(ctx)
	assert.ErrorIs(t, err, store.ErrNotFound, "migration must not write back")
	_, err = st.KV.Get(ctx, store.KeySnapshot)
	assert.ErrorIs(t, err, store.ErrNotFound, "migration must not write back")
}

func TestSnapshotLoader_CorruptFileFallsBackToKV(t *testing.T) {
	st := newTestStorages(t)
	svc := newTestProducer(t, st)
	ctx := context.Background()

	_, err := svc.Writer.Write(ctx, models.PartialSnapshot{
		UserID:          models.StringPtr("u1"),
		IsAuthenticated: models.BoolPtr(true),
	})
	require.NoError(t, err)
	require.NoError(t, st.File.Write(ctx, []byte("garbage")))

	got, source := NewSnapshotLoader(Sources(st, nil, 0), Markers(st), logger.Nop()).LoadEntry(ctx)
	assert.Equal(t, "kv:"+store.KeySnapshot, source)
	assert.True(t, got.IsAuthenticated)
	assert.Equal(t, int64(1), got.Version)
}
