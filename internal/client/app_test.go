// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

package client

import (
	"bytes"
	"context"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/MKhiriev/go-promise-sync/internal/config"
	"github.com/MKhiriev/go-promise-sync/internal/logger"
	"github.com/MKhiriev/go-promise-sync/internal/service"
	"github.com/MKhiriev/go-promise-sync/internal/store"
	"github.com/MKhiriev/go-promise-sync/models"
)

func testConfig(t *testing.T) *config.ConsumerConfig {
	t.Helper()
	dir := t.TempDir()
	return &config.ConsumerConfig{
		Storage: config.SharedStorage{
			ContainerDir: dir,
			KVDSN:        filepath.Join(dir, "widget_kv.db"),
		},
		Signal:  config.SignalConfig{Dir: filepath.Join(dir, "Signals")},
		Workers: config.ConsumerWorkers{RefreshInterval: time.Minute},
	}
}

// produce writes one snapshot the way the producer process would.
func produce(t *testing.T, cfg config.SharedStorage, partial models.PartialSnapshot) {
	t.Helper()
	st, err := store.NewStorages(context.Background(), cfg, true, logger.Nop())
	require.NoError(t, err)
	defer st.Close()

	svc, err := service.NewProducerServices(st, nil, nil, logger.Nop())
	require.NoError(t, err)
	_, err = svc.Writer.Write(context.Background(), partial)
	require.NoError(t, err)
}

type fakeDisplay struct {
	run func(ctx context.Context) error
}

func (f fakeDisplay) Run(ctx context.Context) error { return f.run(ctx) }

func TestNewApp_PrintLocal(t *testing.T) {
	cfg := testConfig(t)
	produce(t, cfg.Storage, models.PartialSnapshot{
		Promises: []models.PromiseRecord{{
			ID: "p1", Content: "call mom", OwnerID: "u1", Resolved: true,
			CreatedAt: time.Now().UTC(), UpdatedAt: time.Now().UTC(),
		}},
		UserID:          models.StringPtr("u1"),
		IsAuthenticated: models.BoolPtr(true),
	})

	app, err := NewApp(context.Background(), cfg, models.AppBuildInfo{}, logger.Nop())
	require.NoError(t, err)
	defer app.Close()
	assert.NotNil(t, app.channel)

	var out bytes.Buffer
	require.NoError(t, app.Print(context.Background(), &out))
	assert.Contains(t, out.String(), "source: file")
	assert.Contains(t, out.String(), `"version": 1`)
	assert.Contains(t, out.String(), `"content": "call mom"`)
}

func TestNewApp_PrintEmpty(t *testing.T) {
	app, err := NewApp(context.Background(), testConfig(t), models.AppBuildInfo{}, logger.Nop())
	require.NoError(t, err)
	defer app.Close()

	var out bytes.Buffer
	require.NoError(t, app.Print(context.Background(), &out))
	assert.Contains(t, out.String(), "source: "+service.DefaultSourceName)
	assert.Contains(t, out.String(), `"promises": []`)
}

func TestNewApp_PrintRemote(t *testing.T) {
	token, err := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.MapClaims{
		"sub": "owner-1",
		"exp": time.Now().Add(time.Hour).Unix(),
	}).SignedString([]byte("server-secret"))
	require.NoError(t, err)

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "eq.owner-1", r.URL.Query().Get("owner_id"))
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`[{"id":"r1","created_at":"2026-07-12T09:00:00Z","updated_at":"2026-07-12T09:00:00Z","content":"Book flights","owner_id":"owner-1","resolved":false}]`))
	}))
	defer srv.Close()

	cfg := testConfig(t)
	cfg.Adapter = config.RemoteAdapter{
		URL:            srv.URL,
		APIKey:         "anon-key",
		TokenFile:      filepath.Join(t.TempDir(), "token"),
		RequestTimeout: time.Second,
	}
	require.NoError(t, os.WriteFile(cfg.Adapter.TokenFile, []byte(token+"\n"), 0o600))

	app, err := NewApp(context.Background(), cfg, models.AppBuildInfo{}, logger.Nop())
	require.NoError(t, err)
	defer app.Close()

	var out bytes.Buffer
	require.NoError(t, app.Print(context.Background(), &out))
	assert.Contains(t, out.String(), "source: remote")
	assert.Contains(t, out.String(), `"userId": "owner-1"`)
	assert.Contains(t, out.String(), "Book flights")
}

func TestNewApp_MissingTokenFallsBackToFile(t *testing.T) {
	cfg := testConfig(t)
	cfg.Adapter = config.RemoteAdapter{URL: "http://127.0.0.1:1", RequestTimeout: time.Second}
	produce(t, cfg.Storage, models.PartialSnapshot{UserID: models.StringPtr("u1"), IsAuthenticated: models.BoolPtr(true)})

	app, err := NewApp(context.Background(), cfg, models.AppBuildInfo{}, logger.Nop())
	require.NoError(t, err)
	defer app.Close()

	var out bytes.Buffer
	require.NoError(t, app.Print(context.Background(), &out))
	assert.Contains(t, out.String(), "source: file")
}

func TestNewApp_InvalidRemoteURL(t *testing.T) {
	cfg := testConfig(t)
	cfg.Adapter = config.RemoteAdapter{URL: "http://"}

	_, err := NewApp(context.Background(), cfg, models.AppBuildInfo{}, logger.Nop())
	assert.Error(t, err)
}

func TestNewApp_UnusableSignalDir(t *testing.T) {
	cfg := testConfig(t)
	blocker := filepath.Join(t.TempDir(), "not-a-dir")
	require.NoError(t, os.WriteFile(blocker, nil, 0o600))
	cfg.Signal.Dir = filepath.Join(blocker, "Signals")

	app, err := NewApp(context.Background(), cfg, models.AppBuildInfo{}, logger.Nop())
	require.NoError(t, err)
	defer app.Close()

	assert.Nil(t, app.channel)
}

func TestApp_Run(t *testing.T) {
	app, err := NewApp(context.Background(), testConfig(t), models.AppBuildInfo{}, logger.Nop())
	require.NoError(t, err)
	defer app.Close()

	scheduler := app.services.Scheduler
	app.display = fakeDisplay{run: func(ctx context.Context) error {
		assert.Eventually(t, func() bool {
			_, ok := scheduler.Latest()
			return ok
		}, time.Second, 10*time.Millisecond)
		return nil
	}}

	require.NoError(t, app.Run(context.Background()))

	entry, ok := scheduler.Latest()
	require.True(t, ok)
	assert.Equal(t, service.DefaultSourceName, entry.Source)
}
