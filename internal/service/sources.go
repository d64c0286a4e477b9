// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

package service

import (
	"context"
	"fmt"
	"time"

	"github.com/MKhiriev/go-promise-sync/internal/codec"
	"github.com/MKhiriev/go-promise-sync/internal/store"
	"github.com/MKhiriev/go-promise-sync/models"
)

// LegacySourceName names the legacy key-value source in loader results.
const LegacySourceName = "kv:legacy"

type remoteSource struct {
	fetcher PromiseFetcher
	now     func() time.Time
}

// NewRemoteSource adapts the remote backend to [Source]. The remote side
// only knows the promise list, so the snapshot is built around it: the token
// owner becomes the user, the user is authenticated, and the version is 0
// because no producer wrote it.
func NewRemoteSource(fetcher PromiseFetcher) Source {
	return &remoteSource{fetcher: fetcher, now: time.Now}
}

func (s *remoteSource) Name() string {
	return s.fetcher.Name()
}

func (s *remoteSource) Load(ctx context.Context) (models.Snapshot, error) {
	owner, promises, err := s.fetcher.FetchPromises(ctx)
	if err != nil {
		return models.Snapshot{}, err
	}
	if promises == nil {
		promises = []models.PromiseRecord{}
	}

	return models.Snapshot{
		Promises:        promises,
		UserID:          models.StringPtr(owner),
		IsAuthenticated: true,
		LastUpdated:     s.now().UTC(),
	}, nil
}

type backendSource struct {
	backend store.Backend
}

// NewBackendSource reads the canonical blob from backend and decodes it.
func NewBackendSource(backend store.Backend) Source {
	return &backendSource{backend: backend}
}

func (s *backendSource) Name() string {
	return s.backend.Name()
}

func (s *backendSource) Load(ctx context.Context) (models.Snapshot, error) {
	data, err := s.backend.Read(ctx)
	if err != nil {
		return models.Snapshot{}, err
	}
	return codec.Decode(data)
}

type legacySource struct {
	reader LegacyReader
}

// NewLegacySource reads the split legacy keys and migrates them in memory.
// The result is never written back.
func NewLegacySource(reader LegacyReader) Source {
	return &legacySource{reader: reader}
}

func (s *legacySource) Name() string {
	return LegacySourceName
}

func (s *legacySource) Load(ctx context.Context) (models.Snapshot, error) {
	legacy, err := s.reader.ReadLegacy(ctx)
	if err != nil {
		return models.Snapshot{}, err
	}

	snapshot, err := codec.LegacyToSnapshot(legacy)
	if err != nil {
		return models.Snapshot{}, fmt.Errorf("migrate legacy keys: %w", err)
	}
	return snapshot, nil
}
