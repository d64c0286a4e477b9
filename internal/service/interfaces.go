// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

package service

import (
	"context"

	"github.com/MKhiriev/go-promise-sync/models"
)

//go:generate mockgen -source=interfaces.go -destination=../mock/service_mock.go -package=mock

// Source is one entry of the loader's fallback chain. Load returns a full
// snapshot or an error; the loader treats every error as "no data here".
type Source interface {
	Name() string
	Load(ctx context.Context) (models.Snapshot, error)
}

// PromiseFetcher is the read-only remote backend. It returns the owner the
// access token belongs to together with the owner's promises.
type PromiseFetcher interface {
	Name() string
	FetchPromises(ctx context.Context) (owner string, promises []models.PromiseRecord, err error)
}

// LegacyReader reads the pre-unification split keys.
type LegacyReader interface {
	ReadLegacy(ctx context.Context) (models.LegacySnapshot, error)
}

// KeyDeleter removes raw keys from the key-value store.
type KeyDeleter interface {
	Delete(ctx context.Context, keys ...string) error
}

// EntryLoader is what the refresh scheduler needs from the loader.
type EntryLoader interface {
	// LoadEntry never fails; it returns the loaded snapshot and the name of
	// the source that produced it.
	LoadEntry(ctx context.Context) (models.Snapshot, string)
}
