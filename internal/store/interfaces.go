// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

package store

import (
	"context"
	"time"
)

//go:generate mockgen -source=interfaces.go -destination=../mock/store_mock.go -package=mock

// Backend is a storage location for one serialized snapshot blob.
//
// Read returns [ErrNotFound] when nothing is stored and an error wrapping
// [ErrStorageUnavailable] when the location cannot be accessed. Write
// replaces the blob atomically: a concurrent Read observes either the old or
// the new bytes. Delete is idempotent.
type Backend interface {
	// Name is a short stable label used in logs and diagnostics.
	Name() string

	Read(ctx context.Context) ([]byte, error)
	Write(ctx context.Context, data []byte) error
	Delete(ctx context.Context) error
}

// ClearMarker records that the snapshot was explicitly cleared by a sign-out,
// so that readers can tell "explicitly cleared" apart from "no data yet" and
// refuse to resurrect state from a stale mirror.
type ClearMarker interface {
	// MarkCleared stores the sign-out time.
	MarkCleared(ctx context.Context, at time.Time) error

	// ClearedAt reports whether a marker is set and when it was set.
	ClearedAt(ctx context.Context) (time.Time, bool, error)

	// Unmark removes the marker. It is idempotent.
	Unmark(ctx context.Context) error
}

// WriteLocker serializes snapshot writers across processes.
type WriteLocker interface {
	// Lock blocks until the lock is held, ctx is done, or the timeout
	// elapses. The returned function releases the lock.
	Lock(ctx context.Context) (unlock func(), err error)
}
