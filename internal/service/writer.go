// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

package service

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/MKhiriev/go-promise-sync/internal/codec"
	"github.com/MKhiriev/go-promise-sync/internal/logger"
	"github.com/MKhiriev/go-promise-sync/internal/signal"
	"github.com/MKhiriev/go-promise-sync/internal/store"
	"github.com/MKhiriev/go-promise-sync/models"
)

// WriterOption configures a [SnapshotWriter].
type WriterOption func(*SnapshotWriter)

// WithMirror sets the secondary backend that receives a copy of every write
// and serves as a baseline when the primary cannot be read.
func WithMirror(mirror store.Backend) WriterOption {
	return func(w *SnapshotWriter) { w.mirror = mirror }
}

// WithWriteLocker serializes writes across processes in addition to the
// in-process mutex.
func WithWriteLocker(locker store.WriteLocker) WriterOption {
	return func(w *SnapshotWriter) { w.locker = locker }
}

// WithClearMarkers sets the markers recording a sign-out. They are set by
// SignOut and removed by the next successful write.
func WithClearMarkers(markers ...store.ClearMarker) WriterOption {
	return func(w *SnapshotWriter) { w.markers = append(w.markers, markers...) }
}

// WithLegacyKeys makes SignOut remove the given legacy keys as well.
func WithLegacyKeys(deleter KeyDeleter, keys ...string) WriterOption {
	return func(w *SnapshotWriter) {
		w.legacy = deleter
		w.legacyKeys = keys
	}
}

// WithSignal sets the channel on which [signal.DataChanged] is posted.
func WithSignal(ch signal.Channel) WriterOption {
	return func(w *SnapshotWriter) { w.signal = ch }
}

// WithRefreshHook sets the host's own display refresh callback.
func WithRefreshHook(hook func()) WriterOption {
	return func(w *SnapshotWriter) { w.refreshHook = hook }
}

// WithClock overrides the time source.
func WithClock(now func() time.Time) WriterOption {
	return func(w *SnapshotWriter) { w.now = now }
}

// SnapshotWriter owns every mutation of the shared snapshot.
//
// Writes are serialized by an in-process mutex and, when configured, by a
// cross-process lock. Each write reads the last known snapshot, merges the
// partial update into it, and replaces the primary and mirror copies
// atomically before notifying consumers.
type SnapshotWriter struct {
	primary    store.Backend
	mirror     store.Backend
	locker     store.WriteLocker
	markers    []store.ClearMarker
	legacy     KeyDeleter
	legacyKeys []string
	signal     signal.Channel

	refreshHook func()
	now         func() time.Time
	logger      *logger.Logger

	mu      sync.Mutex
	last    models.Snapshot
	hasLast bool
}

// NewSnapshotWriter returns a writer over the primary backend.
func NewSnapshotWriter(primary store.Backend, log *logger.Logger, opts ...WriterOption) (*SnapshotWriter, error) {
	if primary == nil {
		return nil, ErrNilBackend
	}

	w := &SnapshotWriter{
		primary: primary,
		now:     time.Now,
		logger:  log,
	}
	for _, opt := range opts {
		opt(w)
	}
	return w, nil
}

// Write merges partial into the last known snapshot and stores the result.
//
// The merge replaces the promise list only when partial carries one, keeps
// the stored identity for absent fields and refuses to lower isAuthenticated.
// The version grows by exactly one.
//
// The write counts as successful when at least one of the primary and the
// mirror accepted it; the returned error then reports the backend that
// failed, and the merged snapshot is returned alongside. When neither
// accepted it nothing changes and only the error is returned.
func (w *SnapshotWriter) Write(ctx context.Context, partial models.PartialSnapshot) (models.Snapshot, error) {
	w.mu.Lock()
	defer w.mu.Unlock()

	unlock, err := w.lock(ctx)
	if err != nil {
		return models.Snapshot{}, err
	}
	defer unlock()

	base, found, err := w.baseline(ctx)
	if err != nil {
		return models.Snapshot{}, err
	}

	merged, err := mergeSnapshot(base, found, partial, w.now())
	if err != nil {
		w.logger.Warn().Err(err).
			Str("func", "SnapshotWriter.Write").
			Int64("stored_version", base.Version).
			Msg("write rejected")
		return models.Snapshot{}, err
	}

	data, err := codec.Encode(merged)
	if err != nil {
		return models.Snapshot{}, err
	}

	primaryErr := writeTo(ctx, w.primary, data)
	var mirrorErr error
	if w.mirror != nil {
		mirrorErr = writeTo(ctx, w.mirror, data)
	}
	if primaryErr != nil && (w.mirror == nil || mirrorErr != nil) {
		return models.Snapshot{}, errors.Join(primaryErr, mirrorErr)
	}

	w.last = merged.Clone()
	w.hasLast = true

	w.logger.Info().
		Str("func", "SnapshotWriter.Write").
		Bool("auth_before", base.IsAuthenticated).
		Bool("auth_after", merged.IsAuthenticated).
		Int("promises", len(merged.Promises)).
		Int64("version", merged.Version).
		Msg("snapshot written")

	w.unmark(ctx)
	w.notify(ctx)

	return merged, errors.Join(primaryErr, mirrorErr)
}

// SignOut clears the snapshot from every backend. It bypasses the merge, so
// it is the only way to lower isAuthenticated.
//
// The cleared markers are set before anything is deleted: a reader that sees
// the data gone also sees the marker and will not fall back to a mirror.
func (w *SnapshotWriter) SignOut(ctx context.Context) error {
	w.mu.Lock()
	defer w.mu.Unlock()

	unlock, err := w.lock(ctx)
	if err != nil {
		return err
	}
	defer unlock()

	var errs []error
	at := w.now().UTC()
	for _, m := range w.markers {
		if err = m.MarkCleared(ctx, at); err != nil {
			errs = append(errs, fmt.Errorf("mark cleared: %w", err))
		}
	}

	if err = w.primary.Delete(ctx); err != nil {
		errs = append(errs, fmt.Errorf("delete %s: %w", w.primary.Name(), err))
	}
	if w.mirror != nil {
		if err = w.mirror.Delete(ctx); err != nil {
			errs = append(errs, fmt.Errorf("delete %s: %w", w.mirror.Name(), err))
		}
	}
	if w.legacy != nil && len(w.legacyKeys) > 0 {
		if err = w.legacy.Delete(ctx, w.legacyKeys...); err != nil {
			errs = append(errs, fmt.Errorf("delete legacy keys: %w", err))
		}
	}

	w.last = models.Snapshot{}
	w.hasLast = false

	w.logger.Info().
		Str("func", "SnapshotWriter.SignOut").
		Int("failures", len(errs)).
		Msg("snapshot cleared")

	w.notify(ctx)
	return errors.Join(errs...)
}

// LastKnown returns a copy of the snapshot of the last successful write in
// this process, if any.
func (w *SnapshotWriter) LastKnown() (models.Snapshot, bool) {
	w.mu.Lock()
	defer w.mu.Unlock()

	if !w.hasLast {
		return models.Snapshot{}, false
	}
	return w.last.Clone(), true
}

func (w *SnapshotWriter) lock(ctx context.Context) (func(), error) {
	if w.locker == nil {
		return func() {}, nil
	}
	unlock, err := w.locker.Lock(ctx)
	if err != nil {
		return nil, fmt.Errorf("acquire write lock: %w", err)
	}
	return unlock, nil
}

// baseline picks the stored snapshot with the highest version among the
// primary and the mirror, preferring the primary on ties. A backend holding an
// undecodable blob counts as empty.
//
// The in-memory copy only stands in for storage that could not be read or
// decoded, and never after a sign-out: when every backend answers, or a
// cleared marker is set, the stored state wins even if it is older. The write
// is refused when every backend is unreachable and nothing usable is cached,
// since merging into an empty baseline then could lower isAuthenticated.
func (w *SnapshotWriter) baseline(ctx context.Context) (models.Snapshot, bool, error) {
	var (
		best        models.Snapshot
		found       bool
		unreachable []error
		corrupt     []string
	)

	backends := []store.Backend{w.primary}
	if w.mirror != nil {
		backends = append(backends, w.mirror)
	}

	for _, b := range backends {
		data, err := b.Read(ctx)
		if errors.Is(err, store.ErrNotFound) {
			continue
		}
		if err != nil {
			w.logger.Warn().Err(err).
				Str("func", "SnapshotWriter.baseline").
				Str("backend", b.Name()).
				Msg("baseline backend unreadable")
			unreachable = append(unreachable, fmt.Errorf("read %s: %w", b.Name(), err))
			continue
		}

		s, err := codec.Decode(data)
		if err != nil {
			w.logger.Warn().Err(err).
				Str("func", "SnapshotWriter.baseline").
				Str("backend", b.Name()).
				Msg("stored snapshot undecodable, ignoring")
			corrupt = append(corrupt, b.Name())
			continue
		}
		if !found || s.Version > best.Version {
			best, found = s, true
		}
	}

	degraded := len(unreachable)+len(corrupt) > 0
	if w.hasLast && degraded && (!found || w.last.Version > best.Version) {
		if w.cleared(ctx) {
			w.logger.Info().
				Str("func", "SnapshotWriter.baseline").
				Int64("cached_version", w.last.Version).
				Msg("signed out elsewhere, dropping cached snapshot")
			w.last, w.hasLast = models.Snapshot{}, false
		} else {
			best, found = w.last.Clone(), true
		}
	}

	if !found && len(unreachable) == len(backends) {
		return models.Snapshot{}, false, fmt.Errorf("%w: no baseline: %w",
			store.ErrStorageUnavailable, errors.Join(unreachable...))
	}
	if !found && len(corrupt) > 0 {
		w.logger.Error().
			Str("func", "SnapshotWriter.baseline").
			Strs("corrupt", corrupt).
			Msg("no readable snapshot left, starting over from an empty one")
	}
	return best, found, nil
}

// cleared reports whether any marker records a sign-out. An unreadable
// marker does not count, like in SnapshotLoader.
func (w *SnapshotWriter) cleared(ctx context.Context) bool {
	for _, m := range w.markers {
		_, ok, err := m.ClearedAt(ctx)
		if err != nil {
			w.logger.Warn().Err(err).
				Str("func", "SnapshotWriter.cleared").
				Msg("cleared marker unreadable")
			continue
		}
		if ok {
			return true
		}
	}
	return false
}

func writeTo(ctx context.Context, b store.Backend, data []byte) error {
	if err := b.Write(ctx, data); err != nil {
		return fmt.Errorf("write %s: %w", b.Name(), err)
	}
	return nil
}

func (w *SnapshotWriter) unmark(ctx context.Context) {
	for _, m := range w.markers {
		if err := m.Unmark(ctx); err != nil {
			w.logger.Warn().Err(err).
				Str("func", "SnapshotWriter.unmark").
				Msg("could not remove cleared marker")
		}
	}
}

func (w *SnapshotWriter) notify(ctx context.Context) {
	if w.signal != nil {
		if err := w.signal.Post(ctx, signal.DataChanged); err != nil {
			w.logger.Warn().Err(err).
				Str("func", "SnapshotWriter.notify").
				Msg("could not post change signal")
		}
	}
	if w.refreshHook != nil {
		w.refreshHook()
	}
}

// mergeSnapshot applies partial on top of base. found reports whether base
// is a stored snapshot; when it is not, the result is the first version.
func mergeSnapshot(base models.Snapshot, found bool, partial models.PartialSnapshot, now time.Time) (models.Snapshot, error) {
	if !found {
		base = models.EmptySnapshot()
	}

	if partial.IsAuthenticated != nil && !*partial.IsAuthenticated && base.IsAuthenticated {
		return models.Snapshot{}, fmt.Errorf("%w: ordinary write cannot sign out", ErrInvariantViolation)
	}

	next := base.Clone()
	if partial.HasPromises() {
		next.Promises = make([]models.PromiseRecord, len(partial.Promises))
		copy(next.Promises, partial.Promises)
	}
	if partial.UserID != nil {
		next.UserID = models.StringPtr(*partial.UserID)
	}
	if partial.UserEmail != nil {
		next.UserEmail = models.StringPtr(*partial.UserEmail)
	}
	if partial.IsAuthenticated != nil {
		next.IsAuthenticated = *partial.IsAuthenticated
	}

	next.LastUpdated = now.UTC()
	next.Version = base.Version + 1
	return next, nil
}
