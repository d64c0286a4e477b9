// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

package service

import (
	"context"
	"fmt"
	"time"

	"github.com/MKhiriev/go-promise-sync/internal/logger"
	"github.com/MKhiriev/go-promise-sync/internal/store"
	"github.com/MKhiriev/go-promise-sync/models"
)

const (
	// DefaultSourceName is reported when every source came up empty.
	DefaultSourceName = "default"

	// DefaultSourceTimeout bounds a source that has no timeout of its own.
	DefaultSourceTimeout = 2 * time.Second
)

// LoaderSource is one ranked entry of the loader chain.
type LoaderSource struct {
	Source Source

	// Timeout bounds one attempt. Zero means DefaultSourceTimeout.
	Timeout time.Duration

	// Mirror marks a source that may hold a copy older than a local sign-out.
	// Mirror sources are skipped while a cleared marker is set.
	Mirror bool
}

// SnapshotLoader is the consumer-side read path. It walks its sources in
// order and returns the first snapshot any of them yields. Sources are never
// merged: one coherent, possibly stale snapshot beats a mix of ages.
type SnapshotLoader struct {
	sources []LoaderSource
	markers []store.ClearMarker
	logger  *logger.Logger
}

// NewSnapshotLoader returns a loader over the ranked sources. markers are
// consulted before each load to decide whether mirror sources may be used.
func NewSnapshotLoader(sources []LoaderSource, markers []store.ClearMarker, log *logger.Logger) *SnapshotLoader {
	return &SnapshotLoader{
		sources: sources,
		markers: markers,
		logger:  log,
	}
}

// Load returns the first snapshot any source yields, or the empty
// unauthenticated snapshot. It never fails.
func (l *SnapshotLoader) Load(ctx context.Context) models.Snapshot {
	s, _ := l.LoadEntry(ctx)
	return s
}

// LoadEntry is Load that also reports the name of the winning source.
func (l *SnapshotLoader) LoadEntry(ctx context.Context) (models.Snapshot, string) {
	cleared := l.cleared(ctx)

	for _, src := range l.sources {
		name := src.Source.Name()
		if src.Mirror && cleared {
			l.logger.Debug().
				Str("func", "SnapshotLoader.LoadEntry").
				Str("source", name).
				Msg("skipping mirror after sign-out")
			continue
		}

		s, err := l.attempt(ctx, src)
		if err != nil {
			l.logger.Warn().Err(err).
				Str("func", "SnapshotLoader.LoadEntry").
				Str("source", name).
				Msg("source failed, falling back")
			continue
		}

		l.logger.Debug().
			Str("func", "SnapshotLoader.LoadEntry").
			Str("source", name).
			Int64("version", s.Version).
			Bool("authenticated", s.IsAuthenticated).
			Msg("snapshot loaded")
		return s, name
	}

	return models.EmptySnapshot(), DefaultSourceName
}

// SourceReport is the outcome of one source in a [SnapshotLoader.Probe].
type SourceReport struct {
	Name     string
	Mirror   bool
	Skipped  bool
	Snapshot models.Snapshot
	Err      error
	Elapsed  time.Duration
}

// Probe tries every source, without stopping at the first success, and
// reports each outcome. It is a diagnostic; Load is the read path.
func (l *SnapshotLoader) Probe(ctx context.Context) (reports []SourceReport, cleared bool) {
	cleared = l.cleared(ctx)

	for _, src := range l.sources {
		r := SourceReport{Name: src.Source.Name(), Mirror: src.Mirror}
		if src.Mirror && cleared {
			r.Skipped = true
			reports = append(reports, r)
			continue
		}

		start := time.Now()
		r.Snapshot, r.Err = l.attempt(ctx, src)
		r.Elapsed = time.Since(start)
		reports = append(reports, r)
	}
	return reports, cleared
}

type attemptResult struct {
	snapshot models.Snapshot
	err      error
}

// attempt runs one source in its own goroutine so that neither a hung source
// nor a panicking one can hold up or break the chain.
func (l *SnapshotLoader) attempt(ctx context.Context, src LoaderSource) (models.Snapshot, error) {
	timeout := src.Timeout
	if timeout <= 0 {
		timeout = DefaultSourceTimeout
	}
	attemptCtx, cancel := context.WithTimeout(ctx, timeout)
	defer cancel()

	done := make(chan attemptResult, 1)
	go func() {
		defer func() {
			if r := recover(); r != nil {
				done <- attemptResult{err: fmt.Errorf("%w: %v", ErrSourcePanicked, r)}
			}
		}()
		s, err := src.Source.Load(attemptCtx)
		done <- attemptResult{snapshot: s, err: err}
	}()

	select {
	case res := <-done:
		if res.err != nil {
			return models.Snapshot{}, res.err
		}
		if res.snapshot.Promises == nil {
			res.snapshot.Promises = []models.PromiseRecord{}
		}
		return res.snapshot, nil
	case <-attemptCtx.Done():
		return models.Snapshot{}, fmt.Errorf("source %s: %w", src.Source.Name(), attemptCtx.Err())
	}
}

// cleared reports whether any marker records a sign-out. A marker that
// cannot be read does not count: an inaccessible container is exactly when
// the mirrors are needed.
func (l *SnapshotLoader) cleared(ctx context.Context) bool {
	for _, m := range l.markers {
		at, ok, err := m.ClearedAt(ctx)
		if err != nil {
			l.logger.Warn().Err(err).
				Str("func", "SnapshotLoader.cleared").
				Msg("cleared marker unreadable")
			continue
		}
		if ok {
			l.logger.Debug().
				Str("func", "SnapshotLoader.cleared").
				Time("cleared_at", at).
				Msg("sign-out marker set")
			return true
		}
	}
	return false
}
