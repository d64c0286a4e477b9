// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

package service

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/MKhiriev/go-promise-sync/internal/logger"
	"github.com/MKhiriev/go-promise-sync/internal/signal"
	"github.com/MKhiriev/go-promise-sync/models"
)

const (
	// DefaultRefreshInterval is the periodic reload interval.
	DefaultRefreshInterval = 5 * time.Minute

	entriesBuffer = 4
)

// RefreshScheduler decides when the consumer reloads: once on Start, on
// every change signal, and on a ticker that bounds staleness when signals
// are lost. Each reload produces an [models.Entry] whose ValidUntil tells the
// host when to check again on its own.
type RefreshScheduler struct {
	loader   EntryLoader
	channel  signal.Channel
	interval time.Duration
	now      func() time.Time
	logger   *logger.Logger

	entries chan models.Entry
	trigger chan struct{}

	mu          sync.Mutex
	cancel      context.CancelFunc
	unsubscribe func()
	wg          sync.WaitGroup
	latest      models.Entry
	hasLatest   bool
}

// NewRefreshScheduler creates an idle scheduler. channel may be nil, in which
// case only the ticker and explicit triggers cause reloads. A non-positive
// interval defaults to DefaultRefreshInterval.
func NewRefreshScheduler(loader EntryLoader, channel signal.Channel, interval time.Duration, log *logger.Logger) *RefreshScheduler {
	if interval <= 0 {
		interval = DefaultRefreshInterval
	}
	return &RefreshScheduler{
		loader:   loader,
		channel:  channel,
		interval: interval,
		now:      time.Now,
		logger:   log,
		entries:  make(chan models.Entry, entriesBuffer),
		trigger:  make(chan struct{}, 1),
	}
}

// Start stops any previous run, subscribes to the change signal and starts
// the reload loop. The first reload happens immediately. The loop exits when
// ctx is done or Stop is called.
func (s *RefreshScheduler) Start(ctx context.Context) error {
	s.Stop()

	var unsubscribe func()
	if s.channel != nil {
		var err error
		unsubscribe, err = s.channel.Observe(signal.DataChanged, s.Trigger)
		if err != nil {
			return fmt.Errorf("observe change signal: %w", err)
		}
	}

	s.mu.Lock()
	loopCtx, cancel := context.WithCancel(ctx)
	s.cancel = cancel
	s.unsubscribe = unsubscribe
	s.wg.Add(1)
	s.mu.Unlock()

	go func() {
		defer s.wg.Done()
		t := time.NewTicker(s.interval)
		defer t.Stop()

		s.reload(loopCtx, "activation")
		for {
			select {
			case <-loopCtx.Done():
				return
			case <-t.C:
				s.reload(loopCtx, "timer")
			case <-s.trigger:
				s.reload(loopCtx, "signal")
			}
		}
	}()
	return nil
}

// Stop unsubscribes from the signal, cancels the loop and waits for it to
// exit. Calling Stop on an idle scheduler is a no-op.
func (s *RefreshScheduler) Stop() {
	s.mu.Lock()
	cancel := s.cancel
	unsubscribe := s.unsubscribe
	s.cancel = nil
	s.unsubscribe = nil
	s.mu.Unlock()

	if unsubscribe != nil {
		unsubscribe()
	}
	if cancel != nil {
		cancel()
	}
	s.wg.Wait()
}

// Trigger requests a reload. It never blocks: triggers arriving while a
// reload is pending collapse into one.
func (s *RefreshScheduler) Trigger() {
	select {
	case s.trigger <- struct{}{}:
	default:
	}
}

// Entries streams the produced entries. When the host falls behind the
// oldest buffered entry is dropped so the newest always gets through.
func (s *RefreshScheduler) Entries() <-chan models.Entry {
	return s.entries
}

// Next loads synchronously and returns the resulting entry. It is the pull
// API for hosts that run their own schedule.
func (s *RefreshScheduler) Next(ctx context.Context) models.Entry {
	return s.reload(ctx, "pull")
}

// Latest returns the most recent entry, if any reload has completed.
func (s *RefreshScheduler) Latest() (models.Entry, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.latest, s.hasLatest
}

// Interval returns the periodic reload interval.
func (s *RefreshScheduler) Interval() time.Duration {
	return s.interval
}

func (s *RefreshScheduler) reload(ctx context.Context, reason string) models.Entry {
	snapshot, source := s.loader.LoadEntry(ctx)
	entry := models.Entry{
		Snapshot:   snapshot,
		ValidUntil: s.now().Add(s.interval),
		Source:     source,
	}

	s.mu.Lock()
	s.latest = entry
	s.hasLatest = true
	s.mu.Unlock()

	s.logger.Debug().
		Str("func", "RefreshScheduler.reload").
		Str("reason", reason).
		Str("source", source).
		Int64("version", snapshot.Version).
		Time("valid_until", entry.ValidUntil).
		Msg("entry produced")

	s.publish(entry)
	return entry
}

func (s *RefreshScheduler) publish(entry models.Entry) {
	for {
		select {
		case s.entries <- entry:
			return
		default:
		}
		select {
		case <-s.entries:
		default:
		}
	}
}
