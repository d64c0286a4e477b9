// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

package client

import (
	"context"
	"errors"
	"fmt"
	"io"

	"github.com/MKhiriev/go-promise-sync/internal/adapter"
	"github.com/MKhiriev/go-promise-sync/internal/codec"
	"github.com/MKhiriev/go-promise-sync/internal/config"
	"github.com/MKhiriev/go-promise-sync/internal/logger"
	"github.com/MKhiriev/go-promise-sync/internal/service"
	"github.com/MKhiriev/go-promise-sync/internal/signal"
	"github.com/MKhiriev/go-promise-sync/internal/store"
	"github.com/MKhiriev/go-promise-sync/internal/tui"
	"github.com/MKhiriev/go-promise-sync/internal/workers"
	"github.com/MKhiriev/go-promise-sync/models"
)

// App is the widget process: storages, services, background workers and
// the display.
type App struct {
	storages *store.Storages
	channel  signal.Channel
	services *service.ConsumerServices
	workers  *workers.Workers
	display  Display
	logger   *logger.Logger
}

// NewApp wires the widget. A missing key-value store, an unusable signal
// directory or an unreadable token file degrade the widget instead of
// failing it.
func NewApp(ctx context.Context, cfg *config.ConsumerConfig, buildInfo models.AppBuildInfo, log *logger.Logger) (*App, error) {
	storages, err := store.NewStorages(ctx, cfg.Storage, false, log)
	if err != nil {
		return nil, fmt.Errorf("create storages: %w", err)
	}

	var ch signal.Channel
	beacon, err := signal.NewBeaconChannel(cfg.Signal.Dir, log)
	if err != nil {
		log.Warn().Err(err).
			Str("func", "NewApp").
			Str("dir", cfg.Signal.Dir).
			Msg("change signal unavailable, relying on periodic reloads")
	} else {
		ch = beacon
	}

	var remote service.PromiseFetcher
	if cfg.Adapter.Enabled() {
		rs, remoteErr := adapter.NewRemoteStore(cfg.Adapter, adapter.NewFileTokenProvider(cfg.Adapter.TokenFile), log)
		if remoteErr != nil {
			closeAll(storages, ch)
			return nil, fmt.Errorf("create remote store: %w", remoteErr)
		}
		remote = rs
	}

	services := service.NewConsumerServices(storages, remote, cfg.Adapter.RequestTimeout, ch, cfg.Workers.RefreshInterval, log)

	display, err := tui.New(services.Scheduler, buildInfo, log)
	if err != nil {
		closeAll(storages, ch)
		return nil, fmt.Errorf("create ui: %w", err)
	}

	return &App{
		storages: storages,
		channel:  ch,
		services: services,
		workers:  workers.NewWorkers(services.Scheduler),
		display:  display,
		logger:   log,
	}, nil
}

// Run starts the scheduler and blocks in the display until the user quits
// or ctx is done.
func (a *App) Run(ctx context.Context) error {
	if err := a.workers.Start(ctx); err != nil {
		return fmt.Errorf("start workers: %w", err)
	}
	defer a.workers.Stop()

	a.logger.Info().Str("func", "App.Run").Msg("widget started")
	return a.display.Run(ctx)
}

// Print performs one pull reload and writes the entry as JSON.
func (a *App) Print(ctx context.Context, out io.Writer) error {
	entry := a.services.Scheduler.Next(ctx)

	data, err := codec.Encode(entry.Snapshot)
	if err != nil {
		return err
	}
	_, err = fmt.Fprintf(out, "source: %s\nvalid until: %s\n%s\n",
		entry.Source, entry.ValidUntil.Format("2006-01-02T15:04:05Z07:00"), data)
	return err
}

// Close releases storages and the signal channel.
func (a *App) Close() error {
	return closeAll(a.storages, a.channel)
}

func closeAll(storages *store.Storages, ch signal.Channel) error {
	var errs []error
	if ch != nil {
		errs = append(errs, ch.Close())
	}
	if storages != nil {
		errs = append(errs, storages.Close())
	}
	return errors.Join(errs...)
}
