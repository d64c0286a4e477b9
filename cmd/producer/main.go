package main

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/MKhiriev/go-promise-sync/internal/app"
	"github.com/MKhiriev/go-promise-sync/internal/config"
	"github.com/MKhiriev/go-promise-sync/internal/logger"
	"github.com/MKhiriev/go-promise-sync/internal/service"
	sig "github.com/MKhiriev/go-promise-sync/internal/signal"
	"github.com/MKhiriev/go-promise-sync/internal/store"
	"github.com/MKhiriev/go-promise-sync/models"
)

var (
	buildVersion string
	buildDate    string
	buildCommit  string
)

func main() {
	log := logger.NewLogger("producer")

	cfg, args, err := config.GetProducerConfig(os.Args[1:])
	if err != nil {
		log.Fatal().Err(err).Msg("error getting configs")
	}

	log.Debug().Any("config", cfg).Msg("received configs")

	if err = run(cfg, args, log); err != nil {
		if errors.Is(err, app.ErrNoCommand) || errors.Is(err, app.ErrUnknownCommand) {
			fmt.Fprintln(os.Stderr, app.Usage)
		}
		log.Error().Err(err).Strs("args", args).Msg("command failed")
		os.Exit(1)
	}
}

func run(cfg *config.ProducerConfig, args []string, log *logger.Logger) error {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	storages, err := store.NewStorages(ctx, cfg.Storage, false, log)
	if err != nil {
		return fmt.Errorf("error creating storages: %w", err)
	}
	defer storages.Close()

	var channel sig.Channel
	beacon, err := sig.NewBeaconChannel(cfg.Signal.Dir, log)
	if err != nil {
		log.Warn().Err(err).Msg("change signal unavailable, consumers will catch up on their timers")
	} else {
		channel = beacon
		defer beacon.Close()
	}

	services, err := service.NewProducerServices(storages, channel, nil, log)
	if err != nil {
		return fmt.Errorf("error creating services: %w", err)
	}

	producer := app.NewProducer(services, storages.File,
		models.NewAppBuildInfo(buildVersion, buildDate, buildCommit),
		os.Stdin, os.Stdout, log)
	return producer.Run(ctx, args)
}
