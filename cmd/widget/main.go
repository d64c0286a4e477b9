package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/MKhiriev/go-promise-sync/internal/client"
	"github.com/MKhiriev/go-promise-sync/internal/config"
	"github.com/MKhiriev/go-promise-sync/internal/logger"
	"github.com/MKhiriev/go-promise-sync/models"
)

var (
	buildVersion string
	buildDate    string
	buildCommit  string
)

func main() {
	log := logger.NewFileLogger("widget")

	cfg, args, err := config.GetConsumerConfig(os.Args[1:])
	if err != nil {
		log.Fatal().Err(err).Msg("error getting configs")
	}

	if len(args) > 0 && args[0] == "version" {
		printBuildInfo()
		return
	}

	if err = run(cfg, args, log); err != nil {
		log.Error().Err(err).Msg("widget run error")
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func run(cfg *config.ConsumerConfig, args []string, log *logger.Logger) error {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	app, err := client.NewApp(ctx, cfg, models.NewAppBuildInfo(buildVersion, buildDate, buildCommit), log)
	if err != nil {
		return fmt.Errorf("init widget app error: %w", err)
	}
	defer app.Close()

	if len(args) > 0 && args[0] == "print" {
		return app.Print(ctx, os.Stdout)
	}
	return app.Run(ctx)
}

func printBuildInfo() {
	if buildVersion == "" {
		buildVersion = "N/A"
	}
	if buildDate == "" {
		buildDate = "N/A"
	}
	if buildCommit == "" {
		buildCommit = "N/A"
	}

	fmt.Printf("Build version: %s\n", buildVersion)
	fmt.Printf("Build date: %s\n", buildDate)
	fmt.Printf("Build commit: %s\n", buildCommit)
}
