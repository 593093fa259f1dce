package main

import (
	"context"
	"flag"
	"os"
	"time"

	"moneyminder/internal/alert"
	"moneyminder/internal/backend"
	"moneyminder/internal/cli"
	"moneyminder/internal/core"
	"moneyminder/internal/log"
	"moneyminder/internal/services"
)

func main() {
	once := flag.Bool("once", false, "run a single sweep and exit")
	flag.Parse()

	cli.LoadEnvFile()
	cfg := cli.MustLoadConfig()
	logger := cli.SetupLogger(cfg, log.ComponentSweep)

	bcfg, err := backend.FromAppConfig(cfg)
	if err != nil {
		logger.Error("Invalid backend configuration", log.FieldError, err)
		os.Exit(cli.ExitFailure)
	}

	factory := backend.NewFactory(logger)
	stores, err := factory.CreateStores(context.Background(), bcfg)
	if err != nil {
		logger.Error("Failed to initialize storage", log.FieldError, err)
		os.Exit(cli.ExitFailure)
	}
	sender, err := factory.CreateSender(context.Background(), bcfg)
	if err != nil {
		logger.Error("Failed to initialize notifier", log.FieldError, err)
		stores.Close()
		os.Exit(cli.ExitFailure)
	}

	clock := core.NewSystemClock(cfg.Location())
	dispatcher := alert.NewDispatcher(sender.Sender, alert.Settings{CurrencySymbol: cfg.AlertCurrencySymbol}, logger)
	processor := services.NewSweepProcessor(stores.Budgets, stores.Transactions, dispatcher, clock,
		services.SweepConfig{Interval: cfg.SweepInterval, Concurrency: cfg.SweepConcurrency}, logger)

	closeAll := func() {
		if sender.Cleanup != nil {
			if err := sender.Cleanup(); err != nil {
				logger.Error("Failed to close notifier", log.FieldError, err)
			}
		}
		if err := stores.Close(); err != nil {
			logger.Error("Failed to close storage", log.FieldError, err)
		}
	}

	if *once {
		_, err := processor.Sweep(context.Background())
		closeAll()
		if err != nil {
			logger.Error("Sweep failed", log.FieldError, err)
			os.Exit(cli.ExitFailure)
		}
		return
	}

	ctx, done := cli.GracefulShutdown(logger, 30*time.Second, func(shutdownCtx context.Context) {
		if err := processor.Stop(shutdownCtx); err != nil {
			logger.Error("Failed to stop sweep processor", log.FieldError, err)
		}
		closeAll()
	})

	if err := processor.Start(ctx); err != nil {
		logger.Error("Failed to start sweep processor", log.FieldError, err)
		os.Exit(cli.ExitFailure)
	}

	cli.WaitForShutdown(ctx, done)
}
