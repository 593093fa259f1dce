package main

import (
	"context"
	"os"
	"time"

	"moneyminder/internal/amqp"
	"moneyminder/internal/backend"
	"moneyminder/internal/cli"
	"moneyminder/internal/log"
	"moneyminder/internal/worker"
)

func main() {
	cli.LoadEnvFile()
	cfg := cli.MustLoadConfig()
	logger := cli.SetupLogger(cfg, log.ComponentWorker)

	logger.Info("Starting alert-worker",
		"exchange", cfg.AMQPExchange,
		"queue", cfg.AMQPQueue)

	bcfg, err := backend.FromAppConfig(cfg)
	if err != nil {
		logger.Error("Invalid backend configuration", log.FieldError, err)
		os.Exit(cli.ExitFailure)
	}

	factory := backend.NewFactory(logger)
	delivery, err := factory.CreateDeliverySender(context.Background(), bcfg)
	if err != nil {
		logger.Error("Failed to initialize sender", log.FieldError, err)
		os.Exit(cli.ExitFailure)
	}

	client, err := amqp.NewClient(cfg.AMQPURL, cfg.AMQPExchange, cfg.AMQPQueue, logger)
	if err != nil {
		logger.Error("Failed to initialize AMQP client", log.FieldError, err)
		os.Exit(cli.ExitFailure)
	}

	ctx, done := cli.GracefulShutdown(logger, 30*time.Second, func(context.Context) {
		if err := client.Close(); err != nil {
			logger.Error("Failed to close AMQP client", log.FieldError, err)
		}
	})

	w := worker.NewAlertWorker(delivery.Sender, logger)
	if err := w.Run(ctx, client); err != nil {
		logger.Error("Alert worker failed", log.FieldError, err)
		client.Close()
		os.Exit(cli.ExitFailure)
	}

	cli.WaitForShutdown(ctx, done)
}
