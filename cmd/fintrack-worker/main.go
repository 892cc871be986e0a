package main

import (
	"context"
	"errors"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"
	"golang.org/x/sync/errgroup"

	"fintrack/internal/amqp"
	"fintrack/internal/backend"
	"fintrack/internal/config"
	"fintrack/internal/log"
	"fintrack/internal/worker"
)

func main() {
	// Load .env file for local development (ignore errors in production/docker)
	_ = godotenv.Load()

	cfg := config.Load()
	if err := cfg.Validate(); err != nil {
		log.New(log.DefaultConfig()).Error("Configuration validation failed", log.FieldError, err)
		os.Exit(1)
	}
	if cfg.AMQPURL == "" {
		log.New(log.DefaultConfig()).Error("AMQP_URL is required for the archive worker")
		os.Exit(1)
	}

	logger := log.New(log.Config{Level: cfg.SlogLevel(), Component: log.ComponentWorker})
	log.SetDefault(logger)

	logger.Info("Starting fintrack-worker")

	backendCfg, err := backend.FromAppConfig(cfg)
	if err != nil {
		logger.Error("Invalid backend configuration", log.FieldError, err)
		os.Exit(1)
	}
	result, err := backend.Create(backendCfg, logger)
	if err != nil {
		logger.Error("Failed to initialize backend", log.FieldError, err, log.FieldBackend, cfg.DataBackend)
		os.Exit(1)
	}
	defer func() {
		if result.Cleanup != nil {
			if err := result.Cleanup(); err != nil {
				logger.Error("Backend cleanup failed", log.FieldError, err)
			}
		}
	}()

	amqpClient, err := amqp.NewClient(cfg.AMQPURL, cfg.AMQPExchange, cfg.AMQPQueue)
	if err != nil {
		logger.Error("Failed to initialize AMQP client", log.FieldError, err)
		os.Exit(1)
	}
	defer amqpClient.Close()

	archiver, err := worker.NewArchiveWorker(result.Store, cfg.ArchivePath, cfg.ArchiveBatchSize, logger)
	if err != nil {
		logger.Error("Failed to initialize archive worker", log.FieldError, err, log.FieldPath, cfg.ArchivePath)
		os.Exit(1)
	}
	defer archiver.Close()

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	group, ctx := errgroup.WithContext(ctx)

	group.Go(func() error {
		err := amqpClient.ConsumeEntryEvents(ctx, func(msg *amqp.EntryEventMessage) error {
			return archiver.HandleEntryEvent(ctx, msg)
		})
		if err != nil && !errors.Is(err, context.Canceled) {
			return err
		}
		return nil
	})

	// Flush partial batches periodically so records do not sit in
	// memory during quiet periods.
	group.Go(func() error {
		ticker := time.NewTicker(cfg.ArchiveInterval)
		defer ticker.Stop()
		for {
			select {
			case <-ctx.Done():
				return nil
			case <-ticker.C:
				if err := archiver.Flush(); err != nil {
					logger.Error("Periodic archive flush failed", log.FieldError, err)
				}
			}
		}
	})

	logger.Info("Archive worker running",
		log.FieldPath, cfg.ArchivePath,
		"batch_size", cfg.ArchiveBatchSize,
		"flush_interval", cfg.ArchiveInterval.String())

	if err := group.Wait(); err != nil {
		logger.Error("Worker stopped with error", log.FieldError, err)
		os.Exit(1)
	}
	logger.Info("Worker stopped gracefully")
}
