package main

import (
	"context"
	"errors"
	"log/slog"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"
	"time"

	"aetherpix/internal/adapters/eventbroker/kafka"
	"aetherpix/internal/adapters/eventbroker/nats"
	"aetherpix/internal/adapters/storage/minio"
	"aetherpix/internal/adapters/tempfile"
	"aetherpix/internal/config"
	"aetherpix/internal/core/port"
	"aetherpix/internal/core/service/derivative"
	"aetherpix/internal/core/service/jobmessage"
	"aetherpix/internal/core/service/worker"
	"aetherpix/internal/logging"
)

func main() {

	ctx, stop := signal.NotifyContext(
		context.Background(),
		os.Interrupt,
		syscall.SIGTERM,
	)
	defer stop()

	// Load config
	cfg, err := config.LoadWorker()
	if err != nil {
		slog.Error("failed to load config", "error", err)
		os.Exit(1)
	}
	logger := logging.New(cfg.Env.Env, os.Stdout)

	if !cfg.NATS.Enabled {
		logger.Error("worker requires NATS_ENABLED=true")
		os.Exit(1)
	}

	storage, err := minio.NewRouter(ctx, cfg.Storage, nil, logger)
	if err != nil {
		logger.Error("failed to init storage", "error", err)
		os.Exit(1)
	}
	logger.Info("storage initialized")

	// The worker stages into its own subdirectory so an API process sharing the
	// host never sweeps files that are being encoded here.
	remover := tempfile.NewRemover(cfg.Upload.QueueSize, logger)
	defer remover.Close()
	staging := tempfile.NewDir(filepath.Join(cfg.Upload.TempDir, "worker"), remover)
	if removed, err := staging.Sweep(ctx, 0); err != nil {
		logger.Warn("failed to sweep staging dir", "error", err)
	} else if removed > 0 {
		logger.Info("removed orphaned staged files", "count", removed)
	}

	var publisher port.EventPublisher = kafka.NoopPublisher{}
	if len(cfg.Kafka.Brokers) > 0 {
		kafkaPublisher, err := kafka.NewPublisher(cfg.Kafka, logger)
		if err != nil {
			logger.Error("failed to init kafka publisher", "error", err)
			os.Exit(1)
		}
		publisher = kafkaPublisher
	}
	defer func() {
		if err := publisher.Close(); err != nil {
			logger.Error("failed to close event publisher", "error", err)
		}
	}()

	// Initialize services
	encoder := derivative.NewEncoder(cfg.Upload.EncoderConcurrency, logger)
	processor := worker.NewWorkerService(storage, encoder, staging, publisher, logger)
	messageService := jobmessage.NewJobMessageService(processor, logger)

	// Initialize NATS consumer
	natsConsumer, err := nats.NewNATSConsumer(cfg.NATS, logger)
	if err != nil {
		logger.Error("failed to create NATS consumer", "error", err)
		os.Exit(1)
	}
	logger.Info("NATS consumer initialized")

	if err := natsConsumer.Subscribe(ctx, messageService); err != nil {
		logger.Error("failed to subscribe to NATS", "error", err)
		_ = natsConsumer.Close()
		os.Exit(1)
	}
	logger.Info("NATS subscription active")

	// Wait for termination signal
	<-ctx.Done()
	logger.Info("gracefully shutting down derivative worker")

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer shutdownCancel()

	done := make(chan struct{})
	go func() {
		defer close(done)
		if err := natsConsumer.Close(); err != nil {
			logger.Error("failed to close NATS consumer during shutdown", "error", err)
		}
	}()

	select {
	case <-done:
	case <-shutdownCtx.Done():
		if errors.Is(shutdownCtx.Err(), context.DeadlineExceeded) {
			logger.Info("shutdown timeout exceeded")
		}
	}

	logger.Info("derivative worker shutdown complete")
}
