package main

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"sync"
	"syscall"
	"time"

	"aetherpix/internal/adapters/eventbroker/kafka"
	"aetherpix/internal/adapters/eventbroker/nats"
	"aetherpix/internal/adapters/handlers/http/chi"
	"aetherpix/internal/adapters/handlers/http/chi/v1/image"
	"aetherpix/internal/adapters/handlers/http/chi/v1/view"
	promobserver "aetherpix/internal/adapters/metrics/prometheus"
	"aetherpix/internal/adapters/queue"
	"aetherpix/internal/adapters/queue/memory"
	"aetherpix/internal/adapters/repository/postgres"
	"aetherpix/internal/adapters/settings"
	"aetherpix/internal/adapters/storage/minio"
	"aetherpix/internal/adapters/tempfile"
	"aetherpix/internal/config"
	"aetherpix/internal/core/port"
	"aetherpix/internal/core/service/cleanup"
	"aetherpix/internal/core/service/content"
	"aetherpix/internal/core/service/derivative"
	"aetherpix/internal/core/service/ingest"
	"aetherpix/internal/core/service/presign"
	"aetherpix/internal/core/service/upload"
	"aetherpix/internal/core/service/worker"
	"aetherpix/internal/logging"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

func main() {

	ctx, stop := signal.NotifyContext(
		context.Background(),
		os.Interrupt,
		syscall.SIGTERM,
	)
	defer stop()

	cfg, err := config.Load()
	if err != nil {
		slog.Error("failed to load config", "error", err)
		os.Exit(1)
	}
	logger := logging.New(cfg.Env.Env, os.Stdout)

	db, err := postgres.Open(ctx, cfg.Database)
	if err != nil {
		logger.Error("failed to init database", "error", err)
		os.Exit(1)
	}
	defer func(db *sql.DB) {
		if err := db.Close(); err != nil {
			logger.Error("failed to close database", "error", err)
		}
	}(db)
	logger.Info("db connection established")

	//metrics
	registry := prometheus.NewRegistry()
	registry.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)
	observer, err := promobserver.NewObserver("aetherpix", registry)
	if err != nil {
		logger.Error("failed to init metrics", "error", err)
		os.Exit(1)
	}

	//storage
	storage, err := minio.NewRouter(ctx, cfg.Storage, observer, logger)
	if err != nil {
		logger.Error("failed to init storage", "error", err)
		os.Exit(1)
	}

	remover := tempfile.NewRemover(cfg.Upload.QueueSize, logger)
	staging := tempfile.NewDir(cfg.Upload.TempDir, remover)

	//repositories
	unitOfWork := postgres.NewUnitOfWork(db)
	settingsProvider := settings.NewProvider(unitOfWork.SettingsRepo(), cfg.Settings, settings.Defaults{
		AllowEveryoneUpload: cfg.Settings.AllowEveryoneUpload,
		MaxUploadSizeBytes:  cfg.Upload.MaxSizeBytes(),
	}, logger)

	cleanupService := cleanup.NewCleanupService(unitOfWork, storage, staging, logger)
	// everything staged by a previous process is an orphan
	if err := cleanupService.SweepStagingDir(ctx, 0); err != nil {
		logger.Warn("failed to sweep staging dir", "error", err)
	}

	//jobs
	publisher, err := newEventPublisher(cfg.Kafka, logger)
	if err != nil {
		logger.Error("failed to init event publisher", "error", err)
		os.Exit(1)
	}
	encoder := derivative.NewEncoder(cfg.Upload.EncoderConcurrency, logger)
	processor := worker.NewWorkerService(storage, encoder, staging, publisher, logger)

	localQueue := memory.NewQueue(cfg.Upload.QueueSize, cfg.Upload.Workers, processor, observer, logger)
	localQueue.Start(ctx)

	var remoteQueue port.JobQueue
	var jobPublisher *nats.JobPublisher
	if cfg.NATS.Enabled {
		jobPublisher, err = nats.NewJobPublisher(ctx, cfg.NATS, logger)
		if err != nil {
			logger.Error("failed to init nats publisher", "error", err)
			os.Exit(1)
		}
		remoteQueue = jobPublisher
	}
	jobs := queue.NewDispatcher(localQueue, remoteQueue)

	//services
	ingestService := ingest.NewIngestService(staging, logger)
	imageService := upload.NewImageService(ingestService, storage, unitOfWork, jobs, settingsProvider, cfg.Server.PublicURL, logger)
	presignService := presign.NewPresignService(storage, unitOfWork, jobs, settingsProvider, presign.Options{
		PublicURL:  cfg.Server.PublicURL,
		TTL:        cfg.Storage.PresignTTL,
		PendingTTL: cfg.Upload.PendingTTL,
	}, logger)
	contentService := content.NewContentService(storage, unitOfWork.ImageRepo())

	//http
	imageHandler := image.NewImageHandlerV1(imageService, presignService, logger)
	viewHandler := view.NewViewHandlerV1(contentService, logger)
	metricsHandler := promhttp.HandlerFor(registry, promhttp.HandlerOpts{Registry: registry})

	router := chi.NewRouter(logger, imageHandler, viewHandler, metricsHandler, cfg.Auth.JWTSecret, cfg.Env.Env)
	server := &http.Server{
		Addr:              fmt.Sprintf("%s:%s", cfg.Server.Host, cfg.Server.Port),
		Handler:           router,
		ReadHeaderTimeout: 10 * time.Second,
	}

	var wg sync.WaitGroup
	wg.Add(1)
	go func() {
		defer wg.Done()
		logger.Info("starting server", "host", cfg.Server.Host, "port", cfg.Server.Port)
		servErr := server.ListenAndServe()
		if servErr != nil && !errors.Is(servErr, http.ErrServerClosed) {
			logger.Error("failed to start server", "error", servErr)
			stop()
		}
	}()

	// init cleanup task
	wg.Add(1)
	go func() {
		defer wg.Done()
		initCleanupTask(ctx, cleanupService, cfg.Upload, logger)
	}()

	//wait for context cancel
	<-ctx.Done()
	logger.Info("gracefully shutting down app")

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer shutdownCancel()
	if err := server.Shutdown(shutdownCtx); err != nil {
		logger.Error("failed to shutdown server", "error", err)
	} else {
		logger.Info("server gracefully shutdown complete")
	}

	wg.Wait()

	if err := localQueue.Close(shutdownCtx); err != nil {
		logger.Error("failed to drain job queue", "error", err)
	}
	if jobPublisher != nil {
		if err := jobPublisher.Close(); err != nil {
			logger.Error("failed to close nats publisher", "error", err)
		}
	}
	if err := publisher.Close(); err != nil {
		logger.Error("failed to close event publisher", "error", err)
	}
	remover.Close()

	logger.Info("app shutdown complete")

}

// newEventPublisher returns a kafka publisher, or a no-op one when no broker is configured
func newEventPublisher(cfg config.KafkaConfig, logger *slog.Logger) (port.EventPublisher, error) {
	if len(cfg.Brokers) == 0 {
		logger.Info("kafka disabled, derivative events are dropped")
		return kafka.NoopPublisher{}, nil
	}
	return kafka.NewPublisher(cfg, logger)
}

func initCleanupTask(ctx context.Context, service port.CleanupService, cfg config.UploadConfig, logger *slog.Logger) {
	ticker := time.NewTicker(cfg.CleanupEvery)
	defer ticker.Stop()

	logger.Info("cleanup task initialized", "interval", cfg.CleanupEvery)

	for {
		select {
		case <-ticker.C:
			logger.Info("cleanup task starting")
			if err := service.CleanupExpiredPending(ctx, time.Now()); err != nil {
				logger.Error("failed to cleanup expired uploads", "error", err)
			}
			if err := service.SweepStagingDir(ctx, cfg.StaleTempAfter); err != nil {
				logger.Error("failed to sweep staging dir", "error", err)
			}
			logger.Info("cleanup task completed")
		case <-ctx.Done():
			logger.Info("cleanup task stopped")
			return
		}
	}

}
