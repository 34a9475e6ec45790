package worker

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"log/slog"
	"time"

	"aetherpix/internal/core/domain"
	"aetherpix/internal/core/port"
)

const publishTimeout = 5 * time.Second

type workerService struct {
	storage   port.ObjectStorage
	encoder   port.DerivativeEncoder
	staging   port.StagingArea
	publisher port.EventPublisher
	logger    *slog.Logger
}

// NewWorkerService creates the derivative job processor
func NewWorkerService(storage port.ObjectStorage, encoder port.DerivativeEncoder, staging port.StagingArea, publisher port.EventPublisher, logger *slog.Logger) port.JobProcessor {
	return &workerService{
		storage:   storage,
		encoder:   encoder,
		staging:   staging,
		publisher: publisher,
		logger:    logger,
	}
}

// Process runs one job to completion. Whatever the outcome, every staged file the job
// owns is disposed exactly once before Process returns. Jobs are never retried.
func (w *workerService) Process(ctx context.Context, job domain.Job) domain.JobState {
	start := time.Now()
	w.logger.Info("job started",
		slog.String("job_key", job.Key()),
		slog.String("kind", string(job.Kind())),
		slog.String("state", string(domain.JobStateRunning)))

	var (
		derivativeKey string
		err           error
	)
	switch j := job.(type) {
	case *domain.DerivativeJob:
		derivativeKey = j.DerivativeKey
		err = w.processStaged(ctx, j)
	case *domain.RemoteDerivativeJob:
		derivativeKey = j.DerivativeKey
		err = w.processRemote(ctx, j)
	default:
		job.Discard()
		err = fmt.Errorf("unsupported job kind %s", job.Kind())
	}

	state := domain.JobStateCompleted
	if err != nil {
		state = domain.JobStateFailed
	}
	duration := time.Since(start)

	if err != nil {
		w.logger.Error("job failed",
			slog.String("job_key", job.Key()),
			slog.String("state", string(state)),
			slog.Duration("duration", duration),
			slog.Any("error", err))
	} else {
		w.logger.Info("job completed",
			slog.String("job_key", job.Key()),
			slog.String("state", string(state)),
			slog.Duration("duration", duration))
	}

	w.publish(ctx, job, derivativeKey, duration, err)
	return state
}

func (w *workerService) processStaged(ctx context.Context, job *domain.DerivativeJob) error {
	defer job.Discard()
	if job.File == nil {
		return fmt.Errorf("%w: job has no staged file", domain.ErrInternal)
	}
	return w.render(ctx, job.File.Path(), job.DerivativeKey, job.Quality)
}

// processRemote downloads the original into a staged file and renders from there
func (w *workerService) processRemote(ctx context.Context, job *domain.RemoteDerivativeJob) error {
	if _, err := domain.ParseObjectKey(job.OriginalKey, domain.PositionOriginal); err != nil {
		return err
	}
	if _, err := domain.ParseObjectKey(job.DerivativeKey, domain.PositionDerivative); err != nil {
		return err
	}

	obj, err := w.storage.Get(ctx, domain.PositionOriginal, job.OriginalKey)
	if err != nil {
		return fmt.Errorf("fetch original: %w", err)
	}
	defer obj.Body.Close()

	file, err := w.staging.Stage(job.OriginalKey)
	if err != nil {
		return err
	}
	defer file.Dispose()

	if _, err := io.Copy(file, obj.Body); err != nil {
		return fmt.Errorf("stage original: %w", err)
	}
	if err := file.Seal(); err != nil {
		return err
	}

	return w.render(ctx, file.Path(), job.DerivativeKey, job.Quality)
}

// render encodes both renditions and uploads them concurrently. It returns once both
// uploads resolved.
func (w *workerService) render(ctx context.Context, path, derivativeKey string, quality int) error {
	renditions, err := w.encoder.Encode(ctx, path, quality)
	if err != nil {
		return fmt.Errorf("encode: %w", err)
	}

	err = w.storage.PutMany(ctx, []domain.PutObject{
		{
			Position:    domain.PositionPreview,
			Key:         derivativeKey,
			Body:        bytes.NewReader(renditions.Thumbnail),
			Size:        int64(len(renditions.Thumbnail)),
			ContentType: domain.DerivativeContentType,
		},
		{
			Position:    domain.PositionDerivative,
			Key:         derivativeKey,
			Body:        bytes.NewReader(renditions.Preview),
			Size:        int64(len(renditions.Preview)),
			ContentType: domain.DerivativeContentType,
		},
	})
	if err != nil {
		return fmt.Errorf("upload renditions: %w", err)
	}
	return nil
}

func (w *workerService) publish(ctx context.Context, job domain.Job, derivativeKey string, duration time.Duration, jobErr error) {
	event := domain.DerivativeEvent{
		Type:          domain.DerivativeEventReady,
		JobKind:       job.Kind(),
		OriginalKey:   job.Key(),
		DerivativeKey: derivativeKey,
		DurationMS:    duration.Milliseconds(),
		OccurredAt:    time.Now().UTC(),
	}
	if jobErr != nil {
		event.Type = domain.DerivativeEventFailed
		event.Error = jobErr.Error()
	}

	pubCtx, cancel := context.WithTimeout(context.WithoutCancel(ctx), publishTimeout)
	defer cancel()

	if err := w.publisher.PublishDerivativeEvent(pubCtx, event); err != nil {
		w.logger.Warn("failed to publish derivative event",
			slog.String("job_key", job.Key()),
			slog.Any("error", err))
	}
}
