package memory

import (
	"context"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"aetherpix/internal/core/domain"
	"aetherpix/internal/core/port"
)

// Queue is a bounded in-process job queue drained by a fixed pool of workers
type Queue struct {
	jobs      chan domain.Job
	stop      chan struct{}
	processor port.JobProcessor
	observer  port.JobObserver
	workers   int
	logger    *slog.Logger

	mu      sync.RWMutex
	closed  bool
	started bool
	wg      sync.WaitGroup
}

var _ port.JobQueue = (*Queue)(nil)

// NewQueue returns Queue
func NewQueue(size, workers int, processor port.JobProcessor, observer port.JobObserver, logger *slog.Logger) *Queue {
	if size <= 0 {
		size = 1
	}
	if workers <= 0 {
		workers = 1
	}
	if observer == nil {
		observer = noopObserver{}
	}
	return &Queue{
		jobs:      make(chan domain.Job, size),
		stop:      make(chan struct{}),
		processor: processor,
		observer:  observer,
		workers:   workers,
		logger:    logger,
	}
}

// Start launches the worker pool. Jobs run on a context detached from ctx cancellation.
func (q *Queue) Start(ctx context.Context) {
	q.mu.Lock()
	defer q.mu.Unlock()
	if q.started || q.closed {
		return
	}
	q.started = true

	q.logger.Info("starting job queue",
		slog.Int("workers", q.workers),
		slog.Int("buffer_size", cap(q.jobs)))

	jobCtx := context.WithoutCancel(ctx)
	for i := 0; i < q.workers; i++ {
		q.wg.Add(1)
		go q.worker(jobCtx, i)
	}
}

// Enqueue hands job to the queue without blocking. On ErrQueueFull or ErrQueueClosed the
// caller keeps ownership of the job.
func (q *Queue) Enqueue(ctx context.Context, job domain.Job) error {
	q.mu.RLock()
	defer q.mu.RUnlock()

	if q.closed {
		return domain.ErrQueueClosed
	}
	if err := ctx.Err(); err != nil {
		return fmt.Errorf("failed to enqueue job: %w", err)
	}

	select {
	case q.jobs <- job:
		q.observer.SetQueueDepth(len(q.jobs))
		q.logger.Debug("job enqueued",
			slog.String("job_key", job.Key()),
			slog.String("kind", string(job.Kind())),
			slog.String("state", string(domain.JobStateEnqueued)))
		return nil
	default:
		return domain.ErrQueueFull
	}
}

func (q *Queue) worker(ctx context.Context, id int) {
	defer q.wg.Done()

	q.logger.Debug("worker started", slog.Int("id", id))

	for {
		select {
		case <-q.stop:
			return
		case job := <-q.jobs:
			q.observer.SetQueueDepth(len(q.jobs))
			q.run(ctx, job)
		}
	}
}

func (q *Queue) run(ctx context.Context, job domain.Job) {
	start := time.Now()
	defer func() {
		if r := recover(); r != nil {
			job.Discard()
			q.observer.RecordJob(job.Kind(), domain.JobStateFailed, time.Since(start))
			q.logger.Error("job panicked",
				slog.String("job_key", job.Key()),
				slog.Any("panic", r))
		}
	}()

	state := q.processor.Process(ctx, job)
	q.observer.RecordJob(job.Kind(), state, time.Since(start))
}

// Close stops intake and lets running jobs finish, then disposes every job that was never
// delivered to a worker. If ctx expires first, running jobs are abandoned to finish on
// their own.
func (q *Queue) Close(ctx context.Context) error {
	q.mu.Lock()
	if q.closed {
		q.mu.Unlock()
		return nil
	}
	q.closed = true
	close(q.stop)
	q.mu.Unlock()

	done := make(chan struct{})
	go func() {
		q.wg.Wait()
		close(done)
	}()

	var err error
	select {
	case <-done:
	case <-ctx.Done():
		err = fmt.Errorf("job queue shutdown: %w", ctx.Err())
	}

	dropped := q.drain()
	q.observer.SetQueueDepth(0)

	q.logger.Info("job queue closed", slog.Int("dropped_jobs", dropped))
	return err
}

func (q *Queue) drain() int {
	dropped := 0
	for {
		select {
		case job := <-q.jobs:
			job.Discard()
			dropped++
		default:
			return dropped
		}
	}
}

type noopObserver struct{}

func (noopObserver) RecordJob(domain.JobKind, domain.JobState, time.Duration) {}

func (noopObserver) SetQueueDepth(int) {}
