package port

import (
	"context"

	"aetherpix/internal/core/domain"
)

// JobQueue accepts background jobs. On error the caller still owns the job.
type JobQueue interface {
	Enqueue(ctx context.Context, job domain.Job) error
}

// JobProcessor runs one job to completion and releases what it owns
type JobProcessor interface {
	Process(ctx context.Context, job domain.Job) domain.JobState
}
