package port

import (
	"time"

	"aetherpix/internal/core/domain"
)

// StorageObserver captures telemetry for storage operations
type StorageObserver interface {
	RecordOperation(position domain.StoragePosition, op string, duration time.Duration, sizeBytes int64, err error)
}

// JobObserver captures telemetry for background jobs
type JobObserver interface {
	RecordJob(kind domain.JobKind, state domain.JobState, duration time.Duration)
	SetQueueDepth(depth int)
}
