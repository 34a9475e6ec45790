package port

import (
	"context"
	"time"
)

// CleanupService is service that handles cleanup
type CleanupService interface {
	CleanupExpiredPending(ctx context.Context, now time.Time) error
	SweepStagingDir(ctx context.Context, olderThan time.Duration) error
}

// StagingSweeper removes staged files left behind by a previous process
type StagingSweeper interface {
	Sweep(ctx context.Context, olderThan time.Duration) (int, error)
}
