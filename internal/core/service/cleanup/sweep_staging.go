package cleanup

import (
	"context"
	"log/slog"
	"time"
)

// SweepStagingDir removes staged files older than olderThan
func (c *cleanupService) SweepStagingDir(ctx context.Context, olderThan time.Duration) error {
	removed, err := c.staging.Sweep(ctx, olderThan)
	if err != nil {
		return err
	}
	if removed > 0 {
		c.logger.Info("stale staged files removed", slog.Int("removed", removed))
	}
	return nil
}
