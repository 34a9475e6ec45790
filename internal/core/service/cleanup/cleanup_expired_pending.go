package cleanup

import (
	"context"
	"errors"
	"log/slog"
	"time"

	"aetherpix/internal/core/domain"
	"aetherpix/internal/core/port"
)

// CleanupExpiredPending expires presigned uploads that were never confirmed and deletes
// whatever object the client may have left behind. A failure on one upload does not stop
// the others.
func (c *cleanupService) CleanupExpiredPending(ctx context.Context, now time.Time) error {
	expired, err := c.uow.PendingUploadRepo().FindExpired(ctx, now)
	if err != nil {
		return err
	}

	cleaned := 0
	for _, pending := range expired {
		txErr := c.uow.Execute(ctx, func(uow port.UnitOfWork) error {
			return uow.PendingUploadRepo().UpdateStatus(ctx, pending.StorageKey,
				domain.PendingUploadStatusPending, domain.PendingUploadStatusExpired)
		})
		if txErr != nil {
			if errors.Is(txErr, domain.ErrConflict) {
				// confirmed between the scan and the update
				continue
			}
			c.logger.Error("failed to expire pending upload",
				slog.String("key", pending.StorageKey),
				slog.Any("error", txErr))
			continue
		}

		err := c.storage.Delete(ctx, domain.PositionOriginal, pending.StorageKey)
		if err != nil && !errors.Is(err, domain.ErrObjectNotFound) {
			c.logger.Error("failed to delete orphan original",
				slog.String("key", pending.StorageKey),
				slog.Any("error", err))
			continue
		}
		cleaned++
	}

	c.logger.Info("expired pending uploads cleaned",
		slog.Int("found", len(expired)),
		slog.Int("cleaned", cleaned))
	return nil
}
