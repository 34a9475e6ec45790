package presign

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"aetherpix/internal/core/domain"
	"aetherpix/internal/core/port"
)

// Confirm turns a completed direct upload into an image record and schedules its
// derivatives
func (p *presignService) Confirm(ctx context.Context, identity *domain.Identity, key string, size int64, isPublic bool) (*domain.UploadResult, error) {
	if identity == nil {
		return nil, domain.ErrUnauthorized
	}
	if _, err := domain.ParseObjectKey(key, domain.PositionOriginal); err != nil {
		return nil, fmt.Errorf("%w: %v", domain.ErrNotFound, err)
	}

	pending, err := p.uow.PendingUploadRepo().FindByStorageKey(ctx, key)
	if err != nil {
		return nil, err
	}
	if pending.OwnerID != identity.UserID {
		return nil, domain.ErrNotFound
	}
	switch pending.Status {
	case domain.PendingUploadStatusConfirmed:
		return nil, domain.ErrConflict
	case domain.PendingUploadStatusExpired:
		return nil, domain.ErrNotFound
	}

	info, err := p.storage.Stat(ctx, domain.PositionOriginal, key)
	if err != nil {
		if errors.Is(err, domain.ErrObjectNotFound) {
			return nil, fmt.Errorf("%w: object %s was never uploaded", domain.ErrNotFound, key)
		}
		return nil, fmt.Errorf("%w: stat original: %v", domain.ErrInternal, err)
	}
	if info.Size != size {
		return nil, fmt.Errorf("%w: %w: stored %d, declared %d", domain.ErrBadRequest, domain.ErrSizeMismatch, info.Size, size)
	}

	owner := identity.UserID
	result := domain.UploadResult{
		StorageKey:       key,
		ContentUUID:      pending.ContentUUID,
		OriginalFilename: pending.OriginalFilename,
		ContentType:      pending.ContentType,
		IsPublic:         isPublic,
		OwnerID:          &owner,
		ByteSize:         info.Size,
		Source:           domain.ImageSourcePresigned,
	}
	if isPublic {
		result.PublicURL = domain.ViewURL(p.opts.PublicURL, key)
	}

	err = p.uow.Execute(ctx, func(uow port.UnitOfWork) error {
		if err := uow.PendingUploadRepo().UpdateStatus(ctx, key, domain.PendingUploadStatusPending, domain.PendingUploadStatusConfirmed); err != nil {
			return err
		}
		_, err := uow.ImageRepo().Create(ctx, result)
		return err
	})
	if err != nil {
		if errors.Is(err, domain.ErrAlreadyExists) {
			return nil, domain.ErrConflict
		}
		return nil, err
	}

	job := &domain.RemoteDerivativeJob{
		OriginalKey:   key,
		DerivativeKey: domain.DerivativeKeyFor(pending.ContentUUID),
		Quality:       domain.ClampQuality(p.opts.Quality),
	}
	if err := p.queue.Enqueue(ctx, job); err != nil {
		p.logger.Warn("derivative job not enqueued",
			slog.String("job_key", job.Key()),
			slog.Any("error", err))
	}

	return &result, nil
}
