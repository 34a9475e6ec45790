package upload

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os"

	"aetherpix/internal/core/domain"
	"aetherpix/internal/core/port"
)

// Upload stages the first multipart part, stores it as the original, records its
// metadata and hands the staged file to the derivative queue. Anonymous uploads are
// always public; the public flag is only honoured for authenticated callers.
func (s *imageService) Upload(ctx context.Context, req port.UploadRequest) (*domain.UploadResult, error) {
	if req.Identity == nil && !s.settings.AllowEveryoneUpload(ctx) {
		return nil, domain.ErrUnauthorized
	}

	staged, err := s.ingestor.Ingest(ctx, req.Body, s.settings.MaxUploadSize(ctx))
	if err != nil {
		return nil, err
	}

	owned := true
	defer func() {
		if owned {
			staged.File.Dispose()
		}
	}()

	if err := s.putOriginal(ctx, staged); err != nil {
		return nil, err
	}

	isPublic := req.Identity == nil || req.Public
	result := domain.UploadResult{
		PublicURL:        s.viewURL(staged.Key, isPublic),
		StorageKey:       staged.Key,
		ContentUUID:      staged.ContentUUID,
		OriginalFilename: staged.RawName,
		ContentType:      staged.ContentType,
		IsPublic:         isPublic,
		ByteSize:         staged.Size,
		Source:           domain.ImageSourceMultipart,
	}
	if req.Identity != nil {
		owner := req.Identity.UserID
		result.OwnerID = &owner
	}

	err = s.uow.Execute(ctx, func(uow port.UnitOfWork) error {
		_, createErr := uow.ImageRepo().Create(ctx, result)
		return createErr
	})
	if err != nil {
		if errors.Is(err, domain.ErrAlreadyExists) {
			return nil, fmt.Errorf("%w: duplicate upload %s", domain.ErrInternal, staged.Key)
		}
		s.removeOrphan(ctx, staged.Key)
		return nil, fmt.Errorf("save metadata: %w", err)
	}

	job := &domain.DerivativeJob{
		File:          staged.File,
		OriginalKey:   staged.Key,
		DerivativeKey: domain.DerivativeKeyFor(staged.ContentUUID),
		Quality:       domain.ClampQuality(req.Quality),
	}
	owned = false
	if err := s.queue.Enqueue(ctx, job); err != nil {
		s.logger.Warn("derivative job not enqueued",
			slog.String("job_key", job.Key()),
			slog.Any("error", err))
		job.Discard()
	}

	return &result, nil
}

func (s *imageService) putOriginal(ctx context.Context, staged *domain.StagedUpload) error {
	f, err := os.Open(staged.File.Path())
	if err != nil {
		return fmt.Errorf("%w: reopen staged file: %v", domain.ErrIO, err)
	}
	defer f.Close()

	if err := s.storage.Put(ctx, domain.PositionOriginal, staged.Key, f, staged.Size, staged.ContentType); err != nil {
		return fmt.Errorf("upload original: %w", err)
	}
	return nil
}

// removeOrphan deletes an original whose metadata could not be written
func (s *imageService) removeOrphan(ctx context.Context, key string) {
	if err := s.storage.Delete(context.WithoutCancel(ctx), domain.PositionOriginal, key); err != nil {
		s.logger.Error("failed to remove orphan original",
			slog.String("key", key),
			slog.Any("error", err))
	}
}
