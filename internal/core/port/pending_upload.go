package port

import (
	"context"
	"time"

	"aetherpix/internal/core/domain"
)

// PendingUploadRepository is an interface to interact with presigned upload placeholders
type PendingUploadRepository interface {
	Create(ctx context.Context, pending domain.PendingUpload) error
	FindByStorageKey(ctx context.Context, key string) (*domain.PendingUpload, error)
	UpdateStatus(ctx context.Context, key string, from, to domain.PendingUploadStatus) error
	FindExpired(ctx context.Context, now time.Time) ([]domain.PendingUpload, error)
}

// PresignService issues direct upload grants and confirms them
type PresignService interface {
	PresignPut(ctx context.Context, identity *domain.Identity, fileName, contentType string, size int64) (*domain.PresignedGrant, error)
	Confirm(ctx context.Context, identity *domain.Identity, key string, size int64, isPublic bool) (*domain.UploadResult, error)
}
