package port

import (
	"context"
	"mime/multipart"

	"aetherpix/internal/core/domain"

	"github.com/google/uuid"
)

// ImageRepository is an interface to define image metadata interactions
type ImageRepository interface {
	Create(ctx context.Context, result domain.UploadResult) (*domain.Image, error)
	FindByUUID(ctx context.Context, id uuid.UUID) (*domain.Image, error)
	FindByStorageKey(ctx context.Context, key string) (*domain.Image, error)
	ListByOwner(ctx context.Context, ownerID uuid.UUID, limit, offset int) ([]domain.Image, int, error)
}

// UploadRequest carries the caller-controlled knobs of a multipart upload
type UploadRequest struct {
	Identity *domain.Identity
	Body     *multipart.Reader
	Quality  int
	Public   bool
}

// ImageService handles multipart ingest and image listing
type ImageService interface {
	Upload(ctx context.Context, req UploadRequest) (*domain.UploadResult, error)
	ListImages(ctx context.Context, identity *domain.Identity, page, limit int) (*domain.ImagePage, error)
}
