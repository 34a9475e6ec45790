package port

import (
	"context"
	"io"
	"time"

	"aetherpix/internal/core/domain"
)

// ObjectStorage routes object operations to the backend configured for a position
type ObjectStorage interface {
	Put(ctx context.Context, position domain.StoragePosition, key string, body io.Reader, size int64, contentType string) error
	PutMany(ctx context.Context, objects []domain.PutObject) error
	Get(ctx context.Context, position domain.StoragePosition, key string) (*domain.Object, error)
	Stat(ctx context.Context, position domain.StoragePosition, key string) (*domain.ObjectInfo, error)
	Delete(ctx context.Context, position domain.StoragePosition, key string) error
	PresignPut(ctx context.Context, position domain.StoragePosition, key string, contentType string, ttl time.Duration) (*domain.PresignedGrant, error)
}

// ContentService serves stored objects with conditional request support
type ContentService interface {
	Fetch(ctx context.Context, identity *domain.Identity, position domain.StoragePosition, key string, ifNoneMatch string) (*domain.Object, error)
}
