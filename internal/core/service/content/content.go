package content

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"aetherpix/internal/core/domain"
	"aetherpix/internal/core/port"

	"github.com/google/uuid"
)

type contentService struct {
	storage port.ObjectStorage
	images  port.ImageRepository
}

// NewContentService creates the read side of the image store
func NewContentService(storage port.ObjectStorage, images port.ImageRepository) port.ContentService {
	return &contentService{storage: storage, images: images}
}

// Fetch returns the object stored under key at position. When ifNoneMatch matches the
// stored ETag it returns ErrNotModified together with an Object carrying only metadata.
// Malformed keys are rejected before any storage call.
func (c *contentService) Fetch(ctx context.Context, identity *domain.Identity, position domain.StoragePosition, key string, ifNoneMatch string) (*domain.Object, error) {
	if err := position.Validate(); err != nil {
		return nil, fmt.Errorf("%w: %v", domain.ErrBadRequest, err)
	}
	id, err := domain.ParseObjectKey(key, position)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", domain.ErrBadRequest, err)
	}

	if err := c.authorize(ctx, identity, position, id, key); err != nil {
		return nil, err
	}

	info, err := c.storage.Stat(ctx, position, key)
	if err != nil {
		return nil, mapStorageError(err)
	}
	if ifNoneMatch != "" && ETagMatches(ifNoneMatch, info.ETag) {
		return &domain.Object{ObjectInfo: *info}, domain.ErrNotModified
	}

	obj, err := c.storage.Get(ctx, position, key)
	if err != nil {
		return nil, mapStorageError(err)
	}
	return obj, nil
}

// authorize hides every rendition of a private image from everyone but its owner
func (c *contentService) authorize(ctx context.Context, identity *domain.Identity, position domain.StoragePosition, id uuid.UUID, key string) error {
	var (
		image *domain.Image
		err   error
	)
	if position == domain.PositionOriginal {
		image, err = c.images.FindByStorageKey(ctx, key)
	} else {
		image, err = c.images.FindByUUID(ctx, id)
	}
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			return domain.ErrNotFound
		}
		return fmt.Errorf("%w: lookup image: %v", domain.ErrInternal, err)
	}

	if !image.VisibleTo(identity) {
		return domain.ErrNotFound
	}
	return nil
}

func mapStorageError(err error) error {
	if errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded) {
		return err
	}
	if errors.Is(err, domain.ErrObjectNotFound) {
		return domain.ErrNotFound
	}
	return fmt.Errorf("%w: %v", domain.ErrInternal, err)
}

// ETagMatches reports whether an If-None-Match header value matches etag. Comparison is
// weak: quotes and W/ prefixes are ignored.
func ETagMatches(header, etag string) bool {
	want := normalizeETag(etag)
	if want == "" {
		return false
	}
	for _, candidate := range strings.Split(header, ",") {
		candidate = strings.TrimSpace(candidate)
		if candidate == "*" || normalizeETag(candidate) == want {
			return true
		}
	}
	return false
}

func normalizeETag(tag string) string {
	tag = strings.TrimSpace(tag)
	tag = strings.TrimPrefix(tag, "W/")
	return strings.Trim(tag, `"`)
}
