package presign

import (
	"context"
	"fmt"
	"mime"
	"strings"

	"aetherpix/internal/core/domain"

	"github.com/gabriel-vasile/mimetype"
	"github.com/google/uuid"
)

// PresignPut signs a direct PUT of a new original. The key extension is derived from the
// content type, never from the client filename. Authenticated callers get a pending
// upload they can later confirm; anonymous grants cannot be confirmed.
func (p *presignService) PresignPut(ctx context.Context, identity *domain.Identity, fileName, contentType string, size int64) (*domain.PresignedGrant, error) {
	if identity == nil && !p.settings.AllowEveryoneUpload(ctx) {
		return nil, domain.ErrUnauthorized
	}

	mediaType, ext, err := imageExtension(contentType)
	if err != nil {
		return nil, err
	}
	if size <= 0 {
		return nil, fmt.Errorf("%w: size must be positive", domain.ErrBadRequest)
	}
	if size > p.settings.MaxUploadSize(ctx) {
		return nil, domain.ErrFileSizeTooBig
	}

	id, err := uuid.NewV7()
	if err != nil {
		return nil, fmt.Errorf("%w: %v", domain.ErrInternal, err)
	}
	key := domain.NewObjectKey(id, ext)

	grant, err := p.storage.PresignPut(ctx, domain.PositionOriginal, key, mediaType, p.opts.TTL)
	if err != nil {
		return nil, fmt.Errorf("%w: sign upload: %v", domain.ErrInternal, err)
	}

	if identity == nil {
		return grant, nil
	}

	now := p.now()
	err = p.uow.PendingUploadRepo().Create(ctx, domain.PendingUpload{
		StorageKey:       key,
		ContentUUID:      id,
		OwnerID:          identity.UserID,
		OriginalFilename: fileName,
		ContentType:      mediaType,
		DeclaredSize:     size,
		Status:           domain.PendingUploadStatusPending,
		ExpiresAt:        grant.ExpiresAt.Add(p.opts.PendingTTL),
		CreatedAt:        now,
		UpdatedAt:        now,
	})
	if err != nil {
		return nil, fmt.Errorf("save pending upload: %w", err)
	}

	return grant, nil
}

// imageExtension validates an image content type and returns it with its canonical extension
func imageExtension(contentType string) (string, string, error) {
	mediaType, _, err := mime.ParseMediaType(contentType)
	if err != nil || !strings.HasPrefix(mediaType, "image/") {
		return "", "", fmt.Errorf("%w: %q", domain.ErrInvalidFileType, contentType)
	}

	m := mimetype.Lookup(mediaType)
	if m == nil || m.Extension() == "" {
		return "", "", fmt.Errorf("%w: %q", domain.ErrInvalidFileType, contentType)
	}
	return mediaType, strings.TrimPrefix(m.Extension(), "."), nil
}
