package upload

import (
	"context"

	"aetherpix/internal/core/domain"
)

// ListImages returns one page of the caller's images, newest first
func (s *imageService) ListImages(ctx context.Context, identity *domain.Identity, page, limit int) (*domain.ImagePage, error) {
	if identity == nil {
		return nil, domain.ErrUnauthorized
	}
	if page < 1 {
		page = 1
	}
	if limit < 1 || limit > MaxPageSize {
		limit = MaxPageSize
	}

	images, total, err := s.uow.ImageRepo().ListByOwner(ctx, identity.UserID, limit, (page-1)*limit)
	if err != nil {
		return nil, err
	}
	for i := range images {
		images[i].PreviewURL = domain.PreviewURL(s.publicURL, images[i].UUID)
	}

	return &domain.ImagePage{
		Images: images,
		Page:   page,
		Pages:  (total + limit - 1) / limit,
		Total:  total,
	}, nil
}
