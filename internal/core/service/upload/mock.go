package upload

import (
	"context"

	"aetherpix/internal/core/domain"
	"aetherpix/internal/core/port"

	"github.com/stretchr/testify/mock"
)

type MockImageService struct {
	mock.Mock
}

func NewMockImageService() *MockImageService {
	return &MockImageService{}
}

func (m *MockImageService) Upload(ctx context.Context, req port.UploadRequest) (*domain.UploadResult, error) {
	args := m.Called(ctx, req)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.UploadResult), args.Error(1)
}

func (m *MockImageService) ListImages(ctx context.Context, identity *domain.Identity, page, limit int) (*domain.ImagePage, error) {
	args := m.Called(ctx, identity, page, limit)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.ImagePage), args.Error(1)
}
