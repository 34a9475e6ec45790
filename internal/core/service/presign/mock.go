package presign

import (
	"context"

	"aetherpix/internal/core/domain"

	"github.com/stretchr/testify/mock"
)

type MockPresignService struct {
	mock.Mock
}

func NewMockPresignService() *MockPresignService {
	return &MockPresignService{}
}

func (m *MockPresignService) PresignPut(ctx context.Context, identity *domain.Identity, fileName, contentType string, size int64) (*domain.PresignedGrant, error) {
	args := m.Called(ctx, identity, fileName, contentType, size)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.PresignedGrant), args.Error(1)
}

func (m *MockPresignService) Confirm(ctx context.Context, identity *domain.Identity, key string, size int64, isPublic bool) (*domain.UploadResult, error) {
	args := m.Called(ctx, identity, key, size, isPublic)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.UploadResult), args.Error(1)
}
