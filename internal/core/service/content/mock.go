package content

import (
	"context"

	"aetherpix/internal/core/domain"

	"github.com/stretchr/testify/mock"
)

type MockContentService struct {
	mock.Mock
}

func NewMockContentService() *MockContentService {
	return &MockContentService{}
}

func (m *MockContentService) Fetch(ctx context.Context, identity *domain.Identity, position domain.StoragePosition, key string, ifNoneMatch string) (*domain.Object, error) {
	args := m.Called(ctx, identity, position, key, ifNoneMatch)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Object), args.Error(1)
}
