package derivative

import (
	"context"

	"aetherpix/internal/core/domain"

	"github.com/stretchr/testify/mock"
)

type MockEncoder struct {
	mock.Mock
}

func NewMockEncoder() *MockEncoder {
	return &MockEncoder{}
}

func (m *MockEncoder) Encode(ctx context.Context, path string, quality int) (*domain.Renditions, error) {
	args := m.Called(ctx, path, quality)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Renditions), args.Error(1)
}
