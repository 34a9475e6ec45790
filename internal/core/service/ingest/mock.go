package ingest

import (
	"context"
	"mime/multipart"

	"aetherpix/internal/core/domain"

	"github.com/stretchr/testify/mock"
)

type MockIngestor struct {
	mock.Mock
}

func NewMockIngestor() *MockIngestor {
	return &MockIngestor{}
}

func (m *MockIngestor) Ingest(ctx context.Context, body *multipart.Reader, maxSize int64) (*domain.StagedUpload, error) {
	args := m.Called(ctx, body, maxSize)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.StagedUpload), args.Error(1)
}
