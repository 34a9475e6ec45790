package queue

import (
	"context"

	"aetherpix/internal/core/domain"

	"github.com/stretchr/testify/mock"
)

type MockJobQueue struct {
	mock.Mock
}

func NewMockJobQueue() *MockJobQueue {
	return &MockJobQueue{}
}

func (m *MockJobQueue) Enqueue(ctx context.Context, job domain.Job) error {
	args := m.Called(ctx, job)
	return args.Error(0)
}
