package storage

import (
	"context"
	"io"
	"time"

	"aetherpix/internal/core/domain"

	"github.com/stretchr/testify/mock"
)

type MockStorage struct {
	mock.Mock
}

func NewMockStorage() *MockStorage {
	return &MockStorage{}
}

func (m *MockStorage) Put(ctx context.Context, position domain.StoragePosition, key string, body io.Reader, size int64, contentType string) error {
	args := m.Called(ctx, position, key, body, size, contentType)
	return args.Error(0)
}

func (m *MockStorage) PutMany(ctx context.Context, objects []domain.PutObject) error {
	args := m.Called(ctx, objects)
	return args.Error(0)
}

func (m *MockStorage) Get(ctx context.Context, position domain.StoragePosition, key string) (*domain.Object, error) {
	args := m.Called(ctx, position, key)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Object), args.Error(1)
}

func (m *MockStorage) Stat(ctx context.Context, position domain.StoragePosition, key string) (*domain.ObjectInfo, error) {
	args := m.Called(ctx, position, key)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.ObjectInfo), args.Error(1)
}

func (m *MockStorage) Delete(ctx context.Context, position domain.StoragePosition, key string) error {
	args := m.Called(ctx, position, key)
	return args.Error(0)
}

func (m *MockStorage) PresignPut(ctx context.Context, position domain.StoragePosition, key string, contentType string, ttl time.Duration) (*domain.PresignedGrant, error) {
	args := m.Called(ctx, position, key, contentType, ttl)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.PresignedGrant), args.Error(1)
}
