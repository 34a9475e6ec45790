package repository

import (
	"context"
	"time"

	"aetherpix/internal/core/domain"
	"aetherpix/internal/core/port"

	"github.com/google/uuid"
	"github.com/stretchr/testify/mock"
)

type MockImageRepository struct {
	mock.Mock
}

func NewMockImageRepository() *MockImageRepository {
	return &MockImageRepository{}
}

func (m *MockImageRepository) Create(ctx context.Context, result domain.UploadResult) (*domain.Image, error) {
	args := m.Called(ctx, result)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Image), args.Error(1)
}

func (m *MockImageRepository) FindByUUID(ctx context.Context, id uuid.UUID) (*domain.Image, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Image), args.Error(1)
}

func (m *MockImageRepository) FindByStorageKey(ctx context.Context, key string) (*domain.Image, error) {
	args := m.Called(ctx, key)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Image), args.Error(1)
}

func (m *MockImageRepository) ListByOwner(ctx context.Context, ownerID uuid.UUID, limit, offset int) ([]domain.Image, int, error) {
	args := m.Called(ctx, ownerID, limit, offset)
	return args.Get(0).([]domain.Image), args.Int(1), args.Error(2)
}

type MockPendingUploadRepository struct {
	mock.Mock
}

func NewMockPendingUploadRepository() *MockPendingUploadRepository {
	return &MockPendingUploadRepository{}
}

func (m *MockPendingUploadRepository) Create(ctx context.Context, pending domain.PendingUpload) error {
	args := m.Called(ctx, pending)
	return args.Error(0)
}

func (m *MockPendingUploadRepository) FindByStorageKey(ctx context.Context, key string) (*domain.PendingUpload, error) {
	args := m.Called(ctx, key)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.PendingUpload), args.Error(1)
}

func (m *MockPendingUploadRepository) UpdateStatus(ctx context.Context, key string, from, to domain.PendingUploadStatus) error {
	args := m.Called(ctx, key, from, to)
	return args.Error(0)
}

func (m *MockPendingUploadRepository) FindExpired(ctx context.Context, now time.Time) ([]domain.PendingUpload, error) {
	args := m.Called(ctx, now)
	return args.Get(0).([]domain.PendingUpload), args.Error(1)
}

type MockSettingsRepository struct {
	mock.Mock
}

func NewMockSettingsRepository() *MockSettingsRepository {
	return &MockSettingsRepository{}
}

func (m *MockSettingsRepository) Get(ctx context.Context, key string) (string, bool, error) {
	args := m.Called(ctx, key)
	return args.String(0), args.Bool(1), args.Error(2)
}

type MockUnitOfWork struct {
	mock.Mock
	imageRepo         *MockImageRepository
	pendingUploadRepo *MockPendingUploadRepository
	settingsRepo      *MockSettingsRepository
}

func NewMockUnitOfWork() *MockUnitOfWork {
	return &MockUnitOfWork{
		imageRepo:         &MockImageRepository{},
		pendingUploadRepo: &MockPendingUploadRepository{},
		settingsRepo:      &MockSettingsRepository{},
	}
}

func (m *MockUnitOfWork) ImageRepo() port.ImageRepository {
	return m.imageRepo
}

func (m *MockUnitOfWork) PendingUploadRepo() port.PendingUploadRepository {
	return m.pendingUploadRepo
}

func (m *MockUnitOfWork) SettingsRepo() port.SettingsRepository {
	return m.settingsRepo
}

func (m *MockUnitOfWork) Execute(ctx context.Context, fn func(uow port.UnitOfWork) error) error {
	args := m.Called(ctx, fn)

	if err := fn(m); err != nil {
		return err
	}

	return args.Error(0)
}

func (m *MockUnitOfWork) GetImageRepoMock() *MockImageRepository {
	return m.imageRepo
}

func (m *MockUnitOfWork) GetPendingUploadRepoMock() *MockPendingUploadRepository {
	return m.pendingUploadRepo
}

func (m *MockUnitOfWork) GetSettingsRepoMock() *MockSettingsRepository {
	return m.settingsRepo
}
