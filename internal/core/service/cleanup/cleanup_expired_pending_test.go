package cleanup_test

import (
	"context"
	"errors"
	"log/slog"
	"testing"
	"time"

	"aetherpix/internal/adapters/repository"
	"aetherpix/internal/adapters/storage"
	"aetherpix/internal/core/domain"
	"aetherpix/internal/core/service/cleanup"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
)

type stubSweeper struct {
	removed int
	err     error
	calls   int
}

func (s *stubSweeper) Sweep(ctx context.Context, olderThan time.Duration) (int, error) {
	s.calls++
	return s.removed, s.err
}

func TestCleanupService_CleanupExpiredPending_NoExpired(t *testing.T) {
	// Arrange
	ctx := context.Background()
	mockUow := repository.NewMockUnitOfWork()
	mockStorage := storage.NewMockStorage()
	service := cleanup.NewCleanupService(mockUow, mockStorage, &stubSweeper{}, slog.Default())

	now := time.Now()
	mockPendingRepo := mockUow.GetPendingUploadRepoMock()
	mockPendingRepo.On("FindExpired", ctx, now).Return([]domain.PendingUpload{}, nil)

	// Act
	err := service.CleanupExpiredPending(ctx, now)

	// Assert
	assert.NoError(t, err)
	mockPendingRepo.AssertExpectations(t)
	mockStorage.AssertNotCalled(t, "Delete", mock.Anything, mock.Anything, mock.Anything)
}

func TestCleanupService_CleanupExpiredPending_Success(t *testing.T) {
	// Arrange
	ctx := context.Background()
	mockUow := repository.NewMockUnitOfWork()
	mockStorage := storage.NewMockStorage()
	service := cleanup.NewCleanupService(mockUow, mockStorage, &stubSweeper{}, slog.Default())

	now := time.Now()
	pending := []domain.PendingUpload{{StorageKey: "a.png"}, {StorageKey: "b.png"}}

	mockPendingRepo := mockUow.GetPendingUploadRepoMock()
	mockPendingRepo.On("FindExpired", ctx, now).Return(pending, nil)
	mockUow.On("Execute", ctx, mock.Anything).Return(nil)
	mockPendingRepo.On("UpdateStatus", ctx, "a.png", domain.PendingUploadStatusPending, domain.PendingUploadStatusExpired).Return(nil)
	mockPendingRepo.On("UpdateStatus", ctx, "b.png", domain.PendingUploadStatusPending, domain.PendingUploadStatusExpired).Return(nil)
	mockStorage.On("Delete", ctx, domain.PositionOriginal, "a.png").Return(nil)
	mockStorage.On("Delete", ctx, domain.PositionOriginal, "b.png").Return(domain.ErrObjectNotFound)

	// Act
	err := service.CleanupExpiredPending(ctx, now)

	// Assert
	assert.NoError(t, err)
	mockPendingRepo.AssertExpectations(t)
	mockStorage.AssertExpectations(t)
}

func TestCleanupService_CleanupExpiredPending_ConfirmedConcurrently(t *testing.T) {
	// Arrange
	ctx := context.Background()
	mockUow := repository.NewMockUnitOfWork()
	mockStorage := storage.NewMockStorage()
	service := cleanup.NewCleanupService(mockUow, mockStorage, &stubSweeper{}, slog.Default())

	now := time.Now()
	mockPendingRepo := mockUow.GetPendingUploadRepoMock()
	mockPendingRepo.On("FindExpired", ctx, now).Return([]domain.PendingUpload{{StorageKey: "a.png"}}, nil)
	mockUow.On("Execute", ctx, mock.Anything).Return(nil)
	mockPendingRepo.On("UpdateStatus", ctx, "a.png", domain.PendingUploadStatusPending, domain.PendingUploadStatusExpired).Return(domain.ErrConflict)

	// Act
	err := service.CleanupExpiredPending(ctx, now)

	// Assert
	assert.NoError(t, err)
	mockStorage.AssertNotCalled(t, "Delete", mock.Anything, mock.Anything, mock.Anything)
}

func TestCleanupService_CleanupExpiredPending_PartialFailure(t *testing.T) {
	// Arrange
	ctx := context.Background()
	mockUow := repository.NewMockUnitOfWork()
	mockStorage := storage.NewMockStorage()
	service := cleanup.NewCleanupService(mockUow, mockStorage, &stubSweeper{}, slog.Default())

	now := time.Now()
	mockPendingRepo := mockUow.GetPendingUploadRepoMock()
	mockPendingRepo.On("FindExpired", ctx, now).Return([]domain.PendingUpload{{StorageKey: "a.png"}, {StorageKey: "b.png"}}, nil)
	mockUow.On("Execute", ctx, mock.Anything).Return(nil)
	mockPendingRepo.On("UpdateStatus", ctx, "a.png", domain.PendingUploadStatusPending, domain.PendingUploadStatusExpired).Return(errors.New("update error"))
	mockPendingRepo.On("UpdateStatus", ctx, "b.png", domain.PendingUploadStatusPending, domain.PendingUploadStatusExpired).Return(nil)
	mockStorage.On("Delete", ctx, domain.PositionOriginal, "b.png").Return(nil)

	// Act
	err := service.CleanupExpiredPending(ctx, now)

	// Assert
	assert.NoError(t, err)
	mockStorage.AssertExpectations(t)
	mockStorage.AssertNotCalled(t, "Delete", ctx, domain.PositionOriginal, "a.png")
}

func TestCleanupService_CleanupExpiredPending_FindExpiredError(t *testing.T) {
	// Arrange
	ctx := context.Background()
	mockUow := repository.NewMockUnitOfWork()
	mockStorage := storage.NewMockStorage()
	service := cleanup.NewCleanupService(mockUow, mockStorage, &stubSweeper{}, slog.Default())

	now := time.Now()
	expectedError := errors.New("database error")
	mockUow.GetPendingUploadRepoMock().On("FindExpired", ctx, now).Return([]domain.PendingUpload{}, expectedError)

	// Act
	err := service.CleanupExpiredPending(ctx, now)

	// Assert
	assert.Error(t, err)
	assert.Equal(t, expectedError, err)
}

func TestCleanupService_SweepStagingDir(t *testing.T) {
	// Arrange
	ctx := context.Background()
	sweeper := &stubSweeper{removed: 3}
	service := cleanup.NewCleanupService(repository.NewMockUnitOfWork(), storage.NewMockStorage(), sweeper, slog.Default())

	// Act
	err := service.SweepStagingDir(ctx, time.Hour)

	// Assert
	assert.NoError(t, err)
	assert.Equal(t, 1, sweeper.calls)
}

func TestCleanupService_SweepStagingDir_Error(t *testing.T) {
	// Arrange
	sweeper := &stubSweeper{err: domain.ErrIO}
	service := cleanup.NewCleanupService(repository.NewMockUnitOfWork(), storage.NewMockStorage(), sweeper, slog.Default())

	// Act
	err := service.SweepStagingDir(context.Background(), time.Hour)

	// Assert
	assert.ErrorIs(t, err, domain.ErrIO)
}
