package postgres_test

import (
	"context"
	"testing"
	"time"

	"aetherpix/internal/adapters/repository/postgres"
	"aetherpix/internal/core/domain"
	"aetherpix/internal/core/port"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSqlUnitOfWork_Execute(t *testing.T) {

	//Arrange
	dbConnection, cleanup, truncate := postgres.NewTestDB(t)
	defer cleanup()

	ctx := context.Background()
	uow := postgres.NewUnitOfWork(dbConnection)
	imageRepo := postgres.NewSqlImageRepository(dbConnection)
	pendingRepo := postgres.NewSQLPendingUploadRepository(dbConnection)

	t.Run("Should commit when no error", func(t *testing.T) {
		defer truncate()
		pending := newPendingUpload(time.Now().Add(time.Minute))
		require.NoError(t, pendingRepo.Create(ctx, pending))
		result := newUploadResult(&pending.OwnerID)
		result.StorageKey = pending.StorageKey
		result.ContentUUID = pending.ContentUUID

		//act
		err := uow.Execute(ctx, func(u port.UnitOfWork) error {
			if err := u.PendingUploadRepo().UpdateStatus(ctx, pending.StorageKey, domain.PendingUploadStatusPending, domain.PendingUploadStatusConfirmed); err != nil {
				return err
			}
			_, err := u.ImageRepo().Create(ctx, result)
			return err
		})

		//assert
		require.NoError(t, err)
		img, err := imageRepo.FindByStorageKey(ctx, pending.StorageKey)
		require.NoError(t, err)
		require.Equal(t, pending.ContentUUID, img.UUID)
		found, err := pendingRepo.FindByStorageKey(ctx, pending.StorageKey)
		require.NoError(t, err)
		require.Equal(t, domain.PendingUploadStatusConfirmed, found.Status)
	})

	t.Run("Should rollback when error occurs", func(t *testing.T) {
		defer truncate()
		pending := newPendingUpload(time.Now().Add(time.Minute))
		require.NoError(t, pendingRepo.Create(ctx, pending))

		//act
		err := uow.Execute(ctx, func(u port.UnitOfWork) error {
			_ = u.PendingUploadRepo().UpdateStatus(ctx, pending.StorageKey, domain.PendingUploadStatusPending, domain.PendingUploadStatusConfirmed)
			return assert.AnError
		})

		//assert
		require.ErrorIs(t, err, assert.AnError)
		found, err := pendingRepo.FindByStorageKey(ctx, pending.StorageKey)
		require.NoError(t, err)
		require.Equal(t, domain.PendingUploadStatusPending, found.Status)
	})
}
