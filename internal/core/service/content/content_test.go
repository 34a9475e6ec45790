package content_test

import (
	"context"
	"io"
	"strings"
	"testing"

	"aetherpix/internal/adapters/repository"
	"aetherpix/internal/adapters/storage"
	"aetherpix/internal/core/domain"
	"aetherpix/internal/core/service/content"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

func newImage(owner *uuid.UUID, public bool) (*domain.Image, string) {
	id := uuid.Must(uuid.NewV7())
	key := domain.NewObjectKey(id, "jpg")
	return &domain.Image{UUID: id, StorageKey: key, Public: public, OwnerID: owner}, key
}

func TestContentService_Fetch_Original(t *testing.T) {
	// Arrange
	ctx := context.Background()
	store := storage.NewMockStorage()
	images := repository.NewMockImageRepository()
	service := content.NewContentService(store, images)
	image, key := newImage(nil, true)

	info := domain.ObjectInfo{Key: key, ETag: "abc", ContentType: "image/jpeg", Size: 4}
	images.On("FindByStorageKey", ctx, key).Return(image, nil)
	store.On("Stat", ctx, domain.PositionOriginal, key).Return(&info, nil)
	store.On("Get", ctx, domain.PositionOriginal, key).Return(&domain.Object{
		ObjectInfo: info,
		Body:       io.NopCloser(strings.NewReader("jpeg")),
	}, nil)

	// Act
	obj, err := service.Fetch(ctx, nil, domain.PositionOriginal, key, `"other"`)

	// Assert
	require.NoError(t, err)
	defer obj.Body.Close()
	body, _ := io.ReadAll(obj.Body)
	assert.Equal(t, "jpeg", string(body))
	assert.Equal(t, "abc", obj.ETag)
}

func TestContentService_Fetch_NotModified(t *testing.T) {
	// Arrange
	ctx := context.Background()
	store := storage.NewMockStorage()
	images := repository.NewMockImageRepository()
	service := content.NewContentService(store, images)
	image, _ := newImage(nil, true)
	key := domain.DerivativeKeyFor(image.UUID)

	images.On("FindByUUID", ctx, image.UUID).Return(image, nil)
	store.On("Stat", ctx, domain.PositionDerivative, key).Return(&domain.ObjectInfo{Key: key, ETag: "abc"}, nil)

	// Act
	obj, err := service.Fetch(ctx, nil, domain.PositionDerivative, key, `W/"zzz", "abc"`)

	// Assert
	assert.ErrorIs(t, err, domain.ErrNotModified)
	require.NotNil(t, obj)
	assert.Equal(t, "abc", obj.ETag)
	assert.Nil(t, obj.Body)
	store.AssertNotCalled(t, "Get", mock.Anything, mock.Anything, mock.Anything)
}

func TestContentService_Fetch_MalformedKey(t *testing.T) {
	tests := []struct {
		name     string
		position domain.StoragePosition
		key      string
	}{
		{name: "original without uuid", position: domain.PositionOriginal, key: "cat.png"},
		{name: "preview not webp", position: domain.PositionPreview, key: uuid.NewString() + ".png"},
		{name: "derivative too long", position: domain.PositionDerivative, key: uuid.NewString() + ".webpx"},
		{name: "unknown position", position: domain.StoragePosition("cold"), key: uuid.NewString() + ".png"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			// Arrange
			store := storage.NewMockStorage()
			images := repository.NewMockImageRepository()
			service := content.NewContentService(store, images)

			// Act
			_, err := service.Fetch(context.Background(), nil, tt.position, tt.key, "")

			// Assert
			assert.ErrorIs(t, err, domain.ErrBadRequest)
			store.AssertNotCalled(t, "Stat", mock.Anything, mock.Anything, mock.Anything)
			images.AssertNotCalled(t, "FindByUUID", mock.Anything, mock.Anything)
		})
	}
}

func TestContentService_Fetch_PrivateOriginal(t *testing.T) {
	owner := uuid.New()

	tests := []struct {
		name     string
		identity *domain.Identity
		wantErr  error
	}{
		{name: "anonymous", identity: nil, wantErr: domain.ErrNotFound},
		{name: "stranger", identity: &domain.Identity{UserID: uuid.New()}, wantErr: domain.ErrNotFound},
		{name: "owner", identity: &domain.Identity{UserID: owner}, wantErr: nil},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			// Arrange
			ctx := context.Background()
			store := storage.NewMockStorage()
			images := repository.NewMockImageRepository()
			service := content.NewContentService(store, images)
			image, key := newImage(&owner, false)

			images.On("FindByStorageKey", ctx, key).Return(image, nil)
			store.On("Stat", ctx, domain.PositionOriginal, key).Return(&domain.ObjectInfo{Key: key, ETag: "e"}, nil)
			store.On("Get", ctx, domain.PositionOriginal, key).Return(&domain.Object{
				Body: io.NopCloser(strings.NewReader("x")),
			}, nil)

			// Act
			_, err := service.Fetch(ctx, tt.identity, domain.PositionOriginal, key, "")

			// Assert
			if tt.wantErr == nil {
				assert.NoError(t, err)
				return
			}
			assert.ErrorIs(t, err, tt.wantErr)
			store.AssertNotCalled(t, "Stat", mock.Anything, mock.Anything, mock.Anything)
		})
	}
}

func TestContentService_Fetch_PrivateRenditions(t *testing.T) {
	owner := uuid.New()

	tests := []struct {
		name     string
		position domain.StoragePosition
		identity *domain.Identity
		wantErr  error
	}{
		{name: "anonymous preview", position: domain.PositionPreview, identity: nil, wantErr: domain.ErrNotFound},
		{name: "stranger preview", position: domain.PositionPreview, identity: &domain.Identity{UserID: uuid.New()}, wantErr: domain.ErrNotFound},
		{name: "owner preview", position: domain.PositionPreview, identity: &domain.Identity{UserID: owner}},
		{name: "anonymous full", position: domain.PositionDerivative, identity: nil, wantErr: domain.ErrNotFound},
		{name: "owner full", position: domain.PositionDerivative, identity: &domain.Identity{UserID: owner}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			// Arrange
			ctx := context.Background()
			store := storage.NewMockStorage()
			images := repository.NewMockImageRepository()
			service := content.NewContentService(store, images)
			image, _ := newImage(&owner, false)
			key := domain.DerivativeKeyFor(image.UUID)

			images.On("FindByUUID", ctx, image.UUID).Return(image, nil)
			store.On("Stat", ctx, tt.position, key).Return(&domain.ObjectInfo{Key: key, ETag: "e"}, nil)
			store.On("Get", ctx, tt.position, key).Return(&domain.Object{
				Body: io.NopCloser(strings.NewReader("thumb")),
			}, nil)

			// Act
			obj, err := service.Fetch(ctx, tt.identity, tt.position, key, "")

			// Assert
			if tt.wantErr == nil {
				require.NoError(t, err)
				assert.NotNil(t, obj.Body)
				return
			}
			assert.ErrorIs(t, err, tt.wantErr)
			store.AssertNotCalled(t, "Stat", mock.Anything, mock.Anything, mock.Anything)
			store.AssertNotCalled(t, "Get", mock.Anything, mock.Anything, mock.Anything)
		})
	}
}

func TestContentService_Fetch_StorageErrors(t *testing.T) {
	tests := []struct {
		name       string
		storageErr error
		wantErr    error
	}{
		{name: "missing object", storageErr: domain.ErrObjectNotFound, wantErr: domain.ErrNotFound},
		{name: "transient", storageErr: domain.ErrStorageTransient, wantErr: domain.ErrInternal},
		{name: "fatal", storageErr: domain.ErrStorageFatal, wantErr: domain.ErrInternal},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			// Arrange
			ctx := context.Background()
			store := storage.NewMockStorage()
			images := repository.NewMockImageRepository()
			service := content.NewContentService(store, images)
			image, key := newImage(nil, true)

			images.On("FindByStorageKey", ctx, key).Return(image, nil)
			store.On("Stat", ctx, domain.PositionOriginal, key).Return(nil, tt.storageErr)

			// Act
			_, err := service.Fetch(ctx, nil, domain.PositionOriginal, key, "")

			// Assert
			assert.ErrorIs(t, err, tt.wantErr)
		})
	}
}

func TestContentService_Fetch_UnknownImage(t *testing.T) {
	// Arrange
	ctx := context.Background()
	store := storage.NewMockStorage()
	images := repository.NewMockImageRepository()
	service := content.NewContentService(store, images)
	id := uuid.Must(uuid.NewV7())
	key := domain.DerivativeKeyFor(id)

	images.On("FindByUUID", ctx, id).Return(nil, domain.ErrNotFound)

	// Act
	_, err := service.Fetch(ctx, nil, domain.PositionPreview, key, "")

	// Assert
	assert.ErrorIs(t, err, domain.ErrNotFound)
}

func TestETagMatches(t *testing.T) {
	tests := []struct {
		header string
		etag   string
		want   bool
	}{
		{header: `"abc"`, etag: "abc", want: true},
		{header: `abc`, etag: `"abc"`, want: true},
		{header: `W/"abc"`, etag: "abc", want: true},
		{header: `"x", "abc"`, etag: "abc", want: true},
		{header: `*`, etag: "abc", want: true},
		{header: `"abcd"`, etag: "abc", want: false},
		{header: `"abc"`, etag: "", want: false},
	}

	for _, tt := range tests {
		t.Run(tt.header, func(t *testing.T) {
			assert.Equal(t, tt.want, content.ETagMatches(tt.header, tt.etag))
		})
	}
}
