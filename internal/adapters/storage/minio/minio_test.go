package minio_test

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/url"
	"strings"
	"testing"
	"time"

	"aetherpix/internal/adapters/storage/minio"
	"aetherpix/internal/config"
	"aetherpix/internal/core/domain"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/testcontainers/testcontainers-go"
	"github.com/testcontainers/testcontainers-go/wait"
)

const (
	testAccessKey = "minioadmin"
	testSecretKey = "minioadmin"
)

func setupContainer(t *testing.T) (string, func()) {
	t.Helper()
	ctx := context.Background()

	req := testcontainers.ContainerRequest{
		Image:        "minio/minio:latest",
		ExposedPorts: []string{"9000/tcp"},
		Env: map[string]string{
			"MINIO_ROOT_USER":     testAccessKey,
			"MINIO_ROOT_PASSWORD": testSecretKey,
		},
		Cmd:        []string{"server", "/data"},
		WaitingFor: wait.ForHTTP("/minio/health/live").WithPort("9000"),
	}
	minioContainer, err := testcontainers.GenericContainer(ctx, testcontainers.GenericContainerRequest{
		ContainerRequest: req,
		Started:          true,
	})
	require.NoError(t, err)

	host, err := minioContainer.Host(ctx)
	require.NoError(t, err)

	port, err := minioContainer.MappedPort(ctx, "9000")
	require.NoError(t, err)

	endpoint := fmt.Sprintf("%s:%s", host, port.Port())

	cleanup := func() {
		if err := minioContainer.Terminate(ctx); err != nil {
			t.Logf("failed to terminate container: %s", err)
		}
	}
	time.Sleep(500 * time.Millisecond) // wait for container to be up
	return endpoint, cleanup
}

func testStorageConfig(endpoint string) config.StorageConfig {
	return config.StorageConfig{
		Endpoint:      endpoint,
		Region:        "us-east-1",
		AccessKey:     testAccessKey,
		SecretKey:     testSecretKey,
		PresignTTL:    5 * time.Minute,
		CreateBuckets: true,
		Original:      config.BucketConfig{Bucket: "originals"},
		Preview:       config.BucketConfig{Bucket: "previews"},
		Derivative:    config.BucketConfig{Bucket: "derivatives"},
	}
}

func createRouter(t *testing.T, ctx context.Context, cfg config.StorageConfig) *minio.Router {
	t.Helper()
	discardLogger := slog.New(slog.NewTextHandler(io.Discard, nil))

	router, err := minio.NewRouter(ctx, cfg, nil, discardLogger)

	require.NoError(t, err)
	require.NotNil(t, router)

	return router
}

func TestRouter_PutGetStatDelete(t *testing.T) {
	// Arrange
	endpoint, cleanup := setupContainer(t)
	defer cleanup()
	ctx := context.Background()
	router := createRouter(t, ctx, testStorageConfig(endpoint))

	key := domain.NewObjectKey(uuid.New(), "png")
	content := []byte("not really a png")

	// Act
	err := router.Put(ctx, domain.PositionOriginal, key, bytes.NewReader(content), int64(len(content)), "image/png")

	// Assert
	require.NoError(t, err)

	info, err := router.Stat(ctx, domain.PositionOriginal, key)
	require.NoError(t, err)
	assert.Equal(t, int64(len(content)), info.Size)
	assert.Equal(t, "image/png", info.ContentType)
	assert.NotEmpty(t, info.ETag)
	assert.NotContains(t, info.ETag, "\"")

	obj, err := router.Get(ctx, domain.PositionOriginal, key)
	require.NoError(t, err)
	body, err := io.ReadAll(obj.Body)
	require.NoError(t, err)
	require.NoError(t, obj.Body.Close())
	assert.Equal(t, content, body)
	assert.Equal(t, info.ETag, obj.ETag)

	_, err = router.Stat(ctx, domain.PositionPreview, key)
	assert.ErrorIs(t, err, domain.ErrObjectNotFound)

	require.NoError(t, router.Delete(ctx, domain.PositionOriginal, key))
	_, err = router.Get(ctx, domain.PositionOriginal, key)
	assert.ErrorIs(t, err, domain.ErrObjectNotFound)
}

func TestRouter_PutMany(t *testing.T) {
	// Arrange
	endpoint, cleanup := setupContainer(t)
	defer cleanup()
	ctx := context.Background()
	router := createRouter(t, ctx, testStorageConfig(endpoint))

	key := domain.DerivativeKeyFor(uuid.New())
	thumb := []byte("thumb")
	full := []byte("full rendition")

	// Act
	err := router.PutMany(ctx, []domain.PutObject{
		{Position: domain.PositionPreview, Key: key, Body: bytes.NewReader(thumb), Size: int64(len(thumb)), ContentType: domain.DerivativeContentType},
		{Position: domain.PositionDerivative, Key: key, Body: bytes.NewReader(full), Size: int64(len(full)), ContentType: domain.DerivativeContentType},
	})

	// Assert
	require.NoError(t, err)

	preview, err := router.Stat(ctx, domain.PositionPreview, key)
	require.NoError(t, err)
	assert.Equal(t, int64(len(thumb)), preview.Size)

	derivative, err := router.Stat(ctx, domain.PositionDerivative, key)
	require.NoError(t, err)
	assert.Equal(t, int64(len(full)), derivative.Size)
}

func TestRouter_PresignPut(t *testing.T) {
	// Arrange
	endpoint, cleanup := setupContainer(t)
	defer cleanup()
	ctx := context.Background()
	router := createRouter(t, ctx, testStorageConfig(endpoint))

	key := domain.NewObjectKey(uuid.New(), "jpg")
	content := "direct upload"

	// Act
	grant, err := router.PresignPut(ctx, domain.PositionOriginal, key, "image/jpeg", 5*time.Minute)

	// Assert
	require.NoError(t, err)
	assert.Equal(t, key, grant.StorageKey)
	assert.True(t, grant.ExpiresAt.After(time.Now()))

	u, err := url.Parse(grant.SignedURL)
	require.NoError(t, err)
	assert.Equal(t, "AWS4-HMAC-SHA256", u.Query().Get("X-Amz-Algorithm"))
	assert.Contains(t, u.Query().Get("X-Amz-SignedHeaders"), "content-type")

	req, err := http.NewRequest(http.MethodPut, grant.SignedURL, strings.NewReader(content))
	require.NoError(t, err)
	req.Header.Set("Content-Type", "image/jpeg")

	client := &http.Client{Timeout: 10 * time.Second}
	resp, err := client.Do(req)
	require.NoError(t, err)
	defer resp.Body.Close()
	assert.Equal(t, http.StatusOK, resp.StatusCode)

	info, err := router.Stat(ctx, domain.PositionOriginal, key)
	require.NoError(t, err)
	assert.Equal(t, int64(len(content)), info.Size)
}

func TestRouter_PresignPut_WrongContentType_ShouldFail(t *testing.T) {
	// Arrange
	endpoint, cleanup := setupContainer(t)
	defer cleanup()
	ctx := context.Background()
	router := createRouter(t, ctx, testStorageConfig(endpoint))

	key := domain.NewObjectKey(uuid.New(), "png")
	grant, err := router.PresignPut(ctx, domain.PositionOriginal, key, "image/png", 5*time.Minute)
	require.NoError(t, err)

	// Act
	req, err := http.NewRequest(http.MethodPut, grant.SignedURL, strings.NewReader("<html></html>"))
	require.NoError(t, err)
	req.Header.Set("Content-Type", "text/html")

	client := &http.Client{Timeout: 10 * time.Second}
	resp, err := client.Do(req)
	require.NoError(t, err)
	defer resp.Body.Close()

	// Assert
	assert.True(t, resp.StatusCode >= 400)
}

func TestRouter_WrongCredentials_IsFatal(t *testing.T) {
	// Arrange
	endpoint, cleanup := setupContainer(t)
	defer cleanup()
	ctx := context.Background()
	createRouter(t, ctx, testStorageConfig(endpoint))

	cfg := testStorageConfig(endpoint)
	cfg.CreateBuckets = false
	cfg.Derivative.AccessKey = "intruder"
	cfg.Derivative.SecretKey = "wrong-secret"
	router := createRouter(t, ctx, cfg)

	key := domain.DerivativeKeyFor(uuid.New())

	// Act
	err := router.Put(ctx, domain.PositionDerivative, key, strings.NewReader("x"), 1, domain.DerivativeContentType)

	// Assert
	assert.ErrorIs(t, err, domain.ErrStorageFatal)
	assert.NoError(t, router.Put(ctx, domain.PositionPreview, key, strings.NewReader("x"), 1, domain.DerivativeContentType))
}
