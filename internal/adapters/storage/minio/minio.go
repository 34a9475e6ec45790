package minio

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"strings"
	"time"

	"aetherpix/internal/config"
	"aetherpix/internal/core/domain"
	"aetherpix/internal/core/port"

	"github.com/minio/minio-go/v7"
	"github.com/minio/minio-go/v7/pkg/credentials"
	"golang.org/x/sync/errgroup"
)

type target struct {
	client *minio.Client
	bucket string
}

// Router is an adapter for S3 compatible storage that resolves every position to its own
// bucket and client. Positions sharing an endpoint and credentials share one client.
type Router struct {
	targets  map[domain.StoragePosition]target
	observer port.StorageObserver
	logger   *slog.Logger
}

var _ port.ObjectStorage = (*Router)(nil)

// NewRouter returns Router
func NewRouter(ctx context.Context, cfg config.StorageConfig, observer port.StorageObserver, logger *slog.Logger) (*Router, error) {
	buckets := map[domain.StoragePosition]config.BucketConfig{
		domain.PositionOriginal:   cfg.Original,
		domain.PositionPreview:    cfg.Preview,
		domain.PositionDerivative: cfg.Derivative,
	}

	clients := make(map[string]*minio.Client)
	targets := make(map[domain.StoragePosition]target, len(buckets))

	for _, position := range domain.Positions {
		b := buckets[position]
		conn := cfg.ConnectionFor(b)

		id := conn.Endpoint + "|" + conn.Region + "|" + conn.AccessKey
		client, ok := clients[id]
		if !ok {
			var err error
			client, err = minio.New(conn.Endpoint, &minio.Options{
				Creds:  credentials.NewStaticV4(conn.AccessKey, conn.SecretKey, ""),
				Secure: cfg.UseSSL,
				Region: conn.Region,
			})
			if err != nil {
				return nil, fmt.Errorf("failed to create minio client for %s: %w", position, err)
			}
			clients[id] = client
		}

		if cfg.CreateBuckets {
			if err := ensureBucket(ctx, client, b.Bucket, conn.Region); err != nil {
				return nil, err
			}
		}
		targets[position] = target{client: client, bucket: b.Bucket}
	}

	if observer == nil {
		observer = noopObserver{}
	}

	return &Router{targets: targets, observer: observer, logger: logger}, nil
}

func ensureBucket(ctx context.Context, client *minio.Client, bucket, region string) error {
	exists, err := client.BucketExists(ctx, bucket)
	if err != nil {
		return fmt.Errorf("failed to check if bucket exists: %w", err)
	}
	if exists {
		return nil
	}
	if err := client.MakeBucket(ctx, bucket, minio.MakeBucketOptions{Region: region}); err != nil {
		resp := minio.ToErrorResponse(err)
		if resp.Code == "BucketAlreadyOwnedByYou" || resp.Code == "BucketAlreadyExists" {
			return nil
		}
		return fmt.Errorf("failed to create bucket: %w", err)
	}
	return nil
}

func (r *Router) resolve(position domain.StoragePosition) (target, error) {
	t, ok := r.targets[position]
	if !ok {
		return target{}, fmt.Errorf("%w: %w", domain.ErrStorageFatal, position.Validate())
	}
	return t, nil
}

// Put uploads body under key at position
func (r *Router) Put(ctx context.Context, position domain.StoragePosition, key string, body io.Reader, size int64, contentType string) (err error) {
	start := time.Now()
	defer func() { r.observer.RecordOperation(position, "put", time.Since(start), size, err) }()

	t, err := r.resolve(position)
	if err != nil {
		return err
	}

	_, err = t.client.PutObject(ctx, t.bucket, key, body, size, minio.PutObjectOptions{ContentType: contentType})
	if err != nil {
		err = classify("put object", err)
		r.logStorageError(position, key, err)
		return err
	}

	r.logger.Debug("object stored",
		slog.String("position", position.String()),
		slog.String("key", key),
		slog.Int64("size", size))

	return nil
}

// PutMany uploads every object concurrently and fails if any upload fails
func (r *Router) PutMany(ctx context.Context, objects []domain.PutObject) error {
	g, gctx := errgroup.WithContext(ctx)
	for _, obj := range objects {
		g.Go(func() error {
			return r.Put(gctx, obj.Position, obj.Key, obj.Body, obj.Size, obj.ContentType)
		})
	}
	return g.Wait()
}

// Get retrieves an object with its metadata. The caller must close the body.
func (r *Router) Get(ctx context.Context, position domain.StoragePosition, key string) (obj *domain.Object, err error) {
	start := time.Now()
	var size int64
	defer func() { r.observer.RecordOperation(position, "get", time.Since(start), size, err) }()

	t, err := r.resolve(position)
	if err != nil {
		return nil, err
	}

	object, err := t.client.GetObject(ctx, t.bucket, key, minio.GetObjectOptions{})
	if err != nil {
		err = classify("get object", err)
		r.logStorageError(position, key, err)
		return nil, err
	}

	// GetObject is lazy, errors surface on the first stat or read
	info, err := object.Stat()
	if err != nil {
		_ = object.Close()
		err = classify("get object", err)
		r.logStorageError(position, key, err)
		return nil, err
	}
	size = info.Size

	return &domain.Object{ObjectInfo: toObjectInfo(key, info), Body: object}, nil
}

// Stat retrieves the metadata of an object
func (r *Router) Stat(ctx context.Context, position domain.StoragePosition, key string) (info *domain.ObjectInfo, err error) {
	start := time.Now()
	defer func() { r.observer.RecordOperation(position, "stat", time.Since(start), 0, err) }()

	t, err := r.resolve(position)
	if err != nil {
		return nil, err
	}

	stat, err := t.client.StatObject(ctx, t.bucket, key, minio.StatObjectOptions{})
	if err != nil {
		err = classify("stat object", err)
		r.logStorageError(position, key, err)
		return nil, err
	}

	result := toObjectInfo(key, stat)
	return &result, nil
}

// Delete deletes an object from storage
func (r *Router) Delete(ctx context.Context, position domain.StoragePosition, key string) (err error) {
	start := time.Now()
	defer func() { r.observer.RecordOperation(position, "delete", time.Since(start), 0, err) }()

	t, err := r.resolve(position)
	if err != nil {
		return err
	}

	if err = t.client.RemoveObject(ctx, t.bucket, key, minio.RemoveObjectOptions{}); err != nil {
		err = classify("delete object", err)
		r.logStorageError(position, key, err)
		return err
	}

	r.logger.Info("object deleted",
		slog.String("position", position.String()),
		slog.String("key", key),
		slog.String("bucket", t.bucket))

	return nil
}

// PresignPut generates a presigned url for a single PUT of key with the given content type
func (r *Router) PresignPut(ctx context.Context, position domain.StoragePosition, key string, contentType string, ttl time.Duration) (grant *domain.PresignedGrant, err error) {
	start := time.Now()
	defer func() { r.observer.RecordOperation(position, "presign", time.Since(start), 0, err) }()

	t, err := r.resolve(position)
	if err != nil {
		return nil, err
	}

	headers := make(http.Header)
	headers.Set("Content-Type", contentType)

	presignedURL, err := t.client.PresignHeader(ctx, http.MethodPut, t.bucket, key, ttl, nil, headers)
	if err != nil {
		return nil, fmt.Errorf("failed to generate pre-signed URL: %w", err)
	}

	return &domain.PresignedGrant{
		StorageKey: key,
		SignedURL:  presignedURL.String(),
		ExpiresAt:  start.Add(ttl),
	}, nil
}

func (r *Router) logStorageError(position domain.StoragePosition, key string, err error) {
	class := "transient"
	switch {
	case isNotFound(err):
		return
	case isFatal(err):
		class = "fatal"
	}
	r.logger.Error("storage operation failed",
		slog.String("position", position.String()),
		slog.String("key", key),
		slog.String("class", class),
		slog.Any("error", err))
}

func toObjectInfo(key string, info minio.ObjectInfo) domain.ObjectInfo {
	return domain.ObjectInfo{
		Key:          key,
		ETag:         strings.Trim(info.ETag, "\""),
		ContentType:  info.ContentType,
		Size:         info.Size,
		LastModified: info.LastModified,
	}
}

type noopObserver struct{}

func (noopObserver) RecordOperation(domain.StoragePosition, string, time.Duration, int64, error) {}
