package minio

import (
	"context"
	"errors"
	"fmt"
	"net"
	"net/http"

	"aetherpix/internal/core/domain"

	"github.com/minio/minio-go/v7"
)

// classify maps a minio error onto the storage error taxonomy
func classify(op string, err error) error {
	if err == nil {
		return nil
	}
	if errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded) {
		return fmt.Errorf("failed to %s: %w", op, err)
	}

	resp := minio.ToErrorResponse(err)
	switch {
	case resp.Code == "NoSuchKey" || resp.Code == "NoSuchBucket" || resp.StatusCode == http.StatusNotFound:
		return fmt.Errorf("failed to %s: %w: %w", op, domain.ErrObjectNotFound, err)
	case resp.Code == "AccessDenied" || resp.Code == "InvalidAccessKeyId" || resp.Code == "SignatureDoesNotMatch",
		resp.StatusCode == http.StatusUnauthorized || resp.StatusCode == http.StatusForbidden:
		return fmt.Errorf("failed to %s: %w: %w", op, domain.ErrStorageFatal, err)
	case resp.StatusCode >= http.StatusInternalServerError:
		return fmt.Errorf("failed to %s: %w: %w", op, domain.ErrStorageTransient, err)
	}

	var netErr net.Error
	if errors.As(err, &netErr) {
		return fmt.Errorf("failed to %s: %w: %w", op, domain.ErrStorageTransient, err)
	}
	if resp.StatusCode >= http.StatusBadRequest {
		return fmt.Errorf("failed to %s: %w: %w", op, domain.ErrStorageFatal, err)
	}
	return fmt.Errorf("failed to %s: %w: %w", op, domain.ErrStorageTransient, err)
}

func isNotFound(err error) bool { return errors.Is(err, domain.ErrObjectNotFound) }

func isFatal(err error) bool { return errors.Is(err, domain.ErrStorageFatal) }
