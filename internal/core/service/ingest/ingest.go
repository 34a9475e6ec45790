package ingest

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"mime"
	"mime/multipart"
	"net/http"
	"strings"
	"sync"

	"aetherpix/internal/core/domain"
	"aetherpix/internal/core/port"

	"github.com/gabriel-vasile/mimetype"
	"github.com/google/uuid"
)

const copyBufferSize = 32 * 1024

const inconclusiveMIME = "application/octet-stream"

var bufferPool = sync.Pool{
	New: func() any {
		b := make([]byte, copyBufferSize)
		return &b
	},
}

type ingestService struct {
	staging port.StagingArea
	logger  *slog.Logger
}

// NewIngestService creates the multipart ingestor
func NewIngestService(staging port.StagingArea, logger *slog.Logger) port.Ingestor {
	return &ingestService{staging: staging, logger: logger}
}

// Ingest streams the first part of body into a staged file. Only the first part is
// read. The returned upload owns the staged file; on error nothing is left on disk.
func (s *ingestService) Ingest(ctx context.Context, body *multipart.Reader, maxSize int64) (*domain.StagedUpload, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	part, err := body.NextPart()
	if err != nil {
		if errors.Is(err, io.EOF) {
			return nil, fmt.Errorf("%w: no file in request", domain.ErrBadRequest)
		}
		if isTooLarge(err) {
			return nil, domain.ErrFileSizeTooBig
		}
		return nil, fmt.Errorf("%w: malformed multipart body: %w", domain.ErrBadRequest, err)
	}
	defer part.Close()

	rawName := part.FileName()
	ext := domain.ExtFromFilename(rawName)

	id, err := uuid.NewV7()
	if err != nil {
		return nil, fmt.Errorf("%w: generate key: %w", domain.ErrInternal, err)
	}
	key := domain.NewObjectKey(id, ext)

	file, err := s.staging.Stage(key)
	if err != nil {
		return nil, err
	}

	size, err := s.copy(file, part, maxSize)
	if err != nil {
		file.Dispose()
		return nil, err
	}

	if err := file.Seal(); err != nil {
		file.Dispose()
		return nil, err
	}

	contentType, err := detectContentType(file.Path(), ext)
	if err != nil {
		file.Dispose()
		return nil, err
	}
	if !strings.HasPrefix(contentType, "image/") {
		file.Dispose()
		s.logger.Info("rejected upload",
			slog.String("key", key),
			slog.String("content_type", contentType))
		return nil, fmt.Errorf("%w: %s", domain.ErrInvalidFileType, contentType)
	}

	return &domain.StagedUpload{
		File:        file,
		ContentUUID: id,
		Key:         key,
		RawName:     rawName,
		ContentType: contentType,
		Size:        size,
	}, nil
}

func (s *ingestService) copy(dst io.Writer, src io.Reader, maxSize int64) (int64, error) {
	bufPtr := bufferPool.Get().(*[]byte)
	defer bufferPool.Put(bufPtr)

	n, err := io.CopyBuffer(dst, io.LimitReader(src, maxSize+1), *bufPtr)
	if err != nil {
		switch {
		case errors.Is(err, domain.ErrIO):
			return n, err
		case isTooLarge(err):
			return n, domain.ErrFileSizeTooBig
		default:
			return n, fmt.Errorf("%w: read upload: %w", domain.ErrBadRequest, err)
		}
	}
	if n > maxSize {
		return n, domain.ErrFileSizeTooBig
	}
	if n == 0 {
		return n, fmt.Errorf("%w: empty file", domain.ErrBadRequest)
	}
	return n, nil
}

// detectContentType sniffs the staged file and falls back to the declared extension
// only when the content is inconclusive
func detectContentType(path, ext string) (string, error) {
	detected, err := mimetype.DetectFile(path)
	if err != nil {
		return "", fmt.Errorf("%w: sniff staged file: %w", domain.ErrIO, err)
	}

	contentType := detected.String()
	if detected.Is(inconclusiveMIME) && ext != "" {
		if byExt := mime.TypeByExtension("." + ext); byExt != "" {
			contentType = byExt
		}
	}

	mediaType, _, err := mime.ParseMediaType(contentType)
	if err != nil {
		return contentType, nil
	}
	return mediaType, nil
}

func isTooLarge(err error) bool {
	var maxBytesErr *http.MaxBytesError
	return errors.As(err, &maxBytesErr)
}
