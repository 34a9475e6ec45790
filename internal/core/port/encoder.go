package port

import (
	"context"
	"io"
	"mime/multipart"

	"aetherpix/internal/core/domain"
)

// DerivativeEncoder turns a staged original into renditions
type DerivativeEncoder interface {
	Encode(ctx context.Context, path string, quality int) (*domain.Renditions, error)
}

// Ingestor stages the first part of a multipart body on local disk
type Ingestor interface {
	Ingest(ctx context.Context, body *multipart.Reader, maxSize int64) (*domain.StagedUpload, error)
}

// StagedWriter is a staged file still being written. Seal ends writing, Dispose ends
// the file's life.
type StagedWriter interface {
	io.Writer
	domain.StagedFile
	Seal() error
}

// StagingArea creates staged files on local disk
type StagingArea interface {
	Stage(name string) (StagedWriter, error)
}
