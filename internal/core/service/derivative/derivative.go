package derivative

import (
	"bytes"
	"context"
	"fmt"
	"image"
	"log/slog"
	"os"
	"runtime"
	"time"

	"aetherpix/internal/core/domain"
	"aetherpix/internal/core/port"

	"github.com/disintegration/imaging"
	"github.com/gen2brain/webp"
	_ "golang.org/x/image/webp"
	"golang.org/x/sync/semaphore"
)

const (
	ThumbnailWidth  = 400
	ThumbnailHeight = 400
)

type encoder struct {
	sem    *semaphore.Weighted
	logger *slog.Logger
}

// NewEncoder returns a WebP derivative encoder running at most concurrency encodes at
// once. concurrency <= 0 means GOMAXPROCS.
func NewEncoder(concurrency int, logger *slog.Logger) port.DerivativeEncoder {
	if concurrency <= 0 {
		concurrency = runtime.GOMAXPROCS(0)
	}
	return &encoder{
		sem:    semaphore.NewWeighted(int64(concurrency)),
		logger: logger,
	}
}

// Encode decodes the image at path and renders a thumbnail at ThumbnailQuality plus a
// full resolution preview at quality
func (e *encoder) Encode(ctx context.Context, path string, quality int) (*domain.Renditions, error) {
	if err := e.sem.Acquire(ctx, 1); err != nil {
		return nil, err
	}
	defer e.sem.Release(1)

	start := time.Now()

	img, err := decode(path)
	if err != nil {
		return nil, err
	}

	preview, err := encodeWebP(img, domain.ClampQuality(quality))
	if err != nil {
		return nil, err
	}

	thumb := imaging.Fit(img, ThumbnailWidth, ThumbnailHeight, imaging.Linear)
	thumbnail, err := encodeWebP(thumb, domain.ThumbnailQuality)
	if err != nil {
		return nil, err
	}

	bounds := img.Bounds()
	e.logger.Debug("renditions encoded",
		slog.String("path", path),
		slog.Int("width", bounds.Dx()),
		slog.Int("height", bounds.Dy()),
		slog.Int("preview_bytes", len(preview)),
		slog.Int("thumbnail_bytes", len(thumbnail)),
		slog.Duration("duration", time.Since(start)))

	return &domain.Renditions{Thumbnail: thumbnail, Preview: preview}, nil
}

func decode(path string) (image.Image, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("%w: open %s: %w", domain.ErrIO, path, err)
	}
	defer f.Close()

	img, err := imaging.Decode(f, imaging.AutoOrientation(true))
	if err != nil {
		return nil, fmt.Errorf("%w: %w", domain.ErrDecode, err)
	}
	return img, nil
}

func encodeWebP(img image.Image, quality int) ([]byte, error) {
	var buf bytes.Buffer
	if err := webp.Encode(&buf, img, webp.Options{Quality: quality}); err != nil {
		return nil, fmt.Errorf("%w: %w", domain.ErrEncode, err)
	}
	return buf.Bytes(), nil
}
