package postgres

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"aetherpix/internal/core/domain"
	"aetherpix/internal/core/port"

	"github.com/google/uuid"
	"github.com/lib/pq"
)

type sqlImageRepository struct {
	db SQLQuerier
}

// NewSqlImageRepository creates sqlImageRepository that implements port.ImageRepository
func NewSqlImageRepository(db SQLQuerier) port.ImageRepository {
	return &sqlImageRepository{
		db: db,
	}
}

const imageColumns = `id, uuid, storage_key, raw_name, url, mime_type, public, owner_id,
                      size_bytes, source, created_at, updated_at`

// Create inserts the metadata record of an upload. A second record for the same uuid or
// storage key fails with domain.ErrAlreadyExists.
func (s *sqlImageRepository) Create(ctx context.Context, result domain.UploadResult) (*domain.Image, error) {
	query := `INSERT INTO images (uuid, storage_key, raw_name, url, mime_type, public, owner_id, size_bytes, source)
              VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)
              RETURNING ` + imageColumns

	row := s.db.QueryRowContext(ctx, query,
		result.ContentUUID,
		result.StorageKey,
		result.OriginalFilename,
		result.PublicURL,
		result.ContentType,
		result.IsPublic,
		nullUUID(result.OwnerID),
		result.ByteSize,
		result.Source,
	)

	var dbImg dbImage
	if err := dbImg.scan(row); err != nil {
		var pqErr *pq.Error
		if errors.As(err, &pqErr) && pqErr.Code == uniqueViolation {
			return nil, fmt.Errorf("image %s : %w", result.StorageKey, domain.ErrAlreadyExists)
		}
		return nil, fmt.Errorf("error inserting image: %w", err)
	}

	return dbImg.ToDomain(), nil
}

// FindByUUID finds by content uuid
func (s *sqlImageRepository) FindByUUID(ctx context.Context, id uuid.UUID) (*domain.Image, error) {
	query := `SELECT ` + imageColumns + ` FROM images WHERE uuid = $1`
	return s.findOne(ctx, query, id)
}

// FindByStorageKey finds by storage key
func (s *sqlImageRepository) FindByStorageKey(ctx context.Context, key string) (*domain.Image, error) {
	query := `SELECT ` + imageColumns + ` FROM images WHERE storage_key = $1`
	return s.findOne(ctx, query, key)
}

func (s *sqlImageRepository) findOne(ctx context.Context, query string, arg any) (*domain.Image, error) {
	var dbImg dbImage
	if err := dbImg.scan(s.db.QueryRowContext(ctx, query, arg)); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, domain.ErrNotFound
		}
		return nil, err
	}
	return dbImg.ToDomain(), nil
}

// ListByOwner lists the images of an owner, newest first, with the owner's total count
func (s *sqlImageRepository) ListByOwner(ctx context.Context, ownerID uuid.UUID, limit, offset int) ([]domain.Image, int, error) {
	var total int
	if err := s.db.QueryRowContext(ctx, `SELECT COUNT(*) FROM images WHERE owner_id = $1`, ownerID).Scan(&total); err != nil {
		return nil, 0, fmt.Errorf("error counting images: %w", err)
	}

	query := `SELECT ` + imageColumns + `
              FROM images
              WHERE owner_id = $1
              ORDER BY created_at DESC, id DESC
              LIMIT $2 OFFSET $3`

	rows, err := s.db.QueryContext(ctx, query, ownerID, limit, offset)
	if err != nil {
		return nil, 0, fmt.Errorf("error querying images: %w", err)
	}
	defer rows.Close()

	images := make([]domain.Image, 0, limit)
	for rows.Next() {
		var dbImg dbImage
		if err := dbImg.scan(rows); err != nil {
			return nil, 0, fmt.Errorf("error scanning image: %w", err)
		}
		images = append(images, *dbImg.ToDomain())
	}

	if err := rows.Err(); err != nil {
		return nil, 0, fmt.Errorf("error iterating images: %w", err)
	}

	return images, total, nil
}

type scanner interface {
	Scan(dest ...any) error
}

// dbImage represents an image row in DB
type dbImage struct {
	ID         int64         `db:"id"`
	UUID       uuid.UUID     `db:"uuid"`
	StorageKey string        `db:"storage_key"`
	RawName    string        `db:"raw_name"`
	URL        string        `db:"url"`
	MimeType   string        `db:"mime_type"`
	Public     bool          `db:"public"`
	OwnerID    uuid.NullUUID `db:"owner_id"`
	Size       int64         `db:"size_bytes"`
	Source     string        `db:"source"`
	CreatedAt  time.Time     `db:"created_at"`
	UpdatedAt  time.Time     `db:"updated_at"`
}

func (i *dbImage) scan(row scanner) error {
	return row.Scan(
		&i.ID,
		&i.UUID,
		&i.StorageKey,
		&i.RawName,
		&i.URL,
		&i.MimeType,
		&i.Public,
		&i.OwnerID,
		&i.Size,
		&i.Source,
		&i.CreatedAt,
		&i.UpdatedAt,
	)
}

// ToDomain converts to domain.Image
func (i *dbImage) ToDomain() *domain.Image {
	img := &domain.Image{
		ID:          i.ID,
		UUID:        i.UUID,
		StorageKey:  i.StorageKey,
		RawName:     i.RawName,
		URL:         i.URL,
		ContentType: i.MimeType,
		Public:      i.Public,
		SizeBytes:   i.Size,
		Source:      domain.ImageSource(i.Source),
		CreatedAt:   i.CreatedAt,
		UpdatedAt:   i.UpdatedAt,
	}
	if i.OwnerID.Valid {
		owner := i.OwnerID.UUID
		img.OwnerID = &owner
	}
	return img
}

func nullUUID(id *uuid.UUID) uuid.NullUUID {
	if id == nil {
		return uuid.NullUUID{}
	}
	return uuid.NullUUID{UUID: *id, Valid: true}
}
