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

type sqlPendingUploadRepository struct {
	db SQLQuerier
}

// NewSQLPendingUploadRepository creates sqlPendingUploadRepository that implements port.PendingUploadRepository
func NewSQLPendingUploadRepository(db SQLQuerier) port.PendingUploadRepository {
	return &sqlPendingUploadRepository{db: db}
}

// Create persists a new pending upload
func (s *sqlPendingUploadRepository) Create(ctx context.Context, pending domain.PendingUpload) error {
	query := `INSERT INTO pending_uploads (storage_key, content_uuid, owner_id, original_filename, mime_type, declared_size, status, expires_at)
              VALUES ($1, $2, $3, $4, $5, $6, $7, $8)`

	_, err := s.db.ExecContext(ctx, query,
		pending.StorageKey,
		pending.ContentUUID,
		pending.OwnerID,
		pending.OriginalFilename,
		pending.ContentType,
		pending.DeclaredSize,
		pending.Status,
		pending.ExpiresAt,
	)
	if err != nil {
		var pqErr *pq.Error
		if errors.As(err, &pqErr) && pqErr.Code == uniqueViolation {
			return fmt.Errorf("pending upload %s : %w", pending.StorageKey, domain.ErrAlreadyExists)
		}
		return fmt.Errorf("error inserting pending upload: %w", err)
	}
	return nil
}

// FindByStorageKey finds by key
func (s *sqlPendingUploadRepository) FindByStorageKey(ctx context.Context, key string) (*domain.PendingUpload, error) {
	query := `SELECT storage_key, content_uuid, owner_id, original_filename, mime_type, declared_size,
                     status, expires_at, created_at, updated_at
              FROM pending_uploads
              WHERE storage_key = $1`

	var p dbPendingUpload
	if err := p.scan(s.db.QueryRowContext(ctx, query, key)); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, domain.ErrNotFound
		}
		return nil, err
	}
	return p.ToDomain(), nil
}

// UpdateStatus moves a pending upload from one status to another. It fails with
// domain.ErrConflict when the row exists in another status and domain.ErrNotFound when
// there is no row.
func (s *sqlPendingUploadRepository) UpdateStatus(ctx context.Context, key string, from, to domain.PendingUploadStatus) error {
	query := `UPDATE pending_uploads
              SET status = $1, updated_at = now()
              WHERE storage_key = $2 AND status = $3`

	result, err := s.db.ExecContext(ctx, query, to, key, from)
	if err != nil {
		return fmt.Errorf("error updating pending upload: %w", err)
	}

	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("error checking rows affected: %w", err)
	}

	if rowsAffected == 0 {
		var exists bool
		err := s.db.QueryRowContext(ctx, `SELECT EXISTS (SELECT 1 FROM pending_uploads WHERE storage_key = $1)`, key).Scan(&exists)
		if err != nil {
			return fmt.Errorf("error checking pending upload: %w", err)
		}
		if exists {
			return domain.ErrConflict
		}
		return domain.ErrNotFound
	}

	return nil
}

// FindExpired finds pending uploads whose grant expired before now
func (s *sqlPendingUploadRepository) FindExpired(ctx context.Context, now time.Time) ([]domain.PendingUpload, error) {
	query := `SELECT storage_key, content_uuid, owner_id, original_filename, mime_type, declared_size,
                     status, expires_at, created_at, updated_at
              FROM pending_uploads
              WHERE status = 'pending'
                AND expires_at < $1`

	rows, err := s.db.QueryContext(ctx, query, now)
	if err != nil {
		return nil, fmt.Errorf("error querying expired pending uploads: %w", err)
	}
	defer rows.Close()

	var pending []domain.PendingUpload
	for rows.Next() {
		var p dbPendingUpload
		if err := p.scan(rows); err != nil {
			return nil, fmt.Errorf("error scanning pending upload: %w", err)
		}
		pending = append(pending, *p.ToDomain())
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating pending uploads: %w", err)
	}

	return pending, nil
}

// dbPendingUpload represents a pending upload in DB
type dbPendingUpload struct {
	StorageKey       string    `db:"storage_key"`
	ContentUUID      uuid.UUID `db:"content_uuid"`
	OwnerID          uuid.UUID `db:"owner_id"`
	OriginalFilename string    `db:"original_filename"`
	MimeType         string    `db:"mime_type"`
	DeclaredSize     int64     `db:"declared_size"`
	Status           string    `db:"status"`
	ExpiresAt        time.Time `db:"expires_at"`
	CreatedAt        time.Time `db:"created_at"`
	UpdatedAt        time.Time `db:"updated_at"`
}

func (p *dbPendingUpload) scan(row scanner) error {
	return row.Scan(
		&p.StorageKey,
		&p.ContentUUID,
		&p.OwnerID,
		&p.OriginalFilename,
		&p.MimeType,
		&p.DeclaredSize,
		&p.Status,
		&p.ExpiresAt,
		&p.CreatedAt,
		&p.UpdatedAt,
	)
}

// ToDomain converts to domain.PendingUpload
func (p *dbPendingUpload) ToDomain() *domain.PendingUpload {
	return &domain.PendingUpload{
		StorageKey:       p.StorageKey,
		ContentUUID:      p.ContentUUID,
		OwnerID:          p.OwnerID,
		OriginalFilename: p.OriginalFilename,
		ContentType:      p.MimeType,
		DeclaredSize:     p.DeclaredSize,
		Status:           domain.PendingUploadStatus(p.Status),
		ExpiresAt:        p.ExpiresAt,
		CreatedAt:        p.CreatedAt,
		UpdatedAt:        p.UpdatedAt,
	}
}
