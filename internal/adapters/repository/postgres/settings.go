package postgres

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"aetherpix/internal/core/port"
)

type sqlSettingsRepository struct {
	db SQLQuerier
}

// NewSqlSettingsRepository creates sqlSettingsRepository that implements port.SettingsRepository
func NewSqlSettingsRepository(db SQLQuerier) port.SettingsRepository {
	return &sqlSettingsRepository{db: db}
}

// Get returns the raw value of a setting and whether it is set
func (s *sqlSettingsRepository) Get(ctx context.Context, key string) (string, bool, error) {
	var value string
	err := s.db.QueryRowContext(ctx, `SELECT value FROM settings WHERE key = $1`, key).Scan(&value)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return "", false, nil
		}
		return "", false, fmt.Errorf("error reading setting %s: %w", key, err)
	}
	return value, true, nil
}
