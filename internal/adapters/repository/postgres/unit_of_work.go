package postgres

import (
	"context"
	"database/sql"
	"fmt"

	"aetherpix/internal/core/port"
)

type sqlUnitOfWork struct {
	db *sql.DB
	tx *sql.Tx
}

func NewUnitOfWork(db *sql.DB) port.UnitOfWork {
	return &sqlUnitOfWork{db: db}
}

func (u *sqlUnitOfWork) querier() SQLQuerier {
	if u.tx != nil {
		return u.tx
	}
	return u.db
}

func (u *sqlUnitOfWork) ImageRepo() port.ImageRepository {
	return NewSqlImageRepository(u.querier())
}

func (u *sqlUnitOfWork) PendingUploadRepo() port.PendingUploadRepository {
	return NewSQLPendingUploadRepository(u.querier())
}

func (u *sqlUnitOfWork) SettingsRepo() port.SettingsRepository {
	return NewSqlSettingsRepository(u.querier())
}

func (u *sqlUnitOfWork) Execute(ctx context.Context, fn func(uow port.UnitOfWork) error) error {
	tx, err := u.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}

	defer func() {
		if r := recover(); r != nil {
			_ = tx.Rollback()
			panic(r)
		}
	}()

	uowWithTx := &sqlUnitOfWork{db: u.db, tx: tx}

	if err := fn(uowWithTx); err != nil {
		_ = tx.Rollback()
		return err
	}

	return tx.Commit()
}
