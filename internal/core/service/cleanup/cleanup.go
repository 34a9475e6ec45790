package cleanup

import (
	"log/slog"

	"aetherpix/internal/core/port"
)

type cleanupService struct {
	uow     port.UnitOfWork
	storage port.ObjectStorage
	staging port.StagingSweeper
	logger  *slog.Logger
}

// NewCleanupService creates a new cleanup service
func NewCleanupService(uow port.UnitOfWork, storage port.ObjectStorage, staging port.StagingSweeper, logger *slog.Logger) port.CleanupService {
	return &cleanupService{
		uow:     uow,
		storage: storage,
		staging: staging,
		logger:  logger,
	}
}
