package presign

import (
	"log/slog"
	"time"

	"aetherpix/internal/core/domain"
	"aetherpix/internal/core/port"
)

// Options are the static knobs of the presign flow. PendingTTL is how long a pending
// upload stays confirmable after its signed URL expires.
type Options struct {
	PublicURL  string
	TTL        time.Duration
	PendingTTL time.Duration
	Quality    int
}

type presignService struct {
	storage  port.ObjectStorage
	uow      port.UnitOfWork
	queue    port.JobQueue
	settings port.SettingsProvider
	opts     Options
	logger   *slog.Logger
	now      func() time.Time
}

// NewPresignService creates a new presign service
func NewPresignService(storage port.ObjectStorage, uow port.UnitOfWork, queue port.JobQueue, settings port.SettingsProvider, opts Options, logger *slog.Logger) port.PresignService {
	if opts.TTL <= 0 {
		opts.TTL = 5 * time.Minute
	}
	if opts.PendingTTL <= 0 {
		opts.PendingTTL = 30 * time.Minute
	}
	if opts.Quality == 0 {
		opts.Quality = domain.DefaultQuality
	}
	return &presignService{
		storage:  storage,
		uow:      uow,
		queue:    queue,
		settings: settings,
		opts:     opts,
		logger:   logger,
		now:      time.Now,
	}
}
