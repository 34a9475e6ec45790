package upload

import (
	"log/slog"
	"strings"

	"aetherpix/internal/core/domain"
	"aetherpix/internal/core/port"
)

// MaxPageSize bounds ListImages pages
const MaxPageSize = 20

type imageService struct {
	ingestor  port.Ingestor
	storage   port.ObjectStorage
	uow       port.UnitOfWork
	queue     port.JobQueue
	settings  port.SettingsProvider
	publicURL string
	logger    *slog.Logger
}

// NewImageService creates the multipart upload and listing service. publicURL is the
// externally reachable base of the API, used to build view links.
func NewImageService(ingestor port.Ingestor, storage port.ObjectStorage, uow port.UnitOfWork, queue port.JobQueue, settings port.SettingsProvider, publicURL string, logger *slog.Logger) port.ImageService {
	return &imageService{
		ingestor:  ingestor,
		storage:   storage,
		uow:       uow,
		queue:     queue,
		settings:  settings,
		publicURL: strings.TrimRight(publicURL, "/"),
		logger:    logger,
	}
}

func (s *imageService) viewURL(key string, public bool) string {
	if !public {
		return ""
	}
	return domain.ViewURL(s.publicURL, key)
}
