package jobmessage

import (
	"log/slog"

	"aetherpix/internal/core/port"
)

type jobMessageService struct {
	processor port.JobProcessor
	logger    *slog.Logger
}

// NewJobMessageService creates the handler for derivative jobs delivered by the broker
func NewJobMessageService(processor port.JobProcessor, logger *slog.Logger) port.MessageService {
	return &jobMessageService{
		processor: processor,
		logger:    logger,
	}
}
