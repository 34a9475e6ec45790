package jobmessage

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"

	"aetherpix/internal/core/domain"
)

// HandleMessage decodes a remote derivative job and runs it. Only undecodable messages
// are reported as errors; a job that ran and failed is acknowledged like any other.
func (s *jobMessageService) HandleMessage(ctx context.Context, data []byte) error {
	var job domain.RemoteDerivativeJob
	if err := json.Unmarshal(data, &job); err != nil {
		return fmt.Errorf("could not unmarshal job: %w", err)
	}
	if job.OriginalKey == "" || job.DerivativeKey == "" {
		return fmt.Errorf("%w: job without keys", domain.ErrBadRequest)
	}

	s.logger.Info("handling job message", slog.String("job_key", job.Key()))

	// a job that has started runs to completion even when the consumer shuts down
	state := s.processor.Process(context.WithoutCancel(ctx), &job)
	if state == domain.JobStateFailed {
		s.logger.Warn("job message processed with failure", slog.String("job_key", job.Key()))
	}
	return nil
}
