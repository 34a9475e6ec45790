package nats

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"

	"aetherpix/internal/config"
	"aetherpix/internal/core/domain"
	"aetherpix/internal/core/port"

	"github.com/nats-io/nats.go"
	"github.com/nats-io/nats.go/jetstream"
)

// JobPublisher is a port.JobQueue that hands portable jobs to JetStream for out of
// process workers. Jobs owning local files cannot cross the process boundary.
type JobPublisher struct {
	conn   *nats.Conn
	js     jetstream.JetStream
	config config.NATSConfig
	logger *slog.Logger
}

var _ port.JobQueue = (*JobPublisher)(nil)

// NewJobPublisher connects to NATS and makes sure the job stream exists
func NewJobPublisher(ctx context.Context, cfg config.NATSConfig, logger *slog.Logger) (*JobPublisher, error) {
	conn, js, err := connect(cfg, cfg.ConsumerName+"-publisher", logger)
	if err != nil {
		return nil, err
	}
	if err := ensureStream(ctx, js, cfg); err != nil {
		conn.Close()
		return nil, err
	}
	return &JobPublisher{conn: conn, js: js, config: cfg, logger: logger}, nil
}

// Enqueue publishes a RemoteDerivativeJob and waits for the stream acknowledgement
func (p *JobPublisher) Enqueue(ctx context.Context, job domain.Job) error {
	remote, ok := job.(*domain.RemoteDerivativeJob)
	if !ok {
		return fmt.Errorf("%w: job kind %s cannot be published", domain.ErrQueueClosed, job.Kind())
	}

	data, err := json.Marshal(remote)
	if err != nil {
		return fmt.Errorf("failed to marshal job: %w", err)
	}

	msg := &nats.Msg{
		Subject: p.config.Subject,
		Data:    data,
		Header:  nats.Header{},
	}
	msg.Header.Set(jetstream.MsgIDHeader, remote.Key())

	if _, err := p.js.PublishMsg(ctx, msg); err != nil {
		return fmt.Errorf("failed to publish job: %w", err)
	}

	p.logger.Debug("job published",
		slog.String("job_key", remote.Key()),
		slog.String("subject", p.config.Subject))
	return nil
}

// Close drains the connection
func (p *JobPublisher) Close() error {
	if p.conn == nil {
		return nil
	}
	return p.conn.Drain()
}
