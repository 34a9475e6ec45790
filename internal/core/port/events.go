package port

import (
	"context"

	"aetherpix/internal/core/domain"
)

// EventConsumer is an interface to define a job message consumer (nats, ...)
type EventConsumer interface {
	Subscribe(ctx context.Context, handler MessageService) error
	Close() error
}

// MessageService is an interface to define message handling
type MessageService interface {
	HandleMessage(ctx context.Context, data []byte) error
}

// EventPublisher publishes job outcome events (kafka, ...)
type EventPublisher interface {
	PublishDerivativeEvent(ctx context.Context, event domain.DerivativeEvent) error
	Close() error
}
