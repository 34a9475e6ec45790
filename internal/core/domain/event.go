package domain

import "time"

// DerivativeEventType is the outcome of a derivative job
type DerivativeEventType string

const (
	DerivativeEventReady  DerivativeEventType = "derivatives.ready"
	DerivativeEventFailed DerivativeEventType = "derivatives.failed"
)

// DerivativeEvent is published once per finished derivative job
type DerivativeEvent struct {
	Type          DerivativeEventType `json:"type"`
	JobKind       JobKind             `json:"job_kind"`
	OriginalKey   string              `json:"original_key"`
	DerivativeKey string              `json:"derivative_key"`
	Error         string              `json:"error,omitempty"`
	DurationMS    int64               `json:"duration_ms"`
	OccurredAt    time.Time           `json:"occurred_at"`
}
