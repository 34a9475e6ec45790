package queue

import (
	"context"

	"aetherpix/internal/core/domain"
	"aetherpix/internal/core/port"
)

// Dispatcher routes portable jobs to a remote queue and everything else to the local one.
// Without a remote queue every job stays local.
type Dispatcher struct {
	local  port.JobQueue
	remote port.JobQueue
}

var _ port.JobQueue = (*Dispatcher)(nil)

// NewDispatcher returns Dispatcher. remote may be nil.
func NewDispatcher(local, remote port.JobQueue) *Dispatcher {
	return &Dispatcher{local: local, remote: remote}
}

func (d *Dispatcher) Enqueue(ctx context.Context, job domain.Job) error {
	if d.remote != nil && job.Kind() == domain.JobKindRemoteDerivative {
		return d.remote.Enqueue(ctx, job)
	}
	return d.local.Enqueue(ctx, job)
}
