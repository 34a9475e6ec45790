package prometheus

import (
	"errors"
	"fmt"
	"time"

	"aetherpix/internal/core/domain"
	"aetherpix/internal/core/port"

	"github.com/prometheus/client_golang/prometheus"
)

// Observer exports storage and job metrics to Prometheus
type Observer struct {
	opDuration  *prometheus.HistogramVec
	opErrors    *prometheus.CounterVec
	storedBytes *prometheus.CounterVec
	jobs        *prometheus.CounterVec
	jobDuration *prometheus.HistogramVec
	queueDepth  prometheus.Gauge
}

var (
	_ port.StorageObserver = (*Observer)(nil)
	_ port.JobObserver     = (*Observer)(nil)
)

// NewObserver registers the pipeline metrics on reg, or the default registerer when nil
func NewObserver(namespace string, reg prometheus.Registerer) (*Observer, error) {
	if namespace == "" {
		namespace = "aetherpix"
	}
	if reg == nil {
		reg = prometheus.DefaultRegisterer
	}

	o := &Observer{
		opDuration: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: namespace,
			Subsystem: "storage",
			Name:      "operation_duration_seconds",
			Help:      "Latency of object storage operations.",
			Buckets:   prometheus.DefBuckets,
		}, []string{"position", "operation"}),
		opErrors: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "storage",
			Name:      "operation_errors_total",
			Help:      "Count of object storage failures by class.",
		}, []string{"position", "operation", "class"}),
		storedBytes: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "storage",
			Name:      "uploaded_bytes_total",
			Help:      "Cumulative payload size successfully written to object storage.",
		}, []string{"position"}),
		jobs: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "jobs",
			Name:      "total",
			Help:      "Count of derivative jobs by kind and final state.",
		}, []string{"kind", "state"}),
		jobDuration: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: namespace,
			Subsystem: "jobs",
			Name:      "duration_seconds",
			Help:      "Wall time of derivative jobs.",
			Buckets:   []float64{.05, .1, .25, .5, 1, 2.5, 5, 10, 30, 60},
		}, []string{"kind"}),
		queueDepth: prometheus.NewGauge(prometheus.GaugeOpts{
			Namespace: namespace,
			Subsystem: "jobs",
			Name:      "queue_depth",
			Help:      "Jobs waiting for a worker.",
		}),
	}

	collectors := []prometheus.Collector{o.opDuration, o.opErrors, o.storedBytes, o.jobs, o.jobDuration, o.queueDepth}
	for _, collector := range collectors {
		if err := reg.Register(collector); err != nil {
			return nil, fmt.Errorf("register pipeline metric: %w", err)
		}
	}
	return o, nil
}

// RecordOperation tracks storage latency, payload size and failures
func (o *Observer) RecordOperation(position domain.StoragePosition, op string, duration time.Duration, sizeBytes int64, err error) {
	if o == nil {
		return
	}
	o.opDuration.WithLabelValues(position.String(), op).Observe(duration.Seconds())
	if err != nil {
		o.opErrors.WithLabelValues(position.String(), op, errorClass(err)).Inc()
		return
	}
	if op == "put" && sizeBytes > 0 {
		o.storedBytes.WithLabelValues(position.String()).Add(float64(sizeBytes))
	}
}

func (o *Observer) RecordJob(kind domain.JobKind, state domain.JobState, duration time.Duration) {
	if o == nil {
		return
	}
	o.jobs.WithLabelValues(string(kind), string(state)).Inc()
	o.jobDuration.WithLabelValues(string(kind)).Observe(duration.Seconds())
}

func (o *Observer) SetQueueDepth(depth int) {
	if o == nil {
		return
	}
	o.queueDepth.Set(float64(depth))
}

func errorClass(err error) string {
	switch {
	case errors.Is(err, domain.ErrObjectNotFound):
		return "not_found"
	case errors.Is(err, domain.ErrStorageFatal):
		return "fatal"
	case errors.Is(err, domain.ErrStorageTransient):
		return "transient"
	default:
		return "other"
	}
}
