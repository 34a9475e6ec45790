package prometheus_test

import (
	"fmt"
	"testing"
	"time"

	metrics "aetherpix/internal/adapters/metrics/prometheus"
	"aetherpix/internal/core/domain"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestObserver_RecordOperation(t *testing.T) {
	// Arrange
	reg := prometheus.NewRegistry()
	observer, err := metrics.NewObserver("test", reg)
	require.NoError(t, err)

	// Act
	observer.RecordOperation(domain.PositionOriginal, "put", 10*time.Millisecond, 512, nil)
	observer.RecordOperation(domain.PositionPreview, "get", time.Millisecond, 0, fmt.Errorf("x: %w", domain.ErrObjectNotFound))
	observer.RecordOperation(domain.PositionDerivative, "put", time.Millisecond, 64, fmt.Errorf("x: %w", domain.ErrStorageFatal))

	// Assert
	count, err := testutil.GatherAndCount(reg, "test_storage_operation_duration_seconds")
	require.NoError(t, err)
	assert.Equal(t, 3, count)

	count, err = testutil.GatherAndCount(reg, "test_storage_operation_errors_total")
	require.NoError(t, err)
	assert.Equal(t, 2, count)

	count, err = testutil.GatherAndCount(reg, "test_storage_uploaded_bytes_total")
	require.NoError(t, err)
	assert.Equal(t, 1, count)
}

func TestObserver_Jobs(t *testing.T) {
	// Arrange
	reg := prometheus.NewRegistry()
	observer, err := metrics.NewObserver("test", reg)
	require.NoError(t, err)

	// Act
	observer.RecordJob(domain.JobKindDerivative, domain.JobStateCompleted, time.Second)
	observer.RecordJob(domain.JobKindDerivative, domain.JobStateFailed, time.Second)
	observer.SetQueueDepth(7)

	// Assert
	count, err := testutil.GatherAndCount(reg, "test_jobs_total")
	require.NoError(t, err)
	assert.Equal(t, 2, count)

	families, err := reg.Gather()
	require.NoError(t, err)
	for _, mf := range families {
		if mf.GetName() == "test_jobs_queue_depth" {
			assert.Equal(t, 7.0, mf.GetMetric()[0].GetGauge().GetValue())
		}
	}
}

func TestNewObserver_DuplicateRegistration(t *testing.T) {
	// Arrange
	reg := prometheus.NewRegistry()
	_, err := metrics.NewObserver("dup", reg)
	require.NoError(t, err)

	// Act
	_, err = metrics.NewObserver("dup", reg)

	// Assert
	assert.Error(t, err)
}
