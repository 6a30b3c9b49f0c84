package telemetry

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"

	"tasktracker/internal/core/domain"
)

func TestAppMetrics_RecordOperation(t *testing.T) {
	metrics := NewAppMetrics(prometheus.NewRegistry())

	metrics.RecordOperation("task", "get", nil)
	metrics.RecordOperation("task", "get", domain.NewTaskNotFoundError(uuid.New()))
	metrics.RecordOperation("task", "get", errors.New("raw"))

	assert.Equal(t, 1.0, testutil.ToFloat64(metrics.operations.WithLabelValues("task", "get", "ok")))
	assert.Equal(t, 1.0, testutil.ToFloat64(metrics.operations.WithLabelValues("task", "get", "TODO_NOT_FOUND")))
	assert.Equal(t, 1.0, testutil.ToFloat64(metrics.operations.WithLabelValues("task", "get", "INTERNAL_ERROR")))
}

func TestAppMetrics_RecordRequest(t *testing.T) {
	metrics := NewAppMetrics(prometheus.NewRegistry())

	metrics.RecordRequest(context.Background(), "GET", "/todos", "200", 10*time.Millisecond)
	metrics.IncrementActiveConnections(context.Background())

	assert.Equal(t, 1.0, testutil.ToFloat64(metrics.requestTotal.WithLabelValues("GET", "/todos", "200")))
	assert.Equal(t, 1.0, testutil.ToFloat64(metrics.activeConnections))
}
