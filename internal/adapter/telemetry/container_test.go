package telemetry

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewContainer_WithoutExporter(t *testing.T) {
	container, err := NewContainer(Config{
		ServiceName:    "tasktracker-test",
		ServiceVersion: "test",
		Environment:    "test",
		MetricsPort:    "0",
	}, nil)

	require.NoError(t, err)
	t.Cleanup(func() { container.Shutdown(context.Background()) })

	probe := container.NewTelemetryProbe()
	require.NotNil(t, probe)

	ctx, span := probe.StartServiceSpan(context.Background(), "task", "create", "user-1", nil)
	span.End()
	probe.RecordServiceOperation(ctx, "task", "create", "user-1", 0, nil)

	w := httptest.NewRecorder()
	promhttp.HandlerFor(container.PrometheusRegistry, promhttp.HandlerOpts{}).
		ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/metrics", nil))

	assert.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), `service_operations_total{entity="task",operation="create",outcome="ok"} 1`)
}
