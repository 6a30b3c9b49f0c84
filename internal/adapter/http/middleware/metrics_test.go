package middleware

import (
	"context"
	"net/http"
	"net/http/httptest"
	"sync"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
)

type recordedRequest struct {
	method, path, status string
}

type fakeMetrics struct {
	mu       sync.Mutex
	requests []recordedRequest
	active   int
}

func (f *fakeMetrics) RecordRequest(ctx context.Context, method, path, status string, duration time.Duration) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.requests = append(f.requests, recordedRequest{method, path, status})
}

func (f *fakeMetrics) IncrementActiveConnections(ctx context.Context) { f.active++ }
func (f *fakeMetrics) DecrementActiveConnections(ctx context.Context) { f.active-- }

func TestMetricsMiddleware(t *testing.T) {
	gin.SetMode(gin.TestMode)

	metrics := &fakeMetrics{}
	router := gin.New()
	router.Use(MetricsMiddleware(metrics))
	router.GET("/todos/:id", func(c *gin.Context) { c.Status(http.StatusNotFound) })

	router.ServeHTTP(httptest.NewRecorder(), httptest.NewRequest(http.MethodGet, "/todos/abc", nil))
	router.ServeHTTP(httptest.NewRecorder(), httptest.NewRequest(http.MethodGet, "/nowhere", nil))

	assert.Equal(t, []recordedRequest{
		{"GET", "/todos/:id", "404"},
		{"GET", "unmatched", "404"},
	}, metrics.requests)
	assert.Equal(t, 0, metrics.active)
}
