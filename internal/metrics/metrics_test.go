package metrics

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestMiddleware(t *testing.T) {
	handler := Middleware(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
	}))

	req := httptest.NewRequest("GET", "/test", nil)
	rec := httptest.NewRecorder()

	handler.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusOK, rec.Code)
}

func TestRecordStageDuration(t *testing.T) {
	assert.NotPanics(t, func() {
		RecordStageDuration("erosion", 100*time.Millisecond)
	})
}

func TestRecordGeneration(t *testing.T) {
	assert.NotPanics(t, func() {
		RecordGeneration("success")
	})
}

func TestRecordCacheHitAndMiss(t *testing.T) {
	assert.NotPanics(t, func() {
		RecordCacheHit()
		RecordCacheMiss()
	})
}
