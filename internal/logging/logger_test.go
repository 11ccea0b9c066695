package logging

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/google/uuid"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
)

func TestMiddleware(t *testing.T) {
	Init()

	handler := Middleware(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		cid := GetCorrelationID(r.Context())
		assert.NotEmpty(t, cid)

		logger := FromContext(r.Context())
		assert.NotNil(t, logger)

		w.WriteHeader(http.StatusOK)
	}))

	req, _ := http.NewRequest("GET", "/test", nil)
	rr := httptest.NewRecorder()

	handler.ServeHTTP(rr, req)
	assert.Equal(t, http.StatusOK, rr.Code)
}

func TestMiddleware_ExistingCorrelationID(t *testing.T) {
	Init()

	existingID := "existing-id-123"

	handler := Middleware(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		cid := GetCorrelationID(r.Context())
		assert.Equal(t, existingID, cid)
	}))

	req, _ := http.NewRequest("GET", "/test", nil)
	req.Header.Set("X-Correlation-ID", existingID)
	rr := httptest.NewRecorder()

	handler.ServeHTTP(rr, req)
}

func TestWithGenerationAttachesID(t *testing.T) {
	Init()
	genID := uuid.New()
	ctx, _ := WithGeneration(t.Context(), genID)

	assert.Equal(t, genID.String(), GetCorrelationID(ctx))
	assert.NotNil(t, FromContext(ctx))
}

func TestLevelFromEnv(t *testing.T) {
	assert.Equal(t, zerolog.Disabled, LevelFromEnv("off"))
	assert.Equal(t, zerolog.DebugLevel, LevelFromEnv("debug"))
	assert.Equal(t, zerolog.InfoLevel, LevelFromEnv("info"))
	assert.Equal(t, zerolog.InfoLevel, LevelFromEnv(""))
	assert.Equal(t, zerolog.InfoLevel, LevelFromEnv("garbage"))
}
