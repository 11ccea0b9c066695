// Package logging wires up zerolog the way a generation run needs it: a
// console writer to stderr, a level controlled by WORLDGEN_LOG, and a
// per-run generation id carried through every stage's log lines. The
// preview server (internal/server) reuses the same correlation
// machinery for HTTP requests.
package logging

import (
	"context"
	"net/http"
	"os"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
)

type contextKey string

const (
	correlationIDKey contextKey = "correlation_id"
	loggerKey        contextKey = "logger"
)

// EnvLevel is the name of the environment variable that selects the log
// level: off, info, or debug.
const EnvLevel = "WORLDGEN_LOG"

// Init sets up the global logger from the WORLDGEN_LOG environment
// variable. Unset or unrecognized values behave as "info".
func Init() {
	zerolog.TimeFieldFormat = time.RFC3339
	log.Logger = log.Output(zerolog.ConsoleWriter{Out: os.Stderr, TimeFormat: time.RFC3339})
	zerolog.SetGlobalLevel(LevelFromEnv(os.Getenv(EnvLevel)))
}

// LevelFromEnv maps the WORLDGEN_LOG values onto zerolog levels.
func LevelFromEnv(v string) zerolog.Level {
	switch v {
	case "off":
		return zerolog.Disabled
	case "debug":
		return zerolog.DebugLevel
	case "info", "":
		return zerolog.InfoLevel
	default:
		return zerolog.InfoLevel
	}
}

// WithGeneration attaches a generation id to the context, together with a
// logger carrying it on every subsequent line (retrieved with
// FromContext), mirroring the teacher's per-request correlation id but
// scoped to one generate() call instead of one HTTP request. Both return
// values are that same derived context.
func WithGeneration(ctx context.Context, generationID uuid.UUID) (context.Context, context.Context) {
	id := generationID.String()
	logger := log.With().Str("generation_id", id).Logger()
	ctx = context.WithValue(ctx, correlationIDKey, id)
	ctx = context.WithValue(ctx, loggerKey, logger)
	return ctx, ctx
}

// responseWriter wraps http.ResponseWriter to capture status code.
type responseWriter struct {
	http.ResponseWriter
	statusCode int
}

func (rw *responseWriter) WriteHeader(code int) {
	rw.statusCode = code
	rw.ResponseWriter.WriteHeader(code)
}

// Middleware adds a correlation ID to the request context and logs the
// request. Used by the preview server only; the core CLI path has no
// HTTP requests to correlate and uses WithGeneration instead.
func Middleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		correlationID := r.Header.Get("X-Correlation-ID")
		if correlationID == "" {
			correlationID = uuid.New().String()
		}

		logger := log.With().Str("correlation_id", correlationID).Logger()

		ctx := context.WithValue(r.Context(), correlationIDKey, correlationID)
		ctx = context.WithValue(ctx, loggerKey, logger)

		start := time.Now()
		ww := &responseWriter{ResponseWriter: w, statusCode: http.StatusOK}

		logger.Info().
			Str("method", r.Method).
			Str("path", r.URL.Path).
			Str("remote_addr", r.RemoteAddr).
			Msg("request started")

		next.ServeHTTP(ww, r.WithContext(ctx))

		logger.Info().
			Str("method", r.Method).
			Str("path", r.URL.Path).
			Int("status", ww.statusCode).
			Dur("duration_ms", time.Since(start)).
			Msg("request completed")
	})
}

// FromContext returns the logger carried by ctx, or the global logger if
// none was attached.
func FromContext(ctx context.Context) *zerolog.Logger {
	if logger, ok := ctx.Value(loggerKey).(zerolog.Logger); ok {
		return &logger
	}
	return &log.Logger
}

// GetCorrelationID returns the correlation/generation id carried by ctx.
func GetCorrelationID(ctx context.Context) string {
	if id, ok := ctx.Value(correlationIDKey).(string); ok {
		return id
	}
	return ""
}
