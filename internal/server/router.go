package server

import (
	"net/http"
	"strings"

	"github.com/go-chi/chi/v5"
	chimw "github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	"github.com/redis/go-redis/v9"

	"worldgen/internal/logging"
	"worldgen/internal/metrics"
)

// NewRouter assembles the preview server's router: request correlation
// and logging from logging.Middleware (the same correlation-id
// machinery generate() uses internally, here scoped to one HTTP
// request instead of one generation), recovery from chi's own
// middleware, metrics instrumentation on every route but the websocket
// upgrade (wrapping it breaks hijacking, same reasoning as the game
// server's router), and CORS limited to allowedOrigins with GET/POST
// only.
func NewRouter(redisClient *redis.Client, allowedOrigins []string) http.Handler {
	h := NewHandler(NewArtifactCache(redisClient))

	r := chi.NewRouter()
	r.Use(chimw.RealIP)
	r.Use(chimw.Recoverer)
	r.Use(logging.Middleware)

	r.Use(func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if strings.HasSuffix(r.URL.Path, "/progress") {
				next.ServeHTTP(w, r)
				return
			}
			metrics.Middleware(next).ServeHTTP(w, r)
		})
	})

	r.Use(cors.Handler(cors.Options{
		AllowedOrigins:   allowedOrigins,
		AllowedMethods:   []string{"GET", "POST"},
		AllowedHeaders:   []string{"Accept", "Content-Type"},
		AllowCredentials: false,
		MaxAge:           300,
	}))

	r.Handle("/metrics", metrics.Handler())
	h.Routes(r)

	return r
}
