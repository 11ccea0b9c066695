// Command worldgen-server runs the supplemental preview HTTP server: it
// accepts generation requests and serves the resulting PNG/IR artifacts,
// backed by an optional Redis artifact cache.
package main

import (
	"context"
	"log"
	"net/http"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"github.com/redis/go-redis/v9"

	"worldgen/internal/logging"
	"worldgen/internal/server"
)

func main() {
	logging.Init()
	log.Println("Starting worldgen preview server...")

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	redisAddr := os.Getenv("REDIS_ADDR")
	var redisClient *redis.Client
	if redisAddr != "" {
		redisClient = redis.NewClient(&redis.Options{Addr: redisAddr, DB: 0})
		if err := redisClient.Ping(ctx).Err(); err != nil {
			log.Printf("WARNING: failed to connect to Redis at %s: %v", redisAddr, err)
			log.Println("Artifact caching will be disabled")
			redisClient = nil
		}
	} else {
		log.Println("REDIS_ADDR not set, artifact caching disabled")
	}

	corsOrigins := os.Getenv("CORS_ALLOWED_ORIGINS")
	if corsOrigins == "" {
		corsOrigins = "http://localhost:5173"
		log.Println("INFO: using default CORS origin for development:", corsOrigins)
	}
	allowedOrigins := strings.Split(corsOrigins, ",")
	for i := range allowedOrigins {
		allowedOrigins[i] = strings.TrimSpace(allowedOrigins[i])
	}

	router := server.NewRouter(redisClient, allowedOrigins)

	port := os.Getenv("PORT")
	if port == "" {
		port = "8081"
	}

	httpServer := &http.Server{
		Addr:         ":" + port,
		Handler:      router,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 60 * time.Second, // generation can outlast the default write window
		IdleTimeout:  60 * time.Second,
	}

	go func() {
		sigint := make(chan os.Signal, 1)
		signal.Notify(sigint, os.Interrupt, syscall.SIGTERM)
		<-sigint

		log.Println("Shutting down server...")
		cancel()

		shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer shutdownCancel()
		if err := httpServer.Shutdown(shutdownCtx); err != nil {
			log.Printf("Server shutdown error: %v", err)
		}
	}()

	log.Printf("Server listening on port %s", port)
	if err := httpServer.ListenAndServe(); err != nil && err != http.ErrServerClosed {
		log.Fatal("Server error:", err)
	}
	log.Println("Server stopped")
}
