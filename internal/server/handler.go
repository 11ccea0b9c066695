// Package server implements the supplemental preview HTTP server: submit
// generation requests, fetch the rendered PNG/IR, and watch a job's
// status over a websocket. It exists alongside the CLI, which remains
// the primary way to run a generation.
package server

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"sync"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
	"github.com/gorilla/websocket"

	"worldgen/internal/apperr"
	"worldgen/internal/logging"
	"worldgen/internal/worldgen/pipeline"
	"worldgen/internal/worldgen/render"
)

// Handler serves the generate/fetch/progress routes. Completed worlds
// live in an in-memory job table for the lifetime of the process; their
// encoded artifacts are additionally mirrored into the Redis-backed
// ArtifactCache so repeat requests for the same seed/params skip
// simulation entirely.
type Handler struct {
	cache *ArtifactCache

	mu   sync.RWMutex
	jobs map[string]*job
}

type job struct {
	mu       sync.RWMutex
	status   string // "running", "done", "failed"
	err      error
	png, ir  []byte
	progress chan string
}

func (j *job) setResult(status string, err error, png, ir []byte) {
	j.mu.Lock()
	defer j.mu.Unlock()
	j.status, j.err, j.png, j.ir = status, err, png, ir
}

func (j *job) snapshot() (status string, err error, png, ir []byte) {
	j.mu.RLock()
	defer j.mu.RUnlock()
	return j.status, j.err, j.png, j.ir
}

// NewHandler builds a Handler backed by cache (may be nil to disable
// cross-process caching).
func NewHandler(cache *ArtifactCache) *Handler {
	return &Handler{cache: cache, jobs: make(map[string]*job)}
}

// Routes mounts this handler's endpoints onto r.
func (h *Handler) Routes(r chi.Router) {
	r.Post("/generate", h.handleGenerate)
	r.Get("/world/{id}.png", h.handleWorldPNG)
	r.Get("/world/{id}.json", h.handleWorldJSON)
	r.Get("/world/{id}/progress", h.handleProgress)
	r.Get("/healthz", h.handleHealthz)
}

type generateRequest struct {
	Width           int     `json:"width"`
	Height          int     `json:"height"`
	Seed            uint64  `json:"seed"`
	Water           float64 `json:"water"`
	Plates          int     `json:"plates"`
	Scale           float64 `json:"scale"`
	RainIntensity   float64 `json:"rain_intensity"`
	RiverPercentile float64 `json:"river_percentile"`
}

type generateResponse struct {
	ID string `json:"id"`
}

// handleGenerate accepts a generation request, starts it in the
// background under a fresh job id, and returns immediately; the caller
// polls handleWorldPNG/handleWorldJSON or watches handleProgress.
func (h *Handler) handleGenerate(w http.ResponseWriter, r *http.Request) {
	var req generateRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, "invalid request body", http.StatusBadRequest)
		return
	}

	cfg := pipeline.Config{
		Width: req.Width, Height: req.Height, Seed: req.Seed, Water: req.Water,
		Plates: req.Plates, Scale: req.Scale, RainIntensity: req.RainIntensity,
		RiverPercentile: req.RiverPercentile,
	}
	if err := cfg.Validate(); err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}

	id := uuid.New().String()
	j := &job{status: "running", progress: make(chan string, 16)}
	h.mu.Lock()
	h.jobs[id] = j
	h.mu.Unlock()

	logging.FromContext(r.Context()).Info().
		Str("correlation_id", logging.GetCorrelationID(r.Context())).
		Str("job_id", id).
		Msg("generation requested")

	go h.run(id, j, cfg)

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusAccepted)
	json.NewEncoder(w).Encode(generateResponse{ID: id})
}

// run executes one generation in the background, populating j's
// artifacts and the shared cache on success.
func (h *Handler) run(id string, j *job, cfg pipeline.Config) {
	defer close(j.progress)
	logger := logging.FromContext(context.Background())

	key := Key(cfg)
	if cachedPNG, cachedIR, ok := h.cache.Get(context.Background(), key); ok {
		j.setResult("done", nil, cachedPNG, cachedIR)
		j.progress <- "cache_hit"
		return
	}

	j.progress <- "running"
	world, err := pipeline.Generate(context.Background(), cfg)
	if err != nil {
		j.setResult("failed", err, nil, nil)
		logger.Error().Str("job_id", id).Err(err).Msg("generation failed")
		return
	}

	var pngBuf, irBuf bytes.Buffer
	if err := render.EncodePNG(world, &pngBuf); err != nil {
		j.setResult("failed", apperr.IO("png encode failed", err), nil, nil)
		return
	}
	if err := render.EncodeIR(world, cfg, &irBuf); err != nil {
		j.setResult("failed", apperr.IO("ir encode failed", err), nil, nil)
		return
	}

	png, ir := pngBuf.Bytes(), irBuf.Bytes()
	j.setResult("done", nil, png, ir)
	h.cache.Set(context.Background(), key, png, ir)
	j.progress <- "done"
}

func (h *Handler) getJob(id string) (*job, bool) {
	h.mu.RLock()
	defer h.mu.RUnlock()
	j, ok := h.jobs[id]
	return j, ok
}

func (h *Handler) handleWorldPNG(w http.ResponseWriter, r *http.Request) {
	j, ok := h.getJob(chi.URLParam(r, "id"))
	if !ok {
		http.NotFound(w, r)
		return
	}
	status, err, png, _ := j.snapshot()
	switch status {
	case "running":
		http.Error(w, "generation still in progress", http.StatusAccepted)
	case "failed":
		h.writeJobError(w, err)
	default:
		w.Header().Set("Content-Type", "image/png")
		w.Write(png)
	}
}

func (h *Handler) handleWorldJSON(w http.ResponseWriter, r *http.Request) {
	j, ok := h.getJob(chi.URLParam(r, "id"))
	if !ok {
		http.NotFound(w, r)
		return
	}
	status, err, _, ir := j.snapshot()
	switch status {
	case "running":
		http.Error(w, "generation still in progress", http.StatusAccepted)
	case "failed":
		h.writeJobError(w, err)
	default:
		w.Header().Set("Content-Type", "application/json")
		w.Write(ir)
	}
}

func (h *Handler) writeJobError(w http.ResponseWriter, err error) {
	var appErr *apperr.Error
	status := http.StatusInternalServerError
	if errors.As(err, &appErr) {
		switch appErr.Kind {
		case apperr.IOError:
			status = http.StatusInternalServerError
		case apperr.InvariantViolation, apperr.ResourceExhaustion:
			status = http.StatusUnprocessableEntity
		}
	}
	http.Error(w, err.Error(), status)
}

var upgrader = websocket.Upgrader{
	ReadBufferSize:  1024,
	WriteBufferSize: 1024,
	CheckOrigin:     func(r *http.Request) bool { return true },
}

// handleProgress streams one job's status events ("running" or
// "cache_hit", then "done" on success) over a websocket, followed by the
// job's final status, until the job finishes or the connection closes.
// No per-stage events are sent.
func (h *Handler) handleProgress(w http.ResponseWriter, r *http.Request) {
	j, ok := h.getJob(chi.URLParam(r, "id"))
	if !ok {
		http.NotFound(w, r)
		return
	}

	conn, err := upgrader.Upgrade(w, r, nil)
	if err != nil {
		return
	}
	defer conn.Close()

	for status := range j.progress {
		_ = conn.SetWriteDeadline(time.Now().Add(5 * time.Second))
		if err := conn.WriteJSON(map[string]string{"status": status}); err != nil {
			return
		}
	}
	finalStatus, _, _, _ := j.snapshot()
	_ = conn.WriteJSON(map[string]string{"status": finalStatus})
}

func (h *Handler) handleHealthz(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusOK)
	json.NewEncoder(w).Encode(map[string]string{"status": "ok"})
}
