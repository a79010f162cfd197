package api

import (
	"encoding/json"
	"errors"
	"net/http"
	"strconv"
	"time"

	"github.com/forgeworks/vertivid/internal/db"
	"github.com/forgeworks/vertivid/internal/models"
	"github.com/forgeworks/vertivid/internal/worker"
	"github.com/go-chi/chi/v5"
)

type Handler struct {
	worker *worker.Worker
	db     *db.DB // nil when no database is configured
}

func NewHandler(w *worker.Worker, database *db.DB) *Handler {
	return &Handler{
		worker: w,
		db:     database,
	}
}

// Index handles GET / — service banner with endpoint listing.
func (h *Handler) Index(w http.ResponseWriter, r *http.Request) {
	respondJSON(w, http.StatusOK, map[string]interface{}{
		"status":  "online",
		"service": "Vertivid Video Generator API",
		"version": "1.0",
		"endpoints": map[string]string{
			"startup":        "/startup (POST)",
			"generate_video": "/v1/videos (POST)",
			"job_status":     "/v1/videos/{id} (GET)",
			"generations":    "/v1/generations (GET)",
			"health":         "/health (GET)",
		},
		"timestamp": time.Now().UTC().Format(time.RFC3339),
	})
}

// Health handles GET /health. Reports the database connection when one is
// configured; without a database the service is healthy on its own.
func (h *Handler) Health(w http.ResponseWriter, r *http.Request) {
	resp := map[string]interface{}{
		"status":    "healthy",
		"database":  "not configured",
		"timestamp": time.Now().UTC().Format(time.RFC3339),
	}

	if h.db != nil {
		if err := h.db.PingContext(r.Context()); err != nil {
			resp["status"] = "unhealthy"
			resp["database"] = "disconnected"
			resp["error"] = err.Error()
			respondJSON(w, http.StatusInternalServerError, resp)
			return
		}
		resp["database"] = "connected"
	}

	respondJSON(w, http.StatusOK, resp)
}

// Startup handles POST /startup — a warm-up trigger for deployment platforms
// that spin the instance down between requests.
func (h *Handler) Startup(w http.ResponseWriter, r *http.Request) {
	if h.db != nil {
		if err := h.db.PingContext(r.Context()); err != nil {
			respondJSON(w, http.StatusInternalServerError, map[string]interface{}{
				"status":                     "failed",
				"message":                    "Failed to start application: " + err.Error(),
				"timestamp":                  time.Now().UTC().Format(time.RFC3339),
				"ready_for_video_generation": false,
			})
			return
		}
	}

	respondJSON(w, http.StatusOK, map[string]interface{}{
		"status":                     "started",
		"message":                    "Application is now ready for requests",
		"timestamp":                  time.Now().UTC().Format(time.RFC3339),
		"ready_for_video_generation": true,
	})
}

// GenerateVideo handles POST /v1/videos — submits an asynchronous generation
// job and returns its ID immediately.
func (h *Handler) GenerateVideo(w http.ResponseWriter, r *http.Request) {
	var req models.GenerateVideoRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondError(w, http.StatusBadRequest, "Invalid request body")
		return
	}

	jobID, err := h.worker.Submit(req)
	if err != nil {
		switch {
		case errors.Is(err, worker.ErrInvalidRequest):
			respondError(w, http.StatusBadRequest, err.Error())
		case errors.Is(err, worker.ErrQueueFull):
			respondError(w, http.StatusServiceUnavailable, err.Error())
		default:
			respondError(w, http.StatusInternalServerError, "Failed to submit job")
		}
		return
	}

	respondJSON(w, http.StatusAccepted, models.GenerateVideoResponse{
		JobID:  jobID,
		Status: models.JobStatusProcessing,
	})
}

// GetJob handles GET /v1/videos/{id} — returns the current job snapshot.
func (h *Handler) GetJob(w http.ResponseWriter, r *http.Request) {
	jobID := chi.URLParam(r, "id")

	job, err := h.worker.Status(jobID)
	if err != nil {
		if errors.Is(err, worker.ErrJobNotFound) {
			respondError(w, http.StatusNotFound, "Job not found")
			return
		}
		respondError(w, http.StatusInternalServerError, "Failed to get job")
		return
	}

	respondJSON(w, http.StatusOK, job)
}

// ListGenerations handles GET /v1/generations — recent audit records.
func (h *Handler) ListGenerations(w http.ResponseWriter, r *http.Request) {
	if h.db == nil {
		respondJSON(w, http.StatusOK, models.ListGenerationsResponse{Generations: []models.Generation{}})
		return
	}

	limit := 20
	if l := r.URL.Query().Get("limit"); l != "" {
		if parsed, err := strconv.Atoi(l); err == nil && parsed > 0 {
			limit = parsed
		}
	}
	if limit > 100 {
		limit = 100
	}

	generations, err := h.db.ListGenerations(r.Context(), limit)
	if err != nil {
		respondError(w, http.StatusInternalServerError, "Failed to list generations")
		return
	}
	if generations == nil {
		generations = []models.Generation{}
	}

	respondJSON(w, http.StatusOK, models.ListGenerationsResponse{
		Generations: generations,
		Total:       len(generations),
	})
}

func respondJSON(w http.ResponseWriter, status int, data interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(data)
}

func respondError(w http.ResponseWriter, status int, message string) {
	respondJSON(w, status, map[string]string{"error": message})
}
