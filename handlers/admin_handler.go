// backend/handlers/admin_handler.go
package handlers

import (
	"encoding/json"
	"errors"
	"fmt"
	"log"
	"net/http"
	"regexp"

	"github.com/gewnthar/statsprep/ingest"
	"github.com/gewnthar/statsprep/services"
	"github.com/go-chi/chi/v5"
)

// Helper to respond with JSON
func respondWithJSON(w http.ResponseWriter, code int, payload interface{}) {
	response, err := json.Marshal(payload)
	if err != nil {
		log.Printf("Error marshalling JSON response: %v", err)
		http.Error(w, `{"error":"Failed to marshal JSON response"}`, http.StatusInternalServerError)
		return
	}
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(code)
	w.Write(response)
}

// Helper to respond with an error
func respondWithError(w http.ResponseWriter, code int, message string) {
	log.Printf("API Error %d: %s", code, message)
	respondWithJSON(w, code, map[string]string{"error": message})
}

// Targets double as directory and file name prefixes.
var targetPattern = regexp.MustCompile(`^[a-z0-9_]+$`)

func targetParam(w http.ResponseWriter, r *http.Request) (string, bool) {
	target := chi.URLParam(r, "target")
	if !targetPattern.MatchString(target) {
		respondWithError(w, http.StatusBadRequest, fmt.Sprintf("Invalid target '%s'. Use lowercase letters, digits and underscores.", target))
		return "", false
	}
	return target, true
}

func ingestStatus(err error) int {
	switch {
	case errors.Is(err, ingest.ErrNoSourceFiles):
		return http.StatusNotFound
	case errors.Is(err, ingest.ErrUnsupportedFormat),
		errors.Is(err, ingest.ErrFilenameYear),
		errors.Is(err, ingest.ErrColumnCollision):
		return http.StatusUnprocessableEntity
	default:
		return http.StatusInternalServerError
	}
}

// IngestHandler runs an ingestion for the target in the URL.
// Expects POST requests to /api/admin/ingest/{target}.
func (h *Handler) IngestHandler(w http.ResponseWriter, r *http.Request) {
	target, ok := targetParam(w, r)
	if !ok {
		return
	}

	result, err := h.svc.RunIngestion(r.Context(), target)
	if err != nil {
		respondWithError(w, ingestStatus(err), fmt.Sprintf("Failed to ingest %s data: %v", target, err))
		return
	}
	respondWithJSON(w, http.StatusOK, result)
}

// ScrapeHandler downloads the raw season files of a target. An optional
// ?years=2019-2021 query overrides the configured seasons.
// Expects POST requests to /api/admin/scrape/{target}.
func (h *Handler) ScrapeHandler(w http.ResponseWriter, r *http.Request) {
	target, ok := targetParam(w, r)
	if !ok {
		return
	}

	result, err := h.svc.RunScrape(r.Context(), target, r.URL.Query().Get("years"))
	if errors.Is(err, services.ErrInvalidYears) {
		respondWithError(w, http.StatusBadRequest, err.Error())
		return
	}
	if err != nil {
		respondWithError(w, http.StatusBadGateway, fmt.Sprintf("Failed to scrape %s data: %v", target, err))
		return
	}
	respondWithJSON(w, http.StatusOK, result)
}

func (h *Handler) HealthHandler(w http.ResponseWriter, r *http.Request) {
	if h.store != nil {
		if err := h.store.Ping(r.Context()); err != nil {
			log.Printf("Health check failed: DB ping error: %v", err)
			respondWithJSON(w, http.StatusInternalServerError, map[string]string{"status": "error", "message": "database connection error"})
			return
		}
	}
	respondWithJSON(w, http.StatusOK, map[string]string{"status": "ok", "message": "statsprep backend is healthy"})
}
