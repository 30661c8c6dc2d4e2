// backend/handlers/router.go
package handlers

import (
	"net/http"

	"github.com/gewnthar/statsprep/database"
	"github.com/gewnthar/statsprep/services"
	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
)

type Handler struct {
	svc   *services.Service
	store database.Store
}

// NewRouter mounts the health and admin routes. store may be nil.
func NewRouter(svc *services.Service, store database.Store) http.Handler {
	h := &Handler{svc: svc, store: store}

	r := chi.NewRouter()
	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(middleware.Logger)
	r.Use(middleware.Recoverer)

	r.Get("/api/health", h.HealthHandler)
	r.Route("/api/admin", func(r chi.Router) {
		r.Post("/ingest/{target}", h.IngestHandler)
		r.Post("/scrape/{target}", h.ScrapeHandler)
	})
	return r
}
