package api

import (
	"context"
	"encoding/json"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"

	"github.com/baxromumarov/civic-reps/internal/observability"
	"github.com/baxromumarov/civic-reps/internal/store"
)

const (
	ServiceName    = "civic-reps-api"
	ServiceVersion = "1.0.0"
)

// Reader is the part of the store the API reads from.
type Reader interface {
	GetGeography(ctx context.Context, zip string) (store.Geography, error)
	ListRepresentatives(ctx context.Context, geographyID int64, level string) ([]store.LinkedRepresentative, error)
}

type Server struct {
	router *chi.Mux
	store  Reader
	now    func() time.Time
}

func NewServer(store Reader) *Server {
	s := &Server{
		router: chi.NewRouter(),
		store:  store,
		now:    time.Now,
	}

	s.setupRoutes()
	return s
}

func (s *Server) setupRoutes() {
	s.router.Use(middleware.RequestID)
	s.router.Use(middleware.Logger)
	s.router.Use(middleware.Recoverer)
	s.router.Use(cors.Handler(cors.Options{
		AllowedOrigins: []string{"*"},
		AllowedMethods: []string{"GET", "OPTIONS"},
		AllowedHeaders: []string{"Accept", "Content-Type"},
	}))

	s.router.Get("/", s.handleIndex)
	s.router.Route("/api", func(r chi.Router) {
		r.Get("/health", s.handleHealth)
		r.Get("/stats", s.handleStats)
		r.Get("/representatives", s.handleRepresentatives)
		r.Get("/representatives/{zip}", s.handleRepresentatives)
	})
}

func (s *Server) Router() http.Handler {
	return s.router
}

func (s *Server) handleIndex(w http.ResponseWriter, r *http.Request) {
	respondJSON(w, http.StatusOK, map[string]any{
		"service": "Civic Representatives API",
		"version": ServiceVersion,
		"endpoints": []string{
			"GET /api/representatives?zip=XXXXX",
			"GET /api/representatives?zip=XXXXX&level=federal|state|local",
			"GET /api/representatives/{zip}",
			"GET /api/health",
			"GET /api/stats",
		},
	})
}

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	respondJSON(w, http.StatusOK, map[string]string{
		"status":    "ok",
		"timestamp": s.now().UTC().Format(time.RFC3339),
		"service":   ServiceName,
	})
}

func (s *Server) handleStats(w http.ResponseWriter, r *http.Request) {
	respondJSON(w, http.StatusOK, observability.Snapshot())
}

func respondJSON(w http.ResponseWriter, status int, payload interface{}) {
	response, _ := json.Marshal(payload)
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	w.Write(response)
}

func respondError(w http.ResponseWriter, status int, message string) {
	respondJSON(w, status, map[string]string{"error": message})
}
