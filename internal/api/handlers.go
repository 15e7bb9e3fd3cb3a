package api

import (
	"errors"
	"log/slog"
	"net/http"
	"strings"

	"github.com/go-chi/chi/v5"

	"github.com/baxromumarov/civic-reps/internal/observability"
	"github.com/baxromumarov/civic-reps/internal/store"
)

type RepresentativeView struct {
	Name         string `json:"name"`
	Title        string `json:"title"`
	Office       string `json:"office"`
	Party        string `json:"party"`
	Branch       string `json:"branch"`
	Level        string `json:"level"`
	DisplayTitle string `json:"displayTitle"`
}

type RepresentativesResponse struct {
	ZIP             string               `json:"zip"`
	City            string               `json:"city,omitempty"`
	State           string               `json:"state,omitempty"`
	Representatives []RepresentativeView `json:"representatives"`
}

// handleRepresentatives serves both the ?zip= and the /{zip} form.
func (s *Server) handleRepresentatives(w http.ResponseWriter, r *http.Request) {
	zip := strings.TrimSpace(chi.URLParam(r, "zip"))
	if zip == "" {
		zip = strings.TrimSpace(r.URL.Query().Get("zip"))
	}
	if zip == "" {
		respondError(w, http.StatusBadRequest, "zip query param required")
		return
	}
	level := strings.TrimSpace(r.URL.Query().Get("level"))

	geo, err := s.store.GetGeography(r.Context(), zip)
	if errors.Is(err, store.ErrNotFound) {
		respondJSON(w, http.StatusNotFound, RepresentativesResponse{
			ZIP:             zip,
			Representatives: []RepresentativeView{},
		})
		return
	}
	if err != nil {
		s.storeFailure(w, zip, err)
		return
	}

	reps, err := s.store.ListRepresentatives(r.Context(), geo.ID, level)
	if err != nil {
		s.storeFailure(w, zip, err)
		return
	}

	views := make([]RepresentativeView, 0, len(reps))
	for _, rep := range reps {
		views = append(views, RepresentativeView{
			Name:         rep.Name,
			Title:        rep.Title,
			Office:       rep.Office,
			Party:        rep.Party,
			Branch:       rep.Branch,
			Level:        rep.Level,
			DisplayTitle: rep.DisplayTitle(),
		})
	}
	respondJSON(w, http.StatusOK, RepresentativesResponse{
		ZIP:             zip,
		City:            geo.City,
		State:           geo.State,
		Representatives: views,
	})
}

func (s *Server) storeFailure(w http.ResponseWriter, zip string, err error) {
	observability.IncError(observability.ErrorPersistence, "api")
	slog.Error("representatives query failed", "zip", zip, "error", err)
	respondError(w, http.StatusInternalServerError, "Failed to fetch representatives: "+err.Error())
}
