package api

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/lox/surfsup/internal/models"
)

func (s *Server) writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		s.log.Warn("write response", "error", err)
	}
}

// serverError logs err and sends a generic 500 so dataset details never reach the client.
func (s *Server) serverError(w http.ResponseWriter, r *http.Request, err error) {
	s.log.Error("request failed", "path", r.URL.Path, "error", err)
	http.Error(w, "internal server error", http.StatusInternalServerError)
}

// oneYearAgo returns the date 365 days before the latest observation.
func (s *Server) oneYearAgo(ctx context.Context) (string, error) {
	latest, err := s.data.LatestDate(ctx)
	if err != nil {
		return "", err
	}
	since, err := yearBefore(latest)
	if err != nil {
		return "", fmt.Errorf("latest date: %w", err)
	}
	return since, nil
}

func nullable(v sql.NullFloat64) *float64 {
	if !v.Valid {
		return nil
	}
	return &v.Float64
}

func (s *Server) handlePrecipitation(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	since, err := s.oneYearAgo(ctx)
	if err != nil {
		s.serverError(w, r, err)
		return
	}

	readings, err := s.data.ObservationsSince(ctx, since)
	if err != nil {
		s.serverError(w, r, err)
		return
	}

	// Several stations report on the same date; the last row for a date wins.
	precip := make(map[string]*float64, len(readings))
	for _, rd := range readings {
		precip[rd.Date] = nullable(rd.Precip)
	}
	s.writeJSON(w, http.StatusOK, precip)
}

func (s *Server) handleStations(w http.ResponseWriter, r *http.Request) {
	stations, err := s.data.AllStations(r.Context())
	if err != nil {
		s.serverError(w, r, err)
		return
	}
	if stations == nil {
		stations = []string{}
	}
	s.writeJSON(w, http.StatusOK, stations)
}

func (s *Server) handleTobs(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	station, err := s.data.MostActiveStation(ctx)
	if err != nil {
		s.serverError(w, r, err)
		return
	}
	since, err := s.oneYearAgo(ctx)
	if err != nil {
		s.serverError(w, r, err)
		return
	}

	readings, err := s.data.ObservationsForStation(ctx, station, since)
	if err != nil {
		s.serverError(w, r, err)
		return
	}
	s.log.Debug("tobs", "station", station, "since", since, "rows", len(readings))
	if readings == nil {
		readings = []models.TempReading{}
	}
	s.writeJSON(w, http.StatusOK, readings)
}

// handleTempStats serves both /{start} and /{start}/{end}. Bounds are passed
// through unvalidated and compared as strings.
func (s *Server) handleTempStats(w http.ResponseWriter, r *http.Request) {
	start := chi.URLParam(r, "start")
	end := chi.URLParam(r, "end")

	stats, err := s.data.TemperatureStats(r.Context(), start, end)
	if err != nil {
		s.serverError(w, r, err)
		return
	}
	s.writeJSON(w, http.StatusOK, [3]*float64{
		nullable(stats.Min),
		nullable(stats.Avg),
		nullable(stats.Max),
	})
}
