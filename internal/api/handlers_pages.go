package api

import (
	"errors"
	"net/http"

	"github.com/lox/surfsup/internal/store"
)

type welcomeData struct {
	Routes  []string
	BaseURL string
}

func (s *Server) handleWelcome(w http.ResponseWriter, r *http.Request) {
	scheme := "http"
	if r.TLS != nil {
		scheme = "https"
	}
	data := welcomeData{
		Routes:  s.routes,
		BaseURL: scheme + "://" + r.Host,
	}

	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	if err := s.tmpl.ExecuteTemplate(w, "welcome.html", data); err != nil {
		s.log.Error("render welcome", "error", err)
	}
}

type HealthStatus struct {
	Status     string  `json:"status"`
	LatestDate *string `json:"latest_date"`
	Error      string  `json:"error,omitempty"`
}

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	if err := s.data.Ping(ctx); err != nil {
		s.writeJSON(w, http.StatusServiceUnavailable, HealthStatus{Status: "error", Error: err.Error()})
		return
	}

	latest, err := s.data.LatestDate(ctx)
	switch {
	case errors.Is(err, store.ErrNotFound):
		s.writeJSON(w, http.StatusServiceUnavailable, HealthStatus{Status: "degraded", Error: "dataset has no observations"})
	case err != nil:
		s.writeJSON(w, http.StatusServiceUnavailable, HealthStatus{Status: "error", Error: err.Error()})
	default:
		s.writeJSON(w, http.StatusOK, HealthStatus{Status: "ok", LatestDate: &latest})
	}
}
