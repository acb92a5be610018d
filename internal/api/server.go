package api

import (
	"context"
	"errors"
	"html/template"
	"log/slog"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/lox/surfsup/internal/models"
)

// Dataset is the read-only query surface the routes need. *store.Store implements it.
type Dataset interface {
	Ping(ctx context.Context) error
	LatestDate(ctx context.Context) (string, error)
	ObservationsSince(ctx context.Context, date string) ([]models.PrecipReading, error)
	AllStations(ctx context.Context) ([]string, error)
	MostActiveStation(ctx context.Context) (string, error)
	ObservationsForStation(ctx context.Context, stationID, since string) ([]models.TempReading, error)
	TemperatureStats(ctx context.Context, start, end string) (models.TemperatureStats, error)
}

type Server struct {
	data   Dataset
	addr   string
	log    *slog.Logger
	tmpl   *template.Template
	routes []string
}

func NewServer(data Dataset, addr string, logger *slog.Logger) *Server {
	if logger == nil {
		logger = slog.Default()
	}
	return &Server{
		data: data,
		addr: addr,
		log:  logger,
		tmpl: newTemplates(),
		routes: []string{
			"/api/v1.0/precipitation",
			"/api/v1.0/stations",
			"/api/v1.0/tobs",
			"/api/v1.0/<start>",
			"/api/v1.0/<start>/<end>",
		},
	}
}

func (s *Server) Handler() http.Handler {
	r := chi.NewRouter()
	r.Use(middleware.RequestID)
	r.Use(s.requestLogger)
	r.Use(middleware.Recoverer)

	r.Get("/", s.handleWelcome)
	r.Get("/health", s.handleHealth)
	r.Method(http.MethodGet, "/metrics", promhttp.Handler())

	r.Route("/api/v1.0", func(r chi.Router) {
		r.Get("/precipitation", s.handlePrecipitation)
		r.Get("/stations", s.handleStations)
		r.Get("/tobs", s.handleTobs)
		r.Get("/{start}", s.handleTempStats)
		r.Get("/{start}/{end}", s.handleTempStats)
	})
	return r
}

// Run serves until ctx is cancelled, then drains in-flight requests.
func (s *Server) Run(ctx context.Context) error {
	server := &http.Server{
		Addr:              s.addr,
		Handler:           s.Handler(),
		ReadHeaderTimeout: 10 * time.Second,
	}

	go func() {
		<-ctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if err := server.Shutdown(shutdownCtx); err != nil {
			s.log.Warn("server shutdown", "error", err)
		}
	}()

	s.log.Info("starting server", "addr", s.addr)
	if err := server.ListenAndServe(); !errors.Is(err, http.ErrServerClosed) {
		return err
	}
	return nil
}
