package server

import (
	"context"
	"log/slog"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/zenalyze/zenalyze/internal/models"
	"github.com/zenalyze/zenalyze/internal/storage"
	"github.com/zenalyze/zenalyze/internal/synth"
)

// Store is the data access the dashboard needs. *storage.DB satisfies it.
type Store interface {
	Ping(ctx context.Context) error
	LatestReading(ctx context.Context) (*models.Reading, error)
	ReadingsSince(ctx context.Context, since time.Time) ([]models.Reading, error)
	Diagnose(ctx context.Context) (*storage.Diagnostics, error)
}

// Compile-time check: *storage.DB satisfies Store.
var _ Store = (*storage.DB)(nil)

// Server holds dependencies for HTTP handlers.
type Server struct {
	store      Store
	gen        *synth.Generator
	moods      *MoodStore
	log        *slog.Logger
	corsOrigin string
	now        func() time.Time
	router     chi.Router
}

// New creates a new Server with all routes configured.
func New(store Store, gen *synth.Generator, corsOrigin string, log *slog.Logger) *Server {
	s := &Server{
		store:      store,
		gen:        gen,
		moods:      &MoodStore{},
		log:        log,
		corsOrigin: corsOrigin,
		now:        time.Now,
		router:     chi.NewRouter(),
	}
	s.routes()
	return s
}

// ServeHTTP implements http.Handler.
func (s *Server) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	s.router.ServeHTTP(w, r)
}

func (s *Server) routes() {
	s.router.Use(middleware.RequestID)
	s.router.Use(RequestLogging(s.log))
	s.router.Use(middleware.Recoverer)
	s.router.Use(CORS(s.corsOrigin))

	s.router.Get("/health", s.handleHealth)

	s.router.Route("/api", func(r chi.Router) {
		r.Get("/db-status", s.handleDBStatus)
		r.Get("/test-db", s.handleTestDB)

		r.Get("/sensores/current", s.handleCurrent)
		r.Get("/sensores/historico", s.handleHistory)

		r.Get("/estado", s.handleGetMood)
		r.Post("/estado", s.handleSetMood)

		r.Get("/eventos/recientes", s.handleRecentEvents)

		r.Get("/estadisticas", s.handleStatistics)
		r.Get("/estadisticas/export", s.handleStatisticsExport)

		r.Get("/sueno/{fecha}", s.handleSleep)
	})
}
