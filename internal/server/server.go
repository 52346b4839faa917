package server

import (
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/meltforce/liftlog/internal/ingest/alpha"
	"github.com/meltforce/liftlog/internal/metrics"
	"github.com/meltforce/liftlog/internal/seed"
	"github.com/meltforce/liftlog/internal/storage"
	"github.com/meltforce/liftlog/internal/workout"
)

// Server holds dependencies for HTTP handlers.
type Server struct {
	db      *storage.DB
	workout *workout.Service
	alpha   *alpha.Provider
	seeder  *seed.Seeder
	metrics *metrics.Manager
	whois   WhoIser
	log     *slog.Logger
	apiKey  string
	router  chi.Router
}

// New creates a new Server with all routes configured. m may be nil.
func New(db *storage.DB, svc *workout.Service, alphaProvider *alpha.Provider, seeder *seed.Seeder, m *metrics.Manager, apiKey string, log *slog.Logger) *Server {
	s := &Server{
		db:      db,
		workout: svc,
		alpha:   alphaProvider,
		seeder:  seeder,
		metrics: m,
		log:     log,
		apiKey:  apiKey,
		router:  chi.NewRouter(),
	}
	s.routes()
	return s
}

// ServeHTTP implements http.Handler.
func (s *Server) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	s.router.ServeHTTP(w, r)
}

func (s *Server) routes() {
	s.router.Use(PanicRecovery(s.log, s.metrics))
	s.router.Use(RequestLogging(s.log))
	if s.metrics != nil {
		s.router.Use(RequestMetrics(s.metrics))
	}
	s.router.Use(CORS)
	s.router.Use(s.identity)

	s.router.Route("/api/v1", func(r chi.Router) {
		r.Get("/me", s.handleMe)

		r.Get("/exercises", s.handleListExercises)
		r.Get("/exercises/{id}", s.handleGetExercise)
		r.Get("/exercises/{id}/previous", s.handlePrevious)
		r.Get("/exercises/{id}/history", s.handleHistory)
		r.Get("/muscle-groups", s.handleMuscleGroups)
		r.Get("/sets", s.handleListSets)
		r.Get("/routines", s.handleListRoutines)
		r.Get("/routines/{day}", s.handleGetRoutine)
		r.Get("/metrics/weekly-volume", s.handleWeeklyVolume)
		r.Get("/metrics/muscle-groups", s.handleMuscleGroupBreakdown)
		r.Get("/calendar", s.handleCalendar)
		r.Get("/calendar/{date}", s.handleCalendarDay)
		r.Get("/preferences", s.handleGetPreferences)
		r.Get("/stats", s.handleStats)
		r.Get("/import-logs", s.handleImportLogs)

		// Mutations (API key required when one is configured)
		r.Group(func(r chi.Router) {
			r.Use(APIKeyAuth(s.apiKey))
			r.Post("/exercises", s.handleCreateExercise)
			r.Put("/exercises/{id}", s.handleUpdateExercise)
			r.Delete("/exercises/{id}", s.handleDeleteExercise)
			r.Post("/exercises/{id}/sets", s.handleLogSets)
			r.Delete("/sets/{id}", s.handleDeleteSet)
			r.Put("/routines/{day}", s.handleSetRoutine)
			r.Post("/routines/{day}/session", s.handleStartRoutineSession)
			r.Post("/sessions/start", s.handleStartSession)
			r.Post("/sessions/finish", s.handleFinishSession)
			r.Put("/preferences", s.handleUpdatePreferences)
			r.Post("/seed", s.handleSeed)
			r.Post("/ingest/alpha", s.handleAlphaIngest)
		})
	})
}

// Mount attaches an auxiliary handler such as /metrics or /mcp.
func (s *Server) Mount(pattern string, h http.Handler) {
	s.router.Mount(pattern, h)
}

// SetTailscale enables tailnet identity lookup for every request.
func (s *Server) SetTailscale(w WhoIser) {
	s.whois = w
}
