package server

import (
	"io/fs"
	"log/slog"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/gorilla/websocket"

	"github.com/claude/rpfocus/internal/tracking"
)

// Server holds dependencies for HTTP handlers.
type Server struct {
	session      *tracking.Session
	log          *slog.Logger
	router       chi.Router
	identity     func(http.Handler) http.Handler
	tickInterval time.Duration
	upgrader     websocket.Upgrader
}

// New creates a new Server with all routes configured.
func New(session *tracking.Session, log *slog.Logger) *Server {
	s := &Server{
		session:      session,
		log:          log,
		router:       chi.NewRouter(),
		identity:     DevIdentity,
		tickInterval: time.Second,
		upgrader: websocket.Upgrader{
			CheckOrigin: func(r *http.Request) bool { return true },
		},
	}
	s.routes()
	return s
}

// ServeHTTP implements http.Handler.
func (s *Server) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	s.router.ServeHTTP(w, r)
}

// SetTailscale switches request identity to tailnet WhoIs lookups.
// Must be called before serving.
func (s *Server) SetTailscale(lc WhoIser) {
	s.identity = TailscaleIdentity(lc, s.log)
}

func (s *Server) routes() {
	s.router.Use(middleware.RequestID)
	s.router.Use(func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			s.identity(next).ServeHTTP(w, r)
		})
	})
	s.router.Use(RequestLogging(s.log))
	s.router.Use(middleware.Recoverer)
	s.router.Use(CORS)

	s.router.Route("/api/v1", func(r chi.Router) {
		r.Get("/me", s.handleMe)
		r.Get("/catalog", s.handleCatalog)

		r.Route("/plan/weeks/{week}", func(r chi.Router) {
			r.Get("/", s.handleWeekPlan)
			r.Get("/days/{day}", s.handleDayPlan)
			r.Get("/volume", s.handleVolume)
			r.Get("/guidance", s.handleGuidance)
		})

		r.Get("/state", s.handleState)
		r.Put("/view", s.handleUpdateView)
		r.Put("/settings", s.handleUpdateSettings)
		r.Put("/exercises/{id}/name", s.handleRenameExercise)
		r.Post("/reset", s.handleReset)

		r.Get("/session", s.handleSession)
		r.Post("/sets/toggle", s.handleToggleSet)
		r.Put("/sets", s.handleUpdateSet)
		r.Post("/sets/adjust", s.handleAdjustSet)
		r.Get("/history", s.handleHistory)

		r.Get("/stopwatch", s.handleStopwatch)
		r.Post("/stopwatch/{action}", s.handleStopwatchAction)
		r.Get("/ticks", s.handleTicks)

		r.Route("/nutrition", func(r chi.Router) {
			r.Get("/options", s.handleNutritionOptions)
			r.Get("/profile", s.handleGetProfile)
			r.Put("/profile", s.handlePutProfile)
			r.Get("/days/{date}", s.handleNutritionDay)
			r.Post("/days/{date}/meals", s.handleAddMeal)
			r.Delete("/days/{date}/meals/{id}", s.handleDeleteMeal)
			r.Post("/days/{date}/analyses", s.handleStartAnalysis)
			r.Get("/analyses/{id}", s.handleGetAnalysis)
			r.Delete("/analyses/{id}", s.handleAbandonAnalysis)
			r.Post("/analyses/{id}/commit", s.handleCommitAnalysis)
		})
	})
}

// SetFrontend mounts a static web UI.
// Unmatched routes serve index.html for client-side routing.
func (s *Server) SetFrontend(webFS fs.FS) {
	fileServer := http.FileServerFS(webFS)

	s.router.NotFound(func(w http.ResponseWriter, r *http.Request) {
		// Try to serve the exact file first
		f, err := webFS.Open(r.URL.Path[1:]) // strip leading /
		if err == nil {
			f.Close()
			fileServer.ServeHTTP(w, r)
			return
		}
		// Fallback to index.html for SPA routing
		r.URL.Path = "/"
		fileServer.ServeHTTP(w, r)
	})
}
