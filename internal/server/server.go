package server

import (
	"context"
	"encoding/json"
	"fmt"
	"log"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"

	"github.com/zaidfarekh/flowmatch/internal/errclass"
	"github.com/zaidfarekh/flowmatch/internal/knowledge"
	"github.com/zaidfarekh/flowmatch/internal/matching"
	"github.com/zaidfarekh/flowmatch/internal/rules"
	"github.com/zaidfarekh/flowmatch/internal/session"
)

// Config holds server configuration.
type Config struct {
	Port              int
	AllowAll          bool    // allow all CORS origins (dev mode)
	GuidanceThreshold float64 // fuzzy cutoff for error guidance lookups
}

// Server is the flowmatch REST server.
type Server struct {
	cfg         Config
	store       *knowledge.Store
	scorer      *matching.Scorer
	categorizer *errclass.Categorizer
	sessions    *session.Store
	router      chi.Router
	httpServer  *http.Server
}

// New creates a new REST server with all dependencies. A nil session store
// disables the session endpoints.
func New(cfg Config, store *knowledge.Store, scorer *matching.Scorer, categorizer *errclass.Categorizer, sessions *session.Store) *Server {
	s := &Server{
		cfg:         cfg,
		store:       store,
		scorer:      scorer,
		categorizer: categorizer,
		sessions:    sessions,
	}

	s.router = s.buildRouter()
	return s
}

// buildRouter creates and configures the chi router with all routes.
func (s *Server) buildRouter() chi.Router {
	r := chi.NewRouter()

	// Middleware
	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(middleware.Logger)
	r.Use(middleware.Recoverer)
	r.Use(middleware.Timeout(60 * time.Second))

	// CORS
	corsOpts := cors.Options{
		AllowedOrigins:   []string{"http://localhost:*", "http://127.0.0.1:*"},
		AllowedMethods:   []string{"GET", "POST", "OPTIONS"},
		AllowedHeaders:   []string{"Accept", "Authorization", "Content-Type"},
		AllowCredentials: true,
		MaxAge:           300,
	}
	if s.cfg.AllowAll {
		corsOpts.AllowedOrigins = []string{"*"}
	}
	r.Use(cors.Handler(corsOpts))

	// Health check
	r.Get("/healthz", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
		w.Write([]byte(`{"status":"ok"}`))
	})

	knowledge.RegisterRoutes(r, s.store)
	matching.RegisterRoutes(r, s.scorer)
	rules.RegisterRoutes(r, s.store)
	errclass.RegisterRoutes(r, s.categorizer, s.store, s.cfg.GuidanceThreshold)

	if s.sessions != nil {
		r.Get("/api/sessions/{id}/history", s.handleSessionHistory)
	}

	return r
}

// handleSessionHistory returns a session's match history, most recent first.
func (s *Server) handleSessionHistory(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	if _, err := s.sessions.Get(r.Context(), id); err != nil {
		http.Error(w, "session not found", http.StatusNotFound)
		return
	}
	records, err := s.sessions.History(r.Context(), id, 50)
	if err != nil {
		http.Error(w, err.Error(), http.StatusInternalServerError)
		return
	}
	if records == nil {
		records = []session.MatchRecord{}
	}
	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(records)
}

// Router returns the chi router for registering additional routes.
func (s *Server) Router() chi.Router { return s.router }

// Config returns the server configuration.
func (s *Server) ServerConfig() Config { return s.cfg }

// Start begins listening on the configured port.
func (s *Server) Start() error {
	addr := fmt.Sprintf(":%d", s.cfg.Port)
	s.httpServer = &http.Server{
		Addr:              addr,
		Handler:           s.router,
		ReadHeaderTimeout: 10 * time.Second,
		WriteTimeout:      120 * time.Second,
		IdleTimeout:       120 * time.Second,
	}

	log.Printf("flowmatch server listening on %s", addr)
	return s.httpServer.ListenAndServe()
}

// Shutdown gracefully shuts down the server.
func (s *Server) Shutdown(ctx context.Context) error {
	if s.httpServer != nil {
		return s.httpServer.Shutdown(ctx)
	}
	return nil
}
