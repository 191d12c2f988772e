// Package server exposes the engine to the presentation layer over HTTP.
// It owns the single database session and the last materialized result set;
// handlers translate between JSON and the engine packages.
package server

import (
	"net/http"
	"sync"
	"time"

	"github.com/go-chi/chi/v5"

	"github.com/hawkdb/hawkdb/internal/filestore"
	"github.com/hawkdb/hawkdb/internal/logger"
	"github.com/hawkdb/hawkdb/internal/profile"
	"github.com/hawkdb/hawkdb/internal/result"
	"github.com/hawkdb/hawkdb/internal/runner"
	"github.com/hawkdb/hawkdb/internal/session"
)

// Options wires the server's collaborators. Publisher may be nil; export
// publication is then disabled.
type Options struct {
	Profiles    *profile.Store
	Session     session.Session
	Runner      *runner.Runner
	ExportDir   string
	DefaultPort int
	Publisher   filestore.Store
	Bucket      string
}

// Server is the HTTP boundary of the engine.
type Server struct {
	log  *logger.Logger
	opts Options

	// The last query's result set, held until superseded by the next
	// query. Export reads it; only the query handler replaces it.
	mu      sync.Mutex
	last    *result.Set
	elapsed time.Duration
}

// New creates a Server around the given collaborators.
func New(log *logger.Logger, opts Options) *Server {
	return &Server{log: log, opts: opts}
}

// Router returns the chi route tree.
func (s *Server) Router() http.Handler {
	r := chi.NewRouter()

	r.Route("/api", func(r chi.Router) {
		r.Get("/profiles", s.handleListProfiles)
		r.Post("/profiles", s.handleSaveProfile)
		r.Get("/profiles/{name}", s.handleLoadProfile)
		r.Delete("/profiles/{name}", s.handleDeleteProfile)

		r.Post("/connect", s.handleConnect)
		r.Post("/disconnect", s.handleDisconnect)
		r.Get("/server-info", s.handleServerInfo)
		r.Get("/tables", s.handleTables)

		r.Post("/query", s.handleQuery)
		r.Post("/export", s.handleExport)
	})

	return r
}

func (s *Server) setLastResult(set *result.Set, elapsed time.Duration) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.last = set
	s.elapsed = elapsed
}

func (s *Server) lastResult() *result.Set {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.last
}
