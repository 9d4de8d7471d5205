// Package api implements the HTTP interface of the analysis engine.
//
// Routes are mounted on a chi router:
//   - GET    /healthz                      liveness probe
//   - POST   /designs                      register a design
//   - GET    /designs                      list design IDs
//   - GET    /designs/{id}                 fetch a design
//   - DELETE /designs/{id}                 remove a design
//   - GET    /designs/{id}/stress         run a stress analysis
//   - GET    /designs/{id}/reliability    run a Monte Carlo reliability estimate
//
// All responses are JSON. Errors map machine-readable engine codes onto HTTP
// status codes: validation failures become 422, missing designs 404, storage
// outages 503, everything else 500.
package api

import (
	"net/http"
	"time"

	"github.com/charmbracelet/log"
	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"

	"github.com/proaptus/tanklab/pkg/analysis"
	"github.com/proaptus/tanklab/pkg/buildinfo"
	"github.com/proaptus/tanklab/pkg/store"
)

// Server bundles the handlers with their dependencies.
type Server struct {
	store  store.Store
	runner *analysis.Runner
	logger *log.Logger
}

// NewServer creates a server over the given store and analysis runner.
func NewServer(st store.Store, runner *analysis.Runner, logger *log.Logger) *Server {
	if logger == nil {
		logger = log.Default()
	}
	return &Server{store: st, runner: runner, logger: logger}
}

// Router builds the HTTP route table.
func (s *Server) Router() http.Handler {
	r := chi.NewRouter()
	r.Use(middleware.RequestID)
	r.Use(middleware.Recoverer)
	r.Use(s.requestLogger)

	r.Get("/healthz", s.handleHealth)

	r.Route("/designs", func(r chi.Router) {
		r.Post("/", s.handleCreateDesign)
		r.Get("/", s.handleListDesigns)
		r.Route("/{id}", func(r chi.Router) {
			r.Get("/", s.handleGetDesign)
			r.Delete("/", s.handleDeleteDesign)
			r.Get("/stress", s.handleStress)
			r.Get("/reliability", s.handleReliability)
		})
	})

	return r
}

// requestLogger logs one line per request with method, path, status and
// duration.
func (s *Server) requestLogger(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, req *http.Request) {
		start := time.Now()
		ww := middleware.NewWrapResponseWriter(w, req.ProtoMajor)
		next.ServeHTTP(ww, req)
		s.logger.Debug("request",
			"method", req.Method,
			"path", req.URL.Path,
			"status", ww.Status(),
			"duration", time.Since(start).Round(time.Microsecond))
	})
}

func (s *Server) handleHealth(w http.ResponseWriter, req *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok", "version": buildinfo.Version})
}
