package api

import (
	"context"
	"net/http"
	"time"

	"github.com/chahwansong/dms/pkg/log"
	"github.com/chahwansong/dms/pkg/metadata"
	"github.com/chahwansong/dms/pkg/metrics"
	"github.com/chahwansong/dms/pkg/orchestrator"
	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/rs/zerolog"
)

// Server wraps an *orchestrator.Orchestrator behind a chi router and a
// stdlib http.Server with conservative timeouts.
type Server struct {
	orchestrator *orchestrator.Orchestrator
	store        metadata.Store
	logger       zerolog.Logger
	httpServer   *http.Server
}

// NewServer builds a Server ready to Start listening. store backs the
// /healthz reachability check.
func NewServer(o *orchestrator.Orchestrator, store metadata.Store) *Server {
	s := &Server{
		orchestrator: o,
		store:        store,
		logger:       log.WithComponent("api"),
	}

	router := chi.NewRouter()
	router.Use(middleware.Recoverer)
	router.Use(s.metricsMiddleware)

	router.Post("/sync", s.handleSubmit)
	router.Get("/sync", s.handleList)
	router.Get("/sync/{id}", s.handleGet)
	router.Delete("/sync/{id}", s.handleForget)
	router.Post("/sync/{id}/reassign", s.handleReassign)

	router.Post("/workers/heartbeat", s.handleHeartbeat)
	router.Post("/workers/{id}/assignment", s.handleNextAssignment)
	router.Post("/workers/result", s.handleResult)
	router.Get("/workers/{id}/requests", s.handleListForWorker)

	router.Get("/healthz", s.handleHealthz)
	router.Get("/health", metrics.HealthHandler())
	router.Get("/ready", metrics.ReadyHandler())
	router.Get("/live", metrics.LivenessHandler())
	router.Handle("/metrics", metrics.Handler())

	s.httpServer = &http.Server{
		Handler:      router,
		ReadTimeout:  5 * time.Second,
		WriteTimeout: 10 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	return s
}

// Start listens on addr until the server is shut down. It always returns a
// non-nil error, per http.Server.ListenAndServe's contract.
func (s *Server) Start(addr string) error {
	s.httpServer.Addr = addr
	s.logger.Info().Str("addr", addr).Msg("api server listening")
	return s.httpServer.ListenAndServe()
}

// Shutdown gracefully stops the server, waiting up to the context's
// deadline for in-flight requests to finish.
func (s *Server) Shutdown(ctx context.Context) error {
	return s.httpServer.Shutdown(ctx)
}

func (s *Server) metricsMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		timer := metrics.NewTimer()
		ww := middleware.NewWrapResponseWriter(w, r.ProtoMajor)
		next.ServeHTTP(ww, r)
		route := chi.RouteContext(r.Context()).RoutePattern()
		if route == "" {
			route = r.URL.Path
		}
		timer.ObserveDurationVec(metrics.HTTPRequestDuration, route, r.Method)
		metrics.HTTPRequestsTotal.WithLabelValues(route, r.Method, http.StatusText(ww.Status())).Inc()
	})
}
