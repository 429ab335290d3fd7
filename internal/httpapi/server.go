package httpapi

import (
	"context"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	chimw "github.com/go-chi/chi/v5/middleware"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.uber.org/zap"
	"golang.org/x/time/rate"

	"github.com/BrandonDHaskell/cornerstone/internal/archive"
	"github.com/BrandonDHaskell/cornerstone/internal/metrics"
	"github.com/BrandonDHaskell/cornerstone/internal/registry/service"
)

type Dependencies struct {
	Logger   *zap.Logger
	Addr     string
	Registry *service.Registry
	Archive  archive.Store
	Metrics  *metrics.Metrics

	// Gatherer backs /metrics.  Nil leaves the route unregistered.
	Gatherer prometheus.Gatherer

	// Ready reports whether the backing store is reachable.  Nil is always
	// ready.
	Ready func(context.Context) error

	// RateLimitRPS bounds mutating requests per second.  0 disables.
	RateLimitRPS float64
	RateBurst    int
}

type Server struct {
	httpServer *http.Server
	logger     *zap.Logger
	router     chi.Router
	registry   *service.Registry
	archive    archive.Store
	ready      func(context.Context) error
}

func NewServer(d Dependencies) *Server {
	logger := d.Logger
	if logger == nil {
		logger = zap.L()
	}

	s := &Server{
		logger:   logger,
		router:   chi.NewRouter(),
		registry: d.Registry,
		archive:  d.Archive,
		ready:    d.Ready,
	}

	var limiter *rate.Limiter
	if d.RateLimitRPS > 0 {
		burst := d.RateBurst
		if burst <= 0 {
			burst = 1
		}
		limiter = rate.NewLimiter(rate.Limit(d.RateLimitRPS), burst)
	}

	r := s.router
	r.Use(requestIDMiddleware)
	r.Use(chimw.Recoverer)
	r.Use(callerMiddleware)
	r.Use(loggingMiddleware(logger, d.Metrics))

	r.Get("/healthz", s.handleHealth)
	if d.Gatherer != nil {
		r.Handle("/metrics", promhttp.HandlerFor(d.Gatherer, promhttp.HandlerOpts{}))
	}

	r.Route("/v1", func(r chi.Router) {
		r.Get("/registrars/{registrarID}", s.handleGetRegistrar)
		r.Get("/buildings", s.handleListBuildings)
		r.Get("/buildings/{buildingID}", s.handleGetBuilding)
		r.Get("/buildings/{buildingID}/status/history", s.handleStatusHistory)
		r.Get("/buildings/{buildingID}/ownership", s.handleGetOwnership)
		r.Get("/buildings/{buildingID}/designations", s.handleListDesignations)
		r.Get("/buildings/{buildingID}/designations/{designationID}", s.handleGetDesignation)
		r.Get("/buildings/{buildingID}/features", s.handleListFeatures)
		r.Get("/buildings/{buildingID}/features/{featureID}", s.handleGetFeature)
		r.Get("/buildings/{buildingID}/modifications", s.handleListModifications)
		r.Get("/buildings/{buildingID}/modifications/{modificationID}", s.handleGetModification)
		r.Get("/documents/{hash}", s.handleGetDocument)

		r.Group(func(r chi.Router) {
			r.Use(requireCaller)
			r.Use(rateLimitMiddleware(limiter, d.Metrics))

			r.Post("/registrars", s.handleRegisterRegistrar)
			r.Post("/buildings", s.handleRegisterBuilding)
			r.Put("/buildings/{buildingID}/status", s.handleUpdateStatus)
			r.Put("/buildings/{buildingID}/ownership", s.handleRegisterOwnership)
			r.Post("/buildings/{buildingID}/ownership/verify", s.handleVerifyOwnership)
			r.Post("/buildings/{buildingID}/designations", s.handleAddDesignation)
			r.Post("/buildings/{buildingID}/features", s.handleAddFeature)
			r.Post("/buildings/{buildingID}/modifications", s.handleRecordModification)
			r.Post("/documents", s.handlePutDocument)
		})
	})

	s.httpServer = &http.Server{
		Addr:              d.Addr,
		Handler:           r,
		ReadHeaderTimeout: 5 * time.Second,
	}

	return s
}

func (s *Server) Handler() http.Handler { return s.httpServer.Handler }

func (s *Server) Start() error {
	return s.httpServer.ListenAndServe()
}

func (s *Server) Shutdown(ctx context.Context) error {
	return s.httpServer.Shutdown(ctx)
}

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	if s.ready != nil {
		if err := s.ready(r.Context()); err != nil {
			s.logger.Warn("health check failed", zap.Error(err))
			writeError(w, r, http.StatusServiceUnavailable, "unavailable", "store unreachable")
			return
		}
	}
	writeJSON(w, http.StatusOK, map[string]bool{"ok": true})
}
