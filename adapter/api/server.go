// Package api serves the analytics endpoints over HTTP.
package api

import (
	"context"
	"encoding/json"
	"log/slog"
	"net/http"
	"time"

	"github.com/felixgeelhaar/tracker/internal/analytics/application/queries"
	analyticsDomain "github.com/felixgeelhaar/tracker/internal/analytics/domain"
	identityDomain "github.com/felixgeelhaar/tracker/internal/identity/domain"
	"github.com/felixgeelhaar/tracker/pkg/observability"
)

// BusyEmployeesQuerier answers the busy-employees report.
type BusyEmployeesQuerier interface {
	Handle(ctx context.Context, q queries.BusyEmployeesQuery) ([]analyticsDomain.BusyEmployee, error)
}

// ImportantTasksQuerier answers the important-tasks report.
type ImportantTasksQuerier interface {
	Handle(ctx context.Context, q queries.ImportantTasksQuery) ([]analyticsDomain.ImportantTaskRecommendation, error)
}

// Authorizer resolves an Authorization header and applies a policy.
type Authorizer interface {
	Authorize(ctx context.Context, header string, policy identityDomain.Policy) (identityDomain.Principal, error)
}

// Server is the HTTP API server.
type Server struct {
	mux     *http.ServeMux
	server  *http.Server
	logger  *slog.Logger
	metrics observability.Metrics
	deps    Dependencies
}

// ServerConfig holds configuration for the API server.
type ServerConfig struct {
	Addr         string
	ReadTimeout  time.Duration
	WriteTimeout time.Duration
	IdleTimeout  time.Duration
}

// DefaultShutdownTimeout bounds graceful shutdown when none is configured.
const DefaultShutdownTimeout = 15 * time.Second

// DefaultServerConfig returns the default server configuration.
func DefaultServerConfig() ServerConfig {
	return ServerConfig{
		Addr:         "0.0.0.0:8000",
		ReadTimeout:  10 * time.Second,
		WriteTimeout: 30 * time.Second,
		IdleTimeout:  60 * time.Second,
	}
}

// Dependencies are the use cases the server exposes.
type Dependencies struct {
	BusyEmployees  BusyEmployeesQuerier
	ImportantTasks ImportantTasksQuerier
	Auth           Authorizer
	Health         *observability.HealthRegistry
	Metrics        observability.Metrics
	Logger         *slog.Logger
}

// NewServer creates a new API server.
func NewServer(cfg ServerConfig, deps Dependencies) *Server {
	if deps.Logger == nil {
		deps.Logger = observability.DiscardLogger()
	}
	if deps.Metrics == nil {
		deps.Metrics = observability.NoopMetrics{}
	}
	if deps.Health == nil {
		deps.Health = observability.NewHealthRegistry()
	}

	s := &Server{
		mux:     http.NewServeMux(),
		logger:  deps.Logger,
		metrics: deps.Metrics,
		deps:    deps,
	}
	s.registerRoutes()

	s.server = &http.Server{
		Addr:         cfg.Addr,
		Handler:      s.Handler(),
		ReadTimeout:  cfg.ReadTimeout,
		WriteTimeout: cfg.WriteTimeout,
		IdleTimeout:  cfg.IdleTimeout,
	}
	return s
}

func (s *Server) registerRoutes() {
	s.mux.HandleFunc("GET /health", s.handleHealth)

	analytics := &analyticsHandler{
		busy:      s.deps.BusyEmployees,
		important: s.deps.ImportantTasks,
		logger:    s.logger,
	}
	guard := s.requirePolicy(identityDomain.AnalyticsPolicy())
	s.mux.Handle("GET /api/analytics/busy-employees/{$}", guard(http.HandlerFunc(analytics.BusyEmployees)))
	s.mux.Handle("GET /api/analytics/important-tasks/{$}", guard(http.HandlerFunc(analytics.ImportantTasks)))
}

// Handler returns the routed handler wrapped in the middleware chain.
func (s *Server) Handler() http.Handler {
	return s.withRequestID(s.withAccessLog(s.withRecover(s.mux)))
}

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	health := s.deps.Health.GetOverallHealth(r.Context())
	status := http.StatusOK
	if health.Status == observability.HealthStatusUnhealthy {
		status = http.StatusServiceUnavailable
	}
	writeJSON(w, s.logger, status, health)
}

// Start serves until Shutdown is called.
func (s *Server) Start() error {
	s.logger.Info("starting API server", "addr", s.server.Addr)
	return s.server.ListenAndServe()
}

// Shutdown gracefully shuts down the server.
func (s *Server) Shutdown(ctx context.Context) error {
	s.logger.Info("shutting down API server")
	return s.server.Shutdown(ctx)
}

// writeJSON writes data as the response body. Headers are already sent
// when encoding fails, so the failure is only logged.
func writeJSON(w http.ResponseWriter, logger *slog.Logger, status int, data any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if data == nil {
		return
	}
	if err := json.NewEncoder(w).Encode(data); err != nil {
		if rec, ok := w.(*statusRecorder); ok {
			rec.err = err
		}
		logger.Error("failed to encode JSON response", observability.ErrorKey, err)
	}
}
