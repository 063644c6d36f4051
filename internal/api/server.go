package api

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/httplog/v3"
	httpSwagger "github.com/swaggo/http-swagger"

	_ "hyperion-agent/docs" // Swagger docs

	api "hyperion-agent/internal/api/application"
	"hyperion-agent/internal/api/handlers"
	apimiddleware "hyperion-agent/internal/api/middleware"
	configapp "hyperion-agent/internal/config/application"
	"hyperion-agent/internal/infrastructure/logger"
	metricsapp "hyperion-agent/internal/metrics/application"
	metricsdomain "hyperion-agent/internal/metrics/domain"
)

// Server represents the agent HTTP server
type Server struct {
	httpServer *http.Server
	listener   net.Listener
	logger     *logger.Logger
}

// NewServer creates a new agent HTTP server serving snapshots from source
func NewServer(
	log *logger.Logger,
	runtimeCfg *configapp.RuntimeConfig,
	source metricsdomain.Snapshotter,
) (*Server, error) {
	if source == nil {
		return nil, errors.New("snapshot source is required")
	}
	if err := runtimeCfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid runtime config: %w", err)
	}

	metricsService := api.NewMetricsService(source)
	metricsHandler := handlers.NewMetricsHandler(metricsService, metricsapp.NewRegistry(source))

	r := chi.NewRouter()

	// Middleware stack
	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(middleware.Recoverer)
	r.Use(middleware.GetHead)
	r.Use(httplog.RequestLogger(log.SLog(), &httplog.Options{
		Level:             slog.LevelDebug,
		Schema:            httplog.SchemaECS.Concise(true),
		LogRequestHeaders: []string{}, // Log no headers by default to reduce verbosity
	}))
	r.Use(apimiddleware.WithLogger(log))

	r.NotFound(handlers.NotFound)
	r.MethodNotAllowed(handlers.MethodNotAllowed)

	// Swagger UI (only in dev mode)
	if runtimeCfg.DevMode {
		swaggerHandler := httpSwagger.Handler(
			httpSwagger.URL("/swagger/doc.json"),
		)
		r.Handle("/swagger/*", swaggerHandler)
		r.Get("/swagger", func(w http.ResponseWriter, r *http.Request) {
			http.Redirect(w, r, "/swagger/", http.StatusMovedPermanently)
		})
	}

	r.Get("/healthz", handlers.Healthz)

	r.Group(func(r chi.Router) {
		r.Use(apimiddleware.NoStore)

		r.Get("/metrics", metricsHandler.GetSnapshot)
		r.Get("/metrics/prometheus", metricsHandler.Prometheus)
	})

	httpServer := &http.Server{
		Addr:         runtimeCfg.ListenAddr,
		Handler:      r,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 15 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	log.Debug("Server configured",
		"addr", runtimeCfg.ListenAddr,
		"dev_mode", runtimeCfg.DevMode,
		"middleware", []string{"RequestID", "RealIP", "Recoverer", "GetHead", "httplog"},
	)

	return &Server{
		httpServer: httpServer,
		logger:     log,
	}, nil
}

// Handler returns the routed handler
func (s *Server) Handler() http.Handler {
	return s.httpServer.Handler
}

// Listen binds the configured address. A bind failure is returned as is so
// the caller can abort startup.
func (s *Server) Listen() error {
	ln, err := net.Listen("tcp", s.httpServer.Addr)
	if err != nil {
		return fmt.Errorf("failed to listen on %s: %w", s.httpServer.Addr, err)
	}
	s.listener = ln
	return nil
}

// Addr returns the bound address, or the configured one before Listen
func (s *Server) Addr() string {
	if s.listener != nil {
		return s.listener.Addr().String()
	}
	return s.httpServer.Addr
}

// Serve accepts connections on the bound listener until Shutdown
func (s *Server) Serve() error {
	if s.listener == nil {
		return errors.New("server is not listening")
	}
	err := s.httpServer.Serve(s.listener)
	if err != nil && !errors.Is(err, http.ErrServerClosed) {
		s.logger.Error("Server error", "err", err)
	}
	return err
}

// Start binds the listener and serves until Shutdown
func (s *Server) Start() error {
	if err := s.Listen(); err != nil {
		return err
	}
	s.logger.Info("Starting HTTP server", "addr", s.Addr())
	return s.Serve()
}

// Shutdown gracefully shuts down the server
func (s *Server) Shutdown(ctx context.Context) error {
	s.logger.Info("Shutting down HTTP server")
	err := s.httpServer.Shutdown(ctx)
	if err != nil {
		s.logger.Error("Server shutdown error", "err", err)
	} else {
		s.logger.Info("Server shutdown complete")
	}
	return err
}
