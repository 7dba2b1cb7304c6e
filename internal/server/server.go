// Package server wires the analysis pipeline behind an HTTP API.
package server

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net"
	"net/http"
	"strconv"
	"sync"
	"time"

	"github.com/Rovlad/meddoc-parse/internal/analyze"
	"github.com/Rovlad/meddoc-parse/internal/api"
	"github.com/Rovlad/meddoc-parse/internal/classify"
	"github.com/Rovlad/meddoc-parse/internal/config"
	"github.com/Rovlad/meddoc-parse/internal/docschema"
	"github.com/Rovlad/meddoc-parse/internal/extract"
	"github.com/Rovlad/meddoc-parse/internal/normalize"
	"github.com/Rovlad/meddoc-parse/internal/providers"
	"github.com/Rovlad/meddoc-parse/internal/server/endpoints"
	"github.com/Rovlad/meddoc-parse/internal/svcctx"
)

// Server is the meddoc HTTP server.
type Server struct {
	httpServer *http.Server
	configMgr  *config.Manager
	schemas    *docschema.Registry
	logger     *slog.Logger

	// vision overrides the configured client when set (used by tests).
	vision providers.VisionClient

	// endpoints registry for HTTP routes
	endpointRegistry *api.Registry

	mu       sync.RWMutex
	services *svcctx.Services
	running  bool
}

// Config holds server configuration.
type Config struct {
	// Host is the address to bind to (default: 127.0.0.1)
	Host string
	// Port is the port to listen on (default: 8080)
	Port int
	// ConfigManager provides configuration with hot-reload support
	ConfigManager *config.Manager
	// Vision overrides the OpenAI client built from config (used by tests)
	Vision providers.VisionClient
	// Logger is the structured logger to use
	Logger *slog.Logger
	// SwaggerSpecPath is the path to swagger.json
	SwaggerSpecPath string
}

// New creates a new Server with the given configuration.
func New(cfg Config) (*Server, error) {
	if cfg.Host == "" {
		cfg.Host = "127.0.0.1"
	}
	if cfg.Port == 0 {
		cfg.Port = 8080
	}
	if cfg.Logger == nil {
		cfg.Logger = slog.Default()
	}
	if cfg.ConfigManager == nil {
		return nil, errors.New("config manager is required")
	}

	schemas, err := docschema.NewRegistry()
	if err != nil {
		return nil, fmt.Errorf("failed to load document schemas: %w", err)
	}

	s := &Server{
		configMgr: cfg.ConfigManager,
		schemas:   schemas,
		vision:    cfg.Vision,
		logger:    cfg.Logger,
	}

	if err := s.buildServices(cfg.ConfigManager.Get()); err != nil {
		return nil, err
	}

	// Rebuild the pipeline when the config file changes
	cfg.ConfigManager.OnChange(func(c *config.Config) {
		if err := s.buildServices(c); err != nil {
			s.logger.Error("failed to apply config change", "error", err)
			return
		}
		s.logger.Info("analysis pipeline reloaded from config")
	})

	// Create endpoint registry and register all endpoints
	s.endpointRegistry = api.NewRegistry()
	for _, ep := range endpoints.All(endpoints.Config{SwaggerSpecPath: cfg.SwaggerSpecPath}) {
		s.endpointRegistry.Register(ep)
	}

	// Set up HTTP server
	mux := http.NewServeMux()
	s.endpointRegistry.RegisterRoutes(mux, nil)

	s.httpServer = &http.Server{
		Addr:    net.JoinHostPort(cfg.Host, strconv.Itoa(cfg.Port)),
		Handler: s.withServices(mux),
		// Analysis requests wait on the inference service, so the write
		// timeout has to outlast the configured client timeout.
		ReadTimeout:  1 * time.Minute,
		WriteTimeout: 5 * time.Minute,
		IdleTimeout:  120 * time.Second,
	}

	return s, nil
}

// buildServices constructs the pipeline from the given config and swaps it in.
func (s *Server) buildServices(c *config.Config) error {
	vision := s.vision
	if vision == nil {
		vision = providers.NewOpenAIClient(c.OpenAIConfig())
	}

	normalizer := normalize.New(c.NormalizeConfig(), s.logger)
	classifier := classify.New(vision, s.logger)
	extractor := extract.New(vision, s.schemas, s.logger)
	analyzer := analyze.New(c.AnalyzeConfig(), normalizer, classifier, extractor, s.logger)

	s.mu.Lock()
	s.services = &svcctx.Services{
		Analyzer:      analyzer,
		Vision:        vision,
		ConfigManager: s.configMgr,
		Logger:        s.logger,
	}
	s.mu.Unlock()
	return nil
}

// Start starts the server. It blocks until the context is cancelled or an
// error occurs.
func (s *Server) Start(ctx context.Context) error {
	s.mu.Lock()
	if s.running {
		s.mu.Unlock()
		return errors.New("server already running")
	}
	s.running = true
	s.mu.Unlock()

	errCh := make(chan error, 1)
	go func() {
		s.logger.Info("starting HTTP server", "addr", s.httpServer.Addr)
		if err := s.httpServer.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
		close(errCh)
	}()

	select {
	case <-ctx.Done():
		s.logger.Info("shutdown signal received")
	case err := <-errCh:
		if err != nil {
			s.setNotRunning()
			return fmt.Errorf("HTTP server error: %w", err)
		}
	}

	return s.shutdown()
}

// shutdown performs graceful shutdown of the HTTP server.
func (s *Server) shutdown() error {
	s.logger.Info("shutting down server")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if err := s.httpServer.Shutdown(shutdownCtx); err != nil {
		s.logger.Error("HTTP server shutdown error", "error", err)
	}

	s.setNotRunning()
	s.logger.Info("server stopped")
	return nil
}

func (s *Server) setNotRunning() {
	s.mu.Lock()
	s.running = false
	s.mu.Unlock()
}

// IsRunning returns whether the server is currently running.
func (s *Server) IsRunning() bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.running
}

// Addr returns the server's listen address.
func (s *Server) Addr() string {
	return s.httpServer.Addr
}

// Handler returns the root HTTP handler, ready to serve requests.
func (s *Server) Handler() http.Handler {
	return s.httpServer.Handler
}

// Services returns the current service set.
func (s *Server) Services() *svcctx.Services {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.services
}

// withServices wraps a handler to enrich the request context with services.
func (s *Server) withServices(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		ctx := svcctx.WithServices(r.Context(), s.Services())
		next.ServeHTTP(w, r.WithContext(ctx))
	})
}
