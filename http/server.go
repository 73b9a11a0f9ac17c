// Package http serves the classifier over JSON, an HTML form and a websocket.
package http

import (
	"context"
	"fmt"
	"net/http"
	"time"

	"go.uber.org/zap"

	"newsguard/monitoring"
)

// Server wraps the http.Server together with its websocket hub.
type Server struct {
	server  *http.Server
	hub     *Hub
	metrics *monitoring.Metrics
	config  ServerConfig
	logger  *zap.Logger
}

type ServerConfig struct {
	Port           int
	Timeout        time.Duration
	AllowedOrigins []string
	MaxBodyBytes   int64
}

func DefaultServerConfig() ServerConfig {
	return ServerConfig{
		Port:           8080,
		Timeout:        30 * time.Second,
		AllowedOrigins: []string{"*"},
		MaxBodyBytes:   1 << 20,
	}
}

func NewServer(config ServerConfig, predictor Predictor, logger *zap.Logger) *Server {
	if logger == nil {
		logger = zap.NewNop()
	}

	metrics := monitoring.NewMetrics()
	hub := NewHub(predictor, metrics, logger)
	return &Server{
		server: &http.Server{
			Addr:         fmt.Sprintf(":%d", config.Port),
			Handler:      newRouter(config, NewHandlers(predictor, metrics, logger), hub, logger),
			ReadTimeout:  config.Timeout,
			WriteTimeout: config.Timeout,
			IdleTimeout:  120 * time.Second,
		},
		hub:     hub,
		metrics: metrics,
		config:  config,
		logger:  logger,
	}
}

func newRouter(config ServerConfig, handlers *Handlers, hub *Hub, logger *zap.Logger) http.Handler {
	mux := http.NewServeMux()
	handlers.Register(mux)

	chain := Chain(
		RecoveryMiddleware(logger),            // outermost, catches panics
		LoggerMiddleware(logger),
		SecurityHeadersMiddleware,
		CORSMiddleware(config.AllowedOrigins),
		RequestSizeMiddleware(config.MaxBodyBytes),
		TimeoutMiddleware(config.Timeout),
	)

	// the websocket route hijacks the connection and must not sit behind TimeoutHandler
	root := http.NewServeMux()
	root.Handle("GET /api/ws/classify", Chain(RecoveryMiddleware(logger), LoggerMiddleware(logger))(http.HandlerFunc(hub.HandleWebSocket)))
	root.Handle("/", chain(mux))
	return root
}

// Handler returns the full router.
func (s *Server) Handler() http.Handler {
	return s.server.Handler
}

// Start runs the hub and blocks serving HTTP.
func (s *Server) Start() error {
	go s.hub.Run()

	s.logger.Info("starting HTTP server", zap.String("addr", s.server.Addr))
	if err := s.server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
		return fmt.Errorf("server failed: %w", err)
	}
	return nil
}

// Stop closes websocket clients and shuts the server down gracefully.
func (s *Server) Stop() error {
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	s.logger.Info("shutting down HTTP server")
	s.hub.Stop()

	if err := s.server.Shutdown(ctx); err != nil {
		return fmt.Errorf("server forced to shutdown: %w", err)
	}
	return nil
}

func (s *Server) Metrics() *monitoring.Metrics {
	return s.metrics
}

func (s *Server) Addr() string {
	return s.server.Addr
}
