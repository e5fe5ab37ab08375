package http

import (
	"context"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"

	"github.com/m-mizutani/gemhook/pkg/domain/interfaces"
)

// config holds internal HTTP server configuration
type config struct {
	addr         string
	maxBodyBytes int64
}

// Option is a functional option for Server configuration
type Option func(*config)

// WithAddr sets the server address
func WithAddr(addr string) Option {
	return func(c *config) {
		c.addr = addr
	}
}

// WithMaxBodyBytes limits the size of accepted request bodies
func WithMaxBodyBytes(n int64) Option {
	return func(c *config) {
		c.maxBodyBytes = n
	}
}

// Server represents the HTTP server
type Server struct {
	*http.Server
}

// NewServer creates a new HTTP server
func NewServer(
	ctx context.Context,
	processor interfaces.EventProcessor,
	secrets interfaces.SecretsProvider,
	opts ...Option,
) (*Server, error) {
	// Default configuration
	cfg := &config{
		addr:         "localhost:8080",
		maxBodyBytes: 25 << 20,
	}

	// Apply options
	for _, opt := range opts {
		opt(cfg)
	}

	router := chi.NewRouter()

	// Global middleware
	router.Use(middleware.RequestID)
	router.Use(middleware.RealIP)
	router.Use(LoggingMiddleware(ctx))
	router.Use(middleware.Recoverer)

	// Health check
	router.Get("/health", healthHandler(secrets))

	handler := NewEventHandler(processor, cfg.maxBodyBytes)
	router.Post("/hooks/github", handler.HandleWebhook)
	router.Post("/invoke", handler.HandleInvoke)

	server := &Server{
		Server: &http.Server{
			Addr:              cfg.addr,
			Handler:           router,
			ReadHeaderTimeout: 15 * time.Second,
		},
	}

	return server, nil
}
