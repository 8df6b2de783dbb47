package api

import (
	"context"
	"errors"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/cors"
	"github.com/gofiber/fiber/v2/middleware/recover"
	"golang.org/x/time/rate"

	"github.com/custodia-labs/sercha-rag/internal/core/domain"
	"github.com/custodia-labs/sercha-rag/internal/core/ports/driving"
	"github.com/custodia-labs/sercha-rag/internal/logger"
)

// ErrMissingQueryService is returned when no query service is provided.
var ErrMissingQueryService = errors.New("api: query service is required")

// Server is the HTTP API.
type Server struct {
	app      *fiber.App
	settings domain.ServerSettings
}

// NewServer creates the HTTP API over query.
func NewServer(query driving.QueryService, settings domain.ServerSettings) (*Server, error) {
	if query == nil {
		return nil, ErrMissingQueryService
	}
	if settings.ShutdownTimeout <= 0 {
		settings.ShutdownTimeout = domain.DefaultShutdownTimeout
	}

	app := fiber.New(fiber.Config{
		AppName:               "sercha-rag",
		DisableStartupMessage: true,
		ErrorHandler:          fiberErrorHandler,
		ReadTimeout:           30 * time.Second,
	})

	app.Use(requestID())
	app.Use(requestLogger())
	app.Use(recover.New())
	app.Use(cors.New(cors.Config{AllowOrigins: allowOrigins(settings.AllowOrigins)}))

	h := &handler{query: query}
	app.Get("/health", h.health)
	app.Get("/ready", h.ready)

	ask := []fiber.Handler{}
	if settings.RequestsPerSecond > 0 {
		burst := settings.Burst
		if burst < 1 {
			burst = 1
		}
		ask = append(ask, rateLimit(rate.NewLimiter(rate.Limit(settings.RequestsPerSecond), burst)))
	}
	ask = append(ask, h.ask)
	app.Post("/ask", ask...)

	return &Server{app: app, settings: settings}, nil
}

// App returns the underlying Fiber app.
func (s *Server) App() *fiber.App {
	return s.app
}

// Run listens on addr until ctx is cancelled, then shuts down gracefully.
func (s *Server) Run(ctx context.Context, addr string) error {
	errCh := make(chan error, 1)
	go func() {
		logger.Info("Listening on http://%s", addr)
		errCh <- s.app.Listen(addr)
	}()

	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
	}

	logger.Info("Shutting down HTTP server")
	if err := s.app.ShutdownWithTimeout(s.settings.ShutdownTimeout); err != nil {
		return err
	}
	return <-errCh
}

func allowOrigins(origins string) string {
	if origins == "" {
		return "*"
	}
	return origins
}
