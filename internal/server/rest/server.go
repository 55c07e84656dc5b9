// Package rest exposes the customer directory and the auth flows over HTTP.
package rest

import (
	"context"
	"time"

	"github.com/gofiber/fiber/v3"
	"github.com/indicasta/customerd/internal/logging"
	"github.com/indicasta/customerd/internal/server/auth"
	"github.com/indicasta/customerd/internal/server/customers"
)

const shutdownTimeout = 5 * time.Second

type Server struct {
	app       *fiber.App
	addr      string
	auth      *auth.Service
	customers *customers.Service
	jwtSecret []byte
	logger    logging.Logger
}

func NewServer(addr string, secretKey string, authService *auth.Service, directory *customers.Service, logger logging.Logger) *Server {
	s := &Server{
		app:       fiber.New(),
		addr:      addr,
		auth:      authService,
		customers: directory,
		jwtSecret: []byte(secretKey),
		logger:    logger.With("module", "rest"),
	}
	s.registerRoutes()
	return s
}

func (s *Server) registerRoutes() {
	s.app.Use(s.requestLogger)

	api := s.app.Group("/api/v1")

	api.Post("/auth/register", s.register)
	api.Post("/auth/login", s.login)

	// The original public surface also accepted account creation directly
	// on the collection.
	api.Post("/customers", s.register)

	api.Get("/customers", s.requireAuth, s.listCustomers)
	api.Get("/customers/:customerId", s.requireAuth, s.getCustomer)
	api.Put("/customers/:customerId", s.requireAuth, s.updateCustomer)
	api.Delete("/customers/:customerId", s.requireAuth, s.deleteCustomer)
	api.Post("/customers/:customerId/profile-image", s.requireAuth, s.uploadProfileImage)

	// Image download stays public so plain <img> tags can fetch it.
	api.Get("/customers/:customerId/profile-image", s.downloadProfileImage)
}

// Run serves until ctx is cancelled, then drains in-flight requests.
func (s *Server) Run(ctx context.Context) error {
	errCh := make(chan error, 1)
	go func() {
		errCh <- s.app.Listen(s.addr, fiber.ListenConfig{DisableStartupMessage: true})
	}()

	s.logger.Info(ctx, "http server starting", "addr", s.addr)

	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
		s.logger.Info(ctx, "http server stopping")
		shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
		defer cancel()
		return s.app.ShutdownWithContext(shutdownCtx)
	}
}
