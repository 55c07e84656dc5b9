package rest

import (
	"errors"
	"fmt"
	"time"

	"github.com/gofiber/fiber/v3"
	"github.com/indicasta/customerd/internal/common"
	"github.com/indicasta/customerd/internal/server/auth"
	"github.com/indicasta/customerd/internal/server/customers"
)

const principalKey = "principal"

// requestLogger logs one line per handled request.
func (s *Server) requestLogger(c fiber.Ctx) error {
	start := time.Now()
	err := c.Next()

	s.logger.Info(c.Context(), "request handled",
		"method", c.Method(),
		"path", c.Path(),
		"status", c.Response().StatusCode(),
		"duration", time.Since(start).String(),
	)
	return err
}

// extractToken pulls the bearer token out of the Authorization header.
func extractToken(c fiber.Ctx) string {
	authHeader := c.Get(fiber.HeaderAuthorization)
	if len(authHeader) > 7 && authHeader[:7] == "Bearer " {
		return authHeader[7:]
	}
	return ""
}

// requireAuth resolves the bearer token to a live account and stores the
// redacted view under principalKey for downstream handlers. The account
// lookup means tokens for deleted customers stop working immediately even
// though the tokens themselves never get revoked.
func (s *Server) requireAuth(c fiber.Ctx) error {
	token := extractToken(c)
	if token == "" {
		return respondError(c, fmt.Errorf("%w: missing bearer token", common.ErrUnauthorized))
	}

	subject, err := auth.SubjectFromToken(token, s.jwtSecret)
	if err != nil {
		if !errors.Is(err, common.ErrTokenExpired) {
			err = common.ErrInvalidToken
		}
		return respondError(c, err)
	}

	principal, err := s.customers.GetByEmail(c.Context(), subject)
	if err != nil {
		if errors.Is(err, common.ErrNotFound) {
			err = common.ErrUnauthorized
		}
		return respondError(c, err)
	}

	if !auth.ValidateToken(token, principal.Email, s.jwtSecret) {
		return respondError(c, common.ErrInvalidToken)
	}

	c.Locals(principalKey, customers.NewView(principal))
	return c.Next()
}
