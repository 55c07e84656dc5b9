package auth

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/indicasta/customerd/internal/common"
	"github.com/indicasta/customerd/internal/cryptox"
	"github.com/indicasta/customerd/internal/logging"
	"github.com/indicasta/customerd/internal/server/customers"
)

// Credentials are the login inputs.
type Credentials struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

// Response bundles the issued token with the redacted account view.
type Response struct {
	Token    string         `json:"token"`
	Customer customers.View `json:"customer"`
}

// Service composes the password hasher, the account directory and the
// token functions into the register/login flows.
type Service struct {
	directory     *customers.Service
	jwtSecret     []byte
	tokenValidity time.Duration
	logger        logging.Logger
}

func NewService(directory *customers.Service, secretKey string, tokenValidity time.Duration, logger logging.Logger) *Service {
	if tokenValidity <= 0 {
		tokenValidity = DefaultTokenValidity
	}
	return &Service{
		directory:     directory,
		jwtSecret:     []byte(secretKey),
		tokenValidity: tokenValidity,
		logger:        logger.With("module", "auth"),
	}
}

func (s *Service) respond(c *customers.Customer) (*Response, error) {
	token, err := GenerateToken(c.Email, nil, s.jwtSecret, s.tokenValidity)
	if err != nil {
		return nil, fmt.Errorf("error issuing token: %w", err)
	}
	return &Response{Token: token, Customer: customers.NewView(c)}, nil
}

// Register creates the account through the directory (duplicate emails
// surface as common.ErrDuplicateEmail) and issues a token bound to the new
// account's email.
func (s *Service) Register(ctx context.Context, reg customers.Registration) (*Response, error) {
	if err := s.directory.Create(ctx, reg); err != nil {
		return nil, err
	}

	c, err := s.directory.GetByEmail(ctx, reg.Email)
	if err != nil {
		return nil, fmt.Errorf("error loading registered customer: %w", err)
	}

	s.logger.Info(ctx, "customer registered", "email", c.Email)
	return s.respond(c)
}

// Authenticate verifies the password against the stored hash, failing with
// common.ErrUnauthorized on any credential mismatch, and on success issues
// a token for the account.
func (s *Service) Authenticate(ctx context.Context, creds Credentials) (*Response, error) {
	c, err := s.directory.GetByEmail(ctx, creds.Email)
	if err != nil {
		if errors.Is(err, common.ErrNotFound) {
			return nil, common.ErrUnauthorized
		}
		return nil, fmt.Errorf("error loading customer: %w", err)
	}

	if !cryptox.CheckPassword(creds.Password, c.PasswordHash) {
		s.logger.Info(ctx, "bad credentials", "email", creds.Email)
		return nil, common.ErrUnauthorized
	}

	s.logger.Info(ctx, "customer authenticated", "email", c.Email)
	return s.respond(c)
}
