// Package common defines shared constants and sentinel errors used across
// the customer service layers. Callers should use errors.Is to match these
// values.
package common

import "errors"

var (
	// Repository-level errors.
	ErrNotFound = errors.New("not found")

	// Service-level errors.
	ErrDuplicateEmail = errors.New("email already taken")
	ErrValidation     = errors.New("validation error")
	ErrUnauthorized   = errors.New("unauthorized")

	// Auth errors (invalid or malformed token).
	ErrInvalidToken = errors.New("invalid token")

	// Token lifecycle errors.
	ErrTokenExpired = errors.New("token expired")
)
