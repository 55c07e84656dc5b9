// Package auth issues and validates the bearer tokens backing customer
// sessions, and orchestrates the register/login flows.
package auth

import (
	"errors"
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/indicasta/customerd/internal/common"
)

// DefaultTokenValidity is how long an issued token stays usable. Expiry is
// the only way a token becomes invalid: there is no revocation list and a
// single static signing key lives for the whole process.
const DefaultTokenValidity = 15 * 24 * time.Hour

// GenerateToken mints a compact HS256-signed token with the given subject,
// issued-at = now and expiry = now + validity. Extra claims are merged in
// alongside the registered ones.
func GenerateToken(subject string, extra map[string]any, secretKey []byte, validity time.Duration) (string, error) {
	now := time.Now()

	claims := jwt.MapClaims{}
	for k, v := range extra {
		claims[k] = v
	}
	claims["sub"] = subject
	claims["iat"] = jwt.NewNumericDate(now)
	claims["exp"] = jwt.NewNumericDate(now.Add(validity))

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)

	tokenString, err := token.SignedString(secretKey)
	if err != nil {
		return "", err
	}

	return tokenString, nil
}

// SubjectFromToken verifies the signature and timestamps, then returns the
// subject claim. Expired tokens map to common.ErrTokenExpired so callers
// can tell them apart from forgeries.
func SubjectFromToken(tokenString string, secretKey []byte) (string, error) {
	token, err := jwt.Parse(tokenString, func(t *jwt.Token) (interface{}, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method: %v", t.Header["alg"])
		}
		return secretKey, nil
	})
	if err != nil {
		if errors.Is(err, jwt.ErrTokenExpired) {
			return "", common.ErrTokenExpired
		}
		return "", err
	}

	if !token.Valid {
		return "", common.ErrInvalidToken
	}

	subject, err := token.Claims.GetSubject()
	if err != nil {
		return "", common.ErrInvalidToken
	}
	return subject, nil
}

// ValidateToken reports whether the token is genuine, unexpired and bound
// to exactly the expected subject. It fails closed: any parse or
// verification problem yields false, never an error.
func ValidateToken(tokenString, expectedSubject string, secretKey []byte) bool {
	subject, err := SubjectFromToken(tokenString, secretKey)
	return err == nil && subject == expectedSubject
}
