// Package common defines shared constants and sentinel errors used across
// the server layers of VideoTube. Callers should use errors.Is to match
// these values.
package common

import (
	"errors"
	"fmt"
)

var (
	// Repository-level errors.
	ErrorNotFound = errors.New("not found")
	ErrConflict   = errors.New("already exists")

	// Service-level errors (generic/internal flow control).
	ErrorInternal     = errors.New("internal error")
	ErrorUnauthorized = errors.New("unauthorized")
	ErrUnavailable    = errors.New("service unavailable")

	// ErrForbidden is returned when an authenticated identity acts on a
	// resource it does not own.
	ErrForbidden = errors.New("forbidden")

	// Validation errors.
	ErrInvalidInput = errors.New("invalid input")

	// Credential errors.
	ErrInvalidCredentials = errors.New("invalid username or password")

	// Auth errors (invalid or malformed token).
	ErrInvalidToken = errors.New("invalid token")

	// Token lifecycle errors.
	ErrTokenExpired = errors.New("token expired")

	// ErrRefreshTokenReused is returned when a signed refresh token no longer
	// matches the slot stored for its identity. It wraps ErrorUnauthorized.
	ErrRefreshTokenReused = fmt.Errorf("%w: refresh token is expired or reused", ErrorUnauthorized)
)
