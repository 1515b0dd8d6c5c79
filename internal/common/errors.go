// Package common defines shared constants and sentinel errors used across
// client and server layers of CloudSafe. Callers should use errors.Is to
// match these values.
package common

import "errors"

var (
	// Repository-level errors.
	ErrNotFound      = errors.New("not found")
	ErrAlreadyExists = errors.New("already exists")

	// Client-side taxonomy. Every failed backend call, whatever the cause
	// (non-2xx status, DNS, timeout, connection reset), surfaces as
	// ErrRequestFailed; callers are expected to offer a manual retry.
	ErrRequestFailed    = errors.New("request failed")
	ErrUnauthenticated  = errors.New("unauthenticated")
	ErrValidationFailed = errors.New("validation failed")

	// Session store errors.
	ErrPartialSession = errors.New("session requires both token and subject id")

	// Auth errors (invalid or malformed token).
	ErrInvalidToken       = errors.New("invalid token")
	ErrInvalidCredentials = errors.New("invalid email or password")
)
