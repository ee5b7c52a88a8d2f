// Package common defines shared constants, sentinel errors and small helpers
// used across the server and client. Callers should use errors.Is to match
// these values.
package common

import (
	"errors"
	"fmt"
	"sort"
	"strings"
)

var (
	// Repository-level errors.
	ErrorNotFound = errors.New("not found")
	ErrConflict   = errors.New("already exists")

	// Service-level errors.
	ErrorInternal     = errors.New("internal error")
	ErrorUnauthorized = errors.New("unauthorized")
	ErrForbidden      = errors.New("forbidden")
	ErrValidation     = errors.New("validation error")

	// ErrNotVerified is returned on login before the email was confirmed.
	// It matches ErrorUnauthorized.
	ErrNotVerified = fmt.Errorf("%w: email is not verified", ErrorUnauthorized)

	// One-time secrets (OTP codes and reset tokens) that are missing, expired or wrong.
	ErrOTP = errors.New("invalid or expired code")

	// Auth errors (invalid or malformed token).
	ErrInvalidToken = errors.New("invalid token")
	ErrTokenExpired = fmt.Errorf("%w: token expired", ErrInvalidToken)

	// Infrastructure errors.
	ErrStoreUnavailable = errors.New("secret store unavailable")
	ErrQueueUnavailable = errors.New("notification queue unavailable")
)

// ValidationError describes client-fixable input problems per field.
// It matches ErrValidation.
type ValidationError struct {
	Fields map[string]string
}

// NewValidationError builds a ValidationError for a single field.
func NewValidationError(field, msg string) *ValidationError {
	return &ValidationError{Fields: map[string]string{field: msg}}
}

func (e *ValidationError) Error() string {
	if len(e.Fields) == 0 {
		return ErrValidation.Error()
	}
	keys := make([]string, 0, len(e.Fields))
	for k := range e.Fields {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	parts := make([]string, 0, len(keys))
	for _, k := range keys {
		parts = append(parts, k+": "+e.Fields[k])
	}
	return ErrValidation.Error() + ": " + strings.Join(parts, "; ")
}

func (e *ValidationError) Is(target error) bool {
	return target == ErrValidation
}
