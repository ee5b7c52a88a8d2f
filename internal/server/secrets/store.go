// Package secrets holds short-lived, single-use values such as OTP codes and
// password reset tokens. Entries expire on their own and are consumed with
// Take or ConsumeIfEqual so that a value can be redeemed at most once.
package secrets

import (
	"context"
	"strings"
	"time"
)

// Store is a keyed value store with per-key expiry. Every operation is
// atomic with respect to a single key.
type Store interface {
	// Put stores value under key, replacing any previous value, for ttl.
	Put(ctx context.Context, key, value string, ttl time.Duration) error
	// Get returns ok=false when the key is missing or expired.
	Get(ctx context.Context, key string) (value string, ok bool, err error)
	// Delete removes key. Missing keys are not an error.
	Delete(ctx context.Context, key string) error
	// Take returns and removes the value in one step. Concurrent callers
	// for the same key see ok=true at most once.
	Take(ctx context.Context, key string) (value string, ok bool, err error)
	// ConsumeIfEqual removes key only when its value equals value and
	// reports whether it did. A mismatch leaves the entry in place.
	ConsumeIfEqual(ctx context.Context, key, value string) (bool, error)
}

// OTPKey is the key of the verification code issued to email.
func OTPKey(email string) string {
	return "otp:" + strings.ToLower(strings.TrimSpace(email))
}

// ResetKey is the key of a password reset token.
func ResetKey(token string) string {
	return "reset:" + token
}
