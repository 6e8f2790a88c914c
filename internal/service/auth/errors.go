package auth

import "errors"

// Session token errors
var (
	// ErrInvalidSession indicates a session token that failed validation:
	// malformed, bad signature, or wrong signing method.
	ErrInvalidSession = errors.New("invalid session token")

	// ErrExpiredSession indicates a session token past its expiry.
	ErrExpiredSession = errors.New("session expired")
)
