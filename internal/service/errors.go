package service

import "errors"

// Service-level errors
var (
	// ErrInvalidCredentials is returned for any failed login. It covers
	// both an unknown username and a wrong password so callers cannot
	// enumerate accounts.
	ErrInvalidCredentials = errors.New("invalid credentials")
)
