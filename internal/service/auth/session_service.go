package auth

import (
	"context"
	"time"
)

// SessionService manages the signed tokens that carry a logged-in identity
// across requests. The token rides in an HttpOnly cookie; the service only
// deals with issuing and validating the opaque string.
type SessionService interface {
	// IssueToken creates a signed session token for the given user.
	// The token expires a fixed lifetime after issuance (24 hours by
	// default configuration), measured from the login that created it.
	IssueToken(ctx context.Context, userID int64, username string) (string, error)

	// ValidateToken validates a session token string and extracts its
	// claims. Returns ErrExpiredSession for tokens past their expiry and
	// ErrInvalidSession for anything else that fails validation.
	ValidateToken(ctx context.Context, tokenString string) (*Claims, error)

	// Lifetime reports the fixed session lifetime, used to set the cookie
	// max-age alongside the token's own expiry.
	Lifetime() time.Duration
}

// Claims is the identity a validated session token carries.
type Claims struct {
	// UserID is the unique identifier of the user the token was issued for.
	UserID int64 `json:"uid"`

	// Username is carried so handlers can greet the user without a
	// store round trip.
	Username string `json:"username"`

	// Standard registered claims
	IssuedAt  time.Time `json:"iat,omitempty"`
	ExpiresAt time.Time `json:"exp,omitempty"`
	ID        string    `json:"jti,omitempty"`
}
