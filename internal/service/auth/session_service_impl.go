package auth

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
	"github.com/smazzone/studytrack/internal/config"
	"github.com/smazzone/studytrack/internal/platform/logger"
)

// hmacSessionService is an implementation of SessionService using
// HMAC-SHA256 signed JWTs.
type hmacSessionService struct {
	signingKey      []byte
	sessionLifetime time.Duration
	timeFunc        func() time.Time // Injectable for testing
	clockSkew       time.Duration    // Allowed drift when validating time claims
}

// sessionClaims defines the structure of the JWT claims we use.
type sessionClaims struct {
	UserID   int64  `json:"uid"`
	Username string `json:"username"`
	jwt.RegisteredClaims
}

// Ensure hmacSessionService implements SessionService interface
var _ SessionService = (*hmacSessionService)(nil)

// NewSessionService creates a new session token service using HMAC-SHA256
// signing, configured from the auth settings.
func NewSessionService(cfg config.AuthConfig) (SessionService, error) {
	if len(cfg.SessionSecret) < 32 {
		return nil, fmt.Errorf("session secret must be at least 32 characters")
	}

	return &hmacSessionService{
		signingKey:      []byte(cfg.SessionSecret),
		sessionLifetime: time.Duration(cfg.SessionLifetimeMinutes) * time.Minute,
		timeFunc:        time.Now,
		clockSkew:       2 * time.Minute,
	}, nil
}

// Lifetime implements SessionService.Lifetime
func (s *hmacSessionService) Lifetime() time.Duration {
	return s.sessionLifetime
}

// IssueToken implements SessionService.IssueToken
func (s *hmacSessionService) IssueToken(ctx context.Context, userID int64, username string) (string, error) {
	log := logger.FromContext(ctx)
	now := s.timeFunc()

	claims := sessionClaims{
		UserID:   userID,
		Username: username,
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   strconv.FormatInt(userID, 10),
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(s.sessionLifetime)),
			ID:        uuid.New().String(),
		},
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	signedToken, err := token.SignedString(s.signingKey)
	if err != nil {
		log.Error("failed to sign session token",
			"error", err,
			"user_id", userID)
		return "", fmt.Errorf("failed to sign session token: %w", err)
	}

	return signedToken, nil
}

// ValidateToken implements SessionService.ValidateToken
func (s *hmacSessionService) ValidateToken(ctx context.Context, tokenString string) (*Claims, error) {
	log := logger.FromContext(ctx)
	now := s.timeFunc()

	parserOpts := []jwt.ParserOption{
		jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Name}),
		jwt.WithLeeway(s.clockSkew),
		jwt.WithTimeFunc(func() time.Time { return now }),
	}

	token, err := jwt.ParseWithClaims(
		tokenString,
		&sessionClaims{},
		func(token *jwt.Token) (interface{}, error) {
			if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
				return nil, fmt.Errorf("unexpected signing method: %v", token.Header["alg"])
			}
			return s.signingKey, nil
		},
		parserOpts...)

	if err != nil {
		switch {
		case errors.Is(err, jwt.ErrTokenExpired):
			log.Debug("session token validation failed: token expired", "error", err)
			return nil, ErrExpiredSession
		default:
			log.Debug("session token validation failed", "error", err)
			return nil, ErrInvalidSession
		}
	}

	claims, ok := token.Claims.(*sessionClaims)
	if !ok || !token.Valid || claims.UserID == 0 {
		log.Debug("session token carried unusable claims")
		return nil, ErrInvalidSession
	}

	result := &Claims{
		UserID:   claims.UserID,
		Username: claims.Username,
		ID:       claims.ID,
	}
	if claims.IssuedAt != nil {
		result.IssuedAt = claims.IssuedAt.Time
	}
	if claims.ExpiresAt != nil {
		result.ExpiresAt = claims.ExpiresAt.Time
	}

	return result, nil
}
