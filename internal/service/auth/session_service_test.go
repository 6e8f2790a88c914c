package auth

import (
	"context"
	"testing"
	"time"

	"github.com/smazzone/studytrack/internal/config"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const testSessionSecret = "test-session-secret-that-is-32-chars"

// newTestSessionService builds a service with a fixed clock so expiry
// behavior is deterministic.
func newTestSessionService(t *testing.T, secret string, lifetime time.Duration, now func() time.Time) *hmacSessionService {
	t.Helper()
	svc, err := NewSessionService(config.AuthConfig{
		SessionSecret:          secret,
		SessionLifetimeMinutes: int(lifetime.Minutes()),
	})
	require.NoError(t, err)

	impl, ok := svc.(*hmacSessionService)
	require.True(t, ok)
	impl.timeFunc = now
	return impl
}

func TestNewSessionService_RejectsShortSecret(t *testing.T) {
	t.Parallel()

	_, err := NewSessionService(config.AuthConfig{
		SessionSecret:          "too-short",
		SessionLifetimeMinutes: 60,
	})
	assert.Error(t, err)
}

func TestIssueToken(t *testing.T) {
	t.Parallel()

	fixedTime := time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)
	lifetime := 24 * time.Hour
	svc := newTestSessionService(t, testSessionSecret, lifetime, func() time.Time {
		return fixedTime
	})

	token, err := svc.IssueToken(context.Background(), 42, "alice")
	require.NoError(t, err)
	require.NotEmpty(t, token)

	claims, err := svc.ValidateToken(context.Background(), token)
	require.NoError(t, err)

	assert.Equal(t, int64(42), claims.UserID)
	assert.Equal(t, "alice", claims.Username)
	assert.Equal(t, fixedTime.Unix(), claims.IssuedAt.Unix())
	assert.Equal(t, fixedTime.Add(lifetime).Unix(), claims.ExpiresAt.Unix())
	assert.NotEmpty(t, claims.ID)
}

func TestValidateToken(t *testing.T) {
	t.Parallel()

	fixedTime := time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)
	lifetime := time.Hour

	tests := []struct {
		name      string
		setupFunc func(t *testing.T) (*hmacSessionService, string)
		wantErr   error
	}{
		{
			name: "valid token",
			setupFunc: func(t *testing.T) (*hmacSessionService, string) {
				svc := newTestSessionService(t, testSessionSecret, lifetime, func() time.Time {
					return fixedTime
				})
				token, err := svc.IssueToken(context.Background(), 1, "alice")
				require.NoError(t, err)
				return svc, token
			},
			wantErr: nil,
		},
		{
			name: "expired token",
			setupFunc: func(t *testing.T) (*hmacSessionService, string) {
				issueSvc := newTestSessionService(t, testSessionSecret, lifetime, func() time.Time {
					return fixedTime
				})
				token, err := issueSvc.IssueToken(context.Background(), 1, "alice")
				require.NoError(t, err)

				// Validate well past expiry plus clock skew.
				validateSvc := newTestSessionService(t, testSessionSecret, lifetime, func() time.Time {
					return fixedTime.Add(lifetime + time.Hour)
				})
				return validateSvc, token
			},
			wantErr: ErrExpiredSession,
		},
		{
			name: "wrong signing key",
			setupFunc: func(t *testing.T) (*hmacSessionService, string) {
				issueSvc := newTestSessionService(t, "another-session-secret-32-chars-long", lifetime, func() time.Time {
					return fixedTime
				})
				token, err := issueSvc.IssueToken(context.Background(), 1, "alice")
				require.NoError(t, err)

				validateSvc := newTestSessionService(t, testSessionSecret, lifetime, func() time.Time {
					return fixedTime
				})
				return validateSvc, token
			},
			wantErr: ErrInvalidSession,
		},
		{
			name: "garbage token",
			setupFunc: func(t *testing.T) (*hmacSessionService, string) {
				svc := newTestSessionService(t, testSessionSecret, lifetime, func() time.Time {
					return fixedTime
				})
				return svc, "not.a.token"
			},
			wantErr: ErrInvalidSession,
		},
		{
			name: "empty token",
			setupFunc: func(t *testing.T) (*hmacSessionService, string) {
				svc := newTestSessionService(t, testSessionSecret, lifetime, func() time.Time {
					return fixedTime
				})
				return svc, ""
			},
			wantErr: ErrInvalidSession,
		},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			t.Parallel()
			svc, token := tc.setupFunc(t)

			claims, err := svc.ValidateToken(context.Background(), token)
			if tc.wantErr != nil {
				assert.ErrorIs(t, err, tc.wantErr)
				assert.Nil(t, claims)
				return
			}
			require.NoError(t, err)
			require.NotNil(t, claims)
		})
	}
}

func TestValidateToken_ToleratesClockSkew(t *testing.T) {
	t.Parallel()

	fixedTime := time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)
	lifetime := time.Hour

	issueSvc := newTestSessionService(t, testSessionSecret, lifetime, func() time.Time {
		return fixedTime
	})
	token, err := issueSvc.IssueToken(context.Background(), 7, "bob")
	require.NoError(t, err)

	// One minute past expiry is inside the two-minute leeway.
	validateSvc := newTestSessionService(t, testSessionSecret, lifetime, func() time.Time {
		return fixedTime.Add(lifetime + time.Minute)
	})
	claims, err := validateSvc.ValidateToken(context.Background(), token)
	require.NoError(t, err)
	assert.Equal(t, int64(7), claims.UserID)
}

func TestLifetime(t *testing.T) {
	t.Parallel()

	svc, err := NewSessionService(config.AuthConfig{
		SessionSecret:          testSessionSecret,
		SessionLifetimeMinutes: 90,
	})
	require.NoError(t, err)
	assert.Equal(t, 90*time.Minute, svc.Lifetime())
}
