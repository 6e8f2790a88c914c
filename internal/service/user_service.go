package service

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"log/slog"

	"github.com/smazzone/studytrack/internal/domain"
	"github.com/smazzone/studytrack/internal/platform/logger"
	"github.com/smazzone/studytrack/internal/service/auth"
	"github.com/smazzone/studytrack/internal/store"
)

// UserService implements registration, authentication and account removal
// on top of the user store and the password hasher.
type UserService struct {
	txRunner     store.TxRunner
	userStore    store.UserStore
	subjectStore store.SubjectStore
	sessionStore store.StudySessionStore
	hasher       auth.PasswordHasher
	verifier     auth.PasswordVerifier
	logger       *slog.Logger
}

// NewUserService creates a new UserService with the given dependencies.
// The TxRunner is needed to run the account-deletion cascade in a single
// transaction across the three stores.
func NewUserService(
	txRunner store.TxRunner,
	userStore store.UserStore,
	subjectStore store.SubjectStore,
	sessionStore store.StudySessionStore,
	hasher auth.PasswordHasher,
	verifier auth.PasswordVerifier,
	logger *slog.Logger,
) *UserService {
	if logger == nil {
		logger = slog.Default()
	}
	return &UserService{
		txRunner:     txRunner,
		userStore:    userStore,
		subjectStore: subjectStore,
		sessionStore: sessionStore,
		hasher:       hasher,
		verifier:     verifier,
		logger:       logger.With(slog.String("component", "user_service")),
	}
}

// Register creates a new user account. The plaintext password is hashed
// before it reaches the store. The store's unique constraints remain the
// authoritative duplicate guard: a registration racing this one surfaces
// as store.ErrUsernameExists / store.ErrEmailExists from Create even though
// the Exists pre-check passed.
func (s *UserService) Register(ctx context.Context, username, email, password string) (*domain.User, error) {
	log := logger.FromContextOrDefault(ctx, s.logger)

	user, err := domain.NewUser(username, email, password)
	if err != nil {
		return nil, err
	}

	taken, err := s.userStore.Exists(ctx, user.Username, user.Email)
	if err != nil {
		return nil, fmt.Errorf("failed to check existing users: %w", err)
	}
	if taken {
		return nil, store.ErrDuplicate
	}

	hashed, err := s.hasher.Hash(user.Password)
	if err != nil {
		log.Error("failed to hash password", slog.String("error", err.Error()))
		return nil, fmt.Errorf("failed to hash password: %w", err)
	}
	user.HashedPassword = hashed
	user.Password = ""

	if err := s.userStore.Create(ctx, user); err != nil {
		return nil, err
	}

	log.Info("user registered",
		slog.Int64("user_id", user.ID),
		slog.String("username", user.Username))
	return user, nil
}

// Authenticate verifies a username/password pair and returns the matching
// user. Both an unknown username and a wrong password yield
// ErrInvalidCredentials; the caller must not distinguish the two.
func (s *UserService) Authenticate(ctx context.Context, username, password string) (*domain.User, error) {
	log := logger.FromContextOrDefault(ctx, s.logger)

	user, err := s.userStore.GetByUsername(ctx, username)
	if err != nil {
		if errors.Is(err, store.ErrUserNotFound) {
			return nil, ErrInvalidCredentials
		}
		log.Error("failed to look up user for login",
			slog.String("error", err.Error()))
		return nil, err
	}

	if err := s.verifier.Compare(user.HashedPassword, password); err != nil {
		return nil, ErrInvalidCredentials
	}

	log.Info("user authenticated",
		slog.Int64("user_id", user.ID),
		slog.String("username", user.Username))
	return user, nil
}

// DeleteAccount removes a user together with all of their subjects and
// study sessions. The whole cascade runs inside one transaction so a
// partial cascade can never be observed: sessions first, then subjects,
// then the user row.
func (s *UserService) DeleteAccount(ctx context.Context, userID int64) error {
	log := logger.FromContextOrDefault(ctx, s.logger)

	err := s.txRunner.RunInTransaction(ctx, func(ctx context.Context, tx *sql.Tx) error {
		sessions, err := s.sessionStore.WithTx(tx).DeleteByUser(ctx, userID)
		if err != nil {
			return err
		}
		subjects, err := s.subjectStore.WithTx(tx).DeleteByUser(ctx, userID)
		if err != nil {
			return err
		}
		if err := s.userStore.WithTx(tx).Delete(ctx, userID); err != nil {
			return err
		}

		log.Info("account deleted",
			slog.Int64("user_id", userID),
			slog.Int64("sessions_removed", sessions),
			slog.Int64("subjects_removed", subjects))
		return nil
	})
	if err != nil {
		log.Error("failed to delete account",
			slog.String("error", err.Error()),
			slog.Int64("user_id", userID))
	}
	return err
}
