package service

import (
	"context"
	"errors"
	"testing"

	"github.com/smazzone/studytrack/internal/domain"
	"github.com/smazzone/studytrack/internal/mocks"
	"github.com/smazzone/studytrack/internal/service/auth"
	"github.com/smazzone/studytrack/internal/store"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"
)

func newTestUserService(userStore *mocks.MockUserStore) *UserService {
	hasher := auth.NewBcryptHasher(bcrypt.MinCost)
	return NewUserService(
		&mocks.MockTxRunner{},
		userStore,
		mocks.NewMockSubjectStore(),
		mocks.NewMockStudySessionStore(),
		hasher,
		hasher,
		nil,
	)
}

func TestUserService_Register(t *testing.T) {
	t.Parallel()

	userStore := mocks.NewMockUserStore()
	svc := newTestUserService(userStore)

	user, err := svc.Register(context.Background(), "alice", "alice@example.com", "secret123")
	require.NoError(t, err)

	assert.NotZero(t, user.ID)
	assert.Equal(t, "alice", user.Username)
	// Plaintext never survives registration.
	assert.Empty(t, user.Password)
	assert.NotEmpty(t, user.HashedPassword)
	assert.NoError(t, bcrypt.CompareHashAndPassword([]byte(user.HashedPassword), []byte("secret123")))
}

func TestUserService_Register_InvalidInput(t *testing.T) {
	t.Parallel()

	svc := newTestUserService(mocks.NewMockUserStore())

	_, err := svc.Register(context.Background(), "al", "alice@example.com", "secret123")
	assert.ErrorIs(t, err, domain.ErrUsernameTooShort)

	_, err = svc.Register(context.Background(), "alice", "", "secret123")
	assert.ErrorIs(t, err, domain.ErrEmptyEmail)
}

func TestUserService_Register_Duplicate(t *testing.T) {
	t.Parallel()

	userStore := mocks.NewMockUserStore()
	svc := newTestUserService(userStore)

	_, err := svc.Register(context.Background(), "alice", "alice@example.com", "secret123")
	require.NoError(t, err)

	_, err = svc.Register(context.Background(), "alice", "other@example.com", "secret123")
	assert.True(t, store.IsDuplicateError(err))

	_, err = svc.Register(context.Background(), "bob", "alice@example.com", "secret123")
	assert.True(t, store.IsDuplicateError(err))
}

func TestUserService_Register_RaceSurfacesStoreError(t *testing.T) {
	t.Parallel()

	userStore := mocks.NewMockUserStore()
	// Pre-check passes but the insert hits the unique constraint, as it
	// would when another registration lands in between.
	userStore.ExistsFn = func(ctx context.Context, username, email string) (bool, error) {
		return false, nil
	}
	userStore.CreateFn = func(ctx context.Context, user *domain.User) error {
		return store.ErrUsernameExists
	}
	svc := newTestUserService(userStore)

	_, err := svc.Register(context.Background(), "alice", "alice@example.com", "secret123")
	assert.ErrorIs(t, err, store.ErrUsernameExists)
}

func TestUserService_Authenticate(t *testing.T) {
	t.Parallel()

	userStore := mocks.NewMockUserStore()
	svc := newTestUserService(userStore)

	registered, err := svc.Register(context.Background(), "alice", "alice@example.com", "secret123")
	require.NoError(t, err)

	user, err := svc.Authenticate(context.Background(), "alice", "secret123")
	require.NoError(t, err)
	assert.Equal(t, registered.ID, user.ID)
}

func TestUserService_Authenticate_InvalidCredentials(t *testing.T) {
	t.Parallel()

	userStore := mocks.NewMockUserStore()
	svc := newTestUserService(userStore)

	_, err := svc.Register(context.Background(), "alice", "alice@example.com", "secret123")
	require.NoError(t, err)

	// Wrong password and unknown username are indistinguishable.
	_, err = svc.Authenticate(context.Background(), "alice", "wrongpass")
	assert.ErrorIs(t, err, ErrInvalidCredentials)

	_, err = svc.Authenticate(context.Background(), "nobody", "secret123")
	assert.ErrorIs(t, err, ErrInvalidCredentials)
}

func TestUserService_Authenticate_StoreErrorPassesThrough(t *testing.T) {
	t.Parallel()

	storeErr := errors.New("connection refused")
	userStore := mocks.NewMockUserStore()
	userStore.GetByUsernameFn = func(ctx context.Context, username string) (*domain.User, error) {
		return nil, storeErr
	}
	svc := newTestUserService(userStore)

	_, err := svc.Authenticate(context.Background(), "alice", "secret123")
	assert.ErrorIs(t, err, storeErr)
	assert.NotErrorIs(t, err, ErrInvalidCredentials)
}

func TestUserService_DeleteAccount_Cascades(t *testing.T) {
	t.Parallel()

	userStore := mocks.NewMockUserStore()
	subjectStore := mocks.NewMockSubjectStore()
	sessionStore := mocks.NewMockStudySessionStore()
	hasher := auth.NewBcryptHasher(bcrypt.MinCost)
	svc := NewUserService(&mocks.MockTxRunner{}, userStore, subjectStore, sessionStore, hasher, hasher, nil)

	user, err := svc.Register(context.Background(), "alice", "alice@example.com", "secret123")
	require.NoError(t, err)

	subject := subjectStore.Add(&domain.Subject{Name: "Math", Color: "#ff0000", UserID: user.ID})
	sessionStore.Add(&domain.StudySession{
		Topic: "Integrals", DurationMinutes: 60, UserID: user.ID, SubjectID: subject.ID,
	})

	// Another user's data must survive the cascade.
	otherSubject := subjectStore.Add(&domain.Subject{Name: "Art", Color: "#00ff00", UserID: 99})
	sessionStore.Add(&domain.StudySession{
		Topic: "Painting", DurationMinutes: 30, UserID: 99, SubjectID: otherSubject.ID,
	})

	require.NoError(t, svc.DeleteAccount(context.Background(), user.ID))

	assert.Empty(t, userStore.Users)
	assert.Len(t, subjectStore.Subjects, 1)
	assert.Len(t, sessionStore.Sessions, 1)
}

func TestUserService_DeleteAccount_TransactionError(t *testing.T) {
	t.Parallel()

	userStore := mocks.NewMockUserStore()
	hasher := auth.NewBcryptHasher(bcrypt.MinCost)
	txErr := errors.New("begin failed")
	svc := NewUserService(&mocks.MockTxRunner{Err: txErr},
		userStore, mocks.NewMockSubjectStore(), mocks.NewMockStudySessionStore(), hasher, hasher, nil)

	err := svc.DeleteAccount(context.Background(), 1)
	assert.ErrorIs(t, err, txErr)
}
