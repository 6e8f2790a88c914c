package domain

import (
	"errors"
	"strings"
	"time"
	"unicode/utf8"
)

// Common validation errors
var (
	ErrEmptyUsername    = errors.New("username cannot be empty")
	ErrUsernameTooShort = errors.New("username must be at least 3 characters long")
	ErrEmptyEmail       = errors.New("email cannot be empty")
	ErrEmptyPassword    = errors.New("password cannot be empty")
	ErrPasswordTooShort = errors.New("password must be at least 6 characters long")
	ErrPasswordTooLong  = errors.New("password must be at most 72 characters long")
)

// User represents a registered user of the StudyTrack application.
// It owns zero or more Subjects and StudySessions; username and email
// are each globally unique.
type User struct {
	ID             int64     `json:"id"`
	Username       string    `json:"username"`
	Email          string    `json:"email"`
	Password       string    `json:"-"` // Plaintext password, only populated during registration
	HashedPassword string    `json:"-"` // Never expose password hash in JSON
	CreatedAt      time.Time `json:"created_at"`
}

// NewUser creates a new User with the given username, email and plaintext
// password. The ID is assigned by the store on insert.
//
// NOTE: This function only sets up the user structure with the plaintext
// password. The caller is responsible for hashing the password before
// storing the user.
func NewUser(username, email, password string) (*User, error) {
	user := &User{
		Username:  strings.TrimSpace(username),
		Email:     strings.TrimSpace(email),
		Password:  password, // Plaintext password - must be hashed before storage
		CreatedAt: time.Now().UTC(),
	}

	if err := user.Validate(); err != nil {
		return nil, err
	}

	return user, nil
}

// Validate checks if the User has valid data.
// Returns an error if any field fails validation.
func (u *User) Validate() error {
	if u.Username == "" {
		return ErrEmptyUsername
	}
	if utf8.RuneCountInString(u.Username) < 3 {
		return ErrUsernameTooShort
	}

	// Any non-empty string passes as an email; uniqueness is the only
	// constraint the system enforces on it.
	if u.Email == "" {
		return ErrEmptyEmail
	}

	// During registration the plaintext password is validated; existing
	// users loaded from the store carry only the hash.
	if u.Password != "" {
		if len(u.Password) < 6 {
			return ErrPasswordTooShort
		}
		if len(u.Password) > 72 { // bcrypt's practical limit
			return ErrPasswordTooLong
		}
	} else if u.HashedPassword == "" {
		return ErrEmptyPassword
	}

	return nil
}
