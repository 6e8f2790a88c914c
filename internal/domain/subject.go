package domain

import (
	"errors"
	"regexp"
	"strings"
	"time"
)

// DefaultSubjectColor is the display color assigned to subjects
// created without an explicit color.
const DefaultSubjectColor = "#3498db"

// Subject validation errors
var (
	ErrEmptySubjectName   = errors.New("subject name cannot be empty")
	ErrEmptySubjectOwner  = errors.New("subject must belong to a user")
	ErrInvalidColorFormat = errors.New("color must be a hex string like #3498db")
)

var hexColorPattern = regexp.MustCompile(`^#[0-9a-fA-F]{6}$`)

// Subject is a named category of study owned by exactly one user.
// Its sessions are removed with it when it is deleted.
type Subject struct {
	ID          int64     `json:"id"`
	Name        string    `json:"name"`
	Description string    `json:"description,omitempty"`
	Color       string    `json:"color"`
	UserID      int64     `json:"user_id"`
	CreatedAt   time.Time `json:"created_at"`
}

// NewSubject creates a new Subject owned by the given user. An empty color
// falls back to DefaultSubjectColor. The ID is assigned by the store.
func NewSubject(userID int64, name, description, color string) (*Subject, error) {
	if color == "" {
		color = DefaultSubjectColor
	}

	subject := &Subject{
		Name:        strings.TrimSpace(name),
		Description: strings.TrimSpace(description),
		Color:       color,
		UserID:      userID,
		CreatedAt:   time.Now().UTC(),
	}

	if err := subject.Validate(); err != nil {
		return nil, err
	}

	return subject, nil
}

// Validate checks if the Subject has valid data.
func (s *Subject) Validate() error {
	if s.Name == "" {
		return ErrEmptySubjectName
	}
	if s.UserID == 0 {
		return ErrEmptySubjectOwner
	}
	if !hexColorPattern.MatchString(s.Color) {
		return ErrInvalidColorFormat
	}
	return nil
}
