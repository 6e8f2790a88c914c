package domain

import (
	"errors"
	"math"
	"strings"
	"time"
)

// StudySession validation errors
var (
	ErrEmptyTopic         = errors.New("topic cannot be empty")
	ErrNonPositiveMinutes = errors.New("duration must be greater than 0 minutes")
	ErrEmptySessionOwner  = errors.New("study session must belong to a user")
	ErrEmptySubjectRef    = errors.New("study session must reference a subject")
)

// StudySession is a single logged study event. The referenced subject must
// belong to the same user; handlers enforce this before persistence.
type StudySession struct {
	ID              int64     `json:"id"`
	Topic           string    `json:"topic"`
	DurationMinutes int       `json:"duration_minutes"`
	Notes           string    `json:"notes,omitempty"`
	Date            time.Time `json:"date"`
	CreatedAt       time.Time `json:"created_at"`
	UserID          int64     `json:"user_id"`
	SubjectID       int64     `json:"subject_id"`
}

// NewStudySession creates a new StudySession for the given user and subject.
// A zero date defaults to the current calendar date (UTC). The ID is
// assigned by the store.
func NewStudySession(
	userID, subjectID int64,
	topic string,
	durationMinutes int,
	date time.Time,
	notes string,
) (*StudySession, error) {
	if date.IsZero() {
		date = time.Now().UTC()
	}

	session := &StudySession{
		Topic:           strings.TrimSpace(topic),
		DurationMinutes: durationMinutes,
		Notes:           strings.TrimSpace(notes),
		Date:            NormalizeDate(date),
		CreatedAt:       time.Now().UTC(),
		UserID:          userID,
		SubjectID:       subjectID,
	}

	if err := session.Validate(); err != nil {
		return nil, err
	}

	return session, nil
}

// Validate checks if the StudySession has valid data.
func (s *StudySession) Validate() error {
	if s.Topic == "" {
		return ErrEmptyTopic
	}
	if s.DurationMinutes <= 0 {
		return ErrNonPositiveMinutes
	}
	if s.UserID == 0 {
		return ErrEmptySessionOwner
	}
	if s.SubjectID == 0 {
		return ErrEmptySubjectRef
	}
	return nil
}

// DurationHours returns the session duration in hours, rounded to
// 2 decimal places.
func (s *StudySession) DurationHours() float64 {
	return RoundHours(s.DurationMinutes)
}

// RoundHours converts minutes to hours rounded to 2 decimal places.
// All aggregate hour figures in the application use this rounding.
func RoundHours(minutes int) float64 {
	return math.Round(float64(minutes)/60*100) / 100
}

// NormalizeDate strips the time-of-day component, keeping a calendar date
// at midnight UTC. Session dates carry no time component.
func NormalizeDate(t time.Time) time.Time {
	y, m, d := t.UTC().Date()
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}
