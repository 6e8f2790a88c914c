package api

import (
	"github.com/smazzone/studytrack/internal/domain"
)

// View data structures handed to the external template layer.

// FormView is the payload for a form page: the field values to pre-fill,
// the message explaining a failed validation (empty on a fresh form), and
// whatever page data the form needs. Validation failures re-render the form
// with HTTP 200 and the message set.
type FormView struct {
	Message  string            `json:"message,omitempty"`
	Category string            `json:"category,omitempty"`
	Fields   map[string]string `json:"fields,omitempty"`
	Subjects []*domain.Subject `json:"subjects,omitempty"` // session forms carry the subject choices
	Today    string            `json:"today,omitempty"`    // default for the date field, YYYY-MM-DD
}

// SessionListView is the view data for the study session listing.
type SessionListView struct {
	Sessions []*domain.StudySession `json:"sessions"`
	Subjects []*domain.Subject      `json:"subjects"`
}

// SubjectListView is the view data for the subject listing.
type SubjectListView struct {
	Subjects []*domain.Subject `json:"subjects"`
}

// AuthView is the view data for the login and registration pages.
type AuthView struct {
	Message  string            `json:"message,omitempty"`
	Category string            `json:"category,omitempty"`
	Fields   map[string]string `json:"fields,omitempty"`
	Next     string            `json:"next,omitempty"` // post-login redirect target
}
