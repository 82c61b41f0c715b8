// Package domain contains the core business entities for the Galaxy store.
package domain

import (
	"strings"
	"time"
)

// SubmissionStatus is the moderation state of a game submission.
type SubmissionStatus string

const (
	// SubmissionPending awaits an administrator decision.
	SubmissionPending SubmissionStatus = "pending"

	// SubmissionApproved is a terminal accepted state.
	SubmissionApproved SubmissionStatus = "approved"

	// SubmissionRejected is a terminal declined state.
	SubmissionRejected SubmissionStatus = "rejected"
)

// GameSubmission is a user-proposed game awaiting moderation. It is
// never itself purchasable. Submissions are only ever created and
// transitioned pending -> approved or pending -> rejected; both
// transitions are terminal and administrator-only.
type GameSubmission struct {
	// ID is the unique submission identifier.
	ID string `json:"id"`

	// Title is the proposed game title.
	Title string `json:"title"`

	// Description is the proposed store description.
	Description string `json:"description"`

	// Theme is the genre tag.
	Theme string `json:"theme"`

	// AgeRating is the age-restriction tag.
	AgeRating string `json:"age_rating"`

	// Price is the proposed price in store currency.
	Price int64 `json:"price"`

	// ContactEmail is where the moderation decision is reported.
	ContactEmail string `json:"contact_email"`

	// SubmitterID is the id of the user who submitted the game.
	SubmitterID string `json:"submitter_id"`

	// Status is the moderation state.
	Status SubmissionStatus `json:"status"`

	// CreatedAt is the timestamp when the submission was filed.
	CreatedAt time.Time `json:"created_at"`

	// DecidedAt is set when an administrator decides the submission.
	DecidedAt *time.Time `json:"decided_at,omitempty"`
}

// NewGameSubmission creates a pending submission attributed to the
// submitting user.
func NewGameSubmission(id, submitterID, title, description, theme, ageRating string, price int64, contactEmail string) *GameSubmission {
	return &GameSubmission{
		ID:           id,
		Title:        title,
		Description:  description,
		Theme:        theme,
		AgeRating:    ageRating,
		Price:        price,
		ContactEmail: contactEmail,
		SubmitterID:  submitterID,
		Status:       SubmissionPending,
		CreatedAt:    time.Now().UTC(),
	}
}

// Validate checks that every required field is present. Price zero is
// allowed; free submissions are valid.
func (s *GameSubmission) Validate() error {
	switch {
	case strings.TrimSpace(s.Title) == "":
		return ErrValidation
	case strings.TrimSpace(s.Description) == "":
		return ErrValidation
	case strings.TrimSpace(s.Theme) == "":
		return ErrValidation
	case strings.TrimSpace(s.AgeRating) == "":
		return ErrValidation
	case s.Price < 0:
		return ErrValidation
	case !ValidEmail(s.ContactEmail):
		return ErrValidation
	}
	return nil
}

// IsDecided reports whether the submission has left the pending state.
func (s *GameSubmission) IsDecided() bool {
	return s.Status != SubmissionPending
}
