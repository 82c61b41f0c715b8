// Package domain contains the core business entities for the Galaxy store.
package domain

import (
	"errors"
	"fmt"
)

// Domain errors - these represent business rule violations.
// They are distinct from infrastructure errors (database, network, etc.).

var (
	// ===========================================
	// Validation Errors
	// ===========================================

	// ErrValidation indicates malformed or missing input.
	ErrValidation = errors.New("validation failed")

	// ErrInvalidEmail indicates the email does not match local@domain.tld.
	ErrInvalidEmail = errors.New("invalid email format")

	// ErrInvalidUsername indicates the handle is not '@' followed by letters.
	ErrInvalidUsername = errors.New("username must start with '@' followed by letters only")

	// ===========================================
	// Conflict Errors
	// ===========================================

	// ErrEmailTaken indicates another account already uses the email.
	ErrEmailTaken = errors.New("email already registered")

	// ErrUsernameTaken indicates another account already holds the handle.
	ErrUsernameTaken = errors.New("username already taken")

	// ===========================================
	// Not Found Errors
	// ===========================================

	// ErrUserNotFound indicates the requested user does not exist.
	ErrUserNotFound = errors.New("user not found")

	// ErrGameNotFound indicates the game is not in the catalog.
	ErrGameNotFound = errors.New("game not found")

	// ErrFrameNotFound indicates the frame is not in the catalog.
	ErrFrameNotFound = errors.New("frame not found")

	// ErrSubmissionNotFound indicates the submission does not exist.
	ErrSubmissionNotFound = errors.New("submission not found")

	// ===========================================
	// Authentication Errors
	// ===========================================

	// ErrWrongPassword indicates the password does not match.
	ErrWrongPassword = errors.New("wrong password")

	// ErrUserBanned indicates a banned account attempted to authenticate.
	ErrUserBanned = errors.New("account is banned")

	// ErrAccessDenied indicates the caller lacks administrator privileges.
	ErrAccessDenied = errors.New("access denied")

	// ErrSessionNotFound indicates no session exists for the token.
	ErrSessionNotFound = errors.New("session not found")

	// ===========================================
	// Commerce Errors
	// ===========================================

	// ErrInsufficientFunds indicates the price exceeds the balance.
	ErrInsufficientFunds = errors.New("insufficient funds")

	// ErrAlreadyOwned indicates the item is already in the library.
	// Informational: the purchase is a no-op, nothing was charged.
	ErrAlreadyOwned = errors.New("item already owned")

	// ErrNotOwned indicates the frame has not been purchased.
	ErrNotOwned = errors.New("frame not owned")

	// ===========================================
	// Social Errors
	// ===========================================

	// ErrAlreadyFriends indicates the other user is already a friend.
	// Informational: adding again is a no-op.
	ErrAlreadyFriends = errors.New("already friends")

	// ErrSelfFriend indicates an attempt to befriend oneself.
	ErrSelfFriend = errors.New("cannot add yourself as a friend")

	// ===========================================
	// Moderation Errors
	// ===========================================

	// ErrSubmissionDecided indicates the submission already left the
	// pending state; decisions are one-shot.
	ErrSubmissionDecided = errors.New("submission already decided")
)

// DomainError wraps a domain error with additional context.
type DomainError struct {
	// Err is the underlying domain error.
	Err error

	// Message provides additional context.
	Message string

	// Resource identifies the affected resource (e.g., user id, game id).
	Resource string
}

// Error implements the error interface.
func (e *DomainError) Error() string {
	if e.Resource != "" {
		return fmt.Sprintf("%s: %s (%s)", e.Err.Error(), e.Message, e.Resource)
	}
	if e.Message != "" {
		return fmt.Sprintf("%s: %s", e.Err.Error(), e.Message)
	}
	return e.Err.Error()
}

// Unwrap returns the underlying error for errors.Is/errors.As.
func (e *DomainError) Unwrap() error {
	return e.Err
}

// NewDomainError creates a new DomainError with context.
func NewDomainError(err error, message, resource string) *DomainError {
	return &DomainError{
		Err:      err,
		Message:  message,
		Resource: resource,
	}
}
