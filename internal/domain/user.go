// Package domain contains the core business entities for the Galaxy store.
// These are pure Go structs with no external dependencies, representing
// the fundamental concepts of the storefront.
package domain

import (
	"regexp"
	"strings"
	"time"
)

// User represents a registered account in the store.
// A user owns purchased games and frames, holds a simulated currency
// balance, and keeps a one-directional friends list.
type User struct {
	// ID is the opaque unique identifier for the user, assigned at
	// creation and immutable afterwards.
	ID string `json:"id"`

	// Email is the unique email address used for login.
	Email string `json:"email"`

	// Username is the unique display handle.
	// Constraints: "@" followed by one or more ASCII letters, unique
	// case-insensitively across all users.
	Username string `json:"username"`

	// PasswordHash is the bcrypt hash of the user's password.
	// This should never be exposed in API responses.
	PasswordHash string `json:"-"`

	// Balance is the simulated currency amount. Purchases never drive
	// it below zero; an admin overwrite may store any integer.
	Balance int64 `json:"balance"`

	// Level starts at 1 and increases by exactly one on every
	// successful purchase (game or frame).
	Level int `json:"level"`

	// IsVerified marks the account as verified. Toggled only by an admin.
	IsVerified bool `json:"is_verified"`

	// IsBanned blocks authentication. Toggled only by an admin.
	IsBanned bool `json:"is_banned"`

	// IsAdmin grants moderation and user-management privileges.
	// Set only at provisioning time, never inferred from identity.
	IsAdmin bool `json:"is_admin"`

	// OwnedGames holds the ids of purchased catalog games, deduplicated.
	OwnedGames []string `json:"owned_games"`

	// OwnedFrames holds the ids of purchased frames, deduplicated.
	OwnedFrames []string `json:"owned_frames"`

	// Friends holds the ids of befriended users. The relation is
	// one-directional: adding A->B leaves B's list untouched.
	Friends []string `json:"friends"`

	// ActiveFrame selects which owned frame decorates the profile.
	// Empty means no frame is active.
	ActiveFrame string `json:"active_frame,omitempty"`

	// CreatedAt is the timestamp when the account was created.
	CreatedAt time.Time `json:"created_at"`

	// UpdatedAt is the timestamp when the account was last updated.
	UpdatedAt time.Time `json:"updated_at"`
}

// NewUser creates a new User with default values: zero balance, level 1,
// unverified, unbanned, empty owned and friend sets.
func NewUser(id, email, username, passwordHash string) *User {
	now := time.Now().UTC()
	return &User{
		ID:           id,
		Email:        email,
		Username:     username,
		PasswordHash: passwordHash,
		Balance:      0,
		Level:        1,
		OwnedGames:   []string{},
		OwnedFrames:  []string{},
		Friends:      []string{},
		CreatedAt:    now,
		UpdatedAt:    now,
	}
}

// CanAuthenticate returns true if the user is allowed to log in.
func (u *User) CanAuthenticate() bool {
	return !u.IsBanned
}

// OwnsGame reports whether the game id is in the user's library.
func (u *User) OwnsGame(gameID string) bool {
	return containsID(u.OwnedGames, gameID)
}

// OwnsFrame reports whether the frame id has been purchased.
func (u *User) OwnsFrame(frameID string) bool {
	return containsID(u.OwnedFrames, frameID)
}

// HasFriend reports whether the other user's id is in the friends list.
func (u *User) HasFriend(otherID string) bool {
	return containsID(u.Friends, otherID)
}

func containsID(ids []string, id string) bool {
	for _, v := range ids {
		if v == id {
			return true
		}
	}
	return false
}

// LevelBand returns the display band for a level:
// "gray" for 1-5, "red" for 6-10, "green" for 11-15, "purple" above.
func LevelBand(level int) string {
	switch {
	case level <= 5:
		return "gray"
	case level <= 10:
		return "red"
	case level <= 15:
		return "green"
	default:
		return "purple"
	}
}

var (
	emailPattern    = regexp.MustCompile(`^[^\s@]+@[^\s@]+\.[^\s@]+$`)
	usernamePattern = regexp.MustCompile(`^@[A-Za-z]+$`)
)

// ValidEmail reports whether the address has the local@domain.tld shape.
func ValidEmail(email string) bool {
	return emailPattern.MatchString(email)
}

// ValidUsername reports whether the handle is "@" followed by one or
// more ASCII letters. An empty suffix is rejected.
func ValidUsername(username string) bool {
	return usernamePattern.MatchString(username)
}

// NormalizeUsername lowercases a handle for case-insensitive
// uniqueness comparisons. The stored casing is preserved elsewhere.
func NormalizeUsername(username string) string {
	return strings.ToLower(username)
}

// NormalizeEmail lowercases an address for uniqueness comparisons.
func NormalizeEmail(email string) string {
	return strings.ToLower(email)
}
