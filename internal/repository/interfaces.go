// Package repository defines data access interfaces for the Galaxy store.
package repository

import (
	"context"

	"github.com/galaxy-hub/galaxy/internal/domain"
)

// ListOptions contains pagination parameters for list operations.
type ListOptions struct {
	// Offset is the number of items to skip.
	Offset int

	// Limit is the maximum number of items to return.
	Limit int

	// Search filters users by a case-insensitive substring over
	// username and email. Empty means no filter.
	Search string
}

// ListResult contains a page of items and the total count.
type ListResult[T any] struct {
	Items  []*T
	Total  int64
	Offset int
	Limit  int
}

// UserRepository defines data access for users. Users are created via
// registration and never deleted; there is deliberately no Delete.
type UserRepository interface {
	// Create persists a new user.
	// Returns domain.ErrEmailTaken or domain.ErrUsernameTaken on
	// uniqueness violations.
	Create(ctx context.Context, user *domain.User) error

	// GetByID retrieves a user by id.
	GetByID(ctx context.Context, id string) (*domain.User, error)

	// GetByEmail retrieves a user by email, case-insensitively.
	GetByEmail(ctx context.Context, email string) (*domain.User, error)

	// GetByUsername retrieves a user by handle, case-insensitively.
	GetByUsername(ctx context.Context, username string) (*domain.User, error)

	// Update replaces the stored record for the user's id.
	Update(ctx context.Context, user *domain.User) error

	// List returns users with pagination and optional search filter.
	List(ctx context.Context, opts ListOptions) (*ListResult[domain.User], error)

	// ListAll returns every user in creation order. Used by friend
	// search and by collection snapshots.
	ListAll(ctx context.Context) ([]*domain.User, error)

	// ExistsByEmail checks case-insensitively for an account with the email.
	ExistsByEmail(ctx context.Context, email string) (bool, error)

	// ExistsByUsername checks case-insensitively for an account with the handle.
	ExistsByUsername(ctx context.Context, username string) (bool, error)

	// ReplaceAll replaces the whole collection. Used by snapshot import.
	ReplaceAll(ctx context.Context, users []*domain.User) error
}

// FrameRepository defines data access for the frame catalog.
// Frames are appended by admins or seeding and never deleted.
type FrameRepository interface {
	// Create appends a frame to the catalog.
	Create(ctx context.Context, frame *domain.Frame) error

	// GetByID retrieves a frame by id.
	GetByID(ctx context.Context, id string) (*domain.Frame, error)

	// List returns all frames in creation order.
	List(ctx context.Context) ([]*domain.Frame, error)

	// Count returns the number of frames. Used by seeding.
	Count(ctx context.Context) (int64, error)

	// ReplaceAll replaces the whole collection. Used by snapshot import.
	ReplaceAll(ctx context.Context, frames []*domain.Frame) error
}

// SubmissionRepository defines data access for game submissions.
// Submissions are only created and transitioned, never deleted.
type SubmissionRepository interface {
	// Create appends a submission.
	Create(ctx context.Context, sub *domain.GameSubmission) error

	// GetByID retrieves a submission by id.
	GetByID(ctx context.Context, id string) (*domain.GameSubmission, error)

	// Update replaces the stored record for the submission's id.
	Update(ctx context.Context, sub *domain.GameSubmission) error

	// List returns all submissions in creation order, optionally
	// filtered by status. Empty status means no filter.
	List(ctx context.Context, status domain.SubmissionStatus) ([]*domain.GameSubmission, error)

	// ListBySubmitter returns all submissions filed by the user.
	ListBySubmitter(ctx context.Context, submitterID string) ([]*domain.GameSubmission, error)

	// ReplaceAll replaces the whole collection. Used by snapshot import.
	ReplaceAll(ctx context.Context, subs []*domain.GameSubmission) error
}
