package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"github.com/galaxy-hub/galaxy/internal/domain"
	"github.com/galaxy-hub/galaxy/internal/repository"
)

// SubmissionService handles the game publishing workflow: users file
// submissions, administrators approve or reject them.
type SubmissionService struct {
	submissions repository.SubmissionRepository
	logger      zerolog.Logger
}

// NewSubmissionService creates a new SubmissionService.
func NewSubmissionService(submissions repository.SubmissionRepository, logger zerolog.Logger) *SubmissionService {
	return &SubmissionService{
		submissions: submissions,
		logger:      logger.With().Str("service", "submission").Logger(),
	}
}

// SubmitInput contains the fields of a proposed game.
type SubmitInput struct {
	Title        string
	Description  string
	Theme        string
	AgeRating    string
	Price        int64
	ContactEmail string
}

// Submit files a pending submission attributed to the user. All fields
// are required and the contact email must be well formed.
func (s *SubmissionService) Submit(ctx context.Context, submitterID string, input SubmitInput) (*domain.GameSubmission, error) {
	sub := domain.NewGameSubmission(
		uuid.New().String(),
		submitterID,
		input.Title,
		input.Description,
		input.Theme,
		input.AgeRating,
		input.Price,
		input.ContactEmail,
	)

	if err := sub.Validate(); err != nil {
		return nil, domain.NewDomainError(err, "invalid game submission", "")
	}

	if err := s.submissions.Create(ctx, sub); err != nil {
		s.logger.Error().Err(err).Msg("failed to create submission")
		return nil, fmt.Errorf("%w: %v", ErrInternalError, err)
	}

	s.logger.Info().
		Str("submission_id", sub.ID).
		Str("submitter_id", submitterID).
		Str("title", sub.Title).
		Msg("game submitted for review")

	return sub, nil
}

// Get returns one submission by id.
func (s *SubmissionService) Get(ctx context.Context, id string) (*domain.GameSubmission, error) {
	sub, err := s.submissions.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, domain.ErrSubmissionNotFound
		}
		return nil, fmt.Errorf("%w: %v", ErrInternalError, err)
	}
	return sub, nil
}

// List returns submissions, optionally filtered by status.
func (s *SubmissionService) List(ctx context.Context, status domain.SubmissionStatus) ([]*domain.GameSubmission, error) {
	subs, err := s.submissions.List(ctx, status)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInternalError, err)
	}
	return subs, nil
}

// ListBySubmitter returns the user's own submissions.
func (s *SubmissionService) ListBySubmitter(ctx context.Context, submitterID string) ([]*domain.GameSubmission, error) {
	subs, err := s.submissions.ListBySubmitter(ctx, submitterID)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInternalError, err)
	}
	return subs, nil
}

// Approve transitions a pending submission to approved.
func (s *SubmissionService) Approve(ctx context.Context, id string) (*domain.GameSubmission, error) {
	return s.decide(ctx, id, domain.SubmissionApproved)
}

// Reject transitions a pending submission to rejected.
func (s *SubmissionService) Reject(ctx context.Context, id string) (*domain.GameSubmission, error) {
	return s.decide(ctx, id, domain.SubmissionRejected)
}

// decide applies a terminal moderation decision. Decisions are
// one-shot: a submission that already left pending cannot be decided
// again, not even to the same status.
func (s *SubmissionService) decide(ctx context.Context, id string, status domain.SubmissionStatus) (*domain.GameSubmission, error) {
	sub, err := s.Get(ctx, id)
	if err != nil {
		return nil, err
	}

	if sub.IsDecided() {
		return nil, domain.NewDomainError(domain.ErrSubmissionDecided, string(sub.Status), id)
	}

	now := time.Now().UTC()
	sub.Status = status
	sub.DecidedAt = &now

	if err := s.submissions.Update(ctx, sub); err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, domain.ErrSubmissionNotFound
		}
		s.logger.Error().Err(err).Str("submission_id", id).Msg("failed to update submission")
		return nil, fmt.Errorf("%w: %v", ErrInternalError, err)
	}

	s.logger.Info().
		Str("submission_id", id).
		Str("status", string(status)).
		Msg("submission decided")

	return sub, nil
}
