package service

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"github.com/galaxy-hub/galaxy/internal/domain"
	"github.com/galaxy-hub/galaxy/internal/repository"
)

// AdminService handles moderation and user management. Authorization
// (the IsAdmin check) happens at the handler layer; these methods
// assume the caller is already privileged.
type AdminService struct {
	users    repository.UserRepository
	frames   repository.FrameRepository
	sessions *SessionService
	cache    repository.Cache
	keys     repository.CacheKey
	logger   zerolog.Logger
}

// NewAdminService creates a new AdminService.
func NewAdminService(users repository.UserRepository, frames repository.FrameRepository, sessions *SessionService, cache repository.Cache, logger zerolog.Logger) *AdminService {
	return &AdminService{
		users:    users,
		frames:   frames,
		sessions: sessions,
		cache:    cache,
		logger:   logger.With().Str("service", "admin").Logger(),
	}
}

// ListUsers returns users with pagination and optional search.
func (s *AdminService) ListUsers(ctx context.Context, opts repository.ListOptions) (*repository.ListResult[domain.User], error) {
	result, err := s.users.List(ctx, opts)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInternalError, err)
	}
	return result, nil
}

// SetVerified toggles the verification badge on an account.
func (s *AdminService) SetVerified(ctx context.Context, userID string, verified bool) (*domain.User, error) {
	user, err := s.getUser(ctx, userID)
	if err != nil {
		return nil, err
	}

	user.IsVerified = verified
	if err := s.saveUser(ctx, user); err != nil {
		return nil, err
	}

	s.logger.Info().
		Str("user_id", userID).
		Bool("verified", verified).
		Msg("verification updated")

	return user, nil
}

// SetBanned toggles the ban flag. Banning revokes the target's live
// session immediately, so an administrator banning their own account
// is logged out by the same path.
func (s *AdminService) SetBanned(ctx context.Context, userID string, banned bool) (*domain.User, error) {
	user, err := s.getUser(ctx, userID)
	if err != nil {
		return nil, err
	}

	user.IsBanned = banned
	if err := s.saveUser(ctx, user); err != nil {
		return nil, err
	}

	if banned {
		if err := s.sessions.RevokeUser(ctx, userID); err != nil {
			return nil, err
		}
	}

	s.logger.Info().
		Str("user_id", userID).
		Bool("banned", banned).
		Msg("ban status updated")

	return user, nil
}

// SetBalance overwrites the account balance verbatim. Negative values
// are stored as given; only purchases are guarded against going below
// zero, an explicit overwrite is not.
func (s *AdminService) SetBalance(ctx context.Context, userID string, balance int64) (*domain.User, error) {
	user, err := s.getUser(ctx, userID)
	if err != nil {
		return nil, err
	}

	user.Balance = balance
	if err := s.saveUser(ctx, user); err != nil {
		return nil, err
	}

	s.logger.Info().
		Str("user_id", userID).
		Int64("balance", balance).
		Msg("balance overwritten")

	return user, nil
}

// CreateFrameInput contains the fields of a new profile frame.
type CreateFrameInput struct {
	Name        string
	Price       int64
	BorderStyle string
}

// CreateFrame appends a frame to the catalog. The frame is purchasable
// immediately; the cached catalog listing is invalidated.
func (s *AdminService) CreateFrame(ctx context.Context, input CreateFrameInput) (*domain.Frame, error) {
	if strings.TrimSpace(input.Name) == "" {
		return nil, domain.NewDomainError(domain.ErrValidation, "frame name is required", "")
	}
	if input.Price < 0 {
		return nil, domain.NewDomainError(domain.ErrValidation, "frame price must not be negative", "")
	}

	frame := domain.NewFrame(uuid.New().String(), input.Name, input.Price, input.BorderStyle)

	if err := s.frames.Create(ctx, frame); err != nil {
		s.logger.Error().Err(err).Msg("failed to create frame")
		return nil, fmt.Errorf("%w: %v", ErrInternalError, err)
	}

	_ = s.cache.Delete(ctx, s.keys.FrameList())

	s.logger.Info().
		Str("frame_id", frame.ID).
		Str("name", frame.Name).
		Int64("price", frame.Price).
		Msg("frame created")

	return frame, nil
}

func (s *AdminService) getUser(ctx context.Context, userID string) (*domain.User, error) {
	user, err := s.users.GetByID(ctx, userID)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, domain.ErrUserNotFound
		}
		return nil, fmt.Errorf("%w: %v", ErrInternalError, err)
	}
	return user, nil
}

func (s *AdminService) saveUser(ctx context.Context, user *domain.User) error {
	if err := s.users.Update(ctx, user); err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return domain.ErrUserNotFound
		}
		s.logger.Error().Err(err).Str("user_id", user.ID).Msg("failed to update user")
		return fmt.Errorf("%w: %v", ErrInternalError, err)
	}
	return nil
}
