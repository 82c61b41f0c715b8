package service

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"strings"

	"github.com/rs/zerolog"

	"github.com/galaxy-hub/galaxy/internal/domain"
	"github.com/galaxy-hub/galaxy/internal/repository"
)

// SocialService handles the friends list and user search.
//
// Friendship is one-directional: adding B to A's list never touches
// B's list, and either side can remove independently.
type SocialService struct {
	users  repository.UserRepository
	logger zerolog.Logger
}

// NewSocialService creates a new SocialService.
func NewSocialService(users repository.UserRepository, logger zerolog.Logger) *SocialService {
	return &SocialService{
		users:  users,
		logger: logger.With().Str("service", "social").Logger(),
	}
}

// AddFriend adds the other user to the caller's friends list.
func (s *SocialService) AddFriend(ctx context.Context, userID, friendID string) (*domain.User, error) {
	if userID == friendID {
		return nil, domain.ErrSelfFriend
	}

	// The target must exist even though their record is not modified.
	if _, err := s.getUser(ctx, friendID); err != nil {
		return nil, err
	}

	user, err := s.getUser(ctx, userID)
	if err != nil {
		return nil, err
	}

	if user.HasFriend(friendID) {
		return nil, domain.NewDomainError(domain.ErrAlreadyFriends, "friend", friendID)
	}

	user.Friends = append(user.Friends, friendID)
	if err := s.saveUser(ctx, user); err != nil {
		return nil, err
	}

	s.logger.Info().
		Str("user_id", userID).
		Str("friend_id", friendID).
		Msg("friend added")

	return user, nil
}

// RemoveFriend removes the other user from the caller's friends list.
// Removing an id that is not present is a no-op.
func (s *SocialService) RemoveFriend(ctx context.Context, userID, friendID string) (*domain.User, error) {
	user, err := s.getUser(ctx, userID)
	if err != nil {
		return nil, err
	}

	filtered := user.Friends[:0]
	for _, id := range user.Friends {
		if id != friendID {
			filtered = append(filtered, id)
		}
	}
	user.Friends = filtered

	if err := s.saveUser(ctx, user); err != nil {
		return nil, err
	}
	return user, nil
}

// Friends resolves the caller's friends list into user records.
// Ids that no longer resolve are skipped.
func (s *SocialService) Friends(ctx context.Context, userID string) ([]*domain.User, error) {
	user, err := s.getUser(ctx, userID)
	if err != nil {
		return nil, err
	}

	out := make([]*domain.User, 0, len(user.Friends))
	for _, id := range user.Friends {
		friend, err := s.users.GetByID(ctx, id)
		if err != nil {
			if errors.Is(err, repository.ErrNotFound) {
				continue
			}
			return nil, fmt.Errorf("%w: %v", ErrInternalError, err)
		}
		out = append(out, friend)
	}
	return out, nil
}

// Search finds users whose handle or email contains the query,
// case-insensitively. The caller is excluded from the results. Verified
// accounts come first; within each group the original creation order is
// preserved.
func (s *SocialService) Search(ctx context.Context, callerID, query string) ([]*domain.User, error) {
	all, err := s.users.ListAll(ctx)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInternalError, err)
	}

	needle := strings.ToLower(strings.TrimSpace(query))
	matches := make([]*domain.User, 0)
	for _, u := range all {
		if u.ID == callerID {
			continue
		}
		if needle != "" &&
			!strings.Contains(strings.ToLower(u.Username), needle) &&
			!strings.Contains(strings.ToLower(u.Email), needle) {
			continue
		}
		matches = append(matches, u)
	}

	sort.SliceStable(matches, func(i, j int) bool {
		return matches[i].IsVerified && !matches[j].IsVerified
	})

	return matches, nil
}

func (s *SocialService) getUser(ctx context.Context, userID string) (*domain.User, error) {
	user, err := s.users.GetByID(ctx, userID)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, domain.ErrUserNotFound
		}
		return nil, fmt.Errorf("%w: %v", ErrInternalError, err)
	}
	return user, nil
}

func (s *SocialService) saveUser(ctx context.Context, user *domain.User) error {
	if err := s.users.Update(ctx, user); err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return domain.ErrUserNotFound
		}
		s.logger.Error().Err(err).Str("user_id", user.ID).Msg("failed to update user")
		return fmt.Errorf("%w: %v", ErrInternalError, err)
	}
	return nil
}
