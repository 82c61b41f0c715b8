// Package service provides business logic services for the Galaxy store.
package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/rs/zerolog"

	"github.com/galaxy-hub/galaxy/internal/domain"
	"github.com/galaxy-hub/galaxy/internal/pkg/token"
	"github.com/galaxy-hub/galaxy/internal/repository"
)

// SessionService manages authentication sessions. A session is a
// transient pointer from a token to one user id, kept in the cache with
// a TTL; ending or revoking it never mutates the user record.
//
// A reverse index (user id -> token) is kept alongside so that banning
// an account can revoke its live session immediately.
type SessionService struct {
	cache  repository.Cache
	ttl    time.Duration
	keys   repository.CacheKey
	logger zerolog.Logger
}

// NewSessionService creates a new SessionService.
func NewSessionService(cache repository.Cache, ttl time.Duration, logger zerolog.Logger) *SessionService {
	return &SessionService{
		cache:  cache,
		ttl:    ttl,
		logger: logger.With().Str("service", "session").Logger(),
	}
}

// Start creates a session for the user and returns the token.
// Any previous session for the same user is replaced.
func (s *SessionService) Start(ctx context.Context, userID string) (string, error) {
	// Drop the previous session, if any. One session per user.
	if err := s.RevokeUser(ctx, userID); err != nil {
		return "", err
	}

	tok, err := token.New()
	if err != nil {
		s.logger.Error().Err(err).Msg("failed to generate session token")
		return "", fmt.Errorf("%w: %v", ErrInternalError, err)
	}

	if err := s.cache.Set(ctx, s.keys.Session(tok), []byte(userID), s.ttl); err != nil {
		return "", fmt.Errorf("%w: %v", ErrInternalError, err)
	}
	if err := s.cache.Set(ctx, s.keys.UserSession(userID), []byte(tok), s.ttl); err != nil {
		return "", fmt.Errorf("%w: %v", ErrInternalError, err)
	}

	s.logger.Debug().Str("user_id", userID).Msg("session started")
	return tok, nil
}

// Resolve returns the user id bound to the token and refreshes the TTL.
func (s *SessionService) Resolve(ctx context.Context, tok string) (string, error) {
	val, err := s.cache.Get(ctx, s.keys.Session(tok))
	if err != nil {
		if errors.Is(err, repository.ErrCacheMiss) {
			return "", domain.ErrSessionNotFound
		}
		return "", fmt.Errorf("%w: %v", ErrInternalError, err)
	}

	userID := string(val)

	// Sliding expiration: activity keeps the session alive.
	_ = s.cache.Expire(ctx, s.keys.Session(tok), s.ttl)
	_ = s.cache.Expire(ctx, s.keys.UserSession(userID), s.ttl)

	return userID, nil
}

// End removes the session for the token. Unknown tokens are ignored.
func (s *SessionService) End(ctx context.Context, tok string) error {
	val, err := s.cache.Get(ctx, s.keys.Session(tok))
	if err != nil {
		if errors.Is(err, repository.ErrCacheMiss) {
			return nil
		}
		return fmt.Errorf("%w: %v", ErrInternalError, err)
	}

	userID := string(val)
	if err := s.cache.Delete(ctx, s.keys.Session(tok)); err != nil {
		return fmt.Errorf("%w: %v", ErrInternalError, err)
	}
	if err := s.cache.Delete(ctx, s.keys.UserSession(userID)); err != nil {
		return fmt.Errorf("%w: %v", ErrInternalError, err)
	}

	s.logger.Debug().Str("user_id", userID).Msg("session ended")
	return nil
}

// RevokeUser removes the user's live session, if any. Called when the
// account is banned; a banned user is logged out immediately.
func (s *SessionService) RevokeUser(ctx context.Context, userID string) error {
	val, err := s.cache.Get(ctx, s.keys.UserSession(userID))
	if err != nil {
		if errors.Is(err, repository.ErrCacheMiss) {
			return nil
		}
		return fmt.Errorf("%w: %v", ErrInternalError, err)
	}

	tok := string(val)
	if err := s.cache.Delete(ctx, s.keys.Session(tok)); err != nil {
		return fmt.Errorf("%w: %v", ErrInternalError, err)
	}
	if err := s.cache.Delete(ctx, s.keys.UserSession(userID)); err != nil {
		return fmt.Errorf("%w: %v", ErrInternalError, err)
	}

	s.logger.Info().Str("user_id", userID).Msg("session revoked")
	return nil
}
