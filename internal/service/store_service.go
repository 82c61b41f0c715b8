package service

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/rs/zerolog"

	"github.com/galaxy-hub/galaxy/internal/domain"
	"github.com/galaxy-hub/galaxy/internal/repository"
)

// frameListTTL bounds staleness of the cached frame catalog. The cache
// is also invalidated explicitly when an admin creates a frame.
const frameListTTL = 5 * time.Minute

// StoreService handles the catalog and purchases.
type StoreService struct {
	users  repository.UserRepository
	frames repository.FrameRepository
	cache  repository.Cache
	keys   repository.CacheKey
	logger zerolog.Logger
}

// NewStoreService creates a new StoreService.
func NewStoreService(users repository.UserRepository, frames repository.FrameRepository, cache repository.Cache, logger zerolog.Logger) *StoreService {
	return &StoreService{
		users:  users,
		frames: frames,
		cache:  cache,
		logger: logger.With().Str("service", "store").Logger(),
	}
}

// Games returns the static game catalog.
func (s *StoreService) Games(ctx context.Context) []domain.Game {
	return domain.Catalog()
}

// Game returns one catalog entry by id.
func (s *StoreService) Game(ctx context.Context, gameID string) (*domain.Game, error) {
	return domain.GameByID(gameID)
}

// Frames returns all purchasable frames, via the cache when warm.
func (s *StoreService) Frames(ctx context.Context) ([]*domain.Frame, error) {
	if data, err := s.cache.Get(ctx, s.keys.FrameList()); err == nil {
		var frames []*domain.Frame
		if err := json.Unmarshal(data, &frames); err == nil {
			return frames, nil
		}
		// Corrupt cache entry. Drop it and fall through to the database.
		_ = s.cache.Delete(ctx, s.keys.FrameList())
	}

	frames, err := s.frames.List(ctx)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInternalError, err)
	}

	if data, err := json.Marshal(frames); err == nil {
		_ = s.cache.Set(ctx, s.keys.FrameList(), data, frameListTTL)
	}

	return frames, nil
}

// PurchaseGame buys a catalog game for the user.
//
// Funds are checked before ownership, so a repeat purchase with an
// empty wallet reports insufficient funds rather than already-owned.
// Buying an owned game with sufficient funds is a paid no-op signalled
// by ErrAlreadyOwned; nothing is charged and no level is gained.
func (s *StoreService) PurchaseGame(ctx context.Context, userID, gameID string) (*domain.User, error) {
	game, err := domain.GameByID(gameID)
	if err != nil {
		return nil, err
	}

	user, err := s.getUser(ctx, userID)
	if err != nil {
		return nil, err
	}

	if user.Balance < game.Price {
		return nil, domain.NewDomainError(domain.ErrInsufficientFunds, "game purchase", gameID)
	}
	if user.OwnsGame(gameID) {
		return nil, domain.NewDomainError(domain.ErrAlreadyOwned, "game", gameID)
	}

	user.Balance -= game.Price
	user.OwnedGames = append(user.OwnedGames, gameID)
	user.Level++

	if err := s.saveUser(ctx, user); err != nil {
		return nil, err
	}

	s.logger.Info().
		Str("user_id", userID).
		Str("game_id", gameID).
		Int64("price", game.Price).
		Int("level", user.Level).
		Msg("game purchased")

	return user, nil
}

// PurchaseFrame buys a profile frame for the user. Same ordering rules
// as PurchaseGame.
func (s *StoreService) PurchaseFrame(ctx context.Context, userID, frameID string) (*domain.User, error) {
	frame, err := s.frames.GetByID(ctx, frameID)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, domain.ErrFrameNotFound
		}
		return nil, fmt.Errorf("%w: %v", ErrInternalError, err)
	}

	user, err := s.getUser(ctx, userID)
	if err != nil {
		return nil, err
	}

	if user.Balance < frame.Price {
		return nil, domain.NewDomainError(domain.ErrInsufficientFunds, "frame purchase", frameID)
	}
	if user.OwnsFrame(frameID) {
		return nil, domain.NewDomainError(domain.ErrAlreadyOwned, "frame", frameID)
	}

	user.Balance -= frame.Price
	user.OwnedFrames = append(user.OwnedFrames, frameID)
	user.Level++

	if err := s.saveUser(ctx, user); err != nil {
		return nil, err
	}

	s.logger.Info().
		Str("user_id", userID).
		Str("frame_id", frameID).
		Int64("price", frame.Price).
		Int("level", user.Level).
		Msg("frame purchased")

	return user, nil
}

// SetActiveFrame selects which owned frame decorates the profile.
// An empty frame id clears the selection.
func (s *StoreService) SetActiveFrame(ctx context.Context, userID, frameID string) (*domain.User, error) {
	user, err := s.getUser(ctx, userID)
	if err != nil {
		return nil, err
	}

	if frameID != "" && !user.OwnsFrame(frameID) {
		return nil, domain.NewDomainError(domain.ErrNotOwned, "frame", frameID)
	}

	user.ActiveFrame = frameID
	if err := s.saveUser(ctx, user); err != nil {
		return nil, err
	}
	return user, nil
}

// Library describes the user's purchases in catalog terms.
type Library struct {
	Games  []domain.Game   `json:"games"`
	Frames []*domain.Frame `json:"frames"`
}

// UserLibrary resolves the user's owned ids into catalog entries.
// Frames missing from the catalog are skipped rather than failing the
// whole listing.
func (s *StoreService) UserLibrary(ctx context.Context, userID string) (*Library, error) {
	user, err := s.getUser(ctx, userID)
	if err != nil {
		return nil, err
	}

	lib := &Library{
		Games:  make([]domain.Game, 0, len(user.OwnedGames)),
		Frames: make([]*domain.Frame, 0, len(user.OwnedFrames)),
	}

	for _, id := range user.OwnedGames {
		if game, err := domain.GameByID(id); err == nil {
			lib.Games = append(lib.Games, *game)
		}
	}
	for _, id := range user.OwnedFrames {
		frame, err := s.frames.GetByID(ctx, id)
		if err != nil {
			if errors.Is(err, repository.ErrNotFound) {
				continue
			}
			return nil, fmt.Errorf("%w: %v", ErrInternalError, err)
		}
		lib.Frames = append(lib.Frames, frame)
	}

	return lib, nil
}

func (s *StoreService) getUser(ctx context.Context, userID string) (*domain.User, error) {
	user, err := s.users.GetByID(ctx, userID)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, domain.ErrUserNotFound
		}
		return nil, fmt.Errorf("%w: %v", ErrInternalError, err)
	}
	return user, nil
}

func (s *StoreService) saveUser(ctx context.Context, user *domain.User) error {
	if err := s.users.Update(ctx, user); err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return domain.ErrUserNotFound
		}
		s.logger.Error().Err(err).Str("user_id", user.ID).Msg("failed to update user")
		return fmt.Errorf("%w: %v", ErrInternalError, err)
	}
	return nil
}
