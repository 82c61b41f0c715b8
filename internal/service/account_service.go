package service

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/google/uuid"
	"github.com/rs/zerolog"
	"golang.org/x/crypto/bcrypt"

	"github.com/galaxy-hub/galaxy/internal/domain"
	"github.com/galaxy-hub/galaxy/internal/repository"
)

// AccountService handles registration and authentication.
type AccountService struct {
	users    repository.UserRepository
	sessions *SessionService
	logger   zerolog.Logger
}

// NewAccountService creates a new AccountService.
func NewAccountService(users repository.UserRepository, sessions *SessionService, logger zerolog.Logger) *AccountService {
	return &AccountService{
		users:    users,
		sessions: sessions,
		logger:   logger.With().Str("service", "account").Logger(),
	}
}

// RegisterInput contains parameters for creating an account.
type RegisterInput struct {
	Email    string
	Username string
	Password string
}

// RegisterOutput contains the created account and its session token.
type RegisterOutput struct {
	User  *domain.User
	Token string
}

// Register creates a new account and starts a session for it.
//
// The email must look like local@domain.tld and the username must be
// '@' followed by letters only. Both are unique case-insensitively.
func (s *AccountService) Register(ctx context.Context, input RegisterInput) (*RegisterOutput, error) {
	email := strings.TrimSpace(input.Email)
	username := strings.TrimSpace(input.Username)

	if !domain.ValidEmail(email) {
		return nil, domain.NewDomainError(domain.ErrInvalidEmail, "expected local@domain.tld", email)
	}
	if !domain.ValidUsername(username) {
		return nil, domain.NewDomainError(domain.ErrInvalidUsername, "expected '@' followed by letters", username)
	}
	if input.Password == "" {
		return nil, domain.NewDomainError(domain.ErrValidation, "password is required", "")
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(input.Password), bcrypt.DefaultCost)
	if err != nil {
		s.logger.Error().Err(err).Msg("failed to hash password")
		return nil, fmt.Errorf("%w: %v", ErrInternalError, err)
	}

	user := domain.NewUser(uuid.New().String(), email, username, string(hash))

	if err := s.users.Create(ctx, user); err != nil {
		if errors.Is(err, domain.ErrEmailTaken) || errors.Is(err, domain.ErrUsernameTaken) {
			return nil, err
		}
		s.logger.Error().Err(err).Msg("failed to create user")
		return nil, fmt.Errorf("%w: %v", ErrInternalError, err)
	}

	tok, err := s.sessions.Start(ctx, user.ID)
	if err != nil {
		return nil, err
	}

	s.logger.Info().
		Str("user_id", user.ID).
		Str("username", user.Username).
		Msg("user registered")

	return &RegisterOutput{User: user, Token: tok}, nil
}

// LoginInput contains credentials for authentication.
type LoginInput struct {
	Email    string
	Password string
}

// LoginOutput contains the authenticated account and its session token.
type LoginOutput struct {
	User  *domain.User
	Token string
}

// Login authenticates by email and password and starts a session.
//
// Checks run in a fixed order: unknown email, then ban status, then
// password. A banned account is reported as banned even when the
// password is wrong.
func (s *AccountService) Login(ctx context.Context, input LoginInput) (*LoginOutput, error) {
	user, err := s.users.GetByEmail(ctx, strings.TrimSpace(input.Email))
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, domain.ErrUserNotFound
		}
		s.logger.Error().Err(err).Msg("failed to look up user")
		return nil, fmt.Errorf("%w: %v", ErrInternalError, err)
	}

	if !user.CanAuthenticate() {
		s.logger.Warn().Str("user_id", user.ID).Msg("banned account attempted login")
		return nil, domain.ErrUserBanned
	}

	if err := bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(input.Password)); err != nil {
		return nil, domain.ErrWrongPassword
	}

	tok, err := s.sessions.Start(ctx, user.ID)
	if err != nil {
		return nil, err
	}

	s.logger.Info().Str("user_id", user.ID).Msg("user logged in")
	return &LoginOutput{User: user, Token: tok}, nil
}

// Logout ends the session for the token. Unknown tokens are ignored.
func (s *AccountService) Logout(ctx context.Context, token string) error {
	return s.sessions.End(ctx, token)
}

// Get returns the account for the id.
func (s *AccountService) Get(ctx context.Context, userID string) (*domain.User, error) {
	user, err := s.users.GetByID(ctx, userID)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, domain.ErrUserNotFound
		}
		return nil, fmt.Errorf("%w: %v", ErrInternalError, err)
	}
	return user, nil
}

// Rename changes the user's display handle. The new handle must satisfy
// the same format and uniqueness rules as at registration.
func (s *AccountService) Rename(ctx context.Context, userID, username string) (*domain.User, error) {
	username = strings.TrimSpace(username)
	if !domain.ValidUsername(username) {
		return nil, domain.NewDomainError(domain.ErrInvalidUsername, "expected '@' followed by letters", username)
	}

	user, err := s.Get(ctx, userID)
	if err != nil {
		return nil, err
	}

	// Changing only the casing of one's own handle is allowed.
	if domain.NormalizeUsername(username) != domain.NormalizeUsername(user.Username) {
		taken, err := s.users.ExistsByUsername(ctx, username)
		if err != nil {
			return nil, fmt.Errorf("%w: %v", ErrInternalError, err)
		}
		if taken {
			return nil, domain.ErrUsernameTaken
		}
	}

	user.Username = username
	if err := s.saveUser(ctx, user); err != nil {
		return nil, err
	}

	s.logger.Info().Str("user_id", user.ID).Str("username", username).Msg("user renamed")
	return user, nil
}

// saveUser persists an updated user and maps repository errors.
func (s *AccountService) saveUser(ctx context.Context, user *domain.User) error {
	if err := s.users.Update(ctx, user); err != nil {
		if errors.Is(err, domain.ErrUsernameTaken) || errors.Is(err, domain.ErrEmailTaken) {
			return err
		}
		if errors.Is(err, repository.ErrNotFound) {
			return domain.ErrUserNotFound
		}
		s.logger.Error().Err(err).Str("user_id", user.ID).Msg("failed to update user")
		return fmt.Errorf("%w: %v", ErrInternalError, err)
	}
	return nil
}
