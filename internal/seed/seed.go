// Package seed provisions first-run data: the administrator account and
// the default frame catalog.
package seed

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/rs/zerolog"
	"golang.org/x/crypto/bcrypt"

	"github.com/galaxy-hub/galaxy/internal/config"
	"github.com/galaxy-hub/galaxy/internal/domain"
	"github.com/galaxy-hub/galaxy/internal/repository"
)

// Run provisions missing seed data. It is idempotent: existing records
// are left alone, so it is safe to call on every startup.
func Run(ctx context.Context, repos *repository.Repositories, cfg config.SeedConfig, logger zerolog.Logger) error {
	log := logger.With().Str("component", "seed").Logger()

	if err := seedAdmin(ctx, repos.User, cfg, log); err != nil {
		return err
	}
	if err := seedFrames(ctx, repos.Frame, log); err != nil {
		return err
	}
	return nil
}

// seedAdmin creates the administrator account if no account holds the
// configured email. Admin status is a role flag on the record; nothing
// is ever inferred from the email or handle.
func seedAdmin(ctx context.Context, users repository.UserRepository, cfg config.SeedConfig, log zerolog.Logger) error {
	exists, err := users.ExistsByEmail(ctx, cfg.AdminEmail)
	if err != nil {
		return fmt.Errorf("failed to check for admin account: %w", err)
	}
	if exists {
		return nil
	}

	if cfg.AdminPassword == "" {
		return errors.New("seed.admin_password is required on first run")
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(cfg.AdminPassword), bcrypt.DefaultCost)
	if err != nil {
		return fmt.Errorf("failed to hash admin password: %w", err)
	}

	admin := domain.NewUser(uuid.New().String(), cfg.AdminEmail, cfg.AdminUsername, string(hash))
	admin.IsAdmin = true
	admin.IsVerified = true
	admin.Balance = cfg.AdminBalance

	if err := users.Create(ctx, admin); err != nil {
		// Lost a race against a concurrent startup. Fine.
		if errors.Is(err, domain.ErrEmailTaken) || errors.Is(err, domain.ErrUsernameTaken) {
			return nil
		}
		return fmt.Errorf("failed to create admin account: %w", err)
	}

	log.Info().
		Str("user_id", admin.ID).
		Str("email", admin.Email).
		Msg("administrator account provisioned")

	return nil
}

// seedFrames installs the default frame catalog when the frames table
// is empty.
func seedFrames(ctx context.Context, frames repository.FrameRepository, log zerolog.Logger) error {
	count, err := frames.Count(ctx)
	if err != nil {
		return fmt.Errorf("failed to count frames: %w", err)
	}
	if count > 0 {
		return nil
	}

	for _, frame := range domain.DefaultFrames() {
		if err := frames.Create(ctx, frame); err != nil {
			return fmt.Errorf("failed to seed frame %s: %w", frame.ID, err)
		}
	}

	log.Info().Int("count", len(domain.DefaultFrames())).Msg("default frames provisioned")
	return nil
}
