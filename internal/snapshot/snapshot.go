package snapshot

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/rs/zerolog"

	"github.com/galaxy-hub/galaxy/internal/domain"
	"github.com/galaxy-hub/galaxy/internal/metrics"
	"github.com/galaxy-hub/galaxy/internal/repository"
)

// Blob keys, one per persisted collection. The game catalog is
// compiled in and has no blob.
const (
	KeyUsers       = "users.json"
	KeyFrames      = "frames.json"
	KeySubmissions = "submissions.json"
)

// userBlob carries the password hash that the API-facing JSON shape of
// a user deliberately omits. Without it a restored account could never
// log in again.
type userBlob struct {
	*domain.User
	PasswordHash string `json:"password_hash"`
}

// Snapshotter exports and imports the persisted collections.
type Snapshotter struct {
	repos  *repository.Repositories
	store  Store
	logger zerolog.Logger
}

// NewSnapshotter creates a new Snapshotter.
func NewSnapshotter(repos *repository.Repositories, store Store, logger zerolog.Logger) *Snapshotter {
	return &Snapshotter{
		repos:  repos,
		store:  store,
		logger: logger.With().Str("component", "snapshot").Logger(),
	}
}

// Export writes every collection to the store, one blob per collection.
func (s *Snapshotter) Export(ctx context.Context) error {
	users, err := s.repos.User.ListAll(ctx)
	if err != nil {
		return fmt.Errorf("failed to load users: %w", err)
	}
	blobs := make([]userBlob, 0, len(users))
	for _, u := range users {
		blobs = append(blobs, userBlob{User: u, PasswordHash: u.PasswordHash})
	}
	if err := s.put(ctx, KeyUsers, blobs); err != nil {
		return err
	}

	frames, err := s.repos.Frame.List(ctx)
	if err != nil {
		return fmt.Errorf("failed to load frames: %w", err)
	}
	if err := s.put(ctx, KeyFrames, frames); err != nil {
		return err
	}

	subs, err := s.repos.Submission.List(ctx, "")
	if err != nil {
		return fmt.Errorf("failed to load submissions: %w", err)
	}
	if err := s.put(ctx, KeySubmissions, subs); err != nil {
		return err
	}

	s.logger.Info().
		Int("users", len(users)).
		Int("frames", len(frames)).
		Int("submissions", len(subs)).
		Msg("snapshot exported")

	return nil
}

// Import replaces every collection from the store. A missing blob
// leaves its collection untouched, so a partial snapshot restores what
// it has.
func (s *Snapshotter) Import(ctx context.Context) error {
	var blobs []userBlob
	found, err := s.get(ctx, KeyUsers, &blobs)
	if err != nil {
		return err
	}
	var users []*domain.User
	if found {
		users = make([]*domain.User, 0, len(blobs))
		for _, b := range blobs {
			u := b.User
			u.PasswordHash = b.PasswordHash
			normalizeUser(u)
			users = append(users, u)
		}
		if err := s.repos.User.ReplaceAll(ctx, users); err != nil {
			return fmt.Errorf("failed to replace users: %w", err)
		}
	}

	var frames []*domain.Frame
	found, err = s.get(ctx, KeyFrames, &frames)
	if err != nil {
		return err
	}
	if found {
		if err := s.repos.Frame.ReplaceAll(ctx, frames); err != nil {
			return fmt.Errorf("failed to replace frames: %w", err)
		}
	}

	var subs []*domain.GameSubmission
	found, err = s.get(ctx, KeySubmissions, &subs)
	if err != nil {
		return err
	}
	if found {
		if err := s.repos.Submission.ReplaceAll(ctx, subs); err != nil {
			return fmt.Errorf("failed to replace submissions: %w", err)
		}
	}

	s.logger.Info().
		Int("users", len(users)).
		Int("frames", len(frames)).
		Int("submissions", len(subs)).
		Msg("snapshot imported")

	return nil
}

// Run exports on the interval until the context is cancelled. An
// export failure is logged and the loop keeps going.
func (s *Snapshotter) Run(ctx context.Context, interval time.Duration) {
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	s.logger.Info().Dur("interval", interval).Msg("snapshot loop started")

	for {
		select {
		case <-ctx.Done():
			s.logger.Info().Msg("snapshot loop stopped")
			return
		case <-ticker.C:
			if err := s.Export(ctx); err != nil {
				metrics.SnapshotsTotal.WithLabelValues("failure").Inc()
				s.logger.Error().Err(err).Msg("periodic snapshot failed")
				continue
			}
			metrics.SnapshotsTotal.WithLabelValues("success").Inc()
		}
	}
}

func (s *Snapshotter) put(ctx context.Context, key string, v interface{}) error {
	data, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to marshal %s: %w", key, err)
	}
	if err := s.store.Put(ctx, key, data); err != nil {
		return err
	}
	return nil
}

// get reads and unmarshals a blob. Returns false with no error when
// the blob does not exist.
func (s *Snapshotter) get(ctx context.Context, key string, v interface{}) (bool, error) {
	data, err := s.store.Get(ctx, key)
	if err != nil {
		if errors.Is(err, ErrBlobNotFound) {
			return false, nil
		}
		return false, err
	}
	if err := json.Unmarshal(data, v); err != nil {
		return false, fmt.Errorf("failed to unmarshal %s: %w", key, err)
	}
	return true, nil
}

// normalizeUser restores the empty-slice invariant for id sets after a
// JSON round trip.
func normalizeUser(u *domain.User) {
	if u.OwnedGames == nil {
		u.OwnedGames = []string{}
	}
	if u.OwnedFrames == nil {
		u.OwnedFrames = []string{}
	}
	if u.Friends == nil {
		u.Friends = []string{}
	}
}
