package service

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/rs/zerolog"

	"github.com/galaxy-hub/galaxy/internal/domain"
	"github.com/galaxy-hub/galaxy/internal/repository"
)

func newAdminFixture(setup func(*MockUserRepository)) (*AdminService, *SessionService, *MockUserRepository, *MockFrameRepository, *MockCache) {
	users := NewMockUserRepository()
	if setup != nil {
		setup(users)
	}
	frames := NewMockFrameRepository()
	cache := NewMockCache()
	sessions := NewSessionService(cache, time.Hour, zerolog.Nop())
	svc := NewAdminService(users, frames, sessions, cache, zerolog.Nop())
	return svc, sessions, users, frames, cache
}

func TestAdminService_SetVerified(t *testing.T) {
	svc, _, _, _, _ := newAdminFixture(func(m *MockUserRepository) {
		m.Add(domain.NewUser("u1", "alice@example.com", "@alice", "x"))
	})
	ctx := context.Background()

	user, err := svc.SetVerified(ctx, "u1", true)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !user.IsVerified {
		t.Error("expected verified flag set")
	}

	user, err = svc.SetVerified(ctx, "u1", false)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if user.IsVerified {
		t.Error("expected verified flag cleared")
	}

	if _, err := svc.SetVerified(ctx, "missing", true); !errors.Is(err, domain.ErrUserNotFound) {
		t.Errorf("expected not-found error, got %v", err)
	}
}

func TestAdminService_SetBanned_RevokesSession(t *testing.T) {
	svc, sessions, _, _, _ := newAdminFixture(func(m *MockUserRepository) {
		m.Add(domain.NewUser("u1", "alice@example.com", "@alice", "x"))
		m.Add(domain.NewUser("u2", "bob@example.com", "@bob", "x"))
	})
	ctx := context.Background()

	tokenAlice, err := sessions.Start(ctx, "u1")
	if err != nil {
		t.Fatalf("failed to start session: %v", err)
	}
	tokenBob, err := sessions.Start(ctx, "u2")
	if err != nil {
		t.Fatalf("failed to start session: %v", err)
	}

	user, err := svc.SetBanned(ctx, "u1", true)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !user.IsBanned {
		t.Error("expected banned flag set")
	}

	// The banned user's session is gone, the other one survives.
	if _, err := sessions.Resolve(ctx, tokenAlice); !errors.Is(err, domain.ErrSessionNotFound) {
		t.Errorf("expected banned user's session revoked, got %v", err)
	}
	if _, err := sessions.Resolve(ctx, tokenBob); err != nil {
		t.Errorf("expected other session untouched, got %v", err)
	}

	// Unbanning does not resurrect anything.
	user, err = svc.SetBanned(ctx, "u1", false)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if user.IsBanned {
		t.Error("expected banned flag cleared")
	}
	if _, err := sessions.Resolve(ctx, tokenAlice); !errors.Is(err, domain.ErrSessionNotFound) {
		t.Errorf("expected session still gone after unban, got %v", err)
	}
}

func TestAdminService_SetBalance(t *testing.T) {
	tests := []struct {
		name    string
		balance int64
	}{
		{"positive", 5000},
		{"zero", 0},
		{"negative stored verbatim", -250},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			svc, _, users, _, _ := newAdminFixture(func(m *MockUserRepository) {
				u := domain.NewUser("u1", "alice@example.com", "@alice", "x")
				u.Balance = 100
				m.Add(u)
			})

			user, err := svc.SetBalance(context.Background(), "u1", tt.balance)
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			if user.Balance != tt.balance {
				t.Errorf("expected balance %d, got %d", tt.balance, user.Balance)
			}

			stored, _ := users.GetByID(context.Background(), "u1")
			if stored.Balance != tt.balance {
				t.Errorf("expected stored balance %d, got %d", tt.balance, stored.Balance)
			}
		})
	}
}

func TestAdminService_CreateFrame(t *testing.T) {
	tests := []struct {
		name    string
		input   CreateFrameInput
		wantErr error
	}{
		{
			name:  "success",
			input: CreateFrameInput{Name: "Crimson Edge", Price: 420, BorderStyle: "crimson"},
		},
		{
			name:  "free frame allowed",
			input: CreateFrameInput{Name: "Plain", Price: 0, BorderStyle: "plain"},
		},
		{
			name:    "missing name",
			input:   CreateFrameInput{Name: "  ", Price: 100},
			wantErr: domain.ErrValidation,
		},
		{
			name:    "negative price",
			input:   CreateFrameInput{Name: "Broken", Price: -5},
			wantErr: domain.ErrValidation,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			svc, _, _, frames, cache := newAdminFixture(nil)
			ctx := context.Background()

			// Warm the frame list cache so creation has something to drop.
			keys := svc.keys
			_ = cache.Set(ctx, keys.FrameList(), []byte("[]"), 0)

			frame, err := svc.CreateFrame(ctx, tt.input)

			if tt.wantErr != nil {
				if !errors.Is(err, tt.wantErr) {
					t.Errorf("expected error %v, got %v", tt.wantErr, err)
				}
				return
			}

			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			if frame.ID == "" {
				t.Error("expected a generated frame id")
			}

			stored, err := frames.GetByID(ctx, frame.ID)
			if err != nil {
				t.Fatalf("frame not persisted: %v", err)
			}
			if stored.Name != tt.input.Name {
				t.Errorf("expected name %s, got %s", tt.input.Name, stored.Name)
			}

			if ok, _ := cache.Exists(ctx, keys.FrameList()); ok {
				t.Error("expected frame list cache invalidated")
			}
		})
	}
}

func TestAdminService_ListUsers(t *testing.T) {
	svc, _, _, _, _ := newAdminFixture(func(m *MockUserRepository) {
		m.Add(domain.NewUser("u1", "alice@example.com", "@alice", "x"))
		m.Add(domain.NewUser("u2", "bob@example.com", "@bob", "x"))
		m.Add(domain.NewUser("u3", "carol@example.com", "@carol", "x"))
	})

	result, err := svc.ListUsers(context.Background(), repository.ListOptions{Search: "ali", Limit: 10})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if result.Total != 1 || len(result.Items) != 1 {
		t.Fatalf("expected 1 match, got total=%d items=%d", result.Total, len(result.Items))
	}
	if result.Items[0].ID != "u1" {
		t.Errorf("expected u1, got %s", result.Items[0].ID)
	}
}
