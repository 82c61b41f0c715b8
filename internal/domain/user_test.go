package domain

import "testing"

func TestValidUsername(t *testing.T) {
	tests := []struct {
		username string
		want     bool
	}{
		{"@alice", true},
		{"@A", true},
		{"@ALICE", true},
		{"alice", false},
		{"@", false},
		{"@alice99", false},
		{"@ali ce", false},
		{"@ali_ce", false},
		{"@@alice", false},
		{"", false},
		{"@alice@", false},
	}

	for _, tt := range tests {
		if got := ValidUsername(tt.username); got != tt.want {
			t.Errorf("ValidUsername(%q) = %v, want %v", tt.username, got, tt.want)
		}
	}
}

func TestValidEmail(t *testing.T) {
	tests := []struct {
		email string
		want  bool
	}{
		{"alice@example.com", true},
		{"a.b+c@sub.example.org", true},
		{"alice@example", false},
		{"@example.com", false},
		{"alice@.com", false},
		{"al ice@example.com", false},
		{"alice@exa mple.com", false},
		{"", false},
		{"alice", false},
	}

	for _, tt := range tests {
		if got := ValidEmail(tt.email); got != tt.want {
			t.Errorf("ValidEmail(%q) = %v, want %v", tt.email, got, tt.want)
		}
	}
}

func TestLevelBand(t *testing.T) {
	tests := []struct {
		level int
		want  string
	}{
		{1, "gray"},
		{5, "gray"},
		{6, "red"},
		{10, "red"},
		{11, "green"},
		{15, "green"},
		{16, "purple"},
		{100, "purple"},
	}

	for _, tt := range tests {
		if got := LevelBand(tt.level); got != tt.want {
			t.Errorf("LevelBand(%d) = %s, want %s", tt.level, got, tt.want)
		}
	}
}

func TestNewUserDefaults(t *testing.T) {
	u := NewUser("u1", "alice@example.com", "@alice", "hash")

	if u.Balance != 0 || u.Level != 1 {
		t.Errorf("expected balance 0 and level 1, got %d and %d", u.Balance, u.Level)
	}
	if u.IsVerified || u.IsBanned || u.IsAdmin {
		t.Error("expected all flags false")
	}
	if u.OwnedGames == nil || u.OwnedFrames == nil || u.Friends == nil {
		t.Error("expected empty slices, not nil")
	}
	if !u.CanAuthenticate() {
		t.Error("fresh user should be able to authenticate")
	}

	u.IsBanned = true
	if u.CanAuthenticate() {
		t.Error("banned user should not authenticate")
	}
}

func TestGameCatalog(t *testing.T) {
	games := Catalog()
	if len(games) != 3 {
		t.Fatalf("expected 3 games, got %d", len(games))
	}

	// The returned slice is a copy; mutating it must not leak.
	games[0].Title = "mutated"
	if fresh := Catalog(); fresh[0].Title == "mutated" {
		t.Error("catalog copy leaked a mutation")
	}

	game, err := GameByID("2")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if game.Title != "Neon Racer" || game.Price != 199 {
		t.Errorf("unexpected game: %+v", game)
	}

	if _, err := GameByID("999"); err != ErrGameNotFound {
		t.Errorf("expected ErrGameNotFound, got %v", err)
	}
}
