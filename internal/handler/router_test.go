package handler

import (
	"bytes"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/galaxy-hub/galaxy/internal/domain"
)

func (e *testEnv) do(t *testing.T, method, path, token string, body interface{}) *httptest.ResponseRecorder {
	t.Helper()

	var buf bytes.Buffer
	if body != nil {
		require.NoError(t, json.NewEncoder(&buf).Encode(body))
	}

	req := httptest.NewRequest(method, path, &buf)
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}

	rec := httptest.NewRecorder()
	e.router.ServeHTTP(rec, req)
	return rec
}

func decode(t *testing.T, rec *httptest.ResponseRecorder, v interface{}) {
	t.Helper()
	require.NoError(t, json.NewDecoder(rec.Body).Decode(v))
}

// register creates an account via the API and returns its view and token.
func (e *testEnv) register(t *testing.T, email, username string) (userView, string) {
	t.Helper()
	rec := e.do(t, http.MethodPost, "/api/auth/register", "", map[string]string{
		"email":    email,
		"username": username,
		"password": "secret",
	})
	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())

	var resp sessionResponse
	decode(t, rec, &resp)
	return resp.User, resp.Token
}

// registerAdmin provisions an admin account directly and logs it in.
func (e *testEnv) registerAdmin(t *testing.T) (userView, string) {
	t.Helper()
	admin, token := e.register(t, "admin@galaxy.local", "@admin")

	stored, err := e.users.GetByID(t.Context(), admin.ID)
	require.NoError(t, err)
	stored.IsAdmin = true
	require.NoError(t, e.users.Update(t.Context(), stored))

	admin.IsAdmin = true
	return admin, token
}

func TestRouter_Health(t *testing.T) {
	env := newTestEnv()
	rec := env.do(t, http.MethodGet, "/health", "", nil)
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), "healthy")
}

func TestRouter_AuthRequired(t *testing.T) {
	env := newTestEnv()

	paths := []struct {
		method string
		path   string
	}{
		{http.MethodGet, "/api/me"},
		{http.MethodGet, "/api/me/library"},
		{http.MethodGet, "/api/friends"},
		{http.MethodPost, "/api/games/1/purchase"},
		{http.MethodGet, "/api/admin/users"},
	}

	for _, p := range paths {
		rec := env.do(t, p.method, p.path, "", nil)
		assert.Equal(t, http.StatusUnauthorized, rec.Code, "%s %s", p.method, p.path)
	}
}

func TestRouter_CatalogIsPublic(t *testing.T) {
	env := newTestEnv()

	rec := env.do(t, http.MethodGet, "/api/games", "", nil)
	require.Equal(t, http.StatusOK, rec.Code)

	var games []domain.Game
	decode(t, rec, &games)
	require.Len(t, games, 3)
	assert.Equal(t, "Cyber Runner", games[0].Title)
	assert.Equal(t, int64(299), games[0].Price)

	rec = env.do(t, http.MethodGet, "/api/games/2", "", nil)
	require.Equal(t, http.StatusOK, rec.Code)

	rec = env.do(t, http.MethodGet, "/api/games/999", "", nil)
	assert.Equal(t, http.StatusNotFound, rec.Code)
}

func TestRouter_RegisterAndLogin(t *testing.T) {
	env := newTestEnv()

	user, token := env.register(t, "alice@example.com", "@alice")
	assert.Equal(t, "@alice", user.Username)
	assert.Equal(t, int64(0), user.Balance)
	assert.Equal(t, 1, user.Level)
	assert.Equal(t, "gray", user.LevelBand)

	// The registration token works immediately.
	rec := env.do(t, http.MethodGet, "/api/me", token, nil)
	require.Equal(t, http.StatusOK, rec.Code)

	// Duplicate email, case shifted.
	rec = env.do(t, http.MethodPost, "/api/auth/register", "", map[string]string{
		"email":    "ALICE@example.com",
		"username": "@other",
		"password": "secret",
	})
	assert.Equal(t, http.StatusConflict, rec.Code)

	// Bad username shape.
	rec = env.do(t, http.MethodPost, "/api/auth/register", "", map[string]string{
		"email":    "bob@example.com",
		"username": "bob",
		"password": "secret",
	})
	assert.Equal(t, http.StatusBadRequest, rec.Code)

	// Fresh login.
	rec = env.do(t, http.MethodPost, "/api/auth/login", "", map[string]string{
		"email":    "alice@example.com",
		"password": "secret",
	})
	require.Equal(t, http.StatusOK, rec.Code)

	// Wrong password.
	rec = env.do(t, http.MethodPost, "/api/auth/login", "", map[string]string{
		"email":    "alice@example.com",
		"password": "nope",
	})
	assert.Equal(t, http.StatusForbidden, rec.Code)

	// Unknown account.
	rec = env.do(t, http.MethodPost, "/api/auth/login", "", map[string]string{
		"email":    "ghost@example.com",
		"password": "secret",
	})
	assert.Equal(t, http.StatusNotFound, rec.Code)
}

func TestRouter_PurchaseFlow(t *testing.T) {
	env := newTestEnv()
	_, adminToken := env.registerAdmin(t)
	user, token := env.register(t, "alice@example.com", "@alice")

	// Broke: payment required.
	rec := env.do(t, http.MethodPost, "/api/games/1/purchase", token, nil)
	assert.Equal(t, http.StatusPaymentRequired, rec.Code)

	// Admin grants funds.
	rec = env.do(t, http.MethodPatch, fmt.Sprintf("/api/admin/users/%s/balance", user.ID), adminToken, map[string]int64{"balance": 500})
	require.Equal(t, http.StatusOK, rec.Code)

	// Purchase succeeds: balance 500-299=201, level 2, game owned.
	rec = env.do(t, http.MethodPost, "/api/games/1/purchase", token, nil)
	require.Equal(t, http.StatusOK, rec.Code)

	var view userView
	decode(t, rec, &view)
	assert.Equal(t, int64(201), view.Balance)
	assert.Equal(t, 2, view.Level)
	assert.Equal(t, []string{"1"}, view.OwnedGames)

	// Repeat purchase with funds left: conflict, nothing charged.
	rec = env.do(t, http.MethodPost, "/api/games/1/purchase", token, nil)
	assert.Equal(t, http.StatusConflict, rec.Code)

	rec = env.do(t, http.MethodGet, "/api/me", token, nil)
	require.Equal(t, http.StatusOK, rec.Code)
	decode(t, rec, &view)
	assert.Equal(t, int64(201), view.Balance)
	assert.Equal(t, 2, view.Level)

	// Library resolves the purchase.
	rec = env.do(t, http.MethodGet, "/api/me/library", token, nil)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), "Cyber Runner")
}

func TestRouter_FrameFlow(t *testing.T) {
	env := newTestEnv()
	_, adminToken := env.registerAdmin(t)
	user, token := env.register(t, "alice@example.com", "@alice")

	// Admin creates a frame; it is purchasable immediately.
	rec := env.do(t, http.MethodPost, "/api/admin/frames", adminToken, map[string]interface{}{
		"name":         "Crimson Edge",
		"price":        100,
		"border_style": "crimson",
	})
	require.Equal(t, http.StatusCreated, rec.Code)

	var frame domain.Frame
	decode(t, rec, &frame)
	require.NotEmpty(t, frame.ID)

	rec = env.do(t, http.MethodGet, "/api/frames", "", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), "Crimson Edge")

	env.do(t, http.MethodPatch, fmt.Sprintf("/api/admin/users/%s/balance", user.ID), adminToken, map[string]int64{"balance": 150})

	rec = env.do(t, http.MethodPost, "/api/frames/"+frame.ID+"/purchase", token, nil)
	require.Equal(t, http.StatusOK, rec.Code)

	var view userView
	decode(t, rec, &view)
	assert.Equal(t, int64(50), view.Balance)
	assert.Equal(t, 2, view.Level)

	// Activate the owned frame.
	rec = env.do(t, http.MethodPut, "/api/me/frame", token, map[string]string{"frame_id": frame.ID})
	require.Equal(t, http.StatusOK, rec.Code)
	decode(t, rec, &view)
	assert.Equal(t, frame.ID, view.ActiveFrame)

	// Activating an unowned frame fails.
	rec = env.do(t, http.MethodPut, "/api/me/frame", token, map[string]string{"frame_id": "frame-unowned"})
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestRouter_FriendsFlow(t *testing.T) {
	env := newTestEnv()
	alice, aliceToken := env.register(t, "alice@example.com", "@alice")
	bob, bobToken := env.register(t, "bob@example.com", "@bob")

	// Alice adds Bob.
	rec := env.do(t, http.MethodPost, "/api/friends/"+bob.ID, aliceToken, nil)
	require.Equal(t, http.StatusOK, rec.Code)

	var view userView
	decode(t, rec, &view)
	assert.Equal(t, []string{bob.ID}, view.Friends)

	// One-directional: Bob's list stays empty.
	rec = env.do(t, http.MethodGet, "/api/friends", bobToken, nil)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "[]\n", rec.Body.String())

	// Self-friend rejected.
	rec = env.do(t, http.MethodPost, "/api/friends/"+alice.ID, aliceToken, nil)
	assert.Equal(t, http.StatusBadRequest, rec.Code)

	// Duplicate add rejected.
	rec = env.do(t, http.MethodPost, "/api/friends/"+bob.ID, aliceToken, nil)
	assert.Equal(t, http.StatusConflict, rec.Code)

	// Search ranks verified accounts first.
	carol, _ := env.register(t, "carol@example.com", "@carol")
	_, adminToken := env.registerAdmin(t)
	rec = env.do(t, http.MethodPatch, "/api/admin/users/"+carol.ID+"/verify", adminToken, map[string]bool{"value": true})
	require.Equal(t, http.StatusOK, rec.Code)

	rec = env.do(t, http.MethodGet, "/api/users/search?q=", aliceToken, nil)
	require.Equal(t, http.StatusOK, rec.Code)

	var results []publicUserView
	decode(t, rec, &results)
	require.Len(t, results, 3)
	assert.Equal(t, "@carol", results[0].Username)
	assert.True(t, results[0].IsVerified)
	assert.Equal(t, "@bob", results[1].Username)
	assert.Equal(t, "@admin", results[2].Username)

	// Remove is one-sided and idempotent.
	rec = env.do(t, http.MethodDelete, "/api/friends/"+bob.ID, aliceToken, nil)
	require.Equal(t, http.StatusOK, rec.Code)
	rec = env.do(t, http.MethodDelete, "/api/friends/"+bob.ID, aliceToken, nil)
	require.Equal(t, http.StatusOK, rec.Code)
}

func TestRouter_SubmissionFlow(t *testing.T) {
	env := newTestEnv()
	_, adminToken := env.registerAdmin(t)
	_, token := env.register(t, "alice@example.com", "@alice")

	submission := map[string]interface{}{
		"title":         "Star Miner",
		"description":   "Mine asteroids across the belt",
		"theme":         "Simulation",
		"age_rating":    "6+",
		"price":         250,
		"contact_email": "dev@studio.example",
	}

	rec := env.do(t, http.MethodPost, "/api/submissions", token, submission)
	require.Equal(t, http.StatusCreated, rec.Code)

	var sub domain.GameSubmission
	decode(t, rec, &sub)
	assert.Equal(t, domain.SubmissionPending, sub.Status)

	// Invalid submission rejected.
	bad := map[string]interface{}{"title": "", "description": "x"}
	rec = env.do(t, http.MethodPost, "/api/submissions", token, bad)
	assert.Equal(t, http.StatusBadRequest, rec.Code)

	// Non-admin cannot moderate.
	rec = env.do(t, http.MethodPost, "/api/admin/submissions/"+sub.ID+"/approve", token, nil)
	assert.Equal(t, http.StatusForbidden, rec.Code)

	// Admin approves once; the second decision conflicts.
	rec = env.do(t, http.MethodPost, "/api/admin/submissions/"+sub.ID+"/approve", adminToken, nil)
	require.Equal(t, http.StatusOK, rec.Code)
	decode(t, rec, &sub)
	assert.Equal(t, domain.SubmissionApproved, sub.Status)
	require.NotNil(t, sub.DecidedAt)

	rec = env.do(t, http.MethodPost, "/api/admin/submissions/"+sub.ID+"/reject", adminToken, nil)
	assert.Equal(t, http.StatusConflict, rec.Code)

	// The submitter sees their submission.
	rec = env.do(t, http.MethodGet, "/api/submissions/mine", token, nil)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), "Star Miner")
}

func TestRouter_BanRevokesSession(t *testing.T) {
	env := newTestEnv()
	_, adminToken := env.registerAdmin(t)
	alice, aliceToken := env.register(t, "alice@example.com", "@alice")

	rec := env.do(t, http.MethodPatch, fmt.Sprintf("/api/admin/users/%s/ban", alice.ID), adminToken, map[string]bool{"value": true})
	require.Equal(t, http.StatusOK, rec.Code)

	// Alice's session is dead.
	rec = env.do(t, http.MethodGet, "/api/me", aliceToken, nil)
	assert.Equal(t, http.StatusUnauthorized, rec.Code)

	// And she cannot log back in.
	rec = env.do(t, http.MethodPost, "/api/auth/login", "", map[string]string{
		"email":    "alice@example.com",
		"password": "secret",
	})
	assert.Equal(t, http.StatusForbidden, rec.Code)
}

func TestRouter_AdminSelfBan(t *testing.T) {
	env := newTestEnv()
	admin, adminToken := env.registerAdmin(t)

	rec := env.do(t, http.MethodPatch, fmt.Sprintf("/api/admin/users/%s/ban", admin.ID), adminToken, map[string]bool{"value": true})
	require.Equal(t, http.StatusOK, rec.Code)

	// The admin's own session is revoked by the same path.
	rec = env.do(t, http.MethodGet, "/api/me", adminToken, nil)
	assert.Equal(t, http.StatusUnauthorized, rec.Code)
}

func TestRouter_AdminGate(t *testing.T) {
	env := newTestEnv()
	user, token := env.register(t, "alice@example.com", "@alice")

	rec := env.do(t, http.MethodGet, "/api/admin/users", token, nil)
	assert.Equal(t, http.StatusForbidden, rec.Code)

	rec = env.do(t, http.MethodPatch, fmt.Sprintf("/api/admin/users/%s/balance", user.ID), token, map[string]int64{"balance": 9999})
	assert.Equal(t, http.StatusForbidden, rec.Code)
}

func TestRouter_Logout(t *testing.T) {
	env := newTestEnv()
	_, token := env.register(t, "alice@example.com", "@alice")

	rec := env.do(t, http.MethodPost, "/api/auth/logout", token, nil)
	require.Equal(t, http.StatusNoContent, rec.Code)

	rec = env.do(t, http.MethodGet, "/api/me", token, nil)
	assert.Equal(t, http.StatusUnauthorized, rec.Code)
}

func TestRouter_Rename(t *testing.T) {
	env := newTestEnv()
	_, aliceToken := env.register(t, "alice@example.com", "@alice")
	_, _ = env.register(t, "bob@example.com", "@bob")

	rec := env.do(t, http.MethodPatch, "/api/me/username", aliceToken, map[string]string{"username": "@alicia"})
	require.Equal(t, http.StatusOK, rec.Code)

	var view userView
	decode(t, rec, &view)
	assert.Equal(t, "@alicia", view.Username)

	rec = env.do(t, http.MethodPatch, "/api/me/username", aliceToken, map[string]string{"username": "@BOB"})
	assert.Equal(t, http.StatusConflict, rec.Code)
}
