// Package handler provides HTTP handlers for the Galaxy store API.
package handler

import (
	"encoding/json"
	"errors"
	"net/http"
	"time"

	"github.com/rs/zerolog/log"

	"github.com/galaxy-hub/galaxy/internal/domain"
	"github.com/galaxy-hub/galaxy/internal/service"
)

// errorResponse is the JSON error envelope.
type errorResponse struct {
	Error string `json:"error"`
}

// userView is the public shape of a user. The password hash never
// leaves the domain struct, and the friends and owned sets travel as
// plain id lists.
type userView struct {
	ID          string    `json:"id"`
	Email       string    `json:"email"`
	Username    string    `json:"username"`
	Balance     int64     `json:"balance"`
	Level       int       `json:"level"`
	LevelBand   string    `json:"level_band"`
	IsVerified  bool      `json:"is_verified"`
	IsBanned    bool      `json:"is_banned"`
	IsAdmin     bool      `json:"is_admin"`
	OwnedGames  []string  `json:"owned_games"`
	OwnedFrames []string  `json:"owned_frames"`
	Friends     []string  `json:"friends"`
	ActiveFrame string    `json:"active_frame,omitempty"`
	CreatedAt   time.Time `json:"created_at"`
}

// publicUserView is the shape other users see: no email, no balance.
type publicUserView struct {
	ID          string `json:"id"`
	Username    string `json:"username"`
	Level       int    `json:"level"`
	LevelBand   string `json:"level_band"`
	IsVerified  bool   `json:"is_verified"`
	ActiveFrame string `json:"active_frame,omitempty"`
}

func newUserView(u *domain.User) userView {
	return userView{
		ID:          u.ID,
		Email:       u.Email,
		Username:    u.Username,
		Balance:     u.Balance,
		Level:       u.Level,
		LevelBand:   domain.LevelBand(u.Level),
		IsVerified:  u.IsVerified,
		IsBanned:    u.IsBanned,
		IsAdmin:     u.IsAdmin,
		OwnedGames:  u.OwnedGames,
		OwnedFrames: u.OwnedFrames,
		Friends:     u.Friends,
		ActiveFrame: u.ActiveFrame,
		CreatedAt:   u.CreatedAt,
	}
}

func newPublicUserView(u *domain.User) publicUserView {
	return publicUserView{
		ID:          u.ID,
		Username:    u.Username,
		Level:       u.Level,
		LevelBand:   domain.LevelBand(u.Level),
		IsVerified:  u.IsVerified,
		ActiveFrame: u.ActiveFrame,
	}
}

func newPublicUserViews(users []*domain.User) []publicUserView {
	out := make([]publicUserView, 0, len(users))
	for _, u := range users {
		out = append(out, newPublicUserView(u))
	}
	return out
}

// writeJSON writes a JSON response with the given status code.
func writeJSON(w http.ResponseWriter, status int, v interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if v != nil {
		if err := json.NewEncoder(w).Encode(v); err != nil {
			log.Error().Err(err).Msg("failed to encode response")
		}
	}
}

// writeError maps a service error to an HTTP status and writes the
// JSON error envelope.
func writeError(w http.ResponseWriter, err error) {
	writeJSON(w, statusFor(err), errorResponse{Error: messageFor(err)})
}

// statusFor maps domain errors to HTTP status codes.
func statusFor(err error) int {
	switch {
	case errors.Is(err, domain.ErrValidation),
		errors.Is(err, domain.ErrInvalidEmail),
		errors.Is(err, domain.ErrInvalidUsername),
		errors.Is(err, domain.ErrSelfFriend):
		return http.StatusBadRequest

	case errors.Is(err, domain.ErrSessionNotFound):
		return http.StatusUnauthorized

	case errors.Is(err, domain.ErrWrongPassword),
		errors.Is(err, domain.ErrUserBanned),
		errors.Is(err, domain.ErrAccessDenied):
		return http.StatusForbidden

	case errors.Is(err, domain.ErrUserNotFound),
		errors.Is(err, domain.ErrGameNotFound),
		errors.Is(err, domain.ErrFrameNotFound),
		errors.Is(err, domain.ErrSubmissionNotFound):
		return http.StatusNotFound

	case errors.Is(err, domain.ErrEmailTaken),
		errors.Is(err, domain.ErrUsernameTaken),
		errors.Is(err, domain.ErrAlreadyOwned),
		errors.Is(err, domain.ErrAlreadyFriends),
		errors.Is(err, domain.ErrSubmissionDecided):
		return http.StatusConflict

	case errors.Is(err, domain.ErrInsufficientFunds):
		return http.StatusPaymentRequired

	case errors.Is(err, domain.ErrNotOwned):
		return http.StatusBadRequest

	default:
		return http.StatusInternalServerError
	}
}

// messageFor returns the client-facing message for an error. Internal
// details are never leaked.
func messageFor(err error) string {
	if statusFor(err) == http.StatusInternalServerError {
		return service.ErrInternalError.Error()
	}
	return err.Error()
}

// decodeBody decodes a JSON request body into v.
func decodeBody(r *http.Request, v interface{}) error {
	if err := json.NewDecoder(r.Body).Decode(v); err != nil {
		return domain.NewDomainError(domain.ErrValidation, "malformed JSON body", "")
	}
	return nil
}
