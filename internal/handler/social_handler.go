package handler

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/rs/zerolog"

	"github.com/galaxy-hub/galaxy/internal/service"
)

// SocialHandler handles the friends list and user search.
type SocialHandler struct {
	social *service.SocialService
	logger zerolog.Logger
}

// NewSocialHandler creates a new SocialHandler.
func NewSocialHandler(social *service.SocialService, logger zerolog.Logger) *SocialHandler {
	return &SocialHandler{
		social: social,
		logger: logger.With().Str("handler", "social").Logger(),
	}
}

// RegisterRoutes registers session-protected routes.
func (h *SocialHandler) RegisterRoutes(r chi.Router) {
	r.Get("/friends", h.handleListFriends)
	r.Post("/friends/{id}", h.handleAddFriend)
	r.Delete("/friends/{id}", h.handleRemoveFriend)
	r.Get("/users/search", h.handleSearch)
}

func (h *SocialHandler) handleListFriends(w http.ResponseWriter, r *http.Request) {
	friends, err := h.social.Friends(r.Context(), UserID(r.Context()))
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, newPublicUserViews(friends))
}

func (h *SocialHandler) handleAddFriend(w http.ResponseWriter, r *http.Request) {
	user, err := h.social.AddFriend(r.Context(), UserID(r.Context()), chi.URLParam(r, "id"))
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, newUserView(user))
}

func (h *SocialHandler) handleRemoveFriend(w http.ResponseWriter, r *http.Request) {
	user, err := h.social.RemoveFriend(r.Context(), UserID(r.Context()), chi.URLParam(r, "id"))
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, newUserView(user))
}

func (h *SocialHandler) handleSearch(w http.ResponseWriter, r *http.Request) {
	results, err := h.social.Search(r.Context(), UserID(r.Context()), r.URL.Query().Get("q"))
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, newPublicUserViews(results))
}
