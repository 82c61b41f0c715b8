package handler

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/rs/zerolog"

	"github.com/galaxy-hub/galaxy/internal/metrics"
	"github.com/galaxy-hub/galaxy/internal/service"
)

// StoreHandler handles the catalog and purchases.
type StoreHandler struct {
	store  *service.StoreService
	logger zerolog.Logger
}

// NewStoreHandler creates a new StoreHandler.
func NewStoreHandler(store *service.StoreService, logger zerolog.Logger) *StoreHandler {
	return &StoreHandler{
		store:  store,
		logger: logger.With().Str("handler", "store").Logger(),
	}
}

// RegisterPublicRoutes registers the catalog browsing routes. The
// storefront is visible without a session; buying requires one.
func (h *StoreHandler) RegisterPublicRoutes(r chi.Router) {
	r.Get("/games", h.handleListGames)
	r.Get("/games/{id}", h.handleGetGame)
	r.Get("/frames", h.handleListFrames)
}

// RegisterRoutes registers session-protected routes.
func (h *StoreHandler) RegisterRoutes(r chi.Router) {
	r.Post("/games/{id}/purchase", h.handlePurchaseGame)
	r.Post("/frames/{id}/purchase", h.handlePurchaseFrame)
	r.Put("/me/frame", h.handleSetActiveFrame)
	r.Get("/me/library", h.handleLibrary)
}

func (h *StoreHandler) handleListGames(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, h.store.Games(r.Context()))
}

func (h *StoreHandler) handleGetGame(w http.ResponseWriter, r *http.Request) {
	game, err := h.store.Game(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, game)
}

func (h *StoreHandler) handleListFrames(w http.ResponseWriter, r *http.Request) {
	frames, err := h.store.Frames(r.Context())
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, frames)
}

func (h *StoreHandler) handlePurchaseGame(w http.ResponseWriter, r *http.Request) {
	user, err := h.store.PurchaseGame(r.Context(), UserID(r.Context()), chi.URLParam(r, "id"))
	if err != nil {
		writeError(w, err)
		return
	}
	metrics.PurchasesTotal.WithLabelValues("game").Inc()
	writeJSON(w, http.StatusOK, newUserView(user))
}

func (h *StoreHandler) handlePurchaseFrame(w http.ResponseWriter, r *http.Request) {
	user, err := h.store.PurchaseFrame(r.Context(), UserID(r.Context()), chi.URLParam(r, "id"))
	if err != nil {
		writeError(w, err)
		return
	}
	metrics.PurchasesTotal.WithLabelValues("frame").Inc()
	writeJSON(w, http.StatusOK, newUserView(user))
}

type setActiveFrameRequest struct {
	FrameID string `json:"frame_id"`
}

func (h *StoreHandler) handleSetActiveFrame(w http.ResponseWriter, r *http.Request) {
	var req setActiveFrameRequest
	if err := decodeBody(r, &req); err != nil {
		writeError(w, err)
		return
	}

	user, err := h.store.SetActiveFrame(r.Context(), UserID(r.Context()), req.FrameID)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, newUserView(user))
}

func (h *StoreHandler) handleLibrary(w http.ResponseWriter, r *http.Request) {
	lib, err := h.store.UserLibrary(r.Context(), UserID(r.Context()))
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, lib)
}
