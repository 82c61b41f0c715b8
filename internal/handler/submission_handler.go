package handler

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/rs/zerolog"

	"github.com/galaxy-hub/galaxy/internal/metrics"
	"github.com/galaxy-hub/galaxy/internal/service"
)

// SubmissionHandler handles the user side of the game publishing flow.
type SubmissionHandler struct {
	submissions *service.SubmissionService
	logger      zerolog.Logger
}

// NewSubmissionHandler creates a new SubmissionHandler.
func NewSubmissionHandler(submissions *service.SubmissionService, logger zerolog.Logger) *SubmissionHandler {
	return &SubmissionHandler{
		submissions: submissions,
		logger:      logger.With().Str("handler", "submission").Logger(),
	}
}

// RegisterRoutes registers session-protected routes.
func (h *SubmissionHandler) RegisterRoutes(r chi.Router) {
	r.Post("/submissions", h.handleSubmit)
	r.Get("/submissions/mine", h.handleListMine)
}

type submitRequest struct {
	Title        string `json:"title"`
	Description  string `json:"description"`
	Theme        string `json:"theme"`
	AgeRating    string `json:"age_rating"`
	Price        int64  `json:"price"`
	ContactEmail string `json:"contact_email"`
}

func (h *SubmissionHandler) handleSubmit(w http.ResponseWriter, r *http.Request) {
	var req submitRequest
	if err := decodeBody(r, &req); err != nil {
		writeError(w, err)
		return
	}

	sub, err := h.submissions.Submit(r.Context(), UserID(r.Context()), service.SubmitInput{
		Title:        req.Title,
		Description:  req.Description,
		Theme:        req.Theme,
		AgeRating:    req.AgeRating,
		Price:        req.Price,
		ContactEmail: req.ContactEmail,
	})
	if err != nil {
		writeError(w, err)
		return
	}

	metrics.SubmissionsTotal.Inc()
	writeJSON(w, http.StatusCreated, sub)
}

func (h *SubmissionHandler) handleListMine(w http.ResponseWriter, r *http.Request) {
	subs, err := h.submissions.ListBySubmitter(r.Context(), UserID(r.Context()))
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, subs)
}
