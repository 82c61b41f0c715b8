package handler

import (
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"
	"github.com/rs/zerolog"

	"github.com/galaxy-hub/galaxy/internal/domain"
	"github.com/galaxy-hub/galaxy/internal/metrics"
	"github.com/galaxy-hub/galaxy/internal/repository"
	"github.com/galaxy-hub/galaxy/internal/service"
)

// AdminHandler handles moderation and user management. Every route is
// behind AdminMiddleware.
type AdminHandler struct {
	admin       *service.AdminService
	submissions *service.SubmissionService
	logger      zerolog.Logger
}

// NewAdminHandler creates a new AdminHandler.
func NewAdminHandler(admin *service.AdminService, submissions *service.SubmissionService, logger zerolog.Logger) *AdminHandler {
	return &AdminHandler{
		admin:       admin,
		submissions: submissions,
		logger:      logger.With().Str("handler", "admin").Logger(),
	}
}

// RegisterRoutes registers admin routes.
func (h *AdminHandler) RegisterRoutes(r chi.Router) {
	r.Get("/users", h.handleListUsers)
	r.Patch("/users/{id}/verify", h.handleSetVerified)
	r.Patch("/users/{id}/ban", h.handleSetBanned)
	r.Patch("/users/{id}/balance", h.handleSetBalance)

	r.Post("/frames", h.handleCreateFrame)

	r.Get("/submissions", h.handleListSubmissions)
	r.Post("/submissions/{id}/approve", h.handleApprove)
	r.Post("/submissions/{id}/reject", h.handleReject)
}

type userListResponse struct {
	Users  []userView `json:"users"`
	Total  int64      `json:"total"`
	Offset int        `json:"offset"`
	Limit  int        `json:"limit"`
}

func (h *AdminHandler) handleListUsers(w http.ResponseWriter, r *http.Request) {
	query := r.URL.Query()
	offset, _ := strconv.Atoi(query.Get("offset"))
	limit, _ := strconv.Atoi(query.Get("limit"))
	if limit <= 0 || limit > 100 {
		limit = 50
	}

	result, err := h.admin.ListUsers(r.Context(), repository.ListOptions{
		Offset: offset,
		Limit:  limit,
		Search: query.Get("search"),
	})
	if err != nil {
		writeError(w, err)
		return
	}

	resp := userListResponse{
		Users:  make([]userView, 0, len(result.Items)),
		Total:  result.Total,
		Offset: result.Offset,
		Limit:  result.Limit,
	}
	for _, u := range result.Items {
		resp.Users = append(resp.Users, newUserView(u))
	}
	writeJSON(w, http.StatusOK, resp)
}

type setFlagRequest struct {
	Value bool `json:"value"`
}

func (h *AdminHandler) handleSetVerified(w http.ResponseWriter, r *http.Request) {
	var req setFlagRequest
	if err := decodeBody(r, &req); err != nil {
		writeError(w, err)
		return
	}

	user, err := h.admin.SetVerified(r.Context(), chi.URLParam(r, "id"), req.Value)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, newUserView(user))
}

func (h *AdminHandler) handleSetBanned(w http.ResponseWriter, r *http.Request) {
	var req setFlagRequest
	if err := decodeBody(r, &req); err != nil {
		writeError(w, err)
		return
	}

	user, err := h.admin.SetBanned(r.Context(), chi.URLParam(r, "id"), req.Value)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, newUserView(user))
}

type setBalanceRequest struct {
	Balance int64 `json:"balance"`
}

func (h *AdminHandler) handleSetBalance(w http.ResponseWriter, r *http.Request) {
	var req setBalanceRequest
	if err := decodeBody(r, &req); err != nil {
		writeError(w, err)
		return
	}

	user, err := h.admin.SetBalance(r.Context(), chi.URLParam(r, "id"), req.Balance)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, newUserView(user))
}

type createFrameRequest struct {
	Name        string `json:"name"`
	Price       int64  `json:"price"`
	BorderStyle string `json:"border_style"`
}

func (h *AdminHandler) handleCreateFrame(w http.ResponseWriter, r *http.Request) {
	var req createFrameRequest
	if err := decodeBody(r, &req); err != nil {
		writeError(w, err)
		return
	}

	frame, err := h.admin.CreateFrame(r.Context(), service.CreateFrameInput{
		Name:        req.Name,
		Price:       req.Price,
		BorderStyle: req.BorderStyle,
	})
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, frame)
}

func (h *AdminHandler) handleListSubmissions(w http.ResponseWriter, r *http.Request) {
	status := domain.SubmissionStatus(r.URL.Query().Get("status"))
	subs, err := h.submissions.List(r.Context(), status)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, subs)
}

func (h *AdminHandler) handleApprove(w http.ResponseWriter, r *http.Request) {
	sub, err := h.submissions.Approve(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		writeError(w, err)
		return
	}
	metrics.SubmissionDecisionsTotal.WithLabelValues(string(domain.SubmissionApproved)).Inc()
	writeJSON(w, http.StatusOK, sub)
}

func (h *AdminHandler) handleReject(w http.ResponseWriter, r *http.Request) {
	sub, err := h.submissions.Reject(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		writeError(w, err)
		return
	}
	metrics.SubmissionDecisionsTotal.WithLabelValues(string(domain.SubmissionRejected)).Inc()
	writeJSON(w, http.StatusOK, sub)
}
