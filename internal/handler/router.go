package handler

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/rs/zerolog"

	"github.com/galaxy-hub/galaxy/internal/repository"
	"github.com/galaxy-hub/galaxy/internal/service"
)

// RouterConfig contains everything the router needs to assemble the API.
type RouterConfig struct {
	Accounts    *service.AccountService
	Sessions    *service.SessionService
	Store       *service.StoreService
	Social      *service.SocialService
	Submissions *service.SubmissionService
	Admin       *service.AdminService
	Database    repository.DatabaseHealth
	Logger      zerolog.Logger
}

// NewRouter assembles the HTTP API.
//
// Route map:
//
//	/health, /metrics             no session
//	/api/auth/*, catalog reads    no session
//	/api/...                      session required
//	/api/admin/...                session + admin flag required
func NewRouter(cfg RouterConfig) http.Handler {
	authHandler := NewAuthHandler(cfg.Accounts, cfg.Logger)
	storeHandler := NewStoreHandler(cfg.Store, cfg.Logger)
	socialHandler := NewSocialHandler(cfg.Social, cfg.Logger)
	submissionHandler := NewSubmissionHandler(cfg.Submissions, cfg.Logger)
	adminHandler := NewAdminHandler(cfg.Admin, cfg.Submissions, cfg.Logger)

	r := chi.NewRouter()
	r.Use(middleware.RequestID)
	r.Use(middleware.Recoverer)
	r.Use(RequestLogger(cfg.Logger))

	r.Get("/health", handleHealth(cfg.Database))
	r.Handle("/metrics", promhttp.Handler())

	r.Route("/api", func(r chi.Router) {
		// Public surface: registration, login, catalog browsing.
		authHandler.RegisterPublicRoutes(r)
		storeHandler.RegisterPublicRoutes(r)

		// Everything else needs a live session.
		r.Group(func(r chi.Router) {
			r.Use(AuthMiddleware(cfg.Sessions))

			authHandler.RegisterRoutes(r)
			storeHandler.RegisterRoutes(r)
			socialHandler.RegisterRoutes(r)
			submissionHandler.RegisterRoutes(r)

			r.Route("/admin", func(r chi.Router) {
				r.Use(AdminMiddleware(cfg.Accounts))
				adminHandler.RegisterRoutes(r)
			})
		})
	})

	return r
}

type healthResponse struct {
	Status   string `json:"status"`
	Database string `json:"database"`
}

func handleHealth(db repository.DatabaseHealth) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		resp := healthResponse{Status: "healthy", Database: "up"}
		status := http.StatusOK

		if db != nil {
			if err := db.Ping(r.Context()); err != nil {
				resp.Status = "degraded"
				resp.Database = "down"
				status = http.StatusServiceUnavailable
			}
		}

		writeJSON(w, status, resp)
	}
}
