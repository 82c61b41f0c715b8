// Package main is the entry point for the Galaxy store server.
// Galaxy is a digital storefront with accounts, purchasable games and
// profile frames, a friends list, and administrator moderation.
package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/rs/zerolog"

	"github.com/galaxy-hub/galaxy/internal/cache/memory"
	"github.com/galaxy-hub/galaxy/internal/cache/redis"
	"github.com/galaxy-hub/galaxy/internal/config"
	"github.com/galaxy-hub/galaxy/internal/handler"
	"github.com/galaxy-hub/galaxy/internal/repository"
	"github.com/galaxy-hub/galaxy/internal/repository/postgres"
	"github.com/galaxy-hub/galaxy/internal/repository/sqlite"
	"github.com/galaxy-hub/galaxy/internal/seed"
	"github.com/galaxy-hub/galaxy/internal/service"
	"github.com/galaxy-hub/galaxy/internal/snapshot"
)

// Version information (set at build time)
var (
	Version   = "dev"
	BuildTime = "unknown"
	GitCommit = "unknown"
)

func main() {
	configPath := flag.String("config", "", "path to config file")
	flag.Parse()

	cfg := config.MustLoad(*configPath)
	logger := newLogger(cfg.Logging)

	logger.Info().
		Str("version", Version).
		Str("build_time", BuildTime).
		Str("git_commit", GitCommit).
		Msg("starting Galaxy server")

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := run(ctx, cfg, logger); err != nil {
		logger.Fatal().Err(err).Msg("server failed")
	}
}

func run(ctx context.Context, cfg *config.Config, logger zerolog.Logger) error {
	// Database
	repos, db, err := newRepositories(ctx, cfg, logger)
	if err != nil {
		return err
	}
	defer db.Close()

	// Cache: Redis when configured, in-process otherwise.
	var cache repository.Cache
	if cfg.Redis.Enabled {
		redisCache, err := redis.NewCache(ctx, cfg.Redis, logger)
		if err != nil {
			return err
		}
		defer redisCache.Close()
		cache = redisCache
	} else {
		memCache := memory.NewCache()
		defer memCache.Stop()
		cache = memCache
		logger.Info().Msg("using in-memory cache")
	}

	// First-run provisioning.
	if err := seed.Run(ctx, repos, cfg.Seed, logger); err != nil {
		return err
	}

	// Services
	sessionSvc := service.NewSessionService(cache, cfg.Session.TTL, logger)
	accountSvc := service.NewAccountService(repos.User, sessionSvc, logger)
	storeSvc := service.NewStoreService(repos.User, repos.Frame, cache, logger)
	socialSvc := service.NewSocialService(repos.User, logger)
	submissionSvc := service.NewSubmissionService(repos.Submission, logger)
	adminSvc := service.NewAdminService(repos.User, repos.Frame, sessionSvc, cache, logger)

	// Dedicated metrics listener, separate from the API port.
	if cfg.Metrics.Enabled {
		go serveMetrics(ctx, cfg.Metrics, logger)
	}

	// Snapshot loop
	if cfg.Snapshot.Enabled {
		store, err := newSnapshotStore(ctx, cfg.Snapshot)
		if err != nil {
			return err
		}
		snapshotter := snapshot.NewSnapshotter(repos, store, logger)
		go snapshotter.Run(ctx, cfg.Snapshot.Interval)
	}

	router := handler.NewRouter(handler.RouterConfig{
		Accounts:    accountSvc,
		Sessions:    sessionSvc,
		Store:       storeSvc,
		Social:      socialSvc,
		Submissions: submissionSvc,
		Admin:       adminSvc,
		Database:    db,
		Logger:      logger,
	})

	server := &http.Server{
		Addr:         cfg.Server.Addr(),
		Handler:      router,
		ReadTimeout:  cfg.Server.ReadTimeout,
		WriteTimeout: cfg.Server.WriteTimeout,
		IdleTimeout:  cfg.Server.IdleTimeout,
	}

	errCh := make(chan error, 1)
	go func() {
		logger.Info().Str("addr", server.Addr).Msg("HTTP server listening")
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
	}()

	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
	}

	logger.Info().Msg("shutting down")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.Server.ShutdownTimeout)
	defer cancel()

	if err := server.Shutdown(shutdownCtx); err != nil {
		return err
	}

	logger.Info().Msg("server stopped")
	return nil
}

// newRepositories builds the repository set for the configured driver.
func newRepositories(ctx context.Context, cfg *config.Config, logger zerolog.Logger) (*repository.Repositories, repository.DatabaseHealth, error) {
	switch cfg.Database.Driver {
	case "postgres":
		db, err := postgres.NewDB(ctx, cfg.Database, logger)
		if err != nil {
			return nil, nil, err
		}
		if err := db.Migrate(ctx); err != nil {
			_ = db.Close()
			return nil, nil, err
		}
		return &repository.Repositories{
			User:       postgres.NewUserRepository(db),
			Frame:      postgres.NewFrameRepository(db),
			Submission: postgres.NewSubmissionRepository(db),
		}, db, nil

	default:
		sqliteCfg := sqlite.DefaultConfig(cfg.Database.Path)
		sqliteCfg.JournalMode = cfg.Database.JournalMode
		sqliteCfg.BusyTimeout = cfg.Database.BusyTimeout
		sqliteCfg.SynchronousMode = cfg.Database.SynchronousMode

		db, err := sqlite.NewDB(ctx, sqliteCfg, logger)
		if err != nil {
			return nil, nil, err
		}
		if err := db.Migrate(ctx); err != nil {
			_ = db.Close()
			return nil, nil, err
		}
		return &repository.Repositories{
			User:       sqlite.NewUserRepository(db),
			Frame:      sqlite.NewFrameRepository(db),
			Submission: sqlite.NewSubmissionRepository(db),
		}, db, nil
	}
}

// newSnapshotStore builds the snapshot blob store for the configured backend.
func newSnapshotStore(ctx context.Context, cfg config.SnapshotConfig) (snapshot.Store, error) {
	if cfg.Backend == "s3" {
		return snapshot.NewS3Store(ctx, cfg.S3)
	}
	return snapshot.NewFSStore(cfg.Dir)
}

// serveMetrics runs the Prometheus scrape endpoint until the context
// is cancelled.
func serveMetrics(ctx context.Context, cfg config.MetricsConfig, logger zerolog.Logger) {
	mux := http.NewServeMux()
	mux.Handle(cfg.Path, promhttp.Handler())

	server := &http.Server{
		Addr:    fmt.Sprintf(":%d", cfg.Port),
		Handler: mux,
	}

	go func() {
		<-ctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		_ = server.Shutdown(shutdownCtx)
	}()

	logger.Info().Str("addr", server.Addr).Str("path", cfg.Path).Msg("metrics server listening")
	if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		logger.Error().Err(err).Msg("metrics server failed")
	}
}

// newLogger configures zerolog from the logging settings.
func newLogger(cfg config.LoggingConfig) zerolog.Logger {
	level, err := zerolog.ParseLevel(strings.ToLower(cfg.Level))
	if err != nil {
		level = zerolog.InfoLevel
	}

	zerolog.TimeFieldFormat = cfg.TimeFormat

	var logger zerolog.Logger
	if cfg.Format == "console" {
		logger = zerolog.New(zerolog.ConsoleWriter{Out: os.Stderr, TimeFormat: time.RFC3339})
	} else {
		logger = zerolog.New(os.Stdout)
	}

	return logger.Level(level).With().Timestamp().Logger()
}
