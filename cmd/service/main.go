// cmd/service/main.go
package main

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/golang-migrate/migrate/v4"
	_ "github.com/golang-migrate/migrate/v4/database/postgres"
	_ "github.com/golang-migrate/migrate/v4/source/file"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github-portfolio/internal/api"
	"github-portfolio/internal/auth"
	"github-portfolio/internal/cache"
	"github-portfolio/internal/config"
	"github-portfolio/internal/database"
	"github-portfolio/internal/github"
	"github-portfolio/internal/identity"
	"github-portfolio/internal/pins"
	"github-portfolio/internal/resume"
	"github-portfolio/internal/syncer"
)

func main() {
	if err := run(); err != nil {
		slog.Error("Application startup error", "error", err)
		os.Exit(1)
	}
}

type stores struct {
	identities identity.Store
	snapshots  cache.Store
	pins       pins.Store
}

func run() error {
	// 1. Initialize structured logger
	logLevel := new(slog.LevelVar)
	handler := slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{Level: logLevel})
	logger := slog.New(handler)
	slog.SetDefault(logger)

	// 2. Load configuration
	cfg, err := config.LoadConfig()
	if err != nil {
		return fmt.Errorf("failed to load configuration: %w", err)
	}
	setLogLevel(cfg.LogLevel, logLevel)
	logger.Info("Configuration loaded successfully", "storage", cfg.StorageMode)

	// 3. Setup context for graceful shutdown
	ctx, cancel := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer cancel()

	// 4. Initialize storage
	var st stores
	switch cfg.StorageMode {
	case config.StorageModePostgres:
		dbpool, err := pgxpool.New(ctx, cfg.DBURL)
		if err != nil {
			return fmt.Errorf("failed to connect to database: %w", err)
		}
		defer dbpool.Close()
		if err := dbpool.Ping(ctx); err != nil {
			return fmt.Errorf("failed to reach database: %w", err)
		}
		logger.Info("Database connection established")

		if err := runMigrations(cfg.MigrationsPath, cfg.DBURL); err != nil {
			return fmt.Errorf("failed to run database migrations: %w", err)
		}
		logger.Info("Database migrations applied successfully")
		st = postgresStores(dbpool, logger)
	default:
		logger.Warn("Using in-memory storage; data is lost on restart")
		st = stores{
			identities: identity.NewMemoryStore(),
			snapshots:  cache.NewMemoryStore(),
			pins:       pins.NewMemoryStore(),
		}
	}

	// 5. Initialize application components
	ghClient, err := github.NewClient(cfg.GithubGraphQLURL, cfg.GithubAPIURL, &http.Client{Timeout: 30 * time.Second}, logger)
	if err != nil {
		return fmt.Errorf("failed to create GitHub client: %w", err)
	}
	tokens, err := auth.NewTokenService(cfg.JWTSecret, cfg.SessionTTL)
	if err != nil {
		return fmt.Errorf("failed to create token service: %w", err)
	}

	registry := prometheus.NewRegistry()
	registry.MustRegister(collectors.NewGoCollector(), collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}))
	appSyncer := syncer.NewSyncer(ghClient, st.snapshots, logger, syncer.NewMetrics(registry), syncer.Config{
		TTL:             cfg.CacheTTL,
		RepositoryLimit: cfg.RepositoryLimit,
		TopLanguages:    cfg.TopLanguages,
	})

	deps := api.Dependencies{
		Identities:   st.identities,
		Pins:         st.pins,
		Snapshots:    appSyncer,
		GitHub:       ghClient,
		Tokens:       tokens,
		Resume:       resume.NewAssembler(st.snapshots, st.pins, logger),
		Renderer:     resume.NewPDFRenderer(logger),
		Metrics:      promhttp.HandlerFor(registry, promhttp.HandlerOpts{Registry: registry}),
		CookieSecure: cfg.CookieSecure,
		Logger:       logger,
	}
	if cfg.OAuthConfigured() {
		deps.OAuth = auth.NewGitHubProvider(cfg.GithubClientID, cfg.GithubClientSecret, cfg.GithubCallbackURL)
	} else {
		logger.Warn("GitHub OAuth credentials missing; login is disabled")
	}

	// 6. Serve HTTP until a shutdown signal arrives
	srv := &http.Server{
		Addr:              cfg.HTTPAddr,
		Handler:           api.NewRouter(deps),
		ReadHeaderTimeout: 10 * time.Second,
	}
	serveErr := make(chan error, 1)
	go func() {
		logger.Info("HTTP server listening", "addr", cfg.HTTPAddr)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			serveErr <- err
		}
		close(serveErr)
	}()

	select {
	case err := <-serveErr:
		if err != nil {
			return fmt.Errorf("http server failed: %w", err)
		}
	case <-ctx.Done():
		logger.Info("Shutdown signal received. Exiting.")
	}

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer shutdownCancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("graceful shutdown failed: %w", err)
	}
	return nil
}

func postgresStores(dbpool *pgxpool.Pool, logger *slog.Logger) stores {
	q := database.New(dbpool)
	return stores{
		identities: identity.NewPostgresStore(q, logger),
		snapshots:  cache.NewPostgresStore(q, logger),
		pins:       pins.NewPostgresStore(dbpool, q, logger),
	}
}

func runMigrations(sourceURL, dbURL string) error {
	m, err := migrate.New(sourceURL, dbURL)
	if err != nil {
		return err
	}
	defer m.Close()
	if err := m.Up(); err != nil && !errors.Is(err, migrate.ErrNoChange) {
		return err
	}
	return nil
}

func setLogLevel(level string, v *slog.LevelVar) {
	switch level {
	case "debug":
		v.Set(slog.LevelDebug)
	case "warn":
		v.Set(slog.LevelWarn)
	case "error":
		v.Set(slog.LevelError)
	default:
		v.Set(slog.LevelInfo)
	}
}
