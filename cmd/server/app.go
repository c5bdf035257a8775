package main

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"time"

	_ "github.com/jackc/pgx/v5/stdlib"
	"github.com/pressly/goose/v3"

	"taskpilot/internal/api"
	"taskpilot/internal/api/middleware"
	"taskpilot/internal/config"
	"taskpilot/internal/platform/gemini"
	"taskpilot/internal/platform/openrouter"
	"taskpilot/internal/platform/postgres"
	"taskpilot/internal/reasoning"
	"taskpilot/internal/service"
	"taskpilot/internal/service/auth"
	"taskpilot/internal/store"
	"taskpilot/migrations"
)

const shutdownTimeout = 10 * time.Second

// application holds the assembled server and its database handle.
type application struct {
	cfg    *config.Config
	db     *sql.DB
	server *http.Server
}

// newApplication wires configuration into a ready-to-run server:
// database, migrations, stores, services, and the HTTP router.
func newApplication(ctx context.Context, cfg *config.Config) (*application, error) {
	db, err := openDatabase(ctx, cfg.Database)
	if err != nil {
		return nil, err
	}

	if err := runMigrations(db); err != nil {
		_ = db.Close()
		return nil, err
	}

	logger := slog.Default()

	taskStore := postgres.NewTaskStore(db)
	groupStore := postgres.NewTaskGroupStore(db)
	userStore := postgres.NewUserStore(db)
	txManager := store.NewTxManager(db)

	reasoningClient, err := newReasoningClient(ctx, logger, cfg.LLM)
	if err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("failed to create reasoning client: %w", err)
	}

	jwtService, err := auth.NewJWTService(cfg.Auth)
	if err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("failed to create JWT service: %w", err)
	}
	passwordVerifier := auth.NewBcryptVerifier(0)

	taskService := service.NewTaskService(logger, taskStore, groupStore, txManager)
	orchestrator := service.NewOrchestrator(logger, taskStore, groupStore, reasoningClient, txManager)

	authHandler := api.NewAuthHandler(userStore, jwtService, passwordVerifier)
	taskHandler := api.NewTaskHandler(taskService, orchestrator)
	authMiddleware := middleware.NewAuthMiddleware(jwtService)

	router := api.NewRouter(authHandler, taskHandler, authMiddleware)

	server := &http.Server{
		Addr:              fmt.Sprintf(":%d", cfg.Server.Port),
		Handler:           router,
		ReadHeaderTimeout: 5 * time.Second,
	}

	return &application{cfg: cfg, db: db, server: server}, nil
}

// Run serves HTTP until the context is canceled, then shuts down
// gracefully.
func (a *application) Run(ctx context.Context) error {
	errCh := make(chan error, 1)
	go func() {
		slog.Info("server listening",
			"addr", a.server.Addr,
			"llm_provider", a.cfg.LLM.Provider)
		if err := a.server.ListenAndServe(); !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
			return
		}
		errCh <- nil
	}()

	select {
	case err := <-errCh:
		_ = a.db.Close()
		return err
	case <-ctx.Done():
	}

	slog.Info("shutting down")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()

	err := a.server.Shutdown(shutdownCtx)
	if closeErr := a.db.Close(); err == nil {
		err = closeErr
	}
	return err
}

// openDatabase connects through the pgx stdlib driver and verifies the
// connection before returning.
func openDatabase(ctx context.Context, cfg config.DatabaseConfig) (*sql.DB, error) {
	db, err := sql.Open("pgx", cfg.URL)
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}

	pingCtx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()
	if err := db.PingContext(pingCtx); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("failed to ping database: %w", err)
	}

	return db, nil
}

// runMigrations applies the embedded schema migrations.
func runMigrations(db *sql.DB) error {
	goose.SetBaseFS(migrations.FS)
	if err := goose.SetDialect("postgres"); err != nil {
		return fmt.Errorf("failed to set migration dialect: %w", err)
	}
	if err := goose.Up(db, "."); err != nil {
		return fmt.Errorf("failed to apply migrations: %w", err)
	}
	return nil
}

// newReasoningClient builds the configured reasoning client.
func newReasoningClient(ctx context.Context, logger *slog.Logger, cfg config.LLMConfig) (reasoning.Client, error) {
	switch cfg.Provider {
	case "gemini":
		return gemini.New(ctx, logger, cfg)
	case "openrouter":
		return openrouter.New(logger, cfg)
	default:
		return nil, fmt.Errorf("unknown LLM provider %q", cfg.Provider)
	}
}
