package main

import (
	"context"
	"database/sql"
	"fmt"
	"log/slog"

	"github.com/Loekiboy/loek-it-up/internal/config"
	"github.com/Loekiboy/loek-it-up/internal/platform/gemini"
	"github.com/Loekiboy/loek-it-up/internal/platform/postgres"
	"github.com/Loekiboy/loek-it-up/internal/service"
	"github.com/Loekiboy/loek-it-up/internal/service/auth"
	"github.com/Loekiboy/loek-it-up/internal/store"
)

// application holds all the shared application dependencies to simplify
// management and ensure proper cleanup on shutdown.
type application struct {
	// Configuration
	config *config.Config

	// Core services
	logger *slog.Logger
	db     *sql.DB

	// Stores (using interfaces for proper abstraction)
	userStore     store.UserStore
	wordListStore store.WordListStore
	statsStore    store.WordStatsStore
	snapshotStore store.SnapshotStore

	// Service interfaces
	jwtService       auth.JWTService
	passwordVerifier auth.PasswordVerifier
	userService      service.UserService
	wordListService  service.WordListService
	studyService     *service.StudyService
}

// newApplication creates a new application instance with all dependencies
// initialized. It accepts core dependencies like configuration, logger,
// and database connection that must be established before application
// initialization.
func newApplication(ctx context.Context, cfg *config.Config, logger *slog.Logger, db *sql.DB) (*application, error) {
	app := &application{
		config: cfg,
		logger: logger,
		db:     db,
	}

	// Initialize JWT service
	var err error
	app.jwtService, err = auth.NewJWTService(cfg.Auth)
	if err != nil {
		return nil, fmt.Errorf("failed to initialize JWT service: %w", err)
	}
	logger.Info("JWT authentication service initialized",
		"token_lifetime_minutes", cfg.Auth.TokenLifetimeMinutes)

	// Initialize password verifier
	app.passwordVerifier = auth.NewBcryptVerifier()

	// Initialize stores
	app.userStore = postgres.NewPostgresUserStore(db, cfg.Auth.BcryptCost, logger)
	app.wordListStore = postgres.NewPostgresWordListStore(db, logger)
	app.statsStore = postgres.NewPostgresWordStatsStore(db, logger)
	app.snapshotStore = postgres.NewPostgresSnapshotStore(db, logger)

	// Create the example-sentence generator. The feature is optional:
	// without an API key the word list service runs without it.
	var generator service.SentenceGenerator
	if cfg.LLM.GeminiAPIKey != "" {
		geminiGenerator, err := gemini.NewGenerator(ctx, logger, cfg.LLM)
		if err != nil {
			return nil, fmt.Errorf("failed to initialize sentence generator: %w", err)
		}
		generator = geminiGenerator
		logger.Info("Gemini sentence generator initialized")
	} else {
		logger.Info("No Gemini API key configured, example sentences disabled")
	}

	// Initialize services
	app.userService = service.NewUserService(app.userStore, db, logger)
	app.wordListService = service.NewWordListService(app.wordListStore, db, generator, logger)
	app.studyService = service.NewStudyService(
		app.wordListStore,
		app.statsStore,
		app.snapshotStore,
		cfg.Study,
		logger,
	)

	logger.Info("Application initialized successfully")
	return app, nil
}

// Run starts the application server, handling lifecycle and cleanup.
// It returns an error if the server fails to start or encounters problems.
func (app *application) Run(ctx context.Context) error {
	router := app.setupRouter()

	if err := app.startHTTPServer(ctx, router); err != nil {
		return fmt.Errorf("server error: %w", err)
	}

	return nil
}

// cleanup handles graceful shutdown of application resources.
func (app *application) cleanup() {
	if app.db != nil {
		if err := app.db.Close(); err != nil {
			app.logger.Error("Error closing database connection", "error", err)
		}
	}

	app.logger.Info("Application shutdown completed")
}
