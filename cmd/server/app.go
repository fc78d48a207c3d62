package main

import (
	"context"
	"database/sql"
	"fmt"
	"log/slog"

	"github.com/studyhall/studyhall-api/internal/config"
	"github.com/studyhall/studyhall-api/internal/generation"
	"github.com/studyhall/studyhall-api/internal/platform/gemini"
	"github.com/studyhall/studyhall-api/internal/platform/postgres"
	"github.com/studyhall/studyhall-api/internal/resources"
	"github.com/studyhall/studyhall-api/internal/service"
	"github.com/studyhall/studyhall-api/internal/service/auth"
	"github.com/studyhall/studyhall-api/internal/service/progress"
	"github.com/studyhall/studyhall-api/internal/store"
)

// application holds the shared application dependencies so initialization
// and shutdown stay in one place.
type application struct {
	config *config.Config
	logger *slog.Logger
	db     *sql.DB

	userStore    store.UserStore
	deckStore    store.DeckStore
	cardStore    store.CardStore
	sessionStore store.SessionStore

	jwtService       auth.JWTService
	passwordVerifier auth.PasswordVerifier

	progressOutbox *progress.Outbox

	deckService  service.DeckService
	cardService  service.CardService
	studyService service.StudyService

	resourceCatalog *resources.Catalog
}

// newApplication wires all dependencies. The database connection and logger
// must already be established.
func newApplication(
	ctx context.Context,
	cfg *config.Config,
	appLogger *slog.Logger,
	db *sql.DB,
) (*application, error) {
	app := &application{
		config: cfg,
		logger: appLogger,
		db:     db,
	}

	var err error
	app.jwtService, err = auth.NewJWTService(cfg.Auth)
	if err != nil {
		return nil, fmt.Errorf("failed to initialize JWT service: %w", err)
	}
	appLogger.Info("JWT authentication service initialized",
		"token_lifetime_minutes", cfg.Auth.TokenLifetimeMinutes)

	app.passwordVerifier = auth.NewBcryptVerifier(cfg.Auth.BcryptCost)

	app.userStore = postgres.NewPostgresUserStore(db, appLogger)
	app.deckStore = postgres.NewPostgresDeckStore(db, appLogger)
	app.cardStore = postgres.NewPostgresCardStore(db, appLogger)
	app.sessionStore = postgres.NewPostgresSessionStore(db, appLogger)

	// Card generation is optional: without an API key the endpoint reports
	// the feature as unavailable.
	var generator generation.Generator
	if cfg.LLM.GeminiAPIKey != "" {
		geminiGenerator, err := gemini.NewGenerator(
			ctx,
			appLogger.With(slog.String("component", "llm_generator")),
			cfg.LLM,
		)
		if err != nil {
			return nil, fmt.Errorf("failed to initialize card generator: %w", err)
		}
		generator = geminiGenerator
		appLogger.Info("Card generator initialized", "model", cfg.LLM.ModelName)
	} else {
		appLogger.Info("Card generation disabled: no API key configured")
	}

	app.progressOutbox = progress.NewOutbox(app.cardStore, progress.Config{
		Workers:   cfg.Study.ProgressWorkers,
		QueueSize: cfg.Study.ProgressQueueSize,
	}, appLogger)
	app.progressOutbox.Start()

	app.deckService = service.NewDeckService(
		db, app.deckStore, app.cardStore, cfg.Study.ListRetryAttempts, appLogger)
	app.cardService = service.NewCardService(
		db, app.deckStore, app.cardStore, generator, appLogger)
	app.studyService = service.NewStudyService(
		app.deckStore, app.sessionStore, app.progressOutbox,
		cfg.Study.StatsLookbackDays, appLogger)

	app.resourceCatalog, err = resources.DefaultCatalog()
	if err != nil {
		return nil, fmt.Errorf("failed to load resource catalog: %w", err)
	}

	appLogger.Info("Application initialized successfully")
	return app, nil
}

// Run starts the HTTP server and blocks until shutdown.
func (app *application) Run(ctx context.Context) error {
	router := app.setupRouter()

	if err := app.startHTTPServer(ctx, router); err != nil {
		return fmt.Errorf("server error: %w", err)
	}
	return nil
}

// cleanup handles graceful shutdown of application resources. The progress
// outbox is stopped before the database closes so queued updates flush.
func (app *application) cleanup() {
	if app.progressOutbox != nil {
		app.progressOutbox.Stop()
	}

	if app.db != nil {
		if err := app.db.Close(); err != nil {
			app.logger.Error("Error closing database connection", "error", err)
		}
	}

	app.logger.Info("Application shutdown completed")
}
