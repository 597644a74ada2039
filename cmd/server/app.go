package main

import (
	"database/sql"
	"fmt"
	"log/slog"
	"time"

	"github.com/tenxcards/cardgen-api/internal/config"
	"github.com/tenxcards/cardgen-api/internal/platform/openrouter"
	"github.com/tenxcards/cardgen-api/internal/platform/postgres"
	"github.com/tenxcards/cardgen-api/internal/service"
	"github.com/tenxcards/cardgen-api/internal/service/auth"
	"github.com/tenxcards/cardgen-api/internal/store"
)

// application holds the assembled dependency graph of the server.
type application struct {
	config *config.Config
	logger *slog.Logger
	db     *sql.DB

	userStore       store.UserStore
	generationStore store.GenerationStore
	flashcardStore  store.FlashcardStore

	jwtService        auth.JWTService
	userService       service.UserService
	generationService service.GenerationService
	flashcardService  service.FlashcardService
}

// newApplication wires up every component of the server: database, stores,
// the model gateway, and the services the HTTP handlers depend on.
func newApplication(cfg *config.Config) (*application, error) {
	logger := slog.Default()

	db, err := setupAppDatabase(cfg, logger)
	if err != nil {
		return nil, err
	}

	userStore := postgres.NewPostgresUserStore(db, logger)
	generationStore := postgres.NewPostgresGenerationStore(db, logger)
	flashcardStore := postgres.NewPostgresFlashcardStore(db, logger)

	jwtService, err := auth.NewJWTService(cfg.Auth)
	if err != nil {
		return nil, fmt.Errorf("failed to create JWT service: %w", err)
	}

	userService, err := service.NewUserService(
		userStore, jwtService, auth.NewBcryptHasher(), logger)
	if err != nil {
		return nil, fmt.Errorf("failed to create user service: %w", err)
	}

	gatewayClient, err := openrouter.NewClient(openrouter.Config{
		APIKey:      cfg.LLM.OpenRouterAPIKey,
		BaseURL:     cfg.LLM.BaseURL,
		Model:       cfg.LLM.Model,
		Timeout:     time.Duration(cfg.LLM.TimeoutSeconds) * time.Second,
		MaxAttempts: cfg.LLM.MaxAttempts,
		BackoffBase: time.Duration(cfg.LLM.BackoffBaseMs) * time.Millisecond,
		BackoffCap:  time.Duration(cfg.LLM.BackoffCapMs) * time.Millisecond,
	}, logger)
	if err != nil {
		return nil, fmt.Errorf("failed to create model gateway client: %w", err)
	}

	generator, err := openrouter.NewGenerator(gatewayClient, logger)
	if err != nil {
		return nil, fmt.Errorf("failed to create proposal generator: %w", err)
	}

	generationService, err := service.NewGenerationService(generator, generationStore, logger)
	if err != nil {
		return nil, fmt.Errorf("failed to create generation service: %w", err)
	}

	flashcardService, err := service.NewFlashcardService(db, flashcardStore, generationStore, logger)
	if err != nil {
		return nil, fmt.Errorf("failed to create flashcard service: %w", err)
	}

	return &application{
		config:            cfg,
		logger:            logger,
		db:                db,
		userStore:         userStore,
		generationStore:   generationStore,
		flashcardStore:    flashcardStore,
		jwtService:        jwtService,
		userService:       userService,
		generationService: generationService,
		flashcardService:  flashcardService,
	}, nil
}

// cleanup releases resources held by the application.
func (app *application) cleanup() {
	if app.db != nil {
		if err := app.db.Close(); err != nil {
			app.logger.Error("failed to close database connection", "error", err)
		}
	}
}
