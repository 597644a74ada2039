package postgres

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"log/slog"

	"github.com/google/uuid"

	"github.com/tenxcards/cardgen-api/internal/domain"
	"github.com/tenxcards/cardgen-api/internal/platform/logger"
	"github.com/tenxcards/cardgen-api/internal/store"
)

// PostgresGenerationStore implements the store.GenerationStore interface
// using a PostgreSQL database as the storage backend.
type PostgresGenerationStore struct {
	db     store.DBTX
	logger *slog.Logger
}

// NewPostgresGenerationStore creates a new PostgreSQL implementation of the
// GenerationStore interface. It accepts a database connection or transaction
// that should be initialized and managed by the caller. If logger is nil, a
// default logger will be used.
func NewPostgresGenerationStore(db store.DBTX, logger *slog.Logger) *PostgresGenerationStore {
	if db == nil {
		panic("db cannot be nil")
	}
	if logger == nil {
		logger = slog.Default()
	}

	return &PostgresGenerationStore{
		db:     db,
		logger: logger.With(slog.String("component", "generation_store")),
	}
}

// Ensure PostgresGenerationStore implements store.GenerationStore interface
var _ store.GenerationStore = (*PostgresGenerationStore)(nil)

// CreateGeneration implements store.GenerationStore.CreateGeneration
// It saves a completed generation record, populating ID and CreatedAt from
// the database. Returns store.ErrInvalidEntity if the user ID doesn't exist.
func (s *PostgresGenerationStore) CreateGeneration(
	ctx context.Context,
	generation *domain.Generation,
) error {
	log := logger.FromContextOrDefault(ctx, s.logger)

	if err := generation.Validate(); err != nil {
		log.Warn("generation validation failed during create",
			slog.String("error", err.Error()),
			slog.String("user_id", generation.UserID.String()))
		return err
	}

	query := `
		INSERT INTO generations
			(user_id, model, generated_count, source_text_hash, source_text_length, generation_duration_ms)
		VALUES ($1, $2, $3, $4, $5, $6)
		RETURNING id, created_at
	`
	err := s.db.QueryRowContext(
		ctx,
		query,
		generation.UserID,
		generation.Model,
		generation.GeneratedCount,
		generation.SourceTextHash,
		generation.SourceTextLength,
		generation.GenerationDurationMs,
	).Scan(&generation.ID, &generation.CreatedAt)

	if err != nil {
		if IsForeignKeyViolation(err) {
			log.Warn("foreign key violation during generation creation",
				slog.String("user_id", generation.UserID.String()))
			return fmt.Errorf("%w: user with ID %s not found",
				store.ErrInvalidEntity, generation.UserID)
		}

		log.Error("failed to create generation",
			slog.String("error", err.Error()),
			slog.String("user_id", generation.UserID.String()))
		return MapError(err)
	}

	log.Info("generation created successfully",
		slog.Int64("generation_id", generation.ID),
		slog.String("user_id", generation.UserID.String()),
		slog.Int("generated_count", generation.GeneratedCount))
	return nil
}

// CreateErrorLog implements store.GenerationStore.CreateErrorLog
// It saves a generation error log entry, populating ID and CreatedAt from
// the database.
func (s *PostgresGenerationStore) CreateErrorLog(
	ctx context.Context,
	errorLog *domain.GenerationErrorLog,
) error {
	log := logger.FromContextOrDefault(ctx, s.logger)

	query := `
		INSERT INTO generation_error_logs
			(user_id, error_code, error_message, model, source_text_hash, source_text_length)
		VALUES ($1, $2, $3, $4, $5, $6)
		RETURNING id, created_at
	`
	err := s.db.QueryRowContext(
		ctx,
		query,
		errorLog.UserID,
		errorLog.ErrorCode,
		errorLog.ErrorMessage,
		errorLog.Model,
		errorLog.SourceTextHash,
		errorLog.SourceTextLength,
	).Scan(&errorLog.ID, &errorLog.CreatedAt)

	if err != nil {
		log.Error("failed to create generation error log",
			slog.String("error", err.Error()),
			slog.String("user_id", errorLog.UserID.String()),
			slog.String("error_code", errorLog.ErrorCode))
		return MapError(err)
	}

	log.Debug("generation error log created",
		slog.Int64("error_log_id", errorLog.ID),
		slog.String("error_code", errorLog.ErrorCode))
	return nil
}

// GetGenerationByID implements store.GenerationStore.GetGenerationByID
// Returns store.ErrGenerationNotFound if no record exists for that user.
func (s *PostgresGenerationStore) GetGenerationByID(
	ctx context.Context,
	userID uuid.UUID,
	id int64,
) (*domain.Generation, error) {
	log := logger.FromContextOrDefault(ctx, s.logger)

	query := `
		SELECT id, user_id, model, generated_count, source_text_hash, source_text_length,
			generation_duration_ms, created_at
		FROM generations
		WHERE id = $1 AND user_id = $2
	`

	var generation domain.Generation
	err := s.db.QueryRowContext(ctx, query, id, userID).Scan(
		&generation.ID,
		&generation.UserID,
		&generation.Model,
		&generation.GeneratedCount,
		&generation.SourceTextHash,
		&generation.SourceTextLength,
		&generation.GenerationDurationMs,
		&generation.CreatedAt,
	)

	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			log.Debug("generation not found",
				slog.Int64("generation_id", id),
				slog.String("user_id", userID.String()))
			return nil, store.ErrGenerationNotFound
		}

		log.Error("failed to get generation by ID",
			slog.String("error", err.Error()),
			slog.Int64("generation_id", id))
		return nil, MapError(err)
	}

	return &generation, nil
}

// WithTx implements store.GenerationStore.WithTx
func (s *PostgresGenerationStore) WithTx(tx *sql.Tx) store.GenerationStore {
	return &PostgresGenerationStore{
		db:     tx,
		logger: s.logger,
	}
}
