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

// PostgresFlashcardStore implements the store.FlashcardStore interface
// using a PostgreSQL database as the storage backend.
type PostgresFlashcardStore struct {
	db     store.DBTX
	logger *slog.Logger
}

// NewPostgresFlashcardStore creates a new PostgreSQL implementation of the
// FlashcardStore interface. It accepts a database connection or transaction
// that should be initialized and managed by the caller. If logger is nil, a
// default logger will be used.
func NewPostgresFlashcardStore(db store.DBTX, logger *slog.Logger) *PostgresFlashcardStore {
	if db == nil {
		panic("db cannot be nil")
	}
	if logger == nil {
		logger = slog.Default()
	}

	return &PostgresFlashcardStore{
		db:     db,
		logger: logger.With(slog.String("component", "flashcard_store")),
	}
}

// Ensure PostgresFlashcardStore implements store.FlashcardStore interface
var _ store.FlashcardStore = (*PostgresFlashcardStore)(nil)

// CreateMultiple implements store.FlashcardStore.CreateMultiple
// It inserts the flashcards one by one over the store's DBTX; run it inside
// a transaction via WithTx and store.RunInTransaction so a batch is saved
// all-or-nothing. Returns store.ErrInvalidEntity on foreign key violations
// (unknown user or generation).
func (s *PostgresFlashcardStore) CreateMultiple(
	ctx context.Context,
	flashcards []*domain.Flashcard,
) error {
	log := logger.FromContextOrDefault(ctx, s.logger)

	if len(flashcards) == 0 {
		return nil
	}

	for i, card := range flashcards {
		if err := card.Validate(); err != nil {
			log.Warn("flashcard validation failed during create",
				slog.Int("index", i),
				slog.String("error", err.Error()))
			return fmt.Errorf("flashcard %d: %w", i, err)
		}
	}

	query := `
		INSERT INTO flashcards (user_id, front, back, source, generation_id)
		VALUES ($1, $2, $3, $4, $5)
		RETURNING id, created_at, updated_at
	`

	for i, card := range flashcards {
		err := s.db.QueryRowContext(
			ctx,
			query,
			card.UserID,
			card.Front,
			card.Back,
			card.Source,
			card.GenerationID,
		).Scan(&card.ID, &card.CreatedAt, &card.UpdatedAt)

		if err != nil {
			if IsForeignKeyViolation(err) {
				log.Warn("foreign key violation during flashcard creation",
					slog.Int("index", i),
					slog.String("user_id", card.UserID.String()))
				return fmt.Errorf("%w: flashcard %d references a missing user or generation",
					store.ErrInvalidEntity, i)
			}

			log.Error("failed to create flashcard",
				slog.Int("index", i),
				slog.String("error", err.Error()),
				slog.String("user_id", card.UserID.String()))
			return MapError(err)
		}
	}

	log.Info("flashcards created successfully",
		slog.Int("count", len(flashcards)),
		slog.String("user_id", flashcards[0].UserID.String()))
	return nil
}

// GetByID implements store.FlashcardStore.GetByID
// Returns store.ErrFlashcardNotFound if no flashcard exists for that user.
func (s *PostgresFlashcardStore) GetByID(
	ctx context.Context,
	userID uuid.UUID,
	id int64,
) (*domain.Flashcard, error) {
	log := logger.FromContextOrDefault(ctx, s.logger)

	query := `
		SELECT id, user_id, front, back, source, generation_id, created_at, updated_at
		FROM flashcards
		WHERE id = $1 AND user_id = $2
	`

	card, err := scanFlashcard(s.db.QueryRowContext(ctx, query, id, userID))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			log.Debug("flashcard not found",
				slog.Int64("flashcard_id", id),
				slog.String("user_id", userID.String()))
			return nil, store.ErrFlashcardNotFound
		}

		log.Error("failed to get flashcard by ID",
			slog.String("error", err.Error()),
			slog.Int64("flashcard_id", id))
		return nil, MapError(err)
	}

	return card, nil
}

// ListByUser implements store.FlashcardStore.ListByUser
// It returns the user's flashcards newest first.
func (s *PostgresFlashcardStore) ListByUser(
	ctx context.Context,
	userID uuid.UUID,
) ([]*domain.Flashcard, error) {
	log := logger.FromContextOrDefault(ctx, s.logger)

	query := `
		SELECT id, user_id, front, back, source, generation_id, created_at, updated_at
		FROM flashcards
		WHERE user_id = $1
		ORDER BY created_at DESC, id DESC
	`

	rows, err := s.db.QueryContext(ctx, query, userID)
	if err != nil {
		log.Error("failed to list flashcards",
			slog.String("error", err.Error()),
			slog.String("user_id", userID.String()))
		return nil, MapError(err)
	}
	defer func() { _ = rows.Close() }()

	var cards []*domain.Flashcard
	for rows.Next() {
		card, err := scanFlashcard(rows)
		if err != nil {
			log.Error("failed to scan flashcard row",
				slog.String("error", err.Error()))
			return nil, MapError(err)
		}
		cards = append(cards, card)
	}
	if err := rows.Err(); err != nil {
		return nil, MapError(err)
	}

	return cards, nil
}

// WithTx implements store.FlashcardStore.WithTx
func (s *PostgresFlashcardStore) WithTx(tx *sql.Tx) store.FlashcardStore {
	return &PostgresFlashcardStore{
		db:     tx,
		logger: s.logger,
	}
}

// rowScanner covers both *sql.Row and *sql.Rows.
type rowScanner interface {
	Scan(dest ...any) error
}

func scanFlashcard(row rowScanner) (*domain.Flashcard, error) {
	var card domain.Flashcard
	var generationID sql.NullInt64

	err := row.Scan(
		&card.ID,
		&card.UserID,
		&card.Front,
		&card.Back,
		&card.Source,
		&generationID,
		&card.CreatedAt,
		&card.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}

	if generationID.Valid {
		card.GenerationID = &generationID.Int64
	}
	return &card, nil
}
