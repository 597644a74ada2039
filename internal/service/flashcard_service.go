package service

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

// FlashcardService provides flashcard persistence operations.
type FlashcardService interface {
	// CreateFlashcards validates and saves a batch of flashcards for the
	// given user. The batch is saved all-or-nothing inside a transaction.
	//
	// Validation runs over the whole batch before anything is written; if
	// any command is invalid the returned error is a *BatchValidationError
	// carrying one issue per offending index, and nothing is saved.
	CreateFlashcards(
		ctx context.Context,
		userID uuid.UUID,
		commands []domain.FlashcardCreateCommand,
	) ([]*domain.Flashcard, error)

	// GetFlashcard returns one flashcard owned by the user. Returns
	// store.ErrFlashcardNotFound when no such card exists for this user.
	GetFlashcard(ctx context.Context, userID uuid.UUID, id int64) (*domain.Flashcard, error)

	// ListFlashcards returns all flashcards owned by the user, newest first.
	ListFlashcards(ctx context.Context, userID uuid.UUID) ([]*domain.Flashcard, error)
}

// flashcardServiceImpl implements the FlashcardService interface.
type flashcardServiceImpl struct {
	db              *sql.DB
	flashcardStore  store.FlashcardStore
	generationStore store.GenerationStore
	logger          *slog.Logger
}

// Ensure flashcardServiceImpl implements FlashcardService interface
var _ FlashcardService = (*flashcardServiceImpl)(nil)

// NewFlashcardService creates a new FlashcardService. The *sql.DB is needed
// to open the transaction that CreateFlashcards runs in; the generation
// store backs the ownership check on referenced generation IDs.
func NewFlashcardService(
	db *sql.DB,
	flashcardStore store.FlashcardStore,
	generationStore store.GenerationStore,
	logger *slog.Logger,
) (FlashcardService, error) {
	if db == nil {
		return nil, errors.New("db cannot be nil")
	}
	if flashcardStore == nil {
		return nil, errors.New("flashcard store cannot be nil")
	}
	if generationStore == nil {
		return nil, errors.New("generation store cannot be nil")
	}
	if logger == nil {
		logger = slog.Default()
	}

	return &flashcardServiceImpl{
		db:              db,
		flashcardStore:  flashcardStore,
		generationStore: generationStore,
		logger:          logger.With(slog.String("component", "flashcard_service")),
	}, nil
}

// CreateFlashcards implements FlashcardService.CreateFlashcards
func (s *flashcardServiceImpl) CreateFlashcards(
	ctx context.Context,
	userID uuid.UUID,
	commands []domain.FlashcardCreateCommand,
) ([]*domain.Flashcard, error) {
	log := logger.FromContextOrDefault(ctx, s.logger)

	if userID == uuid.Nil {
		return nil, fmt.Errorf("%w: user ID cannot be empty", domain.ErrValidation)
	}
	if len(commands) == 0 {
		return nil, fmt.Errorf("%w: flashcards list cannot be empty", domain.ErrValidation)
	}

	// Validate the whole batch first so the caller sees every offending
	// index, not just the first.
	var issues []FieldIssue
	flashcards := make([]*domain.Flashcard, 0, len(commands))
	for i, cmd := range commands {
		card, err := domain.NewFlashcard(userID, cmd)
		if err != nil {
			issues = append(issues, FieldIssue{Index: i, Message: err.Error()})
			continue
		}
		flashcards = append(flashcards, card)
	}
	if len(issues) > 0 {
		log.Warn("flashcard batch failed validation",
			slog.String("user_id", userID.String()),
			slog.Int("issue_count", len(issues)))
		return nil, &BatchValidationError{Issues: issues}
	}

	if err := s.checkGenerationOwnership(ctx, userID, flashcards); err != nil {
		return nil, err
	}

	err := store.RunInTransaction(ctx, s.db, func(ctx context.Context, tx *sql.Tx) error {
		return s.flashcardStore.WithTx(tx).CreateMultiple(ctx, flashcards)
	})
	if err != nil {
		log.Error("failed to save flashcard batch",
			slog.String("user_id", userID.String()),
			slog.Int("count", len(flashcards)),
			slog.String("error", err.Error()))

		if errors.Is(err, store.ErrInvalidEntity) {
			return nil, fmt.Errorf("%w: %v", domain.ErrValidation, err)
		}
		return nil, &ServiceError{
			Operation: "create_flashcards",
			Message:   "transaction failed",
			Err:       fmt.Errorf("%w: %v", ErrDatabase, err),
		}
	}

	log.Info("flashcard batch saved",
		slog.String("user_id", userID.String()),
		slog.Int("count", len(flashcards)))
	return flashcards, nil
}

// checkGenerationOwnership verifies every generation ID referenced by the
// batch belongs to the user. Generation lookups are scoped by owner, so a
// generation that exists under another user is indistinguishable from one
// that does not exist; both fail with ErrNotOwned.
func (s *flashcardServiceImpl) checkGenerationOwnership(
	ctx context.Context,
	userID uuid.UUID,
	flashcards []*domain.Flashcard,
) error {
	checked := make(map[int64]bool)
	for _, card := range flashcards {
		if card.GenerationID == nil || checked[*card.GenerationID] {
			continue
		}
		checked[*card.GenerationID] = true

		if _, err := s.generationStore.GetGenerationByID(ctx, userID, *card.GenerationID); err != nil {
			if errors.Is(err, store.ErrGenerationNotFound) {
				return fmt.Errorf("%w: generation %d", ErrNotOwned, *card.GenerationID)
			}
			return fmt.Errorf("%w: %v", ErrDatabase, err)
		}
	}
	return nil
}

// GetFlashcard implements FlashcardService.GetFlashcard
func (s *flashcardServiceImpl) GetFlashcard(
	ctx context.Context,
	userID uuid.UUID,
	id int64,
) (*domain.Flashcard, error) {
	if userID == uuid.Nil {
		return nil, fmt.Errorf("%w: user ID cannot be empty", domain.ErrValidation)
	}

	card, err := s.flashcardStore.GetByID(ctx, userID, id)
	if err != nil {
		if store.IsNotFoundError(err) {
			return nil, err
		}
		return nil, &ServiceError{
			Operation: "get_flashcard",
			Message:   "failed to load flashcard",
			Err:       fmt.Errorf("%w: %v", ErrDatabase, err),
		}
	}
	return card, nil
}

// ListFlashcards implements FlashcardService.ListFlashcards
func (s *flashcardServiceImpl) ListFlashcards(
	ctx context.Context,
	userID uuid.UUID,
) ([]*domain.Flashcard, error) {
	if userID == uuid.Nil {
		return nil, fmt.Errorf("%w: user ID cannot be empty", domain.ErrValidation)
	}

	cards, err := s.flashcardStore.ListByUser(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrDatabase, err)
	}
	return cards, nil
}
