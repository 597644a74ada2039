package store

import (
	"context"
	"database/sql"

	"github.com/google/uuid"

	"github.com/tenxcards/cardgen-api/internal/domain"
)

// FlashcardStore defines the interface for flashcard data persistence.
type FlashcardStore interface {
	// CreateMultiple saves multiple flashcards to the store.
	// This method MUST be run within a transaction so that a batch is saved
	// all-or-nothing. Use WithTx together with store.RunInTransaction:
	//
	//   err := store.RunInTransaction(ctx, db, func(ctx context.Context, tx *sql.Tx) error {
	//       return flashcardStore.WithTx(tx).CreateMultiple(ctx, cards)
	//   })
	//
	// Each saved flashcard has its ID and timestamps populated from the
	// database. All cards must be valid according to domain validation rules.
	CreateMultiple(ctx context.Context, flashcards []*domain.Flashcard) error

	// GetByID retrieves a flashcard by its ID, scoped to the owning user.
	// Returns ErrFlashcardNotFound if no such flashcard exists for that user.
	GetByID(ctx context.Context, userID uuid.UUID, id int64) (*domain.Flashcard, error)

	// ListByUser retrieves all flashcards owned by the given user, newest
	// first.
	ListByUser(ctx context.Context, userID uuid.UUID) ([]*domain.Flashcard, error)

	// WithTx returns a new FlashcardStore instance that uses the provided
	// transaction. The transaction is created and managed by the caller.
	WithTx(tx *sql.Tx) FlashcardStore
}
