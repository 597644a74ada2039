package service_test

import (
	"context"
	"database/sql"
	"testing"

	"github.com/google/uuid"
	_ "github.com/jackc/pgx/v5/stdlib" // pgx driver
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/tenxcards/cardgen-api/internal/domain"
	"github.com/tenxcards/cardgen-api/internal/service"
	"github.com/tenxcards/cardgen-api/internal/store"
)

// fakeFlashcardStore is an in-memory store.FlashcardStore.
type fakeFlashcardStore struct {
	cards   []*domain.Flashcard
	listErr error
}

func (s *fakeFlashcardStore) CreateMultiple(
	ctx context.Context,
	flashcards []*domain.Flashcard,
) error {
	s.cards = append(s.cards, flashcards...)
	return nil
}

func (s *fakeFlashcardStore) GetByID(
	ctx context.Context,
	userID uuid.UUID,
	id int64,
) (*domain.Flashcard, error) {
	for _, card := range s.cards {
		if card.ID == id && card.UserID == userID {
			return card, nil
		}
	}
	return nil, store.ErrFlashcardNotFound
}

func (s *fakeFlashcardStore) ListByUser(
	ctx context.Context,
	userID uuid.UUID,
) ([]*domain.Flashcard, error) {
	if s.listErr != nil {
		return nil, s.listErr
	}
	var owned []*domain.Flashcard
	for _, card := range s.cards {
		if card.UserID == userID {
			owned = append(owned, card)
		}
	}
	return owned, nil
}

func (s *fakeFlashcardStore) WithTx(tx *sql.Tx) store.FlashcardStore {
	return s
}

// unreachableDB returns a *sql.DB whose address refuses connections.
// Validation paths return before any transaction opens; the transaction
// path fails fast when the pool dials.
func unreachableDB(t *testing.T) *sql.DB {
	t.Helper()

	db, err := sql.Open("pgx", "postgres://127.0.0.1:1/unused")
	require.NoError(t, err)
	t.Cleanup(func() { _ = db.Close() })
	return db
}

func newFlashcardService(
	t *testing.T,
	fcStore *fakeFlashcardStore,
	genStore *fakeGenerationStore,
) service.FlashcardService {
	t.Helper()

	if genStore == nil {
		genStore = &fakeGenerationStore{}
	}
	svc, err := service.NewFlashcardService(unreachableDB(t), fcStore, genStore, nil)
	require.NoError(t, err)
	return svc
}

func int64Ptr(v int64) *int64 {
	return &v
}

func TestCreateFlashcardsRejectsEmptyBatch(t *testing.T) {
	t.Parallel()

	svc := newFlashcardService(t, &fakeFlashcardStore{}, nil)

	_, err := svc.CreateFlashcards(context.Background(), uuid.New(), nil)

	assert.ErrorIs(t, err, domain.ErrValidation)
}

func TestCreateFlashcardsAggregatesValidationIssues(t *testing.T) {
	t.Parallel()

	fcStore := &fakeFlashcardStore{}
	svc := newFlashcardService(t, fcStore, nil)

	commands := []domain.FlashcardCreateCommand{
		{Front: "valid front", Back: "valid back", Source: domain.SourceAIFull, GenerationID: int64Ptr(1)},
		{Front: "", Back: "valid back", Source: domain.SourceAIFull, GenerationID: int64Ptr(1)},
		{Front: "valid front", Back: "valid back", Source: domain.SourceManual, GenerationID: int64Ptr(1)},
	}

	_, err := svc.CreateFlashcards(context.Background(), uuid.New(), commands)

	var batchErr *service.BatchValidationError
	require.ErrorAs(t, err, &batchErr)
	require.Len(t, batchErr.Issues, 2)
	assert.Equal(t, 1, batchErr.Issues[0].Index)
	assert.Equal(t, 2, batchErr.Issues[1].Index)

	// Nothing is saved when any item is invalid.
	assert.Empty(t, fcStore.cards)
}

func TestCreateFlashcardsRejectsForeignGeneration(t *testing.T) {
	t.Parallel()

	userID := uuid.New()
	otherID := uuid.New()
	genStore := &fakeGenerationStore{nextID: 6}
	require.NoError(t, genStore.CreateGeneration(context.Background(),
		&domain.Generation{UserID: otherID, Model: "fake-model"}))

	fcStore := &fakeFlashcardStore{}
	svc := newFlashcardService(t, fcStore, genStore)

	commands := []domain.FlashcardCreateCommand{
		{Front: "valid front", Back: "valid back", Source: domain.SourceAIFull, GenerationID: int64Ptr(7)},
	}

	_, err := svc.CreateFlashcards(context.Background(), userID, commands)

	assert.ErrorIs(t, err, service.ErrNotOwned)
	assert.Empty(t, fcStore.cards, "nothing is saved for a foreign generation")
}

func TestCreateFlashcardsTransactionFailureWrapsDatabaseError(t *testing.T) {
	t.Parallel()

	userID := uuid.New()
	genStore := &fakeGenerationStore{}
	require.NoError(t, genStore.CreateGeneration(context.Background(),
		&domain.Generation{UserID: userID, Model: "fake-model"}))

	fcStore := &fakeFlashcardStore{}
	svc := newFlashcardService(t, fcStore, genStore)

	commands := []domain.FlashcardCreateCommand{
		{Front: "valid front", Back: "valid back", Source: domain.SourceAIFull, GenerationID: int64Ptr(1)},
	}

	// Ownership passes; the unreachable database then fails the transaction.
	_, err := svc.CreateFlashcards(context.Background(), userID, commands)

	require.Error(t, err)
	assert.ErrorIs(t, err, service.ErrDatabase)

	var svcErr *service.ServiceError
	require.ErrorAs(t, err, &svcErr)
	assert.Equal(t, "create_flashcards", svcErr.Operation)
}

func TestGetFlashcardScopedToOwner(t *testing.T) {
	t.Parallel()

	userID := uuid.New()
	otherID := uuid.New()
	fcStore := &fakeFlashcardStore{cards: []*domain.Flashcard{
		{ID: 1, UserID: userID, Front: "f1", Back: "b1", Source: domain.SourceManual},
		{ID: 2, UserID: otherID, Front: "f2", Back: "b2", Source: domain.SourceManual},
	}}
	svc := newFlashcardService(t, fcStore, nil)

	card, err := svc.GetFlashcard(context.Background(), userID, 1)
	require.NoError(t, err)
	assert.Equal(t, "f1", card.Front)

	// Another user's card reads as absent, not forbidden.
	_, err = svc.GetFlashcard(context.Background(), userID, 2)
	assert.ErrorIs(t, err, store.ErrFlashcardNotFound)

	_, err = svc.GetFlashcard(context.Background(), uuid.Nil, 1)
	assert.ErrorIs(t, err, domain.ErrValidation)
}

func TestListFlashcardsReturnsOwnedCards(t *testing.T) {
	t.Parallel()

	userID := uuid.New()
	otherID := uuid.New()
	fcStore := &fakeFlashcardStore{cards: []*domain.Flashcard{
		{ID: 1, UserID: userID, Front: "f1", Back: "b1", Source: domain.SourceManual},
		{ID: 2, UserID: otherID, Front: "f2", Back: "b2", Source: domain.SourceManual},
	}}
	svc := newFlashcardService(t, fcStore, nil)

	cards, err := svc.ListFlashcards(context.Background(), userID)

	require.NoError(t, err)
	require.Len(t, cards, 1)
	assert.Equal(t, int64(1), cards[0].ID)
}

func TestListFlashcardsRejectsNilUser(t *testing.T) {
	t.Parallel()

	svc := newFlashcardService(t, &fakeFlashcardStore{}, nil)

	_, err := svc.ListFlashcards(context.Background(), uuid.Nil)

	assert.ErrorIs(t, err, domain.ErrValidation)
}
