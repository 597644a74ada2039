package service_test

import (
	"context"
	"crypto/md5" //nolint:gosec // mirrors the service's fingerprinting
	"database/sql"
	"encoding/hex"
	"errors"
	"strings"
	"testing"
	"unicode/utf8"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/tenxcards/cardgen-api/internal/domain"
	"github.com/tenxcards/cardgen-api/internal/generation"
	"github.com/tenxcards/cardgen-api/internal/service"
	"github.com/tenxcards/cardgen-api/internal/store"
)

// validSourceText returns a source text within the accepted length bounds.
func validSourceText() string {
	return strings.Repeat("flashcard source material. ", 40)
}

// fakeGenerator is a scripted generation.ProposalGenerator.
type fakeGenerator struct {
	proposals []domain.FlashcardProposal
	err       error
	calls     int
}

func (g *fakeGenerator) GenerateProposals(
	ctx context.Context,
	sourceText string,
) ([]domain.FlashcardProposal, error) {
	g.calls++
	if g.err != nil {
		return nil, g.err
	}
	return g.proposals, nil
}

func (g *fakeGenerator) Model() string {
	return "fake-model"
}

// fakeGenerationStore records what the service persists.
type fakeGenerationStore struct {
	generations  []*domain.Generation
	errorLogs    []*domain.GenerationErrorLog
	createErr    error
	errorLogErr  error
	nextID       int64
}

func (s *fakeGenerationStore) CreateGeneration(
	ctx context.Context,
	gen *domain.Generation,
) error {
	if s.createErr != nil {
		return s.createErr
	}
	s.nextID++
	gen.ID = s.nextID
	s.generations = append(s.generations, gen)
	return nil
}

func (s *fakeGenerationStore) CreateErrorLog(
	ctx context.Context,
	entry *domain.GenerationErrorLog,
) error {
	if s.errorLogErr != nil {
		return s.errorLogErr
	}
	s.errorLogs = append(s.errorLogs, entry)
	return nil
}

func (s *fakeGenerationStore) GetGenerationByID(
	ctx context.Context,
	userID uuid.UUID,
	id int64,
) (*domain.Generation, error) {
	for _, gen := range s.generations {
		if gen.ID == id && gen.UserID == userID {
			return gen, nil
		}
	}
	return nil, store.ErrGenerationNotFound
}

func (s *fakeGenerationStore) WithTx(tx *sql.Tx) store.GenerationStore {
	return s
}

func newGenerationService(
	t *testing.T,
	gen *fakeGenerator,
	genStore *fakeGenerationStore,
) service.GenerationService {
	t.Helper()

	svc, err := service.NewGenerationService(gen, genStore, nil)
	require.NoError(t, err)
	return svc
}

func TestGenerateFlashcardsSuccess(t *testing.T) {
	t.Parallel()

	proposals := []domain.FlashcardProposal{
		{Front: "Q1", Back: "A1", Source: domain.SourceAIFull},
		{Front: "Q2", Back: "A2", Source: domain.SourceAIFull},
	}
	gen := &fakeGenerator{proposals: proposals}
	genStore := &fakeGenerationStore{}
	svc := newGenerationService(t, gen, genStore)

	userID := uuid.New()
	sourceText := validSourceText()

	result, err := svc.GenerateFlashcards(context.Background(), userID, sourceText)

	require.NoError(t, err)
	assert.Equal(t, int64(1), result.GenerationID)
	assert.Equal(t, proposals, result.Proposals)
	assert.Equal(t, 2, result.GeneratedCount)

	require.Len(t, genStore.generations, 1)
	saved := genStore.generations[0]
	assert.Equal(t, userID, saved.UserID)
	assert.Equal(t, "fake-model", saved.Model)
	assert.Equal(t, 2, saved.GeneratedCount)
	assert.Equal(t, utf8.RuneCountInString(sourceText), saved.SourceTextLength)
	assert.GreaterOrEqual(t, saved.GenerationDurationMs, int64(0))

	// The recorded fingerprint is the hex MD5 digest of the source text.
	sum := md5.Sum([]byte(sourceText)) //nolint:gosec
	assert.Equal(t, hex.EncodeToString(sum[:]), saved.SourceTextHash)

	assert.Empty(t, genStore.errorLogs)
}

func TestGenerateFlashcardsRejectsSourceTextOutOfBounds(t *testing.T) {
	t.Parallel()

	gen := &fakeGenerator{}
	svc := newGenerationService(t, gen, &fakeGenerationStore{})

	testCases := []struct {
		name       string
		sourceText string
	}{
		{name: "too short", sourceText: strings.Repeat("a", domain.SourceTextMinLength-1)},
		{name: "too long", sourceText: strings.Repeat("a", domain.SourceTextMaxLength+1)},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			_, err := svc.GenerateFlashcards(context.Background(), uuid.New(), tc.sourceText)

			assert.ErrorIs(t, err, domain.ErrSourceTextLength)
		})
	}

	assert.Equal(t, 0, gen.calls, "generator must not run on invalid input")
}

// Multibyte source text is measured in characters, both for the bounds
// check and for the recorded telemetry length.
func TestGenerateFlashcardsAcceptsMultibyteSourceText(t *testing.T) {
	t.Parallel()

	gen := &fakeGenerator{proposals: []domain.FlashcardProposal{
		{Front: "Q", Back: "A", Source: domain.SourceAIFull},
	}}
	genStore := &fakeGenerationStore{}
	svc := newGenerationService(t, gen, genStore)

	sourceText := strings.Repeat("日", 5000)
	require.Greater(t, len(sourceText), domain.SourceTextMaxLength)

	_, err := svc.GenerateFlashcards(context.Background(), uuid.New(), sourceText)

	require.NoError(t, err)
	require.Len(t, genStore.generations, 1)
	assert.Equal(t, 5000, genStore.generations[0].SourceTextLength)
}

func TestGenerateFlashcardsGeneratorFailureLogsAIServiceError(t *testing.T) {
	t.Parallel()

	gen := &fakeGenerator{err: generation.ErrTransientFailure}
	genStore := &fakeGenerationStore{}
	svc := newGenerationService(t, gen, genStore)

	userID := uuid.New()
	_, err := svc.GenerateFlashcards(context.Background(), userID, validSourceText())

	assert.ErrorIs(t, err, service.ErrAIService)
	assert.Empty(t, genStore.generations)

	require.Len(t, genStore.errorLogs, 1)
	entry := genStore.errorLogs[0]
	assert.Equal(t, domain.ErrorCodeAIService, entry.ErrorCode)
	assert.Equal(t, userID, entry.UserID)
	assert.Equal(t, "fake-model", entry.Model)
	assert.NotEmpty(t, entry.ErrorMessage)
	assert.Len(t, entry.SourceTextHash, 32)
}

func TestGenerateFlashcardsTimeoutMapsToTimeoutError(t *testing.T) {
	t.Parallel()

	gen := &fakeGenerator{err: generation.ErrTimeout}
	genStore := &fakeGenerationStore{}
	svc := newGenerationService(t, gen, genStore)

	_, err := svc.GenerateFlashcards(context.Background(), uuid.New(), validSourceText())

	assert.ErrorIs(t, err, service.ErrTimeout)
	require.Len(t, genStore.errorLogs, 1)
	assert.Equal(t, domain.ErrorCodeAIService, genStore.errorLogs[0].ErrorCode)
}

func TestGenerateFlashcardsErrorLogWriteFailureIsSwallowed(t *testing.T) {
	t.Parallel()

	gen := &fakeGenerator{err: generation.ErrGenerationFailed}
	genStore := &fakeGenerationStore{errorLogErr: errors.New("log table unavailable")}
	svc := newGenerationService(t, gen, genStore)

	_, err := svc.GenerateFlashcards(context.Background(), uuid.New(), validSourceText())

	// The primary failure surfaces; the log write failure never does.
	assert.ErrorIs(t, err, service.ErrAIService)
	assert.NotErrorIs(t, err, service.ErrDatabase)
}

func TestGenerateFlashcardsInsertFailureLogsDBInsertError(t *testing.T) {
	t.Parallel()

	gen := &fakeGenerator{proposals: []domain.FlashcardProposal{
		{Front: "Q", Back: "A", Source: domain.SourceAIFull},
	}}
	genStore := &fakeGenerationStore{createErr: errors.New("insert failed")}
	svc := newGenerationService(t, gen, genStore)

	_, err := svc.GenerateFlashcards(context.Background(), uuid.New(), validSourceText())

	assert.ErrorIs(t, err, service.ErrDatabase)

	require.Len(t, genStore.errorLogs, 1)
	assert.Equal(t, domain.ErrorCodeDBInsert, genStore.errorLogs[0].ErrorCode)
}
