package service

import (
	"context"
	"crypto/md5" //nolint:gosec // fingerprint for deduplication, not security
	"encoding/hex"
	"errors"
	"fmt"
	"log/slog"
	"time"
	"unicode/utf8"

	"github.com/google/uuid"

	"github.com/tenxcards/cardgen-api/internal/domain"
	"github.com/tenxcards/cardgen-api/internal/generation"
	"github.com/tenxcards/cardgen-api/internal/platform/logger"
	"github.com/tenxcards/cardgen-api/internal/store"
)

// GenerationResult is the outcome of a successful generation run: the
// telemetry row ID, the proposals awaiting review, and their count.
type GenerationResult struct {
	GenerationID   int64
	Proposals      []domain.FlashcardProposal
	GeneratedCount int
}

// GenerationService orchestrates flashcard proposal generation.
type GenerationService interface {
	// GenerateFlashcards validates the source text, invokes the proposal
	// generator, records telemetry, and returns the proposals for review.
	//
	// On generator failure an error log entry with code AI_SERVICE_ERROR is
	// written best-effort, and the returned error matches ErrTimeout or
	// ErrAIService. On telemetry insert failure an entry with code
	// DB_INSERT_ERROR is written best-effort and the returned error matches
	// ErrDatabase. Error-log write failures never mask the primary error.
	GenerateFlashcards(
		ctx context.Context,
		userID uuid.UUID,
		sourceText string,
	) (*GenerationResult, error)
}

// generationServiceImpl implements the GenerationService interface.
type generationServiceImpl struct {
	generator       generation.ProposalGenerator
	generationStore store.GenerationStore
	logger          *slog.Logger
}

// Ensure generationServiceImpl implements GenerationService interface
var _ GenerationService = (*generationServiceImpl)(nil)

// NewGenerationService creates a new GenerationService.
func NewGenerationService(
	generator generation.ProposalGenerator,
	generationStore store.GenerationStore,
	logger *slog.Logger,
) (GenerationService, error) {
	if generator == nil {
		return nil, errors.New("generator cannot be nil")
	}
	if generationStore == nil {
		return nil, errors.New("generation store cannot be nil")
	}
	if logger == nil {
		logger = slog.Default()
	}

	return &generationServiceImpl{
		generator:       generator,
		generationStore: generationStore,
		logger:          logger.With(slog.String("component", "generation_service")),
	}, nil
}

// GenerateFlashcards implements GenerationService.GenerateFlashcards
func (s *generationServiceImpl) GenerateFlashcards(
	ctx context.Context,
	userID uuid.UUID,
	sourceText string,
) (*GenerationResult, error) {
	log := logger.FromContextOrDefault(ctx, s.logger)

	if userID == uuid.Nil {
		return nil, fmt.Errorf("%w: user ID cannot be empty", domain.ErrValidation)
	}
	if err := domain.ValidateSourceText(sourceText); err != nil {
		return nil, err
	}

	sourceHash := fingerprint(sourceText)
	sourceLength := utf8.RuneCountInString(sourceText)
	start := time.Now()

	log.Info("starting flashcard generation",
		slog.String("user_id", userID.String()),
		slog.String("source_text_hash", sourceHash),
		slog.Int("source_text_length", sourceLength),
		slog.String("model", s.generator.Model()))

	proposals, err := s.generator.GenerateProposals(ctx, sourceText)
	if err != nil {
		log.Error("proposal generation failed",
			slog.String("user_id", userID.String()),
			slog.String("error", err.Error()))

		s.recordErrorLog(ctx, userID, domain.ErrorCodeAIService, err, sourceHash, sourceLength)

		if errors.Is(err, generation.ErrTimeout) {
			return nil, fmt.Errorf("%w: %v", ErrTimeout, err)
		}
		return nil, fmt.Errorf("%w: %v", ErrAIService, err)
	}

	durationMs := time.Since(start).Milliseconds()

	gen := &domain.Generation{
		UserID:               userID,
		Model:                s.generator.Model(),
		GeneratedCount:       len(proposals),
		SourceTextHash:       sourceHash,
		SourceTextLength:     sourceLength,
		GenerationDurationMs: durationMs,
	}

	if err := s.generationStore.CreateGeneration(ctx, gen); err != nil {
		log.Error("failed to persist generation record",
			slog.String("user_id", userID.String()),
			slog.String("error", err.Error()))

		s.recordErrorLog(ctx, userID, domain.ErrorCodeDBInsert, err, sourceHash, sourceLength)

		return nil, &ServiceError{
			Operation: "generate_flashcards",
			Message:   "failed to persist generation record",
			Err:       fmt.Errorf("%w: %v", ErrDatabase, err),
		}
	}

	log.Info("flashcard generation completed",
		slog.String("user_id", userID.String()),
		slog.Int64("generation_id", gen.ID),
		slog.Int("generated_count", len(proposals)),
		slog.Int64("duration_ms", durationMs))

	return &GenerationResult{
		GenerationID:   gen.ID,
		Proposals:      proposals,
		GeneratedCount: len(proposals),
	}, nil
}

// recordErrorLog writes a generation error log entry best-effort. A failed
// write is logged and swallowed so it never masks the primary failure.
func (s *generationServiceImpl) recordErrorLog(
	ctx context.Context,
	userID uuid.UUID,
	errorCode string,
	cause error,
	sourceHash string,
	sourceLength int,
) {
	log := logger.FromContextOrDefault(ctx, s.logger)

	entry := &domain.GenerationErrorLog{
		UserID:           userID,
		ErrorCode:        errorCode,
		ErrorMessage:     cause.Error(),
		Model:            s.generator.Model(),
		SourceTextHash:   sourceHash,
		SourceTextLength: sourceLength,
	}

	if err := s.generationStore.CreateErrorLog(ctx, entry); err != nil {
		log.Warn("failed to write generation error log",
			slog.String("user_id", userID.String()),
			slog.String("error_code", errorCode),
			slog.String("error", err.Error()))
	}
}

// fingerprint computes the hex-encoded MD5 digest of the source text, used
// to correlate telemetry rows for identical inputs.
func fingerprint(sourceText string) string {
	sum := md5.Sum([]byte(sourceText)) //nolint:gosec // not used for security
	return hex.EncodeToString(sum[:])
}
