package api

import (
	"log/slog"
	"net/http"

	"github.com/go-playground/validator/v10"

	"github.com/tenxcards/cardgen-api/internal/api/shared"
	"github.com/tenxcards/cardgen-api/internal/platform/logger"
	"github.com/tenxcards/cardgen-api/internal/service"
)

// GenerationHandler handles flashcard generation HTTP requests.
type GenerationHandler struct {
	generationService service.GenerationService
	validator         *validator.Validate
}

// NewGenerationHandler creates a new GenerationHandler.
func NewGenerationHandler(generationService service.GenerationService) *GenerationHandler {
	return &GenerationHandler{
		generationService: generationService,
		validator:         validator.New(),
	}
}

// GenerateFlashcards handles POST /api/generations requests.
// The source text bounds are enforced here, at the request boundary, so an
// out-of-range text never reaches the model gateway.
func (h *GenerationHandler) GenerateFlashcards(w http.ResponseWriter, r *http.Request) {
	log := logger.FromContextOrDefault(r.Context(), slog.Default())

	userID, ok := getUserIDFromContext(r)
	if !ok {
		shared.RespondWithError(w, r, http.StatusUnauthorized, "User ID not found or invalid")
		return
	}

	var req GenerateFlashcardsRequest
	if err := shared.DecodeJSON(r, &req); err != nil {
		shared.RespondWithError(w, r, http.StatusBadRequest, "Invalid request format")
		return
	}

	if err := h.validator.Struct(req); err != nil {
		log.Debug("generation request failed validation",
			slog.String("user_id", userID.String()),
			slog.Int("source_text_length", len(req.SourceText)))
		shared.RespondWithError(w, r, http.StatusBadRequest,
			"source_text must be between 1000 and 10000 characters")
		return
	}

	result, err := h.generationService.GenerateFlashcards(r.Context(), userID, req.SourceText)
	if err != nil {
		HandleAPIError(w, r, err, "")
		return
	}

	shared.RespondWithJSON(w, r, http.StatusCreated, GenerateFlashcardsResponse{
		GenerationID:        result.GenerationID,
		FlashcardsProposals: newProposalResponses(result.Proposals),
		GeneratedCount:      result.GeneratedCount,
	})
}
