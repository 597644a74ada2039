package api

import (
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"
	"github.com/go-playground/validator/v10"

	"github.com/tenxcards/cardgen-api/internal/api/shared"
	"github.com/tenxcards/cardgen-api/internal/domain"
	"github.com/tenxcards/cardgen-api/internal/service"
)

// FlashcardHandler handles flashcard persistence HTTP requests.
type FlashcardHandler struct {
	flashcardService service.FlashcardService
	validator        *validator.Validate
}

// NewFlashcardHandler creates a new FlashcardHandler.
func NewFlashcardHandler(flashcardService service.FlashcardService) *FlashcardHandler {
	return &FlashcardHandler{
		flashcardService: flashcardService,
		validator:        validator.New(),
	}
}

// CreateFlashcards handles POST /api/flashcards requests. The batch is
// saved all-or-nothing; per-item validation failures come back as one 400
// listing every offending index.
func (h *FlashcardHandler) CreateFlashcards(w http.ResponseWriter, r *http.Request) {
	userID, ok := getUserIDFromContext(r)
	if !ok {
		shared.RespondWithError(w, r, http.StatusUnauthorized, "User ID not found or invalid")
		return
	}

	var req CreateFlashcardsRequest
	if err := shared.DecodeJSON(r, &req); err != nil {
		shared.RespondWithError(w, r, http.StatusBadRequest, "Invalid request format")
		return
	}

	if err := h.validator.Struct(req); err != nil {
		shared.RespondWithError(w, r, http.StatusBadRequest, "flashcards list cannot be empty")
		return
	}

	commands := make([]domain.FlashcardCreateCommand, 0, len(req.Flashcards))
	for _, card := range req.Flashcards {
		commands = append(commands, domain.FlashcardCreateCommand{
			Front:        card.Front,
			Back:         card.Back,
			Source:       domain.Source(card.Source),
			GenerationID: card.GenerationID,
		})
	}

	saved, err := h.flashcardService.CreateFlashcards(r.Context(), userID, commands)
	if err != nil {
		HandleAPIError(w, r, err, "")
		return
	}

	responses := make([]FlashcardResponse, 0, len(saved))
	for _, card := range saved {
		responses = append(responses, newFlashcardResponse(card))
	}

	shared.RespondWithJSON(w, r, http.StatusCreated, CreateFlashcardsResponse{
		Flashcards: responses,
	})
}

// GetFlashcard handles GET /api/flashcards/{id} requests.
func (h *FlashcardHandler) GetFlashcard(w http.ResponseWriter, r *http.Request) {
	userID, ok := getUserIDFromContext(r)
	if !ok {
		shared.RespondWithError(w, r, http.StatusUnauthorized, "User ID not found or invalid")
		return
	}

	id, err := strconv.ParseInt(chi.URLParam(r, "id"), 10, 64)
	if err != nil || id <= 0 {
		shared.RespondWithError(w, r, http.StatusBadRequest, "Invalid flashcard ID")
		return
	}

	card, err := h.flashcardService.GetFlashcard(r.Context(), userID, id)
	if err != nil {
		HandleAPIError(w, r, err, "")
		return
	}

	shared.RespondWithJSON(w, r, http.StatusOK, newFlashcardResponse(card))
}

// ListFlashcards handles GET /api/flashcards requests.
func (h *FlashcardHandler) ListFlashcards(w http.ResponseWriter, r *http.Request) {
	userID, ok := getUserIDFromContext(r)
	if !ok {
		shared.RespondWithError(w, r, http.StatusUnauthorized, "User ID not found or invalid")
		return
	}

	cards, err := h.flashcardService.ListFlashcards(r.Context(), userID)
	if err != nil {
		HandleAPIError(w, r, err, "")
		return
	}

	responses := make([]FlashcardResponse, 0, len(cards))
	for _, card := range cards {
		responses = append(responses, newFlashcardResponse(card))
	}

	shared.RespondWithJSON(w, r, http.StatusOK, ListFlashcardsResponse{
		Flashcards: responses,
	})
}
