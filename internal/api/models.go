package api

import (
	"time"

	"github.com/google/uuid"

	"github.com/tenxcards/cardgen-api/internal/domain"
)

// Common request/response structures

// RegisterRequest defines the payload for the user registration endpoint.
type RegisterRequest struct {
	Email    string `json:"email"    validate:"required,email"`
	Password string `json:"password" validate:"required,min=8,max=72"`
}

// LoginRequest defines the payload for the user login endpoint.
type LoginRequest struct {
	Email    string `json:"email"    validate:"required,email"`
	Password string `json:"password" validate:"required,min=1"`
}

// AuthResponse defines the successful response for authentication endpoints.
type AuthResponse struct {
	// UserID is the unique identifier for the authenticated user
	UserID uuid.UUID `json:"user_id"`

	// AccessToken is the JWT token used for API authorization
	AccessToken string `json:"token"`
}

// GenerateFlashcardsRequest defines the payload for the generation endpoint.
// The source text bounds mirror the domain invariant so violations are
// caught at the request boundary, before any model call.
type GenerateFlashcardsRequest struct {
	SourceText string `json:"source_text" validate:"required,min=1000,max=10000"`
}

// ProposalResponse is the wire form of one generated proposal.
type ProposalResponse struct {
	Front  string `json:"front"`
	Back   string `json:"back"`
	Source string `json:"source"`
}

// GenerateFlashcardsResponse defines the successful generation response.
type GenerateFlashcardsResponse struct {
	GenerationID        int64              `json:"generation_id"`
	FlashcardsProposals []ProposalResponse `json:"flashcards_proposals"`
	GeneratedCount      int                `json:"generated_count"`
}

// FlashcardCreateRequest is one flashcard within a save request.
type FlashcardCreateRequest struct {
	Front        string `json:"front"`
	Back         string `json:"back"`
	Source       string `json:"source"`
	GenerationID *int64 `json:"generation_id"`
}

// CreateFlashcardsRequest defines the payload for the flashcard save endpoint.
type CreateFlashcardsRequest struct {
	Flashcards []FlashcardCreateRequest `json:"flashcards" validate:"required,min=1"`
}

// FlashcardResponse is the wire form of a persisted flashcard. It
// deliberately excludes the owner's user ID.
type FlashcardResponse struct {
	ID           int64     `json:"id"`
	Front        string    `json:"front"`
	Back         string    `json:"back"`
	Source       string    `json:"source"`
	GenerationID *int64    `json:"generation_id"`
	CreatedAt    time.Time `json:"created_at"`
	UpdatedAt    time.Time `json:"updated_at"`
}

// CreateFlashcardsResponse defines the successful flashcard save response.
type CreateFlashcardsResponse struct {
	Flashcards []FlashcardResponse `json:"flashcards"`
}

// ListFlashcardsResponse defines the flashcard listing response.
type ListFlashcardsResponse struct {
	Flashcards []FlashcardResponse `json:"flashcards"`
}

// newProposalResponses maps domain proposals into their wire form.
func newProposalResponses(proposals []domain.FlashcardProposal) []ProposalResponse {
	out := make([]ProposalResponse, 0, len(proposals))
	for _, p := range proposals {
		out = append(out, ProposalResponse{
			Front:  p.Front,
			Back:   p.Back,
			Source: string(p.Source),
		})
	}
	return out
}

// newFlashcardResponse maps a persisted flashcard into its wire form.
func newFlashcardResponse(card *domain.Flashcard) FlashcardResponse {
	return FlashcardResponse{
		ID:           card.ID,
		Front:        card.Front,
		Back:         card.Back,
		Source:       string(card.Source),
		GenerationID: card.GenerationID,
		CreatedAt:    card.CreatedAt,
		UpdatedAt:    card.UpdatedAt,
	}
}
