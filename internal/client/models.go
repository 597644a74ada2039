package client

import "time"

// Wire types mirroring the server's request and response payloads.

type authRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

// AuthResult is the server's response to register and login.
type AuthResult struct {
	UserID string `json:"user_id"`
	Token  string `json:"token"`
}

type generateRequest struct {
	SourceText string `json:"source_text"`
}

// Proposal is one generated flashcard candidate.
type Proposal struct {
	Front  string `json:"front"`
	Back   string `json:"back"`
	Source string `json:"source"`
}

// GenerationResult is the server's response to a generation request.
type GenerationResult struct {
	GenerationID   int64      `json:"generation_id"`
	Proposals      []Proposal `json:"flashcards_proposals"`
	GeneratedCount int        `json:"generated_count"`
}

// FlashcardCreate is one flashcard within a save request.
type FlashcardCreate struct {
	Front        string `json:"front"`
	Back         string `json:"back"`
	Source       string `json:"source"`
	GenerationID *int64 `json:"generation_id"`
}

type saveRequest struct {
	Flashcards []FlashcardCreate `json:"flashcards"`
}

type flashcardListResponse struct {
	Flashcards []Flashcard `json:"flashcards"`
}

// Flashcard is a persisted flashcard as returned by the server.
type Flashcard struct {
	ID           int64     `json:"id"`
	Front        string    `json:"front"`
	Back         string    `json:"back"`
	Source       string    `json:"source"`
	GenerationID *int64    `json:"generation_id"`
	CreatedAt    time.Time `json:"created_at"`
	UpdatedAt    time.Time `json:"updated_at"`
}
