package domain

import (
	"errors"
	"fmt"
	"time"
	"unicode/utf8"

	"github.com/google/uuid"
)

// Validation bounds for flashcard content.
const (
	FrontMaxLength = 200
	BackMaxLength  = 500
)

// Source identifies how a flashcard came into existence.
type Source string

const (
	// SourceAIFull marks a flashcard taken verbatim from an AI proposal.
	SourceAIFull Source = "ai-full"

	// SourceAIEdited marks an AI proposal the user edited before saving.
	SourceAIEdited Source = "ai-edited"

	// SourceManual marks a flashcard the user authored from scratch.
	SourceManual Source = "manual"
)

// IsValid reports whether s is one of the known source values.
func (s Source) IsValid() bool {
	switch s {
	case SourceAIFull, SourceAIEdited, SourceManual:
		return true
	}
	return false
}

// Flashcard-specific validation errors.
var (
	// ErrFlashcardFrontInvalid is returned when the front text is empty or
	// exceeds FrontMaxLength characters.
	ErrFlashcardFrontInvalid = fmt.Errorf(
		"%w: front must be 1-%d characters", ErrValidation, FrontMaxLength)

	// ErrFlashcardBackInvalid is returned when the back text is empty or
	// exceeds BackMaxLength characters.
	ErrFlashcardBackInvalid = fmt.Errorf(
		"%w: back must be 1-%d characters", ErrValidation, BackMaxLength)

	// ErrFlashcardGenerationIDRequired is returned when an AI-sourced
	// flashcard has no generation ID.
	ErrFlashcardGenerationIDRequired = errors.New(
		"generation_id must be provided for source 'ai-full' or 'ai-edited'")

	// ErrFlashcardGenerationIDForbidden is returned when a manually
	// authored flashcard carries a generation ID.
	ErrFlashcardGenerationIDForbidden = errors.New(
		"generation_id must be null for source 'manual'")
)

// Flashcard represents a persisted question/answer study card owned by a user.
type Flashcard struct {
	ID           int64     `json:"id"`
	UserID       uuid.UUID `json:"user_id"`
	Front        string    `json:"front"`
	Back         string    `json:"back"`
	Source       Source    `json:"source"`
	GenerationID *int64    `json:"generation_id"`
	CreatedAt    time.Time `json:"created_at"`
	UpdatedAt    time.Time `json:"updated_at"`
}

// Validate checks if the Flashcard has valid data, applying the same
// content bounds and source/generation_id invariant as the create command.
func (f *Flashcard) Validate() error {
	if f.UserID == uuid.Nil {
		return fmt.Errorf("%w: user ID cannot be empty", ErrValidation)
	}

	cmd := FlashcardCreateCommand{
		Front:        f.Front,
		Back:         f.Back,
		Source:       f.Source,
		GenerationID: f.GenerationID,
	}
	return cmd.Validate()
}

// FlashcardCreateCommand describes one flashcard to be inserted.
// GenerationID must be non-nil exactly when Source is ai-full or ai-edited.
type FlashcardCreateCommand struct {
	Front        string `json:"front"`
	Back         string `json:"back"`
	Source       Source `json:"source"`
	GenerationID *int64 `json:"generation_id"`
}

// Validate checks the command against content bounds and the
// source/generation_id invariant. Content bounds count characters, not
// bytes.
func (c FlashcardCreateCommand) Validate() error {
	if n := utf8.RuneCountInString(c.Front); n == 0 || n > FrontMaxLength {
		return ErrFlashcardFrontInvalid
	}

	if n := utf8.RuneCountInString(c.Back); n == 0 || n > BackMaxLength {
		return ErrFlashcardBackInvalid
	}

	if !c.Source.IsValid() {
		return fmt.Errorf("%w: %q", ErrInvalidSource, c.Source)
	}

	switch c.Source {
	case SourceAIFull, SourceAIEdited:
		if c.GenerationID == nil {
			return ErrFlashcardGenerationIDRequired
		}
	case SourceManual:
		if c.GenerationID != nil {
			return ErrFlashcardGenerationIDForbidden
		}
	}

	return nil
}

// NewFlashcard creates a Flashcard from a validated create command.
// Returns an error if the command fails validation.
func NewFlashcard(userID uuid.UUID, cmd FlashcardCreateCommand) (*Flashcard, error) {
	if userID == uuid.Nil {
		return nil, fmt.Errorf("%w: user ID cannot be empty", ErrValidation)
	}

	if err := cmd.Validate(); err != nil {
		return nil, err
	}

	now := time.Now().UTC()
	return &Flashcard{
		UserID:       userID,
		Front:        cmd.Front,
		Back:         cmd.Back,
		Source:       cmd.Source,
		GenerationID: cmd.GenerationID,
		CreatedAt:    now,
		UpdatedAt:    now,
	}, nil
}
