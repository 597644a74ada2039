package domain

import (
	"fmt"
	"time"
	"unicode/utf8"

	"github.com/google/uuid"
)

// Source text bounds enforced before any processing of a generation request.
const (
	SourceTextMinLength = 1000
	SourceTextMaxLength = 10000
)

// Error codes recorded in generation error logs.
const (
	ErrorCodeAIService = "AI_SERVICE_ERROR"
	ErrorCodeDBInsert  = "DB_INSERT_ERROR"
)

// ErrSourceTextLength is returned when the source text is outside the
// accepted bounds.
var ErrSourceTextLength = fmt.Errorf("%w: source text must be %d-%d characters",
	ErrValidation, SourceTextMinLength, SourceTextMaxLength)

// ValidateSourceText checks the generation input bounds. Bounds count
// characters, not bytes, so multibyte text is measured the same way the
// HTTP boundary measures it.
func ValidateSourceText(sourceText string) error {
	length := utf8.RuneCountInString(sourceText)
	if length < SourceTextMinLength || length > SourceTextMaxLength {
		return ErrSourceTextLength
	}
	return nil
}

// FlashcardProposal is a single AI-generated front/back pair awaiting human
// review. Proposals are immutable once emitted by the generation pipeline;
// the review layer copies them into mutable view-models.
type FlashcardProposal struct {
	Front  string `json:"front"`
	Back   string `json:"back"`
	Source Source `json:"source"`
}

// Generation records the metadata of one successful model call: what model
// ran, over which input (by fingerprint and length), how long it took and
// how many proposals it produced. Rows are never mutated after insert.
type Generation struct {
	ID                   int64     `json:"id"`
	UserID               uuid.UUID `json:"user_id"`
	Model                string    `json:"model"`
	GeneratedCount       int       `json:"generated_count"`
	SourceTextHash       string    `json:"source_text_hash"`
	SourceTextLength     int       `json:"source_text_length"`
	GenerationDurationMs int64     `json:"generation_duration_ms"`
	CreatedAt            time.Time `json:"created_at"`
}

// Validate checks if the Generation has valid data before insert.
func (g *Generation) Validate() error {
	if g.UserID == uuid.Nil {
		return fmt.Errorf("%w: generation user ID cannot be empty", ErrValidation)
	}
	if g.Model == "" {
		return fmt.Errorf("%w: generation model cannot be empty", ErrValidation)
	}
	if g.SourceTextHash == "" {
		return fmt.Errorf("%w: generation source text hash cannot be empty", ErrValidation)
	}
	if g.GeneratedCount < 0 {
		return fmt.Errorf("%w: generated count cannot be negative", ErrValidation)
	}
	return nil
}

// GenerationErrorLog is an append-only diagnostic record written on any
// generation failure path. It is never read back by the application.
type GenerationErrorLog struct {
	ID               int64     `json:"id"`
	UserID           uuid.UUID `json:"user_id"`
	ErrorCode        string    `json:"error_code"`
	ErrorMessage     string    `json:"error_message"`
	Model            string    `json:"model"`
	SourceTextHash   string    `json:"source_text_hash"`
	SourceTextLength int       `json:"source_text_length"`
	CreatedAt        time.Time `json:"created_at"`
}
