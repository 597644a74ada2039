package generation

import (
	"context"

	"github.com/tenxcards/cardgen-api/internal/domain"
)

// ProposalGenerator defines the interface for producing flashcard proposals
// from raw source text. It is the boundary between the application core and
// the external model gateway, so the orchestrator never depends on a
// concrete LLM backend.
type ProposalGenerator interface {
	// GenerateProposals creates flashcard proposals from the given source
	// text. Every returned proposal has non-empty front/back content and is
	// tagged domain.SourceAIFull.
	//
	// Returns an error from this package's taxonomy (see errors.go) if the
	// model call fails, times out after all retries, or produces output
	// that cannot be parsed.
	GenerateProposals(ctx context.Context, sourceText string) ([]domain.FlashcardProposal, error)

	// Model reports the model identifier used for generation, recorded in
	// generation metadata and error logs.
	Model() string
}
