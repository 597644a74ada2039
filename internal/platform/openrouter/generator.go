package openrouter

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"

	"github.com/tenxcards/cardgen-api/internal/domain"
	"github.com/tenxcards/cardgen-api/internal/generation"
)

// flashcardPrompt is the fixed instruction prompt sent as the system
// message of every generation call.
const flashcardPrompt = `You are an expert flashcard author. Given a source text, produce study flashcards that help a learner retain its key ideas.

Guidelines:
- Each card covers exactly one concept.
- Produce between 3 and 10 cards.
- The front is a clear question or cue of at most 200 characters.
- The back is a concise answer of at most 500 characters.
- Use the language of the source text.

Respond with a JSON object of the form {"flashcards": [{"front": "...", "back": "..."}]} and nothing else.`

// flashcardSchema constrains the structured output to the proposal shape.
var flashcardSchema = json.RawMessage(`{
  "type": "object",
  "properties": {
    "flashcards": {
      "type": "array",
      "items": {
        "type": "object",
        "properties": {
          "front": {"type": "string"},
          "back": {"type": "string"}
        },
        "required": ["front", "back"],
        "additionalProperties": false
      }
    }
  },
  "required": ["flashcards"],
  "additionalProperties": false
}`)

// proposalResponse is the decoded structured output of a generation call.
type proposalResponse struct {
	Flashcards []struct {
		Front string `json:"front"`
		Back  string `json:"back"`
	} `json:"flashcards"`
}

// Generator implements generation.ProposalGenerator using the OpenRouter
// chat-completion gateway with structured JSON output.
type Generator struct {
	client *Client
	logger *slog.Logger
}

// Ensure Generator implements the generation boundary interface.
var _ generation.ProposalGenerator = (*Generator)(nil)

// NewGenerator creates a proposal generator backed by the given client.
func NewGenerator(client *Client, logger *slog.Logger) (*Generator, error) {
	if client == nil {
		return nil, fmt.Errorf("%w: client cannot be nil", generation.ErrInvalidConfig)
	}
	if logger == nil {
		logger = slog.Default()
	}

	return &Generator{
		client: client,
		logger: logger.With(slog.String("component", "openrouter_generator")),
	}, nil
}

// Model implements generation.ProposalGenerator.
func (g *Generator) Model() string {
	return g.client.Model()
}

// GenerateProposals implements generation.ProposalGenerator. It sends the
// fixed authoring prompt with the source text as the user payload, decodes
// the structured response and maps each pair into a proposal tagged
// domain.SourceAIFull.
func (g *Generator) GenerateProposals(
	ctx context.Context,
	sourceText string,
) ([]domain.FlashcardProposal, error) {
	if sourceText == "" {
		return nil, fmt.Errorf("%w: source text cannot be empty",
			generation.ErrInvalidConfig)
	}

	req := Request{
		SystemMessage: flashcardPrompt,
		UserMessage:   sourceText,
		ResponseSchema: &SchemaFormat{
			Name:   "flashcard_proposals",
			Strict: true,
			Schema: flashcardSchema,
		},
	}

	completion, err := g.client.Complete(ctx, req)
	if err != nil {
		return nil, mapGatewayError(err)
	}

	g.logger.Debug("model call completed",
		slog.Int("attempts", completion.Attempts),
		slog.Int("content_length", len(completion.Content)))

	var resp proposalResponse
	if err := json.Unmarshal([]byte(completion.Content), &resp); err != nil {
		return nil, fmt.Errorf("%w: failed to parse structured output: %v",
			generation.ErrInvalidResponse, err)
	}

	if len(resp.Flashcards) == 0 {
		return nil, fmt.Errorf("%w: no flashcards in response",
			generation.ErrInvalidResponse)
	}

	proposals := make([]domain.FlashcardProposal, 0, len(resp.Flashcards))
	for i, card := range resp.Flashcards {
		if card.Front == "" {
			return nil, fmt.Errorf("%w: card %d missing front side",
				generation.ErrInvalidResponse, i)
		}
		if card.Back == "" {
			return nil, fmt.Errorf("%w: card %d missing back side",
				generation.ErrInvalidResponse, i)
		}

		proposals = append(proposals, domain.FlashcardProposal{
			Front:  card.Front,
			Back:   card.Back,
			Source: domain.SourceAIFull,
		})
	}

	g.logger.Info("generated flashcard proposals",
		slog.Int("proposal_count", len(proposals)),
		slog.String("model", g.client.Model()))

	return proposals, nil
}

// mapGatewayError folds the gateway's tagged errors into the stable
// generation taxonomy the orchestrator matches against.
func mapGatewayError(err error) error {
	var gwErr *Error
	if !errors.As(err, &gwErr) {
		return fmt.Errorf("%w: %v", generation.ErrGenerationFailed, err)
	}

	switch gwErr.Kind {
	case KindTimeout:
		return fmt.Errorf("%w: %v", generation.ErrTimeout, gwErr)
	case KindParse:
		return fmt.Errorf("%w: %v", generation.ErrInvalidResponse, gwErr)
	case KindServer, KindTransport:
		return fmt.Errorf("%w: %v", generation.ErrTransientFailure, gwErr)
	default:
		return fmt.Errorf("%w: %v", generation.ErrGenerationFailed, gwErr)
	}
}
