package openrouter

import (
	"context"
	"log/slog"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/tenxcards/cardgen-api/internal/domain"
	"github.com/tenxcards/cardgen-api/internal/generation"
)

func newTestGenerator(t *testing.T, backend *fakeBackend) *Generator {
	t.Helper()

	client := newTestClient(t, backend, Config{
		MaxAttempts: 1,
		BackoffBase: 1,
	})
	gen, err := NewGenerator(client, slog.Default())
	require.NoError(t, err)
	return gen
}

func TestNewGeneratorRequiresClient(t *testing.T) {
	t.Parallel()

	_, err := NewGenerator(nil, slog.Default())
	assert.ErrorIs(t, err, generation.ErrInvalidConfig)
}

func TestGenerateProposalsParsesStructuredOutput(t *testing.T) {
	t.Parallel()

	content := `{"flashcards": [
		{"front": "What is Go?", "back": "A compiled language from Google."},
		{"front": "What is a goroutine?", "back": "A lightweight thread managed by the runtime."}
	]}`
	backend := newFakeBackend(t, scriptedResponse{status: 200, body: completionBody(content)})
	gen := newTestGenerator(t, backend)

	proposals, err := gen.GenerateProposals(context.Background(), "some source text")

	require.NoError(t, err)
	require.Len(t, proposals, 2)
	assert.Equal(t, "What is Go?", proposals[0].Front)
	assert.Equal(t, "A compiled language from Google.", proposals[0].Back)
	for _, p := range proposals {
		p := p
		assert.Equal(t, domain.SourceAIFull, p.Source)
	}
}

func TestGenerateProposalsRejectsEmptySourceText(t *testing.T) {
	t.Parallel()

	backend := newFakeBackend(t, scriptedResponse{status: 200, body: completionBody("{}")})
	gen := newTestGenerator(t, backend)

	_, err := gen.GenerateProposals(context.Background(), "")

	assert.ErrorIs(t, err, generation.ErrInvalidConfig)
	assert.Equal(t, 0, backend.requestCount())
}

func TestGenerateProposalsRejectsMalformedContent(t *testing.T) {
	t.Parallel()

	testCases := []struct {
		name    string
		content string
	}{
		{name: "not JSON", content: "here are your flashcards!"},
		{name: "empty list", content: `{"flashcards": []}`},
		{name: "missing front", content: `{"flashcards": [{"front": "", "back": "b"}]}`},
		{name: "missing back", content: `{"flashcards": [{"front": "f", "back": ""}]}`},
	}

	for _, tc := range testCases {
		tc := tc
		t.Run(tc.name, func(t *testing.T) {
			t.Parallel()

			backend := newFakeBackend(t, scriptedResponse{status: 200, body: completionBody(tc.content)})
			gen := newTestGenerator(t, backend)

			_, err := gen.GenerateProposals(context.Background(), "some source text")

			assert.ErrorIs(t, err, generation.ErrInvalidResponse)
		})
	}
}

func TestGenerateProposalsMapsGatewayFailures(t *testing.T) {
	t.Parallel()

	testCases := []struct {
		name     string
		response scriptedResponse
		wantErr  error
	}{
		{
			name:     "server failure is transient",
			response: scriptedResponse{status: 503, body: errorBody("overloaded")},
			wantErr:  generation.ErrTransientFailure,
		},
		{
			name:     "auth failure is terminal",
			response: scriptedResponse{status: 401, body: errorBody("bad key")},
			wantErr:  generation.ErrGenerationFailed,
		},
	}

	for _, tc := range testCases {
		tc := tc
		t.Run(tc.name, func(t *testing.T) {
			t.Parallel()

			backend := newFakeBackend(t, tc.response)
			gen := newTestGenerator(t, backend)

			_, err := gen.GenerateProposals(context.Background(), "some source text")

			assert.ErrorIs(t, err, tc.wantErr)
		})
	}
}
