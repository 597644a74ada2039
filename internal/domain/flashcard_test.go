package domain_test

import (
	"strings"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/tenxcards/cardgen-api/internal/domain"
)

func int64Ptr(v int64) *int64 { return &v }

func TestFlashcardCreateCommandValidate(t *testing.T) {
	t.Parallel()

	testCases := []struct {
		name    string
		cmd     domain.FlashcardCreateCommand
		wantErr error
	}{
		{
			name: "valid ai-full",
			cmd: domain.FlashcardCreateCommand{
				Front:        "What is a goroutine?",
				Back:         "A lightweight thread managed by the Go runtime.",
				Source:       domain.SourceAIFull,
				GenerationID: int64Ptr(42),
			},
		},
		{
			name: "valid manual without generation id",
			cmd: domain.FlashcardCreateCommand{
				Front:  "What is a channel?",
				Back:   "A typed conduit for communication between goroutines.",
				Source: domain.SourceManual,
			},
		},
		{
			name: "empty front",
			cmd: domain.FlashcardCreateCommand{
				Front:        "",
				Back:         "valid back",
				Source:       domain.SourceAIFull,
				GenerationID: int64Ptr(1),
			},
			wantErr: domain.ErrFlashcardFrontInvalid,
		},
		{
			name: "front too long",
			cmd: domain.FlashcardCreateCommand{
				Front:        strings.Repeat("x", domain.FrontMaxLength+1),
				Back:         "valid back",
				Source:       domain.SourceAIFull,
				GenerationID: int64Ptr(1),
			},
			wantErr: domain.ErrFlashcardFrontInvalid,
		},
		{
			name: "back too long",
			cmd: domain.FlashcardCreateCommand{
				Front:        "valid front",
				Back:         strings.Repeat("x", domain.BackMaxLength+1),
				Source:       domain.SourceAIFull,
				GenerationID: int64Ptr(1),
			},
			wantErr: domain.ErrFlashcardBackInvalid,
		},
		{
			name: "multibyte front at the character limit",
			cmd: domain.FlashcardCreateCommand{
				Front:        strings.Repeat("日", domain.FrontMaxLength),
				Back:         strings.Repeat("本", domain.BackMaxLength),
				Source:       domain.SourceAIFull,
				GenerationID: int64Ptr(1),
			},
		},
		{
			name: "multibyte front over the character limit",
			cmd: domain.FlashcardCreateCommand{
				Front:        strings.Repeat("日", domain.FrontMaxLength+1),
				Back:         "valid back",
				Source:       domain.SourceAIFull,
				GenerationID: int64Ptr(1),
			},
			wantErr: domain.ErrFlashcardFrontInvalid,
		},
		{
			name: "ai-edited without generation id",
			cmd: domain.FlashcardCreateCommand{
				Front:  "valid front",
				Back:   "valid back",
				Source: domain.SourceAIEdited,
			},
			wantErr: domain.ErrFlashcardGenerationIDRequired,
		},
		{
			name: "manual with generation id",
			cmd: domain.FlashcardCreateCommand{
				Front:        "valid front",
				Back:         "valid back",
				Source:       domain.SourceManual,
				GenerationID: int64Ptr(7),
			},
			wantErr: domain.ErrFlashcardGenerationIDForbidden,
		},
		{
			name: "unknown source",
			cmd: domain.FlashcardCreateCommand{
				Front:  "valid front",
				Back:   "valid back",
				Source: domain.Source("ai-magic"),
			},
			wantErr: domain.ErrInvalidSource,
		},
	}

	for _, tc := range testCases {
		tc := tc
		t.Run(tc.name, func(t *testing.T) {
			t.Parallel()

			err := tc.cmd.Validate()
			if tc.wantErr != nil {
				assert.ErrorIs(t, err, tc.wantErr)
			} else {
				assert.NoError(t, err)
			}
		})
	}
}

func TestNewFlashcard(t *testing.T) {
	t.Parallel()

	cmd := domain.FlashcardCreateCommand{
		Front:        "What is the capital of France?",
		Back:         "Paris",
		Source:       domain.SourceAIEdited,
		GenerationID: int64Ptr(3),
	}

	card, err := domain.NewFlashcard(uuid.New(), cmd)
	require.NoError(t, err)
	assert.Equal(t, cmd.Front, card.Front)
	assert.Equal(t, cmd.Back, card.Back)
	assert.Equal(t, domain.SourceAIEdited, card.Source)
	require.NotNil(t, card.GenerationID)
	assert.Equal(t, int64(3), *card.GenerationID)
	assert.False(t, card.CreatedAt.IsZero())

	_, err = domain.NewFlashcard(uuid.Nil, cmd)
	assert.ErrorIs(t, err, domain.ErrValidation)
}

func TestValidateSourceText(t *testing.T) {
	t.Parallel()

	assert.ErrorIs(t, domain.ValidateSourceText(""), domain.ErrSourceTextLength)
	assert.ErrorIs(t,
		domain.ValidateSourceText(strings.Repeat("a", domain.SourceTextMinLength-1)),
		domain.ErrSourceTextLength)
	assert.ErrorIs(t,
		domain.ValidateSourceText(strings.Repeat("a", domain.SourceTextMaxLength+1)),
		domain.ErrSourceTextLength)

	assert.NoError(t, domain.ValidateSourceText(strings.Repeat("a", domain.SourceTextMinLength)))
	assert.NoError(t, domain.ValidateSourceText(strings.Repeat("a", domain.SourceTextMaxLength)))
}

// Bounds count characters, not bytes: 5000 CJK characters are three times
// that many bytes and must still be accepted.
func TestValidateSourceTextCountsCharacters(t *testing.T) {
	t.Parallel()

	cjk := strings.Repeat("日", 5000)
	require.Greater(t, len(cjk), domain.SourceTextMaxLength)
	assert.NoError(t, domain.ValidateSourceText(cjk))

	assert.ErrorIs(t,
		domain.ValidateSourceText(strings.Repeat("日", domain.SourceTextMaxLength+1)),
		domain.ErrSourceTextLength)
}
