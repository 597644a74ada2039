package api_test

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/tenxcards/cardgen-api/internal/api"
	"github.com/tenxcards/cardgen-api/internal/api/shared"
	"github.com/tenxcards/cardgen-api/internal/domain"
	"github.com/tenxcards/cardgen-api/internal/service"
)

// fakeGenerationService is a scripted service.GenerationService.
type fakeGenerationService struct {
	result *service.GenerationResult
	err    error
	calls  int
}

func (s *fakeGenerationService) GenerateFlashcards(
	ctx context.Context,
	userID uuid.UUID,
	sourceText string,
) (*service.GenerationResult, error) {
	s.calls++
	if s.err != nil {
		return nil, s.err
	}
	return s.result, nil
}

// authedRequest builds a JSON request carrying an authenticated user ID, the
// way the auth middleware would.
func authedRequest(t *testing.T, method, target string, userID uuid.UUID, body any) *http.Request {
	t.Helper()

	payload, err := json.Marshal(body)
	require.NoError(t, err)

	req := httptest.NewRequest(method, target, bytes.NewReader(payload))
	req.Header.Set("Content-Type", "application/json")
	ctx := context.WithValue(req.Context(), shared.UserIDContextKey, userID)
	return req.WithContext(ctx)
}

func TestGenerateFlashcardsHandlerSuccess(t *testing.T) {
	t.Parallel()

	svc := &fakeGenerationService{result: &service.GenerationResult{
		GenerationID: 77,
		Proposals: []domain.FlashcardProposal{
			{Front: "Q1", Back: "A1", Source: domain.SourceAIFull},
			{Front: "Q2", Back: "A2", Source: domain.SourceAIFull},
		},
		GeneratedCount: 2,
	}}
	handler := api.NewGenerationHandler(svc)

	req := authedRequest(t, http.MethodPost, "/api/generations", uuid.New(), map[string]string{
		"source_text": strings.Repeat("a", 1500),
	})
	rr := httptest.NewRecorder()

	handler.GenerateFlashcards(rr, req)

	require.Equal(t, http.StatusCreated, rr.Code)

	var resp api.GenerateFlashcardsResponse
	require.NoError(t, json.Unmarshal(rr.Body.Bytes(), &resp))
	assert.Equal(t, int64(77), resp.GenerationID)
	assert.Equal(t, 2, resp.GeneratedCount)
	require.Len(t, resp.FlashcardsProposals, 2)
	assert.Equal(t, "Q1", resp.FlashcardsProposals[0].Front)
	assert.Equal(t, "ai-full", resp.FlashcardsProposals[0].Source)
}

func TestGenerateFlashcardsHandlerRejectsShortSourceText(t *testing.T) {
	t.Parallel()

	svc := &fakeGenerationService{}
	handler := api.NewGenerationHandler(svc)

	req := authedRequest(t, http.MethodPost, "/api/generations", uuid.New(), map[string]string{
		"source_text": "too short",
	})
	rr := httptest.NewRecorder()

	handler.GenerateFlashcards(rr, req)

	assert.Equal(t, http.StatusBadRequest, rr.Code)
	assert.Equal(t, 0, svc.calls, "service must not run on invalid input")
}

func TestGenerateFlashcardsHandlerRequiresAuth(t *testing.T) {
	t.Parallel()

	svc := &fakeGenerationService{}
	handler := api.NewGenerationHandler(svc)

	body := bytes.NewReader([]byte(`{"source_text": "x"}`))
	req := httptest.NewRequest(http.MethodPost, "/api/generations", body)
	rr := httptest.NewRecorder()

	handler.GenerateFlashcards(rr, req)

	assert.Equal(t, http.StatusUnauthorized, rr.Code)
	assert.Equal(t, 0, svc.calls)
}

func TestGenerateFlashcardsHandlerMapsServiceFailures(t *testing.T) {
	t.Parallel()

	testCases := []struct {
		name       string
		err        error
		wantStatus int
	}{
		{
			name:       "ai service failure",
			err:        fmt.Errorf("%w: backend failed", service.ErrAIService),
			wantStatus: http.StatusInternalServerError,
		},
		{
			name:       "timeout",
			err:        fmt.Errorf("%w: all attempts timed out", service.ErrTimeout),
			wantStatus: http.StatusGatewayTimeout,
		},
		{
			name:       "database failure",
			err:        fmt.Errorf("%w: insert failed", service.ErrDatabase),
			wantStatus: http.StatusInternalServerError,
		},
	}

	for _, tc := range testCases {
		tc := tc
		t.Run(tc.name, func(t *testing.T) {
			t.Parallel()

			handler := api.NewGenerationHandler(&fakeGenerationService{err: tc.err})

			req := authedRequest(t, http.MethodPost, "/api/generations", uuid.New(), map[string]string{
				"source_text": strings.Repeat("a", 1500),
			})
			rr := httptest.NewRecorder()

			handler.GenerateFlashcards(rr, req)

			assert.Equal(t, tc.wantStatus, rr.Code)

			var resp shared.ErrorResponse
			require.NoError(t, json.Unmarshal(rr.Body.Bytes(), &resp))
			assert.NotEmpty(t, resp.Error)
		})
	}
}
