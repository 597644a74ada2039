package api_test

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/tenxcards/cardgen-api/internal/api"
	"github.com/tenxcards/cardgen-api/internal/domain"
	"github.com/tenxcards/cardgen-api/internal/service"
	"github.com/tenxcards/cardgen-api/internal/service/auth"
	"github.com/tenxcards/cardgen-api/internal/store"
)

// fakeUserService returns scripted results and records the credentials it
// was called with.
type fakeUserService struct {
	result *service.AuthResult
	err    error

	gotEmail    string
	gotPassword string
}

func (f *fakeUserService) Register(_ context.Context, email, password string) (*service.AuthResult, error) {
	f.gotEmail = email
	f.gotPassword = password
	if f.err != nil {
		return nil, f.err
	}
	return f.result, nil
}

func (f *fakeUserService) Login(_ context.Context, email, password string) (*service.AuthResult, error) {
	return f.Register(context.Background(), email, password)
}

func authResultFor(email string) *service.AuthResult {
	return &service.AuthResult{
		User:  &domain.User{ID: uuid.New(), Email: email},
		Token: "issued-token",
	}
}

func postJSON(t *testing.T, handler http.HandlerFunc, target string, body interface{}) *httptest.ResponseRecorder {
	t.Helper()

	payload, err := json.Marshal(body)
	require.NoError(t, err)

	req := httptest.NewRequest(http.MethodPost, target, bytes.NewReader(payload))
	req.Header.Set("Content-Type", "application/json")
	rr := httptest.NewRecorder()
	handler(rr, req)
	return rr
}

func TestRegisterSuccess(t *testing.T) {
	t.Parallel()

	svc := &fakeUserService{result: authResultFor("new@example.com")}
	handler := api.NewAuthHandler(svc)

	rr := postJSON(t, handler.Register, "/api/auth/register", map[string]string{
		"email":    "new@example.com",
		"password": "long-enough-password",
	})

	require.Equal(t, http.StatusCreated, rr.Code)
	assert.Equal(t, "new@example.com", svc.gotEmail)

	var resp api.AuthResponse
	require.NoError(t, json.Unmarshal(rr.Body.Bytes(), &resp))
	assert.Equal(t, svc.result.User.ID, resp.UserID)
	assert.Equal(t, "issued-token", resp.AccessToken)
}

func TestRegisterRejectsInvalidPayloads(t *testing.T) {
	t.Parallel()

	testCases := []struct {
		name string
		body map[string]string
	}{
		{name: "malformed email", body: map[string]string{"email": "not-an-email", "password": "long-enough-password"}},
		{name: "short password", body: map[string]string{"email": "a@example.com", "password": "short"}},
		{name: "missing fields", body: map[string]string{}},
	}

	for _, tc := range testCases {
		tc := tc
		t.Run(tc.name, func(t *testing.T) {
			t.Parallel()

			svc := &fakeUserService{result: authResultFor("a@example.com")}
			handler := api.NewAuthHandler(svc)

			rr := postJSON(t, handler.Register, "/api/auth/register", tc.body)

			assert.Equal(t, http.StatusBadRequest, rr.Code)
			assert.Empty(t, svc.gotEmail, "service must not be called")
		})
	}
}

func TestRegisterDuplicateEmailReturnsConflict(t *testing.T) {
	t.Parallel()

	svc := &fakeUserService{err: store.ErrEmailExists}
	handler := api.NewAuthHandler(svc)

	rr := postJSON(t, handler.Register, "/api/auth/register", map[string]string{
		"email":    "taken@example.com",
		"password": "long-enough-password",
	})

	assert.Equal(t, http.StatusConflict, rr.Code)
	assert.Contains(t, rr.Body.String(), "Email already exists")
}

func TestLoginInvalidCredentialsReturnsUnauthorized(t *testing.T) {
	t.Parallel()

	svc := &fakeUserService{err: auth.ErrInvalidCredentials}
	handler := api.NewAuthHandler(svc)

	rr := postJSON(t, handler.Login, "/api/auth/login", map[string]string{
		"email":    "user@example.com",
		"password": "wrong-password",
	})

	assert.Equal(t, http.StatusUnauthorized, rr.Code)
	assert.Contains(t, rr.Body.String(), "Invalid email or password")
}

func TestLoginSuccess(t *testing.T) {
	t.Parallel()

	svc := &fakeUserService{result: authResultFor("user@example.com")}
	handler := api.NewAuthHandler(svc)

	rr := postJSON(t, handler.Login, "/api/auth/login", map[string]string{
		"email":    "user@example.com",
		"password": "correct-password",
	})

	require.Equal(t, http.StatusOK, rr.Code)

	var resp api.AuthResponse
	require.NoError(t, json.Unmarshal(rr.Body.Bytes(), &resp))
	assert.Equal(t, "issued-token", resp.AccessToken)
}
