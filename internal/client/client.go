// Package client provides a small HTTP client for the cardgen API, used by
// the terminal review client. It mirrors the server's wire types and folds
// error responses into APIError values callers can inspect.
package client

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"
)

const defaultTimeout = 60 * time.Second

// APIError is a non-2xx response from the server.
type APIError struct {
	StatusCode int
	Message    string
	TraceID    string
}

func (e *APIError) Error() string {
	if e.TraceID != "" {
		return fmt.Sprintf("api error (status %d, trace %s): %s", e.StatusCode, e.TraceID, e.Message)
	}
	return fmt.Sprintf("api error (status %d): %s", e.StatusCode, e.Message)
}

// Client talks to a cardgen API server. It is safe for use from a single
// goroutine; the terminal client drives it from its event loop.
type Client struct {
	baseURL    string
	httpClient *http.Client
	token      string
}

// New creates a client for the server at baseURL, e.g. "http://localhost:8080".
func New(baseURL string) *Client {
	return &Client{
		baseURL:    baseURL,
		httpClient: &http.Client{Timeout: defaultTimeout},
	}
}

// SetToken stores the JWT used for authenticated requests.
func (c *Client) SetToken(token string) {
	c.token = token
}

// Register creates a new account and stores the returned token.
func (c *Client) Register(ctx context.Context, email, password string) (*AuthResult, error) {
	return c.authenticate(ctx, "/api/auth/register", email, password)
}

// Login authenticates an existing account and stores the returned token.
func (c *Client) Login(ctx context.Context, email, password string) (*AuthResult, error) {
	return c.authenticate(ctx, "/api/auth/login", email, password)
}

func (c *Client) authenticate(ctx context.Context, path, email, password string) (*AuthResult, error) {
	req := authRequest{Email: email, Password: password}

	var result AuthResult
	if err := c.do(ctx, http.MethodPost, path, req, &result); err != nil {
		return nil, err
	}
	c.token = result.Token
	return &result, nil
}

// GenerateFlashcards submits source text and returns the generated proposals.
func (c *Client) GenerateFlashcards(ctx context.Context, sourceText string) (*GenerationResult, error) {
	req := generateRequest{SourceText: sourceText}

	var result GenerationResult
	if err := c.do(ctx, http.MethodPost, "/api/generations", req, &result); err != nil {
		return nil, err
	}
	return &result, nil
}

// SaveFlashcards persists a batch of flashcards. The server saves the batch
// atomically: on error nothing was stored.
func (c *Client) SaveFlashcards(ctx context.Context, cards []FlashcardCreate) ([]Flashcard, error) {
	req := saveRequest{Flashcards: cards}

	var result flashcardListResponse
	if err := c.do(ctx, http.MethodPost, "/api/flashcards", req, &result); err != nil {
		return nil, err
	}
	return result.Flashcards, nil
}

// ListFlashcards returns the authenticated user's saved flashcards, newest
// first.
func (c *Client) ListFlashcards(ctx context.Context) ([]Flashcard, error) {
	var result flashcardListResponse
	if err := c.do(ctx, http.MethodGet, "/api/flashcards", nil, &result); err != nil {
		return nil, err
	}
	return result.Flashcards, nil
}

// do executes one request/response round trip. A nil body sends no payload;
// a nil out discards the response body.
func (c *Client) do(ctx context.Context, method, path string, body, out interface{}) error {
	var reader io.Reader
	if body != nil {
		payload, err := json.Marshal(body)
		if err != nil {
			return fmt.Errorf("failed to encode request body: %w", err)
		}
		reader = bytes.NewReader(payload)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, reader)
	if err != nil {
		return fmt.Errorf("failed to build request: %w", err)
	}
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if c.token != "" {
		req.Header.Set("Authorization", "Bearer "+c.token)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("request to %s failed: %w", path, err)
	}
	defer func() { _ = resp.Body.Close() }()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return decodeAPIError(resp)
	}

	if out == nil {
		return nil
	}
	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return fmt.Errorf("failed to decode response from %s: %w", path, err)
	}
	return nil
}

// decodeAPIError extracts the error message from a failed response,
// tolerating both {"error": ...} and {"message": ...} shapes.
func decodeAPIError(resp *http.Response) error {
	apiErr := &APIError{StatusCode: resp.StatusCode}

	raw, err := io.ReadAll(io.LimitReader(resp.Body, 1<<16))
	if err != nil {
		apiErr.Message = http.StatusText(resp.StatusCode)
		return apiErr
	}

	var body struct {
		Error   string `json:"error"`
		Message string `json:"message"`
		TraceID string `json:"trace_id"`
	}
	if err := json.Unmarshal(raw, &body); err == nil {
		apiErr.TraceID = body.TraceID
		switch {
		case body.Error != "":
			apiErr.Message = body.Error
		case body.Message != "":
			apiErr.Message = body.Message
		}
	}
	if apiErr.Message == "" {
		apiErr.Message = http.StatusText(resp.StatusCode)
	}
	return apiErr
}
