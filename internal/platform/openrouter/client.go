package openrouter

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/sashabaranov/go-openai"

	"github.com/tenxcards/cardgen-api/internal/generation"
)

// Default gateway settings, overridable through Config.
const (
	DefaultBaseURL     = "https://openrouter.ai/api/v1"
	DefaultTimeout     = 30 * time.Second
	DefaultMaxAttempts = 3
	DefaultBackoffBase = 1000 * time.Millisecond
	DefaultBackoffCap  = 10000 * time.Millisecond
)

// Config holds the connection settings for the OpenRouter gateway.
type Config struct {
	// APIKey authenticates requests. Required.
	APIKey string

	// BaseURL is the OpenAI-compatible API root. Defaults to the public
	// OpenRouter endpoint.
	BaseURL string

	// Model is the default model identifier used when a Request does not
	// name one. Required.
	Model string

	// Timeout bounds each individual attempt. Defaults to 30s.
	Timeout time.Duration

	// MaxAttempts is the total number of attempts, including the first.
	// Defaults to 3.
	MaxAttempts int

	// BackoffBase and BackoffCap shape the delay between attempts:
	// min(BackoffBase * 2^attempt, BackoffCap).
	BackoffBase time.Duration
	BackoffCap  time.Duration
}

// Client executes chat-completion calls against an OpenRouter-compatible
// backend with bounded retries. It is stateless across calls and safe for
// concurrent use.
type Client struct {
	api         *openai.Client
	logger      *slog.Logger
	model       string
	timeout     time.Duration
	maxAttempts int
	backoffBase time.Duration
	backoffCap  time.Duration
}

// NewClient creates a new gateway client. The API key and model are
// required; every other setting falls back to its documented default.
func NewClient(cfg Config, logger *slog.Logger) (*Client, error) {
	if cfg.APIKey == "" {
		return nil, fmt.Errorf("%w: OpenRouter API key cannot be empty",
			generation.ErrInvalidConfig)
	}
	if cfg.Model == "" {
		return nil, fmt.Errorf("%w: model name cannot be empty",
			generation.ErrInvalidConfig)
	}

	if logger == nil {
		logger = slog.Default()
	}

	baseURL := cfg.BaseURL
	if baseURL == "" {
		baseURL = DefaultBaseURL
	}
	timeout := cfg.Timeout
	if timeout <= 0 {
		timeout = DefaultTimeout
	}
	maxAttempts := cfg.MaxAttempts
	if maxAttempts <= 0 {
		maxAttempts = DefaultMaxAttempts
	}
	backoffBase := cfg.BackoffBase
	if backoffBase <= 0 {
		backoffBase = DefaultBackoffBase
	}
	backoffCap := cfg.BackoffCap
	if backoffCap <= 0 {
		backoffCap = DefaultBackoffCap
	}

	apiConfig := openai.DefaultConfig(cfg.APIKey)
	apiConfig.BaseURL = strings.TrimSuffix(baseURL, "/")

	return &Client{
		api:         openai.NewClientWithConfig(apiConfig),
		logger:      logger.With(slog.String("component", "openrouter_client")),
		model:       cfg.Model,
		timeout:     timeout,
		maxAttempts: maxAttempts,
		backoffBase: backoffBase,
		backoffCap:  backoffCap,
	}, nil
}

// Model returns the client's default model identifier.
func (c *Client) Model() string {
	return c.model
}

// Complete dispatches the fully-assembled request and returns the first
// choice's content. Retryable failures (per-attempt timeout, 5xx) are
// retried with exponential backoff up to the configured attempt limit;
// any 4xx fails immediately with the backend's status and message.
func (c *Client) Complete(ctx context.Context, req Request) (*Completion, error) {
	if req.UserMessage == "" {
		return nil, newError(KindValidation, 0,
			"user message must be set before dispatch", nil)
	}

	ccr, err := c.buildRequest(req)
	if err != nil {
		return nil, err
	}

	var lastErr *Error
	for attempt := 1; attempt <= c.maxAttempts; attempt++ {
		c.logger.Debug("dispatching chat completion",
			slog.String("model", ccr.Model),
			slog.Int("attempt", attempt),
			slog.Int("max_attempts", c.maxAttempts))

		attemptCtx, cancel := context.WithTimeout(ctx, c.timeout)
		resp, callErr := c.api.CreateChatCompletion(attemptCtx, ccr)
		cancel()

		if callErr == nil {
			if len(resp.Choices) == 0 {
				return nil, newError(KindParse, 0, "no choices in response", nil)
			}
			return &Completion{
				Content:  resp.Choices[0].Message.Content,
				Model:    resp.Model,
				Attempts: attempt,
			}, nil
		}

		lastErr = classifyError(callErr)
		c.logger.Warn("chat completion attempt failed",
			slog.Int("attempt", attempt),
			slog.String("kind", string(lastErr.Kind)),
			slog.Int("status", lastErr.StatusCode),
			slog.String("error", lastErr.Message))

		if !lastErr.Retryable() || attempt == c.maxAttempts {
			return nil, lastErr
		}

		delay := backoffDelay(c.backoffBase, c.backoffCap, attempt)
		select {
		case <-time.After(delay):
		case <-ctx.Done():
			return nil, newError(KindTransport, 0,
				"request cancelled during retry backoff", ctx.Err())
		}
	}

	// Unreachable: the loop always returns on the final attempt.
	return nil, lastErr
}

// buildRequest translates a Request into the wire-level payload:
// system message first (when set), then the user message, with sampling
// parameters and the optional structured-output schema attached.
func (c *Client) buildRequest(req Request) (openai.ChatCompletionRequest, error) {
	var messages []openai.ChatCompletionMessage
	if req.SystemMessage != "" {
		messages = append(messages, openai.ChatCompletionMessage{
			Role:    openai.ChatMessageRoleSystem,
			Content: req.SystemMessage,
		})
	}
	messages = append(messages, openai.ChatCompletionMessage{
		Role:    openai.ChatMessageRoleUser,
		Content: req.UserMessage,
	})

	model := req.Model
	if model == "" {
		model = c.model
	}

	params := DefaultParams()
	if req.Params != nil {
		params = *req.Params
	}

	ccr := openai.ChatCompletionRequest{
		Model:            model,
		Messages:         messages,
		Temperature:      params.Temperature,
		TopP:             params.TopP,
		FrequencyPenalty: params.FrequencyPenalty,
		PresencePenalty:  params.PresencePenalty,
	}

	if req.ResponseSchema != nil {
		if len(req.ResponseSchema.Schema) == 0 {
			return openai.ChatCompletionRequest{}, newError(KindValidation, 0,
				"response schema cannot be empty", nil)
		}
		ccr.ResponseFormat = &openai.ChatCompletionResponseFormat{
			Type: openai.ChatCompletionResponseFormatTypeJSONSchema,
			JSONSchema: &openai.ChatCompletionResponseFormatJSONSchema{
				Name:   req.ResponseSchema.Name,
				Strict: req.ResponseSchema.Strict,
				Schema: req.ResponseSchema.Schema,
			},
		}
	}

	return ccr, nil
}

// classifyError maps a client-library failure onto the gateway's tagged
// error kinds.
func classifyError(err error) *Error {
	if errors.Is(err, context.DeadlineExceeded) {
		return newError(KindTimeout, 0, "attempt exceeded its time bound", err)
	}

	var apiErr *openai.APIError
	if errors.As(err, &apiErr) {
		return classifyStatus(apiErr.HTTPStatusCode, apiErr.Message, err)
	}

	var reqErr *openai.RequestError
	if errors.As(err, &reqErr) {
		return classifyStatus(reqErr.HTTPStatusCode, reqErr.Error(), err)
	}

	return newError(KindTransport, 0, err.Error(), err)
}

func classifyStatus(status int, message string, err error) *Error {
	switch {
	case status >= 500:
		return newError(KindServer, status, message, err)
	case status == 401 || status == 403:
		return newError(KindAuth, status, message, err)
	case status == 429:
		return newError(KindRateLimit, status, message, err)
	case status >= 400:
		return newError(KindValidation, status, message, err)
	default:
		return newError(KindTransport, status, message, err)
	}
}

// backoffDelay computes the wait before the next attempt:
// min(base * 2^attempt, limit).
func backoffDelay(base, limit time.Duration, attempt int) time.Duration {
	delay := base << uint(attempt)
	if delay > limit || delay <= 0 {
		return limit
	}
	return delay
}
