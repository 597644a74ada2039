package openrouter

import "fmt"

// ErrorKind classifies a gateway failure. The closed set of kinds is what
// upper layers map to wire-level status codes, instead of inspecting
// concrete error types from the underlying client library.
type ErrorKind string

const (
	// KindValidation covers malformed requests rejected before or by the
	// backend (4xx other than auth/rate-limit), including an empty user
	// message caught at dispatch time.
	KindValidation ErrorKind = "validation"

	// KindAuth covers 401/403 responses from the backend.
	KindAuth ErrorKind = "auth"

	// KindRateLimit covers 429 responses from the backend.
	KindRateLimit ErrorKind = "rate_limit"

	// KindServer covers 5xx-class backend failures.
	KindServer ErrorKind = "server"

	// KindTimeout covers attempts that exceeded their time bound.
	KindTimeout ErrorKind = "timeout"

	// KindParse covers responses whose content could not be decoded
	// against the requested schema, or that carried no choices.
	KindParse ErrorKind = "parse"

	// KindTransport covers network-level failures with no HTTP status.
	KindTransport ErrorKind = "transport"
)

// Error is the typed failure returned by the gateway. StatusCode is the
// backend HTTP status when one was received, zero otherwise.
type Error struct {
	Kind       ErrorKind
	StatusCode int
	Message    string
	Err        error
}

// Error implements the error interface.
func (e *Error) Error() string {
	if e.StatusCode != 0 {
		return fmt.Sprintf("openrouter: %s (%d): %s", e.Kind, e.StatusCode, e.Message)
	}
	return fmt.Sprintf("openrouter: %s: %s", e.Kind, e.Message)
}

// Unwrap returns the wrapped error to support errors.Is/errors.As.
func (e *Error) Unwrap() error {
	return e.Err
}

// Retryable reports whether the failure class is worth another attempt.
// Only per-attempt timeouts and 5xx-class server responses are retried;
// every 4xx fails immediately.
func (e *Error) Retryable() bool {
	return e.Kind == KindServer || e.Kind == KindTimeout
}

func newError(kind ErrorKind, status int, message string, err error) *Error {
	return &Error{Kind: kind, StatusCode: status, Message: message, Err: err}
}
