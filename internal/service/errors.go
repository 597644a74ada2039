package service

import (
	"errors"
	"fmt"
	"strings"
)

// Common service errors - sentinel errors used across service implementations.
// These errors represent the stable failure taxonomy that callers check with
// errors.Is().
//
// Error handling principles:
// 1. Service methods return sentinel errors for expected error conditions
// 2. Unexpected errors are wrapped in service-specific error types
// 3. Callers use errors.Is/errors.As to check for specific error conditions
// 4. The API layer maps service errors to appropriate HTTP status codes
var (
	// ErrAIService indicates the model gateway failed to produce proposals.
	// API layer should map this to HTTP 500 Internal Server Error.
	ErrAIService = errors.New("ai service failed")

	// ErrDatabase indicates a persistence operation failed.
	// API layer should map this to HTTP 500 Internal Server Error.
	ErrDatabase = errors.New("database operation failed")

	// ErrTimeout indicates the model gateway exceeded its time bound.
	// API layer should map this to HTTP 504 Gateway Timeout.
	ErrTimeout = errors.New("ai service timed out")

	// ErrNotOwned indicates a resource is owned by a different user than the
	// one making the request. API layer should map this to HTTP 403 Forbidden.
	ErrNotOwned = errors.New("resource is owned by another user")
)

// ServiceError wraps errors from a service with operation context.
type ServiceError struct {
	// Operation is the operation that failed (e.g., "generate_flashcards")
	Operation string
	// Message is a human-readable description of the error
	Message string
	// Err is the underlying error that caused the failure
	Err error
}

// Error implements the error interface for ServiceError.
func (e *ServiceError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("service %s failed: %s: %v", e.Operation, e.Message, e.Err)
	}
	return fmt.Sprintf("service %s failed: %s", e.Operation, e.Message)
}

// Unwrap returns the wrapped error to support errors.Is/errors.As.
func (e *ServiceError) Unwrap() error {
	return e.Err
}

// FieldIssue describes a single validation failure within a batch request.
type FieldIssue struct {
	// Index is the zero-based position of the offending item in the batch.
	Index int `json:"index"`
	// Message describes what was wrong with the item.
	Message string `json:"message"`
}

// BatchValidationError aggregates per-item validation failures so callers
// can report every offending item at once instead of failing on the first.
type BatchValidationError struct {
	Issues []FieldIssue
}

// Error implements the error interface for BatchValidationError.
func (e *BatchValidationError) Error() string {
	parts := make([]string, 0, len(e.Issues))
	for _, issue := range e.Issues {
		parts = append(parts, fmt.Sprintf("item %d: %s", issue.Index, issue.Message))
	}
	return "validation failed: " + strings.Join(parts, "; ")
}
