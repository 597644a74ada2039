package generation

import "errors"

// Common errors returned by proposal generators.
var (
	// ErrGenerationFailed is returned when proposal generation fails for
	// any general reason.
	ErrGenerationFailed = errors.New("failed to generate flashcard proposals")

	// ErrInvalidResponse is returned when the model response cannot be
	// parsed or is malformed (e.g. structured output that does not match
	// the requested schema).
	ErrInvalidResponse = errors.New("invalid response from language model")

	// ErrTimeout is returned when every attempt exceeded its time bound.
	ErrTimeout = errors.New("model call timed out")

	// ErrTransientFailure is returned for temporary backend errors that
	// persisted through all retry attempts.
	ErrTransientFailure = errors.New("transient error during proposal generation")

	// ErrInvalidConfig is returned when the generator configuration is invalid.
	ErrInvalidConfig = errors.New("invalid generator configuration")
)
