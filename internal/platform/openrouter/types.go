package openrouter

import "encoding/json"

// Params are the sampling parameters attached to every completion request.
type Params struct {
	Temperature      float32
	TopP             float32
	FrequencyPenalty float32
	PresencePenalty  float32
}

// DefaultParams returns the documented default sampling parameters.
func DefaultParams() Params {
	return Params{
		Temperature:      0.7,
		TopP:             0.9,
		FrequencyPenalty: 0,
		PresencePenalty:  0,
	}
}

// SchemaFormat describes a JSON schema the backend must constrain its
// output to. When set on a Request, the returned content is expected to be
// a JSON document conforming to Schema.
type SchemaFormat struct {
	Name   string
	Strict bool
	Schema json.RawMessage
}

// Request is the immutable, fully-assembled input to a single Complete
// call. Build the whole value before dispatch; the client holds no
// per-call message state, so distinct Requests are safe to dispatch
// concurrently on one Client.
type Request struct {
	// SystemMessage, when non-empty, is sent first in the message sequence.
	SystemMessage string

	// UserMessage is required; dispatch fails with a validation-kind error
	// when it is empty.
	UserMessage string

	// Model overrides the client's default model when non-empty.
	Model string

	// Params are the sampling parameters; zero value means DefaultParams.
	Params *Params

	// ResponseSchema, when set, requests structured JSON output.
	ResponseSchema *SchemaFormat
}

// Completion is the decoded result of a successful chat-completion call.
type Completion struct {
	// Content is the assistant message content of the first choice.
	Content string

	// Model is the model the backend reports having used.
	Model string

	// Attempts is the number of HTTP attempts the call consumed.
	Attempts int
}
