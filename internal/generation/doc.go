// Package generation defines the boundary between the application core and
// external LLM services used for flashcard content generation.
//
// The ProposalGenerator interface abstracts the model backend; the concrete
// OpenRouter-backed implementation lives in internal/platform/openrouter.
// The error variables in this package form the stable taxonomy callers
// match against with errors.Is, independent of which backend produced them.
package generation
