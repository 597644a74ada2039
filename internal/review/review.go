// Package review implements the proposal review workflow as an explicit,
// framework-independent state machine. A Session holds the proposals of one
// generation as mutable view-state; all transitions are synchronous and are
// expected to run on a single goroutine (the UI event loop).
package review

import (
	"errors"
	"fmt"
	"strings"
	"unicode/utf8"

	"github.com/google/uuid"

	"github.com/tenxcards/cardgen-api/internal/domain"
)

// Subset selects which proposals a save operation submits.
type Subset string

const (
	// SubsetAll submits every proposal still in the session.
	SubsetAll Subset = "all"

	// SubsetAccepted submits only proposals marked accepted.
	SubsetAccepted Subset = "accepted-only"
)

// Review errors.
var (
	// ErrUnknownProposal is returned when an operation names a proposal ID
	// that is not in the session.
	ErrUnknownProposal = errors.New("unknown proposal")

	// ErrEmptySelection is returned when a save would submit no proposals.
	ErrEmptySelection = errors.New("no proposals selected for save")

	// ErrInvalidSubset is returned for a subset value outside the known set.
	ErrInvalidSubset = errors.New("invalid save subset")
)

// Proposal is the mutable view-model of one generated flashcard proposal.
// Accepted and Rejected are never both true; Edited is sticky until the
// proposal is saved or discarded.
type Proposal struct {
	ID       uuid.UUID
	Front    string
	Back     string
	Accepted bool
	Edited   bool
	Rejected bool
}

// Issue describes one proposal that failed save validation.
type Issue struct {
	// Index is the zero-based position of the proposal in the selection.
	Index int
	// Message describes the violation.
	Message string
}

// SaveValidationError aggregates every bounds violation in a save selection
// so the user sees all offending proposals at once.
type SaveValidationError struct {
	Issues []Issue
}

// Error implements the error interface for SaveValidationError.
func (e *SaveValidationError) Error() string {
	parts := make([]string, 0, len(e.Issues))
	for _, issue := range e.Issues {
		parts = append(parts, fmt.Sprintf("proposal %d: %s", issue.Index, issue.Message))
	}
	return "save validation failed: " + strings.Join(parts, "; ")
}

// Session holds the review state for the proposals of one generation.
type Session struct {
	generationID int64
	proposals    []*Proposal
	byID         map[uuid.UUID]*Proposal
}

// NewSession creates a review session from a generation's proposals. Each
// proposal gets an opaque unique ID and starts with all flags false.
func NewSession(generationID int64, proposals []domain.FlashcardProposal) *Session {
	s := &Session{
		generationID: generationID,
		proposals:    make([]*Proposal, 0, len(proposals)),
		byID:         make(map[uuid.UUID]*Proposal, len(proposals)),
	}
	for _, p := range proposals {
		vm := &Proposal{
			ID:    uuid.New(),
			Front: p.Front,
			Back:  p.Back,
		}
		s.proposals = append(s.proposals, vm)
		s.byID[vm.ID] = vm
	}
	return s
}

// GenerationID returns the originating generation's ID.
func (s *Session) GenerationID() int64 {
	return s.generationID
}

// Len returns the number of proposals still in the session.
func (s *Session) Len() int {
	return len(s.proposals)
}

// Proposals returns a snapshot of the session's proposals in generation
// order. Mutating the returned slice does not affect the session.
func (s *Session) Proposals() []Proposal {
	snapshot := make([]Proposal, 0, len(s.proposals))
	for _, p := range s.proposals {
		snapshot = append(snapshot, *p)
	}
	return snapshot
}

// Accept marks the proposal accepted and clears any rejection. Idempotent.
func (s *Session) Accept(id uuid.UUID) error {
	p, ok := s.byID[id]
	if !ok {
		return fmt.Errorf("%w: %s", ErrUnknownProposal, id)
	}
	p.Accepted = true
	p.Rejected = false
	return nil
}

// Reject marks the proposal rejected and clears any acceptance. Idempotent.
func (s *Session) Reject(id uuid.UUID) error {
	p, ok := s.byID[id]
	if !ok {
		return fmt.Errorf("%w: %s", ErrUnknownProposal, id)
	}
	p.Rejected = true
	p.Accepted = false
	return nil
}

// SaveEdit replaces the proposal's front and back after validating both
// against the flashcard content bounds. On success the proposal is marked
// edited and its acceptance is cleared so the user confirms the new text.
// On validation failure no state changes and the returned error identifies
// the offending field.
func (s *Session) SaveEdit(id uuid.UUID, front, back string) error {
	p, ok := s.byID[id]
	if !ok {
		return fmt.Errorf("%w: %s", ErrUnknownProposal, id)
	}

	if n := utf8.RuneCountInString(front); n == 0 || n > domain.FrontMaxLength {
		return domain.ErrFlashcardFrontInvalid
	}
	if n := utf8.RuneCountInString(back); n == 0 || n > domain.BackMaxLength {
		return domain.ErrFlashcardBackInvalid
	}

	p.Front = front
	p.Back = back
	p.Edited = true
	p.Accepted = false
	return nil
}

// BuildSaveCommands rebuilds the selected proposals as flashcard create
// commands: source is "ai-edited" when the proposal was edited and "ai-full"
// otherwise, and every command carries the session's generation ID.
//
// It fails locally, without touching the session, when the selection is
// empty or when any selected proposal violates the front/back bounds; the
// returned *SaveValidationError lists every violation by index.
func (s *Session) BuildSaveCommands(subset Subset) ([]domain.FlashcardCreateCommand, error) {
	var selected []*Proposal
	switch subset {
	case SubsetAll:
		selected = s.proposals
	case SubsetAccepted:
		for _, p := range s.proposals {
			if p.Accepted {
				selected = append(selected, p)
			}
		}
	default:
		return nil, fmt.Errorf("%w: %q", ErrInvalidSubset, subset)
	}

	if len(selected) == 0 {
		return nil, ErrEmptySelection
	}

	generationID := s.generationID
	var issues []Issue
	commands := make([]domain.FlashcardCreateCommand, 0, len(selected))
	for i, p := range selected {
		source := domain.SourceAIFull
		if p.Edited {
			source = domain.SourceAIEdited
		}
		cmd := domain.FlashcardCreateCommand{
			Front:        p.Front,
			Back:         p.Back,
			Source:       source,
			GenerationID: &generationID,
		}
		if err := cmd.Validate(); err != nil {
			issues = append(issues, Issue{Index: i, Message: err.Error()})
			continue
		}
		commands = append(commands, cmd)
	}
	if len(issues) > 0 {
		return nil, &SaveValidationError{Issues: issues}
	}

	return commands, nil
}

// Clear discards the active proposal set, typically after a successful save
// or when a new generation starts.
func (s *Session) Clear() {
	s.proposals = nil
	s.byID = make(map[uuid.UUID]*Proposal)
}
