package store

import (
	"context"
	"database/sql"

	"github.com/google/uuid"

	"github.com/tenxcards/cardgen-api/internal/domain"
)

// GenerationStore defines the interface for generation telemetry persistence.
type GenerationStore interface {
	// CreateGeneration saves a completed generation record and populates the
	// generation's ID and CreatedAt from the database.
	// Returns validation errors if the record is invalid.
	CreateGeneration(ctx context.Context, generation *domain.Generation) error

	// CreateErrorLog saves a generation error log entry and populates its ID
	// and CreatedAt from the database. Callers that treat error logging as
	// best-effort are responsible for swallowing the returned error.
	CreateErrorLog(ctx context.Context, errorLog *domain.GenerationErrorLog) error

	// GetGenerationByID retrieves a generation record by its ID, scoped to
	// the owning user. Returns ErrGenerationNotFound if no such record
	// exists for that user.
	GetGenerationByID(ctx context.Context, userID uuid.UUID, id int64) (*domain.Generation, error)

	// WithTx returns a new GenerationStore instance that uses the provided
	// transaction. The transaction is created and managed by the caller.
	WithTx(tx *sql.Tx) GenerationStore
}
