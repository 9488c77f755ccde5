package repository

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"
	"github.com/user/aimpact-scanner/internal/entity"
)

var (
	// ErrAnalysisNotFound is returned when no analysis row exists for an id.
	ErrAnalysisNotFound = errors.New("analysis not found")
	// ErrInvalidTransition is returned when a status transition is attempted
	// on a row that is not in the expected source state.
	ErrInvalidTransition = errors.New("invalid analysis status transition")
)

// AnalysisRepository defines the interface for the `analyses` table. The
// caller creates rows; the worker only transitions their status.
type AnalysisRepository interface {
	// Create inserts a new analysis in the pending state.
	Create(ctx context.Context, analysis *entity.Analysis) error
	// FindByID retrieves an analysis, or ErrAnalysisNotFound.
	FindByID(ctx context.Context, id uuid.UUID) (*entity.Analysis, error)
	// MarkProcessing transitions pending -> processing.
	// Returns ErrInvalidTransition if the row is not pending.
	MarkProcessing(ctx context.Context, id uuid.UUID) error
	// CompleteSuccess writes the terminal completed state with the
	// extracted fields, the overall score and the completion timestamp.
	CompleteSuccess(ctx context.Context, id uuid.UUID, title, description string, overallScore float64, completedAt time.Time) error
	// CompleteError writes the terminal error state with a human-readable
	// cause. It must succeed on rows in any non-terminal state.
	CompleteError(ctx context.Context, id uuid.UUID, errorDetails string) error
	// Delete removes an analysis and, via cascade, its progress events and
	// factor results. Administrative/test concern; the worker never deletes.
	Delete(ctx context.Context, id uuid.UUID) error
}
