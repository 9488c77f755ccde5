package repository

import (
	"context"

	"github.com/google/uuid"
	"github.com/user/aimpact-scanner/internal/entity"
)

// ProgressRepository defines the interface for the append-only
// `analysis_progress` table.
type ProgressRepository interface {
	// Append inserts one checkpoint. Events are never updated or deleted
	// individually; cleanup happens via cascade with the analysis.
	Append(ctx context.Context, event *entity.ProgressEvent) error
	// ListByAnalysis returns all checkpoints for an analysis in insertion
	// order.
	ListByAnalysis(ctx context.Context, analysisID uuid.UUID) ([]*entity.ProgressEvent, error)
}
