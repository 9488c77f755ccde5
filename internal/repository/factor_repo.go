package repository

import (
	"context"

	"github.com/google/uuid"
	"github.com/user/aimpact-scanner/internal/entity"
)

// FactorRepository defines the interface for the `analysis_factors` table.
type FactorRepository interface {
	// SaveBatch inserts all factor results for one analysis.
	SaveBatch(ctx context.Context, analysisID uuid.UUID, factors []*entity.FactorResult) error
	// ListByAnalysis returns the stored factor results for an analysis.
	ListByAnalysis(ctx context.Context, analysisID uuid.UUID) ([]*entity.FactorResult, error)
}
