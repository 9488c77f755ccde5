package postgres

import (
	"context"
	"encoding/json"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/user/aimpact-scanner/internal/entity"
)

// FactorRepoImpl provides a concrete implementation for the
// FactorRepository interface using PostgreSQL.
type FactorRepoImpl struct {
	db *pgxpool.Pool
}

// NewFactorRepo creates a new instance of FactorRepoImpl.
func NewFactorRepo(db *pgxpool.Pool) *FactorRepoImpl {
	return &FactorRepoImpl{db: db}
}

// SaveBatch inserts all factor results for one analysis.
func (r *FactorRepoImpl) SaveBatch(ctx context.Context, analysisID uuid.UUID, factors []*entity.FactorResult) error {
	query := `
		INSERT INTO analysis_factors (analysis_id, factor_id, factor_name, pillar, phase, score, confidence, weight, evidence, recommendations, processing_time_ms)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11);
	`
	for _, f := range factors {
		evidenceJSON, err := json.Marshal(f.Evidence)
		if err != nil {
			return err
		}
		recommendationsJSON, err := json.Marshal(f.Recommendations)
		if err != nil {
			return err
		}

		if _, err := r.db.Exec(ctx, query,
			analysisID,
			f.FactorID,
			f.FactorName,
			f.Pillar,
			f.Phase,
			f.Score,
			f.Confidence,
			f.Weight,
			evidenceJSON,
			recommendationsJSON,
			f.ProcessingTimeMS,
		); err != nil {
			return err
		}
	}
	return nil
}

// ListByAnalysis returns the stored factor results for an analysis.
func (r *FactorRepoImpl) ListByAnalysis(ctx context.Context, analysisID uuid.UUID) ([]*entity.FactorResult, error) {
	query := `
		SELECT id, analysis_id, factor_id, factor_name, pillar, phase, score, confidence, weight, evidence, recommendations, processing_time_ms
		FROM analysis_factors
		WHERE analysis_id = $1
		ORDER BY id ASC;
	`
	rows, err := r.db.Query(ctx, query, analysisID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var factors []*entity.FactorResult
	for rows.Next() {
		var f entity.FactorResult
		var evidenceJSON, recommendationsJSON []byte
		if err := rows.Scan(
			&f.ID,
			&f.AnalysisID,
			&f.FactorID,
			&f.FactorName,
			&f.Pillar,
			&f.Phase,
			&f.Score,
			&f.Confidence,
			&f.Weight,
			&evidenceJSON,
			&recommendationsJSON,
			&f.ProcessingTimeMS,
		); err != nil {
			return nil, err
		}
		if err := json.Unmarshal(evidenceJSON, &f.Evidence); err != nil {
			return nil, err
		}
		if err := json.Unmarshal(recommendationsJSON, &f.Recommendations); err != nil {
			return nil, err
		}
		factors = append(factors, &f)
	}

	return factors, rows.Err()
}
