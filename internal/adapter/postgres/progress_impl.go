package postgres

import (
	"context"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/user/aimpact-scanner/internal/entity"
)

// ProgressRepoImpl provides a concrete implementation for the
// ProgressRepository interface using PostgreSQL.
type ProgressRepoImpl struct {
	db *pgxpool.Pool
}

// NewProgressRepo creates a new instance of ProgressRepoImpl.
func NewProgressRepo(db *pgxpool.Pool) *ProgressRepoImpl {
	return &ProgressRepoImpl{db: db}
}

// Append inserts one progress checkpoint.
func (r *ProgressRepoImpl) Append(ctx context.Context, event *entity.ProgressEvent) error {
	query := `
		INSERT INTO analysis_progress (analysis_id, stage, progress_percent, message, educational_content, created_at)
		VALUES ($1, $2, $3, $4, $5, $6);
	`
	_, err := r.db.Exec(ctx, query,
		event.AnalysisID,
		event.Stage,
		event.ProgressPercent,
		event.Message,
		event.EducationalContent,
		event.CreatedAt,
	)
	return err
}

// ListByAnalysis returns all checkpoints for an analysis in insertion order.
func (r *ProgressRepoImpl) ListByAnalysis(ctx context.Context, analysisID uuid.UUID) ([]*entity.ProgressEvent, error) {
	query := `
		SELECT id, analysis_id, stage, progress_percent, message, educational_content, created_at
		FROM analysis_progress
		WHERE analysis_id = $1
		ORDER BY id ASC;
	`
	rows, err := r.db.Query(ctx, query, analysisID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var events []*entity.ProgressEvent
	for rows.Next() {
		var ev entity.ProgressEvent
		if err := rows.Scan(
			&ev.ID,
			&ev.AnalysisID,
			&ev.Stage,
			&ev.ProgressPercent,
			&ev.Message,
			&ev.EducationalContent,
			&ev.CreatedAt,
		); err != nil {
			return nil, err
		}
		events = append(events, &ev)
	}

	return events, rows.Err()
}
