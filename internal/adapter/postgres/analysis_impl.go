package postgres

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/user/aimpact-scanner/internal/entity"
	"github.com/user/aimpact-scanner/internal/repository"
)

// AnalysisRepoImpl provides a concrete implementation for the
// AnalysisRepository interface using PostgreSQL.
type AnalysisRepoImpl struct {
	db *pgxpool.Pool
}

// NewAnalysisRepo creates a new instance of AnalysisRepoImpl.
func NewAnalysisRepo(db *pgxpool.Pool) *AnalysisRepoImpl {
	return &AnalysisRepoImpl{db: db}
}

// Create inserts a new analysis in the pending state.
func (r *AnalysisRepoImpl) Create(ctx context.Context, analysis *entity.Analysis) error {
	query := `
		INSERT INTO analyses (id, user_id, url, status, created_at)
		VALUES ($1, $2, $3, $4, $5);
	`
	_, err := r.db.Exec(ctx, query,
		analysis.ID,
		analysis.UserID,
		analysis.URL,
		string(entity.StatusPending),
		analysis.CreatedAt,
	)
	return err
}

// FindByID retrieves an analysis by its id.
func (r *AnalysisRepoImpl) FindByID(ctx context.Context, id uuid.UUID) (*entity.Analysis, error) {
	query := `
		SELECT id, user_id, url, status, COALESCE(page_title, ''), COALESCE(page_description, ''),
		       overall_score, COALESCE(error_details, ''), created_at, completed_at
		FROM analyses
		WHERE id = $1;
	`
	row := r.db.QueryRow(ctx, query, id)

	var a entity.Analysis
	var status string
	err := row.Scan(
		&a.ID,
		&a.UserID,
		&a.URL,
		&status,
		&a.PageTitle,
		&a.PageDescription,
		&a.OverallScore,
		&a.ErrorDetails,
		&a.CreatedAt,
		&a.CompletedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, repository.ErrAnalysisNotFound
		}
		return nil, err
	}
	a.Status = entity.AnalysisStatus(status)

	return &a, nil
}

// MarkProcessing transitions a pending analysis to processing. The WHERE
// clause guards the transition so a terminal row can never be reopened.
func (r *AnalysisRepoImpl) MarkProcessing(ctx context.Context, id uuid.UUID) error {
	query := `
		UPDATE analyses
		SET status = $2
		WHERE id = $1 AND status = $3;
	`
	tag, err := r.db.Exec(ctx, query, id, string(entity.StatusProcessing), string(entity.StatusPending))
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return repository.ErrInvalidTransition
	}
	return nil
}

// CompleteSuccess writes the terminal completed state.
func (r *AnalysisRepoImpl) CompleteSuccess(ctx context.Context, id uuid.UUID, title, description string, overallScore float64, completedAt time.Time) error {
	query := `
		UPDATE analyses
		SET status = $2,
		    page_title = $3,
		    page_description = $4,
		    overall_score = $5,
		    completed_at = $6
		WHERE id = $1 AND status = $7;
	`
	tag, err := r.db.Exec(ctx, query, id,
		string(entity.StatusCompleted), title, description, overallScore, completedAt,
		string(entity.StatusProcessing))
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return repository.ErrInvalidTransition
	}
	return nil
}

// CompleteError writes the terminal error state. It accepts rows in any
// non-terminal state so failures before MarkProcessing are still recorded.
func (r *AnalysisRepoImpl) CompleteError(ctx context.Context, id uuid.UUID, errorDetails string) error {
	query := `
		UPDATE analyses
		SET status = $2,
		    error_details = $3
		WHERE id = $1 AND status NOT IN ($4, $5);
	`
	tag, err := r.db.Exec(ctx, query, id,
		string(entity.StatusError), errorDetails,
		string(entity.StatusCompleted), string(entity.StatusError))
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return repository.ErrInvalidTransition
	}
	return nil
}

// Delete removes an analysis row; progress events and factor results go
// with it via ON DELETE CASCADE.
func (r *AnalysisRepoImpl) Delete(ctx context.Context, id uuid.UUID) error {
	query := `DELETE FROM analyses WHERE id = $1;`
	_, err := r.db.Exec(ctx, query, id)
	return err
}
