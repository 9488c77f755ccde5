package entity

import (
	"time"

	"github.com/google/uuid"
)

// ProgressEvent mirrors the `analysis_progress` PostgreSQL table schema.
// Rows are append-only checkpoints; they are never updated or deleted
// individually, only cascade-deleted with their analysis. Emitters must
// keep ProgressPercent non-decreasing for a single analysis.
type ProgressEvent struct {
	ID                 int64
	AnalysisID         uuid.UUID
	Stage              string
	ProgressPercent    int
	Message            string
	EducationalContent string
	CreatedAt          time.Time
}
