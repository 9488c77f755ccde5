package entity

import "github.com/google/uuid"

// FactorResult mirrors the `analysis_factors` PostgreSQL table schema.
// One row per scored dimension of a page. The column set is an external
// contract: a future scoring engine must produce the same shape.
type FactorResult struct {
	ID               int64
	AnalysisID       uuid.UUID
	FactorID         string
	FactorName       string
	Pillar           string
	Phase            string
	Score            int
	Confidence       float64
	Weight           float64
	Evidence         []string // stored as JSONB
	Recommendations  []string // stored as JSONB
	ProcessingTimeMS int
}
