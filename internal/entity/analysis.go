package entity

import (
	"time"

	"github.com/google/uuid"
)

// AnalysisStatus is the canonical lifecycle enumeration for an analysis.
// The string values are the wire contract with the frontend and must not
// be renamed.
type AnalysisStatus string

const (
	StatusPending    AnalysisStatus = "pending"
	StatusProcessing AnalysisStatus = "processing"
	StatusCompleted  AnalysisStatus = "completed"
	StatusError      AnalysisStatus = "error"
)

// Terminal reports whether the status admits no further transitions.
func (s AnalysisStatus) Terminal() bool {
	return s == StatusCompleted || s == StatusError
}

// Valid reports whether s is one of the canonical status values.
func (s AnalysisStatus) Valid() bool {
	switch s {
	case StatusPending, StatusProcessing, StatusCompleted, StatusError:
		return true
	}
	return false
}

// Analysis mirrors the `analyses` PostgreSQL table schema. One row per
// scan request. Created as pending by the caller; the worker transitions
// it to processing and then exactly once to a terminal state.
type Analysis struct {
	ID              uuid.UUID
	UserID          uuid.UUID
	URL             string
	Status          AnalysisStatus
	PageTitle       string
	PageDescription string
	OverallScore    *float64
	ErrorDetails    string
	CreatedAt       time.Time
	CompletedAt     *time.Time
}
