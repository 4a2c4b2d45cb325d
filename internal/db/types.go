package db

import (
	"time"

	"github.com/google/uuid"
)

// Job statuses, from submission to terminal state.
const (
	StatusQueued    = "QUEUED"
	StatusRunning   = "RUNNING"
	StatusCompleted = "COMPLETED"
	StatusFailed    = "FAILED"
)

// Artifact step name prefix for per-iteration evaluation results. The full
// step name is e.g. "evaluation_2" for iteration 2.
const StepEvaluationPrefix = "evaluation_"

// Category constants for grouping artifacts by phase
const (
	CategoryAnalysis   = "analysis"
	CategoryEvaluation = "evaluation"
	CategoryResult     = "result"
)

// Job represents an optimization job record
type Job struct {
	ID             uuid.UUID  `json:"id"`
	Status         string     `json:"status"`
	JobType        string     `json:"job_type,omitempty"`
	Resume         string     `json:"-"`
	JobDescription string     `json:"-"`
	BestScore      *float64   `json:"best_score,omitempty"`
	Error          string     `json:"error,omitempty"`
	CreatedAt      time.Time  `json:"created_at"`
	CompletedAt    *time.Time `json:"completed_at,omitempty"`
}

// Terminal reports whether the job has finished, successfully or not.
func (j *Job) Terminal() bool {
	return j.Status == StatusCompleted || j.Status == StatusFailed
}
