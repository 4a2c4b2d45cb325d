package db

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"

	"github.com/jonathan/resume-optimizer/internal/types"
)

// CreateJob records a new optimization job in QUEUED state and returns its ID
func (db *DB) CreateJob(ctx context.Context, resume, jobDescription string) (uuid.UUID, error) {
	var id uuid.UUID
	err := db.pool.QueryRow(ctx,
		`INSERT INTO jobs (resume, job_description, status)
		 VALUES ($1, $2, $3)
		 RETURNING id`,
		resume, jobDescription, StatusQueued,
	).Scan(&id)
	if err != nil {
		return uuid.Nil, fmt.Errorf("failed to create job: %w", err)
	}
	return id, nil
}

// StartJob transitions a job to RUNNING
func (db *DB) StartJob(ctx context.Context, jobID uuid.UUID) error {
	_, err := db.pool.Exec(ctx,
		`UPDATE jobs SET status = $1 WHERE id = $2`,
		StatusRunning, jobID,
	)
	if err != nil {
		return fmt.Errorf("failed to start job: %w", err)
	}
	return nil
}

// CompleteJob marks a job COMPLETED and stores its final result
func (db *DB) CompleteJob(ctx context.Context, jobID uuid.UUID, result *types.OptimizationResult) error {
	resultJSON, err := json.Marshal(result)
	if err != nil {
		return fmt.Errorf("failed to marshal result: %w", err)
	}

	_, err = db.pool.Exec(ctx,
		`UPDATE jobs SET status = $1, job_type = $2, best_score = $3, result = $4, completed_at = NOW()
		 WHERE id = $5`,
		StatusCompleted, string(result.JobType), result.BestScore, resultJSON, jobID,
	)
	if err != nil {
		return fmt.Errorf("failed to complete job: %w", err)
	}
	return nil
}

// FailJob marks a job FAILED with an error message
func (db *DB) FailJob(ctx context.Context, jobID uuid.UUID, cause error) error {
	message := ""
	if cause != nil {
		message = cause.Error()
	}
	_, err := db.pool.Exec(ctx,
		`UPDATE jobs SET status = $1, error = $2, completed_at = NOW() WHERE id = $3`,
		StatusFailed, message, jobID,
	)
	if err != nil {
		return fmt.Errorf("failed to fail job: %w", err)
	}
	return nil
}

// GetJob retrieves a job by ID. Returns nil when no job exists.
func (db *DB) GetJob(ctx context.Context, jobID uuid.UUID) (*Job, error) {
	var job Job
	var jobType, errMsg *string
	err := db.pool.QueryRow(ctx,
		`SELECT id, status, job_type, resume, job_description, best_score, error, created_at, completed_at
		 FROM jobs WHERE id = $1`,
		jobID,
	).Scan(&job.ID, &job.Status, &jobType, &job.Resume, &job.JobDescription,
		&job.BestScore, &errMsg, &job.CreatedAt, &job.CompletedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to get job: %w", err)
	}
	if jobType != nil {
		job.JobType = *jobType
	}
	if errMsg != nil {
		job.Error = *errMsg
	}
	return &job, nil
}

// GetResult retrieves the final result of a completed job. Returns nil when
// the job is unknown or has no result yet.
func (db *DB) GetResult(ctx context.Context, jobID uuid.UUID) (*types.OptimizationResult, error) {
	var resultJSON []byte
	err := db.pool.QueryRow(ctx,
		`SELECT result FROM jobs WHERE id = $1`,
		jobID,
	).Scan(&resultJSON)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to get result: %w", err)
	}
	if len(resultJSON) == 0 {
		return nil, nil
	}

	var result types.OptimizationResult
	if err := json.Unmarshal(resultJSON, &result); err != nil {
		return nil, fmt.Errorf("failed to unmarshal result: %w", err)
	}
	return &result, nil
}

// ListJobs retrieves recent jobs, newest first
func (db *DB) ListJobs(ctx context.Context, limit int) ([]Job, error) {
	if limit <= 0 {
		limit = 50
	}
	rows, err := db.pool.Query(ctx,
		`SELECT id, status, job_type, best_score, error, created_at, completed_at
		 FROM jobs ORDER BY created_at DESC LIMIT $1`,
		limit,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to list jobs: %w", err)
	}
	defer rows.Close()

	var jobs []Job
	for rows.Next() {
		var job Job
		var jobType, errMsg *string
		if err := rows.Scan(&job.ID, &job.Status, &jobType, &job.BestScore, &errMsg, &job.CreatedAt, &job.CompletedAt); err != nil {
			return nil, fmt.Errorf("failed to scan job: %w", err)
		}
		if jobType != nil {
			job.JobType = *jobType
		}
		if errMsg != nil {
			job.Error = *errMsg
		}
		jobs = append(jobs, job)
	}
	return jobs, nil
}
