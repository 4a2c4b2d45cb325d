package db

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strconv"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"

	"github.com/jonathan/resume-optimizer/internal/types"
)

// SaveArtifact stores a JSON artifact for a job, replacing any previous
// artifact with the same step name
func (db *DB) SaveArtifact(ctx context.Context, jobID uuid.UUID, step, category string, content any) error {
	jsonBytes, err := json.Marshal(content)
	if err != nil {
		return fmt.Errorf("failed to marshal artifact: %w", err)
	}

	_, err = db.pool.Exec(ctx,
		`INSERT INTO artifacts (job_id, step, category, content)
		 VALUES ($1, $2, $3, $4)
		 ON CONFLICT (job_id, step) DO UPDATE SET category = $3, content = $4, created_at = NOW()`,
		jobID, step, category, jsonBytes,
	)
	if err != nil {
		return fmt.Errorf("failed to save artifact %s: %w", step, err)
	}
	return nil
}

// GetArtifact retrieves a JSON artifact by job ID and step. Returns nil
// bytes when no artifact exists.
func (db *DB) GetArtifact(ctx context.Context, jobID uuid.UUID, step string) ([]byte, error) {
	var content []byte
	err := db.pool.QueryRow(ctx,
		`SELECT content FROM artifacts WHERE job_id = $1 AND step = $2`,
		jobID, step,
	).Scan(&content)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to get artifact %s: %w", step, err)
	}
	return content, nil
}

// SaveEvaluation stores the scored candidates of one iteration, keyed so a
// re-run of the same iteration overwrites the previous artifact. The string
// jobID form satisfies the agent's Recorder interface.
func (db *DB) SaveEvaluation(ctx context.Context, jobID string, iteration int, result types.EvaluationResult) error {
	id, err := uuid.Parse(jobID)
	if err != nil {
		return fmt.Errorf("invalid job id %q: %w", jobID, err)
	}
	step := StepEvaluationPrefix + strconv.Itoa(iteration)
	return db.SaveArtifact(ctx, id, step, CategoryEvaluation, result)
}

// GetEvaluation loads the evaluation artifact of one iteration. Returns nil
// when the iteration was never recorded.
func (db *DB) GetEvaluation(ctx context.Context, jobID uuid.UUID, iteration int) (*types.EvaluationResult, error) {
	content, err := db.GetArtifact(ctx, jobID, StepEvaluationPrefix+strconv.Itoa(iteration))
	if err != nil {
		return nil, err
	}
	if content == nil {
		return nil, nil
	}

	var result types.EvaluationResult
	if err := json.Unmarshal(content, &result); err != nil {
		return nil, fmt.Errorf("failed to unmarshal evaluation: %w", err)
	}
	return &result, nil
}

// SaveAnalysis stores the perceive-step artifact for a job. The string
// jobID form satisfies the agent's Recorder interface.
func (db *DB) SaveAnalysis(ctx context.Context, jobID string, analysis *types.Analysis) error {
	id, err := uuid.Parse(jobID)
	if err != nil {
		return fmt.Errorf("invalid job id %q: %w", jobID, err)
	}
	return db.SaveArtifact(ctx, id, "analysis", CategoryAnalysis, analysis)
}
