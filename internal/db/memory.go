package db

import (
	"context"
	"fmt"

	"github.com/jonathan/resume-optimizer/internal/types"
)

// StoreStrategy records a successful run outcome in the strategy memory
// table. The planner recalls these when planning future jobs of the same
// type.
func (db *DB) StoreStrategy(ctx context.Context, record types.SuccessRecord) error {
	_, err := db.pool.Exec(ctx,
		`INSERT INTO strategy_memory (job_type, strategy, approach, score, gap_count, iterations)
		 VALUES ($1, $2, $3, $4, $5, $6)`,
		string(record.JobType), string(record.Strategy), string(record.Approach),
		record.Score, record.GapCount, record.Iterations,
	)
	if err != nil {
		return fmt.Errorf("failed to store strategy: %w", err)
	}
	return nil
}

// RecallStrategies returns the strategies of past runs for a job type whose
// score met minScore, best first. Implements the planner's Memory interface.
func (db *DB) RecallStrategies(ctx context.Context, jobType types.JobType, minScore float64, limit int) ([]types.Strategy, error) {
	if limit <= 0 {
		limit = 5
	}
	rows, err := db.pool.Query(ctx,
		`SELECT strategy FROM strategy_memory
		 WHERE job_type = $1 AND score >= $2
		 ORDER BY score DESC, created_at DESC LIMIT $3`,
		string(jobType), minScore, limit,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to recall strategies: %w", err)
	}
	defer rows.Close()

	var strategies []types.Strategy
	for rows.Next() {
		var s string
		if err := rows.Scan(&s); err != nil {
			return nil, fmt.Errorf("failed to scan strategy: %w", err)
		}
		strategies = append(strategies, types.Strategy(s))
	}
	return strategies, nil
}
