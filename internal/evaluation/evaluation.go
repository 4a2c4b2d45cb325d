// Package evaluation scores candidate resume versions and selects the best
// one per iteration.
package evaluation

import (
	"errors"

	"github.com/jonathan/resume-optimizer/internal/scoring"
	"github.com/jonathan/resume-optimizer/internal/types"
)

// ErrNoCandidates is returned when Evaluate is called with nothing to score.
var ErrNoCandidates = errors.New("evaluation: no candidates to evaluate")

// Evaluate scores every candidate against the job description and picks the
// winner. Ties break toward the earliest candidate, so callers that assemble
// candidates in the canonical approach order get a deterministic result.
func Evaluate(candidates []types.Candidate, jobDescription string) (types.EvaluationResult, error) {
	if len(candidates) == 0 {
		return types.EvaluationResult{}, ErrNoCandidates
	}

	result := types.EvaluationResult{
		ScoredCandidates: make([]types.ScoredCandidate, 0, len(candidates)),
	}
	for _, c := range candidates {
		result.ScoredCandidates = append(result.ScoredCandidates, types.ScoredCandidate{
			Candidate: c,
			Score:     scoring.Score(c.Content, jobDescription),
		})
	}

	best := result.ScoredCandidates[0]
	for _, sc := range result.ScoredCandidates[1:] {
		if sc.Score.Overall > best.Score.Overall {
			best = sc
		}
	}
	result.Best = best
	return result, nil
}
