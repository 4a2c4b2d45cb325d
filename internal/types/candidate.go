// Package types provides type definitions for structured data used throughout the resume-optimizer system.
//
//nolint:revive // types is a standard Go package name pattern
package types

// Candidate is one generated resume version for one approach within one iteration.
// Candidates are immutable after creation.
type Candidate struct {
	Approach  Approach `json:"approach"`
	Content   string   `json:"content"`
	Iteration int      `json:"iteration"`
}

// Score is the multi-dimensional quality score of a candidate against a job
// description. Derived deterministically; no hidden state.
type Score struct {
	Overall           float64 `json:"overall"`            // 0-100, rounded to 2 decimals
	ATS               int     `json:"ats"`                // 0-100 keyword-match sub-score
	KeywordMatch      float64 `json:"keyword_match"`      // 0-1 ratio of job tokens covered
	ActionVerbCount   int     `json:"action_verbs"`       // distinct action verbs found
	AchievementCount  int     `json:"achievements"`       // quantified achievement matches
	FormatScore       int     `json:"format_score"`       // 0, 25, 50, 75 or 100
	QualityScore      int     `json:"quality_score"`      // content depth sub-score
	CompletenessScore int     `json:"completeness_score"` // contact/location sub-score
}

// ScoredCandidate pairs a candidate with its score.
type ScoredCandidate struct {
	Candidate Candidate `json:"candidate"`
	Score     Score     `json:"score"`
}

// EvaluationResult holds all scored candidates of one iteration plus the best.
// Candidates appear in input order; Best is the stable maximum by Overall
// (ties go to the first-seen candidate).
type EvaluationResult struct {
	ScoredCandidates []ScoredCandidate `json:"scored_candidates"`
	Best             ScoredCandidate   `json:"best"`
}

// SuccessCriteria defines when an optimization run may stop early.
type SuccessCriteria struct {
	MinOverallScore float64 `json:"min_overall_score"`
	MinKeywordMatch float64 `json:"min_keyword_match"`
}

// Plan is the per-job optimization strategy produced by the planner.
type Plan struct {
	Strategy        Strategy        `json:"strategy"`
	JobType         JobType         `json:"job_type"`
	Approaches      []Approach      `json:"approaches"`
	SuccessCriteria SuccessCriteria `json:"success_criteria"`
	MaxIterations   int             `json:"max_iterations"`
}

// Default planning thresholds.
const (
	DefaultMinOverallScore = 85.0
	DefaultMinKeywordMatch = 0.8
	DefaultMaxIterations   = 3
)

// DefaultPlan returns a plan with the documented defaults for the given
// strategy and job type, covering the full fixed approach set.
func DefaultPlan(strategy Strategy, jobType JobType) Plan {
	return Plan{
		Strategy:   strategy,
		JobType:    jobType,
		Approaches: AllApproaches(),
		SuccessCriteria: SuccessCriteria{
			MinOverallScore: DefaultMinOverallScore,
			MinKeywordMatch: DefaultMinKeywordMatch,
		},
		MaxIterations: DefaultMaxIterations,
	}
}

// ExecutionState is the accumulating record of an optimization run. It is
// exclusively owned and mutated by the iteration controller; every other
// component receives only the data it needs per call.
type ExecutionState struct {
	Iteration int                `json:"iteration"`
	BestSoFar *ScoredCandidate   `json:"best_so_far,omitempty"`
	History   []EvaluationResult `json:"history"`
}

// RecordIteration appends an evaluation result and updates BestSoFar.
// The stored best is replaced only when the new best strictly exceeds it,
// so BestSoFar.Score.Overall is non-decreasing across iterations.
func (s *ExecutionState) RecordIteration(result EvaluationResult) {
	s.History = append(s.History, result)
	if s.BestSoFar == nil || result.Best.Score.Overall > s.BestSoFar.Score.Overall {
		best := result.Best
		s.BestSoFar = &best
	}
}

// Analysis is the output of the perceive step: extracted skills,
// requirements, the gap between them and a job type classification.
type Analysis struct {
	ResumeSkills    []string `json:"resume_skills"`
	JobRequirements []string `json:"job_requirements"`
	SkillsGap       []string `json:"skills_gap"`
	MatchedSkills   []string `json:"matched_skills"`
	JobType         JobType  `json:"job_type"`
	OriginalScore   int      `json:"original_score"`
	TargetScore     int      `json:"target_score"`
}

// SuccessRecord is a learned outcome stored after a run that met the
// learning bar. The planner recalls these for future jobs of the same type.
type SuccessRecord struct {
	JobType    JobType  `json:"job_type"`
	Strategy   Strategy `json:"strategy"`
	Approach   Approach `json:"approach"`
	Score      float64  `json:"score"`
	GapCount   int      `json:"gap_count"`
	Iterations int      `json:"iterations"`
}

// OptimizationResult is the terminal output of a run, consumed by storage
// and notification collaborators.
type OptimizationResult struct {
	JobID        string    `json:"job_id"`
	BestVersion  Candidate `json:"best_version"`
	BestScore    float64   `json:"best_score"`
	Approach     Approach  `json:"approach"`
	Strategy     Strategy  `json:"strategy"`
	JobType      JobType   `json:"job_type"`
	ATS          int       `json:"ats"`
	KeywordMatch float64   `json:"keyword_match"`
	ActionVerbs  int       `json:"action_verbs"`
	Achievements int       `json:"achievements"`
	Iterations   int       `json:"iterations"`
}
