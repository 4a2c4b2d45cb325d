// Package planning chooses the optimization strategy for a job and builds
// the plan that drives the iteration loop.
package planning

import (
	"context"
	"strconv"
	"strings"

	"github.com/jonathan/resume-optimizer/internal/llm"
	"github.com/jonathan/resume-optimizer/internal/prompts"
	"github.com/jonathan/resume-optimizer/internal/types"
)

// gapThreshold is the skills-gap count above which the deterministic
// fallback prefers skills_emphasis over balanced_approach.
const gapThreshold = 10

// Memory recalls strategies that worked before for a given job type.
// Implemented by the db package; tests use stubs.
type Memory interface {
	RecallStrategies(ctx context.Context, jobType types.JobType, minScore float64, limit int) ([]types.Strategy, error)
}

// Planner selects strategies and builds plans.
type Planner struct {
	client llm.Client // nil means fallback-only planning
	memory Memory     // nil means no historical context
}

// NewPlanner creates a planner. Both collaborators are optional: a nil
// client forces the deterministic fallback, a nil memory skips recall.
func NewPlanner(client llm.Client, memory Memory) *Planner {
	return &Planner{client: client, memory: memory}
}

// BuildPlan selects a strategy for the analyzed job and wraps it in a plan
// with the documented default thresholds. It never fails: every error path
// degrades to the deterministic fallback strategy.
func (p *Planner) BuildPlan(ctx context.Context, analysis *types.Analysis) types.Plan {
	gapCount := len(analysis.SkillsGap)

	var past []types.Strategy
	if p.memory != nil {
		recalled, err := p.memory.RecallStrategies(ctx, analysis.JobType, types.DefaultMinOverallScore, 5)
		if err == nil {
			past = recalled
		}
	}

	strategy := p.SelectStrategy(ctx, analysis.JobType, gapCount, past)
	return types.DefaultPlan(strategy, analysis.JobType)
}

// SelectStrategy picks one strategy from the fixed vocabulary. The primary
// path asks the LLM; when the LLM is unavailable or answers outside the
// vocabulary, the answer is routed through a substring classifier and
// finally the deterministic gap rule.
func (p *Planner) SelectStrategy(ctx context.Context, jobType types.JobType, gapCount int, past []types.Strategy) types.Strategy {
	if p.client == nil {
		return FallbackStrategy(gapCount)
	}

	template, err := prompts.Get("planning.json", "select_strategy")
	if err != nil {
		return FallbackStrategy(gapCount)
	}

	prompt := prompts.Format(template, map[string]string{
		"JobType":        string(jobType),
		"GapCount":       strconv.Itoa(gapCount),
		"PastStrategies": joinStrategies(past),
	})

	answer, err := p.client.GenerateContent(ctx, prompt, llm.TierLite)
	if err != nil {
		return FallbackStrategy(gapCount)
	}

	return ClassifyStrategy(answer, gapCount)
}

// ClassifyStrategy normalizes a free-text strategy answer. Exact vocabulary
// matches win; otherwise substring hints map the answer onto the closest
// strategy, and anything unrecognizable falls back to the gap rule.
func ClassifyStrategy(answer string, gapCount int) types.Strategy {
	normalized := strings.ReplaceAll(strings.ToLower(strings.TrimSpace(answer)), " ", "_")

	if s := types.Strategy(normalized); s.Valid() {
		return s
	}

	switch {
	case strings.Contains(normalized, "keyword"):
		return types.StrategyKeywordOptimization
	case strings.Contains(normalized, "achievement"):
		return types.StrategyAchievementFocus
	case strings.Contains(normalized, "skills"):
		return types.StrategySkillsEmphasis
	}

	return FallbackStrategy(gapCount)
}

// FallbackStrategy is the deterministic rule used when no capability is
// available: large gaps call for skills emphasis, otherwise stay balanced.
func FallbackStrategy(gapCount int) types.Strategy {
	if gapCount > gapThreshold {
		return types.StrategySkillsEmphasis
	}
	return types.StrategyBalancedApproach
}

func joinStrategies(past []types.Strategy) string {
	if len(past) == 0 {
		return "none"
	}
	labels := make([]string, len(past))
	for i, s := range past {
		labels[i] = string(s)
	}
	return strings.Join(labels, ",")
}
