package planning

import (
	"context"
	"errors"
	"testing"

	"github.com/jonathan/resume-optimizer/internal/llm"
	"github.com/jonathan/resume-optimizer/internal/types"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// fakeClient returns a canned answer or error for every call.
type fakeClient struct {
	answer string
	err    error
}

func (f *fakeClient) GenerateContent(_ context.Context, _ string, _ llm.ModelTier) (string, error) {
	return f.answer, f.err
}

func (f *fakeClient) GenerateJSON(_ context.Context, _ string, _ llm.ModelTier) (string, error) {
	return f.answer, f.err
}

func (f *fakeClient) Close() error { return nil }

// fakeMemory records the recall call and returns canned strategies.
type fakeMemory struct {
	strategies []types.Strategy
	err        error
	called     bool
}

func (f *fakeMemory) RecallStrategies(_ context.Context, _ types.JobType, _ float64, _ int) ([]types.Strategy, error) {
	f.called = true
	return f.strategies, f.err
}

func TestFallbackStrategy(t *testing.T) {
	tests := []struct {
		gapCount int
		expected types.Strategy
	}{
		{0, types.StrategyBalancedApproach},
		{10, types.StrategyBalancedApproach},
		{11, types.StrategySkillsEmphasis},
		{50, types.StrategySkillsEmphasis},
	}

	for _, tt := range tests {
		assert.Equal(t, tt.expected, FallbackStrategy(tt.gapCount), "gapCount=%d", tt.gapCount)
	}
}

func TestSelectStrategy_NoClient(t *testing.T) {
	p := NewPlanner(nil, nil)

	// Exercised entirely without any external capability.
	got := p.SelectStrategy(context.Background(), types.JobTypeTechnical, 12, nil)
	assert.Equal(t, types.StrategySkillsEmphasis, got)

	got = p.SelectStrategy(context.Background(), types.JobTypeTechnical, 3, nil)
	assert.Equal(t, types.StrategyBalancedApproach, got)
}

func TestSelectStrategy_ClientError(t *testing.T) {
	p := NewPlanner(&fakeClient{err: errors.New("timeout")}, nil)

	got := p.SelectStrategy(context.Background(), types.JobTypeGeneral, 2, nil)
	assert.Equal(t, types.StrategyBalancedApproach, got)
}

func TestSelectStrategy_ExactVocabulary(t *testing.T) {
	for _, strategy := range types.AllStrategies() {
		p := NewPlanner(&fakeClient{answer: string(strategy)}, nil)
		got := p.SelectStrategy(context.Background(), types.JobTypeTechnical, 0, nil)
		assert.Equal(t, strategy, got)
	}
}

func TestSelectStrategy_NormalizesAnswer(t *testing.T) {
	p := NewPlanner(&fakeClient{answer: "  Keyword Optimization \n"}, nil)
	got := p.SelectStrategy(context.Background(), types.JobTypeTechnical, 0, nil)
	assert.Equal(t, types.StrategyKeywordOptimization, got)
}

func TestClassifyStrategy_SubstringHints(t *testing.T) {
	tests := []struct {
		answer   string
		gapCount int
		expected types.Strategy
	}{
		{"I would go with keyword matching", 0, types.StrategyKeywordOptimization},
		{"focus on achievements here", 0, types.StrategyAchievementFocus},
		{"emphasize skills coverage", 0, types.StrategySkillsEmphasis},
		{"no idea", 15, types.StrategySkillsEmphasis},
		{"no idea", 2, types.StrategyBalancedApproach},
		{"", 2, types.StrategyBalancedApproach},
	}

	for _, tt := range tests {
		assert.Equal(t, tt.expected, ClassifyStrategy(tt.answer, tt.gapCount), "answer=%q", tt.answer)
	}
}

func TestBuildPlan_Defaults(t *testing.T) {
	p := NewPlanner(nil, nil)
	analysis := &types.Analysis{
		JobType:   types.JobTypeManagement,
		SkillsGap: []string{"budgeting", "hiring"},
	}

	plan := p.BuildPlan(context.Background(), analysis)

	assert.Equal(t, types.StrategyBalancedApproach, plan.Strategy)
	assert.Equal(t, types.JobTypeManagement, plan.JobType)
	assert.Equal(t, types.AllApproaches(), plan.Approaches)
	assert.Equal(t, types.DefaultMinOverallScore, plan.SuccessCriteria.MinOverallScore)
	assert.Equal(t, types.DefaultMinKeywordMatch, plan.SuccessCriteria.MinKeywordMatch)
	assert.Equal(t, types.DefaultMaxIterations, plan.MaxIterations)
}

func TestBuildPlan_UsesMemory(t *testing.T) {
	memory := &fakeMemory{strategies: []types.Strategy{types.StrategyAchievementFocus}}
	p := NewPlanner(&fakeClient{answer: "achievement_focus"}, memory)

	plan := p.BuildPlan(context.Background(), &types.Analysis{JobType: types.JobTypeTechnical})

	require.True(t, memory.called)
	assert.Equal(t, types.StrategyAchievementFocus, plan.Strategy)
}

func TestBuildPlan_MemoryErrorIgnored(t *testing.T) {
	memory := &fakeMemory{err: errors.New("db down")}
	p := NewPlanner(nil, memory)

	plan := p.BuildPlan(context.Background(), &types.Analysis{JobType: types.JobTypeTechnical})
	assert.Equal(t, types.StrategyBalancedApproach, plan.Strategy)
}
