package observability

import (
	"bytes"
	"strings"
	"testing"

	"github.com/jonathan/resume-optimizer/internal/types"
	"github.com/stretchr/testify/assert"
)

func TestPrintAnalysis(t *testing.T) {
	var buf bytes.Buffer
	p := NewPrinter(&buf)

	p.PrintAnalysis(&types.Analysis{
		JobType:         types.JobTypeTechnical,
		OriginalScore:   62,
		TargetScore:     85,
		ResumeSkills:    []string{"go", "sql"},
		JobRequirements: []string{"go", "kubernetes", "terraform"},
		SkillsGap:       []string{"kubernetes", "terraform"},
	})

	out := buf.String()
	assert.Contains(t, out, "JOB ANALYSIS")
	assert.Contains(t, out, "technical")
	assert.Contains(t, out, "kubernetes")
	assert.Contains(t, out, "62")
}

func TestPrintAnalysis_TruncatesLongGapList(t *testing.T) {
	var buf bytes.Buffer
	p := NewPrinter(&buf)

	gaps := []string{"a", "b", "c", "d", "e", "f", "g"}
	p.PrintAnalysis(&types.Analysis{JobType: types.JobTypeGeneral, SkillsGap: gaps})

	assert.Contains(t, buf.String(), "... and 2 more")
}

func TestPrintAnalysis_NilIsNoop(t *testing.T) {
	var buf bytes.Buffer
	NewPrinter(&buf).PrintAnalysis(nil)
	assert.Empty(t, buf.String())
}

func TestPrintPlan(t *testing.T) {
	var buf bytes.Buffer
	p := NewPrinter(&buf)

	plan := types.DefaultPlan(types.StrategyBalancedApproach, types.JobTypeManagement)
	p.PrintPlan(&plan)

	out := buf.String()
	assert.Contains(t, out, "OPTIMIZATION PLAN")
	assert.Contains(t, out, "balanced_approach")
	assert.Contains(t, out, "85")
}

func TestPrintEvaluation_MarksBest(t *testing.T) {
	var buf bytes.Buffer
	p := NewPrinter(&buf)

	best := types.ScoredCandidate{
		Candidate: types.Candidate{Approach: types.ApproachAchievements, Iteration: 2},
		Score:     types.Score{Overall: 88.5, ATS: 92},
	}
	p.PrintEvaluation(&types.EvaluationResult{
		ScoredCandidates: []types.ScoredCandidate{
			{Candidate: types.Candidate{Approach: types.ApproachKeywords, Iteration: 2}, Score: types.Score{Overall: 81.0}},
			best,
		},
		Best: best,
	})

	out := buf.String()
	assert.Contains(t, out, "ITERATION 2 SCORES")
	assert.Contains(t, out, "▸ ")
	assert.Contains(t, out, "88.50")
}

func TestPrintResult(t *testing.T) {
	var buf bytes.Buffer
	p := NewPrinter(&buf)

	p.PrintResult(&types.OptimizationResult{
		BestScore:  91.25,
		Approach:   types.ApproachKeywords,
		Strategy:   types.StrategyKeywordOptimization,
		ATS:        95,
		Iterations: 2,
	})

	out := buf.String()
	assert.Contains(t, out, "OPTIMIZATION RESULT")
	assert.Contains(t, out, "91.25")
	assert.Contains(t, out, "keyword_optimization")
}

func TestPrintBox_LineWidth(t *testing.T) {
	var buf bytes.Buffer
	p := NewPrinter(&buf)

	p.printBox("TITLE", "short\n"+strings.Repeat("x", 200))

	for _, line := range strings.Split(strings.TrimSuffix(buf.String(), "\n"), "\n") {
		assert.LessOrEqual(t, len([]rune(line)), boxWidth)
	}
}
