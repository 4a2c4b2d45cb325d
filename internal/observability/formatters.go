// Package observability provides formatted output utilities for verbose CLI mode.
package observability

import (
	"fmt"
	"io"
	"strings"

	"github.com/jonathan/resume-optimizer/internal/types"
)

const (
	// boxWidth is the default width for formatted output boxes
	boxWidth = 60
	// maxItemsToShow is the default number of items to display in lists
	maxItemsToShow = 5
)

// Printer handles formatted output for verbose mode
type Printer struct {
	out io.Writer
}

// NewPrinter creates a new Printer that writes to the given writer
func NewPrinter(out io.Writer) *Printer {
	return &Printer{out: out}
}

// printBox prints a formatted box with a title and content
//
//nolint:errcheck // writing to stdout; errors are not recoverable
func (p *Printer) printBox(title string, content string) {
	border := strings.Repeat("─", boxWidth-2)
	fmt.Fprintf(p.out, "┌%s┐\n", border)
	fmt.Fprintf(p.out, "│ %-*s │\n", boxWidth-4, title)
	fmt.Fprintf(p.out, "├%s┤\n", border)

	lines := strings.Split(content, "\n")
	for _, line := range lines {
		// Truncate long lines
		if len(line) > boxWidth-4 {
			line = line[:boxWidth-7] + "..."
		}
		fmt.Fprintf(p.out, "│ %-*s │\n", boxWidth-4, line)
	}

	fmt.Fprintf(p.out, "└%s┘\n", border)
}

// PrintAnalysis outputs a human-readable summary of the perceive step.
func (p *Printer) PrintAnalysis(analysis *types.Analysis) {
	if analysis == nil {
		return
	}

	var sb strings.Builder
	sb.WriteString(fmt.Sprintf("Job type:       %s\n", analysis.JobType))
	sb.WriteString(fmt.Sprintf("Initial score:  %d (target %d)\n", analysis.OriginalScore, analysis.TargetScore))
	sb.WriteString(fmt.Sprintf("Skills found:   %d\n", len(analysis.ResumeSkills)))
	sb.WriteString(fmt.Sprintf("Requirements:   %d\n", len(analysis.JobRequirements)))

	if len(analysis.SkillsGap) > 0 {
		sb.WriteString("\nSkills gap:\n")
		count := min(len(analysis.SkillsGap), maxItemsToShow)
		for i := 0; i < count; i++ {
			sb.WriteString(fmt.Sprintf("  • %s\n", analysis.SkillsGap[i]))
		}
		if len(analysis.SkillsGap) > maxItemsToShow {
			sb.WriteString(fmt.Sprintf("  ... and %d more\n", len(analysis.SkillsGap)-maxItemsToShow))
		}
	}

	p.printBox("JOB ANALYSIS", strings.TrimSuffix(sb.String(), "\n"))
}

// PrintPlan outputs the selected strategy and loop parameters.
func (p *Printer) PrintPlan(plan *types.Plan) {
	if plan == nil {
		return
	}

	approaches := make([]string, len(plan.Approaches))
	for i, a := range plan.Approaches {
		approaches[i] = string(a)
	}

	var sb strings.Builder
	sb.WriteString(fmt.Sprintf("Strategy:       %s\n", plan.Strategy))
	sb.WriteString(fmt.Sprintf("Job type:       %s\n", plan.JobType))
	sb.WriteString(fmt.Sprintf("Approaches:     %s\n", strings.Join(approaches, ", ")))
	sb.WriteString(fmt.Sprintf("Target score:   %.0f\n", plan.SuccessCriteria.MinOverallScore))
	sb.WriteString(fmt.Sprintf("Max iterations: %d", plan.MaxIterations))

	p.printBox("OPTIMIZATION PLAN", sb.String())
}

// PrintEvaluation outputs per-candidate scores for one iteration.
func (p *Printer) PrintEvaluation(result *types.EvaluationResult) {
	if result == nil || len(result.ScoredCandidates) == 0 {
		return
	}

	var sb strings.Builder
	for _, sc := range result.ScoredCandidates {
		marker := "  "
		if sc.Candidate.Approach == result.Best.Candidate.Approach &&
			sc.Score.Overall == result.Best.Score.Overall {
			marker = "▸ "
		}
		sb.WriteString(fmt.Sprintf("%s%-13s %6.2f  (ats %d, verbs %d)\n",
			marker, sc.Candidate.Approach, sc.Score.Overall, sc.Score.ATS, sc.Score.ActionVerbCount))
	}
	sb.WriteString(fmt.Sprintf("\nBest: %s at %.2f", result.Best.Candidate.Approach, result.Best.Score.Overall))

	p.printBox(fmt.Sprintf("ITERATION %d SCORES", result.Best.Candidate.Iteration), sb.String())
}

// PrintResult outputs the terminal summary of a run.
func (p *Printer) PrintResult(result *types.OptimizationResult) {
	if result == nil {
		return
	}

	var sb strings.Builder
	sb.WriteString(fmt.Sprintf("Best score:     %.2f\n", result.BestScore))
	sb.WriteString(fmt.Sprintf("Approach:       %s\n", result.Approach))
	sb.WriteString(fmt.Sprintf("Strategy:       %s\n", result.Strategy))
	sb.WriteString(fmt.Sprintf("ATS:            %d\n", result.ATS))
	sb.WriteString(fmt.Sprintf("Keyword match:  %.2f\n", result.KeywordMatch))
	sb.WriteString(fmt.Sprintf("Action verbs:   %d\n", result.ActionVerbs))
	sb.WriteString(fmt.Sprintf("Achievements:   %d\n", result.Achievements))
	sb.WriteString(fmt.Sprintf("Iterations:     %d", result.Iterations))

	p.printBox("OPTIMIZATION RESULT", sb.String())
}
