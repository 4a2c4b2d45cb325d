// Package agent provides the high-level orchestration for the resume
// optimization loop: analyze, plan, then iterate generate → evaluate →
// decide until the success criteria are met or the iteration budget runs out.
package agent

import (
	"context"
	"fmt"
	"os"

	"golang.org/x/sync/errgroup"

	"github.com/jonathan/resume-optimizer/internal/analysis"
	"github.com/jonathan/resume-optimizer/internal/evaluation"
	"github.com/jonathan/resume-optimizer/internal/generation"
	"github.com/jonathan/resume-optimizer/internal/observability"
	"github.com/jonathan/resume-optimizer/internal/planning"
	"github.com/jonathan/resume-optimizer/internal/types"
)

// Loop phase names, used in step banners and progress events.
const (
	PhasePlanning   = "planning"
	PhaseGenerating = "generating"
	PhaseEvaluating = "evaluating"
	PhaseDeciding   = "deciding"
	PhaseIterating  = "iterating"
	PhaseDone       = "done"
)

// ProgressEvent represents a progress update during an optimization run.
type ProgressEvent struct {
	Phase      string                  `json:"phase"`
	Iteration  int                     `json:"iteration"`
	Message    string                  `json:"message"`
	JobID      string                  `json:"job_id,omitempty"`
	Evaluation *types.EvaluationResult `json:"evaluation,omitempty"`
}

// ProgressCallback is called when run progress occurs.
type ProgressCallback func(event ProgressEvent)

// Recorder persists run artifacts and learned strategies. All calls are
// best-effort: the loop logs failures and keeps going.
type Recorder interface {
	SaveAnalysis(ctx context.Context, jobID string, analysis *types.Analysis) error
	SaveEvaluation(ctx context.Context, jobID string, iteration int, result types.EvaluationResult) error
	StoreStrategy(ctx context.Context, record types.SuccessRecord) error
}

// RunOptions holds configuration for one optimization run.
type RunOptions struct {
	JobID          string
	Resume         string
	JobDescription string
	MaxIterations  int     // 0 means the plan default
	MinScore       float64 // 0 means the plan default
	Verbose        bool
	OnProgress     ProgressCallback
}

// Agent wires the loop's collaborators. Construct with New; zero value is
// not usable.
type Agent struct {
	analyzer  *analysis.Analyzer
	planner   *planning.Planner
	generator *generation.Generator
	recorder  Recorder // nil disables persistence
	printer   *observability.Printer
}

// New creates an agent. The recorder is optional.
func New(analyzer *analysis.Analyzer, planner *planning.Planner, generator *generation.Generator, recorder Recorder) *Agent {
	return &Agent{
		analyzer:  analyzer,
		planner:   planner,
		generator: generator,
		recorder:  recorder,
		printer:   observability.NewPrinter(os.Stdout),
	}
}

// Run executes the full optimization loop. It always terminates with a
// valid best candidate: every collaborator failure degrades rather than
// aborts, so the worst case result is the original resume scored as-is.
func (a *Agent) Run(ctx context.Context, opts RunOptions) (*types.OptimizationResult, error) {
	fmt.Printf("Step 1/3: Analyzing resume against job description...\n")
	jobAnalysis := a.analyzer.Analyze(ctx, opts.Resume, opts.JobDescription)
	if opts.Verbose {
		a.printer.PrintAnalysis(&jobAnalysis)
	}
	if a.recorder != nil {
		if err := a.recorder.SaveAnalysis(ctx, opts.JobID, &jobAnalysis); err != nil {
			fmt.Printf("Warning: failed to save analysis artifact: %v\n", err)
		}
	}

	fmt.Printf("Step 2/3: Planning optimization strategy...\n")
	a.emit(opts, ProgressEvent{Phase: PhasePlanning, Message: "selecting strategy"})

	plan := a.planner.BuildPlan(ctx, &jobAnalysis)
	if opts.MaxIterations > 0 {
		plan.MaxIterations = opts.MaxIterations
	}
	if opts.MinScore > 0 {
		plan.SuccessCriteria.MinOverallScore = opts.MinScore
	}
	if opts.Verbose {
		a.printer.PrintPlan(&plan)
	}

	fmt.Printf("Step 3/3: Running optimization loop (max %d iterations, target %.0f)...\n",
		plan.MaxIterations, plan.SuccessCriteria.MinOverallScore)

	state := &types.ExecutionState{}
	for iteration := 1; iteration <= plan.MaxIterations; iteration++ {
		state.Iteration = iteration
		fmt.Printf("  Iteration %d/%d: generating %d candidates...\n",
			iteration, plan.MaxIterations, len(plan.Approaches))
		a.emit(opts, ProgressEvent{Phase: PhaseGenerating, Iteration: iteration,
			Message: fmt.Sprintf("generating %d candidates", len(plan.Approaches))})

		candidates := a.generateCandidates(ctx, plan.Approaches, opts, iteration, state)

		a.emit(opts, ProgressEvent{Phase: PhaseEvaluating, Iteration: iteration,
			Message: "scoring candidates"})
		result, err := evaluation.Evaluate(candidates, opts.JobDescription)
		if err != nil {
			// Unreachable with a non-empty approach set; fail loudly if it
			// ever happens rather than return a zero-value result.
			return nil, fmt.Errorf("iteration %d evaluation failed: %w", iteration, err)
		}
		state.RecordIteration(result)
		if opts.Verbose {
			a.printer.PrintEvaluation(&result)
		}

		if a.recorder != nil {
			if err := a.recorder.SaveEvaluation(ctx, opts.JobID, iteration, result); err != nil {
				fmt.Printf("Warning: failed to save iteration %d artifacts: %v\n", iteration, err)
			}
		}

		a.emit(opts, ProgressEvent{Phase: PhaseDeciding, Iteration: iteration,
			Message:    fmt.Sprintf("best %.2f via %s", state.BestSoFar.Score.Overall, state.BestSoFar.Candidate.Approach),
			Evaluation: &result})

		if state.BestSoFar.Score.Overall >= plan.SuccessCriteria.MinOverallScore {
			fmt.Printf("  Target score reached (%.2f >= %.0f), stopping early.\n",
				state.BestSoFar.Score.Overall, plan.SuccessCriteria.MinOverallScore)
			break
		}
		if iteration < plan.MaxIterations {
			a.emit(opts, ProgressEvent{Phase: PhaseIterating, Iteration: iteration,
				Message: "score below target, refining"})
		}
	}

	best := *state.BestSoFar
	result := &types.OptimizationResult{
		JobID:        opts.JobID,
		BestVersion:  best.Candidate,
		BestScore:    best.Score.Overall,
		Approach:     best.Candidate.Approach,
		Strategy:     plan.Strategy,
		JobType:      plan.JobType,
		ATS:          best.Score.ATS,
		KeywordMatch: best.Score.KeywordMatch,
		ActionVerbs:  best.Score.ActionVerbCount,
		Achievements: best.Score.AchievementCount,
		Iterations:   state.Iteration,
	}

	a.learn(ctx, plan, &jobAnalysis, result)

	if opts.Verbose {
		a.printer.PrintResult(result)
	}
	a.emit(opts, ProgressEvent{Phase: PhaseDone, Iteration: state.Iteration,
		Message: fmt.Sprintf("final score %.2f after %d iterations", result.BestScore, result.Iterations)})
	fmt.Printf("Done! Best score %.2f via %s after %d iterations.\n",
		result.BestScore, result.Approach, result.Iterations)

	return result, nil
}

// generateCandidates produces one candidate per approach in parallel. The
// results slice is indexed by approach position, so assembly order matches
// plan order regardless of goroutine completion order.
func (a *Agent) generateCandidates(ctx context.Context, approaches []types.Approach, opts RunOptions, iteration int, state *types.ExecutionState) []types.Candidate {
	candidates := make([]types.Candidate, len(approaches))

	var previousBest string
	if state.BestSoFar != nil {
		previousBest = state.BestSoFar.Candidate.Content
	}

	g, gCtx := errgroup.WithContext(ctx)
	for i, approach := range approaches {
		g.Go(func() error {
			candidates[i] = a.generator.Generate(gCtx, generation.Request{
				Approach:       approach,
				Resume:         opts.Resume,
				JobDescription: opts.JobDescription,
				Iteration:      iteration,
				PreviousBest:   previousBest,
			})
			return nil
		})
	}
	// Generators never return errors; Wait only synchronizes.
	_ = g.Wait()

	return candidates
}

// learn records the winning strategy when the run cleared the learning bar,
// so future plans for the same job type can recall it.
func (a *Agent) learn(ctx context.Context, plan types.Plan, jobAnalysis *types.Analysis, result *types.OptimizationResult) {
	if a.recorder == nil || result.BestScore < types.DefaultMinOverallScore {
		return
	}
	record := types.SuccessRecord{
		JobType:    plan.JobType,
		Strategy:   plan.Strategy,
		Approach:   result.Approach,
		Score:      result.BestScore,
		GapCount:   len(jobAnalysis.SkillsGap),
		Iterations: result.Iterations,
	}
	if err := a.recorder.StoreStrategy(ctx, record); err != nil {
		fmt.Printf("Warning: failed to store strategy memory: %v\n", err)
	}
}

func (a *Agent) emit(opts RunOptions, event ProgressEvent) {
	if opts.OnProgress != nil {
		event.JobID = opts.JobID
		opts.OnProgress(event)
	}
}
