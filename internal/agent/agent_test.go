package agent

import (
	"context"
	"errors"
	"sync"
	"testing"

	"github.com/jonathan/resume-optimizer/internal/analysis"
	"github.com/jonathan/resume-optimizer/internal/generation"
	"github.com/jonathan/resume-optimizer/internal/llm"
	"github.com/jonathan/resume-optimizer/internal/planning"
	"github.com/jonathan/resume-optimizer/internal/types"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const strongResume = `Summary
Senior engineer. Led migration to Go. Achieved 40% latency reduction and
improved throughput by 3x. Developed and launched distributed services.
Implemented orchestration, reduced costs by $200K, managed rollouts.
Designed APIs, built pipelines, optimized queries, created dashboards,
delivered releases, automated deployments.

Experience
- Led platform work with measurable results: increased uptime to 99.99%
- Spearheaded adoption of Kubernetes across 12 teams

Skills
Go, Python, SQL, Docker, Kubernetes, AWS, API, cloud, database

Education
BS Computer Science

jane@example.com | +1 555-123-4567 | San Francisco, CA`

// failingClient always errors, simulating total LLM outage.
type failingClient struct{}

func (failingClient) GenerateContent(context.Context, string, llm.ModelTier) (string, error) {
	return "", errors.New("unavailable")
}

func (failingClient) GenerateJSON(context.Context, string, llm.ModelTier) (string, error) {
	return "", errors.New("unavailable")
}

func (failingClient) Close() error { return nil }

// improvingClient returns progressively richer resumes per generation call.
type improvingClient struct {
	mu    sync.Mutex
	calls int
}

func (c *improvingClient) GenerateContent(_ context.Context, _ string, _ llm.ModelTier) (string, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.calls++
	return strongResume, nil
}

func (c *improvingClient) GenerateJSON(context.Context, string, llm.ModelTier) (string, error) {
	return "", errors.New("no json path in this test")
}

func (c *improvingClient) Close() error { return nil }

// memoryRecorder captures persistence calls in memory.
type memoryRecorder struct {
	mu          sync.Mutex
	analyses    []*types.Analysis
	evaluations []int
	records     []types.SuccessRecord
	err         error
}

func (r *memoryRecorder) SaveAnalysis(_ context.Context, _ string, analysis *types.Analysis) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.err != nil {
		return r.err
	}
	r.analyses = append(r.analyses, analysis)
	return nil
}

func (r *memoryRecorder) SaveEvaluation(_ context.Context, _ string, iteration int, _ types.EvaluationResult) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.err != nil {
		return r.err
	}
	r.evaluations = append(r.evaluations, iteration)
	return nil
}

func (r *memoryRecorder) StoreStrategy(_ context.Context, record types.SuccessRecord) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.err != nil {
		return r.err
	}
	r.records = append(r.records, record)
	return nil
}

func newAgent(client llm.Client, recorder Recorder) *Agent {
	return New(
		analysis.NewAnalyzer(client),
		planning.NewPlanner(client, nil),
		generation.NewGenerator(client),
		recorder,
	)
}

func TestRun_AllFailingCollaboratorsStillCompletes(t *testing.T) {
	a := newAgent(failingClient{}, nil)

	result, err := a.Run(context.Background(), RunOptions{
		JobID:          "job-1",
		Resume:         "plain original resume",
		JobDescription: "software engineer",
	})
	require.NoError(t, err)

	// Every candidate degraded to the original resume; the run still
	// terminates Done with it as the best version.
	assert.Equal(t, "plain original resume", result.BestVersion.Content)
	assert.Equal(t, types.ApproachKeywords, result.Approach)
	assert.LessOrEqual(t, result.Iterations, types.DefaultMaxIterations)
	assert.Greater(t, result.BestScore, 0.0)
}

func TestRun_TerminatesWithinMaxIterations(t *testing.T) {
	a := newAgent(failingClient{}, nil)

	result, err := a.Run(context.Background(), RunOptions{
		Resume:         "weak resume that never reaches the target",
		JobDescription: "kubernetes terraform distributed systems engineer",
		MaxIterations:  2,
		MinScore:       99.5,
	})
	require.NoError(t, err)
	assert.Equal(t, 2, result.Iterations)
}

func TestRun_EarlyStopWhenTargetMet(t *testing.T) {
	client := &improvingClient{}
	a := newAgent(client, nil)

	result, err := a.Run(context.Background(), RunOptions{
		Resume:         "original",
		JobDescription: "go engineer kubernetes docker",
		MinScore:       80,
	})
	require.NoError(t, err)
	assert.Equal(t, 1, result.Iterations)
	assert.GreaterOrEqual(t, result.BestScore, 80.0)
	// One strategy-selection call plus one generation per approach.
	assert.Equal(t, len(types.AllApproaches())+1, client.calls)
}

func TestRun_BestScoreNonDecreasingAcrossIterations(t *testing.T) {
	a := newAgent(failingClient{}, nil)

	var deciding []float64
	_, err := a.Run(context.Background(), RunOptions{
		Resume:         "resume body with some engineer words",
		JobDescription: "engineer",
		MaxIterations:  3,
		MinScore:       99.9,
		OnProgress: func(event ProgressEvent) {
			if event.Phase == PhaseDeciding && event.Evaluation != nil {
				deciding = append(deciding, event.Evaluation.Best.Score.Overall)
			}
		},
	})
	require.NoError(t, err)
	require.Len(t, deciding, 3)
	for i := 1; i < len(deciding); i++ {
		assert.GreaterOrEqual(t, deciding[i], deciding[i-1])
	}
}

func TestRun_ProgressEventsCarryJobID(t *testing.T) {
	a := newAgent(failingClient{}, nil)

	var phases []string
	_, err := a.Run(context.Background(), RunOptions{
		JobID:          "job-42",
		Resume:         "resume",
		JobDescription: "engineer",
		MaxIterations:  1,
		OnProgress: func(event ProgressEvent) {
			assert.Equal(t, "job-42", event.JobID)
			phases = append(phases, event.Phase)
		},
	})
	require.NoError(t, err)
	assert.Equal(t, PhasePlanning, phases[0])
	assert.Equal(t, PhaseDone, phases[len(phases)-1])
	assert.Contains(t, phases, PhaseGenerating)
	assert.Contains(t, phases, PhaseEvaluating)
	assert.Contains(t, phases, PhaseDeciding)
}

func TestRun_PersistsEveryIteration(t *testing.T) {
	recorder := &memoryRecorder{}
	a := newAgent(failingClient{}, recorder)

	_, err := a.Run(context.Background(), RunOptions{
		JobID:          "job-7",
		Resume:         "resume",
		JobDescription: "engineer",
		MaxIterations:  2,
		MinScore:       99.9,
	})
	require.NoError(t, err)
	assert.Equal(t, []int{1, 2}, recorder.evaluations)
}

func TestRun_PersistsAnalysisArtifact(t *testing.T) {
	recorder := &memoryRecorder{}
	a := newAgent(failingClient{}, recorder)

	_, err := a.Run(context.Background(), RunOptions{
		JobID:          "job-8",
		Resume:         "resume",
		JobDescription: "engineer wanted",
		MaxIterations:  1,
	})
	require.NoError(t, err)
	require.Len(t, recorder.analyses, 1)
	assert.Equal(t, types.JobTypeTechnical, recorder.analyses[0].JobType)
}

func TestRun_RecorderFailureIsNotFatal(t *testing.T) {
	recorder := &memoryRecorder{err: errors.New("db down")}
	a := newAgent(failingClient{}, recorder)

	_, err := a.Run(context.Background(), RunOptions{
		Resume:         "resume",
		JobDescription: "engineer",
		MaxIterations:  1,
	})
	assert.NoError(t, err)
}

func TestRun_LearnsWhenScoreClearsBar(t *testing.T) {
	recorder := &memoryRecorder{}
	client := &improvingClient{}
	a := newAgent(client, recorder)

	result, err := a.Run(context.Background(), RunOptions{
		JobID:          "job-9",
		Resume:         "original",
		JobDescription: "go engineer kubernetes docker",
	})
	require.NoError(t, err)

	if result.BestScore >= types.DefaultMinOverallScore {
		require.Len(t, recorder.records, 1)
		assert.Equal(t, result.Approach, recorder.records[0].Approach)
		assert.Equal(t, result.BestScore, recorder.records[0].Score)
	} else {
		assert.Empty(t, recorder.records)
	}
}

func TestRun_DoesNotLearnBelowBar(t *testing.T) {
	recorder := &memoryRecorder{}
	a := newAgent(failingClient{}, recorder)

	result, err := a.Run(context.Background(), RunOptions{
		Resume:         "thin resume",
		JobDescription: "engineer",
		MaxIterations:  1,
	})
	require.NoError(t, err)
	require.Less(t, result.BestScore, types.DefaultMinOverallScore)
	assert.Empty(t, recorder.records)
}
