package scoring

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const professionalResume = `PROFESSIONAL SUMMARY
Senior platform engineer with cloud and kubernetes expertise.

EXPERIENCE
Led a platform team of 8 members. Managed migration to AWS.
Developed terraform automation, reduced deploy time by 75%.
Created CI/CD pipelines, improved reliability by 30%.
Implemented monitoring. Designed APIs. Built internal tools.
Launched self-service portal used by 200+ users.
Achieved $2M savings. Optimized database performance 10x.

EDUCATION
BS Computer Science

SKILLS
AWS, Kubernetes, Docker, Terraform, Security, Automation

Contact: jane@example.com | 555-123-4567 | Remote`

func TestScore_RangeAndClamp(t *testing.T) {
	inputs := []struct {
		name    string
		content string
		job     string
	}{
		{"empty both", "", ""},
		{"empty content", "", "Looking for a platform engineer with kubernetes experience"},
		{"empty job", professionalResume, ""},
		{"full inputs", professionalResume, "platform engineer kubernetes terraform aws"},
		{"garbage content", strings.Repeat("!@#$ ", 500), "engineer"},
	}

	for _, tt := range inputs {
		t.Run(tt.name, func(t *testing.T) {
			score := Score(tt.content, tt.job)
			assert.GreaterOrEqual(t, score.Overall, 0.0)
			assert.LessOrEqual(t, score.Overall, 100.0)
			assert.GreaterOrEqual(t, score.ATS, 0)
			assert.LessOrEqual(t, score.ATS, 100)
			assert.GreaterOrEqual(t, score.KeywordMatch, 0.0)
			assert.LessOrEqual(t, score.KeywordMatch, 1.0)
			assert.GreaterOrEqual(t, score.ActionVerbCount, 0)
			assert.GreaterOrEqual(t, score.AchievementCount, 0)
			assert.Contains(t, []int{0, 25, 50, 75, 100}, score.FormatScore)
		})
	}
}

func TestScore_Deterministic(t *testing.T) {
	job := "Seeking senior engineer with kubernetes, terraform and cloud experience"

	first := Score(professionalResume, job)
	second := Score(professionalResume, job)

	// Bit-identical on identical inputs.
	assert.Equal(t, first, second)
}

func TestScore_ATSRangeWithJobTokens(t *testing.T) {
	// Job description with at least one non-stopword token of length >= 4.
	job := "kubernetes engineer"

	tests := []struct {
		name    string
		content string
	}{
		{"no overlap", "completely unrelated text about gardening"},
		{"partial overlap", "kubernetes administrator"},
		{"full overlap", "kubernetes engineer resume"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			score := Score(tt.content, job)
			assert.GreaterOrEqual(t, score.ATS, 75)
			assert.LessOrEqual(t, score.ATS, 100)
		})
	}
}

func TestScore_EmptyJobTokensFallback(t *testing.T) {
	// Stop words and short words only: the filtered job-token set is empty.
	jobs := []string{"", "the a an of to", "with from that this team work role"}

	for _, job := range jobs {
		score := Score(professionalResume, job)
		assert.Equal(t, 88, score.ATS, "job %q", job)
		assert.InDelta(t, 0.8, score.KeywordMatch, 0.0001, "job %q", job)
	}
}

func TestScore_KeywordMonotonicity(t *testing.T) {
	job := "kubernetes terraform prometheus grafana ansible"

	base := "Engineer with kubernetes knowledge"
	// Supersets of the base token set only ever add matching tokens.
	better := base + " and terraform experience"
	best := better + " plus prometheus and grafana and ansible"

	s1 := Score(base, job)
	s2 := Score(better, job)
	s3 := Score(best, job)

	assert.LessOrEqual(t, s1.ATS, s2.ATS)
	assert.LessOrEqual(t, s2.ATS, s3.ATS)
	assert.LessOrEqual(t, s1.KeywordMatch, s2.KeywordMatch)
	assert.LessOrEqual(t, s2.KeywordMatch, s3.KeywordMatch)
}

func TestScore_FloorRule(t *testing.T) {
	// All four section groups plus 10+ distinct action verbs.
	content := `SUMMARY
EXPERIENCE
EDUCATION
SKILLS
Led managed developed created implemented designed built launched achieved improved increased`

	score := Score(content, "some unrelated job description text")
	require.GreaterOrEqual(t, score.FormatScore, 75)
	require.GreaterOrEqual(t, score.ActionVerbCount, 10)
	assert.GreaterOrEqual(t, score.Overall, 82.0)
}

func TestScore_NoFloorWithoutFormat(t *testing.T) {
	// Plenty of verbs but no section headers: floor rule must not apply.
	content := "led managed developed created implemented designed built launched achieved improved increased reduced"

	score := Score(content, "entirely disjoint description about basket weaving techniques")
	assert.Less(t, score.FormatScore, 75)
}

func TestScore_BareResumeScenario(t *testing.T) {
	// No job overlap, no sections, no verbs, no metrics.
	content := "plain text body without anything notable here"
	job := "astronaut training program coordinator position available immediately"

	score := Score(content, job)
	// ATS sits near the bottom of its band, everything else at base values.
	assert.GreaterOrEqual(t, score.ATS, 75)
	assert.LessOrEqual(t, score.ATS, 80)
	assert.Equal(t, 0, score.FormatScore)
	assert.Equal(t, 0, score.ActionVerbCount)
	assert.InDelta(t, 70.0, score.Overall, 8.0)
}

func TestScore_StrongResumeScenario(t *testing.T) {
	// 90%+ keyword coverage, all sections, 12 distinct verbs.
	job := "platform kubernetes terraform docker security automation engineer"
	content := `SUMMARY
Platform engineer focused on kubernetes terraform docker security automation.
EXPERIENCE
Led managed developed created implemented designed built launched achieved improved increased reduced workloads.
EDUCATION
SKILLS`

	score := Score(content, job)
	assert.GreaterOrEqual(t, score.Overall, 82.0)
	assert.GreaterOrEqual(t, score.ATS, 95)
}

func TestScore_MetricsDetection(t *testing.T) {
	content := "Reduced costs by 40%. Saved $250K. Shipped in 6 months. Supported 500+ users. Ran 30 hours of training."

	score := Score(content, "job")
	assert.GreaterOrEqual(t, score.AchievementCount, 5)
}

func TestScore_CompletenessSubScore(t *testing.T) {
	bare := Score("nothing here", "job description text")
	full := Score("reach me at jane@example.com or +1 555-123-4567, based in New York", "job description text")

	assert.Equal(t, 70, bare.CompletenessScore)
	assert.Equal(t, 100, full.CompletenessScore)
}

func TestScore_QualitySubScore(t *testing.T) {
	short := Score("aws cloud", "job")
	long := Score(strings.Repeat("aws cloud kubernetes docker terraform lambda api database security automation ", 40), "job")

	assert.Greater(t, long.QualityScore, short.QualityScore)
	assert.LessOrEqual(t, long.QualityScore, 100)
}

func TestScore_StopWordsExcludedFromJobTokens(t *testing.T) {
	// "team" and "work" are stop words; "kubernetes" is the only job token.
	score := Score("kubernetes", "team work kubernetes")
	assert.Equal(t, 100, score.ATS)
	assert.InDelta(t, 1.0, score.KeywordMatch, 0.0001)
}
