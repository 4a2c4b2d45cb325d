// Package analysis implements the perceive step: it extracts skills and
// requirements, computes the gap between them and classifies the job.
package analysis

import (
	"context"
	"sort"
	"strings"
	"unicode/utf8"

	"github.com/jonathan/resume-optimizer/internal/llm"
	"github.com/jonathan/resume-optimizer/internal/prompts"
	"github.com/jonathan/resume-optimizer/internal/types"
)

// Result size caps keep downstream prompts and artifacts bounded.
const (
	maxSkills       = 20
	maxRequirements = 20
	maxGaps         = 15
	maxMatched      = 15
	maxInputChars   = 2000
	targetScore     = 85
	minInitialScore = 50
)

// Job-type probes, checked in order; first hit wins.
var jobTypeProbes = []struct {
	jobType types.JobType
	words   []string
}{
	{types.JobTypeTechnical, []string{"engineer", "developer"}},
	{types.JobTypeManagement, []string{"manager", "director"}},
	{types.JobTypeCreative, []string{"design", "ux"}},
}

// Analyzer runs the perceive step.
type Analyzer struct {
	client llm.Client // nil degrades extraction to empty lists
}

// NewAnalyzer creates an analyzer around the given client.
func NewAnalyzer(client llm.Client) *Analyzer {
	return &Analyzer{client: client}
}

// Analyze extracts skills from the resume and requirements from the job
// description, derives the gap and match sets, classifies the job type and
// computes a naive initial keyword score. Extraction failures degrade to
// empty lists; Analyze never fails.
func (a *Analyzer) Analyze(ctx context.Context, resume, jobDescription string) types.Analysis {
	skills := a.extractList(ctx, "extract_skills", "Resume", resume)
	requirements := a.extractList(ctx, "extract_requirements", "JobDescription", jobDescription)

	skillSet := toLowerSet(skills)
	reqSet := toLowerSet(requirements)

	gaps := setDifference(reqSet, skillSet)
	matched := setIntersection(skillSet, reqSet)

	return types.Analysis{
		ResumeSkills:    limit(skills, maxSkills),
		JobRequirements: limit(requirements, maxRequirements),
		SkillsGap:       limit(gaps, maxGaps),
		MatchedSkills:   limit(matched, maxMatched),
		JobType:         ClassifyJobType(jobDescription),
		OriginalScore:   initialKeywordScore(resume, jobDescription),
		TargetScore:     targetScore,
	}
}

func (a *Analyzer) extractList(ctx context.Context, key, field, text string) []string {
	if a.client == nil {
		return nil
	}
	template, err := prompts.Get("analysis.json", key)
	if err != nil {
		return nil
	}
	prompt := prompts.Format(template, map[string]string{field: truncate(text, maxInputChars)})
	response, err := a.client.GenerateJSON(ctx, prompt, llm.TierLite)
	if err != nil {
		return nil
	}
	return llm.ExtractStringArray(response)
}

// ClassifyJobType buckets a job description by keyword probes. The probes
// run in a fixed order so overlapping descriptions classify deterministically.
func ClassifyJobType(jobDescription string) types.JobType {
	lower := strings.ToLower(jobDescription)
	for _, probe := range jobTypeProbes {
		for _, word := range probe.words {
			if strings.Contains(lower, word) {
				return probe.jobType
			}
		}
	}
	return types.JobTypeGeneral
}

// initialKeywordScore is a crude pre-optimization baseline: the share of
// job-description words present anywhere in the resume, floored at 50.
func initialKeywordScore(resume, jobDescription string) int {
	keywords := strings.Fields(strings.ToLower(jobDescription))
	if len(keywords) == 0 {
		return minInitialScore
	}
	resumeLower := strings.ToLower(resume)
	matches := 0
	for _, w := range keywords {
		if strings.Contains(resumeLower, w) {
			matches++
		}
	}
	score := matches * 100 / len(keywords)
	if score > 100 {
		score = 100
	}
	if score < minInitialScore {
		score = minInitialScore
	}
	return score
}

func toLowerSet(items []string) map[string]struct{} {
	set := make(map[string]struct{}, len(items))
	for _, item := range items {
		set[strings.ToLower(item)] = struct{}{}
	}
	return set
}

func setDifference(a, b map[string]struct{}) []string {
	var out []string
	for item := range a {
		if _, ok := b[item]; !ok {
			out = append(out, item)
		}
	}
	sort.Strings(out)
	return out
}

func setIntersection(a, b map[string]struct{}) []string {
	var out []string
	for item := range a {
		if _, ok := b[item]; ok {
			out = append(out, item)
		}
	}
	sort.Strings(out)
	return out
}

func limit(items []string, max int) []string {
	if len(items) > max {
		return items[:max]
	}
	return items
}

// truncate caps s at max characters, not bytes, so a multi-byte rune is
// never split mid-sequence.
func truncate(s string, max int) string {
	if utf8.RuneCountInString(s) <= max {
		return s
	}
	return string([]rune(s)[:max])
}
