// Package scoring provides the deterministic heuristic scorer used to grade
// candidate resume versions against a job description.
package scoring

import (
	"math"
	"regexp"
	"strings"

	"github.com/jonathan/resume-optimizer/internal/types"
)

// Weights for the scoring components. They sum to 1.0.
const (
	atsWeight          = 0.35
	actionVerbWeight   = 0.15
	metricsWeight      = 0.15
	formatWeight       = 0.15
	qualityWeight      = 0.10
	completenessWeight = 0.10
)

// Floor rule: a well-formatted resume with enough action verbs never scores
// below this overall value.
const (
	floorFormatScore = 75
	floorVerbCount   = 10
	floorOverall     = 82.0
)

// Fallback values used when the job description yields no usable tokens.
const (
	fallbackKeywordMatch = 0.8
	fallbackATS          = 88
)

// stopWords are common English words excluded from keyword matching on both
// the job and resume side.
var stopWords = map[string]bool{
	"with": true, "from": true, "that": true, "this": true, "have": true,
	"will": true, "your": true, "their": true, "about": true, "which": true,
	"when": true, "where": true, "what": true, "been": true, "were": true,
	"said": true, "each": true, "them": true, "than": true, "some": true,
	"into": true, "only": true, "over": true, "such": true, "just": true,
	"also": true, "very": true, "well": true, "back": true, "good": true,
	"much": true, "work": true, "year": true, "make": true, "most": true,
	"many": true, "more": true, "time": true, "role": true, "team": true,
	"using": true, "based": true, "across": true, "within": true,
	"through": true, "under": true,
}

// actionVerbs is the fixed list of resume action verbs counted via
// case-insensitive substring containment.
var actionVerbs = []string{
	"led", "managed", "developed", "created", "implemented", "designed",
	"built", "launched", "achieved", "improved", "increased", "reduced",
	"architected", "engineered", "automated", "optimized", "delivered",
	"established", "spearheaded", "drove", "executed", "collaborated",
	"partnered", "conducted", "introduced", "migrated", "deployed",
	"re-architected", "standardized", "accelerated", "enhanced",
	"configured", "integrated", "streamlined", "transformed",
}

// techTerms contribute to the content quality sub-score.
var techTerms = []string{
	"aws", "cloud", "terraform", "kubernetes", "docker", "ci/cd",
	"lambda", "api", "database", "security", "automation",
}

// metricsPatterns detect quantified achievements: percentages and
// multipliers, currency amounts, durations, audience sizes, verb-plus-number
// impact phrases and hour/headcount phrases.
var metricsPatterns = []*regexp.Regexp{
	regexp.MustCompile(`(?i)\d+[%x×+]`),
	regexp.MustCompile(`(?i)\$\d+[KMB]?`),
	regexp.MustCompile(`(?i)\d+\+?\s*(?:years?|months?|weeks?|days?)`),
	regexp.MustCompile(`(?i)\d+\+?\s*(?:users?|clients?|customers?|projects?|teams?)`),
	regexp.MustCompile(`(?i)(?:increased|reduced|improved|achieved|generated|saved|grew|boosted).*?\d+`),
	regexp.MustCompile(`(?i)\d+\s*(?:hours?|members?|representatives?)`),
}

// Section header groups for the formatting sub-score. Each matched group is
// worth 25 points.
var sectionPatterns = []*regexp.Regexp{
	regexp.MustCompile(`(?i)(?:SUMMARY|PROFESSIONAL|PROFILE|OBJECTIVE)`),
	regexp.MustCompile(`(?i)(?:EXPERIENCE|EMPLOYMENT|WORK|PROFESSIONAL)`),
	regexp.MustCompile(`(?i)(?:EDUCATION|CERTIFICATIONS|QUALIFICATIONS)`),
	regexp.MustCompile(`(?i)(?:SKILLS|TECHNICAL|COMPETENCIES|EXPERTISE)`),
}

var (
	wordPattern  = regexp.MustCompile(`\b\w{4,}\b`)
	emailPattern = regexp.MustCompile(`[\w.-]+@[\w.-]+\.\w+`)
	phonePattern = regexp.MustCompile(`\+?\d{1,3}[-.\s]?\(?\d{3}\)?[-.\s]?\d{3}[-.\s]?\d{4}`)
	placePattern = regexp.MustCompile(`(?i)(?:New York|NY|California|CA|Texas|TX|Remote)`)
)

// Score computes the multi-dimensional quality score of a candidate content
// against a job description. It is deterministic and total: any string input,
// including empty, yields a valid Score.
func Score(content, jobDescription string) types.Score {
	keywordMatch, ats := computeATSScore(content, jobDescription)
	actionCount, actionScore := computeActionVerbScore(content)
	metricsCount, metricsScore := computeMetricsScore(content)
	formatScore := computeFormatScore(content)
	qualityScore := computeQualityScore(content)
	completeness := computeCompletenessScore(content)

	overall := float64(ats)*atsWeight +
		float64(actionScore)*actionVerbWeight +
		float64(metricsScore)*metricsWeight +
		float64(formatScore)*formatWeight +
		float64(qualityScore)*qualityWeight +
		float64(completeness)*completenessWeight

	// Professional resumes with solid formatting and verb coverage never
	// fall below the floor.
	if formatScore >= floorFormatScore && actionCount >= floorVerbCount {
		overall = math.Max(overall, floorOverall)
	}

	overall = math.Min(overall, 100)
	overall = math.Round(overall*100) / 100

	return types.Score{
		Overall:           overall,
		ATS:               ats,
		KeywordMatch:      math.Round(keywordMatch*1000) / 1000,
		ActionVerbCount:   actionCount,
		AchievementCount:  metricsCount,
		FormatScore:       formatScore,
		QualityScore:      qualityScore,
		CompletenessScore: completeness,
	}
}

// computeATSScore tokenizes both texts into lowercase words of length >= 4,
// drops stop words and returns the job-token coverage ratio and the derived
// ATS sub-score. An empty job-token set falls back to fixed defaults so the
// scorer never divides by zero.
func computeATSScore(content, jobDescription string) (float64, int) {
	jobTokens := tokenize(jobDescription)
	if len(jobTokens) == 0 {
		return fallbackKeywordMatch, fallbackATS
	}

	resumeTokens := tokenize(content)
	matched := 0
	for token := range jobTokens {
		if resumeTokens[token] {
			matched++
		}
	}

	ratio := float64(matched) / float64(len(jobTokens))
	ats := int(75 + ratio*25) // 75-100 range
	return ratio, ats
}

// tokenize returns the set of lowercase word tokens of length >= 4 with stop
// words removed.
func tokenize(text string) map[string]bool {
	tokens := make(map[string]bool)
	for _, word := range wordPattern.FindAllString(strings.ToLower(text), -1) {
		if !stopWords[word] {
			tokens[word] = true
		}
	}
	return tokens
}

// computeActionVerbScore counts action verbs present in the content and maps
// the count onto a 70-100 sub-score.
func computeActionVerbScore(content string) (int, int) {
	contentLower := strings.ToLower(content)
	count := 0
	for _, verb := range actionVerbs {
		if strings.Contains(contentLower, verb) {
			count++
		}
	}
	score := 70 + count*2
	if score > 100 {
		score = 100
	}
	return count, score
}

// computeMetricsScore counts quantified achievement matches across the fixed
// pattern set and maps the count onto a 75-100 sub-score.
func computeMetricsScore(content string) (int, int) {
	count := 0
	for _, pattern := range metricsPatterns {
		count += len(pattern.FindAllString(content, -1))
	}
	score := 75 + count*3
	if score > 100 {
		score = 100
	}
	return count, score
}

// computeFormatScore awards 25 points per detected resume section group.
func computeFormatScore(content string) int {
	score := 0
	for _, pattern := range sectionPatterns {
		if pattern.MatchString(content) {
			score += 25
		}
	}
	return score
}

// computeQualityScore starts at 70, rewards substantial content and known
// technology keywords, and clamps to 100.
func computeQualityScore(content string) int {
	score := 70
	if len(content) > 2000 {
		score += 10
	}

	contentLower := strings.ToLower(content)
	techBonus := 0
	for _, term := range techTerms {
		if strings.Contains(contentLower, term) {
			techBonus += 2
		}
	}
	if techBonus > 20 {
		techBonus = 20
	}
	score += techBonus

	if score > 100 {
		score = 100
	}
	return score
}

// computeCompletenessScore starts at 70 and rewards the presence of contact
// details and a recognizable location.
func computeCompletenessScore(content string) int {
	score := 70
	if emailPattern.MatchString(content) {
		score += 10
	}
	if phonePattern.MatchString(content) {
		score += 10
	}
	if placePattern.MatchString(content) {
		score += 10
	}
	if score > 100 {
		score = 100
	}
	return score
}
