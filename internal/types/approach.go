// Package types provides type definitions for structured data used throughout the resume-optimizer system.
//
//nolint:revive // types is a standard Go package name pattern
package types

import "fmt"

// Approach identifies one of the fixed resume rewriting approaches.
// Each approach maps to its own generation prompt template.
type Approach string

// The fixed, closed set of rewriting approaches.
const (
	ApproachKeywords     Approach = "keywords"
	ApproachAchievements Approach = "achievements"
	ApproachStructure    Approach = "structure"
)

// AllApproaches returns the fixed approach set in its canonical order.
// The order is the tiebreak order for evaluation, so it must be stable.
func AllApproaches() []Approach {
	return []Approach{ApproachKeywords, ApproachAchievements, ApproachStructure}
}

// Valid reports whether a is one of the known approaches.
func (a Approach) Valid() bool {
	switch a {
	case ApproachKeywords, ApproachAchievements, ApproachStructure:
		return true
	}
	return false
}

// ParseApproach converts a string label into an Approach.
func ParseApproach(s string) (Approach, error) {
	a := Approach(s)
	if !a.Valid() {
		return "", fmt.Errorf("unknown approach: %q", s)
	}
	return a, nil
}

// Strategy is the higher-level optimization strategy chosen once per job.
type Strategy string

// The fixed strategy vocabulary the planner may choose from.
const (
	StrategyKeywordOptimization  Strategy = "keyword_optimization"
	StrategyAchievementFocus     Strategy = "achievement_focus"
	StrategySkillsEmphasis       Strategy = "skills_emphasis"
	StrategyStructureImprovement Strategy = "structure_improvement"
	StrategyBalancedApproach     Strategy = "balanced_approach"
)

// AllStrategies returns the strategy vocabulary.
func AllStrategies() []Strategy {
	return []Strategy{
		StrategyKeywordOptimization,
		StrategyAchievementFocus,
		StrategySkillsEmphasis,
		StrategyStructureImprovement,
		StrategyBalancedApproach,
	}
}

// Valid reports whether s is in the strategy vocabulary.
func (s Strategy) Valid() bool {
	for _, known := range AllStrategies() {
		if s == known {
			return true
		}
	}
	return false
}

// JobType classifies the target job posting.
type JobType string

// Job type classifications.
const (
	JobTypeTechnical  JobType = "technical"
	JobTypeManagement JobType = "management"
	JobTypeCreative   JobType = "creative"
	JobTypeGeneral    JobType = "general"
)

// Valid reports whether j is a known job type.
func (j JobType) Valid() bool {
	switch j {
	case JobTypeTechnical, JobTypeManagement, JobTypeCreative, JobTypeGeneral:
		return true
	}
	return false
}
