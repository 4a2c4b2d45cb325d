// Package generation produces candidate resume versions, one per approach,
// by prompting the LLM with approach-specific templates.
package generation

import (
	"context"
	"strconv"
	"strings"
	"unicode/utf8"

	"github.com/jonathan/resume-optimizer/internal/llm"
	"github.com/jonathan/resume-optimizer/internal/prompts"
	"github.com/jonathan/resume-optimizer/internal/types"
)

// Prompt input caps bound the cost of each generation call. Truncation is a
// cost-containment measure, not a correctness one.
const (
	maxJobDescChars = 1500
	maxResumeChars  = 2000
)

// Generator builds prompts and invokes the LLM to produce candidates.
type Generator struct {
	client llm.Client // nil degrades every call to the identity fallback
}

// NewGenerator creates a generator around the given client.
func NewGenerator(client llm.Client) *Generator {
	return &Generator{client: client}
}

// Request carries the inputs for one candidate generation.
type Request struct {
	Approach       types.Approach
	Resume         string
	JobDescription string
	Iteration      int
	PreviousBest   string // best content from the prior iteration, empty on the first
}

// Generate produces one candidate for the requested approach. On any LLM
// failure it returns the original resume unchanged: the pipeline must always
// have a valid candidate per approach, even under total upstream outage.
func (g *Generator) Generate(ctx context.Context, req Request) types.Candidate {
	candidate := types.Candidate{
		Approach:  req.Approach,
		Content:   req.Resume,
		Iteration: req.Iteration,
	}

	if g.client == nil {
		return candidate
	}

	prompt, err := g.buildPrompt(req)
	if err != nil {
		return candidate
	}

	optimized, err := g.client.GenerateContent(ctx, prompt, llm.TierAdvanced)
	if err != nil || strings.TrimSpace(optimized) == "" {
		return candidate
	}

	candidate.Content = strings.TrimSpace(optimized)
	return candidate
}

// buildPrompt assembles the approach template, shared instructions and the
// iteration-refinement clause.
func (g *Generator) buildPrompt(req Request) (string, error) {
	template, err := prompts.Get("generation.json", string(req.Approach))
	if err != nil {
		return "", err
	}

	prompt := prompts.Format(template, map[string]string{
		"JobDescription": truncate(req.JobDescription, maxJobDescChars),
		"Resume":         truncate(req.Resume, maxResumeChars),
	})

	// The shared keys are embedded alongside the approach templates; a
	// missing one is a broken build, not a runtime condition.
	prompt += prompts.MustGet("generation.json", "instructions")

	if req.Iteration > 1 {
		refinement := prompts.MustGet("generation.json", "refinement")
		prompt += prompts.Format(refinement, map[string]string{
			"Iteration":    strconv.Itoa(req.Iteration),
			"PreviousBest": truncate(req.PreviousBest, maxResumeChars),
		})
	}

	return prompt, nil
}

// truncate caps s at max characters, not bytes, so a multi-byte rune is
// never split mid-sequence.
func truncate(s string, max int) string {
	if utf8.RuneCountInString(s) <= max {
		return s
	}
	return string([]rune(s)[:max])
}
