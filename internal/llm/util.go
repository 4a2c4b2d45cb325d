// Package llm - util.go provides shared utilities for LLM response processing.
package llm

import (
	"encoding/json"
	"regexp"
	"strings"
)

var jsonArrayPattern = regexp.MustCompile(`(?s)\[.*\]`)

// CleanJSONBlock removes markdown code block wrappers from JSON responses.
// LLMs often wrap JSON in ```json ... ``` blocks even when instructed not to.
func CleanJSONBlock(text string) string {
	text = strings.TrimSpace(text)

	if strings.HasPrefix(text, "```json") {
		text = strings.TrimPrefix(text, "```json")
		if idx := strings.LastIndex(text, "```"); idx >= 0 {
			text = text[:idx]
		}
		return strings.TrimSpace(text)
	}

	if strings.HasPrefix(text, "```") {
		text = strings.TrimPrefix(text, "```")
		// Skip a potential language identifier on the first line
		if idx := strings.Index(text, "\n"); idx >= 0 {
			firstLine := text[:idx]
			if len(firstLine) < 20 && !strings.Contains(firstLine, " ") && !strings.Contains(firstLine, "{") {
				text = text[idx+1:]
			}
		}
		if idx := strings.LastIndex(text, "```"); idx >= 0 {
			text = text[:idx]
		}
		return strings.TrimSpace(text)
	}

	return text
}

// ExtractStringArray parses a JSON string array out of an LLM response,
// tolerating surrounding prose and markdown fences. Returns nil when no
// array can be recovered.
func ExtractStringArray(text string) []string {
	if text == "" {
		return nil
	}

	cleaned := CleanJSONBlock(text)

	var items []string
	if err := json.Unmarshal([]byte(cleaned), &items); err == nil {
		return items
	}

	// Fall back to the first bracketed span anywhere in the response.
	if match := jsonArrayPattern.FindString(cleaned); match != "" {
		if err := json.Unmarshal([]byte(match), &items); err == nil {
			return items
		}
	}

	return nil
}
