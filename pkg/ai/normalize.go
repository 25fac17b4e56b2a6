package ai

import (
	"encoding/json"
	"strings"
)

const complexityUnanalyzed = "Not analyzed"

// Normalize turns raw model output into a fully populated ReviewResult.
// It strips a surrounding markdown code fence if present, parses the
// remainder as JSON and defaults every field independently. Inputs that
// cannot be parsed at all yield a fixed fallback result, so the function
// is total: any string maps to a complete ReviewResult.
func Normalize(content string) ReviewResult {
	cleaned := stripCodeFence(strings.TrimSpace(content))

	var parsed struct {
		Summary         string          `json:"summary"`
		Issues          json.RawMessage `json:"issues"`
		TimeComplexity  string          `json:"timeComplexity"`
		SpaceComplexity string          `json:"spaceComplexity"`
		OptimizedCode   string          `json:"optimizedCode"`
		LearningNotes   json.RawMessage `json:"learningNotes"`
	}

	if err := json.Unmarshal([]byte(cleaned), &parsed); err != nil {
		return fallbackResult()
	}

	result := ReviewResult{
		Summary:         parsed.Summary,
		Issues:          decodeIssues(parsed.Issues),
		TimeComplexity:  parsed.TimeComplexity,
		SpaceComplexity: parsed.SpaceComplexity,
		OptimizedCode:   parsed.OptimizedCode,
		LearningNotes:   decodeNotes(parsed.LearningNotes),
	}

	if result.Summary == "" {
		result.Summary = "No summary provided"
	}
	if result.TimeComplexity == "" {
		result.TimeComplexity = complexityUnanalyzed
	}
	if result.SpaceComplexity == "" {
		result.SpaceComplexity = complexityUnanalyzed
	}

	return result
}

// stripCodeFence removes a leading/trailing markdown fence, handling both
// the plain ``` and language-tagged ```json variants.
func stripCodeFence(content string) string {
	if !strings.HasPrefix(content, "```") {
		return content
	}

	lines := strings.Split(content, "\n")
	if len(lines) < 2 {
		return content
	}

	end := len(lines)
	if strings.TrimSpace(lines[end-1]) == "```" {
		end--
	}

	return strings.Join(lines[1:end], "\n")
}

func decodeIssues(raw json.RawMessage) []Issue {
	if len(raw) == 0 {
		return []Issue{}
	}

	var issues []Issue
	if err := json.Unmarshal(raw, &issues); err != nil || issues == nil {
		return []Issue{}
	}

	return issues
}

func decodeNotes(raw json.RawMessage) []string {
	if len(raw) == 0 {
		return []string{}
	}

	var notes []string
	if err := json.Unmarshal(raw, &notes); err != nil || notes == nil {
		return []string{}
	}

	return notes
}

func fallbackResult() ReviewResult {
	return ReviewResult{
		Summary: "AI response could not be parsed",
		Issues: []Issue{
			{
				Type:        IssueKindBestPractice,
				Description: "The AI service returned an invalid response",
				Impact:      "Unable to analyze code at this time",
				Suggestion:  "Please try again later",
			},
		},
		TimeComplexity:  "Unknown",
		SpaceComplexity: "Unknown",
		OptimizedCode:   "",
		LearningNotes:   []string{"Please try submitting your code again"},
	}
}
