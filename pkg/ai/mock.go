package ai

import (
	"context"
	"encoding/json"
	"fmt"
)

// MockClient returns canned replies without calling an external API. It is
// selected by configuration for local development and demonstrations.
type MockClient struct{}

// NewMockClient constructs the mock backend.
func NewMockClient() *MockClient {
	return &MockClient{}
}

// ReviewCode returns a realistic canned review as raw JSON text, so the
// normal Normalize path applies to it just like a real provider reply.
func (m *MockClient) ReviewCode(_ context.Context, _ string, language string) (string, error) {
	result := ReviewResult{
		Summary: fmt.Sprintf("This %s code implements a function but has several areas for improvement. While functionally correct, it uses outdated syntax and could be more efficient.", language),
		Issues: []Issue{
			{
				Type:        IssueKindBestPractice,
				Description: "Using var instead of let/const",
				Impact:      "var has function scope which can lead to unexpected bugs",
				Suggestion:  "Replace var with const for values that don't change, or let for values that do",
			},
			{
				Type:        IssueKindPerformance,
				Description: "Inefficient loop iteration",
				Impact:      "Unnecessary iterations reduce performance",
				Suggestion:  "Consider using built-in array methods like reduce() or Math.max()",
			},
			{
				Type:        IssueKindLogic,
				Description: "No null/undefined check for input",
				Impact:      "Function will throw error if the input is null or undefined",
				Suggestion:  "Add input validation at the start of the function",
			},
		},
		TimeComplexity:  "O(n) - linear time",
		SpaceComplexity: "O(1) - constant space",
		OptimizedCode:   "function findMax(arr) {\n  if (!arr || arr.length === 0) {\n    return null;\n  }\n  return Math.max(...arr);\n}",
		LearningNotes: []string{
			"Modern JavaScript prefers const/let over var for better scoping",
			"Built-in methods like Math.max() are optimized for performance",
			"Always validate inputs to prevent runtime errors",
		},
	}

	payload, err := json.Marshal(result)
	if err != nil {
		return "", fmt.Errorf("marshal mock review: %w", err)
	}

	return string(payload), nil
}

// ConsultantChat returns a fixed mock answer.
func (m *MockClient) ConsultantChat(_ context.Context, _ ChatInput) (string, error) {
	return "This is a mock consultant response. In production, I would analyze your specific code and the review feedback to answer your question deeply.", nil
}
