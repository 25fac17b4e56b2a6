package ai

import "context"

// Issue kinds reported by the reviewer.
const (
	IssueKindLogic        = "logic"
	IssueKindPerformance  = "performance"
	IssueKindStyle        = "style"
	IssueKindBestPractice = "best-practice"
)

// Issue describes a single problem found in the submitted code.
type Issue struct {
	Type        string `json:"type"`
	Description string `json:"description"`
	Impact      string `json:"impact"`
	Suggestion  string `json:"suggestion"`
}

// ReviewResult is the structured review payload stored with a submission.
// Every field carries a safe default so the value is always fully populated,
// even when the upstream model reply is partial or malformed.
type ReviewResult struct {
	Summary         string   `json:"summary"`
	Issues          []Issue  `json:"issues"`
	TimeComplexity  string   `json:"timeComplexity"`
	SpaceComplexity string   `json:"spaceComplexity"`
	OptimizedCode   string   `json:"optimizedCode"`
	LearningNotes   []string `json:"learningNotes"`
}

// ChatInput bundles the review context forwarded to the consultant.
type ChatInput struct {
	Code     string
	Summary  string
	Issues   []Issue
	Question string
}

// Client describes an AI backend capable of reviewing code and answering
// follow-up questions about a finished review. ReviewCode returns the raw
// model text; callers run Normalize on it to obtain a ReviewResult.
// ConsultantChat answers are free-form Markdown and returned verbatim.
type Client interface {
	ReviewCode(ctx context.Context, code, language string) (string, error)
	ConsultantChat(ctx context.Context, input ChatInput) (string, error)
}
