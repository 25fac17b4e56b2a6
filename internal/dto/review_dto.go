package dto

import (
	"time"

	"github.com/trace-ai/trace-api/internal/models"
	"github.com/trace-ai/trace-api/pkg/ai"
)

// SubmitReviewRequest is the payload for submitting code for review.
type SubmitReviewRequest struct {
	Code     string `json:"code"`
	Language string `json:"language"`
}

// SubmitReviewResponse is returned after a successful review.
type SubmitReviewResponse struct {
	SubmissionID uint            `json:"submission_id"`
	Language     string          `json:"language"`
	AIResponse   ai.ReviewResult `json:"ai_response"`
	CreatedAt    time.Time       `json:"created_at"`
	UserStats    StatsResponse   `json:"user_stats"`
}

// SubmissionResponse represents a submission to API consumers. OriginalCode
// is omitted in list views.
type SubmissionResponse struct {
	ID           uint             `json:"id"`
	Language     string           `json:"language"`
	OriginalCode string           `json:"original_code,omitempty"`
	Status       string           `json:"status"`
	AIResponse   *ai.ReviewResult `json:"ai_response,omitempty"`
	ErrorMessage string           `json:"error_message,omitempty"`
	CreatedAt    time.Time        `json:"created_at"`
	UpdatedAt    time.Time        `json:"updated_at"`
}

// Pagination describes the page window of a list response.
type Pagination struct {
	Page  int   `json:"page"`
	Limit int   `json:"limit"`
	Total int64 `json:"total"`
	Pages int   `json:"pages"`
}

// HistoryResponse wraps a page of submissions.
type HistoryResponse struct {
	Submissions []SubmissionResponse `json:"submissions"`
	Pagination  Pagination           `json:"pagination"`
}

// DashboardResponse aggregates the profile statistics with recent activity.
type DashboardResponse struct {
	Stats             StatsResponse        `json:"stats"`
	RecentSubmissions []SubmissionResponse `json:"recent_submissions"`
}

// ChatRequest is the payload for a consultant follow-up question.
type ChatRequest struct {
	Question string `json:"question" validate:"required,min=1,max=2000"`
}

// ChatResponse carries the consultant's free-form Markdown answer.
type ChatResponse struct {
	Answer string `json:"answer"`
}

// NewSubmissionResponse builds a response DTO from a model.
func NewSubmissionResponse(submission models.Submission, includeCode bool) SubmissionResponse {
	response := SubmissionResponse{
		ID:           submission.ID,
		Language:     submission.Language,
		Status:       submission.Status,
		ErrorMessage: submission.ErrorMessage,
		CreatedAt:    submission.CreatedAt,
		UpdatedAt:    submission.UpdatedAt,
	}

	if includeCode {
		response.OriginalCode = submission.OriginalCode
	}

	if review, ok := submission.Review(); ok {
		response.AIResponse = &review
	}

	return response
}
