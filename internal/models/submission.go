package models

import (
	"encoding/json"
	"time"

	"gorm.io/datatypes"

	"github.com/trace-ai/trace-api/pkg/ai"
)

// SubmissionStatus enumerates the submission lifecycle states. A submission
// is created pending and transitions exactly once to completed or failed.
const (
	SubmissionStatusPending   = "pending"
	SubmissionStatusCompleted = "completed"
	SubmissionStatusFailed    = "failed"
)

// MaxCodeLength bounds the original source text of a submission.
const MaxCodeLength = 10000

// SupportedLanguages lists the languages a submission may declare.
var SupportedLanguages = []string{"javascript", "python", "java"}

// IsSupportedLanguage reports whether the declared language is allowed.
func IsSupportedLanguage(language string) bool {
	for _, candidate := range SupportedLanguages {
		if candidate == language {
			return true
		}
	}
	return false
}

// Submission represents one code-review request and its outcome.
// AIResponse is set iff status is completed; ErrorMessage only when failed.
type Submission struct {
	ID           uint           `gorm:"primaryKey" json:"id"`
	UserID       uint           `gorm:"not null;index:idx_submissions_user_created" json:"user_id"`
	Language     string         `gorm:"size:32;not null" json:"language"`
	OriginalCode string         `gorm:"type:text;not null" json:"original_code"`
	Status       string         `gorm:"size:16;not null" json:"status"`
	AIResponse   datatypes.JSON `gorm:"type:json" json:"ai_response"`
	ErrorMessage string         `gorm:"type:text" json:"error_message"`
	CreatedAt    time.Time      `gorm:"index:idx_submissions_user_created" json:"created_at"`
	UpdatedAt    time.Time      `json:"updated_at"`
}

// SetReview stores a normalized review payload and marks the submission completed.
func (s *Submission) SetReview(result ai.ReviewResult) error {
	payload, err := json.Marshal(result)
	if err != nil {
		return err
	}

	s.AIResponse = datatypes.JSON(payload)
	s.Status = SubmissionStatusCompleted
	return nil
}

// Review decodes the stored review payload. The second return value is false
// when no review has been recorded.
func (s Submission) Review() (ai.ReviewResult, bool) {
	if len(s.AIResponse) == 0 {
		return ai.ReviewResult{}, false
	}

	var result ai.ReviewResult
	if err := json.Unmarshal(s.AIResponse, &result); err != nil {
		return ai.ReviewResult{}, false
	}

	return result, true
}
