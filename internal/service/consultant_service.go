package service

import (
	"context"
	"errors"

	"github.com/go-playground/validator/v10"
	"github.com/rs/zerolog"
	"gorm.io/gorm"

	"github.com/trace-ai/trace-api/internal/dto"
	"github.com/trace-ai/trace-api/internal/models"
	"github.com/trace-ai/trace-api/internal/repository"
	"github.com/trace-ai/trace-api/pkg/ai"
)

// ErrReviewNotCompleted indicates a chat was requested for a submission that
// has not finished a successful review.
var ErrReviewNotCompleted = errors.New("can only chat about completed reviews")

// ErrChatUnavailable indicates the AI backend failed to answer.
var ErrChatUnavailable = errors.New("chat service temporarily unavailable")

// ConsultantService relays follow-up questions about a finished review to
// the AI backend, together with the stored review context.
type ConsultantService interface {
	Chat(ctx context.Context, userID, submissionID uint, payload dto.ChatRequest) (dto.ChatResponse, error)
}

type consultantService struct {
	submissions repository.SubmissionRepository
	client      ai.Client
	validator   *validator.Validate
	logger      zerolog.Logger
}

// NewConsultantService constructs the consultant relay.
func NewConsultantService(submissions repository.SubmissionRepository, client ai.Client, validate *validator.Validate, logger zerolog.Logger) ConsultantService {
	return &consultantService{
		submissions: submissions,
		client:      client,
		validator:   validate,
		logger:      logger.With().Str("component", "consultant_service").Logger(),
	}
}

func (s *consultantService) Chat(ctx context.Context, userID, submissionID uint, payload dto.ChatRequest) (dto.ChatResponse, error) {
	if err := s.validator.Struct(payload); err != nil {
		return dto.ChatResponse{}, err
	}

	submission, err := s.submissions.GetByIDForUser(ctx, submissionID, userID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return dto.ChatResponse{}, ErrSubmissionNotFound
		}
		return dto.ChatResponse{}, err
	}

	if submission.Status != models.SubmissionStatusCompleted {
		return dto.ChatResponse{}, ErrReviewNotCompleted
	}

	review, _ := submission.Review()

	answer, err := s.client.ConsultantChat(ctx, ai.ChatInput{
		Code:     submission.OriginalCode,
		Summary:  review.Summary,
		Issues:   review.Issues,
		Question: payload.Question,
	})
	if err != nil {
		s.logger.Error().Err(err).Uint("submission_id", submissionID).Msg("consultant chat failed")
		return dto.ChatResponse{}, ErrChatUnavailable
	}

	// Free-form Markdown is returned verbatim; only the review path is normalized.
	return dto.ChatResponse{Answer: answer}, nil
}
