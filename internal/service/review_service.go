package service

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"sync"

	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog"
	"gorm.io/gorm"

	"github.com/trace-ai/trace-api/internal/dto"
	"github.com/trace-ai/trace-api/internal/models"
	"github.com/trace-ai/trace-api/internal/repository"
	"github.com/trace-ai/trace-api/pkg/ai"
)

// ErrSubmissionNotFound indicates the submission does not exist or is not
// owned by the caller. The two cases are deliberately indistinguishable.
var ErrSubmissionNotFound = errors.New("submission not found")

// ValidationError carries the full list of submission validation failures.
type ValidationError struct {
	Errors []string
}

func (e *ValidationError) Error() string {
	return "validation failed: " + strings.Join(e.Errors, "; ")
}

// AIFailureError reports that the AI backend failed after a submission was
// created. The submission id is preserved so callers can inspect the failed
// record later.
type AIFailureError struct {
	SubmissionID uint
	Err          error
}

func (e *AIFailureError) Error() string {
	return fmt.Sprintf("ai review failed for submission %d: %v", e.SubmissionID, e.Err)
}

func (e *AIFailureError) Unwrap() error { return e.Err }

// ReviewService orchestrates the submission lifecycle: validate, persist a
// pending record, invoke the AI backend once, normalize its reply and fold
// the outcome into the owner's statistics.
type ReviewService interface {
	Submit(ctx context.Context, userID uint, payload dto.SubmitReviewRequest) (dto.SubmitReviewResponse, error)
	History(ctx context.Context, userID uint, page, limit int) (dto.HistoryResponse, error)
	Get(ctx context.Context, userID, submissionID uint) (dto.SubmissionResponse, error)
}

const (
	defaultHistoryLimit = 10
	maxHistoryLimit     = 100
)

type reviewService struct {
	submissions repository.SubmissionRepository
	users       repository.UserRepository
	client      ai.Client
	cache       *redis.Client
	logger      zerolog.Logger

	// statsLocks serializes the per-user statistics read-modify-write so
	// concurrent submissions from one user cannot lose an update. The
	// service is single-process, so an in-process lock suffices.
	statsLocks sync.Map
}

// NewReviewService constructs the review orchestrator.
func NewReviewService(submissions repository.SubmissionRepository, users repository.UserRepository, client ai.Client, cache *redis.Client, logger zerolog.Logger) ReviewService {
	return &reviewService{
		submissions: submissions,
		users:       users,
		client:      client,
		cache:       cache,
		logger:      logger.With().Str("component", "review_service").Logger(),
	}
}

func (s *reviewService) Submit(ctx context.Context, userID uint, payload dto.SubmitReviewRequest) (dto.SubmitReviewResponse, error) {
	validation := ValidateCodeSubmission(payload.Code, payload.Language)
	if !validation.Valid {
		return dto.SubmitReviewResponse{}, &ValidationError{Errors: validation.Errors}
	}

	submission := models.Submission{
		UserID:       userID,
		Language:     payload.Language,
		OriginalCode: payload.Code,
		Status:       models.SubmissionStatusPending,
	}

	if err := s.submissions.Create(ctx, &submission); err != nil {
		return dto.SubmitReviewResponse{}, err
	}

	// One attempt only; the backend call is not idempotent and is never retried here.
	raw, err := s.client.ReviewCode(ctx, payload.Code, payload.Language)
	if err != nil {
		submission.Status = models.SubmissionStatusFailed
		submission.ErrorMessage = err.Error()
		if updateErr := s.submissions.Update(ctx, &submission); updateErr != nil {
			s.logger.Error().Err(updateErr).Uint("submission_id", submission.ID).Msg("failed to record ai failure")
		}
		return dto.SubmitReviewResponse{}, &AIFailureError{SubmissionID: submission.ID, Err: err}
	}

	review := ai.Normalize(raw)
	if err := submission.SetReview(review); err != nil {
		return dto.SubmitReviewResponse{}, err
	}

	if err := s.submissions.Update(ctx, &submission); err != nil {
		return dto.SubmitReviewResponse{}, err
	}

	stats, err := s.applyReviewToStats(ctx, userID, len(review.Issues))
	if err != nil {
		return dto.SubmitReviewResponse{}, err
	}

	s.invalidateDashboard(ctx, userID)

	return dto.SubmitReviewResponse{
		SubmissionID: submission.ID,
		Language:     submission.Language,
		AIResponse:   review,
		CreatedAt:    submission.CreatedAt,
		UserStats:    dto.NewStatsResponse(stats),
	}, nil
}

func (s *reviewService) History(ctx context.Context, userID uint, page, limit int) (dto.HistoryResponse, error) {
	if page < 1 {
		page = 1
	}
	if limit < 1 {
		limit = defaultHistoryLimit
	}
	if limit > maxHistoryLimit {
		limit = maxHistoryLimit
	}

	submissions, total, err := s.submissions.ListForUser(ctx, userID, (page-1)*limit, limit)
	if err != nil {
		return dto.HistoryResponse{}, err
	}

	entries := make([]dto.SubmissionResponse, 0, len(submissions))
	for _, submission := range submissions {
		// List views never expose the full code.
		entries = append(entries, dto.NewSubmissionResponse(submission, false))
	}

	pages := int((total + int64(limit) - 1) / int64(limit))

	return dto.HistoryResponse{
		Submissions: entries,
		Pagination: dto.Pagination{
			Page:  page,
			Limit: limit,
			Total: total,
			Pages: pages,
		},
	}, nil
}

func (s *reviewService) Get(ctx context.Context, userID, submissionID uint) (dto.SubmissionResponse, error) {
	submission, err := s.submissions.GetByIDForUser(ctx, submissionID, userID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return dto.SubmissionResponse{}, ErrSubmissionNotFound
		}
		return dto.SubmissionResponse{}, err
	}

	return dto.NewSubmissionResponse(submission, true), nil
}

func (s *reviewService) applyReviewToStats(ctx context.Context, userID uint, issuesCount int) (models.Stats, error) {
	lock := s.userLock(userID)
	lock.Lock()
	defer lock.Unlock()

	user, err := s.users.GetByID(ctx, userID)
	if err != nil {
		return models.Stats{}, err
	}

	user.Stats.ApplyReview(issuesCount)
	if err := s.users.UpdateStats(ctx, userID, user.Stats); err != nil {
		return models.Stats{}, err
	}

	return user.Stats, nil
}

func (s *reviewService) userLock(userID uint) *sync.Mutex {
	lock, _ := s.statsLocks.LoadOrStore(userID, &sync.Mutex{})
	return lock.(*sync.Mutex)
}

func (s *reviewService) invalidateDashboard(ctx context.Context, userID uint) {
	if s.cache == nil {
		return
	}

	if err := s.cache.Del(ctx, dashboardCacheKey(userID)).Err(); err != nil {
		s.logger.Warn().Err(err).Uint("user_id", userID).Msg("failed to invalidate dashboard cache")
	}
}
