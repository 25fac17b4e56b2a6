package service

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"testing"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"

	"github.com/trace-ai/trace-api/internal/dto"
	"github.com/trace-ai/trace-api/internal/models"
	"github.com/trace-ai/trace-api/pkg/ai"
)

type stubSubmissionRepo struct {
	nextID      uint
	submissions map[uint]models.Submission
	createErr   error
	updateErr   error
}

func newStubSubmissionRepo() *stubSubmissionRepo {
	return &stubSubmissionRepo{submissions: map[uint]models.Submission{}}
}

func (s *stubSubmissionRepo) Create(_ context.Context, submission *models.Submission) error {
	if s.createErr != nil {
		return s.createErr
	}
	s.nextID++
	submission.ID = s.nextID
	s.submissions[submission.ID] = *submission
	return nil
}

func (s *stubSubmissionRepo) Update(_ context.Context, submission *models.Submission) error {
	if s.updateErr != nil {
		return s.updateErr
	}
	s.submissions[submission.ID] = *submission
	return nil
}

func (s *stubSubmissionRepo) GetByIDForUser(_ context.Context, id, userID uint) (models.Submission, error) {
	submission, ok := s.submissions[id]
	if !ok || submission.UserID != userID {
		return models.Submission{}, gorm.ErrRecordNotFound
	}
	return submission, nil
}

func (s *stubSubmissionRepo) ListForUser(_ context.Context, userID uint, offset, limit int) ([]models.Submission, int64, error) {
	all := s.allForUser(userID)
	total := int64(len(all))
	if offset >= len(all) {
		return nil, total, nil
	}
	end := offset + limit
	if end > len(all) {
		end = len(all)
	}
	return all[offset:end], total, nil
}

func (s *stubSubmissionRepo) RecentForUser(_ context.Context, userID uint, limit int) ([]models.Submission, error) {
	all := s.allForUser(userID)
	if len(all) > limit {
		all = all[:limit]
	}
	return all, nil
}

// allForUser returns the user's submissions newest-first (descending id).
func (s *stubSubmissionRepo) allForUser(userID uint) []models.Submission {
	var result []models.Submission
	for id := s.nextID; id >= 1; id-- {
		if submission, ok := s.submissions[id]; ok && submission.UserID == userID {
			result = append(result, submission)
		}
	}
	return result
}

type stubUserRepo struct {
	users     map[uint]models.User
	statsErr  error
	getErr    error
	statsSets int
}

func newStubUserRepo(users ...models.User) *stubUserRepo {
	repo := &stubUserRepo{users: map[uint]models.User{}}
	for _, user := range users {
		repo.users[user.ID] = user
	}
	return repo
}

func (s *stubUserRepo) Create(_ context.Context, user *models.User) error {
	if user.ID == 0 {
		user.ID = uint(len(s.users) + 1)
	}
	s.users[user.ID] = *user
	return nil
}

func (s *stubUserRepo) GetByID(_ context.Context, id uint) (models.User, error) {
	if s.getErr != nil {
		return models.User{}, s.getErr
	}
	user, ok := s.users[id]
	if !ok {
		return models.User{}, gorm.ErrRecordNotFound
	}
	return user, nil
}

func (s *stubUserRepo) GetByEmail(_ context.Context, email string) (models.User, error) {
	for _, user := range s.users {
		if user.Email == email {
			return user, nil
		}
	}
	return models.User{}, gorm.ErrRecordNotFound
}

func (s *stubUserRepo) ExistsByUsernameOrEmail(_ context.Context, username, email string) (bool, error) {
	for _, user := range s.users {
		if user.Username == username || user.Email == email {
			return true, nil
		}
	}
	return false, nil
}

func (s *stubUserRepo) UpdateStats(_ context.Context, id uint, stats models.Stats) error {
	if s.statsErr != nil {
		return s.statsErr
	}
	user, ok := s.users[id]
	if !ok {
		return gorm.ErrRecordNotFound
	}
	user.Stats = stats
	s.users[id] = user
	s.statsSets++
	return nil
}

type stubAIClient struct {
	reviewReply string
	reviewErr   error
	chatReply   string
	chatErr     error
	lastInput   ai.ChatInput
}

func (s *stubAIClient) ReviewCode(_ context.Context, _, _ string) (string, error) {
	if s.reviewErr != nil {
		return "", s.reviewErr
	}
	return s.reviewReply, nil
}

func (s *stubAIClient) ConsultantChat(_ context.Context, input ai.ChatInput) (string, error) {
	s.lastInput = input
	if s.chatErr != nil {
		return "", s.chatErr
	}
	return s.chatReply, nil
}

func reviewReplyWithIssues(t *testing.T, count int) string {
	t.Helper()

	issues := make([]ai.Issue, count)
	for i := range issues {
		issues[i] = ai.Issue{Type: ai.IssueKindLogic, Description: "issue", Impact: "x", Suggestion: "fix"}
	}

	payload, err := json.Marshal(ai.ReviewResult{
		Summary:         "reviewed",
		Issues:          issues,
		TimeComplexity:  "O(n)",
		SpaceComplexity: "O(1)",
		LearningNotes:   []string{"note"},
	})
	require.NoError(t, err)
	return string(payload)
}

func newDiscardLogger() zerolog.Logger {
	return zerolog.New(io.Discard)
}

func TestReviewSubmitCompletesAndUpdatesStats(t *testing.T) {
	submissions := newStubSubmissionRepo()
	users := newStubUserRepo(models.User{ID: 1, Username: "alice", Email: "alice@example.com", Stats: models.NewStats()})
	client := &stubAIClient{reviewReply: reviewReplyWithIssues(t, 3)}

	svc := NewReviewService(submissions, users, client, nil, newDiscardLogger())

	response, err := svc.Submit(context.Background(), 1, dto.SubmitReviewRequest{
		Code:     "function add(a, b) { return a + b; }",
		Language: "javascript",
	})
	require.NoError(t, err)

	require.Equal(t, "javascript", response.Language)
	require.Len(t, response.AIResponse.Issues, 3)
	require.Equal(t, 70, response.UserStats.AverageScore)
	require.Equal(t, models.RankB, response.UserStats.Rank)
	require.Equal(t, 1, response.UserStats.TotalSubmissions)
	require.Equal(t, 3, response.UserStats.TotalIssuesFound)

	stored := submissions.submissions[response.SubmissionID]
	require.Equal(t, models.SubmissionStatusCompleted, stored.Status)
	require.NotEmpty(t, stored.AIResponse)
	require.Empty(t, stored.ErrorMessage)
}

func TestReviewSubmitValidationFailureCreatesNothing(t *testing.T) {
	submissions := newStubSubmissionRepo()
	users := newStubUserRepo(models.User{ID: 1, Stats: models.NewStats()})
	client := &stubAIClient{reviewReply: reviewReplyWithIssues(t, 0)}

	svc := NewReviewService(submissions, users, client, nil, newDiscardLogger())

	_, err := svc.Submit(context.Background(), 1, dto.SubmitReviewRequest{Code: "", Language: "cobol"})

	var validationError *ValidationError
	require.ErrorAs(t, err, &validationError)
	require.NotEmpty(t, validationError.Errors)
	require.Empty(t, submissions.submissions)
	require.Zero(t, users.statsSets)
}

func TestReviewSubmitAIFailureMarksFailed(t *testing.T) {
	submissions := newStubSubmissionRepo()
	users := newStubUserRepo(models.User{ID: 1, Stats: models.NewStats()})
	client := &stubAIClient{reviewErr: errors.New("upstream down")}

	svc := NewReviewService(submissions, users, client, nil, newDiscardLogger())

	_, err := svc.Submit(context.Background(), 1, dto.SubmitReviewRequest{
		Code:     "print('hi')",
		Language: "python",
	})

	var aiFailure *AIFailureError
	require.ErrorAs(t, err, &aiFailure)
	require.NotZero(t, aiFailure.SubmissionID)

	stored := submissions.submissions[aiFailure.SubmissionID]
	require.Equal(t, models.SubmissionStatusFailed, stored.Status)
	require.Equal(t, "upstream down", stored.ErrorMessage)
	require.Empty(t, stored.AIResponse)

	// Statistics are untouched on failure.
	require.Zero(t, users.statsSets)
	require.Equal(t, 0, users.users[1].Stats.TotalSubmissions)
}

func TestReviewSubmitUnparseableReplyDegradesToFallback(t *testing.T) {
	submissions := newStubSubmissionRepo()
	users := newStubUserRepo(models.User{ID: 1, Stats: models.NewStats()})
	client := &stubAIClient{reviewReply: "the model rambled instead of returning JSON"}

	svc := NewReviewService(submissions, users, client, nil, newDiscardLogger())

	response, err := svc.Submit(context.Background(), 1, dto.SubmitReviewRequest{
		Code:     "print('hi')",
		Language: "python",
	})
	require.NoError(t, err)

	// The fallback result counts as a completed review with one issue.
	require.Equal(t, "AI response could not be parsed", response.AIResponse.Summary)
	require.Len(t, response.AIResponse.Issues, 1)
	require.Equal(t, 90, response.UserStats.AverageScore)

	stored := submissions.submissions[response.SubmissionID]
	require.Equal(t, models.SubmissionStatusCompleted, stored.Status)
}

func TestReviewSubmitRunningAverageAcrossSubmissions(t *testing.T) {
	submissions := newStubSubmissionRepo()
	users := newStubUserRepo(models.User{ID: 1, Stats: models.NewStats()})
	client := &stubAIClient{}

	svc := NewReviewService(submissions, users, client, nil, newDiscardLogger())

	issueCounts := []int{3, 0, 7, 12, 1}
	var response dto.SubmitReviewResponse
	for _, count := range issueCounts {
		client.reviewReply = reviewReplyWithIssues(t, count)
		var err error
		response, err = svc.Submit(context.Background(), 1, dto.SubmitReviewRequest{
			Code:     "print('hi')",
			Language: "python",
		})
		require.NoError(t, err)
	}

	require.Equal(t, 58, response.UserStats.AverageScore)
	require.Equal(t, 5, response.UserStats.TotalSubmissions)
	require.Equal(t, 23, response.UserStats.TotalIssuesFound)
	require.Equal(t, models.RankC, response.UserStats.Rank)
}

func TestReviewHistoryOmitsCodeAndPaginates(t *testing.T) {
	submissions := newStubSubmissionRepo()
	users := newStubUserRepo(models.User{ID: 1, Stats: models.NewStats()})
	client := &stubAIClient{reviewReply: reviewReplyWithIssues(t, 1)}

	svc := NewReviewService(submissions, users, client, nil, newDiscardLogger())

	for i := 0; i < 3; i++ {
		_, err := svc.Submit(context.Background(), 1, dto.SubmitReviewRequest{
			Code:     "print('hi')",
			Language: "python",
		})
		require.NoError(t, err)
	}

	history, err := svc.History(context.Background(), 1, 1, 2)
	require.NoError(t, err)
	require.Len(t, history.Submissions, 2)
	require.Equal(t, int64(3), history.Pagination.Total)
	require.Equal(t, 2, history.Pagination.Pages)
	for _, entry := range history.Submissions {
		require.Empty(t, entry.OriginalCode)
		require.NotNil(t, entry.AIResponse)
	}

	second, err := svc.History(context.Background(), 1, 2, 2)
	require.NoError(t, err)
	require.Len(t, second.Submissions, 1)
}

func TestReviewGetEnforcesOwnership(t *testing.T) {
	submissions := newStubSubmissionRepo()
	users := newStubUserRepo(
		models.User{ID: 1, Stats: models.NewStats()},
		models.User{ID: 2, Stats: models.NewStats()},
	)
	client := &stubAIClient{reviewReply: reviewReplyWithIssues(t, 1)}

	svc := NewReviewService(submissions, users, client, nil, newDiscardLogger())

	response, err := svc.Submit(context.Background(), 1, dto.SubmitReviewRequest{
		Code:     "print('hi')",
		Language: "python",
	})
	require.NoError(t, err)

	owned, err := svc.Get(context.Background(), 1, response.SubmissionID)
	require.NoError(t, err)
	require.Equal(t, "print('hi')", owned.OriginalCode)

	_, err = svc.Get(context.Background(), 2, response.SubmissionID)
	require.ErrorIs(t, err, ErrSubmissionNotFound)
}
