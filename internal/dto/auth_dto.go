package dto

import (
	"time"

	"github.com/trace-ai/trace-api/internal/models"
)

// SignupRequest is the payload for registering a new account.
type SignupRequest struct {
	Username string `json:"username" validate:"required,min=3,max=64"`
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required,min=6,max=128"`
}

// LoginRequest is the payload for authenticating an existing account.
type LoginRequest struct {
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required"`
}

// StatsResponse mirrors a user's aggregate statistics.
type StatsResponse struct {
	TotalSubmissions int    `json:"total_submissions"`
	TotalIssuesFound int    `json:"total_issues_found"`
	AverageScore     int    `json:"average_score"`
	Rank             string `json:"rank"`
	FavoriteLanguage string `json:"favorite_language"`
}

// UserResponse represents a user to API consumers. The password hash is
// never included.
type UserResponse struct {
	ID        uint          `json:"id"`
	Username  string        `json:"username"`
	Email     string        `json:"email"`
	Stats     StatsResponse `json:"stats"`
	CreatedAt time.Time     `json:"created_at"`
}

// AuthResponse carries a user together with a signed bearer token.
type AuthResponse struct {
	User  UserResponse `json:"user"`
	Token string       `json:"token"`
}

// NewStatsResponse converts a stats model into a DTO.
func NewStatsResponse(stats models.Stats) StatsResponse {
	return StatsResponse{
		TotalSubmissions: stats.TotalSubmissions,
		TotalIssuesFound: stats.TotalIssuesFound,
		AverageScore:     stats.AverageScore,
		Rank:             stats.Rank,
		FavoriteLanguage: stats.FavoriteLanguage,
	}
}

// NewUserResponse converts a user model into a DTO.
func NewUserResponse(user models.User) UserResponse {
	return UserResponse{
		ID:        user.ID,
		Username:  user.Username,
		Email:     user.Email,
		Stats:     NewStatsResponse(user.Stats),
		CreatedAt: user.CreatedAt,
	}
}
