package models

import (
	"math"
	"time"
)

// Rank letters derived from the average score.
const (
	RankS = "S"
	RankA = "A"
	RankB = "B"
	RankC = "C"
	RankD = "D"
)

// Stats aggregates a user's review history. AverageScore is the running
// mean of all completed submissions' per-submission scores; Rank is a pure
// function of the average score.
type Stats struct {
	TotalSubmissions int    `gorm:"not null;default:0" json:"total_submissions"`
	TotalIssuesFound int    `gorm:"not null;default:0" json:"total_issues_found"`
	AverageScore     int    `gorm:"not null;default:100" json:"average_score"`
	Rank             string `gorm:"size:1;not null;default:D" json:"rank"`
	FavoriteLanguage string `gorm:"size:32;not null;default:None" json:"favorite_language"`
}

// User represents a registered account and its aggregate statistics.
// PasswordHash is never serialized outward.
type User struct {
	ID           uint      `gorm:"primaryKey" json:"id"`
	Username     string    `gorm:"size:255;uniqueIndex;not null" json:"username"`
	Email        string    `gorm:"size:255;uniqueIndex;not null" json:"email"`
	PasswordHash string    `gorm:"size:255;not null" json:"-"`
	Stats        Stats     `gorm:"embedded;embeddedPrefix:stats_" json:"stats"`
	CreatedAt    time.Time `json:"created_at"`
	UpdatedAt    time.Time `json:"updated_at"`
}

// NewStats returns the statistics a fresh account starts with.
func NewStats() Stats {
	return Stats{AverageScore: 100, Rank: RankD, FavoriteLanguage: "None"}
}

// ScoreForIssues computes the per-submission score: 100 base, minus 10 per
// issue, floored at 0.
func ScoreForIssues(issuesCount int) int {
	score := 100 - 10*issuesCount
	if score < 0 {
		return 0
	}
	return score
}

// RankForScore maps an average score to its letter rank.
func RankForScore(averageScore int) string {
	switch {
	case averageScore >= 95:
		return RankS
	case averageScore >= 85:
		return RankA
	case averageScore >= 70:
		return RankB
	case averageScore >= 50:
		return RankC
	default:
		return RankD
	}
}

// ApplyReview folds one completed review into the statistics: it advances
// the incremental running mean with integer rounding and recomputes the rank.
func (s *Stats) ApplyReview(issuesCount int) {
	currentScore := ScoreForIssues(issuesCount)
	newTotal := s.TotalSubmissions + 1

	s.AverageScore = int(math.Round(float64(s.AverageScore*s.TotalSubmissions+currentScore) / float64(newTotal)))
	s.TotalSubmissions = newTotal
	s.TotalIssuesFound += issuesCount
	s.Rank = RankForScore(s.AverageScore)
}
