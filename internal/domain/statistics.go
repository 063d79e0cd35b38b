package domain

import "github.com/google/uuid"

// ActivityDay is one day of the trailing activity window
type ActivityDay struct {
	Date  string `json:"date"` // YYYY-MM-DD, UTC calendar day
	Count int    `json:"count"`
}

// UserStatistics is the derived analytics record for one user.
// It is recomputed from the submission history on every request and
// never stored as a source of truth.
type UserStatistics struct {
	UserID              uuid.UUID          `json:"user_id"`
	TotalSolved         int                `json:"total_solved"`
	TotalSubmissions    int                `json:"total_submissions"`
	SuccessRate         float64            `json:"success_rate"`
	DifficultyBreakdown map[Difficulty]int `json:"difficulty_breakdown"`
	ActivityGraph       []ActivityDay      `json:"activity_graph"`
	// Ranking is the 1-based position among all users with submissions,
	// ordered by solved count then success rate. 0 means unranked.
	Ranking       int `json:"ranking"`
	CurrentStreak int `json:"current_streak"`
	MaxStreak     int `json:"max_streak"`
}

// LeaderboardEntry is one row of the global leaderboard
type LeaderboardEntry struct {
	Rank             int       `json:"rank"`
	UserID           uuid.UUID `json:"user_id"`
	Username         string    `json:"username"`
	TotalSolved      int       `json:"total_solved"`
	TotalSubmissions int       `json:"total_submissions"`
	SuccessRate      float64   `json:"success_rate"`
}
