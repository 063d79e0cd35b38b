package domain

import (
	"github.com/google/uuid"
	"github.com/lib/pq"
)

// Difficulty represents the difficulty level of a problem
type Difficulty string

const (
	DifficultyEasy   Difficulty = "easy"
	DifficultyMedium Difficulty = "medium"
	DifficultyHard   Difficulty = "hard"
)

// Valid reports whether d is one of the known difficulty labels
func (d Difficulty) Valid() bool {
	switch d {
	case DifficultyEasy, DifficultyMedium, DifficultyHard:
		return true
	}
	return false
}

// Weight returns a numeric weight for sorting by difficulty
func (d Difficulty) Weight() int {
	switch d {
	case DifficultyEasy:
		return 1
	case DifficultyMedium:
		return 2
	case DifficultyHard:
		return 3
	default:
		return 0
	}
}

// Problem represents a coding problem in the catalog
type Problem struct {
	ID         uuid.UUID      `json:"id" gorm:"type:uuid;primary_key;default:gen_random_uuid()"`
	Title      string         `json:"title" gorm:"not null"`
	Slug       string         `json:"slug" gorm:"uniqueIndex;not null"`
	Difficulty Difficulty     `json:"difficulty" gorm:"type:varchar(10);not null"`
	Topics     pq.StringArray `json:"topics" gorm:"type:text[]"`
	OrderIndex int            `json:"order_index" gorm:"not null"`
}

// TableName specifies the table name for GORM
func (Problem) TableName() string {
	return "problems"
}

// ProblemRepository defines the interface for problem catalog access
type ProblemRepository interface {
	Create(problem *Problem) error
	CreateBatch(problems []Problem) error
	FindByID(id uuid.UUID) (*Problem, error)
	FindBySlug(slug string) (*Problem, error)
	FindAll() ([]Problem, error)
	FindByDifficulty(difficulty Difficulty) ([]Problem, error)
	// FindDifficulties resolves difficulty labels for the given problem IDs.
	// IDs that do not resolve are simply absent from the result.
	FindDifficulties(ids []uuid.UUID) (map[uuid.UUID]Difficulty, error)
	Count() (int64, error)
}

// ProblemResponse represents a problem in API responses
type ProblemResponse struct {
	ID         uuid.UUID  `json:"id"`
	Title      string     `json:"title"`
	Slug       string     `json:"slug"`
	Difficulty Difficulty `json:"difficulty"`
	Topics     []string   `json:"topics"`
}

// ToResponse converts a Problem to a ProblemResponse
func (p *Problem) ToResponse() ProblemResponse {
	return ProblemResponse{
		ID:         p.ID,
		Title:      p.Title,
		Slug:       p.Slug,
		Difficulty: p.Difficulty,
		Topics:     p.Topics,
	}
}

// ProblemStats represents statistics about the problem set
type ProblemStats struct {
	Total        int                `json:"total"`
	ByDifficulty map[Difficulty]int `json:"by_difficulty"`
	ByTopic      map[string]int     `json:"by_topic"`
}
