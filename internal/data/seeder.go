package data

import (
	_ "embed"
	"encoding/json"

	"github.com/google/uuid"
	"go.uber.org/zap"
	"gorm.io/gorm"

	"github.com/codetrack/backend/internal/domain"
)

//go:embed problems.json
var problemsData []byte

// problemJSON represents the JSON structure for seeded problems
type problemJSON struct {
	Title      string   `json:"title"`
	Slug       string   `json:"slug"`
	Difficulty string   `json:"difficulty"`
	Topics     []string `json:"topics"`
	OrderIndex int      `json:"order_index"`
}

// Seeder handles database seeding operations
type Seeder struct {
	db     *gorm.DB
	logger *zap.Logger
}

// NewSeeder creates a new database seeder
func NewSeeder(db *gorm.DB, logger *zap.Logger) *Seeder {
	return &Seeder{
		db:     db,
		logger: logger,
	}
}

// SeedProblems populates the problems table from the embedded catalog.
// It is a no-op when problems already exist.
func (s *Seeder) SeedProblems() error {
	var count int64
	if err := s.db.Model(&domain.Problem{}).Count(&count).Error; err != nil {
		return err
	}
	if count > 0 {
		s.logger.Info("Problems already seeded, skipping",
			zap.Int64("count", count),
		)
		return nil
	}

	problems, err := EmbeddedProblems()
	if err != nil {
		return err
	}

	if err := s.db.CreateInBatches(problems, 50).Error; err != nil {
		return err
	}

	s.logger.Info("Seeded problem catalog",
		zap.Int("count", len(problems)),
	)
	return nil
}

// EmbeddedProblems parses the embedded problem catalog into domain models
func EmbeddedProblems() ([]domain.Problem, error) {
	var parsed []problemJSON
	if err := json.Unmarshal(problemsData, &parsed); err != nil {
		return nil, err
	}

	problems := make([]domain.Problem, len(parsed))
	for i, p := range parsed {
		problems[i] = domain.Problem{
			ID:         uuid.New(),
			Title:      p.Title,
			Slug:       p.Slug,
			Difficulty: domain.Difficulty(p.Difficulty),
			Topics:     p.Topics,
			OrderIndex: p.OrderIndex,
		}
	}
	return problems, nil
}
