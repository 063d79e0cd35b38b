package repository

import (
	"errors"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/codetrack/backend/internal/domain"
)

// problemRepository implements domain.ProblemRepository using GORM
type problemRepository struct {
	db *gorm.DB
}

// NewProblemRepository creates a new problem repository
func NewProblemRepository(db *gorm.DB) domain.ProblemRepository {
	return &problemRepository{db: db}
}

// Create creates a new problem in the database
func (r *problemRepository) Create(problem *domain.Problem) error {
	return r.db.Create(problem).Error
}

// CreateBatch creates multiple problems in batches
func (r *problemRepository) CreateBatch(problems []domain.Problem) error {
	return r.db.CreateInBatches(problems, 50).Error
}

// FindByID finds a problem by its ID
func (r *problemRepository) FindByID(id uuid.UUID) (*domain.Problem, error) {
	var problem domain.Problem
	result := r.db.Where("id = ?", id).First(&problem)
	if result.Error != nil {
		if errors.Is(result.Error, gorm.ErrRecordNotFound) {
			return nil, domain.ErrProblemNotFound
		}
		return nil, result.Error
	}
	return &problem, nil
}

// FindBySlug finds a problem by its slug
func (r *problemRepository) FindBySlug(slug string) (*domain.Problem, error) {
	var problem domain.Problem
	result := r.db.Where("slug = ?", slug).First(&problem)
	if result.Error != nil {
		if errors.Is(result.Error, gorm.ErrRecordNotFound) {
			return nil, domain.ErrProblemNotFound
		}
		return nil, result.Error
	}
	return &problem, nil
}

// FindAll returns all problems ordered by order_index
func (r *problemRepository) FindAll() ([]domain.Problem, error) {
	var problems []domain.Problem
	result := r.db.Order("order_index ASC").Find(&problems)
	return problems, result.Error
}

// FindByDifficulty returns all problems with the specified difficulty
func (r *problemRepository) FindByDifficulty(difficulty domain.Difficulty) ([]domain.Problem, error) {
	var problems []domain.Problem
	result := r.db.Where("difficulty = ?", difficulty).Order("order_index ASC").Find(&problems)
	return problems, result.Error
}

// FindDifficulties resolves difficulty labels for the given problem IDs.
// Unknown IDs are left out of the result rather than reported as errors.
func (r *problemRepository) FindDifficulties(ids []uuid.UUID) (map[uuid.UUID]domain.Difficulty, error) {
	if len(ids) == 0 {
		return map[uuid.UUID]domain.Difficulty{}, nil
	}

	var problems []domain.Problem
	result := r.db.Select("id", "difficulty").Where("id IN ?", ids).Find(&problems)
	if result.Error != nil {
		return nil, result.Error
	}

	difficulties := make(map[uuid.UUID]domain.Difficulty, len(problems))
	for _, p := range problems {
		difficulties[p.ID] = p.Difficulty
	}
	return difficulties, nil
}

// Count returns the total number of problems
func (r *problemRepository) Count() (int64, error) {
	var count int64
	result := r.db.Model(&domain.Problem{}).Count(&count)
	return count, result.Error
}
