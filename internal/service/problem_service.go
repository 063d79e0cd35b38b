package service

import (
	"context"

	"github.com/google/uuid"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"
	"go.uber.org/zap"

	"github.com/codetrack/backend/internal/domain"
)

// ProblemService handles problem catalog operations
type ProblemService struct {
	problemRepo domain.ProblemRepository
	tracer      trace.Tracer
	logger      *zap.Logger
}

// NewProblemService creates a new problem service
func NewProblemService(
	problemRepo domain.ProblemRepository,
	tracer trace.Tracer,
	logger *zap.Logger,
) *ProblemService {
	return &ProblemService{
		problemRepo: problemRepo,
		tracer:      tracer,
		logger:      logger,
	}
}

// GetAllProblems retrieves the full problem catalog ordered by index
func (s *ProblemService) GetAllProblems(ctx context.Context) ([]domain.Problem, error) {
	ctx, span := s.tracer.Start(ctx, "ProblemService.GetAllProblems")
	defer span.End()

	problems, err := s.problemRepo.FindAll()
	if err != nil {
		s.logger.Error("Failed to fetch problems", zap.Error(err))
		return nil, err
	}
	span.SetAttributes(attribute.Int("problems.count", len(problems)))
	return problems, nil
}

// GetProblemByID retrieves a single problem
func (s *ProblemService) GetProblemByID(ctx context.Context, id uuid.UUID) (*domain.Problem, error) {
	ctx, span := s.tracer.Start(ctx, "ProblemService.GetProblemByID")
	defer span.End()

	span.SetAttributes(attribute.String("problem.id", id.String()))
	return s.problemRepo.FindByID(id)
}

// GetProblemsByDifficulty retrieves problems with the given difficulty label
func (s *ProblemService) GetProblemsByDifficulty(ctx context.Context, difficulty domain.Difficulty) ([]domain.Problem, error) {
	ctx, span := s.tracer.Start(ctx, "ProblemService.GetProblemsByDifficulty")
	defer span.End()

	if !difficulty.Valid() {
		return nil, domain.WrapError(domain.ErrInvalidInput, "unknown difficulty: "+string(difficulty))
	}
	span.SetAttributes(attribute.String("problem.difficulty", string(difficulty)))
	return s.problemRepo.FindByDifficulty(difficulty)
}

// GetProblemStats returns catalog counts broken down by difficulty
func (s *ProblemService) GetProblemStats(ctx context.Context) (*domain.ProblemStats, error) {
	ctx, span := s.tracer.Start(ctx, "ProblemService.GetProblemStats")
	defer span.End()

	problems, err := s.problemRepo.FindAll()
	if err != nil {
		return nil, err
	}

	stats := &domain.ProblemStats{
		Total:        len(problems),
		ByDifficulty: make(map[domain.Difficulty]int),
		ByTopic:      make(map[string]int),
	}
	for _, p := range problems {
		stats.ByDifficulty[p.Difficulty]++
		for _, topic := range p.Topics {
			stats.ByTopic[topic]++
		}
	}
	return stats, nil
}
