package service

import (
	"context"
	"time"

	"github.com/google/uuid"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/metric"
	"go.opentelemetry.io/otel/trace"
	"go.uber.org/zap"

	"github.com/codetrack/backend/internal/domain"
	"github.com/codetrack/backend/internal/infrastructure"
	"github.com/codetrack/backend/internal/judge"
)

// Judge executes submitted code against a problem's test cases
type Judge interface {
	Execute(ctx context.Context, req *judge.ExecutionRequest) (*judge.ExecutionResult, error)
}

// SubmissionService handles code submission intake and history
type SubmissionService struct {
	subRepo     domain.SubmissionRepository
	problemRepo domain.ProblemRepository
	judge       Judge
	stats       *StatisticsService
	metrics     *infrastructure.TelemetryMetrics
	tracer      trace.Tracer
	logger      *zap.Logger
	now         func() time.Time
}

// NewSubmissionService creates a new submission service
func NewSubmissionService(
	subRepo domain.SubmissionRepository,
	problemRepo domain.ProblemRepository,
	judgeClient Judge,
	stats *StatisticsService,
	metrics *infrastructure.TelemetryMetrics,
	tracer trace.Tracer,
	logger *zap.Logger,
) *SubmissionService {
	return &SubmissionService{
		subRepo:     subRepo,
		problemRepo: problemRepo,
		judge:       judgeClient,
		stats:       stats,
		metrics:     metrics,
		tracer:      tracer,
		logger:      logger,
		now:         time.Now,
	}
}

// Submit runs a user's code through the judge and records the outcome.
// The submission is persisted regardless of verdict; only judge or store
// failures surface as errors.
func (s *SubmissionService) Submit(ctx context.Context, userID uuid.UUID, req *domain.SubmitRequest) (*domain.Submission, error) {
	ctx, span := s.tracer.Start(ctx, "SubmissionService.Submit")
	defer span.End()

	span.SetAttributes(
		attribute.String("user.id", userID.String()),
		attribute.String("problem.id", req.ProblemID.String()),
		attribute.String("submission.language", req.Language),
	)

	if userID == uuid.Nil {
		return nil, domain.WrapError(domain.ErrInvalidInput, "user id is required")
	}

	problem, err := s.problemRepo.FindByID(req.ProblemID)
	if err != nil {
		return nil, err
	}

	result, err := s.judge.Execute(ctx, &judge.ExecutionRequest{
		Language:  req.Language,
		Code:      req.Code,
		ProblemID: problem.ID.String(),
	})
	if err != nil {
		s.logger.Error("Judge execution failed",
			zap.String("user_id", userID.String()),
			zap.String("problem_id", problem.ID.String()),
			zap.Error(err),
		)
		return nil, err
	}

	submission := &domain.Submission{
		ID:              uuid.New(),
		UserID:          userID,
		ProblemID:       problem.ID,
		Status:          result.Status,
		Language:        req.Language,
		Code:            req.Code,
		ExecutionTimeMs: result.ExecutionTimeMs,
		MemoryUsedKB:    result.MemoryUsedKB,
		CreatedAt:       s.now().UTC(),
	}
	if err := s.subRepo.Create(ctx, submission); err != nil {
		s.logger.Error("Failed to persist submission",
			zap.String("submission_id", submission.ID.String()),
			zap.Error(err),
		)
		return nil, err
	}

	if s.metrics != nil {
		s.metrics.SubmissionsJudged.Add(ctx, 1, metric.WithAttributes(
			attribute.String("status", string(submission.Status)),
		))
		if submission.Status == domain.StatusAccepted {
			s.metrics.ProblemsSolved.Add(ctx, 1, metric.WithAttributes(
				attribute.String("difficulty", string(problem.Difficulty)),
			))
		}
	}

	// Cached statistics are stale the moment a new submission lands.
	if s.stats != nil {
		s.stats.InvalidateCache(ctx, userID)
	}

	s.logger.Info("Submission recorded",
		zap.String("submission_id", submission.ID.String()),
		zap.String("user_id", userID.String()),
		zap.String("status", string(submission.Status)),
	)
	return submission, nil
}

// ListByUser returns a user's submission history, newest first
func (s *SubmissionService) ListByUser(ctx context.Context, userID uuid.UUID) ([]domain.Submission, error) {
	ctx, span := s.tracer.Start(ctx, "SubmissionService.ListByUser")
	defer span.End()

	if userID == uuid.Nil {
		return nil, domain.WrapError(domain.ErrInvalidInput, "user id is required")
	}
	span.SetAttributes(attribute.String("user.id", userID.String()))
	return s.subRepo.FindByUser(ctx, userID)
}
