package service

import (
	"context"
	"encoding/json"
	"time"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"
	"go.uber.org/zap"

	"github.com/codetrack/backend/internal/domain"
	"github.com/codetrack/backend/internal/infrastructure"
)

// StatisticsService is the submission analytics engine. It derives a user's
// statistics record from the submission history on every call; nothing it
// computes is treated as a source of truth anywhere else.
type StatisticsService struct {
	userRepo    domain.UserRepository
	subRepo     domain.SubmissionRepository
	problemRepo domain.ProblemRepository
	cache       *redis.Client // nil when the cache is disabled
	cacheTTL    time.Duration
	metrics     *infrastructure.TelemetryMetrics
	tracer      trace.Tracer
	logger      *zap.Logger

	// now is injectable so streak boundaries can be pinned in tests
	now func() time.Time
}

// NewStatisticsService creates a new statistics service
func NewStatisticsService(
	userRepo domain.UserRepository,
	subRepo domain.SubmissionRepository,
	problemRepo domain.ProblemRepository,
	cache *redis.Client,
	cacheTTL time.Duration,
	metrics *infrastructure.TelemetryMetrics,
	tracer trace.Tracer,
	logger *zap.Logger,
) *StatisticsService {
	return &StatisticsService{
		userRepo:    userRepo,
		subRepo:     subRepo,
		problemRepo: problemRepo,
		cache:       cache,
		cacheTTL:    cacheTTL,
		metrics:     metrics,
		tracer:      tracer,
		logger:      logger,
		now:         time.Now,
	}
}

// GetUserStatistics computes the full statistics record for one user.
// A user with zero submissions is valid and yields a zero-valued record;
// a missing user is ErrUserNotFound. Any failure to read the stores aborts
// the computation rather than returning partial numbers.
func (s *StatisticsService) GetUserStatistics(ctx context.Context, userID uuid.UUID) (*domain.UserStatistics, error) {
	ctx, span := s.tracer.Start(ctx, "StatisticsService.GetUserStatistics")
	defer span.End()

	if userID == uuid.Nil {
		return nil, domain.ErrInvalidInput
	}
	span.SetAttributes(attribute.String("user.id", userID.String()))

	if _, err := s.userRepo.FindByID(userID); err != nil {
		return nil, err
	}

	if cached := s.cachedStatistics(ctx, userID); cached != nil {
		span.SetAttributes(attribute.Bool("cache.hit", true))
		return cached, nil
	}

	start := s.now()
	stats, err := s.computeStatistics(ctx, userID)
	if err != nil {
		return nil, err
	}

	if s.metrics != nil {
		s.metrics.StatisticsDuration.Record(ctx, s.now().Sub(start).Seconds())
	}

	s.storeCachedStatistics(ctx, userID, stats)
	s.writeBackStreak(userID, stats)

	return stats, nil
}

// computeStatistics performs the full derivation from the stores
func (s *StatisticsService) computeStatistics(ctx context.Context, userID uuid.UUID) (*domain.UserStatistics, error) {
	subs, err := s.subRepo.FindByUser(ctx, userID)
	if err != nil {
		return nil, err
	}

	today := s.now()
	stats := &domain.UserStatistics{
		UserID:              userID,
		TotalSubmissions:    len(subs),
		DifficultyBreakdown: map[domain.Difficulty]int{},
		ActivityGraph:       buildActivityGraph(subs, today, activityWindowDays),
	}

	accepted := 0
	for _, sub := range subs {
		if sub.Status == domain.StatusAccepted {
			accepted++
		}
	}
	if stats.TotalSubmissions > 0 {
		stats.SuccessRate = 100 * float64(accepted) / float64(stats.TotalSubmissions)
	}

	solved := solvedProblemIDs(subs)
	stats.TotalSolved = len(solved)

	breakdown, err := s.difficultyBreakdown(ctx, solved)
	if err != nil {
		return nil, err
	}
	stats.DifficultyBreakdown = breakdown

	stats.CurrentStreak, stats.MaxStreak = computeStreaks(activityDates(subs), today)

	// Users with no history are unranked; skip the system-wide scan
	if stats.TotalSubmissions > 0 {
		all, err := s.subRepo.FindAll(ctx)
		if err != nil {
			return nil, err
		}
		stats.Ranking = rankOf(aggregateByUser(all), userID)
	}

	return stats, nil
}

// difficultyBreakdown tallies solved problems per difficulty bucket.
// Problems the catalog cannot resolve, or with labels outside the known
// buckets, are excluded rather than failing the computation.
func (s *StatisticsService) difficultyBreakdown(ctx context.Context, solved []uuid.UUID) (map[domain.Difficulty]int, error) {
	breakdown := map[domain.Difficulty]int{}
	if len(solved) == 0 {
		return breakdown, nil
	}

	difficulties, err := s.problemRepo.FindDifficulties(solved)
	if err != nil {
		return nil, err
	}
	for _, d := range difficulties {
		if d.Valid() {
			breakdown[d]++
		}
	}
	return breakdown, nil
}

// GetLeaderboard returns the top slice of the global ranking. It is the
// same aggregation the per-user ranking uses, not a separately maintained
// structure.
func (s *StatisticsService) GetLeaderboard(ctx context.Context, limit int) ([]domain.LeaderboardEntry, error) {
	ctx, span := s.tracer.Start(ctx, "StatisticsService.GetLeaderboard")
	defer span.End()

	if limit <= 0 {
		limit = 10
	}
	if limit > 100 {
		limit = 100
	}
	span.SetAttributes(attribute.Int("leaderboard.limit", limit))

	all, err := s.subRepo.FindAll(ctx)
	if err != nil {
		return nil, err
	}

	aggs := aggregateByUser(all)
	if len(aggs) > limit {
		aggs = aggs[:limit]
	}

	ids := make([]uuid.UUID, len(aggs))
	for i, agg := range aggs {
		ids[i] = agg.UserID
	}
	usernames, err := s.userRepo.FindUsernames(ids)
	if err != nil {
		return nil, err
	}

	entries := make([]domain.LeaderboardEntry, len(aggs))
	for i, agg := range aggs {
		entries[i] = domain.LeaderboardEntry{
			Rank:             i + 1,
			UserID:           agg.UserID,
			Username:         usernames[agg.UserID],
			TotalSolved:      agg.TotalSolved,
			TotalSubmissions: agg.TotalSubmissions,
			SuccessRate:      agg.SuccessRate,
		}
	}
	return entries, nil
}

// cachedStatistics attempts a cache read. Any failure is a miss.
func (s *StatisticsService) cachedStatistics(ctx context.Context, userID uuid.UUID) *domain.UserStatistics {
	if s.cache == nil {
		return nil
	}

	raw, err := s.cache.Get(ctx, statsCacheKey(userID)).Result()
	if err != nil {
		if err != redis.Nil {
			s.logger.Warn("Statistics cache read failed", zap.Error(err))
		}
		return nil
	}

	var stats domain.UserStatistics
	if err := json.Unmarshal([]byte(raw), &stats); err != nil {
		return nil
	}
	return &stats
}

// storeCachedStatistics attempts a cache write. Failures are logged and ignored.
func (s *StatisticsService) storeCachedStatistics(ctx context.Context, userID uuid.UUID, stats *domain.UserStatistics) {
	if s.cache == nil {
		return
	}

	raw, err := json.Marshal(stats)
	if err != nil {
		return
	}
	if err := s.cache.Set(ctx, statsCacheKey(userID), raw, s.cacheTTL).Err(); err != nil {
		s.logger.Warn("Statistics cache write failed",
			zap.String("user_id", userID.String()),
			zap.Error(err),
		)
	}
}

// InvalidateCache drops any cached record for the user. Called after a new
// submission so the next read reflects it.
func (s *StatisticsService) InvalidateCache(ctx context.Context, userID uuid.UUID) {
	if s.cache == nil {
		return
	}
	if err := s.cache.Del(ctx, statsCacheKey(userID)).Err(); err != nil {
		s.logger.Warn("Statistics cache invalidation failed",
			zap.String("user_id", userID.String()),
			zap.Error(err),
		)
	}
}

// writeBackStreak persists the derived streak values onto the user record.
// It runs detached from the request: the write is an optimization for other
// read surfaces and its failure must never fail the statistics read.
func (s *StatisticsService) writeBackStreak(userID uuid.UUID, stats *domain.UserStatistics) {
	if stats.TotalSubmissions == 0 {
		return
	}

	lastActive := s.now()
	go func() {
		if err := s.userRepo.UpdateCachedStreak(userID, stats.CurrentStreak, stats.MaxStreak, lastActive); err != nil {
			s.logger.Warn("Streak write-back failed",
				zap.String("user_id", userID.String()),
				zap.Error(err),
			)
		}
	}()
}

func statsCacheKey(userID uuid.UUID) string {
	return "stats:" + userID.String()
}
