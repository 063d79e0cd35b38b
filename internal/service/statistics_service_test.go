package service

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.opentelemetry.io/otel/trace/noop"
	"go.uber.org/zap"

	"github.com/codetrack/backend/internal/domain"
)

func newStatsService(t *testing.T, users *fakeUserRepo, subs *fakeSubmissionRepo, problems *fakeProblemRepo, today string) *StatisticsService {
	t.Helper()
	svc := NewStatisticsService(
		users, subs, problems,
		nil, 0,
		nil,
		noop.NewTracerProvider().Tracer("test"),
		zap.NewNop(),
	)
	svc.now = func() time.Time { return day(t, today) }
	return svc
}

func testUser(username string) *domain.User {
	return &domain.User{
		ID:       uuid.New(),
		Email:    username + "@example.com",
		Username: username,
	}
}

func TestGetUserStatisticsZeroSubmissions(t *testing.T) {
	user := testUser("newcomer")
	users := newFakeUserRepo(user)
	svc := newStatsService(t, users, newFakeSubmissionRepo(), newFakeProblemRepo(), "2025-03-07")

	stats, err := svc.GetUserStatistics(context.Background(), user.ID)
	require.NoError(t, err, "Zero submissions is a valid state, not an error")

	assert.Equal(t, user.ID, stats.UserID)
	assert.Equal(t, 0, stats.TotalSolved)
	assert.Equal(t, 0, stats.TotalSubmissions)
	assert.Equal(t, 0.0, stats.SuccessRate)
	assert.Equal(t, 0, stats.Ranking, "User without history is unranked")
	assert.Equal(t, 0, stats.CurrentStreak)
	assert.Equal(t, 0, stats.MaxStreak)
	assert.Empty(t, stats.DifficultyBreakdown)
	require.Len(t, stats.ActivityGraph, activityWindowDays, "Graph spans the window even with no activity")
	for _, entry := range stats.ActivityGraph {
		assert.Equal(t, 0, entry.Count)
	}

	assert.False(t, users.waitForStreakWrite(50*time.Millisecond),
		"No write-back should happen for a user with no history")
}

func TestGetUserStatisticsUnknownUser(t *testing.T) {
	svc := newStatsService(t, newFakeUserRepo(), newFakeSubmissionRepo(), newFakeProblemRepo(), "2025-03-07")

	_, err := svc.GetUserStatistics(context.Background(), uuid.New())
	assert.ErrorIs(t, err, domain.ErrUserNotFound)

	_, err = svc.GetUserStatistics(context.Background(), uuid.Nil)
	assert.ErrorIs(t, err, domain.ErrInvalidInput)
}

func TestGetUserStatisticsFullDerivation(t *testing.T) {
	user := testUser("grinder")
	rival := testUser("rival")
	users := newFakeUserRepo(user, rival)

	easy := domain.Problem{ID: uuid.New(), Slug: "two-sum", Difficulty: domain.DifficultyEasy}
	medium := domain.Problem{ID: uuid.New(), Slug: "3sum", Difficulty: domain.DifficultyMedium}
	hard := domain.Problem{ID: uuid.New(), Slug: "word-ladder", Difficulty: domain.DifficultyHard}
	problems := newFakeProblemRepo(easy, medium, hard)

	subs := newFakeSubmissionRepo(
		// Three-day run ending today, one repeat accept, one failure
		submissionOn(t, user.ID, easy.ID, domain.StatusAccepted, "2025-03-05"),
		submissionOn(t, user.ID, easy.ID, domain.StatusAccepted, "2025-03-06"),
		submissionOn(t, user.ID, medium.ID, domain.StatusAccepted, "2025-03-06"),
		submissionOn(t, user.ID, hard.ID, domain.StatusFailed, "2025-03-07"),
		submissionOn(t, user.ID, hard.ID, domain.StatusAccepted, "2025-03-07"),
		// Rival has more solved problems
		submissionOn(t, rival.ID, easy.ID, domain.StatusAccepted, "2025-03-01"),
		submissionOn(t, rival.ID, medium.ID, domain.StatusAccepted, "2025-03-01"),
		submissionOn(t, rival.ID, hard.ID, domain.StatusAccepted, "2025-03-01"),
	)

	svc := newStatsService(t, users, subs, problems, "2025-03-07")
	stats, err := svc.GetUserStatistics(context.Background(), user.ID)
	require.NoError(t, err)

	assert.Equal(t, 3, stats.TotalSolved, "Repeat accepts count one solved problem")
	assert.Equal(t, 5, stats.TotalSubmissions)
	assert.InDelta(t, 80.0, stats.SuccessRate, 0.01, "4 of 5 submissions accepted")

	assert.Equal(t, map[domain.Difficulty]int{
		domain.DifficultyEasy:   1,
		domain.DifficultyMedium: 1,
		domain.DifficultyHard:   1,
	}, stats.DifficultyBreakdown)

	assert.Equal(t, 3, stats.CurrentStreak)
	assert.Equal(t, 3, stats.MaxStreak)
	assert.GreaterOrEqual(t, stats.MaxStreak, stats.CurrentStreak)

	// Rival solved 3 with 100% success, user solved 3 at 80%
	assert.Equal(t, 2, stats.Ranking)

	require.True(t, users.waitForStreakWrite(time.Second), "Streak write-back should run")
	updated, err := users.FindByID(user.ID)
	require.NoError(t, err)
	assert.Equal(t, 3, updated.CurrentStreak)
	assert.Equal(t, 3, updated.MaxStreak)
	require.NotNil(t, updated.LastActiveAt)
}

func TestGetUserStatisticsIsIdempotent(t *testing.T) {
	user := testUser("steady")
	problem := domain.Problem{ID: uuid.New(), Slug: "two-sum", Difficulty: domain.DifficultyEasy}
	subs := newFakeSubmissionRepo(
		submissionOn(t, user.ID, problem.ID, domain.StatusAccepted, "2025-03-06"),
		submissionOn(t, user.ID, problem.ID, domain.StatusFailed, "2025-03-07"),
	)
	svc := newStatsService(t, newFakeUserRepo(user), subs, newFakeProblemRepo(problem), "2025-03-07")

	first, err := svc.GetUserStatistics(context.Background(), user.ID)
	require.NoError(t, err)
	second, err := svc.GetUserStatistics(context.Background(), user.ID)
	require.NoError(t, err)

	assert.Equal(t, first, second, "Same stores and same day must yield identical statistics")
}

func TestGetUserStatisticsUnknownProblemsExcluded(t *testing.T) {
	user := testUser("orphaned")
	known := domain.Problem{ID: uuid.New(), Slug: "two-sum", Difficulty: domain.DifficultyEasy}
	// Second accepted submission references a problem missing from the catalog
	subs := newFakeSubmissionRepo(
		submissionOn(t, user.ID, known.ID, domain.StatusAccepted, "2025-03-07"),
		submissionOn(t, user.ID, uuid.New(), domain.StatusAccepted, "2025-03-07"),
	)
	svc := newStatsService(t, newFakeUserRepo(user), subs, newFakeProblemRepo(known), "2025-03-07")

	stats, err := svc.GetUserStatistics(context.Background(), user.ID)
	require.NoError(t, err, "Unresolvable problems degrade the breakdown, not the read")

	assert.Equal(t, 2, stats.TotalSolved, "Solved count does not depend on the catalog")
	assert.Equal(t, map[domain.Difficulty]int{domain.DifficultyEasy: 1}, stats.DifficultyBreakdown,
		"Only resolvable problems appear in the breakdown")
}

func TestGetUserStatisticsInvalidDifficultyIgnored(t *testing.T) {
	user := testUser("pioneer")
	known := domain.Problem{ID: uuid.New(), Slug: "two-sum", Difficulty: domain.DifficultyEasy}
	// Catalog row with a label outside the known buckets
	odd := domain.Problem{ID: uuid.New(), Slug: "mystery", Difficulty: domain.Difficulty("insane")}
	subs := newFakeSubmissionRepo(
		submissionOn(t, user.ID, known.ID, domain.StatusAccepted, "2025-03-07"),
		submissionOn(t, user.ID, odd.ID, domain.StatusAccepted, "2025-03-07"),
	)
	svc := newStatsService(t, newFakeUserRepo(user), subs, newFakeProblemRepo(known, odd), "2025-03-07")

	stats, err := svc.GetUserStatistics(context.Background(), user.ID)
	require.NoError(t, err)

	assert.Equal(t, 2, stats.TotalSolved)
	assert.Equal(t, map[domain.Difficulty]int{domain.DifficultyEasy: 1}, stats.DifficultyBreakdown,
		"Labels outside the known buckets are dropped, so the breakdown sum can trail solved count")
}

func TestGetUserStatisticsStoreFailure(t *testing.T) {
	user := testUser("unlucky")
	subs := newFakeSubmissionRepo()
	subs.findUserErr = domain.WrapError(domain.ErrStoreUnavailable, "connection reset")
	svc := newStatsService(t, newFakeUserRepo(user), subs, newFakeProblemRepo(), "2025-03-07")

	_, err := svc.GetUserStatistics(context.Background(), user.ID)
	assert.ErrorIs(t, err, domain.ErrStoreUnavailable, "Store failures propagate instead of returning partial data")
}

func TestGetUserStatisticsRankingScanFailure(t *testing.T) {
	user := testUser("ranked")
	problem := domain.Problem{ID: uuid.New(), Difficulty: domain.DifficultyEasy}
	subs := newFakeSubmissionRepo(
		submissionOn(t, user.ID, problem.ID, domain.StatusAccepted, "2025-03-07"),
	)
	subs.findAllErr = errors.New("cursor timeout")
	svc := newStatsService(t, newFakeUserRepo(user), subs, newFakeProblemRepo(problem), "2025-03-07")

	_, err := svc.GetUserStatistics(context.Background(), user.ID)
	assert.Error(t, err, "A failed ranking scan fails the whole read")
}

func TestGetLeaderboard(t *testing.T) {
	alpha := testUser("alpha")
	beta := testUser("beta")
	users := newFakeUserRepo(alpha, beta)

	p1 := uuid.New()
	p2 := uuid.New()
	subs := newFakeSubmissionRepo(
		submissionOn(t, alpha.ID, p1, domain.StatusAccepted, "2025-03-01"),
		submissionOn(t, alpha.ID, p2, domain.StatusAccepted, "2025-03-02"),
		submissionOn(t, beta.ID, p1, domain.StatusAccepted, "2025-03-01"),
		submissionOn(t, beta.ID, p2, domain.StatusFailed, "2025-03-02"),
	)
	svc := newStatsService(t, users, subs, newFakeProblemRepo(), "2025-03-07")

	entries, err := svc.GetLeaderboard(context.Background(), 10)
	require.NoError(t, err)
	require.Len(t, entries, 2)

	assert.Equal(t, 1, entries[0].Rank)
	assert.Equal(t, alpha.ID, entries[0].UserID)
	assert.Equal(t, "alpha", entries[0].Username)
	assert.Equal(t, 2, entries[0].TotalSolved)

	assert.Equal(t, 2, entries[1].Rank)
	assert.Equal(t, beta.ID, entries[1].UserID)
	assert.InDelta(t, 50.0, entries[1].SuccessRate, 0.01)
}

func TestGetLeaderboardLimit(t *testing.T) {
	users := newFakeUserRepo()
	subs := newFakeSubmissionRepo()
	problemID := uuid.New()
	for i := 0; i < 5; i++ {
		u := testUser("player")
		require.NoError(t, users.Create(&domain.User{ID: u.ID, Email: u.ID.String() + "@example.com", Username: u.Username}))
		require.NoError(t, subs.Create(context.Background(),
			&domain.Submission{ID: uuid.New(), UserID: u.ID, ProblemID: problemID, Status: domain.StatusAccepted, CreatedAt: day(t, "2025-03-01")}))
	}
	svc := newStatsService(t, users, subs, newFakeProblemRepo(), "2025-03-07")

	entries, err := svc.GetLeaderboard(context.Background(), 3)
	require.NoError(t, err)
	assert.Len(t, entries, 3, "Limit truncates the ranking")

	entries, err = svc.GetLeaderboard(context.Background(), 0)
	require.NoError(t, err)
	assert.Len(t, entries, 5, "Zero limit falls back to the default")
}
