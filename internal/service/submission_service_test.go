package service

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.opentelemetry.io/otel/trace/noop"
	"go.uber.org/zap"

	"github.com/codetrack/backend/internal/domain"
	"github.com/codetrack/backend/internal/judge"
)

func newSubmissionService(subs *fakeSubmissionRepo, problems *fakeProblemRepo, j *fakeJudge) *SubmissionService {
	return NewSubmissionService(
		subs, problems, j, nil, nil,
		noop.NewTracerProvider().Tracer("test"),
		zap.NewNop(),
	)
}

func TestSubmitAccepted(t *testing.T) {
	problem := domain.Problem{ID: uuid.New(), Slug: "two-sum", Difficulty: domain.DifficultyEasy}
	problems := newFakeProblemRepo(problem)
	subs := newFakeSubmissionRepo()
	j := &fakeJudge{result: &judge.ExecutionResult{
		Status:          domain.StatusAccepted,
		ExecutionTimeMs: 42,
		MemoryUsedKB:    2048,
	}}

	svc := newSubmissionService(subs, problems, j)
	userID := uuid.New()

	submission, err := svc.Submit(context.Background(), userID, &domain.SubmitRequest{
		ProblemID: problem.ID,
		Language:  "go",
		Code:      "package main",
	})
	require.NoError(t, err)

	assert.NotEqual(t, uuid.Nil, submission.ID)
	assert.Equal(t, userID, submission.UserID)
	assert.Equal(t, problem.ID, submission.ProblemID)
	assert.Equal(t, domain.StatusAccepted, submission.Status)
	assert.Equal(t, int64(42), submission.ExecutionTimeMs)
	assert.False(t, submission.CreatedAt.IsZero())
	assert.Equal(t, time.UTC, submission.CreatedAt.Location(), "Timestamps are recorded in UTC")

	require.Len(t, j.calls, 1)
	assert.Equal(t, problem.ID.String(), j.calls[0].ProblemID)

	stored, err := subs.FindByUser(context.Background(), userID)
	require.NoError(t, err)
	require.Len(t, stored, 1, "Submission is persisted")
}

func TestSubmitFailedVerdictIsStillRecorded(t *testing.T) {
	problem := domain.Problem{ID: uuid.New(), Slug: "3sum", Difficulty: domain.DifficultyMedium}
	subs := newFakeSubmissionRepo()
	j := &fakeJudge{result: &judge.ExecutionResult{Status: domain.StatusFailed}}

	svc := newSubmissionService(subs, newFakeProblemRepo(problem), j)

	submission, err := svc.Submit(context.Background(), uuid.New(), &domain.SubmitRequest{
		ProblemID: problem.ID,
		Language:  "python",
		Code:      "print(1)",
	})
	require.NoError(t, err, "A rejected verdict is a normal outcome")
	assert.Equal(t, domain.StatusFailed, submission.Status)

	all, err := subs.FindAll(context.Background())
	require.NoError(t, err)
	assert.Len(t, all, 1, "Failed attempts are part of the history")
}

func TestSubmitUnknownProblem(t *testing.T) {
	svc := newSubmissionService(newFakeSubmissionRepo(), newFakeProblemRepo(), &fakeJudge{})

	_, err := svc.Submit(context.Background(), uuid.New(), &domain.SubmitRequest{
		ProblemID: uuid.New(),
		Language:  "go",
		Code:      "package main",
	})
	assert.ErrorIs(t, err, domain.ErrProblemNotFound)
}

func TestSubmitJudgeUnavailable(t *testing.T) {
	problem := domain.Problem{ID: uuid.New(), Difficulty: domain.DifficultyEasy}
	subs := newFakeSubmissionRepo()
	j := &fakeJudge{err: domain.WrapError(domain.ErrJudgeUnavailable, "connection refused")}

	svc := newSubmissionService(subs, newFakeProblemRepo(problem), j)

	_, err := svc.Submit(context.Background(), uuid.New(), &domain.SubmitRequest{
		ProblemID: problem.ID,
		Language:  "go",
		Code:      "package main",
	})
	assert.ErrorIs(t, err, domain.ErrJudgeUnavailable)

	all, findErr := subs.FindAll(context.Background())
	require.NoError(t, findErr)
	assert.Empty(t, all, "Nothing is recorded when the judge never ran")
}

func TestSubmitRequiresUser(t *testing.T) {
	svc := newSubmissionService(newFakeSubmissionRepo(), newFakeProblemRepo(), &fakeJudge{})

	_, err := svc.Submit(context.Background(), uuid.Nil, &domain.SubmitRequest{
		ProblemID: uuid.New(),
		Language:  "go",
		Code:      "package main",
	})
	assert.ErrorIs(t, err, domain.ErrInvalidInput)
}

func TestListByUser(t *testing.T) {
	userID := uuid.New()
	other := uuid.New()
	subs := newFakeSubmissionRepo(
		submissionOn(t, userID, uuid.New(), domain.StatusAccepted, "2025-03-01"),
		submissionOn(t, other, uuid.New(), domain.StatusAccepted, "2025-03-01"),
	)
	svc := newSubmissionService(subs, newFakeProblemRepo(), &fakeJudge{})

	mine, err := svc.ListByUser(context.Background(), userID)
	require.NoError(t, err)
	require.Len(t, mine, 1, "History is scoped to one user")
	assert.Equal(t, userID, mine[0].UserID)

	_, err = svc.ListByUser(context.Background(), uuid.Nil)
	assert.ErrorIs(t, err, domain.ErrInvalidInput)
}
