package service

import (
	"context"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/codetrack/backend/internal/domain"
	"github.com/codetrack/backend/internal/judge"
)

// In-memory repository fakes. Mutex-protected because the streak
// write-back touches the user repo from a detached goroutine.

type fakeUserRepo struct {
	mu            sync.Mutex
	users         map[uuid.UUID]*domain.User
	streakWrites  int
	streakErr     error
	streakWritten chan struct{}
}

func newFakeUserRepo(users ...*domain.User) *fakeUserRepo {
	repo := &fakeUserRepo{
		users:         make(map[uuid.UUID]*domain.User),
		streakWritten: make(chan struct{}, 16),
	}
	for _, u := range users {
		repo.users[u.ID] = u
	}
	return repo
}

func (r *fakeUserRepo) Create(user *domain.User) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, existing := range r.users {
		if existing.Email == user.Email {
			return domain.ErrUserAlreadyExists
		}
	}
	r.users[user.ID] = user
	return nil
}

func (r *fakeUserRepo) FindByID(id uuid.UUID) (*domain.User, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	user, ok := r.users[id]
	if !ok {
		return nil, domain.ErrUserNotFound
	}
	copied := *user
	return &copied, nil
}

func (r *fakeUserRepo) FindByEmail(email string) (*domain.User, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, user := range r.users {
		if user.Email == email {
			copied := *user
			return &copied, nil
		}
	}
	return nil, domain.ErrUserNotFound
}

func (r *fakeUserRepo) FindUsernames(ids []uuid.UUID) (map[uuid.UUID]string, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	names := make(map[uuid.UUID]string, len(ids))
	for _, id := range ids {
		if user, ok := r.users[id]; ok {
			names[id] = user.Username
		}
	}
	return names, nil
}

func (r *fakeUserRepo) Update(user *domain.User) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.users[user.ID]; !ok {
		return domain.ErrUserNotFound
	}
	r.users[user.ID] = user
	return nil
}

func (r *fakeUserRepo) UpdateCachedStreak(id uuid.UUID, currentStreak, maxStreak int, lastActive time.Time) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.streakErr != nil {
		return r.streakErr
	}
	user, ok := r.users[id]
	if !ok {
		return domain.ErrUserNotFound
	}
	user.CurrentStreak = currentStreak
	user.MaxStreak = maxStreak
	user.LastActiveAt = &lastActive
	r.streakWrites++
	select {
	case r.streakWritten <- struct{}{}:
	default:
	}
	return nil
}

func (r *fakeUserRepo) waitForStreakWrite(timeout time.Duration) bool {
	select {
	case <-r.streakWritten:
		return true
	case <-time.After(timeout):
		return false
	}
}

type fakeSubmissionRepo struct {
	mu          sync.Mutex
	subs        []domain.Submission
	findUserErr error
	findAllErr  error
}

func newFakeSubmissionRepo(subs ...domain.Submission) *fakeSubmissionRepo {
	return &fakeSubmissionRepo{subs: subs}
}

func (r *fakeSubmissionRepo) Create(ctx context.Context, submission *domain.Submission) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.subs = append(r.subs, *submission)
	return nil
}

func (r *fakeSubmissionRepo) FindByUser(ctx context.Context, userID uuid.UUID) ([]domain.Submission, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.findUserErr != nil {
		return nil, r.findUserErr
	}
	var out []domain.Submission
	for _, s := range r.subs {
		if s.UserID == userID {
			out = append(out, s)
		}
	}
	return out, nil
}

func (r *fakeSubmissionRepo) FindAll(ctx context.Context) ([]domain.Submission, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.findAllErr != nil {
		return nil, r.findAllErr
	}
	out := make([]domain.Submission, len(r.subs))
	copy(out, r.subs)
	return out, nil
}

type fakeProblemRepo struct {
	mu       sync.Mutex
	problems map[uuid.UUID]domain.Problem
}

func newFakeProblemRepo(problems ...domain.Problem) *fakeProblemRepo {
	repo := &fakeProblemRepo{problems: make(map[uuid.UUID]domain.Problem)}
	for _, p := range problems {
		repo.problems[p.ID] = p
	}
	return repo
}

func (r *fakeProblemRepo) Create(problem *domain.Problem) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.problems[problem.ID] = *problem
	return nil
}

func (r *fakeProblemRepo) CreateBatch(problems []domain.Problem) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, p := range problems {
		r.problems[p.ID] = p
	}
	return nil
}

func (r *fakeProblemRepo) FindByID(id uuid.UUID) (*domain.Problem, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	problem, ok := r.problems[id]
	if !ok {
		return nil, domain.ErrProblemNotFound
	}
	return &problem, nil
}

func (r *fakeProblemRepo) FindBySlug(slug string) (*domain.Problem, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, p := range r.problems {
		if p.Slug == slug {
			problem := p
			return &problem, nil
		}
	}
	return nil, domain.ErrProblemNotFound
}

func (r *fakeProblemRepo) FindAll() ([]domain.Problem, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := make([]domain.Problem, 0, len(r.problems))
	for _, p := range r.problems {
		out = append(out, p)
	}
	return out, nil
}

func (r *fakeProblemRepo) FindByDifficulty(difficulty domain.Difficulty) ([]domain.Problem, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var out []domain.Problem
	for _, p := range r.problems {
		if p.Difficulty == difficulty {
			out = append(out, p)
		}
	}
	return out, nil
}

func (r *fakeProblemRepo) FindDifficulties(ids []uuid.UUID) (map[uuid.UUID]domain.Difficulty, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := make(map[uuid.UUID]domain.Difficulty, len(ids))
	for _, id := range ids {
		if p, ok := r.problems[id]; ok {
			out[id] = p.Difficulty
		}
	}
	return out, nil
}

func (r *fakeProblemRepo) Count() (int64, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	return int64(len(r.problems)), nil
}

type fakeJudge struct {
	mu     sync.Mutex
	result *judge.ExecutionResult
	err    error
	calls  []judge.ExecutionRequest
}

func (j *fakeJudge) Execute(ctx context.Context, req *judge.ExecutionRequest) (*judge.ExecutionResult, error) {
	j.mu.Lock()
	defer j.mu.Unlock()
	j.calls = append(j.calls, *req)
	if j.err != nil {
		return nil, j.err
	}
	return j.result, nil
}
