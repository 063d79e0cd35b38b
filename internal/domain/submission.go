package domain

import (
	"context"
	"time"

	"github.com/google/uuid"
)

// SubmissionStatus is the judged outcome of a submission
type SubmissionStatus string

const (
	StatusAccepted SubmissionStatus = "ACCEPTED"
	StatusFailed   SubmissionStatus = "FAILED"
	StatusError    SubmissionStatus = "ERROR"
)

// Submission is one recorded attempt to solve one problem.
// Submissions are append-only: nothing in the service updates or
// deletes them once written.
type Submission struct {
	ID              uuid.UUID        `json:"id"`
	UserID          uuid.UUID        `json:"user_id"`
	ProblemID       uuid.UUID        `json:"problem_id"`
	Status          SubmissionStatus `json:"status"`
	Language        string           `json:"language"`
	Code            string           `json:"-"`
	ExecutionTimeMs int64            `json:"execution_time_ms"`
	MemoryUsedKB    int64            `json:"memory_used_kb"`
	CreatedAt       time.Time        `json:"created_at"`
}

// SubmissionRepository defines the interface for the submission document store.
// fetches take a context because the store is the only blocking dependency
// of the analytics engine.
type SubmissionRepository interface {
	Create(ctx context.Context, submission *Submission) error
	// FindByUser returns every submission by one user. No submissions is an
	// empty slice, not an error. Ordering is not guaranteed.
	FindByUser(ctx context.Context, userID uuid.UUID) ([]Submission, error)
	// FindAll returns every submission in the system. Used only by the
	// ranking aggregation.
	FindAll(ctx context.Context) ([]Submission, error)
}

// SubmissionResponse represents a submission in API responses
type SubmissionResponse struct {
	ID              uuid.UUID        `json:"id"`
	ProblemID       uuid.UUID        `json:"problem_id"`
	Status          SubmissionStatus `json:"status"`
	Language        string           `json:"language"`
	ExecutionTimeMs int64            `json:"execution_time_ms"`
	MemoryUsedKB    int64            `json:"memory_used_kb"`
	CreatedAt       time.Time        `json:"created_at"`
}

// ToResponse converts a Submission to a SubmissionResponse
func (s *Submission) ToResponse() SubmissionResponse {
	return SubmissionResponse{
		ID:              s.ID,
		ProblemID:       s.ProblemID,
		Status:          s.Status,
		Language:        s.Language,
		ExecutionTimeMs: s.ExecutionTimeMs,
		MemoryUsedKB:    s.MemoryUsedKB,
		CreatedAt:       s.CreatedAt,
	}
}

// SubmitRequest represents the request body for a new submission
type SubmitRequest struct {
	ProblemID uuid.UUID `json:"problem_id" binding:"required"`
	Language  string    `json:"language" binding:"required"`
	Code      string    `json:"code" binding:"required"`
}
