package repository

import (
	"context"
	"time"

	"github.com/google/uuid"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"

	"github.com/codetrack/backend/internal/domain"
)

// SubmissionCollection is the name of the submissions collection
const SubmissionCollection = "submissions"

// submissionRepository implements domain.SubmissionRepository on MongoDB.
// Submissions are append-only documents; no update or delete path exists.
type submissionRepository struct {
	collection *mongo.Collection
}

// NewSubmissionRepository creates a new submission repository
func NewSubmissionRepository(db *mongo.Database) domain.SubmissionRepository {
	return &submissionRepository{
		collection: db.Collection(SubmissionCollection),
	}
}

// EnsureSubmissionIndexes creates the indexes the analytics queries rely on
func EnsureSubmissionIndexes(ctx context.Context, db *mongo.Database) error {
	_, err := db.Collection(SubmissionCollection).Indexes().CreateMany(ctx, []mongo.IndexModel{
		{Keys: bson.D{{Key: "user_id", Value: 1}}},
		{Keys: bson.D{{Key: "user_id", Value: 1}, {Key: "created_at", Value: -1}}},
	})
	return err
}

// submissionDoc is the stored shape of a submission. UUIDs are stored as
// their canonical string form to keep documents readable in the shell.
type submissionDoc struct {
	ID              string    `bson:"_id"`
	UserID          string    `bson:"user_id"`
	ProblemID       string    `bson:"problem_id"`
	Status          string    `bson:"status"`
	Language        string    `bson:"language"`
	Code            string    `bson:"code"`
	ExecutionTimeMs int64     `bson:"execution_time_ms"`
	MemoryUsedKB    int64     `bson:"memory_used_kb"`
	CreatedAt       time.Time `bson:"created_at"`
}

// Create appends a new submission document
func (r *submissionRepository) Create(ctx context.Context, submission *domain.Submission) error {
	doc := submissionDoc{
		ID:              submission.ID.String(),
		UserID:          submission.UserID.String(),
		ProblemID:       submission.ProblemID.String(),
		Status:          string(submission.Status),
		Language:        submission.Language,
		Code:            submission.Code,
		ExecutionTimeMs: submission.ExecutionTimeMs,
		MemoryUsedKB:    submission.MemoryUsedKB,
		CreatedAt:       submission.CreatedAt,
	}
	if _, err := r.collection.InsertOne(ctx, doc); err != nil {
		return domain.WrapError(domain.ErrStoreUnavailable, err.Error())
	}
	return nil
}

// FindByUser returns every submission by one user. A user with no
// submissions yields an empty slice.
func (r *submissionRepository) FindByUser(ctx context.Context, userID uuid.UUID) ([]domain.Submission, error) {
	cursor, err := r.collection.Find(ctx, bson.M{"user_id": userID.String()})
	if err != nil {
		return nil, domain.WrapError(domain.ErrStoreUnavailable, err.Error())
	}
	defer cursor.Close(ctx)

	return r.decodeAll(ctx, cursor)
}

// FindAll streams every submission in the system through the cursor.
// Callers treat the result as one sequence; memory stays bounded at the
// decoded slice, which is acceptable at the scale the ranking runs at.
func (r *submissionRepository) FindAll(ctx context.Context) ([]domain.Submission, error) {
	cursor, err := r.collection.Find(ctx, bson.M{})
	if err != nil {
		return nil, domain.WrapError(domain.ErrStoreUnavailable, err.Error())
	}
	defer cursor.Close(ctx)

	return r.decodeAll(ctx, cursor)
}

// decodeAll drains a cursor into domain submissions, skipping documents
// whose IDs fail to parse rather than failing the whole read.
func (r *submissionRepository) decodeAll(ctx context.Context, cursor *mongo.Cursor) ([]domain.Submission, error) {
	submissions := []domain.Submission{}
	for cursor.Next(ctx) {
		var doc submissionDoc
		if err := cursor.Decode(&doc); err != nil {
			return nil, domain.WrapError(domain.ErrStoreUnavailable, err.Error())
		}
		sub, err := doc.toDomain()
		if err != nil {
			continue
		}
		submissions = append(submissions, sub)
	}
	if err := cursor.Err(); err != nil {
		return nil, domain.WrapError(domain.ErrStoreUnavailable, err.Error())
	}
	return submissions, nil
}

func (d *submissionDoc) toDomain() (domain.Submission, error) {
	id, err := uuid.Parse(d.ID)
	if err != nil {
		return domain.Submission{}, err
	}
	userID, err := uuid.Parse(d.UserID)
	if err != nil {
		return domain.Submission{}, err
	}
	problemID, err := uuid.Parse(d.ProblemID)
	if err != nil {
		return domain.Submission{}, err
	}

	return domain.Submission{
		ID:              id,
		UserID:          userID,
		ProblemID:       problemID,
		Status:          domain.SubmissionStatus(d.Status),
		Language:        d.Language,
		Code:            d.Code,
		ExecutionTimeMs: d.ExecutionTimeMs,
		MemoryUsedKB:    d.MemoryUsedKB,
		CreatedAt:       d.CreatedAt,
	}, nil
}
