package repository

import (
	"context"

	"gorm.io/gorm"

	"github.com/sahayak-edu/sahayak-api/internal/models"
)

// SubmissionRepository defines read operations over student submissions.
// Submission creation is owned by the intake collaborators (forms webhook,
// upload pipeline) and is out of scope here.
type SubmissionRepository interface {
	Get(ctx context.Context, submissionID, assignmentID string) (models.Submission, error)
	ListPending(ctx context.Context, assignmentID string) ([]models.Submission, error)
}

type submissionRepository struct {
	db *gorm.DB
}

// NewSubmissionRepository instantiates the repository.
func NewSubmissionRepository(db *gorm.DB) SubmissionRepository {
	return &submissionRepository{db: db}
}

func (r *submissionRepository) Get(ctx context.Context, submissionID, assignmentID string) (models.Submission, error) {
	var submission models.Submission
	if err := r.db.WithContext(ctx).
		Where("submission_id = ?", submissionID).
		Where("assignment_id = ?", assignmentID).
		First(&submission).Error; err != nil {
		return models.Submission{}, err
	}

	return submission, nil
}

func (r *submissionRepository) ListPending(ctx context.Context, assignmentID string) ([]models.Submission, error) {
	var submissions []models.Submission
	if err := r.db.WithContext(ctx).
		Where("assignment_id = ?", assignmentID).
		Where("evaluation_status = ?", models.EvaluationStatusPending).
		Order("created_at ASC").
		Find(&submissions).Error; err != nil {
		return nil, err
	}

	return submissions, nil
}
