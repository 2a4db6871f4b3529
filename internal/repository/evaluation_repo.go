package repository

import (
	"context"
	"time"

	"gorm.io/datatypes"
	"gorm.io/gorm"

	"github.com/sahayak-edu/sahayak-api/internal/models"
)

// EvaluationRepository is the evaluation sink: it stores finished evaluation
// records keyed by (submission_id, assignment_id) with overwrite semantics.
type EvaluationRepository interface {
	Save(ctx context.Context, record *models.EvaluationRecord) error
	Get(ctx context.Context, submissionID, assignmentID string) (models.EvaluationRecord, error)
}

type evaluationRepository struct {
	db  *gorm.DB
	now func() time.Time
}

// NewEvaluationRepository instantiates the repository.
func NewEvaluationRepository(db *gorm.DB) EvaluationRepository {
	return &evaluationRepository{db: db, now: time.Now}
}

func (r *evaluationRepository) Save(ctx context.Context, record *models.EvaluationRecord) error {
	updates := map[string]interface{}{
		"evaluation_results": datatypes.JSONSlice[models.EvaluationResult](record.Results),
		"final_score":        record.FinalScore,
		"max_score":          record.MaxScore,
		"evaluation_status":  models.EvaluationStatusCompleted,
		"evaluated_at":       r.now(),
		"status":             models.SubmissionStatusEvaluated,
	}

	result := r.db.WithContext(ctx).Model(&models.Submission{}).
		Where("submission_id = ?", record.SubmissionID).
		Where("assignment_id = ?", record.AssignmentID).
		Updates(updates)
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}

	return nil
}

func (r *evaluationRepository) Get(ctx context.Context, submissionID, assignmentID string) (models.EvaluationRecord, error) {
	var submission models.Submission
	if err := r.db.WithContext(ctx).
		Where("submission_id = ?", submissionID).
		Where("assignment_id = ?", assignmentID).
		First(&submission).Error; err != nil {
		return models.EvaluationRecord{}, err
	}

	if !submission.IsEvaluated() {
		return models.EvaluationRecord{}, gorm.ErrRecordNotFound
	}

	record := models.EvaluationRecord{
		SubmissionID: submission.SubmissionID,
		AssignmentID: submission.AssignmentID,
		Results:      submission.EvaluationResults,
		Status:       submission.EvaluationStatus,
	}
	if submission.FinalScore != nil {
		record.FinalScore = *submission.FinalScore
	}
	if submission.MaxScore != nil {
		record.MaxScore = *submission.MaxScore
	}

	return record, nil
}
