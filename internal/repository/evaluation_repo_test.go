package repository

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"

	"github.com/sahayak-edu/sahayak-api/internal/models"
)

func setupTestDB(t *testing.T) *gorm.DB {
	t.Helper()
	db, err := gorm.Open(sqlite.Open("file::memory:?cache=shared"), &gorm.Config{})
	require.NoError(t, err)
	require.NoError(t, db.AutoMigrate(&models.Assignment{}, &models.Submission{}))
	return db
}

func seedSubmission(t *testing.T, db *gorm.DB, submissionID, assignmentID string) {
	t.Helper()
	require.NoError(t, db.Create(&models.Submission{
		SubmissionID:     submissionID,
		AssignmentID:     assignmentID,
		StudentID:        "student@example.com",
		SubmissionType:   models.SubmissionTypeGoogleForms,
		Status:           models.SubmissionStatusSubmitted,
		EvaluationStatus: models.EvaluationStatusPending,
	}).Error)
}

func TestEvaluationRepositorySaveAndGet(t *testing.T) {
	db := setupTestDB(t)
	seedSubmission(t, db, "sub-save", "asg-save")

	fixed := time.Date(2026, 8, 1, 10, 0, 0, 0, time.UTC)
	repo := &evaluationRepository{db: db, now: func() time.Time { return fixed }}

	record := models.EvaluationRecord{
		SubmissionID: "sub-save",
		AssignmentID: "asg-save",
		FinalScore:   7.5,
		MaxScore:     10,
		Status:       models.EvaluationStatusCompleted,
		Results: []models.EvaluationResult{
			{QuestionNumber: "1", Score: 7.5, MaxScore: 10, Status: models.ResultStatusPartial, Feedback: "Close"},
		},
	}
	require.NoError(t, repo.Save(context.Background(), &record))

	var stored models.Submission
	require.NoError(t, db.Where("submission_id = ?", "sub-save").First(&stored).Error)
	require.Equal(t, models.SubmissionStatusEvaluated, stored.Status)
	require.Equal(t, models.EvaluationStatusCompleted, stored.EvaluationStatus)
	require.NotNil(t, stored.FinalScore)
	require.Equal(t, 7.5, *stored.FinalScore)
	require.NotNil(t, stored.EvaluatedAt)

	loaded, err := repo.Get(context.Background(), "sub-save", "asg-save")
	require.NoError(t, err)
	require.Equal(t, 7.5, loaded.FinalScore)
	require.Equal(t, 10.0, loaded.MaxScore)
	require.Equal(t, models.EvaluationStatusCompleted, loaded.Status)
	require.Len(t, loaded.Results, 1)
	require.Equal(t, "Close", loaded.Results[0].Feedback)
}

func TestEvaluationRepositorySaveOverwritesPriorRun(t *testing.T) {
	db := setupTestDB(t)
	seedSubmission(t, db, "sub-rerun", "asg-rerun")
	repo := NewEvaluationRepository(db)

	first := models.EvaluationRecord{
		SubmissionID: "sub-rerun",
		AssignmentID: "asg-rerun",
		FinalScore:   4,
		MaxScore:     10,
		Results:      []models.EvaluationResult{{QuestionNumber: "1", Score: 4, MaxScore: 10, Status: models.ResultStatusPartial}},
	}
	require.NoError(t, repo.Save(context.Background(), &first))

	second := first
	second.FinalScore = 9
	second.Results = []models.EvaluationResult{{QuestionNumber: "1", Score: 9, MaxScore: 10, Status: models.ResultStatusCorrect}}
	require.NoError(t, repo.Save(context.Background(), &second))

	loaded, err := repo.Get(context.Background(), "sub-rerun", "asg-rerun")
	require.NoError(t, err)
	require.Equal(t, 9.0, loaded.FinalScore)
	require.Len(t, loaded.Results, 1)
	require.Equal(t, models.ResultStatusCorrect, loaded.Results[0].Status)
}

func TestEvaluationRepositorySaveUnknownSubmission(t *testing.T) {
	db := setupTestDB(t)
	repo := NewEvaluationRepository(db)

	err := repo.Save(context.Background(), &models.EvaluationRecord{SubmissionID: "ghost", AssignmentID: "asg-x"})
	require.ErrorIs(t, err, gorm.ErrRecordNotFound)
}

func TestEvaluationRepositoryGetUnevaluatedSubmission(t *testing.T) {
	db := setupTestDB(t)
	seedSubmission(t, db, "sub-pending", "asg-pending")
	repo := NewEvaluationRepository(db)

	_, err := repo.Get(context.Background(), "sub-pending", "asg-pending")
	require.ErrorIs(t, err, gorm.ErrRecordNotFound)
}
