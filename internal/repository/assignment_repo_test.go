package repository

import (
	"context"
	"testing"

	"github.com/stretchr/testify/require"
	"gorm.io/gorm"

	"github.com/sahayak-edu/sahayak-api/internal/models"
)

func TestAssignmentRepositoryGetByID(t *testing.T) {
	db := setupTestDB(t)
	repo := NewAssignmentRepository(db)

	require.NoError(t, db.Create(&models.Assignment{
		AssignmentID:    "asg-repo",
		TeacherID:       "teacher-1",
		Subject:         "Science",
		AnswerKeyStatus: models.AnswerKeyStatusPending,
		Questions: []models.Question{
			{QuestionNumber: "1", QuestionText: "Define photosynthesis", QuestionType: models.QuestionTypeDefinition, SuggestedAnswer: "plants convert light into energy", MaxScore: 5},
		},
	}).Error)

	assignment, err := repo.GetByID(context.Background(), "asg-repo")
	require.NoError(t, err)
	require.Equal(t, "Science", assignment.Subject)
	require.Len(t, assignment.Questions, 1)

	question, ok := assignment.QuestionByNumber("1")
	require.True(t, ok)
	require.Equal(t, "plants convert light into energy", question.ReferenceAnswer())

	_, err = repo.GetByID(context.Background(), "missing")
	require.ErrorIs(t, err, gorm.ErrRecordNotFound)
}

func TestAssignmentRepositoryUpdatePersistsApprovedAnswers(t *testing.T) {
	db := setupTestDB(t)
	repo := NewAssignmentRepository(db)

	assignment := models.Assignment{
		AssignmentID:    "asg-approve",
		TeacherID:       "teacher-1",
		AnswerKeyStatus: models.AnswerKeyStatusPending,
		Questions: []models.Question{
			{QuestionNumber: "1", SuggestedAnswer: "draft", MaxScore: 5},
		},
	}
	require.NoError(t, db.Create(&assignment).Error)

	assignment.Questions[0].ApprovedAnswer = "final"
	assignment.AnswerKeyStatus = models.AnswerKeyStatusApproved
	require.NoError(t, repo.Update(context.Background(), &assignment))

	loaded, err := repo.GetByID(context.Background(), "asg-approve")
	require.NoError(t, err)
	require.Equal(t, models.AnswerKeyStatusApproved, loaded.AnswerKeyStatus)
	require.Equal(t, "final", loaded.Questions[0].ReferenceAnswer())
}
