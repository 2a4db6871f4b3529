package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/rs/zerolog"
	"gorm.io/gorm"

	"github.com/sahayak-edu/sahayak-api/internal/dto"
	"github.com/sahayak-edu/sahayak-api/internal/models"
	"github.com/sahayak-edu/sahayak-api/internal/repository"
)

// ErrAnswerKeyForbidden indicates the teacher does not own the assignment.
var ErrAnswerKeyForbidden = errors.New("teacher not authorized for this assignment")

// ErrNoApprovals indicates an approval request carried no answers.
var ErrNoApprovals = errors.New("at least one approved answer is required")

// AnswerKeyService lets teachers review and approve the AI-suggested answer
// key. Approved answers take precedence over suggestions during evaluation.
type AnswerKeyService interface {
	Preview(ctx context.Context, assignmentID, teacherID string) (dto.AnswerKeyPreviewResponse, error)
	Approve(ctx context.Context, assignmentID, teacherID string, approvals []dto.AnswerKeyApproval) (dto.AnswerKeyApproveResponse, error)
}

type answerKeyService struct {
	assignments repository.AssignmentRepository
	logger      zerolog.Logger
	now         func() time.Time
}

// NewAnswerKeyService constructs the answer key service.
func NewAnswerKeyService(assignments repository.AssignmentRepository, logger zerolog.Logger) AnswerKeyService {
	return &answerKeyService{
		assignments: assignments,
		logger:      logger.With().Str("component", "answer_key_service").Logger(),
		now:         time.Now,
	}
}

func (s *answerKeyService) Preview(ctx context.Context, assignmentID, teacherID string) (dto.AnswerKeyPreviewResponse, error) {
	assignment, err := s.ownedAssignment(ctx, assignmentID, teacherID)
	if err != nil {
		return dto.AnswerKeyPreviewResponse{}, err
	}

	questions := make([]dto.AnswerKeyPreviewItem, 0, len(assignment.Questions))
	for _, question := range assignment.Questions {
		suggested := question.SuggestedAnswer
		if suggested == "" {
			suggested = "No answer generated"
		}
		questions = append(questions, dto.AnswerKeyPreviewItem{
			QuestionNumber:    question.QuestionNumber,
			QuestionText:      question.QuestionText,
			QuestionType:      string(question.QuestionType),
			AIGeneratedAnswer: suggested,
			MaxScore:          question.MaxScore,
			NeedsReview:       true,
		})
	}

	return dto.AnswerKeyPreviewResponse{
		AssignmentID: assignmentID,
		TeacherID:    teacherID,
		Status:       "ready_for_review",
		Questions:    questions,
		PreviewAt:    s.now(),
	}, nil
}

func (s *answerKeyService) Approve(ctx context.Context, assignmentID, teacherID string, approvals []dto.AnswerKeyApproval) (dto.AnswerKeyApproveResponse, error) {
	if len(approvals) == 0 {
		return dto.AnswerKeyApproveResponse{}, ErrNoApprovals
	}

	assignment, err := s.ownedAssignment(ctx, assignmentID, teacherID)
	if err != nil {
		return dto.AnswerKeyApproveResponse{}, err
	}

	approved := make(map[string]string, len(approvals))
	for _, approval := range approvals {
		approved[approval.QuestionNumber] = approval.ApprovedAnswer
	}

	count := 0
	for i := range assignment.Questions {
		answer, ok := approved[assignment.Questions[i].QuestionNumber]
		if !ok {
			continue
		}
		assignment.Questions[i].ApprovedAnswer = answer
		count++
	}

	assignment.AnswerKeyStatus = models.AnswerKeyStatusApproved
	if err := s.assignments.Update(ctx, &assignment); err != nil {
		return dto.AnswerKeyApproveResponse{}, fmt.Errorf("store approved answer key: %w", err)
	}

	s.logger.Info().Str("assignment_id", assignmentID).Int("questions_approved", count).
		Msg("answer key approved")

	return dto.AnswerKeyApproveResponse{
		AssignmentID:      assignmentID,
		Status:            models.AnswerKeyStatusApproved,
		QuestionsApproved: count,
		ApprovedAt:        s.now(),
	}, nil
}

func (s *answerKeyService) ownedAssignment(ctx context.Context, assignmentID, teacherID string) (models.Assignment, error) {
	assignment, err := s.assignments.GetByID(ctx, assignmentID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return models.Assignment{}, ErrAssignmentNotFound
		}
		return models.Assignment{}, fmt.Errorf("load assignment: %w", err)
	}

	if assignment.TeacherID != teacherID {
		return models.Assignment{}, ErrAnswerKeyForbidden
	}

	return assignment, nil
}
