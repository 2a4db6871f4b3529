package service

import (
	"context"
	"errors"
	"fmt"
	"math"
	"strings"

	"github.com/rs/zerolog"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"
	"gorm.io/gorm"

	"github.com/sahayak-edu/sahayak-api/internal/dto"
	"github.com/sahayak-edu/sahayak-api/internal/grading"
	"github.com/sahayak-edu/sahayak-api/internal/models"
	"github.com/sahayak-edu/sahayak-api/internal/repository"
	"github.com/sahayak-edu/sahayak-api/pkg/ai"
)

// ErrSubmissionNotFound indicates the submission was not located.
var ErrSubmissionNotFound = errors.New("submission not found")

// ErrAssignmentNotFound indicates the assignment was not located.
var ErrAssignmentNotFound = errors.New("assignment not found")

// AnswerEvaluator is the AI evaluation boundary. A nil evaluator means grading
// runs entirely on the deterministic matcher.
type AnswerEvaluator interface {
	Evaluate(ctx context.Context, input ai.EvaluationInput) (ai.Evaluation, error)
}

// EvaluationService runs one full evaluation pass over a submission.
type EvaluationService interface {
	Evaluate(ctx context.Context, submissionID, assignmentID string) (dto.EvaluationRecordResponse, error)
}

type evaluationService struct {
	submissions repository.SubmissionRepository
	assignments repository.AssignmentRepository
	evaluations repository.EvaluationRepository
	evaluator   AnswerEvaluator
	matcher     *grading.Matcher
	notifier    NotificationDispatcher
	logger      zerolog.Logger
	tracer      trace.Tracer
}

// NewEvaluationService constructs the evaluation orchestrator.
func NewEvaluationService(
	submissions repository.SubmissionRepository,
	assignments repository.AssignmentRepository,
	evaluations repository.EvaluationRepository,
	evaluator AnswerEvaluator,
	matcher *grading.Matcher,
	notifier NotificationDispatcher,
	logger zerolog.Logger,
) EvaluationService {
	if matcher == nil {
		matcher = grading.NewMatcher(grading.DefaultThresholds())
	}

	return &evaluationService{
		submissions: submissions,
		assignments: assignments,
		evaluations: evaluations,
		evaluator:   evaluator,
		matcher:     matcher,
		notifier:    notifier,
		logger:      logger.With().Str("component", "evaluation_service").Logger(),
		tracer:      otel.Tracer("github.com/sahayak-edu/sahayak-api/internal/service/evaluation"),
	}
}

// Evaluate grades every question of the assignment against the submission,
// persists the finished record and dispatches a result notification. A failed
// notification never fails the run; a failed persistence does.
func (s *evaluationService) Evaluate(ctx context.Context, submissionID, assignmentID string) (dto.EvaluationRecordResponse, error) {
	ctx, span := s.tracer.Start(ctx, "evaluation.run", trace.WithAttributes(
		attribute.String("submission_id", submissionID),
		attribute.String("assignment_id", assignmentID),
	))
	defer span.End()

	submission, err := s.submissions.Get(ctx, submissionID, assignmentID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			span.SetStatus(codes.Error, "submission_not_found")
			return dto.EvaluationRecordResponse{}, ErrSubmissionNotFound
		}
		span.RecordError(err)
		return dto.EvaluationRecordResponse{}, fmt.Errorf("load submission: %w", err)
	}

	assignment, err := s.assignments.GetByID(ctx, assignmentID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			span.SetStatus(codes.Error, "assignment_not_found")
			return dto.EvaluationRecordResponse{}, ErrAssignmentNotFound
		}
		span.RecordError(err)
		return dto.EvaluationRecordResponse{}, fmt.Errorf("load assignment: %w", err)
	}

	results := s.evaluateQuestions(ctx, submission, assignment.Questions)

	record := models.EvaluationRecord{
		SubmissionID: submissionID,
		AssignmentID: assignmentID,
		FinalScore:   roundScore(sumScores(results), 2),
		MaxScore:     sumMaxScores(results),
		Results:      results,
		Status:       models.EvaluationStatusCompleted,
	}

	if err := s.evaluations.Save(ctx, &record); err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, "persist_failed")
		return dto.EvaluationRecordResponse{}, fmt.Errorf("persist evaluation record: %w", err)
	}

	s.dispatchNotification(ctx, submission, assignment, record)

	span.SetAttributes(
		attribute.Float64("final_score", record.FinalScore),
		attribute.Float64("max_score", record.MaxScore),
		attribute.Int("questions", len(record.Results)),
	)
	return dto.NewEvaluationRecordResponse(record), nil
}

// evaluateQuestions grades each question in order: locate the answer, attempt
// the AI evaluator, fall back to deterministic matching on any failure. Every
// question ends with exactly one accepted result.
func (s *evaluationService) evaluateQuestions(ctx context.Context, submission models.Submission, questions []models.Question) []models.EvaluationResult {
	results := make([]models.EvaluationResult, 0, len(questions))

	for _, question := range questions {
		studentAnswer := grading.LocateAnswer(submission, question.QuestionNumber)
		reference := question.ReferenceAnswer()

		if strings.TrimSpace(studentAnswer) == "" {
			results = append(results, models.EvaluationResult{
				QuestionNumber: question.QuestionNumber,
				QuestionText:   question.QuestionText,
				StudentAnswer:  studentAnswer,
				CorrectAnswer:  reference,
				Score:          0,
				MaxScore:       question.MaxScore,
				Status:         models.ResultStatusNotAttempted,
				Feedback:       "No answer provided",
				AIEvaluation:   false,
			})
			continue
		}

		if s.evaluator != nil {
			evaluation, err := s.evaluator.Evaluate(ctx, ai.EvaluationInput{
				QuestionNumber:  question.QuestionNumber,
				QuestionText:    question.QuestionText,
				StudentAnswer:   studentAnswer,
				ReferenceAnswer: reference,
				MaxScore:        question.MaxScore,
			})
			if err == nil {
				results = append(results, models.EvaluationResult{
					QuestionNumber: question.QuestionNumber,
					QuestionText:   question.QuestionText,
					StudentAnswer:  studentAnswer,
					CorrectAnswer:  reference,
					Score:          evaluation.Score,
					MaxScore:       question.MaxScore,
					Status:         models.ResultStatus(evaluation.Status),
					Feedback:       evaluation.Feedback,
					AIEvaluation:   true,
				})
				continue
			}

			s.logger.Warn().Err(err).
				Str("submission_id", submission.SubmissionID).
				Str("question_number", question.QuestionNumber).
				Msg("ai evaluation failed, using fallback matching")
		}

		results = append(results, s.matcher.Match(
			question.QuestionNumber,
			question.QuestionText,
			studentAnswer,
			reference,
			question.MaxScore,
		))
	}

	return results
}

func (s *evaluationService) dispatchNotification(ctx context.Context, submission models.Submission, assignment models.Assignment, record models.EvaluationRecord) {
	if s.notifier == nil {
		return
	}
	if strings.TrimSpace(submission.StudentID) == "" {
		s.logger.Warn().Str("submission_id", submission.SubmissionID).
			Msg("no student contact on submission, skipping notification")
		return
	}

	percentage := 0.0
	if record.MaxScore > 0 {
		percentage = roundScore(record.FinalScore/record.MaxScore*100, 1)
	}

	summaries := make([]map[string]interface{}, 0, len(record.Results))
	for _, result := range record.Results {
		summaries = append(summaries, map[string]interface{}{
			"question_number": result.QuestionNumber,
			"score":           result.Score,
			"max_score":       result.MaxScore,
			"status":          string(result.Status),
			"feedback":        result.Feedback,
		})
	}

	notification := Notification{
		Recipient:    submission.StudentID,
		TemplateType: "evaluation_results",
		Payload: map[string]interface{}{
			"student_name": submission.StudentName,
			"subject":      assignment.Subject,
			"final_score":  record.FinalScore,
			"max_score":    record.MaxScore,
			"percentage":   percentage,
			"results":      summaries,
		},
	}

	if err := s.notifier.Dispatch(ctx, notification); err != nil {
		s.logger.Warn().Err(err).
			Str("submission_id", submission.SubmissionID).
			Msg("failed to dispatch evaluation notification")
	}
}

func sumScores(results []models.EvaluationResult) float64 {
	total := 0.0
	for _, result := range results {
		total += result.Score
	}
	return total
}

func sumMaxScores(results []models.EvaluationResult) float64 {
	total := 0.0
	for _, result := range results {
		total += result.MaxScore
	}
	return total
}

func roundScore(value float64, places int) float64 {
	factor := math.Pow(10, float64(places))
	return math.Round(value*factor) / factor
}
