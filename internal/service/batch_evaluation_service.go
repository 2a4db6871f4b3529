package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/rs/zerolog"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"
	"gorm.io/gorm"

	"github.com/sahayak-edu/sahayak-api/internal/dto"
	"github.com/sahayak-edu/sahayak-api/internal/repository"
)

const defaultDispatchTimeout = 5 * time.Minute

// EvaluationDispatcher starts one asynchronous evaluation task. A returned
// error means the task could not be started; tasks themselves run to
// completion or fail independently.
type EvaluationDispatcher interface {
	Dispatch(ctx context.Context, submissionID, assignmentID string) error
}

type asyncEvaluationDispatcher struct {
	evaluations EvaluationService
	timeout     time.Duration
	logger      zerolog.Logger
}

// NewAsyncEvaluationDispatcher runs each dispatched evaluation on its own
// goroutine, detached from the caller's lifetime.
func NewAsyncEvaluationDispatcher(evaluations EvaluationService, timeout time.Duration, logger zerolog.Logger) EvaluationDispatcher {
	if timeout <= 0 {
		timeout = defaultDispatchTimeout
	}

	return &asyncEvaluationDispatcher{
		evaluations: evaluations,
		timeout:     timeout,
		logger:      logger.With().Str("component", "evaluation_dispatcher").Logger(),
	}
}

func (d *asyncEvaluationDispatcher) Dispatch(ctx context.Context, submissionID, assignmentID string) error {
	if d.evaluations == nil {
		return fmt.Errorf("evaluation service unavailable")
	}

	go func() {
		runCtx, cancel := context.WithTimeout(context.WithoutCancel(ctx), d.timeout)
		defer cancel()

		if _, err := d.evaluations.Evaluate(runCtx, submissionID, assignmentID); err != nil {
			d.logger.Error().Err(err).
				Str("submission_id", submissionID).
				Str("assignment_id", assignmentID).
				Msg("asynchronous evaluation failed")
			return
		}

		d.logger.Info().
			Str("submission_id", submissionID).
			Str("assignment_id", assignmentID).
			Msg("asynchronous evaluation completed")
	}()

	return nil
}

// BatchEvaluationService fans out evaluations over every pending submission
// of an assignment. Dispatches are independent: a failure is counted, not
// retried, and does not roll back siblings.
type BatchEvaluationService interface {
	EvaluateBatch(ctx context.Context, assignmentID string) (dto.BatchEvaluationResponse, error)
}

type batchEvaluationService struct {
	submissions repository.SubmissionRepository
	assignments repository.AssignmentRepository
	dispatcher  EvaluationDispatcher
	logger      zerolog.Logger
	tracer      trace.Tracer
	now         func() time.Time
}

// NewBatchEvaluationService constructs the batch fan-out service.
func NewBatchEvaluationService(
	submissions repository.SubmissionRepository,
	assignments repository.AssignmentRepository,
	dispatcher EvaluationDispatcher,
	logger zerolog.Logger,
) BatchEvaluationService {
	return &batchEvaluationService{
		submissions: submissions,
		assignments: assignments,
		dispatcher:  dispatcher,
		logger:      logger.With().Str("component", "batch_evaluation_service").Logger(),
		tracer:      otel.Tracer("github.com/sahayak-edu/sahayak-api/internal/service/batch_evaluation"),
		now:         time.Now,
	}
}

func (s *batchEvaluationService) EvaluateBatch(ctx context.Context, assignmentID string) (dto.BatchEvaluationResponse, error) {
	ctx, span := s.tracer.Start(ctx, "evaluation.batch", trace.WithAttributes(
		attribute.String("assignment_id", assignmentID),
	))
	defer span.End()

	if _, err := s.assignments.GetByID(ctx, assignmentID); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			span.SetStatus(codes.Error, "assignment_not_found")
			return dto.BatchEvaluationResponse{}, ErrAssignmentNotFound
		}
		span.RecordError(err)
		return dto.BatchEvaluationResponse{}, fmt.Errorf("load assignment: %w", err)
	}

	pending, err := s.submissions.ListPending(ctx, assignmentID)
	if err != nil {
		span.RecordError(err)
		return dto.BatchEvaluationResponse{}, fmt.Errorf("list pending submissions: %w", err)
	}

	if len(pending) == 0 {
		return dto.BatchEvaluationResponse{
			AssignmentID: assignmentID,
			Status:       "completed",
			Message:      "No pending submissions found for evaluation",
			ProcessedAt:  s.now(),
		}, nil
	}

	s.logger.Info().Str("assignment_id", assignmentID).Int("pending", len(pending)).
		Msg("starting batch evaluation")

	successful := 0
	failed := make([]dto.FailedDispatch, 0)
	for _, submission := range pending {
		if err := s.dispatcher.Dispatch(ctx, submission.SubmissionID, assignmentID); err != nil {
			failed = append(failed, dto.FailedDispatch{
				SubmissionID: submission.SubmissionID,
				Error:        err.Error(),
			})
			s.logger.Error().Err(err).Str("submission_id", submission.SubmissionID).
				Msg("failed to dispatch evaluation")
			continue
		}
		successful++
	}

	span.SetAttributes(
		attribute.Int("dispatched", successful),
		attribute.Int("failed", len(failed)),
	)

	return dto.BatchEvaluationResponse{
		AssignmentID:      assignmentID,
		Status:            "batch_completed",
		Message:           fmt.Sprintf("Batch evaluation completed. Success: %d, Failed: %d", successful, len(failed)),
		TotalSubmissions:  len(pending),
		Successful:        successful,
		Failed:            len(failed),
		FailedSubmissions: failed,
		ProcessedAt:       s.now(),
	}, nil
}
