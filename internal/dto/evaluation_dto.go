package dto

import (
	"time"

	"github.com/sahayak-edu/sahayak-api/internal/models"
)

// EvaluateRequest asks for one submission to be evaluated.
type EvaluateRequest struct {
	SubmissionID string `json:"submission_id" validate:"required"`
	AssignmentID string `json:"assignment_id" validate:"required"`
}

// BatchEvaluateRequest asks for every pending submission of an assignment to be evaluated.
type BatchEvaluateRequest struct {
	AssignmentID string `json:"assignment_id" validate:"required"`
}

// EvaluationResultResponse mirrors one graded question.
type EvaluationResultResponse struct {
	QuestionNumber string  `json:"question_number"`
	QuestionText   string  `json:"question_text"`
	StudentAnswer  string  `json:"student_answer"`
	CorrectAnswer  string  `json:"correct_answer"`
	Score          float64 `json:"score"`
	MaxScore       float64 `json:"max_score"`
	Status         string  `json:"status"`
	Feedback       string  `json:"feedback"`
	AIEvaluation   bool    `json:"ai_evaluation"`
}

// EvaluationRecordResponse is the finished evaluation for one submission.
type EvaluationRecordResponse struct {
	SubmissionID      string                     `json:"submission_id"`
	AssignmentID      string                     `json:"assignment_id"`
	FinalScore        float64                    `json:"final_score"`
	MaxScore          float64                    `json:"max_score"`
	EvaluationResults []EvaluationResultResponse `json:"evaluation_results"`
	Status            string                     `json:"status"`
}

// NewEvaluationRecordResponse maps a domain record onto the API shape.
func NewEvaluationRecordResponse(record models.EvaluationRecord) EvaluationRecordResponse {
	results := make([]EvaluationResultResponse, 0, len(record.Results))
	for _, result := range record.Results {
		results = append(results, EvaluationResultResponse{
			QuestionNumber: result.QuestionNumber,
			QuestionText:   result.QuestionText,
			StudentAnswer:  result.StudentAnswer,
			CorrectAnswer:  result.CorrectAnswer,
			Score:          result.Score,
			MaxScore:       result.MaxScore,
			Status:         string(result.Status),
			Feedback:       result.Feedback,
			AIEvaluation:   result.AIEvaluation,
		})
	}

	return EvaluationRecordResponse{
		SubmissionID:      record.SubmissionID,
		AssignmentID:      record.AssignmentID,
		FinalScore:        record.FinalScore,
		MaxScore:          record.MaxScore,
		EvaluationResults: results,
		Status:            record.Status,
	}
}

// FailedDispatch records one submission whose batch dispatch failed.
type FailedDispatch struct {
	SubmissionID string `json:"submission_id"`
	Error        string `json:"error"`
}

// BatchEvaluationResponse summarises a batch fan-out. Dispatches are
// fire-and-forget; the counts cover dispatching, not evaluation outcomes.
type BatchEvaluationResponse struct {
	AssignmentID      string           `json:"assignment_id"`
	Status            string           `json:"status"`
	Message           string           `json:"message"`
	TotalSubmissions  int              `json:"total_submissions"`
	Successful        int              `json:"successful"`
	Failed            int              `json:"failed"`
	FailedSubmissions []FailedDispatch `json:"failed_submissions"`
	ProcessedAt       time.Time        `json:"processed_at"`
}
