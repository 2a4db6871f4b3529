package models

// ResultStatus classifies a single graded answer.
type ResultStatus string

const (
	ResultStatusCorrect      ResultStatus = "correct"
	ResultStatusPartial      ResultStatus = "partial"
	ResultStatusIncorrect    ResultStatus = "incorrect"
	ResultStatusNotAttempted ResultStatus = "not_attempted"
)

// EvaluationResult is the graded outcome for one question.
// Invariant: 0 <= Score <= MaxScore.
type EvaluationResult struct {
	QuestionNumber string       `json:"question_number"`
	QuestionText   string       `json:"question_text"`
	StudentAnswer  string       `json:"student_answer"`
	CorrectAnswer  string       `json:"correct_answer"`
	Score          float64      `json:"score"`
	MaxScore       float64      `json:"max_score"`
	Status         ResultStatus `json:"status"`
	Feedback       string       `json:"feedback"`
	AIEvaluation   bool         `json:"ai_evaluation"`
}

// EvaluationRecord aggregates the per-question results of one evaluation run.
// A re-run fully replaces the prior record.
type EvaluationRecord struct {
	SubmissionID string             `json:"submission_id"`
	AssignmentID string             `json:"assignment_id"`
	FinalScore   float64            `json:"final_score"`
	MaxScore     float64            `json:"max_score"`
	Results      []EvaluationResult `json:"evaluation_results"`
	Status       string             `json:"status"`
}
