package models

import (
	"time"

	"gorm.io/datatypes"
)

// SubmissionType identifies the channel a submission arrived through.
type SubmissionType string

const (
	// SubmissionTypeGoogleForms marks submissions collected via the forms webhook.
	SubmissionTypeGoogleForms SubmissionType = "google_forms"
	// SubmissionTypeFileUpload marks submissions extracted from an uploaded document.
	SubmissionTypeFileUpload SubmissionType = "file_upload"
)

const (
	// SubmissionStatusSubmitted indicates the submission has been received but not evaluated.
	SubmissionStatusSubmitted = "submitted"
	// SubmissionStatusEvaluated indicates the submission carries a finished evaluation record.
	SubmissionStatusEvaluated = "evaluated"
)

const (
	// EvaluationStatusPending marks a submission waiting for an evaluation run.
	EvaluationStatusPending = "pending"
	// EvaluationStatusCompleted marks a submission whose evaluation record is stored.
	EvaluationStatusCompleted = "completed"
)

// SubmissionAnswer is one student answer keyed by question number.
type SubmissionAnswer struct {
	QuestionNumber string `json:"question_number"`
	AnswerText     string `json:"answer_text"`
}

// Submission is one student's answers for one assignment. It is created once
// per student-assignment pair and never mutated by evaluation, except for the
// evaluation outcome columns written by the evaluation sink.
type Submission struct {
	SubmissionID      string                                `gorm:"primaryKey;size:64" json:"submission_id"`
	AssignmentID      string                                `gorm:"primaryKey;size:64" json:"assignment_id"`
	StudentID         string                                `gorm:"size:128;index" json:"student_id"`
	StudentName       string                                `gorm:"size:255" json:"student_name"`
	SubmissionType    SubmissionType                        `gorm:"size:32" json:"submission_type"`
	Answers           datatypes.JSONSlice[SubmissionAnswer] `json:"answers"`
	ExtractedAnswers  datatypes.JSONSlice[SubmissionAnswer] `json:"extracted_answers"`
	ExtractedText     string                                `gorm:"type:text" json:"extracted_text"`
	Status            string                                `gorm:"size:32" json:"status"`
	EvaluationStatus  string                                `gorm:"size:32;index" json:"evaluation_status"`
	FinalScore        *float64                              `json:"final_score"`
	MaxScore          *float64                              `json:"max_score"`
	EvaluationResults datatypes.JSONSlice[EvaluationResult] `json:"evaluation_results"`
	EvaluatedAt       *time.Time                            `json:"evaluated_at"`
	CreatedAt         time.Time                             `json:"created_at"`
	UpdatedAt         time.Time                             `json:"updated_at"`
}

// IsEvaluated reports whether the submission holds a completed evaluation.
func (s Submission) IsEvaluated() bool {
	return s.EvaluationStatus == EvaluationStatusCompleted
}
