package models

import (
	"time"

	"gorm.io/datatypes"
)

// QuestionType classifies how a question expects to be answered.
type QuestionType string

const (
	QuestionTypeProblemSolving QuestionType = "problem_solving"
	QuestionTypeExplanation    QuestionType = "explanation"
	QuestionTypeDefinition     QuestionType = "definition"
	QuestionTypeText           QuestionType = "text"
)

const (
	// AnswerKeyStatusPending indicates the AI-suggested answers still await teacher review.
	AnswerKeyStatusPending = "pending_review"
	// AnswerKeyStatusApproved indicates the teacher has approved the answer key.
	AnswerKeyStatusApproved = "approved"
)

// Question is a single entry of an assignment's answer key.
type Question struct {
	QuestionNumber  string       `json:"question_number"`
	QuestionText    string       `json:"question_text"`
	QuestionType    QuestionType `json:"question_type"`
	SuggestedAnswer string       `json:"suggested_answer"`
	ApprovedAnswer  string       `json:"approved_answer"`
	MaxScore        float64      `json:"max_score"`
}

// ReferenceAnswer returns the answer a submission is graded against: the
// teacher-approved answer when present, otherwise the AI-suggested draft.
func (q Question) ReferenceAnswer() string {
	if q.ApprovedAnswer != "" {
		return q.ApprovedAnswer
	}
	return q.SuggestedAnswer
}

// Assignment represents a teacher-uploaded assignment and its answer key.
// Questions are immutable once the answer key has been approved.
type Assignment struct {
	AssignmentID    string                        `gorm:"primaryKey;size:64" json:"assignment_id"`
	TeacherID       string                        `gorm:"size:128;index" json:"teacher_id"`
	Subject         string                        `gorm:"size:255" json:"subject"`
	Questions       datatypes.JSONSlice[Question] `json:"questions"`
	AnswerKeyStatus string                        `gorm:"size:32" json:"answer_key_status"`
	CreatedAt       time.Time                     `json:"created_at"`
	UpdatedAt       time.Time                     `json:"updated_at"`
}

// QuestionByNumber looks up a question by its number, string-compared.
func (a Assignment) QuestionByNumber(number string) (Question, bool) {
	for _, q := range a.Questions {
		if q.QuestionNumber == number {
			return q, true
		}
	}
	return Question{}, false
}
