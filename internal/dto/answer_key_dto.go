package dto

import "time"

// AnswerKeyApproval carries one teacher-approved answer.
type AnswerKeyApproval struct {
	QuestionNumber string `json:"question_number" validate:"required"`
	ApprovedAnswer string `json:"approved_answer" validate:"required"`
}

// AnswerKeyRequest previews or approves the AI-suggested answer key.
type AnswerKeyRequest struct {
	Action    string              `json:"action" validate:"required,oneof=preview approve"`
	TeacherID string              `json:"teacher_id" validate:"required"`
	Approvals []AnswerKeyApproval `json:"approvals" validate:"dive"`
}

// AnswerKeyPreviewItem is one question shown to the teacher for review.
type AnswerKeyPreviewItem struct {
	QuestionNumber    string  `json:"question_number"`
	QuestionText      string  `json:"question_text"`
	QuestionType      string  `json:"question_type"`
	AIGeneratedAnswer string  `json:"ai_generated_answer"`
	MaxScore          float64 `json:"max_score"`
	NeedsReview       bool    `json:"needs_review"`
}

// AnswerKeyPreviewResponse lists the AI-suggested answers awaiting review.
type AnswerKeyPreviewResponse struct {
	AssignmentID string                 `json:"assignment_id"`
	TeacherID    string                 `json:"teacher_id"`
	Status       string                 `json:"status"`
	Questions    []AnswerKeyPreviewItem `json:"questions"`
	PreviewAt    time.Time              `json:"preview_at"`
}

// AnswerKeyApproveResponse confirms the approved answer key.
type AnswerKeyApproveResponse struct {
	AssignmentID      string    `json:"assignment_id"`
	Status            string    `json:"status"`
	QuestionsApproved int       `json:"questions_approved"`
	ApprovedAt        time.Time `json:"approved_at"`
}
