package grading

import "github.com/sahayak-edu/sahayak-api/internal/models"

// LocateAnswer finds the student's raw answer text for a question. Form
// submissions carry flat per-question answers; file uploads carry OCR-extracted
// answers with the whole extracted document as a last-resort fallback.
// Absence is an empty string, never an error.
func LocateAnswer(submission models.Submission, questionNumber string) string {
	switch submission.SubmissionType {
	case models.SubmissionTypeGoogleForms:
		for _, answer := range submission.Answers {
			if answer.QuestionNumber == questionNumber {
				return answer.AnswerText
			}
		}
	case models.SubmissionTypeFileUpload:
		for _, answer := range submission.ExtractedAnswers {
			if answer.QuestionNumber == questionNumber {
				return answer.AnswerText
			}
		}
		// No per-question extraction: grade against the whole document.
		return submission.ExtractedText
	}

	return ""
}
