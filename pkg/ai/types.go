package ai

import "context"

// TextGenerator invokes a single generative-text model and returns its raw output.
type TextGenerator interface {
	Generate(ctx context.Context, modelID, prompt string, maxTokens int, temperature float32) (string, error)
}

// EvaluationInput contains one question/answer pair to grade.
type EvaluationInput struct {
	QuestionNumber  string
	QuestionText    string
	StudentAnswer   string
	ReferenceAnswer string
	MaxScore        float64
}

// Evaluation is the structured verdict recovered from a model response.
type Evaluation struct {
	Score    float64 `json:"score"`
	Status   string  `json:"status"`
	Feedback string  `json:"feedback"`
}
