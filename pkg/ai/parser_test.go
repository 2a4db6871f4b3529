package ai

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestParseEvaluationValidJSON(t *testing.T) {
	raw := `{"score": 7, "status": "partial", "feedback": "Close but incomplete"}`

	evaluation := parseEvaluation(raw)

	require.Equal(t, 7.0, evaluation.Score)
	require.Equal(t, "partial", evaluation.Status)
	require.Equal(t, "Close but incomplete", evaluation.Feedback)
}

func TestParseEvaluationJSONInProse(t *testing.T) {
	raw := `Sure, here is my verdict: {"score": 10, "status": "correct", "feedback": "Well done"} hope that helps!`

	evaluation := parseEvaluation(raw)

	require.Equal(t, 10.0, evaluation.Score)
	require.Equal(t, "correct", evaluation.Status)
	require.Equal(t, "Well done", evaluation.Feedback)
}

func TestParseEvaluationFieldExtraction(t *testing.T) {
	raw := `score: 8, status: "partial", feedback: "close"`

	evaluation := parseEvaluation(raw)

	require.Equal(t, 8.0, evaluation.Score)
	require.Equal(t, "partial", evaluation.Status)
	require.Equal(t, "close", evaluation.Feedback)
}

func TestParseEvaluationIncompleteJSONDefaultsMissingFields(t *testing.T) {
	raw := `{"score": 5, "status": "partial"}`

	evaluation := parseEvaluation(raw)

	require.Equal(t, 5.0, evaluation.Score)
	require.Equal(t, "partial", evaluation.Status)
	require.Equal(t, "Manual extraction", evaluation.Feedback)
}

func TestParseEvaluationGarbageDefaults(t *testing.T) {
	evaluation := parseEvaluation("I cannot evaluate this answer.")

	require.Equal(t, 0.0, evaluation.Score)
	require.Equal(t, "incorrect", evaluation.Status)
	require.Equal(t, "Manual extraction", evaluation.Feedback)
}
