package grading

import (
	"math"
	"regexp"
	"strings"

	"github.com/sahayak-edu/sahayak-api/internal/models"
)

// mathKeywords flag a question as quantitative, routing it to numeric matching.
var mathKeywords = []string{"solve", "equation", "x=", "find", "calculate"}

var numberPattern = regexp.MustCompile(`-?\d+\.?\d*`)

// Thresholds carries the score bands used by the deterministic matcher.
// The band values have no documented derivation; they are kept configurable
// rather than hard-coded.
type Thresholds struct {
	NumericHigh       float64 // intersection ratio for the high partial band
	NumericLow        float64 // intersection ratio for the low partial band
	NumericHighFactor float64 // share of max score awarded in the high band
	NumericLowFactor  float64 // share of max score awarded in the low band
	TextCorrect       float64 // word-overlap ratio counted as correct
	TextPartial       float64 // word-overlap ratio counted as partial
	TextPartialFactor float64 // share of max score awarded for partial text
}

// DefaultThresholds returns the bands the platform has always graded with.
func DefaultThresholds() Thresholds {
	return Thresholds{
		NumericHigh:       0.7,
		NumericLow:        0.5,
		NumericHighFactor: 0.8,
		NumericLowFactor:  0.5,
		TextCorrect:       0.7,
		TextPartial:       0.4,
		TextPartialFactor: 0.5,
	}
}

// Matcher is the deterministic fallback evaluator used when the AI evaluator
// is unavailable or unparseable. It is pure and never fails: every call
// produces a concrete score, status and feedback.
type Matcher struct {
	thresholds Thresholds
}

// NewMatcher builds a matcher with the provided score bands. Zero-valued
// thresholds fall back to the defaults.
func NewMatcher(thresholds Thresholds) *Matcher {
	if thresholds == (Thresholds{}) {
		thresholds = DefaultThresholds()
	}
	return &Matcher{thresholds: thresholds}
}

// Match grades a student answer against the reference answer. Quantitative
// questions are compared by numeric-token sets, which tolerates ordering and
// formatting variance ("x=2,3" vs "3, 2"); everything else falls back to
// word-overlap against the reference.
func (m *Matcher) Match(questionNumber, questionText, studentAnswer, correctAnswer string, maxScore float64) models.EvaluationResult {
	result := models.EvaluationResult{
		QuestionNumber: questionNumber,
		QuestionText:   questionText,
		StudentAnswer:  studentAnswer,
		CorrectAnswer:  correctAnswer,
		MaxScore:       maxScore,
		AIEvaluation:   false,
	}

	if strings.TrimSpace(studentAnswer) == "" {
		result.Status = models.ResultStatusNotAttempted
		result.Feedback = "No answer provided"
		return result
	}

	if isQuantitative(questionText) {
		return m.matchNumeric(result, studentAnswer, correctAnswer, maxScore)
	}
	return m.matchText(result, studentAnswer, correctAnswer, maxScore)
}

func isQuantitative(questionText string) bool {
	lowered := strings.ToLower(questionText)
	for _, keyword := range mathKeywords {
		if strings.Contains(lowered, keyword) {
			return true
		}
	}
	return false
}

func (m *Matcher) matchNumeric(result models.EvaluationResult, studentAnswer, correctAnswer string, maxScore float64) models.EvaluationResult {
	studentNumbers := numericTokens(studentAnswer)
	correctNumbers := numericTokens(correctAnswer)
	common := intersectionSize(studentNumbers, correctNumbers)

	switch {
	case setsEqual(studentNumbers, correctNumbers):
		result.Score = maxScore
		result.Status = models.ResultStatusCorrect
		result.Feedback = "Correct numerical answer"
	case float64(common) >= float64(len(correctNumbers))*m.thresholds.NumericHigh:
		result.Score = maxScore * m.thresholds.NumericHighFactor
		result.Status = models.ResultStatusPartial
		result.Feedback = "Most numbers correct"
	case float64(common) >= float64(len(correctNumbers))*m.thresholds.NumericLow:
		result.Score = maxScore * m.thresholds.NumericLowFactor
		result.Status = models.ResultStatusPartial
		result.Feedback = "Some numbers correct"
	default:
		result.Score = 0
		result.Status = models.ResultStatusIncorrect
		result.Feedback = "Numbers don't match expected answer"
	}

	result.Score = roundTo(result.Score, 1)
	return result
}

func (m *Matcher) matchText(result models.EvaluationResult, studentAnswer, correctAnswer string, maxScore float64) models.EvaluationResult {
	studentWords := wordSet(studentAnswer)
	correctWords := wordSet(correctAnswer)
	common := intersectionSize(studentWords, correctWords)

	switch {
	case float64(common) >= float64(len(correctWords))*m.thresholds.TextCorrect:
		result.Score = maxScore
		result.Status = models.ResultStatusCorrect
		result.Feedback = "Answer matches key concepts"
	case float64(common) >= float64(len(correctWords))*m.thresholds.TextPartial:
		result.Score = maxScore * m.thresholds.TextPartialFactor
		result.Status = models.ResultStatusPartial
		result.Feedback = "Answer has some correct elements"
	default:
		result.Score = 0
		result.Status = models.ResultStatusIncorrect
		result.Feedback = "Answer doesn't match expected concepts"
	}

	result.Score = roundTo(result.Score, 1)
	return result
}

// numericTokens extracts the set of numeric substrings after stripping
// whitespace and the literal "x=" token.
func numericTokens(answer string) map[string]struct{} {
	cleaned := strings.Join(strings.Fields(strings.ToLower(answer)), "")
	cleaned = strings.ReplaceAll(cleaned, "x=", "")

	tokens := make(map[string]struct{})
	for _, match := range numberPattern.FindAllString(cleaned, -1) {
		tokens[match] = struct{}{}
	}
	return tokens
}

func wordSet(answer string) map[string]struct{} {
	words := make(map[string]struct{})
	for _, word := range strings.Fields(strings.ToLower(answer)) {
		words[word] = struct{}{}
	}
	return words
}

func intersectionSize(a, b map[string]struct{}) int {
	count := 0
	for token := range a {
		if _, ok := b[token]; ok {
			count++
		}
	}
	return count
}

func setsEqual(a, b map[string]struct{}) bool {
	if len(a) != len(b) {
		return false
	}
	for token := range a {
		if _, ok := b[token]; !ok {
			return false
		}
	}
	return true
}

func roundTo(value float64, places int) float64 {
	factor := math.Pow(10, float64(places))
	return math.Round(value*factor) / factor
}
