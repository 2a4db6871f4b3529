package ai

import (
	"encoding/json"
	"regexp"
	"strconv"
)

// Models rarely emit the requested bare JSON object. Parsing is an ordered
// chain of total strategies; the first one that recovers a verdict wins.

var jsonObjectPatterns = []*regexp.Regexp{
	regexp.MustCompile(`\{[^{}]*\{[^{}]*\}[^{}]*\}|\{[^{}]*\}`),
	regexp.MustCompile(`\{"score":\s*\d+[^}]+"\}`),
	regexp.MustCompile(`\{[^}]*"score"[^}]*\}`),
}

var (
	scorePatterns = []*regexp.Regexp{
		regexp.MustCompile(`"score":\s*(\d+)`),
		regexp.MustCompile(`score["\s]*:[\s]*(\d+)`),
	}
	statusPatterns = []*regexp.Regexp{
		regexp.MustCompile(`"status":\s*"([^"]+)"`),
		regexp.MustCompile(`status["\s]*:[\s]*"([^"]+)"`),
	}
	feedbackPatterns = []*regexp.Regexp{
		regexp.MustCompile(`"feedback":\s*"([^"]+)"`),
		regexp.MustCompile(`feedback["\s]*:[\s]*"([^"]+)"`),
	}
)

type parseStrategy func(string) (Evaluation, bool)

var parseStrategies = []parseStrategy{parseEmbeddedJSON, parseFields}

// parseEvaluation recovers {score, status, feedback} from a raw model
// response. It is total: malformed input degrades to the field-extraction
// defaults instead of failing.
func parseEvaluation(raw string) Evaluation {
	for _, strategy := range parseStrategies {
		if evaluation, ok := strategy(raw); ok {
			return evaluation
		}
	}
	return Evaluation{Score: 0, Status: "incorrect", Feedback: "Evaluation parsing failed"}
}

// parseEmbeddedJSON finds a JSON object inside the response and accepts it
// only when all three keys are present.
func parseEmbeddedJSON(raw string) (Evaluation, bool) {
	for _, pattern := range jsonObjectPatterns {
		fragment := pattern.FindString(raw)
		if fragment == "" {
			continue
		}

		var fields map[string]interface{}
		if err := json.Unmarshal([]byte(fragment), &fields); err != nil {
			continue
		}

		score, hasScore := fields["score"].(float64)
		status, hasStatus := fields["status"].(string)
		feedback, hasFeedback := fields["feedback"].(string)
		if !hasScore || !hasStatus || !hasFeedback {
			continue
		}

		return Evaluation{Score: score, Status: status, Feedback: feedback}, true
	}

	return Evaluation{}, false
}

// parseFields extracts score, status and feedback independently, defaulting
// whatever is missing. It always succeeds.
func parseFields(raw string) (Evaluation, bool) {
	evaluation := Evaluation{Score: 0, Status: "incorrect", Feedback: "Manual extraction"}

	if match := firstSubmatch(scorePatterns, raw); match != "" {
		if score, err := strconv.Atoi(match); err == nil {
			evaluation.Score = float64(score)
		}
	}
	if match := firstSubmatch(statusPatterns, raw); match != "" {
		evaluation.Status = match
	}
	if match := firstSubmatch(feedbackPatterns, raw); match != "" {
		evaluation.Feedback = match
	}

	return evaluation, true
}

func firstSubmatch(patterns []*regexp.Regexp, raw string) string {
	for _, pattern := range patterns {
		if groups := pattern.FindStringSubmatch(raw); len(groups) > 1 {
			return groups[1]
		}
	}
	return ""
}
