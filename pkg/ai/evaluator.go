package ai

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/rs/zerolog"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"
)

var (
	aiDuration = promauto.NewHistogramVec(prometheus.HistogramOpts{
		Namespace: "sahayak",
		Subsystem: "ai",
		Name:      "evaluation_duration_seconds",
		Help:      "Duration of AI evaluation requests",
	}, []string{"model"})

	aiFailures = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: "sahayak",
		Subsystem: "ai",
		Name:      "evaluation_failures_total",
		Help:      "Number of AI evaluation failures",
	}, []string{"model"})
)

// ErrAllModelsFailed indicates every model in the fallback list failed to
// produce a response. The caller is expected to fall back to deterministic
// matching.
var ErrAllModelsFailed = errors.New("all evaluation models failed")

// EvaluatorConfig configures the answer evaluator.
type EvaluatorConfig struct {
	// Models is the ordered fallback list; each is tried once.
	Models      []string
	MaxTokens   int
	Temperature float32
	Logger      zerolog.Logger
}

// Evaluator grades a student answer against a reference answer by prompting a
// generative-text model and parsing its response tolerantly.
type Evaluator struct {
	generator   TextGenerator
	models      []string
	maxTokens   int
	temperature float32
	tracer      trace.Tracer
	logger      zerolog.Logger
}

// NewEvaluator builds an evaluator on top of the provided text generator.
func NewEvaluator(generator TextGenerator, cfg EvaluatorConfig) (*Evaluator, error) {
	if generator == nil {
		return nil, fmt.Errorf("text generator is required")
	}
	if len(cfg.Models) == 0 {
		return nil, fmt.Errorf("at least one model id is required")
	}
	if cfg.MaxTokens == 0 {
		cfg.MaxTokens = 200
	}
	if cfg.Temperature == 0 {
		cfg.Temperature = 0.1
	}

	return &Evaluator{
		generator:   generator,
		models:      cfg.Models,
		maxTokens:   cfg.MaxTokens,
		temperature: cfg.Temperature,
		tracer:      otel.Tracer("github.com/sahayak-edu/sahayak-api/pkg/ai"),
		logger:      cfg.Logger.With().Str("component", "ai_evaluator").Logger(),
	}, nil
}

// Evaluate prompts each configured model in order and returns the verdict of
// the first non-empty response, with the score clamped to [0, max_score].
// When every model fails it returns ErrAllModelsFailed.
func (e *Evaluator) Evaluate(parent context.Context, input EvaluationInput) (Evaluation, error) {
	ctx, span := e.tracer.Start(parent, "ai.evaluate", trace.WithAttributes(
		attribute.String("question_number", input.QuestionNumber),
	))
	defer span.End()

	prompt := buildPrompt(input)

	for _, modelID := range e.models {
		start := time.Now()
		raw, err := e.generator.Generate(ctx, modelID, prompt, e.maxTokens, e.temperature)
		aiDuration.WithLabelValues(modelID).Observe(time.Since(start).Seconds())

		if err != nil {
			aiFailures.WithLabelValues(modelID).Inc()
			e.logger.Warn().Err(err).Str("model", modelID).Str("question_number", input.QuestionNumber).
				Msg("model invocation failed, trying next model")
			continue
		}
		if strings.TrimSpace(raw) == "" {
			aiFailures.WithLabelValues(modelID).Inc()
			e.logger.Warn().Str("model", modelID).Str("question_number", input.QuestionNumber).
				Msg("model returned empty response, trying next model")
			continue
		}

		evaluation := parseEvaluation(raw)
		evaluation.Score = clampScore(evaluation.Score, input.MaxScore)
		evaluation.Status = normalizeStatus(evaluation.Status)

		span.SetAttributes(
			attribute.String("model", modelID),
			attribute.Float64("score", evaluation.Score),
			attribute.String("status", evaluation.Status),
		)
		return evaluation, nil
	}

	span.RecordError(ErrAllModelsFailed)
	span.SetStatus(codes.Error, "all_models_failed")
	return Evaluation{}, ErrAllModelsFailed
}

func buildPrompt(input EvaluationInput) string {
	builder := strings.Builder{}
	builder.WriteString("Evaluate this answer. Return ONLY JSON:\n\n")
	builder.WriteString("Question: ")
	builder.WriteString(input.QuestionText)
	builder.WriteString("\nStudent Answer: ")
	builder.WriteString(input.StudentAnswer)
	builder.WriteString("\nCorrect Answer: ")
	builder.WriteString(input.ReferenceAnswer)
	builder.WriteString(fmt.Sprintf("\nMax Score: %g", input.MaxScore))
	builder.WriteString("\n\nJSON: {\"score\": number, \"status\": \"correct|partial|incorrect\", \"feedback\": \"string\"}")
	return builder.String()
}

func clampScore(score, maxScore float64) float64 {
	if score < 0 {
		return 0
	}
	if score > maxScore {
		return maxScore
	}
	return score
}

func normalizeStatus(status string) string {
	switch strings.ToLower(strings.TrimSpace(status)) {
	case "correct":
		return "correct"
	case "partial":
		return "partial"
	default:
		return "incorrect"
	}
}
