package handler

import (
	"errors"

	"github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v2"
	"github.com/rs/zerolog"

	"github.com/sahayak-edu/sahayak-api/internal/dto"
	"github.com/sahayak-edu/sahayak-api/internal/service"
	"github.com/sahayak-edu/sahayak-api/internal/utils"
)

// EvaluationHandler manages evaluation endpoints.
type EvaluationHandler struct {
	evaluations service.EvaluationService
	batch       service.BatchEvaluationService
	results     service.EvaluationResultsService
	validator   *validator.Validate
	logger      zerolog.Logger
}

// NewEvaluationHandler builds an evaluation handler instance.
func NewEvaluationHandler(
	evaluations service.EvaluationService,
	batch service.BatchEvaluationService,
	results service.EvaluationResultsService,
	validate *validator.Validate,
	logger zerolog.Logger,
) *EvaluationHandler {
	return &EvaluationHandler{
		evaluations: evaluations,
		batch:       batch,
		results:     results,
		validator:   validate,
		logger:      logger.With().Str("component", "evaluation_handler").Logger(),
	}
}

// Register attaches the routes to the provided router group.
func (h *EvaluationHandler) Register(router fiber.Router) {
	router.Post("/evaluate/single", h.evaluateSingle)
	router.Post("/evaluate/batch", h.evaluateBatch)
	router.Get("/evaluations/:submission_id", h.getResults)
}

func (h *EvaluationHandler) evaluateSingle(c *fiber.Ctx) error {
	var payload dto.EvaluateRequest
	if err := c.BodyParser(&payload); err != nil {
		return utils.SendError(c, fiber.StatusBadRequest, "invalid JSON in request body")
	}
	if err := h.validator.Struct(payload); err != nil {
		return utils.SendError(c, fiber.StatusBadRequest, "submission_id and assignment_id are required")
	}

	record, err := h.evaluations.Evaluate(c.UserContext(), payload.SubmissionID, payload.AssignmentID)
	if err != nil {
		return h.handleError(c, err)
	}

	return utils.SendSuccess(c, "evaluation completed", record)
}

func (h *EvaluationHandler) evaluateBatch(c *fiber.Ctx) error {
	var payload dto.BatchEvaluateRequest
	if err := c.BodyParser(&payload); err != nil {
		return utils.SendError(c, fiber.StatusBadRequest, "invalid JSON in request body")
	}
	if err := h.validator.Struct(payload); err != nil {
		return utils.SendError(c, fiber.StatusBadRequest, "assignment_id is required")
	}

	summary, err := h.batch.EvaluateBatch(c.UserContext(), payload.AssignmentID)
	if err != nil {
		return h.handleError(c, err)
	}

	return utils.SendSuccess(c, "batch evaluation dispatched", summary)
}

func (h *EvaluationHandler) getResults(c *fiber.Ctx) error {
	submissionID := c.Params("submission_id")
	assignmentID := c.Query("assignment_id")
	if submissionID == "" || assignmentID == "" {
		return utils.SendError(c, fiber.StatusBadRequest, "submission_id and assignment_id are required")
	}

	record, err := h.results.Get(c.UserContext(), submissionID, assignmentID)
	if err != nil {
		return h.handleError(c, err)
	}

	return utils.SendSuccess(c, "evaluation results retrieved", record)
}

func (h *EvaluationHandler) handleError(c *fiber.Ctx, err error) error {
	switch {
	case errors.Is(err, service.ErrSubmissionNotFound),
		errors.Is(err, service.ErrAssignmentNotFound),
		errors.Is(err, service.ErrEvaluationNotFound):
		return utils.SendError(c, fiber.StatusNotFound, err.Error())
	default:
		h.logger.Error().Err(err).Msg("evaluation request failed")
		return utils.SendError(c, fiber.StatusInternalServerError, "Evaluation failed")
	}
}
