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

// AnswerKeyHandler manages answer key review endpoints.
type AnswerKeyHandler struct {
	answerKeys service.AnswerKeyService
	validator  *validator.Validate
	logger     zerolog.Logger
}

// NewAnswerKeyHandler builds an answer key handler instance.
func NewAnswerKeyHandler(answerKeys service.AnswerKeyService, validate *validator.Validate, logger zerolog.Logger) *AnswerKeyHandler {
	return &AnswerKeyHandler{
		answerKeys: answerKeys,
		validator:  validate,
		logger:     logger.With().Str("component", "answer_key_handler").Logger(),
	}
}

// Register attaches the routes to the provided router group.
func (h *AnswerKeyHandler) Register(router fiber.Router) {
	router.Post("/assignments/:assignment_id/answer-key", h.handle)
}

func (h *AnswerKeyHandler) handle(c *fiber.Ctx) error {
	assignmentID := c.Params("assignment_id")

	var payload dto.AnswerKeyRequest
	if err := c.BodyParser(&payload); err != nil {
		return utils.SendError(c, fiber.StatusBadRequest, "invalid JSON in request body")
	}
	if err := h.validator.Struct(payload); err != nil {
		return utils.SendError(c, fiber.StatusBadRequest, "action and teacher_id are required")
	}

	switch payload.Action {
	case "preview":
		preview, err := h.answerKeys.Preview(c.UserContext(), assignmentID, payload.TeacherID)
		if err != nil {
			return h.handleError(c, err)
		}
		return utils.SendSuccess(c, "answer key ready for review", preview)
	case "approve":
		approval, err := h.answerKeys.Approve(c.UserContext(), assignmentID, payload.TeacherID, payload.Approvals)
		if err != nil {
			return h.handleError(c, err)
		}
		return utils.SendSuccess(c, "answer key approved and finalized successfully", approval)
	default:
		return utils.SendError(c, fiber.StatusBadRequest, "unknown action")
	}
}

func (h *AnswerKeyHandler) handleError(c *fiber.Ctx, err error) error {
	switch {
	case errors.Is(err, service.ErrAssignmentNotFound):
		return utils.SendError(c, fiber.StatusNotFound, err.Error())
	case errors.Is(err, service.ErrAnswerKeyForbidden):
		return utils.SendError(c, fiber.StatusForbidden, err.Error())
	case errors.Is(err, service.ErrNoApprovals):
		return utils.SendError(c, fiber.StatusBadRequest, err.Error())
	default:
		h.logger.Error().Err(err).Msg("answer key request failed")
		return utils.SendError(c, fiber.StatusInternalServerError, "Answer key processing failed")
	}
}
