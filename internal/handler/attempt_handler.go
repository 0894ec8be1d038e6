package handler

import (
	"quiz-trail/internal/dto"
	"quiz-trail/internal/middleware"
	"quiz-trail/internal/service"
	"quiz-trail/internal/validation"

	"github.com/gofiber/fiber/v2"
)

// AttemptHandler handles submission and history requests
type AttemptHandler struct {
	attempts  service.AttemptService
	validator *validation.Validator
}

// NewAttemptHandler creates a new AttemptHandler instance
func NewAttemptHandler(attempts service.AttemptService) *AttemptHandler {
	return &AttemptHandler{attempts: attempts, validator: validation.NewValidator()}
}

// SubmitAttempt godoc
// @Summary Submit a quiz attempt
// @Description Stores every item under one new attempt id, all or nothing
// @Tags attempts
// @Accept json
// @Produce json
// @Security ApiKeyAuth
// @Param attempt body dto.SubmitAttemptRequest true "Attempt"
// @Success 200 {object} dto.SubmitAttemptResponse
// @Failure 400 {object} middleware.ValidationErrorResponse
// @Failure 401 {object} middleware.ErrorResponse
// @Failure 500 {object} middleware.ErrorResponse
// @Router /attempts [post]
func (h *AttemptHandler) SubmitAttempt(c *fiber.Ctx) error {
	userID, err := currentUser(c)
	if err != nil {
		return err
	}

	var req dto.SubmitAttemptRequest
	if err := c.BodyParser(&req); err != nil {
		return invalidBody(err)
	}
	items := req.ToDomain()
	if errs := h.validator.ValidateAttemptItems(items); len(errs) > 0 {
		return errs
	}

	attemptID, err := h.attempts.Submit(c.UserContext(), userID, items)
	if err != nil {
		return err
	}
	return c.JSON(dto.SubmitAttemptResponse{AttemptID: attemptID})
}

// ListAttempts godoc
// @Summary List my attempts
// @Description One entry per attempt, most recent first
// @Tags attempts
// @Produce json
// @Security ApiKeyAuth
// @Success 200 {object} dto.AttemptListResponse
// @Failure 401 {object} middleware.ErrorResponse
// @Failure 500 {object} middleware.ErrorResponse
// @Router /attempts [get]
func (h *AttemptHandler) ListAttempts(c *fiber.Ctx) error {
	userID, err := currentUser(c)
	if err != nil {
		return err
	}

	attempts, err := h.attempts.ListAttempts(c.UserContext(), userID)
	if err != nil {
		return err
	}
	return c.JSON(dto.NewAttemptListResponse(attempts))
}

// GetAttempt godoc
// @Summary Expand one attempt
// @Description Answers of the attempt joined with their questions, in submission order. Unknown attempts return an empty list.
// @Tags attempts
// @Produce json
// @Security ApiKeyAuth
// @Param attemptID path string true "Attempt ID (UUID)"
// @Success 200 {object} dto.AttemptDetailResponse
// @Failure 400 {object} middleware.ValidationErrorResponse
// @Failure 401 {object} middleware.ErrorResponse
// @Failure 500 {object} middleware.ErrorResponse
// @Router /attempts/{attemptID} [get]
func (h *AttemptHandler) GetAttempt(c *fiber.Ctx) error {
	userID, err := currentUser(c)
	if err != nil {
		return err
	}
	attemptID := c.Locals(middleware.ValidatedAttemptIDKey).(string)

	details, err := h.attempts.ExpandAttempt(c.UserContext(), userID, attemptID)
	if err != nil {
		return err
	}
	return c.JSON(dto.NewAttemptDetailResponse(attemptID, details))
}

// DeleteAttempt godoc
// @Summary Delete one attempt
// @Description Removes every answer of the attempt. Deleting an unknown attempt succeeds.
// @Tags attempts
// @Security ApiKeyAuth
// @Param attemptID path string true "Attempt ID (UUID)"
// @Success 204
// @Failure 400 {object} middleware.ValidationErrorResponse
// @Failure 401 {object} middleware.ErrorResponse
// @Failure 500 {object} middleware.ErrorResponse
// @Router /attempts/{attemptID} [delete]
func (h *AttemptHandler) DeleteAttempt(c *fiber.Ctx) error {
	userID, err := currentUser(c)
	if err != nil {
		return err
	}
	attemptID := c.Locals(middleware.ValidatedAttemptIDKey).(string)

	if err := h.attempts.DeleteAttempt(c.UserContext(), userID, attemptID); err != nil {
		return err
	}
	return c.SendStatus(fiber.StatusNoContent)
}
