package handler

import (
	"quiz-trail/internal/dto"
	"quiz-trail/internal/service"
	"quiz-trail/internal/validation"

	"github.com/gofiber/fiber/v2"
)

// FeedbackHandler handles feedback requests
type FeedbackHandler struct {
	feedback  service.FeedbackService
	validator *validation.Validator
}

// NewFeedbackHandler creates a new FeedbackHandler instance
func NewFeedbackHandler(feedback service.FeedbackService) *FeedbackHandler {
	return &FeedbackHandler{feedback: feedback, validator: validation.NewValidator()}
}

// GetFeedback godoc
// @Summary Per-topic feedback
// @Description Aggregates the posted answers per configured tag and asks the language model for one piece of advice per tag. Model failures degrade the affected line only.
// @Tags feedback
// @Accept json
// @Produce json
// @Security ApiKeyAuth
// @Param records body dto.FeedbackRequest true "Answered questions"
// @Success 200 {object} dto.FeedbackResponse
// @Failure 400 {object} middleware.ValidationErrorResponse
// @Failure 401 {object} middleware.ErrorResponse
// @Failure 500 {object} middleware.ErrorResponse
// @Router /feedback [post]
func (h *FeedbackHandler) GetFeedback(c *fiber.Ctx) error {
	var req dto.FeedbackRequest
	if err := c.BodyParser(&req); err != nil {
		return invalidBody(err)
	}
	records := req.ToDomain()
	if errs := h.validator.ValidateFeedbackRecords(records); len(errs) > 0 {
		return errs
	}

	text, err := h.feedback.Feedback(c.UserContext(), records)
	if err != nil {
		return err
	}
	return c.JSON(dto.FeedbackResponse{Feedback: text})
}
