package handler

import (
	"quiz-trail/internal/dto"
	"quiz-trail/internal/middleware"
	"quiz-trail/internal/service"

	"github.com/gofiber/fiber/v2"
)

// QuestionHandler serves read-only question lookups
type QuestionHandler struct {
	attempts service.AttemptService
}

func NewQuestionHandler(attempts service.AttemptService) *QuestionHandler {
	return &QuestionHandler{attempts: attempts}
}

// GetQuestion godoc
// @Summary Get a question
// @Tags questions
// @Produce json
// @Security ApiKeyAuth
// @Param questionID path int true "Question ID"
// @Success 200 {object} dto.QuestionResponse
// @Failure 400 {object} middleware.ValidationErrorResponse
// @Failure 401 {object} middleware.ErrorResponse
// @Failure 404 {object} middleware.ErrorResponse
// @Router /questions/{questionID} [get]
func (h *QuestionHandler) GetQuestion(c *fiber.Ctx) error {
	id := c.Locals(middleware.ValidatedQuestionIDKey).(int64)

	q, err := h.attempts.GetQuestion(c.UserContext(), id)
	if err != nil {
		return err
	}
	return c.JSON(dto.NewQuestionResponse(q))
}
